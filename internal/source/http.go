package source

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// maxDocumentSize caps remote downloads; scripts are small text files.
const maxDocumentSize = 8 << 20

// remote subtitle fetched over HTTP(S)
type HTTPSource struct {
	URL    string
	client *http.Client
}

func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = NewHTTPClient(30 * time.Second)
	}
	return &HTTPSource{URL: url, client: client}
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

func (s *HTTPSource) Name() string {
	return "remote"
}

func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	if s.URL == "" {
		return "", fmt.Errorf("no subtitle URL configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf("build subtitle request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download subtitles: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("download subtitles: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return "", fmt.Errorf("read subtitle body: %w", err)
	}
	return string(body), nil
}
