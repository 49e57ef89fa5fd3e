package source

import (
	"context"
	"fmt"
	"os"
)

// local bundled asset on disk
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string {
	return "file"
}

func (s *FileSource) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Path == "" {
		return "", fmt.Errorf("no asset path configured")
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read subtitle asset: %w", err)
	}
	return string(data), nil
}
