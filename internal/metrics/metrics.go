package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "subplay"

// Metrics groups the counters the player records. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	documentLoads   *prometheus.CounterVec
	parsedEvents    prometheus.Gauge
	updates         prometheus.Counter
	frames          prometheus.Counter
	subtitleChanges prometheus.Counter
	translations    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.documentLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "document_loads_total",
		Help:      "Subtitle documents loaded, by the source that served them",
	}, []string{"source"})
	m.parsedEvents = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "parsed_events",
		Help:      "Dialogue events in the current document",
	})
	m.updates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "playback_updates_total",
		Help:      "Playback position updates received from the host",
	})
	m.frames = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_rendered_total",
		Help:      "Overlay frames handed to the renderer",
	})
	m.subtitleChanges = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "subtitle_changes_total",
		Help:      "Times the active subtitle changed",
	})
	m.translations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "translation_batches_total",
		Help:      "Caption translation batches by provider and status",
	}, []string{"provider", "status"})

	m.registry.MustRegister(
		m.documentLoads, m.parsedEvents, m.updates,
		m.frames, m.subtitleChanges, m.translations,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) DocumentLoaded(source string, events int) {
	if m == nil {
		return
	}
	m.documentLoads.WithLabelValues(source).Inc()
	m.parsedEvents.Set(float64(events))
}

func (m *Metrics) PlaybackUpdate() {
	if m == nil {
		return
	}
	m.updates.Inc()
}

func (m *Metrics) FrameRendered(changed bool) {
	if m == nil {
		return
	}
	m.frames.Inc()
	if changed {
		m.subtitleChanges.Inc()
	}
}

func (m *Metrics) TranslationBatch(provider string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.translations.WithLabelValues(provider, status).Inc()
}

// Handler serves /metrics and /healthz.
func (m *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Serve exposes the handler on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
