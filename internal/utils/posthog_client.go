package utils

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// PosthogClientWrapper guards a posthog.Client behind nil checks so the rest
// of the application never branches on whether analytics is configured.
type PosthogClientWrapper struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

// InitializePosthogClient returns a live wrapper when an API key is set and a
// no-op wrapper otherwise.
func InitializePosthogClient(apiKey string, logger *slog.Logger) *PosthogClientWrapper {
	w := &PosthogClientWrapper{logger: logger}
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, analytics disabled.")
		return w
	}

	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: "https://eu.i.posthog.com"})
	if err != nil {
		logger.Warn("Posthog client init failed, analytics disabled.", slog.String("error", err.Error()))
		return w
	}
	w.posthogClient = client
	return w
}

func (w *PosthogClientWrapper) IsInitialized() bool {
	return w.posthogClient != nil
}

// Enqueue submits one capture event. Calls on an uninitialized wrapper are
// silently dropped.
func (w *PosthogClientWrapper) Enqueue(distinctID string, event string, properties map[string]any) {
	if w.posthogClient == nil {
		return
	}
	if err := w.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	}); err != nil && w.logger != nil {
		w.logger.Warn("Failed to enqueue analytics event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

func (w *PosthogClientWrapper) Close() {
	if w.posthogClient == nil {
		return
	}
	if err := w.posthogClient.Close(); err != nil && w.logger != nil {
		w.logger.Warn("Failed to close analytics client", slog.String("error", err.Error()))
	}
}
