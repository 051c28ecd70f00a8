package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/openfreight/carrier-gateway/internal/core/domain"
)

// FeedRecorder is the default shipped-feed sink: it records each new entry
// in the structured log for downstream collectors. Implements
// ports.ShippedEventSink.
type FeedRecorder struct {
	log zerolog.Logger
}

func NewFeedRecorder(log zerolog.Logger) *FeedRecorder {
	return &FeedRecorder{log: log}
}

func (r *FeedRecorder) Process(_ context.Context, event domain.ShippedEvent) error {
	r.log.Info().
		Str("tracking_number", event.TrackingNumber).
		Time("shipped_at", event.ShippedAt).
		Msg("package shipped")
	return nil
}
