package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/openfreight/carrier-gateway/internal/api/metrics"
	"github.com/openfreight/carrier-gateway/internal/core/domain"
	"github.com/openfreight/carrier-gateway/internal/core/ports"
	"github.com/openfreight/carrier-gateway/internal/infrastructure/db/redis"
)

// FeedPoller periodically drains a carrier's shipment-event feed, skips
// entries already dispatched in earlier polls, and hands new ones to the
// dispatcher.
type FeedPoller struct {
	reader     ports.FeedReader
	dedup      *redis.FeedDedup
	dispatcher *Dispatcher
	interval   time.Duration
	log        zerolog.Logger
}

func NewFeedPoller(reader ports.FeedReader, dedup *redis.FeedDedup, dispatcher *Dispatcher, interval time.Duration, log zerolog.Logger) *FeedPoller {
	return &FeedPoller{
		reader:     reader,
		dedup:      dedup,
		dispatcher: dispatcher,
		interval:   interval,
		log:        log,
	}
}

// Run polls the feed until ctx is cancelled. The first poll happens
// immediately.
func (p *FeedPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.poll(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *FeedPoller) poll(ctx context.Context) {
	feed, err := p.reader.FetchShippedFeed(ctx)
	if err != nil {
		metrics.FeedPollErrorsTotal.WithLabelValues(p.reader.Name()).Inc()
		p.log.Error().Err(err).Str("carrier", p.reader.Name()).Msg("feed poll failed")
		return
	}
	if !feed.Success {
		metrics.FeedPollErrorsTotal.WithLabelValues(p.reader.Name()).Inc()
		p.log.Warn().Str("carrier", p.reader.Name()).Str("message", feed.Message).
			Msg("carrier rejected feed request")
		return
	}

	for trackingNumber, shippedAt := range feed.ShippedInfo {
		seen, err := p.dedup.Seen(ctx, trackingNumber, shippedAt)
		if err != nil {
			p.log.Error().Err(err).Str("tracking_number", trackingNumber).Msg("feed dedup check failed")
			continue
		}
		if seen {
			metrics.FeedDedupTotal.WithLabelValues("hit").Inc()
			continue
		}
		metrics.FeedDedupTotal.WithLabelValues("miss").Inc()

		p.dispatcher.Enqueue(domain.ShippedEvent{TrackingNumber: trackingNumber, ShippedAt: shippedAt})
		if err := p.dedup.Mark(ctx, trackingNumber, shippedAt); err != nil {
			p.log.Error().Err(err).Str("tracking_number", trackingNumber).Msg("feed dedup mark failed")
		}
	}
	metrics.FeedEntriesTotal.WithLabelValues(p.reader.Name()).Add(float64(len(feed.ShippedInfo)))
}
