package ports

import (
	"context"

	"github.com/openfreight/carrier-gateway/internal/core/domain"
)

// ShippedEventSink consumes deduplicated entries from a carrier's
// shipment-event feed.
type ShippedEventSink interface {
	Process(ctx context.Context, event domain.ShippedEvent) error
}
