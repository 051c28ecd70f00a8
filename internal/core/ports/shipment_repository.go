package ports

import (
	"context"

	"github.com/openfreight/carrier-gateway/internal/core/domain"
)

// ShipmentRepository persists booked shipments so labels and reports stay
// retrievable after the carrier call has returned.
type ShipmentRepository interface {
	Save(ctx context.Context, rec *domain.ShipmentRecord) error
	// FindByShipmentID retrieves a booking by the carrier-issued shipment
	// identification number.
	FindByShipmentID(ctx context.Context, shipmentID string) (*domain.ShipmentRecord, error)
	// FindByTrackingNumber retrieves the booking containing the given
	// package tracking number.
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.ShipmentRecord, error)
	MarkVoided(ctx context.Context, shipmentID string) error
}
