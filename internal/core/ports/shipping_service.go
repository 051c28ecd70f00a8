package ports

import (
	"context"

	"github.com/openfreight/carrier-gateway/internal/core/domain"
)

// BookShipmentResult is the DTO the service layer hands back after a
// confirm+accept booking.
type BookShipmentResult struct {
	ShipmentID      string
	TotalCost       float64
	Currency        string
	TrackingNumbers []string
}

// LabelFiles carries the decoded label payloads for one package.
type LabelFiles struct {
	TrackingNumber string
	Image          []byte
	HTML           []byte
}

// ShippingService orchestrates carrier bookings and local label retrieval.
type ShippingService interface {
	// BookShipment runs the two-phase confirm/accept flow against the named
	// carrier and persists the accepted packages. A carrier-reported business
	// failure surfaces as *domain.CarrierRejection so the API layer can
	// render it with the carrier's own message.
	BookShipment(ctx context.Context, carrier string, spec ShipmentSpec) (*BookShipmentResult, error)
	// VoidShipment cancels a booking and marks the stored record voided.
	VoidShipment(ctx context.Context, carrier string, spec VoidSpec) (*domain.VoidResponse, error)
	// GetLabel returns the persisted label payloads for a tracking number.
	GetLabel(ctx context.Context, trackingNumber string) (*LabelFiles, error)
	// GetHighValueReport returns the persisted high-value report for a
	// carrier shipment id.
	GetHighValueReport(ctx context.Context, shipmentID string) ([]byte, error)
}
