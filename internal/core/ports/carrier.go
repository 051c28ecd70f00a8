package ports

import (
	"context"

	"github.com/openfreight/carrier-gateway/internal/core/domain"
)

// Committer is the outbound transport port: deliver one already-built wire
// payload to a carrier endpoint and hand back the raw response body. Retry,
// backoff and TLS concerns live behind this interface; carrier adapters only
// interpret the strings that cross it.
type Committer interface {
	Commit(ctx context.Context, url, payload string) (string, error)
}

// Carrier is the identity every adapter shares. RetrySafe declares whether
// the carrier's endpoints are idempotent under network-level retry; the
// transport collaborator consumes it, this layer never enforces it.
type Carrier interface {
	Name() string
	RetrySafe() bool
}

// RateOptions carries the per-call knobs for a rate request.
type RateOptions struct {
	// PickupType selects the carrier pickup-code table entry. Empty means the
	// carrier default (daily pickup for UPS).
	PickupType string
	// CustomerClassification overrides the classification derived from the
	// pickup type.
	CustomerClassification string
	// Shipper, when set and different from the origin, is emitted as the
	// paying party with the origin demoted to a ship-from node.
	Shipper *domain.Location
	// OriginAccount / DestinationAccount are carrier account numbers attached
	// to the shipper / recipient nodes when present.
	OriginAccount      string
	DestinationAccount string
	// Service restricts the quote to one service code (PeriShip).
	Service string
	// SignatureType, SaturdayDelivery and ShipDate are passed through to
	// carriers that price them (PeriShip).
	SignatureType    string
	SaturdayDelivery bool
	ShipDate         string
}

// RateFetcher quotes a shipment. Implementations that can only price one
// package per call aggregate internally and still return a single response.
type RateFetcher interface {
	Carrier
	FindRates(ctx context.Context, origin, destination domain.Location, packages []domain.Package, opts RateOptions) (*domain.RateResponse, error)
}

// Tracker retrieves a shipment's scan history.
type Tracker interface {
	Carrier
	FindTracking(ctx context.Context, trackingNumber string) (*domain.TrackingResponse, error)
}

// ShipmentParty describes one party on a shipment booking.
type ShipmentParty struct {
	Name          string
	CompanyName   string
	AttentionName string
	Phone         string
	Email         string
	AccountNumber string
	Address       domain.Location
}

// ShipmentSpec is everything a booking needs: the parties, the packages and
// the chosen service.
type ShipmentSpec struct {
	Shipper     ShipmentParty
	Origin      ShipmentParty
	Destination ShipmentParty
	Packages    []domain.Package
	ServiceCode string
}

// VoidSpec identifies a booking to cancel. TrackingNumbers is optional; when
// present the carrier voids individual packages instead of the whole
// shipment.
type VoidSpec struct {
	ShipmentID      string
	TrackingNumbers []string
}

// Shipper books and cancels shipments through the carrier's two-phase
// confirm/accept flow.
type Shipper interface {
	Carrier
	ConfirmShipment(ctx context.Context, spec ShipmentSpec) (*domain.ConfirmationResponse, error)
	AcceptShipment(ctx context.Context, digest string) (*domain.AcceptanceResponse, error)
	VoidShipment(ctx context.Context, spec VoidSpec) (*domain.VoidResponse, error)
}

// AddressValidator checks a candidate address. Strict mode re-verifies the
// carrier's echoed fields against the submitted ones and downgrades the
// indicator on mismatch.
type AddressValidator interface {
	Carrier
	ValidateAddress(ctx context.Context, location domain.Location, strict bool) (*domain.AddressValidationResponse, error)
}

// FeedReader drains the carrier's paginated shipment-event feed and returns
// the cumulative mapping.
type FeedReader interface {
	Carrier
	FetchShippedFeed(ctx context.Context) (*domain.QuantumViewResponse, error)
}
