package service

import (
	"context"
	"errors"
	"testing"

	"github.com/openfreight/carrier-gateway/internal/core/domain"
	"github.com/openfreight/carrier-gateway/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub carriers
// ---------------------------------------------------------------------------

// ratesOnlyCarrier implements only the rate capability.
type ratesOnlyCarrier struct {
	name string
}

func (c *ratesOnlyCarrier) Name() string    { return c.name }
func (c *ratesOnlyCarrier) RetrySafe() bool { return true }

func (c *ratesOnlyCarrier) FindRates(context.Context, domain.Location, domain.Location, []domain.Package, ports.RateOptions) (*domain.RateResponse, error) {
	return &domain.RateResponse{Response: domain.Response{Success: true}}, nil
}

// fullCarrier implements every capability.
type fullCarrier struct {
	ratesOnlyCarrier

	confirmResponse *domain.ConfirmationResponse
	confirmErr      error
	acceptResponse  *domain.AcceptanceResponse
	acceptErr       error
	voidResponse    *domain.VoidResponse
	voidErr         error

	confirmedSpecs []ports.ShipmentSpec
	acceptedDigest string
}

func (c *fullCarrier) FindTracking(context.Context, string) (*domain.TrackingResponse, error) {
	return &domain.TrackingResponse{Response: domain.Response{Success: true}}, nil
}

func (c *fullCarrier) ConfirmShipment(_ context.Context, spec ports.ShipmentSpec) (*domain.ConfirmationResponse, error) {
	c.confirmedSpecs = append(c.confirmedSpecs, spec)
	return c.confirmResponse, c.confirmErr
}

func (c *fullCarrier) AcceptShipment(_ context.Context, digest string) (*domain.AcceptanceResponse, error) {
	c.acceptedDigest = digest
	return c.acceptResponse, c.acceptErr
}

func (c *fullCarrier) VoidShipment(context.Context, ports.VoidSpec) (*domain.VoidResponse, error) {
	return c.voidResponse, c.voidErr
}

func (c *fullCarrier) ValidateAddress(context.Context, domain.Location, bool) (*domain.AddressValidationResponse, error) {
	return &domain.AddressValidationResponse{Indicator: domain.IndicatorValid}, nil
}

// ---------------------------------------------------------------------------
// Registry tests
// ---------------------------------------------------------------------------

func TestRegistry_CapabilityLookup(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fullCarrier{ratesOnlyCarrier: ratesOnlyCarrier{name: "UPS"}})
	reg.Register(&ratesOnlyCarrier{name: "PeriShip"})

	if _, err := reg.RateFetcher("UPS"); err != nil {
		t.Errorf("UPS rates: %v", err)
	}
	if _, err := reg.Shipper("UPS"); err != nil {
		t.Errorf("UPS booking: %v", err)
	}
	if _, err := reg.RateFetcher("PeriShip"); err != nil {
		t.Errorf("PeriShip rates: %v", err)
	}
}

func TestRegistry_NameMatchingIsCaseInsensitive(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&ratesOnlyCarrier{name: "UPS"})

	for _, name := range []string{"ups", "UPS", " Ups "} {
		if _, err := reg.RateFetcher(name); err != nil {
			t.Errorf("lookup %q: %v", name, err)
		}
	}
}

func TestRegistry_UnsupportedOperation(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&ratesOnlyCarrier{name: "PeriShip"})

	_, err := reg.Tracker("PeriShip")
	if !errors.Is(err, domain.ErrUnsupportedOperation) {
		t.Errorf("known carrier without the capability: got %v, want ErrUnsupportedOperation", err)
	}
	_, err = reg.Shipper("PeriShip")
	if !errors.Is(err, domain.ErrUnsupportedOperation) {
		t.Errorf("known carrier without the capability: got %v, want ErrUnsupportedOperation", err)
	}
}

func TestRegistry_UnknownCarrier(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&ratesOnlyCarrier{name: "PeriShip"})

	_, err := reg.RateFetcher("DHL")
	if !errors.Is(err, domain.ErrUnknownCarrier) {
		t.Errorf("unknown carrier: got %v, want ErrUnknownCarrier", err)
	}
}
