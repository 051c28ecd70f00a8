package service

import (
	"strings"

	"github.com/openfreight/carrier-gateway/internal/core/domain"
	"github.com/openfreight/carrier-gateway/internal/core/ports"
)

// Registry resolves a carrier name to whichever capabilities its adapter
// implements. Populated once at startup, read-only afterwards.
type Registry struct {
	rateFetchers map[string]ports.RateFetcher
	trackers     map[string]ports.Tracker
	shippers     map[string]ports.Shipper
	validators   map[string]ports.AddressValidator
}

func NewRegistry() *Registry {
	return &Registry{
		rateFetchers: make(map[string]ports.RateFetcher),
		trackers:     make(map[string]ports.Tracker),
		shippers:     make(map[string]ports.Shipper),
		validators:   make(map[string]ports.AddressValidator),
	}
}

// Register indexes the adapter under its own name for every capability it
// implements.
func (r *Registry) Register(carrier ports.Carrier) {
	key := normalizeName(carrier.Name())
	if c, ok := carrier.(ports.RateFetcher); ok {
		r.rateFetchers[key] = c
	}
	if c, ok := carrier.(ports.Tracker); ok {
		r.trackers[key] = c
	}
	if c, ok := carrier.(ports.Shipper); ok {
		r.shippers[key] = c
	}
	if c, ok := carrier.(ports.AddressValidator); ok {
		r.validators[key] = c
	}
}

// RateFetcher returns the rate capability for a carrier name.
// ErrUnknownCarrier when no adapter matches at all, ErrUnsupportedOperation
// when the adapter exists but lacks the capability.
func (r *Registry) RateFetcher(name string) (ports.RateFetcher, error) {
	c, ok := r.rateFetchers[normalizeName(name)]
	if !ok {
		return nil, r.capabilityError(name)
	}
	return c, nil
}

func (r *Registry) Tracker(name string) (ports.Tracker, error) {
	c, ok := r.trackers[normalizeName(name)]
	if !ok {
		return nil, r.capabilityError(name)
	}
	return c, nil
}

func (r *Registry) Shipper(name string) (ports.Shipper, error) {
	c, ok := r.shippers[normalizeName(name)]
	if !ok {
		return nil, r.capabilityError(name)
	}
	return c, nil
}

func (r *Registry) AddressValidator(name string) (ports.AddressValidator, error) {
	c, ok := r.validators[normalizeName(name)]
	if !ok {
		return nil, r.capabilityError(name)
	}
	return c, nil
}

// capabilityError distinguishes "no such carrier" from "carrier exists but
// cannot do this".
func (r *Registry) capabilityError(name string) error {
	key := normalizeName(name)
	_, rate := r.rateFetchers[key]
	_, track := r.trackers[key]
	_, ship := r.shippers[key]
	_, validate := r.validators[key]
	if rate || track || ship || validate {
		return domain.ErrUnsupportedOperation
	}
	return domain.ErrUnknownCarrier
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
