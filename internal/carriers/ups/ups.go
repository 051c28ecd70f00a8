// Package ups implements the UPS XML web-service adapter: rate shopping,
// tracking, two-phase shipment booking (confirm/accept), void, address
// validation and the QuantumView shipment-event feed.
package ups

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/openfreight/carrier-gateway/internal/carriers"
	"github.com/openfreight/carrier-gateway/internal/core/domain"
	"github.com/openfreight/carrier-gateway/internal/core/ports"
)

const (
	carrierName = "UPS"

	liveURL = "https://onlinetools.ups.com"
	testURL = "https://wwwcie.ups.com"
)

// resources maps an action to its path under the service root.
var resources = map[string]string{
	"rates":              "ups.app/xml/Rate",
	"track":              "ups.app/xml/Track",
	"ship_confirm":       "ups.app/xml/ShipConfirm",
	"ship_accept":        "ups.app/xml/ShipAccept",
	"ship_void":          "ups.app/xml/Void",
	"address_validation": "ups.app/xml/XAV",
	"quantum_view":       "ups.app/xml/QVEvents",
}

// Credentials are the UPS access-request fields. ShipperNumber is only
// needed for account-bound operations (negotiated rates, booking).
type Credentials struct {
	AccessKey     string `validate:"required"`
	UserID        string `validate:"required"`
	Password      string `validate:"required"`
	ShipperNumber string
}

// Carrier is the UPS adapter. All network traffic goes through the injected
// Committer; the adapter itself only builds and interprets payloads.
type Carrier struct {
	creds     Credentials
	committer ports.Committer
	testMode  bool
}

// Option configures a Carrier at construction time.
type Option func(*Carrier)

// WithTestMode routes every call to the UPS customer integration
// environment instead of production.
func WithTestMode(enabled bool) Option {
	return func(c *Carrier) { c.testMode = enabled }
}

// New validates the credentials and returns a ready adapter.
func New(creds Credentials, committer ports.Committer, opts ...Option) (*Carrier, error) {
	if err := validator.New().Struct(creds); err != nil {
		return nil, fmt.Errorf("ups: invalid credentials: %w", err)
	}
	c := &Carrier{creds: creds, committer: committer}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name implements ports.Carrier.
func (c *Carrier) Name() string { return carrierName }

// RetrySafe implements ports.Carrier. UPS XML endpoints are idempotent under
// network-level retry.
func (c *Carrier) RetrySafe() bool { return true }

// accessRequest is the authentication document prepended to every call.
type accessRequest struct {
	XMLName             xml.Name `xml:"AccessRequest"`
	AccessLicenseNumber string   `xml:"AccessLicenseNumber"`
	UserID              string   `xml:"UserId"`
	Password            string   `xml:"Password"`
}

const xmlProlog = "<?xml version='1.0'?>"

// buildRequest marshals the access document and the action document into the
// dual-document payload UPS expects. withProlog reproduces the prolog
// placement the Void/XAV/QVEvents endpoints require.
func (c *Carrier) buildRequest(action any, withProlog bool) (string, error) {
	access, err := xml.Marshal(accessRequest{
		AccessLicenseNumber: c.creds.AccessKey,
		UserID:              c.creds.UserID,
		Password:            c.creds.Password,
	})
	if err != nil {
		return "", fmt.Errorf("ups: marshal access request: %w", err)
	}
	body, err := xml.Marshal(action)
	if err != nil {
		return "", fmt.Errorf("ups: marshal request: %w", err)
	}
	if withProlog {
		return xmlProlog + string(access) + xmlProlog + string(body), nil
	}
	return string(access) + string(body), nil
}

// commit sends a built payload to the endpoint for the given action.
func (c *Carrier) commit(ctx context.Context, action, payload string) (string, error) {
	base := liveURL
	if c.testMode {
		base = testURL
	}
	return c.committer.Commit(ctx, base+"/"+resources[action], payload)
}

// responseStatus is the envelope every UPS response carries. A status code
// of "1" is the single success path; everything else is a business failure.
type responseStatus struct {
	StatusCode        string `xml:"ResponseStatusCode"`
	StatusDescription string `xml:"ResponseStatusDescription"`
	Error             struct {
		Description string `xml:"ErrorDescription"`
	} `xml:"Error"`
}

func (s responseStatus) success() bool {
	return s.StatusCode == "1"
}

// message extracts a human-readable description regardless of outcome,
// preferring the error description over the generic status text.
func (s responseStatus) message() string {
	if s.Error.Description != "" {
		return s.Error.Description
	}
	if s.StatusDescription != "" {
		return s.StatusDescription
	}
	return "UPS did not provide a response description"
}

// newResponse assembles the normalized base Response shared by all parsers.
func newResponse(status responseStatus, raw, request string) domain.Response {
	params, _ := carriers.Flatten(raw)
	return domain.Response{
		Success: status.success(),
		Message: status.message(),
		Params:  params,
		Raw:     raw,
		Request: request,
	}
}

// malformed wraps an unmarshal failure in the sentinel the caller can test
// with errors.Is.
func malformed(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
}
