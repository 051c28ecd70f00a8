package domain

import "time"

// Response is the normalized outcome of one carrier call. Success=false with
// a populated Message is a carrier-reported business failure, a normal result
// value. Wire payloads that cannot be parsed at all never produce a Response;
// they surface as ErrMalformedResponse.
type Response struct {
	Success bool
	Message string
	// Params holds the response document flattened to leaf-path → text, for
	// callers that need a field the typed variants do not expose.
	Params map[string]string
	// Raw is the wire payload as received; Request the payload that was sent.
	Raw     string
	Request string
}

// RateResponse carries the quotes extracted from one rate call (or, for
// per-package carriers, the aggregated result of several).
type RateResponse struct {
	Response
	Rates []RateEstimate
}

// TrackingResponse carries a shipment's scan history.
type TrackingResponse struct {
	Response
	TrackingNumber string
	Origin         *Location
	Destination    *Location
	Events         []ShipmentEvent
}

// ConfirmationResponse is the first half of a two-phase shipment booking.
// Digest is an opaque token echoed back verbatim in the acceptance call.
type ConfirmationResponse struct {
	Response
	TotalCost      float64
	Currency       string
	ShipmentID     string
	ShipmentDigest string
}

// PackageResult is one booked package from an acceptance response, with its
// label decoded from the carrier's base64 payloads.
type PackageResult struct {
	TrackingNumber string
	LabelImage     []byte // raster label (GIF)
	LabelHTML      []byte
}

// AcceptanceResponse is the second half of a shipment booking. The response
// owns the decoded label bytes; callers copy what they keep.
type AcceptanceResponse struct {
	Response
	TotalCost  float64
	Currency   string
	ShipmentID string
	Packages   []PackageResult

	highValueReport []byte
}

// SetHighValueReport attaches the optional high-value report to an
// acceptance response. An empty report means the carrier produced none.
func (r *AcceptanceResponse) SetHighValueReport(b []byte) {
	r.highValueReport = b
}

// Label returns the decoded label payloads for one of the booked packages.
// Returns ErrUnknownTrackingNumber when the number is not part of this
// shipment; this is a local lookup failure, not a carrier error.
func (r *AcceptanceResponse) Label(trackingNumber string) (PackageResult, error) {
	for _, p := range r.Packages {
		if p.TrackingNumber == trackingNumber {
			return p, nil
		}
	}
	return PackageResult{}, ErrUnknownTrackingNumber
}

// HighValueReport returns the decoded high-value report, or
// ErrNoHighValueReport when the carrier did not generate one.
func (r *AcceptanceResponse) HighValueReport() ([]byte, error) {
	if len(r.highValueReport) == 0 {
		return nil, ErrNoHighValueReport
	}
	return r.highValueReport, nil
}

// VoidResponse reports whether a booked shipment was cancelled.
type VoidResponse struct {
	Response
	Voided bool
}

// ValidationIndicator is the 3-way outcome of an address validation call.
type ValidationIndicator string

const (
	IndicatorValid        ValidationIndicator = "valid"
	IndicatorAmbiguous    ValidationIndicator = "ambiguous"
	IndicatorNoCandidates ValidationIndicator = "no_candidates"
)

// AddressValidationResponse carries the carrier's verdict on an address. In
// strict mode the indicator may have been downgraded to no_candidates when
// the echoed address no longer matched the submitted one.
type AddressValidationResponse struct {
	Response
	Indicator ValidationIndicator
}

// QuantumViewResponse is one page of a shipment-event feed. ShippedInfo maps
// tracking number to ship timestamp; Bookmark is non-empty only when more
// pages remain. The final page of a paginated fetch carries the cumulative
// mapping.
type QuantumViewResponse struct {
	Response
	ShippedInfo map[string]time.Time
	Bookmark    string
}
