package domain

import "errors"

// ErrMalformedResponse marks a wire payload that could not be parsed as the
// carrier's documented schema. Distinct from a carrier-reported business
// failure, which is a normal Response with Success=false.
var ErrMalformedResponse = errors.New("malformed carrier response")

// ErrUnknownTrackingNumber is returned by local label lookups for a tracking
// number that is not part of the parsed shipment.
var ErrUnknownTrackingNumber = errors.New("unknown tracking number")

// ErrNoHighValueReport is returned when a high-value report is requested but
// the carrier did not generate one for the shipment.
var ErrNoHighValueReport = errors.New("no high value report for shipment")

// ErrShipmentNotFound is returned by the shipment store when no record
// exists for the requested identifier.
var ErrShipmentNotFound = errors.New("shipment not found")

// ErrUnknownCarrier is returned when a request names a carrier the gateway
// has no adapter for.
var ErrUnknownCarrier = errors.New("unknown carrier")

// ErrUnsupportedOperation is returned when a carrier adapter does not
// implement the requested capability (e.g. tracking via a rates-only
// carrier).
var ErrUnsupportedOperation = errors.New("operation not supported by carrier")

// CarrierRejection wraps a carrier-reported business failure when an
// orchestrated flow (e.g. confirm→accept) cannot continue past it. The
// adapter layer itself never raises this; it returns Success=false results.
type CarrierRejection struct {
	Carrier string
	Stage   string // "confirm", "accept", "void", ...
	Message string
}

func (e *CarrierRejection) Error() string {
	return e.Carrier + " " + e.Stage + " rejected: " + e.Message
}
