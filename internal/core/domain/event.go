package domain

import "time"

// ShippedEvent is one entry from a carrier's shipment-event feed: a package
// handed to the carrier, with the carrier-reported ship timestamp.
type ShippedEvent struct {
	TrackingNumber string
	ShippedAt      time.Time
}
