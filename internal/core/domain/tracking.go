package domain

import "time"

// ShipmentEvent is one scan/activity record in a tracking history.
// Time is nil when the carrier reported no usable timestamp, and Location is
// nil when no address accompanied the scan. Tracking results order events by
// timestamp ascending.
type ShipmentEvent struct {
	Description string
	Time        *time.Time
	Location    *Location
}
