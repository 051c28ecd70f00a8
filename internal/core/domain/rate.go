package domain

import "time"

// RateEstimate is one priced quote for shipping the full package list via a
// single carrier service. ServiceCode is unique within one carrier response.
type RateEstimate struct {
	Origin      Location
	Destination Location
	Carrier     string
	ServiceName string
	ServiceCode string
	TotalPrice  float64
	Currency    string
	Packages    []Package
	// DeliveryRange holds the estimated delivery dates, earliest first.
	// Empty when the carrier gave no usable transit figure.
	DeliveryRange []time.Time
}
