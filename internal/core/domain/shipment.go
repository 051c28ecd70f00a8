package domain

import "time"

// LabelRecord is one booked package persisted after acceptance, keeping the
// decoded label payloads retrievable after the carrier call has returned.
type LabelRecord struct {
	TrackingNumber string `bson:"tracking_number"`
	LabelImage     []byte `bson:"label_image"`
	LabelHTML      []byte `bson:"label_html"`
}

// ShipmentRecord is the persisted outcome of a confirm+accept booking.
type ShipmentRecord struct {
	ID              string        `bson:"_id,omitempty"`
	Carrier         string        `bson:"carrier"`
	ShipmentID      string        `bson:"shipment_id"`
	TotalCost       float64       `bson:"total_cost"`
	Currency        string        `bson:"currency"`
	Packages        []LabelRecord `bson:"packages"`
	HighValueReport []byte        `bson:"high_value_report,omitempty"`
	Voided          bool          `bson:"voided"`
	CreatedAt       time.Time     `bson:"created_at"`
}
