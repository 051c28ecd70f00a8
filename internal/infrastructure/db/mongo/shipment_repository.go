package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openfreight/carrier-gateway/internal/core/domain"
)

const collectionShipments = "shipments"

// ShipmentRepository persists booked shipments so labels and reports can be
// served after the carrier call has returned.
type ShipmentRepository struct {
	col *mongo.Collection
}

func NewShipmentRepository(db *mongo.Database) *ShipmentRepository {
	return &ShipmentRepository{col: db.Collection(collectionShipments)}
}

// Save inserts the record of an accepted booking.
func (r *ShipmentRepository) Save(ctx context.Context, rec *domain.ShipmentRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, rec)
	return err
}

// FindByShipmentID retrieves a booking by the carrier-issued shipment
// identification number.
func (r *ShipmentRepository) FindByShipmentID(ctx context.Context, shipmentID string) (*domain.ShipmentRecord, error) {
	return r.findOne(ctx, bson.M{"shipment_id": shipmentID})
}

// FindByTrackingNumber retrieves the booking containing the given package
// tracking number.
func (r *ShipmentRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.ShipmentRecord, error) {
	return r.findOne(ctx, bson.M{"packages.tracking_number": trackingNumber})
}

// MarkVoided flags a booking as cancelled.
func (r *ShipmentRepository) MarkVoided(ctx context.Context, shipmentID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"shipment_id": shipmentID},
		bson.M{"$set": bson.M{"voided": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrShipmentNotFound
	}
	return nil
}

func (r *ShipmentRepository) findOne(ctx context.Context, filter bson.M) (*domain.ShipmentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec domain.ShipmentRecord
	if err := r.col.FindOne(ctx, filter).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, err
	}
	return &rec, nil
}
