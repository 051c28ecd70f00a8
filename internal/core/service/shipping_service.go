package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/openfreight/carrier-gateway/internal/api/metrics"
	"github.com/openfreight/carrier-gateway/internal/core/domain"
	"github.com/openfreight/carrier-gateway/internal/core/ports"
)

// ShippingService orchestrates the two-phase booking flow and serves label
// lookups from the shipment store. Implements ports.ShippingService.
type ShippingService struct {
	registry *Registry
	repo     ports.ShipmentRepository
	log      zerolog.Logger
}

func NewShippingService(registry *Registry, repo ports.ShipmentRepository, log zerolog.Logger) *ShippingService {
	return &ShippingService{registry: registry, repo: repo, log: log}
}

// BookShipment runs confirm→accept against the named carrier and persists
// the accepted packages with their decoded labels. A carrier rejection at
// either stage is surfaced as *domain.CarrierRejection with the carrier's
// own message; nothing is persisted for rejected bookings.
func (s *ShippingService) BookShipment(ctx context.Context, carrier string, spec ports.ShipmentSpec) (*ports.BookShipmentResult, error) {
	shipper, err := s.registry.Shipper(carrier)
	if err != nil {
		return nil, err
	}

	confirmation, err := shipper.ConfirmShipment(ctx, spec)
	if err != nil {
		metrics.CarrierCallsTotal.WithLabelValues(shipper.Name(), "book", "error").Inc()
		return nil, err
	}
	if !confirmation.Success {
		metrics.CarrierCallsTotal.WithLabelValues(shipper.Name(), "book", "rejected").Inc()
		return nil, &domain.CarrierRejection{Carrier: shipper.Name(), Stage: "confirm", Message: confirmation.Message}
	}

	acceptance, err := shipper.AcceptShipment(ctx, confirmation.ShipmentDigest)
	if err != nil {
		metrics.CarrierCallsTotal.WithLabelValues(shipper.Name(), "book", "error").Inc()
		return nil, err
	}
	if !acceptance.Success {
		metrics.CarrierCallsTotal.WithLabelValues(shipper.Name(), "book", "rejected").Inc()
		return nil, &domain.CarrierRejection{Carrier: shipper.Name(), Stage: "accept", Message: acceptance.Message}
	}

	record := &domain.ShipmentRecord{
		Carrier:    shipper.Name(),
		ShipmentID: acceptance.ShipmentID,
		TotalCost:  acceptance.TotalCost,
		Currency:   acceptance.Currency,
		CreatedAt:  time.Now().UTC(),
	}
	result := &ports.BookShipmentResult{
		ShipmentID: acceptance.ShipmentID,
		TotalCost:  acceptance.TotalCost,
		Currency:   acceptance.Currency,
	}
	for _, pkg := range acceptance.Packages {
		record.Packages = append(record.Packages, domain.LabelRecord{
			TrackingNumber: pkg.TrackingNumber,
			LabelImage:     pkg.LabelImage,
			LabelHTML:      pkg.LabelHTML,
		})
		result.TrackingNumbers = append(result.TrackingNumbers, pkg.TrackingNumber)
	}
	if report, err := acceptance.HighValueReport(); err == nil {
		record.HighValueReport = report
	}

	if err := s.repo.Save(ctx, record); err != nil {
		// The booking exists at the carrier; losing the local record must
		// not look like a failed booking.
		s.log.Error().Err(err).Str("shipment_id", record.ShipmentID).Msg("failed to persist booked shipment")
	}

	metrics.CarrierCallsTotal.WithLabelValues(shipper.Name(), "book", "ok").Inc()
	metrics.BookingsTotal.WithLabelValues(shipper.Name()).Inc()
	return result, nil
}

// VoidShipment cancels a booking and marks the stored record voided when the
// carrier confirms the cancellation.
func (s *ShippingService) VoidShipment(ctx context.Context, carrier string, spec ports.VoidSpec) (*domain.VoidResponse, error) {
	shipper, err := s.registry.Shipper(carrier)
	if err != nil {
		return nil, err
	}
	response, err := shipper.VoidShipment(ctx, spec)
	if err != nil {
		metrics.CarrierCallsTotal.WithLabelValues(shipper.Name(), "void", "error").Inc()
		return nil, err
	}
	outcome := "rejected"
	if response.Success {
		outcome = "ok"
	}
	metrics.CarrierCallsTotal.WithLabelValues(shipper.Name(), "void", outcome).Inc()

	if response.Success && response.Voided {
		if err := s.repo.MarkVoided(ctx, spec.ShipmentID); err != nil {
			s.log.Warn().Err(err).Str("shipment_id", spec.ShipmentID).Msg("could not flag stored shipment as voided")
		}
	}
	return response, nil
}

// GetLabel returns the persisted label payloads for a tracking number.
func (s *ShippingService) GetLabel(ctx context.Context, trackingNumber string) (*ports.LabelFiles, error) {
	record, err := s.repo.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}
	for _, pkg := range record.Packages {
		if pkg.TrackingNumber == trackingNumber {
			return &ports.LabelFiles{
				TrackingNumber: pkg.TrackingNumber,
				Image:          pkg.LabelImage,
				HTML:           pkg.LabelHTML,
			}, nil
		}
	}
	return nil, domain.ErrUnknownTrackingNumber
}

// GetHighValueReport returns the persisted high-value report for a carrier
// shipment id, or ErrNoHighValueReport when the carrier produced none.
func (s *ShippingService) GetHighValueReport(ctx context.Context, shipmentID string) ([]byte, error) {
	record, err := s.repo.FindByShipmentID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if len(record.HighValueReport) == 0 {
		return nil, domain.ErrNoHighValueReport
	}
	return record.HighValueReport, nil
}
