package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openfreight/carrier-gateway/internal/api/metrics"
	"github.com/openfreight/carrier-gateway/internal/core/domain"
	"github.com/openfreight/carrier-gateway/internal/core/service"
)

// TrackingHandler handles HTTP requests for shipment tracking.
type TrackingHandler struct {
	registry *service.Registry
}

func NewTrackingHandler(registry *service.Registry) *TrackingHandler {
	return &TrackingHandler{registry: registry}
}

type trackingEventResponse struct {
	Description string            `json:"description"`
	Time        string            `json:"time,omitempty"`
	Location    *locationResponse `json:"location,omitempty"`
}

type locationResponse struct {
	Country    string `json:"country,omitempty"`
	Province   string `json:"province,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

type trackingResponse struct {
	Carrier        string                  `json:"carrier"`
	TrackingNumber string                  `json:"tracking_number"`
	Success        bool                    `json:"success"`
	Message        string                  `json:"message,omitempty"`
	Origin         *locationResponse       `json:"origin,omitempty"`
	Destination    *locationResponse       `json:"destination,omitempty"`
	Events         []trackingEventResponse `json:"events"`
}

func locationToResponse(l *domain.Location) *locationResponse {
	if l == nil {
		return nil
	}
	return &locationResponse{
		Country:    l.Country,
		Province:   l.Province,
		City:       l.City,
		PostalCode: l.PostalCode,
	}
}

// Get handles GET /v1/tracking/:carrier/:tracking_number.
func (h *TrackingHandler) Get(c echo.Context) error {
	carrierName := c.Param("carrier")
	trackingNumber := c.Param("tracking_number")
	if trackingNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "tracking number is required")
	}

	tracker, err := h.registry.Tracker(carrierName)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := tracker.FindTracking(c.Request().Context(), trackingNumber)
	metrics.CarrierCallDuration.WithLabelValues(tracker.Name(), "tracking").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CarrierCallsTotal.WithLabelValues(tracker.Name(), "tracking", "error").Inc()
		return err
	}
	metrics.CarrierCallsTotal.WithLabelValues(tracker.Name(), "tracking", outcome(result.Success)).Inc()

	resp := trackingResponse{
		Carrier:        tracker.Name(),
		TrackingNumber: result.TrackingNumber,
		Success:        result.Success,
		Message:        result.Message,
		Origin:         locationToResponse(result.Origin),
		Destination:    locationToResponse(result.Destination),
		Events:         make([]trackingEventResponse, 0, len(result.Events)),
	}
	for _, ev := range result.Events {
		item := trackingEventResponse{
			Description: ev.Description,
			Location:    locationToResponse(ev.Location),
		}
		if ev.Time != nil {
			item.Time = ev.Time.UTC().Format(time.RFC3339)
		}
		resp.Events = append(resp.Events, item)
	}

	return c.JSON(http.StatusOK, resp)
}
