package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openfreight/carrier-gateway/internal/api/metrics"
	"github.com/openfreight/carrier-gateway/internal/core/ports"
	"github.com/openfreight/carrier-gateway/internal/core/service"
)

// RateHandler handles HTTP requests for carrier rate quotes.
type RateHandler struct {
	registry *service.Registry
}

func NewRateHandler(registry *service.Registry) *RateHandler {
	return &RateHandler{registry: registry}
}

type rateOptionsRequest struct {
	PickupType             string           `json:"pickup_type"`
	CustomerClassification string           `json:"customer_classification"`
	Shipper                *locationRequest `json:"shipper"`
	OriginAccount          string           `json:"origin_account"`
	DestinationAccount     string           `json:"destination_account"`
	Service                string           `json:"service"`
	SignatureType          string           `json:"signature_type"`
	SaturdayDelivery       bool             `json:"saturday_delivery"`
	ShipDate               string           `json:"ship_date"`
}

func (r rateOptionsRequest) toPort() ports.RateOptions {
	opts := ports.RateOptions{
		PickupType:             r.PickupType,
		CustomerClassification: r.CustomerClassification,
		OriginAccount:          r.OriginAccount,
		DestinationAccount:     r.DestinationAccount,
		Service:                r.Service,
		SignatureType:          r.SignatureType,
		SaturdayDelivery:       r.SaturdayDelivery,
		ShipDate:               r.ShipDate,
	}
	if r.Shipper != nil {
		shipper := r.Shipper.toDomain()
		opts.Shipper = &shipper
	}
	return opts
}

type findRatesRequest struct {
	Carrier     string             `json:"carrier" validate:"required"`
	Origin      locationRequest    `json:"origin" validate:"required"`
	Destination locationRequest    `json:"destination" validate:"required"`
	Packages    []packageRequest   `json:"packages" validate:"required,min=1,dive"`
	Options     rateOptionsRequest `json:"options"`
}

type findRatesResponse struct {
	Carrier string         `json:"carrier"`
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Rates   []rateResponse `json:"rates"`
}

// Find handles POST /v1/rates. A carrier-reported failure is a normal result
// with success=false; only transport and parse problems become HTTP errors.
func (h *RateHandler) Find(c echo.Context) error {
	var req findRatesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fetcher, err := h.registry.RateFetcher(req.Carrier)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := fetcher.FindRates(
		c.Request().Context(),
		req.Origin.toDomain(),
		req.Destination.toDomain(),
		packagesToDomain(req.Packages),
		req.Options.toPort(),
	)
	metrics.CarrierCallDuration.WithLabelValues(fetcher.Name(), "rates").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CarrierCallsTotal.WithLabelValues(fetcher.Name(), "rates", "error").Inc()
		return err
	}
	metrics.CarrierCallsTotal.WithLabelValues(fetcher.Name(), "rates", outcome(result.Success)).Inc()

	return c.JSON(http.StatusOK, findRatesResponse{
		Carrier: fetcher.Name(),
		Success: result.Success,
		Message: result.Message,
		Rates:   ratesToResponse(result.Rates),
	})
}

func outcome(success bool) string {
	if success {
		return "ok"
	}
	return "rejected"
}
