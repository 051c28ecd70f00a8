package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openfreight/carrier-gateway/internal/api/metrics"
	"github.com/openfreight/carrier-gateway/internal/core/service"
)

// AddressHandler handles HTTP requests for carrier address validation.
type AddressHandler struct {
	registry *service.Registry
}

func NewAddressHandler(registry *service.Registry) *AddressHandler {
	return &AddressHandler{registry: registry}
}

type validateAddressRequest struct {
	Carrier string          `json:"carrier" validate:"required"`
	Address locationRequest `json:"address" validate:"required"`
	// Strict re-verifies the carrier's echoed address against the submitted
	// one. Defaults to true when omitted.
	Strict *bool `json:"strict"`
}

type validateAddressResponse struct {
	Carrier   string `json:"carrier"`
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Indicator string `json:"indicator,omitempty"`
}

// Validate handles POST /v1/address-validations.
func (h *AddressHandler) Validate(c echo.Context) error {
	var req validateAddressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	validator, err := h.registry.AddressValidator(req.Carrier)
	if err != nil {
		return err
	}

	strict := true
	if req.Strict != nil {
		strict = *req.Strict
	}

	start := time.Now()
	result, err := validator.ValidateAddress(c.Request().Context(), req.Address.toDomain(), strict)
	metrics.CarrierCallDuration.WithLabelValues(validator.Name(), "validate").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CarrierCallsTotal.WithLabelValues(validator.Name(), "validate", "error").Inc()
		return err
	}
	metrics.CarrierCallsTotal.WithLabelValues(validator.Name(), "validate", outcome(result.Success)).Inc()

	return c.JSON(http.StatusOK, validateAddressResponse{
		Carrier:   validator.Name(),
		Success:   result.Success,
		Message:   result.Message,
		Indicator: string(result.Indicator),
	})
}
