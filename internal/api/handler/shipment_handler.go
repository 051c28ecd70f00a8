package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openfreight/carrier-gateway/internal/core/ports"
)

// ShipmentHandler handles HTTP requests for shipment booking, voiding and
// stored label retrieval.
type ShipmentHandler struct {
	service ports.ShippingService
}

func NewShipmentHandler(service ports.ShippingService) *ShipmentHandler {
	return &ShipmentHandler{service: service}
}

type bookShipmentRequest struct {
	Carrier     string           `json:"carrier" validate:"required"`
	Shipper     partyRequest     `json:"shipper" validate:"required"`
	Origin      partyRequest     `json:"origin" validate:"required"`
	Destination partyRequest     `json:"destination" validate:"required"`
	Packages    []packageRequest `json:"packages" validate:"required,min=1,dive"`
	ServiceCode string           `json:"service_code" validate:"required"`
}

type shipmentLinks struct {
	Self   string   `json:"self"`
	Labels []string `json:"labels,omitempty"`
}

type bookShipmentResponse struct {
	ShipmentID      string        `json:"shipment_id"`
	TotalCost       float64       `json:"total_cost"`
	Currency        string        `json:"currency"`
	TrackingNumbers []string      `json:"tracking_numbers"`
	Links           shipmentLinks `json:"_links"`
}

// Book handles POST /v1/shipments. Runs the two-phase confirm/accept flow;
// a carrier rejection at either phase surfaces as 422 with the carrier's
// message.
func (h *ShipmentHandler) Book(c echo.Context) error {
	var req bookShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.BookShipment(c.Request().Context(), req.Carrier, ports.ShipmentSpec{
		Shipper:     req.Shipper.toPort(),
		Origin:      req.Origin.toPort(),
		Destination: req.Destination.toPort(),
		Packages:    packagesToDomain(req.Packages),
		ServiceCode: req.ServiceCode,
	})
	if err != nil {
		return err
	}

	resp := bookShipmentResponse{
		ShipmentID:      result.ShipmentID,
		TotalCost:       result.TotalCost,
		Currency:        result.Currency,
		TrackingNumbers: result.TrackingNumbers,
		Links: shipmentLinks{
			Self: "/v1/shipments/" + result.ShipmentID,
		},
	}
	for _, tn := range result.TrackingNumbers {
		resp.Links.Labels = append(resp.Links.Labels, "/v1/labels/"+tn)
	}

	return c.JSON(http.StatusCreated, resp)
}

type voidShipmentResponse struct {
	ShipmentID string `json:"shipment_id"`
	Voided     bool   `json:"voided"`
	Message    string `json:"message,omitempty"`
}

// Void handles DELETE /v1/shipments/:shipment_id. Optional repeated
// tracking_number query parameters narrow the void to individual packages.
func (h *ShipmentHandler) Void(c echo.Context) error {
	shipmentID := c.Param("shipment_id")
	if shipmentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "shipment id is required")
	}
	carrierName := c.QueryParam("carrier")
	if carrierName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "carrier query parameter is required")
	}

	result, err := h.service.VoidShipment(c.Request().Context(), carrierName, ports.VoidSpec{
		ShipmentID:      shipmentID,
		TrackingNumbers: c.QueryParams()["tracking_number"],
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, voidShipmentResponse{
		ShipmentID: shipmentID,
		Voided:     result.Voided,
		Message:    result.Message,
	})
}

type labelResponse struct {
	TrackingNumber string `json:"tracking_number"`
	Image          []byte `json:"image,omitempty"` // base64 in JSON
	HTML           []byte `json:"html,omitempty"`
}

// GetLabel handles GET /v1/labels/:tracking_number. Labels are served from
// the local store, never re-fetched from the carrier.
func (h *ShipmentHandler) GetLabel(c echo.Context) error {
	trackingNumber := c.Param("tracking_number")
	if trackingNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "tracking number is required")
	}

	label, err := h.service.GetLabel(c.Request().Context(), trackingNumber)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, labelResponse{
		TrackingNumber: label.TrackingNumber,
		Image:          label.Image,
		HTML:           label.HTML,
	})
}

// GetHighValueReport handles GET /v1/shipments/:shipment_id/high-value-report.
// The report is the carrier's control log receipt, stored at booking time.
func (h *ShipmentHandler) GetHighValueReport(c echo.Context) error {
	shipmentID := c.Param("shipment_id")
	if shipmentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "shipment id is required")
	}

	report, err := h.service.GetHighValueReport(c.Request().Context(), shipmentID)
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, "image/gif", report)
}
