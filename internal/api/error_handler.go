package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/openfreight/carrier-gateway/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error   string `json:"error"`
	Carrier string `json:"carrier,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Surfaces carrier-reported rejections with the carrier's own message.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// A carrier refused the request for a business reason. The gateway did its
	// part; relay the carrier's verdict verbatim.
	var rejection *domain.CarrierRejection
	if errors.As(err, &rejection) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   rejection.Message,
			Carrier: rejection.Carrier,
		}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUnknownCarrier):
		return http.StatusNotFound, errorResponse{Error: "unknown carrier"}
	case errors.Is(err, domain.ErrUnsupportedOperation):
		return http.StatusBadRequest, errorResponse{Error: "carrier does not support this operation"}
	case errors.Is(err, domain.ErrShipmentNotFound):
		return http.StatusNotFound, errorResponse{Error: "shipment not found"}
	case errors.Is(err, domain.ErrUnknownTrackingNumber):
		return http.StatusNotFound, errorResponse{Error: "unknown tracking number"}
	case errors.Is(err, domain.ErrNoHighValueReport):
		return http.StatusNotFound, errorResponse{Error: "no high value report for this shipment"}
	case errors.Is(err, domain.ErrMalformedResponse):
		// The upstream carrier answered with something we could not parse.
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("malformed carrier response")
		return http.StatusBadGateway, errorResponse{Error: "carrier returned a malformed response"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
