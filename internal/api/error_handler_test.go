package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/openfreight/carrier-gateway/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrUnknownCarrier, http.StatusNotFound},
		{domain.ErrUnsupportedOperation, http.StatusBadRequest},
		{domain.ErrShipmentNotFound, http.StatusNotFound},
		{domain.ErrUnknownTrackingNumber, http.StatusNotFound},
		{domain.ErrNoHighValueReport, http.StatusNotFound},
		{fmt.Errorf("%w: unexpected EOF", domain.ErrMalformedResponse), http.StatusBadGateway},
	}
	for _, tc := range cases {
		code, body := renderError(t, tc.err)
		if code != tc.code {
			t.Errorf("%v: status = %d, want %d", tc.err, code, tc.code)
		}
		if body.Error == "" {
			t.Errorf("%v: empty error message", tc.err)
		}
	}
}

func TestErrorHandler_CarrierRejection(t *testing.T) {
	code, body := renderError(t, &domain.CarrierRejection{
		Carrier: "UPS",
		Stage:   "confirm",
		Message: "Missing or invalid ship to address",
	})
	if code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", code)
	}
	if body.Error != "Missing or invalid ship to address" {
		t.Errorf("the carrier's own message must be relayed, got %q", body.Error)
	}
	if body.Carrier != "UPS" {
		t.Errorf("carrier = %q", body.Carrier)
	}
}

func TestErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	code, body := renderError(t, echo.NewHTTPError(http.StatusUnauthorized, "invalid token"))
	if code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", code)
	}
	if body.Error != "invalid token" {
		t.Errorf("message = %q", body.Error)
	}
}

func TestErrorHandler_UnexpectedErrorIsOpaque(t *testing.T) {
	code, body := renderError(t, errors.New("pq: connection refused"))
	if code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", code)
	}
	if body.Error != "internal server error" {
		t.Errorf("internal details must not leak, got %q", body.Error)
	}
}
