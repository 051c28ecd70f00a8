package domain

import (
	"errors"
	"testing"
)

func TestAcceptanceResponse_Label(t *testing.T) {
	resp := AcceptanceResponse{
		Packages: []PackageResult{
			{TrackingNumber: "1Z111", LabelImage: []byte("gif-1")},
			{TrackingNumber: "1Z222", LabelImage: []byte("gif-2"), LabelHTML: []byte("html-2")},
		},
	}

	pkg, err := resp.Label("1Z222")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(pkg.LabelImage) != "gif-2" || string(pkg.LabelHTML) != "html-2" {
		t.Errorf("wrong package returned: %+v", pkg)
	}

	if _, err := resp.Label("1Z999"); !errors.Is(err, ErrUnknownTrackingNumber) {
		t.Errorf("unknown tracking number: got %v, want ErrUnknownTrackingNumber", err)
	}
}

func TestAcceptanceResponse_HighValueReport(t *testing.T) {
	var resp AcceptanceResponse
	if _, err := resp.HighValueReport(); !errors.Is(err, ErrNoHighValueReport) {
		t.Errorf("missing report: got %v, want ErrNoHighValueReport", err)
	}

	resp.SetHighValueReport([]byte("receipt"))
	report, err := resp.HighValueReport()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(report) != "receipt" {
		t.Errorf("report = %q, want %q", report, "receipt")
	}
}

func TestCarrierRejection_Error(t *testing.T) {
	err := &CarrierRejection{Carrier: "UPS", Stage: "confirm", Message: "Missing weight"}
	want := "UPS confirm rejected: Missing weight"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
