package periship

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/openfreight/carrier-gateway/internal/core/domain"
	"github.com/openfreight/carrier-gateway/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub committer
// ---------------------------------------------------------------------------

type stubCommitter struct {
	responses []string
	err       error

	calls    int
	urls     []string
	payloads []string
}

func (s *stubCommitter) Commit(_ context.Context, url, payload string) (string, error) {
	s.urls = append(s.urls, url)
	s.payloads = append(s.payloads, payload)
	idx := s.calls
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if idx >= len(s.responses) {
		return s.responses[len(s.responses)-1], nil
	}
	return s.responses[idx], nil
}

func newTestCarrier(t *testing.T, stub *stubCommitter) *Carrier {
	t.Helper()
	c, err := New(Credentials{ShipperID: "shipper-1", Password: "secret"}, stub)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func serviceItemXML(code, days, fee string) string {
	return `<ServiceItem>
		<ServiceCode>` + code + `</ServiceCode>
		<daysInTransit>` + days + `</daysInTransit>
		<TotalFee>` + fee + `</TotalFee>
	</ServiceItem>`
}

func rateSuccessXML(items ...string) string {
	return `<PeriShipRateResponse>
		<ResponseHeader><ErrorCount>0</ErrorCount></ResponseHeader>
		` + strings.Join(items, "\n") + `
	</PeriShipRateResponse>`
}

func rateFailureXML(description string) string {
	return `<PeriShipRateResponse>
		<ResponseHeader><ErrorCount>1</ErrorCount></ResponseHeader>
		<Errors><ErrorItem><ErrorDescription>` + description + `</ErrorDescription></ErrorItem></Errors>
	</PeriShipRateResponse>`
}

func origin() domain.Location {
	return domain.Location{Country: "US", Province: "ME", City: "Portland", PostalCode: "04103"}
}

func destination() domain.Location {
	return domain.Location{
		Country:    "US",
		Province:   "MA",
		City:       "Boston",
		PostalCode: "02134",
		Address1:   "10 Main St",
	}
}

// ---------------------------------------------------------------------------
// FindRates
// ---------------------------------------------------------------------------

func TestNew_RejectsIncompleteCredentials(t *testing.T) {
	if _, err := New(Credentials{ShipperID: "only-id"}, &stubCommitter{}); err == nil {
		t.Fatal("expected error for missing password")
	}
}

func TestFindRates_SinglePackage(t *testing.T) {
	stub := &stubCommitter{responses: []string{rateSuccessXML(
		serviceItemXML("1", "1", "42.85"),
		serviceItemXML("92", "3", "11.20"),
	)}}
	c := newTestCarrier(t, stub)

	fixed := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = time.Now }()

	resp, err := c.FindRates(context.Background(), origin(), destination(),
		[]domain.Package{{Weight: 5, Units: domain.UnitsImperial}}, ports.RateOptions{})
	if err != nil {
		t.Fatalf("FindRates: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Message)
	}
	if len(resp.Rates) != 2 {
		t.Fatalf("expected 2 rates, got %d", len(resp.Rates))
	}

	overnight := resp.Rates[0]
	if overnight.ServiceName != "FedEx Priority Overnight" {
		t.Errorf("service name = %q", overnight.ServiceName)
	}
	if overnight.TotalPrice != 42.85 || overnight.Currency != "USD" {
		t.Errorf("price = %v %s", overnight.TotalPrice, overnight.Currency)
	}
	if len(overnight.DeliveryRange) != 1 || !overnight.DeliveryRange[0].Equal(fixed.AddDate(0, 0, 1)) {
		t.Errorf("delivery range = %v", overnight.DeliveryRange)
	}
}

func TestFindRates_PayloadFraming(t *testing.T) {
	stub := &stubCommitter{responses: []string{rateSuccessXML()}}
	c := newTestCarrier(t, stub)

	_, err := c.FindRates(context.Background(), origin(), destination(),
		[]domain.Package{{Weight: 5, Units: domain.UnitsImperial}}, ports.RateOptions{})
	if err != nil {
		t.Fatalf("FindRates: %v", err)
	}
	if stub.urls[0] != endpointURL {
		t.Errorf("url = %q", stub.urls[0])
	}
	payload := stub.payloads[0]
	if !strings.HasPrefix(payload, "shipment=<PeriShipRateRequest>") {
		t.Errorf("payload must be form-framed under the shipment key: %s", payload[:50])
	}
	if !strings.Contains(payload, "<ShipperID>shipper-1</ShipperID>") {
		t.Error("credentials missing from payload")
	}
	if !strings.Contains(payload, "<ShipperZipCode>04103</ShipperZipCode>") {
		t.Error("origin zip missing from payload")
	}
	if !strings.Contains(payload, "<RecipientZip>02134</RecipientZip>") {
		t.Error("recipient zip missing from payload")
	}
	if !strings.Contains(payload, "<FeeDetail>S</FeeDetail>") {
		t.Error("summary fee detail missing from payload")
	}
}

func TestFindRates_OneCallPerPackage(t *testing.T) {
	stub := &stubCommitter{responses: []string{
		rateSuccessXML(serviceItemXML("1", "1", "10.00")),
		rateSuccessXML(serviceItemXML("1", "1", "15.00")),
	}}
	c := newTestCarrier(t, stub)

	packages := []domain.Package{
		{Weight: 2, Units: domain.UnitsImperial},
		{Weight: 8, Units: domain.UnitsImperial},
	}
	resp, err := c.FindRates(context.Background(), origin(), destination(), packages, ports.RateOptions{})
	if err != nil {
		t.Fatalf("FindRates: %v", err)
	}
	if stub.calls != 2 {
		t.Fatalf("expected one call per package, got %d", stub.calls)
	}
	if !strings.Contains(stub.payloads[0], "<Weight>2</Weight>") {
		t.Error("first call must price the first package")
	}
	if !strings.Contains(stub.payloads[1], "<Weight>8</Weight>") {
		t.Error("second call must price the second package")
	}

	if len(resp.Rates) != 1 {
		t.Fatalf("expected 1 aggregated rate, got %d", len(resp.Rates))
	}
	if resp.Rates[0].TotalPrice != 25.00 {
		t.Errorf("aggregated price = %v, want 25.00", resp.Rates[0].TotalPrice)
	}
}

func TestFindRates_FirstFailureWins(t *testing.T) {
	stub := &stubCommitter{responses: []string{
		rateSuccessXML(serviceItemXML("1", "1", "10.00")),
		rateFailureXML("Weight exceeds limit"),
		rateSuccessXML(serviceItemXML("1", "1", "12.00")),
	}}
	c := newTestCarrier(t, stub)

	packages := []domain.Package{
		{Weight: 2, Units: domain.UnitsImperial},
		{Weight: 900, Units: domain.UnitsImperial},
		{Weight: 3, Units: domain.UnitsImperial},
	}
	resp, err := c.FindRates(context.Background(), origin(), destination(), packages, ports.RateOptions{})
	if err != nil {
		t.Fatalf("per-package rejection must not be a Go error: %v", err)
	}
	if resp.Success {
		t.Error("expected Success=false")
	}
	if resp.Message != "Weight exceeds limit" {
		t.Errorf("message = %q", resp.Message)
	}
	if len(resp.Rates) != 0 {
		t.Errorf("failed quote must carry no rates, got %d", len(resp.Rates))
	}
	if stub.calls != 2 {
		t.Errorf("remaining packages must not be priced after a failure, got %d calls", stub.calls)
	}
}

func TestFindRates_TransportError(t *testing.T) {
	boom := errors.New("dial timeout")
	stub := &stubCommitter{err: boom}
	c := newTestCarrier(t, stub)

	_, err := c.FindRates(context.Background(), origin(), destination(),
		[]domain.Package{{Weight: 1, Units: domain.UnitsImperial}}, ports.RateOptions{})
	if !errors.Is(err, boom) {
		t.Fatalf("transport error must pass through, got %v", err)
	}
}

func TestFindRates_Malformed(t *testing.T) {
	stub := &stubCommitter{responses: []string{"<<<"}}
	c := newTestCarrier(t, stub)

	_, err := c.FindRates(context.Background(), origin(), destination(),
		[]domain.Package{{Weight: 1, Units: domain.UnitsImperial}}, ports.RateOptions{})
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Package info rendering
// ---------------------------------------------------------------------------

func TestBuildPackageInfo_Options(t *testing.T) {
	pkg := domain.Package{Weight: 5, Units: domain.UnitsImperial, Value: 15000, DryIceWeight: 1}
	dest := destination()
	dest.AddressType = domain.AddressTypeCommercial

	node := buildPackageInfo(pkg, dest, ports.RateOptions{
		Service:          "1",
		SignatureType:    "DIRECT",
		SaturdayDelivery: true,
		ShipDate:         "2026-03-07",
	})

	if node.Weight != "5" {
		t.Errorf("weight = %q", node.Weight)
	}
	if node.RecipientType != "C" {
		t.Errorf("commercial destination must send C, got %q", node.RecipientType)
	}
	if node.DeclaredValue != "150.00" {
		t.Errorf("declared value = %q, want 150.00", node.DeclaredValue)
	}
	if node.SaturdayDelivery != "Y" {
		t.Errorf("saturday delivery = %q, want Y", node.SaturdayDelivery)
	}
	if node.DryIce != "Y" {
		t.Errorf("dry ice = %q, want Y", node.DryIce)
	}
	if node.Service != "1" || node.SignatureType != "DIRECT" || node.ShipDate != "2026-03-07" {
		t.Errorf("pass-through options wrong: %+v", node)
	}
}

func TestBuildPackageInfo_Defaults(t *testing.T) {
	node := buildPackageInfo(domain.Package{Weight: 5, Units: domain.UnitsImperial}, destination(), ports.RateOptions{})

	if node.RecipientType != "R" {
		t.Errorf("unclassified destination must send R, got %q", node.RecipientType)
	}
	if node.DeclaredValue != "" || node.SaturdayDelivery != "" || node.DryIce != "" {
		t.Errorf("optional fields must stay empty: %+v", node)
	}
}

func TestBuildPackageInfo_MetricWeightConverted(t *testing.T) {
	// 1 kg = 2.20462... lb, rounded to 3 decimals on the wire.
	node := buildPackageInfo(domain.Package{Weight: 1, Units: domain.UnitsMetric}, destination(), ports.RateOptions{})
	if node.Weight != "2.205" {
		t.Errorf("weight = %q, want 2.205", node.Weight)
	}
}

// ---------------------------------------------------------------------------
// daysInTransit handling
// ---------------------------------------------------------------------------

func TestParseRateResponse_DaysInTransitRange(t *testing.T) {
	fixed := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = time.Now }()

	stub := &stubCommitter{responses: []string{rateSuccessXML(
		serviceItemXML("1", "0", "10.00"),   // same-day counts
		serviceItemXML("3", "99", "11.00"),  // top of range counts
		serviceItemXML("5", "100", "12.00"), // out of range dropped
		serviceItemXML("20", "-1", "13.00"), // negative dropped
		serviceItemXML("90", "n/a", "14.00"),
	)}}
	c := newTestCarrier(t, stub)

	resp, err := c.FindRates(context.Background(), origin(), destination(),
		[]domain.Package{{Weight: 1, Units: domain.UnitsImperial}}, ports.RateOptions{})
	if err != nil {
		t.Fatalf("FindRates: %v", err)
	}

	byCode := make(map[string]domain.RateEstimate)
	for _, rate := range resp.Rates {
		byCode[rate.ServiceCode] = rate
	}
	if len(byCode["1"].DeliveryRange) != 1 || !byCode["1"].DeliveryRange[0].Equal(fixed) {
		t.Errorf("0 days must mean same-day delivery, got %v", byCode["1"].DeliveryRange)
	}
	if len(byCode["3"].DeliveryRange) != 1 {
		t.Errorf("99 days is inside the accepted range, got %v", byCode["3"].DeliveryRange)
	}
	for _, code := range []string{"5", "20", "90"} {
		if len(byCode[code].DeliveryRange) != 0 {
			t.Errorf("service %s: out-of-range transit figure must yield no delivery date", code)
		}
	}
}
