package carriers

import "testing"

func TestFlatten_LeafPaths(t *testing.T) {
	doc := `<TrackResponse>
		<Response>
			<ResponseStatusCode>1</ResponseStatusCode>
			<ResponseStatusDescription>Success</ResponseStatusDescription>
		</Response>
		<Shipment>
			<ShipmentIdentificationNumber>1Z12345</ShipmentIdentificationNumber>
		</Shipment>
	</TrackResponse>`

	params, ok := Flatten(doc)
	if !ok {
		t.Fatal("expected well-formed document to flatten")
	}
	if got := params["TrackResponse/Response/ResponseStatusCode"]; got != "1" {
		t.Errorf("status code = %q, want %q", got, "1")
	}
	if got := params["TrackResponse/Shipment/ShipmentIdentificationNumber"]; got != "1Z12345" {
		t.Errorf("shipment id = %q, want %q", got, "1Z12345")
	}
}

func TestFlatten_RepeatedLeafKeepsLast(t *testing.T) {
	doc := `<R><Item>first</Item><Item>second</Item></R>`
	params, ok := Flatten(doc)
	if !ok {
		t.Fatal("expected well-formed document to flatten")
	}
	if got := params["R/Item"]; got != "second" {
		t.Errorf("repeated leaf = %q, want %q", got, "second")
	}
}

func TestFlatten_Malformed(t *testing.T) {
	if _, ok := Flatten("<R><Unclosed></R>"); ok {
		t.Error("expected malformed document to report !ok")
	}
	if _, ok := Flatten("not xml at all"); ok {
		t.Error("expected non-XML input to report !ok")
	}
}
