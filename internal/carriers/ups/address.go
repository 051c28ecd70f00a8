package ups

import (
	"context"
	"encoding/xml"
	"strings"

	"github.com/openfreight/carrier-gateway/internal/core/domain"
)

type addressKeyFormatNode struct {
	ConsigneeName      string   `xml:"ConsigneeName,omitempty"`
	AddressLines       []string `xml:"AddressLine,omitempty"`
	PoliticalDivision2 string   `xml:"PoliticalDivision2,omitempty"`
	PoliticalDivision1 string   `xml:"PoliticalDivision1,omitempty"`
	PostcodePrimaryLow string   `xml:"PostcodePrimaryLow,omitempty"`
	CountryCode        string   `xml:"CountryCode,omitempty"`
}

type addressValidationRequest struct {
	XMLName          xml.Name             `xml:"AddressValidationRequest"`
	Request          requestHeader        `xml:"Request"`
	AddressKeyFormat addressKeyFormatNode `xml:"AddressKeyFormat"`
}

type addressValidationResponse struct {
	Response responseStatus `xml:"Response"`
	// The corrected address echoed back in key format; strict mode verifies
	// it against the submitted one.
	AddressKeyFormat addressKeyFormatNode `xml:"AddressKeyFormat"`
}

// ValidateAddress implements ports.AddressValidator. In strict mode the
// carrier's indicator is downgraded to no_candidates when the echoed
// postcode, state or city no longer matches what was submitted: a carrier
// that corrects an address beyond recognition has not confirmed it.
func (c *Carrier) ValidateAddress(ctx context.Context, location domain.Location, strict bool) (*domain.AddressValidationResponse, error) {
	sent := addressKeyFormatNode{
		ConsigneeName:      location.Name,
		PoliticalDivision2: location.City,
		PoliticalDivision1: location.Province,
		PostcodePrimaryLow: location.PostalCode,
		CountryCode:        location.Country,
	}
	for _, line := range []string{location.Address1, location.Address2} {
		if line != "" {
			sent.AddressLines = append(sent.AddressLines, line)
		}
	}

	request, err := c.buildRequest(addressValidationRequest{
		Request:          requestHeader{RequestAction: "XAV"},
		AddressKeyFormat: sent,
	}, true)
	if err != nil {
		return nil, err
	}
	raw, err := c.commit(ctx, "address_validation", request)
	if err != nil {
		return nil, err
	}
	return parseAddressValidationResponse(sent, raw, request, strict)
}

func parseAddressValidationResponse(sent addressKeyFormatNode, raw, request string, strict bool) (*domain.AddressValidationResponse, error) {
	var doc addressValidationResponse
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, malformed(err)
	}

	out := &domain.AddressValidationResponse{Response: newResponse(doc.Response, raw, request)}
	out.Indicator = findIndicator(raw)

	if strict && out.Indicator != "" {
		echoed := doc.AddressKeyFormat
		pairs := [][2]string{
			{sent.PostcodePrimaryLow, echoed.PostcodePrimaryLow},
			{sent.PoliticalDivision1, echoed.PoliticalDivision1},
			{sent.PoliticalDivision2, echoed.PoliticalDivision2},
		}
		for _, pair := range pairs {
			if !tokensEqual(pair[0], pair[1]) {
				out.Indicator = domain.IndicatorNoCandidates
				break
			}
		}
	}
	return out, nil
}

// findIndicator locates whichever of the three mutually exclusive indicator
// elements is present, at any depth of the response tree.
func findIndicator(raw string) domain.ValidationIndicator {
	dec := xml.NewDecoder(strings.NewReader(raw))
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "ValidAddressIndicator":
			return domain.IndicatorValid
		case "AmbiguousAddressIndicator":
			return domain.IndicatorAmbiguous
		case "NoCandidatesIndicator":
			return domain.IndicatorNoCandidates
		}
	}
}

// tokensEqual case-folds and whitespace-normalizes both values before
// comparing their token sequences.
func tokensEqual(a, b string) bool {
	at, bt := strings.Fields(strings.ToLower(a)), strings.Fields(strings.ToLower(b))
	if len(at) != len(bt) {
		return false
	}
	for i := range at {
		if at[i] != bt[i] {
			return false
		}
	}
	return true
}
