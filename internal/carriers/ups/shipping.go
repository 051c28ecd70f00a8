package ups

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/openfreight/carrier-gateway/internal/carriers"
	"github.com/openfreight/carrier-gateway/internal/core/domain"
	"github.com/openfreight/carrier-gateway/internal/core/ports"
)

// groundServiceCode never carries dry ice; UPS rejects the sub-node on it.
const groundServiceCode = "03"

type confirmAddressNode struct {
	AddressLine1      string `xml:"AddressLine1"`
	AddressLine2      string `xml:"AddressLine2,omitempty"`
	City              string `xml:"City"`
	StateProvinceCode string `xml:"StateProvinceCode"`
	PostalCode        string `xml:"PostalCode"`
	CountryCode       string `xml:"CountryCode"`
}

type confirmPartyNode struct {
	Name          string             `xml:"Name,omitempty"`
	CompanyName   string             `xml:"CompanyName,omitempty"`
	AttentionName string             `xml:"AttentionName,omitempty"`
	PhoneNumber   string             `xml:"PhoneNumber,omitempty"`
	EMailAddress  string             `xml:"EMailAddress,omitempty"`
	ShipperNumber string             `xml:"ShipperNumber,omitempty"`
	Address       confirmAddressNode `xml:"Address"`
}

type insuredValueNode struct {
	CurrencyCode  string `xml:"CurrencyCode"`
	MonetaryValue string `xml:"MonetaryValue"`
}

type dryIceWeightNode struct {
	UnitOfMeasurement unitOfMeasurement `xml:"UnitOfMeasurement"`
	Weight            string            `xml:"Weight"`
}

type dryIceNode struct {
	RegulationSet string           `xml:"RegulationSet"`
	DryIceWeight  dryIceWeightNode `xml:"DryIceWeight"`
}

type packageServiceOptionsNode struct {
	InsuredValue *insuredValueNode `xml:"InsuredValue,omitempty"`
	DryIce       *dryIceNode       `xml:"DryIce,omitempty"`
}

type confirmPackageNode struct {
	PackagingType         codeNode                   `xml:"PackagingType"`
	PackageWeight         packageWeightNode          `xml:"PackageWeight"`
	Dimensions            dimensionsNode             `xml:"Dimensions"`
	PackageServiceOptions *packageServiceOptionsNode `xml:"PackageServiceOptions,omitempty"`
}

type billShipperNode struct {
	AccountNumber string `xml:"AccountNumber"`
}

type paymentInformationNode struct {
	Prepaid struct {
		BillShipper billShipperNode `xml:"BillShipper"`
	} `xml:"Prepaid"`
}

type confirmShipmentNode struct {
	Shipper            confirmPartyNode       `xml:"Shipper"`
	ShipFrom           confirmPartyNode       `xml:"ShipFrom"`
	ShipTo             confirmPartyNode       `xml:"ShipTo"`
	PaymentInformation paymentInformationNode `xml:"PaymentInformation"`
	Service            codeNode               `xml:"Service"`
	Packages           []confirmPackageNode   `xml:"Package"`
}

type labelSpecificationNode struct {
	LabelPrintMethod codeNode `xml:"LabelPrintMethod"`
	HTTPUserAgent    string   `xml:"HTTPUserAgent"`
	LabelImageFormat codeNode `xml:"LabelImageFormat"`
}

type shipmentConfirmRequest struct {
	XMLName            xml.Name               `xml:"ShipmentConfirmRequest"`
	Request            requestHeader          `xml:"Request"`
	Shipment           confirmShipmentNode    `xml:"Shipment"`
	LabelSpecification labelSpecificationNode `xml:"LabelSpecification"`
}

func confirmParty(p ports.ShipmentParty) confirmPartyNode {
	return confirmPartyNode{
		Name:          p.Name,
		CompanyName:   p.CompanyName,
		AttentionName: p.AttentionName,
		PhoneNumber:   p.Phone,
		EMailAddress:  p.Email,
		ShipperNumber: p.AccountNumber,
		Address: confirmAddressNode{
			AddressLine1:      p.Address.Address1,
			AddressLine2:      p.Address.Address2,
			City:              p.Address.City,
			StateProvinceCode: p.Address.Province,
			PostalCode:        p.Address.PostalCode,
			CountryCode:       p.Address.Country,
		},
	}
}

func buildConfirmPackage(pkg domain.Package, serviceCode string) confirmPackageNode {
	imperial := pkg.Units == domain.UnitsImperial
	dimUnit, weightUnit := "CM", "KGS"
	if imperial {
		dimUnit, weightUnit = "IN", "LBS"
	}
	node := confirmPackageNode{
		PackagingType: codeNode{Code: "02"},
		PackageWeight: packageWeightNode{
			UnitOfMeasurement: unitOfMeasurement{Code: weightUnit},
			Weight:            carriers.FormatMeasure(pkg.Weight),
		},
		Dimensions: dimensionsNode{
			UnitOfMeasurement: unitOfMeasurement{Code: dimUnit},
			Length:            carriers.FormatMeasure(pkg.Length),
			Width:             carriers.FormatMeasure(pkg.Width),
			Height:            carriers.FormatMeasure(pkg.Height),
		},
	}

	hasDryIce := pkg.DryIceWeight > 0 && serviceCode != groundServiceCode
	if pkg.Value > 0 || hasDryIce {
		opts := &packageServiceOptionsNode{}
		if pkg.Value > 0 {
			currency := pkg.Currency
			if currency == "" {
				currency = "USD"
			}
			opts.InsuredValue = &insuredValueNode{
				CurrencyCode:  currency,
				MonetaryValue: carriers.FormatMinorUnits(pkg.Value),
			}
		}
		if hasDryIce {
			opts.DryIce = &dryIceNode{
				RegulationSet: "CFR",
				DryIceWeight: dryIceWeightNode{
					UnitOfMeasurement: unitOfMeasurement{Code: weightUnit},
					Weight:            carriers.FormatMeasure(pkg.DryIceWeight),
				},
			}
		}
		node.PackageServiceOptions = opts
	}
	return node
}

func buildConfirmRequest(spec ports.ShipmentSpec) shipmentConfirmRequest {
	shipment := confirmShipmentNode{
		Shipper:  confirmParty(spec.Shipper),
		ShipFrom: confirmParty(spec.Origin),
		ShipTo:   confirmParty(spec.Destination),
		Service:  codeNode{Code: spec.ServiceCode},
	}
	shipment.PaymentInformation.Prepaid.BillShipper.AccountNumber = spec.Shipper.AccountNumber
	for _, pkg := range spec.Packages {
		shipment.Packages = append(shipment.Packages, buildConfirmPackage(pkg, spec.ServiceCode))
	}
	return shipmentConfirmRequest{
		Request:  requestHeader{RequestAction: "ShipConfirm", RequestOption: "validate"},
		Shipment: shipment,
		LabelSpecification: labelSpecificationNode{
			LabelPrintMethod: codeNode{Code: "GIF"},
			HTTPUserAgent:    "Mozilla/4.5",
			LabelImageFormat: codeNode{Code: "GIF"},
		},
	}
}

type shipmentConfirmResponse struct {
	Response        responseStatus `xml:"Response"`
	ShipmentCharges struct {
		TotalCharges totalChargesNode `xml:"TotalCharges"`
	} `xml:"ShipmentCharges"`
	ShipmentIdentificationNumber string `xml:"ShipmentIdentificationNumber"`
	ShipmentDigest               string `xml:"ShipmentDigest"`
}

// ConfirmShipment implements the first half of ports.Shipper. The returned
// digest must be echoed back verbatim to AcceptShipment.
func (c *Carrier) ConfirmShipment(ctx context.Context, spec ports.ShipmentSpec) (*domain.ConfirmationResponse, error) {
	request, err := c.buildRequest(buildConfirmRequest(spec), false)
	if err != nil {
		return nil, err
	}
	raw, err := c.commit(ctx, "ship_confirm", request)
	if err != nil {
		return nil, err
	}
	return parseConfirmResponse(raw, request)
}

func parseConfirmResponse(raw, request string) (*domain.ConfirmationResponse, error) {
	var doc shipmentConfirmResponse
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, malformed(err)
	}
	out := &domain.ConfirmationResponse{Response: newResponse(doc.Response, raw, request)}
	if !out.Success {
		return out, nil
	}
	out.TotalCost, _ = strconv.ParseFloat(doc.ShipmentCharges.TotalCharges.MonetaryValue, 64)
	out.Currency = doc.ShipmentCharges.TotalCharges.CurrencyCode
	out.ShipmentID = doc.ShipmentIdentificationNumber
	out.ShipmentDigest = doc.ShipmentDigest
	return out, nil
}

type shipmentAcceptRequest struct {
	XMLName        xml.Name      `xml:"ShipmentAcceptRequest"`
	Request        requestHeader `xml:"Request"`
	ShipmentDigest string        `xml:"ShipmentDigest"`
}

type labelImageNode struct {
	GraphicImage string `xml:"GraphicImage"`
	HTMLImage    string `xml:"HTMLImage"`
}

type packageResultsNode struct {
	TrackingNumber string         `xml:"TrackingNumber"`
	LabelImage     labelImageNode `xml:"LabelImage"`
}

type shipmentAcceptResponse struct {
	Response        responseStatus `xml:"Response"`
	ShipmentResults struct {
		ShipmentCharges struct {
			TotalCharges totalChargesNode `xml:"TotalCharges"`
		} `xml:"ShipmentCharges"`
		ShipmentIdentificationNumber string               `xml:"ShipmentIdentificationNumber"`
		PackageResults               []packageResultsNode `xml:"PackageResults"`
		ControlLogReceipt            struct {
			GraphicImage string `xml:"GraphicImage"`
		} `xml:"ControlLogReceipt"`
	} `xml:"ShipmentResults"`
}

// AcceptShipment implements the second half of ports.Shipper: it books the
// confirmed shipment and decodes the returned label payloads.
func (c *Carrier) AcceptShipment(ctx context.Context, digest string) (*domain.AcceptanceResponse, error) {
	request, err := c.buildRequest(shipmentAcceptRequest{
		Request:        requestHeader{RequestAction: "ShipAccept"},
		ShipmentDigest: digest,
	}, false)
	if err != nil {
		return nil, err
	}
	raw, err := c.commit(ctx, "ship_accept", request)
	if err != nil {
		return nil, err
	}
	return parseAcceptResponse(raw, request)
}

func parseAcceptResponse(raw, request string) (*domain.AcceptanceResponse, error) {
	var doc shipmentAcceptResponse
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, malformed(err)
	}
	out := &domain.AcceptanceResponse{Response: newResponse(doc.Response, raw, request)}
	if !out.Success {
		return out, nil
	}

	results := doc.ShipmentResults
	out.TotalCost, _ = strconv.ParseFloat(results.ShipmentCharges.TotalCharges.MonetaryValue, 64)
	out.Currency = results.ShipmentCharges.TotalCharges.CurrencyCode
	out.ShipmentID = results.ShipmentIdentificationNumber
	for _, pkg := range results.PackageResults {
		out.Packages = append(out.Packages, domain.PackageResult{
			TrackingNumber: pkg.TrackingNumber,
			LabelImage:     decodeBase64(pkg.LabelImage.GraphicImage),
			LabelHTML:      decodeBase64(pkg.LabelImage.HTMLImage),
		})
	}
	// Absent when the shipment's declared value is below the carrier's
	// high-value threshold.
	out.SetHighValueReport(decodeBase64(results.ControlLogReceipt.GraphicImage))
	return out, nil
}

// decodeBase64 decodes carrier-embedded base64, tolerating the line breaks
// UPS inserts into long payloads. Undecodable input yields nil.
func decodeBase64(s string) []byte {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

type expandedVoidNode struct {
	ShipmentIdentificationNumber string   `xml:"ShipmentIdentificationNumber"`
	TrackingNumbers              []string `xml:"TrackingNumber"`
}

type voidShipmentRequest struct {
	XMLName                      xml.Name          `xml:"VoidShipmentRequest"`
	Request                      requestHeader     `xml:"Request"`
	ExpandedVoidShipment         *expandedVoidNode `xml:"ExpandedVoidShipment,omitempty"`
	ShipmentIdentificationNumber string            `xml:"ShipmentIdentificationNumber,omitempty"`
}

type voidShipmentResponse struct {
	Response responseStatus `xml:"Response"`
	Status   struct {
		StatusType codeNode `xml:"StatusType"`
	} `xml:"Status"`
}

// VoidShipment cancels a booking. With tracking numbers present the expanded
// form voids individual packages; otherwise the whole shipment is voided.
func (c *Carrier) VoidShipment(ctx context.Context, spec ports.VoidSpec) (*domain.VoidResponse, error) {
	req := voidShipmentRequest{Request: requestHeader{RequestAction: "Void"}}
	if len(spec.TrackingNumbers) > 0 {
		req.ExpandedVoidShipment = &expandedVoidNode{
			ShipmentIdentificationNumber: spec.ShipmentID,
			TrackingNumbers:              spec.TrackingNumbers,
		}
	} else {
		req.ShipmentIdentificationNumber = spec.ShipmentID
	}
	request, err := c.buildRequest(req, true)
	if err != nil {
		return nil, err
	}
	raw, err := c.commit(ctx, "ship_void", request)
	if err != nil {
		return nil, err
	}
	return parseVoidResponse(raw, request)
}

func parseVoidResponse(raw, request string) (*domain.VoidResponse, error) {
	var doc voidShipmentResponse
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, malformed(err)
	}
	return &domain.VoidResponse{
		Response: newResponse(doc.Response, raw, request),
		Voided:   doc.Status.StatusType.Code == "1",
	}, nil
}
