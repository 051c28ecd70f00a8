package ups

import (
	"context"
	"encoding/xml"
	"strconv"
	"time"

	"github.com/openfreight/carrier-gateway/internal/carriers"
	"github.com/openfreight/carrier-gateway/internal/core/domain"
	"github.com/openfreight/carrier-gateway/internal/core/ports"
)

// swapped for a fixed clock in tests
var timeNow = time.Now

// imperialOrigins are the countries UPS rates in pounds and inches.
var imperialOrigins = map[string]bool{"US": true, "LR": true, "MM": true}

type requestHeader struct {
	RequestAction string `xml:"RequestAction"`
	RequestOption string `xml:"RequestOption,omitempty"`
}

type codeNode struct {
	Code string `xml:"Code"`
}

type addressNode struct {
	AddressLine1      string `xml:"AddressLine1,omitempty"`
	AddressLine2      string `xml:"AddressLine2,omitempty"`
	AddressLine3      string `xml:"AddressLine3,omitempty"`
	City              string `xml:"City,omitempty"`
	StateProvinceCode string `xml:"StateProvinceCode,omitempty"`
	PostalCode        string `xml:"PostalCode,omitempty"`
	CountryCode       string `xml:"CountryCode,omitempty"`
	// UPS quotes residential rates for destinations it cannot classify, so
	// the indicator is emitted unless the address is explicitly commercial.
	ResidentialAddressIndicator string `xml:"ResidentialAddressIndicator,omitempty"`
}

type locationNode struct {
	PhoneNumber                         string      `xml:"PhoneNumber,omitempty"`
	FaxNumber                           string      `xml:"FaxNumber,omitempty"`
	ShipperNumber                       string      `xml:"ShipperNumber,omitempty"`
	ShipperAssignedIdentificationNumber string      `xml:"ShipperAssignedIdentificationNumber,omitempty"`
	Address                             addressNode `xml:"Address"`
}

type unitOfMeasurement struct {
	Code string `xml:"Code"`
}

type dimensionsNode struct {
	UnitOfMeasurement unitOfMeasurement `xml:"UnitOfMeasurement"`
	Length            string            `xml:"Length"`
	Width             string            `xml:"Width"`
	Height            string            `xml:"Height"`
}

type packageWeightNode struct {
	UnitOfMeasurement unitOfMeasurement `xml:"UnitOfMeasurement"`
	Weight            string            `xml:"Weight"`
}

type ratePackageNode struct {
	PackagingType codeNode          `xml:"PackagingType"`
	Dimensions    dimensionsNode    `xml:"Dimensions"`
	PackageWeight packageWeightNode `xml:"PackageWeight"`
}

type rateShipmentNode struct {
	Shipper  locationNode      `xml:"Shipper"`
	ShipTo   locationNode      `xml:"ShipTo"`
	ShipFrom *locationNode     `xml:"ShipFrom,omitempty"`
	Packages []ratePackageNode `xml:"Package"`
}

type ratingServiceSelectionRequest struct {
	XMLName                xml.Name         `xml:"RatingServiceSelectionRequest"`
	Request                requestHeader    `xml:"Request"`
	PickupType             codeNode         `xml:"PickupType"`
	CustomerClassification codeNode         `xml:"CustomerClassification"`
	Shipment               rateShipmentNode `xml:"Shipment"`
}

// buildLocationNode renders one party of a rate shipment. role selects which
// account-number element the schema allows on the node.
func buildLocationNode(role string, loc domain.Location, opts ports.RateOptions) locationNode {
	node := locationNode{
		PhoneNumber: carriers.DigitsOnly(loc.Phone),
		FaxNumber:   carriers.DigitsOnly(loc.Fax),
		Address: addressNode{
			AddressLine1:      loc.Address1,
			AddressLine2:      loc.Address2,
			AddressLine3:      loc.Address3,
			City:              loc.City,
			StateProvinceCode: loc.Province,
			PostalCode:        loc.PostalCode,
			CountryCode:       loc.Country,
		},
	}
	if !loc.Commercial() {
		node.Address.ResidentialAddressIndicator = "true"
	}
	switch role {
	case "Shipper":
		node.ShipperNumber = opts.OriginAccount
	case "ShipTo":
		node.ShipperAssignedIdentificationNumber = opts.DestinationAccount
	}
	return node
}

func (c *Carrier) buildRateRequest(origin, destination domain.Location, packages []domain.Package, opts ports.RateOptions) ratingServiceSelectionRequest {
	pickupType := opts.PickupType
	if pickupType == "" {
		pickupType = "daily_pickup"
	}
	classification := opts.CustomerClassification
	if classification == "" {
		classification = defaultClassificationFor(pickupType)
	}
	if opts.OriginAccount == "" {
		opts.OriginAccount = c.creds.ShipperNumber
	}

	shipperLoc := origin
	if opts.Shipper != nil {
		shipperLoc = *opts.Shipper
	}
	shipment := rateShipmentNode{
		Shipper: buildLocationNode("Shipper", shipperLoc, opts),
		ShipTo:  buildLocationNode("ShipTo", destination, opts),
	}
	if opts.Shipper != nil && *opts.Shipper != origin {
		from := buildLocationNode("ShipFrom", origin, opts)
		shipment.ShipFrom = &from
	}

	imperial := imperialOrigins[origin.Country]
	for _, pkg := range packages {
		shipment.Packages = append(shipment.Packages, buildRatePackage(pkg, imperial))
	}

	return ratingServiceSelectionRequest{
		Request:                requestHeader{RequestAction: "Rate", RequestOption: "Shop"},
		PickupType:             codeNode{Code: pickupCodes[pickupType]},
		CustomerClassification: codeNode{Code: customerClassifications[classification]},
		Shipment:               shipment,
	}
}

func buildRatePackage(pkg domain.Package, imperial bool) ratePackageNode {
	dimUnit, weightUnit := "CM", "KGS"
	length, width, height := pkg.Centimetres(domain.Length), pkg.Centimetres(domain.Width), pkg.Centimetres(domain.Height)
	weight := pkg.Kilograms()
	if imperial {
		dimUnit, weightUnit = "IN", "LBS"
		length, width, height = pkg.Inches(domain.Length), pkg.Inches(domain.Width), pkg.Inches(domain.Height)
		weight = pkg.Pounds()
	}
	return ratePackageNode{
		PackagingType: codeNode{Code: "02"}, // customer supplied package
		Dimensions: dimensionsNode{
			UnitOfMeasurement: unitOfMeasurement{Code: dimUnit},
			Length:            carriers.FormatMeasure(length),
			Width:             carriers.FormatMeasure(width),
			Height:            carriers.FormatMeasure(height),
		},
		PackageWeight: packageWeightNode{
			UnitOfMeasurement: unitOfMeasurement{Code: weightUnit},
			Weight:            carriers.FormatMeasure(weight),
		},
	}
}

type totalChargesNode struct {
	CurrencyCode  string `xml:"CurrencyCode"`
	MonetaryValue string `xml:"MonetaryValue"`
}

type ratedShipmentNode struct {
	Service                  codeNode         `xml:"Service"`
	GuaranteedDaysToDelivery string           `xml:"GuaranteedDaysToDelivery"`
	TotalCharges             totalChargesNode `xml:"TotalCharges"`
}

type ratingServiceSelectionResponse struct {
	Response       responseStatus      `xml:"Response"`
	RatedShipments []ratedShipmentNode `xml:"RatedShipment"`
}

// FindRates implements ports.RateFetcher. One call prices the whole package
// list via the Shop request option.
func (c *Carrier) FindRates(ctx context.Context, origin, destination domain.Location, packages []domain.Package, opts ports.RateOptions) (*domain.RateResponse, error) {
	origin = carriers.NormalizeTerritory(origin)
	destination = carriers.NormalizeTerritory(destination)

	request, err := c.buildRequest(c.buildRateRequest(origin, destination, packages, opts), false)
	if err != nil {
		return nil, err
	}
	raw, err := c.commit(ctx, "rates", request)
	if err != nil {
		return nil, err
	}
	return c.parseRateResponse(origin, destination, packages, raw, request)
}

func (c *Carrier) parseRateResponse(origin, destination domain.Location, packages []domain.Package, raw, request string) (*domain.RateResponse, error) {
	var doc ratingServiceSelectionResponse
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, malformed(err)
	}

	out := &domain.RateResponse{Response: newResponse(doc.Response, raw, request)}
	if !out.Success {
		return out, nil
	}

	for _, rated := range doc.RatedShipments {
		code := rated.Service.Code
		price, _ := strconv.ParseFloat(rated.TotalCharges.MonetaryValue, 64)

		var deliveryRange []time.Time
		if days, err := strconv.Atoi(rated.GuaranteedDaysToDelivery); err == nil && days >= 1 {
			deliveryRange = []time.Time{timeNow().AddDate(0, 0, days)}
		}

		out.Rates = append(out.Rates, domain.RateEstimate{
			Origin:        origin,
			Destination:   destination,
			Carrier:       carrierName,
			ServiceName:   serviceName(origin.Country, code),
			ServiceCode:   code,
			TotalPrice:    price,
			Currency:      rated.TotalCharges.CurrencyCode,
			Packages:      packages,
			DeliveryRange: deliveryRange,
		})
	}
	return out, nil
}
