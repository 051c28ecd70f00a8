// Package periship implements the PeriShip rate adapter. PeriShip quotes at
// most one package per call, so a multi-package shipment is priced with one
// request per package and the per-service results are merged client-side.
package periship

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/openfreight/carrier-gateway/internal/carriers"
	"github.com/openfreight/carrier-gateway/internal/core/domain"
	"github.com/openfreight/carrier-gateway/internal/core/ports"
)

const (
	carrierName = "PeriShip"

	endpointURL = "http://www.periship.com/invoicing/controller/PeriShip.php"

	// rateResource prefixes the form-encoded payload.
	rateResource = "shipment"
)

// swapped for a fixed clock in tests
var timeNow = time.Now

// PeriShip rides the FedEx network; service names use FedEx vocabulary.
var defaultServices = map[string]string{
	"1":  "FedEx Priority Overnight",
	"3":  "FedEx 2 Day",
	"5":  "FedEx Standard Overnight",
	"20": "FedEx Express Saver",
	"90": "FedEx Ground Home Delivery",
	"92": "FedEx Ground",
}

var recipientTypes = map[bool]string{
	true:  "C", // commercial
	false: "R", // residential
}

// Credentials authenticate a PeriShip shipper account.
type Credentials struct {
	ShipperID string `validate:"required"`
	Password  string `validate:"required"`
}

// Carrier is the PeriShip adapter.
type Carrier struct {
	creds     Credentials
	committer ports.Committer
}

// New validates the credentials and returns a ready adapter.
func New(creds Credentials, committer ports.Committer) (*Carrier, error) {
	if err := validator.New().Struct(creds); err != nil {
		return nil, fmt.Errorf("periship: invalid credentials: %w", err)
	}
	return &Carrier{creds: creds, committer: committer}, nil
}

// Name implements ports.Carrier.
func (c *Carrier) Name() string { return carrierName }

// RetrySafe implements ports.Carrier. Rate quoting has no side effects.
func (c *Carrier) RetrySafe() bool { return true }

type requestHeaderNode struct {
	ShipperID       string `xml:"ShipperID"`
	ShipperPassword string `xml:"ShipperPassword"`
	ShipperZipCode  string `xml:"ShipperZipCode,omitempty"`
}

type recipientInfoNode struct {
	RecipientStreet string `xml:"RecipientStreet,omitempty"`
	RecipientCity   string `xml:"RecipientCity,omitempty"`
	RecipientState  string `xml:"RecipientState,omitempty"`
	RecipientZip    string `xml:"RecipientZip,omitempty"`
}

type packageInfoNode struct {
	Weight           string `xml:"Weight"`
	Service          string `xml:"Service,omitempty"`
	RecipientType    string `xml:"RecipientType"`
	SignatureType    string `xml:"SignatureType,omitempty"`
	DeclaredValue    string `xml:"DeclaredValue,omitempty"`
	SaturdayDelivery string `xml:"SaturdayDelivery,omitempty"`
	ShipDate         string `xml:"ShipDate,omitempty"`
	DryIce           string `xml:"DryIce,omitempty"`
}

type returnTypeNode struct {
	FeeDetail string `xml:"FeeDetail"`
}

type rateRequest struct {
	XMLName       xml.Name          `xml:"PeriShipRateRequest"`
	RequestHeader requestHeaderNode `xml:"RequestHeader"`
	RecipientInfo recipientInfoNode `xml:"RecipientInfo"`
	PackageInfo   packageInfoNode   `xml:"PackageInfo"`
	ReturnType    returnTypeNode    `xml:"ReturnType"`
}

// buildRateTemplate renders the parts of the request that do not vary per
// package: credentials, origin zip, recipient address, fee detail level.
// Each per-package call reuses the template with its own PackageInfo.
func (c *Carrier) buildRateTemplate(origin, destination domain.Location) rateRequest {
	return rateRequest{
		RequestHeader: requestHeaderNode{
			ShipperID:       c.creds.ShipperID,
			ShipperPassword: c.creds.Password,
			ShipperZipCode:  origin.PostalCode,
		},
		RecipientInfo: recipientInfoNode{
			RecipientStreet: destination.Address1,
			RecipientCity:   destination.City,
			RecipientState:  destination.Province,
			RecipientZip:    destination.PostalCode,
		},
		ReturnType: returnTypeNode{FeeDetail: "S"}, // summary
	}
}

func buildPackageInfo(pkg domain.Package, destination domain.Location, opts ports.RateOptions) packageInfoNode {
	node := packageInfoNode{
		Weight:        carriers.FormatMeasure(pkg.Pounds()),
		Service:       opts.Service,
		RecipientType: recipientTypes[destination.Commercial()],
		SignatureType: opts.SignatureType,
		ShipDate:      opts.ShipDate,
	}
	if pkg.Value > 0 {
		node.DeclaredValue = carriers.FormatMinorUnits(pkg.Value)
	}
	if opts.SaturdayDelivery {
		node.SaturdayDelivery = "Y"
	}
	if pkg.DryIceWeight > 0 {
		node.DryIce = "Y"
	}
	return node
}

// FindRates implements ports.RateFetcher: one carrier call per package, then
// client-side aggregation of the per-service results. The first per-package
// failure is returned as-is; no partial aggregation.
func (c *Carrier) FindRates(ctx context.Context, origin, destination domain.Location, packages []domain.Package, opts ports.RateOptions) (*domain.RateResponse, error) {
	origin = carriers.NormalizeTerritory(origin)
	destination = carriers.NormalizeTerritory(destination)

	template := c.buildRateTemplate(origin, destination)
	responses := make([]*domain.RateResponse, 0, len(packages))

	for _, pkg := range packages {
		request := template
		request.PackageInfo = buildPackageInfo(pkg, destination, opts)
		body, err := xml.Marshal(request)
		if err != nil {
			return nil, fmt.Errorf("periship: marshal request: %w", err)
		}
		payload := rateResource + "=" + string(body)

		raw, err := c.committer.Commit(ctx, endpointURL, payload)
		if err != nil {
			return nil, err
		}
		response, err := c.parseRateResponse(origin, destination, packages, raw, payload)
		if err != nil {
			return nil, err
		}
		if !response.Success {
			return response, nil
		}
		responses = append(responses, response)
	}

	return mergeRateResponses(responses, packages), nil
}

type serviceItemNode struct {
	ServiceCode   string `xml:"ServiceCode"`
	DaysInTransit string `xml:"daysInTransit"`
	TotalFee      string `xml:"TotalFee"`
}

type rateResponseDoc struct {
	ResponseHeader struct {
		ErrorCount string `xml:"ErrorCount"`
	} `xml:"ResponseHeader"`
	Errors struct {
		ErrorItem struct {
			ErrorDescription string `xml:"ErrorDescription"`
		} `xml:"ErrorItem"`
	} `xml:"Errors"`
	ServiceItems []serviceItemNode `xml:"ServiceItem"`
}

func (c *Carrier) parseRateResponse(origin, destination domain.Location, packages []domain.Package, raw, request string) (*domain.RateResponse, error) {
	var doc rateResponseDoc
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	success := doc.ResponseHeader.ErrorCount == "0"
	message := doc.Errors.ErrorItem.ErrorDescription
	if message == "" {
		if success {
			message = "OK"
		} else {
			message = "PeriShip did not provide an error description"
		}
	}
	params, _ := carriers.Flatten(raw)
	out := &domain.RateResponse{Response: domain.Response{
		Success: success,
		Message: message,
		Params:  params,
		Raw:     raw,
		Request: request,
	}}
	if !success {
		return out, nil
	}

	for _, item := range doc.ServiceItems {
		price, _ := strconv.ParseFloat(item.TotalFee, 64)

		var deliveryRange []time.Time
		if days, err := strconv.Atoi(item.DaysInTransit); err == nil && days >= 0 && days <= 99 {
			deliveryRange = []time.Time{timeNow().AddDate(0, 0, days)}
		}

		out.Rates = append(out.Rates, domain.RateEstimate{
			Origin:        origin,
			Destination:   destination,
			Carrier:       carrierName,
			ServiceName:   defaultServices[item.ServiceCode],
			ServiceCode:   item.ServiceCode,
			TotalPrice:    price,
			Currency:      "USD",
			Packages:      packages,
			DeliveryRange: deliveryRange,
		})
	}
	return out, nil
}
