package ups

import (
	"context"
	"encoding/xml"
	"sort"
	"strings"
	"time"

	"github.com/openfreight/carrier-gateway/internal/core/domain"
)

type trackRequest struct {
	XMLName        xml.Name      `xml:"TrackRequest"`
	Request        requestHeader `xml:"Request"`
	TrackingNumber string        `xml:"TrackingNumber"`
}

type trackAddressNode struct {
	AddressLine1      string `xml:"AddressLine1"`
	AddressLine2      string `xml:"AddressLine2"`
	AddressLine3      string `xml:"AddressLine3"`
	City              string `xml:"City"`
	StateProvinceCode string `xml:"StateProvinceCode"`
	PostalCode        string `xml:"PostalCode"`
	CountryCode       string `xml:"CountryCode"`
}

func (a *trackAddressNode) location() *domain.Location {
	if a == nil {
		return nil
	}
	return &domain.Location{
		Country:    a.CountryCode,
		Province:   a.StateProvinceCode,
		City:       a.City,
		PostalCode: a.PostalCode,
		Address1:   a.AddressLine1,
		Address2:   a.AddressLine2,
		Address3:   a.AddressLine3,
	}
}

type trackActivityNode struct {
	Status struct {
		StatusType struct {
			Description string `xml:"Description"`
		} `xml:"StatusType"`
	} `xml:"Status"`
	ActivityLocation struct {
		Address *trackAddressNode `xml:"Address"`
	} `xml:"ActivityLocation"`
	Date string `xml:"Date"` // YYYYMMDD
	Time string `xml:"Time"` // HHMMSS
}

type trackPackageNode struct {
	TrackingNumber string              `xml:"TrackingNumber"`
	Activities     []trackActivityNode `xml:"Activity"`
}

type trackShipmentNode struct {
	ShipmentIdentificationNumber string `xml:"ShipmentIdentificationNumber"`
	Shipper                      struct {
		Address *trackAddressNode `xml:"Address"`
	} `xml:"Shipper"`
	ShipTo struct {
		Address *trackAddressNode `xml:"Address"`
	} `xml:"ShipTo"`
	Packages []trackPackageNode `xml:"Package"`
}

type trackResponseDoc struct {
	Response  responseStatus      `xml:"Response"`
	Shipments []trackShipmentNode `xml:"Shipment"`
}

// FindTracking implements ports.Tracker.
func (c *Carrier) FindTracking(ctx context.Context, trackingNumber string) (*domain.TrackingResponse, error) {
	request, err := c.buildRequest(trackRequest{
		Request:        requestHeader{RequestAction: "Track", RequestOption: "1"},
		TrackingNumber: trackingNumber,
	}, false)
	if err != nil {
		return nil, err
	}
	raw, err := c.commit(ctx, "track", request)
	if err != nil {
		return nil, err
	}
	return parseTrackingResponse(raw, request)
}

func parseTrackingResponse(raw, request string) (*domain.TrackingResponse, error) {
	var doc trackResponseDoc
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, malformed(err)
	}

	out := &domain.TrackingResponse{Response: newResponse(doc.Response, raw, request)}
	if !out.Success || len(doc.Shipments) == 0 {
		return out, nil
	}

	shipment := doc.Shipments[0]
	out.TrackingNumber = shipment.ShipmentIdentificationNumber
	out.Origin = shipment.Shipper.Address.location()
	out.Destination = shipment.ShipTo.Address.location()

	if len(shipment.Packages) == 0 {
		return out, nil
	}
	pkg := shipment.Packages[0]
	if out.TrackingNumber == "" {
		out.TrackingNumber = pkg.TrackingNumber
	}

	for _, activity := range pkg.Activities {
		out.Events = append(out.Events, domain.ShipmentEvent{
			Description: activity.Status.StatusType.Description,
			Time:        activityTime(activity.Date, activity.Time),
			Location:    activity.ActivityLocation.Address.location(),
		})
	}
	if len(out.Events) == 0 {
		return out, nil
	}

	sortEvents(out.Events)
	reconcileOrigin(out)
	reconcileDestination(out)
	return out, nil
}

// activityTime derives an absolute UTC timestamp from the separate date and
// time fields; nil when either is missing or unparseable.
func activityTime(date, clock string) *time.Time {
	if date == "" || clock == "" {
		return nil
	}
	t, err := time.Parse("20060102150405", date+clock)
	if err != nil {
		return nil
	}
	return &t
}

// sortEvents orders events by timestamp ascending. Events without a
// timestamp sort before timestamped ones, keeping their relative order.
func sortEvents(events []domain.ShipmentEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		switch {
		case events[i].Time == nil:
			return events[j].Time != nil
		case events[j].Time == nil:
			return false
		default:
			return events[i].Time.Before(*events[j].Time)
		}
	})
}

// reconcileOrigin replaces the first event's location with the known origin
// when they plausibly refer to the same place; otherwise a synthetic origin
// event is prepended so the history always starts at the origin.
func reconcileOrigin(out *domain.TrackingResponse) {
	if out.Origin == nil {
		return
	}
	first := out.Events[0]
	sameCountry := first.Location != nil && first.Location.Country == out.Origin.Country
	sameOrBlankCity := first.Location != nil && (first.Location.City == "" || first.Location.City == out.Origin.City)

	originEvent := domain.ShipmentEvent{Description: first.Description, Time: first.Time, Location: out.Origin}
	if sameCountry && sameOrBlankCity {
		out.Events[0] = originEvent
	} else {
		out.Events = append([]domain.ShipmentEvent{originEvent}, out.Events...)
	}
}

// reconcileDestination pins a delivered shipment's final scan to the known
// destination address.
func reconcileDestination(out *domain.TrackingResponse) {
	last := len(out.Events) - 1
	if strings.EqualFold(out.Events[last].Description, "delivered") {
		out.Events[last].Location = out.Destination
	}
}
