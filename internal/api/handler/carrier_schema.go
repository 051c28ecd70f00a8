package handler

import (
	"time"

	"github.com/openfreight/carrier-gateway/internal/core/domain"
	"github.com/openfreight/carrier-gateway/internal/core/ports"
)

// --- Shared request types ---

type locationRequest struct {
	Country     string `json:"country" validate:"required,len=2"`
	Province    string `json:"province"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	Address3    string `json:"address3"`
	Phone       string `json:"phone"`
	Fax         string `json:"fax"`
	Name        string `json:"name"`
	AddressType string `json:"address_type" validate:"omitempty,oneof=residential commercial"`
}

func (r locationRequest) toDomain() domain.Location {
	return domain.Location{
		Country:     r.Country,
		Province:    r.Province,
		City:        r.City,
		PostalCode:  r.PostalCode,
		Address1:    r.Address1,
		Address2:    r.Address2,
		Address3:    r.Address3,
		Phone:       r.Phone,
		Fax:         r.Fax,
		Name:        r.Name,
		AddressType: domain.AddressType(r.AddressType),
	}
}

type packageRequest struct {
	Weight       float64 `json:"weight" validate:"gte=0"`
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Units        string  `json:"units" validate:"omitempty,oneof=metric imperial"`
	Value        int64   `json:"value_cents" validate:"gte=0"`
	Currency     string  `json:"currency"`
	DryIceWeight float64 `json:"dry_ice_weight" validate:"gte=0"`
}

func (r packageRequest) toDomain() domain.Package {
	units := domain.UnitSystem(r.Units)
	if units == "" {
		units = domain.UnitsMetric
	}
	return domain.Package{
		Weight:       r.Weight,
		Length:       r.Length,
		Width:        r.Width,
		Height:       r.Height,
		Units:        units,
		Value:        r.Value,
		Currency:     r.Currency,
		DryIceWeight: r.DryIceWeight,
	}
}

func packagesToDomain(reqs []packageRequest) []domain.Package {
	out := make([]domain.Package, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.toDomain())
	}
	return out
}

type partyRequest struct {
	Name          string          `json:"name"`
	CompanyName   string          `json:"company_name"`
	AttentionName string          `json:"attention_name"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email" validate:"omitempty,email"`
	AccountNumber string          `json:"account_number"`
	Address       locationRequest `json:"address" validate:"required"`
}

func (r partyRequest) toPort() ports.ShipmentParty {
	return ports.ShipmentParty{
		Name:          r.Name,
		CompanyName:   r.CompanyName,
		AttentionName: r.AttentionName,
		Phone:         r.Phone,
		Email:         r.Email,
		AccountNumber: r.AccountNumber,
		Address:       r.Address.toDomain(),
	}
}

// --- Shared response types ---

type rateResponse struct {
	ServiceCode   string   `json:"service_code"`
	ServiceName   string   `json:"service_name"`
	TotalPrice    float64  `json:"total_price"`
	Currency      string   `json:"currency"`
	DeliveryDates []string `json:"delivery_dates,omitempty"`
}

func ratesToResponse(rates []domain.RateEstimate) []rateResponse {
	out := make([]rateResponse, 0, len(rates))
	for _, rate := range rates {
		r := rateResponse{
			ServiceCode: rate.ServiceCode,
			ServiceName: rate.ServiceName,
			TotalPrice:  rate.TotalPrice,
			Currency:    rate.Currency,
		}
		for _, d := range rate.DeliveryRange {
			r.DeliveryDates = append(r.DeliveryDates, d.Format(time.DateOnly))
		}
		out = append(out, r)
	}
	return out
}
