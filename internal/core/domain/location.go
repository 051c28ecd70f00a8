package domain

// AddressType classifies a location as residential or commercial when known.
type AddressType string

const (
	AddressTypeUnknown     AddressType = ""
	AddressTypeResidential AddressType = "residential"
	AddressTypeCommercial  AddressType = "commercial"
)

// Location is a normalized postal address shared by every carrier adapter.
// Country holds a 2-letter ISO code, or a territory code promoted by a
// carrier-specific normalizer. Values are never mutated after construction.
type Location struct {
	Country     string
	Province    string
	City        string
	PostalCode  string
	Address1    string
	Address2    string
	Address3    string
	Phone       string
	Fax         string
	Name        string
	AddressType AddressType
}

// Commercial reports whether the location was explicitly marked commercial.
// Unknown addresses are treated as residential, which is what carriers quote
// for destinations they cannot classify.
func (l Location) Commercial() bool {
	return l.AddressType == AddressTypeCommercial
}
