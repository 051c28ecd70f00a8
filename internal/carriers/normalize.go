// Package carriers holds the pieces shared by every carrier adapter:
// location normalization, wire-level number formatting, and response
// flattening.
package carriers

import "github.com/openfreight/carrier-gateway/internal/core/domain"

// usTerritoriesAsCountries lists the US territories that some carrier
// schemas require as a top-level country code rather than a state.
var usTerritoriesAsCountries = map[string]bool{
	"AS": true, // American Samoa
	"FM": true, // Federated States of Micronesia
	"GU": true, // Guam
	"MH": true, // Marshall Islands
	"MP": true, // Northern Mariana Islands
	"PW": true, // Palau
	"PR": true, // Puerto Rico
	"VI": true, // US Virgin Islands
}

// NormalizeTerritory promotes a US territory from the province field to the
// country field for carriers that model territories as countries. All other
// locations pass through unchanged. Pure function.
func NormalizeTerritory(loc domain.Location) domain.Location {
	if loc.Country != "US" || !usTerritoriesAsCountries[loc.Province] {
		return loc
	}
	out := loc
	out.Country = loc.Province
	out.Province = ""
	return out
}
