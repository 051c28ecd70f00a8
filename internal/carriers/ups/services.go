package ups

// Pickup-type and customer-classification code tables from the UPS rating
// schema. Immutable; initialized once at startup.
var pickupCodes = map[string]string{
	"daily_pickup":           "01",
	"customer_counter":       "03",
	"one_time_pickup":        "06",
	"on_call_air":            "07",
	"suggested_retail_rates": "11",
	"letter_center":          "19",
	"air_service_center":     "20",
}

var customerClassifications = map[string]string{
	"wholesale":  "01",
	"occasional": "03",
	"retail":     "04",
}

// defaultClassificationFor applies the classification UPS documents per
// pickup type but does not reliably apply server-side.
func defaultClassificationFor(pickupType string) string {
	switch pickupType {
	case "daily_pickup":
		return "wholesale"
	case "customer_counter":
		return "retail"
	default:
		return "occasional"
	}
}

// Service-code → human-readable name tables. Which table applies depends on
// the origin country; see serviceName.
var defaultServices = map[string]string{
	"01": "UPS Next Day Air",
	"02": "UPS Second Day Air",
	"03": "UPS Ground",
	"07": "UPS Worldwide Express",
	"08": "UPS Worldwide Expedited",
	"11": "UPS Standard",
	"12": "UPS Three-Day Select",
	"13": "UPS Next Day Air Saver",
	"14": "UPS Next Day Air Early A.M.",
	"54": "UPS Worldwide Express Plus",
	"59": "UPS Second Day Air A.M.",
	"65": "UPS Saver",
	"82": "UPS Today Standard",
	"83": "UPS Today Dedicated Courier",
	"84": "UPS Today Intercity",
	"85": "UPS Today Express",
	"86": "UPS Today Express Saver",
}

var canadaOriginServices = map[string]string{
	"01": "UPS Express",
	"02": "UPS Expedited",
	"14": "UPS Express Early A.M.",
}

var mexicoOriginServices = map[string]string{
	"07": "UPS Express",
	"08": "UPS Expedited",
	"54": "UPS Express Plus",
}

var euOriginServices = map[string]string{
	"07": "UPS Express",
	"08": "UPS Expedited",
}

var otherNonUSOriginServices = map[string]string{
	"07": "UPS Express",
}

var euCountryCodes = map[string]bool{
	"GB": true, "AT": true, "BE": true, "BG": true, "CY": true, "CZ": true,
	"DK": true, "EE": true, "FI": true, "FR": true, "DE": true, "GR": true,
	"HU": true, "IE": true, "IT": true, "LV": true, "LT": true, "LU": true,
	"MT": true, "NL": true, "PL": true, "PT": true, "RO": true, "SK": true,
	"SI": true, "ES": true, "SE": true,
}

// serviceName resolves a service code to a human-readable name via the
// ordered fallback chain: origin-country table → generic non-US table →
// default table. The first table containing the code wins.
func serviceName(originCountry, code string) string {
	var name string
	switch {
	case originCountry == "CA":
		name = canadaOriginServices[code]
	case originCountry == "MX":
		name = mexicoOriginServices[code]
	case euCountryCodes[originCountry]:
		name = euOriginServices[code]
	}
	if name == "" && originCountry != "US" {
		name = otherNonUSOriginServices[code]
	}
	if name == "" {
		name = defaultServices[code]
	}
	return name
}
