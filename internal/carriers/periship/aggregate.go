package periship

import "github.com/openfreight/carrier-gateway/internal/core/domain"

// mergeRateResponses combines the successful per-package responses into one
// shipment-level quote:
//
//   - estimates are grouped by service code across all responses;
//   - a group priced for fewer packages than the shipment holds is dropped:
//     the carrier could not quote that service for every package, so
//     reporting it would understate the shipment cost;
//   - surviving groups sum their totals and keep the full package list, with
//     service name, currency and delivery range taken from the first member
//     (delivery timing is identical across packages for one service).
//
// An empty estimate list is still a success: zero quotable services is a
// valid carrier answer, not a failure.
func mergeRateResponses(responses []*domain.RateResponse, packages []domain.Package) *domain.RateResponse {
	if len(responses) == 0 {
		return &domain.RateResponse{Response: domain.Response{Success: true, Message: "OK"}}
	}

	grouped := make(map[string][]domain.RateEstimate)
	var order []string
	for _, response := range responses {
		for _, rate := range response.Rates {
			if _, seen := grouped[rate.ServiceCode]; !seen {
				order = append(order, rate.ServiceCode)
			}
			grouped[rate.ServiceCode] = append(grouped[rate.ServiceCode], rate)
		}
	}

	// The merged response reuses the last per-package response's envelope so
	// the caller still sees a raw payload and request to debug against.
	out := &domain.RateResponse{Response: responses[len(responses)-1].Response}
	for _, code := range order {
		group := grouped[code]
		if len(group) != len(packages) {
			continue
		}
		combined := group[0]
		combined.Packages = packages
		for _, member := range group[1:] {
			combined.TotalPrice += member.TotalPrice
		}
		out.Rates = append(out.Rates, combined)
	}
	return out
}
