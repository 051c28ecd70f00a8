package ups

import (
	"context"
	"encoding/xml"
	"time"

	"github.com/openfreight/carrier-gateway/internal/core/domain"
)

type quantumViewRequest struct {
	XMLName  xml.Name      `xml:"QuantumViewRequest"`
	Request  requestHeader `xml:"Request"`
	Bookmark string        `xml:"Bookmark,omitempty"`
}

type quantumViewOriginNode struct {
	TrackingNumber string `xml:"TrackingNumber"`
	Date           string `xml:"Date"` // YYYYMMDD
	Time           string `xml:"Time"` // HHMMSS
}

type quantumViewResponseDoc struct {
	Response          responseStatus `xml:"Response"`
	QuantumViewEvents struct {
		SubscriptionEvents struct {
			SubscriptionFile struct {
				Origins []quantumViewOriginNode `xml:"Origin"`
			} `xml:"SubscriptionFile"`
		} `xml:"SubscriptionEvents"`
	} `xml:"QuantumViewEvents"`
	// Present only when more pages remain.
	Bookmark string `xml:"Bookmark"`
}

// FetchShippedFeed implements ports.FeedReader. It drains the QuantumView
// feed page by page, following the bookmark the carrier issues while more
// pages remain, and returns the final page's response carrying the
// cumulative tracking-number → ship-time mapping. Later pages overwrite
// earlier entries for the same tracking number.
//
// A failure on any page aborts the fetch and discards pages already merged:
// callers get either the complete feed or an error, never a silent prefix.
func (c *Carrier) FetchShippedFeed(ctx context.Context) (*domain.QuantumViewResponse, error) {
	accumulated := make(map[string]time.Time)
	bookmark := ""

	for {
		request, err := c.buildRequest(quantumViewRequest{
			Request:  requestHeader{RequestAction: "QVEvents"},
			Bookmark: bookmark,
		}, true)
		if err != nil {
			return nil, err
		}
		raw, err := c.commit(ctx, "quantum_view", request)
		if err != nil {
			return nil, err
		}
		page, err := parseQuantumViewResponse(raw, request)
		if err != nil {
			return nil, err
		}
		if !page.Success {
			// business failure: hand back the carrier's verdict untouched
			return page, nil
		}
		for number, shippedAt := range page.ShippedInfo {
			accumulated[number] = shippedAt
		}
		if page.Bookmark == "" {
			page.ShippedInfo = accumulated
			return page, nil
		}
		bookmark = page.Bookmark
	}
}

func parseQuantumViewResponse(raw, request string) (*domain.QuantumViewResponse, error) {
	var doc quantumViewResponseDoc
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, malformed(err)
	}

	out := &domain.QuantumViewResponse{
		Response:    newResponse(doc.Response, raw, request),
		ShippedInfo: make(map[string]time.Time),
	}
	if !out.Success {
		return out, nil
	}

	for _, origin := range doc.QuantumViewEvents.SubscriptionEvents.SubscriptionFile.Origins {
		if shippedAt := activityTime(origin.Date, origin.Time); shippedAt != nil {
			out.ShippedInfo[origin.TrackingNumber] = *shippedAt
		}
	}
	out.Bookmark = doc.Bookmark
	return out, nil
}
