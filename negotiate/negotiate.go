// Package negotiate implements the q-value weighted content negotiation
// function the session layer invokes as a pure black box: given a client
// header value (e.g. an Accept field) and a server's list of offers, choose
// the offer the client prefers most, or report that none matched.
//
// Spec treats MIME parsing and negotiation internals as out of scope,
// specified only by the signature `negotiate(clientHeader, serverOffers) ->
// chosen or empty`. stdlib `mime` supplies media-type/parameter parsing;
// there is no third-party q-value negotiation library in the retrieval
// pack, and pulling one in for a function the spec explicitly treats as a
// black box would be disproportionate.
package negotiate

import (
	"mime"
	"sort"
	"strconv"
	"strings"
)

// Offer is one server-side candidate with a fixed preference weight,
// expressed the way a servlet registers it: "text/plain" or
// "application/json;q=0.9".
type Offer struct {
	Value   string
	Quality float64
}

// ParseOffers parses a comma-separated offer list such as
// "text/plain, application/json;q=0.9" into weighted Offers, highest
// quality first (ties keep registration order).
func ParseOffers(spec string) []Offer {
	parts := strings.Split(spec, ",")
	offers := make([]Offer, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		value, quality := splitQuality(p)
		offers = append(offers, Offer{Value: value, Quality: quality})
	}
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Quality > offers[j].Quality
	})
	return offers
}

func splitQuality(token string) (value string, quality float64) {
	quality = 1.0
	t, params, err := mime.ParseMediaType(token)
	if err != nil {
		return strings.TrimSpace(token), quality
	}
	if q, ok := params["q"]; ok {
		if f, err := strconv.ParseFloat(q, 64); err == nil {
			quality = f
		}
		delete(params, "q")
	}
	return t, quality
}

// clientPreference is one weighted value parsed out of a client header.
type clientPreference struct {
	value   string
	quality float64
}

func parseClientHeader(header string) []clientPreference {
	if header == "" {
		return nil
	}
	parts := strings.Split(header, ",")
	prefs := make([]clientPreference, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		value, quality := splitQuality(p)
		if quality <= 0 {
			continue // q=0 means explicitly unacceptable
		}
		prefs = append(prefs, clientPreference{value: value, quality: quality})
	}
	return prefs
}

// matches reports whether a client preference token matches a server offer
// value, honoring the "*/*" and "type/*" wildcard forms of Accept.
func matches(pref, offer string) bool {
	if pref == "*/*" || pref == "*" {
		return true
	}
	slash := strings.IndexByte(pref, '/')
	if slash < 0 {
		return strings.EqualFold(pref, offer)
	}
	offerSlash := strings.IndexByte(offer, '/')
	if offerSlash < 0 {
		return false
	}
	if strings.HasSuffix(pref, "/*") {
		return strings.EqualFold(pref[:slash], offer[:offerSlash])
	}
	return strings.EqualFold(pref, offer)
}

// Negotiate chooses the offer the client prefers most from offers, given
// the raw value of the client's negotiation header (empty string if the
// client sent no such header, which accepts anything and selects the
// server's own highest-quality offer). It returns ("", false) if no offer
// is acceptable to the client — every matching candidate had q=0, or no
// candidate matched at all.
func Negotiate(clientHeader string, offers []Offer) (string, bool) {
	if len(offers) == 0 {
		return "", false
	}
	if strings.TrimSpace(clientHeader) == "" {
		return offers[0].Value, true
	}
	prefs := parseClientHeader(clientHeader)
	if len(prefs) == 0 {
		return "", false
	}

	best := ""
	bestScore := -1.0
	for _, offer := range offers {
		for _, pref := range prefs {
			if !matches(pref.value, offer.Value) {
				continue
			}
			score := pref.quality * offer.Quality
			if score > bestScore {
				bestScore = score
				best = offer.Value
			}
		}
	}
	if bestScore < 0 {
		return "", false
	}
	return best, true
}
