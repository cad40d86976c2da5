package negotiate

import "testing"

func TestNegotiateExactMatch(t *testing.T) {
	offers := ParseOffers("text/plain, application/json;q=0.9")
	v, ok := Negotiate("application/json", offers)
	if !ok || v != "application/json" {
		t.Fatalf("Negotiate = %q, %v", v, ok)
	}
}

func TestNegotiateNoMatch(t *testing.T) {
	offers := ParseOffers("text/plain, application/json;q=0.9")
	_, ok := Negotiate("application/foo", offers)
	if ok {
		t.Fatal("expected no match")
	}
}

func TestNegotiateEmptyHeaderPicksHighestQualityOffer(t *testing.T) {
	offers := ParseOffers("application/json;q=0.9, text/plain")
	v, ok := Negotiate("", offers)
	if !ok || v != "text/plain" {
		t.Fatalf("Negotiate empty header = %q, %v", v, ok)
	}
}

func TestNegotiateWildcard(t *testing.T) {
	offers := ParseOffers("text/plain")
	v, ok := Negotiate("text/*;q=0.8, */*;q=0.1", offers)
	if !ok || v != "text/plain" {
		t.Fatalf("Negotiate wildcard = %q, %v", v, ok)
	}
}

func TestNegotiateQZeroExcludes(t *testing.T) {
	offers := ParseOffers("application/json")
	_, ok := Negotiate("application/json;q=0", offers)
	if ok {
		t.Fatal("expected q=0 to exclude the offer")
	}
}

func TestParseOffersOrdersByQuality(t *testing.T) {
	offers := ParseOffers("a/a;q=0.2, b/b;q=0.9, c/c")
	if offers[0].Value != "c/c" || offers[1].Value != "b/b" || offers[2].Value != "a/a" {
		t.Fatalf("unexpected order: %+v", offers)
	}
}
