package uri

import "testing"

func TestParseFullURI(t *testing.T) {
	u := Parse("https://example.com/path/to%20file?q=1#frag")
	if !u.Valid() {
		t.Fatal("expected valid")
	}
	if u.Scheme != "https" || u.Authority != "example.com" || u.Path != "/path/to file" || u.Query != "q=1" || u.Fragment != "frag" {
		t.Fatalf("parsed wrong: %+v", u)
	}
}

func TestParsePathOnly(t *testing.T) {
	u := Parse("/hello")
	if !u.Valid() || u.Path != "/hello" || u.Scheme != "" {
		t.Fatalf("parsed wrong: %+v", u)
	}
}

func TestParseStar(t *testing.T) {
	u := Parse("*")
	if !u.Valid() || u.Path != "" {
		t.Fatalf("expected valid empty-path for *, got %+v", u)
	}
}

func TestParseTruncatedEscapeInvalid(t *testing.T) {
	u := Parse("/foo%2")
	if u.Valid() {
		t.Fatal("expected truncated percent-escape to be invalid")
	}
}

func TestParseBadHexDigitInvalid(t *testing.T) {
	u := Parse("/foo%zz")
	if u.Valid() {
		t.Fatal("expected invalid hex digits to be invalid")
	}
}

func TestRoundTripModuloEncoding(t *testing.T) {
	u := Parse("/a%20b?x=1")
	again := Parse(u.Assemble())
	if !again.Valid() || again.Path != u.Path || again.Query != u.Query {
		t.Fatalf("round trip mismatch: %+v vs %+v", u, again)
	}
}

func TestRoundTripWithAuthority(t *testing.T) {
	u := Parse("http://example.com/x")
	again := Parse(u.Assemble())
	if !again.Valid() || again.Authority != u.Authority || again.Scheme != u.Scheme {
		t.Fatalf("round trip mismatch: %+v vs %+v", u, again)
	}
}
