// Package line parses and assembles the request-line and status-line
// grammar productions from RFC 7230 §3.1: the one line of a message that
// is neither a header field nor the body.
package line

import (
	"strconv"
	"strings"

	"github.com/kestrelhttp/kestrel/grammar"
	"github.com/kestrelhttp/kestrel/uri"
)

// Version is an HTTP major.minor pair.
type Version struct {
	Major, Minor int
}

// AtLeast reports whether v is >= other.
func (v Version) AtLeast(other Version) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor >= other.Minor
}

// String renders "HTTP/major.minor".
func (v Version) String() string {
	return "HTTP/" + strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
}

func parseVersion(tok string) (Version, bool) {
	const prefix = "HTTP/"
	if !strings.HasPrefix(tok, prefix) {
		return Version{}, false
	}
	rest := tok[len(prefix):]
	dot := strings.IndexByte(rest, '.')
	if dot < 0 {
		return Version{}, false
	}
	major, err := strconv.Atoi(rest[:dot])
	if err != nil || major < 0 {
		return Version{}, false
	}
	minor, err := strconv.Atoi(rest[dot+1:])
	if err != nil || minor < 0 {
		return Version{}, false
	}
	if len(rest[:dot]) == 0 || len(rest[dot+1:]) == 0 {
		return Version{}, false
	}
	return Version{Major: major, Minor: minor}, true
}

// RequestLine is the parsed "METHOD SP target SP HTTP/M.N" production.
type RequestLine struct {
	Method  string
	Target  string
	Version Version
	valid   bool
}

// MinRequestVersion is the lowest version the server accepts; request lines
// below it are invalid (spec: "Versions below (1,0) are rejected").
var MinRequestVersion = Version{Major: 1, Minor: 0}

// ParseRequestLine parses one request-line, with or without a trailing
// CRLF. An invalid line is returned with Valid() == false rather than an
// error, so callers can still inspect what they got.
func ParseRequestLine(raw string) RequestLine {
	raw = strings.TrimRight(raw, "\r\n")
	parts := strings.SplitN(raw, " ", 3)
	if len(parts) != 3 {
		return RequestLine{}
	}
	method, target, versionTok := parts[0], parts[1], parts[2]
	if !grammar.IsToken(method) {
		return RequestLine{}
	}
	// spec §3: a request line is valid iff "target parses" — uri.Parse
	// handles the "*" request-target form (OPTIONS *) as a special case,
	// and fails on a truncated or out-of-range percent-escape the same way
	// it would for any other malformed URI-reference.
	if target == "" || !uri.Parse(target).Valid() {
		return RequestLine{}
	}
	version, ok := parseVersion(versionTok)
	if !ok || !version.AtLeast(MinRequestVersion) {
		return RequestLine{}
	}
	return RequestLine{Method: method, Target: target, Version: version, valid: true}
}

// Valid reports whether the parsed line satisfies the grammar: non-empty
// token method, a parseable target, and version >= (1,0).
func (r RequestLine) Valid() bool {
	return r.valid
}

// NewRequestLine constructs an already-valid RequestLine for assembly (the
// client processor builds one from a caller's method/target/version rather
// than parsing it off the wire).
func NewRequestLine(method, target string, version Version) RequestLine {
	return RequestLine{Method: method, Target: target, Version: version, valid: true}
}

// Assemble renders the canonical wire form. An invalid RequestLine
// serializes as the sentinel "FAIL * HTTP/0.0\r\n" so that misuse produces
// observable wire data instead of an empty or panicking write.
func (r RequestLine) Assemble() string {
	if !r.valid {
		return "FAIL * HTTP/0.0\r\n"
	}
	return r.Method + " " + r.Target + " " + r.Version.String() + "\r\n"
}

// StatusLine is the parsed "HTTP/M.N SP code SP reason" production.
type StatusLine struct {
	Version Version
	Code    int
	Reason  string
	valid   bool
}

// supportedClientVersions lists the versions a client is willing to accept
// from a status line (spec: "version outside {1.0, 1.1} is invalid").
var supportedClientVersions = map[Version]bool{
	{Major: 1, Minor: 0}: true,
	{Major: 1, Minor: 1}: true,
}

// ParseStatusLine parses one status-line, with or without a trailing CRLF.
func ParseStatusLine(raw string) StatusLine {
	raw = strings.TrimRight(raw, "\r\n")
	parts := strings.SplitN(raw, " ", 3)
	if len(parts) < 2 {
		return StatusLine{}
	}
	version, ok := parseVersion(parts[0])
	if !ok || !supportedClientVersions[version] {
		return StatusLine{}
	}
	codeTok := parts[1]
	if len(codeTok) != 3 {
		return StatusLine{}
	}
	code, err := strconv.Atoi(codeTok)
	if err != nil || code < 100 || code > 599 {
		return StatusLine{}
	}
	reason := ""
	if len(parts) == 3 {
		reason = parts[2]
		for i := 0; i < len(reason); i++ {
			if !grammar.IsVChar(reason[i]) {
				return StatusLine{}
			}
		}
	}
	return StatusLine{Version: version, Code: code, Reason: reason, valid: true}
}

// Valid reports whether the parsed line satisfies the grammar.
func (s StatusLine) Valid() bool {
	return s.valid
}

// Assemble renders the canonical wire form. An invalid StatusLine
// serializes as the sentinel "HTTP/0.0 000 Invalid\r\n".
func (s StatusLine) Assemble() string {
	if !s.valid {
		return "HTTP/0.0 000 Invalid\r\n"
	}
	return s.Version.String() + " " + strconv.Itoa(s.Code) + " " + s.Reason + "\r\n"
}
