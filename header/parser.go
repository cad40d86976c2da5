package header

import (
	"strings"

	"github.com/kestrelhttp/kestrel/grammar"
)

// Parser absorbs header field lines one at a time, the way an RFC 7230
// message is actually delivered off the wire: no line is available until the
// transport hands it over, so the parser is driven incrementally rather than
// handed a whole block to split.
//
// Absorb treats each call as one physical line (CRLF already stripped by the
// caller, or still attached — both are accepted). A line starting a new
// field sets last-field; a line beginning with SP/HTAB continues it
// (obs-fold, RFC 7230 §3.2.4); an empty line completes the message.
type Parser struct {
	headers  *Map
	lastName string
	complete bool
}

// NewParser returns a Parser ready to absorb the first header line.
func NewParser() *Parser {
	return &Parser{headers: New()}
}

// Reset discards any absorbed state so the parser can be reused for the next
// message on the same session (sessions are recycled, not reallocated).
func (p *Parser) Reset() {
	p.headers = New()
	p.lastName = ""
	p.complete = false
}

// Complete reports whether the terminating blank line has been absorbed.
func (p *Parser) Complete() bool {
	return p.complete
}

// LastField returns the field-name last started, or "" if none yet (used to
// validate that a continuation line cannot be the very first line).
func (p *Parser) LastField() string {
	return p.lastName
}

// Headers returns the header map absorbed so far.
func (p *Parser) Headers() *Map {
	return p.headers
}

// Absorb feeds one physical line into the parser. It returns false if the
// line is not a legal field line, continuation line, or the terminating
// blank line — the caller (the control-flow state machine) treats that as a
// client parse error, per spec: "fails silently on malformed lines ...
// caller treats absence of progress as a client error."
//
// Absorb is a no-op (returns true, does nothing else) once Complete() is
// already true; extra blank lines after completion are never observed by a
// conforming transport but Absorb stays safe if they are.
func (p *Parser) Absorb(rawLine string) bool {
	if p.complete {
		return true
	}
	line := strings.TrimRight(rawLine, "\r\n")
	if line == "" {
		p.complete = true
		return true
	}

	if grammar.HasLeadingOWS(line) {
		if p.lastName == "" {
			return false // obs-fold with nothing to continue
		}
		value := grammar.TrimOWS(line)
		if !grammar.IsFieldValue(value) {
			return false
		}
		p.headers.AddFoldedJoin(p.lastName, value)
		return true
	}

	colon := strings.IndexByte(line, ':')
	if colon <= 0 {
		return false
	}
	name := line[:colon]
	if !grammar.IsToken(name) {
		return false
	}
	value := grammar.TrimOWS(line[colon+1:])
	if !grammar.IsFieldValue(value) {
		return false
	}
	p.headers.Add(name, value)
	p.lastName = name
	return true
}
