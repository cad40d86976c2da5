// Package accesslog renders one JSON line per reply, the structured-logging
// idiom spec §6 calls for ("one JSON line per reply... keys sorted").
// Marshaling goes through goccy/go-json rather than encoding/json, matching
// the JSON library already in the dependency stack this module carries.
package accesslog

import "github.com/goccy/go-json"

// Entry is one access-log record. Fields are ordered alphabetically in the
// struct so goccy/go-json's struct-tag-order marshaling matches the
// case-insensitive sorted-keys invariant the rest of the wire format uses.
type Entry struct {
	Bytes     int    `json:"bytes"`
	Method    string `json:"method"`
	Peer      string `json:"peer"`
	Protocol  string `json:"protocol"`
	Referer   string `json:"referer,omitempty"`
	Resource  string `json:"resource"`
	SessionID string `json:"session_id"`
	Status    int    `json:"status"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Line renders e as one compact JSON line, with no trailing newline.
func Line(e Entry) (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
