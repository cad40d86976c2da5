// Package reply assembles the on-wire status-line-plus-headers-plus-body
// form of a reply (spec §4.8) and the canonical markdown error bodies
// emitted when dispatch fails (spec §4.9).
package reply

// reasons is the static status-code to reason-phrase table spec §4.8
// requires, with "Other Status" as the fallback for unlisted codes.
var reasons = map[int]string{
	100: "Continue",
	101: "Switching Protocols",
	200: "OK",
	201: "Created",
	202: "Accepted",
	204: "No Content",
	206: "Partial Content",
	301: "Moved Permanently",
	302: "Found",
	303: "See Other",
	304: "Not Modified",
	307: "Temporary Redirect",
	308: "Permanent Redirect",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	406: "Not Acceptable",
	408: "Request Timeout",
	409: "Conflict",
	411: "Length Required",
	413: "Payload Too Large",
	414: "URI Too Long",
	417: "Expectation Failed",
	431: "Request Header Fields Too Large",
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
}

// Reason returns the static reason phrase for code, or "Other Status" if
// code isn't in the table.
func Reason(code int) string {
	if r, ok := reasons[code]; ok {
		return r
	}
	return "Other Status"
}
