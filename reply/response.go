package reply

import (
	"strconv"

	"github.com/kestrelhttp/kestrel/bufpool"
	"github.com/kestrelhttp/kestrel/header"
	"github.com/kestrelhttp/kestrel/line"
)

// replyVersion is the version every reply is sent at regardless of what the
// request or response it answers declared (spec §6: "Reply version is
// always HTTP/1.1").
var replyVersion = line.Version{Major: 1, Minor: 1}

// Assemble builds the wire form of a server reply per spec §4.8: status
// line, effective headers (outbound ∪ extra ∪ Content-Length, extra
// overriding outbound), and body. It reports whether the caller must close
// the connection after this reply drains.
func Assemble(code int, body []byte, outbound, extra *header.Map) (wire []byte, closeAfterSend bool) {
	status := line.StatusLine{Version: replyVersion, Code: code, Reason: Reason(code)}

	effective := header.New()
	if outbound != nil {
		outbound.Each(effective.Set)
	}
	if extra != nil {
		extra.Each(effective.Set)
	}

	omitBody := code/100 == 1 || code == 204
	if omitBody {
		body = nil
	}
	if !(omitBody && len(body) == 0) {
		effective.Set("Content-Length", strconv.Itoa(len(body)))
	} else {
		effective.Del("Content-Length")
	}

	if code >= 400 {
		effective.Set("Connection", "close")
		closeAfterSend = true
	}

	buf := bufpool.Default.Get()
	defer bufpool.Default.Put(buf)
	buf.B = append(buf.B, status.Assemble()...)
	buf.B = effective.Write(buf.B)
	buf.B = append(buf.B, '\r', '\n')
	buf.B = append(buf.B, body...)

	wire = make([]byte, len(buf.B))
	copy(wire, buf.B)
	return wire, closeAfterSend
}

// AssembleRequest builds the wire form of a client request: a request line
// plus the same effective-header merge Assemble uses, with no connection or
// status-code policy applied (spec §4.8, "mirrors this with a request line
// and User-Agent: <identifier> as the default client header").
func AssembleRequest(method, target string, version line.Version, body []byte, outbound *header.Map) []byte {
	req := line.NewRequestLine(method, target, version)
	effective := header.New()
	if outbound != nil {
		outbound.Each(effective.Set)
	}
	effective.Set("Content-Length", strconv.Itoa(len(body)))

	buf := bufpool.Default.Get()
	defer bufpool.Default.Put(buf)
	buf.B = append(buf.B, req.Assemble()...)
	buf.B = effective.Write(buf.B)
	buf.B = append(buf.B, '\r', '\n')
	buf.B = append(buf.B, body...)

	wire := make([]byte, len(buf.B))
	copy(wire, buf.B)
	return wire
}
