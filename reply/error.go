package reply

import (
	"sort"
	"strings"

	"github.com/kestrelhttp/kestrel/header"
)

// Error builds the canonical markdown error body for code and delegates to
// Assemble, per spec §4.9. allow, if non-empty, is serialized as an Allow
// header with methods in case-insensitive sorted order (used for 405
// replies).
func Error(code int, allow []string, outbound *header.Map) (wire []byte, closeAfterSend bool) {
	body := []byte("# " + Reason(code) + "\n\nAn error occurred while processing your request. That's all I know.\n")

	extra := header.New()
	extra.Set("Content-Type", "text/markdown")
	if len(allow) > 0 {
		sorted := make([]string, len(allow))
		copy(sorted, allow)
		sort.Slice(sorted, func(i, j int) bool {
			return strings.ToLower(sorted[i]) < strings.ToLower(sorted[j])
		})
		extra.Set("Allow", strings.Join(sorted, ","))
	}

	return Assemble(code, body, outbound, extra)
}
