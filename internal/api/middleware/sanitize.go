package middleware

import (
	"net/http"
	"strings"

	"github.com/transitlabs/metrodocs/internal/util"
)

// maxLoggedValue caps header and path values in log output.
const maxLoggedValue = 200

// SanitizeHeaders returns a copy of the headers safe for logging: credential
// headers are redacted, everything else is sanitized and truncated.
func SanitizeHeaders(h http.Header) map[string][]string {
	if h == nil {
		return nil
	}
	sensitive := map[string]struct{}{
		"authorization":       {},
		"cookie":              {},
		"set-cookie":          {},
		"proxy-authorization": {},
		"x-api-key":           {},
		"x-auth-token":        {},
		"x-forwarded-for":     {},
	}
	out := make(map[string][]string, len(h))
	for k, vals := range h {
		if _, ok := sensitive[strings.ToLower(k)]; ok {
			out[k] = []string{"<redacted>"}
			continue
		}
		clean := make([]string, 0, len(vals))
		for _, v := range vals {
			v = util.SanitizeForLog(v)
			if len(v) > maxLoggedValue {
				v = v[:maxLoggedValue]
			}
			clean = append(clean, v)
		}
		out[k] = clean
	}
	return out
}

// SanitizePath prepares a request path for safe logging: query string
// stripped, control characters removed, long values truncated.
func SanitizePath(p string) string {
	if i := strings.Index(p, "?"); i != -1 {
		p = p[:i]
	}
	p = util.SanitizeForLog(p)
	if len(p) > maxLoggedValue {
		p = p[:maxLoggedValue]
	}
	return p
}
