package http

import (
	"net/url"
	"strings"
	"time"

	"smartfinance/internal/core"
	"smartfinance/internal/projection"
)

// sanitizeInput trims and strips control characters other than tab and
// newlines.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s))
}

// parseFilter reads the list filter from query parameters. Explicit start
// and end must be YYYY-MM-DD; a valid range preset overrides them.
func parseFilter(q url.Values, today time.Time) (projection.Filter, bool) {
	f := projection.Filter{
		Category: sanitizeInput(q.Get("category")),
		Mode:     sanitizeInput(q.Get("mode")),
	}
	var ok bool
	if f.Start, ok = dateBound(q.Get("start")); !ok {
		return f, false
	}
	if f.End, ok = dateBound(q.Get("end")); !ok {
		return f, false
	}
	if r := projection.QuickRange(sanitizeInput(q.Get("range"))); r != "" {
		if !r.Valid() {
			return f, false
		}
		f = f.Apply(r, today)
	}
	return f, true
}

// dateBound normalizes an optional filter bound. Bounds are compared as
// strings downstream, so only the canonical layout is accepted.
func dateBound(raw string) (string, bool) {
	raw = sanitizeInput(raw)
	if raw == "" {
		return "", true
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		return "", false
	}
	return d.String(), true
}
