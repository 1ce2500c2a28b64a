package partials

import (
	"lead_funnel_go/services/i18n"
	"strconv"
	"time"
)

func t(lang, key string, args ...map[string]interface{}) string {
	return i18n.Translate(lang, key, args...)
}

// formatCount renders n with thousands separators: 12345 -> "12,345"
func formatCount(n int) string {
	s := strconv.Itoa(n)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}

func millis(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}
