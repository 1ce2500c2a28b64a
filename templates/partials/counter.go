package partials

import (
	"lead_funnel_go/models"
	"time"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// ApplyCounter shows "N people applied". stats is nil when the sheet could not
// be read; the client keeps polling /api/stats and fills the numbers in.
func ApplyCounter(lang string, stats *models.LeadStats, poll time.Duration) g.Node {
	var total, recent int
	if stats != nil {
		total, recent = stats.TotalCount, stats.Last30DaysCount
	}

	return h.Div(
		h.ID("applied"),
		h.Class("applied"),
		h.Data("endpoint", "/api/stats"),
		h.Data("poll-ms", millis(poll)),
		h.Aria("live", "polite"),
		g.If(stats == nil, h.Data("pending", "true")),
		h.P(h.Class("applied__total"),
			g.Text(t(lang, "site.applied", map[string]interface{}{"count": formatCount(total)})),
		),
		g.If(recent > 0, h.P(h.Class("applied__recent"),
			g.Text(t(lang, "site.applied_recent", map[string]interface{}{"count": formatCount(recent)})),
		)),
	)
}
