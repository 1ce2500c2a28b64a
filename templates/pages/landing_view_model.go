package pages

import (
	"lead_funnel_go/models"
	"lead_funnel_go/services/slider"
	"time"
)

// LandingView holds the data for the landing page
type LandingView struct {
	Lang             string
	Brand            string
	SEO              *models.SEO
	Hero             *slider.Slider
	Stats            *models.LeadStats // nil when the sheet could not be read
	StatsPoll        time.Duration
	KakaoURL         string
	TurnstileSiteKey string
	FlowOpen         bool
}
