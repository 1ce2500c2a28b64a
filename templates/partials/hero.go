package partials

import (
	"fmt"
	"lead_funnel_go/services/slider"
	"strconv"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// HeroSlider renders the carousel at the slider's current position. The
// client script drives drag, autoplay and the viewer from the data attributes.
func HeroSlider(lang string, s *slider.Slider) g.Node {
	deck := s.RenderSlides()
	last := len(deck) - 1

	items := make([]g.Node, 0, len(deck))
	for i, slide := range deck {
		clone := i == 0 || i == last
		loading := "lazy"
		if i == s.Index() {
			loading = "eager"
		}
		items = append(items, h.Div(
			h.Class("hero__slide"),
			h.Data("index", strconv.Itoa(i)),
			h.StyleAttr(fmt.Sprintf("transform: translateX(%.0f%%)", s.Position(i))),
			g.If(clone, h.Aria("hidden", "true")),
			h.Img(
				h.Src(slide.Src),
				h.Alt(slide.Alt),
				g.Attr("loading", loading),
				g.Attr("draggable", "false"),
			),
		))
	}

	return h.Section(
		h.ID("hero"),
		h.Class("hero"),
		h.Aria("roledescription", "carousel"),
		h.Aria("label", t(lang, "site.slider_label")),
		h.Data("count", strconv.Itoa(s.Len())),
		h.Data("index", strconv.Itoa(s.Index())),
		h.Data("threshold-ratio", strconv.FormatFloat(slider.DragThresholdRatio, 'f', -1, 64)),
		h.Data("transition-ms", millis(slider.TransitionDuration)),
		h.Data("autoplay-ms", millis(slider.DefaultAutoplayInterval)),
		h.Data("viewer-swipe", strconv.Itoa(slider.ViewerSwipeThreshold)),
		h.Div(h.Class("hero__track"), g.Group(items)),
		g.If(s.Len() > 1, g.Group([]g.Node{
			h.Button(h.Type("button"), h.Class("hero__nav hero__nav--prev"), h.Aria("label", t(lang, "site.prev")), g.Text("‹")),
			h.Button(h.Type("button"), h.Class("hero__nav hero__nav--next"), h.Aria("label", t(lang, "site.next")), g.Text("›")),
		})),
		h.P(h.Class("hero__pager"), h.Aria("live", "polite"),
			h.Span(h.Class("hero__current"), g.Text(strconv.Itoa(s.Current()))),
			g.Text(" / "+strconv.Itoa(s.Len())),
		),
	)
}
