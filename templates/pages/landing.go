package pages

import (
	"context"
	"lead_funnel_go/middleware"
	"lead_funnel_go/models"
	"lead_funnel_go/services/i18n"
	"lead_funnel_go/templates/components"
	"lead_funnel_go/templates/partials"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const turnstileScript = "https://challenges.cloudflare.com/turnstile/v0/api.js"

// Landing renders the franchise landing page
func Landing(v LandingView) templ.Component {
	return components.Templ(func(ctx context.Context) g.Node {
		lang := v.Lang
		if lang == "" {
			lang = i18n.GetLocale(ctx)
		}
		nonce := middleware.GetNonce(ctx)

		return h.Doctype(h.HTML(
			h.Lang(lang),
			head(ctx, v.SEO),
			h.Body(
				h.Main(
					partials.HeroSlider(lang, v.Hero),
					h.Section(h.Class("cta"),
						h.H1(g.Text(v.Brand)),
						partials.ApplyCounter(lang, v.Stats, v.StatsPoll),
						h.A(h.Href("/lead"), h.Class("btn btn--primary cta__apply"), h.Data("action", "open"),
							g.Text(i18n.Translate(lang, "site.cta")),
						),
						g.If(v.KakaoURL != "", h.A(
							h.Href(v.KakaoURL),
							h.Class("btn btn--kakao"),
							h.Target("_blank"),
							h.Rel("noopener noreferrer"),
							g.Text(i18n.Translate(lang, "site.kakao")),
						)),
					),
				),
				partials.LeadFlowDialog(lang, partials.LeadFlowOptions{
					Open:             v.FlowOpen,
					TurnstileSiteKey: v.TurnstileSiteKey,
				}),
				components.InlineJSON("flow-messages", nonce, partials.FlowMessages(lang)),
				g.If(v.TurnstileSiteKey != "", h.Script(h.Src(turnstileScript), h.Async(), h.Defer())),
				h.Script(h.Src(middleware.AssetURL(ctx, middleware.AssetJS)), h.Defer(), g.If(nonce != "", g.Attr("nonce", nonce))),
			),
		))
	})
}

func head(ctx context.Context, seo *models.SEO) g.Node {
	if seo == nil {
		seo = models.DefaultSEO("", "")
	}

	return h.Head(
		h.Meta(h.Charset("utf-8")),
		h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
		h.TitleEl(g.Text(seo.Title)),
		h.Meta(h.Name("description"), h.Content(seo.Description)),
		g.If(seo.Keywords != "", h.Meta(h.Name("keywords"), h.Content(seo.Keywords))),
		g.If(seo.NoIndex, h.Meta(h.Name("robots"), h.Content("noindex, nofollow"))),
		g.If(seo.Canonical != "", h.Link(h.Rel("canonical"), h.Href(seo.Canonical))),
		g.Map(seo.AltLocales, func(alt string) g.Node {
			return h.Link(h.Rel("alternate"), g.Attr("hreflang", alt), h.Href(seo.LocaleURL(alt)))
		}),
		h.Meta(g.Attr("property", "og:type"), h.Content(seo.OGType)),
		h.Meta(g.Attr("property", "og:title"), h.Content(seo.GetOGTitle())),
		h.Meta(g.Attr("property", "og:description"), h.Content(seo.GetOGDesc())),
		h.Meta(g.Attr("property", "og:locale"), h.Content(seo.OGLocale())),
		g.If(seo.OGImage != "", h.Meta(g.Attr("property", "og:image"), h.Content(seo.OGImage))),
		h.Meta(h.Name("twitter:card"), h.Content(seo.TwitterCard)),
		h.Link(h.Rel("icon"), h.Href(middleware.AssetURL(ctx, middleware.AssetFavicon))),
		h.Link(h.Rel("stylesheet"), h.Href(middleware.AssetURL(ctx, middleware.AssetCSS))),
	)
}
