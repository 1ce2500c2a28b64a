package partials

import (
	"lead_funnel_go/services/leadflow"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// LeadFlowOptions configures the application dialog
type LeadFlowOptions struct {
	Open             bool
	TurnstileSiteKey string
}

type consentRow struct {
	key   leadflow.ConsentKey
	label string
}

// LeadFlowDialog renders the three-step application form: region and memo,
// then name and phone, then the consent sheet. Steps are toggled client-side
// by data-step; the server validates the final payload again.
func LeadFlowDialog(lang string, opts LeadFlowOptions) g.Node {
	consents := []consentRow{
		{leadflow.ConsentCollection, "consent.privacy"},
		{leadflow.ConsentThirdParty, "consent.third_party"},
		{leadflow.ConsentCompany, "consent.company"},
	}

	state := "idle"
	if opts.Open {
		state = "step1"
	}

	return h.Div(
		h.ID("lead-flow"),
		h.Class("flow"),
		h.Role("dialog"),
		h.Aria("modal", "true"),
		h.Aria("labelledby", "lead-flow-title"),
		h.Data("state", state),
		g.If(!opts.Open, g.Attr("hidden", "")),
		h.Form(
			h.Class("flow__form"),
			h.Action("/api/lead"),
			h.Method("post"),
			g.Attr("novalidate", ""),
			h.H2(h.ID("lead-flow-title"), h.Class("flow__title"), g.Text(t(lang, "form.title"))),

			h.FieldSet(h.Class("flow__step"), h.Data("step", "step1"),
				h.Legend(g.Text(t(lang, "form.step1"))),
				textField(leadflow.FieldRegion, t(lang, "form.region"), t(lang, "form.region_placeholder"), "text", false),
				h.Label(h.For("lead-"+leadflow.FieldMemo), g.Text(t(lang, "form.memo"))),
				h.Textarea(
					h.ID("lead-"+leadflow.FieldMemo),
					h.Name(leadflow.FieldMemo),
					h.Rows("4"),
					h.Placeholder(t(lang, "form.memo_placeholder")),
				),
				h.Button(h.Type("button"), h.Class("btn btn--primary"), h.Data("action", "next"), g.Text(t(lang, "form.next"))),
			),

			h.FieldSet(h.Class("flow__step"), h.Data("step", "step2"), g.Attr("hidden", ""),
				h.Legend(g.Text(t(lang, "form.step2"))),
				textField(leadflow.FieldName, t(lang, "form.name"), "", "text", true),
				textField(leadflow.FieldPhone, t(lang, "form.phone"), t(lang, "form.phone_placeholder"), "tel", true),
				h.Div(h.Class("flow__actions"),
					h.Button(h.Type("button"), h.Class("btn"), h.Data("action", "back"), g.Text(t(lang, "form.back"))),
					h.Button(h.Type("button"), h.Class("btn btn--primary"), h.Data("action", "consent"), g.Text(t(lang, "form.next"))),
				),
			),

			h.FieldSet(h.Class("flow__step flow__consent"), h.Data("step", "consent"), g.Attr("hidden", ""),
				h.Legend(g.Text(t(lang, "form.consent_title"))),
				h.Label(h.Class("flow__check flow__check--all"),
					h.Input(h.Type("checkbox"), h.Data("action", "agree-all")),
					g.Text(t(lang, "form.agree_all")),
				),
				g.Map(consents, func(row consentRow) g.Node {
					return h.Label(h.Class("flow__check"),
						h.Input(h.Type("checkbox"), h.Name(string(row.key)), h.Required()),
						g.Text(t(lang, row.label)),
					)
				}),
				g.If(opts.TurnstileSiteKey != "", h.Div(
					h.Class("cf-turnstile"),
					h.Data("sitekey", opts.TurnstileSiteKey),
				)),
				h.Div(h.Class("flow__actions"),
					h.Button(h.Type("button"), h.Class("btn"), h.Data("action", "back"), g.Text(t(lang, "form.back"))),
					h.Button(h.Type("submit"), h.Class("btn btn--primary"), h.Data("sending", t(lang, "form.sending")), g.Text(t(lang, "form.submit"))),
				),
			),

			h.Div(h.Class("flow__step flow__complete"), h.Data("step", "complete"), g.Attr("hidden", ""),
				h.P(g.Text(t(lang, "flow.complete"))),
				h.Button(h.Type("button"), h.Class("btn btn--primary"), h.Data("action", "close"), g.Text(t(lang, "form.close"))),
			),

			h.P(h.Class("flow__error"), h.Role("alert"), g.Attr("hidden", "")),
		),
		h.Button(h.Type("button"), h.Class("flow__close"), h.Data("action", "close"), h.Aria("label", t(lang, "form.close")), g.Text("×")),
	)
}

func textField(name, label, placeholder, inputType string, required bool) g.Node {
	id := "lead-" + name
	return g.Group([]g.Node{
		h.Label(h.For(id), g.Text(label)),
		h.Input(
			h.ID(id),
			h.Name(name),
			h.Type(inputType),
			g.If(placeholder != "", h.Placeholder(placeholder)),
			g.If(required, h.Required()),
			g.If(inputType == "tel", g.Attr("inputmode", "numeric")),
			g.If(inputType == "tel", h.MaxLength("13")),
		),
	})
}

// FlowMessages are the client-side validation and error strings
func FlowMessages(lang string) map[string]string {
	keys := []string{
		"step1_required", "step2_required", "phone_format", "consent_required",
		"network_error", "server_error", "rejected",
	}
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		out[key] = t(lang, "flow."+key)
	}
	return out
}
