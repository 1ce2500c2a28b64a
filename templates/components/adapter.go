package components

import (
	"context"
	"encoding/json"
	"io"
	"log"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
)

// Templ wraps a gomponents tree so it renders wherever a templ.Component is
// expected. build runs per render so it can read locale and nonce from ctx.
func Templ(build func(ctx context.Context) g.Node) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return build(ctx).Render(w)
	})
}

// InlineJSON embeds v as a non-executable JSON script block. encoding/json
// escapes <, > and &, so the payload cannot close the tag. A value that
// cannot be encoded is embedded as an empty object.
func InlineJSON(id, nonce string, v interface{}) g.Node {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("[WARNING] Inline JSON %q not encodable: %v", id, err)
		payload = []byte("{}")
	}
	return g.El("script",
		g.Attr("id", id),
		g.Attr("type", "application/json"),
		g.If(nonce != "", g.Attr("nonce", nonce)),
		g.Raw(string(payload)),
	)
}
