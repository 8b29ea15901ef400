// Package goldmark renders structured text as HTML for markup-based
// consumers, escaping every leaf with goldmark's HTML utilities.
package goldmark

import (
	"bytes"

	"github.com/fwojciec/parley"
	"github.com/yuin/goldmark/util"
)

// RenderHTML returns nodes as an HTML fragment. Leaf text is always
// escaped, so model output cannot inject markup.
func RenderHTML(nodes []parley.Node) string {
	var buf bytes.Buffer
	render(&buf, nodes)
	return buf.String()
}

func render(buf *bytes.Buffer, nodes []parley.Node) {
	for _, n := range nodes {
		switch v := n.(type) {
		case parley.Plain:
			buf.Write(util.EscapeHTML([]byte(v.Text)))
		case parley.Strong:
			buf.WriteString("<strong>")
			buf.Write(util.EscapeHTML([]byte(v.Text)))
			buf.WriteString("</strong>")
		case parley.Emphasis:
			buf.WriteString("<em>")
			buf.Write(util.EscapeHTML([]byte(v.Text)))
			buf.WriteString("</em>")
		case parley.LineBreak:
			buf.WriteString("<br />")
		case parley.BulletItem:
			buf.WriteString("• ")
			render(buf, v.Children)
		case parley.CodeBlock:
			buf.WriteString("<pre><code")
			if v.Language != "" {
				buf.WriteString(` class="language-`)
				buf.Write(util.EscapeHTML([]byte(v.Language)))
				buf.WriteString(`"`)
			}
			buf.WriteString(">")
			buf.Write(util.EscapeHTML([]byte(v.Code)))
			buf.WriteString("</code></pre>")
		}
	}
}
