package bubbletea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/parley"
	"github.com/mattn/go-runewidth"
)

const (
	tabWidth  = 24
	tabMargin = " "
)

// RenderMessage renders one message at the given width. User text is shown
// literally; bot messages render their structured form. All text is
// sanitized first.
func RenderMessage(msg parley.Message, styles Styles, width int) string {
	var content string
	switch msg.Sender {
	case parley.SenderUser:
		content = styles.UserMsg.Render("> ") + Sanitize(msg.Text)
	default:
		nodes := msg.Formatted
		if nodes == nil {
			nodes = []parley.Node{parley.Plain{Text: msg.Text}}
		}
		content = styles.BotMsg.Render("• ") + RenderNodes(nodes, styles)
	}
	return lipgloss.NewStyle().Width(width).Render(content)
}

// RenderNodes renders structured text with lipgloss styles.
func RenderNodes(nodes []parley.Node, styles Styles) string {
	var b strings.Builder
	renderNodes(&b, nodes, styles)
	return strings.TrimSuffix(b.String(), "\n")
}

func renderNodes(b *strings.Builder, nodes []parley.Node, styles Styles) {
	for _, n := range nodes {
		switch v := n.(type) {
		case parley.Plain:
			b.WriteString(Sanitize(v.Text))
		case parley.Strong:
			b.WriteString(styles.Strong.Render(Sanitize(v.Text)))
		case parley.Emphasis:
			b.WriteString(styles.Emphasis.Render(Sanitize(v.Text)))
		case parley.LineBreak:
			b.WriteString("\n")
		case parley.BulletItem:
			b.WriteString("• ")
			renderNodes(b, v.Children, styles)
		case parley.CodeBlock:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteString("\n")
			}
			code := strings.TrimSuffix(Sanitize(v.Code), "\n")
			for _, line := range strings.Split(code, "\n") {
				b.WriteString(styles.Gutter.Render("│ "))
				b.WriteString(styles.Code.Render(line))
				b.WriteString("\n")
			}
		}
	}
}

// RenderTabs renders the thread tab bar with the active thread
// highlighted. Titles are truncated to fit a fixed tab width.
func RenderTabs(s parley.Session, styles Styles, width int) string {
	tabs := make([]string, 0, len(s.Threads))
	for _, t := range s.Threads {
		title := runewidth.Truncate(Sanitize(t.Title), tabWidth, "…")
		if t.ID == s.ActiveThreadID {
			tabs = append(tabs, styles.TabActive.Render(title))
		} else {
			tabs = append(tabs, styles.TabInactive.Render(title))
		}
	}
	line := strings.Join(tabs, tabMargin+styles.Muted.Render("│")+tabMargin)
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}
