// Package format turns raw model output into [parley.Node] structured text.
//
// Formatting is an ordered pipeline of rules. Each rule rewrites only the
// [parley.Plain] leaves left by the rules before it; every other node is
// opaque to later rules. Fenced code runs first so code is never
// reformatted, then lines, then bold, then italic, so the italic rule never
// sees asterisks the bold rule consumed.
package format

import (
	"regexp"
	"strings"

	"github.com/fwojciec/parley"
)

const fence = "```"

var (
	boldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.+?)\*`)

	languagePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_+#-]*$`)
)

type rule func([]parley.Node) []parley.Node

var pipeline = []rule{
	fencedCode,
	lines,
	spans(boldPattern, func(s string) parley.Node { return parley.Strong{Text: s} }),
	spans(italicPattern, func(s string) parley.Node { return parley.Emphasis{Text: s} }),
}

// Format returns the structured form of raw. It never fails: text no rule
// recognizes comes back as [parley.Plain]. The result is never nil.
func Format(raw string) []parley.Node {
	nodes := []parley.Node{parley.Plain{Text: raw}}
	for _, r := range pipeline {
		nodes = r(nodes)
	}
	if nodes == nil {
		return []parley.Node{}
	}
	return nodes
}

// fencedCode splits plain leaves on pairs of ``` markers. An unclosed fence
// stays literal.
func fencedCode(nodes []parley.Node) []parley.Node {
	return eachPlain(nodes, func(s string) []parley.Node {
		var out []parley.Node
		for {
			start := strings.Index(s, fence)
			if start < 0 {
				break
			}
			rest := s[start+len(fence):]
			end := strings.Index(rest, fence)
			if end < 0 {
				break
			}
			out = appendPlain(out, s[:start])
			out = append(out, codeBlock(rest[:end]))
			s = rest[end+len(fence):]
		}
		return appendPlain(out, s)
	})
}

// codeBlock keeps body verbatim. A lone identifier on the opening fence
// line is also recorded as the language hint.
func codeBlock(body string) parley.CodeBlock {
	var lang string
	if i := strings.IndexByte(body, '\n'); i > 0 && languagePattern.MatchString(body[:i]) {
		lang = body[:i]
	}
	return parley.CodeBlock{Language: lang, Code: body}
}

// lines turns newlines into line breaks, "* " lines into bullet items and
// separates numbered lines with an extra break. A bullet's trailing break
// stands in for the newline that ends its line.
func lines(nodes []parley.Node) []parley.Node {
	var out []parley.Node
	lineStart := true
	for _, n := range nodes {
		p, ok := n.(parley.Plain)
		if !ok {
			out = append(out, n)
			lineStart = false
			continue
		}
		segs := strings.Split(p.Text, "\n")
		for i, seg := range segs {
			atStart := lineStart || i > 0
			if atStart && strings.HasPrefix(seg, "* ") {
				out = append(out, parley.BulletItem{Children: appendPlain(nil, seg[2:])}, parley.LineBreak{})
				continue
			}
			if atStart && isNumbered(seg) && len(out) > 0 {
				out = append(out, parley.LineBreak{})
			}
			out = appendPlain(out, seg)
			if i < len(segs)-1 {
				out = append(out, parley.LineBreak{})
			}
		}
		lineStart = strings.HasSuffix(p.Text, "\n")
	}
	return out
}

func isNumbered(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && strings.HasPrefix(line[i:], ". ")
}

// spans wraps every non-overlapping match of re in a node built by wrap.
func spans(re *regexp.Regexp, wrap func(string) parley.Node) rule {
	return func(nodes []parley.Node) []parley.Node {
		return eachPlain(nodes, func(s string) []parley.Node {
			var out []parley.Node
			last := 0
			for _, m := range re.FindAllStringSubmatchIndex(s, -1) {
				out = appendPlain(out, s[last:m[0]])
				out = append(out, wrap(s[m[2]:m[3]]))
				last = m[1]
			}
			return appendPlain(out, s[last:])
		})
	}
}

// eachPlain replaces every Plain leaf, including those inside bullet items,
// with the nodes fn returns for its text.
func eachPlain(nodes []parley.Node, fn func(string) []parley.Node) []parley.Node {
	var out []parley.Node
	for _, n := range nodes {
		switch v := n.(type) {
		case parley.Plain:
			out = append(out, fn(v.Text)...)
		case parley.BulletItem:
			out = append(out, parley.BulletItem{Children: eachPlain(v.Children, fn)})
		default:
			out = append(out, n)
		}
	}
	return out
}

func appendPlain(out []parley.Node, s string) []parley.Node {
	if s == "" {
		return out
	}
	return append(out, parley.Plain{Text: s})
}
