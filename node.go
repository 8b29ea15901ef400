package parley

// Node is a sealed interface representing one unit of structured text.
// Consumers render a []Node without re-parsing it, and every leaf holds
// literal text that must never be interpreted as markup.
// The unexported marker method prevents external implementations.
type Node interface {
	node()
}

// Plain is literal text.
type Plain struct {
	Text string
}

func (Plain) node() {}

// Strong is strongly emphasized text.
type Strong struct {
	Text string
}

func (Strong) node() {}

// Emphasis is emphasized text.
type Emphasis struct {
	Text string
}

func (Emphasis) node() {}

// LineBreak is an explicit line break.
type LineBreak struct{}

func (LineBreak) node() {}

// BulletItem is one bullet-list entry.
type BulletItem struct {
	Children []Node
}

func (BulletItem) node() {}

// CodeBlock holds verbatim code. Language is empty when the fence had no
// info word.
type CodeBlock struct {
	Language string
	Code     string
}

func (CodeBlock) node() {}

// PlainText concatenates the literal text of nodes, rendering line breaks
// as newlines and bullets with a "* " prefix.
func PlainText(nodes []Node) string {
	var b []byte
	for _, n := range nodes {
		b = appendPlain(b, n)
	}
	return string(b)
}

func appendPlain(b []byte, n Node) []byte {
	switch v := n.(type) {
	case Plain:
		return append(b, v.Text...)
	case Strong:
		return append(b, v.Text...)
	case Emphasis:
		return append(b, v.Text...)
	case LineBreak:
		return append(b, '\n')
	case BulletItem:
		b = append(b, "* "...)
		for _, c := range v.Children {
			b = appendPlain(b, c)
		}
		return b
	case CodeBlock:
		return append(b, v.Code...)
	}
	return b
}

// Interface compliance checks.
var (
	_ Node = Plain{}
	_ Node = Strong{}
	_ Node = Emphasis{}
	_ Node = LineBreak{}
	_ Node = BulletItem{}
	_ Node = CodeBlock{}
)
