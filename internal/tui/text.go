package tui

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BlockKind classifies a run of slide text for terminal styling.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockBullet
	BlockCode
)

// Block is one paragraph-level piece of slide text.
type Block struct {
	Kind  BlockKind
	Level int // heading level, 1-6
	Text  string
}

// skipped elements contribute no visible text.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Head:     true,
	atom.Template: true,
	atom.Noscript: true,
}

// ExtractText flattens slide markup into styled text blocks. Layout and
// styling classes are dropped; only document structure survives.
func ExtractText(content string) []Block {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return []Block{{Kind: BlockParagraph, Text: content}}
	}
	x := &extractor{}
	x.walk(doc)
	x.flush(BlockParagraph, 0)
	return x.blocks
}

type extractor struct {
	buf    strings.Builder
	blocks []Block
}

func (x *extractor) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		x.buf.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipped[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Br {
			x.buf.WriteByte('\n')
			return
		}
	}

	kind, level, block := classify(n)
	if block {
		x.flush(BlockParagraph, 0)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		x.walk(c)
	}
	if block {
		x.flush(kind, level)
	}
}

func (x *extractor) flush(kind BlockKind, level int) {
	raw := x.buf.String()
	x.buf.Reset()

	var text string
	if kind == BlockCode {
		text = strings.Trim(raw, "\n")
	} else {
		text = strings.Join(strings.Fields(raw), " ")
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	x.blocks = append(x.blocks, Block{Kind: kind, Level: level, Text: text})
}

// classify reports whether n starts a new block and what kind it is.
func classify(n *html.Node) (BlockKind, int, bool) {
	if n.Type != html.ElementNode {
		return BlockParagraph, 0, false
	}
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return BlockHeading, int(n.Data[1] - '0'), true
	case atom.Li:
		return BlockBullet, 0, true
	case atom.Pre:
		return BlockCode, 0, true
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Blockquote,
		atom.Header, atom.Footer, atom.Tr, atom.Figcaption, atom.Dt, atom.Dd:
		return BlockParagraph, 0, true
	}
	return BlockParagraph, 0, false
}
