package convert

import (
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// Kind classifies a parsed node for rendering
type Kind int

const (
	KindUnsupported Kind = iota
	KindText
	KindStrong
	KindEmphasis
	KindStrike
	KindInlineCode
	// KindLineBreak is carried by goldmark as a flag on text nodes rather than as a node of its own
	KindLineBreak
	KindLink
	KindAutoLink
	KindImage
	KindParagraph
	KindHeading
	KindQuote
	KindCodeBlock
	KindBulletList
	KindOrderedList
	KindListItem
	KindThematicBreak
	KindTable
	KindDocument
)

var kindNames = [...]string{
	KindUnsupported:   "Unsupported",
	KindText:          "Text",
	KindStrong:        "Strong",
	KindEmphasis:      "Emphasis",
	KindStrike:        "Strike",
	KindInlineCode:    "InlineCode",
	KindLineBreak:     "LineBreak",
	KindLink:          "Link",
	KindAutoLink:      "AutoLink",
	KindImage:         "Image",
	KindParagraph:     "Paragraph",
	KindHeading:       "Heading",
	KindQuote:         "Quote",
	KindCodeBlock:     "CodeBlock",
	KindBulletList:    "BulletList",
	KindOrderedList:   "OrderedList",
	KindListItem:      "ListItem",
	KindThematicBreak: "ThematicBreak",
	KindTable:         "Table",
	KindDocument:      "Document",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unsupported"
	}
	return kindNames[k]
}

// kindOf maps a goldmark node onto the closed set of kinds the renderer knows.
// Raw HTML is classified as text: it is emitted literally and escaped.
func kindOf(n ast.Node) Kind {
	switch n := n.(type) {
	case *ast.Text, *ast.String, *ast.RawHTML:
		return KindText
	case *ast.HTMLBlock:
		// block-level raw HTML renders as an escaped paragraph
		return KindParagraph
	case *ast.Emphasis:
		if n.Level >= 2 {
			return KindStrong
		}
		return KindEmphasis
	case *east.Strikethrough:
		return KindStrike
	case *ast.CodeSpan:
		return KindInlineCode
	case *ast.Link:
		return KindLink
	case *ast.AutoLink:
		return KindAutoLink
	case *ast.Image:
		return KindImage
	case *ast.Paragraph, *ast.TextBlock:
		return KindParagraph
	case *ast.Heading:
		return KindHeading
	case *ast.Blockquote:
		return KindQuote
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return KindCodeBlock
	case *ast.List:
		if n.IsOrdered() {
			return KindOrderedList
		}
		return KindBulletList
	case *ast.ListItem:
		return KindListItem
	case *ast.ThematicBreak:
		return KindThematicBreak
	case *east.Table:
		return KindTable
	case *ast.Document:
		return KindDocument
	}
	return KindUnsupported
}
