package convert

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/gerunddev/slackify/parser"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"
)

// ErrTooDeep is returned when a document nests deeper than Options.MaxDepth
var ErrTooDeep = errors.New("markdown nesting too deep")

const (
	lineBreak    = "\n"
	bulletPrefix = "•   "
)

// shebangPattern matches a deprecated "#!lang" marker on the first line of a code block
var shebangPattern = regexp.MustCompile(`^#!.*?\n`)

// Converter renders Markdown as Slack mrkdwn.
// It holds only immutable options and a stateless parser, so it is safe for concurrent use.
type Converter struct {
	opts   Options
	parser *parser.Parser
}

// New creates a converter with the given options applied over DefaultOptions
func New(opts ...Option) *Converter {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxDepth < 1 {
		o.MaxDepth = DefaultMaxDepth
	}

	var parserOpts []parser.Option
	if o.Tables {
		parserOpts = append(parserOpts, parser.WithTables())
	}
	if o.Linkify {
		parserOpts = append(parserOpts, parser.WithLinkify())
	}

	return &Converter{
		opts:   o,
		parser: parser.New(parserOpts...),
	}
}

var defaultConverter = New()

// MarkdownToMrkdwn converts markdown content to Slack mrkdwn using the default options
func MarkdownToMrkdwn(mdContent string) (string, error) {
	return defaultConverter.Convert(mdContent)
}

// Options returns the options the converter was built with
func (c *Converter) Options() Options {
	return c.opts
}

// Convert renders mdContent. It returns either the complete output or an error, never partial text.
func (c *Converter) Convert(mdContent string) (string, error) {
	var out strings.Builder

	if c.opts.FrontMatter {
		fm, body := ExtractFrontMatter(mdContent)
		mdContent = body
		if title := strings.TrimSpace(fm.Title); title != "" {
			out.WriteString("*" + Escape(title) + "*\n\n")
		}
	}

	source := []byte(mdContent)
	ctx := &renderContext{
		source: source,
		opts:   c.opts,
	}

	rendered, err := ctx.render(c.parser.Parse(source))
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	out.WriteString(rendered)

	return out.String(), nil
}

// renderContext is the per-call traversal state
type renderContext struct {
	source    []byte
	opts      Options
	listDepth int
	depth     int
}

func (ctx *renderContext) render(n ast.Node) (string, error) {
	ctx.depth++
	defer func() { ctx.depth-- }()
	if ctx.depth > ctx.opts.MaxDepth {
		return "", fmt.Errorf("%w: more than %d levels", ErrTooDeep, ctx.opts.MaxDepth)
	}

	switch kindOf(n) {
	case KindText:
		out := Escape(ctx.rawText(n))
		if hasLineBreak(n) {
			out += lineBreak
		}
		return out, nil

	case KindStrong:
		return ctx.wrap(n, "*")

	case KindEmphasis:
		return ctx.wrap(n, "_")

	case KindStrike:
		return ctx.wrap(n, "~")

	case KindInlineCode:
		return "`" + Escape(ctx.codeSpanText(n)) + "`", nil

	case KindLink:
		return ctx.link(n.(*ast.Link))

	case KindAutoLink:
		return ctx.autoLink(n.(*ast.AutoLink)), nil

	case KindImage:
		return ctx.image(n.(*ast.Image))

	case KindParagraph:
		if block, ok := n.(*ast.HTMLBlock); ok {
			return ctx.htmlBlock(block), nil
		}
		// a paragraph made only of link reference definitions is left empty
		if n.ChildCount() == 0 {
			return "", nil
		}
		inner, err := ctx.renderChildren(n)
		if err != nil {
			return "", err
		}
		return inner + "\n", nil

	case KindHeading:
		inner, err := ctx.renderChildren(n)
		if err != nil {
			return "", err
		}
		return "*" + inner + "*\n\n", nil

	case KindQuote:
		inner, err := ctx.renderChildren(n)
		if err != nil {
			return "", err
		}
		inner = strings.TrimSpace(inner)
		return "> " + strings.ReplaceAll(inner, "\n", "\n> ") + "\n\n", nil

	case KindCodeBlock:
		return ctx.codeBlock(n), nil

	case KindBulletList, KindOrderedList:
		return ctx.list(n.(*ast.List))

	case KindListItem, KindDocument:
		return ctx.renderChildren(n)

	case KindThematicBreak:
		return "---\n", nil

	case KindTable:
		return ctx.table(n.(*east.Table))
	}

	return "", nil
}

// renderChildren concatenates the rendered children of n.
//
// goldmark splits a run of plain text into several leaves at characters that may open an
// inline construct, so a mention like <!subteam^S1|team> can arrive as "<" and "!subteam^S1|team>".
// Adjacent text leaves are therefore joined before escaping, and the run ends at a line break.
func (ctx *renderContext) renderChildren(n ast.Node) (string, error) {
	var out, run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			out.WriteString(Escape(run.String()))
			run.Reset()
		}
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if kindOf(c) == KindText {
			run.WriteString(ctx.rawText(c))
			if hasLineBreak(c) {
				flush()
				out.WriteString(lineBreak)
			}
			continue
		}

		flush()
		rendered, err := ctx.render(c)
		if err != nil {
			return "", err
		}
		out.WriteString(rendered)
	}
	flush()

	return out.String(), nil
}

func (ctx *renderContext) wrap(n ast.Node, marker string) (string, error) {
	inner, err := ctx.renderChildren(n)
	if err != nil {
		return "", err
	}
	return marker + inner + marker, nil
}

// rawText returns the unescaped content of a text-like leaf
func (ctx *renderContext) rawText(n ast.Node) string {
	switch t := n.(type) {
	case *ast.Text:
		value := t.Value(ctx.source)
		if !t.IsRaw() {
			value = decode(value)
		}
		return string(value)
	case *ast.String:
		if t.IsRaw() || t.IsCode() {
			return string(t.Value)
		}
		return string(decode(t.Value))
	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < t.Segments.Len(); i++ {
			segment := t.Segments.At(i)
			b.Write(segment.Value(ctx.source))
		}
		return b.String()
	}
	return ""
}

func hasLineBreak(n ast.Node) bool {
	t, ok := n.(*ast.Text)
	return ok && (t.SoftLineBreak() || t.HardLineBreak())
}

// decode resolves backslash escapes and character references
func decode(v []byte) []byte {
	v = util.UnescapePunctuations(v)
	v = util.ResolveNumericReferences(v)
	return util.ResolveEntityNames(v)
}

func (ctx *renderContext) codeSpanText(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var value []byte
		switch t := c.(type) {
		case *ast.Text:
			value = t.Value(ctx.source)
		case *ast.String:
			value = t.Value
		default:
			continue
		}
		// line endings inside a code span collapse to spaces
		if len(value) > 0 && value[len(value)-1] == '\n' {
			b.Write(value[:len(value)-1])
			b.WriteByte(' ')
			continue
		}
		b.Write(value)
	}
	return b.String()
}

func (ctx *renderContext) link(n *ast.Link) (string, error) {
	inner, err := ctx.renderChildren(n)
	if err != nil {
		return "", err
	}
	label := strings.TrimSpace(inner)
	target := strings.TrimSpace(string(decode(n.Destination)))

	switch {
	case label == "":
		return "<" + target + ">", nil
	case label == target:
		return "<" + target + "|" + target + ">", nil
	}
	return "<" + target + "|" + label + ">", nil
}

func (ctx *renderContext) autoLink(n *ast.AutoLink) string {
	target := string(n.URL(ctx.source))
	if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(target), "mailto:") {
		target = "mailto:" + target
	}
	return "<" + target + "|" + target + ">"
}

func (ctx *renderContext) image(n *ast.Image) (string, error) {
	label := Escape(strings.TrimSpace(ctx.plainText(n)))
	if label == "" {
		label = Escape(strings.TrimSpace(string(decode(n.Title))))
	}

	src := string(decode(n.Destination))
	if !ctx.linkableImage(src) {
		return label, nil
	}
	if label == "" {
		return "<" + src + ">", nil
	}
	return "<" + src + "|" + label + ">", nil
}

// plainText concatenates the text of every leaf under n, dropping inline markup
func (ctx *renderContext) plainText(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || c == n {
			return ast.WalkContinue, nil
		}
		switch c.(type) {
		case *ast.Text, *ast.String, *ast.RawHTML:
			b.WriteString(strings.ReplaceAll(ctx.rawText(c), "\n", " "))
			if hasLineBreak(c) {
				b.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// linkableImage reports whether an image source is an absolute URL Slack can link to
func (ctx *renderContext) linkableImage(src string) bool {
	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" {
		return false
	}
	return !ctx.opts.RequireImageHost || u.Host != ""
}

func (ctx *renderContext) codeBlock(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(ctx.source))
	}

	content := b.String()
	if strings.TrimSpace(content) == "" {
		return ""
	}

	content = shebangPattern.ReplaceAllString(content, "")
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	return "```\n" + content + "```\n"
}

// htmlBlock renders block-level HTML as literal paragraph text
func (ctx *renderContext) htmlBlock(n *ast.HTMLBlock) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(ctx.source))
	}
	if n.HasClosure() {
		b.Write(n.ClosureLine.Value(ctx.source))
	}

	content := strings.TrimRightFunc(b.String(), unicode.IsSpace)
	if content == "" {
		return ""
	}
	return Escape(content) + "\n"
}

func (ctx *renderContext) list(n *ast.List) (string, error) {
	ctx.listDepth++
	defer func() { ctx.listDepth-- }()

	number := n.Start
	var items []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		rendered, err := ctx.render(c)
		if err != nil {
			return "", err
		}

		prefix := bulletPrefix
		if n.IsOrdered() {
			prefix = fmt.Sprintf("%d.  ", number)
			number++
		}
		items = append(items, prefix+strings.TrimRightFunc(rendered, unicode.IsSpace))
	}

	out := strings.Join(items, "\n")
	if ctx.listDepth == 1 {
		out += "\n"
	}
	return out, nil
}

// table writes a parsed table back out as pipe rows. Only reachable with Options.Tables.
func (ctx *renderContext) table(n *east.Table) (string, error) {
	var b strings.Builder
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			rendered, err := ctx.renderChildren(cell)
			if err != nil {
				return "", err
			}
			cells = append(cells, strings.ReplaceAll(strings.TrimSpace(rendered), "|", `\|`))
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")

		if _, ok := row.(*east.TableHeader); ok {
			b.WriteString(delimiterRow(n.Alignments))
		}
	}
	return b.String(), nil
}

func delimiterRow(alignments []east.Alignment) string {
	cols := make([]string, len(alignments))
	for i, a := range alignments {
		switch a {
		case east.AlignLeft:
			cols[i] = ":---"
		case east.AlignRight:
			cols[i] = "---:"
		case east.AlignCenter:
			cols[i] = ":---:"
		default:
			cols[i] = "---"
		}
	}
	return "| " + strings.Join(cols, " | ") + " |\n"
}
