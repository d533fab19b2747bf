package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Parser turns Markdown source into a goldmark node tree.
// A Parser holds no per-document state and can be shared between goroutines.
type Parser struct {
	md         goldmark.Markdown
	extensions []string
}

// Option configures a Parser
type Option func(*config)

type config struct {
	extensions []string
}

// WithTables enables GFM table parsing. Without it, table syntax stays plain paragraph text.
func WithTables() Option {
	return func(c *config) {
		c.extensions = append(c.extensions, "table")
	}
}

// WithLinkify turns bare URLs and www. addresses into autolinks
func WithLinkify() Option {
	return func(c *config) {
		c.extensions = append(c.extensions, "linkify")
	}
}

// WithExtensions enables extensions by registry name ("strikethrough", "table", "linkify")
func WithExtensions(names ...string) Option {
	return func(c *config) {
		c.extensions = append(c.extensions, names...)
	}
}

var extensionRegistry = map[string]goldmark.Extender{
	"strikethrough": extension.Strikethrough,
	"table":         extension.Table,
	"tables":        extension.Table,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
}

// New creates a parser. Strikethrough is always enabled; unknown extension names are ignored.
func New(opts ...Option) *Parser {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	names := collectExtensions(append([]string{"strikethrough"}, cfg.extensions...))
	exts := make([]goldmark.Extender, 0, len(names))
	for _, name := range names {
		exts = append(exts, extensionRegistry[name])
	}

	return &Parser{
		md:         goldmark.New(goldmark.WithExtensions(exts...)),
		extensions: names,
	}
}

// collectExtensions normalizes names, drops unknown ones and removes duplicates
// (including aliases that map to the same extender).
func collectExtensions(names []string) []string {
	var out []string
	seen := map[goldmark.Extender]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		if _, dup := seen[ext]; dup {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, key)
	}

	return out
}

// Extensions returns the names of the enabled extensions
func (p *Parser) Extensions() []string {
	return append([]string(nil), p.extensions...)
}

// Parse parses Markdown source and returns the document root.
// Reference-style links and images are resolved against the definitions in source;
// definitions themselves do not appear in the tree.
func (p *Parser) Parse(source []byte) ast.Node {
	return p.md.Parser().Parse(text.NewReader(source))
}
