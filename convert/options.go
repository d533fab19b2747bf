package convert

// DefaultMaxDepth bounds node nesting when Options.MaxDepth is zero
const DefaultMaxDepth = 512

// Options controls parsing extensions and a few rendering policies
type Options struct {
	// Tables enables GFM tables. When false, table syntax is kept as literal paragraph text.
	Tables bool
	// Linkify turns bare URLs into autolinks
	Linkify bool
	// RequireImageHost only links images whose source has both a scheme and a host
	RequireImageHost bool
	// FrontMatter strips a leading YAML block and renders its title as a heading
	FrontMatter bool
	// MaxDepth is the deepest node nesting accepted before ErrTooDeep
	MaxDepth int
}

// Option configures a Converter
type Option func(*Options)

// DefaultOptions returns the options used by MarkdownToMrkdwn
func DefaultOptions() Options {
	return Options{
		RequireImageHost: true,
		MaxDepth:         DefaultMaxDepth,
	}
}

// WithTables enables table parsing and pipe-row output
func WithTables() Option {
	return func(o *Options) { o.Tables = true }
}

// WithLinkify enables bare URL detection
func WithLinkify() Option {
	return func(o *Options) { o.Linkify = true }
}

// WithImageHostOptional links any image source that has a URL scheme, even without a host
func WithImageHostOptional() Option {
	return func(o *Options) { o.RequireImageHost = false }
}

// WithFrontMatter enables YAML front matter handling
func WithFrontMatter() Option {
	return func(o *Options) { o.FrontMatter = true }
}

// WithMaxDepth sets the nesting limit. Values below 1 restore the default.
func WithMaxDepth(n int) Option {
	return func(o *Options) {
		if n < 1 {
			n = DefaultMaxDepth
		}
		o.MaxDepth = n
	}
}

// WithOptions replaces all options at once
func WithOptions(opts Options) Option {
	return func(o *Options) {
		*o = opts
		if o.MaxDepth < 1 {
			o.MaxDepth = DefaultMaxDepth
		}
	}
}
