package diff

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/slackify/convert"
)

// Format represents the output format for diffs
type Format int

const (
	// FormatRendered renders the diff through glamour for the terminal (default)
	FormatRendered Format = iota
	// FormatPlain returns the bare unified diff
	FormatPlain
)

// DefaultWordWrap is the glamour wrap width used by Render
const DefaultWordWrap = 120

// Unified returns a unified diff turning before into after, or "" when they are equal
func Unified(fromName, toName, before, after string) string {
	edits := myers.ComputeEdits(span.URIFromPath(fromName), before, after)
	return fmt.Sprint(gotextdiff.ToUnified(fromName, toName, before, edits))
}

// Generate converts the Markdown file at mdPath and diffs the source against the mrkdwn output
func Generate(mdPath string, conv *convert.Converter, format Format) (string, error) {
	mdContent, err := os.ReadFile(mdPath)
	if err != nil {
		return "", fmt.Errorf("failed to read markdown file: %w", err)
	}

	mrkdwn, err := conv.Convert(string(mdContent))
	if err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}

	name := filepath.Base(mdPath)
	outName := strings.TrimSuffix(name, filepath.Ext(name)) + ".mrkdwn"
	return format.apply(Unified(name, outName, string(mdContent), mrkdwn))
}

// GenerateAgainstOutput diffs an existing output file against a fresh conversion of its source,
// showing what the next sync would change
func GenerateAgainstOutput(mdPath, outputPath string, conv *convert.Converter, format Format) (string, error) {
	mdContent, err := os.ReadFile(mdPath)
	if err != nil {
		return "", fmt.Errorf("failed to read markdown file: %w", err)
	}

	existing, err := os.ReadFile(outputPath)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read output file: %w", err)
	}

	mrkdwn, err := conv.Convert(string(mdContent))
	if err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}

	name := filepath.Base(outputPath)
	return format.apply(Unified(name, name, string(existing), mrkdwn))
}

func (f Format) apply(unified string) (string, error) {
	switch f {
	case FormatPlain:
		return unified, nil
	case FormatRendered:
		return Render(unified, DefaultWordWrap), nil
	default:
		return "", fmt.Errorf("unsupported diff format: %d", f)
	}
}

// Render wraps a unified diff in a diff code fence and renders it with glamour.
// If glamour fails, the fenced diff is returned as is.
func Render(unified string, width int) string {
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return diffMarkdown
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		return diffMarkdown
	}

	return rendered
}
