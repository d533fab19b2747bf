package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/slackify/convert"
	"github.com/gerunddev/slackify/internal/diff"
	"github.com/gerunddev/slackify/internal/styles"
	"github.com/gerunddev/slackify/internal/tui"
)

// convertArgs holds the flags shared by convert, diff and preview
type convertArgs struct {
	input   string
	output  string
	against string
	plain   bool
	opts    []convert.Option
}

// fromStdin reports whether the input should be read from standard input
func (a convertArgs) fromStdin() bool {
	return a.input == "" || a.input == "-"
}

func parseConvertArgs(args []string) (convertArgs, error) {
	var a convertArgs

	value := func(i int, flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", flag)
		}
		return args[i+1], nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-o", "--output":
			v, err := value(i, arg)
			if err != nil {
				return a, err
			}
			a.output = v
			i++
		case "--against":
			v, err := value(i, arg)
			if err != nil {
				return a, err
			}
			a.against = v
			i++
		case "--max-depth":
			v, err := value(i, arg)
			if err != nil {
				return a, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return a, fmt.Errorf("invalid --max-depth %q", v)
			}
			a.opts = append(a.opts, convert.WithMaxDepth(n))
			i++
		case "--tables":
			a.opts = append(a.opts, convert.WithTables())
		case "--linkify":
			a.opts = append(a.opts, convert.WithLinkify())
		case "--front-matter":
			a.opts = append(a.opts, convert.WithFrontMatter())
		case "--any-image-url":
			a.opts = append(a.opts, convert.WithImageHostOptional())
		case "--plain":
			a.plain = true
		default:
			if strings.HasPrefix(arg, "-") && arg != "-" {
				return a, fmt.Errorf("unknown flag: %s", arg)
			}
			if a.input != "" {
				return a, fmt.Errorf("unexpected argument: %s", arg)
			}
			a.input = arg
		}
	}

	return a, nil
}

// runConvert converts one document from a file or stdin and writes it to -o or stdout
func runConvert(args []string, stdin io.Reader, stdout io.Writer) error {
	a, err := parseConvertArgs(args)
	if err != nil {
		return err
	}

	var content []byte
	if a.fromStdin() {
		content, err = io.ReadAll(stdin)
	} else {
		content, err = os.ReadFile(a.input)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	mrkdwn, err := convert.New(a.opts...).Convert(string(content))
	if err != nil {
		return err
	}

	if a.output == "" || a.output == "-" {
		_, err = io.WriteString(stdout, mrkdwn)
		return err
	}

	if dir := filepath.Dir(a.output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(a.output, []byte(mrkdwn), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// runDiff writes the diff between a Markdown file and its conversion, or, with --against,
// between an existing output file and a fresh conversion
func runDiff(args []string, stdout io.Writer) error {
	a, err := parseConvertArgs(args)
	if err != nil {
		return err
	}
	if a.fromStdin() {
		return errors.New("diff requires a Markdown file")
	}

	format := diff.FormatRendered
	if a.plain {
		format = diff.FormatPlain
	}

	conv := convert.New(a.opts...)

	var out string
	if a.against != "" {
		out, err = diff.GenerateAgainstOutput(a.input, a.against, conv, format)
	} else {
		out, err = diff.Generate(a.input, conv, format)
	}
	if err != nil {
		return err
	}

	_, err = io.WriteString(stdout, out)
	return err
}

// Convert converts a Markdown file (or stdin) to mrkdwn
func Convert(args []string) {
	if err := runConvert(args, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}

// Diff shows how a Markdown file changes when converted
func Diff(args []string) {
	if err := runDiff(args, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}

// Preview opens the interactive pager for one Markdown file
func Preview(args []string) {
	a, err := parseConvertArgs(args)
	if err == nil && a.fromStdin() {
		err = errors.New("preview requires a Markdown file")
	}
	if err == nil {
		err = runPreview(a.input, convert.New(a.opts...))
	}
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ " + err.Error()))
		os.Exit(1)
	}
}

// loadPreview converts path and collects everything the pager shows
func loadPreview(path string, conv *convert.Converter) (tui.PreviewData, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return tui.PreviewData{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	mrkdwn, err := conv.Convert(string(content))
	if err != nil {
		return tui.PreviewData{}, err
	}

	name := filepath.Base(path)
	outName := strings.TrimSuffix(name, filepath.Ext(name)) + ".mrkdwn"

	return tui.PreviewData{
		Name:   name,
		Source: string(content),
		Mrkdwn: mrkdwn,
		Diff:   diff.Unified(name, outName, string(content), mrkdwn),
	}, nil
}

func runPreview(path string, conv *convert.Converter) error {
	data, err := loadPreview(path, conv)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.InitPreviewModel(data), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}
	return nil
}
