package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gerunddev/slackify/convert"
)

const version = "0.1.0"

func main() {
	args := os.Args[1:]
	if len(args) == 1 {
		switch args[0] {
		case "version", "-v", "--version":
			fmt.Printf("md2mrkdwn v%s\n", version)
			return
		case "help", "-h", "--help":
			printUsage()
			return
		}
	}

	if err := run(args, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	usage := `md2mrkdwn - Convert Markdown to Slack mrkdwn

Usage:
  md2mrkdwn [FILE...]

Each FILE is converted in order and written to stdout.
With no FILE, or when FILE is -, standard input is read.

For more options, use: slackify convert
`
	fmt.Print(usage)
}

// run converts each named file, or stdin, and writes the results to w
func run(files []string, stdin io.Reader, w io.Writer) error {
	if len(files) == 0 {
		files = []string{"-"}
	}

	for _, name := range files {
		var (
			content []byte
			err     error
		)
		if name == "-" {
			content, err = io.ReadAll(stdin)
		} else {
			content, err = os.ReadFile(name)
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}

		out, err := convert.MarkdownToMrkdwn(string(content))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		if _, err := io.WriteString(w, out); err != nil {
			return err
		}
	}

	return nil
}
