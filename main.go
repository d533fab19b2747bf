package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/slackify/internal/commands"
	"github.com/gerunddev/slackify/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "convert":
		commands.Convert(os.Args[2:])
	case "preview":
		commands.Preview(os.Args[2:])
	case "diff":
		commands.Diff(os.Args[2:])
	case "sync":
		commands.Sync(os.Args[2:])
	case "start":
		commands.Start(os.Args[2:])
	case "daemon":
		commands.Daemon(os.Args[2:])
	case "stop":
		commands.Stop()
	case "status":
		commands.Status()
	case "dashboard", "watch":
		commands.Dashboard()
	case "config":
		commands.Config(os.Args[2:])
	case "install":
		commands.Install()
	case "uninstall":
		commands.Uninstall()
	case "version", "-v", "--version":
		fmt.Printf("slackify v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := fmt.Sprintf(`slackify - Convert Markdown notes to Slack mrkdwn

Usage:
  slackify <command> [options]

Commands:
  convert     Convert a Markdown file (or stdin) to mrkdwn
  preview     Interactive preview: mrkdwn, rendered source, and diff
  diff        Show the changes a conversion makes
  sync        One-shot conversion of the source directory (use --dry-run to preview)
  start       Start daemon in background
  daemon      Run daemon in foreground
  stop        Stop the running daemon
  status      Show which notes are pending conversion
  dashboard   Live daemon status dashboard
  config      Show the configuration ("config init" writes defaults)
  install     Generate system service files
  uninstall   Remove system service files
  version     Show version information
  help        Show this help message

Conversion options (convert, preview, diff):
  -o, --output FILE   Write to FILE instead of stdout (convert)
  --tables            Render GFM tables as pipe rows
  --linkify           Turn bare URLs into links
  --front-matter      Strip YAML front matter, using its title as a heading
  --any-image-url     Link images whose URL has no host
  --max-depth N       Reject documents nested deeper than N
  --plain             Print the diff without terminal styling (diff)
  --against FILE      Diff an existing output against a fresh conversion (diff)

Examples:
  slackify convert notes/standup.md
  pbpaste | slackify convert | pbcopy
  slackify preview notes/standup.md
  slackify diff --plain notes/standup.md
  slackify sync --dry-run
  slackify start --interval 1m
  slackify status

Configuration:
  Config file: %s
  State file:  %s
`, config.ConfigPath(), config.StateFilePath())
	fmt.Print(usage)
}
