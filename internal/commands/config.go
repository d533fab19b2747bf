package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gerunddev/slackify/internal/config"
	"github.com/gerunddev/slackify/internal/styles"
)

// runConfig prints the effective configuration, or writes the defaults with "init"
func runConfig(args []string, stdout io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "init":
			force := len(args) > 1 && args[1] == "--force"
			return initConfig(stdout, force)
		case "path":
			fmt.Fprintln(stdout, config.ConfigPath())
			return nil
		default:
			return fmt.Errorf("unknown config subcommand: %s", args[0])
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	source := config.ConfigPath()
	if _, err := os.Stat(source); os.IsNotExist(err) {
		source += " (not found, using defaults)"
	}

	exclude := "none"
	if len(cfg.ExcludePatterns) > 0 {
		exclude = strings.Join(cfg.ExcludePatterns, ", ")
	}

	fmt.Fprintln(stdout, styles.TitleStyle.Render("slackify config"))
	fmt.Fprintf(stdout, "  Config file:        %s\n", source)
	fmt.Fprintf(stdout, "  State file:         %s\n", config.StateFilePath())
	fmt.Fprintf(stdout, "  Source directory:   %s\n", cfg.SourceDir)
	fmt.Fprintf(stdout, "  Output directory:   %s\n", cfg.OutputDir)
	fmt.Fprintf(stdout, "  Output extension:   %s\n", cfg.OutputExt)
	fmt.Fprintf(stdout, "  Log file:           %s\n", cfg.LogFile)
	fmt.Fprintf(stdout, "  Interval:           %s\n", cfg.Interval)
	fmt.Fprintf(stdout, "  Exclude:            %s\n", exclude)
	fmt.Fprintf(stdout, "  Tables:             %t\n", cfg.Tables)
	fmt.Fprintf(stdout, "  Linkify:            %t\n", cfg.Linkify)
	fmt.Fprintf(stdout, "  Front matter:       %t\n", cfg.FrontMatter)
	fmt.Fprintf(stdout, "  Require image host: %t\n", cfg.RequireImageHost)
	return nil
}

func initConfig(stdout io.Writer, force bool) error {
	path := config.ConfigPath()
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	if err := config.DefaultConfig().Save(); err != nil {
		return err
	}

	fmt.Fprintln(stdout, styles.SuccessStyle.Render("✓ Wrote default config to "+path))
	return nil
}

// Config shows or initializes the configuration file
func Config(args []string) {
	if err := runConfig(args, os.Stdout); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ " + err.Error()))
		os.Exit(1)
	}
}
