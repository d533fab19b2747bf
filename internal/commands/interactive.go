package commands

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/gerunddev/slackify/convert"
	"github.com/gerunddev/slackify/internal/config"
	"github.com/gerunddev/slackify/internal/daemon"
	"github.com/gerunddev/slackify/internal/logger"
	"github.com/gerunddev/slackify/internal/state"
	"github.com/gerunddev/slackify/internal/styles"
	"github.com/gerunddev/slackify/internal/sync"
	"github.com/gerunddev/slackify/internal/tui"
)

// Sync performs a one-shot conversion of the source directory
func Sync(args []string) {
	dryRun := false
	verbose := false
	for _, arg := range args {
		switch arg {
		case "--dry-run":
			dryRun = true
		case "-v", "--verbose":
			verbose = true
		default:
			fmt.Println(styles.ErrorStyle.Render("✗ Unknown flag: " + arg))
			os.Exit(1)
		}
	}

	if dryRun {
		fmt.Println(styles.TitleStyle.Render("slackify sync (dry run)"))
	} else {
		fmt.Println(styles.TitleStyle.Render("slackify sync"))
	}
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error loading config: " + err.Error()))
		os.Exit(1)
	}

	st, err := state.Load(config.StateFilePath())
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error loading state: " + err.Error()))
		os.Exit(1)
	}

	fmt.Printf("%s → %s\n", styles.DimStyle.Render(cfg.SourceDir), styles.DimStyle.Render(cfg.OutputDir))
	if dryRun {
		fmt.Println(styles.DimStyle.Render("(dry run - no files will be written)"))
	}
	fmt.Println()

	syncer := sync.NewSyncer(cfg, st)
	syncer.SetDryRun(dryRun)

	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	if cfg.LogFile != "" {
		l, cleanup, err := logger.NewFileLogger(cfg.LogFile, level)
		if err == nil {
			defer cleanup()
			syncer.SetLogger(l)
		}
	}

	p := tea.NewProgram(tui.InitSyncModel(""), tea.WithInput(os.Stdin))

	go func() {
		result, err := syncer.Sync()
		p.Send(tui.SyncMsg{Result: result, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error: " + err.Error()))
		os.Exit(1)
	}

	if dryRun {
		return
	}

	if err := st.Save(config.StateFilePath()); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error saving state: " + err.Error()))
		os.Exit(1)
	}

	if final != nil && tui.SyncFailed(final) {
		os.Exit(1)
	}
}

// Status shows which notes are pending conversion; enter on a row opens its preview
func Status() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error loading config: " + err.Error()))
		os.Exit(1)
	}

	st, err := state.Load(config.StateFilePath())
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error loading state: " + err.Error()))
		os.Exit(1)
	}

	p := tea.NewProgram(tui.InitStatusModel(), tea.WithInput(os.Stdin))

	go func() {
		files, err := sync.NewSyncer(cfg, st).Status()
		if err != nil {
			p.Send(tui.StatusMsg{Err: err})
			return
		}

		running, pid, _ := daemon.IsRunning()
		p.Send(tui.StatusMsg{Data: &tui.StatusData{
			SourceDir:     cfg.SourceDir,
			OutputDir:     cfg.OutputDir,
			Interval:      cfg.Interval,
			LastSync:      st.LastSync,
			DaemonRunning: running,
			DaemonPID:     pid,
			Files:         files,
		}})
	}()

	final, err := p.Run()
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error: " + err.Error()))
		os.Exit(1)
	}

	selected := tui.SelectedFile(final)
	if selected == "" {
		return
	}

	conv := convert.New(convert.WithOptions(cfg.ConvertOptions()))
	if err := runPreview(filepath.Join(cfg.SourceDir, selected), conv); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ " + err.Error()))
		os.Exit(1)
	}
}
