package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/gerunddev/slackify/internal/config"
	"github.com/gerunddev/slackify/internal/daemon"
	"github.com/gerunddev/slackify/internal/logger"
	"github.com/gerunddev/slackify/internal/state"
	"github.com/gerunddev/slackify/internal/styles"
	"github.com/gerunddev/slackify/internal/sync"
	"github.com/gerunddev/slackify/internal/tui"
)

// daemonArgs holds the flags accepted by start and daemon
type daemonArgs struct {
	interval time.Duration
	headless bool
	verbose  bool
}

func parseDaemonArgs(args []string) (daemonArgs, error) {
	var a daemonArgs
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--interval":
			if i+1 >= len(args) {
				return a, fmt.Errorf("--interval requires a duration")
			}
			d, err := time.ParseDuration(args[i+1])
			if err != nil {
				return a, fmt.Errorf("invalid interval: %w", err)
			}
			if d <= 0 {
				return a, fmt.Errorf("invalid interval: must be positive")
			}
			a.interval = d
			i++
		case "--headless":
			a.headless = true
		case "-v", "--verbose":
			a.verbose = true
		default:
			return a, fmt.Errorf("unknown flag: %s", args[i])
		}
	}
	return a, nil
}

// toArgs rebuilds the command line for a re-executed daemon
func (a daemonArgs) toArgs() []string {
	out := []string{"daemon", "--headless"}
	if a.interval > 0 {
		out = append(out, "--interval", a.interval.String())
	}
	if a.verbose {
		out = append(out, "--verbose")
	}
	return out
}

// Start starts the daemon in background mode
func Start(args []string) {
	a, err := parseDaemonArgs(args)
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ " + err.Error()))
		os.Exit(1)
	}

	if running, pid, _ := daemon.IsRunning(); running {
		fmt.Println(styles.ErrorStyle.Render(fmt.Sprintf("✗ Daemon already running with PID %d", pid)))
		os.Exit(1)
	}

	if err := daemon.Daemonize(a.toArgs()); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Failed to start daemon: " + err.Error()))
		os.Exit(1)
	}

	// Give it a moment to write its PID file
	time.Sleep(500 * time.Millisecond)

	running, pid, _ := daemon.IsRunning()
	if !running {
		fmt.Println(styles.ErrorStyle.Render("✗ Daemon failed to start"))
		os.Exit(1)
	}

	fmt.Println(styles.SuccessStyle.Render(fmt.Sprintf("✓ Daemon started with PID %d", pid)))
	fmt.Println(styles.DimStyle.Render("  Run 'slackify dashboard' to monitor the daemon"))
}

// Stop stops the running daemon
func Stop() {
	running, pid, _ := daemon.IsRunning()
	if !running {
		fmt.Println(styles.DimStyle.Render("Daemon is not running"))
		return
	}

	fmt.Printf("Stopping daemon (PID %d)...\n", pid)

	if err := daemon.Stop(); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Failed to stop daemon: " + err.Error()))
		os.Exit(1)
	}

	for i := 0; i < 10; i++ {
		time.Sleep(500 * time.Millisecond)
		running, _, _ = daemon.IsRunning()
		if !running {
			break
		}
	}

	if running {
		fmt.Println(styles.ErrorStyle.Render("✗ Daemon did not stop gracefully"))
		os.Exit(1)
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Daemon stopped"))
}

// Daemon runs the conversion loop in the foreground, with the dashboard unless --headless is given
func Daemon(args []string) {
	a, err := parseDaemonArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if a.interval > 0 {
		cfg.Interval = a.interval
	}

	st, err := state.Load(config.StateFilePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading state: %v\n", err)
		os.Exit(1)
	}

	if err := daemon.WritePID(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing PID file: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := daemon.RemovePID(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove PID file on shutdown: %v\n", err)
		}
	}()

	level := log.InfoLevel
	if a.verbose {
		level = log.DebugLevel
	}

	// Headless daemons also log to stderr, which launchd and journald capture
	var extra []io.Writer
	if a.headless {
		extra = append(extra, os.Stderr)
	}

	l := logger.Discard()
	if cfg.LogFile != "" {
		fl, cleanup, err := logger.NewFileLogger(cfg.LogFile, level, extra...)
		if err == nil {
			defer cleanup()
			l = fl
		}
	} else if a.headless {
		l = logger.NewMultiLogger(level, extra...)
	}

	l.ConfigLoaded(cfg.SourceDir, cfg.OutputDir, cfg.Interval)
	l.Info("daemon started",
		"pid", os.Getpid(),
		"interval", cfg.Interval)

	syncer := sync.NewSyncer(cfg, st)
	syncer.SetLogger(l)

	stopLoop := startSyncLoop(syncer, st, l, cfg.Interval)

	if a.headless {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		l.Info("received signal", "signal", sig.String())
		stopLoop()
		l.Info("daemon shutdown complete")
		return
	}

	p := tea.NewProgram(tui.InitDaemonModel(dashboardData(cfg)), tea.WithInput(os.Stdin))
	if _, err := p.Run(); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error: " + err.Error()))
		stopLoop()
		os.Exit(1)
	}

	// TUI exited normally (user pressed 'q')
	stopLoop()
	l.Info("daemon shutdown complete")
}

// Dashboard displays the live status of a running daemon
func Dashboard() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error loading config: " + err.Error()))
		os.Exit(1)
	}

	p := tea.NewProgram(tui.InitDaemonModel(dashboardData(cfg)), tea.WithInput(os.Stdin))
	if _, err := p.Run(); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error: " + err.Error()))
		os.Exit(1)
	}
}

// startSyncLoop runs an initial sync and then one every interval in a goroutine,
// saving state after each run. The returned func stops the loop and waits for it.
func startSyncLoop(syncer *sync.Syncer, st *state.State, l *logger.Logger, interval time.Duration) func() {
	stopChan := make(chan bool, 1)
	doneChan := make(chan bool, 1)

	runOnce := func() {
		result, err := syncer.Sync()
		if err != nil {
			l.Error("sync failed", "error", err)
			return
		}
		for _, e := range result.Errors {
			l.Warn("file failed", "error", e)
		}
		if err := st.Save(config.StateFilePath()); err != nil {
			l.StateError("save", err)
		}
	}

	go func() {
		defer func() {
			doneChan <- true
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		runOnce()

		for {
			select {
			case <-ticker.C:
				runOnce()
			case <-stopChan:
				l.Info("sync loop stopping")
				if err := st.Save(config.StateFilePath()); err != nil {
					l.StateError("save on shutdown", err)
				}
				return
			}
		}
	}()

	return func() {
		stopChan <- true
		<-doneChan
	}
}

// dashboardData gathers daemon status from the PID file and the log file
func dashboardData(cfg *config.Config) func() (*tui.DaemonData, error) {
	return func() (*tui.DaemonData, error) {
		running, pid, startTime := daemon.IsRunning()

		data := &tui.DaemonData{
			Running:   running,
			PID:       pid,
			StartTime: startTime,
			SourceDir: cfg.SourceDir,
			OutputDir: cfg.OutputDir,
		}

		if running && cfg.LogFile != "" {
			data.LogLines, data.LastSyncTime, data.FilesConverted = ParseLogFile(cfg.LogFile, 20)
		}

		return data, nil
	}
}
