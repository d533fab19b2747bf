package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gerunddev/slackify/internal/config"
)

// WritePID records the current process ID in the PID file
func WritePID() error {
	pidFile := config.PIDFilePath()

	if err := os.MkdirAll(filepath.Dir(pidFile), 0755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}

	content := strconv.Itoa(os.Getpid()) + "\n"
	if err := os.WriteFile(pidFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	return nil
}

// ReadPID reads the daemon PID from the PID file
func ReadPID() (int, error) {
	content, err := os.ReadFile(config.PIDFilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("daemon not running (PID file not found)")
		}
		return 0, fmt.Errorf("failed to read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}

	return pid, nil
}

// RemovePID removes the PID file
func RemovePID() error {
	if err := os.Remove(config.PIDFilePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// IsRunning reports whether the daemon is alive, its PID, and roughly when it started.
// A PID file left behind by a dead process is removed.
func IsRunning() (bool, int, time.Time) {
	pid, err := ReadPID()
	if err != nil {
		return false, 0, time.Time{}
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, 0, time.Time{}
	}

	// Signal 0 probes the process without delivering anything
	if err := process.Signal(syscall.Signal(0)); err != nil {
		if cleanupErr := RemovePID(); cleanupErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove stale PID file: %v\n", cleanupErr)
		}
		return false, 0, time.Time{}
	}

	// PID file mtime approximates the start time
	var startTime time.Time
	if info, err := os.Stat(config.PIDFilePath()); err == nil {
		startTime = info.ModTime()
	}

	return true, pid, startTime
}

// Stop asks the daemon to shut down with SIGTERM
func Stop() error {
	running, pid, _ := IsRunning()
	if !running {
		return fmt.Errorf("daemon is not running")
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send SIGTERM: %w", err)
	}

	return nil
}

// Daemonize re-executes the current binary with args as a detached background process
func Daemonize(args []string) error {
	if running, pid, _ := IsRunning(); running {
		return fmt.Errorf("daemon already running with PID %d", pid)
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	cmd := exec.Command(executable, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("failed to release daemon process: %w", err)
	}

	return nil
}
