package commands

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/gerunddev/slackify/internal/styles"
)

const (
	launchdLabel   = "com.gerunddev.slackify"
	systemdService = "slackify.service"
)

// serviceFile returns where the auto-start service definition lives for goos and its contents
func serviceFile(goos, home, execPath string) (string, string, error) {
	switch goos {
	case "darwin":
		path := filepath.Join(home, "Library", "LaunchAgents", launchdLabel+".plist")
		content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
		<string>daemon</string>
		<string>--headless</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardOutPath</key>
	<string>/tmp/slackify.out.log</string>
	<key>StandardErrorPath</key>
	<string>/tmp/slackify.err.log</string>
</dict>
</plist>
`, launchdLabel, execPath)
		return path, content, nil

	case "linux":
		path := filepath.Join(home, ".config", "systemd", "user", systemdService)
		content := fmt.Sprintf(`[Unit]
Description=slackify - convert Markdown notes to Slack mrkdwn

[Service]
Type=simple
ExecStart=%s daemon --headless
Restart=always
RestartSec=10

[Install]
WantedBy=default.target
`, execPath)
		return path, content, nil

	default:
		return "", "", fmt.Errorf("unsupported operating system: %s", goos)
	}
}

// Install generates system service files for daemon auto-start
func Install() {
	fmt.Println(styles.TitleStyle.Render("slackify install"))
	fmt.Println()

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Failed to get home directory: " + err.Error()))
		os.Exit(1)
	}

	execPath, err := os.Executable()
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Failed to get executable path: " + err.Error()))
		os.Exit(1)
	}

	path, content, err := serviceFile(runtime.GOOS, home, execPath)
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ " + err.Error()))
		fmt.Println("Supported platforms: macOS (darwin), Linux")
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Failed to create service directory: " + err.Error()))
		os.Exit(1)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Failed to write service file: " + err.Error()))
		os.Exit(1)
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Service file created: " + path))
	fmt.Println()

	if runtime.GOOS == "darwin" {
		fmt.Println("To enable the service:")
		fmt.Println(styles.DimStyle.Render("  launchctl load " + path))
		fmt.Println()
		fmt.Println("To disable the service:")
		fmt.Println(styles.DimStyle.Render("  launchctl unload " + path))
		return
	}

	fmt.Println("To enable the service:")
	fmt.Println(styles.DimStyle.Render("  systemctl --user daemon-reload"))
	fmt.Println(styles.DimStyle.Render("  systemctl --user enable --now " + systemdService))
	fmt.Println()
	fmt.Println("To disable the service:")
	fmt.Println(styles.DimStyle.Render("  systemctl --user disable --now " + systemdService))
}

// Uninstall removes system service files
func Uninstall() {
	fmt.Println(styles.TitleStyle.Render("slackify uninstall"))
	fmt.Println()

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Failed to get home directory: " + err.Error()))
		os.Exit(1)
	}

	path, _, err := serviceFile(runtime.GOOS, home, "")
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ " + err.Error()))
		os.Exit(1)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println(styles.WarningStyle.Render("⚠ Service file not found: " + path))
		fmt.Println("Nothing to uninstall.")
		return
	}

	// Stop the service first; failures mean it was not loaded
	if runtime.GOOS == "darwin" {
		if err := exec.Command("launchctl", "unload", path).Run(); err != nil {
			fmt.Println(styles.WarningStyle.Render("⚠ Could not unload service (may not be loaded): " + err.Error()))
		}
	} else {
		if err := exec.Command("systemctl", "--user", "disable", "--now", systemdService).Run(); err != nil {
			fmt.Println(styles.WarningStyle.Render("⚠ Could not disable service (may not be enabled): " + err.Error()))
		}
	}

	if err := os.Remove(path); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Failed to remove service file: " + err.Error()))
		os.Exit(1)
	}

	if runtime.GOOS == "linux" {
		if err := exec.Command("systemctl", "--user", "daemon-reload").Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to reload systemd daemon: %v\n", err)
		}
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Service file removed: " + path))
}
