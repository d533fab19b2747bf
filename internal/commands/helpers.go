package commands

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// ParseLogFile reads the last maxLines lines of the log file and extracts the
// time and file count of the most recent completed sync
func ParseLogFile(logPath string, maxLines int) ([]string, time.Time, int) {
	content, err := os.ReadFile(logPath)
	if err != nil {
		return []string{"Unable to read log file"}, time.Time{}, 0
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	recentLines := lines[startIdx:]

	var lastSync time.Time
	filesConverted := 0

	for i := len(recentLines) - 1; i >= 0; i-- {
		line := recentLines[i]
		if !strings.Contains(line, "sync completed") {
			continue
		}

		// Format: 2025-11-27 14:11:57 INFO sync completed run=... files_converted=3
		if len(line) > len(time.DateTime) {
			if t, err := time.ParseInLocation(time.DateTime, line[:len(time.DateTime)], time.Local); err == nil {
				lastSync = t
			}
		}

		if idx := strings.Index(line, "files_converted="); idx != -1 {
			_, _ = fmt.Sscanf(line[idx:], "files_converted=%d", &filesConverted) //nolint:errcheck // best effort parsing
		}
		break
	}

	return recentLines, lastSync, filesConverted
}
