package sync

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gerunddev/slackify/convert"
	"github.com/gerunddev/slackify/internal/config"
	"github.com/gerunddev/slackify/internal/logger"
	"github.com/gerunddev/slackify/internal/state"
)

// MarkdownExts are the source extensions picked up by a sync
var MarkdownExts = []string{".md", ".markdown"}

// Syncer converts a directory of Markdown notes into mrkdwn files
type Syncer struct {
	config    *config.Config
	state     *state.State
	converter *convert.Converter
	logger    *logger.Logger
	dryRun    bool
}

// NewSyncer creates a new syncer instance
func NewSyncer(cfg *config.Config, st *state.State) *Syncer {
	return &Syncer{
		config:    cfg,
		state:     st,
		converter: convert.New(convert.WithOptions(cfg.ConvertOptions())),
		logger:    logger.Discard(),
	}
}

// SetLogger sets the logger used for per-file events
func (s *Syncer) SetLogger(l *logger.Logger) {
	s.logger = l
}

// SetDryRun makes Sync report what it would do without writing outputs or state
func (s *Syncer) SetDryRun(dryRun bool) {
	s.dryRun = dryRun
}

// SyncResult represents the result of a sync operation
type SyncResult struct {
	RunID          string
	DryRun         bool
	FilesConverted int
	Converted      []string
	Skipped        int
	Removed        []string
	Errors         []error
	StartTime      time.Time
	EndTime        time.Time
}

// Sync performs a one-shot conversion of every changed Markdown file.
// Per-file failures are collected in the result; only a failure to scan the source directory is returned.
func (s *Syncer) Sync() (*SyncResult, error) {
	result := &SyncResult{
		RunID:     uuid.NewString(),
		DryRun:    s.dryRun,
		StartTime: time.Now(),
	}
	s.logger.SyncStarted(result.RunID, s.config.SourceDir, s.config.OutputDir)

	files, err := ScanDirectory(s.config.SourceDir, MarkdownExts...)
	if err != nil {
		return nil, fmt.Errorf("failed to scan source directory: %w", err)
	}

	optionsKey := fmt.Sprintf("%+v", s.converter.Options())
	force := s.state.Options != "" && s.state.Options != optionsKey

	seen := make(map[string]bool, len(files))
	for _, src := range files {
		seen[src] = true

		rel, err := filepath.Rel(s.config.SourceDir, src)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		if IsExcluded(rel, s.config.ExcludePatterns) {
			s.logger.Skipped(src, "excluded")
			result.Skipped++
			continue
		}

		converted, reason, err := s.syncFile(src, rel, force)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		if !converted {
			result.Skipped++
			continue
		}

		result.FilesConverted++
		result.Converted = append(result.Converted, rel)
		s.logger.FileConverted(src, s.OutputPath(rel), reason)
	}

	s.removeStale(seen, result)

	if !s.dryRun {
		// files that failed must still be forced on the next run
		if len(result.Errors) == 0 {
			s.state.Options = optionsKey
		}
		s.state.LastRunID = result.RunID
		s.state.LastSync = time.Now()
	}

	result.EndTime = time.Now()
	s.logger.SyncCompleted(result.RunID, result.FilesConverted, len(result.Errors), result.EndTime.Sub(result.StartTime))
	return result, nil
}

// syncFile converts src when it changed, its output is missing, or force is set
func (s *Syncer) syncFile(src, rel string, force bool) (bool, string, error) {
	dest := s.OutputPath(rel)

	reason := "options changed"
	if !force {
		changed, err := s.state.HasChanged(src)
		if err != nil {
			s.logger.StateError("check "+src, err)
			return false, "", fmt.Errorf("failed to check %s: %w", rel, err)
		}

		_, statErr := os.Stat(dest)
		switch {
		case changed:
			reason = "source changed"
		case os.IsNotExist(statErr):
			reason = "output missing"
		default:
			s.logger.Skipped(src, "unchanged")
			return false, "", nil
		}
	}

	if s.dryRun {
		return true, reason, nil
	}

	if err := s.ConvertFile(src, dest); err != nil {
		s.logger.ConversionError(src, dest, err)
		return false, "", err
	}

	if err := s.state.Update(src, dest); err != nil {
		s.logger.StateError("update "+src, err)
		return false, "", fmt.Errorf("failed to update state for %s: %w", rel, err)
	}

	return true, reason, nil
}

// ConvertFile converts a single Markdown file and writes the result to dest
func (s *Syncer) ConvertFile(src, dest string) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}

	mrkdwn, err := s.converter.Convert(string(content))
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(dest, []byte(mrkdwn), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	return nil
}

// removeStale deletes outputs whose tracked source no longer exists under the source directory
func (s *Syncer) removeStale(seen map[string]bool, result *SyncResult) {
	for _, src := range s.state.Tracked() {
		if seen[src] {
			continue
		}
		rel, err := filepath.Rel(s.config.SourceDir, src)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}

		dest := s.state.Files[src].Output
		result.Removed = append(result.Removed, rel)
		if s.dryRun {
			continue
		}

		if dest != "" {
			if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
				result.Errors = append(result.Errors, fmt.Errorf("failed to remove %s: %w", dest, err))
				continue
			}
		}
		s.state.Remove(src)
		s.logger.FileRemoved(src, dest)
	}
}

// FileState is the pending action for a source file
type FileState string

const (
	StateUpToDate      FileState = "up to date"
	StateNew           FileState = "new"
	StateChanged       FileState = "changed"
	StateMissingOutput FileState = "missing output"
	StateExcluded      FileState = "excluded"
	StateRemoved       FileState = "removed"
)

// FileStatus describes one source file and its output
type FileStatus struct {
	Source string // relative to SourceDir
	Output string
	State  FileState
}

// Status reports what the next Sync would do with each file without converting anything
func (s *Syncer) Status() ([]FileStatus, error) {
	files, err := ScanDirectory(s.config.SourceDir, MarkdownExts...)
	if err != nil {
		return nil, fmt.Errorf("failed to scan source directory: %w", err)
	}

	optionsKey := fmt.Sprintf("%+v", s.converter.Options())
	force := s.state.Options != "" && s.state.Options != optionsKey

	seen := make(map[string]bool, len(files))
	statuses := make([]FileStatus, 0, len(files))
	for _, src := range files {
		seen[src] = true

		rel, err := filepath.Rel(s.config.SourceDir, src)
		if err != nil {
			return nil, err
		}
		fs := FileStatus{Source: rel, Output: s.OutputPath(rel)}

		switch {
		case IsExcluded(rel, s.config.ExcludePatterns):
			fs.State = StateExcluded
		case s.state.Files[src] == nil:
			fs.State = StateNew
		default:
			changed, err := s.state.HasChanged(src)
			if err != nil {
				return nil, fmt.Errorf("failed to check %s: %w", rel, err)
			}
			_, statErr := os.Stat(fs.Output)
			switch {
			case changed || force:
				fs.State = StateChanged
			case os.IsNotExist(statErr):
				fs.State = StateMissingOutput
			default:
				fs.State = StateUpToDate
			}
		}
		statuses = append(statuses, fs)
	}

	for _, src := range s.state.Tracked() {
		if seen[src] {
			continue
		}
		rel, err := filepath.Rel(s.config.SourceDir, src)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		statuses = append(statuses, FileStatus{Source: rel, Output: s.state.Files[src].Output, State: StateRemoved})
	}

	return statuses, nil
}

// OutputPath maps a source path relative to SourceDir onto its output file
func (s *Syncer) OutputPath(rel string) string {
	base := strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.Join(s.config.OutputDir, base+s.config.OutputExt)
}

// IsExcluded reports whether rel, or one of its parent directories, matches an exclude pattern
func IsExcluded(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		candidate := rel
		for {
			if ok, _ := filepath.Match(pattern, candidate); ok {
				return true
			}
			idx := strings.LastIndex(candidate, "/")
			if idx < 0 {
				break
			}
			candidate = candidate[:idx]
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(rel)); ok {
			return true
		}
	}
	return false
}

// ScanDirectory scans a directory for files with any of the given extensions
func ScanDirectory(dir string, exts ...string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			// Skip hidden directories such as .git or .obsidian
			if path != dir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		for _, want := range exts {
			if ext == want {
				files = append(files, path)
				break
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// String returns a human-readable summary of the sync result
func (r *SyncResult) String() string {
	duration := r.EndTime.Sub(r.StartTime)
	verb := "converted"
	if r.DryRun {
		verb = "would convert"
	}
	return fmt.Sprintf(
		"Sync complete: %d files %s, %d skipped, %d removed, %d errors (took %v)",
		r.FilesConverted,
		verb,
		r.Skipped,
		len(r.Removed),
		len(r.Errors),
		duration.Round(time.Millisecond),
	)
}
