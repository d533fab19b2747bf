package sync

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/gerunddev/slackify/internal/config"
	"github.com/gerunddev/slackify/internal/logger"
	"github.com/gerunddev/slackify/internal/state"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := &config.Config{
		SourceDir:        filepath.Join(tmpDir, "notes"),
		OutputDir:        filepath.Join(tmpDir, "slack"),
		OutputExt:        ".mrkdwn",
		LogFile:          filepath.Join(tmpDir, "slackify.log"),
		Interval:         30 * time.Second,
		RequireImageHost: true,
	}

	if err := os.MkdirAll(cfg.SourceDir, 0755); err != nil {
		t.Fatalf("Failed to create source directory: %v", err)
	}

	return cfg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestSyncConvertsNewFiles(t *testing.T) {
	cfg := newTestConfig(t)
	writeFile(t, filepath.Join(cfg.SourceDir, "a.md"), "# Hello\n\n**bold** <@U1>")
	writeFile(t, filepath.Join(cfg.SourceDir, "sub", "b.markdown"), "- one\n- two")
	writeFile(t, filepath.Join(cfg.SourceDir, "ignored.txt"), "not markdown")

	st := state.NewState()
	syncer := NewSyncer(cfg, st)

	var logBuf bytes.Buffer
	syncer.SetLogger(logger.New(&logBuf))

	result, err := syncer.Sync()
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if result.FilesConverted != 2 {
		t.Errorf("FilesConverted = %d, want 2", result.FilesConverted)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if result.RunID == "" {
		t.Error("RunID should be set")
	}

	got := readFile(t, filepath.Join(cfg.OutputDir, "a.mrkdwn"))
	if want := "*Hello*\n\n*bold* <@U1>\n"; got != want {
		t.Errorf("a.mrkdwn = %q, want %q", got, want)
	}
	got = readFile(t, filepath.Join(cfg.OutputDir, "sub", "b.mrkdwn"))
	if want := "•   one\n•   two\n"; got != want {
		t.Errorf("b.mrkdwn = %q, want %q", got, want)
	}

	if len(st.Files) != 2 {
		t.Errorf("state tracks %d files, want 2", len(st.Files))
	}
	if st.LastRunID != result.RunID {
		t.Errorf("LastRunID = %q, want %q", st.LastRunID, result.RunID)
	}

	logOutput := logBuf.String()
	if !strings.Contains(logOutput, "file converted") {
		t.Errorf("Expected 'file converted' log message, got: %s", logOutput)
	}
	if !strings.Contains(logOutput, "sync completed") {
		t.Errorf("Expected 'sync completed' log message, got: %s", logOutput)
	}
}

func TestSyncSkipsUnchanged(t *testing.T) {
	cfg := newTestConfig(t)
	writeFile(t, filepath.Join(cfg.SourceDir, "a.md"), "text")

	syncer := NewSyncer(cfg, state.NewState())
	if _, err := syncer.Sync(); err != nil {
		t.Fatalf("first Sync failed: %v", err)
	}

	result, err := syncer.Sync()
	if err != nil {
		t.Fatalf("second Sync failed: %v", err)
	}
	if result.FilesConverted != 0 {
		t.Errorf("FilesConverted = %d, want 0", result.FilesConverted)
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}

	// A deleted output is regenerated even though the source is unchanged
	if err := os.Remove(filepath.Join(cfg.OutputDir, "a.mrkdwn")); err != nil {
		t.Fatalf("Failed to remove output: %v", err)
	}
	result, err = syncer.Sync()
	if err != nil {
		t.Fatalf("third Sync failed: %v", err)
	}
	if result.FilesConverted != 1 {
		t.Errorf("FilesConverted after output removal = %d, want 1", result.FilesConverted)
	}
}

func TestSyncOptionsChangeForcesReconversion(t *testing.T) {
	cfg := newTestConfig(t)
	writeFile(t, filepath.Join(cfg.SourceDir, "t.md"), "| a |\n|---|\n| 1 |")

	st := state.NewState()
	if _, err := NewSyncer(cfg, st).Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	cfg.Tables = true
	result, err := NewSyncer(cfg, st).Sync()
	if err != nil {
		t.Fatalf("Sync with tables failed: %v", err)
	}
	if result.FilesConverted != 1 {
		t.Errorf("FilesConverted = %d, want 1", result.FilesConverted)
	}

	got := readFile(t, filepath.Join(cfg.OutputDir, "t.mrkdwn"))
	if want := "| a |\n| --- |\n| 1 |\n"; got != want {
		t.Errorf("t.mrkdwn = %q, want %q", got, want)
	}
}

func TestSyncOptionsKeptAfterFailedRun(t *testing.T) {
	cfg := newTestConfig(t)
	writeFile(t, filepath.Join(cfg.SourceDir, "a.md"), "a")
	writeFile(t, filepath.Join(cfg.SourceDir, "b.md"), "b")

	st := state.NewState()
	if _, err := NewSyncer(cfg, st).Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	before := st.Options

	// a directory in place of b's output makes the write fail
	blocked := filepath.Join(cfg.OutputDir, "b.mrkdwn")
	if err := os.Remove(blocked); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(blocked, 0755); err != nil {
		t.Fatal(err)
	}

	cfg.Tables = true
	result, err := NewSyncer(cfg, st).Sync()
	if err != nil {
		t.Fatalf("Sync with tables failed: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want one failure", result.Errors)
	}
	if st.Options != before {
		t.Errorf("Options = %q after a failed run, want %q", st.Options, before)
	}

	if err := os.Remove(blocked); err != nil {
		t.Fatal(err)
	}
	result, err = NewSyncer(cfg, st).Sync()
	if err != nil {
		t.Fatalf("Sync after unblocking failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a.md", "b.md"}, result.Converted); diff != "" {
		t.Errorf("Converted mismatch (-want +got):\n%s", diff)
	}
	if st.Options == before {
		t.Error("Options not updated after a clean run")
	}
}

func TestSyncExcludePatterns(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.ExcludePatterns = []string{"drafts", "*.wip.md"}
	writeFile(t, filepath.Join(cfg.SourceDir, "keep.md"), "keep")
	writeFile(t, filepath.Join(cfg.SourceDir, "drafts", "deep", "skip.md"), "skip")
	writeFile(t, filepath.Join(cfg.SourceDir, "idea.wip.md"), "skip")

	result, err := NewSyncer(cfg, state.NewState()).Sync()
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if diff := cmp.Diff([]string{"keep.md"}, result.Converted); diff != "" {
		t.Errorf("Converted mismatch (-want +got):\n%s", diff)
	}
	if result.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", result.Skipped)
	}
}

func TestSyncDryRun(t *testing.T) {
	cfg := newTestConfig(t)
	writeFile(t, filepath.Join(cfg.SourceDir, "a.md"), "a")
	writeFile(t, filepath.Join(cfg.SourceDir, "b.md"), "b")

	st := state.NewState()
	syncer := NewSyncer(cfg, st)
	syncer.SetDryRun(true)

	result, err := syncer.Sync()
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	sort.Strings(result.Converted)
	if diff := cmp.Diff([]string{"a.md", "b.md"}, result.Converted); diff != "" {
		t.Errorf("Converted mismatch (-want +got):\n%s", diff)
	}
	if !result.DryRun || !strings.Contains(result.String(), "would convert") {
		t.Errorf("dry run result not reported: %s", result)
	}
	if _, err := os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Error("dry run should not create the output directory")
	}
	if len(st.Files) != 0 || st.LastRunID != "" {
		t.Error("dry run should not update state")
	}
}

func TestSyncRemovesStaleOutputs(t *testing.T) {
	cfg := newTestConfig(t)
	src := filepath.Join(cfg.SourceDir, "gone.md")
	writeFile(t, src, "soon gone")

	st := state.NewState()
	syncer := NewSyncer(cfg, st)
	if _, err := syncer.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	dest := filepath.Join(cfg.OutputDir, "gone.mrkdwn")
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("output not written: %v", err)
	}

	if err := os.Remove(src); err != nil {
		t.Fatalf("Failed to remove source: %v", err)
	}

	result, err := syncer.Sync()
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if diff := cmp.Diff([]string{"gone.md"}, result.Removed); diff != "" {
		t.Errorf("Removed mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("stale output should be removed")
	}
	if _, ok := st.Files[src]; ok {
		t.Error("removed source should no longer be tracked")
	}
}

func TestStatus(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.ExcludePatterns = []string{"drafts"}
	for _, name := range []string{"a.md", "c.md", "d.md", "e.md", "drafts/x.md"} {
		writeFile(t, filepath.Join(cfg.SourceDir, name), "note "+name)
	}

	st := state.NewState()
	syncer := NewSyncer(cfg, st)
	if _, err := syncer.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	writeFile(t, filepath.Join(cfg.SourceDir, "b.md"), "new note")

	changed := filepath.Join(cfg.SourceDir, "c.md")
	writeFile(t, changed, "edited")
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(changed, later, later); err != nil {
		t.Fatalf("Failed to touch %s: %v", changed, err)
	}

	if err := os.Remove(filepath.Join(cfg.OutputDir, "d.mrkdwn")); err != nil {
		t.Fatalf("Failed to remove output: %v", err)
	}
	if err := os.Remove(filepath.Join(cfg.SourceDir, "e.md")); err != nil {
		t.Fatalf("Failed to remove source: %v", err)
	}

	statuses, err := syncer.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}

	got := map[string]FileState{}
	for _, fs := range statuses {
		got[filepath.ToSlash(fs.Source)] = fs.State
	}
	want := map[string]FileState{
		"a.md":        StateUpToDate,
		"b.md":        StateNew,
		"c.md":        StateChanged,
		"d.md":        StateMissingOutput,
		"drafts/x.md": StateExcluded,
		"e.md":        StateRemoved,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Status mismatch (-want +got):\n%s", diff)
	}

	// Status is read-only
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "b.mrkdwn")); !os.IsNotExist(err) {
		t.Error("Status should not write outputs")
	}
}

func TestSyncMissingSourceDir(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.SourceDir = filepath.Join(cfg.SourceDir, "missing")

	if _, err := NewSyncer(cfg, state.NewState()).Sync(); err == nil {
		t.Error("Sync should fail when the source directory does not exist")
	}
}

func TestIsExcluded(t *testing.T) {
	tests := []struct {
		name     string
		rel      string
		patterns []string
		expected bool
	}{
		{name: "no patterns", rel: "a.md", expected: false},
		{name: "exact file", rel: "a.md", patterns: []string{"a.md"}, expected: true},
		{name: "glob on base name", rel: "notes/x.wip.md", patterns: []string{"*.wip.md"}, expected: true},
		{name: "directory prefix", rel: "drafts/deep/x.md", patterns: []string{"drafts"}, expected: true},
		{name: "directory glob", rel: "drafts/x.md", patterns: []string{"drafts/*"}, expected: true},
		{name: "nested directory glob", rel: "drafts/deep/x.md", patterns: []string{"drafts/*"}, expected: true},
		{name: "no match", rel: "notes/x.md", patterns: []string{"drafts", "*.tmp"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsExcluded(tt.rel, tt.patterns)
			if result != tt.expected {
				t.Errorf("IsExcluded(%q, %v) = %v, want %v", tt.rel, tt.patterns, result, tt.expected)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	cfg := newTestConfig(t)
	syncer := NewSyncer(cfg, state.NewState())

	tests := []struct {
		rel      string
		expected string
	}{
		{rel: "a.md", expected: filepath.Join(cfg.OutputDir, "a.mrkdwn")},
		{rel: filepath.Join("sub", "b.markdown"), expected: filepath.Join(cfg.OutputDir, "sub", "b.mrkdwn")},
		{rel: "v1.2.md", expected: filepath.Join(cfg.OutputDir, "v1.2.mrkdwn")},
	}

	for _, tt := range tests {
		if got := syncer.OutputPath(tt.rel); got != tt.expected {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.rel, got, tt.expected)
		}
	}
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "")
	writeFile(t, filepath.Join(dir, "B.MD"), "")
	writeFile(t, filepath.Join(dir, "c.markdown"), "")
	writeFile(t, filepath.Join(dir, "d.txt"), "")
	writeFile(t, filepath.Join(dir, ".git", "e.md"), "")

	files, err := ScanDirectory(dir, MarkdownExts...)
	if err != nil {
		t.Fatalf("ScanDirectory failed: %v", err)
	}

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	sort.Strings(names)

	if diff := cmp.Diff([]string{"B.MD", "a.md", "c.markdown"}, names); diff != "" {
		t.Errorf("ScanDirectory mismatch (-want +got):\n%s", diff)
	}
}
