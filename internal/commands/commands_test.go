package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/gerunddev/slackify/convert"
	"github.com/gerunddev/slackify/internal/config"
)

func TestParseConvertArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		input   string
		output  string
		opts    convert.Options
		wantErr bool
	}{
		{
			name: "no args reads stdin",
			opts: convert.DefaultOptions(),
		},
		{
			name:  "dash reads stdin",
			args:  []string{"-"},
			input: "-",
			opts:  convert.DefaultOptions(),
		},
		{
			name:   "file and output",
			args:   []string{"note.md", "-o", "note.mrkdwn"},
			input:  "note.md",
			output: "note.mrkdwn",
			opts:   convert.DefaultOptions(),
		},
		{
			name:  "all options",
			args:  []string{"--tables", "--linkify", "--front-matter", "--any-image-url", "--max-depth", "10", "note.md"},
			input: "note.md",
			opts: convert.Options{
				Tables:      true,
				Linkify:     true,
				FrontMatter: true,
				MaxDepth:    10,
			},
		},
		{name: "missing output value", args: []string{"-o"}, wantErr: true},
		{name: "bad max depth", args: []string{"--max-depth", "zero"}, wantErr: true},
		{name: "unknown flag", args: []string{"--bogus"}, wantErr: true},
		{name: "two inputs", args: []string{"a.md", "b.md"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseConvertArgs(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseConvertArgs(%q) should fail", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseConvertArgs(%q) failed: %v", tt.args, err)
			}
			if got.input != tt.input || got.output != tt.output {
				t.Errorf("input, output = %q, %q; want %q, %q", got.input, got.output, tt.input, tt.output)
			}
			if diff := cmp.Diff(tt.opts, convert.New(got.opts...).Options()); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunConvertStdin(t *testing.T) {
	var out bytes.Buffer
	if err := runConvert(nil, strings.NewReader("**bold** & <@U1>"), &out); err != nil {
		t.Fatalf("runConvert failed: %v", err)
	}
	if diff := cmp.Diff("*bold* &amp; <@U1>\n", out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunConvertFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "note.md")
	if err := os.WriteFile(src, []byte("# Title\n\n* one\n* two\n"), 0644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}

	dest := filepath.Join(dir, "out", "note.mrkdwn")
	var out bytes.Buffer
	if err := runConvert([]string{src, "-o", dest}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("runConvert failed: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("stdout should be empty when -o is given, got %q", out.String())
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if diff := cmp.Diff("*Title*\n\n•   one\n•   two\n", string(got)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	if err := runConvert([]string{filepath.Join(dir, "missing.md")}, nil, &out); err == nil {
		t.Error("runConvert should fail for a missing input")
	}
}

func TestRunConvertTooDeep(t *testing.T) {
	var out bytes.Buffer
	err := runConvert([]string{"--max-depth", "2"}, strings.NewReader("> > > deep"), &out)
	if err == nil {
		t.Fatal("runConvert should fail past the depth limit")
	}
	if out.Len() != 0 {
		t.Errorf("no partial output expected, got %q", out.String())
	}
}

func TestRunDiff(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "note.md")
	if err := os.WriteFile(src, []byte("**bold**\n"), 0644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}

	var out bytes.Buffer
	if err := runDiff([]string{src, "--plain"}, &out); err != nil {
		t.Fatalf("runDiff failed: %v", err)
	}
	for _, want := range []string{"--- note.md", "+++ note.mrkdwn", "-**bold**", "+*bold*"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("diff missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	against := filepath.Join(dir, "note.mrkdwn")
	if err := runDiff([]string{src, "--plain", "--against", against}, &out); err != nil {
		t.Fatalf("runDiff --against failed: %v", err)
	}
	if !strings.Contains(out.String(), "+*bold*") {
		t.Errorf("diff against a missing output should add every line:\n%s", out.String())
	}

	if err := runDiff(nil, &out); err == nil {
		t.Error("runDiff without a file should fail")
	}
}

func TestLoadPreview(t *testing.T) {
	src := filepath.Join(t.TempDir(), "note.md")
	if err := os.WriteFile(src, []byte("~~old~~ **new**\n"), 0644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}

	data, err := loadPreview(src, convert.New())
	if err != nil {
		t.Fatalf("loadPreview failed: %v", err)
	}
	if data.Name != "note.md" {
		t.Errorf("Name = %q, want note.md", data.Name)
	}
	if data.Mrkdwn != "~old~ *new*\n" {
		t.Errorf("Mrkdwn = %q", data.Mrkdwn)
	}
	if !strings.Contains(data.Diff, "+~old~ *new*") {
		t.Errorf("Diff = %q", data.Diff)
	}
}

func TestParseDaemonArgs(t *testing.T) {
	a, err := parseDaemonArgs([]string{"--interval", "1m", "--headless", "-v"})
	if err != nil {
		t.Fatalf("parseDaemonArgs failed: %v", err)
	}
	if a.interval != time.Minute || !a.headless || !a.verbose {
		t.Errorf("parseDaemonArgs = %+v", a)
	}

	want := []string{"daemon", "--headless", "--interval", "1m0s", "--verbose"}
	if diff := cmp.Diff(want, a.toArgs()); diff != "" {
		t.Errorf("toArgs mismatch (-want +got):\n%s", diff)
	}

	for _, args := range [][]string{
		{"--interval"},
		{"--interval", "soon"},
		{"--interval", "-5s"},
		{"--bogus"},
	} {
		if _, err := parseDaemonArgs(args); err == nil {
			t.Errorf("parseDaemonArgs(%q) should fail", args)
		}
	}
}

func TestParseLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "slackify.log")
	content := strings.Join([]string{
		"2025-11-27 14:11:50 INFO sync started run=a source_dir=/notes output_dir=/slack",
		"2025-11-27 14:11:51 INFO sync completed run=a files_converted=2 errors=0 duration=3ms",
		"2025-11-27 14:12:21 INFO sync started run=b source_dir=/notes output_dir=/slack",
		"2025-11-27 14:12:22 INFO sync completed run=b files_converted=5 errors=1 duration=9ms",
		"2025-11-27 14:12:23 INFO sync loop stopping",
	}, "\n") + "\n"
	if err := os.WriteFile(logPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write log: %v", err)
	}

	lines, lastSync, files := ParseLogFile(logPath, 3)
	if len(lines) != 3 {
		t.Errorf("got %d lines, want 3", len(lines))
	}
	if files != 5 {
		t.Errorf("files converted = %d, want 5", files)
	}
	want := time.Date(2025, 11, 27, 14, 12, 22, 0, time.Local)
	if !lastSync.Equal(want) {
		t.Errorf("last sync = %v, want %v", lastSync, want)
	}

	lines, lastSync, files = ParseLogFile(filepath.Join(t.TempDir(), "missing.log"), 3)
	if len(lines) != 1 || !lastSync.IsZero() || files != 0 {
		t.Errorf("missing log = %q, %v, %d", lines, lastSync, files)
	}
}

func TestServiceFile(t *testing.T) {
	path, content, err := serviceFile("linux", "/home/u", "/usr/local/bin/slackify")
	if err != nil {
		t.Fatalf("serviceFile(linux) failed: %v", err)
	}
	if path != filepath.Join("/home/u", ".config", "systemd", "user", "slackify.service") {
		t.Errorf("linux path = %q", path)
	}
	if !strings.Contains(content, "ExecStart=/usr/local/bin/slackify daemon --headless") {
		t.Errorf("linux unit missing ExecStart:\n%s", content)
	}

	path, content, err = serviceFile("darwin", "/Users/u", "/opt/slackify")
	if err != nil {
		t.Fatalf("serviceFile(darwin) failed: %v", err)
	}
	if filepath.Base(path) != "com.gerunddev.slackify.plist" {
		t.Errorf("darwin path = %q", path)
	}
	for _, want := range []string{"<string>/opt/slackify</string>", "<string>--headless</string>"} {
		if !strings.Contains(content, want) {
			t.Errorf("plist missing %q", want)
		}
	}

	if _, _, err := serviceFile("plan9", "/", "/slackify"); err == nil {
		t.Error("serviceFile should reject unsupported systems")
	}
}

func TestRunConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "slackify", "config.json")
	original := config.ConfigPath
	config.ConfigPath = func() string { return configPath }
	t.Cleanup(func() { config.ConfigPath = original })

	var out bytes.Buffer
	if err := runConfig(nil, &out); err != nil {
		t.Fatalf("runConfig failed: %v", err)
	}
	if !strings.Contains(out.String(), "not found, using defaults") {
		t.Errorf("expected defaults notice:\n%s", out.String())
	}

	out.Reset()
	if err := runConfig([]string{"init"}, &out); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if err := runConfig([]string{"init"}, &out); err == nil {
		t.Error("config init should refuse to overwrite")
	}
	if err := runConfig([]string{"init", "--force"}, &out); err != nil {
		t.Errorf("config init --force failed: %v", err)
	}

	out.Reset()
	if err := runConfig([]string{"path"}, &out); err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != configPath {
		t.Errorf("config path = %q, want %q", got, configPath)
	}

	out.Reset()
	if err := runConfig(nil, &out); err != nil {
		t.Fatalf("runConfig after init failed: %v", err)
	}
	if strings.Contains(out.String(), "not found") || !strings.Contains(out.String(), ".mrkdwn") {
		t.Errorf("unexpected config output:\n%s", out.String())
	}

	if err := runConfig([]string{"bogus"}, &out); err == nil {
		t.Error("unknown subcommand should fail")
	}
}
