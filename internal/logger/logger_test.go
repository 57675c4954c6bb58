package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "info", false},
		{"info", "info", false},
		{"debug", "debug", false},
		{"warning", "warn", false},
		{"error", "error", false},
		{"verbose", "info", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lvl, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if lvl.String() != tt.want {
				t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, lvl, tt.want)
			}
		})
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(Options{Level: tt.level, Console: &buf})
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			l.Debug("debug message")
			l.Info("info message")
			l.Warn("warn message")
			l.Error("error message")
			_ = l.Sync()

			out := buf.String()
			for _, exp := range tt.expected {
				if !strings.Contains(out, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(out, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestFileSinkWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bake.log")
	l, err := New(Options{Level: "info", FilePath: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Named("bake").Info("document assembled", zap.Int("accessors", 3))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if entry["logger"] != "bake" || entry["msg"] != "document assembled" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if entry["accessors"] != float64(3) {
		t.Errorf("accessors field = %v, want 3", entry["accessors"])
	}
}

func TestInitAndNamed(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	var buf bytes.Buffer
	if err := Init(Options{Level: "debug", Console: &buf}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Named("watch").Debug("change detected")
	Sync()

	if !strings.Contains(buf.String(), "watch") || !strings.Contains(buf.String(), "change detected") {
		t.Errorf("named entry missing from output: %q", buf.String())
	}

	if err := Init(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNoSinks(t *testing.T) {
	l, err := New(Options{Level: "info"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(zap.ErrorLevel) {
		t.Error("logger without sinks should discard everything")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions("warn", "/tmp/meshbake.log")
	if opts.Level != "warn" || opts.FilePath != "/tmp/meshbake.log" {
		t.Errorf("unexpected options: %+v", opts)
	}
	if opts.Console != os.Stdout {
		t.Error("expected console output on stdout")
	}
	if opts.MaxSizeMB != 20 || opts.MaxBackups != 3 || opts.MaxAgeDays != 14 || !opts.Compress {
		t.Errorf("unexpected rotation settings: %+v", opts)
	}
}
