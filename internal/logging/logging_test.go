package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestOpen_WritesDatedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	f, err := Open(dir, false)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	f.Logger.Info("feed loaded", "items", 3)
	f.Logger.Debug("hidden at info level")
	if err := f.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	want := filepath.Join(dir, FileName(time.Now()))
	if f.Path != want {
		t.Fatalf("Path = %q, want %q", f.Path, want)
	}
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(raw), "feed loaded") || !strings.Contains(string(raw), "items=3") {
		t.Fatalf("log = %q, want info line with items=3", raw)
	}
	if strings.Contains(string(raw), "hidden at info level") {
		t.Fatalf("log = %q, debug line written at info level", raw)
	}
}

func TestOpen_DebugLevel(t *testing.T) {
	f, err := Open(t.TempDir(), true)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	f.Logger.Debug("refresh started")
	_ = f.Close()

	raw, err := os.ReadFile(f.Path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(raw), "refresh started") {
		t.Fatalf("log = %q, want debug line", raw)
	}
}

func TestFileName(t *testing.T) {
	day := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	if got := FileName(day); got != "rsspanel-2024-03-09.log" {
		t.Fatalf("FileName = %q, want rsspanel-2024-03-09.log", got)
	}
}

func TestTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	var content strings.Builder
	var all []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		all = append(all, line)
	}
	if err := os.WriteFile(path, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		want     []string
	}{
		{"zero", 0, nil},
		{"negative", -1, nil},
		{"partial", 5, all[5:]},
		{"exact", 10, all},
		{"more_than_exists", 20, all},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Tail(path, tc.maxLines)
			if err != nil {
				t.Fatalf("Tail returned error: %v", err)
			}
			if len(tc.want) == 0 && len(got) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Tail = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTail_MissingFile(t *testing.T) {
	lines, err := Tail(filepath.Join(t.TempDir(), "nope.log"), 5)
	if err != nil {
		t.Fatalf("Tail returned error: %v", err)
	}
	if lines != nil {
		t.Fatalf("Tail = %v, want nil", lines)
	}
}
