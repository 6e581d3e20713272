// Package logging sets up rsspanel's file logger. The terminal belongs to the
// TUI, so logs go to a dated file under the log directory.
package logging

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// File is an open log file and the logger writing to it.
type File struct {
	Logger *log.Logger
	Path   string

	file *os.File
}

// FileName returns the log file name for day t.
func FileName(t time.Time) string {
	return fmt.Sprintf("rsspanel-%s.log", t.Format("2006-01-02"))
}

// Open creates dir if needed and appends to today's log file. Debug lowers
// the level to DebugLevel; otherwise InfoLevel.
func Open(dir string, debug bool) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	path := filepath.Join(dir, FileName(time.Now()))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(file, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
	})

	return &File{Logger: logger, Path: path, file: file}, nil
}

// Close flushes nothing and closes the underlying file.
func (f *File) Close() error {
	if f == nil || f.file == nil {
		return nil
	}
	return f.file.Close()
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Tail returns at most maxLines from the end of the file at path. A missing
// file yields no lines.
func Tail(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	window := make([]string, 0, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(window) == maxLines {
			copy(window, window[1:])
			window = window[:maxLines-1]
		}
		window = append(window, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return window, nil
}
