// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Formatter writes single lines: [time] [LEVL] [file:line] message.
type Formatter struct{}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var fileLine string
	if entry.HasCaller() {
		fileLine = fmt.Sprintf("%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}

	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] [%s] %s", entry.Time.Format("2006-01-02 15:04:05"), level, fileLine, entry.Message)
	for _, k := range sortedKeys(entry.Data) {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func sortedKeys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Options selects level and outputs.
type Options struct {
	Level string
	// File, when set, receives a copy of every line.
	File string
	// Console defaults to stderr. Use io.Discard to keep a TUI screen clean.
	Console io.Writer
}

// Setup configures logrus.StandardLogger. The returned closer releases the log file.
func Setup(opts Options) (io.Closer, error) {
	return configure(logrus.StandardLogger(), opts)
}

func configure(log *logrus.Logger, opts Options) (io.Closer, error) {
	log.SetReportCaller(true)
	log.SetFormatter(&Formatter{})

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{console}
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating log directory: %w", err)
			}
		}
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		writers = append(writers, file)
		closer = file
	}
	log.SetOutput(io.MultiWriter(writers...))
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
