// Package output formats CLI output: messages, tables and report views.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/TobiSchelling/trendboard/internal/news"
)

// Printer writes formatted output to the terminal.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// NewPrinter writes to stdout and stderr. Colors are off when NO_COLOR is set or
// TERM is dumb.
func NewPrinter(useColors bool) *Printer {
	return NewPrinterWithWriters(os.Stdout, os.Stderr, useColors && ColorsAllowed())
}

// NewPrinterWithWriters creates a printer over custom writers.
func NewPrinterWithWriters(out, errOut io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: errOut, useColors: useColors}
}

// ColorsAllowed reports whether the environment permits colored output.
func ColorsAllowed() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// Out returns the standard output writer.
func (p *Printer) Out() io.Writer { return p.out }

func (p *Printer) colored(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Info prints an informational message.
func (p *Printer) Info(format string, args ...any) {
	p.colored(color.FgCyan).Fprintf(p.out, format+"\n", args...)
}

// Success prints a success message.
func (p *Printer) Success(format string, args ...any) {
	if p.useColors {
		p.colored(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
	}
}

// Warning prints a warning message.
func (p *Printer) Warning(format string, args ...any) {
	if p.useColors {
		p.colored(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
	}
}

// Error prints an error message.
func (p *Printer) Error(format string, args ...any) {
	if p.useColors {
		p.colored(color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
	}
}

// Print prints a plain message.
func (p *Printer) Print(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Header prints a section header.
func (p *Printer) Header(title string) {
	underline := make([]rune, len([]rune(title)))
	for i := range underline {
		underline[i] = '-'
	}
	p.colored(color.Bold).Fprintf(p.out, "\n%s\n", title)
	fmt.Fprintf(p.out, "%s\n", string(underline))
}

// Sentiment formats a score, colored by sign.
func (p *Printer) Sentiment(score float64) string {
	s := fmt.Sprintf("%+.2f", score)
	switch {
	case score > 0:
		return p.colored(color.FgGreen).Sprint(s)
	case score < 0:
		return p.colored(color.FgRed).Sprint(s)
	default:
		return p.colored(color.Faint).Sprint(s)
	}
}

// Label formats a sentiment label, colored like its score.
func (p *Printer) Label(label string) string {
	switch news.SentimentClass(label) {
	case "positive":
		return p.colored(color.FgGreen).Sprint(label)
	case "negative":
		return p.colored(color.FgRed).Sprint(label)
	default:
		return label
	}
}
