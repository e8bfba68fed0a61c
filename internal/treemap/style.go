package treemap

import (
	"fmt"
	"math"
	"strings"
)

type rgb struct{ r, g, b float64 }

// Sentiment color stops for -1, 0 and 1.
var (
	negative = rgb{0xd9, 0x00, 0x00}
	neutral  = rgb{0xaa, 0xaa, 0xaa}
	positive = rgb{0x00, 0x9e, 0x49}
)

// Color maps a sentiment score to a fill color, red through gray to green.
// Scores outside [-1, 1] are clamped.
func Color(score float64) string {
	if math.IsNaN(score) {
		score = 0
	}
	score = math.Max(-1, math.Min(1, score))
	if score < 0 {
		return lerp(neutral, negative, -score).hex()
	}
	return lerp(neutral, positive, score).hex()
}

func lerp(a, b rgb, t float64) rgb {
	return rgb{
		r: a.r + (b.r-a.r)*t,
		g: a.g + (b.g-a.g)*t,
		b: a.b + (b.b-a.b)*t,
	}
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", int(math.Round(c.r)), int(math.Round(c.g)), int(math.Round(c.b)))
}

// Lines wraps a topic name before every upper-case letter that starts a
// capitalised word, so "NvidiaBlackwell" becomes "Nvidia", "Blackwell" while
// acronyms like "GPU" stay intact.
func Lines(name string) []string {
	runes := []rune(name)
	var lines []string
	start := 0
	for i := 1; i < len(runes)-1; i++ {
		if isUpper(runes[i]) && !isUpper(runes[i+1]) {
			lines = appendLine(lines, string(runes[start:i]))
			start = i
		}
	}
	return appendLine(lines, string(runes[start:]))
}

func appendLine(lines []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		lines = append(lines, s)
	}
	return lines
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

// Labels start 4px from the left edge with a 15px line height.
const (
	labelX      = 4
	labelLineH  = 15
	labelFirstY = 15
)

func labels(name string) []Label {
	lines := Lines(name)
	out := make([]Label, len(lines))
	for i, text := range lines {
		out[i] = Label{Text: text, X: labelX, Y: float64(labelFirstY + i*labelLineH)}
	}
	return out
}
