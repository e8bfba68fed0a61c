package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/TobiSchelling/trendboard/internal/news"
)

func newTestPrinter(colors bool) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewPrinterWithWriters(&out, &errOut, colors), &out, &errOut
}

func TestPrinterPlainMessages(t *testing.T) {
	p, out, errOut := newTestPrinter(false)
	p.Success("wrote %s", "config.yaml")
	p.Warning("slow")
	p.Error("boom")

	if got := out.String(); got != "[OK] wrote config.yaml\n" {
		t.Errorf("unexpected stdout %q", got)
	}
	if got := errOut.String(); got != "[WARN] slow\n[ERROR] boom\n" {
		t.Errorf("unexpected stderr %q", got)
	}
}

func TestSentimentColors(t *testing.T) {
	p, _, _ := newTestPrinter(false)
	if got := p.Sentiment(0.456); got != "+0.46" {
		t.Errorf("plain sentiment = %q", got)
	}

	p, _, _ = newTestPrinter(true)
	if got := p.Sentiment(-0.5); !strings.Contains(got, "\x1b[31m") || !strings.Contains(got, "-0.50") {
		t.Errorf("negative sentiment should be red, got %q", got)
	}
	if got := p.Label("Positive"); !strings.Contains(got, "\x1b[32m") {
		t.Errorf("positive label should be green, got %q", got)
	}
}

func TestReportTable(t *testing.T) {
	p, out, _ := newTestPrinter(false)
	err := p.Report(news.DailyReport{
		Date: "2026-03-02", Category: "AI", Summary: "Chips.", OverallSentiment: 0.3,
		Topics: []news.TrendingTopic{
			{Name: "OpenAI", Count: 2, AverageSentiment: -0.1},
			{Name: "Nvidia", Count: 5, AverageSentiment: 0.7},
		},
	})
	if err != nil {
		t.Fatalf("rendering report: %v", err)
	}

	got := out.String()
	for _, want := range []string{"AI · Mar 02, 2026", "Overall sentiment: +0.30", "Chips.", "TOPIC", "Nvidia", "+0.70"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "Nvidia") > strings.Index(got, "OpenAI") {
		t.Error("topics should be ordered by mentions")
	}
}

func TestReportWithoutTopics(t *testing.T) {
	p, out, _ := newTestPrinter(false)
	if err := p.Report(news.DailyReport{Date: "2026-03-02", Category: "Energy"}); err != nil {
		t.Fatalf("rendering report: %v", err)
	}
	if !strings.Contains(out.String(), "No trending topics for this report.") {
		t.Errorf("expected empty message, got %q", out.String())
	}
}

func TestSearchResults(t *testing.T) {
	p, out, _ := newTestPrinter(false)
	if err := p.SearchResults(nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No results found.") {
		t.Errorf("expected no-results message, got %q", out.String())
	}

	out.Reset()
	src := "Desk"
	err := p.SearchResults([]news.SearchResult{{
		Article:  news.Article{Title: strings.Repeat("x", 100), Source: &src},
		Analysis: news.ArticleAnalysis{Label: "Neutral"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Desk") || !strings.Contains(out.String(), "…") {
		t.Errorf("unexpected table:\n%s", out.String())
	}
}
