package news

import (
	"errors"
	"testing"
)

func TestValidateDate(t *testing.T) {
	if err := ValidateDate("2026-02-06"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, bad := range []string{"", "2026-13-01", "06/02/2026", "2026-02-30"} {
		if err := ValidateDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ValidateDate(%q) = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestNextDay(t *testing.T) {
	got, err := NextDay("2026-02-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2026-03-01" {
		t.Errorf("expected 2026-03-01, got %q", got)
	}
}

func TestNormalizeSearchTerm(t *testing.T) {
	if _, err := NormalizeSearchTerm("  a  "); !errors.Is(err, ErrQueryTooShort) {
		t.Errorf("expected ErrQueryTooShort, got %v", err)
	}
	got, err := NormalizeSearchTerm("  AI  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "AI" {
		t.Errorf("expected trimmed term, got %q", got)
	}
	// Two CJK characters count as two, not six bytes.
	if _, err := NormalizeSearchTerm("芯片"); err != nil {
		t.Errorf("unexpected error for two-rune term: %v", err)
	}
}

func TestSentimentClass(t *testing.T) {
	cases := map[string]string{
		"Positive": "positive",
		"NEGATIVE": "negative",
		"Neutral":  "neutral",
		"":         "neutral",
	}
	for in, want := range cases {
		if got := SentimentClass(in); got != want {
			t.Errorf("SentimentClass(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{
		"2026-02-06T08:30:00Z",
		"2026-02-06T08:30:00.123456+00:00",
		"2026-02-06 08:30:00+00",
		"2026-02-06 08:30:00",
	} {
		ts := ParseTimestamp(s)
		if ts == nil {
			t.Errorf("ParseTimestamp(%q) = nil", s)
			continue
		}
		if ts.Year() != 2026 || ts.Hour() != 8 {
			t.Errorf("ParseTimestamp(%q) = %v", s, ts)
		}
	}
	if ParseTimestamp("") != nil {
		t.Error("expected nil for empty input")
	}
}

func TestReportTopic(t *testing.T) {
	r := DailyReport{Topics: []TrendingTopic{{Name: "NVIDIA", Count: 4}}}
	if _, ok := r.Topic("NVIDIA"); !ok {
		t.Error("expected NVIDIA to be found")
	}
	if _, ok := r.Topic("AMD"); ok {
		t.Error("did not expect AMD")
	}
}

func TestFormatDateDisplay(t *testing.T) {
	if got := FormatDateDisplay("2026-02-06"); got != "Feb 06, 2026" {
		t.Errorf("got %q", got)
	}
	if got := FormatDateDisplay("garbage"); got != "garbage" {
		t.Errorf("got %q", got)
	}
}

func TestDecodeTopics(t *testing.T) {
	array := `[{"topic":"OpenAI","count":3,"average_sentiment":-0.2}]`
	for name, raw := range map[string]string{
		"array":  array,
		"string": `"[{\"topic\":\"OpenAI\",\"count\":3,\"average_sentiment\":-0.2}]"`,
	} {
		topics, err := DecodeTopics([]byte(raw))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if len(topics) != 1 || topics[0].Name != "OpenAI" || topics[0].Count != 3 || topics[0].AverageSentiment != -0.2 {
			t.Errorf("%s: unexpected topics %+v", name, topics)
		}
	}

	for _, empty := range []string{"", "  ", "null"} {
		topics, err := DecodeTopics([]byte(empty))
		if err != nil || topics != nil {
			t.Errorf("DecodeTopics(%q) = %v, %v; want nil, nil", empty, topics, err)
		}
	}

	if _, err := DecodeTopics([]byte("{not json")); err == nil {
		t.Error("expected error for malformed topics")
	}
}
