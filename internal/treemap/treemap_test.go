package treemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TobiSchelling/trendboard/internal/news"
)

func sampleTopics() []news.TrendingTopic {
	return []news.TrendingTopic{
		{Name: "OpenAI", Count: 3, AverageSentiment: 0.2},
		{Name: "NvidiaBlackwell", Count: 12, AverageSentiment: 0.6},
		{Name: "TSMC", Count: 6, AverageSentiment: -0.3},
		{Name: "Regulation", Count: 1, AverageSentiment: -0.9},
		{Name: "Ghost", Count: 0, AverageSentiment: 0},
	}
}

func TestLayoutSortsAndFilters(t *testing.T) {
	m := Layout(sampleTopics(), DefaultOptions())

	require.Len(t, m.Cells, 4, "zero-count topics are not drawn")
	names := make([]string, len(m.Cells))
	for i, c := range m.Cells {
		names[i] = c.Topic.Name
	}
	assert.Equal(t, []string{"NvidiaBlackwell", "TSMC", "OpenAI", "Regulation"}, names)
	assert.Equal(t, float64(DefaultWidth), m.Width)
	assert.Equal(t, float64(DefaultHeight), m.Height)
}

func TestLayoutAreasProportional(t *testing.T) {
	m := Layout(sampleTopics(), Options{Width: 600, Height: 300, Padding: 0})

	total := 0
	for _, c := range m.Cells {
		total += c.Topic.Count
	}
	for _, c := range m.Cells {
		want := 600 * 300 * float64(c.Topic.Count) / float64(total)
		assert.InDelta(t, want, c.Area(), 1e-6, "area of %s", c.Topic.Name)
	}
}

func TestLayoutCellsInsideCanvasWithoutOverlap(t *testing.T) {
	opts := Options{Width: 800, Height: 400, Padding: 2}
	topics := []news.TrendingTopic{}
	for i, n := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		topics = append(topics, news.TrendingTopic{Name: n, Count: 20 - 2*i})
	}
	m := Layout(topics, opts)
	require.Len(t, m.Cells, len(topics))

	const eps = 1e-9
	for _, c := range m.Cells {
		assert.GreaterOrEqual(t, c.X0, opts.Padding-eps)
		assert.GreaterOrEqual(t, c.Y0, opts.Padding-eps)
		assert.LessOrEqual(t, c.X1, opts.Width-opts.Padding+eps)
		assert.LessOrEqual(t, c.Y1, opts.Height-opts.Padding+eps)
		assert.Greater(t, c.Width(), 0.0)
		assert.Greater(t, c.Height(), 0.0)
	}
	for i := range m.Cells {
		for j := i + 1; j < len(m.Cells); j++ {
			a, b := m.Cells[i], m.Cells[j]
			overlapX := a.X0 < b.X1-eps && b.X0 < a.X1-eps
			overlapY := a.Y0 < b.Y1-eps && b.Y0 < a.Y1-eps
			assert.False(t, overlapX && overlapY, "%s overlaps %s", a.Topic.Name, b.Topic.Name)
		}
	}
}

func TestLayoutSingleTopicFillsCanvas(t *testing.T) {
	m := Layout([]news.TrendingTopic{{Name: "Solo", Count: 7}}, Options{Width: 100, Height: 50, Padding: 2})
	require.Len(t, m.Cells, 1)
	c := m.Cells[0]
	assert.InDelta(t, 2, c.X0, 1e-9)
	assert.InDelta(t, 2, c.Y0, 1e-9)
	assert.InDelta(t, 98, c.X1, 1e-9)
	assert.InDelta(t, 48, c.Y1, 1e-9)
}

func TestLayoutEmpty(t *testing.T) {
	m := Layout(nil, Options{})
	assert.True(t, m.Empty())
	assert.Equal(t, float64(DefaultWidth), m.Width)
}

func TestLayoutCellDecorations(t *testing.T) {
	m := Layout([]news.TrendingTopic{{Name: "NvidiaBlackwell", Count: 4, AverageSentiment: 1}}, DefaultOptions())
	require.Len(t, m.Cells, 1)
	c := m.Cells[0]
	assert.Equal(t, "#009e49", c.Fill)
	require.Len(t, c.Labels, 2)
	assert.Equal(t, Label{Text: "Nvidia", X: 4, Y: 15}, c.Labels[0])
	assert.Equal(t, Label{Text: "Blackwell", X: 4, Y: 30}, c.Labels[1])
	assert.Equal(t, "NvidiaBlackwell\nMentions: 4\nAverage sentiment: 1.00", c.Tooltip)
}

func TestColor(t *testing.T) {
	assert.Equal(t, "#d90000", Color(-1))
	assert.Equal(t, "#aaaaaa", Color(0))
	assert.Equal(t, "#009e49", Color(1))
	assert.Equal(t, "#55a47a", Color(0.5))
	assert.Equal(t, Color(1), Color(3.5), "scores are clamped")
	assert.Equal(t, Color(-1), Color(-2))
}

func TestLines(t *testing.T) {
	cases := map[string][]string{
		"OpenAI":                {"OpenAI"},
		"NvidiaBlackwell":       {"Nvidia", "Blackwell"},
		"BlackwellGPU":          {"BlackwellGPU"},
		"Large Language Models": {"Large", "Language", "Models"},
		"芯片":                    {"芯片"},
		"":                      nil,
	}
	for in, want := range cases {
		assert.Equal(t, want, Lines(in), "Lines(%q)", in)
	}
}
