package logging

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/text-analyzer/backend/analyzer"
)

func TestStatistics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "statistics.json")

	stats, err := NewStatistics(path)
	require.NoError(t, err)

	t.Run("TrackAnalysis", func(t *testing.T) {
		stats.TrackVisitor("10.0.0.1")
		stats.TrackVisitor("10.0.0.2")
		stats.TrackVisitor("10.0.0.1")

		stats.TrackAnalysis([]analyzer.Keyword{{Word: "content"}, {Word: "strategy"}}, 10, false)
		stats.TrackAnalysis([]analyzer.Keyword{{Word: "content"}}, 30, true)

		assert.Equal(t, 2, stats.GetUniqueVisitorsCount())
		assert.Equal(t, 2, stats.TotalRequests())
		assert.Equal(t, 50.0, stats.GetErrorRate())
		assert.Equal(t, []analyzer.WordCount{{Word: "content", Count: 2}, {Word: "strategy", Count: 1}},
			stats.GetPopularKeywords(5))
		assert.Len(t, stats.GetPopularKeywords(1), 1)
		assert.Empty(t, stats.GetPopularKeywords(0))
	})

	t.Run("Summary", func(t *testing.T) {
		limited := stats.GetStatistics(false)
		assert.NotContains(t, limited, "popularKeywords")
		assert.Equal(t, 20.0, limited["averageLoadTime"])

		full := stats.GetStatistics(true)
		assert.Contains(t, full, "popularKeywords")
	})

	t.Run("Persistence", func(t *testing.T) {
		require.NoError(t, stats.Save())

		reloaded, err := NewStatistics(path)
		require.NoError(t, err)
		assert.Equal(t, 2, reloaded.TotalRequests())
		assert.Equal(t, 2, reloaded.GetUniqueVisitorsCount())
		assert.Equal(t, stats.GetPopularKeywords(5), reloaded.GetPopularKeywords(5))
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					stats.TrackAnalysis(nil, 1, false)
					stats.GetStatistics(true)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1002, stats.TotalRequests())
	})
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn", "json")

	logger.Info("hidden")
	logger.Warn("shown", "words", 9)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"words":9`)
}
