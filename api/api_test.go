package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/text-analyzer/backend/analyzer"
	"github.com/text-analyzer/backend/logging"
	"github.com/text-analyzer/backend/metrics"
	"github.com/text-analyzer/backend/middleware"
	"github.com/text-analyzer/backend/render"
	"github.com/text-analyzer/backend/service"
	"github.com/text-analyzer/backend/stats"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, devMode bool) (*gin.Engine, *logging.Statistics) {
	t.Helper()
	statistics, err := logging.NewStatistics(filepath.Join(t.TempDir(), "statistics.json"))
	require.NoError(t, err)

	storage, err := stats.NewStorage(t.TempDir(), 0)
	require.NoError(t, err)

	logger := logging.Discard()
	collector := metrics.New()
	svc := service.New(service.Options{MaxTextBytes: 4096}, storage, collector, logger)
	t.Cleanup(func() { svc.Shutdown() })

	r := gin.New()
	r.Use(middleware.ErrorHandler(logger))
	r.Use(middleware.StatsMiddleware(statistics, collector, logger, AnalyzePath, AnalyzeViewPath))
	New(svc, statistics, devMode, logger).Register(r)
	return r, statistics
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	r, _ := newRouter(t, false)
	rec := get(r, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSample(t *testing.T) {
	r, _ := newRouter(t, false)
	rec := get(r, "/api/sample")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, service.SampleText, body.Text)
}

func TestAnalyze(t *testing.T) {
	r, statistics := newRouter(t, false)

	rec := post(r, AnalyzePath, `{"text":"The quick brown fox jumps over the lazy dog."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Analysis analyzer.Report `json:"analysis"`
		Cached   bool            `json:"cached"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Cached)
	assert.Equal(t, 9, body.Analysis.Basic.Words)
	assert.Equal(t, 1, body.Analysis.Basic.Sentences)
	assert.Equal(t, analyzer.WordCount{Word: "the", Count: 2}, body.Analysis.WordFreq[0])

	rec = post(r, AnalyzePath, `{"text":"The quick brown fox jumps over the lazy dog."}`)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Cached)

	assert.Equal(t, 2, statistics.TotalRequests())
}

func TestAnalyzeJSONShape(t *testing.T) {
	r, _ := newRouter(t, false)
	rec := post(r, AnalyzePath, `{"text":"# Heading one\nSome text https://example.com more text"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Analysis map[string]json.RawMessage `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, key := range []string{"basic", "readability", "wordFreq", "seo"} {
		assert.Contains(t, body.Analysis, key)
	}

	var basic, seo map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body.Analysis["basic"], &basic))
	require.NoError(t, json.Unmarshal(body.Analysis["seo"], &seo))
	for _, key := range []string{"characters", "charactersNoSpaces", "words", "sentences", "paragraphs", "readingTime"} {
		assert.Contains(t, basic, key)
	}
	assert.JSONEq(t, "1", string(seo["headingCount"]))
	assert.JSONEq(t, "1", string(seo["linkCount"]))
}

func TestAnalyzeView(t *testing.T) {
	r, _ := newRouter(t, false)
	rec := post(r, AnalyzeViewPath, `{"text":"<h1>Hello</h1><p>World of words.</p>","format":"html"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		View render.View `json:"view"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.View.Cards, 6)
	assert.Equal(t, render.Card{Value: "4", Label: "Words"}, body.View.Cards[0])
	assert.Equal(t, render.Row{Label: "Headings Found", Value: "1"}, body.View.SEO[1])
}

func TestAnalyzeErrors(t *testing.T) {
	r, statistics := newRouter(t, false)

	tests := []struct {
		name string
		body string
		code int
		msg  string
	}{
		{"empty", `{"text":"   "}`, http.StatusBadRequest, "Please enter some text to analyze."},
		{"missing text", `{}`, http.StatusBadRequest, "Please enter some text to analyze."},
		{"malformed", `{"text":`, http.StatusBadRequest, "Invalid request body"},
		{"bad format", `{"text":"hi","format":"pdf"}`, http.StatusBadRequest, `unsupported input format: "pdf"`},
		{"too large", `{"text":"` + strings.Repeat("a", 5000) + `"}`, http.StatusRequestEntityTooLarge, ""},
		{"oversized body", `{"text":"` + strings.Repeat("a", 200<<10) + `"}`, http.StatusRequestEntityTooLarge, "Request body too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(r, AnalyzePath, tt.body)
			assert.Equal(t, tt.code, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.msg != "" {
				assert.Equal(t, tt.msg, body["error"])
			} else {
				assert.NotEmpty(t, body["error"])
			}
		})
	}
	assert.Equal(t, 100.0, statistics.GetErrorRate())
}

func TestStatisticsEndpoint(t *testing.T) {
	t.Run("limited", func(t *testing.T) {
		r, _ := newRouter(t, false)
		post(r, AnalyzePath, `{"text":"Content strategy content."}`)

		var body map[string]any
		require.NoError(t, json.Unmarshal(get(r, "/api/statistics").Body.Bytes(), &body))
		assert.Equal(t, 1.0, body["totalRequests"])
		assert.NotContains(t, body, "popularKeywords")
		assert.NotContains(t, body, "cache")
	})

	t.Run("dev mode", func(t *testing.T) {
		r, _ := newRouter(t, true)
		post(r, AnalyzePath, `{"text":"Content strategy content."}`)

		var body map[string]any
		require.NoError(t, json.Unmarshal(get(r, "/api/statistics").Body.Bytes(), &body))
		assert.Contains(t, body, "popularKeywords")
		assert.Contains(t, body, "cache")

		var monthly struct {
			Monthly map[string]stats.MonthlyStats `json:"monthly"`
		}
		require.NoError(t, json.Unmarshal(get(r, "/api/statistics").Body.Bytes(), &monthly))
		require.Len(t, monthly.Monthly, 1)
		assert.Equal(t, 1, monthly.Monthly[time.Now().Format("2006-01")].Analyses)
	})
}
