// Package service wraps the analyzer with the host policies of the server and
// CLI: input validation, HTML input, result caching and usage accounting.
package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/text-analyzer/backend/analyzer"
	"github.com/text-analyzer/backend/htmltext"
	"github.com/text-analyzer/backend/metrics"
	"github.com/text-analyzer/backend/stats"
)

// Format names the kind of input handed to Analyze
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"

	// formatUnknown labels requests whose format was rejected
	formatUnknown Format = "unknown"
)

var (
	ErrEmptyText         = errors.New("please enter some text to analyze")
	ErrTextTooLarge      = errors.New("text exceeds the maximum allowed size")
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

// Request is one analysis request
type Request struct {
	Text   string `json:"text"`
	Format Format `json:"format"`
}

// Result is a report plus how it was produced
type Result struct {
	Report  analyzer.Report `json:"analysis"`
	Cached  bool            `json:"cached"`
	Elapsed time.Duration   `json:"-"`
}

// Options tune the service; zero values pick the defaults
type Options struct {
	CacheSize    int
	CacheTTL     time.Duration
	MaxTextBytes int
}

// CacheStats provides statistics about the result cache
type CacheStats struct {
	Entries  int           `json:"entries"`
	Capacity int           `json:"capacity"`
	TTL      time.Duration `json:"ttl"`
	Hits     int           `json:"hits"`
	Misses   int           `json:"misses"`
}

// Service runs analyses with caching. It is safe for concurrent use.
type Service struct {
	cache        *expirable.LRU[string, analyzer.Report]
	cacheSize    int
	cacheTTL     time.Duration
	maxTextBytes int
	stats        *stats.Storage
	metrics      *metrics.Collector
	logger       *log.Logger
}

// New creates a Service. storage and collector may be nil.
func New(opts Options, storage *stats.Storage, collector *metrics.Collector, logger *log.Logger) *Service {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 1000
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Minute
	}
	if opts.MaxTextBytes <= 0 {
		opts.MaxTextBytes = 1 << 20
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Service{
		cache:        expirable.NewLRU[string, analyzer.Report](opts.CacheSize, nil, opts.CacheTTL),
		cacheSize:    opts.CacheSize,
		cacheTTL:     opts.CacheTTL,
		maxTextBytes: opts.MaxTextBytes,
		stats:        storage,
		metrics:      collector,
		logger:       logger,
	}
}

// Analyze validates the request and returns its report, from cache when possible
func (s *Service) Analyze(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	format, err := normalizeFormat(req.Format)
	if err != nil {
		s.reject(formatUnknown, err)
		return Result{}, err
	}
	if len(req.Text) > s.maxTextBytes {
		s.reject(format, ErrTextTooLarge)
		return Result{}, fmt.Errorf("%w: %d bytes, limit %d", ErrTextTooLarge, len(req.Text), s.maxTextBytes)
	}

	cacheKey := generateCacheKey(format, req.Text)
	if report, ok := s.cache.Get(cacheKey); ok {
		s.record(stats.Usage{Analyses: 1, CacheHits: 1, WordsAnalyzed: report.Basic.Words})
		if s.metrics != nil {
			s.metrics.ObserveAnalysis(string(format), true, 0, report.Basic.Words, report.Readability.FleschScore)
		}
		return Result{Report: report, Cached: true}, nil
	}

	text, err := s.prepare(format, req.Text)
	if err != nil {
		s.reject(format, err)
		return Result{}, err
	}

	start := time.Now()
	report := analyzer.Analyze(text)
	elapsed := time.Since(start)

	s.cache.Add(cacheKey, report)
	s.record(stats.Usage{Analyses: 1, CacheMisses: 1, WordsAnalyzed: report.Basic.Words})
	if s.metrics != nil {
		s.metrics.ObserveAnalysis(string(format), false, elapsed, report.Basic.Words, report.Readability.FleschScore)
	}

	s.logger.Debug("analyzed text",
		"format", format,
		"words", report.Basic.Words,
		"flesch", report.Readability.FleschScore,
		"elapsed", elapsed)

	return Result{Report: report, Elapsed: elapsed}, nil
}

// prepare turns the raw input into the trimmed plain text the analyzer sees
func (s *Service) prepare(format Format, raw string) (string, error) {
	text := raw
	if format == FormatHTML {
		extracted, err := htmltext.ExtractString(raw)
		if err != nil {
			return "", fmt.Errorf("failed to read html input: %w", err)
		}
		text = extracted
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

func (s *Service) reject(format Format, err error) {
	s.record(stats.Usage{Rejected: 1})
	if s.metrics != nil {
		outcome := metrics.OutcomeRejected
		if !IsClientError(err) {
			outcome = metrics.OutcomeFailed
		}
		s.metrics.ObserveFailure(string(format), outcome)
	}
	s.logger.Debug("analysis rejected", "format", format, "err", err)
}

func (s *Service) record(u stats.Usage) {
	if s.stats != nil {
		s.stats.Record(u)
	}
}

// IsClientError reports whether err was caused by the request itself
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyText) ||
		errors.Is(err, ErrTextTooLarge) ||
		errors.Is(err, ErrUnsupportedFormat)
}

func normalizeFormat(f Format) (Format, error) {
	switch Format(strings.ToLower(string(f))) {
	case "", FormatText:
		return FormatText, nil
	case FormatHTML:
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

// generateCacheKey creates a unique key for the input
func generateCacheKey(format Format, text string) string {
	hash := md5.Sum([]byte(string(format) + "\x00" + text))
	return hex.EncodeToString(hash[:])
}

// MaxTextBytes is the largest input Analyze accepts
func (s *Service) MaxTextBytes() int {
	return s.maxTextBytes
}

// UsageHistory returns the stored usage counters per month, if any are kept
func (s *Service) UsageHistory() map[string]stats.MonthlyStats {
	if s.stats == nil {
		return map[string]stats.MonthlyStats{}
	}
	return s.stats.History()
}

// IsCached checks if a request's report is in the cache and not expired
func (s *Service) IsCached(req Request) bool {
	format, err := normalizeFormat(req.Format)
	if err != nil {
		return false
	}
	return s.cache.Contains(generateCacheKey(format, req.Text))
}

// ClearCache clears the result cache
func (s *Service) ClearCache() {
	s.cache.Purge()
}

// GetCacheStats returns statistics about the cache
func (s *Service) GetCacheStats() CacheStats {
	cs := CacheStats{
		Entries:  s.cache.Len(),
		Capacity: s.cacheSize,
		TTL:      s.cacheTTL,
	}
	if s.stats != nil {
		current := s.stats.GetCurrentStats()
		cs.Hits = current.CacheHits
		cs.Misses = current.CacheMisses
	}
	return cs
}

// Shutdown persists usage statistics and drops the cache
func (s *Service) Shutdown() error {
	if s == nil {
		return nil
	}
	s.cache.Purge()
	if s.stats != nil {
		if err := s.stats.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown stats storage: %w", err)
		}
	}
	return nil
}
