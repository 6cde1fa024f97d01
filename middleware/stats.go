package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/text-analyzer/backend/analyzer"
	"github.com/text-analyzer/backend/logging"
	"github.com/text-analyzer/backend/metrics"
)

// ContextKeywordsKey is where handlers leave the keywords of a finished
// analysis for the statistics middleware
const ContextKeywordsKey = "analysis.keywords"

// saveEvery persists the request statistics after this many analyses
const saveEvery = 100

// StatsMiddleware tracks visitors, analysis requests and per-route metrics
func StatsMiddleware(stats *logging.Statistics, collector *metrics.Collector, logger *log.Logger, analyzePaths ...string) gin.HandlerFunc {
	tracked := make(map[string]bool, len(analyzePaths))
	for _, p := range analyzePaths {
		tracked[p] = true
	}

	return func(c *gin.Context) {
		start := time.Now()

		stats.TrackVisitor(c.ClientIP())

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if collector != nil {
			collector.ObserveRequest(route, c.Writer.Status())
		}

		if !tracked[route] {
			return
		}

		var keywords []analyzer.Keyword
		if v, ok := c.Get(ContextKeywordsKey); ok {
			keywords, _ = v.([]analyzer.Keyword)
		}
		loadTime := float64(time.Since(start).Milliseconds())
		stats.TrackAnalysis(keywords, loadTime, c.Writer.Status() >= 400)

		if stats.TotalRequests()%saveEvery == 0 {
			go func() {
				if err := stats.Save(); err != nil {
					logger.Warn("could not save statistics", "err", err)
				}
			}()
		}
	}
}
