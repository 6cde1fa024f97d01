// Package metrics exposes Prometheus collectors for the analysis service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "textstat"

// Outcome labels for analysis requests
const (
	OutcomeAnalyzed = "analyzed"
	OutcomeCached   = "cached"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Collector holds every metric on its own registry
type Collector struct {
	registry *prometheus.Registry

	analyses      *prometheus.CounterVec
	duration      prometheus.Histogram
	wordsAnalyzed prometheus.Counter
	fleschScore   prometheus.Histogram
	requests      *prometheus.CounterVec
}

// New creates a Collector with Go runtime and process collectors registered
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analysis requests by outcome.",
		}, []string{"outcome", "format"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent running the analysis pipeline.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		wordsAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "words_analyzed_total",
			Help:      "Words processed by the analysis pipeline.",
		}),
		fleschScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flesch_score",
			Help:      "Flesch Reading Ease of analyzed documents.",
			Buckets:   []float64{30, 50, 60, 70, 80, 90, 100},
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.analyses,
		c.duration,
		c.wordsAnalyzed,
		c.fleschScore,
		c.requests,
	)
	return c
}

// ObserveAnalysis records a pipeline run that produced a report
func (c *Collector) ObserveAnalysis(format string, cached bool, elapsed time.Duration, words int, flesch float64) {
	outcome := OutcomeAnalyzed
	if cached {
		outcome = OutcomeCached
	} else {
		c.duration.Observe(elapsed.Seconds())
		c.wordsAnalyzed.Add(float64(words))
		c.fleschScore.Observe(flesch)
	}
	c.analyses.WithLabelValues(outcome, format).Inc()
}

// ObserveFailure records a request that produced no report
func (c *Collector) ObserveFailure(format, outcome string) {
	c.analyses.WithLabelValues(outcome, format).Inc()
}

// ObserveRequest records a served HTTP request
func (c *Collector) ObserveRequest(route string, code int) {
	c.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Registry exposes the underlying registry for gathering
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
