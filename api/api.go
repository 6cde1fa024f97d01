// Package api exposes the analysis service over HTTP.
package api

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/text-analyzer/backend/logging"
	"github.com/text-analyzer/backend/middleware"
	"github.com/text-analyzer/backend/render"
	"github.com/text-analyzer/backend/service"
)

const (
	AnalyzePath     = "/api/analyze"
	AnalyzeViewPath = "/api/analyze/view"
)

// emptyTextMessage is shown to people who submit nothing
const emptyTextMessage = "Please enter some text to analyze."

// bodyOverhead is room for the JSON envelope around the text
const bodyOverhead = 64 << 10

// Handler serves the analysis API
type Handler struct {
	service    *service.Service
	statistics *logging.Statistics
	devMode    bool
	logger     *log.Logger
}

// New creates a Handler
func New(svc *service.Service, statistics *logging.Statistics, devMode bool, logger *log.Logger) *Handler {
	return &Handler{
		service:    svc,
		statistics: statistics,
		devMode:    devMode,
		logger:     logger,
	}
}

// Register mounts the API routes on r
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.GET("/sample", h.sample)
		api.POST("/analyze", h.analyze)
		api.POST("/analyze/view", h.analyzeView)
		api.GET("/statistics", h.stats)
	}
}

type analyzeRequest struct {
	Text   string `json:"text"`
	Format string `json:"format"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) sample(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"text": service.SampleText})
}

func (h *Handler) analyze(c *gin.Context) {
	res, ok := h.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) analyzeView(c *gin.Context) {
	res, ok := h.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"analysis": res.Report,
		"view":     render.Build(res.Report),
		"cached":   res.Cached,
	})
}

// run binds the request and analyzes it, writing the error response itself on failure
func (h *Handler) run(c *gin.Context) (service.Result, bool) {
	// escaping can double the encoded size of the text
	limit := int64(h.service.MaxTextBytes())*2 + bodyOverhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return service.Result{}, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return service.Result{}, false
	}

	res, err := h.service.Analyze(c.Request.Context(), service.Request{
		Text:   req.Text,
		Format: service.Format(req.Format),
	})
	if err != nil {
		h.writeError(c, err)
		return service.Result{}, false
	}

	c.Set(middleware.ContextKeywordsKey, res.Report.SEO.TopKeywords)
	return res, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyText):
		c.JSON(http.StatusBadRequest, gin.H{"error": emptyTextMessage})
	case errors.Is(err, service.ErrTextTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("analysis failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to analyze text: " + err.Error(),
		})
	}
}

func (h *Handler) stats(c *gin.Context) {
	summary := h.statistics.GetStatistics(h.devMode)
	if h.devMode {
		summary["cache"] = h.service.GetCacheStats()
		summary["monthly"] = h.service.UsageHistory()
	}
	c.JSON(http.StatusOK, summary)
}
