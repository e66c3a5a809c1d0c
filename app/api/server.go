// Package api exposes the status HTTP surface: a health endpoint and
// pipeline counters for monitoring.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cntech-bot/app/pipeline"
)

type Handler struct {
	stats       *pipeline.Stats
	seenLen     func() int
	sourceCount int
	version     string
	startedAt   time.Time
}

func NewHandler(stats *pipeline.Stats, seenLen func() int, sourceCount int, version string) *Handler {
	return &Handler{
		stats:       stats,
		seenLen:     seenLen,
		sourceCount: sourceCount,
		version:     version,
		startedAt:   time.Now(),
	}
}

func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", handler.GetRoot)
	r.GET("/health", handler.GetHealth)
	r.GET("/stats", handler.GetStats)

	return r
}

func (h *Handler) GetRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "cntech-bot",
		"version": h.version,
		"endpoints": map[string]string{
			"health": "/health",
			"stats":  "/stats",
		},
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp":  time.Now().In(time.Local).Format(time.RFC3339),
		"uptime":     time.Since(h.startedAt).Round(time.Second).String(),
		"sources":    h.sourceCount,
		"seen_links": h.seenLen(),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.Snapshot())
}
