// Package server exposes scans over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"CatalystScanner/internal/metrics"
	"CatalystScanner/internal/model"
	"CatalystScanner/internal/recorder"
	"CatalystScanner/internal/scanner"
	"CatalystScanner/internal/strategy"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// Scanner runs scans and reads back their history.
type Scanner interface {
	Scan(ctx context.Context, symbol string, dte int) (*model.ScanReport, error)
	History(ctx context.Context, symbol string, limit int) ([]recorder.ScanRecord, error)
}

// Handler serves the scan API.
type Handler struct {
	scanner    Scanner
	defaultDTE int
}

// NewHandler creates a new scan handler.
func NewHandler(sc Scanner, defaultDTE int) *Handler {
	return &Handler{scanner: sc, defaultDTE: defaultDTE}
}

// NewRouter builds the gin engine with all routes mounted.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(Logger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/scan/:symbol", h.Scan)
		v1.GET("/history/:symbol", h.History)
	}
	return router
}

// Scan runs a scan for one ticker.
// GET /api/v1/scan/:symbol?dte=14
func (h *Handler) Scan(c *gin.Context) {
	dte := h.defaultDTE
	if raw := c.Query("dte"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			sendError(c, http.StatusBadRequest, "dte must be an integer")
			return
		}
		dte = v
	}

	rep, err := h.scanner.Scan(c.Request.Context(), c.Param("symbol"), dte)
	switch {
	case errors.Is(err, scanner.ErrInvalidParams):
		sendError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, strategy.ErrInvalidSpreadParameters) && rep != nil:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "data": rep})
	case err != nil:
		log.Error().Err(err).Str("symbol", c.Param("symbol")).Msg("scan failed")
		sendError(c, http.StatusInternalServerError, "scan failed")
	default:
		c.JSON(http.StatusOK, gin.H{"data": rep})
	}
}

// History lists recorded scans for one ticker.
// GET /api/v1/history/:symbol?limit=10
func (h *Handler) History(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			sendError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(v, maxHistoryLimit)
	}

	recs, err := h.scanner.History(c.Request.Context(), c.Param("symbol"), limit)
	if err != nil {
		log.Error().Err(err).Str("symbol", c.Param("symbol")).Msg("load history failed")
		sendError(c, http.StatusInternalServerError, "failed to load history")
		return
	}
	if recs == nil {
		recs = []recorder.ScanRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"data": recs})
}

func sendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}

// Logger logs each request through zerolog, at a level chosen by status.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path = path + "?" + q
		}

		c.Next()

		status := c.Writer.Status()
		evt := log.Info()
		if status >= 500 {
			evt = log.Error()
		} else if status >= 400 {
			evt = log.Warn()
		}
		evt.Int("status", status).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("client_ip", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	}
}
