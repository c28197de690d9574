// Package server exposes the verifier over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/usecase"
)

type textRequest struct {
	Text string `json:"text"`
}

type verifyResponse struct {
	Text               string             `json:"text"`
	MLPrediction       *domain.Prediction `json:"mlPrediction"`
	OnlineVerification usecase.Report     `json:"onlineVerification"`
	Timestamp          time.Time          `json:"timestamp"`
}

type handler struct {
	verifier *usecase.Verifier
	logger   *slog.Logger
	clock    func() time.Time
}

// NewRouter registers all routes on a fresh gin engine.
func NewRouter(verifier *usecase.Verifier, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	h := &handler{verifier: verifier, logger: logger, clock: time.Now}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/healthz", h.health)
	r.POST("/verify-online", h.verifyOnline)
	r.POST("/verify", h.verify)
	r.POST("/predict", h.predict)
	r.GET("/live-news", h.liveNews)
	r.GET("/history", h.history)

	return r
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"classifier": h.verifier.HasClassifier(),
	})
}

func (h *handler) verifyOnline(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}

	report, err := h.verifier.VerifyOnline(c.Request.Context(), text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *handler) verify(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}

	report, err := h.verifier.Verify(c.Request.Context(), text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, verifyResponse{
		Text:               text,
		MLPrediction:       report.Prediction,
		OnlineVerification: report,
		Timestamp:          h.clock().UTC(),
	})
}

func (h *handler) predict(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}

	prediction, err := h.verifier.Predict(c.Request.Context(), text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"text":       text,
		"prediction": prediction,
	})
}

func (h *handler) liveNews(c *gin.Context) {
	headlines, err := h.verifier.LiveNews(c.Request.Context(), queryLimit(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"news": headlines})
}

func (h *handler) history(c *gin.Context) {
	records, err := h.verifier.History(c.Request.Context(), queryLimit(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}

func (h *handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrEmptyClaim):
		status = http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotConfigured):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func bindText(c *gin.Context) (string, bool) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return "", false
	}
	return req.Text, true
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return limit
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
