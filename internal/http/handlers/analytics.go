package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ojasshelke/product-detail-mini-cart/internal/http/middleware"
	"github.com/ojasshelke/product-detail-mini-cart/internal/http/validation"
	"github.com/ojasshelke/product-detail-mini-cart/internal/modules/analytics"
	"github.com/ojasshelke/product-detail-mini-cart/internal/shared/apperr"
)

// AnalyticsHandler records widget events and serves the dashboard data.
type AnalyticsHandler struct {
	Recorder *analytics.Recorder
}

func NewAnalyticsHandler(rec *analytics.Recorder) *AnalyticsHandler {
	return &AnalyticsHandler{Recorder: rec}
}

type recordEventRequest struct {
	Event   string          `json:"event" binding:"required"`
	Payload json.RawMessage `json:"payload" binding:"required"`
	TS      int64           `json:"ts"`
}

// Record handles POST /api/analytics - appends one event to the log.
func (h *AnalyticsHandler) Record(c *gin.Context) {
	var req recordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Missing required fields: event, payload.", fields))
		return
	}

	e := analytics.Event{Event: req.Event, Payload: req.Payload, TS: req.TS}
	if err := h.Recorder.Record(c.Request.Context(), e); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

// List handles GET /api/analytics - the raw event array the dashboard charts.
func (h *AnalyticsHandler) List(c *gin.Context) {
	events, err := h.Recorder.List(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, events)
}

// Summary handles GET /api/analytics/summary - total, unique types and the
// most common event.
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	events, err := h.Recorder.List(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, analytics.Summarize(events))
}
