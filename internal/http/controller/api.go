package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkbio/internal/domain"
	"linkbio/internal/http/dto"
	"linkbio/internal/http/middleware"
)

// Log relays a client supplied message verbatim.
func (h *Handler) Log(c *gin.Context) {
	var req dto.LogRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "message is required"})
		return
	}

	outcome, err := h.visits.Relay(c.Request.Context(), req.Message)
	switch {
	case errors.Is(err, domain.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "message is required"})
	case outcome == domain.OutcomeSent:
		c.JSON(http.StatusOK, dto.StatusResponse{Status: "ok"})
	case outcome == domain.OutcomeDuplicate:
		c.JSON(http.StatusOK, dto.StatusResponse{Status: "duplicate"})
	case isDeliveryFailure(outcome):
		h.log.Warn("log relay not delivered", zap.String("outcome", string(outcome)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.StatusResponse{Status: "failed"})
	default:
		h.log.Error("log relay failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal error"})
	}
}

// ScreenInfo relays the device report for the visitor identified by cookie.
func (h *Handler) ScreenInfo(c *gin.Context) {
	token, err := c.Cookie(middleware.VisitorCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unknown session"})
		return
	}

	var req dto.ScreenInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "no telemetry"})
		return
	}

	outcome, err := h.visits.HandleScreenInfo(c.Request.Context(), token, c.ClientIP(), c.Request.UserAgent(), &req)
	switch {
	case errors.Is(err, domain.ErrUnknownSession):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unknown session"})
	case errors.Is(err, domain.ErrEmptyTelemetry):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "no telemetry"})
	case outcome.Delivered():
		c.JSON(http.StatusOK, dto.StatusResponse{Status: "success"})
	case isDeliveryFailure(outcome):
		h.log.Warn("device report not delivered", zap.String("outcome", string(outcome)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.StatusResponse{Status: "failed"})
	default:
		h.log.Error("device report failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal error"})
	}
}

// SendReport relays a Markdown report.
func (h *Handler) SendReport(c *gin.Context) {
	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "No text provided"})
		return
	}

	outcome, err := h.visits.Report(c.Request.Context(), req.Text)
	switch {
	case errors.Is(err, domain.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "No text provided"})
	case errors.Is(err, domain.ErrNotConfigured):
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Bot token or chat ID not set"})
	case outcome.Delivered():
		c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
	default:
		h.log.Warn("report not delivered", zap.String("outcome", string(outcome)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to send message"})
	}
}

func isDeliveryFailure(o domain.Outcome) bool {
	return o == domain.OutcomeFailed || o == domain.OutcomeOffline
}
