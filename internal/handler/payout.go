package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tengolugar/internal/domain"
	"tengolugar/internal/middleware"
	"tengolugar/internal/service"
)

// PayoutManager is the payout workflow the admin endpoints drive.
type PayoutManager interface {
	CalculatePayout(ctx context.Context, tripID string) (*domain.PayoutBreakdown, error)
	CreatePayoutForTrip(ctx context.Context, tripID string) (*domain.DriverPayout, error)
	MarkProcessing(ctx context.Context, req service.PayoutActionRequest) (*domain.DriverPayout, error)
	MarkCompleted(ctx context.Context, req service.MarkCompletedRequest) (*domain.DriverPayout, error)
	MarkFailed(ctx context.Context, req service.MarkFailedRequest) (*domain.DriverPayout, error)
	Hold(ctx context.Context, req service.PayoutActionRequest) (*domain.DriverPayout, error)
	Release(ctx context.Context, req service.PayoutActionRequest) (*domain.DriverPayout, error)
	Cancel(ctx context.Context, req service.PayoutActionRequest) (*domain.DriverPayout, error)
}

// PayoutHandler handles HTTP requests for driver payouts.
type PayoutHandler struct {
	payouts PayoutManager
}

// NewPayoutHandler creates a new PayoutHandler.
func NewPayoutHandler(payouts PayoutManager) *PayoutHandler {
	return &PayoutHandler{payouts: payouts}
}

// CompletePayoutRequest is the HTTP request body for recording a transfer.
type CompletePayoutRequest struct {
	TransferProofKey string    `json:"transfer_proof_key"`
	TransferredAt    time.Time `json:"transferred_at"`
}

// FailPayoutRequest is the HTTP request body for recording a failed transfer.
type FailPayoutRequest struct {
	Reason string `json:"reason"`
}

// Calculate handles GET /v1/admin/trips/:id/payout/calculation
func (h *PayoutHandler) Calculate(c *gin.Context) {
	b, err := h.payouts.CalculatePayout(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, PayoutBreakdownResponse{
		TotalReceived:           b.TotalReceived,
		ServiceFee:              b.ServiceFee,
		LateCancellationPenalty: b.LateCancellationPenalty,
		PayoutAmount:            b.PayoutAmount,
	})
}

// Create handles POST /v1/admin/trips/:id/payout
func (h *PayoutHandler) Create(c *gin.Context) {
	payout, err := h.payouts.CreatePayoutForTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, newPayoutResponse(payout))
}

// MarkProcessing handles POST /v1/admin/payouts/:id/processing
func (h *PayoutHandler) MarkProcessing(c *gin.Context) {
	h.action(c, h.payouts.MarkProcessing)
}

// MarkCompleted handles POST /v1/admin/payouts/:id/complete
func (h *PayoutHandler) MarkCompleted(c *gin.Context) {
	var req CompletePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payout, err := h.payouts.MarkCompleted(c.Request.Context(), service.MarkCompletedRequest{
		PayoutID:         c.Param("id"),
		ActorID:          middleware.ActorID(c),
		TransferProofKey: req.TransferProofKey,
		TransferredAt:    req.TransferredAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newPayoutResponse(payout))
}

// MarkFailed handles POST /v1/admin/payouts/:id/fail
func (h *PayoutHandler) MarkFailed(c *gin.Context) {
	var req FailPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payout, err := h.payouts.MarkFailed(c.Request.Context(), service.MarkFailedRequest{
		PayoutID: c.Param("id"),
		ActorID:  middleware.ActorID(c),
		Reason:   req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newPayoutResponse(payout))
}

// Hold handles POST /v1/admin/payouts/:id/hold
func (h *PayoutHandler) Hold(c *gin.Context) {
	h.action(c, h.payouts.Hold)
}

// Release handles POST /v1/admin/payouts/:id/release
func (h *PayoutHandler) Release(c *gin.Context) {
	h.action(c, h.payouts.Release)
}

// Cancel handles POST /v1/admin/payouts/:id/cancel
func (h *PayoutHandler) Cancel(c *gin.Context) {
	h.action(c, h.payouts.Cancel)
}

func (h *PayoutHandler) action(c *gin.Context, fn func(context.Context, service.PayoutActionRequest) (*domain.DriverPayout, error)) {
	payout, err := fn(c.Request.Context(), service.PayoutActionRequest{
		PayoutID: c.Param("id"),
		ActorID:  middleware.ActorID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newPayoutResponse(payout))
}
