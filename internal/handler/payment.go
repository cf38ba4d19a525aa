package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tengolugar/internal/domain"
	"tengolugar/internal/middleware"
	"tengolugar/internal/service"
)

// PaymentReviewer is the payment proof workflow.
type PaymentReviewer interface {
	SubmitProof(ctx context.Context, req service.SubmitProofRequest) (*domain.Payment, error)
	Verify(ctx context.Context, req service.PaymentReviewRequest) (*domain.Payment, error)
	Reject(ctx context.Context, req service.PaymentReviewRequest) (*domain.Payment, error)
}

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	payments PaymentReviewer
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(payments PaymentReviewer) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// SubmitProofRequest is the HTTP request body for attaching a payment proof.
type SubmitProofRequest struct {
	ProofKey string `json:"proof_key"`
}

// SubmitProof handles POST /v1/payments/:id/proof
func (h *PaymentHandler) SubmitProof(c *gin.Context) {
	var req SubmitProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.payments.SubmitProof(c.Request.Context(), service.SubmitProofRequest{
		PaymentID:   c.Param("id"),
		PassengerID: middleware.ActorID(c),
		ProofKey:    req.ProofKey,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newPaymentResponse(payment))
}

// Verify handles POST /v1/admin/payments/:id/verify
func (h *PaymentHandler) Verify(c *gin.Context) {
	h.review(c, h.payments.Verify)
}

// Reject handles POST /v1/admin/payments/:id/reject
func (h *PaymentHandler) Reject(c *gin.Context) {
	h.review(c, h.payments.Reject)
}

func (h *PaymentHandler) review(c *gin.Context, fn func(context.Context, service.PaymentReviewRequest) (*domain.Payment, error)) {
	payment, err := fn(c.Request.Context(), service.PaymentReviewRequest{
		PaymentID: c.Param("id"),
		ActorID:   middleware.ActorID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newPaymentResponse(payment))
}
