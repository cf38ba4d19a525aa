package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tengolugar/internal/domain"
	"tengolugar/internal/middleware"
	"tengolugar/internal/service"
)

// ReservationActions are the driver and passenger reservation operations.
type ReservationActions interface {
	Approve(ctx context.Context, req service.ReservationActionRequest) (*domain.TripPassenger, error)
	Reject(ctx context.Context, req service.ReservationActionRequest) (*domain.TripPassenger, error)
	ClaimSeat(ctx context.Context, req service.ReservationActionRequest) (*domain.TripPassenger, error)
	Cancel(ctx context.Context, req service.ReservationActionRequest) (*domain.TripPassenger, error)
}

// ReservationHandler handles HTTP requests for reservations.
type ReservationHandler struct {
	reservations ReservationActions
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(reservations ReservationActions) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

// Approve handles POST /v1/reservations/:id/approve
func (h *ReservationHandler) Approve(c *gin.Context) {
	h.action(c, h.reservations.Approve)
}

// Reject handles POST /v1/reservations/:id/reject
func (h *ReservationHandler) Reject(c *gin.Context) {
	h.action(c, h.reservations.Reject)
}

// ClaimSeat handles POST /v1/reservations/:id/claim
func (h *ReservationHandler) ClaimSeat(c *gin.Context) {
	h.action(c, h.reservations.ClaimSeat)
}

// Cancel handles POST /v1/reservations/:id/cancel
func (h *ReservationHandler) Cancel(c *gin.Context) {
	h.action(c, h.reservations.Cancel)
}

func (h *ReservationHandler) action(c *gin.Context, fn func(context.Context, service.ReservationActionRequest) (*domain.TripPassenger, error)) {
	r, err := fn(c.Request.Context(), service.ReservationActionRequest{
		ReservationID: c.Param("id"),
		ActorID:       middleware.ActorID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newReservationResponse(r))
}
