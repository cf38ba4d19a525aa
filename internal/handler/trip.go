package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tengolugar/internal/domain"
	"tengolugar/internal/middleware"
	"tengolugar/internal/service"
)

// TripCanceller cancels trips.
type TripCanceller interface {
	CancelTrip(ctx context.Context, req service.CancelTripRequest) (*domain.Trip, error)
}

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	trips TripCanceller
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(trips TripCanceller) *TripHandler {
	return &TripHandler{trips: trips}
}

// Cancel handles POST /v1/trips/:id/cancel and POST /v1/admin/trips/:id/cancel
func (h *TripHandler) Cancel(c *gin.Context) {
	trip, err := h.trips.CancelTrip(c.Request.Context(), service.CancelTripRequest{
		TripID:  c.Param("id"),
		ActorID: middleware.ActorID(c),
		AsAdmin: middleware.Role(c) == middleware.RoleAdmin,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newTripResponse(trip))
}
