package handler

import (
	"time"

	"tengolugar/internal/domain"
)

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	ID             string    `json:"id"`
	DriverID       string    `json:"driver_id"`
	Status         string    `json:"status"`
	DepartureTime  time.Time `json:"departure_time"`
	AvailableSeats int       `json:"available_seats"`
	RemainingSeats int       `json:"remaining_seats"`
}

func newTripResponse(t *domain.Trip) TripResponse {
	return TripResponse{
		ID:             t.ID,
		DriverID:       t.DriverID,
		Status:         string(t.Status),
		DepartureTime:  t.DepartureTime,
		AvailableSeats: t.AvailableSeats,
		RemainingSeats: t.RemainingSeats,
	}
}

// ReservationResponse is the HTTP response for reservation operations.
type ReservationResponse struct {
	ID                 string     `json:"id"`
	TripID             string     `json:"trip_id"`
	PassengerID        string     `json:"passenger_id"`
	Status             string     `json:"status"`
	SeatsReserved      int        `json:"seats_reserved"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
}

func newReservationResponse(r *domain.TripPassenger) ReservationResponse {
	return ReservationResponse{
		ID:                 r.ID,
		TripID:             r.TripID,
		PassengerID:        r.PassengerID,
		Status:             string(r.Status),
		SeatsReserved:      r.SeatsReserved,
		CancelledAt:        optionalTime(r.CancelledAt),
		CancellationReason: string(r.CancellationReason),
	}
}

// PaymentResponse is the HTTP response for payment operations.
type PaymentResponse struct {
	ID              string `json:"id"`
	TripPassengerID string `json:"trip_passenger_id"`
	Status          string `json:"status"`
	TotalAmount     int64  `json:"total_amount"`
	ProofKey        string `json:"proof_key,omitempty"`
}

func newPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              p.ID,
		TripPassengerID: p.TripPassengerID,
		Status:          string(p.Status),
		TotalAmount:     p.TotalAmount,
		ProofKey:        p.ProofKey,
	}
}

// PayoutBreakdownResponse is the HTTP response for a payout calculation.
type PayoutBreakdownResponse struct {
	TotalReceived           int64 `json:"total_received"`
	ServiceFee              int64 `json:"service_fee"`
	LateCancellationPenalty int64 `json:"late_cancellation_penalty"`
	PayoutAmount            int64 `json:"payout_amount"`
}

// PayoutResponse is the HTTP response for payout operations.
type PayoutResponse struct {
	ID                      string     `json:"id"`
	TripID                  string     `json:"trip_id"`
	DriverID                string     `json:"driver_id"`
	Status                  string     `json:"status"`
	TotalReceived           int64      `json:"total_received"`
	ServiceFee              int64      `json:"service_fee"`
	LateCancellationPenalty int64      `json:"late_cancellation_penalty"`
	PayoutAmount            int64      `json:"payout_amount"`
	TransferProofKey        string     `json:"transfer_proof_key,omitempty"`
	TransferredAt           *time.Time `json:"transferred_at,omitempty"`
	ProcessedBy             string     `json:"processed_by,omitempty"`
	FailureReason           string     `json:"failure_reason,omitempty"`
}

func newPayoutResponse(p *domain.DriverPayout) PayoutResponse {
	return PayoutResponse{
		ID:                      p.ID,
		TripID:                  p.TripID,
		DriverID:                p.DriverID,
		Status:                  string(p.Status),
		TotalReceived:           p.TotalReceived,
		ServiceFee:              p.ServiceFee,
		LateCancellationPenalty: p.LateCancellationPenalty,
		PayoutAmount:            p.PayoutAmount,
		TransferProofKey:        p.TransferProofKey,
		TransferredAt:           optionalTime(p.TransferredAt),
		ProcessedBy:             p.ProcessedBy,
		FailureReason:           p.FailureReason,
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
