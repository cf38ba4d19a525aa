package domain

import (
	"math"
	"time"
)

// PayoutStatus represents the current status of a driver payout.
type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "PENDING"
	PayoutStatusProcessing PayoutStatus = "PROCESSING"
	PayoutStatusCompleted  PayoutStatus = "COMPLETED"
	PayoutStatusFailed     PayoutStatus = "FAILED"
	PayoutStatusOnHold     PayoutStatus = "ON_HOLD"
	PayoutStatusCancelled  PayoutStatus = "CANCELLED"
)

var payoutTransitions = transitionTable[PayoutStatus]{
	PayoutStatusPending:    {PayoutStatusProcessing, PayoutStatusOnHold, PayoutStatusCancelled},
	PayoutStatusOnHold:     {PayoutStatusPending, PayoutStatusCancelled},
	PayoutStatusProcessing: {PayoutStatusCompleted, PayoutStatusFailed},
	PayoutStatusFailed:     {PayoutStatusProcessing},
}

// CanTransition reports whether a payout may move from s to next.
func (s PayoutStatus) CanTransition(next PayoutStatus) bool {
	return payoutTransitions.allows(s, next)
}

// DriverPayout is the amount owed to a driver for a completed trip.
type DriverPayout struct {
	ID                      string
	TripID                  string
	DriverID                string
	Status                  PayoutStatus
	TotalReceived           int64
	ServiceFee              int64
	LateCancellationPenalty int64
	PayoutAmount            int64
	TransferProofKey        string
	TransferredAt           time.Time
	ProcessedBy             string
	FailureReason           string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// FeePolicy configures how the platform fee and late-cancellation penalty
// are derived for a payout.
type FeePolicy struct {
	FixedFee         int64         // flat fee per trip
	FeeRate          float64       // fraction of totalReceived, e.g. 0.10
	PenaltyPerSeat   int64         // charged per late-cancelled seat
	LateCancelWindow time.Duration // cancellations this close to departure are late
}

// ServiceFee returns the platform fee for the given gross amount.
func (p FeePolicy) ServiceFee(totalReceived int64) int64 {
	fee := p.FixedFee + int64(math.Round(p.FeeRate*float64(totalReceived)))
	if fee < 0 {
		return 0
	}
	return fee
}

// IsLateCancellation reports whether a cancellation at cancelledAt falls
// inside the late window before departure.
func (p FeePolicy) IsLateCancellation(cancelledAt, departure time.Time) bool {
	if cancelledAt.IsZero() {
		return false
	}
	return !cancelledAt.Before(departure.Add(-p.LateCancelWindow))
}

// PayoutBreakdown is the result of a payout calculation.
type PayoutBreakdown struct {
	TotalReceived           int64
	ServiceFee              int64
	LateCancellationPenalty int64
	PayoutAmount            int64
}

// NetPayout returns totalReceived minus fee and penalty, never negative.
func NetPayout(totalReceived, serviceFee, penalty int64) int64 {
	return max(0, totalReceived-serviceFee-penalty)
}

// NewPayoutBreakdown assembles a breakdown from its parts.
func NewPayoutBreakdown(totalReceived, serviceFee, penalty int64) PayoutBreakdown {
	return PayoutBreakdown{
		TotalReceived:           totalReceived,
		ServiceFee:              serviceFee,
		LateCancellationPenalty: penalty,
		PayoutAmount:            NetPayout(totalReceived, serviceFee, penalty),
	}
}
