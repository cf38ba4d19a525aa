package domain

import "time"

// ReservationStatus represents the state of a passenger's seat booking.
type ReservationStatus string

const (
	ReservationPendingApproval        ReservationStatus = "PENDING_APPROVAL"
	ReservationApprovedPendingPayment ReservationStatus = "APPROVED_PENDING_PAYMENT"
	ReservationApproved               ReservationStatus = "APPROVED"
	ReservationConfirmed              ReservationStatus = "CONFIRMED"
	ReservationCompleted              ReservationStatus = "COMPLETED"
	ReservationCancelledByDriver      ReservationStatus = "CANCELLED_BY_DRIVER"
	ReservationCancelledByPassenger   ReservationStatus = "CANCELLED_BY_PASSENGER"
)

// CancellationReason records who or what cancelled a reservation.
type CancellationReason string

const (
	CancellationPassengerRequest CancellationReason = "PASSENGER_REQUEST"
	CancellationDriverDeclined   CancellationReason = "DRIVER_DECLINED"
	CancellationApprovalExpired  CancellationReason = "APPROVAL_EXPIRED"
	CancellationPaymentExpired   CancellationReason = "PAYMENT_EXPIRED"
	CancellationPaymentRejected  CancellationReason = "PAYMENT_REJECTED"
	CancellationTripCancelled    CancellationReason = "TRIP_CANCELLED"
)

// Booking windows used by the expiry sweeps.
const (
	// MinBookingLead is how long before departure a driver must have
	// acted on a pending request.
	MinBookingLead = 3*time.Hour + 30*time.Minute

	// PaymentDeadlineLead is how long before departure an approved
	// reservation must be paid.
	PaymentDeadlineLead = 2 * time.Hour
)

var reservationTransitions = transitionTable[ReservationStatus]{
	ReservationPendingApproval: {
		ReservationApprovedPendingPayment,
		ReservationCancelledByDriver,
		ReservationCancelledByPassenger,
	},
	ReservationApprovedPendingPayment: {
		ReservationApproved,
		ReservationCancelledByPassenger,
		ReservationCancelledByDriver,
	},
	ReservationApproved: {
		ReservationConfirmed,
		ReservationCancelledByPassenger,
		ReservationCancelledByDriver,
	},
	ReservationConfirmed: {
		ReservationCompleted,
		ReservationCancelledByPassenger,
		ReservationCancelledByDriver,
	},
}

// CanTransition reports whether a reservation may move from s to next.
func (s ReservationStatus) CanTransition(next ReservationStatus) bool {
	return reservationTransitions.allows(s, next)
}

// IsCancelled reports whether s is one of the cancelled states.
func (s ReservationStatus) IsCancelled() bool {
	return s == ReservationCancelledByDriver || s == ReservationCancelledByPassenger
}

// IsTerminal reports whether no transition leaves s.
func (s ReservationStatus) IsTerminal() bool {
	return s.IsCancelled() || s == ReservationCompleted
}

// HoldsSeats reports whether a reservation in s is counted against the
// trip's remaining seats.
func (s ReservationStatus) HoldsSeats() bool {
	return s == ReservationApproved || s == ReservationConfirmed
}

// IsUnsettled reports whether a reservation in s was never confirmed:
// still pending approval, or approved but not yet paid for.
func (s ReservationStatus) IsUnsettled() bool {
	return s == ReservationPendingApproval ||
		s == ReservationApprovedPendingPayment ||
		s == ReservationApproved
}

// CancelledStatuses lists the reservation states excluded from a trip's
// valid passenger count.
func CancelledStatuses() []ReservationStatus {
	return []ReservationStatus{ReservationCancelledByDriver, ReservationCancelledByPassenger}
}

// TripPassenger is one passenger's reservation on a trip.
type TripPassenger struct {
	ID            string
	TripID        string
	PassengerID   string
	Status        ReservationStatus
	SeatsReserved int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CancelledAt   time.Time

	// CancellationReason is empty for reservations that are not cancelled
	// and for rows cancelled outside this service.
	CancellationReason CancellationReason
}

// IsPassengerCancellation reports whether the passenger chose to cancel.
// Expiry for non-payment and rejected payment proofs also end in
// CANCELLED_BY_PASSENGER but are not the passenger's doing.
func (r *TripPassenger) IsPassengerCancellation() bool {
	if r.Status != ReservationCancelledByPassenger {
		return false
	}
	return r.CancellationReason == "" || r.CancellationReason == CancellationPassengerRequest
}

// ExpiringReservation is a reservation selected by an expiry sweep together
// with the trip and payment fields the sweep needs.
type ExpiringReservation struct {
	Reservation   TripPassenger
	DepartureTime time.Time
	PaymentID     string
	PaymentStatus PaymentStatus
}
