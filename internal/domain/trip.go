package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusPending   TripStatus = "PENDING"
	TripStatusActive    TripStatus = "ACTIVE"
	TripStatusCompleted TripStatus = "COMPLETED"
	TripStatusCancelled TripStatus = "CANCELLED"
)

// Completion timing. A trip becomes eligible for auto-completion once its
// departure plus the clamped estimated duration plus the buffer has passed.
const (
	MinTripDuration  = 30 * time.Minute
	MaxTripDuration  = 48 * time.Hour
	CompletionBuffer = 90 * time.Minute
)

var tripTransitions = transitionTable[TripStatus]{
	TripStatusPending: {TripStatusActive, TripStatusCompleted, TripStatusCancelled},
	TripStatusActive:  {TripStatusCompleted, TripStatusCancelled},
}

// CanTransition reports whether a trip may move from s to next.
func (s TripStatus) CanTransition(next TripStatus) bool {
	return tripTransitions.allows(s, next)
}

// IsTerminal reports whether no transition leaves s.
func (s TripStatus) IsTerminal() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}

// Trip represents a published ride offer.
type Trip struct {
	ID              string
	DriverID        string
	Status          TripStatus
	DepartureTime   time.Time
	DurationSeconds int64 // 0 when the route estimate is missing
	AvailableSeats  int
	RemainingSeats  int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasDuration reports whether the trip carries a usable duration estimate.
func (t *Trip) HasDuration() bool {
	return t.DurationSeconds > 0
}

// ClampDuration bounds an estimated trip duration to [MinTripDuration, MaxTripDuration].
func ClampDuration(d time.Duration) time.Duration {
	if d < MinTripDuration {
		return MinTripDuration
	}
	if d > MaxTripDuration {
		return MaxTripDuration
	}
	return d
}

// CompletionTime returns the instant after which the trip may be auto-completed.
// The caller must check HasDuration first.
func (t *Trip) CompletionTime() time.Time {
	return CompletionTimeFor(t.DepartureTime, time.Duration(t.DurationSeconds)*time.Second, CompletionBuffer)
}

// CompletionTimeFor computes departure + clamp(duration) + buffer.
func CompletionTimeFor(departure time.Time, duration, buffer time.Duration) time.Time {
	return departure.Add(ClampDuration(duration)).Add(buffer)
}
