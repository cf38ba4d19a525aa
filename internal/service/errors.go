package service

import "errors"

var (
	// ErrInvalidInput is returned when a request fails validation. The
	// wrapped message names the offending fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTripID is returned when trip ID is empty or not a UUID. A
	// malformed ID is reported wrapped together with ErrInvalidInput.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidTransition is returned when the requested status change is not
	// allowed from the record's current status.
	ErrInvalidTransition = errors.New("status transition not allowed")

	// ErrTripNotOpen is returned when a trip is already completed or cancelled.
	ErrTripNotOpen = errors.New("trip is not open")

	// ErrTripNotCompleted is returned when creating a payout for a trip that
	// has not completed.
	ErrTripNotCompleted = errors.New("trip not completed")

	// ErrNotTripDriver is returned when the actor is not the trip's driver.
	ErrNotTripDriver = errors.New("actor is not the trip driver")

	// ErrNotReservationOwner is returned when the actor is not the passenger
	// who holds the reservation.
	ErrNotReservationOwner = errors.New("actor does not own the reservation")

	// ErrNoSeatsAvailable is returned when a trip has fewer remaining seats
	// than a reservation needs.
	ErrNoSeatsAvailable = errors.New("no seats available")

	// ErrPayoutNotReleasable is returned when releasing a held payout whose
	// driver still lacks a verified bank account or whose amount is zero.
	ErrPayoutNotReleasable = errors.New("payout cannot be released")
)
