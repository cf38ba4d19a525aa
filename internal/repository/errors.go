package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrStatusConflict is returned when a conditional status update matched
	// no row because the record is no longer in the expected status.
	ErrStatusConflict = errors.New("status changed concurrently")

	// ErrInsufficientSeats is returned when a seat reservation would drive
	// remaining seats below zero.
	ErrInsufficientSeats = errors.New("insufficient remaining seats")
)
