package service

// TripCompletionResult summarizes a CompleteExpiredTrips run.
type TripCompletionResult struct {
	ProcessedTrips   int `json:"processedTrips"`
	CompletedTrips   int `json:"completedTrips"`
	CancelledTrips   int `json:"cancelledTrips"`
	SkippedTrips     int `json:"skippedTrips"`
	NotDueTrips      int `json:"notDueTrips"`
	ConflictTrips    int `json:"conflictTrips"`
	SuccessCount     int `json:"successCount"`
	FailureCount     int `json:"failureCount"`
	FollowUpFailures int `json:"followUpFailures"`

	// UnsettledCancelled counts reservations of completed trips that were
	// still unconfirmed and got cancelled with the completion.
	UnsettledCancelled int `json:"unsettledCancelled"`
}

// ExpiryResult summarizes a reservation expiry sweep.
type ExpiryResult struct {
	ProcessedReservations int `json:"processedReservations"`
	ExpiredCount          int `json:"expiredCount"`
	ConflictCount         int `json:"conflictCount"`
	FailureCount          int `json:"failureCount"`
}

// BackfillResult summarizes a BackfillMissingPayouts run.
type BackfillResult struct {
	ProcessedTrips int `json:"processedTrips"`
	CreatedCount   int `json:"createdCount"`
	FailureCount   int `json:"failureCount"`
}

// ReminderDispatchResult summarizes a review reminder dispatch run.
type ReminderDispatchResult struct {
	DueReminders int `json:"dueReminders"`
	SentCount    int `json:"sentCount"`
	FailureCount int `json:"failureCount"`
}
