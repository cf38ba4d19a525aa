package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tengolugar/internal/domain"
	"tengolugar/internal/repository"
)

// ──────────────────────────────────────────────
// PAYOUT CALCULATION
// ──────────────────────────────────────────────

func seedCompletedTrip(env *testEnv, verified bool) *domain.Trip {
	trip := newTrip(tripID, testNow.Add(-4*time.Hour), 9000)
	trip.Status = domain.TripStatusCompleted
	env.store.AddTrip(trip)
	env.store.AddDriver(&domain.Driver{ID: driverID, BankAccountVerified: verified})
	return trip
}

func cancelledReservation(id, passenger string, status domain.ReservationStatus, seats int, at time.Time) *domain.TripPassenger {
	r := newReservation(id, tripID, passenger, status, seats)
	r.CancelledAt = at
	return r
}

func TestCalculatePayout_FeeAndLatePenalty(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	trip := seedCompletedTrip(env, true)

	env.store.AddReservation(newReservation(reservation1, tripID, passengerID, domain.ReservationCompleted, 1))
	env.store.AddPayment(newPayment(payment1, reservation1, domain.PaymentStatusCompleted, 10000))

	// Late passenger cancellation, one seat.
	env.store.AddReservation(cancelledReservation(reservation2, passenger2ID,
		domain.ReservationCancelledByPassenger, 1, trip.DepartureTime.Add(-2*time.Hour)))
	env.store.AddPayment(newPayment(payment2, reservation2, domain.PaymentStatusCancelled, 5000))

	// Early cancellation and a driver cancellation carry no penalty.
	env.store.AddReservation(cancelledReservation("early", passenger2ID,
		domain.ReservationCancelledByPassenger, 3, trip.DepartureTime.Add(-48*time.Hour)))
	env.store.AddReservation(cancelledReservation("by-driver", passenger2ID,
		domain.ReservationCancelledByDriver, 2, trip.DepartureTime.Add(-time.Hour)))

	b, err := env.payoutService().CalculatePayout(context.Background(), tripID)
	require.NoError(t, err)

	assert.Equal(t, &domain.PayoutBreakdown{
		TotalReceived:           10000,
		ServiceFee:              1000,
		LateCancellationPenalty: 500,
		PayoutAmount:            8500,
	}, b)
}

func TestCalculatePayout_PenaltyPerSeat(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	trip := seedCompletedTrip(env, true)

	env.store.AddReservation(cancelledReservation(reservation1, passengerID,
		domain.ReservationCancelledByPassenger, 3, trip.DepartureTime.Add(-time.Hour)))

	b, err := env.payoutService().CalculatePayout(context.Background(), tripID)
	require.NoError(t, err)

	assert.Equal(t, int64(1500), b.LateCancellationPenalty)
	assert.Equal(t, int64(0), b.PayoutAmount, "never negative")
}

func TestCalculatePayout_ExpiredAndRejectedCarryNoPenalty(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	const (
		rejectedRes     = "5a6b7c8d-9e0f-4a1b-8c2d-3e4f5a6b7c8d"
		rejectedPayment = "6b7c8d9e-0f1a-4b2c-9d3e-4f5a6b7c8d9e"
	)

	trip := newTrip(tripID, testNow.Add(time.Hour), 3600)
	trip.RemainingSeats = 0
	env.store.AddTrip(trip)
	env.store.AddReservation(newReservation(reservation1, tripID, passengerID, domain.ReservationConfirmed, 1))
	env.store.AddPayment(newPayment(payment1, reservation1, domain.PaymentStatusCompleted, 10000))
	env.store.AddReservation(newReservation(reservation2, tripID, passenger2ID, domain.ReservationApproved, 2))
	env.store.AddPayment(newPayment(payment2, reservation2, domain.PaymentStatusPending, 10000))

	// Proof under review, rejected by an admin an hour before departure.
	env.store.AddReservation(newReservation(rejectedRes, tripID, passenger2ID, domain.ReservationApproved, 1))
	env.store.AddPayment(newPayment(rejectedPayment, rejectedRes, domain.PaymentStatusProcessing, 5000))

	result, err := env.expiryManager().ExpireUnpaidReservations(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.ExpiredCount)

	_, err = env.paymentService().Reject(context.Background(), PaymentReviewRequest{PaymentID: rejectedPayment, ActorID: adminID})
	require.NoError(t, err)

	assert.Equal(t, domain.CancellationPaymentExpired, env.store.Reservation(reservation2).CancellationReason)
	assert.Equal(t, domain.CancellationPaymentRejected, env.store.Reservation(rejectedRes).CancellationReason)

	b, err := env.payoutService().CalculatePayout(context.Background(), tripID)
	require.NoError(t, err)

	assert.Equal(t, &domain.PayoutBreakdown{
		TotalReceived:           10000,
		ServiceFee:              1000,
		LateCancellationPenalty: 0,
		PayoutAmount:            9000,
	}, b)
}

func TestCalculatePayout_IgnoresUncompletedPayments(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	seedCompletedTrip(env, true)

	env.store.AddReservation(newReservation(reservation1, tripID, passengerID, domain.ReservationCompleted, 1))
	env.store.AddReservation(newReservation(reservation2, tripID, passenger2ID, domain.ReservationApproved, 1))
	env.store.AddPayment(newPayment(payment1, reservation1, domain.PaymentStatusCompleted, 4000))
	env.store.AddPayment(newPayment(payment2, reservation2, domain.PaymentStatusFailed, 4000))

	b, err := env.payoutService().CalculatePayout(context.Background(), tripID)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), b.TotalReceived)
}

func TestCalculatePayout_UnknownTrip(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.payoutService().CalculatePayout(context.Background(), tripID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.payoutService().CalculatePayout(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidTripID)
}

func TestPayout_RejectsMalformedTripID(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.payoutService().CalculatePayout(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, ErrInvalidTripID)

	_, err = env.payoutService().CreatePayoutForTrip(context.Background(), "42")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Zero(t, env.store.PayoutCreateCallCount)
}

// ──────────────────────────────────────────────
// PAYOUT CREATION
// ──────────────────────────────────────────────

func TestCreatePayoutForTrip_PendingWhenPayable(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	seedCompletedTrip(env, true)

	env.store.AddReservation(newReservation(reservation1, tripID, passengerID, domain.ReservationCompleted, 1))
	env.store.AddPayment(newPayment(payment1, reservation1, domain.PaymentStatusCompleted, 10000))

	payout, err := env.payoutService().CreatePayoutForTrip(context.Background(), tripID)
	require.NoError(t, err)

	assert.Equal(t, domain.PayoutStatusPending, payout.Status)
	assert.Equal(t, driverID, payout.DriverID)
	assert.Equal(t, int64(9000), payout.PayoutAmount)
	assert.Equal(t, testNow, payout.CreatedAt)
}

func TestCreatePayoutForTrip_OnHold(t *testing.T) {
	t.Parallel()

	t.Run("unverified bank account", func(t *testing.T) {
		env := newTestEnv(t)
		seedCompletedTrip(env, false)
		env.store.AddReservation(newReservation(reservation1, tripID, passengerID, domain.ReservationCompleted, 1))
		env.store.AddPayment(newPayment(payment1, reservation1, domain.PaymentStatusCompleted, 10000))

		payout, err := env.payoutService().CreatePayoutForTrip(context.Background(), tripID)
		require.NoError(t, err)
		assert.Equal(t, domain.PayoutStatusOnHold, payout.Status)
	})

	t.Run("zero amount", func(t *testing.T) {
		env := newTestEnv(t)
		seedCompletedTrip(env, true)

		payout, err := env.payoutService().CreatePayoutForTrip(context.Background(), tripID)
		require.NoError(t, err)
		assert.Equal(t, domain.PayoutStatusOnHold, payout.Status)
		assert.Zero(t, payout.PayoutAmount)
	})
}

func TestCreatePayoutForTrip_Idempotent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	seedCompletedTrip(env, true)

	svc := env.payoutService()
	first, err := svc.CreatePayoutForTrip(context.Background(), tripID)
	require.NoError(t, err)

	second, err := svc.CreatePayoutForTrip(context.Background(), tripID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, env.store.PayoutCount())
	assert.Equal(t, int32(1), env.store.PayoutCreateCallCount)
}

func TestCreatePayoutForTrip_RequiresCompletedTrip(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.store.AddTrip(newTrip(tripID, testNow.Add(time.Hour), 3600))

	_, err := env.payoutService().CreatePayoutForTrip(context.Background(), tripID)
	assert.ErrorIs(t, err, ErrTripNotCompleted)
	assert.Zero(t, env.store.PayoutCount())
}

func TestBackfillMissingPayouts(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	seedCompletedTrip(env, true)

	second := newTrip(trip2ID, testNow.Add(-6*time.Hour), 3600)
	second.Status = domain.TripStatusCompleted
	env.store.AddTrip(second)

	existing := &domain.DriverPayout{ID: payoutID, TripID: trip2ID, DriverID: driverID, Status: domain.PayoutStatusPending}
	env.store.AddPayout(existing)

	result, err := env.payoutService().BackfillMissingPayouts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &BackfillResult{ProcessedTrips: 1, CreatedCount: 1}, result)
	assert.Equal(t, 2, env.store.PayoutCount())
}

// ──────────────────────────────────────────────
// ADMIN TRANSITIONS
// ──────────────────────────────────────────────

func seedPayout(env *testEnv, status domain.PayoutStatus, amount int64, verified bool) {
	env.store.AddDriver(&domain.Driver{ID: driverID, BankAccountVerified: verified})
	env.store.AddPayout(&domain.DriverPayout{
		ID:           payoutID,
		TripID:       tripID,
		DriverID:     driverID,
		Status:       status,
		PayoutAmount: amount,
	})
}

func TestPayoutTransfer_HappyPath(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	seedPayout(env, domain.PayoutStatusPending, 9000, true)
	svc := env.payoutService()
	ctx := context.Background()

	payout, err := svc.MarkProcessing(ctx, PayoutActionRequest{PayoutID: payoutID, ActorID: adminID})
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutStatusProcessing, payout.Status)
	assert.Equal(t, adminID, payout.ProcessedBy)

	transferredAt := testNow.Add(-time.Minute)
	payout, err = svc.MarkCompleted(ctx, MarkCompletedRequest{
		PayoutID:         payoutID,
		ActorID:          adminID,
		TransferProofKey: "proofs/transfer-1.pdf",
		TransferredAt:    transferredAt,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutStatusCompleted, payout.Status)
	assert.Equal(t, "proofs/transfer-1.pdf", payout.TransferProofKey)
	assert.Equal(t, transferredAt, payout.TransferredAt)

	sent := env.publisher.Sent(NotificationPayoutCompleted)
	require.Len(t, sent, 1)
	assert.Equal(t, driverID, sent[0].RecipientID)
}

func TestPayoutTransfer_FailureAndRetry(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	seedPayout(env, domain.PayoutStatusProcessing, 9000, true)
	svc := env.payoutService()
	ctx := context.Background()

	payout, err := svc.MarkFailed(ctx, MarkFailedRequest{PayoutID: payoutID, ActorID: adminID, Reason: "account closed"})
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutStatusFailed, payout.Status)
	assert.Equal(t, "account closed", payout.FailureReason)
	assert.Len(t, env.publisher.Sent(NotificationPayoutFailed), 1)

	payout, err = svc.MarkProcessing(ctx, PayoutActionRequest{PayoutID: payoutID, ActorID: adminID})
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutStatusProcessing, payout.Status)
}

func TestPayoutTransitions_ValidateBeforeStoreAccess(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	seedPayout(env, domain.PayoutStatusProcessing, 9000, true)
	svc := env.payoutService()
	ctx := context.Background()

	_, err := svc.MarkCompleted(ctx, MarkCompletedRequest{
		PayoutID:      payoutID,
		ActorID:       adminID,
		TransferredAt: testNow,
	})
	assert.ErrorIs(t, err, ErrInvalidInput, "proof key is required")

	_, err = svc.MarkProcessing(ctx, PayoutActionRequest{PayoutID: payoutID, ActorID: "admin"})
	assert.ErrorIs(t, err, ErrInvalidInput, "actor must be a uuid")

	_, err = svc.MarkFailed(ctx, MarkFailedRequest{PayoutID: payoutID, ActorID: adminID})
	assert.ErrorIs(t, err, ErrInvalidInput, "reason is required")

	assert.Equal(t, domain.PayoutStatusProcessing, env.store.PayoutForTrip(tripID).Status)
	assert.Zero(t, env.publisher.Count())
}

func TestPayoutTransitions_RejectsInvalidTransition(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	seedPayout(env, domain.PayoutStatusPending, 9000, true)

	_, err := env.payoutService().MarkCompleted(context.Background(), MarkCompletedRequest{
		PayoutID:         payoutID,
		ActorID:          adminID,
		TransferProofKey: "proof",
		TransferredAt:    testNow,
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.PayoutStatusPending, env.store.PayoutForTrip(tripID).Status)
}

func TestPayoutRelease(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("blocked while bank account unverified", func(t *testing.T) {
		env := newTestEnv(t)
		seedPayout(env, domain.PayoutStatusOnHold, 9000, false)

		_, err := env.payoutService().Release(ctx, PayoutActionRequest{PayoutID: payoutID, ActorID: adminID})
		assert.ErrorIs(t, err, ErrPayoutNotReleasable)
	})

	t.Run("blocked when nothing is owed", func(t *testing.T) {
		env := newTestEnv(t)
		seedPayout(env, domain.PayoutStatusOnHold, 0, true)

		_, err := env.payoutService().Release(ctx, PayoutActionRequest{PayoutID: payoutID, ActorID: adminID})
		assert.ErrorIs(t, err, ErrPayoutNotReleasable)
	})

	t.Run("released once payable", func(t *testing.T) {
		env := newTestEnv(t)
		seedPayout(env, domain.PayoutStatusOnHold, 9000, true)

		payout, err := env.payoutService().Release(ctx, PayoutActionRequest{PayoutID: payoutID, ActorID: adminID})
		require.NoError(t, err)
		assert.Equal(t, domain.PayoutStatusPending, payout.Status)
	})
}

func TestPayoutHoldAndCancel(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	seedPayout(env, domain.PayoutStatusPending, 9000, true)
	svc := env.payoutService()
	ctx := context.Background()

	payout, err := svc.Hold(ctx, PayoutActionRequest{PayoutID: payoutID, ActorID: adminID})
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutStatusOnHold, payout.Status)

	payout, err = svc.Cancel(ctx, PayoutActionRequest{PayoutID: payoutID, ActorID: adminID})
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutStatusCancelled, payout.Status)

	_, err = svc.Hold(ctx, PayoutActionRequest{PayoutID: payoutID, ActorID: adminID})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Zero(t, env.publisher.Count(), "only COMPLETED and FAILED notify")
}
