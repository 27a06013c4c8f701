package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coworkly/constants"
	"coworkly/dto"
	"coworkly/errors"
	"coworkly/models"
	"coworkly/storage"
)

func newTestLifecycleService(store storage.SlotStore) *LifecycleService {
	spaces := storage.NewMemorySpaceLookup(
		models.Space{SpaceID: "S1", Name: "Downtown", Hoster: "H1", Availability: true},
	)
	return NewLifecycleService(LifecycleServiceOptions{
		Store:  store,
		Spaces: spaces,
		Zone:   testZone,
		Now:    fixedNow,
	})
}

func statusUpdate(status string) *dto.UpdateReservationStatusRequest {
	return &dto.UpdateReservationStatusRequest{
		SpaceID:       "S1",
		SlotTimestamp: "2024-06-01T09:00:00-03:00",
		Status:        status,
	}
}

func TestUpdateStatusByHoster(t *testing.T) {
	store := storage.NewMemorySlotStore()
	svc := newTestLifecycleService(store)
	ctx := context.Background()

	require.NoError(t, store.InsertIfAbsent(ctx, &models.Reservation{
		SpaceID:       "S1",
		SlotTimestamp: "2024-06-01T09:00:00-03:00",
		UserID:        "U1",
		Status:        constants.ReservationStatusPending,
	}))

	updated, err := svc.UpdateStatus(ctx, statusUpdate(constants.ReservationStatusConfirmed), "H1")
	require.NoError(t, err)
	assert.Equal(t, constants.ReservationStatusConfirmed, updated.Status)
	assert.Equal(t, "U1", updated.UserID)
	assert.Equal(t, "2024-06-01T08:00:00-03:00", updated.UpdatedAt)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	store := storage.NewMemorySlotStore()
	svc := newTestLifecycleService(store)
	ctx := context.Background()

	require.NoError(t, store.InsertIfAbsent(ctx, &models.Reservation{
		SpaceID:       "S1",
		SlotTimestamp: "2024-06-01T09:00:00-03:00",
		UserID:        "U1",
		Status:        constants.ReservationStatusPending,
	}))

	for _, status := range []string{"APPROVED", "pending", "DONE", ""} {
		_, err := svc.UpdateStatus(ctx, statusUpdate(status), "H1")
		require.Error(t, err, "status %q must be rejected", status)
		assert.Equal(t, errors.ErrCodeInvalidStatus, errors.GetAppError(err).Code)
	}

	// the record is untouched
	r, err := store.Get(ctx, storage.SlotKey{SpaceID: "S1", SlotTimestamp: "2024-06-01T09:00:00-03:00"})
	require.NoError(t, err)
	assert.Equal(t, constants.ReservationStatusPending, r.Status)
}

func TestUpdateStatusTransitions(t *testing.T) {
	store := storage.NewMemorySlotStore()
	svc := newTestLifecycleService(store)
	ctx := context.Background()

	require.NoError(t, store.InsertIfAbsent(ctx, &models.Reservation{
		SpaceID:       "S1",
		SlotTimestamp: "2024-06-01T09:00:00-03:00",
		UserID:        "U1",
		Status:        constants.ReservationStatusPending,
	}))

	t.Run("pending cannot move back to pending", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, statusUpdate(constants.ReservationStatusPending), "H1")
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidStatus, errors.GetAppError(err).Code)
	})

	_, err := svc.UpdateStatus(ctx, statusUpdate(constants.ReservationStatusRefused), "H1")
	require.NoError(t, err)

	t.Run("refused cannot be confirmed", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, statusUpdate(constants.ReservationStatusConfirmed), "H1")
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidStatus, errors.GetAppError(err).Code)

		r, err := store.Get(ctx, storage.SlotKey{SpaceID: "S1", SlotTimestamp: "2024-06-01T09:00:00-03:00"})
		require.NoError(t, err)
		assert.Equal(t, constants.ReservationStatusRefused, r.Status)
	})

	t.Run("refused cannot be refused again", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, statusUpdate(constants.ReservationStatusRefused), "H1")
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidStatus, errors.GetAppError(err).Code)
	})
}

func TestUpdateStatusRejectsCanceled(t *testing.T) {
	store := storage.NewMemorySlotStore()
	svc := newTestLifecycleService(store)

	_, err := svc.UpdateStatus(context.Background(), statusUpdate(constants.ReservationStatusCanceled), "H1")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidStatus, errors.GetAppError(err).Code)
}

func TestUpdateStatusAuthority(t *testing.T) {
	store := storage.NewMemorySlotStore()
	svc := newTestLifecycleService(store)
	ctx := context.Background()

	require.NoError(t, store.InsertIfAbsent(ctx, &models.Reservation{
		SpaceID:       "S1",
		SlotTimestamp: "2024-06-01T09:00:00-03:00",
		UserID:        "U1",
		Status:        constants.ReservationStatusPending,
	}))

	t.Run("wrong hoster", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, statusUpdate(constants.ReservationStatusConfirmed), "H2")
		require.Error(t, err)
		assert.True(t, errors.IsForbidden(err))
	})

	t.Run("missing identity", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, statusUpdate(constants.ReservationStatusConfirmed), "")
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeUnauthorized, errors.GetAppError(err).Code)
	})

	t.Run("unknown space", func(t *testing.T) {
		req := statusUpdate(constants.ReservationStatusConfirmed)
		req.SpaceID = "S9"
		_, err := svc.UpdateStatus(ctx, req, "H1")
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeSpaceUnavailable, errors.GetAppError(err).Code)
	})
}

func TestUpdateStatusMissingReservation(t *testing.T) {
	store := storage.NewMemorySlotStore()
	svc := newTestLifecycleService(store)

	_, err := svc.UpdateStatus(context.Background(), statusUpdate(constants.ReservationStatusRefused), "H1")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeReservationNotFound, errors.GetAppError(err).Code)
}

func TestReportPendingDrift(t *testing.T) {
	store := storage.NewMemorySlotStore()
	svc := newTestLifecycleService(store)
	ctx := context.Background()

	// now is 2024-06-01T08:00:00-03:00
	stale := []string{"2024-06-01T06:00:00-03:00", "2024-06-01T07:00:00-03:00"}
	for _, slot := range stale {
		require.NoError(t, store.InsertIfAbsent(ctx, &models.Reservation{
			SpaceID: "S1", SlotTimestamp: slot, UserID: "U1", Status: constants.ReservationStatusPending,
		}))
	}
	require.NoError(t, store.InsertIfAbsent(ctx, &models.Reservation{
		SpaceID: "S1", SlotTimestamp: "2024-06-01T09:00:00-03:00", UserID: "U1", Status: constants.ReservationStatusPending,
	}))
	require.NoError(t, store.InsertIfAbsent(ctx, &models.Reservation{
		SpaceID: "S1", SlotTimestamp: "2024-06-01T05:00:00-03:00", UserID: "U1", Status: constants.ReservationStatusConfirmed,
	}))

	count, err := svc.ReportPendingDrift(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "only stale pending reservations count as drift")
}
