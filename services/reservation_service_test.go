package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coworkly/constants"
	"coworkly/dto"
	"coworkly/errors"
	"coworkly/models"
	"coworkly/storage"
)

var testZone = time.FixedZone("BRT", -3*60*60)

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 8, 0, 0, 0, testZone)
}

func newTestReservationService(store storage.SlotStore) *ReservationService {
	spaces := storage.NewMemorySpaceLookup(
		models.Space{SpaceID: "S1", Name: "Downtown", Hoster: "H1", Availability: true},
		models.Space{SpaceID: "S2", Name: "Uptown", Hoster: "H1", Availability: false},
	)
	users := storage.NewMemoryUserLookup(
		models.User{UserID: "U1", Name: "Ana", Email: "ana@example.com"},
		models.User{UserID: "U2", Name: "Bruno", Email: "bruno@example.com"},
	)
	return NewReservationService(ReservationServiceOptions{
		Store:  store,
		Spaces: spaces,
		Users:  users,
		Zone:   testZone,
		Now:    fixedNow,
	})
}

func TestReserveSingleHour(t *testing.T) {
	store := storage.NewMemorySlotStore()
	svc := newTestReservationService(store)
	ctx := context.Background()

	resp, err := svc.Reserve(ctx, &dto.CreateReservationRequest{
		SpaceID: "S1",
		UserID:  "U1",
		Date:    "2024-06-01",
		Hours:   []int{9},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{9}, resp.HoursReserved)

	r, err := store.Get(ctx, storage.SlotKey{SpaceID: "S1", SlotTimestamp: "2024-06-01T09:00:00-03:00"})
	require.NoError(t, err)
	assert.Equal(t, constants.ReservationStatusPending, r.Status, "status defaults to PENDING")
	assert.Equal(t, "U1", r.UserID)
	assert.Equal(t, "2024-06-01", r.DateReservation)
	assert.Equal(t, "9", r.Hour)
	assert.Equal(t, "2024-06-01T08:00:00-03:00", r.CreatedAt)
}

func TestReserveRequestedStatus(t *testing.T) {
	store := storage.NewMemorySlotStore()
	svc := newTestReservationService(store)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, &dto.CreateReservationRequest{
		SpaceID: "S1",
		UserID:  "U1",
		Date:    "2024-06-01",
		Hours:   []int{14},
		Status:  constants.ReservationStatusConfirmed,
	})
	require.NoError(t, err)

	r, err := store.Get(ctx, storage.SlotKey{SpaceID: "S1", SlotTimestamp: "2024-06-01T14:00:00-03:00"})
	require.NoError(t, err)
	assert.Equal(t, constants.ReservationStatusConfirmed, r.Status)
}

func TestReserveConcurrentSameSlot(t *testing.T) {
	store := storage.NewMemorySlotStore()
	svc := newTestReservationService(store)
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		userID := "U1"
		if i%2 == 1 {
			userID = "U2"
		}
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			_, err := svc.Reserve(ctx, &dto.CreateReservationRequest{
				SpaceID: "S1",
				UserID:  uid,
				Date:    "2024-06-01",
				Hours:   []int{9},
			})
			errs <- err
		}(userID)
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.True(t, errors.IsConflict(err), "losers must see a slot conflict, got %v", err)
	}
	assert.Equal(t, 1, wins, "exactly one concurrent reserve must win the slot")
}

func TestReserveMultiHourAllOrNothing(t *testing.T) {
	store := storage.NewMemorySlotStore()
	svc := newTestReservationService(store)
	ctx := context.Background()

	// hour 10 is already held by another guest
	_, err := svc.Reserve(ctx, &dto.CreateReservationRequest{
		SpaceID: "S1", UserID: "U2", Date: "2024-06-01", Hours: []int{10},
	})
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, &dto.CreateReservationRequest{
		SpaceID: "S1", UserID: "U1", Date: "2024-06-01", Hours: []int{9, 10, 11},
	})
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
	assert.Contains(t, err.Error(), "Hour 10")

	// no partial hold: 9 and 11 stay free, 10 keeps its original owner
	_, err = store.Get(ctx, storage.SlotKey{SpaceID: "S1", SlotTimestamp: "2024-06-01T09:00:00-03:00"})
	assert.ErrorIs(t, err, errors.ErrRecordNotFound)
	_, err = store.Get(ctx, storage.SlotKey{SpaceID: "S1", SlotTimestamp: "2024-06-01T11:00:00-03:00"})
	assert.ErrorIs(t, err, errors.ErrRecordNotFound)
	r, err := store.Get(ctx, storage.SlotKey{SpaceID: "S1", SlotTimestamp: "2024-06-01T10:00:00-03:00"})
	require.NoError(t, err)
	assert.Equal(t, "U2", r.UserID)
}

func TestReserveDuplicateHoursConflict(t *testing.T) {
	store := storage.NewMemorySlotStore()
	svc := newTestReservationService(store)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, &dto.CreateReservationRequest{
		SpaceID: "S1", UserID: "U1", Date: "2024-06-01", Hours: []int{10, 10},
	})
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err), "a repeated hour conflicts with itself, got %v", err)
	assert.Contains(t, err.Error(), "Hour 10")

	// nothing was written
	rs, err := store.QueryBySpace(ctx, "S1", "")
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestReserveMultiHourSuccess(t *testing.T) {
	store := storage.NewMemorySlotStore()
	svc := newTestReservationService(store)
	ctx := context.Background()

	resp, err := svc.Reserve(ctx, &dto.CreateReservationRequest{
		SpaceID: "S1", UserID: "U1", Date: "2024-06-01", Hours: []int{9, 10, 11},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{9, 10, 11}, resp.HoursReserved)

	rs, err := store.QueryBySpace(ctx, "S1", constants.ReservationStatusPending)
	require.NoError(t, err)
	assert.Len(t, rs, 3)
}

func TestReserveRejections(t *testing.T) {
	store := storage.NewMemorySlotStore()
	svc := newTestReservationService(store)
	ctx := context.Background()

	t.Run("unknown space", func(t *testing.T) {
		_, err := svc.Reserve(ctx, &dto.CreateReservationRequest{
			SpaceID: "S9", UserID: "U1", Date: "2024-06-01", Hours: []int{9},
		})
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeSpaceUnavailable, errors.GetAppError(err).Code)
	})

	t.Run("space marked unavailable", func(t *testing.T) {
		_, err := svc.Reserve(ctx, &dto.CreateReservationRequest{
			SpaceID: "S2", UserID: "U1", Date: "2024-06-01", Hours: []int{9},
		})
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeSpaceUnavailable, errors.GetAppError(err).Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Reserve(ctx, &dto.CreateReservationRequest{
			SpaceID: "S1", UserID: "U9", Date: "2024-06-01", Hours: []int{9},
		})
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeUserNotFound, errors.GetAppError(err).Code)
	})

	t.Run("hour out of range", func(t *testing.T) {
		_, err := svc.Reserve(ctx, &dto.CreateReservationRequest{
			SpaceID: "S1", UserID: "U1", Date: "2024-06-01", Hours: []int{24},
		})
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
	})
}

func TestCheckAvailability(t *testing.T) {
	store := storage.NewMemorySlotStore()
	svc := newTestReservationService(store)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, &dto.CreateReservationRequest{
		SpaceID: "S1", UserID: "U1", Date: "2024-06-01", Hours: []int{10},
	})
	require.NoError(t, err)

	resp, err := svc.CheckAvailability(ctx, "S1", "2024-06-01", []int{9, 10, 11})
	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.Equal(t, []int{10}, resp.Conflicts)

	resp, err = svc.CheckAvailability(ctx, "S1", "2024-06-01", []int{9, 11})
	require.NoError(t, err)
	assert.True(t, resp.Available)
	assert.Empty(t, resp.Conflicts)

	// checking never claims anything
	_, err = store.Get(ctx, storage.SlotKey{SpaceID: "S1", SlotTimestamp: "2024-06-01T09:00:00-03:00"})
	assert.ErrorIs(t, err, errors.ErrRecordNotFound)
}

func TestCancel(t *testing.T) {
	store := storage.NewMemorySlotStore()
	svc := newTestReservationService(store)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, &dto.CreateReservationRequest{
		SpaceID: "S1", UserID: "U1", Date: "2024-06-01", Hours: []int{9},
	})
	require.NoError(t, err)
	key := &dto.CancelReservationRequest{SpaceID: "S1", SlotTimestamp: "2024-06-01T09:00:00-03:00"}

	t.Run("non-owner sees the same outcome as a missing record", func(t *testing.T) {
		_, ownedErr := svc.Cancel(ctx, key, "U2")
		require.Error(t, ownedErr)

		_, absentErr := svc.Cancel(ctx, &dto.CancelReservationRequest{
			SpaceID: "S1", SlotTimestamp: "2024-06-01T15:00:00-03:00",
		}, "U2")
		require.Error(t, absentErr)

		assert.Equal(t, errors.GetAppError(ownedErr).Message, errors.GetAppError(absentErr).Message)
		assert.Equal(t, errors.ErrCodeReservationNotFound, errors.GetAppError(ownedErr).Code)
	})

	t.Run("owner releases the slot", func(t *testing.T) {
		resp, err := svc.Cancel(ctx, key, "U1")
		require.NoError(t, err)
		assert.Equal(t, "S1", resp.SpaceID)

		_, err = store.Get(ctx, storage.SlotKey{SpaceID: "S1", SlotTimestamp: key.SlotTimestamp})
		assert.ErrorIs(t, err, errors.ErrRecordNotFound)
	})

	t.Run("released slot is reservable again", func(t *testing.T) {
		_, err := svc.Reserve(ctx, &dto.CreateReservationRequest{
			SpaceID: "S1", UserID: "U2", Date: "2024-06-01", Hours: []int{9},
		})
		require.NoError(t, err)

		r, err := store.Get(ctx, storage.SlotKey{SpaceID: "S1", SlotTimestamp: key.SlotTimestamp})
		require.NoError(t, err)
		assert.Equal(t, "U2", r.UserID)
	})
}
