package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coworkly/constants"
	"coworkly/dto"
	"coworkly/errors"
)

func validCreate() *dto.CreateReservationRequest {
	return &dto.CreateReservationRequest{
		SpaceID: "S1",
		UserID:  "U1",
		Date:    "2024-06-01",
		Hours:   []int{9, 10},
	}
}

func TestValidateCreateReservation(t *testing.T) {
	assert.NoError(t, ValidateCreateReservation(validCreate()))

	cases := []struct {
		name   string
		mutate func(*dto.CreateReservationRequest)
		code   errors.ErrorCode
	}{
		{"missing space", func(r *dto.CreateReservationRequest) { r.SpaceID = "" }, errors.ErrCodeRequiredField},
		{"missing user", func(r *dto.CreateReservationRequest) { r.UserID = "" }, errors.ErrCodeRequiredField},
		{"missing date", func(r *dto.CreateReservationRequest) { r.Date = "" }, errors.ErrCodeRequiredField},
		{"bad date format", func(r *dto.CreateReservationRequest) { r.Date = "01-06-2024" }, errors.ErrCodeInvalidFormat},
		{"empty hours", func(r *dto.CreateReservationRequest) { r.Hours = nil }, errors.ErrCodeRequiredField},
		{"hour too small", func(r *dto.CreateReservationRequest) { r.Hours = []int{-1} }, errors.ErrCodeInvalidHour},
		{"hour too large", func(r *dto.CreateReservationRequest) { r.Hours = []int{9, 24} }, errors.ErrCodeInvalidHour},
		{"unknown status", func(r *dto.CreateReservationRequest) { r.Status = "APPROVED" }, errors.ErrCodeInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreate()
			tc.mutate(req)
			err := ValidateCreateReservation(req)
			require.Error(t, err)
			assert.Equal(t, tc.code, errors.GetAppError(err).Code)
		})
	}

	t.Run("explicit statuses pass", func(t *testing.T) {
		for _, status := range constants.ReservationStatuses {
			req := validCreate()
			req.Status = status
			assert.NoError(t, ValidateCreateReservation(req), "status %s", status)
		}
	})
}

func TestValidateAvailabilityQuery(t *testing.T) {
	assert.NoError(t, ValidateAvailabilityQuery("S1", "2024-06-01", []int{9}))

	err := ValidateAvailabilityQuery("", "2024-06-01", []int{9})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRequiredField, errors.GetAppError(err).Code)

	err = ValidateAvailabilityQuery("S1", "", []int{9})
	require.Error(t, err)

	err = ValidateAvailabilityQuery("S1", "2024-06-01", nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRequiredField, errors.GetAppError(err).Code)

	err = ValidateAvailabilityQuery("S1", "2024-06-01", []int{25})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidHour, errors.GetAppError(err).Code)
}

func TestValidateStatusUpdate(t *testing.T) {
	valid := &dto.UpdateReservationStatusRequest{
		SpaceID:       "S1",
		SlotTimestamp: "2024-06-01T09:00:00-03:00",
		Status:        constants.ReservationStatusConfirmed,
	}
	assert.NoError(t, ValidateStatusUpdate(valid))

	t.Run("canceled is not a writable status", func(t *testing.T) {
		req := *valid
		req.Status = constants.ReservationStatusCanceled
		err := ValidateStatusUpdate(&req)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidStatus, errors.GetAppError(err).Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		req := *valid
		req.Status = "DONE"
		err := ValidateStatusUpdate(&req)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidStatus, errors.GetAppError(err).Code)
	})

	t.Run("malformed slot timestamp", func(t *testing.T) {
		req := *valid
		req.SlotTimestamp = "2024-06-01 09:00"
		err := ValidateStatusUpdate(&req)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidFormat, errors.GetAppError(err).Code)
	})
}

func TestValidateCancelReservation(t *testing.T) {
	assert.NoError(t, ValidateCancelReservation(&dto.CancelReservationRequest{
		SpaceID:       "S1",
		SlotTimestamp: "2024-06-01T09:00:00-03:00",
	}))

	err := ValidateCancelReservation(&dto.CancelReservationRequest{SlotTimestamp: "2024-06-01T09:00:00-03:00"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRequiredField, errors.GetAppError(err).Code)

	err = ValidateCancelReservation(&dto.CancelReservationRequest{SpaceID: "S1"})
	require.Error(t, err)

	err = ValidateCancelReservation(&dto.CancelReservationRequest{SpaceID: "S1", SlotTimestamp: "junk"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidFormat, errors.GetAppError(err).Code)
}
