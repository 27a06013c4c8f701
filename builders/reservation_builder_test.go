package builders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coworkly/constants"
)

func TestReservationBuilder(t *testing.T) {
	r := NewReservationBuilder().
		WithSpace("S1").
		WithUser("U1").
		WithSlot("2024-06-01T09:00:00-03:00", "2024-06-01", "9").
		WithTimestamps("2024-06-01T08:00:00-03:00", "2024-06-01T08:00:00-03:00").
		Build()

	assert.Equal(t, "S1", r.SpaceID)
	assert.Equal(t, "U1", r.UserID)
	assert.Equal(t, "2024-06-01T09:00:00-03:00", r.SlotTimestamp)
	assert.Equal(t, "2024-06-01", r.DateReservation)
	assert.Equal(t, "9", r.Hour)
	assert.Equal(t, constants.ReservationStatusPending, r.Status, "status defaults to PENDING")
}

func TestReservationBuilderStatus(t *testing.T) {
	r := NewReservationBuilder().WithStatus(constants.ReservationStatusConfirmed).Build()
	assert.Equal(t, constants.ReservationStatusConfirmed, r.Status)

	r = NewReservationBuilder().WithStatus("").Build()
	assert.Equal(t, constants.ReservationStatusPending, r.Status, "empty status keeps the default")
}
