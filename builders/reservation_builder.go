package builders

import (
	"coworkly/constants"
	"coworkly/models"
)

// ReservationBuilder assembles a reservation record step by step
type ReservationBuilder struct {
	reservation *models.Reservation
}

// NewReservationBuilder creates a builder with the PENDING default status
func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		reservation: &models.Reservation{
			Status: constants.ReservationStatusPending,
		},
	}
}

// WithSpace sets the space being booked
func (b *ReservationBuilder) WithSpace(spaceID string) *ReservationBuilder {
	b.reservation.SpaceID = spaceID
	return b
}

// WithUser sets the owning guest
func (b *ReservationBuilder) WithUser(userID string) *ReservationBuilder {
	b.reservation.UserID = userID
	return b
}

// WithSlot sets the hour slot key and its denormalized date and hour
func (b *ReservationBuilder) WithSlot(slotTimestamp, date, hour string) *ReservationBuilder {
	b.reservation.SlotTimestamp = slotTimestamp
	b.reservation.DateReservation = date
	b.reservation.Hour = hour
	return b
}

// WithStatus sets the initial status
func (b *ReservationBuilder) WithStatus(status string) *ReservationBuilder {
	if status != "" {
		b.reservation.Status = status
	}
	return b
}

// WithTimestamps sets the audit timestamps
func (b *ReservationBuilder) WithTimestamps(createdAt, updatedAt string) *ReservationBuilder {
	b.reservation.CreatedAt = createdAt
	b.reservation.UpdatedAt = updatedAt
	return b
}

// Build returns the assembled reservation
func (b *ReservationBuilder) Build() *models.Reservation {
	return b.reservation
}
