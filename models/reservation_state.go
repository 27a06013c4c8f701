package models

import (
	"errors"

	"coworkly/constants"
)

// ReservationState defines the operations allowed on a reservation in a
// given status. Release is the cancellation path: the record is deleted on
// release, so every state allows it.
type ReservationState interface {
	Confirm(r *Reservation) error
	Refuse(r *Reservation) error
	Release(r *Reservation) error
}

// PendingState is the initial state, waiting for the hoster's decision.
type PendingState struct{}

func (s *PendingState) Confirm(r *Reservation) error {
	r.Status = constants.ReservationStatusConfirmed
	return nil
}

func (s *PendingState) Refuse(r *Reservation) error {
	r.Status = constants.ReservationStatusRefused
	return nil
}

func (s *PendingState) Release(r *Reservation) error {
	return nil
}

// ConfirmedState means the hoster accepted the reservation.
type ConfirmedState struct{}

func (s *ConfirmedState) Confirm(r *Reservation) error {
	return errors.New("reservation already confirmed")
}

func (s *ConfirmedState) Refuse(r *Reservation) error {
	return errors.New("cannot refuse a confirmed reservation")
}

func (s *ConfirmedState) Release(r *Reservation) error {
	return nil
}

// RefusedState means the hoster refused the reservation, or its slot
// passed while it was still pending.
type RefusedState struct{}

func (s *RefusedState) Confirm(r *Reservation) error {
	return errors.New("cannot confirm a refused reservation")
}

func (s *RefusedState) Refuse(r *Reservation) error {
	return errors.New("reservation already refused")
}

func (s *RefusedState) Release(r *Reservation) error {
	return nil
}

// GetReservationState returns the state matching the reservation status.
// CANCELED never appears here: cancellation deletes the record instead of
// writing a status.
func GetReservationState(status string) ReservationState {
	switch status {
	case constants.ReservationStatusPending:
		return &PendingState{}
	case constants.ReservationStatusConfirmed:
		return &ConfirmedState{}
	case constants.ReservationStatusRefused:
		return &RefusedState{}
	default:
		return &PendingState{}
	}
}
