package validator

import (
	"fmt"
	"time"

	"coworkly/constants"
	"coworkly/dto"
	"coworkly/errors"
	"coworkly/utils"
)

// ValidateCreateReservation checks the booking request before any store
// access. Hours stay an ordered sequence, duplicates included; the engine
// is the one that decides what a duplicate means.
func ValidateCreateReservation(req *dto.CreateReservationRequest) error {
	if req.SpaceID == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "spaceId is required", nil)
	}
	if req.UserID == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "userId is required", nil)
	}
	if req.Date == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "dateReservation is required", nil)
	}
	if _, err := time.Parse(utils.DateLayout, req.Date); err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidFormat, fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", req.Date), err)
	}
	if len(req.Hours) == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "hours must contain at least one hour", nil)
	}
	for _, hour := range req.Hours {
		if hour < 0 || hour > 23 {
			return errors.NewAppError(errors.ErrCodeInvalidHour, fmt.Sprintf("Hour %d out of range 0-23", hour), nil)
		}
	}
	if req.Status != "" && !constants.IsReservationStatus(req.Status) {
		return errors.NewAppError(errors.ErrCodeInvalidStatus, fmt.Sprintf("Unknown status %q", req.Status), nil)
	}
	return nil
}

// ValidateAvailabilityQuery checks the availability query parameters.
// Missing parameters are a client error, not an empty-conflict success.
func ValidateAvailabilityQuery(spaceID, date string, hours []int) error {
	if spaceID == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "spaceId is required", nil)
	}
	if date == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "date is required", nil)
	}
	if _, err := time.Parse(utils.DateLayout, date); err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidFormat, fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", date), err)
	}
	if len(hours) == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "hours must contain at least one hour", nil)
	}
	for _, hour := range hours {
		if hour < 0 || hour > 23 {
			return errors.NewAppError(errors.ErrCodeInvalidHour, fmt.Sprintf("Hour %d out of range 0-23", hour), nil)
		}
	}
	return nil
}

// ValidateStatusUpdate checks the hoster's status change request against
// the closed status set. CANCELED is rejected here: cancellation is a
// delete with its own endpoint, never a status write.
func ValidateStatusUpdate(req *dto.UpdateReservationStatusRequest) error {
	if req.SpaceID == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "spaceId is required", nil)
	}
	if req.SlotTimestamp == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "slotTimestamp is required", nil)
	}
	if _, err := utils.ParseSlotTimestamp(req.SlotTimestamp); err != nil {
		return err
	}
	if !constants.IsReservationStatus(req.Status) {
		return errors.NewAppError(errors.ErrCodeInvalidStatus, fmt.Sprintf("Unknown status %q", req.Status), nil)
	}
	if req.Status == constants.ReservationStatusCanceled {
		return errors.NewAppError(errors.ErrCodeInvalidStatus, "Cancellation must go through the cancel endpoint", nil)
	}
	return nil
}

// ValidateCancelReservation checks the release request.
func ValidateCancelReservation(req *dto.CancelReservationRequest) error {
	if req.SpaceID == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "spaceId is required", nil)
	}
	if req.SlotTimestamp == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "slotTimestamp is required", nil)
	}
	if _, err := utils.ParseSlotTimestamp(req.SlotTimestamp); err != nil {
		return err
	}
	return nil
}
