package dto

// CreateReservationRequest is the request body for booking hour slots.
// Hours is an ordered sequence: duplicates are kept and will conflict with
// themselves inside the same transaction.
type CreateReservationRequest struct {
	SpaceID string `json:"spaceId" binding:"required"`
	UserID  string `json:"userId" binding:"required"`
	Date    string `json:"dateReservation" binding:"required"`
	Hours   []int  `json:"hours" binding:"required"`
	Status  string `json:"status"`
}

// CreateReservationResponse summarizes a fully booked request.
type CreateReservationResponse struct {
	SpaceID       string `json:"spaceId"`
	Date          string `json:"dateReservation"`
	HoursReserved []int  `json:"hoursReserved"`
}

// AvailabilityResponse reports which of the requested hours are taken.
type AvailabilityResponse struct {
	Available bool  `json:"available"`
	Conflicts []int `json:"conflicts"`
}

// CancelReservationRequest releases a held slot. The requesting user comes
// from the auth token, not the body.
type CancelReservationRequest struct {
	SpaceID       string `json:"spaceId" binding:"required"`
	SlotTimestamp string `json:"slotTimestamp" binding:"required"`
}

// CancelReservationResponse echoes the released key.
type CancelReservationResponse struct {
	SpaceID       string `json:"spaceId"`
	SlotTimestamp string `json:"slotTimestamp"`
}

// UpdateReservationStatusRequest is the hoster's confirm/refuse action.
type UpdateReservationStatusRequest struct {
	SpaceID       string `json:"spaceId" binding:"required"`
	SlotTimestamp string `json:"slotTimestamp" binding:"required"`
	Status        string `json:"status" binding:"required"`
}

// HosterReservationItem is the enriched row the hoster dashboard consumes.
// StartDate and EndDate both carry the slot timestamp: a slot is exactly
// one hour and the app renders the range itself.
type HosterReservationItem struct {
	ID        string `json:"id"`
	SpaceID   string `json:"spaceId"`
	UserID    string `json:"userId"`
	HosterID  string `json:"hosterId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`
	SpaceName string `json:"spaceName"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}
