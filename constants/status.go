package constants

// Reservation status
const (
	ReservationStatusPending   = "PENDING"
	ReservationStatusConfirmed = "CONFIRMED"
	ReservationStatusRefused   = "REFUSED"
	ReservationStatusCanceled  = "CANCELED"
)

// DynamoDB limits
const (
	// BatchGetItem rejects requests carrying more than 100 keys.
	MaxBatchGetKeys = 100
)

// ReservationStatuses lists every status a reservation may carry.
var ReservationStatuses = []string{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusRefused,
	ReservationStatusCanceled,
}

// IsReservationStatus reports whether s belongs to the closed status set.
func IsReservationStatus(s string) bool {
	for _, status := range ReservationStatuses {
		if s == status {
			return true
		}
	}
	return false
}
