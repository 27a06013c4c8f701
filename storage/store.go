package storage

import (
	"context"

	"coworkly/models"
)

// SlotKey is the composite primary key of a reservation. It doubles as the
// concurrency-control unit: all conditional writes are scoped to one key.
type SlotKey struct {
	SpaceID       string
	SlotTimestamp string
}

// SlotStore is the persistence contract the reservation engine depends on.
// Implementations must guarantee that InsertIfAbsent and InsertAllIfAbsent
// are atomic: among concurrent inserts on the same key exactly one wins and
// the rest get errors.ErrRecordExists.
type SlotStore interface {
	// InsertIfAbsent writes the reservation only if no record exists for
	// its key. Returns errors.ErrRecordExists on a held slot.
	InsertIfAbsent(ctx context.Context, r *models.Reservation) error

	// InsertAllIfAbsent writes every reservation or none of them. On a
	// conflict it returns the offending key wrapped with
	// errors.ErrRecordExists.
	InsertAllIfAbsent(ctx context.Context, rs []*models.Reservation) (SlotKey, error)

	// Get returns the reservation at key, or errors.ErrRecordNotFound.
	Get(ctx context.Context, key SlotKey) (*models.Reservation, error)

	// UpdateStatus conditionally updates status and updatedAt of an
	// existing record and returns the updated attributes. Only those two
	// attributes ever change after creation.
	UpdateStatus(ctx context.Context, key SlotKey, status, updatedAt string) (*models.Reservation, error)

	// Delete removes the record at key. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key SlotKey) error

	// QueryBySpace returns the reservations of one space, optionally
	// filtered by status (empty status means no filter).
	QueryBySpace(ctx context.Context, spaceID, status string) ([]models.Reservation, error)

	// ScanByUser returns every reservation owned by the user.
	ScanByUser(ctx context.Context, userID string) ([]models.Reservation, error)

	// ScanPendingBefore returns PENDING reservations whose slot timestamp
	// is lexicographically below cutoff. Used by the drift reporter.
	ScanPendingBefore(ctx context.Context, cutoff string) ([]models.Reservation, error)
}

// SpaceLookup resolves spaces for bookability checks and hoster listings.
type SpaceLookup interface {
	// GetSpace returns the space, or errors.ErrRecordNotFound.
	GetSpace(ctx context.Context, spaceID string) (*models.Space, error)

	// ScanByHoster returns every space managed by the hoster.
	ScanByHoster(ctx context.Context, hosterID string) ([]models.Space, error)
}

// UserLookup resolves users for existence checks and listing enrichment.
type UserLookup interface {
	// GetUser returns the user, or errors.ErrRecordNotFound.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// BatchGetUsers fetches many users at once, chunking requests to the
	// store's batch limit. Missing users are simply absent from the map.
	BatchGetUsers(ctx context.Context, userIDs []string) (map[string]models.User, error)
}
