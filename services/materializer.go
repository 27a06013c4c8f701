package services

import (
	"context"
	"sync/atomic"
	"time"

	"coworkly/constants"
	"coworkly/models"
	"coworkly/services/logger"
	"coworkly/storage"
)

// Materializer is applied to every reservation after it is fetched for
// display. It exists so the read paths can share the lazy-expiry rule, and
// so contexts that must stay side-effect free can swap in ReadOnly.
type Materializer interface {
	Materialize(ctx context.Context, r *models.Reservation) *models.Reservation
}

// ExpiryMaterializerOptions carries the dependencies of the lazy-expiry
// materializer.
type ExpiryMaterializerOptions struct {
	Store  storage.SlotStore
	Logger logger.Logger
	Zone   *time.Location
	Now    func() time.Time
}

// ExpiryMaterializer refuses stale pending reservations at read time: a
// PENDING record whose slot instant has passed becomes REFUSED. The write
// is best effort; if it fails the read still returns the REFUSED view and
// the failure is logged and counted so the drift stays observable.
type ExpiryMaterializer struct {
	store    storage.SlotStore
	logger   logger.Logger
	zone     *time.Location
	now      func() time.Time
	failures atomic.Int64
}

func NewExpiryMaterializer(opts ExpiryMaterializerOptions) *ExpiryMaterializer {
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	if opts.Zone == nil {
		opts.Zone = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ExpiryMaterializer{
		store:  opts.Store,
		logger: opts.Logger,
		zone:   opts.Zone,
		now:    opts.Now,
	}
}

// Materialize applies the lazy-expiry rule to one record. Re-reading an
// already refused record is a no-op, so the rule is idempotent.
func (m *ExpiryMaterializer) Materialize(ctx context.Context, r *models.Reservation) *models.Reservation {
	if r.Status != constants.ReservationStatusPending {
		return r
	}
	slot, err := r.SlotInstant()
	if err != nil {
		m.logger.Error("unparseable slot timestamp %q on %s: %v", r.SlotTimestamp, r.SpaceID, err)
		return r
	}
	if !slot.Before(m.now()) {
		return r
	}

	state := models.GetReservationState(r.Status)
	if err := state.Refuse(r); err != nil {
		return r
	}
	r.UpdatedAt = m.now().In(m.zone).Format(time.RFC3339)

	key := storage.SlotKey{SpaceID: r.SpaceID, SlotTimestamp: r.SlotTimestamp}
	if _, err := m.store.UpdateStatus(ctx, key, r.Status, r.UpdatedAt); err != nil {
		m.failures.Add(1)
		m.logger.Error("failed to persist auto-refusal of %s/%s: %v", r.SpaceID, r.SlotTimestamp, err)
	}
	return r
}

// FailureCount returns how many auto-refusal writes have failed since
// startup.
func (m *ExpiryMaterializer) FailureCount() int64 {
	return m.failures.Load()
}

// ReadOnlyMaterializer returns records untouched, for read paths that may
// not mutate anything (batch exports, audits).
type ReadOnlyMaterializer struct{}

func (ReadOnlyMaterializer) Materialize(ctx context.Context, r *models.Reservation) *models.Reservation {
	return r
}
