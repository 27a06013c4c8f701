package services

import (
	"context"
	goerrors "errors"
	"fmt"
	"time"

	"coworkly/constants"
	"coworkly/dto"
	"coworkly/errors"
	"coworkly/models"
	"coworkly/services/logger"
	"coworkly/storage"
	"coworkly/validator"
)

// LifecycleServiceOptions carries the injected dependencies of the status
// lifecycle manager.
type LifecycleServiceOptions struct {
	Store  storage.SlotStore
	Spaces storage.SpaceLookup
	Logger logger.Logger
	Zone   *time.Location
	Now    func() time.Time
}

// LifecycleService owns explicit status transitions. Only the hoster of
// the reservation's space may confirm or refuse it; cancellation never
// passes through here.
type LifecycleService struct {
	store  storage.SlotStore
	spaces storage.SpaceLookup
	logger logger.Logger
	zone   *time.Location
	now    func() time.Time
}

func NewLifecycleService(opts LifecycleServiceOptions) *LifecycleService {
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	if opts.Zone == nil {
		opts.Zone = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &LifecycleService{
		store:  opts.Store,
		spaces: opts.Spaces,
		logger: opts.Logger,
		zone:   opts.Zone,
		now:    opts.Now,
	}
}

// UpdateStatus applies a hoster decision to a reservation. The requesting
// hoster must match the space's hoster attribute, and the transition must
// be one the reservation's current state allows. The store update stays
// conditional on the record existing, so a cancel racing the decision
// cannot resurrect the slot.
func (s *LifecycleService) UpdateStatus(ctx context.Context, req *dto.UpdateReservationStatusRequest, requestingHosterID string) (*models.Reservation, error) {
	if err := validator.ValidateStatusUpdate(req); err != nil {
		return nil, err
	}
	if requestingHosterID == "" {
		return nil, errors.NewAppError(errors.ErrCodeUnauthorized, "Hoster identity is required", nil)
	}

	space, err := s.spaces.GetSpace(ctx, req.SpaceID)
	if err != nil {
		if goerrors.Is(err, errors.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeSpaceUnavailable, fmt.Sprintf("Space %s not available", req.SpaceID), nil)
		}
		return nil, errors.NewAppError(errors.ErrCodeDependency, "Failed to check space", err)
	}
	if space.Hoster != requestingHosterID {
		return nil, errors.NewAppError(errors.ErrCodeForbidden, "Only the space hoster may change reservation status", nil)
	}

	key := storage.SlotKey{SpaceID: req.SpaceID, SlotTimestamp: req.SlotTimestamp}
	current, err := s.store.Get(ctx, key)
	if err != nil {
		if goerrors.Is(err, errors.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeReservationNotFound, "Reservation not found", nil)
		}
		return nil, errors.NewAppError(errors.ErrCodeDependency, "Failed to read reservation", err)
	}

	state := models.GetReservationState(current.Status)
	switch req.Status {
	case constants.ReservationStatusConfirmed:
		err = state.Confirm(current)
	case constants.ReservationStatusRefused:
		err = state.Refuse(current)
	default:
		err = goerrors.New("a reservation cannot move back to PENDING")
	}
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidStatus,
			fmt.Sprintf("Cannot set reservation %s/%s to %s", req.SpaceID, req.SlotTimestamp, req.Status), err)
	}

	updatedAt := s.now().In(s.zone).Format(time.RFC3339)
	updated, err := s.store.UpdateStatus(ctx, key, current.Status, updatedAt)
	if err != nil {
		if goerrors.Is(err, errors.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeReservationNotFound, "Reservation not found", nil)
		}
		return nil, errors.NewAppError(errors.ErrCodeDependency, "Failed to update reservation status", err)
	}

	s.logger.Info("reservation %s/%s set to %s by hoster %s", req.SpaceID, req.SlotTimestamp, req.Status, requestingHosterID)
	return updated, nil
}

// ReportPendingDrift counts PENDING reservations whose slot instant has
// already passed without being refused. Those records only get corrected
// lazily on the next read, so the count is the visible drift between
// displayed and stored status.
func (s *LifecycleService) ReportPendingDrift(ctx context.Context) (int, error) {
	cutoff := s.now().In(s.zone).Format(time.RFC3339)
	stale, err := s.store.ScanPendingBefore(ctx, cutoff)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrCodeDependency, "Failed to scan stale pending reservations", err)
	}
	return len(stale), nil
}
