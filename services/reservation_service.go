package services

import (
	"context"
	goerrors "errors"
	"fmt"
	"strconv"
	"time"

	"coworkly/builders"
	"coworkly/dto"
	"coworkly/errors"
	"coworkly/models"
	"coworkly/services/logger"
	"coworkly/storage"
	"coworkly/utils"
	"coworkly/validator"
)

// ReservationServiceOptions carries the injected dependencies of the
// reservation engine.
type ReservationServiceOptions struct {
	Store  storage.SlotStore
	Spaces storage.SpaceLookup
	Users  storage.UserLookup
	Logger logger.Logger
	// Zone is the space-local zone used to stamp hour slots with an
	// explicit UTC offset.
	Zone *time.Location
	// Now is replaceable in tests.
	Now func() time.Time
}

// ReservationService owns the slot invariant: at most one active
// reservation per (spaceId, slotTimestamp). It never does read-then-write
// on slots; claiming is always a conditional insert, and a multi-hour
// booking is a single all-or-nothing transaction.
type ReservationService struct {
	store  storage.SlotStore
	spaces storage.SpaceLookup
	users  storage.UserLookup
	logger logger.Logger
	zone   *time.Location
	now    func() time.Time
}

func NewReservationService(opts ReservationServiceOptions) *ReservationService {
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	if opts.Zone == nil {
		opts.Zone = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ReservationService{
		store:  opts.Store,
		spaces: opts.Spaces,
		users:  opts.Users,
		logger: opts.Logger,
		zone:   opts.Zone,
		now:    opts.Now,
	}
}

// Reserve books every requested hour of a space on one date, or nothing.
// Hours are processed in request order and duplicates are not deduplicated,
// so a request listing the same hour twice conflicts with itself.
func (s *ReservationService) Reserve(ctx context.Context, req *dto.CreateReservationRequest) (*dto.CreateReservationResponse, error) {
	if err := validator.ValidateCreateReservation(req); err != nil {
		return nil, err
	}

	space, err := s.spaces.GetSpace(ctx, req.SpaceID)
	if err != nil {
		if goerrors.Is(err, errors.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeSpaceUnavailable, fmt.Sprintf("Space %s not available", req.SpaceID), nil)
		}
		return nil, errors.NewAppError(errors.ErrCodeDependency, "Failed to check space availability", err)
	}
	if !space.Availability {
		return nil, errors.NewAppError(errors.ErrCodeSpaceUnavailable, fmt.Sprintf("Space %s not available", req.SpaceID), nil)
	}

	if _, err := s.users.GetUser(ctx, req.UserID); err != nil {
		if goerrors.Is(err, errors.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeUserNotFound, fmt.Sprintf("User %s not found", req.UserID), nil)
		}
		return nil, errors.NewAppError(errors.ErrCodeDependency, "Failed to check user", err)
	}

	nowStamp := s.now().In(s.zone).Format(time.RFC3339)
	reservations := make([]*models.Reservation, 0, len(req.Hours))
	for _, hour := range req.Hours {
		slot, err := utils.SlotTimestamp(req.Date, hour, s.zone)
		if err != nil {
			return nil, err
		}
		r := builders.NewReservationBuilder().
			WithSpace(req.SpaceID).
			WithUser(req.UserID).
			WithSlot(slot, req.Date, strconv.Itoa(hour)).
			WithStatus(req.Status).
			WithTimestamps(nowStamp, nowStamp).
			Build()
		reservations = append(reservations, r)
	}

	// A store transaction cannot touch the same key twice, so a repeated
	// hour conflicts with itself before any write is attempted.
	claimed := make(map[string]bool, len(reservations))
	for _, r := range reservations {
		if claimed[r.SlotTimestamp] {
			return nil, s.conflictError(r.Hour, errors.ErrRecordExists)
		}
		claimed[r.SlotTimestamp] = true
	}

	if len(reservations) == 1 {
		err = s.store.InsertIfAbsent(ctx, reservations[0])
		if err != nil && goerrors.Is(err, errors.ErrRecordExists) {
			return nil, s.conflictError(reservations[0].Hour, err)
		}
	} else {
		var conflict storage.SlotKey
		conflict, err = s.store.InsertAllIfAbsent(ctx, reservations)
		if err != nil && goerrors.Is(err, errors.ErrRecordExists) {
			return nil, s.conflictError(s.hourForKey(reservations, conflict), err)
		}
	}
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDependency, "Failed to save reservation", err)
	}

	s.logger.Info("reserved space %s on %s for user %s, hours %v", req.SpaceID, req.Date, req.UserID, req.Hours)
	return &dto.CreateReservationResponse{
		SpaceID:       req.SpaceID,
		Date:          req.Date,
		HoursReserved: req.Hours,
	}, nil
}

func (s *ReservationService) conflictError(hour string, err error) error {
	return errors.NewAppError(errors.ErrCodeSlotConflict, fmt.Sprintf("Hour %s already reserved", hour), err)
}

func (s *ReservationService) hourForKey(rs []*models.Reservation, key storage.SlotKey) string {
	for _, r := range rs {
		if r.SpaceID == key.SpaceID && r.SlotTimestamp == key.SlotTimestamp {
			return r.Hour
		}
	}
	return key.SlotTimestamp
}

// CheckAvailability is a pure read: it reports which of the requested
// hours are already held, without touching any record.
func (s *ReservationService) CheckAvailability(ctx context.Context, spaceID, date string, hours []int) (*dto.AvailabilityResponse, error) {
	if err := validator.ValidateAvailabilityQuery(spaceID, date, hours); err != nil {
		return nil, err
	}

	conflicts := make([]int, 0, len(hours))
	for _, hour := range hours {
		slot, err := utils.SlotTimestamp(date, hour, s.zone)
		if err != nil {
			return nil, err
		}
		_, err = s.store.Get(ctx, storage.SlotKey{SpaceID: spaceID, SlotTimestamp: slot})
		if err != nil {
			if goerrors.Is(err, errors.ErrRecordNotFound) {
				continue
			}
			return nil, errors.NewAppError(errors.ErrCodeDependency, "Failed to check slot", err)
		}
		conflicts = append(conflicts, hour)
	}

	return &dto.AvailabilityResponse{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

// Cancel releases a slot held by the requesting user. A missing record and
// a record owned by someone else produce the same outcome, so callers
// cannot probe for other users' reservations.
func (s *ReservationService) Cancel(ctx context.Context, req *dto.CancelReservationRequest, requestingUserID string) (*dto.CancelReservationResponse, error) {
	if err := validator.ValidateCancelReservation(req); err != nil {
		return nil, err
	}
	if requestingUserID == "" {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "userId is required", nil)
	}

	key := storage.SlotKey{SpaceID: req.SpaceID, SlotTimestamp: req.SlotTimestamp}
	r, err := s.store.Get(ctx, key)
	if err != nil && !goerrors.Is(err, errors.ErrRecordNotFound) {
		return nil, errors.NewAppError(errors.ErrCodeDependency, "Failed to read reservation", err)
	}
	if err != nil || r.UserID != requestingUserID {
		return nil, errors.NewAppError(errors.ErrCodeReservationNotFound, "Reservation not found or not owned by the user", nil)
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDependency, "Failed to cancel reservation", err)
	}

	s.logger.Info("canceled reservation %s/%s for user %s", req.SpaceID, req.SlotTimestamp, requestingUserID)
	return &dto.CancelReservationResponse{
		SpaceID:       req.SpaceID,
		SlotTimestamp: req.SlotTimestamp,
	}, nil
}
