package services

import (
	"context"
	goerrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"coworkly/dto"
	"coworkly/errors"
	"coworkly/models"
	"coworkly/services/logger"
	"coworkly/storage"
)

const missingUserPlaceholder = "—"

// ListingServiceOptions carries the injected dependencies of the
// aggregation view.
type ListingServiceOptions struct {
	Store        storage.SlotStore
	Spaces       storage.SpaceLookup
	Users        storage.UserLookup
	Materializer Materializer
	Redis        *redis.Client
	CacheTTL     time.Duration
	Logger       logger.Logger
}

// ListingService builds the read-side views: a hoster's reservations fanned
// out across their spaces and enriched with guest records, and a guest's
// own reservations. Listings run every record through the materializer, so
// stale pending reservations come back refused.
type ListingService struct {
	store        storage.SlotStore
	spaces       storage.SpaceLookup
	users        storage.UserLookup
	materializer Materializer
	redis        *redis.Client
	cacheTTL     time.Duration
	logger       logger.Logger
}

func NewListingService(opts ListingServiceOptions) *ListingService {
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	if opts.Materializer == nil {
		opts.Materializer = ReadOnlyMaterializer{}
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = 2 * time.Minute
	}
	return &ListingService{
		store:        opts.Store,
		spaces:       opts.Spaces,
		users:        opts.Users,
		materializer: opts.Materializer,
		redis:        opts.Redis,
		cacheTTL:     opts.CacheTTL,
		logger:       opts.Logger,
	}
}

func hosterCacheKey(hosterID, status string) string {
	return fmt.Sprintf("reservations:hoster:%s:status:%s", hosterID, status)
}

// ListByHoster returns every reservation against the hoster's spaces,
// optionally filtered by status. Results are cached briefly in Redis; the
// cache is dropped whenever a mutation touches one of the hoster's spaces.
func (s *ListingService) ListByHoster(ctx context.Context, hosterID, status string) ([]dto.HosterReservationItem, error) {
	if hosterID == "" {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "hosterId is required", nil)
	}

	cacheKey := hosterCacheKey(hosterID, status)
	if s.redis != nil {
		var cached []dto.HosterReservationItem
		if err := GetFromRedis(ctx, s.redis, cacheKey, &cached); err != nil {
			s.logger.Error("failed to read hoster listing cache: %v", err)
		} else if len(cached) > 0 {
			return cached, nil
		}
	}

	spaces, err := s.spaces.ScanByHoster(ctx, hosterID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDependency, "Failed to list hoster spaces", err)
	}

	items := make([]dto.HosterReservationItem, 0)
	var reservations []models.Reservation
	spaceNames := make(map[string]string, len(spaces))
	for _, space := range spaces {
		rs, err := s.store.QueryBySpace(ctx, space.SpaceID, status)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrCodeDependency, "Failed to list reservations", err)
		}
		spaceNames[space.SpaceID] = space.Name
		reservations = append(reservations, rs...)
	}

	userIDs := make([]string, 0, len(reservations))
	for i := range reservations {
		s.materializer.Materialize(ctx, &reservations[i])
		userIDs = append(userIDs, reservations[i].UserID)
	}

	users, err := s.users.BatchGetUsers(ctx, userIDs)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDependency, "Failed to load users", err)
	}

	for i := range reservations {
		r := &reservations[i]
		name, email := missingUserPlaceholder, missingUserPlaceholder
		if u, ok := users[r.UserID]; ok {
			name, email = u.Name, u.Email
		}
		spaceName := spaceNames[r.SpaceID]
		if spaceName == "" {
			spaceName = missingUserPlaceholder
		}
		items = append(items, dto.HosterReservationItem{
			ID:        fmt.Sprintf("%s|%s", r.SpaceID, r.SlotTimestamp),
			SpaceID:   r.SpaceID,
			UserID:    r.UserID,
			HosterID:  hosterID,
			StartDate: r.SlotTimestamp,
			EndDate:   r.SlotTimestamp,
			Status:    r.Status,
			SpaceName: spaceName,
			UserName:  name,
			UserEmail: email,
		})
	}

	if s.redis != nil && len(items) > 0 {
		if err := SetToRedis(ctx, s.redis, cacheKey, items, s.cacheTTL); err != nil {
			s.logger.Error("failed to cache hoster listing: %v", err)
		}
	}
	return items, nil
}

// ListByUser returns the guest's own reservations, materialized.
func (s *ListingService) ListByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	if userID == "" {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "userId is required", nil)
	}

	reservations, err := s.store.ScanByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDependency, "Failed to list reservations", err)
	}
	for i := range reservations {
		s.materializer.Materialize(ctx, &reservations[i])
	}
	return reservations, nil
}

// InvalidateHosterCache drops the cached listings of the hoster owning a
// space. Best effort: a failed invalidation only means a stale view until
// the TTL runs out.
func (s *ListingService) InvalidateHosterCache(ctx context.Context, spaceID string) {
	if s.redis == nil {
		return
	}
	space, err := s.spaces.GetSpace(ctx, spaceID)
	if err != nil {
		if !goerrors.Is(err, errors.ErrRecordNotFound) {
			s.logger.Error("failed to resolve hoster for cache invalidation: %v", err)
		}
		return
	}
	pattern := fmt.Sprintf("reservations:hoster:%s:*", space.Hoster)
	if err := DeleteByPattern(ctx, s.redis, pattern); err != nil {
		s.logger.Error("failed to invalidate hoster listing cache: %v", err)
	}
}
