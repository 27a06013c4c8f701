package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"coworkly/constants"
	"coworkly/errors"
	"coworkly/models"
)

// MemorySlotStore is a mutex-guarded in-memory SlotStore. It backs tests
// and local runs without DynamoDB; the conditional-write semantics match
// the DynamoDB implementation.
type MemorySlotStore struct {
	mu    sync.Mutex
	items map[SlotKey]models.Reservation
}

func NewMemorySlotStore() *MemorySlotStore {
	return &MemorySlotStore{items: make(map[SlotKey]models.Reservation)}
}

func (s *MemorySlotStore) InsertIfAbsent(ctx context.Context, r *models.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := SlotKey{SpaceID: r.SpaceID, SlotTimestamp: r.SlotTimestamp}
	if _, exists := s.items[key]; exists {
		return fmt.Errorf("slot %s/%s: %w", key.SpaceID, key.SlotTimestamp, errors.ErrRecordExists)
	}
	s.items[key] = *r
	return nil
}

func (s *MemorySlotStore) InsertAllIfAbsent(ctx context.Context, rs []*models.Reservation) (SlotKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claimed := make(map[SlotKey]bool, len(rs))
	for _, r := range rs {
		key := SlotKey{SpaceID: r.SpaceID, SlotTimestamp: r.SlotTimestamp}
		if _, exists := s.items[key]; exists || claimed[key] {
			return key, fmt.Errorf("slot %s/%s: %w", key.SpaceID, key.SlotTimestamp, errors.ErrRecordExists)
		}
		claimed[key] = true
	}
	for _, r := range rs {
		s.items[SlotKey{SpaceID: r.SpaceID, SlotTimestamp: r.SlotTimestamp}] = *r
	}
	return SlotKey{}, nil
}

func (s *MemorySlotStore) Get(ctx context.Context, key SlotKey) (*models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, exists := s.items[key]
	if !exists {
		return nil, errors.ErrRecordNotFound
	}
	return &r, nil
}

func (s *MemorySlotStore) UpdateStatus(ctx context.Context, key SlotKey, status, updatedAt string) (*models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, exists := s.items[key]
	if !exists {
		return nil, errors.ErrRecordNotFound
	}
	r.Status = status
	r.UpdatedAt = updatedAt
	s.items[key] = r
	return &r, nil
}

func (s *MemorySlotStore) Delete(ctx context.Context, key SlotKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

func (s *MemorySlotStore) QueryBySpace(ctx context.Context, spaceID, status string) ([]models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Reservation
	for key, r := range s.items {
		if key.SpaceID != spaceID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, r)
	}
	sortBySlot(out)
	return out, nil
}

func (s *MemorySlotStore) ScanByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Reservation
	for _, r := range s.items {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sortBySlot(out)
	return out, nil
}

func (s *MemorySlotStore) ScanPendingBefore(ctx context.Context, cutoff string) ([]models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Reservation
	for _, r := range s.items {
		if r.Status == constants.ReservationStatusPending && r.SlotTimestamp < cutoff {
			out = append(out, r)
		}
	}
	sortBySlot(out)
	return out, nil
}

func sortBySlot(rs []models.Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].SpaceID != rs[j].SpaceID {
			return rs[i].SpaceID < rs[j].SpaceID
		}
		return rs[i].SlotTimestamp < rs[j].SlotTimestamp
	})
}

// MemorySpaceLookup is the in-memory counterpart of the spaces table.
type MemorySpaceLookup struct {
	mu     sync.Mutex
	spaces map[string]models.Space
}

func NewMemorySpaceLookup(spaces ...models.Space) *MemorySpaceLookup {
	l := &MemorySpaceLookup{spaces: make(map[string]models.Space)}
	for _, s := range spaces {
		l.spaces[s.SpaceID] = s
	}
	return l
}

func (l *MemorySpaceLookup) PutSpace(s models.Space) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.spaces[s.SpaceID] = s
}

func (l *MemorySpaceLookup) GetSpace(ctx context.Context, spaceID string) (*models.Space, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, exists := l.spaces[spaceID]
	if !exists {
		return nil, errors.ErrRecordNotFound
	}
	return &s, nil
}

func (l *MemorySpaceLookup) ScanByHoster(ctx context.Context, hosterID string) ([]models.Space, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []models.Space
	for _, s := range l.spaces {
		if s.Hoster == hosterID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SpaceID < out[j].SpaceID })
	return out, nil
}

// MemoryUserLookup is the in-memory counterpart of the users table.
type MemoryUserLookup struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewMemoryUserLookup(users ...models.User) *MemoryUserLookup {
	l := &MemoryUserLookup{users: make(map[string]models.User)}
	for _, u := range users {
		l.users[u.UserID] = u
	}
	return l
}

func (l *MemoryUserLookup) PutUser(u models.User) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.users[u.UserID] = u
}

func (l *MemoryUserLookup) GetUser(ctx context.Context, userID string) (*models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, exists := l.users[userID]
	if !exists {
		return nil, errors.ErrRecordNotFound
	}
	return &u, nil
}

func (l *MemoryUserLookup) BatchGetUsers(ctx context.Context, userIDs []string) (map[string]models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]models.User, len(userIDs))
	for _, id := range userIDs {
		if u, exists := l.users[id]; exists {
			out[id] = u
		}
	}
	return out, nil
}
