package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/javajoker/asset-audit/internal/models"
)

// MemStore keeps every entity in process memory. Ids start at 1 and are
// never reused, so ascending id order is insertion order.
type MemStore struct {
	mu  sync.RWMutex
	now func() time.Time

	users        map[uint]models.User
	franchises   map[uint]models.Franchise
	assets       map[uint]models.Asset
	audits       map[uint]models.Audit
	auditEntries map[uint]models.AuditEntry

	nextUserID       uint
	nextFranchiseID  uint
	nextAssetID      uint
	nextAuditID      uint
	nextAuditEntryID uint
}

type MemOption func(*MemStore)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) MemOption {
	return func(s *MemStore) { s.now = now }
}

func NewMemStore(seed *Seed, opts ...MemOption) (*MemStore, error) {
	s := &MemStore{
		now:              time.Now,
		users:            make(map[uint]models.User),
		franchises:       make(map[uint]models.Franchise),
		assets:           make(map[uint]models.Asset),
		audits:           make(map[uint]models.Audit),
		auditEntries:     make(map[uint]models.AuditEntry),
		nextUserID:       1,
		nextFranchiseID:  1,
		nextAssetID:      1,
		nextAuditID:      1,
		nextAuditEntryID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}

	if seed != nil {
		if err := ApplySeed(context.Background(), s, seed); err != nil {
			return nil, fmt.Errorf("failed to seed memory store: %w", err)
		}
	}
	return s, nil
}

// User methods

func (s *MemStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range sortedKeys(s.users) {
		if s.users[id].Username == username {
			u := s.users[id]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return nil, fmt.Errorf("%w: username %q already taken", ErrConflict, user.Username)
		}
	}

	user.ID = s.nextUserID
	s.nextUserID++
	s.users[user.ID] = user
	return &user, nil
}

// Franchise methods

func (s *MemStore) GetFranchise(_ context.Context, id uint) (*models.Franchise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.franchises[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (s *MemStore) GetFranchiseBySAPCode(_ context.Context, sapCode string) (*models.Franchise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range sortedKeys(s.franchises) {
		if s.franchises[id].SAPCode == sapCode {
			f := s.franchises[id]
			return &f, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) ListFranchises(_ context.Context) ([]models.Franchise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Franchise, 0, len(s.franchises))
	for _, id := range sortedKeys(s.franchises) {
		out = append(out, s.franchises[id])
	}
	return out, nil
}

func (s *MemStore) CreateFranchise(_ context.Context, franchise models.Franchise) (*models.Franchise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.franchises {
		if f.SAPCode == franchise.SAPCode {
			return nil, fmt.Errorf("%w: sap code %q already registered", ErrConflict, franchise.SAPCode)
		}
	}

	franchise.ID = s.nextFranchiseID
	s.nextFranchiseID++
	s.franchises[franchise.ID] = franchise
	return &franchise, nil
}

// Asset methods

func (s *MemStore) GetAsset(_ context.Context, id uint) (*models.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *MemStore) GetAssetBySerialNumber(_ context.Context, serialNumber string) (*models.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.serialOwner(serialNumber); ok {
		a := s.assets[id]
		return &a, nil
	}
	return nil, ErrNotFound
}

func (s *MemStore) ListAssetsByFranchise(_ context.Context, franchiseID uint, filter AssetFilter) ([]models.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Asset, 0)
	for _, id := range sortedKeys(s.assets) {
		a := s.assets[id]
		if a.FranchiseID != franchiseID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *MemStore) CreateAsset(_ context.Context, asset models.Asset) (*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.serialOwner(asset.SerialNumber); taken {
		return nil, fmt.Errorf("%w: serial number %q already registered", ErrConflict, asset.SerialNumber)
	}

	now := s.now()
	asset.ID = s.nextAssetID
	s.nextAssetID++
	asset.CreatedAt = now
	asset.UpdatedAt = now
	if asset.Status == "" {
		asset.Status = models.AssetAuditStatusPending
	}
	s.assets[asset.ID] = asset
	return &asset, nil
}

func (s *MemStore) UpdateAsset(_ context.Context, id uint, patch models.AssetPatch) (*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.assets[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.SerialNumber != nil {
		if owner, taken := s.serialOwner(*patch.SerialNumber); taken && owner != id {
			return nil, fmt.Errorf("%w: serial number %q already registered", ErrConflict, *patch.SerialNumber)
		}
	}

	updated := patch.Apply(current)
	updated.ID = id
	updated.UpdatedAt = laterThan(s.now(), current.UpdatedAt)
	s.assets[id] = updated
	return &updated, nil
}

func (s *MemStore) DeleteAsset(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assets[id]; !ok {
		return false, nil
	}
	delete(s.assets, id)
	return true, nil
}

// Audit methods

func (s *MemStore) GetAudit(_ context.Context, id uint) (*models.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.audits[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *MemStore) GetAuditByFranchise(ctx context.Context, franchiseID uint) (*models.Audit, error) {
	audits, _ := s.ListAuditsByFranchise(ctx, franchiseID)
	if a, ok := pickCurrentAudit(audits); ok {
		return a, nil
	}
	return nil, ErrNotFound
}

func (s *MemStore) ListAuditsByFranchise(_ context.Context, franchiseID uint) ([]models.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Audit, 0)
	for _, id := range sortedKeys(s.audits) {
		if s.audits[id].FranchiseID == franchiseID {
			out = append(out, s.audits[id])
		}
	}
	return out, nil
}

func (s *MemStore) CreateAudit(_ context.Context, audit models.Audit) (*models.Audit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	audit.ID = s.nextAuditID
	s.nextAuditID++
	if audit.Status == "" {
		audit.Status = models.AuditStatusInProgress
	}
	audit.StartedAt = s.now()
	audit.CompletedAt = nil
	s.audits[audit.ID] = audit
	return &audit, nil
}

func (s *MemStore) UpdateAudit(_ context.Context, id uint, patch models.AuditPatch) (*models.Audit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.audits[id]
	if !ok {
		return nil, ErrNotFound
	}
	updated := patch.Apply(current)
	updated.ID = id
	s.audits[id] = updated
	return &updated, nil
}

// Audit entry methods

func (s *MemStore) ListAuditEntries(_ context.Context, auditID uint) ([]models.AuditEntry, error) {
	return s.listEntries(func(e models.AuditEntry) bool { return e.AuditID == auditID }), nil
}

func (s *MemStore) ListAuditEntriesByAsset(_ context.Context, assetID uint) ([]models.AuditEntry, error) {
	return s.listEntries(func(e models.AuditEntry) bool { return e.AssetID == assetID }), nil
}

func (s *MemStore) CreateAuditEntry(_ context.Context, entry models.AuditEntry) (*models.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.nextAuditEntryID
	s.nextAuditEntryID++
	entry.AuditedAt = s.now()
	s.auditEntries[entry.ID] = entry
	return &entry, nil
}

func (s *MemStore) listEntries(match func(models.AuditEntry) bool) []models.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AuditEntry, 0)
	for _, id := range sortedKeys(s.auditEntries) {
		if match(s.auditEntries[id]) {
			out = append(out, s.auditEntries[id])
		}
	}
	return out
}

// serialOwner must be called with the lock held.
func (s *MemStore) serialOwner(serialNumber string) (uint, bool) {
	for id, a := range s.assets {
		if a.SerialNumber == serialNumber {
			return id, true
		}
	}
	return 0, false
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// laterThan returns now, or the instant right after prev when the clock has
// not moved past it.
func laterThan(now, prev time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Nanosecond)
}
