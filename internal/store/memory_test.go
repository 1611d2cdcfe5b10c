package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/asset-audit/internal/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newAsset(serial string, franchiseID uint) models.Asset {
	return models.Asset{
		SerialNumber:  serial,
		AssetMake:     "Exide",
		AssetModel:    "EXD-500",
		AssetCategory: models.AssetCategoryBattery,
		FranchiseID:   franchiseID,
	}
}

func TestDefaultSeedLoads(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemStore(DefaultSeed())
	require.NoError(t, err)

	f, err := s.GetFranchiseBySAPCode(ctx, "FP001")
	require.NoError(t, err)
	assert.Equal(t, uint(1), f.ID)

	assets, err := s.ListAssetsByFranchise(ctx, f.ID, AssetFilter{})
	require.NoError(t, err)
	require.Len(t, assets, 3)
	assert.Equal(t, "BAT-2024-001", assets[0].SerialNumber)
	assert.Equal(t, "SOC-2024-003", assets[2].SerialNumber)

	audit, err := s.GetAuditByFranchise(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuditStatusInProgress, audit.Status)
	assert.Equal(t, 3, audit.TotalAssets)
	assert.Equal(t, 1, audit.VerifiedAssets)
	assert.Equal(t, 1, audit.PendingAssets)
	assert.Equal(t, 1, audit.MismatchAssets)

	user, err := s.GetUserByUsername(ctx, "kae_mumbai")
	require.NoError(t, err)
	assert.NoError(t, user.CheckPassword("password123"))
	assert.Equal(t, user.ID, audit.KAEID)
}

func TestCreateAssetAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemStore(nil)
	require.NoError(t, err)

	var last uint
	for _, serial := range []string{"A-1", "A-2", "A-3"} {
		a, err := s.CreateAsset(ctx, newAsset(serial, 1))
		require.NoError(t, err)
		assert.Greater(t, a.ID, last)
		assert.Equal(t, models.AssetAuditStatusPending, a.Status)
		last = a.ID
	}

	ok, err := s.DeleteAsset(ctx, last)
	require.NoError(t, err)
	require.True(t, ok)

	a, err := s.CreateAsset(ctx, newAsset("A-4", 1))
	require.NoError(t, err)
	assert.Greater(t, a.ID, last, "ids are never reused")
}

func TestCreateAssetRejectsDuplicateSerial(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemStore(nil)
	require.NoError(t, err)

	_, err = s.CreateAsset(ctx, newAsset("DUP-1", 1))
	require.NoError(t, err)

	_, err = s.CreateAsset(ctx, newAsset("DUP-1", 2))
	assert.ErrorIs(t, err, ErrConflict)

	assets, _ := s.ListAssetsByFranchise(ctx, 2, AssetFilter{})
	assert.Empty(t, assets)
}

func TestUpdateAssetAdvancesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	s, err := NewMemStore(nil, WithClock(fixedClock(now)))
	require.NoError(t, err)

	created, err := s.CreateAsset(ctx, newAsset("UPD-1", 1))
	require.NoError(t, err)

	verified := models.AssetAuditStatusVerified
	updated, err := s.UpdateAsset(ctx, created.ID, models.AssetPatch{Status: &verified})
	require.NoError(t, err)
	assert.Equal(t, verified, updated.Status)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, created.SerialNumber, updated.SerialNumber)
}

func TestUpdateMissingAssetLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemStore(DefaultSeed())
	require.NoError(t, err)

	before, _ := s.ListAssetsByFranchise(ctx, 1, AssetFilter{})

	mk := "Other"
	_, err = s.UpdateAsset(ctx, 999, models.AssetPatch{AssetMake: &mk})
	assert.ErrorIs(t, err, ErrNotFound)

	after, _ := s.ListAssetsByFranchise(ctx, 1, AssetFilter{})
	assert.Equal(t, before, after)
}

func TestUpdateAssetSerialConflict(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemStore(DefaultSeed())
	require.NoError(t, err)

	serial := "CHG-2024-002"
	_, err = s.UpdateAsset(ctx, 1, models.AssetPatch{SerialNumber: &serial})
	assert.ErrorIs(t, err, ErrConflict)

	same := "BAT-2024-001"
	_, err = s.UpdateAsset(ctx, 1, models.AssetPatch{SerialNumber: &same})
	assert.NoError(t, err)
}

func TestListAssetsFiltersByStatusInOrder(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemStore(nil)
	require.NoError(t, err)

	statuses := []models.AssetAuditStatus{
		models.AssetAuditStatusPending,
		models.AssetAuditStatusVerified,
		models.AssetAuditStatusPending,
		models.AssetAuditStatusMismatch,
		models.AssetAuditStatusPending,
	}
	for i, st := range statuses {
		a := newAsset(string(rune('A'+i))+"-SER", 1)
		a.Status = st
		_, err := s.CreateAsset(ctx, a)
		require.NoError(t, err)
	}
	_, err = s.CreateAsset(ctx, newAsset("OTHER-FR", 2))
	require.NoError(t, err)

	pending := models.AssetAuditStatusPending
	got, err := s.ListAssetsByFranchise(ctx, 1, AssetFilter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "A-SER", got[0].SerialNumber)
	assert.Equal(t, "C-SER", got[1].SerialNumber)
	assert.Equal(t, "E-SER", got[2].SerialNumber)
}

func TestDeleteAssetReportsExistence(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemStore(DefaultSeed())
	require.NoError(t, err)

	ok, err := s.DeleteAsset(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeleteAsset(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.GetAsset(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAuditByFranchisePrefersInProgress(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemStore(nil)
	require.NoError(t, err)

	_, err = s.GetAuditByFranchise(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := s.CreateAudit(ctx, models.Audit{FranchiseID: 1, KAEID: 1})
	require.NoError(t, err)
	_, err = s.CreateAudit(ctx, models.Audit{FranchiseID: 1, KAEID: 1, Status: models.AuditStatusCompleted})
	require.NoError(t, err)

	current, err := s.GetAuditByFranchise(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)

	completed := models.AuditStatusCompleted
	_, err = s.UpdateAudit(ctx, first.ID, models.AuditPatch{Status: &completed})
	require.NoError(t, err)

	current, err = s.GetAuditByFranchise(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(2), current.ID, "newest audit once none is in progress")
}

func TestAuditEntriesAreListedPerAuditAndAsset(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	s, err := NewMemStore(nil, WithClock(fixedClock(now)))
	require.NoError(t, err)

	for _, e := range []models.AuditEntry{
		{AuditID: 1, AssetID: 1, VerificationMethod: models.VerificationMethodQRScan},
		{AuditID: 1, AssetID: 2, VerificationMethod: models.VerificationMethodManualEntry},
		{AuditID: 2, AssetID: 1, VerificationMethod: models.VerificationMethodQRScan},
	} {
		created, err := s.CreateAuditEntry(ctx, e)
		require.NoError(t, err)
		assert.Equal(t, now, created.AuditedAt)
	}

	byAudit, err := s.ListAuditEntries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byAudit, 2)
	assert.Equal(t, uint(1), byAudit[0].ID)
	assert.Equal(t, uint(2), byAudit[1].ID)

	byAsset, err := s.ListAuditEntriesByAsset(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byAsset, 2)
	assert.Equal(t, uint(3), byAsset[1].ID)
}

func TestCreateFranchiseRejectsDuplicateSAPCode(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemStore(DefaultSeed())
	require.NoError(t, err)

	_, err = s.CreateFranchise(ctx, models.Franchise{Name: "Dup", SAPCode: "FP001", City: "Pune", State: "Maharashtra"})
	assert.ErrorIs(t, err, ErrConflict)

	f, err := s.CreateFranchise(ctx, models.Franchise{Name: "Pune", SAPCode: "FP002", City: "Pune", State: "Maharashtra"})
	require.NoError(t, err)
	assert.Equal(t, uint(2), f.ID)

	all, err := s.ListFranchises(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestApplySeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemStore(DefaultSeed())
	require.NoError(t, err)

	require.NoError(t, ApplySeed(ctx, s, DefaultSeed()))

	assets, _ := s.ListAssetsByFranchise(ctx, 1, AssetFilter{})
	assert.Len(t, assets, 3)
	audits, _ := s.ListAuditsByFranchise(ctx, 1)
	assert.Len(t, audits, 1)
}
