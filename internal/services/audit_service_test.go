package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/asset-audit/internal/audit"
	"github.com/javajoker/asset-audit/internal/models"
	"github.com/javajoker/asset-audit/internal/store"
	"github.com/javajoker/asset-audit/internal/utils"
)

// Seeded ids: franchise 1, user 1, audit 1, assets 1 (pending),
// 2 (verified) and 3 (mismatch).
type AuditServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	store  *store.MemStore
	audits *AuditService
	assets *AssetService
}

func (suite *AuditServiceTestSuite) SetupTest() {
	st, err := store.NewMemStore(store.DefaultSeed())
	suite.Require().NoError(err)

	suite.ctx = context.Background()
	suite.store = st
	suite.audits = NewAuditService(st)
	suite.assets = NewAssetService(st, suite.audits)
}

func (suite *AuditServiceTestSuite) currentCounters() models.Counters {
	a, err := suite.store.GetAudit(suite.ctx, 1)
	suite.Require().NoError(err)
	return models.Counters{Total: a.TotalAssets, Verified: a.VerifiedAssets, Pending: a.PendingAssets, Mismatch: a.MismatchAssets}
}

func (suite *AuditServiceTestSuite) TestQRScanMatchVerifies() {
	result, err := suite.audits.SubmitQRScan(suite.ctx, 1, &QRScanRequest{ScannedCode: "  BAT-2024-001\n"})
	suite.Require().NoError(err)

	suite.True(result.Matched)
	suite.Equal(models.AssetAuditStatusVerified, result.Asset.Status)
	suite.Equal(models.VerificationMethodQRScan, result.Entry.VerificationMethod)
	suite.Require().NotNil(result.Entry.SerialNumberScanned)
	suite.Equal("BAT-2024-001", *result.Entry.SerialNumberScanned)
	suite.Equal(uint(1), result.Entry.AuditID)

	suite.Equal(models.Counters{Total: 3, Verified: 2, Pending: 0, Mismatch: 1}, suite.currentCounters())
	suite.Equal(2, result.Audit.VerifiedAssets)
}

func (suite *AuditServiceTestSuite) TestQRScanRejectsBlankCode() {
	_, err := suite.audits.SubmitQRScan(suite.ctx, 1, &QRScanRequest{ScannedCode: " \t\n "})
	suite.Require().Error(err)
	suite.True(utils.IsValidationError(err))

	entries, err := suite.store.ListAuditEntriesByAsset(suite.ctx, 1)
	suite.Require().NoError(err)
	suite.Empty(entries)
	asset, _ := suite.store.GetAsset(suite.ctx, 1)
	suite.Equal(models.AssetAuditStatusPending, asset.Status)
}

func (suite *AuditServiceTestSuite) TestQRScanMismatchLeavesAssetUnchanged() {
	before, _ := suite.store.GetAsset(suite.ctx, 1)

	result, err := suite.audits.SubmitQRScan(suite.ctx, 1, &QRScanRequest{ScannedCode: "CHG-2024-002"})
	suite.Require().NoError(err)

	suite.False(result.Matched)
	suite.Equal(*before, *result.Asset)
	after, _ := suite.store.GetAsset(suite.ctx, 1)
	suite.Equal(*before, *after)

	suite.Require().NotNil(result.Entry.Notes)
	suite.Contains(*result.Entry.Notes, "mismatch")
	suite.Equal(models.Counters{Total: 3, Verified: 1, Pending: 1, Mismatch: 1}, suite.currentCounters())

	entries, err := suite.audits.ListAssetEntries(suite.ctx, 1)
	suite.Require().NoError(err)
	suite.Len(entries, 1)
}

func (suite *AuditServiceTestSuite) TestManualEntryRequiresSerialAndPhoto() {
	_, err := suite.audits.SubmitManualEntry(suite.ctx, 1, &ManualEntryRequest{SerialNumber: "   ", PhotoURL: "http://x/p.jpg"})
	suite.Require().Error(err)
	suite.True(utils.IsValidationError(err))

	_, err = suite.audits.SubmitManualEntry(suite.ctx, 1, &ManualEntryRequest{SerialNumber: "BAT-2024-001"})
	suite.Require().Error(err)
	suite.True(utils.IsValidationError(err))

	entries, _ := suite.store.ListAuditEntries(suite.ctx, 1)
	suite.Empty(entries)
}

func (suite *AuditServiceTestSuite) TestManualEntryQueuesForApproval() {
	result, err := suite.audits.SubmitManualEntry(suite.ctx, 1, &ManualEntryRequest{
		SerialNumber:    "BAT-2024-001",
		QRCodeAvailable: false,
		PhotoURL:        "http://localhost:8080/uploads/photos/a.jpg",
	})
	suite.Require().NoError(err)

	suite.Equal(models.AssetAuditStatusPending, result.Asset.Status)
	suite.False(result.Asset.QRCodeAvailable)
	suite.Require().NotNil(result.Asset.PhotoURL)
	suite.Equal("http://localhost:8080/uploads/photos/a.jpg", *result.Asset.PhotoURL)
	suite.Equal(models.VerificationMethodManualEntry, result.Entry.VerificationMethod)
}

func (suite *AuditServiceTestSuite) TestManualEntryCannotDemoteVerifiedAsset() {
	_, err := suite.audits.SubmitManualEntry(suite.ctx, 2, &ManualEntryRequest{SerialNumber: "CHG-2024-002", PhotoURL: "http://x/p.jpg"})
	suite.ErrorIs(err, audit.ErrIllegalTransition)

	asset, _ := suite.store.GetAsset(suite.ctx, 2)
	suite.Equal(models.AssetAuditStatusVerified, asset.Status)
}

func (suite *AuditServiceTestSuite) TestStatusSubmissionVerifiesMismatch() {
	result, err := suite.audits.SubmitStatus(suite.ctx, 3, &StatusSubmissionRequest{AssetStatus: models.AssetStatusIdleFranchise})
	suite.Require().NoError(err)

	suite.Equal(models.AssetAuditStatusVerified, result.Asset.Status)
	suite.Require().NotNil(result.Asset.AssetStatus)
	suite.Equal(models.AssetStatusIdleFranchise, *result.Asset.AssetStatus)
	suite.Equal(models.Counters{Total: 3, Verified: 2, Pending: 1, Mismatch: 0}, suite.currentCounters())
}

func (suite *AuditServiceTestSuite) TestStatusSubmissionRejectsUnknownStatus() {
	_, err := suite.audits.SubmitStatus(suite.ctx, 3, &StatusSubmissionRequest{AssetStatus: "lost"})
	suite.True(utils.IsValidationError(err))
}

func (suite *AuditServiceTestSuite) TestSubmissionNeedsRunningAudit() {
	completed := models.AuditStatusCompleted
	_, err := suite.audits.UpdateAudit(suite.ctx, 1, &UpdateAuditRequest{Status: &completed})
	suite.Require().NoError(err)

	_, err = suite.audits.SubmitQRScan(suite.ctx, 1, &QRScanRequest{ScannedCode: "BAT-2024-001"})
	suite.ErrorIs(err, ErrAuditNotActive)

	asset, _ := suite.store.GetAsset(suite.ctx, 1)
	suite.Equal(models.AssetAuditStatusPending, asset.Status)
}

func (suite *AuditServiceTestSuite) TestSubmissionAgainstOtherFranchiseAudit() {
	other, err := suite.store.CreateFranchise(suite.ctx, models.Franchise{Name: "Pune", SAPCode: "FP002", City: "Pune", State: "Maharashtra"})
	suite.Require().NoError(err)
	otherAudit, err := suite.audits.StartAudit(suite.ctx, &StartAuditRequest{FranchiseID: other.ID, KAEID: 1})
	suite.Require().NoError(err)

	_, err = suite.audits.SubmitQRScan(suite.ctx, 1, &QRScanRequest{AuditID: &otherAudit.ID, ScannedCode: "BAT-2024-001"})
	suite.ErrorIs(err, ErrAuditFranchiseMismatch)
}

func (suite *AuditServiceTestSuite) TestSubmissionForMissingAsset() {
	_, err := suite.audits.SubmitQRScan(suite.ctx, 99, &QRScanRequest{ScannedCode: "X"})
	suite.ErrorIs(err, store.ErrNotFound)

	var nf *NotFoundError
	suite.Require().ErrorAs(err, &nf)
	suite.Equal("asset", nf.Resource)
}

func (suite *AuditServiceTestSuite) TestStartAuditOnePerFranchise() {
	_, err := suite.audits.StartAudit(suite.ctx, &StartAuditRequest{FranchiseID: 1, KAEID: 1})
	suite.ErrorIs(err, ErrActiveAuditExists)

	completed := models.AuditStatusCompleted
	_, err = suite.audits.UpdateAudit(suite.ctx, 1, &UpdateAuditRequest{Status: &completed})
	suite.Require().NoError(err)

	started, err := suite.audits.StartAudit(suite.ctx, &StartAuditRequest{FranchiseID: 1, KAEID: 1})
	suite.Require().NoError(err)
	suite.Equal(models.AuditStatusInProgress, started.Status)
	suite.Equal(3, started.TotalAssets)

	current, err := suite.audits.Current(suite.ctx, 1)
	suite.Require().NoError(err)
	suite.Equal(started.ID, current.ID)
}

func (suite *AuditServiceTestSuite) TestStartAuditUnknownUser() {
	_, err := suite.audits.StartAudit(suite.ctx, &StartAuditRequest{FranchiseID: 1, KAEID: 42})
	var nf *NotFoundError
	suite.Require().ErrorAs(err, &nf)
	suite.Equal("user", nf.Resource)
}

func (suite *AuditServiceTestSuite) TestUpdateAuditLifecycle() {
	signedOff := models.AuditStatusSignedOff
	_, err := suite.audits.UpdateAudit(suite.ctx, 1, &UpdateAuditRequest{Status: &signedOff})
	suite.ErrorIs(err, audit.ErrIllegalTransition)

	fixed := time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)
	suite.audits.now = func() time.Time { return fixed }

	soc, harness := 4, 12
	completed := models.AuditStatusCompleted
	updated, err := suite.audits.UpdateAudit(suite.ctx, 1, &UpdateAuditRequest{Status: &completed, SOCMeterCount: &soc, HarnessCount: &harness})
	suite.Require().NoError(err)
	suite.Equal(models.AuditStatusCompleted, updated.Status)
	suite.Require().NotNil(updated.CompletedAt)
	suite.Equal(fixed, *updated.CompletedAt)
	suite.Equal(4, updated.SOCMeterCount)
	suite.Equal(12, updated.HarnessCount)

	updated, err = suite.audits.UpdateAudit(suite.ctx, 1, &UpdateAuditRequest{Status: &signedOff})
	suite.Require().NoError(err)
	suite.Equal(models.AuditStatusSignedOff, updated.Status)
	suite.Equal(fixed, *updated.CompletedAt)
}

func (suite *AuditServiceTestSuite) TestUpdateAuditRejectsNegativeCounts() {
	negative := -1
	_, err := suite.audits.UpdateAudit(suite.ctx, 1, &UpdateAuditRequest{HarnessCount: &negative})
	suite.True(utils.IsValidationError(err))
}

func (suite *AuditServiceTestSuite) TestCurrentSummary() {
	summary, err := suite.audits.Current(suite.ctx, 1)
	suite.Require().NoError(err)
	suite.Equal(33, summary.Progress)
	suite.Equal(1, summary.QRVerified)

	_, err = suite.audits.Current(suite.ctx, 7)
	var nf *NotFoundError
	suite.Require().ErrorAs(err, &nf)
	suite.Equal("franchise", nf.Resource)
}

func (suite *AuditServiceTestSuite) TestCreateEntryChecksReferences() {
	entry, err := suite.audits.CreateEntry(suite.ctx, &CreateAuditEntryRequest{
		AuditID:            1,
		AssetID:            2,
		VerificationMethod: models.VerificationMethodQRScan,
	})
	suite.Require().NoError(err)
	suite.Equal(uint(1), entry.ID)

	_, err = suite.audits.CreateEntry(suite.ctx, &CreateAuditEntryRequest{AuditID: 1, AssetID: 99, VerificationMethod: models.VerificationMethodQRScan})
	suite.ErrorIs(err, store.ErrNotFound)

	_, err = suite.audits.CreateEntry(suite.ctx, &CreateAuditEntryRequest{AuditID: 1, AssetID: 2, VerificationMethod: "guess"})
	suite.True(utils.IsValidationError(err))
}

func (suite *AuditServiceTestSuite) TestCreateEntryNeedsRunningAuditOfSameFranchise() {
	other, err := suite.store.CreateFranchise(suite.ctx, models.Franchise{Name: "Pune", SAPCode: "FP002", City: "Pune", State: "Maharashtra"})
	suite.Require().NoError(err)
	stray, err := suite.assets.CreateAsset(suite.ctx, &CreateAssetRequest{
		SerialNumber:  "BAT-2024-900",
		AssetMake:     "Exide",
		AssetModel:    "EXD-500",
		AssetCategory: models.AssetCategoryBattery,
		FranchiseID:   other.ID,
	})
	suite.Require().NoError(err)

	_, err = suite.audits.CreateEntry(suite.ctx, &CreateAuditEntryRequest{AuditID: 1, AssetID: stray.ID, VerificationMethod: models.VerificationMethodQRScan})
	suite.ErrorIs(err, ErrAuditFranchiseMismatch)

	for _, st := range []models.AuditStatus{models.AuditStatusCompleted, models.AuditStatusSignedOff} {
		next := st
		_, err = suite.audits.UpdateAudit(suite.ctx, 1, &UpdateAuditRequest{Status: &next})
		suite.Require().NoError(err)
	}
	_, err = suite.audits.CreateEntry(suite.ctx, &CreateAuditEntryRequest{AuditID: 1, AssetID: 1, VerificationMethod: models.VerificationMethodQRScan})
	suite.ErrorIs(err, ErrAuditNotActive)

	entries, err := suite.store.ListAuditEntries(suite.ctx, 1)
	suite.Require().NoError(err)
	suite.Empty(entries)
}

func TestAuditServiceSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}

func TestAssetServiceCreateAndDeleteRecount(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewMemStore(store.DefaultSeed())
	require.NoError(t, err)
	audits := NewAuditService(st)
	assets := NewAssetService(st, audits)

	created, err := assets.CreateAsset(ctx, &CreateAssetRequest{
		SerialNumber:    " HRN-2024-004 ",
		AssetMake:       "Amphenol",
		AssetModel:      "H-20",
		AssetCategory:   models.AssetCategoryHarness,
		FranchiseID:     1,
		QRCodeAvailable: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "HRN-2024-004", created.SerialNumber)
	assert.Equal(t, models.AssetAuditStatusPending, created.Status)
	assert.Nil(t, created.AssetStatus)

	a, _ := st.GetAudit(ctx, 1)
	assert.Equal(t, 4, a.TotalAssets)
	assert.Equal(t, 2, a.PendingAssets)

	_, err = assets.CreateAsset(ctx, &CreateAssetRequest{
		SerialNumber:  "HRN-2024-004",
		AssetMake:     "Amphenol",
		AssetModel:    "H-20",
		AssetCategory: models.AssetCategoryHarness,
		FranchiseID:   1,
	})
	assert.ErrorIs(t, err, store.ErrConflict)

	require.NoError(t, assets.DeleteAsset(ctx, created.ID))
	a, _ = st.GetAudit(ctx, 1)
	assert.Equal(t, 3, a.TotalAssets)
	assert.Equal(t, a.TotalAssets, a.VerifiedAssets+a.PendingAssets+a.MismatchAssets)

	assert.ErrorIs(t, assets.DeleteAsset(ctx, created.ID), store.ErrNotFound)
}

func TestAssetServiceCreateValidation(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewMemStore(store.DefaultSeed())
	require.NoError(t, err)
	assets := NewAssetService(st, NewAuditService(st))

	_, err = assets.CreateAsset(ctx, &CreateAssetRequest{SerialNumber: "X-1", AssetCategory: "router", FranchiseID: 1})
	require.Error(t, err)
	assert.True(t, utils.IsValidationError(err))

	_, err = assets.CreateAsset(ctx, &CreateAssetRequest{
		SerialNumber:  "X-1",
		AssetMake:     "Exide",
		AssetModel:    "EXD-500",
		AssetCategory: models.AssetCategoryBattery,
		FranchiseID:   9,
	})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "franchise", nf.Resource)
}

func TestAssetServiceUpdateFollowsStateMachine(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewMemStore(store.DefaultSeed())
	require.NoError(t, err)
	assets := NewAssetService(st, NewAuditService(st))

	pending := models.AssetAuditStatusPending
	_, err = assets.UpdateAsset(ctx, 2, &UpdateAssetRequest{Status: &pending})
	assert.ErrorIs(t, err, audit.ErrIllegalTransition)

	theft := models.AssetStatusTheft
	_, err = assets.UpdateAsset(ctx, 1, &UpdateAssetRequest{AssetStatus: &theft})
	assert.ErrorIs(t, err, audit.ErrIllegalTransition, "sub-state needs a verified asset")

	verified := models.AssetAuditStatusVerified
	updated, err := assets.UpdateAsset(ctx, 3, &UpdateAssetRequest{Status: &verified, AssetStatus: &theft})
	require.NoError(t, err)
	assert.Equal(t, verified, updated.Status)
	require.NotNil(t, updated.AssetStatus)
	assert.Equal(t, theft, *updated.AssetStatus)

	a, _ := st.GetAudit(ctx, 1)
	assert.Equal(t, 2, a.VerifiedAssets)
	assert.Equal(t, 0, a.MismatchAssets)

	entries, err := st.ListAuditEntriesByAsset(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint(1), entries[0].AuditID)
	assert.Equal(t, models.VerificationMethodManualEntry, entries[0].VerificationMethod)

	mk := "Exide Industries"
	updated, err = assets.UpdateAsset(ctx, 1, &UpdateAssetRequest{AssetMake: &mk})
	require.NoError(t, err)
	assert.Equal(t, mk, updated.AssetMake)
	assert.Equal(t, pending, updated.Status)

	bogus := models.AssetAuditStatus("lost")
	_, err = assets.UpdateAsset(ctx, 1, &UpdateAssetRequest{Status: &bogus})
	assert.True(t, utils.IsValidationError(err))

	_, err = assets.UpdateAsset(ctx, 99, &UpdateAssetRequest{AssetMake: &mk})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAssetServiceStatusChangeNeedsRunningAudit(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewMemStore(store.DefaultSeed())
	require.NoError(t, err)
	audits := NewAuditService(st)
	assets := NewAssetService(st, audits)

	completed := models.AuditStatusCompleted
	_, err = audits.UpdateAudit(ctx, 1, &UpdateAuditRequest{Status: &completed})
	require.NoError(t, err)

	verified := models.AssetAuditStatusVerified
	_, err = assets.UpdateAsset(ctx, 1, &UpdateAssetRequest{Status: &verified})
	assert.ErrorIs(t, err, ErrAuditNotActive)

	asset, _ := st.GetAsset(ctx, 1)
	assert.Equal(t, models.AssetAuditStatusPending, asset.Status)

	// plain field edits stay allowed
	mk := "Exide Industries"
	_, err = assets.UpdateAsset(ctx, 1, &UpdateAssetRequest{AssetMake: &mk})
	assert.NoError(t, err)
}

func TestAssetServiceListFilter(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewMemStore(store.DefaultSeed())
	require.NoError(t, err)
	assets := NewAssetService(st, NewAuditService(st))

	all, err := assets.ListByFranchise(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mismatched, err := assets.ListByFranchise(ctx, 1, "mismatch")
	require.NoError(t, err)
	require.Len(t, mismatched, 1)
	assert.Equal(t, "SOC-2024-003", mismatched[0].SerialNumber)

	_, err = assets.ListByFranchise(ctx, 1, "unknown")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = assets.ListByFranchise(ctx, 5, "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
