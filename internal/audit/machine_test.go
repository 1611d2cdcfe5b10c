package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/asset-audit/internal/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.AssetAuditStatus
		want     bool
	}{
		{models.AssetAuditStatusPending, models.AssetAuditStatusVerified, true},
		{models.AssetAuditStatusPending, models.AssetAuditStatusMismatch, true},
		{models.AssetAuditStatusPending, models.AssetAuditStatusPending, true},
		{models.AssetAuditStatusMismatch, models.AssetAuditStatusVerified, true},
		{models.AssetAuditStatusMismatch, models.AssetAuditStatusPending, false},
		{models.AssetAuditStatusVerified, models.AssetAuditStatusPending, false},
		{models.AssetAuditStatusVerified, models.AssetAuditStatusMismatch, false},
		{models.AssetAuditStatusVerified, models.AssetAuditStatusVerified, true},
		{"bogus", models.AssetAuditStatusVerified, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionKeepsSubStateOnlyWhenVerified(t *testing.T) {
	deployed := models.AssetStatusDeployedDriver
	asset := &models.Asset{Status: models.AssetAuditStatusPending, AssetStatus: &deployed}

	patch, err := Transition(asset, models.AssetAuditStatusVerified, &deployed)
	require.NoError(t, err)
	updated := patch.Apply(*asset)
	assert.Equal(t, models.AssetAuditStatusVerified, updated.Status)
	require.NotNil(t, updated.AssetStatus)
	assert.Equal(t, deployed, *updated.AssetStatus)

	patch, err = Transition(asset, models.AssetAuditStatusMismatch, nil)
	require.NoError(t, err)
	updated = patch.Apply(*asset)
	assert.Nil(t, updated.AssetStatus)

	_, err = Transition(asset, models.AssetAuditStatusPending, &deployed)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestTransitionRejectsReturnToPending(t *testing.T) {
	asset := &models.Asset{Status: models.AssetAuditStatusVerified}
	_, err := Transition(asset, models.AssetAuditStatusPending, nil)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestAdvance(t *testing.T) {
	a := &models.Audit{Status: models.AuditStatusInProgress}
	assert.NoError(t, Advance(a, models.AuditStatusCompleted))
	assert.ErrorIs(t, Advance(a, models.AuditStatusSignedOff), ErrIllegalTransition)

	a.Status = models.AuditStatusCompleted
	assert.NoError(t, Advance(a, models.AuditStatusSignedOff))
	assert.ErrorIs(t, Advance(a, models.AuditStatusInProgress), ErrIllegalTransition)
}

func TestTallyAndFilter(t *testing.T) {
	assets := []models.Asset{
		{BaseModel: models.BaseModel{ID: 1}, Status: models.AssetAuditStatusPending},
		{BaseModel: models.BaseModel{ID: 2}, Status: models.AssetAuditStatusVerified, QRCodeAvailable: true},
		{BaseModel: models.BaseModel{ID: 3}, Status: models.AssetAuditStatusPending},
		{BaseModel: models.BaseModel{ID: 4}, Status: models.AssetAuditStatusMismatch},
		{BaseModel: models.BaseModel{ID: 5}, Status: models.AssetAuditStatusVerified},
	}

	c := Tally(assets)
	assert.Equal(t, models.Counters{Total: 5, Verified: 2, Pending: 2, Mismatch: 1}, c)
	assert.Equal(t, c.Total, c.Verified+c.Pending+c.Mismatch)

	pending := Filter(assets, models.AssetAuditStatusPending)
	require.Len(t, pending, 2)
	assert.Equal(t, uint(1), pending[0].ID)
	assert.Equal(t, uint(3), pending[1].ID)

	assert.Equal(t, 1, QRVerified(assets))
}
