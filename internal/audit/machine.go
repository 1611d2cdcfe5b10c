// Package audit holds the asset and audit state machines and the counter
// derivation used to keep an audit's progress in step with its assets.
package audit

import (
	"errors"
	"fmt"

	"github.com/javajoker/asset-audit/internal/models"
)

var ErrIllegalTransition = errors.New("illegal status transition")

var assetTransitions = map[models.AssetAuditStatus][]models.AssetAuditStatus{
	models.AssetAuditStatusPending: {
		models.AssetAuditStatusPending,
		models.AssetAuditStatusVerified,
		models.AssetAuditStatusMismatch,
	},
	models.AssetAuditStatusMismatch: {
		models.AssetAuditStatusMismatch,
		models.AssetAuditStatusVerified,
	},
	// re-audit back to pending is not modeled
	models.AssetAuditStatusVerified: {
		models.AssetAuditStatusVerified,
	},
}

var auditTransitions = map[models.AuditStatus][]models.AuditStatus{
	models.AuditStatusInProgress: {models.AuditStatusInProgress, models.AuditStatusCompleted},
	models.AuditStatusCompleted:  {models.AuditStatusCompleted, models.AuditStatusSignedOff},
	models.AuditStatusSignedOff:  {models.AuditStatusSignedOff},
}

func IsAssetStatus(s models.AssetAuditStatus) bool {
	_, ok := assetTransitions[s]
	return ok
}

func IsAuditStatus(s models.AuditStatus) bool {
	_, ok := auditTransitions[s]
	return ok
}

// CanTransition reports whether an asset may move from one status to another.
func CanTransition(from, to models.AssetAuditStatus) bool {
	for _, next := range assetTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates an asset status change and returns the patch that
// applies it. The descriptive sub-state is only kept for verified assets.
func Transition(asset *models.Asset, to models.AssetAuditStatus, assetStatus *models.AssetStatus) (models.AssetPatch, error) {
	if !CanTransition(asset.Status, to) {
		return models.AssetPatch{}, fmt.Errorf("%w: asset %d %s -> %s", ErrIllegalTransition, asset.ID, asset.Status, to)
	}

	patch := models.AssetPatch{Status: &to}
	if to == models.AssetAuditStatusVerified {
		if assetStatus != nil {
			patch.AssetStatus = assetStatus
		}
	} else {
		if assetStatus != nil {
			return models.AssetPatch{}, fmt.Errorf("%w: asset status %q requires a verified asset", ErrIllegalTransition, *assetStatus)
		}
		patch.ClearAssetStatus = true
	}
	return patch, nil
}

// CanAdvance reports whether an audit may move between statuses.
func CanAdvance(from, to models.AuditStatus) bool {
	for _, next := range auditTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func Advance(a *models.Audit, to models.AuditStatus) error {
	if !CanAdvance(a.Status, to) {
		return fmt.Errorf("%w: audit %d %s -> %s", ErrIllegalTransition, a.ID, a.Status, to)
	}
	return nil
}
