// Package store persists users, franchises, assets, audits and audit entries.
package store

import (
	"context"
	"errors"

	"github.com/javajoker/asset-audit/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// AssetFilter narrows an asset listing. A nil Status matches every asset.
type AssetFilter struct {
	Status *models.AssetAuditStatus
}

type Store interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)

	GetFranchise(ctx context.Context, id uint) (*models.Franchise, error)
	GetFranchiseBySAPCode(ctx context.Context, sapCode string) (*models.Franchise, error)
	ListFranchises(ctx context.Context) ([]models.Franchise, error)
	CreateFranchise(ctx context.Context, franchise models.Franchise) (*models.Franchise, error)

	GetAsset(ctx context.Context, id uint) (*models.Asset, error)
	GetAssetBySerialNumber(ctx context.Context, serialNumber string) (*models.Asset, error)
	ListAssetsByFranchise(ctx context.Context, franchiseID uint, filter AssetFilter) ([]models.Asset, error)
	CreateAsset(ctx context.Context, asset models.Asset) (*models.Asset, error)
	UpdateAsset(ctx context.Context, id uint, patch models.AssetPatch) (*models.Asset, error)
	DeleteAsset(ctx context.Context, id uint) (bool, error)

	GetAudit(ctx context.Context, id uint) (*models.Audit, error)
	GetAuditByFranchise(ctx context.Context, franchiseID uint) (*models.Audit, error)
	ListAuditsByFranchise(ctx context.Context, franchiseID uint) ([]models.Audit, error)
	CreateAudit(ctx context.Context, audit models.Audit) (*models.Audit, error)
	UpdateAudit(ctx context.Context, id uint, patch models.AuditPatch) (*models.Audit, error)

	ListAuditEntries(ctx context.Context, auditID uint) ([]models.AuditEntry, error)
	ListAuditEntriesByAsset(ctx context.Context, assetID uint) ([]models.AuditEntry, error)
	CreateAuditEntry(ctx context.Context, entry models.AuditEntry) (*models.AuditEntry, error)
}

// pickCurrentAudit prefers the newest in-progress audit, then the newest audit.
// audits must be in ascending id order.
func pickCurrentAudit(audits []models.Audit) (*models.Audit, bool) {
	if len(audits) == 0 {
		return nil, false
	}
	for i := len(audits) - 1; i >= 0; i-- {
		if audits[i].Status == models.AuditStatusInProgress {
			a := audits[i]
			return &a, true
		}
	}
	a := audits[len(audits)-1]
	return &a, true
}
