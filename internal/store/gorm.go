// internal/store/gorm.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/javajoker/asset-audit/internal/models"
)

// GormStore persists entities in a relational database through gorm.
// Timestamps on assets are maintained by gorm's autoCreateTime and
// autoUpdateTime handling.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) first(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := s.db.WithContext(ctx).Where(query, args...).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}

func exists(tx *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := tx.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return count > 0, nil
}

// User methods

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.first(ctx, &user, "id = ?", id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.first(ctx, &user, "username = ?", username); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	user.ID = 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &models.User{}, "username = ?", user.Username)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: username %q already taken", ErrConflict, user.Username)
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Franchise methods

func (s *GormStore) GetFranchise(ctx context.Context, id uint) (*models.Franchise, error) {
	var franchise models.Franchise
	if err := s.first(ctx, &franchise, "id = ?", id); err != nil {
		return nil, err
	}
	return &franchise, nil
}

func (s *GormStore) GetFranchiseBySAPCode(ctx context.Context, sapCode string) (*models.Franchise, error) {
	var franchise models.Franchise
	if err := s.first(ctx, &franchise, "sap_code = ?", sapCode); err != nil {
		return nil, err
	}
	return &franchise, nil
}

func (s *GormStore) ListFranchises(ctx context.Context) ([]models.Franchise, error) {
	franchises := make([]models.Franchise, 0)
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&franchises).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return franchises, nil
}

func (s *GormStore) CreateFranchise(ctx context.Context, franchise models.Franchise) (*models.Franchise, error) {
	franchise.ID = 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &models.Franchise{}, "sap_code = ?", franchise.SAPCode)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: sap code %q already registered", ErrConflict, franchise.SAPCode)
		}
		return tx.Create(&franchise).Error
	})
	if err != nil {
		return nil, err
	}
	return &franchise, nil
}

// Asset methods

func (s *GormStore) GetAsset(ctx context.Context, id uint) (*models.Asset, error) {
	var asset models.Asset
	if err := s.first(ctx, &asset, "id = ?", id); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (s *GormStore) GetAssetBySerialNumber(ctx context.Context, serialNumber string) (*models.Asset, error) {
	var asset models.Asset
	if err := s.first(ctx, &asset, "serial_number = ?", serialNumber); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (s *GormStore) ListAssetsByFranchise(ctx context.Context, franchiseID uint, filter AssetFilter) ([]models.Asset, error) {
	query := s.db.WithContext(ctx).Where("franchise_id = ?", franchiseID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	assets := make([]models.Asset, 0)
	if err := query.Order("id ASC").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return assets, nil
}

func (s *GormStore) CreateAsset(ctx context.Context, asset models.Asset) (*models.Asset, error) {
	asset.ID = 0
	if asset.Status == "" {
		asset.Status = models.AssetAuditStatusPending
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &models.Asset{}, "serial_number = ?", asset.SerialNumber)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: serial number %q already registered", ErrConflict, asset.SerialNumber)
		}
		return tx.Create(&asset).Error
	})
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (s *GormStore) UpdateAsset(ctx context.Context, id uint, patch models.AssetPatch) (*models.Asset, error) {
	var updated models.Asset
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Asset
		if err := tx.First(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if patch.SerialNumber != nil {
			taken, err := exists(tx, &models.Asset{}, "serial_number = ? AND id <> ?", *patch.SerialNumber, id)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: serial number %q already registered", ErrConflict, *patch.SerialNumber)
			}
		}

		updated = patch.Apply(current)
		stamp := laterThan(time.Now(), current.UpdatedAt)
		if err := tx.Save(&updated).Error; err != nil {
			return err
		}
		// Save stamps updated_at with NowFunc; pin it to the monotonic value.
		updated.UpdatedAt = stamp
		return tx.Model(&updated).UpdateColumn("updated_at", stamp).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *GormStore) DeleteAsset(ctx context.Context, id uint) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&models.Asset{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("database error: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Audit methods

func (s *GormStore) GetAudit(ctx context.Context, id uint) (*models.Audit, error) {
	var audit models.Audit
	if err := s.first(ctx, &audit, "id = ?", id); err != nil {
		return nil, err
	}
	return &audit, nil
}

func (s *GormStore) GetAuditByFranchise(ctx context.Context, franchiseID uint) (*models.Audit, error) {
	audits, err := s.ListAuditsByFranchise(ctx, franchiseID)
	if err != nil {
		return nil, err
	}
	if a, ok := pickCurrentAudit(audits); ok {
		return a, nil
	}
	return nil, ErrNotFound
}

func (s *GormStore) ListAuditsByFranchise(ctx context.Context, franchiseID uint) ([]models.Audit, error) {
	audits := make([]models.Audit, 0)
	if err := s.db.WithContext(ctx).Where("franchise_id = ?", franchiseID).Order("id ASC").Find(&audits).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return audits, nil
}

func (s *GormStore) CreateAudit(ctx context.Context, audit models.Audit) (*models.Audit, error) {
	audit.ID = 0
	if audit.Status == "" {
		audit.Status = models.AuditStatusInProgress
	}
	audit.StartedAt = time.Now()
	audit.CompletedAt = nil
	if err := s.db.WithContext(ctx).Create(&audit).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &audit, nil
}

func (s *GormStore) UpdateAudit(ctx context.Context, id uint, patch models.AuditPatch) (*models.Audit, error) {
	var updated models.Audit
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Audit
		if err := tx.First(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		updated = patch.Apply(current)
		return tx.Save(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Audit entry methods

func (s *GormStore) ListAuditEntries(ctx context.Context, auditID uint) ([]models.AuditEntry, error) {
	entries := make([]models.AuditEntry, 0)
	if err := s.db.WithContext(ctx).Where("audit_id = ?", auditID).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return entries, nil
}

func (s *GormStore) ListAuditEntriesByAsset(ctx context.Context, assetID uint) ([]models.AuditEntry, error) {
	entries := make([]models.AuditEntry, 0)
	if err := s.db.WithContext(ctx).Where("asset_id = ?", assetID).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return entries, nil
}

func (s *GormStore) CreateAuditEntry(ctx context.Context, entry models.AuditEntry) (*models.AuditEntry, error) {
	entry.ID = 0
	entry.AuditedAt = time.Now()
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &entry, nil
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemStore)(nil)
)
