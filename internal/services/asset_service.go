// internal/services/asset_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/asset-audit/internal/audit"
	"github.com/javajoker/asset-audit/internal/metrics"
	"github.com/javajoker/asset-audit/internal/models"
	"github.com/javajoker/asset-audit/internal/store"
	"github.com/javajoker/asset-audit/internal/utils"
)

type AssetService struct {
	store  store.Store
	audits *AuditService
}

type CreateAssetRequest struct {
	SerialNumber    string               `json:"serialNumber" validate:"required,serial_number"`
	AssetMake       string               `json:"assetMake" validate:"required,max=100"`
	AssetModel      string               `json:"assetModel" validate:"required,max=100"`
	IOTNumber       *string              `json:"iotNumber,omitempty" validate:"omitempty,max=100"`
	AssetCategory   models.AssetCategory `json:"assetCategory" validate:"required,asset_category"`
	FranchiseID     uint                 `json:"franchiseId" validate:"required"`
	QRCodeAvailable bool                 `json:"qrCodeAvailable"`
	PhotoURL        *string              `json:"photoUrl,omitempty" validate:"omitempty,max=2048"`
}

type UpdateAssetRequest struct {
	SerialNumber    *string                  `json:"serialNumber,omitempty" validate:"omitempty,serial_number"`
	AssetMake       *string                  `json:"assetMake,omitempty" validate:"omitempty,min=1,max=100"`
	AssetModel      *string                  `json:"assetModel,omitempty" validate:"omitempty,min=1,max=100"`
	IOTNumber       *string                  `json:"iotNumber,omitempty" validate:"omitempty,max=100"`
	AssetCategory   *models.AssetCategory    `json:"assetCategory,omitempty" validate:"omitempty,asset_category"`
	Status          *models.AssetAuditStatus `json:"status,omitempty" validate:"omitempty,oneof=pending verified mismatch"`
	AssetStatus     *models.AssetStatus      `json:"assetStatus,omitempty" validate:"omitempty,asset_status"`
	QRCodeAvailable *bool                    `json:"qrCodeAvailable,omitempty"`
	PhotoURL        *string                  `json:"photoUrl,omitempty" validate:"omitempty,max=2048"`
}

func NewAssetService(st store.Store, audits *AuditService) *AssetService {
	return &AssetService{store: st, audits: audits}
}

func (s *AssetService) GetAsset(ctx context.Context, id uint) (*models.Asset, error) {
	a, err := s.store.GetAsset(ctx, id)
	if err != nil {
		return nil, notFound("asset", id, err)
	}
	return a, nil
}

// ListByFranchise lists a franchise's assets in insertion order. An empty
// status lists every asset.
func (s *AssetService) ListByFranchise(ctx context.Context, franchiseID uint, status string) ([]models.Asset, error) {
	if _, err := s.store.GetFranchise(ctx, franchiseID); err != nil {
		return nil, notFound("franchise", franchiseID, err)
	}

	var filter store.AssetFilter
	if status != "" {
		st := models.AssetAuditStatus(status)
		if !audit.IsAssetStatus(st) {
			return nil, &ValidationError{Field: "status", Message: "status must be one of pending, verified, mismatch"}
		}
		filter.Status = &st
	}
	return s.store.ListAssetsByFranchise(ctx, franchiseID, filter)
}

// CreateAsset registers a newly discovered asset. New assets always start
// pending with no sub-state.
func (s *AssetService) CreateAsset(ctx context.Context, req *CreateAssetRequest) (*models.Asset, error) {
	req.SerialNumber = strings.TrimSpace(req.SerialNumber)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	s.audits.mu.Lock()
	defer s.audits.mu.Unlock()

	if _, err := s.store.GetFranchise(ctx, req.FranchiseID); err != nil {
		return nil, notFound("franchise", req.FranchiseID, err)
	}

	created, err := s.store.CreateAsset(ctx, models.Asset{
		SerialNumber:    req.SerialNumber,
		AssetMake:       req.AssetMake,
		AssetModel:      req.AssetModel,
		IOTNumber:       normalize(req.IOTNumber),
		AssetCategory:   req.AssetCategory,
		FranchiseID:     req.FranchiseID,
		Status:          models.AssetAuditStatusPending,
		QRCodeAvailable: req.QRCodeAvailable,
		PhotoURL:        normalize(req.PhotoURL),
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.audits.recountLocked(ctx, created.FranchiseID); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"asset_id":      created.ID,
		"serial_number": created.SerialNumber,
		"franchise_id":  created.FranchiseID,
	}).Info("Asset created")
	return created, nil
}

// UpdateAsset merges a partial update. Status and sub-state changes are
// checked against the asset state machine. A status change counts as a
// submission: it needs the franchise's running audit and is logged there.
func (s *AssetService) UpdateAsset(ctx context.Context, id uint, req *UpdateAssetRequest) (*models.Asset, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	s.audits.mu.Lock()
	defer s.audits.mu.Unlock()

	current, err := s.store.GetAsset(ctx, id)
	if err != nil {
		return nil, notFound("asset", id, err)
	}

	patch := models.AssetPatch{
		SerialNumber:    req.SerialNumber,
		AssetMake:       req.AssetMake,
		AssetModel:      req.AssetModel,
		IOTNumber:       req.IOTNumber,
		AssetCategory:   req.AssetCategory,
		QRCodeAvailable: req.QRCodeAvailable,
		PhotoURL:        req.PhotoURL,
	}
	var running *models.Audit
	if req.Status != nil || req.AssetStatus != nil {
		target := current.Status
		if req.Status != nil {
			target = *req.Status
		}
		transition, err := audit.Transition(current, target, req.AssetStatus)
		if err != nil {
			return nil, err
		}
		if target != current.Status {
			running, err = s.audits.resolveAudit(ctx, current, nil)
			if err != nil {
				return nil, err
			}
		}
		patch.Status = transition.Status
		patch.AssetStatus = transition.AssetStatus
		patch.ClearAssetStatus = transition.ClearAssetStatus
	}

	updated, err := s.store.UpdateAsset(ctx, id, patch)
	if err != nil {
		return nil, notFound("asset", id, err)
	}

	if running != nil {
		if _, err := s.store.CreateAuditEntry(ctx, models.AuditEntry{
			AuditID:             running.ID,
			AssetID:             id,
			VerificationMethod:  models.VerificationMethodManualEntry,
			SerialNumberScanned: models.StringPtr(updated.SerialNumber),
			PhotoURL:            updated.PhotoURL,
			Notes:               models.StringPtr(fmt.Sprintf("status set to %s by asset update", updated.Status)),
		}); err != nil {
			return nil, err
		}
	}

	if updated.Status != current.Status {
		metrics.AssetTransitions.WithLabelValues(string(current.Status), string(updated.Status)).Inc()
		if _, err := s.audits.recountLocked(ctx, updated.FranchiseID); err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"asset_id": id,
			"from":     current.Status,
			"to":       updated.Status,
		}).Info("Asset status changed")
	}
	return updated, nil
}

func (s *AssetService) DeleteAsset(ctx context.Context, id uint) error {
	s.audits.mu.Lock()
	defer s.audits.mu.Unlock()

	current, err := s.store.GetAsset(ctx, id)
	if err != nil {
		return notFound("asset", id, err)
	}
	deleted, err := s.store.DeleteAsset(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return &NotFoundError{Resource: "asset", ID: id}
	}

	if _, err := s.audits.recountLocked(ctx, current.FranchiseID); err != nil {
		return err
	}
	logrus.WithField("asset_id", id).Info("Asset deleted")
	return nil
}

func normalize(s *string) *string {
	if s == nil {
		return nil
	}
	return models.StringPtr(strings.TrimSpace(*s))
}
