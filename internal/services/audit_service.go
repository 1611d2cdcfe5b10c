// internal/services/audit_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/asset-audit/internal/audit"
	"github.com/javajoker/asset-audit/internal/metrics"
	"github.com/javajoker/asset-audit/internal/models"
	"github.com/javajoker/asset-audit/internal/store"
	"github.com/javajoker/asset-audit/internal/utils"
)

// AuditService runs verification submissions and keeps audit counters in
// step with asset states. Every mutation that can move a counter holds mu,
// so a transition, its entry and the recount land together.
type AuditService struct {
	mu    sync.Mutex
	store store.Store
	now   func() time.Time
}

type StartAuditRequest struct {
	FranchiseID uint `json:"franchiseId" validate:"required"`
	KAEID       uint `json:"kaeId" validate:"required"`
}

type UpdateAuditRequest struct {
	Status        *models.AuditStatus `json:"status,omitempty" validate:"omitempty,audit_status"`
	SOCMeterCount *int                `json:"socMeterCount,omitempty" validate:"omitempty,min=0"`
	HarnessCount  *int                `json:"harnessCount,omitempty" validate:"omitempty,min=0"`
}

type QRScanRequest struct {
	AuditID     *uint   `json:"auditId,omitempty"`
	ScannedCode string  `json:"scannedCode" validate:"required,max=200"`
	PhotoURL    *string `json:"photoUrl,omitempty" validate:"omitempty,max=2048"`
}

type ManualEntryRequest struct {
	AuditID         *uint   `json:"auditId,omitempty"`
	SerialNumber    string  `json:"serialNumber" validate:"required,max=100"`
	QRCodeAvailable bool    `json:"qrCodeAvailable"`
	PhotoURL        string  `json:"photoUrl" validate:"required,max=2048"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type StatusSubmissionRequest struct {
	AuditID     *uint              `json:"auditId,omitempty"`
	AssetStatus models.AssetStatus `json:"assetStatus" validate:"required,asset_status"`
	PhotoURL    *string            `json:"photoUrl,omitempty" validate:"omitempty,max=2048"`
	Notes       *string            `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type CreateAuditEntryRequest struct {
	AuditID             uint                      `json:"auditId" validate:"required"`
	AssetID             uint                      `json:"assetId" validate:"required"`
	VerificationMethod  models.VerificationMethod `json:"verificationMethod" validate:"required,verification_method"`
	SerialNumberScanned *string                   `json:"serialNumberScanned,omitempty" validate:"omitempty,max=100"`
	PhotoURL            *string                   `json:"photoUrl,omitempty" validate:"omitempty,max=2048"`
	Notes               *string                   `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// SubmissionResult is returned by every verification submission. Matched
// is false only for a QR scan whose code differs from the asset serial.
type SubmissionResult struct {
	Asset   *models.Asset      `json:"asset"`
	Entry   *models.AuditEntry `json:"entry"`
	Audit   *models.Audit      `json:"audit,omitempty"`
	Matched bool               `json:"matched"`
	Notice  string             `json:"notice,omitempty"`
}

// AuditSummary is an audit with the figures the dashboard derives from it.
type AuditSummary struct {
	models.Audit
	Progress   int `json:"progress"`
	QRVerified int `json:"qrVerified"`
}

func NewAuditService(st store.Store) *AuditService {
	return &AuditService{store: st, now: time.Now}
}

func (s *AuditService) GetAudit(ctx context.Context, id uint) (*models.Audit, error) {
	a, err := s.store.GetAudit(ctx, id)
	if err != nil {
		return nil, notFound("audit", id, err)
	}
	return a, nil
}

// Current returns the franchise's in-progress audit, or its newest one.
func (s *AuditService) Current(ctx context.Context, franchiseID uint) (*AuditSummary, error) {
	if _, err := s.store.GetFranchise(ctx, franchiseID); err != nil {
		return nil, notFound("franchise", franchiseID, err)
	}
	current, err := s.store.GetAuditByFranchise(ctx, franchiseID)
	if err != nil {
		return nil, notFound("audit", franchiseID, err)
	}
	assets, err := s.store.ListAssetsByFranchise(ctx, franchiseID, store.AssetFilter{})
	if err != nil {
		return nil, err
	}
	return &AuditSummary{
		Audit:      *current,
		Progress:   current.Progress(),
		QRVerified: audit.QRVerified(assets),
	}, nil
}

func (s *AuditService) StartAudit(ctx context.Context, req *StartAuditRequest) (*models.Audit, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.GetFranchise(ctx, req.FranchiseID); err != nil {
		return nil, notFound("franchise", req.FranchiseID, err)
	}
	if _, err := s.store.GetUser(ctx, req.KAEID); err != nil {
		return nil, notFound("user", req.KAEID, err)
	}

	existing, err := s.store.GetAuditByFranchise(ctx, req.FranchiseID)
	switch {
	case err == nil && existing.Status == models.AuditStatusInProgress:
		return nil, fmt.Errorf("%w: audit %d", ErrActiveAuditExists, existing.ID)
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	assets, err := s.store.ListAssetsByFranchise(ctx, req.FranchiseID, store.AssetFilter{})
	if err != nil {
		return nil, err
	}
	counters := audit.Tally(assets)

	created, err := s.store.CreateAudit(ctx, models.Audit{
		FranchiseID:    req.FranchiseID,
		KAEID:          req.KAEID,
		Status:         models.AuditStatusInProgress,
		TotalAssets:    counters.Total,
		VerifiedAssets: counters.Verified,
		PendingAssets:  counters.Pending,
		MismatchAssets: counters.Mismatch,
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"audit_id":     created.ID,
		"franchise_id": created.FranchiseID,
		"kae_id":       created.KAEID,
	}).Info("Audit started")
	return created, nil
}

func (s *AuditService) UpdateAudit(ctx context.Context, id uint, req *UpdateAuditRequest) (*models.Audit, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.GetAudit(ctx, id)
	if err != nil {
		return nil, notFound("audit", id, err)
	}

	patch := models.AuditPatch{
		SOCMeterCount: req.SOCMeterCount,
		HarnessCount:  req.HarnessCount,
	}
	if req.Status != nil {
		if err := audit.Advance(current, *req.Status); err != nil {
			return nil, err
		}
		patch.Status = req.Status
		if *req.Status == models.AuditStatusCompleted && current.Status != models.AuditStatusCompleted {
			completedAt := s.now()
			patch.CompletedAt = &completedAt
		}
	}

	updated, err := s.store.UpdateAudit(ctx, id, patch)
	if err != nil {
		return nil, notFound("audit", id, err)
	}
	if updated.Status != current.Status {
		logrus.WithFields(logrus.Fields{
			"audit_id": id,
			"from":     current.Status,
			"to":       updated.Status,
		}).Info("Audit status changed")
	}
	return updated, nil
}

// SubmitQRScan compares the scanned code with the asset serial. A match
// verifies the asset; a mismatch leaves it untouched but still logs the
// attempt.
func (s *AuditService) SubmitQRScan(ctx context.Context, assetID uint, req *QRScanRequest) (*SubmissionResult, error) {
	req.ScannedCode = strings.TrimSpace(req.ScannedCode)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	scanned := req.ScannedCode

	return s.submit(ctx, assetID, req.AuditID, models.VerificationMethodQRScan, func(asset *models.Asset) (*models.AssetPatch, models.AuditEntry, bool, error) {
		entry := models.AuditEntry{
			SerialNumberScanned: models.StringPtr(scanned),
			PhotoURL:            req.PhotoURL,
		}
		if scanned != asset.SerialNumber {
			entry.Notes = models.StringPtr(fmt.Sprintf("QR mismatch: scanned %q, expected %q", scanned, asset.SerialNumber))
			return nil, entry, false, nil
		}

		patch, err := audit.Transition(asset, models.AssetAuditStatusVerified, nil)
		if err != nil {
			return nil, entry, false, err
		}
		return &patch, entry, true, nil
	})
}

// SubmitManualEntry queues the asset for approval. It never verifies.
func (s *AuditService) SubmitManualEntry(ctx context.Context, assetID uint, req *ManualEntryRequest) (*SubmissionResult, error) {
	req.SerialNumber = strings.TrimSpace(req.SerialNumber)
	req.PhotoURL = strings.TrimSpace(req.PhotoURL)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return s.submit(ctx, assetID, req.AuditID, models.VerificationMethodManualEntry, func(asset *models.Asset) (*models.AssetPatch, models.AuditEntry, bool, error) {
		entry := models.AuditEntry{
			SerialNumberScanned: models.StringPtr(req.SerialNumber),
			PhotoURL:            models.StringPtr(req.PhotoURL),
			Notes:               req.Notes,
		}
		patch, err := audit.Transition(asset, models.AssetAuditStatusPending, nil)
		if err != nil {
			return nil, entry, false, err
		}
		qr := req.QRCodeAvailable
		patch.QRCodeAvailable = &qr
		patch.PhotoURL = &req.PhotoURL
		return &patch, entry, true, nil
	})
}

// SubmitStatus records an explicit asset status and verifies the asset.
func (s *AuditService) SubmitStatus(ctx context.Context, assetID uint, req *StatusSubmissionRequest) (*SubmissionResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return s.submit(ctx, assetID, req.AuditID, models.VerificationMethodQRScan, func(asset *models.Asset) (*models.AssetPatch, models.AuditEntry, bool, error) {
		entry := models.AuditEntry{
			PhotoURL: req.PhotoURL,
			Notes:    req.Notes,
		}
		assetStatus := req.AssetStatus
		patch, err := audit.Transition(asset, models.AssetAuditStatusVerified, &assetStatus)
		if err != nil {
			return nil, entry, false, err
		}
		if req.PhotoURL != nil {
			patch.PhotoURL = req.PhotoURL
		}
		return &patch, entry, true, nil
	})
}

type submitFunc func(asset *models.Asset) (patch *models.AssetPatch, entry models.AuditEntry, matched bool, err error)

func (s *AuditService) submit(ctx context.Context, assetID uint, auditID *uint, method models.VerificationMethod, fn submitFunc) (*SubmissionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, err := s.store.GetAsset(ctx, assetID)
	if err != nil {
		return nil, notFound("asset", assetID, err)
	}
	target, err := s.resolveAudit(ctx, asset, auditID)
	if err != nil {
		return nil, err
	}

	patch, entry, matched, err := fn(asset)
	if err != nil {
		metrics.Submissions.WithLabelValues(string(method), "rejected").Inc()
		return nil, err
	}

	result := &SubmissionResult{Asset: asset, Matched: matched, Audit: target}
	if patch != nil {
		updated, err := s.store.UpdateAsset(ctx, asset.ID, *patch)
		if err != nil {
			return nil, notFound("asset", assetID, err)
		}
		if updated.Status != asset.Status {
			metrics.AssetTransitions.WithLabelValues(string(asset.Status), string(updated.Status)).Inc()
		}
		result.Asset = updated
	}

	entry.AuditID = target.ID
	entry.AssetID = asset.ID
	entry.VerificationMethod = method
	created, err := s.store.CreateAuditEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	result.Entry = created

	if recounted, err := s.recountLocked(ctx, asset.FranchiseID); err != nil {
		return nil, err
	} else if recounted != nil && recounted.ID == target.ID {
		result.Audit = recounted
	}

	outcome := "accepted"
	if !matched {
		outcome = "mismatch"
	}
	metrics.Submissions.WithLabelValues(string(method), outcome).Inc()
	logrus.WithFields(logrus.Fields{
		"asset_id": asset.ID,
		"audit_id": target.ID,
		"method":   method,
		"from":     asset.Status,
		"to":       result.Asset.Status,
		"matched":  matched,
	}).Info("Audit submission recorded")

	return result, nil
}

// resolveAudit picks the audit a submission is logged against and checks
// that it can still take submissions for this asset.
func (s *AuditService) resolveAudit(ctx context.Context, asset *models.Asset, auditID *uint) (*models.Audit, error) {
	var (
		target *models.Audit
		err    error
	)
	if auditID != nil {
		target, err = s.store.GetAudit(ctx, *auditID)
		if err != nil {
			return nil, notFound("audit", *auditID, err)
		}
	} else {
		target, err = s.store.GetAuditByFranchise(ctx, asset.FranchiseID)
		if err != nil {
			return nil, notFound("audit", asset.FranchiseID, err)
		}
	}

	if target.FranchiseID != asset.FranchiseID {
		return nil, fmt.Errorf("%w: audit %d, asset %d", ErrAuditFranchiseMismatch, target.ID, asset.ID)
	}
	if target.Status != models.AuditStatusInProgress {
		return nil, fmt.Errorf("%w: audit %d is %s", ErrAuditNotActive, target.ID, target.Status)
	}
	return target, nil
}

// Recount refreshes the counters of the franchise's in-progress audit.
func (s *AuditService) Recount(ctx context.Context, franchiseID uint) (*models.Audit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recountLocked(ctx, franchiseID)
}

func (s *AuditService) recountLocked(ctx context.Context, franchiseID uint) (*models.Audit, error) {
	current, err := s.store.GetAuditByFranchise(ctx, franchiseID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if current.Status != models.AuditStatusInProgress {
		return nil, nil
	}

	assets, err := s.store.ListAssetsByFranchise(ctx, franchiseID, store.AssetFilter{})
	if err != nil {
		return nil, err
	}
	counters := audit.Tally(assets)
	return s.store.UpdateAudit(ctx, current.ID, models.AuditPatch{Counters: &counters})
}

func (s *AuditService) ListEntries(ctx context.Context, auditID uint) ([]models.AuditEntry, error) {
	if _, err := s.store.GetAudit(ctx, auditID); err != nil {
		return nil, notFound("audit", auditID, err)
	}
	return s.store.ListAuditEntries(ctx, auditID)
}

func (s *AuditService) ListAssetEntries(ctx context.Context, assetID uint) ([]models.AuditEntry, error) {
	if _, err := s.store.GetAsset(ctx, assetID); err != nil {
		return nil, notFound("asset", assetID, err)
	}
	return s.store.ListAuditEntriesByAsset(ctx, assetID)
}

// CreateEntry appends a raw audit entry. It does not touch asset status,
// but the audit must still be running and belong to the asset's franchise.
func (s *AuditService) CreateEntry(ctx context.Context, req *CreateAuditEntryRequest) (*models.AuditEntry, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.GetAudit(ctx, req.AuditID); err != nil {
		return nil, notFound("audit", req.AuditID, err)
	}
	asset, err := s.store.GetAsset(ctx, req.AssetID)
	if err != nil {
		return nil, notFound("asset", req.AssetID, err)
	}
	if _, err := s.resolveAudit(ctx, asset, &req.AuditID); err != nil {
		return nil, err
	}

	return s.store.CreateAuditEntry(ctx, models.AuditEntry{
		AuditID:             req.AuditID,
		AssetID:             req.AssetID,
		VerificationMethod:  req.VerificationMethod,
		SerialNumberScanned: req.SerialNumberScanned,
		PhotoURL:            req.PhotoURL,
		Notes:               req.Notes,
	})
}
