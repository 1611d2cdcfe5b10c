// Package forms holds the field client's input forms. A form that is not
// submittable must never be sent to the server.
package forms

import (
	"errors"
	"strings"

	"github.com/javajoker/asset-audit/internal/models"
	"github.com/javajoker/asset-audit/internal/services"
	"github.com/javajoker/asset-audit/internal/utils"
)

var ErrNotSubmittable = errors.New("form is not submittable")

// Problems lists the fields that keep a form from being submitted.
type Problems []utils.ValidationError

func (p Problems) Error() string {
	fields := make([]string, 0, len(p))
	for _, v := range p {
		fields = append(fields, v.Field)
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}

func (p Problems) Unwrap() error {
	return ErrNotSubmittable
}

func check(v interface{}) error {
	if err := utils.ValidateStruct(v); err != nil {
		if utils.IsValidationError(err) {
			return Problems(utils.GetValidationErrors(err))
		}
		return err
	}
	return nil
}

// ManualEntryForm is filled in when an asset's QR code cannot be scanned.
// QRAvailable stays nil until the auditor answers the question.
type ManualEntryForm struct {
	SerialNumber string `json:"serialNumber" validate:"required,max=100"`
	QRAvailable  *bool  `json:"qrAvailable" validate:"required"`
	PhotoURL     string `json:"photoUrl" validate:"required"`
	Notes        string `json:"notes"`
}

func (f *ManualEntryForm) Validate() error {
	trimmed := *f
	trimmed.SerialNumber = strings.TrimSpace(f.SerialNumber)
	trimmed.PhotoURL = strings.TrimSpace(f.PhotoURL)
	return check(&trimmed)
}

func (f *ManualEntryForm) Submittable() bool {
	return f.Validate() == nil
}

func (f *ManualEntryForm) Request(auditID *uint) (*services.ManualEntryRequest, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &services.ManualEntryRequest{
		AuditID:         auditID,
		SerialNumber:    strings.TrimSpace(f.SerialNumber),
		QRCodeAvailable: *f.QRAvailable,
		PhotoURL:        strings.TrimSpace(f.PhotoURL),
		Notes:           models.StringPtr(strings.TrimSpace(f.Notes)),
	}, nil
}

// NewAssetForm registers an asset found on site that is not yet on record.
type NewAssetForm struct {
	AssetCategory models.AssetCategory `json:"assetCategory" validate:"required,asset_category"`
	SerialNumber  string               `json:"serialNumber" validate:"required,serial_number"`
	AssetMake     string               `json:"assetMake" validate:"required,max=100"`
	AssetModel    string               `json:"assetModel" validate:"required,max=100"`
	IOTNumber     string               `json:"iotNumber" validate:"max=100"`
	QRAvailable   *bool                `json:"qrAvailable" validate:"required"`
	PhotoURL      string               `json:"photoUrl" validate:"required"`
}

func (f *NewAssetForm) normalized() NewAssetForm {
	n := *f
	n.SerialNumber = strings.TrimSpace(f.SerialNumber)
	n.AssetMake = strings.TrimSpace(f.AssetMake)
	n.AssetModel = strings.TrimSpace(f.AssetModel)
	n.IOTNumber = strings.TrimSpace(f.IOTNumber)
	n.PhotoURL = strings.TrimSpace(f.PhotoURL)
	return n
}

func (f *NewAssetForm) Validate() error {
	n := f.normalized()
	return check(&n)
}

func (f *NewAssetForm) Submittable() bool {
	return f.Validate() == nil
}

func (f *NewAssetForm) Request(franchiseID uint) (*services.CreateAssetRequest, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	n := f.normalized()
	return &services.CreateAssetRequest{
		SerialNumber:    n.SerialNumber,
		AssetMake:       n.AssetMake,
		AssetModel:      n.AssetModel,
		IOTNumber:       models.StringPtr(n.IOTNumber),
		AssetCategory:   n.AssetCategory,
		FranchiseID:     franchiseID,
		QRCodeAvailable: *n.QRAvailable,
		PhotoURL:        models.StringPtr(n.PhotoURL),
	}, nil
}

// QuantityForm records the counted SOC meters and harnesses.
type QuantityForm struct {
	SOCMeterCount int `json:"socMeterCount" validate:"min=0"`
	HarnessCount  int `json:"harnessCount" validate:"min=0"`
}

func (f *QuantityForm) Validate() error {
	return check(f)
}

func (f *QuantityForm) Request() (*services.UpdateAuditRequest, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	soc, harness := f.SOCMeterCount, f.HarnessCount
	return &services.UpdateAuditRequest{SOCMeterCount: &soc, HarnessCount: &harness}, nil
}
