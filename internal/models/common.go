// internal/models/common.go
package models

import "time"

// Base model with common fields
type BaseModel struct {
	ID uint `json:"id" gorm:"primaryKey;autoIncrement"`
}

type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Enums
type AssetCategory string

const (
	AssetCategoryBattery  AssetCategory = "battery"
	AssetCategoryCharger  AssetCategory = "charger"
	AssetCategorySOCMeter AssetCategory = "soc-meter"
	AssetCategoryHarness  AssetCategory = "harness"
)

var AssetCategories = []AssetCategory{
	AssetCategoryBattery,
	AssetCategoryCharger,
	AssetCategorySOCMeter,
	AssetCategoryHarness,
}

type AssetAuditStatus string

const (
	AssetAuditStatusPending  AssetAuditStatus = "pending"
	AssetAuditStatusVerified AssetAuditStatus = "verified"
	AssetAuditStatusMismatch AssetAuditStatus = "mismatch"
)

// AssetStatus is the descriptive sub-state recorded when an asset is verified.
type AssetStatus string

const (
	AssetStatusRTBFranchise    AssetStatus = "rtb-franchise"
	AssetStatusRMTFranchise    AssetStatus = "rmt-franchise"
	AssetStatusDeployedDriver  AssetStatus = "deployed-driver"
	AssetStatusIdleFranchise   AssetStatus = "idle-franchise"
	AssetStatusTheft           AssetStatus = "theft"
	AssetStatusBurntFranchise  AssetStatus = "burnt-franchise"
	AssetStatusBurntWHPlant    AssetStatus = "burnt-wh-plant"
	AssetStatusPoliceCustody   AssetStatus = "police-custody"
	AssetStatusFinancerCustody AssetStatus = "financer-custody"
	AssetStatusNotAtFranchise  AssetStatus = "not-at-franchise"
)

var AssetStatuses = []AssetStatus{
	AssetStatusRTBFranchise,
	AssetStatusRMTFranchise,
	AssetStatusDeployedDriver,
	AssetStatusIdleFranchise,
	AssetStatusTheft,
	AssetStatusBurntFranchise,
	AssetStatusBurntWHPlant,
	AssetStatusPoliceCustody,
	AssetStatusFinancerCustody,
	AssetStatusNotAtFranchise,
}

type AuditStatus string

const (
	AuditStatusInProgress AuditStatus = "in-progress"
	AuditStatusCompleted  AuditStatus = "completed"
	AuditStatusSignedOff  AuditStatus = "signed-off"
)

type VerificationMethod string

const (
	VerificationMethodQRScan      VerificationMethod = "qr-scan"
	VerificationMethodManualEntry VerificationMethod = "manual-entry"
)

func IsAssetCategory(v string) bool {
	for _, c := range AssetCategories {
		if string(c) == v {
			return true
		}
	}
	return false
}

func IsAssetStatus(v string) bool {
	for _, s := range AssetStatuses {
		if string(s) == v {
			return true
		}
	}
	return false
}

// StringPtr returns nil for the empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
