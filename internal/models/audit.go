// internal/models/audit.go
package models

import "time"

type Audit struct {
	BaseModel
	FranchiseID    uint        `json:"franchiseId" gorm:"not null;index"`
	KAEID          uint        `json:"kaeId" gorm:"column:kae_id;not null;index"`
	Status         AuditStatus `json:"status" gorm:"type:varchar(20);not null;default:'in-progress';index"`
	TotalAssets    int         `json:"totalAssets" gorm:"not null;default:0"`
	VerifiedAssets int         `json:"verifiedAssets" gorm:"not null;default:0"`
	PendingAssets  int         `json:"pendingAssets" gorm:"not null;default:0"`
	MismatchAssets int         `json:"mismatchAssets" gorm:"not null;default:0"`
	SOCMeterCount  int         `json:"socMeterCount" gorm:"column:soc_meter_count;default:0"`
	HarnessCount   int         `json:"harnessCount" gorm:"default:0"`
	StartedAt      time.Time   `json:"startedAt"`
	CompletedAt    *time.Time  `json:"completedAt"`
}

// Progress is the verified share of all assets, rounded to a whole percent.
func (a *Audit) Progress() int {
	if a.TotalAssets == 0 {
		return 0
	}
	return (a.VerifiedAssets*100 + a.TotalAssets/2) / a.TotalAssets
}

// Counters are the aggregate asset counts carried on an audit.
type Counters struct {
	Total    int `json:"totalAssets"`
	Verified int `json:"verifiedAssets"`
	Pending  int `json:"pendingAssets"`
	Mismatch int `json:"mismatchAssets"`
}

type AuditPatch struct {
	Status        *AuditStatus
	Counters      *Counters
	SOCMeterCount *int
	HarnessCount  *int
	CompletedAt   *time.Time
}

func (p AuditPatch) Apply(a Audit) Audit {
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Counters != nil {
		a.TotalAssets = p.Counters.Total
		a.VerifiedAssets = p.Counters.Verified
		a.PendingAssets = p.Counters.Pending
		a.MismatchAssets = p.Counters.Mismatch
	}
	if p.SOCMeterCount != nil {
		a.SOCMeterCount = *p.SOCMeterCount
	}
	if p.HarnessCount != nil {
		a.HarnessCount = *p.HarnessCount
	}
	if p.CompletedAt != nil {
		t := *p.CompletedAt
		a.CompletedAt = &t
	}
	return a
}

// AuditEntry is an append-only record of one verification attempt.
type AuditEntry struct {
	BaseModel
	AuditID             uint               `json:"auditId" gorm:"not null;index"`
	AssetID             uint               `json:"assetId" gorm:"not null;index"`
	VerificationMethod  VerificationMethod `json:"verificationMethod" gorm:"type:varchar(20);not null"`
	SerialNumberScanned *string            `json:"serialNumberScanned" gorm:"size:100"`
	PhotoURL            *string            `json:"photoUrl" gorm:"column:photo_url;type:text"`
	Notes               *string            `json:"notes" gorm:"type:text"`
	AuditedAt           time.Time          `json:"auditedAt"`
}
