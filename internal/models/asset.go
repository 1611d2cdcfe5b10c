// internal/models/asset.go
package models

type Asset struct {
	BaseModel
	SerialNumber    string           `json:"serialNumber" gorm:"uniqueIndex;size:100;not null"`
	AssetMake       string           `json:"assetMake" gorm:"size:100;not null"`
	AssetModel      string           `json:"assetModel" gorm:"size:100;not null"`
	IOTNumber       *string          `json:"iotNumber" gorm:"column:iot_number;size:100"`
	AssetCategory   AssetCategory    `json:"assetCategory" gorm:"type:varchar(20);not null"`
	FranchiseID     uint             `json:"franchiseId" gorm:"not null;index"`
	Status          AssetAuditStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	AssetStatus     *AssetStatus     `json:"assetStatus" gorm:"type:varchar(30)"`
	QRCodeAvailable bool             `json:"qrCodeAvailable" gorm:"column:qr_code_available;default:false"`
	PhotoURL        *string          `json:"photoUrl" gorm:"column:photo_url;type:text"`
	Timestamps
}

// AssetPatch carries a partial asset update. Nil fields are left untouched;
// ClearAssetStatus drops the sub-state.
type AssetPatch struct {
	SerialNumber     *string
	AssetMake        *string
	AssetModel       *string
	IOTNumber        *string
	AssetCategory    *AssetCategory
	Status           *AssetAuditStatus
	AssetStatus      *AssetStatus
	ClearAssetStatus bool
	QRCodeAvailable  *bool
	PhotoURL         *string
}

// Apply merges the patch into a copy of the asset.
func (p AssetPatch) Apply(a Asset) Asset {
	if p.SerialNumber != nil {
		a.SerialNumber = *p.SerialNumber
	}
	if p.AssetMake != nil {
		a.AssetMake = *p.AssetMake
	}
	if p.AssetModel != nil {
		a.AssetModel = *p.AssetModel
	}
	if p.IOTNumber != nil {
		a.IOTNumber = StringPtr(*p.IOTNumber)
	}
	if p.AssetCategory != nil {
		a.AssetCategory = *p.AssetCategory
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.ClearAssetStatus {
		a.AssetStatus = nil
	}
	if p.AssetStatus != nil {
		s := *p.AssetStatus
		a.AssetStatus = &s
	}
	if p.QRCodeAvailable != nil {
		a.QRCodeAvailable = *p.QRCodeAvailable
	}
	if p.PhotoURL != nil {
		a.PhotoURL = StringPtr(*p.PhotoURL)
	}
	return a
}
