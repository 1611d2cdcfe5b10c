// internal/models/franchise.go
package models

type Franchise struct {
	BaseModel
	Name    string `json:"name" gorm:"size:255;not null"`
	SAPCode string `json:"sapCode" gorm:"column:sap_code;uniqueIndex;size:50;not null"`
	City    string `json:"city" gorm:"size:100;not null"`
	State   string `json:"state" gorm:"size:100;not null"`
}
