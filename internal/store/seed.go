package store

import (
	"github.com/javajoker/asset-audit/internal/audit"
	"github.com/javajoker/asset-audit/internal/models"
)

// Seed is the initial data handed to a store at construction. Ids are
// assigned by the store in slice order; AssetFranchise and the audit
// references index into Franchises and Users (zero based).
type Seed struct {
	Users      []SeedUser
	Franchises []models.Franchise
	Assets     []SeedAsset
	Audits     []SeedAudit
}

type SeedUser struct {
	Username string
	Password string
}

type SeedAsset struct {
	Asset     models.Asset
	Franchise int
}

type SeedAudit struct {
	Franchise int
	KAE       int
	Status    models.AuditStatus
}

// DefaultSeed is the demo franchise used when no other data is configured.
func DefaultSeed() *Seed {
	deployed := models.AssetStatusDeployedDriver
	return &Seed{
		Users: []SeedUser{{Username: "kae_mumbai", Password: "password123"}},
		Franchises: []models.Franchise{{
			Name:    "Franchise ABC - Mumbai",
			SAPCode: "FP001",
			City:    "Mumbai",
			State:   "Maharashtra",
		}},
		Assets: []SeedAsset{
			{Asset: models.Asset{
				SerialNumber:    "BAT-2024-001",
				AssetMake:       "Exide",
				AssetModel:      "EXD-500",
				IOTNumber:       models.StringPtr("IOT123456"),
				AssetCategory:   models.AssetCategoryBattery,
				Status:          models.AssetAuditStatusPending,
				QRCodeAvailable: true,
			}},
			{Asset: models.Asset{
				SerialNumber:    "CHG-2024-002",
				AssetMake:       "Delta",
				AssetModel:      "DLT-200",
				IOTNumber:       models.StringPtr("IOT789012"),
				AssetCategory:   models.AssetCategoryCharger,
				Status:          models.AssetAuditStatusVerified,
				AssetStatus:     &deployed,
				QRCodeAvailable: true,
			}},
			{Asset: models.Asset{
				SerialNumber:    "SOC-2024-003",
				AssetMake:       "TechSoc",
				AssetModel:      "TS-100",
				IOTNumber:       models.StringPtr("IOT345678"),
				AssetCategory:   models.AssetCategorySOCMeter,
				Status:          models.AssetAuditStatusMismatch,
				QRCodeAvailable: false,
			}},
		},
		Audits: []SeedAudit{{Franchise: 0, KAE: 0, Status: models.AuditStatusInProgress}},
	}
}

// seedCounters derives the counters for a seeded audit of franchise index f.
func (s *Seed) seedCounters(f int) models.Counters {
	var assets []models.Asset
	for _, a := range s.Assets {
		if a.Franchise == f {
			assets = append(assets, a.Asset)
		}
	}
	return audit.Tally(assets)
}
