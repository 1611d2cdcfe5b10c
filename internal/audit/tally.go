package audit

import "github.com/javajoker/asset-audit/internal/models"

// Tally derives audit counters from the current asset states.
func Tally(assets []models.Asset) models.Counters {
	c := models.Counters{Total: len(assets)}
	for _, a := range assets {
		switch a.Status {
		case models.AssetAuditStatusVerified:
			c.Verified++
		case models.AssetAuditStatusMismatch:
			c.Mismatch++
		default:
			c.Pending++
		}
	}
	return c
}

// Filter returns the assets with the given status in their original order.
func Filter(assets []models.Asset, status models.AssetAuditStatus) []models.Asset {
	out := make([]models.Asset, 0, len(assets))
	for _, a := range assets {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

// QRVerified counts verified assets that carry a QR code.
func QRVerified(assets []models.Asset) int {
	n := 0
	for _, a := range assets {
		if a.Status == models.AssetAuditStatusVerified && a.QRCodeAvailable {
			n++
		}
	}
	return n
}
