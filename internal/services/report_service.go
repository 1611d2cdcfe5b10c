// internal/services/report_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/javajoker/asset-audit/internal/audit"
	"github.com/javajoker/asset-audit/internal/models"
	"github.com/javajoker/asset-audit/internal/qr"
	"github.com/javajoker/asset-audit/internal/store"
)

// LabelLayout describes an A4 sheet of asset labels.
type LabelLayout struct {
	Cols       int
	Rows       int
	MarginTop  float64
	MarginLeft float64
	GapX       float64
	GapY       float64
}

var DefaultLabelLayout = LabelLayout{Cols: 3, Rows: 8, MarginTop: 10, MarginLeft: 8, GapX: 3, GapY: 2}

// ReportService renders the final audit report and QR label sheets as PDF.
type ReportService struct {
	store  store.Store
	layout LabelLayout
}

func NewReportService(st store.Store) *ReportService {
	return &ReportService{store: st, layout: DefaultLabelLayout}
}

func (s *ReportService) AuditReport(ctx context.Context, auditID uint) ([]byte, error) {
	a, err := s.store.GetAudit(ctx, auditID)
	if err != nil {
		return nil, notFound("audit", auditID, err)
	}
	franchise, err := s.store.GetFranchise(ctx, a.FranchiseID)
	if err != nil {
		return nil, notFound("franchise", a.FranchiseID, err)
	}
	assets, err := s.store.ListAssetsByFranchise(ctx, a.FranchiseID, store.AssetFilter{})
	if err != nil {
		return nil, err
	}
	entries, err := s.store.ListAuditEntries(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Audit %d - %s", a.ID, franchise.SAPCode), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Asset Audit Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	completed := "-"
	if a.CompletedAt != nil {
		completed = a.CompletedAt.Format(time.RFC3339)
	}
	for _, line := range [][2]string{
		{"Franchise", fmt.Sprintf("%s (%s)", franchise.Name, franchise.SAPCode)},
		{"Location", fmt.Sprintf("%s, %s", franchise.City, franchise.State)},
		{"Audit", fmt.Sprintf("#%d, %s", a.ID, a.Status)},
		{"Started", a.StartedAt.Format(time.RFC3339)},
		{"Completed", completed},
	} {
		pdf.CellFormat(35, 6, line[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, line[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// counters come from the live asset states
	counters := audit.Tally(assets)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, line := range [][2]string{
		{"Total assets", fmt.Sprint(counters.Total)},
		{"Verified", fmt.Sprint(counters.Verified)},
		{"Pending", fmt.Sprint(counters.Pending)},
		{"Mismatch", fmt.Sprint(counters.Mismatch)},
		{"QR verified", fmt.Sprint(audit.QRVerified(assets))},
		{"Progress", fmt.Sprintf("%d%%", progress(counters))},
		{"SOC meters", fmt.Sprint(a.SOCMeterCount)},
		{"Harnesses", fmt.Sprint(a.HarnessCount)},
		{"Audit entries", fmt.Sprint(len(entries))},
	} {
		pdf.CellFormat(35, 6, line[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, line[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Assets", "", 1, "L", false, 0, "")
	widths := []float64{40, 25, 50, 25, 40}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Serial number", "Category", "Make / model", "Status", "Asset status"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, asset := range assets {
		sub := "-"
		if asset.AssetStatus != nil {
			sub = string(*asset.AssetStatus)
		}
		row := []string{
			asset.SerialNumber,
			string(asset.AssetCategory),
			asset.AssetMake + " " + asset.AssetModel,
			string(asset.Status),
			sub,
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return output(pdf)
}

// LabelSheet renders one QR label per asset, encoding the serial number.
func (s *ReportService) LabelSheet(ctx context.Context, franchiseID uint) ([]byte, error) {
	if _, err := s.store.GetFranchise(ctx, franchiseID); err != nil {
		return nil, notFound("franchise", franchiseID, err)
	}
	assets, err := s.store.ListAssetsByFranchise(ctx, franchiseID, store.AssetFilter{})
	if err != nil {
		return nil, err
	}

	cfg := s.layout
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Arial", "B", 8)

	pageWidth, pageHeight := 210.0, 297.0
	labelW := (pageWidth - cfg.MarginLeft*2 - float64(cfg.Cols-1)*cfg.GapX) / float64(cfg.Cols)
	labelH := (pageHeight - cfg.MarginTop*2 - float64(cfg.Rows-1)*cfg.GapY) / float64(cfg.Rows)
	perPage := cfg.Cols * cfg.Rows

	if len(assets) == 0 {
		pdf.AddPage()
	}
	for i, asset := range assets {
		if i%perPage == 0 {
			pdf.AddPage()
		}
		idx := i % perPage
		x := cfg.MarginLeft + float64(idx%cfg.Cols)*(labelW+cfg.GapX)
		y := cfg.MarginTop + float64(idx/cfg.Cols)*(labelH+cfg.GapY)

		png, err := qr.Encode(asset.SerialNumber, qr.DefaultSize)
		if err != nil {
			return nil, err
		}
		imgName := fmt.Sprintf("qr_%d", asset.ID)
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(png))

		qrSize := labelH - 4
		pdf.ImageOptions(imgName, x+1, y+2, qrSize, qrSize, false, opts, 0, "")

		textX := x + qrSize + 2
		textW := labelW - qrSize - 3
		pdf.SetXY(textX, y+6)
		pdf.SetFontSize(8)
		pdf.CellFormat(textW, 5, asset.SerialNumber, "", 2, "L", false, 0, "")
		pdf.SetFontSize(6)
		pdf.CellFormat(textW, 4, asset.AssetMake+" "+asset.AssetModel, "", 2, "L", false, 0, "")
		pdf.CellFormat(textW, 4, string(asset.AssetCategory), "", 0, "L", false, 0, "")
	}

	return output(pdf)
}

// QRLabel renders a single asset's serial number as a PNG QR code.
func (s *ReportService) QRLabel(ctx context.Context, assetID uint, size int) ([]byte, *models.Asset, error) {
	asset, err := s.store.GetAsset(ctx, assetID)
	if err != nil {
		return nil, nil, notFound("asset", assetID, err)
	}
	png, err := qr.Encode(asset.SerialNumber, size)
	if err != nil {
		return nil, nil, err
	}
	return png, asset, nil
}

func progress(c models.Counters) int {
	a := models.Audit{TotalAssets: c.Total, VerifiedAssets: c.Verified}
	return a.Progress()
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
