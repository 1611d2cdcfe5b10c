package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/asset-audit/internal/qr"
	"github.com/javajoker/asset-audit/internal/store"
)

func TestReportServiceRendersPDFs(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewMemStore(store.DefaultSeed())
	require.NoError(t, err)
	reports := NewReportService(st)

	report, err := reports.AuditReport(ctx, 1)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(report, []byte("%PDF-")))

	labels, err := reports.LabelSheet(ctx, 1)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(labels, []byte("%PDF-")))

	_, err = reports.AuditReport(ctx, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = reports.LabelSheet(ctx, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestQRLabelEncodesSerial(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewMemStore(store.DefaultSeed())
	require.NoError(t, err)

	png, asset, err := NewReportService(st).QRLabel(ctx, 2, 200)
	require.NoError(t, err)
	assert.Equal(t, "CHG-2024-002", asset.SerialNumber)

	text, ok, err := qr.NewImageDecoder().Decode(ctx, png)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, asset.SerialNumber, text)
}
