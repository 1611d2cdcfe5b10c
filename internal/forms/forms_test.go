package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/asset-audit/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func TestManualEntryForm(t *testing.T) {
	cases := []struct {
		name  string
		form  ManualEntryForm
		field string
	}{
		{"empty serial", ManualEntryForm{SerialNumber: "", QRAvailable: boolPtr(true), PhotoURL: "http://x/p.jpg"}, "serialNumber"},
		{"blank serial", ManualEntryForm{SerialNumber: "   ", QRAvailable: boolPtr(true), PhotoURL: "http://x/p.jpg"}, "serialNumber"},
		{"no photo", ManualEntryForm{SerialNumber: "BAT-1", QRAvailable: boolPtr(false)}, "photoUrl"},
		{"qr unanswered", ManualEntryForm{SerialNumber: "BAT-1", PhotoURL: "http://x/p.jpg"}, "qrAvailable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, tc.form.Submittable())

			err := tc.form.Validate()
			require.ErrorIs(t, err, ErrNotSubmittable)
			var problems Problems
			require.ErrorAs(t, err, &problems)
			require.Len(t, problems, 1)
			assert.Equal(t, tc.field, problems[0].Field)

			_, err = tc.form.Request(nil)
			assert.ErrorIs(t, err, ErrNotSubmittable)
		})
	}

	form := ManualEntryForm{SerialNumber: " BAT-1 ", QRAvailable: boolPtr(false), PhotoURL: "http://x/p.jpg"}
	require.True(t, form.Submittable())
	req, err := form.Request(nil)
	require.NoError(t, err)
	assert.Equal(t, "BAT-1", req.SerialNumber)
	assert.False(t, req.QRCodeAvailable)
	assert.Nil(t, req.Notes)
}

func TestNewAssetForm(t *testing.T) {
	form := NewAssetForm{
		AssetCategory: models.AssetCategoryCharger,
		SerialNumber:  "CHG-2024-010",
		AssetMake:     "Delta",
		AssetModel:    "DLT-300",
		QRAvailable:   boolPtr(true),
		PhotoURL:      "http://x/p.jpg",
	}
	require.True(t, form.Submittable())

	req, err := form.Request(1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), req.FranchiseID)
	assert.Nil(t, req.IOTNumber)
	assert.True(t, req.QRCodeAvailable)

	form.PhotoURL = ""
	assert.False(t, form.Submittable())

	form.PhotoURL = "http://x/p.jpg"
	form.AssetCategory = "inverter"
	assert.False(t, form.Submittable())
}

func TestQuantityForm(t *testing.T) {
	req, err := (&QuantityForm{SOCMeterCount: 3, HarnessCount: 0}).Request()
	require.NoError(t, err)
	assert.Equal(t, 3, *req.SOCMeterCount)
	assert.Equal(t, 0, *req.HarnessCount)

	_, err = (&QuantityForm{SOCMeterCount: -1}).Request()
	assert.ErrorIs(t, err, ErrNotSubmittable)
}
