package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/asset-audit/internal/models"
)

type sampleRequest struct {
	SerialNumber  string                    `validate:"required,serial_number"`
	AssetCategory models.AssetCategory      `validate:"required,asset_category"`
	AssetStatus   *models.AssetStatus       `validate:"omitempty,asset_status"`
	Method        models.VerificationMethod `validate:"omitempty,verification_method"`
}

func TestCustomTagsAcceptDomainValues(t *testing.T) {
	st := models.AssetStatusTheft
	err := ValidateStruct(&sampleRequest{
		SerialNumber:  "BAT-2024-001",
		AssetCategory: models.AssetCategorySOCMeter,
		AssetStatus:   &st,
		Method:        models.VerificationMethodManualEntry,
	})
	assert.NoError(t, err)
}

func TestCustomTagsRejectUnknownValues(t *testing.T) {
	st := models.AssetStatus("lost")
	err := ValidateStruct(&sampleRequest{
		SerialNumber:  "bad serial!",
		AssetCategory: "router",
		AssetStatus:   &st,
		Method:        "telepathy",
	})
	require.Error(t, err)
	require.True(t, IsValidationError(err))

	fields := map[string]string{}
	for _, fe := range GetValidationErrors(err) {
		fields[fe.Field] = fe.Tag
	}
	assert.Equal(t, "serial_number", fields["serialNumber"])
	assert.Equal(t, "asset_category", fields["assetCategory"])
	assert.Equal(t, "asset_status", fields["assetStatus"])
	assert.Equal(t, "verification_method", fields["method"])
}

func TestRequiredSerial(t *testing.T) {
	err := ValidateStruct(&sampleRequest{AssetCategory: models.AssetCategoryHarness})
	require.Error(t, err)
	errs := GetValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "required", errs[0].Tag)
}
