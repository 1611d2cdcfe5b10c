// internal/utils/validator.go
package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/javajoker/asset-audit/internal/models"
)

var validate *validator.Validate

var serialNumberPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]*$`)

func init() {
	validate = validator.New()
	// report fields by their JSON names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("asset_category", validateAssetCategory)
	validate.RegisterValidation("asset_status", validateAssetStatus)
	validate.RegisterValidation("audit_status", validateAuditStatus)
	validate.RegisterValidation("verification_method", validateVerificationMethod)
	validate.RegisterValidation("serial_number", validateSerialNumber)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateAssetCategory(fl validator.FieldLevel) bool {
	return models.IsAssetCategory(fl.Field().String())
}

func validateAssetStatus(fl validator.FieldLevel) bool {
	return models.IsAssetStatus(fl.Field().String())
}

func validateAuditStatus(fl validator.FieldLevel) bool {
	switch models.AuditStatus(fl.Field().String()) {
	case models.AuditStatusInProgress, models.AuditStatusCompleted, models.AuditStatusSignedOff:
		return true
	}
	return false
}

func validateVerificationMethod(fl validator.FieldLevel) bool {
	switch models.VerificationMethod(fl.Field().String()) {
	case models.VerificationMethodQRScan, models.VerificationMethodManualEntry:
		return true
	}
	return false
}

// Serial numbers are 1-100 characters of letters, digits and . _ / -,
// starting with a letter or digit.
func validateSerialNumber(fl validator.FieldLevel) bool {
	serial := fl.Field().String()
	if len(serial) == 0 || len(serial) > 100 {
		return false
	}
	return serialNumberPattern.MatchString(serial)
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   lowerFirst(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

// IsValidationError reports whether err carries validator field errors.
func IsValidationError(err error) bool {
	var validationErrs validator.ValidationErrors
	return errors.As(err, &validationErrs)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "url":
		return e.Field() + " must be a valid URL"
	case "asset_category":
		return "Asset category must be one of battery, charger, soc-meter, harness"
	case "asset_status":
		return "Asset status is not a recognised value"
	case "audit_status":
		return "Audit status must be one of in-progress, completed, signed-off"
	case "verification_method":
		return "Verification method must be qr-scan or manual-entry"
	case "serial_number":
		return "Serial number must be 1-100 letters, digits, or . _ / - characters"
	default:
		return e.Field() + " is invalid"
	}
}
