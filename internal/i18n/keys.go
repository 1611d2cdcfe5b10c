// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess       = "success"
	KeyError         = "error"
	KeyInternalError = "error.internal"
	KeyConflict      = "error.conflict"
	KeyNotFound      = "error.not_found"
	KeyRateLimited   = "error.rate_limited"

	// Validation
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationBadID    = "validation.bad_id"
	KeyValidationRequired = "validation.required"

	// Franchises
	KeyFranchiseNotFound = "franchise.not_found"

	// Assets
	KeyAssetNotFound      = "asset.not_found"
	KeyAssetCreated       = "asset.created"
	KeyAssetDeleted       = "asset.deleted"
	KeyAssetSerialExists  = "asset.serial_exists"
	KeyAssetIllegalStatus = "asset.illegal_status"

	// Audits
	KeyAuditNotFound          = "audit.not_found"
	KeyAuditActiveExists      = "audit.active_exists"
	KeyAuditNotActive         = "audit.not_active"
	KeyAuditFranchiseMismatch = "audit.franchise_mismatch"
	KeyAuditEntryNotFound     = "audit_entry.not_found"
	KeyUserNotFound           = "user.not_found"

	// Verification
	KeyQRMatched      = "verification.qr_matched"
	KeyQRMismatch     = "verification.qr_mismatch"
	KeyManualQueued   = "verification.manual_queued"
	KeyStatusRecorded = "verification.status_recorded"

	// Uploads
	KeyUploadMissing     = "upload.missing"
	KeyUploadTooLarge    = "upload.too_large"
	KeyUploadInvalidType = "upload.invalid_type"
	KeyUploadFailed      = "upload.failed"
)
