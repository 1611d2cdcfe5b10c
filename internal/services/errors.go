// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/javajoker/asset-audit/internal/store"
)

var (
	ErrActiveAuditExists      = errors.New("an audit is already in progress for this franchise")
	ErrAuditNotActive         = errors.New("audit is not in progress")
	ErrAuditFranchiseMismatch = errors.New("audit belongs to a different franchise")
)

// NotFoundError names the missing resource and matches store.ErrNotFound.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return store.ErrNotFound
}

func notFound(resource string, id uint, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return err
}

// ValidationError reports an invalid value the request schema cannot express.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
