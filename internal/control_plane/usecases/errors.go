package usecases

import (
	"errors"
	"fmt"

	"formfield-server/internal/control_plane/domain"
)

var (
	// Validation errors: the caller supplied bad input, never retried.
	ErrParentFormNotFound = errors.New("parent form not found")
	ErrStageInvalid       = errors.New("invalid stage")

	// Not-found lookups.
	ErrFormNotFound  = errors.New("form not found")
	ErrFieldNotFound = errors.New("field not found")

	// Integrity errors: the operation would violate an invariant and is
	// aborted with no partial effect.
	ErrFieldHasChildren      = errors.New("field still owns options or rules")
	ErrConditionFieldInvalid = errors.New("condition field must be an existing sibling")
	ErrOptionsNotSupported   = errors.New("field kind does not support options")
	ErrDuplicateFieldName    = errors.New("field name already used under this form")

	// Migration errors.
	ErrMalformedSettings = errors.New("legacy settings blob is malformed")

	// Structural misuse: a field kind without a format checker.
	ErrFormatCheckerMissing = errors.New("field kind supplies no format checker")
)

// PartialCascadeError reports a cascade that failed partway through. The
// enclosing transaction has been rolled back, so retrying the same top-level
// call is safe; ChildID names the first child that failed.
type PartialCascadeError struct {
	FieldID domain.ID
	ChildID domain.ID
	Err     error
}

func (e *PartialCascadeError) Error() string {
	return fmt.Sprintf("cascade on field %s failed at child %s: %v", e.FieldID, e.ChildID, e.Err)
}

func (e *PartialCascadeError) Unwrap() error {
	return e.Err
}
