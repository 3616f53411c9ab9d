package atomnet

import "github.com/pkg/errors"

// CoreError is satisfied by every error this module raises deliberately
// (as opposed to errors merely wrapped in transit). Category groups errors
// into the taxonomy used for reporting.
type CoreError interface {
	error
	Category() string
}

// Categories, matching the error taxonomy: SchemaError, UnknownEntity,
// ShapeMismatch, ConsistencyError, DuplicateName.
const (
	CategorySchema      = "SchemaError"
	CategoryUnknown     = "UnknownEntity"
	CategoryShape       = "ShapeMismatch"
	CategoryConsistency = "ConsistencyError"
	CategoryDuplicate   = "DuplicateName"
)

type coreError struct {
	category string
	msg      string
}

func (e *coreError) Error() string    { return e.msg }
func (e *coreError) Category() string { return e.category }

// NewSchemaError reports a malformed document: missing attribute, wrong
// root element, wrong instance literal.
func NewSchemaError(msg string) error {
	return &coreError{CategorySchema, msg}
}

// NewUnknownEntityError reports a reference to an unknown atom block, port,
// pin, interconnect, mode, or pb-type.
func NewUnknownEntityError(msg string) error {
	return &coreError{CategoryUnknown, msg}
}

// NewShapeMismatchError reports a wrong pin count, an out-of-range instance
// slot, or duplicate slot occupancy.
func NewShapeMismatchError(msg string) error {
	return &coreError{CategoryShape, msg}
}

// NewConsistencyError reports mixed global/non-global signals on one net,
// a constant-generator output not marked constant, or an atom left unbound
// after ingest.
func NewConsistencyError(msg string) error {
	return &coreError{CategoryConsistency, msg}
}

// NewDuplicateNameError reports an attempt to add a block or net whose name
// is already live.
func NewDuplicateNameError(msg string) error {
	return &coreError{CategoryDuplicate, msg}
}

// IsCategory reports whether err (unwrapped via its pkg/errors cause chain)
// is a CoreError of the given category.
func IsCategory(err error, category string) bool {
	if c, ok := errors.Cause(err).(CoreError); ok {
		return c.Category() == category
	}
	return false
}
