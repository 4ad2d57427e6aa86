package datatree

import (
	"fmt"

	"github.com/npillmayer/yangtree/codec"
	"github.com/npillmayer/yangtree/yid"
	"github.com/pkg/errors"
)

// Validation failures, reported wrapped into a ValidationError.
var (
	ErrConflictingModification = errors.New("conflicting modification")
	ErrNodeDoesNotExist        = errors.New("node does not exist")
	ErrNodeAlreadyExists       = errors.New("node already exists")
	ErrMissingMandatory        = errors.New("mandatory node missing")
	ErrMultipleCases           = errors.New("data from more than one case of a choice")
	ErrSchemaNotAttached       = errors.New("no schema context attached")
)

// Input errors, reported when data is written to a modification.
var (
	ErrSchemaMismatch = errors.New("data does not match schema")
	ErrInvalidValue   = codec.ErrInvalidValue
	ErrRootDelete     = errors.New("the root node cannot be deleted")
)

// Errors for modifications used out of order.
var (
	ErrModificationSealed   = errors.New("modification is sealed")
	ErrModificationNotReady = errors.New("modification is not ready")
	ErrStalePreparation     = errors.New("data tree changed since preparation")
)

// ValidationError is the error type for modifications which cannot be applied to the
// current state of a data tree. Errors wrap one of the validation sentinels
// and may be tested with errors.Is.
type ValidationError struct {
	Path yid.Path // instance path of the failing node
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed at %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func validationError(path yid.Path, sentinel error, format string, args ...interface{}) error {
	err := errors.Wrapf(sentinel, format, args...)
	tracer().Errorf("validation failed at %s: %v", path, err)
	return &ValidationError{Path: path, Err: err}
}
