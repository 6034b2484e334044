package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds, spec.md §7. Wrapped with github.com/pkg/errors so a
// failure carries a stack trace through logs without changing
// errors.Is/errors.As matching against the sentinel values below.
var (
	ErrMalformedRecord = errors.New("core: malformed record")
	ErrParentMismatch  = errors.New("core: block inconsistent with parent")
	ErrPoWFailed       = errors.New("core: proof of work verification failed")
	ErrUnknownParent   = errors.New("core: parent block not found")
	ErrIndex           = errors.New("core: transaction or receipt index out of range")
	ErrImmutable       = errors.New("core: cached block is immutable")
)

// VerificationFailedError reports a post-construction consensus check
// whose computed value disagrees with the header as received (spec.md
// §7: state root, tx root, receipts root, bloom, gas_used, timestamp,
// difficulty, uncles hash).
type VerificationFailedError struct {
	Field    string
	Op       string
	Actual   interface{}
	Expected interface{}
}

func (e *VerificationFailedError) Error() string {
	return fmt.Sprintf("core: verification failed: %s %s %v (expected %v)", e.Field, e.Op, e.Actual, e.Expected)
}

func verificationFailed(field string, actual, expected interface{}) error {
	return errors.WithStack(&VerificationFailedError{Field: field, Op: "!=", Actual: actual, Expected: expected})
}

func malformed(reason string) error {
	return errors.Wrap(ErrMalformedRecord, reason)
}

func parentMismatch(reason string) error {
	return errors.Wrap(ErrParentMismatch, reason)
}
