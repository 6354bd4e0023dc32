// Package errors provides error handling for erbench.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// Usage:
//
//	// Wrap with context
//	if err := loadRecords(path); err != nil {
//	    return errors.Wrap(err, "failed to load records")
//	}
//
//	// Classify a failure so the CLI can report it
//	return errors.WrapFileUnavailable(err, path)
//
//	// Check errors
//	if errors.IsMalformedRecord(err) {
//	    // report the offending line
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// GetStack is an alias for GetReportableStackTrace for convenience.
var GetStack = crdb.GetReportableStackTrace

// GetReportableStackTrace extracts a stack trace attached by New/Wrap.
var GetReportableStackTrace = crdb.GetReportableStackTrace

// AssertionFailedf reports a broken internal invariant.
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel errors. Every failure of a prep run is fatal; these exist so the
// CLI and tests can tell the categories apart with errors.Is().
var (
	// ErrMalformedRecord indicates an input line that is not a valid record
	ErrMalformedRecord = New("malformed input record")

	// ErrFileUnavailable indicates a file could not be opened, read or written
	ErrFileUnavailable = New("file unavailable")

	// ErrInvalidConfig indicates configuration values outside their allowed range
	ErrInvalidConfig = New("invalid configuration")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")
)

// IsMalformedRecord checks if an error is or wraps ErrMalformedRecord
func IsMalformedRecord(err error) bool {
	return err != nil && Is(err, ErrMalformedRecord)
}

// IsFileUnavailable checks if an error is or wraps ErrFileUnavailable
func IsFileUnavailable(err error) bool {
	return err != nil && Is(err, ErrFileUnavailable)
}

// IsInvalidConfig checks if an error is or wraps ErrInvalidConfig
func IsInvalidConfig(err error) bool {
	return err != nil && Is(err, ErrInvalidConfig)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// WrapFileUnavailable marks err as a file failure on path.
// The message keeps the cause; errors.Is matches both the cause and
// ErrFileUnavailable.
func WrapFileUnavailable(err error, path string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrapf(err, "file %s", path), ErrFileUnavailable)
}

// NewMalformedRecord creates a malformed-record error with a formatted message
func NewMalformedRecord(format string, args ...interface{}) error {
	return Wrapf(ErrMalformedRecord, format, args...)
}

// NewInvalidConfig creates an invalid-config error with a formatted message
func NewInvalidConfig(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidConfig, format, args...)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrapf(ErrNotFound, format, args...)
}
