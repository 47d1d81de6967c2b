// Package storeerror defines the typed errors exchanged between the payment
// stores, the due detector and the resolution engine.
package storeerror

import (
	"fmt"
	"strings"
)

// ReadReason classifies why a store could not be read.
type ReadReason string

const (
	// ReadMissingColumns: the store lacks one or more required columns.
	ReadMissingColumns ReadReason = "missing_columns"
	// ReadIOFailure: the underlying file is missing, locked or unreadable.
	ReadIOFailure ReadReason = "io_failure"
	// ReadMalformed: the file exists but is not a valid record store.
	ReadMalformed ReadReason = "malformed"
)

// StoreReadError reports a failed read of one store. Reads are isolated:
// the detector collects these as per-store diagnostics and keeps scanning.
type StoreReadError struct {
	Location string
	Reason   ReadReason
	Missing  []string // populated for ReadMissingColumns
	Err      error
}

func (e *StoreReadError) Error() string {
	if e.Reason == ReadMissingColumns {
		return fmt.Sprintf("store %s: missing required columns: %s",
			e.Location, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("store %s: read failed (%s): %v", e.Location, e.Reason, e.Err)
}

func (e *StoreReadError) Unwrap() error {
	return e.Err
}

// WriteReason classifies why a store update failed.
type WriteReason string

const (
	// WriteIOFailure: permission denied, disk full, or similar.
	WriteIOFailure WriteReason = "io_failure"
	// WriteLocked: the file is open elsewhere.
	WriteLocked WriteReason = "locked"
)

// StoreWriteError reports a failed row update. The update is all-or-nothing:
// when this error is returned, the store is unchanged.
type StoreWriteError struct {
	Location string
	Row      int
	Reason   WriteReason
	Err      error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store %s: update of row %d failed (%s): %v",
		e.Location, e.Row, e.Reason, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// InvalidAmountError rejects a payment before any store write is attempted.
type InvalidAmountError struct {
	Amount string
	Reason string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid payment amount %q: %s", e.Amount, e.Reason)
}

// InvalidDateError rejects a reschedule before any store write is attempted.
type InvalidDateError struct {
	Value  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid due date %q: %s", e.Value, e.Reason)
}

// ResolutionError wraps a store write failure encountered while applying a
// decision. The reminder stays open; retrying is an explicit user action,
// never automatic, so an ambiguous failure can not double-charge.
type ResolutionError struct {
	Record string
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolution of %s failed: write not persisted: %v", e.Record, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
