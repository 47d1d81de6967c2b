package storeerror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreReadError(t *testing.T) {
	underlying := errors.New("permission denied")
	err := &StoreReadError{
		Location: "north/clients.csv",
		Reason:   ReadIOFailure,
		Err:      underlying,
	}

	assert.Contains(t, err.Error(), "north/clients.csv")
	assert.ErrorIs(t, err, underlying)

	missing := &StoreReadError{
		Location: "north/clients.csv",
		Reason:   ReadMissingColumns,
		Missing:  []string{"Amount", "Status"},
	}
	assert.Contains(t, missing.Error(), "Amount")
	assert.Contains(t, missing.Error(), "Status")
}

func TestStoreWriteError(t *testing.T) {
	underlying := errors.New("disk full")
	err := &StoreWriteError{
		Location: "north/clients.csv",
		Row:      3,
		Reason:   WriteIOFailure,
		Err:      underlying,
	}

	assert.Contains(t, err.Error(), "north/clients.csv")
	assert.ErrorIs(t, err, underlying)
}

func TestInvalidAmountError(t *testing.T) {
	err := &InvalidAmountError{Amount: "-50", Reason: "payment must be greater than zero"}
	assert.Contains(t, err.Error(), "-50")
	assert.Contains(t, err.Error(), "greater than zero")
}

func TestInvalidDateError(t *testing.T) {
	err := &InvalidDateError{Value: "2023-01-01", Reason: "due date must not be in the past"}
	assert.Contains(t, err.Error(), "2023-01-01")
}

func TestResolutionErrorWrapping(t *testing.T) {
	inner := &StoreWriteError{Location: "north/clients.csv", Row: 0, Reason: WriteLocked}
	err := &ResolutionError{Record: "north/clients.csv#0", Err: inner}

	var writeErr *StoreWriteError
	assert.ErrorAs(t, err, &writeErr)
	assert.Equal(t, WriteLocked, writeErr.Reason)
	assert.Contains(t, err.Error(), "north/clients.csv#0")
}
