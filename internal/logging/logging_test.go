package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLoggerCapturesEntries(t *testing.T) {
	mock := NewMockLogger()

	mock.Info("cycle started", F(FieldCount, 3))
	mock.Warn("store skipped", F(FieldStore, "north/clients.csv"))

	require.Len(t, mock.Entries, 2)
	assert.Equal(t, "INFO", mock.Entries[0].Level)
	assert.Equal(t, "cycle started", mock.Entries[0].Message)
	require.Len(t, mock.Entries[0].Fields, 1)
	assert.Equal(t, FieldCount, mock.Entries[0].Fields[0].Key)

	warnings := mock.EntriesByLevel("WARN")
	require.Len(t, warnings, 1)
	assert.Equal(t, "store skipped", warnings[0].Message)
}

func TestMockLoggerWithError(t *testing.T) {
	mock := NewMockLogger()
	err := errors.New("disk full")

	derived := mock.WithError(err).(*MockLogger)
	derived.Error("write failed")

	require.Len(t, derived.Entries, 1)
	assert.Equal(t, "write failed", derived.Entries[0].Message)
	assert.Equal(t, err, derived.Entries[0].Error)
}

func TestLogrusAdapterImplementsLogger(t *testing.T) {
	var _ Logger = NewLogrusAdapter("debug", "text")
	var _ Logger = NewMockLogger()
}

func TestDefaultLogger(t *testing.T) {
	original := GetLogger()
	defer SetDefault(original)

	mock := NewMockLogger()
	SetDefault(mock)
	assert.Equal(t, Logger(mock), GetLogger())
}
