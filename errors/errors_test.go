package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
)

func TestSentinelClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		invalid   bool
		transient bool
	}{
		{name: "invalid packet", err: errors.ErrInvalidPacket, invalid: true},
		{name: "coherence out of range", err: errors.ErrInvalidCoherence, invalid: true},
		{name: "invalid config", err: errors.ErrInvalidConfig, invalid: true},
		{name: "corrupt seed", err: errors.ErrCorruptSeed, invalid: true},
		{name: "no connection", err: errors.ErrNoConnection, transient: true},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.invalid, errors.IsInvalid(tt.err))
			assert.Equal(t, tt.transient, errors.IsTransient(tt.err))
			assert.False(t, errors.IsFatal(tt.err))
		})
	}
}

func TestWrapInvalid(t *testing.T) {
	wrapped := errors.WrapInvalid(errors.ErrInvalidPacket, "Measurer", "Measure", "content validation")
	require.Error(t, wrapped)

	assert.True(t, stderrors.Is(wrapped, errors.ErrInvalidPacket))
	assert.True(t, errors.IsInvalid(wrapped))
	assert.Contains(t, wrapped.Error(), "Measurer.Measure: content validation failed")

	var ce *errors.ClassifiedError
	require.True(t, stderrors.As(wrapped, &ce))
	assert.Equal(t, errors.ErrorInvalid, ce.Class)
	assert.Equal(t, "Measurer", ce.Component)
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, errors.Wrap(nil, "c", "m", "a"))
	assert.NoError(t, errors.WrapInvalid(nil, "c", "m", "a"))
	assert.NoError(t, errors.WrapTransient(nil, "c", "m", "a"))
	assert.NoError(t, errors.WrapFatal(nil, "c", "m", "a"))
}

func TestClassifyDefaultsToInvalid(t *testing.T) {
	assert.Equal(t, errors.ErrorInvalid, errors.Classify(stderrors.New("unexpected")))
	assert.Equal(t, errors.ErrorTransient,
		errors.Classify(errors.WrapTransient(stderrors.New("kv put"), "SeedStore", "Save", "kv put")))
}

func TestErrorClassString(t *testing.T) {
	assert.Equal(t, "invalid", errors.ErrorInvalid.String())
	assert.Equal(t, "transient", errors.ErrorTransient.String())
	assert.Equal(t, "fatal", errors.ErrorFatal.String())
	assert.Equal(t, "unknown", errors.ErrorClass(99).String())
}
