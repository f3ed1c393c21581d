package packet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/packet"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		pkt         packet.Packet
		expectError bool
	}{
		{
			name: "valid text packet",
			pkt:  packet.New(packet.KindText, "water"),
		},
		{
			name: "valid raw packet with coherence",
			pkt:  packet.New(packet.KindRaw, "x", packet.WithCoherence(0.5)),
		},
		{
			name: "coherence at bounds",
			pkt:  packet.New(packet.KindText, "x", packet.WithCoherence(1.0)),
		},
		{
			name: "valid layer hint",
			pkt:  packet.New(packet.KindFormula, "H2O", packet.WithLayerHint(4)),
		},
		{
			name:        "empty content",
			pkt:         packet.New(packet.KindText, ""),
			expectError: true,
		},
		{
			name:        "unknown kind",
			pkt:         packet.Packet{Content: "x", Kind: "audio"},
			expectError: true,
		},
		{
			name:        "coherence above range",
			pkt:         packet.New(packet.KindText, "x", packet.WithCoherence(1.5)),
			expectError: true,
		},
		{
			name:        "coherence below range",
			pkt:         packet.New(packet.KindText, "x", packet.WithCoherence(-0.1)),
			expectError: true,
		},
		{
			name:        "layer hint out of range",
			pkt:         packet.New(packet.KindText, "x", packet.WithLayerHint(8)),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pkt.Validate()
			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidPacket)
				assert.True(t, errors.IsInvalid(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKindValid(t *testing.T) {
	for _, kind := range []packet.ContentKind{
		packet.KindText, packet.KindFormula, packet.KindSequence, packet.KindRaw,
	} {
		assert.True(t, kind.Valid())
	}
	assert.False(t, packet.ContentKind("").Valid())
	assert.False(t, packet.ContentKind("video").Valid())
}

func TestWithCoherenceCopiesValue(t *testing.T) {
	c := 0.7
	pkt := packet.New(packet.KindRaw, "x", packet.WithCoherence(c))
	require.NotNil(t, pkt.Coherence)

	c = 0.1
	assert.Equal(t, 0.7, *pkt.Coherence)
}
