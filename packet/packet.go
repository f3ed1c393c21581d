// Package packet defines the unit of ingestion for the attractor engine:
// an immutable content payload tagged with its adapter kind, optionally
// carrying a pre-measured coherence and a layer hint.
package packet

import (
	"fmt"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/lattice"
)

// ContentKind tags the adapter domain that produced a packet's content.
// The coherence measurer dispatches on this tag; there is no reflection
// over payload contents.
type ContentKind string

const (
	// KindText marks natural-language token content.
	KindText ContentKind = "text"
	// KindFormula marks chemical formula element content.
	KindFormula ContentKind = "formula"
	// KindSequence marks biological residue content.
	KindSequence ContentKind = "sequence"
	// KindRaw marks opaque content with no structural measure; such
	// packets must supply their coherence explicitly.
	KindRaw ContentKind = "raw"
)

// Valid reports whether the kind is one of the recognized content kinds.
func (k ContentKind) Valid() bool {
	switch k {
	case KindText, KindFormula, KindSequence, KindRaw:
		return true
	default:
		return false
	}
}

// Packet is one unit of input. Packets are values: create one, hand it to
// the engine, and it is not retained beyond producing a trail entry.
//
// Coherence, when non-nil, bypasses measurement and is validated against
// [0,1] at ingestion. LayerHint (1..7, 0 = unset) is a tie-break signal
// only; it never overrides the gravity rule.
type Packet struct {
	Content   string      `json:"content"`
	Kind      ContentKind `json:"kind"`
	Coherence *float64    `json:"coherence,omitempty"`
	LayerHint int         `json:"layer_hint,omitempty"`
}

// Option configures optional packet fields at construction.
type Option func(*Packet)

// WithCoherence supplies a pre-measured coherence value, bypassing the
// measurer.
func WithCoherence(c float64) Option {
	return func(p *Packet) {
		p.Coherence = &c
	}
}

// WithLayerHint declares the layer the packet leans toward. Used only as a
// tie-break during placement.
func WithLayerHint(layer int) Option {
	return func(p *Packet) {
		p.LayerHint = layer
	}
}

// New creates a packet for the given kind and content.
func New(kind ContentKind, content string, opts ...Option) Packet {
	p := Packet{Content: content, Kind: kind}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Validate checks the packet shape. An empty content, unknown kind,
// out-of-range supplied coherence, or out-of-range layer hint all reject
// the packet before it touches engine state.
func (p Packet) Validate() error {
	if p.Content == "" {
		return errors.WrapInvalid(
			fmt.Errorf("empty content: %w", errors.ErrInvalidPacket),
			"Packet", "Validate", "content check")
	}
	if !p.Kind.Valid() {
		return errors.WrapInvalid(
			fmt.Errorf("unknown content kind %q: %w", p.Kind, errors.ErrInvalidPacket),
			"Packet", "Validate", "kind check")
	}
	if p.Coherence != nil && (*p.Coherence < 0 || *p.Coherence > 1) {
		return errors.WrapInvalid(
			fmt.Errorf("supplied coherence %v outside [0,1]: %w", *p.Coherence, errors.ErrInvalidPacket),
			"Packet", "Validate", "coherence check")
	}
	if p.LayerHint != 0 && (p.LayerHint < 1 || p.LayerHint > lattice.Layers) {
		return errors.WrapInvalid(
			fmt.Errorf("layer hint %d outside 1..%d: %w", p.LayerHint, lattice.Layers, errors.ErrInvalidPacket),
			"Packet", "Validate", "layer hint check")
	}
	return nil
}
