package lattice

import (
	"fmt"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
)

// Lattice geometry constants. The lattice quantizes placements onto 7
// ordered layers with 6 phases each, 42 discrete states in total.
const (
	// Layers is the number of hierarchy levels (1 = lowest, 7 = highest).
	Layers = 7
	// Phases is the number of intensity buckets within a layer.
	Phases = 6
	// States is the total number of discrete lattice states.
	States = Layers * Phases

	// Axis layers. Joint visitation of all three triggers the singularity.
	AxisRoot  = 1
	AxisHeart = 4
	AxisCrown = 7
)

// Region groups layers into the fixed three-tier hierarchy used by the
// gravity gate. The grouping is a lookup table, computed once, never mutated.
type Region int

const (
	// RegionBase covers layers 1-2: the foundation tier.
	RegionBase Region = iota
	// RegionRing covers layers 3-5: the integration tier.
	RegionRing
	// RegionApex covers layers 6-7: the abstraction tier.
	RegionApex
)

// String returns the canonical region name
func (r Region) String() string {
	switch r {
	case RegionBase:
		return "BASE"
	case RegionRing:
		return "RING"
	case RegionApex:
		return "APEX"
	default:
		return "UNKNOWN"
	}
}

// layerRegions maps layer (1..7) to its region. Index 0 is unused.
var layerRegions = [Layers + 1]Region{
	1: RegionBase, 2: RegionBase,
	3: RegionRing, 4: RegionRing, 5: RegionRing,
	6: RegionApex, 7: RegionApex,
}

// RegionOf returns the region a layer belongs to. Panics on layers outside
// 1..7: region lookup is only meaningful for valid layers.
func RegionOf(layer int) Region {
	if layer < 1 || layer > Layers {
		panic(fmt.Sprintf("lattice: layer %d out of range", layer))
	}
	return layerRegions[layer]
}

// Span returns the inclusive layer bounds of the region.
func (r Region) Span() (lo, hi int) {
	switch r {
	case RegionBase:
		return 1, 2
	case RegionRing:
		return 3, 5
	default:
		return 6, 7
	}
}

// layerNames maps layer (1..7) to its topic name. Index 0 is unused.
var layerNames = [Layers + 1]string{
	1: "matter", 2: "system", 3: "flow", 4: "life",
	5: "logic", 6: "drive", 7: "spiritual",
}

// LayerName returns the topic name of a layer, or "unknown" for layers
// outside 1..7.
func LayerName(layer int) string {
	if layer < 1 || layer > Layers {
		return "unknown"
	}
	return layerNames[layer]
}

// State is a point in the lattice: a (layer, phase) pair. The zero value is
// the Singularity pseudo-state, which sits outside the 42 regular states and
// carries no phase.
type State struct {
	Layer int `json:"layer"`
	Phase int `json:"phase"`
}

// Singularity is the collapsed/integrated pseudo-state emitted when the
// axis criterion completes.
var Singularity = State{}

// IsSingularity reports whether the state is the singularity pseudo-state.
func (s State) IsSingularity() bool {
	return s.Layer == 0
}

// Valid reports whether the state is one of the 42 regular lattice states
// or the singularity pseudo-state.
func (s State) Valid() bool {
	if s.IsSingularity() {
		return s.Phase == 0
	}
	return s.Layer >= 1 && s.Layer <= Layers && s.Phase >= 1 && s.Phase <= Phases
}

// ID returns the state identifier in 1..42, or 0 for the singularity.
func (s State) ID() int {
	if s.IsSingularity() {
		return 0
	}
	return (s.Layer-1)*Phases + s.Phase
}

// Region returns the region of the state's layer. The singularity has no
// region; callers must not ask for the region of a singularity state.
func (s State) Region() Region {
	return RegionOf(s.Layer)
}

// String formats the state as "layer.phase", or "bindu" for the singularity.
func (s State) String() string {
	if s.IsSingularity() {
		return "bindu"
	}
	return fmt.Sprintf("%d.%d", s.Layer, s.Phase)
}

// StateFromID reconstructs a state from its identifier. ID 0 yields the
// singularity; IDs outside 0..42 are rejected.
func StateFromID(id int) (State, error) {
	if id == 0 {
		return Singularity, nil
	}
	if id < 1 || id > States {
		return State{}, fmt.Errorf("state id %d out of range 0..%d: %w", id, States, errors.ErrCorruptSeed)
	}
	return State{Layer: (id-1)/Phases + 1, Phase: (id-1)%Phases + 1}, nil
}
