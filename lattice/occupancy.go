package lattice

import (
	"fmt"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
)

// Occupancy tracks per-layer visit counts. Counts are monotonically
// non-decreasing within a stream; only an explicit engine reset or a seed
// restore replaces them. The invariant maintained by the engine: the sum of
// all counts equals the number of packets ingested since the last reset.
type Occupancy struct {
	visits [Layers + 1]uint64 // index 0 unused
}

// Visit records one placement on the given layer.
func (o *Occupancy) Visit(layer int) {
	if layer < 1 || layer > Layers {
		panic(fmt.Sprintf("lattice: layer %d out of range", layer))
	}
	o.visits[layer]++
}

// Count returns the visit count for a layer.
func (o *Occupancy) Count(layer int) uint64 {
	if layer < 1 || layer > Layers {
		return 0
	}
	return o.visits[layer]
}

// Total returns the sum of all layer counts.
func (o *Occupancy) Total() uint64 {
	var total uint64
	for layer := 1; layer <= Layers; layer++ {
		total += o.visits[layer]
	}
	return total
}

// FoundationMass returns the combined BASE occupancy, the "mass" score the
// gravity gate checks before honoring an APEX candidate.
func (o *Occupancy) FoundationMass() uint64 {
	return o.visits[1] + o.visits[2]
}

// RegionCount returns the combined visit count for a region.
func (o *Occupancy) RegionCount(r Region) uint64 {
	lo, hi := r.Span()
	var total uint64
	for layer := lo; layer <= hi; layer++ {
		total += o.visits[layer]
	}
	return total
}

// Reset zeroes all counts.
func (o *Occupancy) Reset() {
	o.visits = [Layers + 1]uint64{}
}

// Snapshot returns the counts as a 7-entry map keyed by layer, the shape
// the seed schema persists.
func (o *Occupancy) Snapshot() map[int]uint64 {
	snap := make(map[int]uint64, Layers)
	for layer := 1; layer <= Layers; layer++ {
		snap[layer] = o.visits[layer]
	}
	return snap
}

// RestoreOccupancy builds an Occupancy from a persisted snapshot. Layers
// absent from the map restore to zero; layers outside 1..7 are rejected.
func RestoreOccupancy(snap map[int]uint64) (Occupancy, error) {
	var o Occupancy
	for layer, count := range snap {
		if layer < 1 || layer > Layers {
			return Occupancy{}, fmt.Errorf("occupancy layer %d out of range 1..%d: %w",
				layer, Layers, errors.ErrCorruptSeed)
		}
		o.visits[layer] = count
	}
	return o, nil
}
