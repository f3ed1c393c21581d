// Package crystal implements the lattice crystallizer: the pure placement
// rule that maps a coherence score and the current occupancy onto one of
// the 42 lattice states.
//
// Placement follows the gravity rule set over shadow (1 - coherence):
// heavy shadow forces the BASE region, light shadow permits APEX, and the
// middle band lands on RING. An APEX candidate is only honored once the
// foundation-readiness gate is satisfied; otherwise it is downgraded one
// region. Within the chosen region the layer is interpolated linearly over
// the region's shadow band, and the phase is the packet's coherence bucket.
package crystal

import (
	"fmt"
	"math"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/config"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/lattice"
)

// Crystallizer derives placements. It is stateless: every decision is a
// pure function of coherence and the occupancy it is handed.
type Crystallizer struct {
	cfg config.Engine
}

// New creates a crystallizer, validating the configuration first.
func New(cfg config.Engine) (*Crystallizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Crystallizer{cfg: cfg}, nil
}

// Place maps a coherence value onto a lattice state given the current
// occupancy. Total over [0,1]: every in-range coherence yields exactly one
// valid state. Out-of-range or NaN coherence means a caller bypassed
// measurement validation and is rejected with ErrInvalidCoherence.
func (c *Crystallizer) Place(coherence float64, occ *lattice.Occupancy) (lattice.State, error) {
	return c.PlaceHinted(coherence, 0, occ)
}

// PlaceHinted is Place with a declared layer hint (0 = none). The hint
// breaks interpolation ties within the chosen region only; it never
// overrides the gravity rule.
func (c *Crystallizer) PlaceHinted(coherence float64, hint int, occ *lattice.Occupancy) (lattice.State, error) {
	if math.IsNaN(coherence) || coherence < 0 || coherence > 1 {
		return lattice.State{}, errors.WrapInvalid(
			fmt.Errorf("coherence %v outside [0,1]: %w", coherence, errors.ErrInvalidCoherence),
			"Crystallizer", "Place", "precondition check")
	}

	shadow := 1 - coherence
	region := c.regionFor(shadow)

	// Foundation-readiness gate: APEX needs BASE mass. RING is never
	// downgraded further.
	if region == lattice.RegionApex && occ.FoundationMass() < c.cfg.MinFoundationVisits {
		region = lattice.RegionRing
	}

	return lattice.State{
		Layer: c.layerFor(region, shadow, hint),
		Phase: c.phaseFor(coherence),
	}, nil
}

// regionFor partitions shadow by the two thresholds.
func (c *Crystallizer) regionFor(shadow float64) lattice.Region {
	switch {
	case shadow >= c.cfg.ThetaHigh:
		return lattice.RegionBase
	case shadow <= c.cfg.ThetaLow:
		return lattice.RegionApex
	default:
		return lattice.RegionRing
	}
}

// shadowBand returns the shadow interval that maps onto the region.
func (c *Crystallizer) shadowBand(region lattice.Region) (lo, hi float64) {
	switch region {
	case lattice.RegionBase:
		return c.cfg.ThetaHigh, 1
	case lattice.RegionApex:
		return 0, c.cfg.ThetaLow
	default:
		return c.cfg.ThetaLow, c.cfg.ThetaHigh
	}
}

// layerFor interpolates shadow across the region's layer span: more shadow,
// lower layer. Shadow outside the region's band (a downgraded candidate)
// clamps to the band edge.
func (c *Crystallizer) layerFor(region lattice.Region, shadow float64, hint int) int {
	layerLo, layerHi := region.Span()
	bandLo, bandHi := c.shadowBand(region)

	t := (shadow - bandLo) / (bandHi - bandLo)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	span := float64(layerHi - layerLo)
	pos := float64(layerHi) - t*span

	// A position halfway between two layers is the one tie the layer hint
	// may break, and only toward one of the two tied layers. The halfway
	// check tolerates float error from the band arithmetic.
	const tieEps = 1e-9
	frac := pos - math.Floor(pos)
	if math.Abs(frac-0.5) < tieEps {
		lower := int(math.Floor(pos))
		upper := int(math.Ceil(pos))
		if hint == lower || hint == upper {
			return hint
		}
		return upper
	}

	layer := int(math.Round(pos))
	if layer < layerLo {
		layer = layerLo
	}
	if layer > layerHi {
		layer = layerHi
	}
	return layer
}

// phaseFor buckets coherence into equal-width phase bins over [0,1].
func (c *Crystallizer) phaseFor(coherence float64) int {
	phase := int(math.Ceil(coherence * float64(c.cfg.PhaseBins)))
	if phase < 1 {
		return 1
	}
	if phase > c.cfg.PhaseBins {
		return c.cfg.PhaseBins
	}
	return phase
}
