// Package seed implements seed memory: a minimal, versioned snapshot of
// attractor engine state. A seed captures the occupancy histogram, the
// bounded trail window, the axis flags, and the singularity count — enough
// to restore an observationally equivalent engine, and nothing more. Full
// packet history beyond the trail window is not recoverable by design.
package seed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/config"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/engine"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/lattice"
)

// SchemaVersion is the current seed schema. Seeds carrying an
// unrecognized version are rejected on decode.
const SchemaVersion = 1

// TrailRecord is the persisted form of one trail entry. Phase is null for
// singularity entries, which carry no phase.
type TrailRecord struct {
	Layer     int     `json:"layer"`
	Phase     *int    `json:"phase"`
	Coherence float64 `json:"coherence"`
	Seq       uint64  `json:"seq"`
}

// Seed is a serializable snapshot of engine state. Seeds are immutable
// once created and stay sub-kilobyte at the default trail bound.
type Seed struct {
	SchemaVersion    int            `json:"schema_version"`
	ID               string         `json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	Occupancy        map[int]int64  `json:"occupancy"`
	Trail            []TrailRecord  `json:"trail"`
	AxisFlags        map[int]bool   `json:"axis_flags"`
	SingularityCount int64          `json:"singularity_count"`
}

// Snapshot extracts a seed from a live engine. Pure extraction: the
// engine is not mutated.
func Snapshot(e *engine.Engine) Seed {
	summary := e.Summarize()

	occupancy := make(map[int]int64, len(summary.Occupancy))
	for layer, count := range summary.Occupancy {
		occupancy[layer] = int64(count)
	}

	trail := make([]TrailRecord, len(summary.Trail))
	for i, entry := range summary.Trail {
		record := TrailRecord{
			Layer:     entry.State.Layer,
			Coherence: entry.Coherence,
			Seq:       entry.Seq,
		}
		if !entry.State.IsSingularity() {
			phase := entry.State.Phase
			record.Phase = &phase
		}
		trail[i] = record
	}

	return Seed{
		SchemaVersion:    SchemaVersion,
		ID:               uuid.NewString(),
		CreatedAt:        time.Now().UTC(),
		Occupancy:        occupancy,
		Trail:            trail,
		AxisFlags:        summary.AxisFlags,
		SingularityCount: int64(summary.SingularityCount),
	}
}

// Validate checks the seed's internal consistency: recognized schema
// version, non-negative counts, and trail records referencing valid
// lattice states.
func (s Seed) Validate() error {
	fail := func(format string, args ...any) error {
		args = append(args, errors.ErrCorruptSeed)
		return errors.WrapInvalid(
			fmt.Errorf(format+": %w", args...),
			"Seed", "Validate", "consistency check")
	}

	if s.SchemaVersion != SchemaVersion {
		return fail("unrecognized schema version %d", s.SchemaVersion)
	}
	for layer, count := range s.Occupancy {
		if layer < 1 || layer > lattice.Layers {
			return fail("occupancy layer %d out of range", layer)
		}
		if count < 0 {
			return fail("occupancy[%d] is negative (%d)", layer, count)
		}
	}
	if s.SingularityCount < 0 {
		return fail("singularity count is negative (%d)", s.SingularityCount)
	}
	for i, record := range s.Trail {
		if !record.state().Valid() {
			return fail("trail[%d] references invalid state", i)
		}
	}
	return nil
}

func (r TrailRecord) state() lattice.State {
	if r.Phase == nil {
		return lattice.State{Layer: r.Layer}
	}
	return lattice.State{Layer: r.Layer, Phase: *r.Phase}
}

// Restore constructs an engine from a seed, bypassing normal ingestion:
// occupancy and trail are set directly, not replayed through placement
// logic. Fails with ErrCorruptSeed on inconsistent seeds.
func Restore(s Seed, cfg config.Engine, opts ...engine.Option) (*engine.Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	occupancy := make(map[int]uint64, len(s.Occupancy))
	for layer, count := range s.Occupancy {
		occupancy[layer] = uint64(count)
	}

	trail := make([]engine.TrailEntry, len(s.Trail))
	for i, record := range s.Trail {
		trail[i] = engine.TrailEntry{
			State:     record.state(),
			Coherence: record.Coherence,
			Seq:       record.Seq,
		}
	}

	return engine.Restore(cfg, engine.RestoredState{
		Occupancy:        occupancy,
		Trail:            trail,
		AxisFlags:        s.AxisFlags,
		SingularityCount: uint64(s.SingularityCount),
	}, opts...)
}

// Encode serializes the seed for persistence.
func (s Seed) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "Seed", "Encode", "json marshal")
	}
	return data, nil
}

// Decode parses and validates a persisted seed. Malformed JSON and
// unrecognized schema versions both reject with ErrCorruptSeed.
func Decode(data []byte) (Seed, error) {
	var s Seed
	if err := json.Unmarshal(data, &s); err != nil {
		return Seed{}, errors.WrapInvalid(
			fmt.Errorf("json unmarshal: %v: %w", err, errors.ErrCorruptSeed),
			"Seed", "Decode", "json parse")
	}
	if err := s.Validate(); err != nil {
		return Seed{}, err
	}
	return s, nil
}
