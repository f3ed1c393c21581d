package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/config"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/engine"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/lattice"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/packet"
)

func newEngine(t *testing.T, mutate func(*config.Engine)) *engine.Engine {
	t.Helper()
	cfg := config.DefaultEngine()
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := engine.New(cfg)
	require.NoError(t, err)
	return e
}

func rawPacket(coherence float64) packet.Packet {
	return packet.New(packet.KindRaw, "probe", packet.WithCoherence(coherence))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultEngine()
	cfg.TrailBound = 0

	_, err := engine.New(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestOccupancyConservation(t *testing.T) {
	e := newEngine(t, nil)

	const n = 50
	for i := 0; i < n; i++ {
		_, err := e.Ingest(rawPacket(float64(i) / n))
		require.NoError(t, err)
	}

	summary := e.Summarize()
	var total uint64
	for _, count := range summary.Occupancy {
		total += count
	}
	assert.Equal(t, uint64(n), total)
	assert.Equal(t, uint64(n), summary.PacketsIngested)
}

// The concrete gating scenario: theta_high=0.7, theta_low=0.3,
// min_foundation_visits=2, trail_bound=5, coherence sequence
// [0.9, 0.9, 0.1, 0.1, 0.9]. The first two light packets are downgraded to
// RING because the foundation is cold; two heavy packets build BASE mass;
// the final light packet reaches APEX.
func TestFoundationGateScenario(t *testing.T) {
	e := newEngine(t, func(cfg *config.Engine) {
		cfg.MinFoundationVisits = 2
		cfg.TrailBound = 5
	})

	expected := []lattice.Region{
		lattice.RegionRing,
		lattice.RegionRing,
		lattice.RegionBase,
		lattice.RegionBase,
		lattice.RegionApex,
	}

	for i, coherence := range []float64{0.9, 0.9, 0.1, 0.1, 0.9} {
		placement, err := e.Ingest(rawPacket(coherence))
		require.NoError(t, err)
		assert.Equal(t, expected[i], placement.State.Region(), "ingest %d", i+1)
	}
}

func TestAxisTriggersSingularityExactlyOnce(t *testing.T) {
	e := newEngine(t, nil)

	// Visit layer 4 (mid coherence), then build six layer-1 visits so the
	// foundation gate opens, then reach layer 7.
	placement, err := e.Ingest(rawPacket(0.5))
	require.NoError(t, err)
	assert.Equal(t, 4, placement.State.Layer)

	for i := 0; i < 6; i++ {
		placement, err = e.Ingest(rawPacket(0.0))
		require.NoError(t, err)
		assert.Equal(t, 1, placement.State.Layer)
		assert.False(t, placement.State.IsSingularity())
	}

	placement, err = e.Ingest(rawPacket(1.0))
	require.NoError(t, err)
	assert.True(t, placement.State.IsSingularity(),
		"the ingest completing the axis must emit the singularity")

	summary := e.Summarize()
	assert.Equal(t, uint64(1), summary.SingularityCount)
	assert.Equal(t, map[int]bool{1: false, 4: false, 7: false}, summary.AxisFlags,
		"axis flags reset immediately after emission")
	assert.False(t, summary.Collapsed)

	// The engine keeps running: the next packet places normally.
	placement, err = e.Ingest(rawPacket(0.5))
	require.NoError(t, err)
	assert.False(t, placement.State.IsSingularity())
	assert.Equal(t, uint64(1), e.Summarize().SingularityCount)
}

func TestTerminalModeFreezesEngine(t *testing.T) {
	e := newEngine(t, func(cfg *config.Engine) {
		cfg.SingularityMode = config.SingularityTerminal
		cfg.MinFoundationVisits = 1
	})

	_, err := e.Ingest(rawPacket(0.5)) // layer 4
	require.NoError(t, err)
	_, err = e.Ingest(rawPacket(0.0)) // layer 1
	require.NoError(t, err)
	placement, err := e.Ingest(rawPacket(1.0)) // layer 7, completes the axis
	require.NoError(t, err)
	require.True(t, placement.State.IsSingularity())

	assert.True(t, e.Summarize().Collapsed)

	_, err = e.Ingest(rawPacket(0.5))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCollapsed)

	e.Reset()
	_, err = e.Ingest(rawPacket(0.5))
	assert.NoError(t, err)
}

func TestIngestAtomicity(t *testing.T) {
	e := newEngine(t, nil)

	_, err := e.Ingest(rawPacket(0.5))
	require.NoError(t, err)
	before := e.Summarize()

	_, err = e.Ingest(rawPacket(1.5))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidPacket)

	_, err = e.Ingest(packet.New(packet.KindText, ""))
	require.Error(t, err)

	after := e.Summarize()
	assert.Equal(t, before.Occupancy, after.Occupancy)
	assert.Equal(t, before.Trail, after.Trail)
	assert.Equal(t, before.AxisFlags, after.AxisFlags)
	assert.Equal(t, before.SingularityCount, after.SingularityCount)
}

func TestLoopAnomaly(t *testing.T) {
	e := newEngine(t, nil)

	first, err := e.Ingest(rawPacket(0.5))
	require.NoError(t, err)
	assert.Empty(t, first.Anomaly)

	second, err := e.Ingest(rawPacket(0.5))
	require.NoError(t, err)
	assert.Equal(t, engine.AnomalyLoop, second.Anomaly,
		"identical placement with unchanged coherence is a no-op repetition")

	// Same placement but different coherence within the same bucket range
	// is not a loop.
	third, err := e.Ingest(rawPacket(0.48))
	require.NoError(t, err)
	assert.Empty(t, third.Anomaly)
}

func TestForbiddenTransitionAnomaly(t *testing.T) {
	// coherence 0.5 places at 4.3; coherence 0.0 places at 1.1.
	e := newEngine(t, func(cfg *config.Engine) {
		cfg.ForbiddenTransitions = []config.Transition{
			{
				From: lattice.State{Layer: 4, Phase: 3},
				To:   lattice.State{Layer: 1, Phase: 1},
			},
		}
	})

	_, err := e.Ingest(rawPacket(0.5))
	require.NoError(t, err)

	placement, err := e.Ingest(rawPacket(0.0))
	require.NoError(t, err)
	assert.Equal(t, engine.AnomalyForbidden, placement.Anomaly)

	// The reverse direction is not declared and passes clean.
	placement, err = e.Ingest(rawPacket(0.5))
	require.NoError(t, err)
	assert.Empty(t, placement.Anomaly)
}

func TestTrailEviction(t *testing.T) {
	e := newEngine(t, func(cfg *config.Engine) {
		cfg.TrailBound = 3
	})

	coherences := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	for _, c := range coherences {
		_, err := e.Ingest(rawPacket(c))
		require.NoError(t, err)
	}

	trail := e.Summarize().Trail
	require.Len(t, trail, 3)
	assert.Equal(t, 0.3, trail[0].Coherence)
	assert.Equal(t, 0.5, trail[2].Coherence)
	assert.Equal(t, uint64(3), trail[0].Seq)
	assert.Equal(t, uint64(5), trail[2].Seq)
}

func TestMeasuredIngestUsesContentKind(t *testing.T) {
	e := newEngine(t, nil)

	// "water" hits the ideal vowel ratio: coherence 1.0, light shadow.
	placement, err := e.Ingest(packet.New(packet.KindText, "water"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, placement.Coherence)
	assert.Equal(t, lattice.RegionRing, placement.State.Region(),
		"cold foundation downgrades the APEX candidate")
}

func TestSummarizeRegionDistribution(t *testing.T) {
	e := newEngine(t, func(cfg *config.Engine) {
		cfg.MinFoundationVisits = 0
	})

	_, err := e.Ingest(rawPacket(0.0)) // BASE
	require.NoError(t, err)
	_, err = e.Ingest(rawPacket(0.5)) // RING
	require.NoError(t, err)
	_, err = e.Ingest(rawPacket(0.95)) // APEX
	require.NoError(t, err)
	_, err = e.Ingest(rawPacket(0.92)) // APEX
	require.NoError(t, err)

	dist := e.Summarize().RegionDistribution
	assert.InDelta(t, 0.25, dist["BASE"], 1e-9)
	assert.InDelta(t, 0.25, dist["RING"], 1e-9)
	assert.InDelta(t, 0.5, dist["APEX"], 1e-9)
}

func TestSummarizeEmptyEngine(t *testing.T) {
	e := newEngine(t, nil)
	summary := e.Summarize()

	assert.Equal(t, uint64(0), summary.PacketsIngested)
	assert.Empty(t, summary.Trail)
	assert.Equal(t, 0.0, summary.RegionDistribution["BASE"])
}

func TestReset(t *testing.T) {
	e := newEngine(t, nil)

	for i := 0; i < 10; i++ {
		_, err := e.Ingest(rawPacket(0.5))
		require.NoError(t, err)
	}
	e.Reset()

	summary := e.Summarize()
	assert.Equal(t, uint64(0), summary.PacketsIngested)
	assert.Empty(t, summary.Trail)
	assert.Equal(t, uint64(0), summary.SingularityCount)
	assert.Equal(t, map[int]bool{1: false, 4: false, 7: false}, summary.AxisFlags)
}

func TestRestoreValidation(t *testing.T) {
	cfg := config.DefaultEngine()

	_, err := engine.Restore(cfg, engine.RestoredState{
		Occupancy: map[int]uint64{9: 1},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCorruptSeed)

	_, err = engine.Restore(cfg, engine.RestoredState{
		Trail: []engine.TrailEntry{
			{State: lattice.State{Layer: 3, Phase: 9}},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCorruptSeed)
}

func TestRestoreContinuesStream(t *testing.T) {
	e := newEngine(t, nil)
	for _, c := range []float64{0.1, 0.5, 0.9} {
		_, err := e.Ingest(rawPacket(c))
		require.NoError(t, err)
	}
	original := e.Summarize()

	restored, err := engine.Restore(e.Config(), engine.RestoredState{
		Occupancy:        original.Occupancy,
		Trail:            original.Trail,
		AxisFlags:        original.AxisFlags,
		SingularityCount: original.SingularityCount,
	})
	require.NoError(t, err)
	assert.Equal(t, original, restored.Summarize())

	// Sequence numbering continues past the restored trail.
	placement, err := restored.Ingest(rawPacket(0.4))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), placement.Seq)
}
