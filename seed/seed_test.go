package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/config"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/engine"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/packet"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/seed"
)

func populatedEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cfg := config.DefaultEngine()
	cfg.MinFoundationVisits = 1

	e, err := engine.New(cfg)
	require.NoError(t, err)

	for _, c := range []float64{0.1, 0.5, 0.95, 0.3, 0.0} {
		_, err := e.Ingest(packet.New(packet.KindRaw, "probe", packet.WithCoherence(c)))
		require.NoError(t, err)
	}
	return e
}

func TestSnapshotRoundTrip(t *testing.T) {
	e := populatedEngine(t)
	original := e.Summarize()

	s := seed.Snapshot(e)
	assert.Equal(t, seed.SchemaVersion, s.SchemaVersion)
	assert.NotEmpty(t, s.ID)

	restored, err := seed.Restore(s, e.Config())
	require.NoError(t, err)
	assert.Equal(t, original, restored.Summarize())
}

func TestSnapshotDoesNotMutateEngine(t *testing.T) {
	e := populatedEngine(t)
	before := e.Summarize()
	_ = seed.Snapshot(e)
	assert.Equal(t, before, e.Summarize())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	e := populatedEngine(t)
	s := seed.Snapshot(e)

	data, err := s.Encode()
	require.NoError(t, err)
	assert.Less(t, len(data), 1024, "seed stays sub-kilobyte at small trail sizes")

	decoded, err := seed.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, s.Occupancy, decoded.Occupancy)
	assert.Equal(t, s.Trail, decoded.Trail)
	assert.Equal(t, s.AxisFlags, decoded.AxisFlags)
	assert.Equal(t, s.SingularityCount, decoded.SingularityCount)
}

func TestSingularityTrailRecordHasNullPhase(t *testing.T) {
	cfg := config.DefaultEngine()
	cfg.MinFoundationVisits = 1
	e, err := engine.New(cfg)
	require.NoError(t, err)

	for _, c := range []float64{0.0, 0.5, 1.0} { // layers 1, 4, 7: collapse
		_, err := e.Ingest(packet.New(packet.KindRaw, "probe", packet.WithCoherence(c)))
		require.NoError(t, err)
	}
	require.Equal(t, uint64(1), e.Summarize().SingularityCount)

	s := seed.Snapshot(e)
	last := s.Trail[len(s.Trail)-1]
	assert.Nil(t, last.Phase, "singularity entries persist with null phase")
	assert.Equal(t, 0, last.Layer)

	restored, err := seed.Restore(s, cfg)
	require.NoError(t, err)
	assert.Equal(t, e.Summarize(), restored.Summarize())
}

func TestDecodeRejectsCorruptSeeds(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed json", data: `{"schema_version": 1,`},
		{name: "unknown version", data: `{"schema_version": 9, "occupancy": {}, "axis_flags": {}}`},
		{name: "negative occupancy", data: `{"schema_version": 1, "occupancy": {"1": -4}, "axis_flags": {}}`},
		{name: "occupancy layer out of range", data: `{"schema_version": 1, "occupancy": {"8": 1}, "axis_flags": {}}`},
		{name: "negative singularity count", data: `{"schema_version": 1, "occupancy": {}, "axis_flags": {}, "singularity_count": -1}`},
		{
			name: "trail with invalid state",
			data: `{"schema_version": 1, "occupancy": {}, "axis_flags": {}, "trail": [{"layer": 3, "phase": 9, "coherence": 0.5, "seq": 1}]}`,
		},
		{
			name: "trail phase null on regular layer",
			data: `{"schema_version": 1, "occupancy": {}, "axis_flags": {}, "trail": [{"layer": 3, "phase": null, "coherence": 0.5, "seq": 1}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed.Decode([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrCorruptSeed)
		})
	}
}

func TestRestoreRejectsInvalidSeed(t *testing.T) {
	s := seed.Seed{SchemaVersion: 99}
	_, err := seed.Restore(s, config.DefaultEngine())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCorruptSeed)
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := seed.NewFileStore(t.TempDir())
	require.NoError(t, err)

	e := populatedEngine(t)
	s := seed.Snapshot(e)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "current", s))

	loaded, err := store.Load(ctx, "current")
	require.NoError(t, err)
	assert.Equal(t, s.Occupancy, loaded.Occupancy)
	assert.Equal(t, s.Trail, loaded.Trail)

	restored, err := seed.Restore(loaded, e.Config())
	require.NoError(t, err)
	assert.Equal(t, e.Summarize(), restored.Summarize())
}

func TestFileStoreMissingKey(t *testing.T) {
	store, err := seed.NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "absent")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrSeedNotFound)
}

func TestFileStoreOverwrite(t *testing.T) {
	store, err := seed.NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	e := populatedEngine(t)
	require.NoError(t, store.Save(ctx, "current", seed.Snapshot(e)))

	_, err = e.Ingest(packet.New(packet.KindRaw, "probe", packet.WithCoherence(0.6)))
	require.NoError(t, err)
	second := seed.Snapshot(e)
	require.NoError(t, store.Save(ctx, "current", second))

	loaded, err := store.Load(ctx, "current")
	require.NoError(t, err)
	assert.Equal(t, second.Occupancy, loaded.Occupancy)
}
