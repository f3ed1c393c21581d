package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/config"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/packet"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/seed"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/service"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Engine.MinFoundationVisits = 1
	cfg.Service.CheckpointInterval = 0
	return cfg
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "stopped", service.StatusStopped.String())
	assert.Equal(t, "starting", service.StatusStarting.String())
	assert.Equal(t, "running", service.StatusRunning.String())
	assert.Equal(t, "stopping", service.StatusStopping.String())
	assert.Equal(t, "unknown", service.Status(99).String())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Engine.ThetaLow = 0.9

	_, err := service.New(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestIngestAndSummary(t *testing.T) {
	svc, err := service.New(testConfig())
	require.NoError(t, err)

	placement, err := svc.Ingest(packet.New(packet.KindRaw, "probe", packet.WithCoherence(0.9)))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), placement.Seq)

	summary := svc.Summary()
	assert.Equal(t, uint64(1), summary.PacketsIngested)
}

func TestLifecycleWithoutNATS(t *testing.T) {
	svc, err := service.New(testConfig())
	require.NoError(t, err)
	assert.Equal(t, service.StatusStopped, svc.Status())

	ctx := context.Background()
	require.NoError(t, svc.Start(ctx))
	assert.Equal(t, service.StatusRunning, svc.Status())

	err = svc.Start(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAlreadyStarted)

	require.NoError(t, svc.Stop(time.Second))
	assert.Equal(t, service.StatusStopped, svc.Status())

	err = svc.Stop(time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotStarted)
}

func TestCheckpointAndRestore(t *testing.T) {
	store, err := seed.NewFileStore(t.TempDir())
	require.NoError(t, err)

	cfg := testConfig()
	svc, err := service.New(cfg, service.WithStore(store))
	require.NoError(t, err)

	for _, c := range []float64{0.9, 0.5, 0.1} {
		_, err := svc.Ingest(packet.New(packet.KindRaw, "probe", packet.WithCoherence(c)))
		require.NoError(t, err)
	}
	want := svc.Summary()

	ctx := context.Background()
	require.NoError(t, svc.Checkpoint(ctx))

	revived, err := service.New(cfg, service.WithStore(store))
	require.NoError(t, err)
	require.NoError(t, revived.Start(ctx))
	defer func() { _ = revived.Stop(time.Second) }()

	assert.Equal(t, want, revived.Summary())
}

func TestStartWithEmptyStoreStartsFresh(t *testing.T) {
	store, err := seed.NewFileStore(t.TempDir())
	require.NoError(t, err)

	svc, err := service.New(testConfig(), service.WithStore(store))
	require.NoError(t, err)

	require.NoError(t, svc.Start(context.Background()))
	defer func() { _ = svc.Stop(time.Second) }()

	assert.Equal(t, uint64(0), svc.Summary().PacketsIngested)
}

func TestStopTakesFinalCheckpoint(t *testing.T) {
	store, err := seed.NewFileStore(t.TempDir())
	require.NoError(t, err)

	cfg := testConfig()
	svc, err := service.New(cfg, service.WithStore(store))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, svc.Start(ctx))

	_, err = svc.Ingest(packet.New(packet.KindRaw, "probe", packet.WithCoherence(0.4)))
	require.NoError(t, err)
	require.NoError(t, svc.Stop(time.Second))

	saved, err := store.Load(ctx, cfg.Service.SeedKey)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Occupancy[4])
}

func TestCheckpointWithoutStore(t *testing.T) {
	svc, err := service.New(testConfig())
	require.NoError(t, err)

	err = svc.Checkpoint(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestServiceIDsAreUnique(t *testing.T) {
	a, err := service.New(testConfig())
	require.NoError(t, err)
	b, err := service.New(testConfig())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestHealthFollowsLifecycle(t *testing.T) {
	svc, err := service.New(testConfig())
	require.NoError(t, err)

	status := svc.Health()
	assert.True(t, status.IsUnhealthy(), "stopped service is unhealthy")

	ctx := context.Background()
	require.NoError(t, svc.Start(ctx))
	assert.True(t, svc.Health().IsHealthy())

	require.NoError(t, svc.Stop(time.Second))
	assert.True(t, svc.Health().IsUnhealthy())
}

func TestHealthDegradedWhenCollapsed(t *testing.T) {
	cfg := testConfig()
	cfg.Engine.SingularityMode = config.SingularityTerminal
	svc, err := service.New(cfg)
	require.NoError(t, err)
	require.NoError(t, svc.Start(context.Background()))
	defer func() { _ = svc.Stop(time.Second) }()

	// Layers 1, 4, 7 complete the axis and freeze the terminal engine.
	for _, c := range []float64{0.0, 0.5, 1.0} {
		_, err := svc.Ingest(packet.New(packet.KindRaw, "probe", packet.WithCoherence(c)))
		require.NoError(t, err)
	}
	require.True(t, svc.Summary().Collapsed)

	status := svc.Health()
	assert.True(t, status.IsDegraded())

	svc.Reset()
	assert.True(t, svc.Health().IsHealthy())
}

func TestPeriodicCheckpointLoop(t *testing.T) {
	store, err := seed.NewFileStore(t.TempDir())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Service.CheckpointInterval = 20 * time.Millisecond
	svc, err := service.New(cfg, service.WithStore(store))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, svc.Start(ctx))
	defer func() { _ = svc.Stop(time.Second) }()

	_, err = svc.Ingest(packet.New(packet.KindRaw, "probe", packet.WithCoherence(0.5)))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		saved, loadErr := store.Load(ctx, cfg.Service.SeedKey)
		return loadErr == nil && saved.Occupancy[4] == 1
	}, time.Second, 10*time.Millisecond)
}
