package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/config"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/engine"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/metric"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/natsclient"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/packet"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/seed"
)

// Status represents the current status of the stream service.
type Status int

// Possible service statuses.
const (
	StatusStopped Status = iota
	StatusStarting
	StatusRunning
	StatusStopping
)

// String returns the string representation of Status.
func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusStarting:
		return "starting"
	case StatusRunning:
		return "running"
	case StatusStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// StreamService hosts one attractor engine. The engine itself provides no
// locking; every access goes through the service mutex, which also makes
// each ingest atomic with respect to summary requests and checkpoints.
type StreamService struct {
	id  string
	cfg config.Config

	mu     sync.Mutex
	engine *engine.Engine

	nats    *natsclient.Client
	store   seed.Store
	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *metric.Metrics

	status        Status
	statusMu      sync.RWMutex
	subscriptions []*nats.Subscription

	done  chan struct{}
	group *errgroup.Group
}

// Option configures optional service collaborators.
type Option func(*StreamService)

// WithNATS attaches the NATS client. Without one the service runs the
// engine and checkpoint loop only, with no subjects wired.
func WithNATS(client *natsclient.Client) Option {
	return func(s *StreamService) { s.nats = client }
}

// WithStore attaches the seed store used for checkpointing and startup
// restore.
func WithStore(store seed.Store) Option {
	return func(s *StreamService) { s.store = store }
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *StreamService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches prometheus instrumentation, shared with the engine.
func WithMetrics(m *metric.Metrics) Option {
	return func(s *StreamService) { s.metrics = m }
}

// New creates a stopped stream service with a fresh engine. Fails fast
// with ErrInvalidConfig on an invalid configuration.
func New(cfg config.Config, opts ...Option) (*StreamService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &StreamService{
		id:     uuid.NewString(),
		cfg:    cfg,
		logger: slog.Default().With("service", "vcore-stream"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.Service.RateLimit > 0 {
		burst := cfg.Service.RateBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Service.RateLimit), burst)
	}

	eng, err := engine.New(cfg.Engine,
		engine.WithLogger(s.logger), engine.WithMetrics(s.metrics))
	if err != nil {
		return nil, err
	}
	s.engine = eng
	return s, nil
}

// ID returns the service's unique stream identifier.
func (s *StreamService) ID() string {
	return s.id
}

// Status returns the current lifecycle status.
func (s *StreamService) Status() Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

func (s *StreamService) setStatus(status Status) {
	s.statusMu.Lock()
	s.status = status
	s.statusMu.Unlock()
	if s.metrics != nil {
		s.metrics.ServiceStatus.Set(float64(status))
	}
}

// Start restores the engine from the last checkpoint when a store is
// attached, wires the NATS subjects, and launches the checkpoint loop.
// A corrupt checkpoint fails the start; a missing one starts fresh.
func (s *StreamService) Start(ctx context.Context) error {
	if current := s.Status(); current != StatusStopped {
		return errors.WrapInvalid(errors.ErrAlreadyStarted, "StreamService", "Start", "state check")
	}
	s.setStatus(StatusStarting)

	if err := s.restore(ctx); err != nil {
		s.setStatus(StatusStopped)
		return err
	}

	if s.nats != nil {
		if err := s.subscribe(); err != nil {
			s.unsubscribe()
			s.setStatus(StatusStopped)
			return err
		}
	}

	s.done = make(chan struct{})
	s.group, ctx = errgroup.WithContext(ctx)

	if s.store != nil && s.cfg.Service.CheckpointInterval > 0 {
		s.group.Go(func() error {
			return s.checkpointLoop(ctx)
		})
	}
	s.group.Go(func() error {
		select {
		case <-ctx.Done():
		case <-s.done:
		}
		return nil
	})

	s.setStatus(StatusRunning)
	s.logger.Info("stream service started",
		"id", s.id,
		"packet_subject", s.cfg.Service.PacketSubject,
		"checkpointing", s.store != nil)
	return nil
}

// Stop unsubscribes, takes a final checkpoint, and waits for background
// loops up to the timeout.
func (s *StreamService) Stop(timeout time.Duration) error {
	if current := s.Status(); current != StatusRunning {
		return errors.WrapInvalid(errors.ErrNotStarted, "StreamService", "Stop", "state check")
	}
	s.setStatus(StatusStopping)

	s.unsubscribe()
	close(s.done)

	if timeout == 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if s.store != nil {
		if err := s.Checkpoint(ctx); err != nil {
			s.logger.Error("final checkpoint failed", "error", err)
		}
	}

	waited := make(chan error, 1)
	go func() { waited <- s.group.Wait() }()
	select {
	case <-waited:
	case <-ctx.Done():
		s.logger.Warn("stop timed out waiting for background loops")
	}

	s.setStatus(StatusStopped)
	s.logger.Info("stream service stopped", "id", s.id)
	return nil
}

// Ingest feeds one packet through the hosted engine. Safe for concurrent
// use; each call is atomic against summaries and checkpoints.
func (s *StreamService) Ingest(pkt packet.Packet) (engine.Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Ingest(pkt)
}

// Summary returns the hosted engine's topological summary.
func (s *StreamService) Summary() engine.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Summarize()
}

// Reset clears the hosted engine between independent streams.
func (s *StreamService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Reset()
}

// restore replaces the fresh engine with one restored from the last
// checkpoint, when the store holds one.
func (s *StreamService) restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	snapshot, err := s.store.Load(ctx, s.seedKey())
	if stderrors.Is(err, errors.ErrSeedNotFound) {
		s.logger.Info("no checkpoint found, starting fresh")
		return nil
	}
	if err != nil {
		s.countSeedError("load")
		return err
	}

	restored, err := seed.Restore(snapshot, s.cfg.Engine,
		engine.WithLogger(s.logger), engine.WithMetrics(s.metrics))
	if err != nil {
		s.countSeedError("restore")
		return err
	}

	s.mu.Lock()
	s.engine = restored
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SeedRestores.Inc()
	}
	s.logger.Info("engine restored from checkpoint",
		"seed_id", snapshot.ID,
		"created_at", snapshot.CreatedAt,
		"packets", snapshotTotal(snapshot))
	return nil
}

func snapshotTotal(s seed.Seed) int64 {
	var total int64
	for _, count := range s.Occupancy {
		total += count
	}
	return total
}

// Checkpoint persists the engine seed to the store.
func (s *StreamService) Checkpoint(ctx context.Context) error {
	if s.store == nil {
		return errors.WrapInvalid(
			fmt.Errorf("no seed store attached: %w", errors.ErrInvalidConfig),
			"StreamService", "Checkpoint", "store check")
	}

	s.mu.Lock()
	snapshot := seed.Snapshot(s.engine)
	s.mu.Unlock()

	if err := s.store.Save(ctx, s.seedKey(), snapshot); err != nil {
		s.countSeedError("save")
		return err
	}
	if s.metrics != nil {
		s.metrics.SeedSnapshots.Inc()
	}
	s.logger.Debug("checkpoint saved", "seed_id", snapshot.ID)
	return nil
}

func (s *StreamService) checkpointLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Service.CheckpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case <-ticker.C:
			if err := s.Checkpoint(ctx); err != nil {
				s.logger.Error("checkpoint failed", "error", err)
			}
		}
	}
}

func (s *StreamService) seedKey() string {
	if s.cfg.Service.SeedKey != "" {
		return s.cfg.Service.SeedKey
	}
	return "current"
}

func (s *StreamService) countSeedError(operation string) {
	if s.metrics != nil {
		s.metrics.SeedErrors.WithLabelValues(operation).Inc()
	}
}
