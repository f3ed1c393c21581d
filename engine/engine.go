package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/coherence"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/config"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/crystal"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/lattice"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/metric"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/packet"
)

// Anomaly reasons surfaced on placements. Anomalies are diagnostic flags,
// never errors: detecting one must not interrupt the stream.
const (
	// AnomalyLoop marks a true no-op repetition: the same placement as
	// the immediately preceding one with coherence unchanged.
	AnomalyLoop = "loop"
	// AnomalyForbidden marks a transition declared forbidden in the
	// engine configuration.
	AnomalyForbidden = "forbidden_transition"
)

// Placement is the result of one ingestion: the assigned state (or the
// singularity pseudo-state), the measured coherence, the sequence index,
// and the optional anomaly diagnostic.
type Placement struct {
	State     lattice.State `json:"state"`
	Coherence float64       `json:"coherence"`
	Seq       uint64        `json:"seq"`
	Anomaly   string        `json:"anomaly,omitempty"`
}

// Summary is the read-only topological summary downstream gating and
// routing logic consumes.
type Summary struct {
	Occupancy          map[int]uint64     `json:"occupancy"`
	Trail              []TrailEntry       `json:"trail"`
	SingularityCount   uint64             `json:"singularity_count"`
	AxisFlags          map[int]bool       `json:"axis_flags"`
	RegionDistribution map[string]float64 `json:"region_distribution"`
	PacketsIngested    uint64             `json:"packets_ingested"`
	Collapsed          bool               `json:"collapsed"`
}

// Engine is the attractor engine: it owns all mutable stream state and
// orchestrates measurement, placement, trail and occupancy bookkeeping,
// and the axis-activation check.
//
// The engine is single-threaded by contract: callers must serialize
// Ingest/Reset against each other and against Summarize if they share an
// engine across goroutines. It provides no internal locking.
type Engine struct {
	cfg          config.Engine
	measurer     *coherence.Measurer
	crystallizer *crystal.Crystallizer

	occupancy     lattice.Occupancy
	trail         *Trail
	axis          lattice.AxisTracker
	singularities uint64
	seq           uint64
	collapsed     bool

	forbidden map[[2]int]struct{}

	logger  *slog.Logger
	metrics *metric.Metrics
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithLogger attaches a structured logger. Without one the engine is
// silent.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics attaches prometheus instrumentation.
func WithMetrics(m *metric.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New creates an engine in the Running state with empty occupancy, empty
// trail, and no axis flags set. Fails fast with ErrInvalidConfig on an
// invalid configuration.
func New(cfg config.Engine, opts ...Option) (*Engine, error) {
	crystallizer, err := crystal.New(cfg)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:          cfg,
		measurer:     coherence.NewMeasurer(),
		crystallizer: crystallizer,
		trail:        NewTrail(cfg.TrailBound),
		forbidden:    forbiddenSet(cfg.ForbiddenTransitions),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func forbiddenSet(transitions []config.Transition) map[[2]int]struct{} {
	if len(transitions) == 0 {
		return nil
	}
	set := make(map[[2]int]struct{}, len(transitions))
	for _, tr := range transitions {
		set[[2]int{tr.From.ID(), tr.To.ID()}] = struct{}{}
	}
	return set
}

// Ingest classifies one packet and applies the resulting state update.
//
// Validation failures (malformed packet, out-of-range supplied coherence)
// are returned before any state is touched: an ingest either fully applies
// or not at all. A collapsed engine (terminal singularity mode) rejects
// further packets until Reset.
func (e *Engine) Ingest(pkt packet.Packet) (Placement, error) {
	if e.collapsed {
		return Placement{}, errors.WrapInvalid(
			fmt.Errorf("reset required: %w", errors.ErrCollapsed),
			"Engine", "Ingest", "state check")
	}

	start := time.Now()

	measured, err := e.measurer.Measure(pkt)
	if err != nil {
		e.countError(err)
		return Placement{}, err
	}

	state, err := e.crystallizer.PlaceHinted(measured, pkt.LayerHint, &e.occupancy)
	if err != nil {
		e.countError(err)
		return Placement{}, err
	}

	// All validation passed; state mutation starts here.
	e.seq++
	placement := Placement{
		State:     state,
		Coherence: measured,
		Seq:       e.seq,
		Anomaly:   e.detectAnomaly(state, measured),
	}

	e.trail.Append(TrailEntry{State: state, Coherence: measured, Seq: e.seq})
	e.occupancy.Visit(state.Layer)
	e.axis.Mark(state.Layer)

	if e.axis.Ready() {
		placement = e.collapse(measured)
	}

	e.observe(placement, state, time.Since(start))
	return placement, nil
}

// collapse handles the axis-activation transition: the singularity
// placement replaces the regular one for this call, the counter advances,
// and the axis flags reset for the next potential cycle. In terminal mode
// the engine additionally freezes until Reset.
func (e *Engine) collapse(measured float64) Placement {
	e.singularities++
	e.axis.Reset()
	if e.cfg.SingularityMode == config.SingularityTerminal {
		e.collapsed = true
	}

	placement := Placement{
		State:     lattice.Singularity,
		Coherence: measured,
		Seq:       e.seq,
	}
	e.trail.Append(TrailEntry{State: lattice.Singularity, Coherence: measured, Seq: e.seq})

	if e.logger != nil {
		e.logger.Info("singularity emitted",
			"count", e.singularities,
			"seq", e.seq,
			"terminal", e.collapsed)
	}
	return placement
}

// detectAnomaly runs the loop and forbidden-jump checks against the
// immediately preceding trail entry.
func (e *Engine) detectAnomaly(state lattice.State, measured float64) string {
	prev, ok := e.trail.Last()
	if !ok {
		return ""
	}
	if prev.State == state && prev.Coherence == measured {
		return AnomalyLoop
	}
	if e.forbidden != nil {
		if _, bad := e.forbidden[[2]int{prev.State.ID(), state.ID()}]; bad {
			return AnomalyForbidden
		}
	}
	return ""
}

func (e *Engine) countError(err error) {
	if e.metrics != nil {
		e.metrics.IngestErrors.WithLabelValues(errors.Classify(err).String()).Inc()
	}
}

func (e *Engine) observe(placement Placement, physical lattice.State, elapsed time.Duration) {
	if e.logger != nil {
		e.logger.Debug("packet placed",
			"state", placement.State.String(),
			"coherence", placement.Coherence,
			"seq", placement.Seq,
			"anomaly", placement.Anomaly)
	}
	if e.metrics == nil {
		return
	}
	e.metrics.PacketsIngested.WithLabelValues(physical.Region().String()).Inc()
	e.metrics.PlacementDuration.Observe(elapsed.Seconds())
	e.metrics.TrailSize.Set(float64(e.trail.Len()))
	if placement.State.IsSingularity() {
		e.metrics.Singularities.Inc()
	}
	if placement.Anomaly != "" {
		e.metrics.Anomalies.WithLabelValues(placement.Anomaly).Inc()
	}
}

// Summarize returns a read-only copy of the engine's topological state.
// Pure: no side effects, safe to call between ingests.
func (e *Engine) Summarize() Summary {
	total := e.occupancy.Total()
	distribution := make(map[string]float64, 3)
	for _, region := range []lattice.Region{lattice.RegionBase, lattice.RegionRing, lattice.RegionApex} {
		if total == 0 {
			distribution[region.String()] = 0
			continue
		}
		distribution[region.String()] = float64(e.occupancy.RegionCount(region)) / float64(total)
	}

	return Summary{
		Occupancy:          e.occupancy.Snapshot(),
		Trail:              e.trail.Entries(),
		SingularityCount:   e.singularities,
		AxisFlags:          e.axis.Flags(),
		RegionDistribution: distribution,
		PacketsIngested:    total,
		Collapsed:          e.collapsed,
	}
}

// Reset clears occupancy, trail, axis flags, and the singularity counter,
// returning the engine to Running. Used between independent streams.
func (e *Engine) Reset() {
	e.occupancy.Reset()
	e.trail.Reset()
	e.axis.Reset()
	e.singularities = 0
	e.seq = 0
	e.collapsed = false

	if e.logger != nil {
		e.logger.Info("engine reset")
	}
	if e.metrics != nil {
		e.metrics.TrailSize.Set(0)
	}
}

// Config returns the engine's configuration.
func (e *Engine) Config() config.Engine {
	return e.cfg
}

// RestoredState carries the fields a seed restores directly, bypassing
// placement logic.
type RestoredState struct {
	Occupancy        map[int]uint64
	Trail            []TrailEntry
	AxisFlags        map[int]bool
	SingularityCount uint64
}

// Restore constructs an engine whose state is set directly from a
// snapshot: occupancy and trail are installed, not replayed. Trail entries
// referencing invalid states reject the snapshot with ErrCorruptSeed.
func Restore(cfg config.Engine, st RestoredState, opts ...Option) (*Engine, error) {
	e, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	e.occupancy, err = lattice.RestoreOccupancy(st.Occupancy)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Engine", "Restore", "occupancy validation")
	}

	for _, entry := range st.Trail {
		if !entry.State.Valid() {
			return nil, errors.WrapInvalid(
				fmt.Errorf("trail entry references invalid state (%d,%d): %w",
					entry.State.Layer, entry.State.Phase, errors.ErrCorruptSeed),
				"Engine", "Restore", "trail validation")
		}
		e.trail.Append(entry)
		if entry.Seq > e.seq {
			e.seq = entry.Seq
		}
	}
	if total := e.occupancy.Total(); total > e.seq {
		e.seq = total
	}

	e.axis = lattice.RestoreAxis(st.AxisFlags)
	e.singularities = st.SingularityCount
	e.collapsed = cfg.SingularityMode == config.SingularityTerminal && st.SingularityCount > 0
	return e, nil
}
