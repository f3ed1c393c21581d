// Package config defines the recognized configuration surface of the
// V-CORE engine and its hosting service: shadow thresholds, the foundation
// readiness gate, trail bounds, forbidden transitions, and the NATS
// connection the stream service and seed store use.
//
// All options carry fixed defaults; invalid combinations fail fast at
// construction with ErrInvalidConfig.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/lattice"
)

// Singularity modes, the two resolutions of whether the singularity is a
// transient collapse indicator or a terminal absorbing state.
const (
	// SingularityTransient resets the axis flags after each singularity
	// emission and keeps accepting packets. This is the default.
	SingularityTransient = "transient"
	// SingularityTerminal freezes the engine after the first singularity
	// until an explicit reset.
	SingularityTerminal = "terminal"
)

// Transition is a directed (from, to) pair of lattice states used to
// declare forbidden consecutive placements.
type Transition struct {
	From lattice.State `json:"from" yaml:"from"`
	To   lattice.State `json:"to" yaml:"to"`
}

// Engine holds the attractor engine's recognized options.
type Engine struct {
	// ThetaHigh is the shadow threshold at or above which a packet is
	// forced toward BASE.
	ThetaHigh float64 `json:"theta_high" yaml:"theta_high"`
	// ThetaLow is the shadow threshold at or below which a packet may
	// reach APEX, readiness permitting.
	ThetaLow float64 `json:"theta_low" yaml:"theta_low"`
	// MinFoundationVisits is the combined BASE occupancy required before
	// an APEX candidate is honored.
	MinFoundationVisits uint64 `json:"min_foundation_visits" yaml:"min_foundation_visits"`
	// TrailBound is the sliding-window size of the placement trail.
	TrailBound int `json:"trail_bound" yaml:"trail_bound"`
	// PhaseBins is the number of equal-width coherence buckets mapped to
	// phases. Fixed at 6 by the lattice; exposed for experimentation.
	PhaseBins int `json:"phase_bins" yaml:"phase_bins"`
	// SingularityMode selects transient or terminal singularity behavior.
	SingularityMode string `json:"singularity_mode" yaml:"singularity_mode"`
	// ForbiddenTransitions declares consecutive placements flagged as
	// anomalous. Anomalies are diagnostic, never errors.
	ForbiddenTransitions []Transition `json:"forbidden_transitions,omitempty" yaml:"forbidden_transitions,omitempty"`
}

// NATS defines the connection settings shared by the stream service and
// the KV seed store.
type NATS struct {
	URL           string        `json:"url" yaml:"url"`
	Username      string        `json:"username,omitempty" yaml:"username,omitempty"`
	Password      string        `json:"password,omitempty" yaml:"password,omitempty"`
	Token         string        `json:"token,omitempty" yaml:"token,omitempty"`
	MaxReconnects int           `json:"max_reconnects,omitempty" yaml:"max_reconnects,omitempty"`
	ReconnectWait time.Duration `json:"reconnect_wait,omitempty" yaml:"reconnect_wait,omitempty"`
}

// Service holds the stream service's subjects and checkpointing options.
type Service struct {
	// PacketSubject carries inbound packet JSON.
	PacketSubject string `json:"packet_subject" yaml:"packet_subject"`
	// PlacementSubject carries outbound placement results.
	PlacementSubject string `json:"placement_subject" yaml:"placement_subject"`
	// SummarySubject answers summary requests (request/reply).
	SummarySubject string `json:"summary_subject" yaml:"summary_subject"`
	// SeedBucket is the KV bucket holding seed checkpoints. Empty
	// disables checkpointing.
	SeedBucket string `json:"seed_bucket,omitempty" yaml:"seed_bucket,omitempty"`
	// SeedKey is the KV key within the bucket.
	SeedKey string `json:"seed_key,omitempty" yaml:"seed_key,omitempty"`
	// CheckpointInterval is how often the engine seed is persisted.
	CheckpointInterval time.Duration `json:"checkpoint_interval,omitempty" yaml:"checkpoint_interval,omitempty"`
	// RateLimit caps ingested packets per second. Zero disables limiting.
	RateLimit float64 `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
	// RateBurst is the limiter's burst size when RateLimit is set.
	RateBurst int `json:"rate_burst,omitempty" yaml:"rate_burst,omitempty"`
}

// Config is the complete application configuration.
type Config struct {
	Engine  Engine  `json:"engine" yaml:"engine"`
	NATS    NATS    `json:"nats" yaml:"nats"`
	Service Service `json:"service" yaml:"service"`
}

// DefaultEngine returns the fixed engine defaults.
func DefaultEngine() Engine {
	return Engine{
		ThetaHigh:           0.7,
		ThetaLow:            0.3,
		MinFoundationVisits: 6,
		TrailBound:          256,
		PhaseBins:           lattice.Phases,
		SingularityMode:     SingularityTransient,
	}
}

// Default returns the complete default configuration.
func Default() Config {
	return Config{
		Engine: DefaultEngine(),
		NATS: NATS{
			URL:           "nats://localhost:4222",
			MaxReconnects: 10,
			ReconnectWait: 2 * time.Second,
		},
		Service: Service{
			PacketSubject:      "vcore.packets",
			PlacementSubject:   "vcore.placements",
			SummarySubject:     "vcore.summary",
			SeedKey:            "current",
			CheckpointInterval: 30 * time.Second,
			RateBurst:          64,
		},
	}
}

// Validate checks the engine options. Violations return ErrInvalidConfig.
func (e Engine) Validate() error {
	fail := func(format string, args ...any) error {
		args = append(args, errors.ErrInvalidConfig)
		return errors.WrapInvalid(
			fmt.Errorf(format+": %w", args...),
			"Engine", "Validate", "option check")
	}

	if e.ThetaHigh < 0 || e.ThetaHigh > 1 {
		return fail("theta_high %v outside [0,1]", e.ThetaHigh)
	}
	if e.ThetaLow < 0 || e.ThetaLow > 1 {
		return fail("theta_low %v outside [0,1]", e.ThetaLow)
	}
	if e.ThetaLow >= e.ThetaHigh {
		return fail("theta_low %v must be below theta_high %v", e.ThetaLow, e.ThetaHigh)
	}
	if e.TrailBound < 1 {
		return fail("trail_bound %d must be positive", e.TrailBound)
	}
	if e.PhaseBins < 1 || e.PhaseBins > lattice.Phases {
		return fail("phase_bins %d outside 1..%d", e.PhaseBins, lattice.Phases)
	}
	if e.SingularityMode != SingularityTransient && e.SingularityMode != SingularityTerminal {
		return fail("singularity_mode %q unrecognized", e.SingularityMode)
	}
	for i, tr := range e.ForbiddenTransitions {
		if !tr.From.Valid() || tr.From.IsSingularity() || !tr.To.Valid() || tr.To.IsSingularity() {
			return fail("forbidden_transitions[%d] references invalid state", i)
		}
	}
	return nil
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	if c.Service.RateLimit < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("rate_limit %v must not be negative: %w", c.Service.RateLimit, errors.ErrInvalidConfig),
			"Config", "Validate", "service check")
	}
	return nil
}

// Load reads a configuration file. The format follows the extension:
// .yaml/.yml for YAML, anything else JSON. Missing sections fall back to
// defaults; the merged result is validated before returning.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "config", "Load", "file read")
	}

	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, errors.WrapInvalid(
			fmt.Errorf("parse %s: %w", path, err),
			"config", "Load", "file parse")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
