// Package engine implements the attractor engine, the stateful core of
// the V-CORE topological chip.
//
// # Overview
//
// The engine accepts packets, measures their coherence, crystallizes a
// (layer, phase) placement under the gravity rule set, and maintains the
// stream's topological bookkeeping: per-layer occupancy, a bounded
// placement trail, and the axis-activation flags over layers 1, 4 and 7.
// When all three axis layers have been visited the engine emits the
// singularity pseudo-state instead of a regular placement, increments its
// singularity counter, and (in the default transient mode) resets the axis
// flags and keeps running. In terminal mode the first singularity freezes
// the engine until Reset.
//
// # Data flow
//
//	Packet -> coherence.Measurer -> crystal.Crystallizer -> state update
//	       -> trail append -> occupancy increment -> axis check
//	       -> Placement / Summary / seed
//
// # Atomicity
//
// Ingest either fully applies or not at all: validation failures surface
// before the first mutation, so occupancy, trail and axis flags are
// untouched by a rejected packet.
//
// # Concurrency
//
// The engine is deliberately lock-free and single-threaded. Hosting code
// that ingests from concurrent producers must serialize Ingest/Reset
// behind one mutual-exclusion boundary; the service package does exactly
// that.
//
// # Anomalies
//
// A placement equal to the immediately preceding one with unchanged
// coherence, or a transition declared forbidden in the configuration, is
// flagged on the result as a diagnostic. Anomalies never fail ingestion.
package engine
