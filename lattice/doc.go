// Package lattice defines the fixed geometry of the V-CORE quantization
// lattice: 7 ordered layers, 6 phases per layer, 42 discrete states, and
// the distinguished singularity pseudo-state.
//
// The package also holds the two pieces of derived bookkeeping the
// crystallizer and engine share:
//
//   - Occupancy: monotonic per-layer visit counters, including the
//     foundation mass the gravity gate reads.
//   - AxisTracker: activation flags over the (1, 4, 7) layer triple whose
//     joint visitation collapses the engine into the singularity state.
//
// Layers group into three fixed regions: BASE {1,2}, RING {3,4,5} and
// APEX {6,7}. The grouping is a precomputed lookup table and is never
// mutated; it exists only to drive readiness gating, not per-packet state.
//
// Everything here is a plain value type with no dependencies; all placement
// policy lives in the crystal package, all mutation ordering in engine.
package lattice
