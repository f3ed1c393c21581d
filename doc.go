// Package vcore provides a deterministic topological attractor engine:
// a stream processor that ingests symbolic packets, measures their
// coherence, and places them onto a 7-layer, 6-phase lattice governed by
// gravity-like routing rules.
//
// # Model
//
// Every packet carries content and a coherence in [0,1], either supplied
// by the sender or measured from the content. Its complement, the shadow,
// decides the packet's vertical pull:
//
//	shadow >= theta_high  -> BASE  (layers 1-2, the foundation)
//	shadow <= theta_low   -> APEX  (layers 6-7, the abstraction tier)
//	otherwise             -> RING  (layers 3-5, the integration tier)
//
// APEX is gated: until the BASE layers have absorbed enough packets, an
// APEX candidate is held down in RING. Structure must exist before
// abstraction is honored.
//
// Within its region a packet interpolates to a concrete layer by shadow
// depth and quantizes its coherence into one of six phases, yielding one
// of 42 discrete states. Alongside the lattice the engine keeps a bounded
// trail of recent placements and watches the central axis: once layers 1,
// 4, and 7 have all been visited, the stream collapses into the
// singularity pseudo-state, the event counter advances, and the axis
// re-arms (or the engine freezes, in terminal mode).
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│          Stream Service             │  NATS subjects,
//	│  (ingest, summary, checkpoints)     │  lifecycle, rate limits
//	└─────────────────────────────────────┘
//	           ↓ serializes access to
//	┌─────────────────────────────────────┐
//	│         Attractor Engine            │  measurement, placement,
//	│   (coherence, crystal, lattice)     │  trail, axis, anomalies
//	└─────────────────────────────────────┘
//	           ↓ snapshots to
//	┌─────────────────────────────────────┐
//	│          Seed Memory                │  versioned JSON,
//	│     (file store, NATS KV store)     │  sub-kilobyte state
//	└─────────────────────────────────────┘
//
// The engine is deterministic and single-threaded by contract; the
// service layer owns the mutex and makes each ingest atomic against
// summary requests and seed checkpoints. A seed snapshot captures the
// occupancy histogram, the trail window, the axis flags, and the
// singularity count - enough to restore an observationally equivalent
// engine in a fresh process, but never the full packet history.
//
// # Packages
//
// Core:
//   - lattice: geometry, regions, occupancy, axis tracking
//   - packet: the inbound packet type and its validation
//   - coherence: per-kind coherence measurement
//   - crystal: gravity placement and the readiness gate
//   - engine: ingestion orchestration, trail, anomaly detection
//   - seed: snapshot/restore and the seed stores
//
// Infrastructure:
//   - config: configuration loading and validation
//   - errors: structured error handling
//   - metric: Prometheus metrics
//   - natsclient: NATS connection and KV management
//   - service: the NATS-facing stream service
//   - pkg/retry: retry policies
//
// Adapters (packet producers):
//   - adapter/linguistics: words via vowel balance and letter weights
//   - adapter/chemformula: chemical formulas as per-atom event streams
//   - adapter/bioseq: amino acid sequences via residue categories
//
// # Usage
//
// Embedded:
//
//	eng, _ := engine.New(config.DefaultEngine())
//	placement, _ := eng.Ingest(packet.New(packet.KindText, "WATER"))
//	summary := eng.Summarize()
//
// Hosted over NATS:
//
//	client, _ := natsclient.Connect(ctx, cfg.NATS, logger)
//	store, _ := seed.NewKVStore(ctx, client, cfg.Service.SeedBucket)
//	svc, _ := service.New(cfg,
//	    service.WithNATS(client),
//	    service.WithStore(store),
//	    service.WithLogger(logger))
//	svc.Start(ctx)
//
// # Binary
//
// The vcore binary hosts the service or runs demo ingestions:
//
//	# Ingest words and print the lattice
//	./bin/vcore words WATER LOVE TRUTH
//
//	# Persist and resume across runs
//	./bin/vcore -seed-dir=/tmp/vcore -save words WAR FOOD HOUSE
//	./bin/vcore -seed-dir=/tmp/vcore -resume -save words SPIRIT
//
//	# Serve over NATS
//	./bin/vcore -config=configs/vcore.yaml serve
package vcore
