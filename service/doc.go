// Package service hosts an attractor engine behind NATS subjects: packets
// arrive on one subject, placements publish on another, and summary
// requests answer over request/reply. The service serializes all engine
// access, checkpoints the engine seed on an interval, and restores from
// the last checkpoint on startup.
package service
