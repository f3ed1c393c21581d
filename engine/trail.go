package engine

import (
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/lattice"
)

// TrailEntry is one recorded placement: the state, the coherence that
// produced it, and the ingestion sequence index.
type TrailEntry struct {
	State     lattice.State `json:"state"`
	Coherence float64       `json:"coherence"`
	Seq       uint64        `json:"seq"`
}

// Trail is a bounded sliding window over the most recent placements,
// backed by a ring buffer so appends stay O(1) as the window slides.
type Trail struct {
	entries []TrailEntry
	head    int // index of the oldest entry
	size    int
}

// NewTrail creates a trail holding at most bound entries.
func NewTrail(bound int) *Trail {
	return &Trail{entries: make([]TrailEntry, bound)}
}

// Append records an entry, evicting the oldest when the window is full.
func (t *Trail) Append(entry TrailEntry) {
	if t.size < len(t.entries) {
		t.entries[(t.head+t.size)%len(t.entries)] = entry
		t.size++
		return
	}
	t.entries[t.head] = entry
	t.head = (t.head + 1) % len(t.entries)
}

// Last returns the most recent entry, if any.
func (t *Trail) Last() (TrailEntry, bool) {
	if t.size == 0 {
		return TrailEntry{}, false
	}
	return t.entries[(t.head+t.size-1)%len(t.entries)], true
}

// Len returns the number of entries currently held.
func (t *Trail) Len() int {
	return t.size
}

// Bound returns the window size.
func (t *Trail) Bound() int {
	return len(t.entries)
}

// Entries returns the window contents oldest-first as a fresh copy.
func (t *Trail) Entries() []TrailEntry {
	out := make([]TrailEntry, t.size)
	for i := 0; i < t.size; i++ {
		out[i] = t.entries[(t.head+i)%len(t.entries)]
	}
	return out
}

// Reset discards all entries, keeping the bound.
func (t *Trail) Reset() {
	t.head = 0
	t.size = 0
}
