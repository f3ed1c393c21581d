// Package adapter defines the contract shared by packet producers:
// encoders that turn raw domain input (words, chemical formulas, residue
// sequences) into packets the attractor engine can ingest. Adapters are
// structured encoders, not domain simulators: the chemformula adapter is
// not a chemistry model, only a stable deterministic mapping from formula
// text to an event stream.
package adapter

import "github.com/pozdnyavladimer-jpg/vcore-topological-chip/packet"

// Producer converts one input string into zero or more packets. Producers
// are deterministic: the same input always yields the same packet stream.
type Producer interface {
	// Packets encodes the input. Inputs the producer cannot recognize at
	// all yield packets with zero coherence rather than errors, so a
	// stream of mixed-quality input keeps flowing.
	Packets(input string) []packet.Packet
}
