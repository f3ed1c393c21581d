// Package bioseq encodes amino acid sequences as packet streams. The 20
// standard residues map onto the seven layers by biochemical category:
// hydrophobic core builders sit on layer 1, turns on 2, sulfur bridges
// on 3, polar surface on 4, positive charge on 5, negative charge on 6,
// aromatics on 7. The mapping is a structural prior, not a claim of
// biological validity.
package bioseq

import (
	"strings"
	"unicode"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/lattice"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/packet"
)

// residueLayers maps one-letter residue codes to layers.
var residueLayers = map[rune]int{
	'G': 1, 'A': 1, 'V': 1, 'L': 1, 'I': 1,
	'P': 2,
	'C': 3, 'M': 3,
	'S': 4, 'T': 4, 'N': 4, 'Q': 4,
	'K': 5, 'R': 5, 'H': 5,
	'D': 6, 'E': 6,
	'F': 7, 'Y': 7, 'W': 7,
}

// unknownLayer receives residues outside the standard twenty.
const unknownLayer = 2

// windowSize is the residue neighborhood used for per-packet coherence.
const windowSize = 5

// LayerOf returns the layer a residue maps to, or unknownLayer for
// codes outside the standard twenty. Case-insensitive.
func LayerOf(residue rune) int {
	if layer, ok := residueLayers[unicode.ToUpper(residue)]; ok {
		return layer
	}
	return unknownLayer
}

// Adapter encodes sequences into per-residue packet streams.
type Adapter struct{}

// New constructs an Adapter.
func New() *Adapter {
	return &Adapter{}
}

// Packets encodes a sequence as one packet per residue. The layer hint
// comes from the residue's category; coherence is the recognized-residue
// ratio over a small window centered on the residue, so corrupt stretches
// sink while clean stretches stay coherent. Whitespace is skipped.
func (a *Adapter) Packets(sequence string) []packet.Packet {
	residues := []rune(strings.ToUpper(strings.Join(strings.Fields(sequence), "")))

	packets := make([]packet.Packet, 0, len(residues))
	for i, r := range residues {
		packets = append(packets, packet.New(packet.KindSequence, string(r),
			packet.WithCoherence(windowCoherence(residues, i)),
			packet.WithLayerHint(LayerOf(r))))
	}
	return packets
}

// windowCoherence is the fraction of recognized residues in the window
// around position i, clipped at the sequence ends.
func windowCoherence(residues []rune, i int) float64 {
	lo := i - windowSize/2
	if lo < 0 {
		lo = 0
	}
	hi := i + windowSize/2 + 1
	if hi > len(residues) {
		hi = len(residues)
	}

	recognized := 0
	for _, r := range residues[lo:hi] {
		if _, ok := residueLayers[r]; ok {
			recognized++
		}
	}
	return float64(recognized) / float64(hi-lo)
}

// Stats counts residues per layer. Layers with no residues still appear
// with a zero count.
func Stats(sequence string) map[int]int {
	counts := make(map[int]int, lattice.Layers)
	for layer := 1; layer <= lattice.Layers; layer++ {
		counts[layer] = 0
	}
	for _, r := range sequence {
		if unicode.IsSpace(r) {
			continue
		}
		counts[LayerOf(r)]++
	}
	return counts
}
