// Package chemformula encodes chemical formulas like "C6H12O6" or "Fe2O3"
// as packet streams. This is not a chemistry model: it is a stable
// deterministic encoding from formula text to a topological event stream.
// Each atom contributes one packet; an element table supplies the layer
// hint, and repeated atoms of one element cycle through the phase bins.
package chemformula

import (
	"regexp"
	"strconv"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/packet"
)

// tokenPattern matches one element symbol plus an optional count.
var tokenPattern = regexp.MustCompile(`([A-Z][a-z]?)([0-9]*)`)

// defaultElementLayers maps element symbols to layers. The goal is a
// stable encoding, not correct chemistry; extend per deployment.
var defaultElementLayers = map[string]int{
	"O": 4,
	"H": 7,
	"C": 1, "S": 1, "Fe": 1,
	"Na": 2, "K": 2, "Cl": 2, "Ca": 2,
	"Mg": 3, "Cu": 3, "N": 3, "P": 3,
	"Zn": 5, "Si": 5,
}

// fallbackLayer receives elements absent from the table.
const fallbackLayer = 2

// phaseBins is the cycle length for repeated atoms of one element.
const phaseBins = 6

// Element is one parsed formula token.
type Element struct {
	Symbol string
	Count  int
}

// Adapter encodes formulas into per-atom packet streams.
type Adapter struct {
	layers map[string]int
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithElementLayer adds or replaces one element's layer mapping.
func WithElementLayer(symbol string, layer int) Option {
	return func(a *Adapter) { a.layers[symbol] = layer }
}

// New constructs an Adapter with the default element table.
func New(opts ...Option) *Adapter {
	a := &Adapter{layers: make(map[string]int, len(defaultElementLayers))}
	for symbol, layer := range defaultElementLayers {
		a.layers[symbol] = layer
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Parse splits a formula into (element, count) pairs in order of
// appearance. "C6H12O6" parses as C:6, H:12, O:6. An omitted count
// means one atom. Unrecognized characters are skipped.
func Parse(formula string) []Element {
	matches := tokenPattern.FindAllStringSubmatch(formula, -1)
	elements := make([]Element, 0, len(matches))
	for _, m := range matches {
		if m[1] == "" {
			continue
		}
		count := 1
		if m[2] != "" {
			// The pattern guarantees digits only.
			count, _ = strconv.Atoi(m[2])
		}
		elements = append(elements, Element{Symbol: m[1], Count: count})
	}
	return elements
}

// Packets encodes a formula as one packet per atom. Repeated atoms of an
// element cycle through phases 1..6; coherence is set to the midpoint of
// the phase bin so the placed phase matches the cycle position exactly.
func (a *Adapter) Packets(formula string) []packet.Packet {
	elements := Parse(formula)

	total := 0
	for _, el := range elements {
		total += el.Count
	}

	packets := make([]packet.Packet, 0, total)
	for _, el := range elements {
		layer, ok := a.layers[el.Symbol]
		if !ok {
			layer = fallbackLayer
		}
		content := el.Symbol
		if el.Count != 1 {
			content += strconv.Itoa(el.Count)
		}
		for i := 0; i < el.Count; i++ {
			phase := i%phaseBins + 1
			packets = append(packets, packet.New(packet.KindFormula, content,
				packet.WithCoherence(phaseMidpoint(phase)),
				packet.WithLayerHint(layer)))
		}
	}
	return packets
}

// phaseMidpoint returns the coherence at the center of a phase bin, so
// phase follows from coherence without float boundary surprises.
func phaseMidpoint(phase int) float64 {
	return (float64(phase) - 0.5) / phaseBins
}
