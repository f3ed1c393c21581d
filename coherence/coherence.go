// Package coherence measures how structurally coherent a packet's content
// is, producing a score in [0,1]. Each content kind has its own ratio-based
// measure; all measures are deterministic, pure, and bounded.
package coherence

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/packet"
)

// Text measurement constants: the "water balance" heuristic. Coherence
// peaks when the vowel share of a token sits at the ideal ratio and falls
// off linearly with the configured sensitivity as it deviates.
const (
	idealVowelRatio  = 0.40
	ratioSensitivity = 2.5
)

const vowels = "AEIOUYАЕЄИІЇОУЮЯ"

var (
	elementToken = regexp.MustCompile(`[A-Z][a-z]?[0-9]*`)

	// The 20 standard amino acid one-letter codes.
	residues = "ACDEFGHIKLMNPQRSTVWY"
)

// Measurer scores packet coherence. The zero value is not usable; construct
// with NewMeasurer.
type Measurer struct {
	supported map[packet.ContentKind]func(string) float64
}

// NewMeasurer creates a measurer covering the three structural content
// kinds. Raw packets carry no structural measure and must supply coherence
// themselves.
func NewMeasurer() *Measurer {
	return &Measurer{
		supported: map[packet.ContentKind]func(string) float64{
			packet.KindText:     textCoherence,
			packet.KindFormula:  formulaCoherence,
			packet.KindSequence: sequenceCoherence,
		},
	}
}

// Supports reports whether the measurer can derive coherence for content
// of the given kind.
func (m *Measurer) Supports(kind packet.ContentKind) bool {
	_, ok := m.supported[kind]
	return ok
}

// Measure returns the packet's coherence in [0,1].
//
// A supplied coherence value bypasses measurement and is validated against
// [0,1]. Otherwise the kind's ratio measure runs over the content. Empty
// content, and raw packets without a supplied value, are rejected with
// ErrInvalidPacket.
func (m *Measurer) Measure(pkt packet.Packet) (float64, error) {
	if err := pkt.Validate(); err != nil {
		return 0, err
	}
	if pkt.Coherence != nil {
		return *pkt.Coherence, nil
	}

	measure, ok := m.supported[pkt.Kind]
	if !ok {
		return 0, errors.WrapInvalid(
			fmt.Errorf("kind %q carries no structural measure and no supplied coherence: %w",
				pkt.Kind, errors.ErrInvalidPacket),
			"Measurer", "Measure", "capability check")
	}
	return measure(pkt.Content), nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// textCoherence measures the vowel balance of a token. Tokens whose vowel
// share sits near the ideal ratio flow; heavy consonant clusters and vowel
// runs both score low.
func textCoherence(content string) float64 {
	var letters, vowelCount int
	for _, r := range strings.ToUpper(content) {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if strings.ContainsRune(vowels, r) {
			vowelCount++
		}
	}
	if letters == 0 {
		return 0
	}
	ratio := float64(vowelCount) / float64(letters)
	dist := ratio - idealVowelRatio
	if dist < 0 {
		dist = -dist
	}
	return clamp(1.0-dist*ratioSensitivity, 0, 1)
}

// formulaCoherence measures the well-formedness of a chemical formula: the
// share of the content consumed by valid element tokens.
func formulaCoherence(content string) float64 {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return 0
	}
	matched := 0
	for _, tok := range elementToken.FindAllString(trimmed, -1) {
		matched += len(tok)
	}
	return clamp(float64(matched)/float64(len(trimmed)), 0, 1)
}

// sequenceCoherence measures the recognized-residue share of a biological
// sequence.
func sequenceCoherence(content string) float64 {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return 0
	}
	recognized := 0
	total := 0
	for _, r := range strings.ToUpper(trimmed) {
		total++
		if strings.ContainsRune(residues, r) {
			recognized++
		}
	}
	return clamp(float64(recognized)/float64(total), 0, 1)
}
