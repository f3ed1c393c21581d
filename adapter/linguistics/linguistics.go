// Package linguistics encodes natural-language words as packets. Two
// outputs matter to the engine: the layer hint, derived from a letter
// weight sum, and coherence, derived from the word's vowel balance. Both
// Latin and Ukrainian Cyrillic alphabets are weighted.
package linguistics

import (
	"math"
	"strings"
	"unicode"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/packet"
)

const (
	latinLetters    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	cyrillicLetters = "АБВГҐДЕЄЖЗИІЇЙКЛМНОПРСТУФХЦЧШЩЬЮЯ"
	vowels          = "AEIOUYАЕЄИІЇОУЮЯ"
)

// Config tunes the vowel-balance coherence measure.
type Config struct {
	// IdealVowelRatio is the vowel fraction treated as maximally fluent.
	IdealVowelRatio float64
	// RatioSensitivity scales how sharply coherence drops as the word's
	// vowel ratio deviates from ideal.
	RatioSensitivity float64
}

// DefaultConfig returns the standard tuning: ideal ratio 0.40,
// sensitivity 2.5.
func DefaultConfig() Config {
	return Config{
		IdealVowelRatio:  0.40,
		RatioSensitivity: 2.5,
	}
}

// Override pins a token to a fixed layer and coherence, bypassing the
// letter-weight and vowel-balance heuristics.
type Override struct {
	Layer     int
	Coherence float64
}

// defaultOverrides pins a few demo tokens. Kept deliberately small.
var defaultOverrides = map[string]Override{
	"VCORE":  {Layer: 7, Coherence: 0.95},
	"V-CORE": {Layer: 7, Coherence: 0.95},
	"LOVE":   {Layer: 4, Coherence: 0.85},
	"WATER":  {Layer: 4, Coherence: 0.90},
}

// Adapter encodes words into packets.
type Adapter struct {
	cfg       Config
	overrides map[string]Override
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithConfig replaces the default tuning.
func WithConfig(cfg Config) Option {
	return func(a *Adapter) { a.cfg = cfg }
}

// WithOverride pins an additional token. The token is matched
// case-insensitively against the cleaned word.
func WithOverride(token string, o Override) Option {
	return func(a *Adapter) { a.overrides[strings.ToUpper(token)] = o }
}

// New constructs an Adapter with the default tuning and override table.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		cfg:       DefaultConfig(),
		overrides: make(map[string]Override, len(defaultOverrides)),
	}
	for token, o := range defaultOverrides {
		a.overrides[token] = o
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Packet encodes a single word. Words with no letters at all encode as
// fully incoherent packets hinted at the structural layer.
func (a *Adapter) Packet(word string) packet.Packet {
	clean := cleanWord(word)
	if clean == "" {
		return packet.New(packet.KindText, word,
			packet.WithCoherence(0), packet.WithLayerHint(2))
	}

	if o, ok := a.overrides[strings.ToUpper(clean)]; ok {
		return packet.New(packet.KindText, word,
			packet.WithCoherence(clamp01(o.Coherence)),
			packet.WithLayerHint(o.Layer))
	}

	return packet.New(packet.KindText, word,
		packet.WithCoherence(a.coherence(clean)),
		packet.WithLayerHint(layerHint(clean)))
}

// Packets splits the input on whitespace and encodes each word.
func (a *Adapter) Packets(input string) []packet.Packet {
	words := strings.Fields(input)
	packets := make([]packet.Packet, 0, len(words))
	for _, word := range words {
		packets = append(packets, a.Packet(word))
	}
	return packets
}

// coherence measures vowel balance: 1.0 at the ideal vowel ratio,
// dropping linearly with distance from it.
func (a *Adapter) coherence(word string) float64 {
	var total, vowelCount int
	for _, r := range strings.ToUpper(word) {
		if !unicode.IsLetter(r) {
			continue
		}
		total++
		if strings.ContainsRune(vowels, r) {
			vowelCount++
		}
	}
	if total == 0 {
		return 0
	}

	ratio := float64(vowelCount) / float64(total)
	dist := math.Abs(ratio - a.cfg.IdealVowelRatio)
	return clamp01(1.0 - dist*a.cfg.RatioSensitivity)
}

// layerHint sums per-letter alphabet weights and folds the sum onto the
// seven layers, with a zero remainder mapping to the top layer.
func layerHint(word string) int {
	sum := 0
	for _, r := range word {
		sum += letterWeight(r)
	}
	if sum == 0 {
		return 2
	}
	if hint := sum % 7; hint != 0 {
		return hint
	}
	return 7
}

func letterWeight(r rune) int {
	upper := unicode.ToUpper(r)
	if i := strings.IndexRune(latinLetters, upper); i >= 0 {
		return i + 1
	}
	if i := indexRune(cyrillicLetters, upper); i >= 0 {
		return i + 1
	}
	return 0
}

// indexRune returns the rune index, not the byte index strings.IndexRune
// reports, since Cyrillic letters are multi-byte.
func indexRune(s string, target rune) int {
	i := 0
	for _, r := range s {
		if r == target {
			return i
		}
		i++
	}
	return -1
}

// cleanWord keeps letters and dashes, dropping digits and punctuation.
func cleanWord(word string) string {
	var b strings.Builder
	for _, r := range word {
		if unicode.IsLetter(r) || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
