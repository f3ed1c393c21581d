package bioseq

import (
	"math/rand"
	"sort"
)

// layerPool lists the residues available per layer, in code order.
var layerPool = map[int][]rune{
	1: {'G', 'A', 'V', 'L', 'I'},
	2: {'P'},
	3: {'C', 'M'},
	4: {'S', 'T', 'N', 'Q'},
	5: {'K', 'R', 'H'},
	6: {'D', 'E'},
	7: {'F', 'Y', 'W'},
}

// DesignSpec is a design intent for a generated sequence: how much
// hydrophobic core, how many turns, stabilizing bridges, the desired
// charge balance, and how many aromatic markers to place.
type DesignSpec struct {
	Length          int
	CoreRatio       float64
	TurnRatio       float64
	BridgeCount     int
	ChargeBalance   int
	AromaticMarkers int
	Seed            int64
}

// DefaultDesignSpec returns a small neutral design.
func DefaultDesignSpec() DesignSpec {
	return DesignSpec{
		Length:          60,
		CoreRatio:       0.35,
		TurnRatio:       0.08,
		BridgeCount:     2,
		ChargeBalance:   0,
		AromaticMarkers: 2,
	}
}

// Design generates a sequence from the spec with a rule grammar instead
// of search: bridges anchor at mirrored positions, aromatic markers tag
// the N-terminus and the back third, and the rest fills from per-layer
// residue buckets. The same spec and seed always yield the same sequence.
func Design(spec DesignSpec) string {
	rng := rand.New(rand.NewSource(spec.Seed))

	n := spec.Length
	if n < 10 {
		n = 10
	}

	nCore := int(float64(n) * spec.CoreRatio)
	nTurn := int(float64(n) * spec.TurnRatio)
	nArom := spec.AromaticMarkers
	nBridge := spec.BridgeCount
	nRest := n - (nCore + nTurn + nArom + nBridge)
	if nRest < 0 {
		nRest = 0
	}

	// Charged residues take about a fifth of the remainder, skewed by the
	// requested balance.
	charged := nRest / 5
	pos := charged / 2
	neg := charged - pos
	if spec.ChargeBalance > 0 {
		pos += spec.ChargeBalance
	} else if spec.ChargeBalance < 0 {
		neg += -spec.ChargeBalance
	}
	if pos+neg > nRest {
		pos = nRest * pos / (pos + neg)
		neg = nRest - pos
	}
	nPolar := nRest - (pos + neg)

	seq := make([]rune, n)

	// Mirrored cysteine anchors near the thirds.
	bridgeAt := map[int]bool{}
	if nBridge > 0 {
		p := n / 3
		bridgeAt[p] = true
		if nBridge >= 2 {
			bridgeAt[n-1-p] = true
		}
		for k := 2; k < nBridge; k++ {
			bridgeAt[k*n/(nBridge+1)] = true
		}
	}
	positions := make([]int, 0, len(bridgeAt))
	for p := range bridgeAt {
		positions = append(positions, p)
	}
	sort.Ints(positions)
	if len(positions) > nBridge {
		positions = positions[:nBridge]
	}
	for _, p := range positions {
		seq[p] = 'C'
	}

	// Aromatic markers near the N-terminus and the back third.
	if nArom > 0 {
		aromAt := []int{n / 10}
		if nArom >= 2 {
			aromAt = append(aromAt, 7*n/10)
		}
		for k := 2; k < nArom; k++ {
			aromAt = append(aromAt, k*n/(nArom+1))
		}
		placed := 0
		for _, p := range aromAt {
			if placed == nArom {
				break
			}
			if seq[p] == 0 {
				seq[p] = pick(rng, 7)
				placed++
			}
		}
	}

	bucket := make([]rune, 0, nCore+nTurn+nPolar+pos+neg)
	for i := 0; i < nCore; i++ {
		bucket = append(bucket, pick(rng, 1))
	}
	for i := 0; i < nTurn; i++ {
		bucket = append(bucket, 'P')
	}
	for i := 0; i < nPolar; i++ {
		bucket = append(bucket, pick(rng, 4))
	}
	for i := 0; i < pos; i++ {
		bucket = append(bucket, pick(rng, 5))
	}
	for i := 0; i < neg; i++ {
		bucket = append(bucket, pick(rng, 6))
	}
	rng.Shuffle(len(bucket), func(i, j int) {
		bucket[i], bucket[j] = bucket[j], bucket[i]
	})

	bi := 0
	for i := range seq {
		if seq[i] != 0 {
			continue
		}
		if bi < len(bucket) {
			seq[i] = bucket[bi]
			bi++
		} else {
			seq[i] = pick(rng, 4)
		}
	}
	return string(seq)
}

func pick(rng *rand.Rand, layer int) rune {
	pool := layerPool[layer]
	return pool[rng.Intn(len(pool))]
}
