package quiz

import "math/rand/v2"

// RandomSource supplies uniform integers in [0, n). *rand.Rand from
// math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
}

// NewRandomSource returns a PCG-backed source. A zero seed draws a random
// one.
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// shuffle is a Fisher-Yates permutation of s.
func shuffle[T any](rng RandomSource, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// sampleWithout draws k distinct indices from [0, n) minus skip, using a
// partial Fisher-Yates over a virtual index array. Only the touched slots
// are materialised, so the cost is O(k) regardless of n.
func sampleWithout(rng RandomSource, n, k, skip int) []int {
	m := n - 1
	if k > m {
		k = m
	}
	if k <= 0 {
		return nil
	}

	swapped := make(map[int]int, 2*k)
	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}

	out := make([]int, 0, k)
	for i := 0; i < k; i++ {
		j := i + rng.IntN(m-i)
		vi, vj := at(i), at(j)
		swapped[i], swapped[j] = vj, vi
		if vj >= skip {
			vj++
		}
		out = append(out, vj)
	}
	return out
}
