package fragment

import (
	"iter"
	"math/bits"
	"slices"
)

// CleavageSets enumerates every subset of {0..n-1} with at most k elements,
// smallest subsets first and lexicographically within a size. Each yielded
// slice is a fresh copy. The sequence is finite and may be ranged over
// again.
func CleavageSets(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		limit := min(k, n)
		for size := 0; size <= limit; size++ {
			idx := make([]int, size)
			for i := range idx {
				idx[i] = i
			}
			for {
				if !yield(slices.Clone(idx)) {
					return
				}
				i := size - 1
				for i >= 0 && idx[i] == n-size+i {
					i--
				}
				if i < 0 {
					break
				}
				idx[i]++
				for j := i + 1; j < size; j++ {
					idx[j] = idx[j-1] + 1
				}
			}
		}
	}
}

// CountCleavageSets returns the number of subsets CleavageSets(n, k) yields,
// saturating at limit+1 so that callers can compare against a ceiling
// without overflow.
func CountCleavageSets(n, k int, limit uint64) uint64 {
	if k < 0 || n < 0 {
		return 0
	}
	k = min(k, n)
	var total, c uint64 = 1, 1 // C(n, 0)
	for i := 1; i <= k; i++ {
		hi, lo := bits.Mul64(c, uint64(n-i+1))
		if hi != 0 {
			return limit + 1
		}
		c = lo / uint64(i)
		total += c
		if total > limit || total < c {
			return limit + 1
		}
	}
	return total
}
