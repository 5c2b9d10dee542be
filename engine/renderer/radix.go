package renderer

import "github.com/Carmen-Shannon/oxy-gl/common"

// RadixSort orders keys by ascending depth. It runs four byte-wide counting passes over the
// order-preserving bit pattern of each depth, so the sort is stable and keys with equal depth
// keep their input order. The input slice is not modified.
//
// Parameters:
//   - keys: the keys to sort
//   - depth: returns the depth of a key
//
// Returns:
//   - []K: a new slice with the keys in ascending depth order
func RadixSort[K any](keys []K, depth func(K) float32) []K {
	src := make([]K, len(keys))
	copy(src, keys)
	if len(src) < 2 {
		return src
	}

	dst := make([]K, len(src))
	bits := make([]uint32, len(src))
	scratch := make([]uint32, len(src))
	for i, k := range src {
		bits[i] = common.SortableFloat32(depth(k))
	}

	for shift := 0; shift < 32; shift += 8 {
		var counts [257]int
		for _, b := range bits {
			counts[(b>>shift)&0xff+1]++
		}
		for i := 1; i < len(counts); i++ {
			counts[i] += counts[i-1]
		}
		for i, b := range bits {
			digit := (b >> shift) & 0xff
			pos := counts[digit]
			counts[digit]++
			dst[pos] = src[i]
			scratch[pos] = b
		}
		src, dst = dst, src
		bits, scratch = scratch, bits
	}
	return src
}
