package similarity

import (
	"encoding/binary"
	"strings"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// shingleSep separates tokens inside a shingle so that ("ab","c") and
// ("a","bc") hash differently.
var shingleSep = []byte{0}

// Shingles hashes every overlapping k-token window to a uint64 (blake3,
// first 8 bytes little-endian) and returns the set. A sequence shorter
// than k yields one shingle covering all of it; an empty one yields an
// empty set.
func Shingles(tokens []string, k int) *roaring64.Bitmap {
	set := roaring64.New()
	if len(tokens) == 0 {
		return set
	}
	if k < 1 {
		k = 1
	}
	if len(tokens) < k {
		set.Add(hashWindow(blake3.New(), tokens))
		return set
	}

	h := blake3.New()
	for i := 0; i <= len(tokens)-k; i++ {
		set.Add(hashWindow(h, tokens[i:i+k]))
	}
	return set
}

func hashWindow(h *blake3.Hasher, window []string) uint64 {
	h.Reset()
	for i, t := range window {
		if i > 0 {
			_, _ = h.Write(shingleSep)
		}
		_, _ = h.Write([]byte(t))
	}
	var sum [32]byte
	h.Sum(sum[:0])
	return binary.LittleEndian.Uint64(sum[:8])
}

// Jaccard returns |a∩b| / |a∪b| and the intersection size. Two empty sets
// have similarity 0.
func Jaccard(a, b *roaring64.Bitmap) (float64, uint64) {
	union := a.OrCardinality(b)
	if union == 0 {
		return 0, 0
	}
	inter := a.AndCardinality(b)
	return float64(inter) / float64(union), inter
}

// Fingerprint hashes the whole normalized token sequence (xxhash). Equal
// fingerprints mean identical normalized text.
func Fingerprint(tokens []string) uint64 {
	return xxhash.Sum64String(strings.Join(tokens, "\x00"))
}
