package cloud

import "slices"

// TripletSize is the number of input bytes consumed per point candidate.
const TripletSize = 3

// Key is a packed byte triplet. Only the low 24 bits are used; the first
// byte of the triplet is the most significant.
type Key uint32

// PackTriplet packs three bytes into a Key, b0 most significant.
func PackTriplet(b0, b1, b2 byte) Key {
	return Key(b0)<<16 | Key(b1)<<8 | Key(b2)
}

// Bytes returns the triplet the key was packed from.
func (k Key) Bytes() (b0, b1, b2 byte) {
	return byte(k >> 16), byte(k >> 8), byte(k)
}

// TruncationPolicy selects how many full triplets Pack consumes.
type TruncationPolicy int

const (
	// KeepAll packs floor(len/3) triplets.
	KeepAll TruncationPolicy = iota
	// DropLast packs floor(len/3)-1 triplets, discarding the final full
	// triplet. Kept for compatibility with older binviz output only.
	DropLast
)

func (p TruncationPolicy) String() string {
	switch p {
	case KeepAll:
		return "keep-all"
	case DropLast:
		return "drop-last"
	default:
		return "unknown"
	}
}

// Pack splits raw into consecutive non-overlapping triplets and returns their
// keys in file order. Trailing bytes that cannot form a full triplet are
// ignored. dropped counts full triplets removed by the policy.
func Pack(raw []byte, policy TruncationPolicy) (keys []Key, dropped int) {
	n := len(raw) / TripletSize
	if policy == DropLast && n > 0 {
		n--
		dropped = 1
	}

	keys = make([]Key, n)
	for i := range keys {
		off := i * TripletSize
		keys[i] = PackTriplet(raw[off], raw[off+1], raw[off+2])
	}
	return keys, dropped
}

// SortKeys orders keys ascending in place, bringing identical triplets into
// contiguous runs.
func SortKeys(keys []Key) {
	slices.Sort(keys)
}
