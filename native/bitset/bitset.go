// Package bitset provides the fixed 256-slot completion bitmap shared by
// lesson tracking and achievement claims. A slot index is an unsigned 8-bit
// value, so every index maps inside the backing words and no bounds failure is
// possible at this layer; callers enforce business limits such as a course's
// declared lesson count before setting a bit.
package bitset

import "math/bits"

// Words is the number of 64-bit words backing a Bitset256.
const Words = 4

// Bitset256 is a 256-slot bitmap. The zero value is the empty set.
type Bitset256 [Words]uint64

// IsSet reports whether the bit at index is set.
func (b Bitset256) IsSet(index uint8) bool {
	return b[index/64]&(1<<(index%64)) != 0
}

// Set returns the bitmap with the bit at index set. Setting an already-set bit
// is a no-op; bits are never cleared.
func (b Bitset256) Set(index uint8) Bitset256 {
	b[index/64] |= 1 << (index % 64)
	return b
}

// Count returns the number of set bits.
func (b Bitset256) Count() uint32 {
	var total int
	for _, word := range b {
		total += bits.OnesCount64(word)
	}
	return uint32(total)
}

// Words64 returns the raw backing words for persistence.
func (b Bitset256) Words64() [Words]uint64 { return b }

// FromWords reconstructs a bitmap from persisted words.
func FromWords(words [Words]uint64) Bitset256 { return Bitset256(words) }
