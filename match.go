package lz77

import (
	"encoding/binary"
	"math/bits"
)

// LongestMatch looks for the longest earlier occurrence of the bytes at pos,
// following the hash chain in table for at most maxChecks entries.
//
// Only matches longer than floor (and at least MinMatch long) are reported;
// otherwise the result is (0, 0). The match never extends past the end of
// data, is never longer than MaxMatch, and never reaches back more than
// WindowSize bytes. pos must already have been added to table.
func LongestMatch(data []byte, table *HashChain, pos, floor int, maxChecks uint16) (length, distance int) {
	if floor < MinMatch-1 {
		floor = MinMatch - 1
	}
	maxLength := len(data) - pos
	if maxLength > MaxMatch {
		maxLength = MaxMatch
	}
	if floor >= maxLength {
		// There's no room for anything better.
		return 0, 0
	}

	limit := pos - WindowSize
	if limit < 0 {
		limit = 0
	}

	best := floor
	wPos := data[pos : pos+maxLength]
	candidate := pos
	for tries := int(maxChecks); tries > 0; tries-- {
		next, ok := table.Prev(candidate)
		if !ok || next >= candidate || next < limit {
			// The chain ends here, or the entry was overwritten by something
			// newer, or it has left the window.
			break
		}
		candidate = next

		// Check the bytes at the end of the current best match first; they
		// are the ones most likely to differ.
		if data[candidate+best] != wPos[best] || data[candidate+best-1] != wPos[best-1] {
			continue
		}
		n := matchLen(wPos, data[candidate:candidate+maxLength])
		if n > best {
			best = n
			distance = pos - candidate
			if n == maxLength {
				// It can't get any better.
				break
			}
		}
	}

	if distance == 0 {
		return 0, 0
	}
	return best, distance
}

// matchTooFar reports whether a match would likely cost more to encode
// than the literals it replaces.
func matchTooFar(length, distance, tooFar int) bool {
	return length == MinMatch && distance > tooFar
}

// matchLen returns the maximum length.
// 'a' must be the shortest of the two.
func matchLen(a, b []byte) int {
	var checked int

	for len(a) >= 8 {
		if diff := binary.LittleEndian.Uint64(a) ^ binary.LittleEndian.Uint64(b); diff != 0 {
			return checked + (bits.TrailingZeros64(diff) >> 3)
		}
		checked += 8
		a = a[8:]
		b = b[8:]
	}
	b = b[:len(a)]
	for i := range a {
		if a[i] != b[i] {
			return i + checked
		}
	}
	return len(a) + checked
}
