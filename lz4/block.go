// Package lz4 writes the output of the lz77 match finder in the LZ4 block
// and frame formats.
package lz4

import (
	"encoding/binary"

	"github.com/andybalholm/lz77"
)

// minMatch is the shortest match LZ4 can encode.
const minMatch = 4

// A BlockEncoder implements the lz77.Encoder interface, writing in the LZ4
// block format.
type BlockEncoder struct{}

func (BlockEncoder) Reset() {}

func (BlockEncoder) Encode(dst []byte, src []byte, matches []lz77.Match, lastBlock bool) []byte {
	matches = dropShortMatches(matches)

	// Ensure that the block ends with at least 5 literal bytes,
	// and the last match is at least 12 bytes before the end of the block.
	trailingLiterals := 0
	for len(matches) > 0 && (trailingLiterals < 5 || trailingLiterals+matches[len(matches)-1].Length < 12) {
		lastMatch := matches[len(matches)-1]
		matches = matches[:len(matches)-1]
		trailingLiterals += lastMatch.Unmatched + lastMatch.Length
	}

	pos := 0
	for _, m := range matches {
		token := byte(0)
		if m.Unmatched > 14 {
			token |= 0xf0
		} else {
			token |= byte(m.Unmatched << 4)
		}
		if m.Length > 18 {
			token |= 0x0f
		} else {
			token |= byte(m.Length - minMatch)
		}
		dst = append(dst, token)

		if m.Unmatched > 14 {
			dst = appendInt(dst, m.Unmatched-15)
		}
		dst = append(dst, src[pos:pos+m.Unmatched]...)

		dst = binary.LittleEndian.AppendUint16(dst, uint16(m.Distance))
		if m.Length > 18 {
			dst = appendInt(dst, m.Length-19)
		}

		pos += m.Unmatched + m.Length
	}

	// Write the final, literals-only sequence.
	trailingLiterals = len(src) - pos
	token := byte(0)
	if trailingLiterals > 14 {
		token |= 0xf0
	} else {
		token |= byte(trailingLiterals << 4)
	}
	dst = append(dst, token)
	if trailingLiterals > 14 {
		dst = appendInt(dst, trailingLiterals-15)
	}
	dst = append(dst, src[pos:]...)

	return dst
}

// dropShortMatches turns matches shorter than minMatch into literals,
// rewriting matches in place.
func dropShortMatches(matches []lz77.Match) []lz77.Match {
	out := matches[:0]
	carry := 0
	for _, m := range matches {
		m.Unmatched += carry
		carry = 0
		if m.Length < minMatch {
			carry = m.Unmatched + m.Length
			continue
		}
		out = append(out, m)
	}
	if carry > 0 {
		out = append(out, lz77.Match{Unmatched: carry})
	}
	return out
}

// appendInt appends n to dst in LZ4's variable-length integer format.
func appendInt(dst []byte, n int) []byte {
	for n >= 255 {
		dst = append(dst, 255)
		n -= 255
	}
	dst = append(dst, byte(n))
	return dst
}
