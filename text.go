package lz77

import "strconv"

// AppendText appends a human-readable representation of tokens to dst.
// Literals are copied as they are; matches are replaced with
// <Length,Distance> symbols.
func AppendText(dst []byte, tokens []Token) []byte {
	for _, t := range tokens {
		if t.IsLiteral() {
			dst = append(dst, t.Literal)
			continue
		}
		dst = appendMatch(dst, int(t.Length), int(t.Distance))
	}
	return dst
}

// A TextEncoder is an Encoder that produces the same representation as
// AppendText, from Matches.
type TextEncoder struct{}

func (TextEncoder) Reset() {}

func (TextEncoder) Encode(dst []byte, src []byte, matches []Match, lastBlock bool) []byte {
	pos := 0
	for _, m := range matches {
		if m.Unmatched > 0 {
			dst = append(dst, src[pos:pos+m.Unmatched]...)
			pos += m.Unmatched
		}
		if m.Length > 0 {
			dst = appendMatch(dst, m.Length, m.Distance)
			pos += m.Length
		}
	}
	if pos < len(src) {
		dst = append(dst, src[pos:]...)
	}
	return dst
}

func appendMatch(dst []byte, length, distance int) []byte {
	dst = append(dst, '<')
	dst = strconv.AppendInt(dst, int64(length), 10)
	dst = append(dst, ',')
	dst = strconv.AppendInt(dst, int64(distance), 10)
	return append(dst, '>')
}
