package lz77

import "fmt"

// BufferStatus is returned by the write methods of a Sink.
type BufferStatus int

const (
	NotFull BufferStatus = iota
	// Full means the write was accepted, but the sink can't take any more
	// until it is cleared.
	Full
)

// A Sink receives the output of the compressor.
type Sink interface {
	WriteLiteral(b byte) BufferStatus
	WriteLengthDistance(length, distance uint16) BufferStatus

	// BufferLength returns the number of tokens waiting in the sink.
	BufferLength() int

	// Clear discards the buffered tokens, typically after they have been
	// encoded as a block.
	Clear()
}

// A Token is either a literal byte (Length == 0) or a back-reference.
type Token struct {
	Literal  byte
	Length   uint16
	Distance uint16
}

func (t Token) IsLiteral() bool {
	return t.Length == 0
}

func (t Token) String() string {
	if t.IsLiteral() {
		return fmt.Sprintf("%q", t.Literal)
	}
	return fmt.Sprintf("<%d,%d>", t.Length, t.Distance)
}

// DefaultTokenLimit is the number of tokens a DynamicWriter holds before it
// reports that it is full.
const DefaultTokenLimit = 31 * 1024

// DynamicWriter is a Sink that collects tokens in memory for a block encoder.
type DynamicWriter struct {
	tokens []Token
	limit  int
}

// NewDynamicWriter returns a DynamicWriter that reports Full after limit
// tokens. A limit of 0 or less means DefaultTokenLimit.
func NewDynamicWriter(limit int) *DynamicWriter {
	if limit <= 0 {
		limit = DefaultTokenLimit
	}
	return &DynamicWriter{limit: limit}
}

func (w *DynamicWriter) status() BufferStatus {
	if len(w.tokens) >= w.limit {
		return Full
	}
	return NotFull
}

func (w *DynamicWriter) WriteLiteral(b byte) BufferStatus {
	w.tokens = append(w.tokens, Token{Literal: b})
	return w.status()
}

func (w *DynamicWriter) WriteLengthDistance(length, distance uint16) BufferStatus {
	w.tokens = append(w.tokens, Token{Length: length, Distance: distance})
	return w.status()
}

func (w *DynamicWriter) BufferLength() int {
	return len(w.tokens)
}

func (w *DynamicWriter) Clear() {
	w.tokens = w.tokens[:0]
}

// Tokens returns the buffered tokens. The slice is reused after Clear.
func (w *DynamicWriter) Tokens() []Token {
	return w.tokens
}

// AppendMatches converts tokens to Matches and appends them to dst.
// unmatched is the number of literals carried over from earlier tokens;
// the count of trailing literals not yet followed by a match is returned
// so that it can be carried into the next call.
func AppendMatches(dst []Match, tokens []Token, unmatched int) ([]Match, int) {
	for _, t := range tokens {
		if t.IsLiteral() {
			unmatched++
			continue
		}
		dst = append(dst, Match{
			Unmatched: unmatched,
			Length:    int(t.Length),
			Distance:  int(t.Distance),
		})
		unmatched = 0
	}
	return dst, unmatched
}
