package lz77

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"
)

var words = []string{
	"light", "the", "of", "and", "rays", "colours", "which", "are", "refracted",
	"prism", "glass", "reflexion", "in", "that", "is", "be", "by", "to", "with",
	"their", "more", "than", "those", "experiment", "white", "red", "violet",
	"bodies", "transparent", "thin", "plates", "water", "air",
}

// testText returns n bytes of deterministic English-like text.
func testText(n int) []byte {
	r := rand.New(rand.NewSource(1))
	var b bytes.Buffer
	for b.Len() < n {
		b.WriteString(words[r.Intn(len(words))])
		switch r.Intn(12) {
		case 0:
			b.WriteString(". ")
		case 1:
			b.WriteString(", ")
		default:
			b.WriteByte(' ')
		}
	}
	return b.Bytes()[:n]
}

// testNoise returns n pseudo-random bytes.
func testNoise(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	r.Read(b)
	return b
}

// decode reverses the tokens.
func decode(tokens []Token) ([]byte, error) {
	var out []byte
	for i, t := range tokens {
		if t.IsLiteral() {
			out = append(out, t.Literal)
			continue
		}
		d := int(t.Distance)
		if d == 0 || d > len(out) || d > WindowSize {
			return out, fmt.Errorf("token %d: invalid distance %d at output position %d", i, d, len(out))
		}
		if t.Length < MinMatch || t.Length > MaxMatch {
			return out, fmt.Errorf("token %d: invalid length %d", i, t.Length)
		}
		for j := 0; j < int(t.Length); j++ {
			out = append(out, out[len(out)-d])
		}
	}
	return out, nil
}

// compressPieces feeds data to a new stream in pieces of the given sizes
// (the last piece is whatever is left), finishing with FlushFinish. The sink
// holds at most limit tokens. It returns all the tokens written, and the
// number of EndBlock results seen.
func compressPieces(t testing.TB, data []byte, o Options, limit int, sizes ...int) ([]Token, int) {
	t.Helper()
	s, err := NewState(o)
	if err != nil {
		t.Fatal(err)
	}
	buf := NewInputBuffer()
	w := NewDynamicWriter(limit)

	var pieces [][]byte
	for _, n := range sizes {
		if n > len(data) {
			n = len(data)
		}
		pieces = append(pieces, data[:n])
		data = data[n:]
	}
	pieces = append(pieces, data)

	var tokens []Token
	var blockBytes uint64
	endBlocks := 0
	for i, p := range pieces {
		flush := FlushNone
		if i == len(pieces)-1 {
			flush = FlushFinish
		}
		for {
			n, status, pos := CompressBlock(p, s, buf, w, flush)
			if pos < 0 || pos > buf.CurrentEnd() {
				t.Fatalf("position %d outside buffer of %d bytes", pos, buf.CurrentEnd())
			}
			p = p[n:]
			tokens = append(tokens, w.Tokens()...)
			w.Clear()
			blockBytes += s.BlockInputBytes()
			s.ResetBlockInputBytes()

			if status == EndBlock {
				endBlocks++
				continue
			}
			if len(p) != 0 {
				t.Fatalf("status %v with %d bytes not consumed", status, len(p))
			}
			if flush == FlushFinish && status != Finished {
				t.Fatalf("got status %v when finishing", status)
			}
			if flush == FlushNone && status != NeedInput {
				t.Fatalf("got status %v without flushing", status)
			}
			break
		}
	}

	total := 0
	for _, p := range pieces {
		total += len(p)
	}
	if blockBytes != uint64(total) {
		t.Fatalf("blocks accounted for %d input bytes, want %d", blockBytes, total)
	}
	return tokens, endBlocks
}

func compressAll(t testing.TB, data []byte, o Options) []Token {
	t.Helper()
	tokens, _ := compressPieces(t, data, o, 1<<30)
	return tokens
}

func checkRoundTrip(t testing.TB, data []byte, tokens []Token) {
	t.Helper()
	decoded, err := decode(tokens)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatalf("decoded output doesn't match: got %d bytes, want %d", len(decoded), len(data))
	}
}
