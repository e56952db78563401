package lz77

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testLevels = []int{0, 1, 3, 4, 6, 9}

func roundTripInputs() map[string][]byte {
	return map[string][]byte{
		"empty":            {},
		"one byte":         {'x'},
		"two bytes":        []byte("ab"),
		"short":            []byte("abc"),
		"window":           testText(WindowSize),
		"two windows +1":   testText(2*WindowSize + 1),
		"buffer":           testText(BufferSize),
		"long text":        testText(5*WindowSize + 1234),
		"run":              bytes.Repeat([]byte{'a'}, 100000),
		"noise":            testNoise(3*WindowSize, 2),
		"runs and text":    append(append(bytes.Repeat([]byte{0}, 70000), testText(40000)...), bytes.Repeat([]byte{0xff}, 600)...),
		"repeated pattern": bytes.Repeat([]byte("abcabcabd"), 20000),
	}
}

func TestRoundTrip(t *testing.T) {
	for name, data := range roundTripInputs() {
		for _, level := range testLevels {
			tokens := compressAll(t, data, LevelOptions(level))
			decoded, err := decode(tokens)
			if err != nil {
				t.Fatalf("%s, level %d: %v", name, level, err)
			}
			if !bytes.Equal(decoded, data) {
				t.Fatalf("%s, level %d: decoded output doesn't match", name, level)
			}
		}
	}
}

func TestCompressesRepetitiveData(t *testing.T) {
	data := testText(4 * WindowSize)
	for _, level := range testLevels[1:] {
		tokens := compressAll(t, data, LevelOptions(level))
		if len(tokens) > len(data)/2 {
			t.Errorf("level %d: %d tokens for %d bytes of text", level, len(tokens), len(data))
		}
	}
}

func TestChunkedEqualsMonolithic(t *testing.T) {
	seed := []byte("Badger badger bababa test data 25 asfgestghresjkgh")
	for _, level := range testLevels {
		o := LevelOptions(level)
		want := compressAll(t, seed, o)
		checkRoundTrip(t, seed, want)
		for split := 1; split < len(seed); split++ {
			got, _ := compressPieces(t, seed, o, 1<<30, split)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("level %d, split at %d: token streams differ (-want +got):\n%s", level, split, diff)
			}
		}
	}
}

func TestChunkedEqualsMonolithicLarge(t *testing.T) {
	data := append(testText(3*WindowSize+5000), bytes.Repeat([]byte("xy"), 3000)...)
	splits := [][]int{
		{1},
		{WindowSize - 1},
		{WindowSize, WindowSize},
		{2*WindowSize + MaxMatch - 1, 2},
		{BufferSize},
		{BufferSize + 1, 10},
		{1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 50000, 7},
	}
	for _, level := range []int{0, 2, 6} {
		o := LevelOptions(level)
		want := compressAll(t, data, o)
		checkRoundTrip(t, data, want)
		for _, sizes := range splits {
			got, _ := compressPieces(t, data, o, 1<<30, sizes...)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("level %d, pieces %v: token streams differ (-want +got):\n%s", level, sizes, diff)
			}
		}
	}
}

func TestLazyBeatsGreedy(t *testing.T) {
	data := []byte("nba badger nbadger")

	lazy := compressAll(t, data, LevelOptions(6))
	checkRoundTrip(t, data, lazy)
	if got, want := string(AppendText(nil, lazy)), "nba badger n<6,8>"; got != want {
		t.Errorf("lazy: got %q, want %q", got, want)
	}

	greedy := compressAll(t, data, Options{MaxHashChecks: 128, MatchingType: Greedy})
	checkRoundTrip(t, data, greedy)
	if got, want := string(AppendText(nil, greedy)), "nba badger <3,11><4,8>"; got != want {
		t.Errorf("greedy: got %q, want %q", got, want)
	}
}

// tooFarData has "xyz" at the start and again after the filler, so the only
// match for the second one is 3 bytes long, filler+3 bytes back.
func tooFarData(filler int) []byte {
	data := []byte("xyz")
	for i := 0; i < filler; i++ {
		data = append(data, 'a'+byte((i*7+i/16)%16))
	}
	return append(data, "xyz!!"...)
}

func TestMatchTooFar(t *testing.T) {
	data := tooFarData(9000)
	for _, mt := range []MatchingType{Greedy, Lazy} {
		tokens := compressAll(t, data, Options{MaxHashChecks: 1768, LazyIfLessThan: 128, MatchingType: mt})
		checkRoundTrip(t, data, tokens)
		if len(tokens) < 5 {
			t.Fatalf("%v: only %d tokens", mt, len(tokens))
		}
		tail := string(AppendText(nil, tokens[len(tokens)-5:]))
		if tail != "xyz!!" {
			t.Errorf("%v: input ends with %q, want literals %q", mt, tail, "xyz!!")
		}

		// With a larger limit, the match is worth taking.
		tokens = compressAll(t, data, Options{MaxHashChecks: 1768, LazyIfLessThan: 128, MatchingType: mt, TooFarDistance: WindowSize})
		checkRoundTrip(t, data, tokens)
		tail = string(AppendText(nil, tokens[len(tokens)-3:]))
		if tail != "<3,9003>!!" {
			t.Errorf("%v with TooFarDistance %d: input ends with %q, want %q", mt, WindowSize, tail, "<3,9003>!!")
		}
	}
}

func TestWindowBoundary(t *testing.T) {
	inputs := map[string][]byte{
		"window then Test": append(bytes.Repeat([]byte{'a'}, WindowSize), "Test"...),
		"zeros then 1":     append(make([]byte, 2*WindowSize+50), 1),
	}
	for name, data := range inputs {
		for _, level := range testLevels {
			tokens := compressAll(t, data, LevelOptions(level))
			checkRoundTrip(t, data, tokens)
			// Every token costs at least a byte.
			if len(tokens) >= len(data) {
				t.Errorf("%s, level %d: %d tokens for %d bytes", name, level, len(tokens), len(data))
			}
		}
	}
}

func TestBufferFullResume(t *testing.T) {
	inputs := map[string][]byte{
		"text":  testText(3*WindowSize + 777),
		"runs":  append(bytes.Repeat([]byte{7}, 5000), bytes.Repeat([]byte("ab"), 40000)...),
		"noise": testNoise(WindowSize+100, 3),
	}
	for name, data := range inputs {
		for _, level := range testLevels {
			o := LevelOptions(level)
			want := compressAll(t, data, o)
			for _, limit := range []int{1, 2, 7, 100} {
				got, endBlocks := compressPieces(t, data, o, limit, 5000)
				if endBlocks == 0 {
					t.Fatalf("%s, level %d, limit %d: no EndBlock", name, level, limit)
				}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatalf("%s, level %d, limit %d: token streams differ (-want +got):\n%s", name, level, limit, diff)
				}
			}
		}
	}
}

func TestBlockInputBytes(t *testing.T) {
	data := testNoise(BufferSize, 4)
	for _, level := range testLevels {
		s, err := NewState(LevelOptions(level))
		if err != nil {
			t.Fatal(err)
		}
		buf := NewInputBuffer()
		w := NewDynamicWriter(BufferSize + 1)
		n, status, pos := CompressBlock(data, s, buf, w, FlushFinish)
		if n != len(data) || status != Finished {
			t.Fatalf("level %d: got (%d, %v), want (%d, %v)", level, n, status, len(data), Finished)
		}
		if pos != buf.CurrentEnd() {
			t.Errorf("level %d: position %d, want the end of the buffer (%d)", level, pos, buf.CurrentEnd())
		}
		if got := s.BlockInputBytes(); got != BufferSize {
			t.Errorf("level %d: block input bytes = %d, want %d", level, got, BufferSize)
		}
	}
}

func TestNeedInput(t *testing.T) {
	s, err := NewState(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	buf := NewInputBuffer()
	w := NewDynamicWriter(1 << 20)

	data := testText(BufferSize - 1)
	n, status, _ := CompressBlock(data, s, buf, w, FlushNone)
	if n != len(data) || status != NeedInput {
		t.Fatalf("got (%d, %v), want (%d, %v)", n, status, len(data), NeedInput)
	}
	if w.BufferLength() != 0 {
		t.Fatalf("%d tokens written before a full window was available", w.BufferLength())
	}

	// The first of these bytes fills the buffer, so two windows get
	// compressed; the second goes in after the slide.
	more := testText(BufferSize + 1)[BufferSize-1:]
	n, status, _ = CompressBlock(more, s, buf, w, FlushNone)
	if n != len(more) || status != NeedInput {
		t.Fatalf("got (%d, %v), want (%d, %v)", n, status, len(more), NeedInput)
	}
	if w.BufferLength() == 0 {
		t.Fatal("no tokens written")
	}
	if buf.CurrentEnd() != BufferSize-WindowSize+1 {
		t.Errorf("buffer holds %d bytes after sliding, want %d", buf.CurrentEnd(), BufferSize-WindowSize+1)
	}
}

func TestFinishedIsTerminal(t *testing.T) {
	s, err := NewState(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	buf := NewInputBuffer()
	w := NewDynamicWriter(1 << 20)
	data := []byte("hello, hello, hello")
	if _, status, _ := CompressBlock(data, s, buf, w, FlushFinish); status != Finished {
		t.Fatalf("got %v, want %v", status, Finished)
	}
	if !s.IsLastBlock() {
		t.Fatal("IsLastBlock not set after finishing")
	}
	tokens := len(w.Tokens())

	n, status, _ := CompressBlock([]byte("more"), s, buf, w, FlushFinish)
	if n != 0 || status != Finished {
		t.Fatalf("after finishing: got (%d, %v), want (0, %v)", n, status, Finished)
	}
	if len(w.Tokens()) != tokens {
		t.Fatal("tokens written after finishing")
	}

	s.Reset()
	buf.Reset()
	w.Clear()
	if _, status, _ := CompressBlock(data, s, buf, w, FlushFinish); status != Finished {
		t.Fatalf("after Reset: got %v, want %v", status, Finished)
	}
	checkRoundTrip(t, data, w.Tokens())
}

func TestSyncFlush(t *testing.T) {
	text := testText(3*WindowSize + 999)
	cuts := []int{1, 2, 3, 10, WindowSize + 5, WindowSize + 6, 2*WindowSize + 300, 2*WindowSize + 301, len(text)}

	for _, level := range testLevels {
		s, err := NewState(LevelOptions(level))
		if err != nil {
			t.Fatal(err)
		}
		buf := NewInputBuffer()
		w := NewDynamicWriter(1 << 20)

		var tokens []Token
		prev := 0
		for i, cut := range cuts {
			flush := FlushSync
			if i == len(cuts)-1 {
				flush = FlushFinish
			}
			n, status, _ := CompressBlock(text[prev:cut], s, buf, w, flush)
			if n != cut-prev || status != Finished {
				t.Fatalf("level %d, cut %d: got (%d, %v), want (%d, %v)", level, cut, n, status, cut-prev, Finished)
			}
			tokens = append(tokens, w.Tokens()...)
			w.Clear()

			// Everything before a sync point can be decoded.
			checkRoundTrip(t, text[:cut], tokens)
			prev = cut
		}
	}
}

func TestSyncKeepsHistory(t *testing.T) {
	part := []byte(strings.Repeat("The quick brown fox jumps over the lazy dog. ", 3))
	for _, level := range testLevels[1:] {
		s, err := NewState(LevelOptions(level))
		if err != nil {
			t.Fatal(err)
		}
		buf := NewInputBuffer()
		w := NewDynamicWriter(1 << 20)

		CompressBlock(part, s, buf, w, FlushSync)
		tokens := append([]Token(nil), w.Tokens()...)
		first := len(tokens)
		w.Clear()
		CompressBlock(part, s, buf, w, FlushFinish)
		if len(w.Tokens()) >= first {
			t.Errorf("level %d: second copy took %d tokens, first %d", level, len(w.Tokens()), first)
		}
		checkRoundTrip(t, append(append([]byte(nil), part...), part...), append(tokens, w.Tokens()...))
	}
}

func TestSyncThenNoFlush(t *testing.T) {
	data := testText(4 * WindowSize)
	s, err := NewState(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	buf := NewInputBuffer()
	w := NewDynamicWriter(1 << 20)

	var tokens []Token
	feed := func(p []byte, flush Flush) Status {
		n, status, _ := CompressBlock(p, s, buf, w, flush)
		if n != len(p) {
			t.Fatalf("consumed %d of %d bytes", n, len(p))
		}
		tokens = append(tokens, w.Tokens()...)
		w.Clear()
		return status
	}

	feed(data[:100], FlushSync)
	for i := 100; i < 3*WindowSize; i += 4096 {
		end := i + 4096
		if end > 3*WindowSize {
			end = 3 * WindowSize
		}
		feed(data[i:end], FlushNone)
	}
	feed(data[3*WindowSize:3*WindowSize+10], FlushSync)
	if status := feed(data[3*WindowSize+10:], FlushFinish); status != Finished {
		t.Fatalf("got %v, want %v", status, Finished)
	}
	checkRoundTrip(t, data, tokens)
}
