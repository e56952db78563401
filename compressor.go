package lz77

// Compressor bundles the State, InputBuffer and DynamicWriter of a single
// stream. It implements the MatchFinder interface.
type Compressor struct {
	state *State
	buf   *InputBuffer
	sink  *DynamicWriter

	tokens []Token
}

// NewCompressor returns a Compressor using the settings in o.
func NewCompressor(o Options) (*Compressor, error) {
	s, err := NewState(o)
	if err != nil {
		return nil, err
	}
	return &Compressor{
		state: s,
		buf:   NewInputBuffer(),
		sink:  NewDynamicWriter(DefaultTokenLimit),
	}, nil
}

func (c *Compressor) Reset() {
	c.state.Reset()
	c.buf.Reset()
	c.sink.Clear()
	c.tokens = c.tokens[:0]
}

// State returns the underlying State.
func (c *Compressor) State() *State {
	return c.state
}

// Tokens runs data through the compressor and appends the tokens produced
// to dst. Unlike CompressBlock, it keeps going across block boundaries
// until all of data has been consumed. With FlushNone, some of data may
// stay buffered until a later call. After the stream has been finished,
// data is ignored.
func (c *Compressor) Tokens(dst []Token, data []byte, flush Flush) []Token {
	for {
		n, status, _ := CompressBlock(data, c.state, c.buf, c.sink, flush)
		data = data[n:]
		dst = append(dst, c.sink.Tokens()...)
		c.sink.Clear()
		c.state.ResetBlockInputBytes()
		if status != EndBlock {
			return dst
		}
	}
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
// Each call ends with a sync flush, so the matches cover all of src, but
// they may refer back to data from previous calls.
func (c *Compressor) FindMatches(dst []Match, src []byte) []Match {
	c.tokens = c.Tokens(c.tokens[:0], src, FlushSync)
	dst, unmatched := AppendMatches(dst, c.tokens, 0)
	if unmatched > 0 {
		dst = append(dst, Match{
			Unmatched: unmatched,
		})
	}
	return dst
}

// AutoReset wraps a MatchFinder that keeps history between calls to
// FindMatches, resetting it before each call. Use it with formats whose
// blocks must be decodable on their own.
type AutoReset struct {
	MatchFinder
}

func (a AutoReset) FindMatches(dst []Match, src []byte) []Match {
	a.Reset()
	return a.MatchFinder.FindMatches(dst, src)
}
