package lz77

import (
	"errors"
	"io"
)

// DefaultBlockSize is the block size used by a Writer when BlockSize is 0.
const DefaultBlockSize = 1 << 16

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("lz77: write to closed Writer")

// A Writer compresses data by passing it through a MatchFinder and then an
// Encoder, one block at a time.
type Writer struct {
	Dest        io.Writer
	MatchFinder MatchFinder
	Encoder     Encoder
	BlockSize   int

	inBuf   []byte
	outBuf  []byte
	matches []Match
	err     error
	closed  bool
}

func (w *Writer) blockSize() int {
	if w.BlockSize <= 0 {
		return DefaultBlockSize
	}
	return w.BlockSize
}

func (w *Writer) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	if w.closed {
		return 0, ErrClosed
	}

	for len(p) > 0 {
		if len(w.inBuf) == w.blockSize() {
			// A full block is only encoded once more data arrives, so that
			// the last block of the stream is never empty.
			if err := w.encodeBlock(false); err != nil {
				return n, err
			}
		}
		k := w.blockSize() - len(w.inBuf)
		if k > len(p) {
			k = len(p)
		}
		w.inBuf = append(w.inBuf, p[:k]...)
		p = p[k:]
		n += k
	}
	return n, nil
}

func (w *Writer) encodeBlock(lastBlock bool) error {
	w.matches = w.MatchFinder.FindMatches(w.matches[:0], w.inBuf)
	w.outBuf = w.Encoder.Encode(w.outBuf[:0], w.inBuf, w.matches, lastBlock)
	w.inBuf = w.inBuf[:0]
	if len(w.outBuf) > 0 {
		_, w.err = w.Dest.Write(w.outBuf)
	}
	return w.err
}

// Close encodes any buffered data as the last block of the stream. It does
// not close Dest.
func (w *Writer) Close() error {
	if w.err != nil {
		return w.err
	}
	if w.closed {
		return nil
	}
	w.closed = true
	return w.encodeBlock(true)
}

// Reset discards the Writer's state and prepares it to write a new stream
// to dst.
func (w *Writer) Reset(dst io.Writer) {
	w.Dest = dst
	w.inBuf = w.inBuf[:0]
	w.err = nil
	w.closed = false
	w.MatchFinder.Reset()
	w.Encoder.Reset()
}
