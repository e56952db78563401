// Package lz77 is the match-finding stage of a DEFLATE-style compressor.
//
// A compressor of this kind has two main parts:
//   - Something that looks for repeated sequences of bytes
//   - An encoder for the compressed data format (usually an entropy coder)
//
// This package is the first part. It scans a stream through a sliding
// window, finds back-references with a hash chain, and chooses between
// literals and matches with a greedy or lazy parser. The result is a stream
// of tokens handed to a Sink, ready for Huffman coding.
//
// The engine is resumable: CompressBlock can be called with as little or as
// much input as is available, and it stops whenever the Sink reports that
// its buffer is full, so that the caller can emit a block and continue.
package lz77

// A Match is the basic unit of LZ77 compression.
type Match struct {
	Unmatched int // the number of unmatched bytes since the previous match
	Length    int // the number of bytes in the matched string; it may be 0 at the end of the input
	Distance  int // how far back in the stream to copy from
}

// A MatchFinder performs the LZ77 stage of compression, looking for matches.
type MatchFinder interface {
	// FindMatches looks for matches in src, appends them to dst, and returns dst.
	FindMatches(dst []Match, src []byte) []Match

	// Reset clears any internal state, preparing the MatchFinder to be used with
	// a new stream.
	Reset()
}

// An Encoder writes matches in a compressed data format.
type Encoder interface {
	// Encode appends the encoded format of src to dst, using the match
	// information from matches.
	Encode(dst []byte, src []byte, matches []Match, lastBlock bool) []byte

	// Reset clears any internal state, preparing the Encoder to be used with
	// a new stream.
	Reset()
}
