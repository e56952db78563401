package lz4

import (
	"encoding/binary"
	"hash"
	"io"

	"github.com/andybalholm/lz77"
	"github.com/pierrec/xxHash/xxHash32"
)

const frameMagic = 0x184D2204

// Frame descriptor: version 01, independent blocks, content checksum;
// 4 MB maximum block size.
const (
	frameFlags     = 0x64
	frameBlockSize = 0x70
)

// A FrameEncoder implements the lz77.Encoder interface, writing in the LZ4
// frame format. Each block is compressed independently, so the matches for
// a block must not refer to earlier ones.
type FrameEncoder struct {
	hasher      hash.Hash32
	blockBuffer []byte
}

func (f *FrameEncoder) Reset() {
	f.hasher = nil
}

// header appends the frame header to dst.
func header(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, frameMagic)
	descriptor := []byte{frameFlags, frameBlockSize}
	h := xxHash32.New(0)
	h.Write(descriptor)
	dst = append(dst, descriptor...)
	return append(dst, byte(h.Sum32()>>8))
}

func (f *FrameEncoder) Encode(dst []byte, src []byte, matches []lz77.Match, lastBlock bool) []byte {
	if f.hasher == nil {
		f.hasher = xxHash32.New(0)
		dst = header(dst)
	}

	if len(src) > 0 {
		var be BlockEncoder
		f.blockBuffer = be.Encode(f.blockBuffer[:0], src, matches, lastBlock)
		dst = binary.LittleEndian.AppendUint32(dst, uint32(len(f.blockBuffer)))
		dst = append(dst, f.blockBuffer...)
		f.hasher.Write(src)
	}

	if lastBlock {
		dst = append(dst, 0, 0, 0, 0)
		dst = binary.LittleEndian.AppendUint32(dst, f.hasher.Sum32())
	}

	return dst
}

// NewWriter returns a Writer that compresses data at the given level (see
// lz77.LevelOptions) in the LZ4 frame format.
func NewWriter(dst io.Writer, level int) *lz77.Writer {
	c, err := lz77.NewCompressor(lz77.LevelOptions(level))
	if err != nil {
		// The presets always validate.
		panic(err)
	}
	return &lz77.Writer{
		Dest:        dst,
		MatchFinder: lz77.AutoReset{MatchFinder: c},
		Encoder:     &FrameEncoder{},
		BlockSize:   1 << 16,
	}
}
