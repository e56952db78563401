package lz77

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Flush tells CompressBlock how much of the buffered input it must process.
type Flush int

const (
	// FlushNone processes input only when a full window plus lookahead is
	// available; more data is expected.
	FlushNone Flush = iota

	// FlushSync processes everything buffered, but leaves the State able to
	// continue with more input. Matches after the flush point can still
	// refer to data before it.
	FlushSync

	// FlushFinish processes everything buffered and ends the stream.
	FlushFinish
)

func (f Flush) String() string {
	switch f {
	case FlushNone:
		return "none"
	case FlushSync:
		return "sync"
	case FlushFinish:
		return "finish"
	}
	return fmt.Sprintf("Flush(%d)", int(f))
}

// Status is returned by CompressBlock to tell the caller what to do next.
type Status int

const (
	// NeedInput means all the input was consumed; call again with more.
	NeedInput Status = iota

	// EndBlock means the sink is full. The caller should encode and clear
	// it, and then call again with the input that was not consumed.
	EndBlock

	// Finished means everything has been flushed to the sink.
	Finished
)

func (s Status) String() string {
	switch s {
	case NeedInput:
		return "need input"
	case EndBlock:
		return "end block"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// State is the state of one compression stream. It is owned by the caller
// and passed to every call of CompressBlock, together with the stream's
// InputBuffer and Sink.
type State struct {
	table HashChain

	// isFirstWindow is set until the first window of the buffer has been
	// processed; until then there is no history to slide out.
	isFirstWindow bool
	// isLastBlock is set once the stream has been finished.
	isLastBlock bool

	// overlap is where scanning resumes, relative to the start of the
	// current window. After a window is complete, it is the number of bytes
	// of the next window that were already covered by a match.
	overlap int

	// currentBlockInputBytes counts the input bytes represented by the
	// tokens written since the last ResetBlockInputBytes.
	currentBlockInputBytes uint64

	maxHashChecks    uint16
	lazyIfLessThan   uint16
	matchingType     MatchingType
	tooFar           int
	lazyReduceLength int

	chunk ChunkState

	// bytesToHash is the number of positions just before the resume point
	// that are not in the hash table yet, either because a match covered
	// them beyond the end of a window, or because they had no lookahead
	// when the stream was flushed.
	bytesToHash int

	// wasSynced is set after a sync flush until the positions left
	// unhashed by the flush have been added.
	wasSynced bool

	log *logrus.Entry
}

// NewState returns a State for a new stream, compressing with the
// settings in o.
func NewState(o Options) (*State, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	s := &State{
		maxHashChecks:    o.MaxHashChecks,
		lazyIfLessThan:   o.LazyIfLessThan,
		matchingType:     o.MatchingType,
		tooFar:           o.TooFarDistance,
		lazyReduceLength: o.LazyReduceLength,
		log:              o.Logger,
	}
	if s.tooFar == 0 {
		s.tooFar = DefaultTooFarDistance
	}
	if s.lazyReduceLength == 0 {
		s.lazyReduceLength = DefaultLazyReduceLength
	}
	if s.log == nil {
		s.log = logrus.NewEntry(logrus.StandardLogger())
	}
	s.Reset()
	return s, nil
}

// Reset prepares s for a new stream with the same settings.
func (s *State) Reset() {
	s.table.Reset()
	s.isFirstWindow = true
	s.isLastBlock = false
	s.overlap = 0
	s.currentBlockInputBytes = 0
	s.chunk = ChunkState{}
	s.bytesToHash = 0
	s.wasSynced = false
}

// BlockInputBytes returns the number of input bytes represented by the
// tokens written since the last call to ResetBlockInputBytes.
func (s *State) BlockInputBytes() uint64 {
	return s.currentBlockInputBytes
}

// ResetBlockInputBytes starts counting input bytes for a new block.
func (s *State) ResetBlockInputBytes() {
	s.currentBlockInputBytes = 0
}

// IsLastBlock reports whether the stream has been finished.
func (s *State) IsLastBlock() bool {
	return s.isLastBlock
}

func (s *State) params() chunkParams {
	return chunkParams{
		matchingType:     s.matchingType,
		maxHashChecks:    s.maxHashChecks,
		lazyIfLessThan:   int(s.lazyIfLessThan),
		tooFar:           s.tooFar,
		lazyReduceLength: s.lazyReduceLength,
	}
}

// usesHashTable is false for the RLE fallback.
func (s *State) usesHashTable() bool {
	return s.matchingType == Greedy || s.maxHashChecks > 0
}

// pendingByte returns 1 if the lazy matcher is holding back a byte.
func (s *State) pendingByte() int {
	if s.chunk.add {
		return 1
	}
	return 0
}

func (s *State) windowStart() int {
	if s.isFirstWindow {
		return 0
	}
	return WindowSize
}

// resumePosition is the index in the input buffer below which all input is
// represented by tokens already written.
func (s *State) resumePosition() int {
	return s.windowStart() + s.overlap - s.pendingByte()
}

// hashPending adds the positions before start that are still missing from
// the hash table, as far as the lookahead in data allows. It returns the
// first position not in the table.
func (s *State) hashPending(data []byte, start int) int {
	if !s.usesHashTable() {
		s.bytesToHash = 0
		return start
	}
	from := start - s.bytesToHash
	if from == 0 && len(data) >= 2 {
		// Nothing has been hashed yet; warm up the rolling hash.
		s.table.AddInitialHashValues(data[0], data[1])
	}
	hashed := s.table.insertRange(data, from, start)
	s.bytesToHash = start - hashed
	if s.bytesToHash == 0 {
		s.wasSynced = false
	}
	return hashed
}

// CompressBlock adds data to buf and writes tokens for as much of the
// buffered input as flush allows to w.
//
// It returns the number of bytes of data consumed, what the caller should
// do next, and the index in buf.Bytes() below which all buffered input is
// represented in the tokens written so far. When the status is EndBlock,
// the caller should call again with data[consumed:] after clearing w.
// Once the stream is finished, no more input is accepted.
func CompressBlock(data []byte, s *State, buf *InputBuffer, w Sink, flush Flush) (consumed int, status Status, position int) {
	if s.isLastBlock {
		return 0, Finished, s.resumePosition()
	}

	// With a sync flush, everything is processed just as when finishing,
	// but the stream stays open.
	finish := flush == FlushFinish || flush == FlushSync
	sync := flush == FlushSync

	remaining := buf.AddData(data)

	for {
		end := buf.CurrentEnd()
		if end < BufferSize && !finish {
			// Wait until there is a full window and its lookahead.
			return len(data) - len(remaining), NeedInput, s.resumePosition()
		}

		chunkStart := s.windowStart()
		chunkEnd := minInt(chunkStart+WindowSize, end)
		start := chunkStart + s.overlap
		hashed := s.hashPending(buf.Bytes(), start)
		pendingBefore := s.pendingByte()

		res := processChunk(buf.Bytes(), start, chunkEnd, hashed, &s.chunk, &s.table, w, s.params())

		if s.usesHashTable() {
			s.bytesToHash = res.next - res.hashed
		}
		// Bytes held back by the lazy matcher belong to the block where
		// they are finally written.
		s.currentBlockInputBytes += uint64(res.next - start + pendingBefore - s.pendingByte())

		if res.next < chunkEnd {
			// The sink filled up in the middle of the window.
			s.overlap = res.next - chunkStart
			status = EndBlock
			break
		}

		if chunkEnd == end && len(remaining) == 0 && finish {
			// Everything buffered has been written.
			s.overlap = res.next - chunkStart
			if sync {
				s.wasSynced = true
			} else {
				s.isLastBlock = true
			}
			if debugLZ77 && s.chunk.add {
				panic("lz77: finished with a pending byte")
			}
			status = Finished
			break
		}

		// Move on to the next window.
		s.overlap = res.next - chunkEnd
		if s.isFirstWindow {
			s.isFirstWindow = false
		} else {
			// Only one window of history is needed, so discard the oldest one.
			s.table.Slide(WindowSize)
			remaining = buf.Slide(remaining)
		}

		if res.status == processBufferFull {
			status = EndBlock
			break
		}
	}

	consumed = len(data) - len(remaining)
	position = s.resumePosition()
	if s.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		s.log.WithFields(logrus.Fields{
			"status":      status,
			"flush":       flush,
			"consumed":    consumed,
			"position":    position,
			"block_bytes": s.currentBlockInputBytes,
			"tokens":      w.BufferLength(),
		}).Debug("lz77: block boundary")
	}
	return consumed, status, position
}
