package lz77

// ChunkState is the part of the parser's state that must survive between
// calls to the chunk processors: lazy matching may be holding back one byte
// and the match found there.
type ChunkState struct {
	// currentLength and currentDistance describe the match found at the last
	// position scanned (0 if none). With lazy matching it has not been
	// emitted yet.
	currentLength   uint16
	currentDistance uint16

	prevByte byte // the pending byte, if add is set
	curByte  byte // the byte at the position being scanned

	// add is set when the byte before the next scan position has been held
	// back while looking for a better match.
	add bool
}

type processStatus int

const (
	processOK processStatus = iota
	processBufferFull
)

type chunkResult struct {
	// next is where scanning resumes. It may be past the end of the chunk if
	// a match ran into the lookahead.
	next int

	// hashed is the first position that has not been added to the hash
	// table.
	hashed int

	// overlap is how far next is past the end of the chunk.
	overlap int

	status processStatus
}

func newChunkResult(next, hashed, end int, status processStatus) chunkResult {
	r := chunkResult{
		next:   next,
		hashed: hashed,
		status: status,
	}
	if next > end {
		r.overlap = next - end
	}
	return r
}

// chunkParams holds the search settings passed down from the State.
type chunkParams struct {
	matchingType     MatchingType
	maxHashChecks    uint16
	lazyIfLessThan   int
	tooFar           int
	lazyReduceLength int
}

// processChunk emits tokens for data[start:end] to w. Matches may extend
// past end into the rest of data. hashed is the first position not yet in
// table; it is normally start.
//
// If w fills up, processChunk stops right after the write that filled it,
// with cs updated so that calling again at the returned position continues
// exactly where it left off.
func processChunk(data []byte, start, end, hashed int, cs *ChunkState, table *HashChain, w Sink, p chunkParams) chunkResult {
	if end > len(data) {
		end = len(data)
	}
	if start >= end {
		return newChunkResult(start, hashed, end, processOK)
	}

	switch {
	case p.matchingType == Greedy:
		return processChunkGreedy(data, start, end, hashed, table, w, p)
	case p.maxHashChecks == 0:
		return processChunkRLE(data, start, end, w)
	default:
		return processChunkLazy(data, start, end, hashed, cs, table, w, p)
	}
}

func processChunkGreedy(data []byte, start, end, hashed int, table *HashChain, w Sink, p chunkParams) chunkResult {
	pos := start
	for pos < end {
		b := data[pos]

		if pos+2 >= len(data) || hashed != pos {
			// We are at the last two bytes of the input, so there is no point
			// searching for matches here.
			pos++
			if w.WriteLiteral(b) == Full {
				return newChunkResult(pos, hashed, end, processBufferFull)
			}
			continue
		}

		table.AddHashValue(pos, data[pos+2])
		hashed = pos + 1

		length, distance := LongestMatch(data, table, pos, MinMatch-1, p.maxHashChecks)
		if length >= MinMatch && !matchTooFar(length, distance, p.tooFar) {
			matchEnd := pos + length
			// The bytes covered by the match are not visited, but they still
			// need to be in the hash table.
			hashed = table.insertRange(data, pos+1, minInt(matchEnd, end))
			pos = matchEnd
			if w.WriteLengthDistance(uint16(length), uint16(distance)) == Full {
				return newChunkResult(pos, hashed, end, processBufferFull)
			}
			continue
		}

		pos++
		if w.WriteLiteral(b) == Full {
			return newChunkResult(pos, hashed, end, processBufferFull)
		}
	}
	return newChunkResult(pos, hashed, end, processOK)
}

func processChunkLazy(data []byte, start, end, hashed int, cs *ChunkState, table *HashChain, w Sink, p chunkParams) chunkResult {
	pos := start
	for pos < end {
		prevLength := int(cs.currentLength)
		prevDistance := cs.currentDistance
		cs.curByte = data[pos]

		if pos+2 >= len(data) || hashed != pos {
			// The end of the input. Flush whatever is pending, and emit the
			// last bytes as literals.
			if prevLength >= MinMatch {
				cs.currentLength, cs.currentDistance = 0, 0
				cs.add = false
				pos += prevLength - 1
				if w.WriteLengthDistance(uint16(prevLength), prevDistance) == Full {
					return newChunkResult(pos, hashed, end, processBufferFull)
				}
				continue
			}
			cs.currentLength, cs.currentDistance = 0, 0
			if cs.add {
				cs.add = false
				if w.WriteLiteral(cs.prevByte) == Full {
					return newChunkResult(pos, hashed, end, processBufferFull)
				}
			}
			pos++
			if w.WriteLiteral(cs.curByte) == Full {
				return newChunkResult(pos, hashed, end, processBufferFull)
			}
			continue
		}

		table.AddHashValue(pos, data[pos+2])
		hashed = pos + 1

		var length, distance int
		// Once there is a good enough match pending, take it without
		// looking further.
		if prevLength < MinMatch || prevLength < p.lazyIfLessThan {
			checks := p.maxHashChecks
			if prevLength >= p.lazyReduceLength {
				checks >>= 1
			}
			length, distance = LongestMatch(data, table, pos, prevLength, checks)
			if matchTooFar(length, distance, p.tooFar) {
				length, distance = 0, 0
			}
		}

		if prevLength >= MinMatch && prevLength >= length {
			// There was a match at the previous byte, and the match at this
			// byte is not better. Output the previous match.
			matchEnd := pos - 1 + prevLength
			// pos-1 and pos are already in the hash table.
			hashed = table.insertRange(data, pos+1, minInt(matchEnd, end))
			cs.currentLength, cs.currentDistance = 0, 0
			cs.add = false
			pos = matchEnd
			if w.WriteLengthDistance(uint16(prevLength), prevDistance) == Full {
				return newChunkResult(pos, hashed, end, processBufferFull)
			}
			continue
		}

		// Either there was no match at the previous byte, or this one is
		// better. Hold on to this byte and emit the previous one, if any.
		cs.currentLength, cs.currentDistance = uint16(length), uint16(distance)
		pending, literal := cs.add, cs.prevByte
		cs.prevByte = cs.curByte
		cs.add = true
		pos++
		if pending && w.WriteLiteral(literal) == Full {
			return newChunkResult(pos, hashed, end, processBufferFull)
		}
	}
	return newChunkResult(pos, hashed, end, processOK)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
