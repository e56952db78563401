package lz77

// processChunkRLE is the fast path used when match searching is turned off:
// it only finds runs of the same byte, encoded as matches with distance 1.
// It doesn't use the hash table at all.
func processChunkRLE(data []byte, start, end int, w Sink) chunkResult {
	pos := start
	for pos < end {
		b := data[pos]

		if pos > 0 && data[pos-1] == b {
			maxLength := len(data) - pos
			if maxLength > MaxMatch {
				maxLength = MaxMatch
			}
			n := matchLen(data[pos:pos+maxLength], data[pos-1:pos-1+maxLength])
			if n >= MinMatch {
				pos += n
				if w.WriteLengthDistance(uint16(n), 1) == Full {
					return newChunkResult(pos, pos, end, processBufferFull)
				}
				continue
			}
		}

		pos++
		if w.WriteLiteral(b) == Full {
			return newChunkResult(pos, pos, end, processBufferFull)
		}
	}
	return newChunkResult(pos, pos, end, processOK)
}
