package lz77

const (
	hashBits  = 15
	hashSize  = 1 << hashBits
	hashMask  = hashSize - 1
	hashShift = 5 // hashBits / MinMatch, so that a byte is gone after three updates
)

// HashChain indexes positions in the input buffer by a rolling hash of the
// three bytes starting there.
//
// head[h] holds the most recent position with hash h, and prev[pos&windowMask]
// holds the position that was the head when pos was added. Positions are
// stored plus one, so that 0 means "no entry".
type HashChain struct {
	head [hashSize]uint32
	prev [WindowSize]uint32

	hash uint16
}

// updateHash mixes b into the rolling hash h.
func updateHash(h uint16, b byte) uint16 {
	return ((h << hashShift) ^ uint16(b)) & hashMask
}

func (c *HashChain) Reset() {
	c.head = [hashSize]uint32{}
	c.prev = [WindowSize]uint32{}
	c.hash = 0
}

// AddInitialHashValues primes the rolling hash with the first two bytes of
// the stream, so that the first call to AddHashValue produces the hash of
// the bytes at position 0.
func (c *HashChain) AddInitialHashValues(b0, b1 byte) {
	c.hash = updateHash(updateHash(0, b0), b1)
}

// AddHashValue adds pos to the table. b is the byte at pos+2; the two
// bytes before it must already be in the rolling hash.
func (c *HashChain) AddHashValue(pos int, b byte) {
	c.hash = updateHash(c.hash, b)
	c.AddWithHash(pos, c.hash)
}

// AddWithHash adds pos to the chain for h, without touching the rolling
// hash.
func (c *HashChain) AddWithHash(pos int, h uint16) {
	c.prev[pos&windowMask] = c.head[h]
	c.head[h] = uint32(pos + 1)
}

func (c *HashChain) CurrentHash() uint16 {
	return c.hash
}

func (c *HashChain) SetHash(h uint16) {
	c.hash = h
}

// Prev returns the position that precedes pos on its hash chain.
// The result may be stale if pos has been overwritten by a position a
// whole window later, so callers must check that chains only go backward.
func (c *HashChain) Prev(pos int) (int, bool) {
	v := c.prev[pos&windowMask]
	return int(v) - 1, v != 0
}

// Slide moves every stored position back by n, dropping those that would
// become negative. It is called when the input buffer discards its oldest
// n bytes; n must be a multiple of WindowSize so that prev stays indexed
// correctly.
func (c *HashChain) Slide(n int) {
	slide := func(table []uint32) {
		for i, v := range table {
			if int(v) > n {
				table[i] = v - uint32(n)
			} else {
				table[i] = 0
			}
		}
	}
	// Iterate over slices instead of arrays to avoid copying the tables.
	slide(c.head[:])
	slide(c.prev[:])
}

// insertRange adds the positions from start up to end (exclusive) to c,
// stopping early at the first position that doesn't have two bytes of
// lookahead in data. It returns the first position that was not added.
// The rolling hash is kept in a local while the loop runs.
func (c *HashChain) insertRange(data []byte, start, end int) int {
	if end > len(data)-2 {
		end = len(data) - 2
	}
	h := c.CurrentHash()
	pos := start
	for ; pos < end; pos++ {
		h = updateHash(h, data[pos+2])
		c.AddWithHash(pos, h)
	}
	c.SetHash(h)
	return pos
}
