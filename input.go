package lz77

// InputBuffer stages input for the compressor: up to two windows of data
// plus MaxMatch bytes of lookahead.
type InputBuffer struct {
	buf []byte
}

func NewInputBuffer() *InputBuffer {
	return &InputBuffer{buf: make([]byte, 0, BufferSize)}
}

// AddData appends as much of data as fits, and returns the rest.
func (b *InputBuffer) AddData(data []byte) []byte {
	if b.buf == nil {
		b.buf = make([]byte, 0, BufferSize)
	}
	n := BufferSize - len(b.buf)
	if n > len(data) {
		n = len(data)
	}
	b.buf = append(b.buf, data[:n]...)
	return data[n:]
}

// CurrentEnd returns the number of bytes in the buffer.
func (b *InputBuffer) CurrentEnd() int {
	return len(b.buf)
}

// Bytes returns the buffered data. The slice is only valid until the next
// call to AddData, Slide or Reset.
func (b *InputBuffer) Bytes() []byte {
	return b.buf
}

// Slide discards the oldest WindowSize bytes, moving the rest to the
// front, and then adds as much of data as fits. It returns the part of data
// that still did not fit.
func (b *InputBuffer) Slide(data []byte) []byte {
	if len(b.buf) <= WindowSize {
		b.buf = b.buf[:0]
	} else {
		n := copy(b.buf, b.buf[WindowSize:])
		b.buf = b.buf[:n]
	}
	return b.AddData(data)
}

func (b *InputBuffer) Reset() {
	b.buf = b.buf[:0]
}
