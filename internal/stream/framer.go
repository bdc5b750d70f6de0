package stream

import "bytes"

// Framer reassembles newline-terminated lines from a stream of arbitrary
// byte chunks. The trailing fragment of each chunk is carried over until a
// later chunk completes it, so splitting the stream at any byte offset —
// including inside a multi-byte UTF-8 sequence — never corrupts a line or
// invents a break. Bytes are kept raw until a full line is assembled; '\n'
// (0x0A) never appears inside a multi-byte sequence, so scanning for it is
// safe on partial runes.
type Framer struct {
	buf []byte
}

// NewFramer creates an empty Framer.
func NewFramer() *Framer {
	return &Framer{}
}

// Push appends chunk to the carry-over buffer and returns every line the
// chunk completed, in order, with the terminating newline stripped. Lines
// are copies; callers may retain them.
func (f *Framer) Push(chunk []byte) [][]byte {
	f.buf = append(f.buf, chunk...)

	var lines [][]byte
	for {
		i := bytes.IndexByte(f.buf, '\n')
		if i < 0 {
			break
		}
		line := make([]byte, i)
		copy(line, f.buf[:i])
		lines = append(lines, line)
		f.buf = f.buf[i+1:]
	}

	if len(f.buf) == 0 {
		f.buf = nil
	}
	return lines
}

// Close returns any unterminated tail left in the buffer at end of stream
// and resets the Framer. The pipeline drops this tail rather than emitting
// it as a line: a line without its newline may be a truncated event.
func (f *Framer) Close() []byte {
	tail := f.buf
	f.buf = nil
	return tail
}
