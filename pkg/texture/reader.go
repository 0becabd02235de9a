package texture

import (
	"encoding/binary"
	"io"
)

// reader is a little-endian field reader over a seekable source. The first
// failure sticks; callers check err once after a group of reads.
type reader struct {
	r    io.ReadSeeker
	size int64
	buf  [8]byte
	err  error
}

func newReader(r io.ReadSeeker) (*reader, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, ioError("file size", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, ioError("file", err)
	}
	return &reader{r: r, size: size}, nil
}

func (r *reader) fail(what string, err error) {
	if r.err == nil {
		r.err = ioError(what, err)
	}
}

func (r *reader) magic() [4]byte {
	var m [4]byte
	if r.err == nil {
		if _, err := io.ReadFull(r.r, m[:]); err != nil {
			r.fail("magic", err)
		}
	}
	return m
}

func (r *reader) u16() uint16 {
	if r.err != nil {
		return 0
	}
	if _, err := io.ReadFull(r.r, r.buf[:2]); err != nil {
		r.fail("header", err)
		return 0
	}
	return binary.LittleEndian.Uint16(r.buf[:2])
}

func (r *reader) u32() uint32 {
	if r.err != nil {
		return 0
	}
	if _, err := io.ReadFull(r.r, r.buf[:4]); err != nil {
		r.fail("header", err)
		return 0
	}
	return binary.LittleEndian.Uint32(r.buf[:4])
}

// peek32 reads a u32 without consuming it.
func (r *reader) peek32() uint32 {
	pos := r.pos()
	v := r.u32()
	r.seek(pos)
	return v
}

func (r *reader) pos() int64 {
	if r.err != nil {
		return 0
	}
	p, err := r.r.Seek(0, io.SeekCurrent)
	if err != nil {
		r.fail("position", err)
	}
	return p
}

func (r *reader) seek(pos int64) {
	if r.err != nil {
		return
	}
	if _, err := r.r.Seek(pos, io.SeekStart); err != nil {
		r.fail("seek", err)
	}
}

func (r *reader) skip(n int64) {
	if r.err != nil {
		return
	}
	pos := r.pos()
	if pos+n > r.size {
		r.fail("data", io.ErrUnexpectedEOF)
		return
	}
	r.seek(pos + n)
}

// bytes reads exactly n bytes.
func (r *reader) bytes(n int, what string) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || int64(n) > r.size-r.pos() {
		r.fail(what, io.ErrUnexpectedEOF)
		return nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		r.fail(what, err)
		return nil
	}
	return b
}

// atMost reads up to n bytes, stopping at the end of the source. The
// buffer is sized by what remains, not by n.
func (r *reader) atMost(n int, what string) []byte {
	if r.err != nil {
		return nil
	}
	remaining := r.size - r.pos()
	if r.err != nil {
		return nil
	}
	if remaining <= 0 {
		return nil
	}
	if int64(n) > remaining {
		n = int(remaining)
	}
	b := make([]byte, n)
	got, err := io.ReadFull(r.r, b)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		r.fail(what, err)
		return nil
	}
	return b[:got]
}
