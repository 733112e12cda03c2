// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iobuf

import (
	"bytes"
	"io"

	"code.hybscloud.com/iox"
)

const defaultMaxCap = 1 << 20

// Reader is a reserved byte span with a read cursor (pos) and a fill limit
// (limit), fed by repeated Fill calls from an underlying io.Reader. ReadLine
// and ReadFixed yield zero-copy views into the span; ReadFlush commits the
// bytes consumed by the most recent view.
type Reader struct {
	src    io.Reader
	buf    []byte
	pos    int
	limit  int
	maxCap int

	lastEnd  int // pos this buffer's view will advance to on ReadFlush
	lowWater int // ReadFixed's requested frame size while waiting for more data
	hiWater  int // cap on how large the buffer may grow while waiting
}

// NewReader creates a Reader over src with an initial buffer capacity.
func NewReader(src io.Reader, initialCap int) *Reader {
	if initialCap <= 0 {
		initialCap = 4096
	}
	return &Reader{src: src, buf: make([]byte, initialCap), maxCap: defaultMaxCap}
}

// ReadSize returns the number of bytes currently buffered without doing
// further I/O.
func (r *Reader) ReadSize() int { return r.limit - r.pos }

// Fill reads more bytes from the underlying source into the buffer, growing
// it if the low/high watermarks set by a prior failed ReadFixed require
// room for a larger frame. Returns the number of bytes read; io.EOF or
// iox.ErrWouldBlock propagate from the source unchanged.
func (r *Reader) Fill() (int, error) {
	r.compact()
	need := r.hiWater
	if need == 0 {
		need = len(r.buf)
	}
	if frame := r.pos + r.lowWater; need < frame {
		need = frame
	}
	if need > r.maxCap {
		need = r.maxCap
	}
	if len(r.buf) < need {
		grown := make([]byte, need)
		copy(grown, r.buf[:r.limit])
		r.buf = grown
	}
	if r.limit >= len(r.buf) {
		return 0, nil
	}
	n, err := r.src.Read(r.buf[r.limit:])
	r.limit += n
	if err != nil && iox.IsWouldBlock(err) {
		return n, err
	}
	return n, err
}

// compact slides unread bytes to the front of the buffer once the read
// cursor has advanced far enough to be worth the memmove.
func (r *Reader) compact() {
	if r.pos == 0 {
		return
	}
	if r.pos == r.limit {
		r.pos, r.limit = 0, 0
		return
	}
	if r.pos < len(r.buf)/2 {
		return
	}
	n := copy(r.buf, r.buf[r.pos:r.limit])
	r.limit = n
	r.pos = 0
}

// ReadLine locates the next '\n' in the buffered bytes, yields the
// preceding span (a trailing '\r' stripped) into out as a zero-copy slice,
// and returns true. Returns false if no full line is buffered yet.
func (r *Reader) ReadLine(out *[]byte) bool {
	avail := r.buf[r.pos:r.limit]
	idx := bytes.IndexByte(avail, '\n')
	if idx < 0 {
		return false
	}
	end := idx
	if end > 0 && avail[end-1] == '\r' {
		end--
	}
	*out = avail[:end]
	r.lastEnd = r.pos + idx + 1
	return true
}

// ReadFixed yields a zero-copy view of exactly n bytes if available and
// advances past it on the next ReadFlush. Otherwise it records n (and
// maxCap, if non-zero) as watermarks so the next Fill call grows the
// buffer enough to satisfy the frame, and returns false.
func (r *Reader) ReadFixed(out *[]byte, n int, maxCap int) bool {
	if r.limit-r.pos >= n {
		*out = r.buf[r.pos : r.pos+n]
		r.lastEnd = r.pos + n
		r.lowWater, r.hiWater = 0, 0
		return true
	}
	r.lowWater = n
	if maxCap > 0 {
		r.hiWater = maxCap
	}
	return false
}

// ReadFlush commits consumption of the bytes yielded by the most recent
// ReadLine or ReadFixed call.
func (r *Reader) ReadFlush() {
	r.pos = r.lastEnd
}

// ReadReset clears the low/high watermarks after a completed framing
// cycle, optionally re-arming them to new values.
func (r *Reader) ReadReset(maxCap, minCap int) {
	r.hiWater = maxCap
	r.lowWater = minCap
}

// FixedHandler is implemented by protocol handlers driving ReadFixedHelper.
type FixedHandler interface {
	OnReadFixed(frame []byte, ctx any) (nextSize int, ok bool)
}

// ReadFixedHelper repeatedly calls ReadFixed then parent.OnReadFixed then
// ReadFlush as long as full frames are already buffered, feeding the
// handler-supplied next frame size back into outNeed so the caller can
// decide whether to wait for more bytes. It stops and returns false the
// moment the handler itself returns false.
func ReadFixedHelper(r *Reader, parent FixedHandler, outNeed *int, n int, maxCap int, ctx any) (bool, error) {
	size := n
	for {
		var frame []byte
		if !r.ReadFixed(&frame, size, maxCap) {
			*outNeed = size
			return true, nil
		}
		next, ok := parent.OnReadFixed(frame, ctx)
		r.ReadFlush()
		if !ok {
			*outNeed = 0
			return false, nil
		}
		if next <= 0 {
			*outNeed = 0
			return true, nil
		}
		size = next
	}
}

// Handler is the framing contract protocol servers implement over a Reader.
type Handler interface {
	// OnRead is called after Fill adds data. Returning true with *needOut
	// > 0 asks the caller to wait for at least that many more bytes before
	// calling again; true with *needOut == 0 means continue parsing
	// immediately; false means close the connection.
	OnRead(needOut *int, r *Reader, ctx any) (bool, error)
}
