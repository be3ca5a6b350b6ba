package swf

import (
	"fmt"

	"swfplay/internal/debug"
)

// Reader is a positioned cursor over a tag-stream slice. The position is
// relative to the slice start; the underlying buffer is never mutated.
type Reader struct {
	slice   Slice
	pos     int
	Version uint8
}

// NewReader creates a reader over the given slice
func NewReader(slice Slice, version uint8) *Reader {
	return &Reader{slice: slice, Version: version}
}

// Position returns the current position relative to the slice start
func (r *Reader) Position() int {
	return r.pos
}

// Seek sets the current position relative to the slice start
func (r *Reader) Seek(pos int) {
	if pos < 0 {
		pos = 0
	}
	r.pos = pos
}

// AbsolutePosition returns the current position as an offset into the shared
// movie buffer.
func (r *Reader) AbsolutePosition() int {
	return r.slice.Start + r.pos
}

// Remaining returns the number of unread bytes
func (r *Reader) Remaining() int {
	return r.slice.Len() - r.pos
}

// SliceAt returns a slice of the shared buffer covering length bytes from
// the current position. The reader does not advance.
func (r *Reader) SliceAt(length int) Slice {
	end := r.pos + length
	if end > r.slice.Len() {
		end = r.slice.Len()
	}
	return r.slice.Sub(r.pos, end)
}

// SliceToEnd returns a slice covering everything from the current position
// to the end of the reader's slice.
func (r *Reader) SliceToEnd() Slice {
	return r.slice.Sub(r.pos, r.slice.Len())
}

// ReadU8 reads an unsigned byte
func (r *Reader) ReadU8() (uint8, error) {
	if r.Remaining() < 1 {
		return 0, fmt.Errorf("unexpected end of tag stream at %d", r.pos)
	}
	v := r.slice.Data[r.slice.Start+r.pos]
	r.pos++
	return v, nil
}

// ReadU16 reads an unsigned 16-bit value (little-endian)
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

// ReadU32 reads an unsigned 32-bit value (little-endian)
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// ReadI16 reads a signed 16-bit value (little-endian)
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadBytes reads exactly n bytes
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, fmt.Errorf("unexpected end of tag stream: need %d bytes at %d, have %d", n, r.pos, r.Remaining())
	}
	start := r.slice.Start + r.pos
	r.pos += n
	return r.slice.Data[start : start+n], nil
}

// ReadString reads a null-terminated string
func (r *Reader) ReadString() (string, error) {
	start := r.pos
	for {
		b, err := r.ReadU8()
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
	}
	return string(r.slice.Data[r.slice.Start+start : r.slice.Start+r.pos-1]), nil
}

// ReadTagCodeAndLength reads a tag header. Long tags (length 0x3F) carry a
// 32-bit length word.
func (r *Reader) ReadTagCodeAndLength() (TagCode, int, error) {
	codeAndLen, err := r.ReadU16()
	if err != nil {
		return 0, 0, err
	}
	code := TagCode(codeAndLen >> 6)
	length := int(codeAndLen & 0x3F)
	if length == 0x3F {
		longLen, err := r.ReadU32()
		if err != nil {
			return 0, 0, err
		}
		length = int(longLen)
	}
	return code, length, nil
}

// TagCallback handles one tag. The callback should consume exactly length
// bytes; the decode loop repositions past the tag body either way.
type TagCallback func(r *Reader, code TagCode, length int) error

// DecodeTags reads tags from the current position, invoking the callback for
// each, until the sentinel tag (ShowFrame or End), an End tag, or stream
// exhaustion. Unknown tag codes pass through the callback like any other
// (callers ignore codes they do not handle). A callback error is logged and
// the loop continues with the next tag. Returns true if the sentinel or an
// End tag was reached.
func DecodeTags(r *Reader, callback TagCallback, sentinel TagCode, logger *debug.Logger) bool {
	for r.Remaining() > 0 {
		code, length, err := r.ReadTagCodeAndLength()
		if err != nil {
			if logger != nil {
				logger.LogTimelinef(debug.LogLevelError, "Malformed tag header: %v", err)
			}
			return false
		}
		if length > r.Remaining() {
			if logger != nil {
				logger.LogTimelinef(debug.LogLevelError,
					"Tag %s length %d overruns stream (%d remaining)", code, length, r.Remaining())
			}
			return false
		}

		tagStart := r.Position()
		if code == sentinel {
			r.Seek(tagStart + length)
			return true
		}
		if code == TagEnd {
			return true
		}

		if err := callback(r, code, length); err != nil {
			if logger != nil {
				logger.LogTimelinef(debug.LogLevelError, "Error decoding tag %s: %v", code, err)
			}
		}
		// Reposition past the tag body regardless of how much the callback consumed.
		r.Seek(tagStart + length)
	}
	return false
}
