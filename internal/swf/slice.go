package swf

// CharacterID identifies a character in the library, unique within one movie.
type CharacterID = uint16

// FrameNumber is 1-based externally; 0 means "before frame 1" during rewind.
type FrameNumber = uint16

// Depth is a slot on a display list; a clip holds at most one child per depth.
type Depth = int

// Slice is a (buffer, start, end) handle into the shared movie byte buffer.
// The buffer is reference-shared and never mutated, so slices are cheap to
// copy and safe to hand to the action queue and audio backend for deferred
// consumption.
type Slice struct {
	Data  []byte
	Start int
	End   int
}

// Bytes returns the bytes covered by the slice
func (s Slice) Bytes() []byte {
	if s.Start < 0 || s.End > len(s.Data) || s.Start > s.End {
		return nil
	}
	return s.Data[s.Start:s.End]
}

// Len returns the length of the slice in bytes
func (s Slice) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true if the slice covers no bytes
func (s Slice) IsEmpty() bool {
	return s.Len() <= 0
}

// Sub returns a sub-slice given offsets relative to this slice's start
func (s Slice) Sub(start, end int) Slice {
	return Slice{Data: s.Data, Start: s.Start + start, End: s.Start + end}
}
