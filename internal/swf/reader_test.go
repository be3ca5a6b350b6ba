package swf

import (
	"testing"

	"swfplay/internal/debug"
)

// TestTagHeaderShortForm tests short tag header encoding and decoding
func TestTagHeaderShortForm(t *testing.T) {
	b := NewBuilder(6)
	b.Tag(TagShowFrame, nil)
	b.Tag(TagDoAction, []byte{1, 2, 3})

	r := NewReader(Slice{Data: b.TagBytes(), Start: 0, End: len(b.TagBytes())}, 6)

	code, length, err := r.ReadTagCodeAndLength()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != TagShowFrame || length != 0 {
		t.Errorf("got code %d length %d, expected ShowFrame with length 0", code, length)
	}

	code, length, err = r.ReadTagCodeAndLength()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != TagDoAction || length != 3 {
		t.Errorf("got code %d length %d, expected DoAction with length 3", code, length)
	}
}

// TestTagHeaderLongForm tests the 32-bit length escape for large tags
func TestTagHeaderLongForm(t *testing.T) {
	big := make([]byte, 100)
	b := NewBuilder(6)
	b.Tag(TagDefineSound, big)

	r := NewReader(Slice{Data: b.TagBytes(), Start: 0, End: len(b.TagBytes())}, 6)
	code, length, err := r.ReadTagCodeAndLength()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != TagDefineSound || length != 100 {
		t.Errorf("got code %d length %d, expected DefineSound with length 100", code, length)
	}
}

// TestDecodeTagsStopsAtSentinel tests that decoding halts at ShowFrame
func TestDecodeTagsStopsAtSentinel(t *testing.T) {
	b := NewBuilder(6)
	b.DoAction([]byte{1})
	b.ShowFrame()
	b.DoAction([]byte{2})
	b.ShowFrame()
	b.End()

	logger := debug.NewLogger(100)
	r := NewReader(Slice{Data: b.TagBytes(), Start: 0, End: len(b.TagBytes())}, 6)

	var seen []TagCode
	callback := func(r *Reader, code TagCode, length int) error {
		seen = append(seen, code)
		return nil
	}
	if !DecodeTags(r, callback, TagShowFrame, logger) {
		t.Fatal("expected sentinel to be reached")
	}
	if len(seen) != 1 || seen[0] != TagDoAction {
		t.Errorf("first frame saw tags %v, expected one DoAction", seen)
	}

	// The second decode continues from the saved position.
	seen = nil
	if !DecodeTags(r, callback, TagShowFrame, logger) {
		t.Fatal("expected sentinel to be reached on frame 2")
	}
	if len(seen) != 1 || seen[0] != TagDoAction {
		t.Errorf("second frame saw tags %v, expected one DoAction", seen)
	}
}

// TestDecodeTagsCallbackErrorContinues tests that a failing tag does not
// abort the frame.
func TestDecodeTagsCallbackErrorContinues(t *testing.T) {
	b := NewBuilder(6)
	b.DoAction([]byte{1})
	b.DoAction([]byte{2})
	b.ShowFrame()
	b.End()

	logger := debug.NewLogger(100)
	r := NewReader(Slice{Data: b.TagBytes(), Start: 0, End: len(b.TagBytes())}, 6)

	calls := 0
	callback := func(r *Reader, code TagCode, length int) error {
		calls++
		if calls == 1 {
			return errTruncatedClipAction
		}
		return nil
	}
	DecodeTags(r, callback, TagShowFrame, logger)
	if calls != 2 {
		t.Errorf("callback ran %d times, expected 2 (error must not abort the loop)", calls)
	}
}

// TestDecodeTagsRepositionsAfterShortCallback tests that under-consuming
// callbacks do not desync the stream.
func TestDecodeTagsRepositionsAfterShortCallback(t *testing.T) {
	b := NewBuilder(6)
	b.DoAction([]byte{1, 2, 3, 4})
	b.DoAction([]byte{5})
	b.ShowFrame()
	b.End()

	logger := debug.NewLogger(100)
	r := NewReader(Slice{Data: b.TagBytes(), Start: 0, End: len(b.TagBytes())}, 6)

	var lengths []int
	callback := func(r *Reader, code TagCode, length int) error {
		// Consume nothing; the loop must reposition.
		lengths = append(lengths, length)
		return nil
	}
	DecodeTags(r, callback, TagShowFrame, logger)
	if len(lengths) != 2 || lengths[0] != 4 || lengths[1] != 1 {
		t.Errorf("saw tag lengths %v, expected [4 1]", lengths)
	}
}

// TestRectangleRoundTrip tests bit-packed rectangle encode/decode
func TestRectangleRoundTrip(t *testing.T) {
	rects := []Rectangle{
		{},
		{XMin: 0, XMax: 11000, YMin: 0, YMax: 8000},
		{XMin: -200, XMax: 300, YMin: -1, YMax: 1},
	}
	for _, want := range rects {
		data := encodeRectangle(want)
		r := NewReader(Slice{Data: data, Start: 0, End: len(data)}, 6)
		got, err := r.ReadRectangle()
		if err != nil {
			t.Fatalf("rect %+v: %v", want, err)
		}
		if got != want {
			t.Errorf("rect round trip: got %+v, expected %+v", got, want)
		}
	}
}

// TestMatrixRoundTrip tests bit-packed matrix encode/decode
func TestMatrixRoundTrip(t *testing.T) {
	matrices := []Matrix{
		IdentityMatrix(),
		{A: 1, D: 1, TX: 100, TY: -250},
		{A: 2, D: 0.5, TX: 20, TY: 20},
	}
	for _, want := range matrices {
		data := encodeMatrix(want)
		r := NewReader(Slice{Data: data, Start: 0, End: len(data)}, 6)
		got, err := r.ReadMatrix()
		if err != nil {
			t.Fatalf("matrix %+v: %v", want, err)
		}
		if got != want {
			t.Errorf("matrix round trip: got %+v, expected %+v", got, want)
		}
	}
}

// TestSliceSub tests slice arithmetic against the shared buffer
func TestSliceSub(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	s := Slice{Data: data, Start: 2, End: 8}
	sub := s.Sub(1, 3)
	if sub.Start != 3 || sub.End != 5 {
		t.Errorf("sub slice covers [%d,%d), expected [3,5)", sub.Start, sub.End)
	}
	got := sub.Bytes()
	if len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Errorf("sub bytes = %v, expected [3 4]", got)
	}
}
