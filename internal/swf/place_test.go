package swf

import (
	"testing"

	"swfplay/internal/debug"
)

// decodeSinglePlace runs the builder's single tag through the decode path
func decodeSinglePlace(t *testing.T, b *Builder) *PlaceObject {
	t.Helper()
	logger := debug.NewLogger(100)
	r := NewReader(Slice{Data: b.TagBytes(), Start: 0, End: len(b.TagBytes())}, 6)

	var place *PlaceObject
	callback := func(r *Reader, code TagCode, length int) error {
		var err error
		place, err = r.ReadPlaceObject2Or3(2)
		return err
	}
	DecodeTags(r, callback, TagShowFrame, logger)
	if place == nil {
		t.Fatal("no place object decoded")
	}
	return place
}

// TestPlaceObject2Place tests the Place action layout
func TestPlaceObject2Place(t *testing.T) {
	b := NewBuilder(6)
	b.PlaceObjectNew(3, 17)
	b.ShowFrame()

	place := decodeSinglePlace(t, b)
	if place.Action != PlaceActionPlace {
		t.Errorf("action = %d, expected Place", place.Action)
	}
	if place.CharacterID != 17 || place.Depth != 3 {
		t.Errorf("id %d at depth %d, expected 17 at 3", place.CharacterID, place.Depth)
	}
	if place.Matrix != nil {
		t.Error("expected no matrix on a bare place")
	}
}

// TestPlaceObject2Replace tests the Move+HasCharacter combination
func TestPlaceObject2Replace(t *testing.T) {
	b := NewBuilder(6)
	b.PlaceObjectReplace(1, 20)
	b.ShowFrame()

	place := decodeSinglePlace(t, b)
	if place.Action != PlaceActionReplace {
		t.Errorf("action = %d, expected Replace", place.Action)
	}
	if place.ID() != 20 {
		t.Errorf("id = %d, expected 20", place.ID())
	}
}

// TestPlaceObject2Modify tests a matrix-only modify
func TestPlaceObject2Modify(t *testing.T) {
	m := Matrix{A: 1, D: 1, TX: 400, TY: -60}
	b := NewBuilder(6)
	b.PlaceObjectMatrix(5, m)
	b.ShowFrame()

	place := decodeSinglePlace(t, b)
	if place.Action != PlaceActionModify {
		t.Errorf("action = %d, expected Modify", place.Action)
	}
	if place.ID() != 0 {
		t.Errorf("modify id = %d, expected 0", place.ID())
	}
	if place.Matrix == nil || *place.Matrix != m {
		t.Errorf("matrix = %+v, expected %+v", place.Matrix, m)
	}
}

// TestPlaceObject2Named tests the instance name field
func TestPlaceObject2Named(t *testing.T) {
	b := NewBuilder(6)
	b.PlaceObjectNamed(2, 9, "hero")
	b.ShowFrame()

	place := decodeSinglePlace(t, b)
	if place.Name == nil || *place.Name != "hero" {
		t.Errorf("name = %v, expected hero", place.Name)
	}
}

// TestStartSoundSyncFlags tests the SoundEvent decoding per sync flags
func TestStartSoundSyncFlags(t *testing.T) {
	cases := []SoundEvent{SoundEventEvent, SoundEventStart, SoundEventStop}
	for _, event := range cases {
		b := NewBuilder(6)
		b.StartSound(7, event)
		b.ShowFrame()

		logger := debug.NewLogger(100)
		r := NewReader(Slice{Data: b.TagBytes(), Start: 0, End: len(b.TagBytes())}, 6)
		var start *StartSound
		callback := func(r *Reader, code TagCode, length int) error {
			var err error
			start, err = r.ReadStartSound()
			return err
		}
		DecodeTags(r, callback, TagShowFrame, logger)
		if start == nil {
			t.Fatal("no StartSound decoded")
		}
		if start.ID != 7 {
			t.Errorf("id = %d, expected 7", start.ID)
		}
		if start.SoundInfo.Event != event {
			t.Errorf("event = %d, expected %d", start.SoundInfo.Event, event)
		}
	}
}

// TestDefineSoundHeader tests the DefineSound header decode
func TestDefineSoundHeader(t *testing.T) {
	samples := []byte{10, 20, 30, 40}
	b := NewBuilder(6)
	b.DefineSound(12, samples)

	logger := debug.NewLogger(100)
	r := NewReader(Slice{Data: b.TagBytes(), Start: 0, End: len(b.TagBytes())}, 6)
	var sound *Sound
	callback := func(r *Reader, code TagCode, length int) error {
		var err error
		sound, err = r.ReadDefineSound(length)
		return err
	}
	DecodeTags(r, callback, TagEnd, logger)
	if sound == nil {
		t.Fatal("no DefineSound decoded")
	}
	if sound.ID != 12 {
		t.Errorf("id = %d, expected 12", sound.ID)
	}
	if sound.SampleCount != 4 {
		t.Errorf("sample count = %d, expected 4", sound.SampleCount)
	}
	if sound.Format.Compression != SoundCompressionUncompressed {
		t.Errorf("compression = %d, expected uncompressed", sound.Format.Compression)
	}
	got := sound.Data.Bytes()
	if len(got) != 4 || got[0] != 10 || got[3] != 40 {
		t.Errorf("sample payload = %v, expected %v", got, samples)
	}
}
