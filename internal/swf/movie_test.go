package swf

import (
	"bytes"
	"compress/zlib"
	"testing"
)

// TestParseMovieUncompressed tests FWS header parsing
func TestParseMovieUncompressed(t *testing.T) {
	b := NewBuilder(6)
	b.ShowFrame()
	b.ShowFrame()
	b.End()

	movie, err := ParseMovie(b.Movie())
	if err != nil {
		t.Fatalf("failed to parse movie: %v", err)
	}
	if movie.Version != 6 {
		t.Errorf("version = %d, expected 6", movie.Version)
	}
	if movie.NumFrames != 2 {
		t.Errorf("frames = %d, expected 2", movie.NumFrames)
	}
	if movie.FrameRate != 12 {
		t.Errorf("frame rate = %v, expected 12", movie.FrameRate)
	}
	if movie.Width() != 550*20 || movie.Height() != 400*20 {
		t.Errorf("stage %dx%d twips, expected 11000x8000", movie.Width(), movie.Height())
	}
	if movie.TagStream().IsEmpty() {
		t.Error("tag stream is empty")
	}
}

// TestParseMovieCompressed tests CWS zlib decompression
func TestParseMovieCompressed(t *testing.T) {
	b := NewBuilder(6)
	b.ShowFrame()
	b.End()
	plain := b.Movie()

	var compressedBody bytes.Buffer
	zw := zlib.NewWriter(&compressedBody)
	if _, err := zw.Write(plain[8:]); err != nil {
		t.Fatalf("failed to compress body: %v", err)
	}
	zw.Close()

	cws := append([]byte{}, plain[:8]...)
	cws[0] = 'C'
	cws = append(cws, compressedBody.Bytes()...)

	movie, err := ParseMovie(cws)
	if err != nil {
		t.Fatalf("failed to parse compressed movie: %v", err)
	}
	if movie.NumFrames != 1 {
		t.Errorf("frames = %d, expected 1", movie.NumFrames)
	}
	if !bytes.Equal(movie.Data[8:], plain[8:]) {
		t.Error("decompressed body differs from the original")
	}
}

// TestParseMovieBadSignature tests signature validation
func TestParseMovieBadSignature(t *testing.T) {
	if _, err := ParseMovie([]byte("XWS\x06\x00\x00\x00\x00")); err == nil {
		t.Error("expected an error for a bad signature")
	}
	if _, err := ParseMovie([]byte("FW")); err == nil {
		t.Error("expected an error for a truncated header")
	}
}
