package swf

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Movie is a fully-loaded movie file: the decompressed byte buffer plus the
// header fields and the root tag-stream slice. The buffer is shared,
// immutable, and referenced by every Slice handed out during playback.
type Movie struct {
	Data      []byte
	Version   uint8
	StageSize Rectangle
	FrameRate float32
	NumFrames uint16

	tagStream Slice
}

// TagStream returns the root timeline's tag-stream slice
func (m *Movie) TagStream() Slice {
	return m.tagStream
}

// Width returns the stage width in twips
func (m *Movie) Width() Twips {
	return m.StageSize.XMax - m.StageSize.XMin
}

// Height returns the stage height in twips
func (m *Movie) Height() Twips {
	return m.StageSize.YMax - m.StageSize.YMin
}

// ParseMovie parses a movie file from a resident byte buffer. Compressed
// (CWS) bodies are inflated up front so playback sees one flat buffer.
func ParseMovie(data []byte) (*Movie, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("movie too small: %d bytes", len(data))
	}

	var compressed bool
	switch {
	case data[0] == 'F' && data[1] == 'W' && data[2] == 'S':
		compressed = false
	case data[0] == 'C' && data[1] == 'W' && data[2] == 'S':
		compressed = true
	default:
		return nil, fmt.Errorf("invalid movie signature: %q", string(data[0:3]))
	}

	version := data[3]
	fileLength := uint32(data[4]) | uint32(data[5])<<8 | uint32(data[6])<<16 | uint32(data[7])<<24

	buffer := data
	if compressed {
		zr, err := zlib.NewReader(bytes.NewReader(data[8:]))
		if err != nil {
			return nil, fmt.Errorf("failed to open compressed movie body: %w", err)
		}
		defer zr.Close()
		body, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress movie body: %w", err)
		}
		buffer = make([]byte, 8+len(body))
		copy(buffer, data[:8])
		copy(buffer[8:], body)
	}
	if int(fileLength) > len(buffer) {
		return nil, fmt.Errorf("movie header declares %d bytes, buffer has %d", fileLength, len(buffer))
	}

	r := NewReader(Slice{Data: buffer, Start: 8, End: len(buffer)}, version)
	stageSize, err := r.ReadRectangle()
	if err != nil {
		return nil, fmt.Errorf("failed to read stage rect: %w", err)
	}
	rateFrac, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	rateInt, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	numFrames, err := r.ReadU16()
	if err != nil {
		return nil, err
	}

	return &Movie{
		Data:      buffer,
		Version:   version,
		StageSize: stageSize,
		FrameRate: float32(rateInt) + float32(rateFrac)/256.0,
		NumFrames: numFrames,
		tagStream: Slice{Data: buffer, Start: 8 + r.Position(), End: len(buffer)},
	}, nil
}
