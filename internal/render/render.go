package render

import (
	"swfplay/internal/swf"
)

// BitmapHandle identifies a bitmap registered with the renderer
type BitmapHandle uint32

// ShapeHandle identifies a shape registered with the renderer
type ShapeHandle uint32

// BitmapInfo is returned when a bitmap is registered
type BitmapInfo struct {
	Handle BitmapHandle
	Width  uint16
	Height uint16
}

// Renderer is the rendering interface the preload pass and the render walk
// drive. Registration happens once during preload; drawing is a per-frame
// command submission.
type Renderer interface {
	// RegisterShape registers a shape definition's raw record and returns a handle
	RegisterShape(id swf.CharacterID, data []byte) ShapeHandle

	// RegisterGlyphShape registers one font glyph's shape record
	RegisterGlyphShape(data []byte) ShapeHandle

	// RegisterBitmapPNG registers a lossless bitmap definition
	RegisterBitmapPNG(id swf.CharacterID, data []byte) (BitmapInfo, error)

	// RegisterBitmapJPEG registers a DefineBits JPEG that uses the movie-wide tables
	RegisterBitmapJPEG(id swf.CharacterID, data []byte, jpegTables []byte) (BitmapInfo, error)

	// RegisterBitmapJPEG2 registers a self-contained JPEG
	RegisterBitmapJPEG2(id swf.CharacterID, data []byte) (BitmapInfo, error)

	// RegisterBitmapJPEG3 registers a JPEG with a separate alpha payload
	RegisterBitmapJPEG3(id swf.CharacterID, jpegData []byte, alphaData []byte) (BitmapInfo, error)
}

// DrawCommand is one entry of a frame's draw list
type DrawCommand struct {
	Shape          ShapeHandle
	Bitmap         BitmapHandle
	IsBitmap       bool
	Matrix         swf.Matrix
	ColorTransform swf.ColorTransform
	Ratio          uint16
}

// CommandList collects the draw commands of one rendered frame, in paint
// order (back to front).
type CommandList struct {
	BackgroundColor swf.Color
	Commands        []DrawCommand
}

// Reset clears the list for the next frame
func (l *CommandList) Reset() {
	l.Commands = l.Commands[:0]
}

// Add appends one draw command
func (l *CommandList) Add(cmd DrawCommand) {
	l.Commands = append(l.Commands, cmd)
}

// NullRenderer registers everything and draws nothing
type NullRenderer struct {
	nextShape  ShapeHandle
	nextBitmap BitmapHandle
}

// NewNullRenderer creates a no-op renderer
func NewNullRenderer() *NullRenderer {
	return &NullRenderer{}
}

func (r *NullRenderer) RegisterShape(id swf.CharacterID, data []byte) ShapeHandle {
	r.nextShape++
	return r.nextShape
}

func (r *NullRenderer) RegisterGlyphShape(data []byte) ShapeHandle {
	r.nextShape++
	return r.nextShape
}

func (r *NullRenderer) RegisterBitmapPNG(id swf.CharacterID, data []byte) (BitmapInfo, error) {
	r.nextBitmap++
	return BitmapInfo{Handle: r.nextBitmap}, nil
}

func (r *NullRenderer) RegisterBitmapJPEG(id swf.CharacterID, data []byte, jpegTables []byte) (BitmapInfo, error) {
	r.nextBitmap++
	return BitmapInfo{Handle: r.nextBitmap}, nil
}

func (r *NullRenderer) RegisterBitmapJPEG2(id swf.CharacterID, data []byte) (BitmapInfo, error) {
	r.nextBitmap++
	return BitmapInfo{Handle: r.nextBitmap}, nil
}

func (r *NullRenderer) RegisterBitmapJPEG3(id swf.CharacterID, jpegData []byte, alphaData []byte) (BitmapInfo, error) {
	r.nextBitmap++
	return BitmapInfo{Handle: r.nextBitmap}, nil
}

var _ Renderer = (*NullRenderer)(nil)
