package timeline

import (
	"swfplay/internal/display"
	"swfplay/internal/swf"
)

// MovieClipStatic is the per-definition data shared by every instance of a
// clip: the character id, the tag-stream range, the frame count, the frame
// labels and the streamed-audio header. It is mutated only by the preload
// pass, before any instance plays.
type MovieClipStatic struct {
	ID              swf.CharacterID
	TagStream       swf.Slice
	TotalFrames     swf.FrameNumber
	FrameLabels     map[string]swf.FrameNumber
	AudioStreamInfo *swf.SoundStreamHead
}

// NewMovieClipStatic creates static data for a clip definition
func NewMovieClipStatic(id swf.CharacterID, tagStream swf.Slice, totalFrames swf.FrameNumber) *MovieClipStatic {
	if totalFrames == 0 {
		totalFrames = 1
	}
	return &MovieClipStatic{
		ID:          id,
		TagStream:   tagStream,
		TotalFrames: totalFrames,
		FrameLabels: make(map[string]swf.FrameNumber),
	}
}

// MovieClipDefinition is the library character registered for a DefineSprite
// tag. Every instantiation shares the preloaded static data.
type MovieClipDefinition struct {
	static *MovieClipStatic
}

// NewMovieClipDefinition wraps preloaded static data as a library character
func NewMovieClipDefinition(static *MovieClipStatic) *MovieClipDefinition {
	return &MovieClipDefinition{static: static}
}

// Static returns the definition's shared static data
func (d *MovieClipDefinition) Static() *MovieClipStatic {
	return d.static
}

// Instantiate creates a fresh, playing instance of the sprite
func (d *MovieClipDefinition) Instantiate(ctx *display.UpdateContext) (display.DisplayObject, error) {
	return newMovieClip(d.static), nil
}

var _ display.Character = (*MovieClipDefinition)(nil)
