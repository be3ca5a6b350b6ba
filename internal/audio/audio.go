package audio

import (
	"swfplay/internal/swf"
)

// SoundHandle identifies a registered sound in the backend
type SoundHandle uint32

// StreamHandle identifies an active audio stream in the backend
type StreamHandle uint32

// Backend is the audio interface the timeline engine drives. Calls are
// fire-and-forget; the engine owns only the opaque handles.
type Backend interface {
	// RegisterSound registers a sampled sound definition and returns its handle
	RegisterSound(sound *swf.Sound) (SoundHandle, error)

	// StartSound starts one instance of a registered sound
	StartSound(handle SoundHandle, info *swf.SoundInfo)

	// IsSoundPlayingWithHandle reports whether any instance of the sound is active
	IsSoundPlayingWithHandle(handle SoundHandle) bool

	// StopSoundsWithHandle stops all instances of the sound
	StopSoundsWithHandle(handle SoundHandle)

	// StopAllSounds stops every active sound and stream
	StopAllSounds()

	// PreloadSoundStreamHead records a clip's streamed-audio header
	PreloadSoundStreamHead(id swf.CharacterID, frame swf.FrameNumber, head *swf.SoundStreamHead)

	// PreloadSoundStreamBlock feeds one frame's stream samples during preload
	PreloadSoundStreamBlock(id swf.CharacterID, frame swf.FrameNumber, data []byte)

	// PreloadSoundStreamEnd finalizes a clip's preloaded stream
	PreloadSoundStreamEnd(id swf.CharacterID)

	// StartStream begins playback of a clip's audio stream. frame is the
	// frame the stream starts on; data is the remaining tag stream, from
	// which the backend pulls SoundStreamBlock payloads.
	StartStream(id swf.CharacterID, frame swf.FrameNumber, data swf.Slice, head *swf.SoundStreamHead) StreamHandle

	// StopStream stops an active audio stream
	StopStream(handle StreamHandle)
}

// NullBackend is a backend that plays nothing. It hands out valid handles so
// the timeline's bookkeeping is exercised even without an audio device.
type NullBackend struct {
	nextSound  SoundHandle
	nextStream StreamHandle
}

// NewNullBackend creates a no-op audio backend
func NewNullBackend() *NullBackend {
	return &NullBackend{}
}

func (b *NullBackend) RegisterSound(sound *swf.Sound) (SoundHandle, error) {
	b.nextSound++
	return b.nextSound, nil
}

func (b *NullBackend) StartSound(handle SoundHandle, info *swf.SoundInfo) {}

func (b *NullBackend) IsSoundPlayingWithHandle(handle SoundHandle) bool { return false }

func (b *NullBackend) StopSoundsWithHandle(handle SoundHandle) {}

func (b *NullBackend) StopAllSounds() {}

func (b *NullBackend) PreloadSoundStreamHead(id swf.CharacterID, frame swf.FrameNumber, head *swf.SoundStreamHead) {
}

func (b *NullBackend) PreloadSoundStreamBlock(id swf.CharacterID, frame swf.FrameNumber, data []byte) {
}

func (b *NullBackend) PreloadSoundStreamEnd(id swf.CharacterID) {}

func (b *NullBackend) StartStream(id swf.CharacterID, frame swf.FrameNumber, data swf.Slice, head *swf.SoundStreamHead) StreamHandle {
	b.nextStream++
	return b.nextStream
}

func (b *NullBackend) StopStream(handle StreamHandle) {}

var _ Backend = (*NullBackend)(nil)
