package audio

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"swfplay/internal/debug"
	"swfplay/internal/swf"
)

// SDLBackend plays sampled and streamed sounds through an SDL audio device.
// Uncompressed PCM plays directly; compressed codecs are registered but
// logged as unsupported, which keeps the timeline's bookkeeping intact.
type SDLBackend struct {
	device sdl.AudioDeviceID
	spec   sdl.AudioSpec
	logger *debug.Logger

	sounds     map[SoundHandle]*sdlSound
	nextSound  SoundHandle
	instances  map[SoundHandle][]time.Time // per-sound instance end times
	streams    map[StreamHandle]bool
	nextStream StreamHandle

	streamHeads map[swf.CharacterID]*swf.SoundStreamHead
}

type sdlSound struct {
	format      swf.SoundFormat
	data        []byte
	sampleCount uint32
}

// NewSDLBackend opens the default audio device
func NewSDLBackend(logger *debug.Logger) (*SDLBackend, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL audio: %w", err)
	}
	want := sdl.AudioSpec{
		Freq:     44100,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  1024,
	}
	var have sdl.AudioSpec
	device, err := sdl.OpenAudioDevice("", false, &want, &have, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	sdl.PauseAudioDevice(device, false)
	return &SDLBackend{
		device:      device,
		spec:        have,
		logger:      logger,
		sounds:      make(map[SoundHandle]*sdlSound),
		instances:   make(map[SoundHandle][]time.Time),
		streams:     make(map[StreamHandle]bool),
		streamHeads: make(map[swf.CharacterID]*swf.SoundStreamHead),
	}, nil
}

// Close shuts the audio device down
func (b *SDLBackend) Close() {
	if b.device != 0 {
		sdl.CloseAudioDevice(b.device)
		b.device = 0
	}
}

func (b *SDLBackend) RegisterSound(sound *swf.Sound) (SoundHandle, error) {
	b.nextSound++
	b.sounds[b.nextSound] = &sdlSound{
		format:      sound.Format,
		data:        sound.Data.Bytes(),
		sampleCount: sound.SampleCount,
	}
	return b.nextSound, nil
}

func (b *SDLBackend) StartSound(handle SoundHandle, info *swf.SoundInfo) {
	sound, ok := b.sounds[handle]
	if !ok {
		return
	}
	pcm := b.decodePCM(sound.format, sound.data)
	if pcm == nil {
		return
	}
	if err := sdl.QueueAudio(b.device, pcm); err != nil {
		b.logger.LogAudiof(debug.LogLevelError, "Failed to queue sound: %v", err)
		return
	}
	duration := time.Duration(float64(sound.sampleCount) / float64(sound.format.SampleRate) * float64(time.Second))
	b.instances[handle] = append(b.instances[handle], time.Now().Add(duration))
}

func (b *SDLBackend) IsSoundPlayingWithHandle(handle SoundHandle) bool {
	now := time.Now()
	active := b.instances[handle][:0]
	for _, end := range b.instances[handle] {
		if end.After(now) {
			active = append(active, end)
		}
	}
	b.instances[handle] = active
	return len(active) > 0
}

// StopSoundsWithHandle forgets the sound's instance records. All sounds share
// one device queue, so samples already queued for it keep playing.
func (b *SDLBackend) StopSoundsWithHandle(handle SoundHandle) {
	delete(b.instances, handle)
}

func (b *SDLBackend) StopAllSounds() {
	b.instances = make(map[SoundHandle][]time.Time)
	b.streams = make(map[StreamHandle]bool)
	sdl.ClearQueuedAudio(b.device)
}

func (b *SDLBackend) PreloadSoundStreamHead(id swf.CharacterID, frame swf.FrameNumber, head *swf.SoundStreamHead) {
	b.streamHeads[id] = head
}

func (b *SDLBackend) PreloadSoundStreamBlock(id swf.CharacterID, frame swf.FrameNumber, data []byte) {
	// Blocks are pulled live at stream start; preload only records the head.
}

func (b *SDLBackend) PreloadSoundStreamEnd(id swf.CharacterID) {
	if head, ok := b.streamHeads[id]; ok {
		b.logger.LogAudiof(debug.LogLevelInfo, "Clip %d: stream %d Hz, %d samples/block",
			id, head.StreamFormat.SampleRate, head.SamplesPerBlock)
	}
}

// StartStream pulls the SoundStreamBlock payloads out of the remaining tag
// stream and queues them.
func (b *SDLBackend) StartStream(id swf.CharacterID, frame swf.FrameNumber, data swf.Slice, head *swf.SoundStreamHead) StreamHandle {
	b.nextStream++
	handle := b.nextStream
	b.streams[handle] = true

	reader := swf.NewReader(data, 0)
	callback := func(r *swf.Reader, code swf.TagCode, length int) error {
		if code != swf.TagSoundStreamBlock {
			return nil
		}
		block, err := r.ReadBytes(length)
		if err != nil {
			return err
		}
		if pcm := b.decodePCM(head.StreamFormat, block); pcm != nil {
			return sdl.QueueAudio(b.device, pcm)
		}
		return nil
	}
	swf.DecodeTags(reader, callback, swf.TagEnd, b.logger)
	return handle
}

func (b *SDLBackend) StopStream(handle StreamHandle) {
	delete(b.streams, handle)
	sdl.ClearQueuedAudio(b.device)
}

// decodePCM converts uncompressed sample payloads to the device format
// (interleaved stereo signed 16-bit). Compressed codecs are skipped with a
// log entry.
func (b *SDLBackend) decodePCM(format swf.SoundFormat, data []byte) []byte {
	switch format.Compression {
	case swf.SoundCompressionUncompressed, swf.SoundCompressionUncompressedLE:
	default:
		b.logger.LogAudiof(debug.LogLevelWarning, "Unsupported sound codec %d", format.Compression)
		return nil
	}

	var samples []int16
	if format.Is16Bit {
		samples = make([]int16, len(data)/2)
		for i := range samples {
			samples[i] = int16(uint16(data[i*2]) | uint16(data[i*2+1])<<8)
		}
	} else {
		samples = make([]int16, len(data))
		for i, v := range data {
			samples[i] = (int16(v) - 128) << 8
		}
	}

	channels := 1
	if format.IsStereo {
		channels = 2
	}
	frames := len(samples) / channels

	// Nearest-sample rate conversion to the device rate.
	outFrames := frames * int(b.spec.Freq) / int(format.SampleRate)
	out := make([]byte, outFrames*4)
	for i := 0; i < outFrames; i++ {
		src := i * frames / outFrames
		var left, right int16
		if format.IsStereo {
			left = samples[src*2]
			right = samples[src*2+1]
		} else {
			left = samples[src]
			right = left
		}
		out[i*4] = byte(uint16(left))
		out[i*4+1] = byte(uint16(left) >> 8)
		out[i*4+2] = byte(uint16(right))
		out[i*4+3] = byte(uint16(right) >> 8)
	}
	return out
}

var _ Backend = (*SDLBackend)(nil)
