package swf

import "fmt"

// SoundCompression identifies the codec of a sampled or streamed sound
type SoundCompression uint8

const (
	SoundCompressionUncompressed    SoundCompression = 0
	SoundCompressionAdpcm           SoundCompression = 1
	SoundCompressionMp3             SoundCompression = 2
	SoundCompressionUncompressedLE  SoundCompression = 3
	SoundCompressionNellymoser16Khz SoundCompression = 4
	SoundCompressionNellymoser8Khz  SoundCompression = 5
	SoundCompressionNellymoser      SoundCompression = 6
	SoundCompressionSpeex           SoundCompression = 11
)

// SoundFormat describes how a sound's samples are encoded
type SoundFormat struct {
	Compression SoundCompression
	SampleRate  uint16
	Is16Bit     bool
	IsStereo    bool
}

var soundSampleRates = [4]uint16{5512, 11025, 22050, 44100}

// readSoundFormat decodes the packed format byte shared by DefineSound and
// SoundStreamHead.
func readSoundFormat(b uint8) SoundFormat {
	return SoundFormat{
		Compression: SoundCompression(b >> 4),
		SampleRate:  soundSampleRates[(b>>2)&0x3],
		Is16Bit:     b&0x2 != 0,
		IsStereo:    b&0x1 != 0,
	}
}

// SoundStreamHead is the streamed-audio header recorded during preload
type SoundStreamHead struct {
	PlaybackFormat  SoundFormat
	StreamFormat    SoundFormat
	SamplesPerBlock uint16
	LatencySeek     int16
}

// ReadSoundStreamHead reads a SoundStreamHead/SoundStreamHead2 tag body
func (r *Reader) ReadSoundStreamHead() (*SoundStreamHead, error) {
	playback, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	stream, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	samplesPerBlock, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	head := &SoundStreamHead{
		PlaybackFormat:  readSoundFormat(playback),
		StreamFormat:    readSoundFormat(stream),
		SamplesPerBlock: samplesPerBlock,
	}
	if head.StreamFormat.Compression == SoundCompressionMp3 && r.Remaining() >= 2 {
		if head.LatencySeek, err = r.ReadI16(); err != nil {
			return nil, err
		}
	}
	return head, nil
}

// Sound is the decoded header of a DefineSound tag; Data references the
// sample payload in the shared buffer.
type Sound struct {
	ID          CharacterID
	Format      SoundFormat
	SampleCount uint32
	Data        Slice
}

// ReadDefineSound reads a DefineSound tag body of the given length
func (r *Reader) ReadDefineSound(tagLength int) (*Sound, error) {
	if tagLength < 7 {
		return nil, fmt.Errorf("DefineSound tag too short: %d bytes", tagLength)
	}
	id, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	format, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	sampleCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	data := r.SliceAt(tagLength - 7)
	return &Sound{
		ID:          id,
		Format:      readSoundFormat(format),
		SampleCount: sampleCount,
		Data:        data,
	}, nil
}

// SoundEvent selects the start semantics of a StartSound tag
type SoundEvent uint8

const (
	// SoundEventEvent sounds always play, independent of the timeline
	SoundEventEvent SoundEvent = iota
	// SoundEventStart sounds play only if no instance of the same sound is playing
	SoundEventStart
	// SoundEventStop stops all instances of the sound
	SoundEventStop
)

// SoundEnvelopePoint is one point of a sound's volume envelope
type SoundEnvelopePoint struct {
	Sample      uint32
	LeftVolume  uint16
	RightVolume uint16
}

// SoundInfo carries the playback settings of a StartSound tag
type SoundInfo struct {
	Event     SoundEvent
	InSample  *uint32
	OutSample *uint32
	Loops     *uint16
	Envelope  []SoundEnvelopePoint
}

// StartSound is the decoded form of a StartSound tag
type StartSound struct {
	ID        CharacterID
	SoundInfo SoundInfo
}

// ReadStartSound reads a StartSound tag body
func (r *Reader) ReadStartSound() (*StartSound, error) {
	id, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	info, err := r.readSoundInfo()
	if err != nil {
		return nil, err
	}
	return &StartSound{ID: id, SoundInfo: *info}, nil
}

const (
	soundInfoHasInPoint    = 1 << 0
	soundInfoHasOutPoint   = 1 << 1
	soundInfoHasLoops      = 1 << 2
	soundInfoHasEnvelope   = 1 << 3
	soundInfoSyncNoMultple = 1 << 4
	soundInfoSyncStop      = 1 << 5
)

func (r *Reader) readSoundInfo() (*SoundInfo, error) {
	flags, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	info := &SoundInfo{}
	switch {
	case flags&soundInfoSyncStop != 0:
		info.Event = SoundEventStop
	case flags&soundInfoSyncNoMultple != 0:
		info.Event = SoundEventStart
	default:
		info.Event = SoundEventEvent
	}
	if flags&soundInfoHasInPoint != 0 {
		v, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		info.InSample = &v
	}
	if flags&soundInfoHasOutPoint != 0 {
		v, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		info.OutSample = &v
	}
	if flags&soundInfoHasLoops != 0 {
		v, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		info.Loops = &v
	}
	if flags&soundInfoHasEnvelope != 0 {
		count, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(count); i++ {
			var p SoundEnvelopePoint
			if p.Sample, err = r.ReadU32(); err != nil {
				return nil, err
			}
			if p.LeftVolume, err = r.ReadU16(); err != nil {
				return nil, err
			}
			if p.RightVolume, err = r.ReadU16(); err != nil {
				return nil, err
			}
			info.Envelope = append(info.Envelope, p)
		}
	}
	return info, nil
}
