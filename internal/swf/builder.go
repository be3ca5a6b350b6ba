package swf

// Builder assembles movie tag streams byte by byte. It backs the tests;
// playback and the command-line tools never construct movies.
type Builder struct {
	Version uint8
	tags    []byte
	frames  uint16
}

// NewBuilder creates a builder targeting the given format version
func NewBuilder(version uint8) *Builder {
	return &Builder{Version: version}
}

// Tag appends a tag with the given code and body
func (b *Builder) Tag(code TagCode, body []byte) {
	length := len(body)
	if length < 0x3F {
		b.appendU16(uint16(code)<<6 | uint16(length))
	} else {
		b.appendU16(uint16(code)<<6 | 0x3F)
		b.appendU32(uint32(length))
	}
	b.tags = append(b.tags, body...)
}

func (b *Builder) appendU16(v uint16) {
	b.tags = append(b.tags, byte(v), byte(v>>8))
}

func (b *Builder) appendU32(v uint32) {
	b.tags = append(b.tags, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// ShowFrame appends the frame sentinel
func (b *Builder) ShowFrame() {
	b.Tag(TagShowFrame, nil)
	b.frames++
}

// End appends the stream sentinel
func (b *Builder) End() {
	b.Tag(TagEnd, nil)
}

// FrameCount returns the number of ShowFrame tags appended so far
func (b *Builder) FrameCount() uint16 {
	return b.frames
}

// TagBytes returns the raw tag stream built so far
func (b *Builder) TagBytes() []byte {
	return b.tags
}

// Movie wraps the tag stream in an uncompressed movie file
func (b *Builder) Movie() []byte {
	var body []byte
	rect := encodeRectangle(Rectangle{XMax: 550 * 20, YMax: 400 * 20})
	body = append(body, rect...)
	body = append(body, 0x00, 0x0C) // 12 fps
	body = append(body, byte(b.frames), byte(b.frames>>8))
	body = append(body, b.tags...)

	out := make([]byte, 0, 8+len(body))
	out = append(out, 'F', 'W', 'S', b.Version)
	total := uint32(8 + len(body))
	out = append(out, byte(total), byte(total>>8), byte(total>>16), byte(total>>24))
	return append(out, body...)
}

// DefineShape appends a minimal graphic definition for the given id
func (b *Builder) DefineShape(id CharacterID) {
	body := []byte{byte(id), byte(id >> 8)}
	body = append(body, encodeRectangle(Rectangle{})...)
	// Empty shape: no fill/line styles, zero style bits, end-of-shape record.
	body = append(body, 0x00, 0x00, 0x00, 0x00)
	b.Tag(TagDefineShape, body)
}

// DefineSprite appends a nested sprite definition wrapping the given tag stream
func (b *Builder) DefineSprite(id CharacterID, frames uint16, inner []byte) {
	body := []byte{byte(id), byte(id >> 8), byte(frames), byte(frames >> 8)}
	body = append(body, inner...)
	b.Tag(TagDefineSprite, body)
}

// DefineSound appends a sampled sound definition (uncompressed mono 8-bit, 5512 Hz)
func (b *Builder) DefineSound(id CharacterID, samples []byte) {
	body := []byte{byte(id), byte(id >> 8), 0x00}
	count := uint32(len(samples))
	body = append(body, byte(count), byte(count>>8), byte(count>>16), byte(count>>24))
	body = append(body, samples...)
	b.Tag(TagDefineSound, body)
}

// StartSound appends a StartSound tag with the given sync semantics
func (b *Builder) StartSound(id CharacterID, event SoundEvent) {
	var flags uint8
	switch event {
	case SoundEventStart:
		flags = soundInfoSyncNoMultple
	case SoundEventStop:
		flags = soundInfoSyncStop
	}
	b.Tag(TagStartSound, []byte{byte(id), byte(id >> 8), flags})
}

// SoundStreamHead appends a streamed-audio header (uncompressed mono 8-bit, 5512 Hz)
func (b *Builder) SoundStreamHead(samplesPerBlock uint16) {
	b.Tag(TagSoundStreamHead, []byte{
		0x00, 0x00,
		byte(samplesPerBlock), byte(samplesPerBlock >> 8),
	})
}

// SoundStreamBlock appends one frame's stream samples
func (b *Builder) SoundStreamBlock(data []byte) {
	b.Tag(TagSoundStreamBlock, data)
}

// FrameLabel appends a frame label for the current frame
func (b *Builder) FrameLabel(label string) {
	body := append([]byte(label), 0)
	b.Tag(TagFrameLabel, body)
}

// SetBackgroundColor appends a background color tag
func (b *Builder) SetBackgroundColor(c Color) {
	b.Tag(TagSetBackgroundColor, []byte{c.R, c.G, c.B})
}

// DoAction appends a script action blob
func (b *Builder) DoAction(code []byte) {
	b.Tag(TagDoAction, code)
}

// DoInitAction appends a one-shot init action blob for a sprite id
func (b *Builder) DoInitAction(spriteID CharacterID, code []byte) {
	body := []byte{byte(spriteID), byte(spriteID >> 8)}
	body = append(body, code...)
	b.Tag(TagDoInitAction, body)
}

// ExportAssets appends an export binding for one character
func (b *Builder) ExportAssets(id CharacterID, name string) {
	body := []byte{1, 0, byte(id), byte(id >> 8)}
	body = append(body, []byte(name)...)
	body = append(body, 0)
	b.Tag(TagExportAssets, body)
}

// RemoveObject2 appends a removal of the child at depth
func (b *Builder) RemoveObject2(depth Depth) {
	b.Tag(TagRemoveObject2, []byte{byte(depth), byte(depth >> 8)})
}

// PlaceObjectNew appends a PlaceObject2 that places character id at depth
func (b *Builder) PlaceObjectNew(depth Depth, id CharacterID) {
	b.Tag(TagPlaceObject2, encodePlace2(placeFlagHasCharacter, depth, id, nil, nil))
}

// PlaceObjectNamed appends a PlaceObject2 that places character id at depth
// with an instance name.
func (b *Builder) PlaceObjectNamed(depth Depth, id CharacterID, name string) {
	nameBytes := append([]byte(name), 0)
	b.Tag(TagPlaceObject2, encodePlace2(placeFlagHasCharacter|placeFlagHasName, depth, id, nil, nameBytes))
}

// PlaceObjectReplace appends a PlaceObject2 that replaces the child at depth
func (b *Builder) PlaceObjectReplace(depth Depth, id CharacterID) {
	b.Tag(TagPlaceObject2, encodePlace2(placeFlagHasCharacter|placeFlagMove, depth, id, nil, nil))
}

// PlaceObjectMatrix appends a PlaceObject2 that modifies the child at depth
// with a new matrix.
func (b *Builder) PlaceObjectMatrix(depth Depth, m Matrix) {
	b.Tag(TagPlaceObject2, encodePlace2(placeFlagMove|placeFlagHasMatrix, depth, 0, encodeMatrix(m), nil))
}

// PlaceObjectNewMatrix appends a PlaceObject2 placing character id at depth
// with an initial matrix.
func (b *Builder) PlaceObjectNewMatrix(depth Depth, id CharacterID, m Matrix) {
	b.Tag(TagPlaceObject2, encodePlace2(placeFlagHasCharacter|placeFlagHasMatrix, depth, id, encodeMatrix(m), nil))
}

// PlaceObjectRatio appends a PlaceObject2 placing character id at depth with
// a morph ratio.
func (b *Builder) PlaceObjectRatio(depth Depth, id CharacterID, ratio uint16) {
	body := encodePlace2(placeFlagHasCharacter|placeFlagHasRatio, depth, id, nil, nil)
	body = append(body, byte(ratio), byte(ratio>>8))
	b.Tag(TagPlaceObject2, body)
}

func encodePlace2(flags uint8, depth Depth, id CharacterID, matrix []byte, name []byte) []byte {
	body := []byte{flags, byte(depth), byte(depth >> 8)}
	if flags&placeFlagHasCharacter != 0 {
		body = append(body, byte(id), byte(id>>8))
	}
	if flags&placeFlagHasMatrix != 0 {
		body = append(body, matrix...)
	}
	if flags&placeFlagHasName != 0 {
		body = append(body, name...)
	}
	return body
}

// bitWriter packs big-endian bit fields for rect/matrix records
type bitWriter struct {
	buf   []byte
	cur   uint8
	nbits uint
}

func (w *bitWriter) WriteUB(n uint, v uint32) {
	for i := n; i > 0; i-- {
		bit := uint8((v >> (i - 1)) & 1)
		w.cur = w.cur<<1 | bit
		w.nbits++
		if w.nbits == 8 {
			w.buf = append(w.buf, w.cur)
			w.cur = 0
			w.nbits = 0
		}
	}
}

func (w *bitWriter) WriteSB(n uint, v int32) {
	w.WriteUB(n, uint32(v)&((1<<n)-1))
}

func (w *bitWriter) finish() []byte {
	if w.nbits > 0 {
		w.buf = append(w.buf, w.cur<<(8-w.nbits))
		w.cur = 0
		w.nbits = 0
	}
	return w.buf
}

// signedBitCount returns the bits needed to hold v in two's complement
func signedBitCount(v int32) uint {
	u := uint32(v)
	if v < 0 {
		u = uint32(^v)
	}
	n := uint(1)
	for u > 0 {
		n++
		u >>= 1
	}
	return n
}

func maxSignedBits(vals ...int32) uint {
	n := uint(1)
	for _, v := range vals {
		if c := signedBitCount(v); c > n {
			n = c
		}
	}
	return n
}

func encodeRectangle(rect Rectangle) []byte {
	n := maxSignedBits(rect.XMin, rect.XMax, rect.YMin, rect.YMax)
	w := &bitWriter{}
	w.WriteUB(5, uint32(n))
	w.WriteSB(n, rect.XMin)
	w.WriteSB(n, rect.XMax)
	w.WriteSB(n, rect.YMin)
	w.WriteSB(n, rect.YMax)
	return w.finish()
}

func encodeMatrix(m Matrix) []byte {
	w := &bitWriter{}
	hasScale := m.A != 1 || m.D != 1
	if hasScale {
		a := int32(m.A * 65536)
		d := int32(m.D * 65536)
		n := maxSignedBits(a, d)
		w.WriteUB(1, 1)
		w.WriteUB(5, uint32(n))
		w.WriteSB(n, a)
		w.WriteSB(n, d)
	} else {
		w.WriteUB(1, 0)
	}
	hasRotate := m.B != 0 || m.C != 0
	if hasRotate {
		bb := int32(m.B * 65536)
		c := int32(m.C * 65536)
		n := maxSignedBits(bb, c)
		w.WriteUB(1, 1)
		w.WriteUB(5, uint32(n))
		w.WriteSB(n, bb)
		w.WriteSB(n, c)
	} else {
		w.WriteUB(1, 0)
	}
	n := maxSignedBits(m.TX, m.TY)
	w.WriteUB(5, uint32(n))
	w.WriteSB(n, m.TX)
	w.WriteSB(n, m.TY)
	return w.finish()
}
