package timeline

import (
	"fmt"

	"swfplay/internal/debug"
	"swfplay/internal/display"
	"swfplay/internal/swf"
)

// maxSpriteNesting bounds DefineSprite recursion; the format bounds nesting
// indirectly through tag lengths, but a hostile file should not recurse the
// loader off the stack.
const maxSpriteNesting = 16

// Preload walks the clip's tag stream once, before the first frame runs,
// registering characters, frame labels and streamed-audio metadata. Morph
// shape definitions land in morphShapes; they are published to the library
// by the caller once every placement ratio has been observed.
func (m *MovieClip) Preload(ctx *display.UpdateContext, morphShapes map[swf.CharacterID]*display.MorphShapeDef) {
	m.preload(ctx, morphShapes, 0)
}

func (m *MovieClip) preload(ctx *display.UpdateContext, morphShapes map[swf.CharacterID]*display.MorphShapeDef, nesting int) {
	reader := swf.NewReader(m.static.TagStream, ctx.Version())
	curFrame := swf.FrameNumber(1)
	// Per-depth character ids, for resolving Modify placements to the morph
	// shape they target.
	ids := make(map[swf.Depth]swf.CharacterID)

	callback := func(r *swf.Reader, code swf.TagCode, length int) error {
		switch code {
		case swf.TagDefineShape:
			return m.defineShape(ctx, r, length, 1)
		case swf.TagDefineShape2:
			return m.defineShape(ctx, r, length, 2)
		case swf.TagDefineShape3:
			return m.defineShape(ctx, r, length, 3)
		case swf.TagDefineShape4:
			return m.defineShape(ctx, r, length, 4)
		case swf.TagDefineMorphShape:
			return m.defineMorphShape(ctx, r, length, morphShapes, 1)
		case swf.TagDefineMorphShape2:
			return m.defineMorphShape(ctx, r, length, morphShapes, 2)
		case swf.TagDefineBits:
			return m.defineBits(ctx, r, length)
		case swf.TagDefineBitsJpeg2:
			return m.defineBitsJpeg2(ctx, r, length)
		case swf.TagDefineBitsJpeg3:
			return m.defineBitsJpeg3(ctx, r, length, 3)
		case swf.TagDefineBitsJpeg4:
			return m.defineBitsJpeg3(ctx, r, length, 4)
		case swf.TagDefineBitsLossless:
			return m.defineBitsLossless(ctx, r, length)
		case swf.TagDefineBitsLossless2:
			return m.defineBitsLossless(ctx, r, length)
		case swf.TagDefineFont:
			return m.defineFont1(ctx, r, length)
		case swf.TagDefineFont2:
			return m.defineFont2(ctx, r, length, 2)
		case swf.TagDefineFont3:
			return m.defineFont2(ctx, r, length, 3)
		case swf.TagDefineFont4:
			return m.defineFont4(ctx, r, length)
		case swf.TagDefineText:
			return m.defineText(ctx, r, length)
		case swf.TagDefineText2:
			return m.defineText(ctx, r, length)
		case swf.TagDefineEditText:
			return m.defineEditText(ctx, r, length)
		case swf.TagDefineButton:
			return m.defineButton(ctx, r, length)
		case swf.TagDefineButton2:
			return m.defineButton(ctx, r, length)
		case swf.TagDefineButtonCxform:
			return m.defineButtonCxform(ctx, r, length)
		case swf.TagDefineButtonSound:
			return m.defineButtonSound(ctx, r, length)
		case swf.TagDefineSound:
			return m.defineSound(ctx, r, length)
		case swf.TagDefineSprite:
			return m.defineSprite(ctx, r, length, morphShapes, nesting)
		case swf.TagJpegTables:
			return m.jpegTables(ctx, r, length)
		case swf.TagExportAssets:
			return m.exportAssets(ctx, r)
		case swf.TagFrameLabel:
			return m.frameLabel(ctx, r, length, curFrame)
		case swf.TagSoundStreamHead:
			return m.preloadSoundStreamHead(ctx, r, curFrame)
		case swf.TagSoundStreamHead2:
			return m.preloadSoundStreamHead(ctx, r, curFrame)
		case swf.TagSoundStreamBlock:
			return m.preloadSoundStreamBlock(ctx, r, length, curFrame)
		case swf.TagPlaceObject:
			return m.preloadPlaceObject(ctx, r, length, ids, morphShapes, 1)
		case swf.TagPlaceObject2:
			return m.preloadPlaceObject(ctx, r, length, ids, morphShapes, 2)
		case swf.TagPlaceObject3:
			return m.preloadPlaceObject(ctx, r, length, ids, morphShapes, 3)
		case swf.TagPlaceObject4:
			return m.preloadPlaceObject(ctx, r, length, ids, morphShapes, 4)
		case swf.TagRemoveObject:
			return m.preloadRemoveObject(r, ids, 1)
		case swf.TagRemoveObject2:
			return m.preloadRemoveObject(r, ids, 2)
		case swf.TagDoInitAction:
			return m.doInitAction(ctx, r, length)
		case swf.TagShowFrame:
			curFrame++
		}
		return nil
	}
	swf.DecodeTags(reader, callback, swf.TagEnd, ctx.Logger)

	// Finalize any pending streamed sound.
	if m.static.AudioStreamInfo != nil {
		ctx.Audio.PreloadSoundStreamEnd(m.ID())
	}
}

func (m *MovieClip) defineShape(ctx *display.UpdateContext, r *swf.Reader, length int, version uint8) error {
	body := r.SliceAt(length).Bytes()
	id, err := r.ReadU16()
	if err != nil {
		return err
	}
	bounds, err := r.ReadRectangle()
	if err != nil {
		return err
	}
	shape := ctx.Renderer.RegisterShape(id, body)
	ctx.Library.RegisterCharacter(id, &display.GraphicDef{ID: id, Bounds: bounds, Shape: shape})
	return nil
}

func (m *MovieClip) defineMorphShape(ctx *display.UpdateContext, r *swf.Reader, length int, morphShapes map[swf.CharacterID]*display.MorphShapeDef, version uint8) error {
	body := r.SliceAt(length).Bytes()
	id, err := r.ReadU16()
	if err != nil {
		return err
	}
	// Backends may need to preload per-ratio frames, so registration is
	// deferred until every placement has been observed.
	morphShapes[id] = display.NewMorphShapeDef(id, body)
	return nil
}

func (m *MovieClip) defineBits(ctx *display.UpdateContext, r *swf.Reader, length int) error {
	id, err := r.ReadU16()
	if err != nil {
		return err
	}
	jpegData, err := r.ReadBytes(length - 2)
	if err != nil {
		return err
	}
	info, err := ctx.Renderer.RegisterBitmapJPEG(id, jpegData, ctx.Library.JpegTables())
	if err != nil {
		return fmt.Errorf("DefineBits id %d: %w", id, err)
	}
	ctx.Library.RegisterCharacter(id, &display.BitmapDef{ID: id, Handle: info.Handle, Width: info.Width, Height: info.Height})
	return nil
}

func (m *MovieClip) defineBitsJpeg2(ctx *display.UpdateContext, r *swf.Reader, length int) error {
	id, err := r.ReadU16()
	if err != nil {
		return err
	}
	jpegData, err := r.ReadBytes(length - 2)
	if err != nil {
		return err
	}
	info, err := ctx.Renderer.RegisterBitmapJPEG2(id, jpegData)
	if err != nil {
		return fmt.Errorf("DefineBitsJpeg2 id %d: %w", id, err)
	}
	ctx.Library.RegisterCharacter(id, &display.BitmapDef{ID: id, Handle: info.Handle, Width: info.Width, Height: info.Height})
	return nil
}

// defineBitsJpeg3 also covers DefineBitsJpeg4, which adds a deblocking
// parameter ahead of the payloads.
func (m *MovieClip) defineBitsJpeg3(ctx *display.UpdateContext, r *swf.Reader, length int, version uint8) error {
	id, err := r.ReadU16()
	if err != nil {
		return err
	}
	jpegLenWord, err := r.ReadU32()
	if err != nil {
		return err
	}
	jpegLen := int(jpegLenWord)
	headerLen := 6
	if version == 4 {
		if _, err := r.ReadU16(); err != nil { // deblocking
			return err
		}
		headerLen = 8
	}
	alphaLen := length - headerLen - jpegLen
	if alphaLen < 0 {
		return fmt.Errorf("DefineBitsJpeg%d id %d: alpha payload underflow", version, id)
	}
	jpegData, err := r.ReadBytes(jpegLen)
	if err != nil {
		return err
	}
	alphaData, err := r.ReadBytes(alphaLen)
	if err != nil {
		return err
	}
	info, err := ctx.Renderer.RegisterBitmapJPEG3(id, jpegData, alphaData)
	if err != nil {
		return fmt.Errorf("DefineBitsJpeg%d id %d: %w", version, id, err)
	}
	ctx.Library.RegisterCharacter(id, &display.BitmapDef{ID: id, Handle: info.Handle, Width: info.Width, Height: info.Height})
	return nil
}

func (m *MovieClip) defineBitsLossless(ctx *display.UpdateContext, r *swf.Reader, length int) error {
	body := r.SliceAt(length).Bytes()
	id, err := r.ReadU16()
	if err != nil {
		return err
	}
	info, err := ctx.Renderer.RegisterBitmapPNG(id, body)
	if err != nil {
		return fmt.Errorf("DefineBitsLossless id %d: %w", id, err)
	}
	ctx.Library.RegisterCharacter(id, &display.BitmapDef{ID: id, Handle: info.Handle, Width: info.Width, Height: info.Height})
	return nil
}

// defineFont1 synthesizes the glyphs-only v1 layout into the v2 form: each
// glyph becomes a registered glyph shape with no code or advance data.
func (m *MovieClip) defineFont1(ctx *display.UpdateContext, r *swf.Reader, length int) error {
	start := r.Position()
	id, err := r.ReadU16()
	if err != nil {
		return err
	}
	firstOffset, err := r.ReadU16()
	if err != nil {
		return err
	}
	numGlyphs := int(firstOffset) / 2
	offsets := make([]int, numGlyphs+1)
	offsets[0] = int(firstOffset)
	for i := 1; i < numGlyphs; i++ {
		off, err := r.ReadU16()
		if err != nil {
			return err
		}
		offsets[i] = int(off)
	}
	offsets[numGlyphs] = length - 2 // relative to the offset-table start

	body := m.static.TagStream.Sub(start, start+length).Bytes()
	font := &display.FontDef{ID: id}
	for i := 0; i < numGlyphs; i++ {
		// Offsets are relative to the offset table, which sits 2 bytes into
		// the tag body.
		gs, ge := 2+offsets[i], 2+offsets[i+1]
		if gs < 0 || ge > len(body) || gs > ge {
			return fmt.Errorf("DefineFont id %d: glyph bounds out of range", id)
		}
		font.Glyphs = append(font.Glyphs, ctx.Renderer.RegisterGlyphShape(body[gs:ge]))
	}
	ctx.Library.RegisterCharacter(id, font)
	return nil
}

func (m *MovieClip) defineFont2(ctx *display.UpdateContext, r *swf.Reader, length int, version uint8) error {
	start := r.Position()
	id, err := r.ReadU16()
	if err != nil {
		return err
	}
	flags, err := r.ReadU8()
	if err != nil {
		return err
	}
	if _, err := r.ReadU8(); err != nil { // language code
		return err
	}
	nameLen, err := r.ReadU8()
	if err != nil {
		return err
	}
	nameBytes, err := r.ReadBytes(int(nameLen))
	if err != nil {
		return err
	}
	numGlyphs, err := r.ReadU16()
	if err != nil {
		return err
	}

	wideOffsets := flags&0x08 != 0
	tableStart := r.Position()
	offsets := make([]int, numGlyphs+1)
	for i := 0; i <= int(numGlyphs); i++ {
		if wideOffsets {
			off, err := r.ReadU32()
			if err != nil {
				return err
			}
			offsets[i] = int(off)
		} else {
			off, err := r.ReadU16()
			if err != nil {
				return err
			}
			offsets[i] = int(off)
		}
	}

	body := m.static.TagStream.Sub(start, start+length).Bytes()
	font := &display.FontDef{ID: id, Name: string(nameBytes)}
	for i := 0; i < int(numGlyphs); i++ {
		gs := tableStart - start + offsets[i]
		ge := tableStart - start + offsets[i+1]
		if gs < 0 || ge > len(body) || gs > ge {
			return fmt.Errorf("DefineFont%d id %d: glyph bounds out of range", version, id)
		}
		font.Glyphs = append(font.Glyphs, ctx.Renderer.RegisterGlyphShape(body[gs:ge]))
	}
	ctx.Library.RegisterCharacter(id, font)
	return nil
}

// defineFont4 records the definition; rendering stays deferred
func (m *MovieClip) defineFont4(ctx *display.UpdateContext, r *swf.Reader, length int) error {
	id, err := r.ReadU16()
	if err != nil {
		return err
	}
	if _, err := r.ReadU8(); err != nil { // flags
		return err
	}
	name, err := r.ReadString()
	if err != nil {
		return err
	}
	ctx.Library.RegisterCharacter(id, &display.FontDef{ID: id, Name: name, Deferred: true})
	return nil
}

func (m *MovieClip) defineText(ctx *display.UpdateContext, r *swf.Reader, length int) error {
	body := r.SliceAt(length).Bytes()
	id, err := r.ReadU16()
	if err != nil {
		return err
	}
	bounds, err := r.ReadRectangle()
	if err != nil {
		return err
	}
	ctx.Library.RegisterCharacter(id, &display.TextDef{ID: id, Bounds: bounds, Data: body})
	return nil
}

func (m *MovieClip) defineEditText(ctx *display.UpdateContext, r *swf.Reader, length int) error {
	body := r.SliceAt(length).Bytes()
	id, err := r.ReadU16()
	if err != nil {
		return err
	}
	bounds, err := r.ReadRectangle()
	if err != nil {
		return err
	}
	ctx.Library.RegisterCharacter(id, &display.EditTextDef{ID: id, Bounds: bounds, Data: body})
	return nil
}

func (m *MovieClip) defineButton(ctx *display.UpdateContext, r *swf.Reader, length int) error {
	id, err := r.ReadU16()
	if err != nil {
		return err
	}
	records, err := r.ReadBytes(length - 2)
	if err != nil {
		return err
	}
	ctx.Library.RegisterCharacter(id, &display.ButtonDef{ID: id, Records: records})
	return nil
}

func (m *MovieClip) defineButtonCxform(ctx *display.UpdateContext, r *swf.Reader, length int) error {
	end := r.Position() + length
	id, err := r.ReadU16()
	if err != nil {
		return err
	}
	var transforms []swf.ColorTransform
	for r.Position() < end {
		ct, err := r.ReadColorTransform(false)
		if err != nil {
			return err
		}
		transforms = append(transforms, ct)
	}
	character, ok := ctx.Library.CharacterByID(id)
	if !ok {
		ctx.Logger.LogLibraryf(debug.LogLevelWarning, "DefineButtonCxform: character id %d doesn't exist", id)
		return nil
	}
	button, ok := character.(*display.ButtonDef)
	if !ok {
		ctx.Logger.LogLibraryf(debug.LogLevelWarning, "DefineButtonCxform: tried to apply on non-button id %d", id)
		return nil
	}
	button.SetColors(transforms)
	return nil
}

func (m *MovieClip) defineButtonSound(ctx *display.UpdateContext, r *swf.Reader, length int) error {
	id, err := r.ReadU16()
	if err != nil {
		return err
	}
	sounds, err := r.ReadBytes(length - 2)
	if err != nil {
		return err
	}
	character, ok := ctx.Library.CharacterByID(id)
	if !ok {
		ctx.Logger.LogLibraryf(debug.LogLevelWarning, "DefineButtonSound: character id %d doesn't exist", id)
		return nil
	}
	button, ok := character.(*display.ButtonDef)
	if !ok {
		ctx.Logger.LogLibraryf(debug.LogLevelWarning, "DefineButtonSound: tried to apply on non-button id %d", id)
		return nil
	}
	button.SetSounds(sounds)
	return nil
}

func (m *MovieClip) defineSound(ctx *display.UpdateContext, r *swf.Reader, length int) error {
	sound, err := r.ReadDefineSound(length)
	if err != nil {
		return err
	}
	handle, err := ctx.Audio.RegisterSound(sound)
	if err != nil {
		return fmt.Errorf("DefineSound id %d: %w", sound.ID, err)
	}
	ctx.Library.RegisterCharacter(sound.ID, &display.SoundDef{ID: sound.ID, Handle: handle})
	return nil
}

// defineSprite recursively constructs and preloads a nested clip definition
func (m *MovieClip) defineSprite(ctx *display.UpdateContext, r *swf.Reader, length int, morphShapes map[swf.CharacterID]*display.MorphShapeDef, nesting int) error {
	if nesting >= maxSpriteNesting {
		return fmt.Errorf("DefineSprite nesting exceeds %d levels", maxSpriteNesting)
	}
	id, err := r.ReadU16()
	if err != nil {
		return err
	}
	numFrames, err := r.ReadU16()
	if err != nil {
		return err
	}
	static := NewMovieClipStatic(id, r.SliceAt(length-4), numFrames)
	sprite := newMovieClip(static)
	sprite.preload(ctx, morphShapes, nesting+1)
	ctx.Library.RegisterCharacter(id, NewMovieClipDefinition(static))
	return nil
}

func (m *MovieClip) jpegTables(ctx *display.UpdateContext, r *swf.Reader, length int) error {
	data, err := r.ReadBytes(length)
	if err != nil {
		return err
	}
	ctx.Library.SetJpegTables(data)
	return nil
}

func (m *MovieClip) exportAssets(ctx *display.UpdateContext, r *swf.Reader) error {
	count, err := r.ReadU16()
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		id, err := r.ReadU16()
		if err != nil {
			return err
		}
		name, err := r.ReadString()
		if err != nil {
			return err
		}
		ctx.Library.RegisterExport(id, name)
	}
	return nil
}

// frameLabel records a label for the current preload frame; duplicates keep
// the first binding.
func (m *MovieClip) frameLabel(ctx *display.UpdateContext, r *swf.Reader, length int, curFrame swf.FrameNumber) error {
	label, err := r.ReadString()
	if err != nil {
		return err
	}
	if _, exists := m.static.FrameLabels[label]; exists {
		ctx.Logger.LogTimelinef(debug.LogLevelWarning, "Movie clip %d: duplicated frame label %q", m.ID(), label)
		return nil
	}
	m.static.FrameLabels[label] = curFrame
	return nil
}

func (m *MovieClip) preloadSoundStreamHead(ctx *display.UpdateContext, r *swf.Reader, curFrame swf.FrameNumber) error {
	head, err := r.ReadSoundStreamHead()
	if err != nil {
		return err
	}
	ctx.Audio.PreloadSoundStreamHead(m.ID(), curFrame, head)
	m.static.AudioStreamInfo = head
	return nil
}

func (m *MovieClip) preloadSoundStreamBlock(ctx *display.UpdateContext, r *swf.Reader, length int, curFrame swf.FrameNumber) error {
	if m.static.AudioStreamInfo == nil {
		return nil
	}
	data, err := r.ReadBytes(length)
	if err != nil {
		return err
	}
	ctx.Audio.PreloadSoundStreamBlock(m.ID(), curFrame, data)
	return nil
}

// preloadPlaceObject tracks depth-to-id bindings so morph shape placements
// can register their ratios.
func (m *MovieClip) preloadPlaceObject(ctx *display.UpdateContext, r *swf.Reader, length int, ids map[swf.Depth]swf.CharacterID, morphShapes map[swf.CharacterID]*display.MorphShapeDef, version uint8) error {
	place, err := readPlaceObject(r, length, version)
	if err != nil {
		return err
	}
	registerRatio := func(id swf.CharacterID) {
		if morphShape, ok := morphShapes[id]; ok {
			ids[place.Depth] = id
			if place.Ratio != nil {
				morphShape.RegisterRatio(ctx.Renderer, *place.Ratio)
			}
		}
	}
	switch place.Action {
	case swf.PlaceActionPlace:
		registerRatio(place.CharacterID)
	case swf.PlaceActionModify:
		if id, ok := ids[place.Depth]; ok {
			registerRatio(id)
		}
	case swf.PlaceActionReplace:
		if _, ok := morphShapes[place.CharacterID]; ok {
			registerRatio(place.CharacterID)
		} else {
			delete(ids, place.Depth)
		}
	}
	return nil
}

func (m *MovieClip) preloadRemoveObject(r *swf.Reader, ids map[swf.Depth]swf.CharacterID, version uint8) error {
	remove, err := readRemoveObject(r, version)
	if err != nil {
		return err
	}
	delete(ids, remove.Depth)
	return nil
}

// doInitAction enqueues a one-shot init action. The sprite id the tag names
// is recorded but does not gate execution.
func (m *MovieClip) doInitAction(ctx *display.UpdateContext, r *swf.Reader, length int) error {
	spriteID, err := r.ReadU16()
	if err != nil {
		return err
	}
	ctx.Logger.LogTimelinef(debug.LogLevelInfo, "Init action sprite id %d", spriteID)
	slice := r.SliceAt(length - 2)
	ctx.Actions.QueueActions(m, display.Action{Kind: display.ActionInit, Bytecode: slice}, false)
	return nil
}
