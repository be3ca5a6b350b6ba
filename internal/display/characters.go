package display

import (
	"fmt"

	"swfplay/internal/audio"
	"swfplay/internal/render"
	"swfplay/internal/swf"
)

// Character is a reusable, id-keyed asset registered in the library. Display
// characters instantiate into fresh display objects; non-display characters
// (sounds, fonts) refuse.
type Character interface {
	Instantiate(ctx *UpdateContext) (DisplayObject, error)
}

// GraphicDef is the static data of a shape character
type GraphicDef struct {
	ID     swf.CharacterID
	Bounds swf.Rectangle
	Shape  render.ShapeHandle
}

// Instantiate creates a graphic display object
func (d *GraphicDef) Instantiate(ctx *UpdateContext) (DisplayObject, error) {
	return &Graphic{Base: NewBase(), def: d}, nil
}

// Graphic is a static shape on the display list
type Graphic struct {
	Base
	def *GraphicDef
}

func (g *Graphic) ID() swf.CharacterID { return g.def.ID }

func (g *Graphic) Render(ctx *RenderContext) {
	ctx.PushTransform(g.Matrix(), g.ColorTransform())
	ctx.Commands.Add(render.DrawCommand{
		Shape:          g.def.Shape,
		Matrix:         ctx.Matrix(),
		ColorTransform: ctx.ColorTransform(),
	})
	ctx.PopTransform()
}

func (g *Graphic) HitTest(x, y swf.Twips) bool {
	local := g.def.Bounds
	m := g.Matrix()
	return x >= local.XMin+m.TX && x <= local.XMax+m.TX &&
		y >= local.YMin+m.TY && y <= local.YMax+m.TY
}

// BitmapDef is the static data of a bitmap character
type BitmapDef struct {
	ID     swf.CharacterID
	Handle render.BitmapHandle
	Width  uint16
	Height uint16
}

// Instantiate creates a bitmap display object
func (d *BitmapDef) Instantiate(ctx *UpdateContext) (DisplayObject, error) {
	return &Bitmap{Base: NewBase(), def: d}, nil
}

// Bitmap is a raster image on the display list
type Bitmap struct {
	Base
	def *BitmapDef
}

func (b *Bitmap) ID() swf.CharacterID { return b.def.ID }

func (b *Bitmap) Render(ctx *RenderContext) {
	ctx.PushTransform(b.Matrix(), b.ColorTransform())
	ctx.Commands.Add(render.DrawCommand{
		Bitmap:         b.def.Handle,
		IsBitmap:       true,
		Matrix:         ctx.Matrix(),
		ColorTransform: ctx.ColorTransform(),
	})
	ctx.PopTransform()
}

// MorphShapeDef is the static data of a morph shape. Ratios are registered
// as placements are observed during preload; the definition is published to
// the library only after the whole movie has been walked.
type MorphShapeDef struct {
	ID     swf.CharacterID
	Data   []byte
	Ratios map[uint16]render.ShapeHandle
}

// NewMorphShapeDef creates an empty morph shape definition
func NewMorphShapeDef(id swf.CharacterID, data []byte) *MorphShapeDef {
	return &MorphShapeDef{ID: id, Data: data, Ratios: make(map[uint16]render.ShapeHandle)}
}

// RegisterRatio registers the shape at one interpolation ratio
func (d *MorphShapeDef) RegisterRatio(renderer render.Renderer, ratio uint16) {
	if _, ok := d.Ratios[ratio]; ok {
		return
	}
	d.Ratios[ratio] = renderer.RegisterShape(d.ID, d.Data)
}

// Instantiate creates a morph shape display object
func (d *MorphShapeDef) Instantiate(ctx *UpdateContext) (DisplayObject, error) {
	return &MorphShape{Base: NewBase(), def: d}, nil
}

// MorphShape is a shape interpolated by the ratio placement field
type MorphShape struct {
	Base
	def *MorphShapeDef
}

func (m *MorphShape) ID() swf.CharacterID { return m.def.ID }

func (m *MorphShape) Render(ctx *RenderContext) {
	shape, ok := m.def.Ratios[m.Ratio()]
	if !ok {
		return
	}
	ctx.PushTransform(m.Matrix(), m.ColorTransform())
	ctx.Commands.Add(render.DrawCommand{
		Shape:          shape,
		Matrix:         ctx.Matrix(),
		ColorTransform: ctx.ColorTransform(),
		Ratio:          m.Ratio(),
	})
	ctx.PopTransform()
}

// TextDef is the static data of a static text character
type TextDef struct {
	ID     swf.CharacterID
	Bounds swf.Rectangle
	Data   []byte
}

// Instantiate creates a text display object
func (d *TextDef) Instantiate(ctx *UpdateContext) (DisplayObject, error) {
	return &Text{Base: NewBase(), def: d}, nil
}

// Text is a block of static glyph text
type Text struct {
	Base
	def *TextDef
}

func (t *Text) ID() swf.CharacterID { return t.def.ID }

// EditTextDef is the static data of an editable text field
type EditTextDef struct {
	ID     swf.CharacterID
	Bounds swf.Rectangle
	Data   []byte
}

// Instantiate creates an edit text display object
func (d *EditTextDef) Instantiate(ctx *UpdateContext) (DisplayObject, error) {
	return &EditText{Base: NewBase(), def: d}, nil
}

// EditText is a dynamic text field
type EditText struct {
	Base
	def *EditTextDef
}

func (t *EditText) ID() swf.CharacterID { return t.def.ID }

// ButtonDef is the static data of a button character. CXform and Sound tags
// mutate it after registration.
type ButtonDef struct {
	ID              swf.CharacterID
	Records         []byte
	ColorTransforms []swf.ColorTransform
	Sounds          []byte
}

// SetColors applies a DefineButtonCxform to the definition
func (d *ButtonDef) SetColors(transforms []swf.ColorTransform) {
	d.ColorTransforms = transforms
}

// SetSounds applies a DefineButtonSound to the definition
func (d *ButtonDef) SetSounds(sounds []byte) {
	d.Sounds = sounds
}

// Instantiate creates a button display object
func (d *ButtonDef) Instantiate(ctx *UpdateContext) (DisplayObject, error) {
	return &Button{Base: NewBase(), def: d}, nil
}

// Button is an interactive button instance
type Button struct {
	Base
	def *ButtonDef
}

func (b *Button) ID() swf.CharacterID { return b.def.ID }

// FontDef is the static data of a font. DefineFont glyphs are synthesized
// into the DefineFont2 layout at registration.
type FontDef struct {
	ID         swf.CharacterID
	Name       string
	Glyphs     []render.ShapeHandle
	Deferred   bool // Font4: definition understood, rendering deferred
}

// Instantiate refuses; fonts are not display objects
func (d *FontDef) Instantiate(ctx *UpdateContext) (DisplayObject, error) {
	return nil, fmt.Errorf("character %d is a font, not a display object", d.ID)
}

// SoundDef wraps a registered sound's backend handle
type SoundDef struct {
	ID     swf.CharacterID
	Handle audio.SoundHandle
}

// Instantiate refuses; sounds are not display objects
func (d *SoundDef) Instantiate(ctx *UpdateContext) (DisplayObject, error) {
	return nil, fmt.Errorf("character %d is a sound, not a display object", d.ID)
}
