package display

import (
	"swfplay/internal/swf"
)

// DisplayObject is a node of the display graph. Parent and sibling pointers
// are logical back-references; ownership flows from a clip's depth map and
// along NextSibling (the execution list).
type DisplayObject interface {
	ID() swf.CharacterID

	Depth() swf.Depth
	SetDepth(depth swf.Depth)
	PlaceFrame() swf.FrameNumber
	SetPlaceFrame(frame swf.FrameNumber)

	Parent() DisplayObject
	SetParent(parent DisplayObject)
	PrevSibling() DisplayObject
	SetPrevSibling(node DisplayObject)
	NextSibling() DisplayObject
	SetNextSibling(node DisplayObject)

	Matrix() swf.Matrix
	SetMatrix(m swf.Matrix)
	ColorTransform() swf.ColorTransform
	SetColorTransform(ct swf.ColorTransform)
	Name() string
	SetName(name string)
	ClipDepth() uint16
	Ratio() uint16

	ApplyPlaceObject(place *swf.PlaceObject)
	CopyDisplayPropertiesFrom(other DisplayObject)

	Removed() bool
	SetRemoved(removed bool)

	RunFrame(ctx *UpdateContext)
	Render(ctx *RenderContext)
	HitTest(x, y swf.Twips) bool
	MousePick(self DisplayObject, x, y swf.Twips) DisplayObject
	PropagateClipEvent(ctx *UpdateContext, event swf.ClipEvent)
	PostInstantiation(ctx *UpdateContext, proto interface{})
	Object() interface{}
	Unload(ctx *UpdateContext)
}

// Base carries the display state every node shares. Concrete objects embed
// it and override the behavior methods they care about.
type Base struct {
	depth      swf.Depth
	placeFrame swf.FrameNumber

	parent DisplayObject
	prev   DisplayObject
	next   DisplayObject

	matrix         swf.Matrix
	colorTransform swf.ColorTransform
	name           string
	clipDepth      uint16
	ratio          uint16
	blendMode      uint8

	removed bool
}

// NewBase returns a base with identity transforms
func NewBase() Base {
	return Base{
		matrix:         swf.IdentityMatrix(),
		colorTransform: swf.IdentityColorTransform(),
	}
}

func (b *Base) ID() swf.CharacterID { return 0 }

func (b *Base) Depth() swf.Depth              { return b.depth }
func (b *Base) SetDepth(depth swf.Depth)      { b.depth = depth }
func (b *Base) PlaceFrame() swf.FrameNumber   { return b.placeFrame }
func (b *Base) SetPlaceFrame(f swf.FrameNumber) { b.placeFrame = f }

func (b *Base) Parent() DisplayObject            { return b.parent }
func (b *Base) SetParent(parent DisplayObject)   { b.parent = parent }
func (b *Base) PrevSibling() DisplayObject       { return b.prev }
func (b *Base) SetPrevSibling(n DisplayObject)   { b.prev = n }
func (b *Base) NextSibling() DisplayObject       { return b.next }
func (b *Base) SetNextSibling(n DisplayObject)   { b.next = n }

func (b *Base) Matrix() swf.Matrix                     { return b.matrix }
func (b *Base) SetMatrix(m swf.Matrix)                 { b.matrix = m }
func (b *Base) ColorTransform() swf.ColorTransform     { return b.colorTransform }
func (b *Base) SetColorTransform(ct swf.ColorTransform) { b.colorTransform = ct }
func (b *Base) Name() string                           { return b.name }
func (b *Base) SetName(name string)                    { b.name = name }
func (b *Base) ClipDepth() uint16                      { return b.clipDepth }
func (b *Base) Ratio() uint16                          { return b.ratio }

func (b *Base) Removed() bool            { return b.removed }
func (b *Base) SetRemoved(removed bool)  { b.removed = removed }

// ApplyPlaceObject applies the optional fields of a place-object record
func (b *Base) ApplyPlaceObject(place *swf.PlaceObject) {
	if place.Matrix != nil {
		b.matrix = *place.Matrix
	}
	if place.ColorTransform != nil {
		b.colorTransform = *place.ColorTransform
	}
	if place.Ratio != nil {
		b.ratio = *place.Ratio
	}
	if place.Name != nil {
		b.name = *place.Name
	}
	if place.ClipDepth != nil {
		b.clipDepth = *place.ClipDepth
	}
	if place.BlendMode != nil {
		b.blendMode = *place.BlendMode
	}
}

// CopyDisplayPropertiesFrom copies the accumulated display state of a prior
// occupant; used by Replace placements.
func (b *Base) CopyDisplayPropertiesFrom(other DisplayObject) {
	b.matrix = other.Matrix()
	b.colorTransform = other.ColorTransform()
	b.name = other.Name()
	b.clipDepth = other.ClipDepth()
	b.ratio = other.Ratio()
}

// Default behavior: leaf objects with no timeline of their own.

func (b *Base) RunFrame(ctx *UpdateContext) {}

func (b *Base) Render(ctx *RenderContext) {}

func (b *Base) HitTest(x, y swf.Twips) bool { return false }

func (b *Base) MousePick(self DisplayObject, x, y swf.Twips) DisplayObject { return nil }

func (b *Base) PropagateClipEvent(ctx *UpdateContext, event swf.ClipEvent) {}

func (b *Base) PostInstantiation(ctx *UpdateContext, proto interface{}) {}

func (b *Base) Object() interface{} { return nil }

func (b *Base) Unload(ctx *UpdateContext) {
	b.removed = true
}
