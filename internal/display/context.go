package display

import (
	"swfplay/internal/audio"
	"swfplay/internal/debug"
	"swfplay/internal/render"
	"swfplay/internal/swf"
)

// Library is the character registry the timeline reads and the preload pass
// writes. The registry is append-only once playback starts.
type Library interface {
	RegisterCharacter(id swf.CharacterID, character Character)
	CharacterByID(id swf.CharacterID) (Character, bool)
	InstantiateByID(id swf.CharacterID, ctx *UpdateContext) (DisplayObject, error)
	RegisterExport(id swf.CharacterID, name string)
	SetJpegTables(data []byte)
	JpegTables() []byte
	Sound(id swf.CharacterID) (audio.SoundHandle, bool)
}

// ActionKind distinguishes the queued action flavors
type ActionKind int

const (
	// ActionNormal is a frame or clip-event bytecode blob
	ActionNormal ActionKind = iota
	// ActionInit is a one-shot DoInitAction blob
	ActionInit
	// ActionMethod is a named script method invocation
	ActionMethod
)

// Action is one queued unit of deferred script work
type Action struct {
	Kind       ActionKind
	Bytecode   swf.Slice
	MethodName string
}

// ActionQueuer receives deferred script work; the script VM drains it
// between frame advances.
type ActionQueuer interface {
	QueueActions(target DisplayObject, action Action, isUnload bool)
}

// UpdateContext carries everything a timeline operation needs. It is built
// once per tick and threaded through the display tree; the engine keeps no
// global mutable state.
type UpdateContext struct {
	Movie           *swf.Movie
	Library         Library
	Audio           audio.Backend
	Renderer        render.Renderer
	Actions         ActionQueuer
	Logger          *debug.Logger
	BackgroundColor *swf.Color
}

// Version returns the movie's format version
func (c *UpdateContext) Version() uint8 {
	if c.Movie == nil {
		return 0
	}
	return c.Movie.Version
}

// RenderContext carries the transform stack and the command list of one
// render walk.
type RenderContext struct {
	Commands       *render.CommandList
	matrixStack    []swf.Matrix
	colorStack     []swf.ColorTransform
	currentMatrix  swf.Matrix
	currentColor   swf.ColorTransform
}

// NewRenderContext creates a render context targeting the given command list
func NewRenderContext(commands *render.CommandList) *RenderContext {
	return &RenderContext{
		Commands:      commands,
		currentMatrix: swf.IdentityMatrix(),
		currentColor:  swf.IdentityColorTransform(),
	}
}

// PushTransform composes a child transform onto the stack
func (c *RenderContext) PushTransform(m swf.Matrix, ct swf.ColorTransform) {
	c.matrixStack = append(c.matrixStack, c.currentMatrix)
	c.colorStack = append(c.colorStack, c.currentColor)
	c.currentMatrix = concatMatrix(c.currentMatrix, m)
	c.currentColor = concatColorTransform(c.currentColor, ct)
}

// PopTransform restores the previous transform
func (c *RenderContext) PopTransform() {
	n := len(c.matrixStack)
	if n == 0 {
		return
	}
	c.currentMatrix = c.matrixStack[n-1]
	c.currentColor = c.colorStack[n-1]
	c.matrixStack = c.matrixStack[:n-1]
	c.colorStack = c.colorStack[:n-1]
}

// Matrix returns the current composed matrix
func (c *RenderContext) Matrix() swf.Matrix {
	return c.currentMatrix
}

// ColorTransform returns the current composed color transform
func (c *RenderContext) ColorTransform() swf.ColorTransform {
	return c.currentColor
}

func concatMatrix(a, b swf.Matrix) swf.Matrix {
	return swf.Matrix{
		A:  a.A*b.A + a.C*b.B,
		B:  a.B*b.A + a.D*b.B,
		C:  a.A*b.C + a.C*b.D,
		D:  a.B*b.C + a.D*b.D,
		TX: swf.Twips(a.A*float32(b.TX)+a.C*float32(b.TY)) + a.TX,
		TY: swf.Twips(a.B*float32(b.TX)+a.D*float32(b.TY)) + a.TY,
	}
}

func concatColorTransform(a, b swf.ColorTransform) swf.ColorTransform {
	return swf.ColorTransform{
		RMult: a.RMult * b.RMult,
		GMult: a.GMult * b.GMult,
		BMult: a.BMult * b.BMult,
		AMult: a.AMult * b.AMult,
		RAdd:  a.RAdd + b.RAdd,
		GAdd:  a.GAdd + b.GAdd,
		BAdd:  a.BAdd + b.BAdd,
		AAdd:  a.AAdd + b.AAdd,
	}
}
