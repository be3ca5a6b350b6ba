package timeline

import (
	"swfplay/internal/display"
	"swfplay/internal/swf"
)

// PropagateClipEvent delivers a clip event depth-first: children handle it
// before the clip itself.
func (m *MovieClip) PropagateClipEvent(ctx *display.UpdateContext, event swf.ClipEvent) {
	for _, child := range m.execList() {
		child.PropagateClipEvent(ctx, event)
	}
	m.runClipEvent(ctx, event)
}

// runClipEvent queues this clip's handlers for one event. Clip actions exist
// from format version 5; script-assigned method handlers (clip.onEnterFrame
// and friends) from version 6, queued after the tag-defined ones.
func (m *MovieClip) runClipEvent(ctx *display.UpdateContext, event swf.ClipEvent) {
	if ctx.Version() < 5 {
		return
	}

	isUnload := event.Kind == swf.ClipEventUnload

	for i := range m.clipActions {
		clipAction := &m.clipActions[i]
		if clipAction.Matches(event) {
			ctx.Actions.QueueActions(m, display.Action{
				Kind:     display.ActionNormal,
				Bytecode: clipAction.Action,
			}, isUnload)
		}
	}

	if ctx.Version() >= 6 {
		if name, ok := event.MethodName(); ok {
			ctx.Actions.QueueActions(m, display.Action{
				Kind:       display.ActionMethod,
				MethodName: name,
			}, isUnload)
		}
	}
}

// ActionsOnFrame decodes the tag stream, counting show-frames, and returns
// every DoAction body on the given 1-based frame. Frames past the end yield
// nothing.
func (m *MovieClip) ActionsOnFrame(ctx *display.UpdateContext, frame swf.FrameNumber) []swf.Slice {
	var actions []swf.Slice
	if frame < 1 || frame > m.TotalFrames() {
		return actions
	}

	curFrame := swf.FrameNumber(1)
	reader := swf.NewReader(m.static.TagStream, ctx.Version())

	for curFrame <= frame && reader.Remaining() > 0 {
		callback := func(r *swf.Reader, code swf.TagCode, length int) error {
			if code == swf.TagDoAction && curFrame == frame {
				actions = append(actions, r.SliceAt(length))
			}
			return nil
		}
		if !swf.DecodeTags(reader, callback, swf.TagShowFrame, ctx.Logger) {
			break
		}
		curFrame++
	}
	return actions
}
