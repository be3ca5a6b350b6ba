package timeline

import (
	"sort"

	"swfplay/internal/display"
	"swfplay/internal/swf"
)

// gotoPlaceObject accumulates the place-object deltas at one depth into the
// final placement as it would stand at the goto's target frame.
type gotoPlaceObject struct {
	// frame is the frame the character was first placed on, not the target.
	frame swf.FrameNumber
	place *swf.PlaceObject
}

// newGotoPlaceObject wraps one decoded placement. On a rewind, a Place gets
// every optional field filled with its default so applying the aggregate
// fully resets a persistent object rather than patching it: the prior
// incarnation may have accumulated modifications.
func newGotoPlaceObject(frame swf.FrameNumber, place *swf.PlaceObject, isRewind bool) *gotoPlaceObject {
	if isRewind && place.Action == swf.PlaceActionPlace {
		if place.Matrix == nil {
			m := swf.IdentityMatrix()
			place.Matrix = &m
		}
		if place.ColorTransform == nil {
			ct := swf.IdentityColorTransform()
			place.ColorTransform = &ct
		}
		if place.Ratio == nil {
			var ratio uint16
			place.Ratio = &ratio
		}
		if place.Name == nil {
			var name string
			place.Name = &name
		}
		if place.ClipDepth == nil {
			var clipDepth uint16
			place.ClipDepth = &clipDepth
		}
		if place.ClassName == nil {
			var className string
			place.ClassName = &className
		}
		if place.BlendMode == nil {
			var blendMode uint8
			place.BlendMode = &blendMode
		}
		if place.BackgroundColor == nil {
			var color swf.Color
			place.BackgroundColor = &color
		}
	}
	return &gotoPlaceObject{frame: frame, place: place}
}

// id returns the aggregated character id, 0 for a pure modify
func (g *gotoPlaceObject) id() swf.CharacterID {
	return g.place.ID()
}

// modifiesOriginalItem reports whether the aggregate replaces the occupant
// while keeping its display properties.
func (g *gotoPlaceObject) modifiesOriginalItem() bool {
	return g.place.Action == swf.PlaceActionReplace
}

// merge folds a later placement at the same depth into this one. A Modify
// keeps the current action and id; anything else supersedes them and moves
// the placement frame. Optional fields present on the newer placement
// overwrite; absent ones keep the older value.
func (g *gotoPlaceObject) merge(next *gotoPlaceObject) {
	cur, nxt := g.place, next.place
	if nxt.Action != swf.PlaceActionModify {
		cur.Action = nxt.Action
		cur.CharacterID = nxt.CharacterID
		g.frame = next.frame
	}
	if nxt.Matrix != nil {
		cur.Matrix = nxt.Matrix
	}
	if nxt.ColorTransform != nil {
		cur.ColorTransform = nxt.ColorTransform
	}
	if nxt.Ratio != nil {
		cur.Ratio = nxt.Ratio
	}
	if nxt.Name != nil {
		cur.Name = nxt.Name
	}
	if nxt.ClipDepth != nil {
		cur.ClipDepth = nxt.ClipDepth
	}
	if nxt.ClassName != nil {
		cur.ClassName = nxt.ClassName
	}
	if nxt.BlendMode != nil {
		cur.BlendMode = nxt.BlendMode
	}
	if nxt.BackgroundColor != nil {
		cur.BackgroundColor = nxt.BackgroundColor
	}
}

// runGoto seeks the playhead to a frame, forward or backward, acting as if
// the playhead had travelled there naturally but without re-creating objects
// that persist and without emitting side-effecting tags for intermediate
// frames. Timelines are stored as frame-to-frame deltas, so a rewind
// restarts from frame 1 and plays forward; the deltas are aggregated per
// depth and applied to the display list at the end.
func (m *MovieClip) runGoto(ctx *display.UpdateContext, frame swf.FrameNumber) {
	gotoCommands := make(map[swf.Depth]*gotoPlaceObject)

	isRewind := frame < m.currentFrame
	if isRewind {
		// Deltas only step forward, so start over from frame 1.
		m.tagStreamPos = 0
		m.currentFrame = 0

		// Children created after the destination frame cannot exist there.
		for _, depth := range m.sortedDepths() {
			child := m.children[depth]
			if child.PlaceFrame() > frame {
				delete(m.children, depth)
				m.removeChildFromExecList(ctx, child)
			}
		}
	}

	// Step through the intermediate frames, aggregating each frame's deltas.
	framePos := m.tagStreamPos
	reader := m.reader(ctx)
	for m.currentFrame < frame {
		m.currentFrame++
		framePos = reader.Position()

		callback := func(r *swf.Reader, code swf.TagCode, length int) error {
			switch code {
			case swf.TagPlaceObject:
				return m.gotoPlace(r, length, 1, gotoCommands, isRewind)
			case swf.TagPlaceObject2:
				return m.gotoPlace(r, length, 2, gotoCommands, isRewind)
			case swf.TagPlaceObject3:
				return m.gotoPlace(r, length, 3, gotoCommands, isRewind)
			case swf.TagPlaceObject4:
				return m.gotoPlace(r, length, 4, gotoCommands, isRewind)
			case swf.TagRemoveObject:
				return m.gotoRemove(ctx, r, 1, gotoCommands, isRewind)
			case swf.TagRemoveObject2:
				return m.gotoRemove(ctx, r, 2, gotoCommands, isRewind)
			}
			// Other tags are side effects that must not replay for
			// intermediate frames.
			return nil
		}
		swf.DecodeTags(reader, callback, swf.TagShowFrame, ctx.Logger)
	}

	// Apply the aggregated commands so queued actions come out in the same
	// order as if the playhead had reached the frame naturally: first the
	// placements from before the target frame, then the target frame's own
	// side effects, then the placements on the target frame itself.
	ordered := make([]swf.Depth, 0, len(gotoCommands))
	for depth := range gotoCommands {
		ordered = append(ordered, depth)
	}
	sort.Ints(ordered)

	for _, depth := range ordered {
		if params := gotoCommands[depth]; params.frame < frame {
			m.runGotoCommand(ctx, depth, params, isRewind)
		}
	}

	// Re-run the target frame with display tags suppressed; DoAction,
	// StartSound, SoundStreamBlock and SetBackgroundColor still fire.
	m.currentFrame = frame - 1
	m.tagStreamPos = framePos
	m.runFrameInternal(ctx, false)

	for _, depth := range ordered {
		if params := gotoCommands[depth]; params.frame >= frame {
			m.runGotoCommand(ctx, depth, params, isRewind)
		}
	}
}

// runGotoCommand reconciles one aggregated placement against the display list
func (m *MovieClip) runGotoCommand(ctx *display.UpdateContext, depth swf.Depth, params *gotoPlaceObject, isRewind bool) {
	prevChild, occupied := m.children[depth]
	if occupied && (params.id() == 0 || isRewind) {
		// An object created before the target frame persists across the
		// goto; reuse it and apply the final delta instead of recreating.
		// A rewind has already removed the dead children, so the occupant
		// is always the one to modify.
		prevChild.ApplyPlaceObject(params.place)
		return
	}
	if child := m.instantiateChild(ctx, params.id(), depth, params.place, params.modifiesOriginalItem()); child != nil {
		// The place frame is where the object would have been placed
		// naturally, not the frame being sought.
		child.SetPlaceFrame(params.frame)
	}
}

// gotoPlace aggregates a place-object tag during a goto
func (m *MovieClip) gotoPlace(r *swf.Reader, length int, version uint8, gotoCommands map[swf.Depth]*gotoPlaceObject, isRewind bool) error {
	place, err := readPlaceObject(r, length, version)
	if err != nil {
		return err
	}
	next := newGotoPlaceObject(m.currentFrame, place, isRewind)
	if prev, ok := gotoCommands[place.Depth]; ok {
		prev.merge(next)
	} else {
		gotoCommands[place.Depth] = next
	}
	return nil
}

// gotoRemove handles a remove-object tag during a goto
func (m *MovieClip) gotoRemove(ctx *display.UpdateContext, r *swf.Reader, version uint8, gotoCommands map[swf.Depth]*gotoPlaceObject, isRewind bool) error {
	remove, err := readRemoveObject(r, version)
	if err != nil {
		return err
	}
	delete(gotoCommands, remove.Depth)
	if !isRewind {
		// A fast-forward starts from the existing display list, so a removal
		// of a pre-goto child takes effect immediately. Rewinds conceptually
		// start from an empty list and instead keep the old children around
		// to decide persistence by place frame.
		if child, ok := m.children[remove.Depth]; ok {
			delete(m.children, remove.Depth)
			m.removeChildFromExecList(ctx, child)
		}
	}
	return nil
}
