package timeline

import (
	"testing"

	"swfplay/internal/action"
	"swfplay/internal/display"
	"swfplay/internal/swf"
)

// TestSingleFrameClipStops tests that a one-frame clip stops after its frame
func TestSingleFrameClipStops(t *testing.T) {
	b := swf.NewBuilder(6)
	b.DefineShape(1)
	b.PlaceObjectNew(1, 1)
	b.ShowFrame()
	b.End()

	root, ctx := loadTestMovie(t, b, newRecordingAudio())
	root.RunFrame(ctx)

	if root.CurrentFrame() != 1 {
		t.Errorf("current frame = %d, expected 1", root.CurrentFrame())
	}
	if root.Playing() {
		t.Error("single-frame clip still playing after its frame ran")
	}
	if _, ok := root.Child(1); !ok {
		t.Error("child at depth 1 missing")
	}
	assertChildInvariants(t, root)
}

// TestLoopingFrameSequence tests the 1,2,3,1,2,3 wrap and that the frame-1
// child survives the wrap without being recreated.
func TestLoopingFrameSequence(t *testing.T) {
	b := swf.NewBuilder(6)
	b.DefineShape(1)
	b.PlaceObjectNew(1, 1)
	b.ShowFrame()
	b.ShowFrame()
	b.ShowFrame()
	b.End()

	root, ctx := loadTestMovie(t, b, newRecordingAudio())

	var sequence []swf.FrameNumber
	for i := 0; i < 6; i++ {
		root.RunFrame(ctx)
		sequence = append(sequence, root.CurrentFrame())
	}
	want := []swf.FrameNumber{1, 2, 3, 1, 2, 3}
	for i := range want {
		if sequence[i] != want[i] {
			t.Fatalf("frame sequence = %v, expected %v", sequence, want)
		}
	}
}

// TestLoopPreservesFrameOneChild tests identity preservation across the wrap
func TestLoopPreservesFrameOneChild(t *testing.T) {
	b := swf.NewBuilder(6)
	b.DefineShape(1)
	b.PlaceObjectNew(1, 1)
	b.ShowFrame()
	b.ShowFrame()
	b.End()

	root, ctx := loadTestMovie(t, b, newRecordingAudio())
	root.RunFrame(ctx)
	first, _ := root.Child(1)
	initialSet := childIDsByDepth(root)

	root.RunFrame(ctx) // frame 2
	root.RunFrame(ctx) // wraps to frame 1

	if root.CurrentFrame() != 1 {
		t.Fatalf("current frame = %d after wrap, expected 1", root.CurrentFrame())
	}
	after, ok := root.Child(1)
	if !ok {
		t.Fatal("child at depth 1 missing after wrap")
	}
	if after != first {
		t.Error("frame-1 child was destroyed and recreated across the loop")
	}
	afterSet := childIDsByDepth(root)
	if len(afterSet) != len(initialSet) || afterSet[1] != initialSet[1] {
		t.Errorf("child set after wrap = %v, expected %v", afterSet, initialSet)
	}
	assertChildInvariants(t, root)
}

// TestStreamAudioTermination tests that a frame without a stream block stops
// the active stream.
func TestStreamAudioTermination(t *testing.T) {
	block := []byte{0, 0, 0, 0}
	b := swf.NewBuilder(6)
	b.SoundStreamHead(4)
	b.SoundStreamBlock(block)
	b.ShowFrame()
	b.SoundStreamBlock(block)
	b.ShowFrame()
	b.SoundStreamBlock(block)
	b.ShowFrame()
	b.ShowFrame() // no stream block
	b.ShowFrame()
	b.End()

	aud := newRecordingAudio()
	root, ctx := loadTestMovie(t, b, aud)
	if aud.preloadHeads != 1 {
		t.Fatalf("preload saw %d stream heads, expected 1", aud.preloadHeads)
	}
	if aud.preloadBlocks != 3 {
		t.Fatalf("preload saw %d stream blocks, expected 3", aud.preloadBlocks)
	}
	if aud.preloadEnds != 1 {
		t.Fatalf("preload finalized %d streams, expected 1", aud.preloadEnds)
	}

	root.RunFrame(ctx) // frame 1: stream starts
	if len(aud.startStreamCalls) != 1 {
		t.Fatalf("stream started %d times, expected 1", len(aud.startStreamCalls))
	}
	if aud.startStreamCalls[0] != 2 {
		t.Errorf("stream reported first frame %d, expected current_frame+1 = 2", aud.startStreamCalls[0])
	}
	if !root.audioStreamActive {
		t.Fatal("clip has no active stream handle after frame 1")
	}

	root.RunFrame(ctx) // frame 2
	root.RunFrame(ctx) // frame 3
	if len(aud.startStreamCalls) != 1 {
		t.Fatalf("stream restarted mid-run: %d starts", len(aud.startStreamCalls))
	}
	if len(aud.stopStreamCalls) != 0 {
		t.Fatalf("stream stopped early: %d stops", len(aud.stopStreamCalls))
	}

	root.RunFrame(ctx) // frame 4: no block, stream must stop
	if len(aud.stopStreamCalls) != 1 {
		t.Fatalf("stream stopped %d times after silent frame, expected 1", len(aud.stopStreamCalls))
	}
	if root.audioStreamActive {
		t.Error("clip still holds a stream handle after the silent frame")
	}
}

// TestStartSoundStartDedup tests that Start-sync sounds do not overlap
func TestStartSoundStartDedup(t *testing.T) {
	b := swf.NewBuilder(6)
	b.DefineSound(5, []byte{1, 2, 3, 4})
	b.StartSound(5, swf.SoundEventStart)
	b.ShowFrame()
	b.StartSound(5, swf.SoundEventStart)
	b.ShowFrame()
	b.End()

	aud := newRecordingAudio()
	root, ctx := loadTestMovie(t, b, aud)

	root.RunFrame(ctx)
	if len(aud.startSoundCalls) != 1 {
		t.Fatalf("frame 1 started %d sounds, expected 1", len(aud.startSoundCalls))
	}

	root.RunFrame(ctx)
	if len(aud.startSoundCalls) != 1 {
		t.Errorf("re-encountering Start while playing started a second instance (%d starts)",
			len(aud.startSoundCalls))
	}
}

// TestStartSoundEventAlwaysPlays tests that Event-sync sounds stack
func TestStartSoundEventAlwaysPlays(t *testing.T) {
	b := swf.NewBuilder(6)
	b.DefineSound(5, []byte{1, 2, 3, 4})
	b.StartSound(5, swf.SoundEventEvent)
	b.ShowFrame()
	b.StartSound(5, swf.SoundEventEvent)
	b.ShowFrame()
	b.End()

	aud := newRecordingAudio()
	root, ctx := loadTestMovie(t, b, aud)
	root.RunFrame(ctx)
	root.RunFrame(ctx)
	if len(aud.startSoundCalls) != 2 {
		t.Errorf("Event sound started %d times, expected 2", len(aud.startSoundCalls))
	}
}

// TestStartSoundStop tests that Stop-sync stops active instances
func TestStartSoundStop(t *testing.T) {
	b := swf.NewBuilder(6)
	b.DefineSound(5, []byte{1, 2, 3, 4})
	b.StartSound(5, swf.SoundEventEvent)
	b.ShowFrame()
	b.StartSound(5, swf.SoundEventStop)
	b.ShowFrame()
	b.End()

	aud := newRecordingAudio()
	root, ctx := loadTestMovie(t, b, aud)
	root.RunFrame(ctx)
	root.RunFrame(ctx)
	if len(aud.stoppedSounds) != 1 {
		t.Errorf("Stop sync stopped %d handles, expected 1", len(aud.stoppedSounds))
	}
}

// TestReplaceCopiesProperties tests that a Replace keeps the occupant's
// accumulated display state.
func TestReplaceCopiesProperties(t *testing.T) {
	m := swf.Matrix{A: 1, D: 1, TX: 500, TY: 700}
	b := swf.NewBuilder(6)
	b.DefineShape(1)
	b.DefineShape(2)
	b.PlaceObjectNewMatrix(1, 1, m)
	b.ShowFrame()
	b.PlaceObjectReplace(1, 2)
	b.ShowFrame()
	b.End()

	root, ctx := loadTestMovie(t, b, newRecordingAudio())
	root.RunFrame(ctx)
	root.RunFrame(ctx)

	child, ok := root.Child(1)
	if !ok {
		t.Fatal("child at depth 1 missing after replace")
	}
	if child.ID() != 2 {
		t.Errorf("child id = %d after replace, expected 2", child.ID())
	}
	if child.Matrix() != m {
		t.Errorf("replace lost display properties: matrix = %+v, expected %+v", child.Matrix(), m)
	}
}

// TestRemoveObjectUnloadsChild tests removal plus invariant maintenance
func TestRemoveObjectUnloadsChild(t *testing.T) {
	b := swf.NewBuilder(6)
	b.DefineShape(1)
	b.PlaceObjectNew(1, 1)
	b.ShowFrame()
	b.RemoveObject2(1)
	b.ShowFrame()
	b.End()

	root, ctx := loadTestMovie(t, b, newRecordingAudio())
	root.RunFrame(ctx)
	child, _ := root.Child(1)

	root.RunFrame(ctx)
	if _, ok := root.Child(1); ok {
		t.Error("child still on display list after RemoveObject2")
	}
	if !child.Removed() {
		t.Error("removed child was not unloaded")
	}
	if root.NumChildren() != 0 {
		t.Errorf("display list has %d children, expected 0", root.NumChildren())
	}
	assertChildInvariants(t, root)
}

// TestChildrenRunBeforeParent tests that a child's frame actions queue ahead
// of the parent's on the same tick.
func TestChildrenRunBeforeParent(t *testing.T) {
	inner := swf.NewBuilder(6)
	inner.DoAction([]byte{0x11})
	inner.ShowFrame()
	inner.DoAction([]byte{0x22})
	inner.ShowFrame()
	inner.End()

	b := swf.NewBuilder(6)
	b.DefineSprite(1, 2, inner.TagBytes())
	b.PlaceObjectNew(1, 1)
	b.DoAction([]byte{0x33})
	b.ShowFrame()
	b.DoAction([]byte{0x44})
	b.ShowFrame()
	b.End()

	root, ctx := loadTestMovie(t, b, newRecordingAudio())
	queue := ctx.Actions.(*action.Queue)

	root.RunFrame(ctx)
	queue.Drain()

	// Tick 2: the sprite's second frame must queue before the parent's.
	// Method-style event handlers also queue each tick; only the bytecode
	// actions matter for the ordering here.
	root.RunFrame(ctx)
	var entries []action.Entry
	for _, e := range queue.Drain() {
		if e.Action.Kind == display.ActionNormal {
			entries = append(entries, e)
		}
	}
	if len(entries) != 2 {
		t.Fatalf("tick 2 queued %d frame actions, expected 2", len(entries))
	}
	first := entries[0].Action.Bytecode.Bytes()
	second := entries[1].Action.Bytecode.Bytes()
	if len(first) != 1 || first[0] != 0x22 {
		t.Errorf("first queued action = %v, expected the child's 0x22", first)
	}
	if len(second) != 1 || second[0] != 0x44 {
		t.Errorf("second queued action = %v, expected the parent's 0x44", second)
	}
}

// TestSetBackgroundColor tests the background color control tag
func TestSetBackgroundColor(t *testing.T) {
	b := swf.NewBuilder(6)
	b.SetBackgroundColor(swf.Color{R: 10, G: 20, B: 30})
	b.ShowFrame()
	b.End()

	root, ctx := loadTestMovie(t, b, newRecordingAudio())
	root.RunFrame(ctx)
	want := swf.Color{R: 10, G: 20, B: 30, A: 255}
	if *ctx.BackgroundColor != want {
		t.Errorf("background = %+v, expected %+v", *ctx.BackgroundColor, want)
	}
}

// TestActionsOnFrame tests DoAction extraction per frame
func TestActionsOnFrame(t *testing.T) {
	b := swf.NewBuilder(6)
	b.DoAction([]byte{0x01})
	b.ShowFrame()
	b.DoAction([]byte{0x02})
	b.DoAction([]byte{0x03})
	b.ShowFrame()
	b.End()

	root, ctx := loadTestMovie(t, b, newRecordingAudio())

	frame2 := root.ActionsOnFrame(ctx, 2)
	if len(frame2) != 2 {
		t.Fatalf("frame 2 has %d actions, expected 2", len(frame2))
	}
	if frame2[0].Bytes()[0] != 0x02 || frame2[1].Bytes()[0] != 0x03 {
		t.Error("frame 2 action payloads out of order")
	}

	if got := root.ActionsOnFrame(ctx, 9); len(got) != 0 {
		t.Errorf("out-of-range frame returned %d actions, expected none", len(got))
	}
}

// TestScriptChildManagement tests add/remove from script
func TestScriptChildManagement(t *testing.T) {
	b := swf.NewBuilder(6)
	b.DefineShape(1)
	b.ShowFrame()
	b.ShowFrame()
	b.End()

	root, ctx := loadTestMovie(t, b, newRecordingAudio())
	root.RunFrame(ctx)

	child, err := ctx.Library.InstantiateByID(1, ctx)
	if err != nil {
		t.Fatalf("failed to instantiate: %v", err)
	}
	root.AddChildFromScript(ctx, child, 7)
	if got, ok := root.Child(7); !ok || got != child {
		t.Fatal("script child not on display list")
	}
	if child.PlaceFrame() != 0 {
		t.Errorf("script child place frame = %d, expected 0", child.PlaceFrame())
	}
	assertChildInvariants(t, root)

	root.RemoveChildFromScript(ctx, child)
	if _, ok := root.Child(7); ok {
		t.Error("script child still on display list after removal")
	}
}
