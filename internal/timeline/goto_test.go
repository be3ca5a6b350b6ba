package timeline

import (
	"testing"

	"swfplay/internal/swf"
)

// buildModifyTimeline builds: frame 1 places id 10 at depth 1; frame 3
// modifies its matrix.
func buildModifyTimeline() *swf.Builder {
	b := swf.NewBuilder(6)
	b.DefineShape(10)
	b.PlaceObjectNew(1, 10)
	b.ShowFrame()
	b.ShowFrame()
	b.PlaceObjectMatrix(1, swf.Matrix{A: 1, D: 1, TX: 1000, TY: 2000})
	b.ShowFrame()
	b.End()
	return b
}

// TestGotoBackwardsPreservesIdentity tests that a rewound object keeps its
// identity and resets to the frame-1 placement defaults.
func TestGotoBackwardsPreservesIdentity(t *testing.T) {
	root, ctx := loadTestMovie(t, buildModifyTimeline(), newRecordingAudio())

	root.RunFrame(ctx) // frame 1
	placed, _ := root.Child(1)

	root.GotoFrame(ctx, 3, true)
	child, ok := root.Child(1)
	if !ok {
		t.Fatal("child missing at frame 3")
	}
	if child != placed {
		t.Fatal("forward goto recreated the persistent child")
	}
	if child.Matrix().TX != 1000 || child.Matrix().TY != 2000 {
		t.Fatalf("matrix after goto(3) = %+v, expected the frame-3 modify", child.Matrix())
	}

	root.GotoFrame(ctx, 1, true)
	child, ok = root.Child(1)
	if !ok {
		t.Fatal("child missing after rewind to frame 1")
	}
	if child != placed {
		t.Error("rewind destroyed and recreated the persistent child")
	}
	if child.Matrix() != swf.IdentityMatrix() {
		t.Errorf("matrix after rewind = %+v, expected the frame-1 default", child.Matrix())
	}
	if root.CurrentFrame() != 1 {
		t.Errorf("current frame = %d after goto(1), expected 1", root.CurrentFrame())
	}
	assertChildInvariants(t, root)
}

// TestFastForwardSkipsCreationThenRemoval tests that an object placed and
// removed between here and the target is never instantiated.
func TestFastForwardSkipsCreationThenRemoval(t *testing.T) {
	b := swf.NewBuilder(6)
	b.DefineShape(20)
	b.ShowFrame() // frame 1
	b.PlaceObjectNew(2, 20)
	b.ShowFrame() // frame 2
	b.ShowFrame() // frame 3
	b.RemoveObject2(2)
	b.ShowFrame() // frame 4
	b.ShowFrame() // frame 5
	b.End()

	root, ctx := loadTestMovie(t, b, newRecordingAudio())
	root.RunFrame(ctx) // frame 1

	root.GotoFrame(ctx, 5, true)
	if root.CurrentFrame() != 5 {
		t.Fatalf("current frame = %d, expected 5", root.CurrentFrame())
	}
	if _, ok := root.Child(2); ok {
		t.Error("depth 2 occupied after goto(5); the transient object must never exist")
	}
	if root.NumChildren() != 0 {
		t.Errorf("display list has %d children, expected 0", root.NumChildren())
	}
}

// TestGotoIdempotence tests that a repeated goto leaves the same state
func TestGotoIdempotence(t *testing.T) {
	root, ctx := loadTestMovie(t, buildModifyTimeline(), newRecordingAudio())
	root.RunFrame(ctx)

	root.GotoFrame(ctx, 3, true)
	first := childIDsByDepth(root)
	frame := root.CurrentFrame()

	root.GotoFrame(ctx, 3, true)
	second := childIDsByDepth(root)

	if root.CurrentFrame() != frame {
		t.Errorf("current frame changed: %d -> %d", frame, root.CurrentFrame())
	}
	if len(first) != len(second) {
		t.Fatalf("child set changed: %v -> %v", first, second)
	}
	for depth, id := range first {
		if second[depth] != id {
			t.Errorf("depth %d: id %d -> %d", depth, id, second[depth])
		}
	}
}

// TestRewindFidelity tests that goto(n) lands on the same child set as
// rewinding to 1 and stepping forward.
func TestRewindFidelity(t *testing.T) {
	build := func() *swf.Builder {
		b := swf.NewBuilder(6)
		b.DefineShape(1)
		b.DefineShape(2)
		b.DefineShape(3)
		b.PlaceObjectNew(1, 1)
		b.ShowFrame() // 1
		b.PlaceObjectNew(2, 2)
		b.ShowFrame() // 2
		b.RemoveObject2(1)
		b.PlaceObjectNew(3, 3)
		b.ShowFrame() // 3
		b.ShowFrame() // 4
		b.End()
		return b
	}

	for target := swf.FrameNumber(1); target <= 4; target++ {
		// Path A: run to the end, then direct goto(target).
		rootA, ctxA := loadTestMovie(t, build(), newRecordingAudio())
		for i := 0; i < 4; i++ {
			rootA.RunFrame(ctxA)
		}
		rootA.GotoFrame(ctxA, target, true)

		// Path B: run to the end, rewind to 1, step forward.
		rootB, ctxB := loadTestMovie(t, build(), newRecordingAudio())
		for i := 0; i < 4; i++ {
			rootB.RunFrame(ctxB)
		}
		rootB.GotoFrame(ctxB, 1, false)
		for rootB.CurrentFrame() < target {
			rootB.RunFrame(ctxB)
		}

		setA := childIDsByDepth(rootA)
		setB := childIDsByDepth(rootB)
		if len(setA) != len(setB) {
			t.Fatalf("target %d: child sets differ: %v vs %v", target, setA, setB)
		}
		for depth, id := range setA {
			if setB[depth] != id {
				t.Errorf("target %d depth %d: id %d vs %d", target, depth, id, setB[depth])
			}
		}
		assertChildInvariants(t, rootA)
		assertChildInvariants(t, rootB)
	}
}

// TestNextPrevRoundTrip tests the next/prev frame law
func TestNextPrevRoundTrip(t *testing.T) {
	root, ctx := loadTestMovie(t, buildModifyTimeline(), newRecordingAudio())
	root.RunFrame(ctx)
	root.RunFrame(ctx)
	start := root.CurrentFrame()

	root.NextFrame(ctx)
	if root.CurrentFrame() != start+1 {
		t.Fatalf("next_frame landed on %d, expected %d", root.CurrentFrame(), start+1)
	}
	root.PrevFrame(ctx)
	if root.CurrentFrame() != start {
		t.Errorf("prev_frame landed on %d, expected %d", root.CurrentFrame(), start)
	}
}

// TestGotoClampsTarget tests frame clamping at both ends
func TestGotoClampsTarget(t *testing.T) {
	root, ctx := loadTestMovie(t, buildModifyTimeline(), newRecordingAudio())
	root.RunFrame(ctx)

	root.GotoFrame(ctx, 99, true)
	if root.CurrentFrame() != root.TotalFrames() {
		t.Errorf("goto(99) landed on %d, expected %d", root.CurrentFrame(), root.TotalFrames())
	}

	root.GotoFrame(ctx, 0, true)
	if root.CurrentFrame() != 1 {
		t.Errorf("goto(0) landed on %d, expected 1", root.CurrentFrame())
	}
}

// TestGotoStopFlag tests play-then-seek vs stop-then-seek
func TestGotoStopFlag(t *testing.T) {
	root, ctx := loadTestMovie(t, buildModifyTimeline(), newRecordingAudio())
	root.RunFrame(ctx)

	root.GotoFrame(ctx, 2, true)
	if root.Playing() {
		t.Error("clip playing after gotoAndStop")
	}

	root.GotoFrame(ctx, 3, false)
	if !root.Playing() {
		t.Error("clip stopped after gotoAndPlay")
	}
}

// TestGotoReplaysSideEffectTags tests that the target frame's DoAction fires
// during the goto but intermediate frames' actions do not.
func TestGotoReplaysSideEffectTags(t *testing.T) {
	b := swf.NewBuilder(6)
	b.ShowFrame() // 1
	b.DoAction([]byte{0xAA})
	b.ShowFrame() // 2
	b.DoAction([]byte{0xBB})
	b.ShowFrame() // 3
	b.End()

	root, ctx := loadTestMovie(t, b, newRecordingAudio())
	queue := ctx.Actions
	root.RunFrame(ctx)
	drainNormalPayloads(queue) // discard frame 1's queue

	root.GotoFrame(ctx, 3, true)
	payloads := drainNormalPayloads(queue)
	if len(payloads) != 1 || payloads[0] != 0xBB {
		t.Errorf("goto(3) queued %v, expected only the target frame's 0xBB", payloads)
	}
}

// TestGotoSameFrameIsNoOp tests that goto to the current frame does nothing
func TestGotoSameFrameIsNoOp(t *testing.T) {
	root, ctx := loadTestMovie(t, buildModifyTimeline(), newRecordingAudio())
	root.RunFrame(ctx)
	queue := ctx.Actions
	drainNormalPayloads(queue)

	root.GotoFrame(ctx, 1, true)
	if payloads := drainNormalPayloads(queue); len(payloads) != 0 {
		t.Errorf("goto to the current frame queued %v, expected nothing", payloads)
	}
	if root.CurrentFrame() != 1 {
		t.Errorf("current frame = %d, expected 1", root.CurrentFrame())
	}
}

// TestFrameLabelResolution tests the preload label table
func TestFrameLabelResolution(t *testing.T) {
	b := swf.NewBuilder(6)
	b.FrameLabel("intro")
	b.ShowFrame()
	b.FrameLabel("loop")
	b.FrameLabel("loop") // duplicate keeps the first binding
	b.ShowFrame()
	b.FrameLabel("outro")
	b.ShowFrame()
	b.End()

	root, _ := loadTestMovie(t, b, newRecordingAudio())

	cases := map[string]swf.FrameNumber{"intro": 1, "loop": 2, "outro": 3}
	for label, want := range cases {
		got, ok := root.FrameLabelToNumber(label)
		if !ok {
			t.Errorf("label %q not found", label)
			continue
		}
		if got != want {
			t.Errorf("label %q resolves to frame %d, expected %d", label, got, want)
		}
	}
	if _, ok := root.FrameLabelToNumber("missing"); ok {
		t.Error("unknown label resolved")
	}
}
