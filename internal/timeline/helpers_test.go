package timeline

import (
	"testing"

	"swfplay/internal/action"
	"swfplay/internal/audio"
	"swfplay/internal/debug"
	"swfplay/internal/display"
	"swfplay/internal/library"
	"swfplay/internal/render"
	"swfplay/internal/swf"
)

// recordingAudio counts backend calls so tests can assert the timeline's
// sound bookkeeping without a device.
type recordingAudio struct {
	nextSound  audio.SoundHandle
	nextStream audio.StreamHandle

	startSoundCalls  []audio.SoundHandle
	playing          map[audio.SoundHandle]bool
	stoppedSounds    []audio.SoundHandle
	startStreamCalls []swf.FrameNumber
	stopStreamCalls  []audio.StreamHandle
	activeStreams    map[audio.StreamHandle]bool

	preloadHeads  int
	preloadBlocks int
	preloadEnds   int
}

func newRecordingAudio() *recordingAudio {
	return &recordingAudio{
		playing:       make(map[audio.SoundHandle]bool),
		activeStreams: make(map[audio.StreamHandle]bool),
	}
}

func (a *recordingAudio) RegisterSound(sound *swf.Sound) (audio.SoundHandle, error) {
	a.nextSound++
	return a.nextSound, nil
}

func (a *recordingAudio) StartSound(handle audio.SoundHandle, info *swf.SoundInfo) {
	a.startSoundCalls = append(a.startSoundCalls, handle)
	a.playing[handle] = true
}

func (a *recordingAudio) IsSoundPlayingWithHandle(handle audio.SoundHandle) bool {
	return a.playing[handle]
}

func (a *recordingAudio) StopSoundsWithHandle(handle audio.SoundHandle) {
	a.stoppedSounds = append(a.stoppedSounds, handle)
	delete(a.playing, handle)
}

func (a *recordingAudio) StopAllSounds() {
	a.playing = make(map[audio.SoundHandle]bool)
	a.activeStreams = make(map[audio.StreamHandle]bool)
}

func (a *recordingAudio) PreloadSoundStreamHead(id swf.CharacterID, frame swf.FrameNumber, head *swf.SoundStreamHead) {
	a.preloadHeads++
}

func (a *recordingAudio) PreloadSoundStreamBlock(id swf.CharacterID, frame swf.FrameNumber, data []byte) {
	a.preloadBlocks++
}

func (a *recordingAudio) PreloadSoundStreamEnd(id swf.CharacterID) {
	a.preloadEnds++
}

func (a *recordingAudio) StartStream(id swf.CharacterID, frame swf.FrameNumber, data swf.Slice, head *swf.SoundStreamHead) audio.StreamHandle {
	a.nextStream++
	a.startStreamCalls = append(a.startStreamCalls, frame)
	a.activeStreams[a.nextStream] = true
	return a.nextStream
}

func (a *recordingAudio) StopStream(handle audio.StreamHandle) {
	a.stopStreamCalls = append(a.stopStreamCalls, handle)
	delete(a.activeStreams, handle)
}

var _ audio.Backend = (*recordingAudio)(nil)

// newTestContext builds an update context over null host backends
func newTestContext(movie *swf.Movie, aud audio.Backend) *display.UpdateContext {
	logger := debug.NewLogger(1000)
	background := swf.Color{R: 255, G: 255, B: 255, A: 255}
	return &display.UpdateContext{
		Movie:           movie,
		Library:         library.NewLibrary(logger),
		Audio:           aud,
		Renderer:        render.NewNullRenderer(),
		Actions:         action.NewQueue(),
		Logger:          logger,
		BackgroundColor: &background,
	}
}

// loadTestMovie parses a built movie, preloads it and returns the root
func loadTestMovie(t *testing.T, b *swf.Builder, aud audio.Backend) (*MovieClip, *display.UpdateContext) {
	t.Helper()
	movie, err := swf.ParseMovie(b.Movie())
	if err != nil {
		t.Fatalf("failed to parse test movie: %v", err)
	}
	ctx := newTestContext(movie, aud)
	root := NewRootClip(movie)

	morphShapes := make(map[swf.CharacterID]*display.MorphShapeDef)
	root.Preload(ctx, morphShapes)
	for id, def := range morphShapes {
		ctx.Library.RegisterCharacter(id, def)
	}
	return root, ctx
}

// drainNormalPayloads drains the queue and returns the first byte of every
// Normal bytecode action; the tests use single-byte action blobs as markers.
func drainNormalPayloads(q display.ActionQueuer) []byte {
	queue := q.(*action.Queue)
	var payloads []byte
	for _, e := range queue.Drain() {
		if e.Action.Kind == display.ActionNormal && e.Action.Bytecode.Len() > 0 {
			payloads = append(payloads, e.Action.Bytecode.Bytes()[0])
		}
	}
	return payloads
}

// drainEntries drains the context's action queue
func drainEntries(ctx *display.UpdateContext) []action.Entry {
	return ctx.Actions.(*action.Queue).Drain()
}

// childIDsByDepth captures the display list as depth -> character id
func childIDsByDepth(m *MovieClip) map[swf.Depth]swf.CharacterID {
	ids := make(map[swf.Depth]swf.CharacterID)
	for _, depth := range m.Depths() {
		child, _ := m.Child(depth)
		ids[depth] = child.ID()
	}
	return ids
}

// assertChildInvariants checks that the depth map and the exec list hold the
// same children and that parent/place-frame invariants hold.
func assertChildInvariants(t *testing.T, m *MovieClip) {
	t.Helper()

	execSet := make(map[display.DisplayObject]bool)
	for _, child := range m.execList() {
		execSet[child] = true
	}
	if len(execSet) != m.NumChildren() {
		t.Fatalf("exec list has %d children, depth map has %d", len(execSet), m.NumChildren())
	}
	for _, depth := range m.Depths() {
		child, _ := m.Child(depth)
		if !execSet[child] {
			t.Fatalf("child at depth %d missing from exec list", depth)
		}
		if child.Parent() != display.DisplayObject(m) {
			t.Fatalf("child at depth %d has wrong parent", depth)
		}
		if m.CurrentFrame() > 0 && child.PlaceFrame() > m.CurrentFrame() {
			t.Fatalf("child at depth %d placed on frame %d, after current frame %d",
				depth, child.PlaceFrame(), m.CurrentFrame())
		}
	}
}
