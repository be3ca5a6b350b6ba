package timeline

import (
	"sort"

	"swfplay/internal/audio"
	"swfplay/internal/debug"
	"swfplay/internal/display"
	"swfplay/internal/swf"
)

// MovieClip is a display object with its own timeline, running independently
// of its parent's. The tag-stream position is the clip's temporal state: it
// always points just past the most recent show-frame sentinel, or at 0.
type MovieClip struct {
	display.Base

	static *MovieClipStatic

	tagStreamPos int
	currentFrame swf.FrameNumber

	playing     bool
	initialized bool

	children   map[swf.Depth]display.DisplayObject
	firstChild display.DisplayObject

	audioStream       audio.StreamHandle
	audioStreamActive bool

	object      interface{}
	clipActions []swf.ClipAction
}

// newMovieClip creates a playing instance over shared static data
func newMovieClip(static *MovieClipStatic) *MovieClip {
	return &MovieClip{
		Base:     display.NewBase(),
		static:   static,
		playing:  true,
		children: make(map[swf.Depth]display.DisplayObject),
	}
}

// NewRootClip creates the root movie's clip over the movie's tag stream
func NewRootClip(movie *swf.Movie) *MovieClip {
	return newMovieClip(NewMovieClipStatic(0, movie.TagStream(), movie.NumFrames))
}

// ID returns the clip's character id
func (m *MovieClip) ID() swf.CharacterID {
	return m.static.ID
}

// CurrentFrame returns the 1-based current frame
func (m *MovieClip) CurrentFrame() swf.FrameNumber {
	return m.currentFrame
}

// TotalFrames returns the clip's frame count
func (m *MovieClip) TotalFrames() swf.FrameNumber {
	return m.static.TotalFrames
}

// FramesLoaded returns the number of loaded frames. The whole buffer is
// resident, so every frame is loaded.
func (m *MovieClip) FramesLoaded() swf.FrameNumber {
	return m.static.TotalFrames
}

// Playing returns whether the playhead advances on ticks
func (m *MovieClip) Playing() bool {
	return m.playing
}

// Play resumes playback. Single-frame clips cannot play.
func (m *MovieClip) Play() {
	if m.TotalFrames() > 1 {
		m.playing = true
	}
}

// Stop halts the playhead and tears down any active audio stream
func (m *MovieClip) Stop(ctx *display.UpdateContext) {
	m.playing = false
	if m.audioStreamActive {
		ctx.Audio.StopStream(m.audioStream)
		m.audioStreamActive = false
	}
}

// NextFrame seeks one frame forward and stops
func (m *MovieClip) NextFrame(ctx *display.UpdateContext) {
	if m.currentFrame < m.TotalFrames() {
		m.GotoFrame(ctx, m.currentFrame+1, true)
	}
}

// PrevFrame seeks one frame backward and stops
func (m *MovieClip) PrevFrame(ctx *display.UpdateContext) {
	if m.currentFrame > 1 {
		m.GotoFrame(ctx, m.currentFrame-1, true)
	}
}

// GotoFrame seeks the playhead to a 1-based frame number. stop selects
// stop-then-seek; otherwise the clip keeps playing from the target.
func (m *MovieClip) GotoFrame(ctx *display.UpdateContext, frame swf.FrameNumber, stop bool) {
	// Stop first, in case the goto has to kill and restart the stream sound.
	if stop {
		m.Stop(ctx)
	} else {
		m.Play()
	}

	if frame < 1 {
		frame = 1
	} else if frame > m.TotalFrames() {
		frame = m.TotalFrames()
	}

	if frame != m.currentFrame {
		m.runGoto(ctx, frame)
	}
}

// FrameLabels returns the label table recorded during preload
func (m *MovieClip) FrameLabels() map[string]swf.FrameNumber {
	return m.static.FrameLabels
}

// FrameLabelToNumber resolves a frame label recorded during preload
func (m *MovieClip) FrameLabelToNumber(label string) (swf.FrameNumber, bool) {
	frame, ok := m.static.FrameLabels[label]
	return frame, ok
}

// ClipActions returns the actions attached to this clip instance
func (m *MovieClip) ClipActions() []swf.ClipAction {
	return m.clipActions
}

// SetClipActions sets the actions attached to this clip instance
func (m *MovieClip) SetClipActions(actions []swf.ClipAction) {
	m.clipActions = actions
}

// Child returns the child at the given depth
func (m *MovieClip) Child(depth swf.Depth) (display.DisplayObject, bool) {
	child, ok := m.children[depth]
	return child, ok
}

// NumChildren returns the number of children on the display list
func (m *MovieClip) NumChildren() int {
	return len(m.children)
}

// Depths returns the occupied depths in ascending order
func (m *MovieClip) Depths() []swf.Depth {
	return m.sortedDepths()
}

// sortedDepths returns the occupied depths in ascending order
func (m *MovieClip) sortedDepths() []swf.Depth {
	depths := make([]swf.Depth, 0, len(m.children))
	for d := range m.children {
		depths = append(depths, d)
	}
	sort.Ints(depths)
	return depths
}

// execList snapshots the execution list, newest first
func (m *MovieClip) execList() []display.DisplayObject {
	var list []display.DisplayObject
	for child := m.firstChild; child != nil; child = child.NextSibling() {
		list = append(list, child)
	}
	return list
}

// addChildToExecList links a child at the front of the execution list.
// The depth map is not affected.
func (m *MovieClip) addChildToExecList(child display.DisplayObject) {
	if head := m.firstChild; head != nil {
		head.SetPrevSibling(child)
		child.SetNextSibling(head)
	}
	m.firstChild = child
}

// removeChildFromExecList unlinks a child and unloads it.
// The depth map is not affected.
func (m *MovieClip) removeChildFromExecList(ctx *display.UpdateContext, child display.DisplayObject) {
	prev := child.PrevSibling()
	next := child.NextSibling()
	if prev != nil {
		prev.SetNextSibling(next)
	}
	if next != nil {
		next.SetPrevSibling(prev)
	}
	child.SetPrevSibling(nil)
	child.SetNextSibling(nil)
	if m.firstChild == child {
		m.firstChild = next
	}
	child.Unload(ctx)
}

// AddChildFromScript adds a script-created child at the given depth
func (m *MovieClip) AddChildFromScript(ctx *display.UpdateContext, child display.DisplayObject, depth swf.Depth) {
	if prev, ok := m.children[depth]; ok {
		m.removeChildFromExecList(ctx, prev)
	}
	m.children[depth] = child
	m.addChildToExecList(child)
	child.SetParent(m)
	child.SetPlaceFrame(0)
	child.SetDepth(depth)
}

// RemoveChildFromScript removes a script-created child
func (m *MovieClip) RemoveChildFromScript(ctx *display.UpdateContext, child display.DisplayObject) {
	if current, ok := m.children[child.Depth()]; ok && current == child {
		delete(m.children, child.Depth())
		m.removeChildFromExecList(ctx, child)
	}
}

// RunFrame advances the clip one tick: children first, then the clip's own
// Load/EnterFrame event, then one frame's worth of its own control tags.
func (m *MovieClip) RunFrame(ctx *display.UpdateContext) {
	for _, child := range m.execList() {
		child.RunFrame(ctx)
	}

	if !m.initialized {
		m.runClipEvent(ctx, swf.ClipEvent{Kind: swf.ClipEventLoad})
		m.initialized = true
	} else {
		m.runClipEvent(ctx, swf.ClipEvent{Kind: swf.ClipEventEnterFrame})
	}

	if m.playing {
		m.runFrameInternal(ctx, true)
	} else if m.TotalFrames() == 1 && m.audioStreamActive {
		// A single-frame clip stops once its only frame has run; a stream that
		// frame started ends on the following tick.
		m.Stop(ctx)
	}
}

// reader returns a tag reader positioned at the clip's saved stream position
func (m *MovieClip) reader(ctx *display.UpdateContext) *swf.Reader {
	r := swf.NewReader(m.static.TagStream, ctx.Version())
	r.Seek(m.tagStreamPos)
	return r
}

// runFrameInternal advances the playhead and applies one frame of control
// tags. When runDisplayActions is false (the goto target-frame replay), the
// display-list tags are suppressed and only side-effect tags run.
func (m *MovieClip) runFrameInternal(ctx *display.UpdateContext, runDisplayActions bool) {
	if m.currentFrame < m.TotalFrames() {
		m.currentFrame++
		if m.TotalFrames() == 1 {
			// Single-frame clips stop after showing their only frame.
			m.playing = false
		}
	} else if m.TotalFrames() > 1 {
		// Looping acts exactly like a gotoAndPlay(1): objects that existed on
		// frame 1 are not destroyed and recreated.
		m.runGoto(ctx, 1)
		return
	} else {
		m.Stop(ctx)
	}

	reader := m.reader(ctx)
	hasStreamBlock := false

	callback := func(r *swf.Reader, code swf.TagCode, length int) error {
		switch code {
		case swf.TagDoAction:
			return m.doAction(ctx, r, length)
		case swf.TagPlaceObject:
			if runDisplayActions {
				return m.placeObject(ctx, r, length, 1)
			}
		case swf.TagPlaceObject2:
			if runDisplayActions {
				return m.placeObject(ctx, r, length, 2)
			}
		case swf.TagPlaceObject3:
			if runDisplayActions {
				return m.placeObject(ctx, r, length, 3)
			}
		case swf.TagPlaceObject4:
			if runDisplayActions {
				return m.placeObject(ctx, r, length, 4)
			}
		case swf.TagRemoveObject:
			if runDisplayActions {
				return m.removeObject(ctx, r, 1)
			}
		case swf.TagRemoveObject2:
			if runDisplayActions {
				return m.removeObject(ctx, r, 2)
			}
		case swf.TagSetBackgroundColor:
			return m.setBackgroundColor(ctx, r)
		case swf.TagStartSound:
			return m.startSound(ctx, r)
		case swf.TagSoundStreamBlock:
			hasStreamBlock = true
			return m.soundStreamBlock(ctx, r)
		}
		return nil
	}
	swf.DecodeTags(reader, callback, swf.TagShowFrame, ctx.Logger)

	m.tagStreamPos = reader.Position()

	// A playing stream should carry a SoundStreamBlock on every frame; a
	// frame without one ends the stream.
	if m.audioStreamActive && !hasStreamBlock {
		ctx.Audio.StopStream(m.audioStream)
		m.audioStreamActive = false
	}
}

// instantiateChild creates a child from the library and links it at depth.
// Any previous occupant is unloaded; with copyPreviousProperties the new
// child inherits the occupant's accumulated display state first.
func (m *MovieClip) instantiateChild(ctx *display.UpdateContext, id swf.CharacterID, depth swf.Depth, place *swf.PlaceObject, copyPreviousProperties bool) display.DisplayObject {
	child, err := ctx.Library.InstantiateByID(id, ctx)
	if err != nil {
		if ctx.Logger != nil {
			ctx.Logger.LogTimelinef(debug.LogLevelError, "Unable to instantiate display node id %d: %v", id, err)
		}
		return nil
	}

	prevChild, hadPrev := m.children[depth]
	m.children[depth] = child
	if hadPrev {
		m.removeChildFromExecList(ctx, prevChild)
	}
	m.addChildToExecList(child)

	child.SetDepth(depth)
	child.SetParent(m)
	child.SetPlaceFrame(m.currentFrame)
	if copyPreviousProperties && hadPrev {
		child.CopyDisplayPropertiesFrom(prevChild)
	}
	child.ApplyPlaceObject(place)
	child.PostInstantiation(ctx, nil)
	// Run the child's first frame.
	child.RunFrame(ctx)
	return child
}

// placeObject handles a PlaceObject/2/3/4 control tag during a frame advance
func (m *MovieClip) placeObject(ctx *display.UpdateContext, r *swf.Reader, length int, version uint8) error {
	place, err := readPlaceObject(r, length, version)
	if err != nil {
		return err
	}
	switch place.Action {
	case swf.PlaceActionPlace:
		m.instantiateChild(ctx, place.CharacterID, place.Depth, place, false)
	case swf.PlaceActionReplace:
		m.instantiateChild(ctx, place.CharacterID, place.Depth, place, true)
	case swf.PlaceActionModify:
		if child, ok := m.children[place.Depth]; ok {
			child.ApplyPlaceObject(place)
		}
	}
	if len(place.ClipActions) > 0 {
		if clip, ok := m.children[place.Depth].(*MovieClip); ok {
			clip.SetClipActions(place.ClipActions)
		}
	}
	return nil
}

// removeObject handles a RemoveObject/RemoveObject2 control tag
func (m *MovieClip) removeObject(ctx *display.UpdateContext, r *swf.Reader, version uint8) error {
	remove, err := readRemoveObject(r, version)
	if err != nil {
		return err
	}
	if child, ok := m.children[remove.Depth]; ok {
		delete(m.children, remove.Depth)
		m.removeChildFromExecList(ctx, child)
	}
	return nil
}

// doAction enqueues a frame action blob for the script VM
func (m *MovieClip) doAction(ctx *display.UpdateContext, r *swf.Reader, length int) error {
	slice := r.SliceAt(length)
	ctx.Actions.QueueActions(m, display.Action{Kind: display.ActionNormal, Bytecode: slice}, false)
	return nil
}

// setBackgroundColor writes the movie's background color
func (m *MovieClip) setBackgroundColor(ctx *display.UpdateContext, r *swf.Reader) error {
	color, err := r.ReadRGB()
	if err != nil {
		return err
	}
	if ctx.BackgroundColor != nil {
		*ctx.BackgroundColor = color
	}
	return nil
}

// startSound handles a StartSound control tag. The event kind is controlled
// by the sync setting the tag was authored with.
func (m *MovieClip) startSound(ctx *display.UpdateContext, r *swf.Reader) error {
	start, err := r.ReadStartSound()
	if err != nil {
		return err
	}
	handle, ok := ctx.Library.Sound(start.ID)
	if !ok {
		if ctx.Logger != nil {
			ctx.Logger.LogAudiof(debug.LogLevelWarning, "StartSound: unknown sound id %d", start.ID)
		}
		return nil
	}
	switch start.SoundInfo.Event {
	case swf.SoundEventEvent:
		// Event sounds always play, independent of the timeline.
		ctx.Audio.StartSound(handle, &start.SoundInfo)
	case swf.SoundEventStart:
		// Start sounds only play if an instance of the same sound is not
		// already playing.
		if !ctx.Audio.IsSoundPlayingWithHandle(handle) {
			ctx.Audio.StartSound(handle, &start.SoundInfo)
		}
	case swf.SoundEventStop:
		ctx.Audio.StopSoundsWithHandle(handle)
	}
	return nil
}

// soundStreamBlock begins the clip's audio stream on the first stream block
// of a frame; later blocks are pulled by the backend from the handed slice.
func (m *MovieClip) soundStreamBlock(ctx *display.UpdateContext, r *swf.Reader) error {
	if m.static.AudioStreamInfo == nil || m.audioStreamActive {
		return nil
	}
	slice := m.static.TagStream.Sub(m.tagStreamPos, m.static.TagStream.Len())
	m.audioStream = ctx.Audio.StartStream(m.ID(), m.currentFrame+1, slice, m.static.AudioStreamInfo)
	m.audioStreamActive = true
	return nil
}

// Render walks the children in depth order inside this clip's transform
func (m *MovieClip) Render(ctx *display.RenderContext) {
	ctx.PushTransform(m.Matrix(), m.ColorTransform())
	for _, depth := range m.sortedDepths() {
		m.children[depth].Render(ctx)
	}
	ctx.PopTransform()
}

// HitTest reports whether any child contains the point
func (m *MovieClip) HitTest(x, y swf.Twips) bool {
	for _, depth := range m.sortedDepths() {
		if m.children[depth].HitTest(x, y) {
			return true
		}
	}
	return false
}

// MousePick returns the topmost interactive object under the point
func (m *MovieClip) MousePick(self display.DisplayObject, x, y swf.Twips) display.DisplayObject {
	depths := m.sortedDepths()
	for i := len(depths) - 1; i >= 0; i-- {
		child := m.children[depths[i]]
		if result := child.MousePick(child, x, y); result != nil {
			return result
		}
	}
	return nil
}

// PostInstantiation binds the clip's script object once
func (m *MovieClip) PostInstantiation(ctx *display.UpdateContext, proto interface{}) {
	if m.object == nil {
		m.object = proto
	}
}

// Object returns the clip's script object binding
func (m *MovieClip) Object() interface{} {
	return m.object
}

// Unload removes the clip's subtree: children unload depth-first, then the
// clip's own Unload event queues and the audio stream is flushed.
func (m *MovieClip) Unload(ctx *display.UpdateContext) {
	for _, child := range m.execList() {
		child.Unload(ctx)
	}
	m.runClipEvent(ctx, swf.ClipEvent{Kind: swf.ClipEventUnload})
	if m.audioStreamActive {
		ctx.Audio.StopStream(m.audioStream)
		m.audioStreamActive = false
	}
	m.SetRemoved(true)
}

// readPlaceObject decodes the version-appropriate place-object layout
func readPlaceObject(r *swf.Reader, length int, version uint8) (*swf.PlaceObject, error) {
	if version == 1 {
		return r.ReadPlaceObject(length)
	}
	return r.ReadPlaceObject2Or3(version)
}

// readRemoveObject decodes the version-appropriate remove-object layout
func readRemoveObject(r *swf.Reader, version uint8) (*swf.RemoveObject, error) {
	if version == 1 {
		return r.ReadRemoveObject1()
	}
	return r.ReadRemoveObject2()
}

var _ display.DisplayObject = (*MovieClip)(nil)
