package swf

import "errors"

var errTruncatedClipAction = errors.New("clip action record overruns tag")

// ClipEventKind names a clip lifecycle or input event
type ClipEventKind uint8

const (
	ClipEventLoad ClipEventKind = iota
	ClipEventUnload
	ClipEventEnterFrame
	ClipEventMouseDown
	ClipEventMouseMove
	ClipEventMouseUp
	ClipEventKeyDown
	ClipEventKeyUp
	ClipEventKeyPress
	ClipEventPress
	ClipEventRelease
	ClipEventReleaseOutside
	ClipEventRollOver
	ClipEventRollOut
	ClipEventDragOver
	ClipEventDragOut
	ClipEventData
	ClipEventInitialize
	ClipEventConstruct
)

// ClipEvent is a clip event instance; KeyCode is set only for KeyPress
type ClipEvent struct {
	Kind    ClipEventKind
	KeyCode uint8
}

// MethodName returns the script method name a clip event maps to for movies
// of format version 6 and up. Construct, Initialize and KeyPress have no
// method form.
func (e ClipEvent) MethodName() (string, bool) {
	switch e.Kind {
	case ClipEventLoad:
		return "onLoad", true
	case ClipEventUnload:
		return "onUnload", true
	case ClipEventEnterFrame:
		return "onEnterFrame", true
	case ClipEventMouseDown:
		return "onMouseDown", true
	case ClipEventMouseMove:
		return "onMouseMove", true
	case ClipEventMouseUp:
		return "onMouseUp", true
	case ClipEventKeyDown:
		return "onKeyDown", true
	case ClipEventKeyUp:
		return "onKeyUp", true
	case ClipEventPress:
		return "onPress", true
	case ClipEventRelease:
		return "onRelease", true
	case ClipEventReleaseOutside:
		return "onReleaseOutside", true
	case ClipEventRollOver:
		return "onRollOver", true
	case ClipEventRollOut:
		return "onRollOut", true
	case ClipEventDragOver:
		return "onDragOver", true
	case ClipEventDragOut:
		return "onDragOut", true
	case ClipEventData:
		return "onData", true
	default:
		return "", false
	}
}

// String returns the event name
func (e ClipEvent) String() string {
	names := map[ClipEventKind]string{
		ClipEventLoad: "Load", ClipEventUnload: "Unload", ClipEventEnterFrame: "EnterFrame",
		ClipEventMouseDown: "MouseDown", ClipEventMouseMove: "MouseMove", ClipEventMouseUp: "MouseUp",
		ClipEventKeyDown: "KeyDown", ClipEventKeyUp: "KeyUp", ClipEventKeyPress: "KeyPress",
		ClipEventPress: "Press", ClipEventRelease: "Release", ClipEventReleaseOutside: "ReleaseOutside",
		ClipEventRollOver: "RollOver", ClipEventRollOut: "RollOut",
		ClipEventDragOver: "DragOver", ClipEventDragOut: "DragOut",
		ClipEventData: "Data", ClipEventInitialize: "Initialize", ClipEventConstruct: "Construct",
	}
	if n, ok := names[e.Kind]; ok {
		return n
	}
	return "Unknown"
}

// ClipAction binds a set of clip events to a bytecode slice
type ClipAction struct {
	Events []ClipEvent
	Action Slice
}

// Matches returns true if the action fires for the given event
func (a *ClipAction) Matches(e ClipEvent) bool {
	for _, ev := range a.Events {
		if ev == e {
			return true
		}
	}
	return false
}

// Clip event flag bits within the 16/32-bit event-flags word
// (low 16 bits are shared between both widths).
const (
	clipEventFlagLoad           = 1 << 0
	clipEventFlagEnterFrame     = 1 << 1
	clipEventFlagUnload         = 1 << 2
	clipEventFlagMouseMove      = 1 << 3
	clipEventFlagMouseDown      = 1 << 4
	clipEventFlagMouseUp        = 1 << 5
	clipEventFlagKeyDown        = 1 << 6
	clipEventFlagKeyUp          = 1 << 7
	clipEventFlagData           = 1 << 8
	clipEventFlagInitialize     = 1 << 9
	clipEventFlagPress          = 1 << 10
	clipEventFlagRelease        = 1 << 11
	clipEventFlagReleaseOutside = 1 << 12
	clipEventFlagRollOver       = 1 << 13
	clipEventFlagRollOut        = 1 << 14
	clipEventFlagDragOver       = 1 << 15
	clipEventFlagDragOut        = 1 << 16
	clipEventFlagKeyPress       = 1 << 17
	clipEventFlagConstruct      = 1 << 18
)

var clipEventFlagKinds = []struct {
	flag uint32
	kind ClipEventKind
}{
	{clipEventFlagLoad, ClipEventLoad},
	{clipEventFlagEnterFrame, ClipEventEnterFrame},
	{clipEventFlagUnload, ClipEventUnload},
	{clipEventFlagMouseMove, ClipEventMouseMove},
	{clipEventFlagMouseDown, ClipEventMouseDown},
	{clipEventFlagMouseUp, ClipEventMouseUp},
	{clipEventFlagKeyDown, ClipEventKeyDown},
	{clipEventFlagKeyUp, ClipEventKeyUp},
	{clipEventFlagData, ClipEventData},
	{clipEventFlagInitialize, ClipEventInitialize},
	{clipEventFlagPress, ClipEventPress},
	{clipEventFlagRelease, ClipEventRelease},
	{clipEventFlagReleaseOutside, ClipEventReleaseOutside},
	{clipEventFlagRollOver, ClipEventRollOver},
	{clipEventFlagRollOut, ClipEventRollOut},
	{clipEventFlagDragOver, ClipEventDragOver},
	{clipEventFlagDragOut, ClipEventDragOut},
	{clipEventFlagConstruct, ClipEventConstruct},
}

// readEventFlags reads a 16-bit (format version <= 5) or 32-bit event-flags word
func (r *Reader) readEventFlags() (uint32, error) {
	if r.Version <= 5 {
		v, err := r.ReadU16()
		return uint32(v), err
	}
	return r.ReadU32()
}

// ReadClipActions reads the CLIPACTIONS record attached to a PlaceObject2/3 tag
func (r *Reader) ReadClipActions() ([]ClipAction, error) {
	if _, err := r.ReadU16(); err != nil { // reserved
		return nil, err
	}
	if _, err := r.readEventFlags(); err != nil { // union of all record flags
		return nil, err
	}

	var actions []ClipAction
	for {
		flags, err := r.readEventFlags()
		if err != nil {
			return nil, err
		}
		if flags == 0 {
			break
		}
		size, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		length := int(size)

		var keyCode uint8
		if flags&clipEventFlagKeyPress != 0 {
			if keyCode, err = r.ReadU8(); err != nil {
				return nil, err
			}
			length--
		}
		if length < 0 || length > r.Remaining() {
			return nil, errTruncatedClipAction
		}

		var events []ClipEvent
		for _, fk := range clipEventFlagKinds {
			if flags&fk.flag != 0 {
				events = append(events, ClipEvent{Kind: fk.kind})
			}
		}
		if flags&clipEventFlagKeyPress != 0 {
			events = append(events, ClipEvent{Kind: ClipEventKeyPress, KeyCode: keyCode})
		}

		action := r.SliceAt(length)
		r.Seek(r.Position() + length)
		actions = append(actions, ClipAction{Events: events, Action: action})
	}
	return actions, nil
}
