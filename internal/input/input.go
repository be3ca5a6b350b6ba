package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"swfplay/internal/swf"
)

// System translates host input events into clip events and tracks the mouse
// position in twips.
type System struct {
	MouseX, MouseY swf.Twips
	Scale          int
	mouseDown      bool
}

// NewSystem creates an input system for the given display scale
func NewSystem(scale int) *System {
	if scale < 1 {
		scale = 1
	}
	return &System{Scale: scale}
}

// HandleEvent translates one SDL event into the clip events it raises, in
// dispatch order.
func (s *System) HandleEvent(event sdl.Event) []swf.ClipEvent {
	switch e := event.(type) {
	case *sdl.MouseMotionEvent:
		s.MouseX = swf.Twips(int(e.X) / s.Scale * 20)
		s.MouseY = swf.Twips(int(e.Y) / s.Scale * 20)
		return []swf.ClipEvent{{Kind: swf.ClipEventMouseMove}}

	case *sdl.MouseButtonEvent:
		if e.Button != sdl.BUTTON_LEFT {
			return nil
		}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			s.mouseDown = true
			return []swf.ClipEvent{{Kind: swf.ClipEventMouseDown}}
		}
		s.mouseDown = false
		return []swf.ClipEvent{{Kind: swf.ClipEventMouseUp}}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN {
			events := []swf.ClipEvent{{Kind: swf.ClipEventKeyDown}}
			if code, ok := buttonKeyCode(e.Keysym); ok {
				events = append(events, swf.ClipEvent{Kind: swf.ClipEventKeyPress, KeyCode: code})
			}
			return events
		}
		if e.Type == sdl.KEYUP {
			return []swf.ClipEvent{{Kind: swf.ClipEventKeyUp}}
		}
	}
	return nil
}

// IsMouseDown returns whether the primary button is held
func (s *System) IsMouseDown() bool {
	return s.mouseDown
}

// buttonKeyCode maps an SDL keysym to the movie format's button key code
// space: 1-31 for specials, 32+ for printable ASCII.
func buttonKeyCode(keysym sdl.Keysym) (uint8, bool) {
	switch keysym.Sym {
	case sdl.K_LEFT:
		return 1, true
	case sdl.K_RIGHT:
		return 2, true
	case sdl.K_HOME:
		return 3, true
	case sdl.K_END:
		return 4, true
	case sdl.K_INSERT:
		return 5, true
	case sdl.K_DELETE:
		return 6, true
	case sdl.K_BACKSPACE:
		return 8, true
	case sdl.K_RETURN:
		return 13, true
	case sdl.K_UP:
		return 14, true
	case sdl.K_DOWN:
		return 15, true
	case sdl.K_PAGEUP:
		return 16, true
	case sdl.K_PAGEDOWN:
		return 17, true
	case sdl.K_TAB:
		return 18, true
	case sdl.K_ESCAPE:
		return 19, true
	}
	if keysym.Sym >= 32 && keysym.Sym < 127 {
		return uint8(keysym.Sym), true
	}
	return 0, false
}
