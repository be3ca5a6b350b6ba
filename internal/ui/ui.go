package ui

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"swfplay/internal/input"
	"swfplay/internal/player"
	"swfplay/internal/swf"
)

// UI is the SDL playback shell: a window sized to the movie stage, an event
// loop that feeds input into the timeline, and a command-list rasterizer.
type UI struct {
	window     *sdl.Window
	renderer   *sdl.Renderer
	player     *player.Player
	input      *input.System
	running    bool
	scale      int
	fullscreen bool

	// Reload is polled once per frame; a host can set it to swap movies.
	Reload func() []byte
}

// NewUI creates a window sized to the loaded movie's stage
func NewUI(p *player.Player, scale int) (*UI, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL: %w", err)
	}

	width := int32(550)
	height := int32(400)
	if p.Movie != nil {
		width = int32(p.Movie.Width() / 20)
		height = int32(p.Movie.Height() / 20)
	}

	window, err := sdl.CreateWindow(
		"swfplay",
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		width*int32(scale),
		height*int32(scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return &UI{
		window:   window,
		renderer: renderer,
		player:   p,
		input:    input.NewSystem(scale),
		running:  true,
		scale:    scale,
	}, nil
}

// Run runs the playback loop until the window closes
func (u *UI) Run() error {
	defer u.Cleanup()

	u.player.Start()

	for u.running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			if err := u.handleEvent(event); err != nil {
				return err
			}
		}

		if u.Reload != nil {
			if data := u.Reload(); data != nil {
				if err := u.player.LoadMovie(data); err != nil {
					return fmt.Errorf("reload error: %w", err)
				}
			}
		}

		if err := u.player.RunFrame(); err != nil {
			return fmt.Errorf("playback error: %w", err)
		}

		// The script VM is out of scope; drain so the queue stays bounded.
		u.player.DrainActions()

		u.render()
	}

	return nil
}

// handleEvent handles one SDL event
func (u *UI) handleEvent(event sdl.Event) error {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		u.running = false
		return nil

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN {
			switch e.Keysym.Sym {
			case sdl.K_ESCAPE:
				u.running = false
				return nil
			case sdl.K_SPACE:
				if u.player.Paused {
					u.player.Resume()
				} else {
					u.player.Pause()
				}
				return nil
			case sdl.K_f:
				if sdl.GetModState()&sdl.KMOD_ALT != 0 {
					u.toggleFullscreen()
					return nil
				}
			}
		}
	}

	for _, clipEvent := range u.input.HandleEvent(event) {
		u.player.PropagateClipEvent(clipEvent)
	}
	return nil
}

// render rasterizes the frame's command list. Shapes draw as filled stage
// rectangles at their transform; rendering fidelity is a host concern, not
// the timeline's.
func (u *UI) render() {
	commands := u.player.RenderFrame()

	bg := commands.BackgroundColor
	u.renderer.SetDrawColor(bg.R, bg.G, bg.B, 255)
	u.renderer.Clear()

	for _, cmd := range commands.Commands {
		u.renderer.SetDrawColor(64, 64, 64, 255)
		rect := &sdl.Rect{
			X: int32(cmd.Matrix.TX) / 20 * int32(u.scale),
			Y: int32(cmd.Matrix.TY) / 20 * int32(u.scale),
			W: int32(20 * u.scale),
			H: int32(20 * u.scale),
		}
		u.renderer.FillRect(rect)
	}

	u.renderer.Present()
}

// toggleFullscreen toggles fullscreen mode
func (u *UI) toggleFullscreen() {
	if u.fullscreen {
		u.window.SetFullscreen(0)
		u.fullscreen = false
	} else {
		u.window.SetFullscreen(sdl.WINDOW_FULLSCREEN_DESKTOP)
		u.fullscreen = true
	}
}

// MousePosition returns the cursor position in twips
func (u *UI) MousePosition() (swf.Twips, swf.Twips) {
	return u.input.MouseX, u.input.MouseY
}

// Cleanup destroys the SDL resources
func (u *UI) Cleanup() {
	if u.renderer != nil {
		u.renderer.Destroy()
	}
	if u.window != nil {
		u.window.Destroy()
	}
	sdl.Quit()
}
