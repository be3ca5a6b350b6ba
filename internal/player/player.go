package player

import (
	"fmt"
	"time"

	"swfplay/internal/action"
	"swfplay/internal/audio"
	"swfplay/internal/debug"
	"swfplay/internal/display"
	"swfplay/internal/library"
	"swfplay/internal/render"
	"swfplay/internal/swf"
	"swfplay/internal/timeline"
)

// Player owns one loaded movie and drives its root timeline. All playback is
// single-threaded and cooperative: one tick runs every clip to completion.
type Player struct {
	Movie   *swf.Movie
	Root    *timeline.MovieClip
	Library *library.Library
	Audio   audio.Backend
	Render  render.Renderer
	Actions *action.Queue
	Logger  *debug.Logger

	BackgroundColor swf.Color
	Commands        render.CommandList

	// Frame timing (for compatibility with host systems)
	FrameLimitEnabled bool
	FrameTime         time.Duration
	LastFrameTime     time.Time

	// Performance tracking
	FPS           float64
	FrameCount    uint64
	FPSUpdateTime time.Time

	// State
	Running bool
	Paused  bool
}

// NewPlayer creates a player with null audio and render backends
func NewPlayer() *Player {
	logger := debug.NewLogger(10000)
	return NewPlayerWithBackends(audio.NewNullBackend(), render.NewNullRenderer(), logger)
}

// NewPlayerWithBackends creates a player over the given host backends
func NewPlayerWithBackends(audioBackend audio.Backend, renderer render.Renderer, logger *debug.Logger) *Player {
	return &Player{
		Audio:             audioBackend,
		Render:            renderer,
		Actions:           action.NewQueue(),
		Logger:            logger,
		Library:           library.NewLibrary(logger),
		BackgroundColor:   swf.Color{R: 255, G: 255, B: 255, A: 255},
		FrameLimitEnabled: true,
		LastFrameTime:     time.Now(),
		FPSUpdateTime:     time.Now(),
	}
}

// LoadMovie parses a movie buffer, preloads the whole character library and
// readies the root clip on frame 0.
func (p *Player) LoadMovie(data []byte) error {
	movie, err := swf.ParseMovie(data)
	if err != nil {
		return fmt.Errorf("failed to load movie: %w", err)
	}
	p.Movie = movie
	p.Library = library.NewLibrary(p.Logger)
	p.Actions = action.NewQueue()
	p.Root = timeline.NewRootClip(movie)
	if movie.FrameRate > 0 {
		p.FrameTime = time.Duration(float64(time.Second) / float64(movie.FrameRate))
	} else {
		p.FrameTime = time.Second / 12
	}

	ctx := p.Context()
	morphShapes := make(map[swf.CharacterID]*display.MorphShapeDef)
	p.Root.Preload(ctx, morphShapes)

	// Morph shapes register only after every placement ratio was observed.
	for id, def := range morphShapes {
		p.Library.RegisterCharacter(id, def)
	}

	p.Logger.LogSystemf(debug.LogLevelInfo, "Movie loaded: v%d, %d frames, %.2f fps",
		movie.Version, movie.NumFrames, movie.FrameRate)
	return nil
}

// Context builds the update context threaded through every timeline operation
func (p *Player) Context() *display.UpdateContext {
	return &display.UpdateContext{
		Movie:           p.Movie,
		Library:         p.Library,
		Audio:           p.Audio,
		Renderer:        p.Render,
		Actions:         p.Actions,
		Logger:          p.Logger,
		BackgroundColor: &p.BackgroundColor,
	}
}

// RunFrame advances the root timeline one tick
func (p *Player) RunFrame() error {
	if p.Root == nil {
		return fmt.Errorf("no movie loaded")
	}
	if !p.Running || p.Paused {
		return nil
	}

	p.Root.RunFrame(p.Context())

	// Update FPS counter
	p.FrameCount++
	now := time.Now()
	if now.Sub(p.FPSUpdateTime) >= time.Second {
		p.FPS = float64(p.FrameCount) / now.Sub(p.FPSUpdateTime).Seconds()
		p.FrameCount = 0
		p.FPSUpdateTime = now
	}

	// Frame limiting
	if p.FrameLimitEnabled {
		elapsed := now.Sub(p.LastFrameTime)
		if elapsed < p.FrameTime {
			time.Sleep(p.FrameTime - elapsed)
		}
	}
	p.LastFrameTime = time.Now()

	return nil
}

// RenderFrame walks the display tree and returns the frame's draw list
func (p *Player) RenderFrame() *render.CommandList {
	p.Commands.Reset()
	p.Commands.BackgroundColor = p.BackgroundColor
	if p.Root != nil {
		ctx := display.NewRenderContext(&p.Commands)
		p.Root.Render(ctx)
	}
	return &p.Commands
}

// PropagateClipEvent delivers an input or lifecycle event to the whole tree
func (p *Player) PropagateClipEvent(event swf.ClipEvent) {
	if p.Root == nil {
		return
	}
	p.Root.PropagateClipEvent(p.Context(), event)
}

// MousePick returns the topmost interactive object under the point, or nil.
// Graphics and other leaf objects are never picked.
func (p *Player) MousePick(x, y swf.Twips) display.DisplayObject {
	if p.Root == nil {
		return nil
	}
	return p.Root.MousePick(p.Root, x, y)
}

// DrainActions removes and returns the tick's queued script work. With no
// script VM attached, hosts drain to keep the queue bounded.
func (p *Player) DrainActions() []action.Entry {
	return p.Actions.Drain()
}

// Start starts playback
func (p *Player) Start() {
	p.Running = true
	p.Paused = false
}

// Stop stops playback and all sound
func (p *Player) Stop() {
	p.Running = false
	p.Audio.StopAllSounds()
}

// Pause pauses playback
func (p *Player) Pause() {
	p.Paused = true
}

// Resume resumes playback
func (p *Player) Resume() {
	p.Paused = false
}

// SetFrameLimit sets the frame limit mode
func (p *Player) SetFrameLimit(enabled bool) {
	p.FrameLimitEnabled = enabled
}

// GetFPS returns the measured frames per second
func (p *Player) GetFPS() float64 {
	return p.FPS
}
