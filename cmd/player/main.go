package main

import (
	"flag"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"swfplay/internal/audio"
	"swfplay/internal/debug"
	"swfplay/internal/player"
	"swfplay/internal/render"
	"swfplay/internal/ui"
)

func main() {
	moviePath := flag.String("movie", "", "Path to movie file (.swf)")
	scale := flag.Int("scale", 1, "Display scale (1-4)")
	unlimited := flag.Bool("unlimited", false, "Run at unlimited speed (no frame limit)")
	enableLogging := flag.Bool("log", false, "Enable logging (disabled by default)")
	noAudio := flag.Bool("no-audio", false, "Disable audio output")
	watch := flag.Bool("watch", false, "Reload the movie when the file changes")
	flag.Parse()

	if *moviePath == "" {
		fmt.Println("Usage: swfplay -movie <path-to-movie>")
		fmt.Println("  -movie <path>    Path to movie file (.swf)")
		fmt.Println("  -scale <1-4>     Display scale (default: 1)")
		fmt.Println("  -unlimited       Run at unlimited speed")
		fmt.Println("  -log             Enable logging")
		fmt.Println("  -no-audio        Disable audio output")
		fmt.Println("  -watch           Reload the movie when the file changes")
		os.Exit(1)
	}
	if *scale < 1 || *scale > 4 {
		fmt.Fprintf(os.Stderr, "Error: scale must be between 1 and 4\n")
		os.Exit(1)
	}

	movieData, err := os.ReadFile(*moviePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading movie file: %v\n", err)
		os.Exit(1)
	}

	logger := debug.NewLogger(10000)
	if *enableLogging {
		logger.EnableAll()
	}

	var audioBackend audio.Backend
	if *noAudio {
		audioBackend = audio.NewNullBackend()
	} else {
		sdlAudio, err := audio.NewSDLBackend(logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: audio unavailable: %v\n", err)
			audioBackend = audio.NewNullBackend()
		} else {
			audioBackend = sdlAudio
			defer sdlAudio.Close()
		}
	}

	p := player.NewPlayerWithBackends(audioBackend, render.NewNullRenderer(), logger)
	if err := p.LoadMovie(movieData); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading movie: %v\n", err)
		os.Exit(1)
	}
	p.SetFrameLimit(!*unlimited)

	fmt.Println("swfplay")
	fmt.Printf("Movie loaded: %s (v%d, %d frames, %.2f fps)\n",
		*moviePath, p.Movie.Version, p.Movie.NumFrames, p.Movie.FrameRate)
	fmt.Println("\nControls:")
	fmt.Println("  Space - Pause/Resume")
	fmt.Println("  Alt+F - Toggle fullscreen")
	fmt.Println("  ESC - Quit")

	uiInstance, err := ui.NewUI(p, *scale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating UI: %v\n", err)
		os.Exit(1)
	}

	if *watch {
		reload, err := watchMovie(*moviePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: file watching unavailable: %v\n", err)
		} else {
			uiInstance.Reload = reload
		}
	}

	if err := uiInstance.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "UI error: %v\n", err)
		os.Exit(1)
	}
}

// watchMovie watches the movie file and returns a poll function that yields
// fresh bytes after each change, nil otherwise.
func watchMovie(path string) (func() []byte, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	var dirty atomic.Bool
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					dirty.Store(true)
				}
			case <-watcher.Errors:
			}
		}
	}()

	return func() []byte {
		if !dirty.Swap(false) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		return data
	}, nil
}
