package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"swfplay/internal/audio"
	"swfplay/internal/debug"
	"swfplay/internal/player"
	"swfplay/internal/render"
	"swfplay/internal/ui/panels"
)

// The inspector steps a headless player frame by frame and exposes the
// timeline state and the component log in a desktop window.
func main() {
	moviePath := flag.String("movie", "", "Path to movie file (.swf)")
	flag.Parse()

	settingsPath := inspectorSettingsPath()
	settings, err := loadInspectorSettings(settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load settings: %v\n", err)
	}

	path := *moviePath
	if path == "" {
		path = settings.LastMovie
	}
	if path == "" {
		fmt.Println("Usage: inspector -movie <path-to-movie>")
		os.Exit(1)
	}

	movieData, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading movie file: %v\n", err)
		os.Exit(1)
	}

	logger := debug.NewLogger(10000)
	if settings.LogEnabled {
		logger.EnableAll()
	}

	p := player.NewPlayerWithBackends(audio.NewNullBackend(), render.NewNullRenderer(), logger)
	if err := p.LoadMovie(movieData); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading movie: %v\n", err)
		os.Exit(1)
	}
	p.SetFrameLimit(false)
	p.Start()

	settings.addRecentFile(path)
	if err := saveInspectorSettings(settingsPath, settings); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save settings: %v\n", err)
	}

	fyneApp := app.NewWithID("swfplay.inspector")
	window := fyneApp.NewWindow(fmt.Sprintf("Inspector - %s", path))

	timelinePanel, updateTimeline := panels.TimelineViewer(p, window)
	logPanel, updateLog := panels.LogViewer(logger, window)

	stepBtn := widget.NewButton("Step Frame", func() {
		if err := p.RunFrame(); err != nil {
			logger.LogUIf(debug.LogLevelError, "Step error: %v", err)
		}
		p.DrainActions()
		updateTimeline()
		updateLog()
	})

	playing := false
	var playBtn *widget.Button
	playBtn = widget.NewButton("Play", func() {
		playing = !playing
		if playing {
			playBtn.SetText("Stop")
		} else {
			playBtn.SetText("Play")
		}
	})

	go func() {
		ticker := time.NewTicker(time.Second / 12)
		defer ticker.Stop()
		for range ticker.C {
			if !playing {
				continue
			}
			fyne.Do(func() {
				if err := p.RunFrame(); err != nil {
					logger.LogUIf(debug.LogLevelError, "Tick error: %v", err)
				}
				p.DrainActions()
				updateTimeline()
				updateLog()
			})
		}
	}()

	controls := container.NewHBox(stepBtn, playBtn)
	content := container.NewBorder(controls, nil, timelinePanel, nil, logPanel)
	window.SetContent(content)
	window.Resize(fyne.NewSize(900, 500))
	window.ShowAndRun()
}
