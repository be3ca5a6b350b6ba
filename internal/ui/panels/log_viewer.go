package panels

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"swfplay/internal/debug"
)

// LogViewer creates a panel showing the player log ring buffer with
// per-component filter toggles. Returns the container and an update function
// to call periodically.
func LogViewer(logger *debug.Logger, window fyne.Window) (*fyne.Container, func()) {
	logText := widget.NewMultiLineEntry()
	logText.Wrapping = fyne.TextWrapOff
	logText.Disable()
	logScroll := container.NewScroll(logText)
	logScroll.SetMinSize(fyne.NewSize(480, 280))

	components := []debug.Component{
		debug.ComponentTimeline,
		debug.ComponentLibrary,
		debug.ComponentAudio,
		debug.ComponentRender,
		debug.ComponentAction,
		debug.ComponentInput,
		debug.ComponentUI,
		debug.ComponentSystem,
	}

	updateFunc := func() {
		entries := logger.GetRecentEntries(500)
		var text strings.Builder
		for i := range entries {
			text.WriteString(entries[i].Format())
			text.WriteByte('\n')
		}
		logText.SetText(text.String())
	}

	checks := container.NewHBox()
	for _, component := range components {
		c := component
		check := widget.NewCheck(string(c), func(enabled bool) {
			logger.SetComponentEnabled(c, enabled)
		})
		check.SetChecked(logger.IsComponentEnabled(c))
		checks.Add(check)
	}

	clearBtn := widget.NewButton("Clear", func() {
		logger.Clear()
		updateFunc()
	})
	copyBtn := widget.NewButton("Copy All", func() {
		if logText.Text != "" && window != nil {
			window.Clipboard().SetContent(logText.Text)
		}
	})

	updateFunc()

	panel := container.NewVBox(
		widget.NewLabel("Player Log"),
		checks,
		container.NewHBox(clearBtn, copyBtn),
		logScroll,
	)

	return panel, updateFunc
}
