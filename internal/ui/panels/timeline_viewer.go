package panels

import (
	"fmt"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"swfplay/internal/player"
)

// TimelineViewer creates a panel showing the root timeline's state: the
// playhead, the frame labels, and the display list with depths and place
// frames. Returns the container and an update function to call periodically.
func TimelineViewer(p *player.Player, window fyne.Window) (*fyne.Container, func()) {
	stateText := widget.NewMultiLineEntry()
	stateText.Wrapping = fyne.TextWrapOff
	stateText.Disable() // read-only but selectable for copy/paste
	stateScroll := container.NewScroll(stateText)
	stateScroll.SetMinSize(fyne.NewSize(340, 320))

	formatState := func() string {
		if p == nil || p.Root == nil {
			return "No movie loaded\n"
		}

		var text strings.Builder
		text.WriteString("=== Timeline ===\n\n")
		fmt.Fprintf(&text, "Frame:   %d / %d\n", p.Root.CurrentFrame(), p.Root.TotalFrames())
		fmt.Fprintf(&text, "Playing: %v\n", p.Root.Playing())
		if p.Movie != nil {
			fmt.Fprintf(&text, "Format:  v%d, %.2f fps\n", p.Movie.Version, p.Movie.FrameRate)
		}

		text.WriteString("\nDisplay list:\n")
		depths := p.Root.Depths()
		if len(depths) == 0 {
			text.WriteString("  (empty)\n")
		}
		for _, d := range depths {
			child, _ := p.Root.Child(d)
			name := child.Name()
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(&text, "  depth %2d  id %4d  placed on frame %d  name %s\n",
				d, child.ID(), child.PlaceFrame(), name)
		}

		labels := p.Root.FrameLabels()
		if len(labels) > 0 {
			text.WriteString("\nFrame labels:\n")
			names := make([]string, 0, len(labels))
			for name := range labels {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(&text, "  %-20s frame %d\n", name, labels[name])
			}
		}

		return text.String()
	}

	updateFunc := func() {
		stateText.SetText(formatState())
	}

	copyBtn := widget.NewButton("Copy All", func() {
		if stateText.Text != "" && window != nil {
			window.Clipboard().SetContent(stateText.Text)
		}
	})

	prevBtn := widget.NewButton("Prev", func() {
		if p.Root != nil {
			p.Root.PrevFrame(p.Context())
			updateFunc()
		}
	})
	nextBtn := widget.NewButton("Next", func() {
		if p.Root != nil {
			p.Root.NextFrame(p.Context())
			updateFunc()
		}
	})

	buttons := container.NewHBox(prevBtn, nextBtn, copyBtn)

	updateFunc()

	panel := container.NewVBox(
		widget.NewLabel("Timeline"),
		buttons,
		stateScroll,
	)

	return panel, updateFunc
}
