package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"swfplay/internal/audio"
	"swfplay/internal/debug"
	"swfplay/internal/player"
	"swfplay/internal/render"
	"swfplay/internal/swf"
)

// swfdump prints a movie's tag stream frame by frame, plus the frame labels
// the preload pass records and the DoAction blobs decoded from one frame.
func main() {
	moviePath := flag.String("movie", "", "Path to movie file (.swf)")
	showTags := flag.Bool("tags", true, "Dump the tag stream")
	showLabels := flag.Bool("labels", false, "Dump the frame label table")
	actionsFrame := flag.Int("actions", 0, "Dump DoAction blob sizes on the given frame")
	flag.Parse()

	if *moviePath == "" {
		fmt.Println("Usage: swfdump -movie <path-to-movie> [-tags] [-labels] [-actions <frame>]")
		os.Exit(1)
	}

	data, err := os.ReadFile(*moviePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading movie file: %v\n", err)
		os.Exit(1)
	}

	movie, err := swf.ParseMovie(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing movie: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: v%d, %dx%d px, %.2f fps, %d frames\n",
		*moviePath, movie.Version,
		movie.Width()/20, movie.Height()/20,
		movie.FrameRate, movie.NumFrames)

	if *showTags {
		dumpTags(movie)
	}

	if *showLabels || *actionsFrame > 0 {
		logger := debug.NewLogger(1000)
		p := player.NewPlayerWithBackends(audio.NewNullBackend(), render.NewNullRenderer(), logger)
		if err := p.LoadMovie(data); err != nil {
			fmt.Fprintf(os.Stderr, "Error preloading movie: %v\n", err)
			os.Exit(1)
		}

		if *showLabels {
			labels := p.Root.FrameLabels()
			names := make([]string, 0, len(labels))
			for name := range labels {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Printf("\nFrame labels (%d):\n", len(names))
			for _, name := range names {
				fmt.Printf("  %-24s frame %d\n", name, labels[name])
			}
		}

		if *actionsFrame > 0 {
			actions := p.Root.ActionsOnFrame(p.Context(), swf.FrameNumber(*actionsFrame))
			fmt.Printf("\nDoAction blobs on frame %d: %d\n", *actionsFrame, len(actions))
			for i, slice := range actions {
				fmt.Printf("  #%d: %d bytes at offset %d\n", i, slice.Len(), slice.Start)
			}
		}
	}
}

func dumpTags(movie *swf.Movie) {
	reader := swf.NewReader(movie.TagStream(), movie.Version)
	frame := 1
	fmt.Printf("\nFrame %d:\n", frame)
	for reader.Remaining() > 0 {
		code, length, err := reader.ReadTagCodeAndLength()
		if err != nil {
			fmt.Printf("  (malformed tag header: %v)\n", err)
			return
		}
		fmt.Printf("  %-22s %6d bytes\n", code, length)
		if code == swf.TagEnd {
			return
		}
		if code == swf.TagShowFrame && reader.Remaining() > 0 {
			frame++
			fmt.Printf("Frame %d:\n", frame)
		}
		reader.Seek(reader.Position() + length)
	}
}
