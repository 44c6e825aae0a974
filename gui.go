//go:build gui

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"creb/internal/book"
	"creb/internal/content"
	"creb/internal/session"
	"creb/internal/state"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// chapterText flattens a chapter into a single display string; fyne's
// label does the word wrapping.
func chapterText(c content.Chapter) string {
	var sb strings.Builder
	imageNum := 0
	for _, b := range c.Blocks {
		switch b.Kind {
		case content.KindParagraph:
			sb.WriteString(b.Text)
			sb.WriteString("\n\n")
		case content.KindHeading:
			sb.WriteString(strings.Repeat("#", b.Level))
			sb.WriteString(" ")
			sb.WriteString(b.Text)
			sb.WriteString("\n\n")
		case content.KindImage:
			imageNum++
			fmt.Fprintf(&sb, "[image %d: %s]\n\n", imageNum, b.Text)
		case content.KindImagePlaceholder:
			fmt.Fprintf(&sb, "[%s]\n\n", b.Text)
		}
	}
	return sb.String()
}

func main() {
	chapter := flag.Int("chapter", -1, "Start at specific chapter (0-indexed)")
	fresh := flag.Bool("fresh", false, "Ignore saved reading position")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Creb - E-Book Reader (GUI)\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  creb [options] <file>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("creb %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: No file provided.")
		fmt.Fprintln(os.Stderr, "Try: creb -h")
		os.Exit(1)
	}
	filename := flag.Arg(0)

	src, err := book.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open '%s': %v\n", filename, err)
		os.Exit(1)
	}
	defer src.Close()

	store, _ := state.NewStore()
	hash := ""
	start := 0
	if store != nil {
		if h, err := state.ComputeHash(filename); err == nil {
			hash = h
			if !*fresh && *chapter < 0 {
				saved := store.GetPosition(hash)
				if saved.ChapterIndex < src.ChapterCount() {
					start = saved.ChapterIndex
				}
			}
		}
	}
	if *chapter >= 0 {
		start = *chapter
	}

	sess, err := session.New(src, start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	// Scrolling here belongs to the fyne scroll container and is measured in
	// pixels, not display lines, so only the chapter index is persisted. A
	// zero offset means the chapter reopens at the top in either frontend.
	savePosition := func() {
		if store != nil && hash != "" {
			store.SetPosition(hash, state.Position{ChapterIndex: sess.ChapterIndex()})
		}
	}

	a := app.New()
	w := a.NewWindow("creb")

	statusLabel := widget.NewLabel("")
	statusLabel.Alignment = fyne.TextAlignCenter

	controlsLabel := widget.NewLabel("←/→ or buttons: chapter  Q: quit")
	controlsLabel.Alignment = fyne.TextAlignCenter

	progressBar := widget.NewProgressBar()

	textLabel := widget.NewLabel("")
	textLabel.Wrapping = fyne.TextWrapWord
	scroll := container.NewVScroll(textLabel)

	updateDisplay := func() {
		textLabel.SetText(chapterText(sess.Chapter()))
		scroll.ScrollToTop()
		progressBar.SetValue(sess.Progress())
		statusLabel.SetText(fmt.Sprintf("%s  [%d/%d]",
			sess.ChapterTitle(), sess.ChapterIndex()+1, sess.ChapterCount()))
	}

	showErr := func(err error) {
		if err != nil {
			statusLabel.SetText("error: " + err.Error())
		}
	}

	prevButton := widget.NewButton("< Prev", func() {
		if err := sess.PrevChapter(); err != nil {
			showErr(err)
			return
		}
		updateDisplay()
	})
	nextButton := widget.NewButton("Next >", func() {
		if err := sess.NextChapter(); err != nil {
			showErr(err)
			return
		}
		updateDisplay()
	})

	top := container.NewBorder(nil, nil, prevButton, nextButton, statusLabel)
	bottom := container.NewVBox(progressBar, controlsLabel)
	mainContainer := container.NewBorder(top, bottom, nil, nil, scroll)

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeyLeft:
			if err := sess.PrevChapter(); err != nil {
				showErr(err)
				return
			}
			updateDisplay()

		case fyne.KeyRight:
			if err := sess.NextChapter(); err != nil {
				showErr(err)
				return
			}
			updateDisplay()

		case fyne.KeyQ:
			savePosition()
			a.Quit()
		}
	})

	w.SetOnClosed(savePosition)

	updateDisplay()
	w.Resize(fyne.NewSize(800, 600))
	w.SetContent(mainContainer)
	w.ShowAndRun()
}
