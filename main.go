//go:build !gui

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

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

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Padding(0, 1)

	imageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#55AAFF")).
			Padding(0, 1)
)

type model struct {
	session  *session.Session
	store    *state.Store
	hash     string
	progress progress.Model
	width    int
	height   int
	notice   string
	errMsg   string
	quitting bool
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.notice = ""
		m.errMsg = ""

		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			m.savePosition()
			return m, tea.Quit

		case "j", "down":
			m.session.ScrollDown()
			return m, nil

		case "k", "up":
			m.session.ScrollUp()
			return m, nil

		case " ":
			m.session.PageDown(m.pageSize())
			return m, nil

		case "b":
			m.session.PageUp(m.pageSize())
			return m, nil

		case "l", "right":
			if err := m.session.NextChapter(); err != nil {
				m.errMsg = err.Error()
			}
			return m, nil

		case "h", "left":
			if err := m.session.PrevChapter(); err != nil {
				m.errMsg = err.Error()
			}
			return m, nil

		case "i":
			if h, ok := m.session.CurrentImage(); ok {
				if h.Available() {
					m.notice = fmt.Sprintf("image %d/%d saved to %s",
						m.session.ImageIndex()+1, len(m.session.Images()), h.Path)
				} else {
					m.notice = fmt.Sprintf("image %d/%d is unavailable",
						m.session.ImageIndex()+1, len(m.session.Images()))
				}
			} else {
				m.notice = "no images in this chapter"
			}
			return m, nil

		case "tab":
			m.session.CycleImage()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width / 3
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	header := titleStyle.Render(fmt.Sprintf("%s  [%d/%d]",
		m.session.ChapterTitle(),
		m.session.ChapterIndex()+1,
		m.session.ChapterCount(),
	))

	width := m.width - 2
	if width < 1 {
		width = 1
	}
	lines := content.Lines(m.session.Chapter(), width)

	avail := m.height - 3
	if avail < 1 {
		avail = 1
	}

	offset := m.session.ScrollOffset()
	if offset > len(lines) {
		offset = len(lines)
	}
	end := offset + avail
	if end > len(lines) {
		end = len(lines)
	}
	visible := lines[offset:end]

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	for _, line := range visible {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	for i := len(visible); i < avail; i++ {
		sb.WriteString("\n")
	}

	sb.WriteString(m.footer())

	return sb.String()
}

func (m model) footer() string {
	status := statusStyle.Render(fmt.Sprintf("%s %.1f%% | line %d",
		m.progress.ViewAs(m.session.Progress()),
		m.session.Progress()*100.0,
		m.session.ScrollOffset(),
	))

	switch {
	case m.errMsg != "":
		status = errorStyle.Render("error: " + m.errMsg)
	case m.notice != "":
		status = imageStyle.Render(m.notice)
	}

	controls := controlsStyle.Render("j/k: scroll  SPACE/b: page  h/l: chapter  i: image  TAB: next image  Q: quit")
	return status + "\n" + controls
}

func (m model) pageSize() int {
	size := m.height / 2
	if size < 1 {
		size = 1
	}
	return size
}

func (m *model) savePosition() {
	if m.store == nil || m.hash == "" {
		return
	}
	m.store.SetPosition(m.hash, state.Position{
		ChapterIndex: m.session.ChapterIndex(),
		ScrollOffset: m.session.ScrollOffset(),
	})
}

func main() {
	chapter := flag.Int("chapter", -1, "Start at specific chapter (0-indexed)")
	fresh := flag.Bool("fresh", false, "Ignore saved reading position")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Creb - Terminal E-Book Reader\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  creb [options] <file>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSupported formats:\n")
		for _, f := range book.SupportedFormats() {
			fmt.Fprintf(os.Stderr, "  %s\n", f)
		}
		fmt.Fprintf(os.Stderr, "  plain text (anything else)\n")
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  j/k, ↑/↓     Scroll up/down\n")
		fmt.Fprintf(os.Stderr, "  SPACE/b      Page down/up\n")
		fmt.Fprintf(os.Stderr, "  h/l, ←/→     Previous/next chapter\n")
		fmt.Fprintf(os.Stderr, "  i            Show current image\n")
		fmt.Fprintf(os.Stderr, "  TAB          Select next image\n")
		fmt.Fprintf(os.Stderr, "  q            Quit\n")
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
	saved := state.Position{}
	if store != nil {
		if h, err := state.ComputeHash(filename); err == nil {
			hash = h
			if !*fresh {
				saved = store.GetPosition(hash)
			}
		}
	}

	start := 0
	if *chapter >= 0 {
		start = *chapter
	} else if !*fresh {
		start = saved.ChapterIndex
		if start >= src.ChapterCount() {
			// The book changed since the position was saved.
			start = 0
		}
	}

	sess, err := session.New(src, start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	if *chapter < 0 && !*fresh && start == saved.ChapterIndex {
		sess.SetScrollOffset(saved.ScrollOffset)
	}

	m := model{
		session:  sess,
		store:    store,
		hash:     hash,
		progress: progress.New(progress.WithDefaultGradient()),
		width:    80,
		height:   24,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
