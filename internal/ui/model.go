package ui

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamesh14151/nexus/internal/controller"
	"github.com/kamesh14151/nexus/internal/lyrics"
	"github.com/kamesh14151/nexus/internal/media"
	"github.com/kamesh14151/nexus/internal/prefs"
	"github.com/kamesh14151/nexus/internal/tags"
	"github.com/kamesh14151/nexus/internal/theme"
	"github.com/kamesh14151/nexus/internal/visualizer"
)

const defaultUnmuteVolume = 0.8

// Output is the media output the UI drives: the controller's view of it
// plus the end-of-track channel.
type Output interface {
	controller.MediaOutput
	Done() <-chan struct{}
}

// Options configures a Model.
type Options struct {
	Output   Output
	Tap      visualizer.Analyser
	Prefs    prefs.Store // optional
	Theme    theme.Palette
	Volume   float64
	Bars     int
	FPS      int
	MusicDir string
	Initial  []string // imported on start
	Logger   *slog.Logger
	ReadTags func(path string) (tags.Metadata, error) // defaults to tags.Read
}

// Model is the Bubbletea model for the nexus TUI.
type Model struct {
	ctrl    *controller.Controller
	out     Output
	surf    *surface
	sampler *visualizer.Sampler
	prefs   prefs.Store
	log     *slog.Logger
	styles  styles

	startDir   string
	width      int
	height     int
	cursor     int
	offset     int
	lastCur    int
	unmuteVol  float64
	confirming bool
	browsing   bool
	browser    browser
	showLyrics bool
	lyrics     viewport.Model
	lyricsFor  string
	quitting   bool
}

// New creates the model and imports opts.Initial.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	palette := opts.Theme
	if palette.Name == "" {
		palette = theme.Default()
	}

	surf := newSurface(opts.ReadTags)
	ctrl := controller.New(opts.Output, surf, controller.Options{
		Metadata: surf,
		Logger:   logger,
		Volume:   opts.Volume,
	})
	sampler := visualizer.NewSampler(opts.Tap, opts.Bars, opts.FPS)
	surf.bars = sampler.Idle()

	m := Model{
		ctrl:      ctrl,
		out:       opts.Output,
		surf:      surf,
		sampler:   sampler,
		prefs:     opts.Prefs,
		log:       logger,
		styles:    newStyles(palette),
		startDir:  opts.MusicDir,
		unmuteVol: defaultUnmuteVolume,
		lyrics:    viewport.New(60, 10),
		lastCur:   -1,
	}
	ctrl.SetVolume(opts.Volume)
	surf.RenderTransport(ctrl.State())
	ctrl.OnTimeUpdate()
	if len(opts.Initial) > 0 {
		ctrl.ImportTracks(opts.Initial)
	}
	return m
}

// Controller exposes the playback controller.
func (m Model) Controller() *controller.Controller {
	return m.ctrl
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.sync())
}

// sync drains the commands queued by the controller, re-arms the
// end-of-track wait when a new track was loaded and starts or stops the
// visualizer to follow the transport state.
func (m *Model) sync() tea.Cmd {
	cmds := []tea.Cmd{m.surf.drain()}

	if done := m.out.Done(); done != nil && done != m.surf.waiting {
		m.surf.waiting = done
		cmds = append(cmds, waitDone(done))
	}

	playing := m.surf.transport.Playing
	switch {
	case playing && !m.sampler.Running():
		gen := m.sampler.Start()
		cmds = append(cmds, frameCmd(gen, m.sampler.Interval()))
	case !playing && m.sampler.Running():
		m.sampler.Stop()
		m.surf.bars = m.sampler.Idle()
	}

	if cur := m.surf.transport.CurrentIndex; cur != m.lastCur {
		m.lastCur = cur
		m.cursor = cur
	}
	m.clampCursor()

	if m.showLyrics {
		m.refreshLyrics()
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.handle(msg)
	if m.quitting {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.sync())
}

func (m *Model) handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.lyrics.Width = max(msg.Width-6, 20)
		m.lyrics.Height = max(msg.Height-lyricsChrome, 3)
		if m.browsing {
			m.browser, _ = m.browser.Update(tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 1})
		}
		return nil

	case tickMsg:
		if m.ctrl.Len() > 0 {
			m.ctrl.OnTimeUpdate()
		}
		return tickCmd()

	case trackEndedMsg:
		if msg.done != m.out.Done() {
			return nil // track was replaced meanwhile
		}
		m.surf.waiting = nil
		if err := m.ctrl.OnMediaEnded(); err != nil {
			m.log.Debug("advance after end failed", "error", err)
		}
		return nil

	case frameMsg:
		if !m.sampler.Current(msg.gen) {
			return nil
		}
		m.surf.bars = m.sampler.Sample()
		return frameCmd(msg.gen, m.sampler.Interval())

	case toastStepMsg:
		return m.surf.advanceToast(msg.id)

	case metadataMsg:
		m.ctrl.ApplyMetadata(msg.result)
		return nil

	case browserImportMsg:
		m.browsing = false
		m.importPaths(msg.paths)
		return nil

	case browserClosedMsg:
		m.browsing = false
		return nil
	}

	if m.browsing {
		var cmd tea.Cmd
		m.browser, cmd = m.browser.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	if m.browsing {
		var cmd tea.Cmd
		m.browser, cmd = m.browser.Update(msg)
		return cmd
	}
	if m.confirming {
		switch msg.String() {
		case "y", "Y", "enter":
			m.confirming = false
			m.ctrl.ClearPlaylist()
		case "n", "N", "esc", "q":
			m.confirming = false
		}
		return nil
	}
	if m.showLyrics {
		switch msg.String() {
		case "l", "esc":
			m.showLyrics = false
			return nil
		case "up", "down", "k", "j", "pgup", "pgdown":
			var cmd tea.Cmd
			m.lyrics, cmd = m.lyrics.Update(msg)
			return cmd
		}
	}
	if isQuit(msg) {
		return m.quit()
	}

	switch msg.String() {
	case " ":
		m.logErr("play/pause", m.ctrl.TogglePlayPause())
	case "n":
		m.logErr("next", m.ctrl.Next())
	case "p":
		m.logErr("previous", m.ctrl.Previous())
	case "s":
		m.ctrl.ToggleShuffle()
	case "r":
		m.ctrl.ToggleRepeat()
	case "left":
		m.ctrl.SeekBy(-seekStep * time.Second)
	case "right":
		m.ctrl.SeekBy(seekStep * time.Second)
	case "+", "=":
		m.ctrl.SetVolume(m.ctrl.Volume() + volumeStep)
	case "-", "_":
		m.ctrl.SetVolume(m.ctrl.Volume() - volumeStep)
	case "m":
		m.toggleMute()
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "home", "g":
		m.moveCursor(-m.ctrl.Len())
	case "end", "G":
		m.moveCursor(m.ctrl.Len())
	case "enter":
		if m.ctrl.Len() > 0 {
			m.logErr("play", m.ctrl.Play(m.cursor))
		}
	case "a":
		m.openBrowser()
	case "c":
		if m.ctrl.Len() > 0 {
			m.confirming = true
		}
	case "l":
		m.showLyrics = true
		m.lyricsFor = "\x00" // force reload
		m.refreshLyrics()
	case "t":
		m.cycleTheme()
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.sampler.Stop()
	return tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

func (m *Model) logErr(op string, err error) {
	if err != nil {
		m.log.Debug(op+" rejected", "error", err)
	}
}

func (m *Model) toggleMute() {
	if v := m.ctrl.Volume(); v > 0 {
		m.unmuteVol = v
		m.ctrl.SetVolume(0)
		return
	}
	m.ctrl.SetVolume(m.unmuteVol)
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := m.ctrl.Len()
	m.cursor = max(0, min(m.cursor, n-1))
	if n == 0 {
		m.offset = 0
		return
	}
	visible := m.playlistRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	m.offset = max(0, min(m.offset, n-visible))
}

func (m *Model) openBrowser() {
	dir := m.startDir
	if dir == "" {
		dir = "."
	}
	m.browser = newBrowser(dir, m.styles, m.viewWidth(), m.viewHeight()-1)
	m.browsing = true
}

// importPaths expands directories and playlists, then hands the files to
// the controller.
func (m *Model) importPaths(paths []string) {
	files, err := media.ExpandPaths(paths)
	if err != nil {
		m.log.Warn("expanding selection failed", "error", err)
		m.surf.Notify(controller.MsgNoAudioFiles)
		return
	}
	if len(files) == 0 {
		m.surf.Notify(controller.MsgNoAudioFiles)
		return
	}
	m.ctrl.ImportTracks(files)
}

func (m *Model) cycleTheme() {
	next := theme.Next(m.styles.palette.Name)
	m.styles = newStyles(next)
	if m.prefs == nil {
		return
	}
	if err := m.prefs.SetTheme(next.Name); err != nil {
		m.log.Warn("saving theme failed", "theme", next.Name, "error", err)
	}
}

func (m *Model) refreshLyrics() {
	path := ""
	if m.surf.now != nil {
		path = m.surf.now.Path
	}
	if path == m.lyricsFor {
		return
	}
	m.lyricsFor = path
	text, _ := lyrics.ForTrack(path)
	m.lyrics.SetContent(text)
	m.lyrics.GotoTop()
}

// handleMouse seeks on a progress bar click, plays a clicked playlist row
// and scrolls the playlist with the wheel.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.browsing || m.confirming || m.showLyrics {
		return
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveCursor(-1)
		return
	case tea.MouseButtonWheelDown:
		m.moveCursor(1)
		return
	case tea.MouseButtonLeft:
	default:
		return
	}
	if msg.Action != tea.MouseActionPress {
		return
	}

	lay := m.layout()
	switch {
	case msg.Y == lay.progressY && msg.X >= lay.barX && msg.X < lay.barX+lay.barWidth:
		m.ctrl.SeekTo(float64(msg.X-lay.barX) / float64(lay.barWidth))
	case msg.Y >= lay.listY && msg.Y < lay.listY+lay.listRows:
		idx := m.offset + msg.Y - lay.listY
		if idx < m.ctrl.Len() {
			m.cursor = idx
			m.logErr("play", m.ctrl.Play(idx))
		}
	}
}
