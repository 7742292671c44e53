package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamesh14151/nexus/internal/controller"
	"github.com/kamesh14151/nexus/internal/playlist"
	"github.com/kamesh14151/nexus/internal/tags"
	"github.com/kamesh14151/nexus/internal/visualizer"
)

const appTitle = "Nexus Player"

// Compile-time checks that surface can be handed to the controller.
var (
	_ controller.Display        = (*surface)(nil)
	_ controller.MetadataSource = (*surface)(nil)
)

// surface records what the controller asked to show and queues the
// commands that follow from it. It is shared by every copy of Model and
// touched only from the Update goroutine.
type surface struct {
	rows      []controller.Row
	now       *playlist.Track
	transport controller.TransportState
	progress  controller.Progress
	volume    float64
	tier      controller.VolumeTier
	toast     toast
	lastToast int64
	bars      []visualizer.Bar
	cover     coverCache

	waiting  <-chan struct{} // done channel currently waited on
	readTags func(string) (tags.Metadata, error)
	pending  []tea.Cmd
	title    string // window title, sent on the next drain when set
}

func newSurface(readTags func(string) (tags.Metadata, error)) *surface {
	if readTags == nil {
		readTags = tags.Read
	}
	return &surface{readTags: readTags, title: appTitle}
}

func (s *surface) queue(cmd tea.Cmd) {
	s.pending = append(s.pending, cmd)
}

// drain returns and forgets the queued commands. Only the latest window
// title is sent.
func (s *surface) drain() tea.Cmd {
	if s.title != "" {
		s.pending = append(s.pending, tea.SetWindowTitle(s.title))
		s.title = ""
	}
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

func (s *surface) RenderPlaylist(rows []controller.Row) {
	s.rows = rows
}

func (s *surface) RenderNowPlaying(t *playlist.Track) {
	if t == nil {
		s.now = nil
		s.title = appTitle
		return
	}
	cp := *t
	s.now = &cp
	s.title = windowTitle(cp.Name)
}

func (s *surface) RenderTransport(st controller.TransportState) {
	s.transport = st
}

func (s *surface) RenderProgress(p controller.Progress) {
	s.progress = p
}

func (s *surface) RenderVolume(v float64, tier controller.VolumeTier) {
	s.volume = v
	s.tier = tier
}

func (s *surface) Notify(msg string) {
	s.lastToast++
	s.toast = toast{id: s.lastToast, text: msg}
	s.queue(toastStepCmd(s.lastToast))
}

func (s *surface) RequestMetadata(trackID, path string) {
	s.queue(readTagsCmd(s.readTags, trackID, path))
}

// advanceToast moves the toast with the given id one step; it returns the
// next step command while the toast is still showing.
func (s *surface) advanceToast(id int64) tea.Cmd {
	if id != s.toast.id || !s.toast.active() {
		return nil
	}
	s.toast.step++
	if !s.toast.active() {
		s.toast = toast{}
		return nil
	}
	return toastStepCmd(id)
}

func windowTitle(name string) string {
	return name + " - " + appTitle
}
