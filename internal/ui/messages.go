package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamesh14151/nexus/internal/controller"
	"github.com/kamesh14151/nexus/internal/tags"
)

const (
	tickInterval = 250 * time.Millisecond
	toastStep    = 100 * time.Millisecond
)

type tickMsg time.Time

// trackEndedMsg reports that the done channel of a loaded track closed.
type trackEndedMsg struct {
	done <-chan struct{}
}

// frameMsg asks for the next visualizer frame of generation gen.
type frameMsg struct {
	gen uint64
}

type toastStepMsg struct {
	id int64
}

type metadataMsg struct {
	result controller.MetadataResult
}

// browserImportMsg carries the paths chosen in the file browser.
type browserImportMsg struct {
	paths []string
}

type browserClosedMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitDone(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return trackEndedMsg{done: done}
	}
}

func frameCmd(gen uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}

func toastStepCmd(id int64) tea.Cmd {
	return tea.Tick(toastStep, func(time.Time) tea.Msg {
		return toastStepMsg{id: id}
	})
}

// readTagsCmd reads tags off the UI goroutine.
func readTagsCmd(read func(string) (tags.Metadata, error), trackID, path string) tea.Cmd {
	return func() tea.Msg {
		md, err := read(path)
		return metadataMsg{result: controller.MetadataResult{
			TrackID:   trackID,
			Title:     md.Title,
			Artist:    md.Artist,
			Album:     md.Album,
			Cover:     md.Cover,
			CoverMIME: md.CoverMIME,
			Err:       err,
		}}
	}
}
