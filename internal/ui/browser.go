package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/kamesh14151/nexus/internal/media"
)

type dirItem struct {
	name   string
	path   string
	marked bool
}

func (i dirItem) Title() string       { return markPrefix(i.marked) + i.name + "/" }
func (i dirItem) Description() string { return "folder" }
func (i dirItem) FilterValue() string { return i.name }

type fileItem struct {
	name   string
	path   string
	size   int64
	marked bool
}

func (i fileItem) Title() string { return markPrefix(i.marked) + i.name }
func (i fileItem) Description() string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(i.name)), ".")
	return fmt.Sprintf("%s · %s", ext, humanize.IBytes(uint64(max(i.size, 0))))
}
func (i fileItem) FilterValue() string { return i.name }

func markPrefix(marked bool) string {
	if marked {
		return "[x] "
	}
	return "[ ] "
}

// browser is the embedded file picker. It lists sub-directories, audio
// files and playlists of one directory.
type browser struct {
	list list.Model
	dir  string
	err  error
}

func newBrowser(dir string, s styles, width, height int) browser {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color(s.palette.Text)).
		BorderLeftForeground(lipgloss.Color(s.palette.Accent))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color(s.palette.Muted)).
		BorderLeftForeground(lipgloss.Color(s.palette.Accent))

	l := list.New(nil, delegate, max(width, 20), max(height, 10))
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.header
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "mark")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add/open")),
			key.NewBinding(key.WithKeys("backspace"), key.WithHelp("bksp", "up")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		}
	}

	b := browser{list: l}
	b.load(dir)
	return b
}

// load replaces the listing with the contents of dir.
func (b *browser) load(dir string) {
	abs, err := filepath.Abs(dir)
	if err == nil {
		dir = abs
	}
	items, err := listDir(dir)
	if err != nil {
		b.err = fmt.Errorf("cannot read directory: %w", err)
		return
	}
	b.err = nil
	b.dir = dir
	b.list.Title = "Add songs · " + dir
	b.list.ResetFilter()
	b.list.SetItems(items)
	b.list.ResetSelected()
}

func listDir(dir string) ([]list.Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dirs, files []list.Item
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		if e.IsDir() {
			dirs = append(dirs, dirItem{name: name, path: path})
			continue
		}
		ext := filepath.Ext(name)
		if !media.IsSupportedExt(ext) && !media.IsPlaylistExt(ext) {
			continue
		}
		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		files = append(files, fileItem{name: name, path: path, size: size})
	}

	byName := func(items []list.Item) {
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].FilterValue()) < strings.ToLower(items[j].FilterValue())
		})
	}
	byName(dirs)
	byName(files)
	return append(dirs, files...), nil
}

// marked returns the paths of all marked entries in listing order.
func (b browser) marked() []string {
	return lo.FilterMap(b.list.Items(), func(it list.Item, _ int) (string, bool) {
		switch v := it.(type) {
		case dirItem:
			return v.path, v.marked
		case fileItem:
			return v.path, v.marked
		}
		return "", false
	})
}

func (b browser) Update(msg tea.Msg) (browser, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't intercept keys when filtering
		if b.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "esc":
			if b.list.FilterState() == list.FilterApplied {
				b.list.ResetFilter()
				return b, nil
			}
			return b, func() tea.Msg { return browserClosedMsg{} }
		case "backspace":
			b.load(filepath.Dir(b.dir))
			return b, nil
		case " ":
			b.toggleMark()
			return b, nil
		case "enter":
			return b.choose()
		}

	case tea.WindowSizeMsg:
		b.list.SetSize(msg.Width, msg.Height)
		return b, nil
	}

	var cmd tea.Cmd
	b.list, cmd = b.list.Update(msg)
	return b, cmd
}

func (b *browser) toggleMark() {
	idx := b.list.Index()
	switch it := b.list.SelectedItem().(type) {
	case dirItem:
		it.marked = !it.marked
		b.list.SetItem(idx, it)
	case fileItem:
		it.marked = !it.marked
		b.list.SetItem(idx, it)
	}
}

// choose imports the marked entries, or the highlighted file when none are
// marked. Enter on an unmarked directory opens it.
func (b browser) choose() (browser, tea.Cmd) {
	paths := b.marked()
	if len(paths) == 0 {
		switch it := b.list.SelectedItem().(type) {
		case dirItem:
			b.load(it.path)
			return b, nil
		case fileItem:
			paths = []string{it.path}
		}
	}
	if len(paths) == 0 {
		return b, nil
	}
	return b, func() tea.Msg { return browserImportMsg{paths: paths} }
}

func (b browser) View() string {
	if b.err != nil {
		return b.err.Error()
	}
	return b.list.View()
}
