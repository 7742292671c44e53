package ui

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamesh14151/nexus/internal/theme"
)

func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func testBrowser(t *testing.T, dir string) browser {
	t.Helper()
	return newBrowser(dir, newStyles(theme.Default()), 80, 30)
}

func titles(b browser) []string {
	var out []string
	for _, it := range b.list.Items() {
		switch v := it.(type) {
		case dirItem:
			out = append(out, v.name+"/")
		case fileItem:
			out = append(out, v.name)
		}
	}
	return out
}

func TestBrowserListsDirsThenAudioFiles(t *testing.T) {
	root := makeTree(t, "b.mp3", "A.flac", "list.m3u", "notes.txt", ".hidden.mp3", "Zeta/x.mp3", "alpha/y.ogg")

	b := testBrowser(t, root)
	want := []string{"alpha/", "Zeta/", "A.flac", "b.mp3", "list.m3u"}
	if got := titles(b); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBrowserEnterOpensDirectoryAndBackspaceReturns(t *testing.T) {
	root := makeTree(t, "sub/song.mp3", "top.mp3")
	b := testBrowser(t, root)

	b, cmd := b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("opening a directory should not emit a command")
	}
	if b.dir != filepath.Join(root, "sub") {
		t.Fatalf("expected to be in sub, got %q", b.dir)
	}
	if got := titles(b); !reflect.DeepEqual(got, []string{"song.mp3"}) {
		t.Fatalf("unexpected listing %v", got)
	}

	b, _ = b.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if b.dir != root {
		t.Fatalf("expected to be back in %q, got %q", root, b.dir)
	}
}

func TestBrowserEnterOnFileImportsIt(t *testing.T) {
	root := makeTree(t, "song.mp3")
	b := testBrowser(t, root)

	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected import command")
	}
	msg, ok := cmd().(browserImportMsg)
	if !ok {
		t.Fatalf("expected browserImportMsg, got %T", cmd())
	}
	if want := []string{filepath.Join(root, "song.mp3")}; !reflect.DeepEqual(msg.paths, want) {
		t.Fatalf("expected %v, got %v", want, msg.paths)
	}
}

func TestBrowserImportsMarkedEntries(t *testing.T) {
	root := makeTree(t, "album/one.mp3", "a.mp3", "b.mp3")
	b := testBrowser(t, root)

	// album/, a.mp3, b.mp3: mark album and b.mp3
	b, _ = b.Update(tea.KeyMsg{Type: tea.KeySpace})
	b, _ = b.Update(tea.KeyMsg{Type: tea.KeyDown})
	b, _ = b.Update(tea.KeyMsg{Type: tea.KeyDown})
	b, _ = b.Update(tea.KeyMsg{Type: tea.KeySpace})

	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected import command")
	}
	msg := cmd().(browserImportMsg)
	want := []string{filepath.Join(root, "album"), filepath.Join(root, "b.mp3")}
	if !reflect.DeepEqual(msg.paths, want) {
		t.Fatalf("expected %v, got %v", want, msg.paths)
	}
}

func TestBrowserEscCloses(t *testing.T) {
	b := testBrowser(t, makeTree(t, "a.mp3"))

	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected close command")
	}
	if _, ok := cmd().(browserClosedMsg); !ok {
		t.Fatalf("expected browserClosedMsg, got %T", cmd())
	}
}

func TestBrowserUnreadableDirectoryShowsError(t *testing.T) {
	b := testBrowser(t, filepath.Join(t.TempDir(), "missing"))
	if b.err == nil {
		t.Fatal("expected error for missing directory")
	}
	if b.View() == "" {
		t.Fatal("expected error text in view")
	}
}

func TestOpenBrowserFromModel(t *testing.T) {
	root := makeTree(t, "a.mp3")
	out := &fakeOutput{}
	m := newTestModel(t, out)
	m.startDir = root

	m = update(t, m, keyMsg("a"))
	if !m.browsing {
		t.Fatal("expected browser open")
	}
	if m.browser.dir != root {
		t.Fatalf("expected browser in %q, got %q", root, m.browser.dir)
	}

	m = update(t, m, browserClosedMsg{})
	if m.browsing {
		t.Fatal("expected browser closed")
	}
}
