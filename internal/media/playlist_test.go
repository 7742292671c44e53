package media

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseLocalPlaylistM3U(t *testing.T) {
	dir := t.TempDir()
	playlist := filepath.Join(dir, "list.m3u")
	content := "\uFEFF#EXTM3U\n\nsong1.mp3\n#comment\n\"https://example.com/stream\"\n\"sub/song2.wav\"\n"
	if err := os.WriteFile(playlist, []byte(content), 0o644); err != nil {
		t.Fatalf("write playlist: %v", err)
	}

	got, err := ParseLocalPlaylist(playlist)
	if err != nil {
		t.Fatalf("ParseLocalPlaylist() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "song1.mp3"),
		filepath.Join(dir, "sub", "song2.wav"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseLocalPlaylist() = %#v, want %#v", got, want)
	}
}

func TestParseLocalPlaylistPLS(t *testing.T) {
	dir := t.TempDir()
	playlist := filepath.Join(dir, "list.pls")
	content := "[playlist]\n file1 = one.flac \nTitle1=One\nLength1=120\nFile2=https://example.com/live\nFileX=bad.mp3\nFile3=\nFile4=/abs/two.ogg\n"
	if err := os.WriteFile(playlist, []byte(content), 0o644); err != nil {
		t.Fatalf("write playlist: %v", err)
	}

	got, err := ParseLocalPlaylist(playlist)
	if err != nil {
		t.Fatalf("ParseLocalPlaylist() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "one.flac"),
		filepath.Clean("/abs/two.ogg"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseLocalPlaylist() = %#v, want %#v", got, want)
	}
}

func TestParseLocalPlaylistRejectsOtherExtensions(t *testing.T) {
	if _, err := ParseLocalPlaylist("songs.txt"); err == nil {
		t.Fatal("expected error for non-playlist extension")
	}
}

func TestFilterPlayableLocalPaths(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "ok.mp3")
	validFLAC := writeFile(t, dir, "chapter.flac")
	unsupported := writeFile(t, dir, "nope.txt")
	subdir := filepath.Join(dir, "folder.mp3")
	if err := os.Mkdir(subdir, 0o755); err != nil {
		t.Fatalf("create dir: %v", err)
	}

	got := FilterPlayableLocalPaths([]string{
		valid,
		validFLAC,
		filepath.Join(dir, "missing.mp3"),
		unsupported,
		subdir,
	})
	want := []string{valid, validFLAC}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterPlayableLocalPaths() = %#v, want %#v", got, want)
	}
}

func TestExpandPathsMixesDirectoriesPlaylistsAndFiles(t *testing.T) {
	dir := t.TempDir()
	albumDir := filepath.Join(dir, "album")
	if err := os.Mkdir(albumDir, 0o755); err != nil {
		t.Fatalf("create album dir: %v", err)
	}
	b := writeFile(t, albumDir, "b.mp3")
	a := writeFile(t, albumDir, "A.ogg")
	writeFile(t, albumDir, "cover.jpg")

	single := writeFile(t, dir, "single.wav")
	notes := writeFile(t, dir, "notes.txt")

	listed := writeFile(t, dir, "listed.flac")
	playlist := filepath.Join(dir, "mix.m3u8")
	if err := os.WriteFile(playlist, []byte("listed.flac\nmissing.mp3\n"), 0o644); err != nil {
		t.Fatalf("write playlist: %v", err)
	}

	got, err := ExpandPaths([]string{albumDir, single, playlist, notes})
	if err != nil {
		t.Fatalf("ExpandPaths() error = %v", err)
	}
	want := []string{a, b, single, listed, notes}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExpandPaths() = %#v, want %#v", got, want)
	}
}

func TestExpandPathsMissingArgument(t *testing.T) {
	if _, err := ExpandPaths([]string{filepath.Join(t.TempDir(), "gone.mp3")}); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
