package media

import (
	"strings"
	"testing"
)

func TestIsAudioFile(t *testing.T) {
	for _, p := range []string{"a.mp3", "/x/B.FLAC", "c.wav", "d.ogg"} {
		if !IsAudioFile(p) {
			t.Fatalf("expected %s to be audio", p)
		}
	}
	for _, p := range []string{"notes.txt", "cover.jpg", "noext", "list.m3u"} {
		if IsAudioFile(p) {
			t.Fatalf("expected %s not to be audio", p)
		}
	}
}

func TestSupportedExtsListMatchesTable(t *testing.T) {
	list := SupportedExtsList()
	for ext := range audioExts {
		if !strings.Contains(list, ext) {
			t.Fatalf("expected supported ext list to include %s, got %q", ext, list)
		}
	}
}

func TestTrackNameStripsExtension(t *testing.T) {
	cases := map[string]string{
		"/music/Song One.mp3": "Song One",
		"track.final.flac":    "track.final",
		"plain":               "plain",
	}
	for in, want := range cases {
		if got := TrackName(in); got != want {
			t.Fatalf("TrackName(%q) = %q, want %q", in, got, want)
		}
	}
}
