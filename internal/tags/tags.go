// Package tags reads display metadata (title, artist, album, cover art) from
// audio files.
package tags

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
)

// ErrNoTags is returned when a file carries no usable title, artist, album or picture.
var ErrNoTags = errors.New("no usable tags")

// Metadata holds song information read from tags.
type Metadata struct {
	Title     string
	Artist    string
	Album     string
	Cover     []byte
	CoverMIME string
}

// IsEmpty reports whether no field was found.
func (m Metadata) IsEmpty() bool {
	return m.Title == "" && m.Artist == "" && m.Album == "" && len(m.Cover) == 0
}

// Read reads tags from the file at path. MP3 files go through the ID3v2
// reader; everything else through the generic tag reader.
func Read(path string) (Metadata, error) {
	var (
		m   Metadata
		err error
	)
	if strings.ToLower(filepath.Ext(path)) == ".mp3" {
		m, err = readID3(path)
	} else {
		m, err = readGeneric(path)
	}
	if err != nil {
		return Metadata{}, err
	}
	if m.IsEmpty() {
		return Metadata{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoTags)
	}
	return m, nil
}

func readID3(path string) (Metadata, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return Metadata{}, fmt.Errorf("reading id3 tags: %w", err)
	}
	defer t.Close()

	m := Metadata{
		Title:  strings.TrimSpace(t.Title()),
		Artist: strings.TrimSpace(t.Artist()),
		Album:  strings.TrimSpace(t.Album()),
	}
	for _, f := range t.GetFrames(t.CommonID("Attached picture")) {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok || len(pic.Picture) == 0 {
			continue
		}
		m.Cover = pic.Picture
		m.CoverMIME = pic.MimeType
		if pic.PictureType == id3v2.PTFrontCover {
			break
		}
	}
	return m, nil
}

func readGeneric(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()

	md, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return Metadata{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoTags)
		}
		return Metadata{}, fmt.Errorf("reading tags: %w", err)
	}

	m := Metadata{
		Title:  strings.TrimSpace(md.Title()),
		Artist: strings.TrimSpace(md.Artist()),
		Album:  strings.TrimSpace(md.Album()),
	}
	if pic := md.Picture(); pic != nil && len(pic.Data) > 0 {
		m.Cover = pic.Data
		m.CoverMIME = pic.MIMEType
	}
	return m, nil
}
