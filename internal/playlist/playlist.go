package playlist

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/kamesh14151/nexus/internal/media"
)

const (
	DefaultArtist = "Unknown Artist"
	DefaultAlbum  = "Unknown Album"
)

// Track represents a single item in the playlist.
type Track struct {
	ID        string
	Name      string
	Artist    string
	Album     string
	Path      string
	Cover     []byte
	CoverMIME string
	Duration  time.Duration // zero until the output reports it

	MetadataRequested bool
}

// NewTrack creates a Track for the audio file at path, named after the file.
func NewTrack(path string) Track {
	return Track{
		ID:     uuid.NewString(),
		Name:   media.TrackName(path),
		Artist: DefaultArtist,
		Album:  DefaultAlbum,
		Path:   path,
	}
}

// Playlist is an ordered list of tracks with a current position and a
// restorable pre-shuffle order. It is only mutated from Bubbletea's
// single-threaded Update loop.
type Playlist struct {
	tracks   []*Track
	current  int
	shuffled bool
	snapshot []*Track // order captured when shuffle was enabled
	rng      *rand.Rand
}

// New creates an empty Playlist. A nil rng uses a time-seeded source.
func New(rng *rand.Rand) *Playlist {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Playlist{rng: rng}
}

// Len returns the total number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// IsEmpty reports whether the playlist has no tracks.
func (p *Playlist) IsEmpty() bool {
	return len(p.tracks) == 0
}

// Append adds tracks at the end, in order.
func (p *Playlist) Append(tracks ...Track) {
	for i := range tracks {
		t := tracks[i]
		p.tracks = append(p.tracks, &t)
	}
}

// Current returns the track at the current index, or nil if empty.
func (p *Playlist) Current() *Track {
	return p.Track(p.current)
}

// CurrentIndex returns the zero-based index of the current track.
func (p *Playlist) CurrentIndex() int {
	return p.current
}

// SetCurrentIndex moves the current position. Returns false if i is out of range.
func (p *Playlist) SetCurrentIndex(i int) bool {
	if i < 0 || i >= len(p.tracks) {
		return false
	}
	p.current = i
	return true
}

// Track returns the track at the given index, or nil if out of range.
func (p *Playlist) Track(i int) *Track {
	if i < 0 || i >= len(p.tracks) {
		return nil
	}
	return p.tracks[i]
}

// Find returns the track with the given ID and its index, or nil and -1.
func (p *Playlist) Find(id string) (*Track, int) {
	for i, t := range p.tracks {
		if t.ID == id {
			return t, i
		}
	}
	return nil, -1
}

// Tracks returns a copy of the tracks in presentation order.
func (p *Playlist) Tracks() []Track {
	out := make([]Track, len(p.tracks))
	for i, t := range p.tracks {
		out[i] = *t
	}
	return out
}

// Clear removes every track and drops any shuffle state.
func (p *Playlist) Clear() {
	p.tracks = nil
	p.current = 0
	p.shuffled = false
	p.snapshot = nil
}

// IsShuffled returns whether shuffle mode is active.
func (p *Playlist) IsShuffled() bool {
	return p.shuffled
}

// ToggleShuffle flips shuffle mode. It returns the new state and, when
// turning shuffle off, whether a captured order was put back.
//
// Enabling captures the current order and permutes the tracks in place.
// Disabling puts back the captured order verbatim, so tracks appended while
// shuffled are not part of the restored list. The current index is kept as a
// position and does not follow its track.
func (p *Playlist) ToggleShuffle() (shuffled, restored bool) {
	p.shuffled = !p.shuffled
	if p.shuffled {
		p.snapshot = append([]*Track(nil), p.tracks...)
		p.shuffle()
		return true, false
	}
	if len(p.snapshot) > 0 {
		p.tracks = append([]*Track(nil), p.snapshot...)
		if p.current >= len(p.tracks) {
			p.current = len(p.tracks) - 1
		}
		restored = true
	}
	p.snapshot = nil
	return false, restored
}

// shuffle is an unbiased Fisher-Yates permutation of the tracks.
func (p *Playlist) shuffle() {
	for i := len(p.tracks) - 1; i > 0; i-- {
		j := p.rng.Intn(i + 1)
		p.tracks[i], p.tracks[j] = p.tracks[j], p.tracks[i]
	}
}
