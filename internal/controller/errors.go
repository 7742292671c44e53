package controller

import "errors"

var (
	// ErrEmptyPlaylist is returned by transport operations that need a track.
	ErrEmptyPlaylist = errors.New("playlist is empty")
	// ErrOutOfRange is returned when a track index is outside the playlist.
	ErrOutOfRange = errors.New("track index out of range")
	// ErrPlaybackFailed wraps a Media Output load or play failure.
	ErrPlaybackFailed = errors.New("playback failed")
)

// User-facing notification texts.
const (
	MsgAddSongsFirst  = "Add some songs first!"
	MsgNoAudioFiles   = "No audio files found"
	MsgPlaybackFailed = "Playback failed. Please try another song."
	MsgShuffled       = "Playlist shuffled"
	MsgOrderRestored  = "Playlist order restored"
	MsgRepeatOn       = "Repeat: ON"
	MsgRepeatOff      = "Repeat: OFF"
	MsgCleared        = "Playlist cleared"
)
