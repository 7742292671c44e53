package media

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExpandPaths turns command-line arguments into an ordered list of file paths.
// Directories contribute their audio files sorted case-insensitively, playlist
// files contribute their playable entries, anything else is passed through so
// the caller can decide whether to accept it.
func ExpandPaths(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		switch {
		case info.IsDir():
			files, err := ScanAudioFiles(arg)
			if err != nil {
				return nil, err
			}
			out = append(out, files...)
		case IsPlaylistExt(filepath.Ext(arg)):
			entries, err := ParseLocalPlaylist(arg)
			if err != nil {
				return nil, err
			}
			out = append(out, FilterPlayableLocalPaths(entries)...)
		default:
			out = append(out, arg)
		}
	}
	return out, nil
}

// ScanAudioFiles returns the supported audio files directly inside dir,
// sorted alphabetically (case-insensitive).
func ScanAudioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if IsSupportedExt(filepath.Ext(e.Name())) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(files[i])) < strings.ToLower(filepath.Base(files[j]))
	})
	return files, nil
}
