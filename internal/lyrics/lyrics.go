// Package lyrics finds lyrics stored next to an audio file.
package lyrics

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Placeholder is shown when a track has no lyrics file.
const Placeholder = "Lyrics for this song are not available.\n\n" +
	"Place a .lrc or .txt file with the same name next to the audio file to see its lyrics here."

var (
	timestampRe = regexp.MustCompile(`\[\d{1,3}:\d{2}(?:[.:]\d{1,3})?\]`)
	tagLineRe   = regexp.MustCompile(`^\[[a-zA-Z]+:.*\]$`)
)

var sidecarExts = []string{".lrc", ".txt"}

// ForTrack returns the lyrics stored beside the audio file at path, or
// Placeholder and false when there are none.
func ForTrack(path string) (string, bool) {
	if path == "" {
		return Placeholder, false
	}
	base := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range sidecarExts {
		text, err := readFile(base + ext)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		return text, true
	}
	return Placeholder, false
}

func readFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.EqualFold(filepath.Ext(path), ".lrc") {
			var keep bool
			if line, keep = stripLRC(line); !keep {
				continue
			}
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// stripLRC removes time tags from an LRC line. ID tag lines such as
// [ar:Artist] are dropped.
func stripLRC(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if tagLineRe.MatchString(trimmed) && !timestampRe.MatchString(trimmed) {
		return "", false
	}
	return strings.TrimSpace(timestampRe.ReplaceAllString(trimmed, "")), true
}
