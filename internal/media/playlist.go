package media

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// entryFunc extracts a file reference from one playlist line.
type entryFunc func(line string) (string, bool)

// ParseLocalPlaylist reads an .m3u, .m3u8 or .pls file and returns the local
// file paths it lists. Relative entries are resolved against the
// playlist's directory; URLs are skipped.
func ParseLocalPlaylist(path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsPlaylistExt(ext) {
		return nil, fmt.Errorf("unsupported playlist format %q", ext)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, errors.New("playlist is not valid UTF-8")
	}

	entry := m3uEntry
	if ext == ".pls" {
		entry = plsEntry
	}

	base := filepath.Dir(path)
	var out []string
	sc := bufio.NewScanner(strings.NewReader(strings.TrimPrefix(string(data), "\uFEFF")))
	for sc.Scan() {
		ref, ok := entry(strings.TrimSpace(sc.Text()))
		if !ok || ref == "" || strings.Contains(ref, "://") {
			continue
		}
		out = append(out, resolveEntry(ref, base))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}
	return out, nil
}

// m3uEntry accepts every non-empty line that is not a directive or comment.
func m3uEntry(line string) (string, bool) {
	if line == "" || line[0] == '#' {
		return "", false
	}
	return strings.Trim(line, `"`), true
}

// plsEntry accepts FileN=path lines, N being a number.
func plsEntry(line string) (string, bool) {
	key, val, ok := strings.Cut(line, "=")
	if !ok {
		return "", false
	}
	key = strings.TrimSpace(key)
	if len(key) <= 4 || !strings.EqualFold(key[:4], "file") {
		return "", false
	}
	if _, err := strconv.ParseUint(key[4:], 10, 32); err != nil {
		return "", false
	}
	return strings.TrimSpace(val), true
}

func resolveEntry(ref, base string) string {
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Join(base, ref)
}

// FilterPlayableLocalPaths keeps the paths that name existing regular files
// with a supported audio extension, made absolute.
func FilterPlayableLocalPaths(paths []string) []string {
	return lo.FilterMap(paths, func(p string, _ int) (string, bool) {
		if !IsSupportedExt(filepath.Ext(p)) {
			return "", false
		}
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			return "", false
		}
		if abs, err := filepath.Abs(p); err == nil {
			return abs, true
		}
		return p, true
	})
}
