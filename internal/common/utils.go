package common

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/afero"
)

var ErrInvalidEncoding = errors.New("ignore list is not valid UTF-8")

// IgnoreSet holds paths to leave out of a scan. Matching is exact string
// equality: entries are not cleaned, resolved or treated as globs.
type IgnoreSet map[string]struct{}

// LoadIgnoreSet reads one path per line from filename.
func LoadIgnoreSet(fs afero.Fs, filename string) (IgnoreSet, error) {
	content, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, fmt.Errorf("reading ignore list: %w", err)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%s: %w", filename, ErrInvalidEncoding)
	}
	return ParseIgnoreSet(content), nil
}

// ParseIgnoreSet splits content into lines. bufio.ScanLines strips "\r\n"
// endings as well as "\n".
func ParseIgnoreSet(content []byte) IgnoreSet {
	set := make(IgnoreSet)
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), len(content)+1)
	for scanner.Scan() {
		set[scanner.Text()] = struct{}{}
	}
	return set
}

func (s IgnoreSet) Contains(path string) bool {
	_, ok := s[path]
	return ok
}

// Filter returns the paths not in s, keeping their order.
func (s IgnoreSet) Filter(paths []string) []string {
	kept := make([]string, 0, len(paths))
	for _, path := range paths {
		if !s.Contains(path) {
			kept = append(kept, path)
		}
	}
	return kept
}
