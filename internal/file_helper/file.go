package file_helper

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/spf13/afero"
)

// headerSize is the number of leading bytes filetype needs to match every
// format it knows.
const headerSize = 261

// ListCandidates returns the regular files directly inside dir. Symlinks are
// followed, so a link to a file is kept and a link to a directory is not.
func ListCandidates(fs afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		path := joinRaw(dir, entry.Name())
		mode := entry.Mode()
		if mode&os.ModeSymlink != 0 {
			info, err := fs.Stat(path)
			if err != nil {
				continue // dangling link
			}
			mode = info.Mode()
		}
		if mode.IsRegular() {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// joinRaw appends name to dir without cleaning, so reported paths keep the
// exact spelling of dir the user typed.
func joinRaw(dir, name string) string {
	if dir == "" {
		return name
	}
	if os.IsPathSeparator(dir[len(dir)-1]) {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}

// SniffImage matches the header of r against known image signatures.
func SniffImage(r io.Reader) (types.Type, bool) {
	head := make([]byte, headerSize)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return filetype.Unknown, false
	}

	kind, _ := filetype.Match(head[:n])
	if kind == filetype.Unknown || !filetype.IsImage(head[:n]) {
		return kind, false
	}
	return kind, true
}
