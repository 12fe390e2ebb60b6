package scanner

import (
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/mattanapol/image_collision/internal/file_helper"
	"github.com/mattanapol/image_collision/internal/phash"
	"github.com/spf13/afero"
	_ "golang.org/x/image/webp" // imaging registers jpeg, png, gif, bmp and tiff
)

var (
	ErrNotImage   = errors.New("not a recognized image format")
	ErrEmptyImage = errors.New("image has no pixels")
)

// DecodeError reports a file that could not be opened, decoded or hashed.
// It only ever costs the scan that one file.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type Dimensions struct {
	Width  int
	Height int
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%d x %d", d.Width, d.Height)
}

// Item is one successfully hashed file.
type Item struct {
	Dimensions Dimensions
	Path       string
	Hash       *phash.Hash
}

// HashOne decodes the image at path and hashes the full decoded picture.
func HashOne(fs afero.Fs, h *phash.Hasher, path string) (Dimensions, *phash.Hash, error) {
	file, err := fs.Open(path)
	if err != nil {
		return Dimensions{}, nil, &DecodeError{Path: path, Err: err}
	}
	defer file.Close()

	if _, ok := file_helper.SniffImage(file); !ok {
		return Dimensions{}, nil, &DecodeError{Path: path, Err: ErrNotImage}
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return Dimensions{}, nil, &DecodeError{Path: path, Err: err}
	}

	img, err := imaging.Decode(file)
	if err != nil {
		return Dimensions{}, nil, &DecodeError{Path: path, Err: err}
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return Dimensions{}, nil, &DecodeError{Path: path, Err: ErrEmptyImage}
	}
	dims := Dimensions{Width: bounds.Dx(), Height: bounds.Dy()}
	return dims, h.Hash(img), nil
}
