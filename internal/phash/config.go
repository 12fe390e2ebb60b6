package phash

import (
	"errors"
	"fmt"
)

const (
	// DefaultResolution is the hash width and height in cells.
	DefaultResolution = 10
	// MaxResolution keeps a hash at or below 1<<20 bits. In DCT mode each
	// worker then holds at most a 2048x2048 grayscale grid and a 1024x2048
	// basis table.
	MaxResolution = 1024
)

var ErrInvalidResolution = errors.New("invalid hash resolution")

// Config is the run-scoped hash configuration. Hashes built from different
// configs are never equal.
type Config struct {
	Resolution uint32
	DCT        bool
}

func DefaultConfig() Config {
	return Config{Resolution: DefaultResolution, DCT: true}
}

func (c Config) Validate() error {
	if c.Resolution == 0 || c.Resolution > MaxResolution {
		return fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidResolution, c.Resolution, MaxResolution)
	}
	return nil
}

// Bits returns the length of hashes produced with this config.
func (c Config) Bits() int {
	return int(c.Resolution) * int(c.Resolution)
}

func (c Config) String() string {
	mode := "mean"
	if c.DCT {
		mode = "dct"
	}
	return fmt.Sprintf("%s/%d", mode, c.Resolution)
}

// NewHasher builds a Hasher for the config. The config is validated first.
func (c Config) NewHasher() (*Hasher, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	r := int(c.Resolution)
	h := &Hasher{config: c, size: r}
	if c.DCT {
		h.size = 2 * r
		h.basis = dctBasis(r, h.size)
		h.rows = make([][]float64, h.size)
		for i := range h.rows {
			h.rows[i] = make([]float64, r)
		}
	}
	h.cells = make([]float64, c.Bits())
	return h, nil
}
