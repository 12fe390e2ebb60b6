package phash

import (
	"image"
	"math"

	"github.com/corona10/goimagehash"
	"github.com/corona10/goimagehash/etcs"
	"github.com/corona10/goimagehash/transforms"
	"github.com/nfnt/resize"
)

// Hasher computes perceptual hashes for a single Config.
//
// A Hasher keeps scratch buffers between calls and is not safe for
// concurrent use; give each goroutine its own.
type Hasher struct {
	config Config
	size   int // side of the downscaled grayscale grid

	basis [][]float64 // DCT-II rows for the kept coefficients, nil in spatial mode
	rows  [][]float64
	cells []float64
}

func (h *Hasher) Config() Config {
	return h.config
}

// Hash downscales img, optionally moves it into the frequency domain and sets
// one bit per cell whose value is above the mean of all cells.
func (h *Hasher) Hash(img image.Image) *Hash {
	resized := resize.Resize(uint(h.size), uint(h.size), img, resize.Lanczos3)
	pixels := transforms.Rgb2Gray(resized)

	if h.basis != nil {
		h.lowFrequencies(pixels)
	} else {
		r := int(h.config.Resolution)
		for y := 0; y < r; y++ {
			copy(h.cells[y*r:(y+1)*r], pixels[y])
		}
	}

	mean := etcs.MeanOfPixels(h.cells)
	words := make([]uint64, (len(h.cells)+63)/64)
	for i, v := range h.cells {
		if v > mean {
			words[i/64] |= 1 << uint(63-i%64)
		}
	}

	kind := goimagehash.AHash
	if h.config.DCT {
		kind = goimagehash.PHash
	}
	return newHash(h.config, goimagehash.NewExtImageHash(words, kind, len(h.cells)))
}

// lowFrequencies writes the top-left Resolution x Resolution block of the
// 2-D DCT of pixels into h.cells.
func (h *Hasher) lowFrequencies(pixels [][]float64) {
	r := int(h.config.Resolution)

	// DCT along x for every row, keeping only the first r coefficients.
	for y := 0; y < h.size; y++ {
		row := pixels[y]
		for v := 0; v < r; v++ {
			var sum float64
			for x, c := range h.basis[v] {
				sum += c * row[x]
			}
			h.rows[y][v] = sum
		}
	}

	// DCT along y over the partially transformed columns.
	for u := 0; u < r; u++ {
		for v := 0; v < r; v++ {
			var sum float64
			for y, c := range h.basis[u] {
				sum += c * h.rows[y][v]
			}
			h.cells[u*r+v] = sum
		}
	}
}

// dctBasis returns the first k rows of the orthonormal DCT-II matrix of size n.
func dctBasis(k, n int) [][]float64 {
	basis := make([][]float64, k)
	for u := range basis {
		scale := math.Sqrt(2 / float64(n))
		if u == 0 {
			scale = math.Sqrt(1 / float64(n))
		}
		basis[u] = make([]float64, n)
		for x := range basis[u] {
			basis[u][x] = scale * math.Cos(math.Pi*float64(2*x+1)*float64(u)/float64(2*n))
		}
	}
	return basis
}
