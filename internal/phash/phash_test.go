package phash

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func fill(w, h int, f func(x, y int) uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := f(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 0xff})
		}
	}
	return img
}

func horizontalStep(w, h int) *image.NRGBA {
	return fill(w, h, func(x, _ int) uint8 {
		if x < w/2 {
			return 0
		}
		return 0xff
	})
}

func verticalStep(w, h int) *image.NRGBA {
	return fill(w, h, func(_, y int) uint8 {
		if y < h/2 {
			return 0
		}
		return 0xff
	})
}

func mustHasher(t *testing.T, c Config) *Hasher {
	t.Helper()
	h, err := c.NewHasher()
	if err != nil {
		t.Fatalf("NewHasher(%s): %v", c, err)
	}
	return h
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.Resolution != 10 || !c.DCT {
		t.Fatalf("DefaultConfig() = %+v, want resolution 10 with DCT", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadResolution(t *testing.T) {
	for _, r := range []uint32{0, MaxResolution + 1} {
		c := Config{Resolution: r}
		if err := c.Validate(); !errors.Is(err, ErrInvalidResolution) {
			t.Errorf("Validate(%d) = %v, want ErrInvalidResolution", r, err)
		}
		if _, err := c.NewHasher(); !errors.Is(err, ErrInvalidResolution) {
			t.Errorf("NewHasher(%d) = %v, want ErrInvalidResolution", r, err)
		}
	}
}

func TestLargeResolutionsAccepted(t *testing.T) {
	for _, r := range []uint32{65, 128, MaxResolution} {
		if err := (Config{Resolution: r, DCT: true}).Validate(); err != nil {
			t.Errorf("Validate(%d) = %v", r, err)
		}
	}
	for _, c := range []Config{{Resolution: 65}, {Resolution: 128, DCT: true}} {
		got := mustHasher(t, c).Hash(horizontalStep(300, 300))
		if got.Bits() != c.Bits() {
			t.Errorf("%s: Bits() = %d, want %d", c, got.Bits(), c.Bits())
		}
	}
}

func TestHashBits(t *testing.T) {
	for _, c := range []Config{{Resolution: 10, DCT: true}, {Resolution: 10}, {Resolution: 8}, {Resolution: 1, DCT: true}} {
		h := mustHasher(t, c)
		got := h.Hash(horizontalStep(64, 48))
		if got.Bits() != c.Bits() {
			t.Errorf("%s: Bits() = %d, want %d", c, got.Bits(), c.Bits())
		}
		if got.Config() != c {
			t.Errorf("%s: hash config = %s", c, got.Config())
		}
	}
}

func TestIdenticalImagesHashEqual(t *testing.T) {
	for _, dct := range []bool{true, false} {
		h := mustHasher(t, Config{Resolution: DefaultResolution, DCT: dct})
		a := h.Hash(horizontalStep(100, 100))
		b := h.Hash(horizontalStep(100, 100))
		if !a.Equal(b) || a.Compare(b) != 0 {
			t.Errorf("dct=%v: identical images hashed to %s and %s", dct, a, b)
		}
	}
}

func TestDifferentImagesHashDiffer(t *testing.T) {
	for _, dct := range []bool{true, false} {
		h := mustHasher(t, Config{Resolution: 8, DCT: dct})
		a := h.Hash(horizontalStep(64, 64))
		b := h.Hash(verticalStep(64, 64))
		if a.Equal(b) {
			t.Errorf("dct=%v: horizontal and vertical steps collided: %s", dct, a)
		}
		if a.Compare(b) == 0 || a.Compare(b) != -b.Compare(a) {
			t.Errorf("dct=%v: Compare is not antisymmetric", dct)
		}
	}
}

func TestHasherReuse(t *testing.T) {
	h := mustHasher(t, DefaultConfig())
	first := h.Hash(horizontalStep(80, 60))
	h.Hash(verticalStep(80, 60))
	again := h.Hash(horizontalStep(80, 60))
	if !first.Equal(again) {
		t.Fatalf("hash changed after reuse: %s vs %s", first, again)
	}

	fresh := mustHasher(t, DefaultConfig()).Hash(horizontalStep(80, 60))
	if !first.Equal(fresh) {
		t.Fatalf("reused hasher disagrees with a fresh one: %s vs %s", first, fresh)
	}
}

func TestConfigsAreNeverComparable(t *testing.T) {
	img := horizontalStep(128, 128)
	a := mustHasher(t, Config{Resolution: 8, DCT: true}).Hash(img)
	b := mustHasher(t, Config{Resolution: 16, DCT: true}).Hash(img)
	c := mustHasher(t, Config{Resolution: 8}).Hash(img)

	for _, other := range []*Hash{b, c} {
		if a.Equal(other) {
			t.Errorf("%s and %s compared equal", a.Config(), other.Config())
		}
		if a.Compare(other) == 0 {
			t.Errorf("%s and %s compared as equal keys", a.Config(), other.Config())
		}
	}
}

func TestDCTBasisOrthonormal(t *testing.T) {
	n := 8
	b := dctBasis(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var dot float64
			for x := 0; x < n; x++ {
				dot += b[i][x] * b[j][x]
			}
			want := 0.0
			if i == j {
				want = 1
			}
			if d := dot - want; d > 1e-9 || d < -1e-9 {
				t.Fatalf("row %d . row %d = %f, want %f", i, j, dot, want)
			}
		}
	}
}
