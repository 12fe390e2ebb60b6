package phash

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corona10/goimagehash"
)

var ErrConfigMismatch = errors.New("hashes were built with different configurations")

// Hash is a perceptual hash together with the Config that produced it.
type Hash struct {
	config Config
	ext    *goimagehash.ExtImageHash
	key    string
}

func newHash(config Config, ext *goimagehash.ExtImageHash) *Hash {
	var sb strings.Builder
	sb.WriteString(config.String())
	sb.WriteByte(':')
	for _, w := range ext.GetHash() {
		fmt.Fprintf(&sb, "%016x", w)
	}
	return &Hash{config: config, ext: ext, key: sb.String()}
}

func (h *Hash) Config() Config {
	return h.config
}

func (h *Hash) Bits() int {
	return h.ext.Bits()
}

// Key is a comparable representation of the hash. It includes the config,
// so keys of differently configured hashes never collide.
func (h *Hash) Key() string {
	return h.key
}

func (h *Hash) String() string {
	return h.key
}

func (h *Hash) Equal(other *Hash) bool {
	return h.key == other.key
}

// Compare orders hashes by key. The order only serves to make reports stable.
func (h *Hash) Compare(other *Hash) int {
	return strings.Compare(h.key, other.key)
}
