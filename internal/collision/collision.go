// Package collision groups hashed images by (hash, dimensions) and reports
// the groups with more than one member.
package collision

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/mattanapol/image_collision/internal/phash"
	"github.com/mattanapol/image_collision/internal/scanner"
	"golang.org/x/exp/maps"
)

type key struct {
	hash string
	dims scanner.Dimensions
}

// Group is a set of files sharing both hash and dimensions. Paths are in
// the order they were added.
type Group struct {
	Hash       *phash.Hash
	Dimensions scanner.Dimensions
	Paths      []string
}

// Aggregator collects items produced under a single hash Config.
type Aggregator struct {
	config phash.Config
	groups map[key]*Group
}

func NewAggregator(config phash.Config) *Aggregator {
	return &Aggregator{config: config, groups: make(map[key]*Group)}
}

// Add files item under its (hash, dimensions) key. Items hashed with a
// config other than the aggregator's are rejected.
func (a *Aggregator) Add(item scanner.Item) error {
	if item.Hash.Config() != a.config {
		return fmt.Errorf("%w: %s was hashed with %s, expected %s",
			phash.ErrConfigMismatch, item.Path, item.Hash.Config(), a.config)
	}

	k := key{hash: item.Hash.Key(), dims: item.Dimensions}
	g, ok := a.groups[k]
	if !ok {
		g = &Group{Hash: item.Hash, Dimensions: item.Dimensions}
		a.groups[k] = g
	}
	g.Paths = append(g.Paths, item.Path)
	return nil
}

func (a *Aggregator) AddAll(items []scanner.Item) error {
	for _, item := range items {
		if err := a.Add(item); err != nil {
			return err
		}
	}
	return nil
}

// Groups returns every group with at least two paths, ordered by hash key,
// then width, then height.
func (a *Aggregator) Groups() []Group {
	keys := maps.Keys(a.groups)
	sort.Slice(keys, func(i, j int) bool {
		ki, kj := keys[i], keys[j]
		if ki.hash != kj.hash {
			return ki.hash < kj.hash
		}
		if ki.dims.Width != kj.dims.Width {
			return ki.dims.Width < kj.dims.Width
		}
		return ki.dims.Height < kj.dims.Height
	})

	var out []Group
	for _, k := range keys {
		g := a.groups[k]
		if len(g.Paths) < 2 {
			continue
		}
		out = append(out, Group{
			Hash:       g.Hash,
			Dimensions: g.Dimensions,
			Paths:      append([]string(nil), g.Paths...),
		})
	}
	return out
}

// Print writes groups in the console report format.
func Print(w io.Writer, groups []Group) error {
	for _, g := range groups {
		if _, err := fmt.Fprintf(w, "\ncollision:\n  %s\n", g.Dimensions); err != nil {
			return err
		}
		for _, path := range g.Paths {
			if _, err := fmt.Fprintf(w, "    %s\n", path); err != nil {
				return err
			}
		}
	}
	return nil
}

var CSVHeaders = []string{"group", "width", "height", "hash", "path"}

// Records flattens groups into one CSV row per path.
func Records(groups []Group) [][]string {
	var records [][]string
	for i, g := range groups {
		for _, path := range g.Paths {
			records = append(records, []string{
				strconv.Itoa(i + 1),
				strconv.Itoa(g.Dimensions.Width),
				strconv.Itoa(g.Dimensions.Height),
				g.Hash.Key(),
				path,
			})
		}
	}
	return records
}
