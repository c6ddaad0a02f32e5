// Package atlas maps asset keys to images, draw layers and per-cell presence bitmaps.
package atlas

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/tilescene/internal/engine/batch"
	"github.com/Faultbox/tilescene/internal/engine/texture"
)

// ErrUnknownAsset is returned when a key is not defined in the atlas.
var ErrUnknownAsset = errors.New("unknown atlas asset")

// Source is what the grid consumes from an atlas.
type Source interface {
	// Bitmaps returns the presence bitmap of every asset, keyed by asset key.
	Bitmaps() map[string]Bitmap
	// Asset creates a sprite of the keyed asset inside b.
	Asset(key string, b *batch.Batch) (Asset, error)
	// Layers returns every asset key in draw order, bottom first.
	Layers() []string
}

// Definition describes one atlas asset.
type Definition struct {
	Key    string
	Name   string
	Layer  int
	Image  image.Image
	Bitmap Bitmap
}

// Asset is a sprite instantiated from a Definition.
type Asset struct {
	Sprite *batch.Sprite
	Name   string
	Layer  int
}

// Atlas is an in-memory Source.
type Atlas struct {
	name  string
	defs  []Definition // sorted by layer, ties in declaration order
	byKey map[string]int
}

var _ Source = (*Atlas)(nil)

// New builds an atlas from definitions. Keys must be unique and every asset needs an image.
func New(name string, defs []Definition) (*Atlas, error) {
	a := &Atlas{
		name:  name,
		defs:  make([]Definition, len(defs)),
		byKey: make(map[string]int, len(defs)),
	}
	copy(a.defs, defs)

	seen := make(map[string]bool, len(defs))
	for i := range a.defs {
		d := &a.defs[i]
		if d.Key == "" {
			return nil, fmt.Errorf("atlas %s: asset %d has no key", name, i)
		}
		if seen[d.Key] {
			return nil, fmt.Errorf("atlas %s: duplicate asset key %q", name, d.Key)
		}
		seen[d.Key] = true
		if d.Image == nil {
			return nil, fmt.Errorf("atlas %s: asset %q has no image", name, d.Key)
		}
		if d.Name == "" {
			d.Name = d.Key
		}
	}

	sort.SliceStable(a.defs, func(i, j int) bool {
		return a.defs[i].Layer < a.defs[j].Layer
	})
	for i, d := range a.defs {
		a.byKey[d.Key] = i
	}
	return a, nil
}

// Name returns the atlas name.
func (a *Atlas) Name() string {
	return a.name
}

// Definition returns the definition for key.
func (a *Atlas) Definition(key string) (Definition, bool) {
	i, ok := a.byKey[key]
	if !ok {
		return Definition{}, false
	}
	return a.defs[i], true
}

// Bitmaps returns the presence bitmap of every asset.
func (a *Atlas) Bitmaps() map[string]Bitmap {
	out := make(map[string]Bitmap, len(a.defs))
	for _, d := range a.defs {
		out[d.Key] = d.Bitmap
	}
	return out
}

// Asset creates a sprite for key inside b.
func (a *Atlas) Asset(key string, b *batch.Batch) (Asset, error) {
	i, ok := a.byKey[key]
	if !ok {
		return Asset{}, fmt.Errorf("%w: %q", ErrUnknownAsset, key)
	}
	d := a.defs[i]
	return Asset{
		Sprite: b.Add(d.Image),
		Name:   d.Name,
		Layer:  d.Layer,
	}, nil
}

// Layers returns asset keys sorted by layer.
func (a *Atlas) Layers() []string {
	keys := make([]string, len(a.defs))
	for i, d := range a.defs {
		keys[i] = d.Key
	}
	return keys
}

// file is the on-disk YAML layout.
type file struct {
	Name   string      `yaml:"name"`
	Assets []fileAsset `yaml:"assets"`
}

type fileAsset struct {
	Key    string   `yaml:"key"`
	Name   string   `yaml:"name"`
	Layer  int      `yaml:"layer"`
	Image  string   `yaml:"image"`
	Bitmap []string `yaml:"bitmap"`
}

// Load reads a YAML atlas. Image paths are relative to the atlas file.
func Load(path string) (*Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading atlas %s: %w", path, err)
	}
	return parse(data, filepath.Dir(path), path)
}

func parse(data []byte, baseDir, path string) (*Atlas, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing atlas %s: %w", path, err)
	}
	if len(f.Assets) == 0 {
		return nil, fmt.Errorf("atlas %s defines no assets", path)
	}

	name := f.Name
	if name == "" {
		name = filepath.Base(path)
	}

	// Several assets may share one image file.
	images := make(map[string]image.Image)
	defs := make([]Definition, 0, len(f.Assets))
	for _, fa := range f.Assets {
		if fa.Image == "" {
			return nil, fmt.Errorf("atlas %s: asset %q has no image", path, fa.Key)
		}
		imgPath := fa.Image
		if !filepath.IsAbs(imgPath) {
			imgPath = filepath.Join(baseDir, imgPath)
		}
		img, ok := images[imgPath]
		if !ok {
			rgba, err := texture.Load(imgPath)
			if err != nil {
				return nil, fmt.Errorf("atlas %s: asset %q: %w", path, fa.Key, err)
			}
			img = rgba
			images[imgPath] = img
		}

		bm, err := ParseBitmap(fa.Bitmap)
		if err != nil {
			return nil, fmt.Errorf("atlas %s: asset %q: %w", path, fa.Key, err)
		}

		defs = append(defs, Definition{
			Key:    fa.Key,
			Name:   fa.Name,
			Layer:  fa.Layer,
			Image:  img,
			Bitmap: bm,
		})
	}
	return New(name, defs)
}
