// Package grid composes atlas layers onto a fixed grid of tiles, tracks the
// selection cursor and character sprites, and draws everything in three passes.
package grid

import (
	"errors"
	"fmt"
	gomath "math"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/tilescene/internal/atlas"
	"github.com/Faultbox/tilescene/internal/character"
	"github.com/Faultbox/tilescene/internal/engine/batch"
	"github.com/Faultbox/tilescene/internal/engine/draw"
	"github.com/Faultbox/tilescene/internal/logger"
	"github.com/Faultbox/tilescene/internal/tile"
)

// CharactersKey is the reserved batch key for character sprites.
const CharactersKey = "characters"

var (
	// ErrOutOfRange is returned for cell coordinates outside the grid.
	ErrOutOfRange = errors.New("cell out of range")
	// ErrUnknownLayer is returned when a layer key has no batch.
	ErrUnknownLayer = errors.New("unknown layer")
)

// Option configures a Grid.
type Option func(*Grid)

// WithBounds sets the selection boundary policy. The default is BoundClamp.
func WithBounds(b Bounds) Option {
	return func(g *Grid) { g.bounds = b }
}

// WithLogger replaces the component logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Grid) { g.log = l }
}

type layerBatch struct {
	key   string
	batch *batch.Batch
}

// Grid owns the tiles, the render batches and the character registry.
type Grid struct {
	width, height int
	xGap, yGap    float32

	// tiles is a fixed arena addressed through Tile(x, y).
	tiles []*tile.Tile

	// layers holds terrain batches in atlas draw order.
	layers  []layerBatch
	batches map[string]*batch.Batch

	selectedX, selectedY int
	bounds               Bounds

	characters map[string]*batch.Sprite

	log *zap.Logger
}

// New builds a width x height grid with the given pixel pitch and binds every
// asset the atlas marks present into the matching tile and layer batch.
func New(width, height int, xGap, yGap float32, src atlas.Source, opts ...Option) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid size must be positive, got %dx%d", width, height)
	}

	g := &Grid{
		width:      width,
		height:     height,
		xGap:       xGap,
		yGap:       yGap,
		tiles:      make([]*tile.Tile, width*height),
		batches:    make(map[string]*batch.Batch),
		characters: make(map[string]*batch.Sprite),
		log:        logger.Named("grid"),
	}
	for _, opt := range opts {
		opt(g)
	}

	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			g.tiles[g.index(x, y)] = tile.New(x, y, xGap, yGap)
		}
	}

	if err := g.buildLayers(src); err != nil {
		return nil, err
	}

	g.tiles[g.index(0, 0)].Select()

	g.log.Info("grid built",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("layers", len(g.layers)),
		zap.Stringer("bounds", g.bounds),
	)
	return g, nil
}

// buildLayers creates one batch per atlas layer and binds present cells.
func (g *Grid) buildLayers(src atlas.Source) error {
	for _, key := range src.Layers() {
		if key == CharactersKey {
			return fmt.Errorf("atlas layer %q collides with the reserved characters batch", key)
		}
		if _, dup := g.batches[key]; dup {
			return fmt.Errorf("atlas declares layer %q twice", key)
		}
		b := batch.New(key)
		g.batches[key] = b
		g.layers = append(g.layers, layerBatch{key: key, batch: b})
	}

	bitmaps := src.Bitmaps()
	for key := range bitmaps {
		if _, ok := g.batches[key]; !ok {
			return fmt.Errorf("%w: bitmap %q is not a declared atlas layer", ErrUnknownLayer, key)
		}
	}

	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			t := g.tiles[g.index(x, y)]
			for _, l := range g.layers {
				if !bitmaps[l.key].Has(x, y) {
					continue
				}
				asset, err := src.Asset(l.key, l.batch)
				if err != nil {
					return fmt.Errorf("binding %q at (%d, %d): %w", l.key, x, y, err)
				}
				t.AddImage(asset.Sprite, asset.Name, asset.Layer)
			}
		}
	}

	for _, l := range g.layers {
		g.log.Debug("layer bound", zap.String("layer", l.key), zap.Int("sprites", l.batch.Len()))
	}
	return nil
}

func (g *Grid) index(x, y int) int {
	return x*g.height + y
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// WorldSize returns the extent covered by the tiles in world units.
func (g *Grid) WorldSize() (float32, float32) {
	return float32(g.width) * g.xGap, float32(g.height) * g.yGap
}

// Tile returns the tile at (x, y).
func (g *Grid) Tile(x, y int) (*tile.Tile, error) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return nil, fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfRange, x, y, g.width, g.height)
	}
	return g.tiles[g.index(x, y)], nil
}

// CellAt returns the cell containing world point (wx, wy).
func (g *Grid) CellAt(wx, wy float32) (int, int, bool) {
	if g.xGap <= 0 || g.yGap <= 0 {
		return 0, 0, false
	}
	x := int(gomath.Floor(float64(wx / g.xGap)))
	y := int(gomath.Floor(float64(wy / g.yGap)))
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return 0, 0, false
	}
	return x, y, true
}

// Layers returns the terrain layer keys in draw order.
func (g *Grid) Layers() []string {
	keys := make([]string, len(g.layers))
	for i, l := range g.layers {
		keys[i] = l.key
	}
	return keys
}

// Bounds returns the selection boundary policy.
func (g *Grid) Bounds() Bounds {
	return g.bounds
}

// Selected returns the cursor position.
func (g *Grid) Selected() (int, int) {
	return g.selectedX, g.selectedY
}

// SelectedTile returns the tile under the cursor.
func (g *Grid) SelectedTile() *tile.Tile {
	return g.tiles[g.index(g.selectedX, g.selectedY)]
}

// DescribeSelected formats the cursor position and the selected tile's images.
func (g *Grid) DescribeSelected() string {
	return fmt.Sprintf("selected tile: (%d,%d,%s)", g.selectedX, g.selectedY, g.SelectedTile().Describe())
}

// MoveUp moves the cursor one row up.
func (g *Grid) MoveUp() error { return g.move(0, 1) }

// MoveDown moves the cursor one row down.
func (g *Grid) MoveDown() error { return g.move(0, -1) }

// MoveLeft moves the cursor one column left.
func (g *Grid) MoveLeft() error { return g.move(-1, 0) }

// MoveRight moves the cursor one column right.
func (g *Grid) MoveRight() error { return g.move(1, 0) }

// Select puts the cursor on (x, y). Unlike the directional moves it never
// clamps or wraps.
func (g *Grid) Select(x, y int) error {
	if _, err := g.Tile(x, y); err != nil {
		return err
	}
	g.setCursor(x, y)
	return nil
}

func (g *Grid) move(dx, dy int) error {
	x, y, err := g.bounds.resolve(g.selectedX+dx, g.selectedY+dy, g.width, g.height)
	if err != nil {
		return err
	}
	g.setCursor(x, y)
	return nil
}

// setCursor deselects the old tile and selects the new one.
func (g *Grid) setCursor(x, y int) {
	g.SelectedTile().Deselect()
	g.selectedX, g.selectedY = x, y
	g.SelectedTile().Select()
	g.log.Debug("selection moved", zap.Int("x", x), zap.Int("y", y))
}

// AddCharacter places c on tile (x, y). Re-adding a name replaces the old sprite.
func (g *Grid) AddCharacter(c *character.Character, x, y int) error {
	t, err := g.Tile(x, y)
	if err != nil {
		return fmt.Errorf("placing %s: %w", c.Name, err)
	}

	b, ok := g.batches[CharactersKey]
	if !ok {
		b = batch.New(CharactersKey)
		g.batches[CharactersKey] = b
	}

	if old, ok := g.characters[c.Name]; ok {
		b.Remove(old)
	}

	s := c.SetImage(b)
	g.characters[c.Name] = s
	s.SetPosition(t.X(), t.Y())

	g.log.Info("character placed", zap.String("name", c.Name), zap.Int("x", x), zap.Int("y", y))
	return nil
}

// Character returns the sprite registered under name.
func (g *Grid) Character(name string) (*batch.Sprite, bool) {
	s, ok := g.characters[name]
	return s, ok
}

// Characters returns the registered names, sorted.
func (g *Grid) Characters() []string {
	names := make([]string, 0, len(g.characters))
	for name := range g.characters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Draw renders terrain layers in order, then the selection outline, then characters.
func (g *Grid) Draw(c draw.Canvas) error {
	for _, l := range g.layers {
		if l.batch == nil {
			return fmt.Errorf("%w: %q has no batch", ErrUnknownLayer, l.key)
		}
		c.DrawBatch(l.batch)
	}

	c.DrawLines(draw.ColorSelection, g.SelectedTile().Rect().Outline())

	if b, ok := g.batches[CharactersKey]; ok {
		c.DrawBatch(b)
	}
	return nil
}
