package grid

import (
	"errors"
	"image"
	"reflect"
	"testing"

	"github.com/Faultbox/tilescene/internal/atlas"
	"github.com/Faultbox/tilescene/internal/character"
	"github.com/Faultbox/tilescene/internal/engine/batch"
	"github.com/Faultbox/tilescene/internal/engine/draw/drawtest"
)

func img(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// testAtlas has a full ground layer and an overlay on (1,1) only. The overlay
// is declared first to prove draw order follows layers, not declaration.
func testAtlas(t *testing.T, width, height int) *atlas.Atlas {
	t.Helper()

	ground := atlas.NewBitmap(width, height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			ground.Set(x, y, true)
		}
	}
	overlay := atlas.NewBitmap(width, height)
	overlay.Set(1, 1, true)

	a, err := atlas.New("test", []atlas.Definition{
		{Key: "overlay", Name: "flowers", Layer: 1, Image: img(32, 32), Bitmap: overlay},
		{Key: "ground", Name: "grass", Layer: 0, Image: img(32, 32), Bitmap: ground},
	})
	if err != nil {
		t.Fatalf("atlas.New failed: %v", err)
	}
	return a
}

func newGrid(t *testing.T, width, height int, opts ...Option) *Grid {
	t.Helper()
	g, err := New(width, height, 32, 24, testAtlas(t, width, height), opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return g
}

func selectedCount(g *Grid) int {
	n := 0
	for _, tl := range g.tiles {
		if tl.Selected() {
			n++
		}
	}
	return n
}

func TestTilePositions(t *testing.T) {
	g := newGrid(t, 4, 3)

	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			tl, err := g.Tile(x, y)
			if err != nil {
				t.Fatalf("Tile(%d,%d): %v", x, y, err)
			}
			if tl.X() != float32(x)*32 || tl.Y() != float32(y)*24 {
				t.Errorf("tile (%d,%d): expected (%d, %d), got (%g, %g)", x, y, x*32, y*24, tl.X(), tl.Y())
			}
		}
	}

	w, h := g.WorldSize()
	if w != 128 || h != 72 {
		t.Errorf("expected world size 128x72, got %gx%g", w, h)
	}
}

func TestTileOutOfRange(t *testing.T) {
	g := newGrid(t, 2, 2)
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if _, err := g.Tile(c[0], c[1]); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Tile(%d,%d): expected ErrOutOfRange, got %v", c[0], c[1], err)
		}
	}
}

func TestLayersBoundIntoTilesAndBatches(t *testing.T) {
	g := newGrid(t, 3, 3)

	if got := g.Layers(); !reflect.DeepEqual(got, []string{"ground", "overlay"}) {
		t.Fatalf("expected layer order [ground overlay], got %v", got)
	}
	if n := g.batches["ground"].Len(); n != 9 {
		t.Errorf("expected 9 ground sprites, got %d", n)
	}
	if n := g.batches["overlay"].Len(); n != 1 {
		t.Errorf("expected 1 overlay sprite, got %d", n)
	}

	stacked, _ := g.Tile(1, 1)
	images := stacked.Images()
	if len(images) != 2 || images[0].Name != "grass" || images[1].Name != "flowers" {
		t.Fatalf("expected grass then flowers on (1,1), got %+v", images)
	}
	if images[1].Sprite.X != 32 || images[1].Sprite.Y != 24 {
		t.Errorf("expected overlay sprite at (32, 24), got (%g, %g)", images[1].Sprite.X, images[1].Sprite.Y)
	}

	plain, _ := g.Tile(2, 2)
	if len(plain.Images()) != 1 {
		t.Errorf("expected only ground on (2,2), got %d images", len(plain.Images()))
	}
}

func TestDrawPassOrder(t *testing.T) {
	g := newGrid(t, 3, 3)
	if err := g.AddCharacter(character.New("knight", img(16, 16)), 1, 1); err != nil {
		t.Fatal(err)
	}

	rec := drawtest.New()
	if err := g.Draw(rec); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	want := []drawtest.OpKind{drawtest.OpBatch, drawtest.OpBatch, drawtest.OpLines, drawtest.OpBatch}
	if got := rec.Kinds(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected ops %v, got %v", want, got)
	}
	if got := rec.Batches(); !reflect.DeepEqual(got, []string{"ground", "overlay", CharactersKey}) {
		t.Errorf("expected overlay drawn above ground and characters last, got %v", got)
	}
}

func TestDrawWithoutCharacters(t *testing.T) {
	g := newGrid(t, 2, 2)

	rec := drawtest.New()
	if err := g.Draw(rec); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if got := rec.Batches(); !reflect.DeepEqual(got, []string{"ground", "overlay"}) {
		t.Errorf("expected only terrain batches, got %v", got)
	}
}

func TestDrawFailsOnMissingBatch(t *testing.T) {
	g := newGrid(t, 2, 2)
	g.layers[1].batch = nil

	if err := g.Draw(drawtest.New()); !errors.Is(err, ErrUnknownLayer) {
		t.Errorf("expected ErrUnknownLayer, got %v", err)
	}
}

func TestSelectionOutlineFollowsCursor(t *testing.T) {
	g := newGrid(t, 3, 3)
	if err := g.MoveRight(); err != nil {
		t.Fatal(err)
	}
	if err := g.MoveUp(); err != nil {
		t.Fatal(err)
	}

	rec := drawtest.New()
	if err := g.Draw(rec); err != nil {
		t.Fatal(err)
	}

	var lines drawtest.Op
	for _, op := range rec.Ops {
		if op.Kind == drawtest.OpLines {
			lines = op
		}
	}
	if len(lines.Points) != 8 {
		t.Fatalf("expected 4 segments, got %d points", len(lines.Points))
	}
	minX, minY := lines.Points[0].X, lines.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range lines.Points {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	if minX != 32 || minY != 24 || maxX != 64 || maxY != 48 {
		t.Errorf("expected outline (32,24)-(64,48), got (%g,%g)-(%g,%g)", minX, minY, maxX, maxY)
	}
}

func TestSelectionMovesKeepOneSelected(t *testing.T) {
	g := newGrid(t, 4, 4)

	if x, y := g.Selected(); x != 0 || y != 0 {
		t.Fatalf("expected cursor at origin, got (%d,%d)", x, y)
	}
	if selectedCount(g) != 1 || !g.SelectedTile().Selected() {
		t.Fatal("expected origin tile selected after construction")
	}

	moves := []struct {
		name   string
		fn     func() error
		wx, wy int
	}{
		{"up", g.MoveUp, 0, 1},
		{"right", g.MoveRight, 1, 1},
		{"up", g.MoveUp, 1, 2},
		{"right", g.MoveRight, 2, 2},
		{"down", g.MoveDown, 2, 1},
		{"left", g.MoveLeft, 1, 1},
	}
	for i, m := range moves {
		if err := m.fn(); err != nil {
			t.Fatalf("move %d (%s): %v", i, m.name, err)
		}
		x, y := g.Selected()
		if x != m.wx || y != m.wy {
			t.Errorf("move %d (%s): expected (%d,%d), got (%d,%d)", i, m.name, m.wx, m.wy, x, y)
		}
		if n := selectedCount(g); n != 1 {
			t.Errorf("move %d (%s): expected exactly one selected tile, got %d", i, m.name, n)
		}
		tl, _ := g.Tile(x, y)
		if !tl.Selected() || tl != g.SelectedTile() {
			t.Errorf("move %d (%s): highlighted tile does not match cursor", i, m.name)
		}
	}
}

func TestBoundsPolicies(t *testing.T) {
	tests := []struct {
		name    string
		bounds  Bounds
		moves   func(g *Grid) error
		wantX   int
		wantY   int
		wantErr bool
	}{
		{"clamp left", BoundClamp, (*Grid).MoveLeft, 0, 0, false},
		{"clamp down", BoundClamp, (*Grid).MoveDown, 0, 0, false},
		{"wrap left", BoundWrap, (*Grid).MoveLeft, 2, 0, false},
		{"wrap down", BoundWrap, (*Grid).MoveDown, 0, 1, false},
		{"strict left", BoundStrict, (*Grid).MoveLeft, 0, 0, true},
		{"strict down", BoundStrict, (*Grid).MoveDown, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGrid(t, 3, 2, WithBounds(tt.bounds))
			err := tt.moves(g)
			if tt.wantErr != (err != nil) {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if err != nil && !errors.Is(err, ErrOutOfRange) {
				t.Errorf("expected ErrOutOfRange, got %v", err)
			}
			x, y := g.Selected()
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("expected cursor (%d,%d), got (%d,%d)", tt.wantX, tt.wantY, x, y)
			}
			if selectedCount(g) != 1 {
				t.Errorf("expected exactly one selected tile, got %d", selectedCount(g))
			}
		})
	}
}

func TestCursorNeverLeavesGrid(t *testing.T) {
	for _, b := range []Bounds{BoundClamp, BoundWrap, BoundStrict} {
		g := newGrid(t, 3, 3, WithBounds(b))
		for i := 0; i < 10; i++ {
			_ = g.MoveRight()
			_ = g.MoveUp()
		}
		for i := 0; i < 25; i++ {
			_ = g.MoveLeft()
			_ = g.MoveDown()
		}
		x, y := g.Selected()
		if x < 0 || x >= 3 || y < 0 || y >= 3 {
			t.Errorf("%s: cursor escaped to (%d,%d)", b, x, y)
		}
	}
}

func TestSelect(t *testing.T) {
	g := newGrid(t, 3, 3)
	if err := g.Select(2, 1); err != nil {
		t.Fatal(err)
	}
	if x, y := g.Selected(); x != 2 || y != 1 {
		t.Errorf("expected (2,1), got (%d,%d)", x, y)
	}
	if err := g.Select(3, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if selectedCount(g) != 1 {
		t.Errorf("expected one selected tile, got %d", selectedCount(g))
	}
}

func TestParseBounds(t *testing.T) {
	for _, s := range []string{"clamp", "wrap", "strict"} {
		b, err := ParseBounds(s)
		if err != nil {
			t.Errorf("ParseBounds(%q): %v", s, err)
		}
		if b.String() != s {
			t.Errorf("expected %q to round trip, got %q", s, b.String())
		}
	}
	if _, err := ParseBounds("bounce"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestAddCharacter(t *testing.T) {
	g := newGrid(t, 3, 3)

	knight := character.New("knight", img(16, 16))
	if err := g.AddCharacter(knight, 2, 1); err != nil {
		t.Fatal(err)
	}
	s, ok := g.Character("knight")
	if !ok {
		t.Fatal("expected knight to be registered")
	}
	if s.X != 64 || s.Y != 24 {
		t.Errorf("expected knight at (64, 24), got (%g, %g)", s.X, s.Y)
	}

	// Two names on one cell overlap.
	if err := g.AddCharacter(character.New("mage", img(16, 16)), 2, 1); err != nil {
		t.Fatal(err)
	}
	if got := g.Characters(); !reflect.DeepEqual(got, []string{"knight", "mage"}) {
		t.Errorf("unexpected characters %v", got)
	}
	if n := g.batches[CharactersKey].Len(); n != 2 {
		t.Errorf("expected 2 character sprites, got %d", n)
	}
}

func TestAddCharacterSameNameRepositions(t *testing.T) {
	g := newGrid(t, 3, 3)

	if err := g.AddCharacter(character.New("knight", img(16, 16)), 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.AddCharacter(character.New("knight", img(16, 16)), 1, 2); err != nil {
		t.Fatal(err)
	}

	if got := g.Characters(); len(got) != 1 {
		t.Fatalf("expected a single registration, got %v", got)
	}
	cb := g.batches[CharactersKey]
	if cb.Len() != 1 {
		t.Fatalf("expected one sprite in characters batch, got %d", cb.Len())
	}
	s, _ := g.Character("knight")
	if s != cb.Sprites()[0] || s.X != 32 || s.Y != 48 {
		t.Errorf("expected knight moved to (32, 48), got (%g, %g)", s.X, s.Y)
	}
}

func TestAddCharacterOutOfRange(t *testing.T) {
	g := newGrid(t, 2, 2)
	err := g.AddCharacter(character.New("ghost", img(1, 1)), 5, 5)
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if _, ok := g.batches[CharactersKey]; ok {
		t.Error("expected no characters batch after rejected placement")
	}
}

func TestCellAt(t *testing.T) {
	g := newGrid(t, 3, 3)

	tests := []struct {
		wx, wy float32
		x, y   int
		ok     bool
	}{
		{0, 0, 0, 0, true},
		{33, 25, 1, 1, true},
		{95.9, 71.9, 2, 2, true},
		{96, 10, 0, 0, false},
		{-0.5, 10, 0, 0, false},
	}
	for _, tt := range tests {
		x, y, ok := g.CellAt(tt.wx, tt.wy)
		if ok != tt.ok || (ok && (x != tt.x || y != tt.y)) {
			t.Errorf("CellAt(%g,%g): expected (%d,%d,%v), got (%d,%d,%v)", tt.wx, tt.wy, tt.x, tt.y, tt.ok, x, y, ok)
		}
	}
}

func TestDescribeSelected(t *testing.T) {
	g := newGrid(t, 3, 3)
	_ = g.Select(1, 1)
	if got := g.DescribeSelected(); got != "selected tile: (1,1,grass@0, flowers@1)" {
		t.Errorf("unexpected description %q", got)
	}
}

// stubSource lets tests hand the grid inconsistent atlas data.
type stubSource struct {
	layers  []string
	bitmaps map[string]atlas.Bitmap
}

func (s stubSource) Bitmaps() map[string]atlas.Bitmap { return s.bitmaps }
func (s stubSource) Layers() []string { return s.layers }
func (s stubSource) Asset(key string, b *batch.Batch) (atlas.Asset, error) {
	return atlas.Asset{Sprite: b.Add(nil), Name: key}, nil
}

func TestNewRejectsInconsistentAtlas(t *testing.T) {
	full := atlas.NewBitmap(1, 1)
	full.Set(0, 0, true)

	tests := []struct {
		name    string
		src     stubSource
		wantErr error
	}{
		{"undeclared bitmap", stubSource{layers: []string{"ground"}, bitmaps: map[string]atlas.Bitmap{"lava": full}}, ErrUnknownLayer},
		{"reserved key", stubSource{layers: []string{CharactersKey}}, nil},
		{"duplicate layer", stubSource{layers: []string{"a", "a"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(1, 1, 8, 8, tt.src)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewRejectsEmptyGrid(t *testing.T) {
	if _, err := New(0, 3, 8, 8, stubSource{}); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestLayerWithoutBitmapIsEmpty(t *testing.T) {
	g, err := New(2, 2, 8, 8, stubSource{layers: []string{"fog"}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if g.batches["fog"].Len() != 0 {
		t.Error("expected empty batch for layer without bitmap")
	}
}
