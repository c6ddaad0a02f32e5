package scene

import (
	"fmt"

	"github.com/Faultbox/tilescene/internal/atlas"
	"github.com/Faultbox/tilescene/internal/character"
	"github.com/Faultbox/tilescene/internal/config"
	"github.com/Faultbox/tilescene/internal/engine/camera"
	"github.com/Faultbox/tilescene/internal/grid"
)

// Build creates the grid described by cfg over src, places the configured
// characters and returns the scene. Characters are loaded with load, which
// is character.Load outside tests.
func Build(cfg *config.Config, src atlas.Source, cam *camera.Camera,
	load func(name, path string) (*character.Character, error), opts ...Option) (*Scene, error) {
	bounds, err := grid.ParseBounds(cfg.Selection.Bounds)
	if err != nil {
		return nil, err
	}

	g, err := grid.New(cfg.Grid.Columns, cfg.Grid.Rows, cfg.Grid.XGap, cfg.Grid.YGap, src,
		grid.WithBounds(bounds))
	if err != nil {
		return nil, fmt.Errorf("building grid: %w", err)
	}

	if load == nil {
		load = character.Load
	}
	for _, cc := range cfg.Characters {
		c, err := load(cc.Name, cc.Image)
		if err != nil {
			return nil, err
		}
		if err := g.AddCharacter(c, cc.X, cc.Y); err != nil {
			return nil, fmt.Errorf("placing character %s: %w", cc.Name, err)
		}
	}

	opts = append([]Option{WithGlideSeconds(cfg.Camera.GlideSeconds)}, opts...)
	return New(g, cam, opts...), nil
}
