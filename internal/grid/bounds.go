package grid

import (
	"fmt"

	"github.com/Faultbox/tilescene/internal/config"
)

// Bounds decides what happens when the selection cursor is pushed past an edge.
type Bounds int

const (
	// BoundClamp keeps the cursor on the edge cell.
	BoundClamp Bounds = iota
	// BoundWrap moves the cursor to the opposite edge.
	BoundWrap
	// BoundStrict leaves the cursor where it is and reports ErrOutOfRange.
	BoundStrict
)

// ParseBounds converts a config policy name.
func ParseBounds(s string) (Bounds, error) {
	switch s {
	case config.BoundsClamp, "":
		return BoundClamp, nil
	case config.BoundsWrap:
		return BoundWrap, nil
	case config.BoundsStrict:
		return BoundStrict, nil
	}
	return BoundClamp, fmt.Errorf("unknown bounds policy %q", s)
}

func (b Bounds) String() string {
	switch b {
	case BoundWrap:
		return config.BoundsWrap
	case BoundStrict:
		return config.BoundsStrict
	default:
		return config.BoundsClamp
	}
}

// resolve maps a requested cursor position onto the grid under policy b.
func (b Bounds) resolve(x, y, width, height int) (int, int, error) {
	switch b {
	case BoundWrap:
		return wrap(x, width), wrap(y, height), nil
	case BoundStrict:
		if x < 0 || x >= width || y < 0 || y >= height {
			return 0, 0, fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfRange, x, y, width, height)
		}
		return x, y, nil
	default:
		return clamp(x, width), clamp(y, height), nil
	}
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

func wrap(v, n int) int {
	return ((v % n) + n) % n
}
