package math

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())
	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestOrthoMapsCornersToClipSpace(t *testing.T) {
	m := Ortho(0, 800, 0, 600, -1, 1)

	tests := []struct {
		in   Vec2
		want Vec2
	}{
		{Vec2{0, 0}, Vec2{-1, -1}},
		{Vec2{800, 600}, Vec2{1, 1}},
		{Vec2{400, 300}, Vec2{0, 0}},
		{Vec2{800, 0}, Vec2{1, -1}},
	}
	for _, tt := range tests {
		got := m.Apply(tt.in)
		if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) {
			t.Errorf("Ortho(%v): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOrthoShiftedViewport(t *testing.T) {
	m := Ortho(-100, 100, 50, 150, -1, 1)
	got := m.Apply(Vec2{0, 100})
	if !approx(got.X, 0) || !approx(got.Y, 0) {
		t.Errorf("expected viewport centre at clip origin, got %v", got)
	}
}

func TestOrthoDegenerate(t *testing.T) {
	if Ortho(5, 5, 0, 1, -1, 1) != Identity() {
		t.Error("expected identity for zero-width volume")
	}
}

func TestInverseAffine2D(t *testing.T) {
	m := Ortho(-200, 600, 100, 700, -1, 1)
	inv := m.InverseAffine2D()

	p := Vec2{123, 456}
	back := inv.Apply(m.Apply(p))
	if !approx(back.X, p.X) || !approx(back.Y, p.Y) {
		t.Errorf("round trip: got %v, want %v", back, p)
	}
}

func TestRectOutline(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 32, Height: 16}
	seg := r.Outline()
	if len(seg) != 8 {
		t.Fatalf("expected 8 points (4 segments), got %d", len(seg))
	}
	// Segments must chain into a closed loop.
	for i := 1; i < 4; i++ {
		if seg[2*i] != seg[2*i-1] {
			t.Errorf("segment %d does not start where %d ends", i, i-1)
		}
	}
	if seg[7] != seg[0] {
		t.Error("outline is not closed")
	}
	if !r.Contains(Vec2{42, 36}) || r.Contains(Vec2{43, 36}) {
		t.Error("Contains edge handling wrong")
	}
}
