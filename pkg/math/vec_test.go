package math

import (
	"testing"
)

func TestVec2Damping(t *testing.T) {
	v := Vec2{4, -2}
	v = v.Add(Vec2{1, 1}).Scale(0.5)
	if v != (Vec2{2.5, -0.5}) {
		t.Errorf("accumulate and decay = %v, want (2.5, -0.5)", v)
	}
	if got := (Vec2{3, 4}).Length(); got != 5 {
		t.Errorf("Vec2{3,4}.Length() = %v, want 5", got)
	}
}

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("Add = %v, want (5, 7, 9)", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub = %v, want (3, 3, 3)", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v, want (2, 4, 6)", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{X: 1}
	y := Vec3{Y: 1}

	if got := x.Cross(y); got != (Vec3{Z: 1}) {
		t.Errorf("x cross y = %v, want +z", got)
	}
	if got := y.Cross(x); got != (Vec3{Z: -1}) {
		t.Errorf("y cross x = %v, want -z", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 0, 4}.Normalize()
	if n.Distance(Vec3{0.6, 0, 0.8}) > 1e-6 {
		t.Errorf("Normalize = %v, want (0.6, 0, 0.8)", n)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero vector normalizes to %v, want zero", got)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -3}
	b := Vec3{2, 4, -6}

	if got := a.Min(b); got != (Vec3{1, 4, -6}) {
		t.Errorf("Min = %v, want (1, 4, -6)", got)
	}
	if got := a.Max(b); got != (Vec3{2, 5, -3}) {
		t.Errorf("Max = %v, want (2, 5, -3)", got)
	}
}
