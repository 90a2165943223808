package geom

import "testing"

func TestContainsInclusiveEdges(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 10}
	for _, p := range []Point{
		{10, 10}, {30, 20}, {10, 20}, {30, 10}, {20, 15},
	} {
		if !r.Contains(p) {
			t.Fatalf("Contains(%v) = false, want true", p)
		}
	}
	for _, p := range []Point{
		{9.9, 15}, {30.1, 15}, {20, 9.9}, {20, 20.1},
	} {
		if r.Contains(p) {
			t.Fatalf("Contains(%v) = true, want false", p)
		}
	}
}

func TestUnionIgnoresEmpty(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	var zero Rect
	if got := a.Union(zero); got != a {
		t.Fatalf("Union with empty = %v, want %v", got, a)
	}
	if got := zero.Union(a); got != a {
		t.Fatalf("empty Union = %v, want %v", got, a)
	}
	b := Rect{X: 5, Y: 5, W: 20, H: 2}
	want := Rect{X: 0, Y: 0, W: 25, H: 10}
	if got := a.Union(b); got != want {
		t.Fatalf("Union = %v, want %v", got, want)
	}
}

func TestBounds(t *testing.T) {
	rs := []Rect{
		{X: 0, Y: 0, W: 50, H: 10},
		{X: 0, Y: 10, W: 30, H: 10},
	}
	want := Rect{X: 0, Y: 0, W: 50, H: 20}
	if got := Bounds(rs); got != want {
		t.Fatalf("Bounds = %v, want %v", got, want)
	}
	if got := Bounds(nil); !got.IsEmpty() {
		t.Fatalf("Bounds(nil) = %v, want empty", got)
	}
}

func TestDist(t *testing.T) {
	if got := Dist(Point{0, 0}, Point{3, 4}); got != 5 {
		t.Fatalf("Dist = %v, want 5", got)
	}
	if got := Dist(Point{2, 2}, Point{2, 2}); got != 0 {
		t.Fatalf("Dist = %v, want 0", got)
	}
}
