package cfi

import (
	"testing"
	"time"

	"github.com/haroruhomer/cfi/dom/domtest"
	"github.com/haroruhomer/cfi/geom"
)

type recordingScroller struct {
	calls []geom.Point
}

func (r *recordingScroller) ScrollTo(p geom.Point) { r.calls = append(r.calls, p) }

func TestScrollToPointer(t *testing.T) {
	text := domtest.NewTextAt("HelloWorld", geom.Point{X: 0, Y: 0}, 10, 10, 5)
	root := domtest.NewElem("", geom.Rect{X: 0, Y: 0, W: 200, H: 100}, text)
	doc := domtest.NewDoc(root)

	sc := &recordingScroller{}
	settled := make(chan Target, 1)
	err := ScrollToPointer("/2/1:7", doc, sc, time.Millisecond, func(tgt Target) {
		settled <- tgt
	})
	if err != nil {
		t.Fatalf("ScrollToPointer() error = %v", err)
	}
	if len(sc.calls) != 1 {
		t.Fatalf("ScrollTo called %d times, want 1", len(sc.calls))
	}
	want := geom.Point{X: 20, Y: 15}
	if sc.calls[0] != want {
		t.Fatalf("ScrollTo(%v), want %v", sc.calls[0], want)
	}

	select {
	case tgt := <-settled:
		if tgt.Point != want {
			t.Fatalf("settled target %v, want %v", tgt.Point, want)
		}
	case <-time.After(time.Second):
		t.Fatalf("settle callback never ran")
	}

	// one deferred continuation per call, never a second
	select {
	case <-settled:
		t.Fatalf("settle callback ran twice")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestScrollToPointerBadPointer(t *testing.T) {
	doc := domtest.NewDoc(domtest.NewElem("", geom.Rect{W: 10, H: 10}))

	sc := &recordingScroller{}
	err := ScrollToPointer("/2/99", doc, sc, time.Millisecond, nil)
	if err == nil {
		t.Fatalf("ScrollToPointer() with an unresolvable pointer should fail")
	}
	if len(sc.calls) != 0 {
		t.Fatalf("ScrollTo must not run when resolution fails, got %d calls", len(sc.calls))
	}
}

func TestScrollToPointerNilDone(t *testing.T) {
	text := domtest.NewTextAt("abc", geom.Point{X: 0, Y: 0}, 10, 10, 0)
	doc := domtest.NewDoc(domtest.NewElem("", geom.Rect{W: 100, H: 10}, text))

	if err := ScrollToPointer("/2/1:1", doc, &recordingScroller{}, 0, nil); err != nil {
		t.Fatalf("ScrollToPointer() error = %v", err)
	}
}
