package cfi

import (
	"time"

	"github.com/haroruhomer/cfi/dom"
	"github.com/haroruhomer/cfi/geom"
)

// Scroller is the host-owned scroll surface: the engine only ever asks
// it to bring a point into view.
type Scroller interface {
	ScrollTo(p geom.Point)
}

// ScrollToPointer resolves pointer, scrolls its target into view, and
// schedules done to run once after settle with geometry re-read after
// the scroll has visually completed. The continuation is a single
// deferred callback: it is not cancellable, and a second call simply
// schedules another independent one.
func ScrollToPointer(pointer string, doc dom.Document, s Scroller, settle time.Duration, done func(Target)) error {
	tgt, err := PointForPointer(pointer, doc)
	if err != nil {
		return err
	}
	s.ScrollTo(tgt.Point)
	if done != nil {
		first := *tgt
		time.AfterFunc(settle, func() {
			if again, err := PointForPointer(pointer, doc); err == nil {
				done(*again)
				return
			}
			done(first)
		})
	}
	return nil
}
