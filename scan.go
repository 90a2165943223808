package cfi

import (
	"github.com/haroruhomer/cfi/dom"
	"github.com/haroruhomer/cfi/geom"
	"github.com/haroruhomer/cfi/internal/logger"
)

// ScanOptions tunes the viewport scanner. Zero values take defaults.
type ScanOptions struct {
	// VerticalSteps and HorizontalSteps divide the viewport into the
	// fixed-size scan grid.
	VerticalSteps   int
	HorizontalSteps int
	// PixelTolerance bounds the encode/decode round-trip distance a
	// candidate must stay within to be accepted.
	PixelTolerance float64
}

func (o ScanOptions) withDefaults() ScanOptions {
	if o.VerticalSteps <= 0 {
		o.VerticalSteps = 10
	}
	if o.HorizontalSteps <= 0 {
		o.HorizontalSteps = 10
	}
	if o.PixelTolerance <= 0 {
		o.PixelTolerance = 16
	}
	return o
}

// BestPointerInViewport names the best on-screen content in vp without
// an initiating click. It scans vertically outward from the viewport
// center, and horizontally outward at each vertical offset, so the
// first verified candidate is nearest in the reading axis. Every
// candidate is round-tripped back to a screen point and rejected when
// it lands farther than the pixel tolerance. When the whole grid
// exhausts, a coarse pointer anchored at the document element carries
// the scroll position as a spatial percentage of the document extent,
// so the scanner always returns a usable pointer.
func BestPointerInViewport(doc dom.Document, vp geom.Rect, opts ScanOptions) string {
	o := opts.withDefaults()
	vStep := vp.H / float64(o.VerticalSteps)
	if vStep <= 0 {
		vStep = 1
	}
	hStep := vp.W / float64(o.HorizontalSteps)
	if hStep <= 0 {
		hStep = 1
	}
	center := vp.Center()

	for dy := 0.0; dy <= vp.H/2; dy += vStep {
		ys := []float64{center.Y - dy, center.Y + dy}
		if dy == 0 {
			ys = ys[:1]
		}
		for _, y := range ys {
			for dx := 0.0; dx <= vp.W/2; dx += hStep {
				xs := []float64{center.X - dx, center.X + dx}
				if dx == 0 {
					xs = xs[:1]
				}
				for _, x := range xs {
					if ptr, ok := verifiedPointerAt(doc, x, y, o.PixelTolerance); ok {
						return ptr
					}
				}
			}
		}
	}

	logger.Debug("viewport scan exhausted, using scroll fallback", "viewport", vp)
	return scrollFallback(doc)
}

// verifiedPointerAt runs the full encode pipeline at (x, y) and keeps
// the result only when decoding it back lands within tol pixels.
func verifiedPointerAt(doc dom.Document, x, y, tol float64) (string, bool) {
	ptr, err := PointerForPoint(doc, x, y)
	if err != nil || ptr == "" {
		return "", false
	}
	tgt, err := PointForPointer(ptr, doc)
	if err != nil {
		return "", false
	}
	if geom.Dist(tgt.Point, geom.Point{X: x, Y: y}) > tol {
		logger.Debug("candidate failed round-trip verification", "pointer", ptr, "x", x, "y", y)
		return "", false
	}
	return ptr, true
}

// scrollFallback encodes the always-present document element with the
// current scroll position as a percentage of the document extent.
func scrollFallback(doc dom.Document) string {
	scroll := doc.Scroll()
	w, h := doc.Extent()
	var sx, sy float64
	if w > 0 {
		sx = scroll.X * 100 / w
	}
	if h > 0 {
		sy = scroll.Y * 100 / h
	}
	tail := "@" + formatNum(sx) + ":" + formatNum(sy)
	root := doc.Root()
	if root == nil {
		return tail
	}
	ptr, err := Encode(doc, root, NoOffset, tail)
	if err != nil || ptr == "" {
		return tail
	}
	return ptr
}
