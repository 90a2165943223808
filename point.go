package cfi

import (
	"fmt"
	"strconv"

	"github.com/haroruhomer/cfi/dom"
	"github.com/haroruhomer/cfi/geom"
	"github.com/haroruhomer/cfi/internal/logger"
)

// Target is the screen geometry a pointer resolved to.
type Target struct {
	Point   geom.Point
	Rect    geom.Rect
	Forward bool
	// Location is the decoded tree position behind the geometry.
	Location *Location
}

// PointerForPoint builds a pointer for the content under a screen
// point: hit-test, then either a media tail or a geometric binary
// search for the character offset. A point inside an element but
// outside all of its text geometry is ErrPointInPadding; probing in
// padding and border regions is undefined.
func PointerForPoint(doc dom.Document, x, y float64) (string, error) {
	elem := doc.ElementAt(x, y)
	if elem == nil {
		return "", fmt.Errorf("%w: (%g, %g)", ErrNoElementAtPoint, x, y)
	}

	if m, ok := elem.(dom.Media); ok {
		tail := ""
		if _, timed := m.Duration(); timed {
			tail += "~" + formatNum(m.CurrentTime())
		}
		if rects := m.Rects(); len(rects) > 0 && !rects[0].IsEmpty() {
			r := rects[0]
			px := (x - r.X) * 100 / r.W
			py := (y - r.Y) * 100 / r.H
			tail += "@" + formatNum(px) + ":" + formatNum(py)
		}
		return Encode(doc, elem, NoOffset, tail)
	}

	pt := geom.Point{X: x, Y: y}
	for _, c := range elem.Children() {
		if !c.Kind().TextLike() {
			continue
		}
		l := dom.TextLength(c)
		if l == 0 {
			continue
		}
		if !geom.Bounds(c.RangeRects(0, l)).Contains(pt) {
			continue
		}
		off := offsetForPoint(c, l, pt)
		return Encode(doc, c, off, "")
	}
	return "", fmt.Errorf("%w: (%g, %g) in <%s>", ErrPointInPadding, x, y, describeNode(elem))
}

// offsetForPoint binary-searches [0, length) for the character under
// pt. Each round probes the midpoint character's rectangles first,
// then the right half, then the left; a point in neither half sits in
// inter-character spacing and resolves to the interval's lower bound.
func offsetForPoint(text dom.Node, length int, pt geom.Point) int {
	lo, hi := 0, length
	for lo < hi {
		mid := (lo + hi) / 2
		if geom.AnyContains(text.RangeRects(mid, mid+1), pt) {
			return mid
		}
		if geom.AnyContains(text.RangeRects(mid+1, hi), pt) {
			lo = mid + 1
			continue
		}
		if geom.AnyContains(text.RangeRects(lo, mid), pt) {
			hi = mid
			continue
		}
		break
	}
	return lo
}

// PointForPointer resolves a pointer back to screen geometry: a caret
// rect for text offsets, the element box with an interpolated point for
// spatial media pointers. Temporal offsets additionally seek the
// medium, deferred once when it is not yet seekable.
func PointForPointer(pointer string, root dom.Node) (*Target, error) {
	loc, err := Decode(pointer, root)
	if err != nil {
		return nil, err
	}
	node := loc.Node

	if m, ok := node.(dom.Media); ok {
		rects := m.Rects()
		if len(rects) == 0 {
			return nil, fmt.Errorf("%w: media %q", ErrNoRectangle, pointer)
		}
		r := rects[0]
		tgt := &Target{Point: r.Center(), Rect: r, Forward: loc.Forward, Location: loc}
		if loc.HasSpatial {
			tgt.Point = geom.Point{
				X: r.X + loc.SpatialX*r.W/100,
				Y: r.Y + loc.SpatialY*r.H/100,
			}
		}
		if loc.HasTemporal {
			seekMedia(m, loc.Temporal)
		}
		return tgt, nil
	}

	if loc.HasOffset && node.Kind().TextLike() {
		rect, before, ok := caretRect(node, loc.Offset, loc.Forward)
		if !ok {
			return nil, fmt.Errorf("%w: offset %d in %q", ErrNoRectangle, loc.Offset, pointer)
		}
		pt := geom.Point{X: rect.X, Y: rect.Y + rect.H/2}
		if before {
			pt.X = rect.X + rect.W
		}
		return &Target{Point: pt, Rect: rect, Forward: loc.Forward, Location: loc}, nil
	}

	rects := node.Rects()
	if len(rects) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoRectangle, pointer)
	}
	r := geom.Bounds(rects)
	return &Target{Point: geom.Point{X: r.X, Y: r.Y}, Rect: r, Forward: loc.Forward, Location: loc}, nil
}

// caretRect probes increasingly generous windows around offset: the
// zero-width caret, the character after, the character before, ordered
// by the tie-break. When every window at offset is empty it retries
// once at offset-1, which tolerates addressing the position one past
// the last character. before reports that the winning window was the
// character before the offset.
func caretRect(text dom.Node, offset int, forward bool) (geom.Rect, bool, bool) {
	length := dom.TextLength(text)
	probe := func(off int) (geom.Rect, bool, bool) {
		type window struct {
			start, end int
		}
		var windows []window
		after := window{off, off + 1}
		before := window{off - 1, off}
		windows = append(windows, window{off, off})
		if forward {
			windows = append(windows, after, before)
		} else {
			windows = append(windows, before, after)
		}
		for _, w := range windows {
			if w.start < 0 || w.end > length {
				continue
			}
			if rects := text.RangeRects(w.start, w.end); len(rects) > 0 {
				return rects[0], w.end == off && w.start < w.end, true
			}
		}
		return geom.Rect{}, false, false
	}

	if r, before, ok := probe(offset); ok {
		return r, before, ok
	}
	if offset > 0 {
		if r, _, ok := probe(offset - 1); ok {
			return r, true, ok
		}
	}
	return geom.Rect{}, false, false
}

// seekMedia applies a temporal offset, clamped to the medium's defined
// range, deferring exactly once while the medium is not seekable.
func seekMedia(m dom.Media, t float64) {
	if dur, timed := m.Duration(); timed {
		if t < 0 {
			t = 0
		}
		if dur > 0 && t > dur {
			t = dur
		}
	}
	if m.Seekable() {
		m.Seek(t)
		return
	}
	logger.Debug("deferring seek until medium is seekable", "time", t)
	m.OnSeekable(func() { m.Seek(t) })
}

// formatNum renders a fractional offset with at most two decimals and
// no trailing zeros, the byte-stable interchange form.
func formatNum(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}

// describeNode names a node for diagnostics.
func describeNode(n dom.Node) string {
	if n == nil {
		return "nil"
	}
	if id := n.ID(); id != "" {
		return "#" + id
	}
	return fmt.Sprintf("kind %d", n.Kind())
}
