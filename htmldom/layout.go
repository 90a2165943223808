package htmldom

import (
	"strings"

	"github.com/haroruhomer/cfi/dom"
	"github.com/haroruhomer/cfi/geom"
)

// LayoutOptions sizes the monospace flow layout. Zero values take
// defaults.
type LayoutOptions struct {
	CharWidth  float64
	CharHeight float64
	PageWidth  float64
}

func (o LayoutOptions) withDefaults() LayoutOptions {
	if o.CharWidth <= 0 {
		o.CharWidth = 8
	}
	if o.CharHeight <= 0 {
		o.CharHeight = 16
	}
	if o.PageWidth <= 0 {
		o.PageWidth = 640
	}
	return o
}

// Layout assigns rectangles to the whole document with a monospace
// flow: block elements stack vertically, text wraps at the available
// column width (one rect per wrapped line segment), media boxes take
// their intrinsic size, iframes lay out their sub-document inside their
// own box. This is a measurement stub standing in for a renderer, not
// a CSS engine: every element is a block and every glyph is one cell.
func (d *Document) Layout(opts LayoutOptions) {
	o := opts.withDefaults()
	d.layoutAt(0, 0, o.PageWidth, o)
}

func (d *Document) layoutAt(x, y, width float64, o LayoutOptions) float64 {
	h := 0.0
	if root := d.Root(); root != nil {
		h = layoutNode(root, x, y, width, o)
	}
	d.extentW = width
	d.extentH = h
	return h
}

func layoutNode(n dom.Node, x, y, width float64, o LayoutOptions) float64 {
	switch w := n.(type) {
	case *MediaElement:
		bw := w.intrinsicW
		if bw > width {
			bw = width
		}
		w.rect = geom.Rect{X: x, Y: y, W: bw, H: w.intrinsicH}
		w.hasRect = true
		return w.intrinsicH
	case *FrameElement:
		bw := attrFloat(w.raw, "width", 300)
		bh := attrFloat(w.raw, "height", 150)
		if bw > width {
			bw = width
		}
		w.rect = geom.Rect{X: x, Y: y, W: bw, H: bh}
		w.hasRect = true
		if w.sub != nil {
			w.sub.layoutAt(x, y, bw, o)
		}
		return bh
	case *Element:
		return layoutElement(w, x, y, width, o)
	}
	return 0
}

// layoutElement flows the element's children: text-like runs share a
// wrapping line cursor, element children each break the line and stack
// as blocks.
func layoutElement(e *Element, x, y, width float64, o LayoutOptions) float64 {
	if isInvisible(e) {
		e.hasRect = false
		return 0
	}
	cols := int(width / o.CharWidth)
	if cols < 1 {
		cols = 1
	}
	col := 0
	curY := y

	breakLine := func() {
		if col > 0 {
			col = 0
			curY += o.CharHeight
		}
	}

	for _, child := range e.kids {
		switch c := child.(type) {
		case *Text:
			c.segs = nil
			if strings.TrimSpace(string(c.runes)) == "" {
				// inter-tag whitespace keeps its sibling position but
				// takes no space
				continue
			}
			i := 0
			for i < len(c.runes) {
				take := cols - col
				if rest := len(c.runes) - i; rest < take {
					take = rest
				}
				c.segs = append(c.segs, segment{
					start: i,
					end:   i + take,
					rect: geom.Rect{
						X: x + float64(col)*o.CharWidth,
						Y: curY,
						W: float64(take) * o.CharWidth,
						H: o.CharHeight,
					},
				})
				i += take
				col += take
				if col >= cols {
					col = 0
					curY += o.CharHeight
				}
			}
		case *Comment:
			// occupies a sibling position, no geometry
		default:
			breakLine()
			curY += layoutNode(child, x, curY, width, o)
		}
	}
	breakLine()

	h := curY - y
	if h == 0 && !isInvisible(e) {
		h = o.CharHeight
	}
	e.rect = geom.Rect{X: x, Y: y, W: width, H: h}
	e.hasRect = true
	return h
}

// isInvisible covers the head-side elements the flow layout gives no
// extent.
func isInvisible(e *Element) bool {
	switch e.raw.Data {
	case "head", "title", "meta", "link", "style", "script", "base":
		return true
	}
	return false
}
