// Package domtest provides an in-memory dom implementation with
// hand-assigned geometry. Tests build small trees with explicit
// rectangles and monospace text metrics instead of a real renderer.
package domtest

import (
	"github.com/haroruhomer/cfi/dom"
	"github.com/haroruhomer/cfi/geom"
)

type base struct {
	parent dom.Node
	kids   []dom.Node
}

func (b *base) Parent() dom.Node      { return b.parent }
func (b *base) Children() []dom.Node  { return b.kids }
func (b *base) ID() string            { return "" }
func (b *base) Text() string          { return "" }
func (b *base) Rects() []geom.Rect    { return nil }
func (b *base) RangeRects(start, end int) []geom.Rect { return nil }

func (b *base) adopt(parent dom.Node, kids []dom.Node) {
	b.kids = kids
	for _, k := range kids {
		switch c := k.(type) {
		case *Elem:
			c.parent = parent
		case *TextNode:
			c.parent = parent
		case *CommentNode:
			c.parent = parent
		case *PINode:
			c.parent = parent
		case *MediaNode:
			c.parent = parent
		case *Frame:
			c.parent = parent
		}
	}
}

// Elem is an element with an optional id and a single bounding rect.
type Elem struct {
	base
	id   string
	rect geom.Rect
}

// NewElem builds an element node.
func NewElem(id string, rect geom.Rect, kids ...dom.Node) *Elem {
	e := &Elem{id: id, rect: rect}
	e.adopt(e, kids)
	return e
}

func (e *Elem) Kind() dom.Kind     { return dom.ElementKind }
func (e *Elem) ID() string         { return e.id }
func (e *Elem) Rects() []geom.Rect { return []geom.Rect{e.rect} }

// TextNode is a text leaf laid out on a monospace grid: characters
// flow from Origin, CharW by CharH each, wrapping after Cols characters
// when Cols > 0. Zero CharW means the node has no geometry.
type TextNode struct {
	base
	kind   dom.Kind
	text   []rune
	Origin geom.Point
	CharW  float64
	CharH  float64
	Cols   int
}

// NewText builds a text leaf without geometry.
func NewText(s string) *TextNode {
	return &TextNode{kind: dom.TextKind, text: []rune(s)}
}

// NewTextAt builds a text leaf with monospace geometry.
func NewTextAt(s string, origin geom.Point, charW, charH float64, cols int) *TextNode {
	return &TextNode{kind: dom.TextKind, text: []rune(s), Origin: origin, CharW: charW, CharH: charH, Cols: cols}
}

// NewCDATA builds a character-data leaf without geometry.
func NewCDATA(s string) *TextNode {
	return &TextNode{kind: dom.CDATAKind, text: []rune(s)}
}

func (t *TextNode) Kind() dom.Kind { return t.kind }
func (t *TextNode) Text() string   { return string(t.text) }

func (t *TextNode) Rects() []geom.Rect {
	return t.RangeRects(0, len(t.text))
}

func (t *TextNode) RangeRects(start, end int) []geom.Rect {
	if t.CharW == 0 || start < 0 || end > len(t.text) || start > end {
		return nil
	}
	line := func(i int) int {
		if t.Cols <= 0 {
			return 0
		}
		return i / t.Cols
	}
	col := func(i int) int {
		if t.Cols <= 0 {
			return i
		}
		return i % t.Cols
	}
	if start == end {
		return []geom.Rect{{
			X: t.Origin.X + float64(col(start))*t.CharW,
			Y: t.Origin.Y + float64(line(start))*t.CharH,
			W: 0,
			H: t.CharH,
		}}
	}
	var rects []geom.Rect
	i := start
	for i < end {
		ln := line(i)
		stop := end
		if t.Cols > 0 {
			if eol := (ln + 1) * t.Cols; eol < stop {
				stop = eol
			}
		}
		rects = append(rects, geom.Rect{
			X: t.Origin.X + float64(col(i))*t.CharW,
			Y: t.Origin.Y + float64(ln)*t.CharH,
			W: float64(stop-i) * t.CharW,
			H: t.CharH,
		})
		i = stop
	}
	return rects
}

// CommentNode is a comment leaf.
type CommentNode struct {
	base
	text string
}

// NewComment builds a comment node.
func NewComment(s string) *CommentNode { return &CommentNode{text: s} }

func (c *CommentNode) Kind() dom.Kind { return dom.CommentKind }
func (c *CommentNode) Text() string   { return c.text }

// PINode is a processing instruction leaf.
type PINode struct {
	base
	text string
}

// NewPI builds a processing-instruction node.
func NewPI(s string) *PINode { return &PINode{text: s} }

func (p *PINode) Kind() dom.Kind { return dom.ProcessingInstructionKind }
func (p *PINode) Text() string   { return p.text }

// MediaNode is an image/video/audio-class leaf. Seeks are recorded so
// tests can observe them; while not Ready, OnSeekable callbacks queue.
type MediaNode struct {
	base
	id         string
	rect       geom.Rect
	intrinsicW float64
	intrinsicH float64
	duration   float64
	timed      bool
	ready      bool

	Position  float64
	SeekCount int
	pending   []func()
}

// NewImage builds an image leaf (no time dimension).
func NewImage(id string, rect geom.Rect, iw, ih float64) *MediaNode {
	return &MediaNode{id: id, rect: rect, intrinsicW: iw, intrinsicH: ih, ready: true}
}

// NewVideo builds a timed media leaf.
func NewVideo(id string, rect geom.Rect, iw, ih, duration float64, ready bool) *MediaNode {
	return &MediaNode{id: id, rect: rect, intrinsicW: iw, intrinsicH: ih, duration: duration, timed: true, ready: ready}
}

func (m *MediaNode) Kind() dom.Kind     { return dom.ElementKind }
func (m *MediaNode) ID() string         { return m.id }
func (m *MediaNode) Rects() []geom.Rect { return []geom.Rect{m.rect} }

func (m *MediaNode) IntrinsicSize() (float64, float64) { return m.intrinsicW, m.intrinsicH }

func (m *MediaNode) Duration() (float64, bool) { return m.duration, m.timed }

func (m *MediaNode) CurrentTime() float64 { return m.Position }

func (m *MediaNode) Seekable() bool { return m.ready }

func (m *MediaNode) Seek(t float64) {
	m.Position = t
	m.SeekCount++
}

func (m *MediaNode) OnSeekable(fn func()) {
	if m.ready {
		fn()
		return
	}
	m.pending = append(m.pending, fn)
}

// MakeSeekable flips the node to ready and runs queued callbacks.
func (m *MediaNode) MakeSeekable() {
	m.ready = true
	for _, fn := range m.pending {
		fn()
	}
	m.pending = nil
}

// Frame is an element hosting an embedded sub-document.
type Frame struct {
	base
	id   string
	rect geom.Rect
	sub  *Doc
}

// NewFrame builds a host element around sub.
func NewFrame(id string, rect geom.Rect, sub *Doc) *Frame {
	f := &Frame{id: id, rect: rect, sub: sub}
	if sub != nil {
		sub.host = f
	}
	return f
}

func (f *Frame) Kind() dom.Kind     { return dom.ElementKind }
func (f *Frame) ID() string         { return f.id }
func (f *Frame) Rects() []geom.Rect { return []geom.Rect{f.rect} }

func (f *Frame) ContentDocument() dom.Document {
	if f.sub == nil {
		return nil
	}
	return f.sub
}

// Doc is a document node. Scroll and Extent are settable for scanner
// tests.
type Doc struct {
	base
	host    *Frame
	scroll  geom.Point
	extentW float64
	extentH float64
}

// NewDoc builds a document around its top-level nodes.
func NewDoc(kids ...dom.Node) *Doc {
	d := &Doc{}
	d.adopt(d, kids)
	return d
}

func (d *Doc) Kind() dom.Kind { return dom.DocumentKind }

func (d *Doc) Root() dom.Node {
	for _, k := range d.kids {
		if k.Kind() == dom.ElementKind {
			return k
		}
	}
	return nil
}

func (d *Doc) HostElement() dom.Node {
	if d.host == nil {
		return nil
	}
	return d.host
}

func (d *Doc) ElementByID(id string) dom.Node {
	if id == "" {
		return nil
	}
	var find func(n dom.Node) dom.Node
	find = func(n dom.Node) dom.Node {
		if n.Kind() == dom.ElementKind && n.ID() == id {
			return n
		}
		for _, k := range n.Children() {
			if got := find(k); got != nil {
				return got
			}
		}
		return nil
	}
	for _, k := range d.kids {
		if got := find(k); got != nil {
			return got
		}
	}
	return nil
}

func (d *Doc) ElementAt(x, y float64) dom.Node {
	p := geom.Point{X: x, Y: y}
	var deepest dom.Node
	var walk func(n dom.Node)
	walk = func(n dom.Node) {
		if n.Kind() == dom.ElementKind && geom.AnyContains(n.Rects(), p) {
			deepest = n
			if f, ok := n.(*Frame); ok && f.sub != nil {
				if inner := f.sub.ElementAt(x, y); inner != nil {
					deepest = inner
				}
				return
			}
		}
		for _, k := range n.Children() {
			walk(k)
		}
	}
	for _, k := range d.kids {
		walk(k)
	}
	return deepest
}

func (d *Doc) Scroll() geom.Point { return d.scroll }

// SetScroll sets the document scroll offset.
func (d *Doc) SetScroll(p geom.Point) { d.scroll = p }

func (d *Doc) Extent() (float64, float64) { return d.extentW, d.extentH }

// SetExtent sets the scrollable document size.
func (d *Doc) SetExtent(w, h float64) {
	d.extentW = w
	d.extentH = h
}
