// Package htmldom adapts an HTML document parsed with golang.org/x/net/html
// to the dom interfaces. Geometry comes from a deliberately simple
// monospace flow layout (see Layout); hosts with a real renderer keep
// their own measurements and implement dom directly instead.
//
// iframe elements with a srcdoc attribute become embedded
// sub-documents, img/video/audio become media leaves.
package htmldom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"

	"github.com/haroruhomer/cfi/dom"
	"github.com/haroruhomer/cfi/geom"
)

var idExpr = xpath.MustCompile(`//*[@id]`)

type base struct {
	doc    *Document
	raw    *html.Node
	parent dom.Node
	kids   []dom.Node
}

func (b *base) Parent() dom.Node     { return b.parent }
func (b *base) Children() []dom.Node { return b.kids }
func (b *base) ID() string           { return "" }
func (b *base) Text() string         { return "" }
func (b *base) Rects() []geom.Rect   { return nil }
func (b *base) RangeRects(start, end int) []geom.Rect { return nil }

// Element wraps an HTML element.
type Element struct {
	base
	rect    geom.Rect
	hasRect bool
}

func (e *Element) Kind() dom.Kind { return dom.ElementKind }

func (e *Element) ID() string { return attr(e.raw, "id") }

// TagName returns the lower-case element name.
func (e *Element) TagName() string { return e.raw.Data }

func (e *Element) Rects() []geom.Rect {
	if !e.hasRect {
		return nil
	}
	return []geom.Rect{e.rect}
}

// Text wraps a text leaf. Geometry is a list of line segments assigned
// by the flow layout.
type Text struct {
	base
	runes []rune
	segs  []segment
}

type segment struct {
	start int
	end   int
	rect  geom.Rect
}

func (t *Text) Kind() dom.Kind { return dom.TextKind }
func (t *Text) Text() string   { return string(t.runes) }

func (t *Text) Rects() []geom.Rect {
	return t.RangeRects(0, len(t.runes))
}

func (t *Text) RangeRects(start, end int) []geom.Rect {
	if start < 0 || end > len(t.runes) || start > end {
		return nil
	}
	if start == end {
		for _, s := range t.segs {
			if start >= s.start && start <= s.end {
				w := s.rect.W / float64(s.end-s.start)
				return []geom.Rect{{
					X: s.rect.X + float64(start-s.start)*w,
					Y: s.rect.Y,
					W: 0,
					H: s.rect.H,
				}}
			}
		}
		return nil
	}
	var rects []geom.Rect
	for _, s := range t.segs {
		lo, hi := start, end
		if lo < s.start {
			lo = s.start
		}
		if hi > s.end {
			hi = s.end
		}
		if lo >= hi {
			continue
		}
		w := s.rect.W / float64(s.end-s.start)
		rects = append(rects, geom.Rect{
			X: s.rect.X + float64(lo-s.start)*w,
			Y: s.rect.Y,
			W: float64(hi-lo) * w,
			H: s.rect.H,
		})
	}
	return rects
}

// Comment wraps comments and doctype nodes; both sit outside the
// text-like family but still occupy sibling positions.
type Comment struct {
	base
	text string
}

func (c *Comment) Kind() dom.Kind { return dom.CommentKind }
func (c *Comment) Text() string   { return c.text }

// MediaElement wraps img, video, and audio. Intrinsic size comes from
// the width/height attributes, the time dimension from a duration
// attribute on video/audio. Seeks record the playback position.
type MediaElement struct {
	Element
	intrinsicW float64
	intrinsicH float64
	duration   float64
	timed      bool
	ready      bool
	position   float64
	pending    []func()
}

func (m *MediaElement) IntrinsicSize() (float64, float64) { return m.intrinsicW, m.intrinsicH }

func (m *MediaElement) Duration() (float64, bool) { return m.duration, m.timed }

func (m *MediaElement) CurrentTime() float64 { return m.position }

func (m *MediaElement) Seekable() bool { return m.ready }

func (m *MediaElement) Seek(t float64) { m.position = t }

func (m *MediaElement) OnSeekable(fn func()) {
	if m.ready {
		fn()
		return
	}
	m.pending = append(m.pending, fn)
}

// SetReady marks the medium seekable and runs deferred seeks.
func (m *MediaElement) SetReady() {
	m.ready = true
	for _, fn := range m.pending {
		fn()
	}
	m.pending = nil
}

// FrameElement wraps an iframe whose srcdoc parsed into an embedded
// sub-document.
type FrameElement struct {
	Element
	sub *Document
}

func (f *FrameElement) ContentDocument() dom.Document {
	if f.sub == nil {
		return nil
	}
	return f.sub
}

// Document wraps a whole parsed document.
type Document struct {
	base
	host    dom.Node
	scroll  geom.Point
	extentW float64
	extentH float64
	byID    map[string]dom.Node
}

func (d *Document) Kind() dom.Kind { return dom.DocumentKind }

func (d *Document) Root() dom.Node {
	for _, k := range d.kids {
		if k.Kind() == dom.ElementKind {
			return k
		}
	}
	return nil
}

func (d *Document) HostElement() dom.Node { return d.host }

func (d *Document) ElementByID(id string) dom.Node {
	if id == "" {
		return nil
	}
	return d.byID[id]
}

func (d *Document) ElementAt(x, y float64) dom.Node {
	p := geom.Point{X: x, Y: y}
	var deepest dom.Node
	var walk func(n dom.Node)
	walk = func(n dom.Node) {
		if n.Kind() == dom.ElementKind && geom.AnyContains(n.Rects(), p) {
			deepest = n
			if f, ok := n.(*FrameElement); ok && f.sub != nil {
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

func (d *Document) Scroll() geom.Point { return d.scroll }

// SetScroll records the current scroll offset.
func (d *Document) SetScroll(p geom.Point) { d.scroll = p }

func (d *Document) Extent() (float64, float64) { return d.extentW, d.extentH }

// Parse reads and wraps an HTML document.
func Parse(src string) (*Document, error) {
	raw, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return wrapDocument(raw, nil), nil
}

func wrapDocument(raw *html.Node, host dom.Node) *Document {
	d := &Document{host: host, byID: make(map[string]dom.Node)}
	d.base.doc = d
	d.base.raw = raw
	for c := raw.FirstChild; c != nil; c = c.NextSibling {
		if k := wrapNode(d, d, c); k != nil {
			d.kids = append(d.kids, k)
		}
	}
	d.indexIDs()
	return d
}

// indexIDs resolves every element carrying an id attribute to its
// wrapper, using a compiled xpath query over the raw tree.
func (d *Document) indexIDs() {
	wrappers := make(map[*html.Node]dom.Node)
	var collect func(n dom.Node)
	collect = func(n dom.Node) {
		switch w := n.(type) {
		case *Element:
			wrappers[w.raw] = n
		case *MediaElement:
			wrappers[w.raw] = n
		case *FrameElement:
			wrappers[w.raw] = n
		}
		for _, k := range n.Children() {
			collect(k)
		}
	}
	for _, k := range d.kids {
		collect(k)
	}
	for _, raw := range htmlquery.QuerySelectorAll(d.raw, idExpr) {
		id := attr(raw, "id")
		if id == "" {
			continue
		}
		if w, ok := wrappers[raw]; ok {
			if _, dup := d.byID[id]; !dup {
				d.byID[id] = w
			}
		}
	}
}

func wrapNode(d *Document, parent dom.Node, raw *html.Node) dom.Node {
	switch raw.Type {
	case html.ElementNode:
		switch raw.Data {
		case "img", "video", "audio":
			m := &MediaElement{}
			m.base = base{doc: d, raw: raw, parent: parent}
			m.intrinsicW = attrFloat(raw, "width", 100)
			m.intrinsicH = attrFloat(raw, "height", 100)
			if raw.Data != "img" {
				m.timed = true
				m.duration = attrFloat(raw, "duration", 0)
			}
			m.ready = true
			return m
		case "iframe":
			f := &FrameElement{}
			f.base = base{doc: d, raw: raw, parent: parent}
			if srcdoc := attr(raw, "srcdoc"); srcdoc != "" {
				if sub, err := html.Parse(strings.NewReader(srcdoc)); err == nil {
					f.sub = wrapDocument(sub, f)
				}
			}
			return f
		}
		e := &Element{}
		e.base = base{doc: d, raw: raw, parent: parent}
		for c := raw.FirstChild; c != nil; c = c.NextSibling {
			if k := wrapNode(d, e, c); k != nil {
				e.kids = append(e.kids, k)
			}
		}
		return e
	case html.TextNode:
		t := &Text{runes: []rune(raw.Data)}
		t.base = base{doc: d, raw: raw, parent: parent}
		return t
	case html.CommentNode, html.DoctypeNode:
		c := &Comment{text: raw.Data}
		c.base = base{doc: d, raw: raw, parent: parent}
		return c
	default:
		return nil
	}
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func attrFloat(n *html.Node, name string, fallback float64) float64 {
	v := attr(n, name)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}
