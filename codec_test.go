package cfi

import (
	"errors"
	"strings"
	"testing"

	"github.com/haroruhomer/cfi/dom"
	"github.com/haroruhomer/cfi/dom/domtest"
	"github.com/haroruhomer/cfi/geom"
)

func r(x, y, w, h float64) geom.Rect {
	return geom.Rect{X: x, Y: y, W: w, H: h}
}

func TestSiblingIndexParity(t *testing.T) {
	textA := domtest.NewText("a")
	elemB := domtest.NewElem("", r(0, 0, 10, 10))
	textC := domtest.NewText("c")
	elemD := domtest.NewElem("", r(0, 10, 10, 10))
	parent := domtest.NewElem("", r(0, 0, 20, 20), textA, elemB, textC, elemD)

	cases := []struct {
		child dom.Node
		want  int
	}{
		{textA, 1},
		{elemB, 2},
		{textC, 3},
		{elemD, 4},
	}
	for _, c := range cases {
		got, ok := siblingIndex(parent, c.child)
		if !ok || got != c.want {
			t.Fatalf("siblingIndex = %d (ok=%v), want %d", got, ok, c.want)
		}
		if back := childAtIndex(parent, c.want); back != c.child {
			t.Fatalf("childAtIndex(%d) did not return the encoded child", c.want)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	lorem := domtest.NewText("Lorem ipsum")
	p := domtest.NewElem("", r(0, 0, 100, 20), lorem)
	body := domtest.NewElem("", r(0, 0, 100, 100), domtest.NewText("x"), p)
	html := domtest.NewElem("", r(0, 0, 100, 100), body)
	doc := domtest.NewDoc(html)

	ptr, err := Encode(doc, lorem, 5, "")
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if ptr != "/2/2/2/1:5" {
		t.Fatalf("Encode = %q, want %q", ptr, "/2/2/2/1:5")
	}

	loc, err := Decode(ptr, doc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if loc.Node != lorem || loc.Offset != 5 || !loc.HasOffset {
		t.Fatalf("Decode = node %v offset %d, want the encoded location", loc.Node, loc.Offset)
	}
	if len(loc.Warnings) != 0 {
		t.Fatalf("Decode warnings = %v, want none", loc.Warnings)
	}
}

func TestEncodeIncludesIDAssertions(t *testing.T) {
	text := domtest.NewText("body text")
	body := domtest.NewElem("main[1]", r(0, 0, 100, 100), text)
	html := domtest.NewElem("", r(0, 0, 100, 100), body)
	doc := domtest.NewDoc(html)

	ptr, err := Encode(doc, text, 0, "")
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if ptr != "/2/2[main^[1^]]/1:0" {
		t.Fatalf("Encode = %q, want escaped id assertion", ptr)
	}
	loc, err := Decode(ptr, doc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if loc.Node != text {
		t.Fatalf("Decode did not round-trip through the escaped assertion")
	}
}

func TestEncodeElementOffsetDescends(t *testing.T) {
	inner := domtest.NewElem("", r(0, 0, 10, 10))
	outer := domtest.NewElem("", r(0, 0, 100, 100), domtest.NewText("pad"), inner)
	doc := domtest.NewDoc(domtest.NewElem("", r(0, 0, 100, 100), outer))

	// offset 1 names outer's second child, which is an element
	ptr, err := Encode(doc, outer, 1, "")
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	loc, err := Decode(ptr, doc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if loc.Node != inner {
		t.Fatalf("Decode = %v, want the descended element", loc.Node)
	}
}

func TestEncodeMergesSplitTextRuns(t *testing.T) {
	ab := domtest.NewText("ab")
	cd := domtest.NewText("cd")
	note := domtest.NewComment("note")
	ef := domtest.NewText("ef")
	p := domtest.NewElem("", r(0, 0, 100, 20), ab, cd, note, ef)
	doc := domtest.NewDoc(domtest.NewElem("", r(0, 0, 100, 100), p))

	ptr, err := Encode(doc, ef, 1, "")
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	// the run folds back to the first fragment: 2 + 2 + 1
	if !strings.HasSuffix(ptr, "/1:5") {
		t.Fatalf("Encode = %q, want a merged offset of 5 on the first fragment", ptr)
	}

	loc, err := Decode(ptr, doc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if loc.Node != ef || loc.Offset != 1 {
		t.Fatalf("Decode = %v:%d, want the third fragment at offset 1", loc.Node, loc.Offset)
	}
}

func TestDecodeBoundaryTieBreak(t *testing.T) {
	abc := domtest.NewText("abc")
	def := domtest.NewText("def")
	p := domtest.NewElem("", r(0, 0, 100, 20), abc, def)
	doc := domtest.NewDoc(domtest.NewElem("", r(0, 0, 100, 100), p))

	// default tie-break prefers the start of the next fragment
	loc, err := Decode("/2/2/1:3", doc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if loc.Node != def || loc.Offset != 0 {
		t.Fatalf("Decode = %v:%d, want next fragment at 0", loc.Node, loc.Offset)
	}

	// s=a keeps the offset at the end of the current fragment
	loc, err = Decode("/2/2/1:3[;s=a]", doc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if loc.Node != abc || loc.Offset != 3 {
		t.Fatalf("Decode = %v:%d, want same fragment at 3", loc.Node, loc.Offset)
	}
	if loc.Forward {
		t.Fatalf("Forward = true, want false for s=a")
	}
}

func TestDecodeScenarioPath(t *testing.T) {
	big := domtest.NewText("0123456789abcdef")
	c := domtest.NewElem("", r(0, 0, 50, 20), big)
	b := domtest.NewElem("", r(0, 0, 100, 50), domtest.NewText("abc"), c)
	a := domtest.NewElem("", r(0, 50, 100, 50))
	root := domtest.NewElem("", r(0, 0, 100, 100), a, b)
	domtest.NewDoc(root)

	loc, err := Decode("/4/2:10", root)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if loc.Node != big || loc.Offset != 10 {
		t.Fatalf("Decode = %v:%d, want the long text at offset 10", loc.Node, loc.Offset)
	}
}

func TestDecodeIDRecovery(t *testing.T) {
	target := domtest.NewElem("anchor", r(0, 0, 10, 10))
	other := domtest.NewElem("", r(0, 10, 10, 10))
	root := domtest.NewElem("", r(0, 0, 100, 100), other, target)
	doc := domtest.NewDoc(root)

	// no child occupies step 8; the assertion recovers document-wide
	loc, err := Decode("/2/8[anchor]", doc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if loc.Node != target {
		t.Fatalf("Decode = %v, want recovery through the id assertion", loc.Node)
	}
}

func TestDecodeAssertionOverridesPosition(t *testing.T) {
	first := domtest.NewElem("a", r(0, 0, 10, 10))
	second := domtest.NewElem("b", r(0, 10, 10, 10))
	root := domtest.NewElem("", r(0, 0, 100, 100), first, second)
	doc := domtest.NewDoc(root)

	// step 2 computes to the first element, the assertion disagrees
	loc, err := Decode("/2/2[b]", doc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if loc.Node != second {
		t.Fatalf("Decode = %v, want the asserted element", loc.Node)
	}
}

func TestDecodeNoMatchingChild(t *testing.T) {
	root := domtest.NewElem("", r(0, 0, 100, 100), domtest.NewElem("", r(0, 0, 10, 10)))
	domtest.NewDoc(root)

	_, err := Decode("/8", root)
	if !errors.Is(err, ErrNoMatchingChild) {
		t.Fatalf("Decode error = %v, want ErrNoMatchingChild", err)
	}
}

func TestDecodeCannotDescend(t *testing.T) {
	root := domtest.NewElem("", r(0, 0, 100, 100), domtest.NewElem("", r(0, 0, 10, 10)))
	domtest.NewDoc(root)

	_, err := Decode("/2!/2", root)
	if !errors.Is(err, ErrCannotDescend) {
		t.Fatalf("Decode error = %v, want ErrCannotDescend", err)
	}
}

func TestIndirectionRoundTrip(t *testing.T) {
	inner := domtest.NewText("embedded words")
	subBody := domtest.NewElem("", r(10, 10, 80, 30), inner)
	subRoot := domtest.NewElem("", r(10, 10, 80, 80), subBody)
	sub := domtest.NewDoc(subRoot)
	frame := domtest.NewFrame("frame", r(10, 10, 80, 80), sub)
	root := domtest.NewElem("", r(0, 0, 100, 100), frame)
	doc := domtest.NewDoc(root)

	ptr, err := Encode(doc, inner, 3, "")
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if !strings.Contains(ptr, "!") {
		t.Fatalf("Encode = %q, want an indirection marker", ptr)
	}

	loc, err := Decode(ptr, doc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if loc.Node != inner || loc.Offset != 3 {
		t.Fatalf("Decode = %v:%d, want the embedded text at 3", loc.Node, loc.Offset)
	}
}

func TestDecodeOffsetOutOfRange(t *testing.T) {
	text := domtest.NewText("short")
	p := domtest.NewElem("", r(0, 0, 100, 20), text)
	doc := domtest.NewDoc(domtest.NewElem("", r(0, 0, 100, 100), p))

	loc, err := Decode("/2/2/1:99", doc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if loc.Node != text || loc.Offset != 5 {
		t.Fatalf("Decode = %v:%d, want clamp to end of text", loc.Node, loc.Offset)
	}
	if len(loc.Warnings) == 0 || !errors.Is(loc.Warnings[0], ErrOffsetOutOfRange) {
		t.Fatalf("Warnings = %v, want ErrOffsetOutOfRange", loc.Warnings)
	}
}

func TestDecodeUndecodedSuffix(t *testing.T) {
	p := domtest.NewElem("", r(0, 0, 100, 20), domtest.NewText("x"))
	doc := domtest.NewDoc(domtest.NewElem("", r(0, 0, 100, 100), p))

	loc, err := Decode("/2/2/1:0 trailing", doc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	found := false
	for _, w := range loc.Warnings {
		if errors.Is(w, ErrUndecodedSuffix) {
			found = true
		}
	}
	if !found {
		t.Fatalf("Warnings = %v, want ErrUndecodedSuffix", loc.Warnings)
	}
	if loc.Node == nil || !loc.HasOffset {
		t.Fatalf("partially decoded location should still be usable, got %+v", loc)
	}
}

func TestDecodeTailFragments(t *testing.T) {
	media := domtest.NewVideo("v", r(0, 0, 100, 50), 100, 50, 60, true)
	root := domtest.NewElem("", r(0, 0, 100, 100), media)
	doc := domtest.NewDoc(root)

	loc, err := Decode("/2/2[v]~12.5@25:75.5", doc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if loc.Node != media {
		t.Fatalf("Decode node = %v, want the media element", loc.Node)
	}
	if !loc.HasTemporal || loc.Temporal != 12.5 {
		t.Fatalf("Temporal = %v (has=%v), want 12.5", loc.Temporal, loc.HasTemporal)
	}
	if !loc.HasSpatial || loc.SpatialX != 25 || loc.SpatialY != 75.5 {
		t.Fatalf("Spatial = %v:%v (has=%v), want 25:75.5", loc.SpatialX, loc.SpatialY, loc.HasSpatial)
	}
}

func TestEncodeUnsupportedNode(t *testing.T) {
	note := domtest.NewComment("nothing to address")
	doc := domtest.NewDoc(domtest.NewElem("", r(0, 0, 100, 100), note))

	ptr, err := Encode(doc, note, NoOffset, "~5")
	if !errors.Is(err, ErrUnsupportedNode) {
		t.Fatalf("Encode error = %v, want ErrUnsupportedNode", err)
	}
	if ptr != "~5" {
		t.Fatalf("Encode = %q, want the bare tail", ptr)
	}
}
