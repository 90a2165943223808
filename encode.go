package cfi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/haroruhomer/cfi/dom"
)

// NoOffset marks an absent character offset in Encode calls.
const NoOffset = -1

// Encode builds the pointer string addressing node relative to root.
// offset is a character offset for text-like nodes (NoOffset when
// absent); for an element node it instead names a child index to
// descend into. tail is an already-encoded suffix (temporal or spatial
// fragments) appended after the path.
//
// Encoding is best effort: an unaddressable node kind yields the bare
// tail plus ErrUnsupportedNode, and a node that cannot reach root
// yields the partial path built so far.
func Encode(root, node dom.Node, offset int, tail string) (string, error) {
	var b strings.Builder

	switch {
	case node.Kind() == dom.ElementKind || node.Kind() == dom.DocumentKind:
		if offset != NoOffset {
			// Addressing "offset into children": step into the child
			// at that index when it is itself an element, so element
			// offsets and text offsets encode uniformly.
			kids := node.Children()
			if offset >= 0 && offset < len(kids) && kids[offset].Kind() == dom.ElementKind {
				node = kids[offset]
			}
			offset = NoOffset
		}
	case node.Kind().TextLike():
		if offset == NoOffset {
			offset = 0
		}
		// Runtime text splitting leaves adjacent fragments behind.
		// Fold preceding text-like siblings into one logical run so
		// the encoded offset is stable against the split points.
		// Comments are stepped over without contributing length.
		for {
			prev := dom.PrevSibling(node)
			if prev == nil {
				break
			}
			if prev.Kind().TextLike() {
				offset += dom.TextLength(prev)
			} else if prev.Kind() != dom.CommentKind {
				break
			}
			node = prev
		}
	default:
		return tail, fmt.Errorf("%w: kind %d", ErrUnsupportedNode, node.Kind())
	}

	if offset != NoOffset {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(offset))
	}
	b.WriteString(tail)
	suffix := b.String()

	var steps []string
	for node != root {
		parent := node.Parent()
		if parent == nil {
			doc, ok := node.(dom.Document)
			if !ok || doc.HostElement() == nil {
				// Detached from root; return the partial path.
				break
			}
			// A whole embedded sub-document: escalate to the host
			// element and record the boundary crossing.
			node = doc.HostElement()
			steps = append(steps, "!")
			continue
		}
		idx, ok := siblingIndex(parent, node)
		if !ok {
			break
		}
		step := "/" + strconv.Itoa(idx)
		if id := node.ID(); id != "" {
			step += "[" + Escape(id) + "]"
		}
		steps = append(steps, step)
		node = parent
	}

	var out strings.Builder
	for i := len(steps) - 1; i >= 0; i-- {
		out.WriteString(steps[i])
	}
	out.WriteString(suffix)
	return out.String(), nil
}

// siblingIndex computes the parity-counted position of child within
// parent: the counter is raised to the next odd value for every child
// and once more for elements, so elements always land on even indices
// and positions between elements on odd ones.
func siblingIndex(parent, child dom.Node) (int, bool) {
	index := 0
	for _, c := range parent.Children() {
		index |= 1
		if c.Kind() == dom.ElementKind {
			index++
		}
		if c == child {
			return index, true
		}
	}
	return 0, false
}
