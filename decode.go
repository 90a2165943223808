package cfi

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/haroruhomer/cfi/dom"
	"github.com/haroruhomer/cfi/internal/logger"
)

// Location is a decoded tree position. Warnings carries the non-fatal
// diagnostics (clamped offsets, trailing content) attached while the
// location itself stayed usable.
type Location struct {
	Node      dom.Node
	Offset    int
	HasOffset bool
	// Forward is the boundary tie-break: true resolves an offset at a
	// fragment boundary into the start of the next fragment, false
	// keeps it at the end of the current one.
	Forward     bool
	Temporal    float64
	HasTemporal bool
	SpatialX    float64
	SpatialY    float64
	HasSpatial  bool
	// Assertion is the unescaped text assertion, "" when absent.
	Assertion string
	Warnings  []error
}

var (
	stepRe     = regexp.MustCompile(`^/(\d+)(?:\[((?:[^\]^]|\^.)*)\])?`)
	offsetRe   = regexp.MustCompile(`^:(\d+)`)
	temporalRe = regexp.MustCompile(`^~(-?\d+(?:\.\d+)?)`)
	spatialRe  = regexp.MustCompile(`^@(-?\d+(?:\.\d+)?):(-?\d+(?:\.\d+)?)`)
	textRe     = regexp.MustCompile(`^\[((?:[^\];^]|\^.)*)(?:;s=([ab]))?\]`)
)

// Decode resolves pointer against root. Structural failures (a step no
// child matches, an indirection into a non-host) return a nil Location
// and the diagnostic; offset and suffix problems clamp or skip and are
// reported through Location.Warnings.
func Decode(pointer string, root dom.Node) (*Location, error) {
	node := root
	rest := pointer

	for rest != "" {
		if rest[0] == '!' {
			host, ok := node.(dom.Host)
			if !ok || host.ContentDocument() == nil {
				return nil, fmt.Errorf("%w: %q at %q", ErrCannotDescend, pointer, rest)
			}
			node = host.ContentDocument()
			rest = rest[1:]
			continue
		}
		m := stepRe.FindStringSubmatch(rest)
		if m == nil {
			break
		}
		target, err := strconv.Atoi(m[1])
		if err != nil || target < 1 {
			break
		}
		id := Unescape(m[2])
		child := childAtIndex(node, target)
		if child == nil {
			if sub := lookupID(node, id); sub != nil {
				child = sub
			} else {
				return nil, fmt.Errorf("%w: step /%d in %q", ErrNoMatchingChild, target, pointer)
			}
		} else if id != "" && child.ID() != id {
			// The assertion is authoritative over the positional
			// count: structure may have shifted since encoding.
			if sub := lookupID(node, id); sub != nil {
				logger.Debug("assertion overrides position", "pointer", pointer, "id", id, "step", target)
				child = sub
			}
		}
		node = child
		rest = rest[len(m[0]):]
	}

	loc := &Location{Node: node, Forward: true}

	if m := offsetRe.FindStringSubmatch(rest); m != nil {
		loc.Offset, _ = strconv.Atoi(m[1])
		loc.HasOffset = true
		rest = rest[len(m[0]):]
	}
	if m := temporalRe.FindStringSubmatch(rest); m != nil {
		loc.Temporal, _ = strconv.ParseFloat(m[1], 64)
		loc.HasTemporal = true
		rest = rest[len(m[0]):]
	}
	if m := spatialRe.FindStringSubmatch(rest); m != nil {
		loc.SpatialX, _ = strconv.ParseFloat(m[1], 64)
		loc.SpatialY, _ = strconv.ParseFloat(m[2], 64)
		loc.HasSpatial = true
		rest = rest[len(m[0]):]
	}
	if m := textRe.FindStringSubmatch(rest); m != nil {
		loc.Assertion = Unescape(m[1])
		if m[2] == "a" {
			loc.Forward = false
		}
		rest = rest[len(m[0]):]
	}
	if rest != "" {
		loc.Warnings = append(loc.Warnings, fmt.Errorf("%w: %q", ErrUndecodedSuffix, rest))
	}

	if loc.HasOffset {
		resolveOffset(loc)
	}
	return loc, nil
}

// childAtIndex recomputes the parity count over node's children and
// returns the child landing on target, or nil.
func childAtIndex(node dom.Node, target int) dom.Node {
	index := 0
	for _, c := range node.Children() {
		index |= 1
		if c.Kind() == dom.ElementKind {
			index++
		}
		if index == target {
			return c
		}
		if index > target {
			return nil
		}
	}
	return nil
}

// lookupID searches the document containing node for an element with
// the given id.
func lookupID(node dom.Node, id string) dom.Node {
	if id == "" {
		return nil
	}
	doc := dom.OwnerDocument(node)
	if doc == nil {
		return nil
	}
	return doc.ElementByID(id)
}

// resolveOffset walks the decoded offset forward across the merged
// text-like run, landing on the fragment the offset fits inside. An
// offset exactly at a fragment boundary follows loc.Forward: into the
// next fragment at 0, or staying at the end of the current one.
func resolveOffset(loc *Location) {
	n := loc.Node
	if n.Kind() == dom.ElementKind || n.Kind() == dom.DocumentKind {
		kids := n.Children()
		if len(kids) == 0 {
			loc.Warnings = append(loc.Warnings, fmt.Errorf("%w: offset %d in childless element", ErrOffsetOutOfRange, loc.Offset))
			loc.Offset = 0
			return
		}
		n = kids[0]
	}

	remaining := loc.Offset
	var last dom.Node
	lastLen := 0
	for n != nil {
		if n.Kind().TextLike() {
			l := dom.TextLength(n)
			if remaining < l || (remaining == l && !loc.Forward) {
				loc.Node = n
				loc.Offset = remaining
				return
			}
			remaining -= l
			last = n
			lastLen = l
		} else if n.Kind() != dom.CommentKind {
			break
		}
		n = dom.NextSibling(n)
	}

	if last == nil {
		loc.Warnings = append(loc.Warnings, fmt.Errorf("%w: no text at offset %d", ErrOffsetOutOfRange, loc.Offset))
		loc.Offset = 0
		return
	}
	loc.Node = last
	loc.Offset = lastLen
	if remaining > 0 {
		loc.Warnings = append(loc.Warnings, fmt.Errorf("%w: %d past end", ErrOffsetOutOfRange, remaining))
	}
}
