// Package dom defines the abstract read-only tree and geometry oracle
// the addressing engine runs against. The engine never touches a
// concrete tree type: hosts adapt their render tree (a parsed HTML
// document, a fixture, anything with parents, ordered children, and
// on-screen rectangles) to these interfaces.
package dom

import "github.com/haroruhomer/cfi/geom"

// Kind classifies nodes. The numbering follows the DOM specification so
// adapters over real DOM-ish trees map one to one.
type Kind int

const (
	// ElementKind identifies an element node.
	ElementKind Kind = 1
	// AttributeKind identifies an attribute exposed as a node.
	AttributeKind Kind = 2
	// TextKind identifies a text leaf.
	TextKind Kind = 3
	// CDATAKind identifies a character-data section.
	CDATAKind Kind = 4
	// ProcessingInstructionKind identifies a processing instruction.
	ProcessingInstructionKind Kind = 7
	// CommentKind identifies a comment.
	CommentKind Kind = 8
	// DocumentKind identifies a whole document.
	DocumentKind Kind = 9
)

// TextLike reports whether the kind participates in merged text runs:
// text, character data, and processing instructions accumulate length;
// comments and attributes do not.
func (k Kind) TextLike() bool {
	return k == TextKind || k == CDATAKind || k == ProcessingInstructionKind
}

// Node is one node of the tree. Implementations must hand out stable
// values: asking for the same underlying node twice yields interface
// values that compare equal, so the engine can use == for identity.
type Node interface {
	Kind() Kind
	// Parent returns the parent node, or nil for a document or a
	// detached root.
	Parent() Node
	// Children returns the ordered child nodes.
	Children() []Node
	// ID returns the node's id attribute, "" when absent.
	ID() string
	// Text returns the textual content of a text-like node, "" for
	// elements and documents.
	Text() string
	// Rects returns the node's on-screen rectangles. Elements usually
	// have one; wrapped inline content may have several; nodes without
	// geometry return nil.
	Rects() []geom.Rect
	// RangeRects returns the rectangles covering characters
	// [start, end) of a text-like node, one per wrapped line segment.
	// start == end asks for the zero-width caret rect at that position.
	RangeRects(start, end int) []geom.Rect
}

// Document is a whole document: the top-level tree or an embedded
// sub-document. Its Kind is DocumentKind and its Children contain the
// document element.
type Document interface {
	Node
	// Root returns the document element.
	Root() Node
	// HostElement returns the element embedding this document in its
	// parent document, or nil for the top-level document.
	HostElement() Node
	// ElementByID finds an element by id anywhere in this document,
	// nil when absent. Embedded sub-documents are not searched.
	ElementByID(id string) Node
	// ElementAt hit-tests the document, returning the innermost
	// element whose geometry contains the point, or nil.
	ElementAt(x, y float64) Node
	// Scroll returns the current scroll offset.
	Scroll() geom.Point
	// Extent returns the total scrollable size of the document.
	Extent() (w, h float64)
}

// Host is an element that embeds a sub-document (an iframe-like node).
type Host interface {
	Node
	// ContentDocument returns the embedded document, nil while
	// unavailable.
	ContentDocument() Document
}

// Media is a leaf with an intrinsic size and optionally a time
// dimension (images, video, audio).
type Media interface {
	Node
	// IntrinsicSize returns the natural width and height.
	IntrinsicSize() (w, h float64)
	// Duration returns the media duration and whether the node has a
	// time dimension at all.
	Duration() (float64, bool)
	// CurrentTime returns the current playback position.
	CurrentTime() float64
	// Seekable reports whether Seek can be applied right now.
	Seekable() bool
	// Seek sets the playback position. Callers clamp to [0, Duration].
	Seek(t float64)
	// OnSeekable registers fn to run once when the medium becomes
	// seekable; fn runs immediately if it already is.
	OnSeekable(fn func())
}

// PrevSibling returns the sibling before n, or nil.
func PrevSibling(n Node) Node {
	p := n.Parent()
	if p == nil {
		return nil
	}
	kids := p.Children()
	for i, c := range kids {
		if c == n {
			if i == 0 {
				return nil
			}
			return kids[i-1]
		}
	}
	return nil
}

// NextSibling returns the sibling after n, or nil.
func NextSibling(n Node) Node {
	p := n.Parent()
	if p == nil {
		return nil
	}
	kids := p.Children()
	for i, c := range kids {
		if c == n {
			if i == len(kids)-1 {
				return nil
			}
			return kids[i+1]
		}
	}
	return nil
}

// OwnerDocument walks up from n to its containing document, or nil for
// a detached subtree.
func OwnerDocument(n Node) Document {
	for n != nil {
		if d, ok := n.(Document); ok {
			return d
		}
		n = n.Parent()
	}
	return nil
}

// TextLength returns the character length of a text-like node, 0
// otherwise.
func TextLength(n Node) int {
	if !n.Kind().TextLike() {
		return 0
	}
	return len([]rune(n.Text()))
}
