package cfi

import "errors"

// Failure taxonomy for the addressing engine. Everything is a value:
// structural decode problems abort decoding, offset and suffix problems
// attach to an otherwise-usable result as warnings, geometry problems
// abort only the operation that hit them. Match with errors.Is.
var (
	// ErrNoMatchingChild means a path step selected a child index no
	// child of the current node occupies, and the step's id assertion
	// (if any) recovered nothing.
	ErrNoMatchingChild = errors.New("no child matches path step")
	// ErrCannotDescend means an indirection was applied to a node that
	// hosts no embedded sub-document.
	ErrCannotDescend = errors.New("cannot descend into sub-document")
	// ErrOffsetOutOfRange means a character offset ran past the merged
	// text run; the result is clamped to the last valid offset.
	ErrOffsetOutOfRange = errors.New("character offset out of range")
	// ErrUndecodedSuffix means trailing pointer content was left over
	// after all fragments parsed; the decoded location is still valid.
	ErrUndecodedSuffix = errors.New("undecoded trailing content")
	// ErrUnsupportedNode means a node kind the codec cannot address;
	// the encoder omits positional data and returns what it has.
	ErrUnsupportedNode = errors.New("unsupported node kind")
	// ErrPointInPadding means the probed point lies inside an element
	// but outside all of its text geometry. Probing in padding and
	// border regions is undefined.
	ErrPointInPadding = errors.New("point in element padding")
	// ErrNoElementAtPoint means hit-testing found nothing at the point.
	ErrNoElementAtPoint = errors.New("no element at point")
	// ErrNoRectangle means no probe window around the target offset
	// produced any geometry.
	ErrNoRectangle = errors.New("no rectangle for pointer")
)
