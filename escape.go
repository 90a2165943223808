// Package cfi encodes positions inside a rendered document tree as
// portable pointer strings and resolves them back, tolerating minor
// tree drift through id assertions. It also maps screen points to
// character offsets and defines a total order over pointers matching
// document order.
package cfi

import "strings"

// reserved is the character class that must be escaped inside
// identifier and text assertions. Nothing else in the grammar is ever
// escaped.
const reserved = "[]^();~@!-"

// Escape inserts a ^ before every reserved character in raw. Applied
// exactly at assertion boundaries.
func Escape(raw string) string {
	if !strings.ContainsAny(raw, reserved) {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw) + 4)
	for _, r := range raw {
		if r < 0x80 && strings.ContainsRune(reserved, r) {
			b.WriteByte('^')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Unescape removes one ^ before each escaped character, undoing Escape.
func Unescape(raw string) string {
	if !strings.ContainsRune(raw, '^') {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw))
	skip := false
	for _, r := range raw {
		if !skip && r == '^' {
			skip = true
			continue
		}
		skip = false
		b.WriteRune(r)
	}
	return b.String()
}
