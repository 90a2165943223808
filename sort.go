package cfi

import (
	"sort"
	"strconv"
)

// Key is the sortable form of a pointer. Steps flattens the path
// across sub-document boundaries: document nesting is invisible to
// ordering, a pointer deep inside an embedded document still compares
// by its full step sequence.
type Key struct {
	Steps    []int
	Offset   int
	Temporal float64
	SpatialX float64
	SpatialY float64
}

// ParseKey extracts the sortable key from a pointer string. Assertions
// and indirection markers are skipped; fragments that fail to parse are
// simply absent. No tree access happens here.
func ParseKey(pointer string) Key {
	var k Key
	rest := pointer
	for rest != "" {
		if rest[0] == '!' {
			rest = rest[1:]
			continue
		}
		m := stepRe.FindStringSubmatch(rest)
		if m == nil {
			break
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			break
		}
		k.Steps = append(k.Steps, n)
		rest = rest[len(m[0]):]
	}
	if m := offsetRe.FindStringSubmatch(rest); m != nil {
		k.Offset, _ = strconv.Atoi(m[1])
		rest = rest[len(m[0]):]
	}
	if m := temporalRe.FindStringSubmatch(rest); m != nil {
		k.Temporal, _ = strconv.ParseFloat(m[1], 64)
		rest = rest[len(m[0]):]
	}
	if m := spatialRe.FindStringSubmatch(rest); m != nil {
		k.SpatialX, _ = strconv.ParseFloat(m[1], 64)
		k.SpatialY, _ = strconv.ParseFloat(m[2], 64)
	}
	return k
}

// Compare defines the total order over keys: step sequences compare
// element by element, a strict prefix sorts before its extension, then
// temporal offset, spatial x, spatial y, and finally text offset break
// ties. The order matches document order of the denoted positions.
func Compare(a, b Key) int {
	n := len(a.Steps)
	if len(b.Steps) < n {
		n = len(b.Steps)
	}
	for i := 0; i < n; i++ {
		if a.Steps[i] != b.Steps[i] {
			if a.Steps[i] < b.Steps[i] {
				return -1
			}
			return 1
		}
	}
	if len(a.Steps) != len(b.Steps) {
		if len(a.Steps) < len(b.Steps) {
			return -1
		}
		return 1
	}
	if a.Temporal != b.Temporal {
		if a.Temporal < b.Temporal {
			return -1
		}
		return 1
	}
	if a.SpatialX != b.SpatialX {
		if a.SpatialX < b.SpatialX {
			return -1
		}
		return 1
	}
	if a.SpatialY != b.SpatialY {
		if a.SpatialY < b.SpatialY {
			return -1
		}
		return 1
	}
	if a.Offset != b.Offset {
		if a.Offset < b.Offset {
			return -1
		}
		return 1
	}
	return 0
}

// SortPointers sorts pointers in place into document order, stably, and
// returns the slice. Keys are parsed once up front.
func SortPointers(pointers []string) []string {
	keys := make([]Key, len(pointers))
	for i, p := range pointers {
		keys[i] = ParseKey(p)
	}
	idx := make([]int, len(pointers))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return Compare(keys[idx[i]], keys[idx[j]]) < 0
	})
	out := make([]string, len(pointers))
	for i, j := range idx {
		out[i] = pointers[j]
	}
	copy(pointers, out)
	return pointers
}
