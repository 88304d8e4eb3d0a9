// Package bitset gives the fixed-size slot tables in this module (the
// open-file descriptor table in package vfs, the per-mount vnode cache in
// drivers/fat12) a single shared way to track which slots are occupied,
// backed by github.com/boljen/go-bitmap instead of a hand-rolled bool
// slice or a sentinel-value scan.
package bitset

import (
	"github.com/boljen/go-bitmap"
)

// Set is a fixed-size bitmap of occupied/free slots.
type Set struct {
	bm   bitmap.Bitmap
	size int
}

// New returns a Set with room for size slots, all initially free.
func New(size int) Set {
	return Set{bm: bitmap.New(size), size: size}
}

// Get reports whether slot i is occupied.
func (s Set) Get(i int) bool {
	return s.bm.Get(i)
}

// Set marks slot i occupied (true) or free (false).
func (s Set) Set(i int, occupied bool) {
	s.bm.Set(i, occupied)
}

// Len reports how many slots this set manages.
func (s Set) Len() int {
	return s.size
}

// FirstFree returns the index of the first free slot, or -1 if every slot
// is occupied.
func (s Set) FirstFree() int {
	for i := 0; i < s.size; i++ {
		if !s.bm.Get(i) {
			return i
		}
	}
	return -1
}
