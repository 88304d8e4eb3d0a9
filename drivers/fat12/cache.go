package fat12

import (
	"github.com/Novice06/vfs-simulator/internal/bitset"
	"github.com/Novice06/vfs-simulator/vfs"
)

// maxCachedVnodes is the per-mount vnode cache size, MAX_VNODE_PER_VFS in
// original_source/fat12.c.
const maxCachedVnodes = 16

// vnodeEntry pairs a cached vnode with the 11-byte FAT name of the
// directory entry it was created from, so later lookups of the same name
// can find it without re-reading the underlying RawDirEntry.
type vnodeEntry struct {
	name  [11]byte
	vnode *vfs.Vnode
}

// vnodeCache is the fixed-size table create_vnode searches and evicts
// from in the original source. It exists so that two Lookup calls for the
// same file return the same *vfs.Vnode, which matters because
// Vnode.MountedHere is only meaningful if vnode identity is stable across
// lookups (see package vfs's mount-crossing logic).
type vnodeCache struct {
	entries  [maxCachedVnodes]vnodeEntry
	occupied bitset.Set
}

func newVnodeCache() *vnodeCache {
	return &vnodeCache{occupied: bitset.New(maxCachedVnodes)}
}

// find returns the cached vnode for name, or nil if it isn't cached.
func (c *vnodeCache) find(name [11]byte) *vfs.Vnode {
	for i := 0; i < maxCachedVnodes; i++ {
		if c.occupied.Get(i) && c.entries[i].name == name {
			return c.entries[i].vnode
		}
	}
	return nil
}

// insert stores node under name, evicting a slot if the cache is full, and
// reports whether it found room. The eviction policy matches create_vnode
// exactly: the first empty slot wins; failing that, the first slot whose
// vnode has RefCount <= 0 is reused. If neither exists, insert drops node
// and returns false, the same "cannot create vnode" outcome the original
// returns as a NULL vnode -- the caller must surface that as an error
// rather than handing back an uncached vnode as if nothing were wrong.
func (c *vnodeCache) insert(name [11]byte, node *vfs.Vnode) bool {
	for i := 0; i < maxCachedVnodes; i++ {
		if !c.occupied.Get(i) {
			c.entries[i] = vnodeEntry{name: name, vnode: node}
			c.occupied.Set(i, true)
			return true
		}
	}

	for i := 0; i < maxCachedVnodes; i++ {
		if c.entries[i].vnode.RefCount <= 0 {
			c.entries[i] = vnodeEntry{name: name, vnode: node}
			return true
		}
	}

	return false
}
