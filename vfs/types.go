// Package vfs implements the dispatch layer: mount-tree management,
// cross-mount path resolution, the vnode cache contract, and the
// descriptor table. It multiplexes any number of FileSystemDriver
// implementations behind one hierarchical namespace, exactly as
// original_source/vfs.c does, but with the C function-pointer tables
// translated into interfaces and the module-level globals hoisted into a
// World value the caller owns (see spec.md §9's redesign notes).
package vfs

import (
	"github.com/Novice06/vfs-simulator/device"
)

// VnodeType distinguishes what kind of filesystem object a Vnode stands
// for.
type VnodeType int

const (
	VNON VnodeType = iota // no type: a placeholder/zero vnode
	VREG                  // a regular file
	VDIR                  // a directory
)

// VnodeFlag is a bitset of per-vnode flags. Only the root flag is
// meaningful, per spec.md §3.
type VnodeFlag uint32

// VnodeFlagRoot marks a vnode as the root directory of its filesystem.
const VnodeFlagRoot VnodeFlag = 1 << 0

// OpenMode mirrors the three access modes a descriptor can be opened
// with.
type OpenMode uint16

const (
	O_RDONLY OpenMode = 0x0001
	O_WRONLY OpenMode = 0x0002
	O_RDWR   OpenMode = 0x0003
)

// VnodeOps is the per-filesystem operation table every vnode a driver
// creates is given. It replaces the original vnodeops_t function-pointer
// struct.
type VnodeOps interface {
	// Read fills buf (up to len(buf) bytes) starting at offset into the
	// node's contents and returns how many bytes were actually copied.
	// Reading at or past end-of-file returns (0, nil).
	Read(node *Vnode, buf []byte, offset uint32) (int, error)

	// Write is the mirror of Read. FAT12's implementation is a stub that
	// always returns (0, nil); see spec.md §4.3.
	Write(node *Vnode, buf []byte, offset uint32) (int, error)

	// Lookup resolves a single path component (never a full path, see
	// spec.md §9 Open Question (b)) within a directory vnode.
	Lookup(dir *Vnode, name string) (*Vnode, error)
}

// DirEntry is one entry returned by a DirReader, filesystem-independent
// the same way VnodeOps is.
type DirEntry struct {
	Name  string
	IsDir bool
	Size  uint32
}

// DirReader is an optional capability a VnodeOps implementation can
// provide on top of the required Lookup/Read/Write trio: listing every
// entry in a directory instead of resolving one name at a time. Neither
// original_source/fat12.c nor original_source/vfs.c has an equivalent
// operation; it's a supplemental feature for directory enumeration (see
// cmd/vfsdemo's "list" subcommand).
type DirReader interface {
	ReadDir(dir *Vnode) ([]DirEntry, error)
}

// Vnode is the filesystem-independent handle to a file or directory.
type Vnode struct {
	RefCount uint32
	Type     VnodeType
	Flags    VnodeFlag

	// MountedHere is non-nil if another filesystem is mounted on top of
	// this vnode; path resolution transparently substitutes that
	// filesystem's root whenever it crosses this vnode.
	MountedHere *Mount

	Ops VnodeOps

	// OwningVFS is the mount this vnode belongs to. It's also how
	// Unmount walks "is there a mount nested under this one" without a
	// generic tree-search API: a mount's parent is
	// mount.Covered.OwningVFS.
	OwningVFS *Mount

	// Data is the driver-private payload: a copy of the FAT directory
	// entry for drivers/fat12, nil for the root vnode.
	Data interface{}
}

// IsRoot reports whether this vnode is flagged as a filesystem root.
func (v *Vnode) IsRoot() bool {
	return v.Flags&VnodeFlagRoot != 0
}

// FileSystemDriver is the three-hook contract a concrete filesystem
// implementation provides: mount, unmount, and fetch the root vnode. It
// replaces the original filesystem_t struct of function pointers.
type FileSystemDriver interface {
	// Name is the identifier passed to World.Mount, e.g. "fat12".
	Name() string

	// Mount initializes mount.Data (and anything else the driver needs)
	// from mount.Device. It must leave the mount ready for GetRoot to be
	// called.
	Mount(mount *Mount) error

	// Unmount releases any driver-private state attached to mount.
	Unmount(mount *Mount) error

	// GetRoot returns the filesystem's root vnode.
	GetRoot(mount *Mount) (*Vnode, error)
}

// Mount is one filesystem instance bound into the namespace: a node in
// the singly-linked mount list, a reference to its driver, the vnode it
// covers in its parent filesystem (nil for the root mount), the block
// device backing it, and whatever private payload the driver attaches.
type Mount struct {
	next *Mount

	FS      FileSystemDriver
	Covered *Vnode
	Device  *device.Device
	Data    interface{}
}

// OpenFile is one entry in the descriptor table: the vnode it refers to,
// the mode it was opened with, and the current read/write position.
type OpenFile struct {
	Vnode    *Vnode
	Mode     OpenMode
	Position uint32
}
