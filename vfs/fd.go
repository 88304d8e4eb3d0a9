package vfs

import (
	"github.com/Novice06/vfs-simulator/errors"
)

// Open resolves path and installs a descriptor for it in the open-file
// table, mirroring vfs_open in the original source. The returned int is
// an index into that table, not a raw vnode handle.
func (w *World) Open(path string, mode OpenMode) (int, error) {
	node, err := w.LookupPathName(path)
	if err != nil {
		return 0, err
	}

	fd, err := w.findFreeFD()
	if err != nil {
		return 0, err
	}

	node.RefCount++
	w.openFiles[fd] = OpenFile{Vnode: node, Mode: mode, Position: 0}
	w.fds.Set(fd, true)
	return fd, nil
}

// Close releases fd, dropping the underlying vnode's reference count.
func (w *World) Close(fd int) error {
	if !w.isFDValid(fd) {
		return errors.ErrInvalidFileDescriptor
	}

	w.openFiles[fd].Vnode.RefCount--
	w.openFiles[fd] = OpenFile{}
	w.fds.Set(fd, false)
	return nil
}

// Read copies into buf from fd's current position and advances that
// position by however many bytes were copied. Advancing on every call,
// including short reads, is the fix for the original source never moving
// its position field at all (spec.md §9).
func (w *World) Read(fd int, buf []byte) (int, error) {
	if !w.isFDValid(fd) {
		return 0, errors.ErrInvalidFileDescriptor
	}

	entry := &w.openFiles[fd]
	if entry.Mode != O_RDONLY && entry.Mode != O_RDWR {
		return 0, errors.ErrPermissionDenied
	}

	n, err := entry.Vnode.Ops.Read(entry.Vnode, buf, entry.Position)
	if err != nil {
		return n, err
	}

	entry.Position += uint32(n)
	return n, nil
}

// Write is Read's mirror for the write path. FAT12's VnodeOps.Write is
// currently a stub (spec.md §4.3), so this always advances by 0 bytes
// against that driver, but the position bookkeeping holds for any driver
// that does implement writes.
func (w *World) Write(fd int, buf []byte) (int, error) {
	if !w.isFDValid(fd) {
		return 0, errors.ErrInvalidFileDescriptor
	}

	entry := &w.openFiles[fd]
	if entry.Mode != O_WRONLY && entry.Mode != O_RDWR {
		return 0, errors.ErrPermissionDenied
	}

	n, err := entry.Vnode.Ops.Write(entry.Vnode, buf, entry.Position)
	if err != nil {
		return n, err
	}

	entry.Position += uint32(n)
	return n, nil
}
