package vfs

import (
	"fmt"
	"strings"

	"github.com/Novice06/vfs-simulator/device"
	"github.com/Novice06/vfs-simulator/errors"
)

// LookupPathName resolves an absolute path to the vnode it names, walking
// across mount boundaries as it goes. It's the Go translation of
// lookup_path_name in original_source/vfs.c: tokenize on "/", and before
// each component's lookup, substitute the covering filesystem's root if
// the current vnode has one mounted on it.
//
// Per spec.md §9 Open Question (b), components are tokenized here, at the
// VFS layer; VnodeOps.Lookup implementations only ever see one component
// at a time.
func (w *World) LookupPathName(path string) (*Vnode, error) {
	if path == "" || path[0] != '/' {
		return nil, errors.ErrNotFound.WithMessage(fmt.Sprintf("path %q is not absolute", path))
	}
	if w.root == nil {
		return nil, errors.ErrNotFound.WithMessage("nothing is mounted")
	}

	current, err := w.root.FS.GetRoot(w.root)
	if err != nil {
		return nil, err
	}

	for _, name := range splitPathComponents(path) {
		if current.MountedHere != nil {
			current, err = current.MountedHere.FS.GetRoot(current.MountedHere)
			if err != nil {
				return nil, err
			}
		}

		current, err = current.Ops.Lookup(current, name)
		if err != nil {
			return nil, err
		}
	}

	return current, nil
}

func splitPathComponents(path string) []string {
	raw := strings.Split(path, "/")
	components := make([]string, 0, len(raw))
	for _, part := range raw {
		if part != "" {
			components = append(components, part)
		}
	}
	return components
}

// Mount binds the filesystem registered as fsName at mountPoint, reading
// its backing device from deviceID. The first call to Mount in a World's
// lifetime always becomes the root mount, regardless of what mountPoint
// was given, matching spec.md §4.2.
func (w *World) Mount(fsName string, mountPoint string, deviceID device.ID) error {
	fs := w.findFilesystemByName(fsName)
	if fs == nil {
		return errors.ErrGeneric.WithMessage(fmt.Sprintf("no filesystem registered as %q", fsName))
	}

	dev, err := w.devices.Get(deviceID)
	if err != nil {
		return errors.ErrGeneric.Wrap(err)
	}

	mount := &Mount{FS: fs, Device: dev}

	if w.root == nil {
		mount.Covered = nil
	} else {
		covered, err := w.LookupPathName(mountPoint)
		if err != nil {
			return errors.ErrNotFound.WithMessage(fmt.Sprintf("mount point %q not found", mountPoint))
		}

		covered.RefCount++
		covered.MountedHere = mount
		mount.Covered = covered
	}

	if err := fs.Mount(mount); err != nil {
		return err
	}

	w.appendMount(mount)
	return nil
}

// appendMount adds mount to the tail of the mount list, or makes it the
// root if the list is empty. Insertion order is preserved rather than the
// slash-count ordering an earlier version of the source used; per
// spec.md §9, path walking follows vfs_mountedhere, so list order never
// affects resolution.
func (w *World) appendMount(mount *Mount) {
	if w.root == nil {
		w.root = mount
		return
	}

	current := w.root
	for current.next != nil {
		current = current.next
	}
	current.next = mount
}

// removeMount splices mount out of the mount list.
func (w *World) removeMount(mount *Mount) {
	if w.root == mount {
		w.root = mount.next
		return
	}

	current := w.root
	for current != nil && current.next != mount {
		current = current.next
	}
	if current != nil {
		current.next = mount.next
	}
}

// hasMountedDescendant reports whether any other mount in the list is
// nested, directly or transitively, under target. It's the fix for the
// TODO left in original_source/vfs.c ("implement a mechanism to prevent
// unmounting a filesystem as long as there are other filesystems mounted
// on top of it"), required by spec.md §9.
func (w *World) hasMountedDescendant(target *Mount) bool {
	for m := w.root; m != nil; m = m.next {
		if m == target || m.Covered == nil {
			continue
		}

		for ancestor := m.Covered.OwningVFS; ancestor != nil; {
			if ancestor == target {
				return true
			}
			if ancestor.Covered == nil {
				break
			}
			ancestor = ancestor.Covered.OwningVFS
		}
	}
	return false
}

// Unmount detaches the filesystem mounted at mountPoint. It refuses to
// unmount the root filesystem (EACCESS) and, per the redesign above,
// refuses while any filesystem is still mounted within it (also
// EACCESS).
func (w *World) Unmount(mountPoint string) error {
	covered, err := w.LookupPathName(mountPoint)
	if err != nil {
		return err
	}

	mount := covered.MountedHere
	if mount == nil {
		if covered.IsRoot() && covered.OwningVFS == w.root {
			return errors.ErrPermissionDenied.WithMessage("cannot unmount the root filesystem")
		}
		return errors.ErrGeneric.WithMessage(fmt.Sprintf("%q is not a mount point", mountPoint))
	}

	if mount == w.root {
		return errors.ErrPermissionDenied.WithMessage("cannot unmount the root filesystem")
	}

	if w.hasMountedDescendant(mount) {
		return errors.ErrPermissionDenied.WithMessage(
			fmt.Sprintf("%q still has filesystems mounted within it", mountPoint),
		)
	}

	if err := mount.FS.Unmount(mount); err != nil {
		return err
	}

	w.removeMount(mount)
	covered.MountedHere = nil
	covered.RefCount--
	return nil
}
