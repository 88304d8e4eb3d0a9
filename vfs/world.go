package vfs

import (
	"fmt"

	"github.com/Novice06/vfs-simulator/device"
	"github.com/Novice06/vfs-simulator/errors"
	"github.com/Novice06/vfs-simulator/internal/bitset"
)

// MaxRegisteredFilesystems is the maximum number of filesystem drivers
// that can be registered at once, per spec.md §4.2.
const MaxRegisteredFilesystems = 10

// MaxOpenFiles is the size of the descriptor table, per spec.md §3.
const MaxOpenFiles = 24

// World holds everything the original C source kept as module-level
// globals (vfs_root, registered_fs, vfs_open_files): the mount list, the
// registered-filesystem table, and the descriptor table. Hoisting them
// into a value the caller owns removes the static-linkage fragility
// spec.md §9 calls out, while keeping the same single-process, single
// instance usage pattern (spec.md §9 Open Question (a)).
//
// World is not safe for concurrent use; per spec.md §5 the whole design
// is single-threaded and non-reentrant.
type World struct {
	devices *device.Registry

	root *Mount

	registeredFS    [MaxRegisteredFilesystems]FileSystemDriver
	numRegisteredFS int

	openFiles []OpenFile
	fds       bitset.Set
}

// NewWorld creates an initialized World backed by the given device
// registry. It corresponds to vfs_init() in the original source, except
// it returns a value instead of resetting globals.
func NewWorld(devices *device.Registry) *World {
	return &World{
		devices:   devices,
		openFiles: make([]OpenFile, MaxOpenFiles),
		fds:       bitset.New(MaxOpenFiles),
	}
}

// Devices returns the device registry this World resolves mount device
// IDs against.
func (w *World) Devices() *device.Registry {
	return w.devices
}

// RegisterFilesystem adds fs to the registry of filesystems that can be
// passed to Mount by name. Registering more than MaxRegisteredFilesystems
// filesystems fails with ErrGeneric, same as the original source silently
// dropping the registration past VFS_MAX_FS.
func (w *World) RegisterFilesystem(fs FileSystemDriver) error {
	if w.numRegisteredFS >= MaxRegisteredFilesystems {
		return errors.ErrGeneric.WithMessage(
			fmt.Sprintf("filesystem registry is full (max %d)", MaxRegisteredFilesystems),
		)
	}

	w.registeredFS[w.numRegisteredFS] = fs
	w.numRegisteredFS++
	return nil
}

// findFilesystemByName returns the first registered filesystem with the
// given name, or nil if none matches. Preserves the original's
// first-match semantics: registering two filesystems under the same name
// does not replace the earlier one.
func (w *World) findFilesystemByName(name string) FileSystemDriver {
	for i := 0; i < w.numRegisteredFS; i++ {
		if w.registeredFS[i].Name() == name {
			return w.registeredFS[i]
		}
	}
	return nil
}

func (w *World) findFreeFD() (int, error) {
	fd := w.fds.FirstFree()
	if fd < 0 {
		return 0, errors.ErrTooManyOpenFiles
	}
	return fd, nil
}

func (w *World) isFDValid(fd int) bool {
	if fd < 0 || fd >= MaxOpenFiles {
		return false
	}
	return w.fds.Get(fd)
}
