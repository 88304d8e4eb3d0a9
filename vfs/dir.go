package vfs

import "github.com/Novice06/vfs-simulator/errors"

// ListDir resolves path and lists its entries, failing with ErrNotADirectory
// if the underlying driver doesn't implement DirReader (only filesystem
// drivers that support enumeration do).
func (w *World) ListDir(path string) ([]DirEntry, error) {
	node, err := w.LookupPathName(path)
	if err != nil {
		return nil, err
	}

	reader, ok := node.Ops.(DirReader)
	if !ok {
		return nil, errors.ErrNotADirectory.WithMessage("filesystem does not support directory listing")
	}

	return reader.ReadDir(node)
}
