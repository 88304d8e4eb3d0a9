package disk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Novice06/vfs-simulator/errors"
)

// Discover scans dir for regular files ending in ".img" and opens each one
// read/write as a Disk, in directory order. This is the Go equivalent of
// original_source/disk.c's disk_init: unlike the C original, it never
// terminates the process on failure -- per-file errors are collected and
// returned as a single aggregate error alongside whatever disks did open
// successfully, so a caller can still proceed with the rest.
func Discover(dir string) ([]*Disk, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("disk: scanning %q: %w", dir, err)
	}

	var disks []*Disk
	failures := errors.NewAggregate()

	for _, entry := range entries {
		if entry.IsDir() || !hasImgExtension(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		d, err := openImage(path)
		if err != nil {
			failures.Add(fmt.Errorf("disk: %q: %w", path, err))
			continue
		}
		disks = append(disks, d)
	}

	return disks, failures.ErrorOrNil()
}

func hasImgExtension(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".img")
}

func openImage(path string) (*Disk, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	stream, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	totalSectors := uint32(info.Size() / SectorSize)
	return New(filepath.Base(path), stream, totalSectors), nil
}
