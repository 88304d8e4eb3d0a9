// Package disk implements the disk-backed device.device.ReadWriter: a
// fixed 512-byte-sector view over any io.ReadWriteSeeker, typically an
// open *.img file, but an in-memory buffer works just as well (see the
// package's tests and github.com/xaionaro-go/bytesextra).
package disk

import (
	"fmt"
	"io"
)

// SectorSize is the fixed sector size for every disk in this module, per
// spec.md §3.
const SectorSize = 512

// Disk is a device.ReadWriter backed by a seekable byte stream.
type Disk struct {
	name         string
	totalSectors uint32
	stream       io.ReadWriteSeeker
}

// New wraps stream as a disk with the given name and total sector count.
// The caller is responsible for opening/closing stream.
func New(name string, stream io.ReadWriteSeeker, totalSectors uint32) *Disk {
	return &Disk{name: name, stream: stream, totalSectors: totalSectors}
}

// Name returns the disk's name, usually the backing file's base name.
func (d *Disk) Name() string {
	return d.name
}

// TotalSectors returns the capacity of the disk in 512-byte sectors.
func (d *Disk) TotalSectors() uint32 {
	return d.totalSectors
}

// inBounds reports whether an LBA/count pair is fully within the disk, per
// the "current behavior" contract in spec.md §4.1: reads/writes straddling
// or past the end of the disk are a no-op rather than an error.
func (d *Disk) inBounds(lba, count uint32) bool {
	if lba > d.totalSectors {
		return false
	}
	return lba+count <= d.totalSectors
}

// ReadSectors reads count sectors starting at lba into buffer, which must
// be at least count*SectorSize bytes long. Out-of-range reads are silently
// ignored, matching spec.md §4.1; a short read from the underlying stream
// is surfaced as an error, per the §7 redesign note (the original C source
// discarded it).
func (d *Disk) ReadSectors(buffer []byte, lba uint32, count uint32) error {
	if !d.inBounds(lba, count) {
		return nil
	}

	if _, err := d.stream.Seek(int64(lba)*SectorSize, io.SeekStart); err != nil {
		return fmt.Errorf("disk %q: seek to sector %d: %w", d.name, lba, err)
	}

	want := int(count) * SectorSize
	n, err := io.ReadFull(d.stream, buffer[:want])
	if err != nil {
		return fmt.Errorf("disk %q: read %d sectors at %d: %w", d.name, count, lba, err)
	}
	if n != want {
		return fmt.Errorf("disk %q: short read at sector %d: got %d of %d bytes", d.name, lba, n, want)
	}
	return nil
}

// WriteSectors writes count sectors worth of buffer starting at lba.
// Out-of-range writes are silently ignored, matching spec.md §4.1.
func (d *Disk) WriteSectors(buffer []byte, lba uint32, count uint32) error {
	if !d.inBounds(lba, count) {
		return nil
	}

	if _, err := d.stream.Seek(int64(lba)*SectorSize, io.SeekStart); err != nil {
		return fmt.Errorf("disk %q: seek to sector %d: %w", d.name, lba, err)
	}

	want := int(count) * SectorSize
	n, err := d.stream.Write(buffer[:want])
	if err != nil {
		return fmt.Errorf("disk %q: write %d sectors at %d: %w", d.name, count, lba, err)
	}
	if n != want {
		return fmt.Errorf("disk %q: short write at sector %d: wrote %d of %d bytes", d.name, lba, n, want)
	}
	return nil
}
