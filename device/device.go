// Package device implements the block device registry: a flat, append-only
// table of devices indexed by the order they were registered in, each
// exposing sector-oriented read/write through a small interface instead of
// the original C function-pointer pair.
package device

import (
	"fmt"
)

// ID identifies a device by its position in the registry. IDs are assigned
// in registration order starting at 0 and are never reused.
type ID int

// ReadWriter is the contract a device's backing implementation must
// satisfy. Both lba and count are expressed in sectors of whatever size
// the implementation uses; for disk-backed devices that's always 512 bytes
// (see package disk).
//
// Implementations follow the original contract: a read/write whose range
// falls outside the device's bounds is a silent no-op, not an error.
// Genuine I/O failures (a short read, a failed seek) must be returned.
type ReadWriter interface {
	ReadSectors(buffer []byte, lba uint32, count uint32) error
	WriteSectors(buffer []byte, lba uint32, count uint32) error
}

// Device is an entry in the registry: a name, its assigned ID, and the
// backing implementation that actually moves bytes.
type Device struct {
	Name string
	ID   ID
	impl ReadWriter
}

// ReadSectors delegates to the backing implementation.
func (d *Device) ReadSectors(buffer []byte, lba uint32, count uint32) error {
	return d.impl.ReadSectors(buffer, lba, count)
}

// WriteSectors delegates to the backing implementation.
func (d *Device) WriteSectors(buffer []byte, lba uint32, count uint32) error {
	return d.impl.WriteSectors(buffer, lba, count)
}

// Registry is the process-wide table of devices, analogous to the original
// source's device_list/device_num globals. It is append-only; devices are
// never removed once added, matching the "lives for process lifetime"
// lifecycle in spec.md §3.
type Registry struct {
	devices []*Device
}

// NewRegistry returns an empty device registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a new device and returns the ID it was assigned.
func (r *Registry) Add(name string, impl ReadWriter) ID {
	id := ID(len(r.devices))
	r.devices = append(r.devices, &Device{Name: name, ID: id, impl: impl})
	return id
}

// Get returns the device with the given ID, or an error if it doesn't
// exist.
func (r *Registry) Get(id ID) (*Device, error) {
	if id < 0 || int(id) >= len(r.devices) {
		return nil, fmt.Errorf("device: no device with id %d", id)
	}
	return r.devices[id], nil
}

// Len reports how many devices are registered.
func (r *Registry) Len() int {
	return len(r.devices)
}
