// Package fat12 implements a read path over FAT12, the format
// original_source/fat12.c hard-coded against. It plugs into package vfs as
// a vfs.FileSystemDriver, translating fat_BS_t/fat_dir_entry_t and their
// associated C functions into a Go driver grounded the way
// file_systems/fat/common.go and dirent.go are in the teacher.
package fat12

import (
	"encoding/binary"
	"io"
)

// RawBootSector is the on-disk BIOS Parameter Block, laid out exactly as
// fat_BS_t is in original_source/fat12.c: 512 bytes, little-endian,
// packed. binary.Read can decode it directly since every field here is a
// fixed-width integer or byte array with no implicit padding.
type RawBootSector struct {
	BootJump           [3]byte
	OEMName            [8]byte
	BytesPerSector     uint16
	SectorsPerCluster  uint8
	ReservedSectors    uint16
	NumFATs            uint8
	RootEntryCount     uint16
	TotalSectors16     uint16
	MediaType          uint8
	SectorsPerFAT      uint16
	SectorsPerTrack    uint16
	HeadCount          uint16
	HiddenSectors      uint32
	TotalSectors32     uint32
	BIOSDriveNumber    uint8
	Reserved1          uint8
	BootSignature      uint8
	VolumeID           uint32
	VolumeLabel        [11]byte
	FATTypeLabel       [8]byte
	Filler             [450]byte // pads the struct out to a full 512-byte sector
}

// BootSector wraps RawBootSector with the derived quantities the read path
// needs on every call, so they're computed once at mount time instead of
// being recalculated per read, matching the intent (if not the laziness)
// of the original's repeated inline arithmetic.
type BootSector struct {
	RawBootSector

	// RootDirSectors is how many sectors the root directory occupies.
	RootDirSectors uint32
	// RootDirLBA is the first sector of the root directory region.
	RootDirLBA uint32
	// DataRegionLBA is the first sector of the data (cluster) region.
	DataRegionLBA uint32
	// BytesPerCluster is SectorsPerCluster * BytesPerSector.
	BytesPerCluster uint32
	// TotalFATBytes is how many bytes the full FAT table occupies on disk.
	TotalFATBytes uint32
	// DirentsPerSector is how many 32-byte directory entries fit in one
	// sector.
	DirentsPerSector uint32
}

// ReadBootSector decodes and derives a BootSector from the first sector of
// a FAT12 image.
func ReadBootSector(r io.Reader) (*BootSector, error) {
	var raw RawBootSector
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return nil, err
	}

	rootDirSectors := uint32(raw.RootEntryCount) * 32 / uint32(raw.BytesPerSector)
	fatTotalSectors := uint32(raw.SectorsPerFAT) * uint32(raw.NumFATs)
	rootDirLBA := uint32(raw.ReservedSectors) + fatTotalSectors
	dataRegionLBA := rootDirLBA + rootDirSectors

	return &BootSector{
		RawBootSector:    raw,
		RootDirSectors:   rootDirSectors,
		RootDirLBA:       rootDirLBA,
		DataRegionLBA:    dataRegionLBA,
		BytesPerCluster:  uint32(raw.SectorsPerCluster) * uint32(raw.BytesPerSector),
		TotalFATBytes:    uint32(raw.SectorsPerFAT) * uint32(raw.BytesPerSector),
		DirentsPerSector: uint32(raw.BytesPerSector) / DirentSize,
	}, nil
}

// ClusterToLBA converts a cluster number into the LBA of its first sector,
// the direct translation of cluster_to_Lba in original_source/fat12.c.
func (b *BootSector) ClusterToLBA(cluster uint32) uint32 {
	return b.DataRegionLBA + (cluster-2)*uint32(b.SectorsPerCluster)
}
