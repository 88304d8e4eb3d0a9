package fat12

import (
	"bytes"
	"strings"

	"github.com/noxer/bytewriter"

	"github.com/Novice06/vfs-simulator/errors"
	"github.com/Novice06/vfs-simulator/vfs"
)

// mountState is the per-mount private data fat12_mount attaches to
// mountpoint->vfs_data in original_source/fat12.c: the decoded boot
// sector, the full FAT table (read once, kept resident), a one-cluster
// scratch buffer reused across reads, and the vnode cache.
type mountState struct {
	bootSector *BootSector
	fat        []byte
	clusterBuf []byte
	cache      *vnodeCache
	rootVnode  *vfs.Vnode
}

// Driver implements vfs.FileSystemDriver for FAT12 media.
type Driver struct{}

// NewDriver returns a FAT12 filesystem driver ready to be registered with
// a vfs.World.
func NewDriver() *Driver {
	return &Driver{}
}

func (d *Driver) Name() string {
	return "fat12"
}

// Mount reads the boot sector and the full FAT table off mount.Device and
// attaches the resulting mountState, mirroring fat12_mount.
func (d *Driver) Mount(mount *vfs.Mount) error {
	sectorBuf := make([]byte, 512)
	if err := mount.Device.ReadSectors(sectorBuf, 0, 1); err != nil {
		return errors.ErrGeneric.Wrap(err)
	}

	bootSector, err := ReadBootSector(bytes.NewReader(sectorBuf))
	if err != nil {
		return errors.ErrGeneric.Wrap(err)
	}

	fat := make([]byte, bootSector.TotalFATBytes)
	if err := mount.Device.ReadSectors(fat, uint32(bootSector.ReservedSectors), uint32(bootSector.SectorsPerFAT)); err != nil {
		return errors.ErrGeneric.Wrap(err)
	}

	state := &mountState{
		bootSector: bootSector,
		fat:        fat,
		clusterBuf: make([]byte, bootSector.BytesPerCluster),
		cache:      newVnodeCache(),
	}
	mount.Data = state

	// The root vnode is allocated once here, not per GetRoot call: its
	// Data is nil (the root directory has no directory-entry backing), so
	// every GetRoot caller must see the same *vfs.Vnode instance for
	// identity-sensitive state like MountedHere to survive repeated
	// lookups, exactly as fat12_mount stores root_vnode once and
	// fat12_get_root just returns it.
	state.rootVnode = &vfs.Vnode{
		Type:      vfs.VDIR,
		Flags:     vfs.VnodeFlagRoot,
		Ops:       driverOps{},
		OwningVFS: mount,
		Data:      nil,
	}
	return nil
}

// Unmount drops the mount's private state. There's nothing to flush since
// Write never modifies the image (spec.md §4.3 non-goal).
func (d *Driver) Unmount(mount *vfs.Mount) error {
	mount.Data = nil
	return nil
}

// GetRoot returns the filesystem's root vnode, the same instance Mount
// allocated, exactly as fat12_get_root returns the stored root_vnode
// pointer rather than building a new one on every call.
func (d *Driver) GetRoot(mount *vfs.Mount) (*vfs.Vnode, error) {
	state := mount.Data.(*mountState)
	return state.rootVnode, nil
}

// driverOps implements vfs.VnodeOps for every vnode this driver creates,
// root or otherwise; it dispatches on node.Data being nil (root) or a
// *RawDirEntry.
type driverOps struct{}

// Read copies from node's cluster chain into buf starting at offset,
// clamping the final chunk to fileSize-offset per the redesign in
// spec.md §9 (the original could read past end of file into whatever the
// next cluster happened to contain). It assembles the result through
// bytewriter so the byte bookkeeping across cluster boundaries is the
// writer's job, not a hand-rolled offset counter.
func (driverOps) Read(node *vfs.Vnode, buf []byte, offset uint32) (int, error) {
	if node.Type != vfs.VREG {
		return 0, errors.ErrIsADirectory
	}

	entry := node.Data.(*RawDirEntry)
	state := node.OwningVFS.Data.(*mountState)

	if offset >= entry.FileSize {
		return 0, nil
	}

	remaining := entry.FileSize - offset
	limit := uint32(len(buf))
	if limit > remaining {
		limit = remaining
	}

	writer := bytewriter.New(buf[:limit])

	bytesPerCluster := state.bootSector.BytesPerCluster
	currentCluster := entry.FirstCluster()
	skipped := offset / bytesPerCluster
	for i := uint32(0); i < skipped; i++ {
		currentCluster = NextCluster(currentCluster, state.fat)
	}
	clusterOffset := offset - skipped*bytesPerCluster

	var written uint32
	for !IsEndOfChain(currentCluster) && written < limit {
		lba := state.bootSector.ClusterToLBA(currentCluster)
		if err := node.OwningVFS.Device.ReadSectors(state.clusterBuf, lba, uint32(state.bootSector.SectorsPerCluster)); err != nil {
			return int(written), errors.ErrGeneric.Wrap(err)
		}

		available := bytesPerCluster - clusterOffset
		toCopy := available
		if toCopy > limit-written {
			toCopy = limit - written
		}

		n, err := writer.Write(state.clusterBuf[clusterOffset : clusterOffset+toCopy])
		if err != nil {
			return int(written) + n, errors.ErrGeneric.Wrap(err)
		}

		written += uint32(n)
		clusterOffset = 0
		currentCluster = NextCluster(currentCluster, state.fat)
	}

	return int(written), nil
}

// Write is intentionally unimplemented, same as fat12_write in the
// original: it always reports 0 bytes written with no error.
func (driverOps) Write(node *vfs.Vnode, buf []byte, offset uint32) (int, error) {
	return 0, nil
}

// Lookup resolves a single path component within dir, searching the root
// directory region or a subdirectory's cluster chain depending on which
// kind of vnode dir is. It's the translation of fat12_lookup plus
// create_vnode, with the vnode cache folded in so repeated lookups of the
// same name return the same *vfs.Vnode.
func (driverOps) Lookup(dir *vfs.Vnode, name string) (*vfs.Vnode, error) {
	if dir.Type != vfs.VDIR {
		return nil, errors.ErrNotADirectory
	}

	state := dir.OwningVFS.Data.(*mountState)
	fatName := StringToFATName(name)

	if cached := state.cache.find(fatName); cached != nil {
		return cached, nil
	}

	var found *RawDirEntry
	var err error
	if dir.IsRoot() {
		found, err = lookupInRootDir(dir, state, fatName)
	} else {
		found, err = lookupInSubdir(dir, state, fatName)
	}
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, errors.ErrNotFound
	}

	vtype := vfs.VREG
	if found.Attributes.Has(AttrDirectory) {
		vtype = vfs.VDIR
	}

	node := &vfs.Vnode{
		Type:      vtype,
		Ops:       driverOps{},
		OwningVFS: dir.OwningVFS,
		Data:      found,
	}
	if !state.cache.insert(fatName, node) {
		return nil, errors.ErrOutOfMemory
	}
	return node, nil
}

// ReadDir implements vfs.DirReader, listing every live entry in dir. It
// walks the same disk regions Lookup does but collects every non-free
// slot instead of stopping at the first name match.
func (driverOps) ReadDir(dir *vfs.Vnode) ([]vfs.DirEntry, error) {
	if dir.Type != vfs.VDIR {
		return nil, errors.ErrNotADirectory
	}

	state := dir.OwningVFS.Data.(*mountState)

	var raws []*RawDirEntry
	var err error
	if dir.IsRoot() {
		raws, err = scanAllRootDir(dir, state)
	} else {
		raws, err = scanAllSubdir(dir, state)
	}
	if err != nil {
		return nil, err
	}

	entries := make([]vfs.DirEntry, 0, len(raws))
	for _, raw := range raws {
		entries = append(entries, vfs.DirEntry{
			Name:  decodeFATName(raw.Name),
			IsDir: raw.Attributes.Has(AttrDirectory),
			Size:  raw.FileSize,
		})
	}
	return entries, nil
}

// decodeFATName turns an 11-byte 8.3 name back into "STEM.EXT" form, the
// inverse of StringToFATName, trimming the space padding on each side.
func decodeFATName(raw [11]byte) string {
	stem := strings.TrimRight(string(raw[0:8]), " ")
	ext := strings.TrimRight(string(raw[8:11]), " ")
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}

func scanAllRootDir(dir *vfs.Vnode, state *mountState) ([]*RawDirEntry, error) {
	sector := make([]byte, state.bootSector.BytesPerSector)
	var found []*RawDirEntry

	for i := uint32(0); i < state.bootSector.RootDirSectors; i++ {
		lba := state.bootSector.RootDirLBA + i
		if err := dir.OwningVFS.Device.ReadSectors(sector, lba, 1); err != nil {
			return nil, errors.ErrGeneric.Wrap(err)
		}
		found = append(found, scanDirSectorAll(sector)...)
	}
	return found, nil
}

func scanAllSubdir(dir *vfs.Vnode, state *mountState) ([]*RawDirEntry, error) {
	entry := dir.Data.(*RawDirEntry)
	currentCluster := entry.FirstCluster()
	var found []*RawDirEntry

	for !IsEndOfChain(currentCluster) {
		lba := state.bootSector.ClusterToLBA(currentCluster)
		if err := dir.OwningVFS.Device.ReadSectors(state.clusterBuf, lba, uint32(state.bootSector.SectorsPerCluster)); err != nil {
			return nil, errors.ErrGeneric.Wrap(err)
		}
		found = append(found, scanDirSectorAll(state.clusterBuf)...)
		currentCluster = NextCluster(currentCluster, state.fat)
	}
	return found, nil
}

// scanDirSectorAll decodes every live directory entry in data, same as
// scanDirSector but collecting all matches instead of the first.
func scanDirSectorAll(data []byte) []*RawDirEntry {
	count := uint32(len(data)) / DirentSize
	var entries []*RawDirEntry
	for i := uint32(0); i < count; i++ {
		raw := DecodeDirEntry(data[i*DirentSize : (i+1)*DirentSize])
		if raw.IsFree() {
			continue
		}
		entryCopy := raw
		entries = append(entries, &entryCopy)
	}
	return entries
}

func lookupInRootDir(dir *vfs.Vnode, state *mountState, fatName [11]byte) (*RawDirEntry, error) {
	sector := make([]byte, state.bootSector.BytesPerSector)

	for i := uint32(0); i < state.bootSector.RootDirSectors; i++ {
		lba := state.bootSector.RootDirLBA + i
		if err := dir.OwningVFS.Device.ReadSectors(sector, lba, 1); err != nil {
			return nil, errors.ErrGeneric.Wrap(err)
		}

		if entry := scanDirSector(sector, fatName); entry != nil {
			return entry, nil
		}
	}

	return nil, nil
}

func lookupInSubdir(dir *vfs.Vnode, state *mountState, fatName [11]byte) (*RawDirEntry, error) {
	entry := dir.Data.(*RawDirEntry)
	currentCluster := entry.FirstCluster()

	for !IsEndOfChain(currentCluster) {
		lba := state.bootSector.ClusterToLBA(currentCluster)
		if err := dir.OwningVFS.Device.ReadSectors(state.clusterBuf, lba, uint32(state.bootSector.SectorsPerCluster)); err != nil {
			return nil, errors.ErrGeneric.Wrap(err)
		}

		if found := scanDirSector(state.clusterBuf, fatName); found != nil {
			return found, nil
		}

		currentCluster = NextCluster(currentCluster, state.fat)
	}

	return nil, nil
}

// scanDirSector decodes every DirentSize-byte slot in data and returns the
// first one whose name matches fatName, or nil if none does. Free slots
// (IsFree) are skipped, same as fat12_lookup_in_dir relying on strncmp
// never matching a zeroed-out or deleted entry.
func scanDirSector(data []byte, fatName [11]byte) *RawDirEntry {
	count := uint32(len(data)) / DirentSize
	for i := uint32(0); i < count; i++ {
		raw := DecodeDirEntry(data[i*DirentSize : (i+1)*DirentSize])
		if raw.IsFree() {
			continue
		}
		if raw.Name == fatName {
			entryCopy := raw
			return &entryCopy
		}
	}
	return nil
}
