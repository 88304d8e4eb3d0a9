package vfs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Novice06/vfs-simulator/device"
	vfserrors "github.com/Novice06/vfs-simulator/errors"
	"github.com/Novice06/vfs-simulator/vfs"
)

// memFile is a single in-memory file or directory used by memFS below.
type memFile struct {
	name     string
	isDir    bool
	contents []byte
	children []*memFile
}

// memFS is a minimal vfs.FileSystemDriver backed entirely by in-memory
// data, standing in for drivers/fat12 so the vfs package's mount/lookup/
// descriptor logic can be exercised without any on-disk format.
//
// Like the real FAT12 driver, it caches one *vfs.Vnode per *memFile so
// that the same directory entry always resolves to the same vnode
// instance: that identity is what lets Vnode.MountedHere, set once at
// Mount time, survive later lookups of the same path component.
type memFS struct {
	fsName string
	root   *memFile
	cache  map[*memFile]*vfs.Vnode
}

func newMemFS(name string, root *memFile) *memFS {
	return &memFS{fsName: name, root: root, cache: make(map[*memFile]*vfs.Vnode)}
}

func (m *memFS) Name() string { return m.fsName }

func (m *memFS) Mount(mount *vfs.Mount) error {
	mount.Data = m.root
	return nil
}

func (m *memFS) Unmount(mount *vfs.Mount) error {
	return nil
}

func (m *memFS) vnodeFor(mount *vfs.Mount, f *memFile) *vfs.Vnode {
	if v, ok := m.cache[f]; ok {
		return v
	}

	vtype := vfs.VREG
	if f.isDir {
		vtype = vfs.VDIR
	}

	v := &vfs.Vnode{
		Type:      vtype,
		Ops:       memOps{fs: m},
		OwningVFS: mount,
		Data:      f,
	}
	m.cache[f] = v
	return v
}

func (m *memFS) GetRoot(mount *vfs.Mount) (*vfs.Vnode, error) {
	root := mount.Data.(*memFile)
	v := m.vnodeFor(mount, root)
	v.Flags |= vfs.VnodeFlagRoot
	return v, nil
}

// memOps implements vfs.VnodeOps against memFile values stashed in
// Vnode.Data, going back through fs to reuse its vnode cache.
type memOps struct {
	fs *memFS
}

func (memOps) Read(node *vfs.Vnode, buf []byte, offset uint32) (int, error) {
	f := node.Data.(*memFile)
	if f.isDir || offset >= uint32(len(f.contents)) {
		return 0, nil
	}
	n := copy(buf, f.contents[offset:])
	return n, nil
}

func (memOps) Write(node *vfs.Vnode, buf []byte, offset uint32) (int, error) {
	return 0, nil
}

func (o memOps) Lookup(dir *vfs.Vnode, name string) (*vfs.Vnode, error) {
	f := dir.Data.(*memFile)
	for _, child := range f.children {
		if child.name == name {
			return o.fs.vnodeFor(dir.OwningVFS, child), nil
		}
	}
	return nil, vfserrors.ErrNotFound
}

func newWorldWithRoot() (*vfs.World, device.ID) {
	registry := device.NewRegistry()
	devID := registry.Add("ram0", noopDevice{})
	w := vfs.NewWorld(registry)
	return w, devID
}

type noopDevice struct{}

func (noopDevice) ReadSectors(buffer []byte, lba uint32, count uint32) error  { return nil }
func (noopDevice) WriteSectors(buffer []byte, lba uint32, count uint32) error { return nil }

func TestMountBecomesRoot(t *testing.T) {
	w, devID := newWorldWithRoot()
	root := &memFile{name: "/", isDir: true}
	require.NoError(t, w.RegisterFilesystem(newMemFS("mem", root)))

	require.NoError(t, w.Mount("mem", "/", devID))

	node, err := w.LookupPathName("/")
	require.NoError(t, err)
	require.True(t, node.IsRoot())
}

func TestLookupNestedPath(t *testing.T) {
	w, devID := newWorldWithRoot()
	file := &memFile{name: "hello.txt", contents: []byte("hello world")}
	dir := &memFile{name: "sub", isDir: true, children: []*memFile{file}}
	root := &memFile{name: "/", isDir: true, children: []*memFile{dir}}
	require.NoError(t, w.RegisterFilesystem(newMemFS("mem", root)))
	require.NoError(t, w.Mount("mem", "/", devID))

	node, err := w.LookupPathName("/sub/hello.txt")
	require.NoError(t, err)
	require.Equal(t, vfs.VREG, node.Type)
}

func TestLookupMissingPathFails(t *testing.T) {
	w, devID := newWorldWithRoot()
	root := &memFile{name: "/", isDir: true}
	require.NoError(t, w.RegisterFilesystem(newMemFS("mem", root)))
	require.NoError(t, w.Mount("mem", "/", devID))

	_, err := w.LookupPathName("/nope")
	require.Error(t, err)
}

func TestCrossMountLookup(t *testing.T) {
	w, devID := newWorldWithRoot()

	outerFile := &memFile{name: "outer.txt", contents: []byte("outer")}
	outerRoot := &memFile{name: "/", isDir: true, children: []*memFile{
		{name: "mydir", isDir: true},
		outerFile,
	}}
	require.NoError(t, w.RegisterFilesystem(newMemFS("outer", outerRoot)))
	require.NoError(t, w.Mount("outer", "/", devID))

	innerFile := &memFile{name: "inner.txt", contents: []byte("inner contents")}
	innerRoot := &memFile{name: "/", isDir: true, children: []*memFile{innerFile}}
	require.NoError(t, w.RegisterFilesystem(newMemFS("inner", innerRoot)))
	require.NoError(t, w.Mount("inner", "/mydir", devID))

	node, err := w.LookupPathName("/mydir/inner.txt")
	require.NoError(t, err)
	require.Equal(t, vfs.VREG, node.Type)

	buf := make([]byte, 32)
	n, err := node.Ops.Read(node, buf, 0)
	require.NoError(t, err)
	require.Equal(t, "inner contents", string(buf[:n]))
}

func TestUnmountRefusesRoot(t *testing.T) {
	w, devID := newWorldWithRoot()
	root := &memFile{name: "/", isDir: true}
	require.NoError(t, w.RegisterFilesystem(newMemFS("mem", root)))
	require.NoError(t, w.Mount("mem", "/", devID))

	err := w.Unmount("/")
	require.Error(t, err)
}

func TestUnmountRefusesWhileDescendantMounted(t *testing.T) {
	w, devID := newWorldWithRoot()

	outerRoot := &memFile{name: "/", isDir: true, children: []*memFile{
		{name: "mydir", isDir: true},
	}}
	require.NoError(t, w.RegisterFilesystem(newMemFS("outer", outerRoot)))
	require.NoError(t, w.Mount("outer", "/", devID))

	middleRoot := &memFile{name: "/", isDir: true, children: []*memFile{
		{name: "deeper", isDir: true},
	}}
	require.NoError(t, w.RegisterFilesystem(newMemFS("middle", middleRoot)))
	require.NoError(t, w.Mount("middle", "/mydir", devID))

	innerRoot := &memFile{name: "/", isDir: true}
	require.NoError(t, w.RegisterFilesystem(newMemFS("inner", innerRoot)))
	require.NoError(t, w.Mount("inner", "/mydir/deeper", devID))

	err := w.Unmount("/mydir")
	require.Error(t, err)

	// The innermost mount has no descendants, so it can be removed ...
	require.NoError(t, w.Unmount("/mydir/deeper"))
	// ... which then frees up /mydir to be unmounted too.
	require.NoError(t, w.Unmount("/mydir"))
}

func TestOpenReadClose(t *testing.T) {
	w, devID := newWorldWithRoot()
	file := &memFile{name: "hello.txt", contents: []byte("hello world")}
	root := &memFile{name: "/", isDir: true, children: []*memFile{file}}
	require.NoError(t, w.RegisterFilesystem(newMemFS("mem", root)))
	require.NoError(t, w.Mount("mem", "/", devID))

	fd, err := w.Open("/hello.txt", vfs.O_RDONLY)
	require.NoError(t, err)

	buf := make([]byte, 5)
	n, err := w.Read(fd, buf)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf[:n]))

	n, err = w.Read(fd, buf)
	require.NoError(t, err)
	require.Equal(t, " worl", string(buf[:n]))

	require.NoError(t, w.Close(fd))
}

func TestReadOnWriteOnlyFDFails(t *testing.T) {
	w, devID := newWorldWithRoot()
	file := &memFile{name: "hello.txt", contents: []byte("hello")}
	root := &memFile{name: "/", isDir: true, children: []*memFile{file}}
	require.NoError(t, w.RegisterFilesystem(newMemFS("mem", root)))
	require.NoError(t, w.Mount("mem", "/", devID))

	fd, err := w.Open("/hello.txt", vfs.O_WRONLY)
	require.NoError(t, err)

	buf := make([]byte, 5)
	_, err = w.Read(fd, buf)
	require.Error(t, err)
}

func TestOperationOnClosedFDFails(t *testing.T) {
	w, devID := newWorldWithRoot()
	root := &memFile{name: "/", isDir: true}
	require.NoError(t, w.RegisterFilesystem(newMemFS("mem", root)))
	require.NoError(t, w.Mount("mem", "/", devID))

	fd, err := w.Open("/", vfs.O_RDONLY)
	require.NoError(t, err)
	require.NoError(t, w.Close(fd))

	_, err = w.Read(fd, make([]byte, 1))
	require.Error(t, err)
}

func TestTooManyOpenFiles(t *testing.T) {
	w, devID := newWorldWithRoot()
	root := &memFile{name: "/", isDir: true}
	require.NoError(t, w.RegisterFilesystem(newMemFS("mem", root)))
	require.NoError(t, w.Mount("mem", "/", devID))

	for i := 0; i < vfs.MaxOpenFiles; i++ {
		_, err := w.Open("/", vfs.O_RDONLY)
		require.NoError(t, err)
	}

	_, err := w.Open("/", vfs.O_RDONLY)
	require.Error(t, err)
}
