package main

import (
	"os"

	"github.com/gocarina/gocsv"

	"github.com/Novice06/vfs-simulator/vfs"
)

// listingRow is one row of a directory listing, tagged for gocsv the same
// way disks.DiskGeometry is in the teacher's disks package.
type listingRow struct {
	Name        string `csv:"name"`
	Size        uint32 `csv:"size_bytes"`
	IsDirectory bool   `csv:"is_directory"`
}

func listDirectory(w *vfs.World, path string) ([]listingRow, error) {
	entries, err := w.ListDir(path)
	if err != nil {
		return nil, err
	}

	rows := make([]listingRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, listingRow{Name: e.Name, Size: e.Size, IsDirectory: e.IsDir})
	}
	return rows, nil
}

func writeListingCSV(rows []listingRow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gocsv.MarshalFile(&rows, f)
}
