// Command vfsdemo drives the VFS/FAT12 stack from the command line,
// reproducing the walkthrough original_source/main.c hard-coded: mount
// one or more FAT12 images into a single namespace, then open, read, and
// list files across the combined tree.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Novice06/vfs-simulator/device"
	"github.com/Novice06/vfs-simulator/disk"
	"github.com/Novice06/vfs-simulator/drivers/fat12"
	"github.com/Novice06/vfs-simulator/vfs"
)

// session bundles the bits a subcommand needs once "--image"/"--mount"
// have been parsed: the live World, which also holds the device registry
// backing it (World.Devices).
type session struct {
	world *vfs.World
}

func newSession(images []string, mountPoints []string) (*session, error) {
	if len(mountPoints) == 0 {
		mountPoints = []string{"/"}
	}
	if len(images) != len(mountPoints) {
		return nil, fmt.Errorf("got %d --image flags but %d --mount flags, they must pair up", len(images), len(mountPoints))
	}

	registry := device.NewRegistry()
	w := vfs.NewWorld(registry)
	if err := w.RegisterFilesystem(fat12.NewDriver()); err != nil {
		return nil, err
	}

	for i, imagePath := range images {
		f, err := os.OpenFile(imagePath, os.O_RDWR, 0)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", imagePath, err)
		}

		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", imagePath, err)
		}

		d := disk.New(imagePath, f, uint32(info.Size()/disk.SectorSize))
		devID := registry.Add(imagePath, d)

		if err := w.Mount("fat12", mountPoints[i], devID); err != nil {
			return nil, fmt.Errorf("mount %s at %s: %w", imagePath, mountPoints[i], err)
		}
		log.Printf("mounted %s at %s", imagePath, mountPoints[i])
	}

	return &session{world: w}, nil
}

func imageAndMountFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:     "image",
			Aliases:  []string{"i"},
			Usage:    "path to a FAT12 image to mount (repeatable)",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:    "mount",
			Aliases: []string{"m"},
			Usage:   "mount point for the matching --image (repeatable, defaults to /)",
		},
	}
}

func catCommand() *cli.Command {
	return &cli.Command{
		Name:      "cat",
		Usage:     "print the contents of a file reached through the mounted namespace",
		ArgsUsage: "<path>",
		Flags:     imageAndMountFlags(),
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return cli.Exit("cat requires a path argument", 1)
			}

			sess, err := newSession(c.StringSlice("image"), c.StringSlice("mount"))
			if err != nil {
				return err
			}

			fd, err := sess.world.Open(path, vfs.O_RDONLY)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer sess.world.Close(fd)

			buf := make([]byte, 512)
			for {
				n, err := sess.world.Read(fd, buf)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				if n == 0 {
					break
				}
				os.Stdout.Write(buf[:n])
			}
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "list a directory's entries and optionally export them as CSV",
		ArgsUsage: "<path>",
		Flags: append(imageAndMountFlags(), &cli.StringFlag{
			Name:  "csv",
			Usage: "write the listing to this CSV file instead of stdout",
		}),
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				path = "/"
			}

			sess, err := newSession(c.StringSlice("image"), c.StringSlice("mount"))
			if err != nil {
				return err
			}

			rows, err := listDirectory(sess.world, path)
			if err != nil {
				return fmt.Errorf("list %s: %w", path, err)
			}

			if csvPath := c.String("csv"); csvPath != "" {
				return writeListingCSV(rows, csvPath)
			}

			for _, row := range rows {
				fmt.Printf("%-12s %8d  dir=%v\n", row.Name, row.Size, row.IsDirectory)
			}
			return nil
		},
	}
}

func discoverCommand() *cli.Command {
	return &cli.Command{
		Name:      "discover",
		Usage:     "scan a directory for .img files without mounting them",
		ArgsUsage: "<directory>",
		Action: func(c *cli.Context) error {
			dir := c.Args().First()
			if dir == "" {
				dir = "."
			}

			disks, err := disk.Discover(dir)
			if err != nil {
				log.Printf("some images failed to open: %v", err)
			}

			for _, d := range disks {
				fmt.Printf("%-20s %6d sectors\n", d.Name(), d.TotalSectors())
			}
			return nil
		},
	}
}

func main() {
	app := &cli.App{
		Name:  "vfsdemo",
		Usage: "mount FAT12 images into a shared namespace and poke at them",
		Commands: []*cli.Command{
			catCommand(),
			listCommand(),
			discoverCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
