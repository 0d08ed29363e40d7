// Command sfssh is the shell front end for a simplefs volume: one
// subcommand per core operation, dispatching to the volume package. Exit
// codes and flag parsing live here, not in the core.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/dargueta/simplefs/blockdevice"
	"github.com/dargueta/simplefs/devices"
	"github.com/dargueta/simplefs/volume"
)

func main() {
	app := &cli.App{
		Name:  "sfssh",
		Usage: "inspect and manipulate a simplefs disk image",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "image", Required: true, Usage: "path to the disk image file"},
			&cli.IntFlag{Name: "blocks", Usage: "total blocks (only used by format)"},
			&cli.StringFlag{Name: "preset", Usage: "named device geometry from the devices catalog"},
		},
		Commands: []*cli.Command{
			{Name: "format", Usage: "create or wipe a volume", Action: runFormat},
			{Name: "mount", Usage: "verify a volume mounts cleanly", Action: runMount},
			{Name: "debug", Usage: "dump the superblock and every valid inode", Action: runDebug},
			{Name: "check", Usage: "validate bitmap/size/indirect invariants", Action: runCheck},
			{Name: "create", Usage: "allocate a new inode", Action: runCreate},
			{Name: "delete", Usage: "free an inode", ArgsUsage: "INUMBER", Action: runDelete},
			{Name: "getsize", Usage: "print an inode's size", ArgsUsage: "INUMBER", Action: runGetSize},
			{Name: "read", Usage: "read bytes from an inode to stdout", ArgsUsage: "INUMBER LENGTH OFFSET", Action: runRead},
			{Name: "write", Usage: "write stdin into an inode", ArgsUsage: "INUMBER OFFSET", Action: runWrite},
			{Name: "geometries", Usage: "list named device presets", Action: runGeometries},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("sfssh: %s", err)
	}
}

func totalBlocksFromContext(c *cli.Context) (int, error) {
	if preset := c.String("preset"); preset != "" {
		g, err := devices.Lookup(preset)
		if err != nil {
			return 0, err
		}
		return g.Blocks, nil
	}
	if blocks := c.Int("blocks"); blocks > 0 {
		return blocks, nil
	}
	return 0, fmt.Errorf("either --blocks or --preset is required")
}

func openVolumeForFormat(c *cli.Context, totalBlocks int) (*volume.Volume, error) {
	dev, err := blockdevice.NewFile(c.String("image"), totalBlocks)
	if err != nil {
		return nil, err
	}
	return volume.New(dev), nil
}

// openExistingVolume opens an already-formatted image, inferring its block
// count from the file's own size rather than from a flag.
func openExistingVolume(c *cli.Context) (*volume.Volume, error) {
	dev, err := blockdevice.NewFileAuto(c.String("image"))
	if err != nil {
		return nil, err
	}
	return volume.New(dev), nil
}

func exitUnless(ok bool, message string) error {
	if !ok {
		return cli.Exit(message, 1)
	}
	return nil
}

func runFormat(c *cli.Context) error {
	totalBlocks, err := totalBlocksFromContext(c)
	if err != nil {
		return err
	}
	v, err := openVolumeForFormat(c, totalBlocks)
	if err != nil {
		return err
	}
	return exitUnless(v.Format() == 1, "format failed")
}

func mountExisting(c *cli.Context) (*volume.Volume, error) {
	v, err := openExistingVolume(c)
	if err != nil {
		return nil, err
	}
	if v.Mount() != 1 {
		return nil, cli.Exit("mount failed", 1)
	}
	return v, nil
}

func runMount(c *cli.Context) error {
	_, err := mountExisting(c)
	if err != nil {
		return err
	}
	fmt.Println("mounted ok")
	return nil
}

func runDebug(c *cli.Context) error {
	v, err := openExistingVolume(c)
	if err != nil {
		return err
	}
	v.Debug(os.Stdout)
	return nil
}

func runCheck(c *cli.Context) error {
	v, err := mountExisting(c)
	if err != nil {
		return err
	}
	if err := v.Check(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cli.Exit("volume is inconsistent", 1)
	}
	fmt.Println("volume is consistent")
	return nil
}

func runCreate(c *cli.Context) error {
	v, err := mountExisting(c)
	if err != nil {
		return err
	}
	inumber := v.Create()
	if inumber == 0 {
		return cli.Exit("create failed", 1)
	}
	fmt.Println(inumber)
	return nil
}

func parseInumberArg(c *cli.Context, index int) (int, error) {
	if c.Args().Len() <= index {
		return 0, fmt.Errorf("missing INUMBER argument")
	}
	return strconv.Atoi(c.Args().Get(index))
}

func runDelete(c *cli.Context) error {
	v, err := mountExisting(c)
	if err != nil {
		return err
	}
	inumber, err := parseInumberArg(c, 0)
	if err != nil {
		return err
	}
	return exitUnless(v.Delete(inumber) == 1, "delete failed")
}

func runGetSize(c *cli.Context) error {
	v, err := mountExisting(c)
	if err != nil {
		return err
	}
	inumber, err := parseInumberArg(c, 0)
	if err != nil {
		return err
	}
	size := v.GetSize(inumber)
	if size < 0 {
		return cli.Exit("getsize failed", 1)
	}
	fmt.Println(size)
	return nil
}

func runRead(c *cli.Context) error {
	v, err := mountExisting(c)
	if err != nil {
		return err
	}
	if c.Args().Len() < 3 {
		return fmt.Errorf("usage: read INUMBER LENGTH OFFSET")
	}
	inumber, err := strconv.Atoi(c.Args().Get(0))
	if err != nil {
		return err
	}
	length, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return err
	}
	offset, err := strconv.Atoi(c.Args().Get(2))
	if err != nil {
		return err
	}

	buf := make([]byte, length)
	n := v.Read(inumber, buf, length, offset)
	_, err = os.Stdout.Write(buf[:n])
	return err
}

func runWrite(c *cli.Context) error {
	v, err := mountExisting(c)
	if err != nil {
		return err
	}
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: write INUMBER OFFSET  (data read from stdin)")
	}
	inumber, err := strconv.Atoi(c.Args().Get(0))
	if err != nil {
		return err
	}
	offset, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return err
	}

	data, err := readAllStdin()
	if err != nil {
		return err
	}

	n := v.Write(inumber, data, len(data), offset)
	fmt.Println(n)
	return nil
}

func readAllStdin() ([]byte, error) {
	const chunk = 4096
	var all []byte
	buf := make([]byte, chunk)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			all = append(all, buf[:n]...)
		}
		if err != nil {
			break
		}
	}
	return all, nil
}

func runGeometries(c *cli.Context) error {
	for _, name := range devices.Names() {
		g, _ := devices.Lookup(name)
		fmt.Printf("%-10s %8d blocks  %s\n", g.Name, g.Blocks, g.Notes)
	}
	return nil
}
