package blockdevice

import (
	"os"
)

// NewFile opens path as a block device with the given total block count,
// creating and zero-extending it if it doesn't already exist. Callers own
// the returned Device's lifetime but there is no explicit Close: the file is
// synced to disk on every WriteBlock.
func NewFile(path string, totalBlocks int) (Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}

	size := int64(totalBlocks) * int64(BlockSize)
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() < size {
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, err
		}
	}

	return &fileDevice{device: device{stream: f, totalBlocks: totalBlocks}, file: f}, nil
}

// NewFileAuto opens an existing block device image at path, inferring its
// total block count from the file's current size. Use this when the image
// was already formatted and its geometry should come from the file itself,
// not from a caller-supplied guess.
func NewFileAuto(path string) (Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	totalBlocks := int(info.Size() / int64(BlockSize))
	return &fileDevice{device: device{stream: f, totalBlocks: totalBlocks}, file: f}, nil
}

// fileDevice is a Device backed by an *os.File, syncing after every write so
// the on-disk image is never left in a state the process doesn't believe it
// wrote.
type fileDevice struct {
	device
	file *os.File
}

func (d *fileDevice) WriteBlock(idx int, in []byte) error {
	if err := d.device.WriteBlock(idx, in); err != nil {
		return err
	}
	return d.file.Sync()
}
