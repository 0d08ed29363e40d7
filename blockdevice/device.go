// Package blockdevice implements a thin fixed-size-block adapter over a
// seekable byte stream. It is the "external collaborator" the simplefs core
// assumes: something that can address blocks by integer index and read or
// write exactly one block's worth of bytes at a time.
package blockdevice

import (
	"fmt"
	"io"
)

// BlockSize is the fixed size of a single block, in bytes.
const BlockSize = 4096

// Device is the contract the simplefs core requires of its underlying
// storage. Implementations are not required to be safe for concurrent use.
type Device interface {
	// BlockCount returns the total number of addressable blocks.
	BlockCount() int

	// ReadBlock fills out (which must be BlockSize bytes) with the contents
	// of the block at idx.
	ReadBlock(idx int, out []byte) error

	// WriteBlock writes in (which must be BlockSize bytes) to the block at
	// idx.
	WriteBlock(idx int, in []byte) error
}

// device wraps a seekable stream, treating it as a flat array of
// fixed-size blocks starting at byte offset 0.
type device struct {
	stream      io.ReadWriteSeeker
	totalBlocks int
}

// New wraps stream, which must already be sized to exactly
// totalBlocks*BlockSize bytes, as a Device.
func New(stream io.ReadWriteSeeker, totalBlocks int) Device {
	return &device{stream: stream, totalBlocks: totalBlocks}
}

func (d *device) BlockCount() int {
	return d.totalBlocks
}

func (d *device) checkBounds(idx int, bufLen int) error {
	if idx < 0 || idx >= d.totalBlocks {
		return fmt.Errorf("blockdevice: block %d out of range [0, %d)", idx, d.totalBlocks)
	}
	if bufLen != BlockSize {
		return fmt.Errorf("blockdevice: buffer must be %d bytes, got %d", BlockSize, bufLen)
	}
	return nil
}

func (d *device) seekToBlock(idx int) error {
	_, err := d.stream.Seek(int64(idx)*int64(BlockSize), io.SeekStart)
	return err
}

func (d *device) ReadBlock(idx int, out []byte) error {
	if err := d.checkBounds(idx, len(out)); err != nil {
		return err
	}
	if err := d.seekToBlock(idx); err != nil {
		return err
	}
	_, err := io.ReadFull(d.stream, out)
	return err
}

func (d *device) WriteBlock(idx int, in []byte) error {
	if err := d.checkBounds(idx, len(in)); err != nil {
		return err
	}
	if err := d.seekToBlock(idx); err != nil {
		return err
	}
	_, err := d.stream.Write(in)
	return err
}
