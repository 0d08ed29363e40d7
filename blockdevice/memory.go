package blockdevice

import (
	"github.com/xaionaro-go/bytesextra"
)

// NewMemory creates an in-memory Device with totalBlocks blocks, all zeroed.
// It exists for tests and for short-lived volumes that never need to survive
// process exit, backing the disk image with a plain byte slice via
// github.com/xaionaro-go/bytesextra instead of a file.
func NewMemory(totalBlocks int) Device {
	buf := make([]byte, totalBlocks*BlockSize)
	stream := bytesextra.NewReadWriteSeeker(buf)
	return New(stream, totalBlocks)
}
