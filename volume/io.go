package volume

import "github.com/dargueta/simplefs/layout"

// blockIndexSchedule returns the block index and within-block byte offset
// for absolute file position pos.
func blockIndexSchedule(pos int) (blockIdx int, byteOffset int) {
	return pos / layout.BlockSize, pos % layout.BlockSize
}

// Read copies up to length bytes starting at byte offset from inumber's
// contents into buf, returning the number of bytes actually copied. It
// never fails: offset >= size, an invalid or out-of-range inumber, or an
// unmounted volume all simply yield 0.
func (v *Volume) Read(inumber int, buf []byte, length int, offset int) int {
	if !v.mounted || length <= 0 || offset < 0 {
		return 0
	}
	inode, err := v.resolveInode(inumber)
	if err != nil {
		return 0
	}
	if offset >= int(inode.Size) {
		return 0
	}

	end := offset + length
	if end > int(inode.Size) {
		end = int(inode.Size)
	}

	var indirectPointers [layout.PointersPerBlock]int32
	indirectLoaded := false

	pos := offset
	copied := 0
	dataBlock := make([]byte, layout.BlockSize)

	for pos < end {
		bi, bo := blockIndexSchedule(pos)

		var blockIdx int32
		if bi < layout.DirectPointers {
			blockIdx = inode.Direct[bi]
		} else {
			if inode.Indirect == 0 {
				break
			}
			if !indirectLoaded {
				indirectRaw := make([]byte, layout.BlockSize)
				if err := v.dev.ReadBlock(int(inode.Indirect), indirectRaw); err != nil {
					break
				}
				pointers, err := layout.DecodeIndirectBlock(indirectRaw)
				if err != nil {
					break
				}
				indirectPointers = pointers
				indirectLoaded = true
			}
			idx := bi - layout.DirectPointers
			if idx >= layout.PointersPerBlock {
				break
			}
			blockIdx = indirectPointers[idx]
		}

		if blockIdx == 0 {
			// Hole: stop and return what's been copied so far.
			break
		}

		if err := v.dev.ReadBlock(int(blockIdx), dataBlock); err != nil {
			break
		}

		n := layout.BlockSize - bo
		if remaining := end - pos; n > remaining {
			n = remaining
		}
		copy(buf[copied:copied+n], dataBlock[bo:bo+n])

		copied += n
		pos += n
	}

	return copied
}

// Write copies up to length bytes from buf into inumber's contents starting
// at byte offset, allocating direct, indirect, and data blocks on demand.
// It returns the number of bytes actually written, which is less than
// length when the allocator runs out of free blocks, when the write would
// extend past layout.MaxFileSize, or when a block device read or write fails.
func (v *Volume) Write(inumber int, buf []byte, length int, offset int) int {
	if !v.mounted || length <= 0 || offset < 0 {
		return 0
	}
	inode, err := v.resolveInode(inumber)
	if err != nil {
		return 0
	}
	// Sparse extension beyond the current end of file is rejected outright:
	// a write must start at or before the existing end of file.
	if offset > int(inode.Size) {
		return 0
	}

	end := offset + length
	if end > layout.MaxFileSize {
		end = layout.MaxFileSize
	}

	var indirectPointers [layout.PointersPerBlock]int32
	indirectLoaded := false
	indirectDirty := false

	pos := offset
	written := 0
	dataBlock := make([]byte, layout.BlockSize)

	flush := func() int {
		if indirectDirty {
			v.dev.WriteBlock(int(inode.Indirect), layout.EncodeIndirectBlock(indirectPointers))
		}
		if pos > int(inode.Size) {
			inode.Size = int32(pos)
		}
		v.storeInode(inumber, inode)
		return written
	}

	for pos < end {
		bi, bo := blockIndexSchedule(pos)

		var blockIdx int32
		if bi < layout.DirectPointers {
			blockIdx = inode.Direct[bi]
			if blockIdx == 0 {
				newBlock, err := v.allocateBlock()
				if err != nil {
					return flush()
				}
				blockIdx = int32(newBlock)
				inode.Direct[bi] = blockIdx
			}
		} else {
			idx := bi - layout.DirectPointers
			if idx >= layout.PointersPerBlock {
				return flush()
			}

			if inode.Indirect == 0 {
				newIndirect, err := v.allocateBlock()
				if err != nil {
					return flush()
				}
				var zeroed [layout.PointersPerBlock]int32
				if err := v.dev.WriteBlock(newIndirect, layout.EncodeIndirectBlock(zeroed)); err != nil {
					v.freeBlock(newIndirect)
					return flush()
				}
				inode.Indirect = int32(newIndirect)
				indirectPointers = zeroed
				indirectLoaded = true
			} else if !indirectLoaded {
				indirectRaw := make([]byte, layout.BlockSize)
				if err := v.dev.ReadBlock(int(inode.Indirect), indirectRaw); err != nil {
					return flush()
				}
				pointers, err := layout.DecodeIndirectBlock(indirectRaw)
				if err != nil {
					return flush()
				}
				indirectPointers = pointers
				indirectLoaded = true
			}

			blockIdx = indirectPointers[idx]
			if blockIdx == 0 {
				newBlock, err := v.allocateBlock()
				if err != nil {
					return flush()
				}
				blockIdx = int32(newBlock)
				indirectPointers[idx] = blockIdx
				indirectDirty = true
			}
		}

		n := layout.BlockSize - bo
		if remaining := end - pos; n > remaining {
			n = remaining
		}

		// A partial block write must preserve the bytes outside [bo, bo+n)
		// that already live in this block, so read it first unless we're
		// about to overwrite it in full.
		if bo != 0 || n != layout.BlockSize {
			if err := v.dev.ReadBlock(int(blockIdx), dataBlock); err != nil {
				return flush()
			}
		}
		copy(dataBlock[bo:bo+n], buf[written:written+n])

		if err := v.dev.WriteBlock(int(blockIdx), dataBlock); err != nil {
			return flush()
		}

		written += n
		pos += n
	}

	return flush()
}
