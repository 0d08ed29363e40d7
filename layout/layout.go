// Package layout defines the on-disk geometry of a simplefs volume and the
// codec functions that translate between raw block bytes and the typed
// superblock, inode, and indirect-block views of them.
//
// Every integer on disk is a 32-bit signed value in little-endian byte
// order, consistent across every encode/decode in this package.
package layout

import "github.com/dargueta/simplefs/blockdevice"

// BlockSize is the size in bytes of every block on a simplefs volume.
const BlockSize = blockdevice.BlockSize

// Magic identifies a formatted simplefs volume. It is written to the first
// four bytes of the superblock. It's a bit pattern, not a signed count, so
// it's carried as uint32 rather than the int32 the rest of the layout uses.
const Magic uint32 = 0xF0F03410

// inodeRecordSize is sizeof(struct fs_inode): isvalid(4) + size(4) +
// direct[5](20) + indirect(4) = 32 bytes.
const inodeRecordSize = 32

// InodesPerBlock (I) is the number of inode records packed into one block.
const InodesPerBlock = BlockSize / inodeRecordSize

// DirectPointers (D) is the number of direct block pointers in one inode.
const DirectPointers = 5

// pointerSize is sizeof(int32), the width of one entry in an indirect block.
const pointerSize = 4

// PointersPerBlock (P) is the number of pointer slots in one indirect block.
const PointersPerBlock = BlockSize / pointerSize

// MaxFileSize is the largest size, in bytes, an inode can hold: D direct
// blocks plus P blocks reachable through the single indirect block.
const MaxFileSize = (DirectPointers + PointersPerBlock) * BlockSize

// SuperBlock is the decoded form of block 0.
type SuperBlock struct {
	Magic        uint32
	NBlocks      int32
	NInodeBlocks int32
	NInodes      int32
}

// Valid reports whether sb carries the simplefs magic number.
func (sb SuperBlock) Valid() bool {
	return sb.Magic == Magic
}

// Inode is the decoded form of one 32-byte on-disk inode record.
type Inode struct {
	IsValid  bool
	Size     int32
	Direct   [DirectPointers]int32
	Indirect int32
}

// InodeLocation gives the block and in-block slot that holds inumber's
// record. Block 0 is the superblock, so inode blocks start at block 1.
func InodeLocation(inumber int) (block int, slot int) {
	return 1 + (inumber / InodesPerBlock), inumber % InodesPerBlock
}
