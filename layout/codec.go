package layout

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/noxer/bytewriter"
)

// rawSuperBlock mirrors the on-disk superblock byte-for-byte.
type rawSuperBlock struct {
	Magic        uint32
	NBlocks      int32
	NInodeBlocks int32
	NInodes      int32
}

// rawInode mirrors the on-disk inode record byte-for-byte: isvalid, size,
// five direct pointers, one indirect pointer — 32 bytes total.
type rawInode struct {
	IsValid  int32
	Size     int32
	Direct   [DirectPointers]int32
	Indirect int32
}

// DecodeSuperBlock reads the superblock out of a single block's raw bytes.
func DecodeSuperBlock(block []byte) (SuperBlock, error) {
	if len(block) != BlockSize {
		return SuperBlock{}, fmt.Errorf("layout: superblock buffer must be %d bytes, got %d", BlockSize, len(block))
	}

	var raw rawSuperBlock
	if err := binary.Read(bytes.NewReader(block), binary.LittleEndian, &raw); err != nil {
		return SuperBlock{}, err
	}

	return SuperBlock{
		Magic:        raw.Magic,
		NBlocks:      raw.NBlocks,
		NInodeBlocks: raw.NInodeBlocks,
		NInodes:      raw.NInodes,
	}, nil
}

// EncodeSuperBlock serializes sb into a freshly zeroed block-sized buffer.
func EncodeSuperBlock(sb SuperBlock) []byte {
	block := make([]byte, BlockSize)
	writer := bytewriter.New(block)

	raw := rawSuperBlock{
		Magic:        sb.Magic,
		NBlocks:      sb.NBlocks,
		NInodeBlocks: sb.NInodeBlocks,
		NInodes:      sb.NInodes,
	}
	// The write cannot fail: block is pre-sized to hold every field the
	// superblock defines, with room to spare that stays zeroed.
	binary.Write(writer, binary.LittleEndian, &raw)
	return block
}

// DecodeInode reads the inode record stored at slot within an inode block's
// raw bytes.
func DecodeInode(block []byte, slot int) (Inode, error) {
	if len(block) != BlockSize {
		return Inode{}, fmt.Errorf("layout: inode block buffer must be %d bytes, got %d", BlockSize, len(block))
	}
	if slot < 0 || slot >= InodesPerBlock {
		return Inode{}, fmt.Errorf("layout: inode slot %d out of range [0, %d)", slot, InodesPerBlock)
	}

	start := slot * inodeRecordSize
	var raw rawInode
	err := binary.Read(bytes.NewReader(block[start:start+inodeRecordSize]), binary.LittleEndian, &raw)
	if err != nil {
		return Inode{}, err
	}

	return Inode{
		IsValid:  raw.IsValid != 0,
		Size:     raw.Size,
		Direct:   raw.Direct,
		Indirect: raw.Indirect,
	}, nil
}

// EncodeInodeInto writes inode's record into slot of block, which must
// already hold a full, valid inode block (so the other slots are
// untouched).
func EncodeInodeInto(block []byte, slot int, inode Inode) error {
	if len(block) != BlockSize {
		return fmt.Errorf("layout: inode block buffer must be %d bytes, got %d", BlockSize, len(block))
	}
	if slot < 0 || slot >= InodesPerBlock {
		return fmt.Errorf("layout: inode slot %d out of range [0, %d)", slot, InodesPerBlock)
	}

	raw := rawInode{
		Size:     inode.Size,
		Direct:   inode.Direct,
		Indirect: inode.Indirect,
	}
	if inode.IsValid {
		raw.IsValid = 1
	}

	start := slot * inodeRecordSize
	writer := bytewriter.New(block[start : start+inodeRecordSize])
	return binary.Write(writer, binary.LittleEndian, &raw)
}

// NewEmptyInodeBlock returns a block-sized buffer whose InodesPerBlock slots
// all decode as free (isvalid == 0). This is what Format writes across the
// whole inode-block range.
func NewEmptyInodeBlock() []byte {
	return make([]byte, BlockSize)
}

// DecodeIndirectBlock reads an indirect block's raw bytes into a flat array
// of PointersPerBlock pointer slots.
func DecodeIndirectBlock(block []byte) ([PointersPerBlock]int32, error) {
	var pointers [PointersPerBlock]int32
	if len(block) != BlockSize {
		return pointers, fmt.Errorf("layout: indirect block buffer must be %d bytes, got %d", BlockSize, len(block))
	}

	err := binary.Read(bytes.NewReader(block), binary.LittleEndian, &pointers)
	return pointers, err
}

// EncodeIndirectBlock serializes pointers into a block-sized buffer.
func EncodeIndirectBlock(pointers [PointersPerBlock]int32) []byte {
	block := make([]byte, BlockSize)
	writer := bytewriter.New(block)
	binary.Write(writer, binary.LittleEndian, &pointers)
	return block
}
