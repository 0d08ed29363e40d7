package layout_test

import (
	"testing"

	"github.com/dargueta/simplefs/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuperBlockRoundTrip(t *testing.T) {
	sb := layout.SuperBlock{
		Magic:        layout.Magic,
		NBlocks:      100,
		NInodeBlocks: 10,
		NInodes:      10 * layout.InodesPerBlock,
	}

	block := layout.EncodeSuperBlock(sb)
	require.Len(t, block, layout.BlockSize)

	decoded, err := layout.DecodeSuperBlock(block)
	require.NoError(t, err)
	assert.Equal(t, sb, decoded)
	assert.True(t, decoded.Valid())
}

func TestDecodeSuperBlock_WrongMagicIsStillDecoded(t *testing.T) {
	block := make([]byte, layout.BlockSize)
	sb, err := layout.DecodeSuperBlock(block)
	require.NoError(t, err)
	assert.False(t, sb.Valid())
}

func TestInodeRoundTrip(t *testing.T) {
	block := layout.NewEmptyInodeBlock()

	inode := layout.Inode{
		IsValid:  true,
		Size:     12345,
		Direct:   [layout.DirectPointers]int32{11, 12, 0, 0, 0},
		Indirect: 99,
	}

	require.NoError(t, layout.EncodeInodeInto(block, 3, inode))

	decoded, err := layout.DecodeInode(block, 3)
	require.NoError(t, err)
	assert.Equal(t, inode, decoded)

	// Every other slot in the block is still free.
	other, err := layout.DecodeInode(block, 4)
	require.NoError(t, err)
	assert.False(t, other.IsValid)
}

func TestIndirectBlockRoundTrip(t *testing.T) {
	var pointers [layout.PointersPerBlock]int32
	pointers[0] = 7
	pointers[1023] = 42

	block := layout.EncodeIndirectBlock(pointers)
	decoded, err := layout.DecodeIndirectBlock(block)
	require.NoError(t, err)
	assert.Equal(t, pointers, decoded)
}

func TestInodeLocation(t *testing.T) {
	block, slot := layout.InodeLocation(0)
	assert.Equal(t, 1, block)
	assert.Equal(t, 0, slot)

	block, slot = layout.InodeLocation(layout.InodesPerBlock)
	assert.Equal(t, 2, block)
	assert.Equal(t, 0, slot)

	block, slot = layout.InodeLocation(layout.InodesPerBlock + 5)
	assert.Equal(t, 2, block)
	assert.Equal(t, 5, slot)
}
