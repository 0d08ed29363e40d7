package volume

import (
	"fmt"

	"github.com/boljen/go-bitmap"
	multierror "github.com/hashicorp/go-multierror"

	"github.com/dargueta/simplefs/layout"
)

// Check re-derives the free-block bitmap from the on-disk inode table and
// compares it against the live in-memory bitmap, confirms every inode's
// size is in range and consistent with whether it has an indirect block,
// and confirms no data block is claimed by more than one inode. Unlike
// Debug, it reports every violation it finds rather than stopping at the
// first, returning nil when the volume is internally consistent.
//
// Check is read-only and may be called any time after Mount.
func (v *Volume) Check() error {
	if !v.mounted {
		return FaultNotMounted
	}

	var result *multierror.Error

	expected := bitmap.New(int(v.super.NBlocks))
	for b := 0; b <= int(v.super.NInodeBlocks); b++ {
		expected.Set(b, true)
	}

	// owner tracks which inode first claimed a given block, so a second
	// claim by a different inode can be reported as a sharing violation.
	owner := make(map[int32]int)
	claim := func(block int32, inumber int) {
		if prior, ok := owner[block]; ok {
			result = multierror.Append(result, fmt.Errorf(
				"block %d is referenced by both inode %d and inode %d", block, prior, inumber))
			return
		}
		owner[block] = inumber
		expected.Set(int(block), true)
	}

	inodeBlock := make([]byte, layout.BlockSize)
	indirectBlock := make([]byte, layout.BlockSize)

	for b := 1; b <= int(v.super.NInodeBlocks); b++ {
		if err := v.dev.ReadBlock(b, inodeBlock); err != nil {
			result = multierror.Append(result, fmt.Errorf("inode block %d: %w", b, err))
			continue
		}

		for slot := 0; slot < layout.InodesPerBlock; slot++ {
			inumber := (b-1)*layout.InodesPerBlock + slot
			inode, err := layout.DecodeInode(inodeBlock, slot)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("inode %d: %w", inumber, err))
				continue
			}
			if !inode.IsValid {
				continue
			}

			if inode.Size < 0 || int(inode.Size) > layout.MaxFileSize {
				result = multierror.Append(result, fmt.Errorf(
					"inode %d: size %d outside [0, %d]", inumber, inode.Size, layout.MaxFileSize))
			}
			if int(inode.Size) > layout.DirectPointers*layout.BlockSize && inode.Indirect == 0 {
				result = multierror.Append(result, fmt.Errorf(
					"inode %d: size %d exceeds direct capacity but has no indirect block", inumber, inode.Size))
			}

			for _, ptr := range inode.Direct {
				if ptr != 0 {
					claim(ptr, inumber)
				}
			}
			if inode.Indirect != 0 {
				claim(inode.Indirect, inumber)

				if err := v.dev.ReadBlock(int(inode.Indirect), indirectBlock); err != nil {
					result = multierror.Append(result, fmt.Errorf(
						"inode %d: indirect block %d: %w", inumber, inode.Indirect, err))
					continue
				}
				pointers, err := layout.DecodeIndirectBlock(indirectBlock)
				if err != nil {
					result = multierror.Append(result, fmt.Errorf(
						"inode %d: indirect block %d: %w", inumber, inode.Indirect, err))
					continue
				}
				for _, ptr := range pointers {
					if ptr != 0 {
						claim(ptr, inumber)
					}
				}
			}
		}
	}

	for b := 0; b < int(v.super.NBlocks); b++ {
		want := expected.Get(b)
		got := v.blockBitmap.Get(b)
		if want != got {
			result = multierror.Append(result, fmt.Errorf(
				"block %d: bitmap says used=%v, but inode scan says used=%v", b, got, want))
		}
	}

	return result.ErrorOrNil()
}
