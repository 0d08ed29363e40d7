package volume

import (
	"fmt"
	"io"

	"github.com/dargueta/simplefs/layout"
)

// Debug dumps the superblock fields to w, then for every valid inode its
// inumber, size, non-zero direct pointers, and (if present) its indirect
// block index and non-zero pointer list. It never mutates disk or
// in-memory state and may be called before Mount, reading the superblock
// straight off the device in that case.
func (v *Volume) Debug(w io.Writer) {
	sb := v.super
	if !v.mounted {
		sbBlock := make([]byte, layout.BlockSize)
		if err := v.dev.ReadBlock(0, sbBlock); err != nil {
			fmt.Fprintf(w, "superblock: unreadable: %s\n", err)
			return
		}
		decoded, err := layout.DecodeSuperBlock(sbBlock)
		if err != nil || !decoded.Valid() {
			fmt.Fprintln(w, "superblock: invalid or unformatted")
			return
		}
		sb = decoded
	}

	fmt.Fprintf(w, "%d blocks\n", sb.NBlocks)
	fmt.Fprintf(w, "%d inode blocks\n", sb.NInodeBlocks)
	fmt.Fprintf(w, "%d inodes\n", sb.NInodes)

	inodeBlock := make([]byte, layout.BlockSize)
	indirectBlock := make([]byte, layout.BlockSize)

	for b := 1; b <= int(sb.NInodeBlocks); b++ {
		if err := v.dev.ReadBlock(b, inodeBlock); err != nil {
			fmt.Fprintf(w, "inode block %d: unreadable: %s\n", b, err)
			continue
		}

		for slot := 0; slot < layout.InodesPerBlock; slot++ {
			inumber := (b-1)*layout.InodesPerBlock + slot
			inode, err := layout.DecodeInode(inodeBlock, slot)
			if err != nil || !inode.IsValid {
				continue
			}

			fmt.Fprintf(w, "inode %d:\n", inumber)
			fmt.Fprintf(w, "    size: %d bytes\n", inode.Size)

			var direct []int32
			for _, ptr := range inode.Direct {
				if ptr != 0 {
					direct = append(direct, ptr)
				}
			}
			if len(direct) > 0 {
				fmt.Fprintf(w, "    direct blocks: %v\n", direct)
			}

			if inode.Indirect != 0 {
				fmt.Fprintf(w, "    indirect block: %d\n", inode.Indirect)
				if err := v.dev.ReadBlock(int(inode.Indirect), indirectBlock); err == nil {
					if pointers, err := layout.DecodeIndirectBlock(indirectBlock); err == nil {
						var indirect []int32
						for _, ptr := range pointers {
							if ptr != 0 {
								indirect = append(indirect, ptr)
							}
						}
						if len(indirect) > 0 {
							fmt.Fprintf(w, "    indirect data blocks: %v\n", indirect)
						}
					}
				}
			}
		}
	}
}
