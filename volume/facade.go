package volume

import "github.com/dargueta/simplefs/layout"

// Format writes a fresh superblock and clears the inode table, reserving
// about ten percent of the device's blocks (minimum one block) for inodes.
// It returns 1 on success, 0 on failure — including when the volume is
// already mounted, in which case the disk is left untouched.
func (v *Volume) Format() int {
	if err := v.format(); err != nil {
		return 0
	}
	return 1
}

// Mount verifies the superblock's magic number and rebuilds the in-memory
// free-block and inode-allocation bitmaps by walking every inode. It
// returns 1 on success, 0 on failure (already mounted, or bad magic).
func (v *Volume) Mount() int {
	if err := v.mount(); err != nil {
		return 0
	}
	return 1
}

// Create allocates the first free inode slot, writes an empty inode record
// (isvalid=1, size=0, no pointers) to disk, and returns its inumber. It
// returns 0 if the volume isn't mounted or every inode slot is occupied.
func (v *Volume) Create() int {
	if !v.mounted {
		return 0
	}

	inumber, ok := v.allocateInode()
	if !ok {
		return 0
	}

	empty := layout.Inode{IsValid: true}
	if err := v.storeInode(inumber, empty); err != nil {
		v.freeInode(inumber)
		return 0
	}
	return inumber
}

// Delete frees every block inumber references (direct, indirect, and the
// indirect block's own contents), clears the inode record, and releases its
// allocation bit. Deleting an already-free inode is a no-op that still
// reports success.
func (v *Volume) Delete(inumber int) int {
	if !v.mounted || inumber == 0 {
		return 0
	}
	if err := v.checkInumberRange(inumber); err != nil {
		return 0
	}

	inode, err := v.loadInode(inumber)
	if err != nil {
		return 0
	}
	if !inode.IsValid {
		// Idempotent: deleting a free inode is already the desired state.
		return 1
	}

	for _, ptr := range inode.Direct {
		if ptr != 0 {
			v.freeBlock(int(ptr))
		}
	}
	if inode.Indirect != 0 {
		indirectRaw := make([]byte, layout.BlockSize)
		if err := v.dev.ReadBlock(int(inode.Indirect), indirectRaw); err == nil {
			if pointers, err := layout.DecodeIndirectBlock(indirectRaw); err == nil {
				for _, ptr := range pointers {
					if ptr != 0 {
						v.freeBlock(int(ptr))
					}
				}
			}
		}
		v.freeBlock(int(inode.Indirect))
	}

	if err := v.storeInode(inumber, layout.Inode{}); err != nil {
		return 0
	}
	v.freeInode(inumber)
	return 1
}

// GetSize returns inumber's size in bytes, or -1 if the volume isn't
// mounted, inumber is out of range, or the inode isn't allocated.
func (v *Volume) GetSize(inumber int) int {
	if !v.mounted {
		return -1
	}
	inode, err := v.resolveInode(inumber)
	if err != nil {
		return -1
	}
	return int(inode.Size)
}
