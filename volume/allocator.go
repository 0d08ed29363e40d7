package volume

// allocateBlock scans blockBitmap from just past the inode-block region
// upward and claims the first free block it finds. First-fit and
// deterministic: two identical operation sequences against an identically
// sized empty device always make the same allocation choices. Returns
// FaultOutOfSpace once no free block remains.
func (v *Volume) allocateBlock() (int, error) {
	start := int(v.super.NInodeBlocks) + 1
	total := int(v.super.NBlocks)

	for i := start; i < total; i++ {
		if !v.blockBitmap.Get(i) {
			v.blockBitmap.Set(i, true)
			return i, nil
		}
	}
	return 0, FaultOutOfSpace
}

// freeBlock releases block b back to the free pool.
func (v *Volume) freeBlock(b int) {
	v.blockBitmap.Set(b, false)
}

// allocateInode scans inodeUsed from index 1 upward (index 0 is reserved as
// the failure sentinel) and claims the first free slot.
func (v *Volume) allocateInode() (int, bool) {
	total := int(v.super.NInodes)
	for i := 1; i < total; i++ {
		if !v.inodeUsed.Get(i) {
			v.inodeUsed.Set(i, true)
			return i, true
		}
	}
	return 0, false
}

// freeInode clears the allocation bit for inumber.
func (v *Volume) freeInode(inumber int) {
	v.inodeUsed.Set(inumber, false)
}
