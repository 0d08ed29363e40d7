package volume

import "github.com/dargueta/simplefs/layout"

// loadInode reads inumber's record off disk, owning the
// inumber → (inode block, slot) mapping via layout.InodeLocation.
func (v *Volume) loadInode(inumber int) (layout.Inode, error) {
	block, slot := layout.InodeLocation(inumber)

	raw := make([]byte, layout.BlockSize)
	if err := v.dev.ReadBlock(block, raw); err != nil {
		return layout.Inode{}, FaultDeviceError.Wrap(err)
	}
	return layout.DecodeInode(raw, slot)
}

// storeInode writes inode back to its slot, read-modify-write so the other
// inode records sharing the block are preserved.
func (v *Volume) storeInode(inumber int, inode layout.Inode) error {
	block, slot := layout.InodeLocation(inumber)

	raw := make([]byte, layout.BlockSize)
	if err := v.dev.ReadBlock(block, raw); err != nil {
		return FaultDeviceError.Wrap(err)
	}
	if err := layout.EncodeInodeInto(raw, slot, inode); err != nil {
		return err
	}
	if err := v.dev.WriteBlock(block, raw); err != nil {
		return FaultDeviceError.Wrap(err)
	}
	return nil
}

// inodeInRange reports whether inumber falls within [0, ninodes).
func (v *Volume) inodeInRange(inumber int) bool {
	return inumber >= 0 && inumber < int(v.super.NInodes)
}

// checkInumberRange is inodeInRange with the out-of-range case surfaced as
// a Fault, for callers that need the reason rather than just a bool.
func (v *Volume) checkInumberRange(inumber int) error {
	if !v.inodeInRange(inumber) {
		return FaultOutOfRangeInumber
	}
	return nil
}

// resolveInode loads inumber's record, folding the preconditions Read,
// Write, and GetSize all share — inumber in range, and the inode actually
// allocated — into a single Fault-returning call.
func (v *Volume) resolveInode(inumber int) (layout.Inode, error) {
	if err := v.checkInumberRange(inumber); err != nil {
		return layout.Inode{}, err
	}
	inode, err := v.loadInode(inumber)
	if err != nil {
		return layout.Inode{}, err
	}
	if !inode.IsValid {
		return layout.Inode{}, FaultInvalidInode
	}
	return inode, nil
}
