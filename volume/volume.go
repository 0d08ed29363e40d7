// Package volume implements the simplefs core: the on-disk layout
// invariants, the in-memory free-block and inode-allocation bitmaps
// reconstructed at mount, and the read/write path that walks an inode's
// direct and single-indirect pointers.
//
// Everything here is single-threaded and synchronous: callers must
// serialize all access to a *Volume themselves.
package volume

import (
	"github.com/boljen/go-bitmap"
	"github.com/dargueta/simplefs/blockdevice"
	"github.com/dargueta/simplefs/layout"
)

// Volume is the in-memory handle to a mounted (or not-yet-mounted)
// simplefs filesystem. All mount state lives on the value instead of in
// package globals, so a process can hold more than one volume open at once.
type Volume struct {
	dev     blockdevice.Device
	mounted bool
	super   layout.SuperBlock

	// blockBitmap and inodeUsed are rebuilt from scratch at every Mount and
	// only exist while mounted.
	blockBitmap bitmap.Bitmap
	inodeUsed   bitmap.Bitmap
}

// New wraps dev in a Volume handle. The volume is not mounted until Mount
// succeeds.
func New(dev blockdevice.Device) *Volume {
	return &Volume{dev: dev}
}

// IsMounted reports whether the volume is currently mounted.
func (v *Volume) IsMounted() bool {
	return v.mounted
}

// format implements the Format operation against the underlying device. See
// (*Volume).Format for the public, numeric-sentinel-returning wrapper.
func (v *Volume) format() error {
	if v.mounted {
		return FaultAlreadyMounted
	}

	nblocks := v.dev.BlockCount()
	ninodeblocks := (nblocks + 9) / 10
	if ninodeblocks < 1 {
		ninodeblocks = 1
	}
	ninodes := ninodeblocks * layout.InodesPerBlock

	sb := layout.SuperBlock{
		Magic:        layout.Magic,
		NBlocks:      int32(nblocks),
		NInodeBlocks: int32(ninodeblocks),
		NInodes:      int32(ninodes),
	}

	if err := v.dev.WriteBlock(0, layout.EncodeSuperBlock(sb)); err != nil {
		return FaultDeviceError.Wrap(err)
	}

	empty := layout.NewEmptyInodeBlock()
	for b := 1; b <= ninodeblocks; b++ {
		if err := v.dev.WriteBlock(b, empty); err != nil {
			return FaultDeviceError.Wrap(err)
		}
	}

	return nil
}

// mount implements the Mount operation. See (*Volume).Mount for the public
// wrapper.
func (v *Volume) mount() error {
	if v.mounted {
		return FaultAlreadyMounted
	}

	sbBlock := make([]byte, layout.BlockSize)
	if err := v.dev.ReadBlock(0, sbBlock); err != nil {
		return FaultDeviceError.Wrap(err)
	}
	sb, err := layout.DecodeSuperBlock(sbBlock)
	if err != nil {
		return FaultDeviceError.Wrap(err)
	}
	if !sb.Valid() {
		return FaultBadMagic
	}

	blockBitmap := bitmap.New(int(sb.NBlocks))
	inodeUsed := bitmap.New(int(sb.NInodes))

	inodeBlock := make([]byte, layout.BlockSize)
	indirectBlock := make([]byte, layout.BlockSize)

	for b := 1; b <= int(sb.NInodeBlocks); b++ {
		if err := v.dev.ReadBlock(b, inodeBlock); err != nil {
			return FaultDeviceError.Wrap(err)
		}

		for slot := 0; slot < layout.InodesPerBlock; slot++ {
			inumber := (b-1)*layout.InodesPerBlock + slot
			inode, err := layout.DecodeInode(inodeBlock, slot)
			if err != nil {
				return FaultDeviceError.Wrap(err)
			}
			if !inode.IsValid {
				continue
			}

			inodeUsed.Set(inumber, true)
			for _, ptr := range inode.Direct {
				if ptr != 0 {
					blockBitmap.Set(int(ptr), true)
				}
			}
			if inode.Indirect != 0 {
				blockBitmap.Set(int(inode.Indirect), true)
				if err := v.dev.ReadBlock(int(inode.Indirect), indirectBlock); err != nil {
					return FaultDeviceError.Wrap(err)
				}
				pointers, err := layout.DecodeIndirectBlock(indirectBlock)
				if err != nil {
					return FaultDeviceError.Wrap(err)
				}
				for _, ptr := range pointers {
					if ptr != 0 {
						blockBitmap.Set(int(ptr), true)
					}
				}
			}
		}
	}

	for b := 0; b <= int(sb.NInodeBlocks); b++ {
		blockBitmap.Set(b, true)
	}

	v.super = sb
	v.blockBitmap = blockBitmap
	v.inodeUsed = inodeUsed
	v.mounted = true
	return nil
}

// Unmount releases the in-memory bitmaps and clears the mounted flag, for
// callers that want to remount the same device with the same *Volume or
// otherwise need to free the bitmaps before process exit.
func (v *Volume) Unmount() error {
	if !v.mounted {
		return FaultNotMounted
	}
	v.blockBitmap = nil
	v.inodeUsed = nil
	v.mounted = false
	return nil
}
