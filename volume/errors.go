package volume

import "fmt"

// Fault is a sentinel error identifying one of the core operations' failure
// kinds. It supports errors.Is and can be decorated with a message or an
// underlying cause without losing that identity.
type Fault string

const (
	// FaultNotMounted is returned by Check and Unmount when the volume hasn't
	// been mounted. The numeric-sentinel operations report this case as 0 or
	// -1 instead.
	FaultNotMounted = Fault("simplefs: volume not mounted")
	// FaultAlreadyMounted is returned by Format and Mount when the volume is
	// already mounted.
	FaultAlreadyMounted = Fault("simplefs: volume already mounted")
	// FaultBadMagic is returned by Mount when the superblock's magic number
	// doesn't match layout.Magic.
	FaultBadMagic = Fault("simplefs: bad superblock magic, volume not formatted")
	// FaultOutOfRangeInumber is returned when an inumber falls outside
	// [0, ninodes).
	FaultOutOfRangeInumber = Fault("simplefs: inumber out of range")
	// FaultInvalidInode is returned when an inode's isvalid bit is clear.
	FaultInvalidInode = Fault("simplefs: inode is not allocated")
	// FaultOutOfSpace is returned when the block allocator has no free
	// blocks left to satisfy a write.
	FaultOutOfSpace = Fault("simplefs: no free blocks available")
	// FaultDeviceError wraps an I/O failure from the underlying block
	// device. It is treated as fatal; recovery requires a remount.
	FaultDeviceError = Fault("simplefs: block device I/O failed")
)

func (f Fault) Error() string {
	return string(f)
}

// WithMessage decorates f with additional context, preserving errors.Is(…, f).
func (f Fault) WithMessage(message string) error {
	return &faultDetail{message: fmt.Sprintf("%s: %s", string(f), message), cause: f}
}

// Wrap decorates f with an underlying error, preserving errors.Is(…, f) and
// errors.Is(…, err).
func (f Fault) Wrap(err error) error {
	return &faultDetail{message: fmt.Sprintf("%s: %s", string(f), err.Error()), cause: f, wrapped: err}
}

// faultDetail carries a Fault plus extra context — a message, a wrapped
// cause, or both — while still satisfying errors.Is against the bare Fault.
type faultDetail struct {
	message string
	cause   Fault
	wrapped error
}

func (d *faultDetail) Error() string {
	return d.message
}

func (d *faultDetail) Is(target error) bool {
	return target == d.cause
}

func (d *faultDetail) Unwrap() error {
	if d.wrapped != nil {
		return d.wrapped
	}
	return d.cause
}
