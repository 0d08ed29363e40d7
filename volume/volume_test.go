package volume_test

import (
	"bytes"
	"testing"

	"github.com/dargueta/simplefs/blockdevice"
	"github.com/dargueta/simplefs/layout"
	"github.com/dargueta/simplefs/volume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMounted(t *testing.T, totalBlocks int) *volume.Volume {
	t.Helper()
	v := volume.New(blockdevice.NewMemory(totalBlocks))
	require.Equal(t, 1, v.Format())
	require.Equal(t, 1, v.Mount())
	return v
}

// Scenario 1: format+mount roundtrip on a 100-block device.
func TestFormatMountRoundtrip(t *testing.T) {
	v := newMounted(t, 100)

	var out bytes.Buffer
	v.Debug(&out)

	assert.Contains(t, out.String(), "100 blocks")
	assert.Contains(t, out.String(), "10 inode blocks")
	assert.Contains(t, out.String(), "1280 inodes")
	assert.NotContains(t, out.String(), "inode 1:")
}

func TestFormat_FailsIfMounted(t *testing.T) {
	dev := blockdevice.NewMemory(100)
	v := volume.New(dev)
	require.Equal(t, 1, v.Format())
	require.Equal(t, 1, v.Mount())

	before := make([]byte, blockdevice.BlockSize)
	require.NoError(t, dev.ReadBlock(0, before))

	assert.Equal(t, 0, v.Format(), "format on a mounted volume must fail")

	after := make([]byte, blockdevice.BlockSize)
	require.NoError(t, dev.ReadBlock(0, after))
	assert.Equal(t, before, after, "format on a mounted volume must not touch disk")
}

// Scenario 2: create/delete.
func TestCreateDelete(t *testing.T) {
	v := newMounted(t, 100)

	i := v.Create()
	require.Equal(t, 1, i)
	assert.Equal(t, 0, v.GetSize(i))

	assert.Equal(t, 1, v.Delete(i))
	assert.Equal(t, -1, v.GetSize(i))
}

func TestDelete_IsIdempotent(t *testing.T) {
	v := newMounted(t, 100)
	i := v.Create()

	require.Equal(t, 1, v.Delete(i))
	assert.Equal(t, 1, v.Delete(i))
}

func TestCreate_ReturnsZeroWhenFull(t *testing.T) {
	v := volume.New(blockdevice.NewMemory(20))
	require.Equal(t, 1, v.Format())
	require.Equal(t, 1, v.Mount())

	// A 20-block device reserves 2 inode blocks => 256 inodes.
	seen := 0
	for {
		i := v.Create()
		if i == 0 {
			break
		}
		seen++
		if seen > 10000 {
			t.Fatal("Create never returned 0")
		}
	}
	assert.Equal(t, 2*layout.InodesPerBlock-1, seen)
}

// Scenario 3: small write/read.
func TestSmallWriteRead(t *testing.T) {
	v := newMounted(t, 100)
	i := v.Create()

	n := v.Write(i, []byte("hello"), 5, 0)
	require.Equal(t, 5, n)
	assert.Equal(t, 5, v.GetSize(i))

	buf := make([]byte, 5)
	got := v.Read(i, buf, 5, 0)
	require.Equal(t, 5, got)
	assert.Equal(t, "hello", string(buf))
}

func rampPattern(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}

// Scenario 4: cross-block write.
func TestCrossBlockWrite(t *testing.T) {
	v := newMounted(t, 100)
	i := v.Create()

	size := layout.BlockSize + 10
	data := rampPattern(size)

	n := v.Write(i, data, size, 0)
	require.Equal(t, size, n)
	assert.Equal(t, size, v.GetSize(i))

	buf := make([]byte, size)
	got := v.Read(i, buf, size, 0)
	require.Equal(t, size, got)
	assert.Equal(t, data, buf)
}

// Scenario 5: indirect growth.
func TestIndirectGrowth(t *testing.T) {
	v := newMounted(t, 1000)
	i := v.Create()

	size := (layout.DirectPointers + 1) * layout.BlockSize
	data := rampPattern(size)

	n := v.Write(i, data, size, 0)
	require.Equal(t, size, n)

	buf := make([]byte, size)
	got := v.Read(i, buf, size, 0)
	require.Equal(t, size, got)
	assert.Equal(t, data, buf)
}

// Scenario 6: out-of-space on a small device.
func TestOutOfSpace(t *testing.T) {
	dev := blockdevice.NewMemory(20)
	v := volume.New(dev)
	require.Equal(t, 1, v.Format())
	require.Equal(t, 1, v.Mount())

	i := v.Create()
	require.NotZero(t, i)

	// Try to write far more than the device could ever hold.
	big := rampPattern(layout.MaxFileSize)
	n := v.Write(i, big, len(big), 0)
	assert.Less(t, n, len(big))

	size := v.GetSize(i)
	assert.Equal(t, n, size)

	// Remounting must reconstruct a bitmap with no leaked references: a
	// fresh Volume over the same device, mounted again, must pass Check.
	require.NoError(t, v.Unmount())
	v2 := volume.New(dev)
	require.Equal(t, 1, v2.Mount())
	assert.NoError(t, v2.Check())
}

func TestWrite_RejectsSparseExtension(t *testing.T) {
	v := newMounted(t, 100)
	i := v.Create()

	n := v.Write(i, []byte("x"), 1, 100)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, v.GetSize(i))
}

func TestWrite_PreservesExistingDataUnderOverwrittenRange(t *testing.T) {
	v := newMounted(t, 100)
	i := v.Create()

	require.Equal(t, 10, v.Write(i, []byte("0123456789"), 10, 0))
	require.Equal(t, 3, v.Write(i, []byte("ABC"), 3, 2))

	buf := make([]byte, 10)
	require.Equal(t, 10, v.Read(i, buf, 10, 0))
	assert.Equal(t, "01ABC56789", string(buf))
}

func TestRead_EmptyInodeReturnsZero(t *testing.T) {
	v := newMounted(t, 100)
	i := v.Create()

	buf := make([]byte, 100)
	assert.Equal(t, 0, v.Read(i, buf, 100, 0))
}

func TestOperationsFailWhenNotMounted(t *testing.T) {
	v := volume.New(blockdevice.NewMemory(100))
	require.Equal(t, 1, v.Format())

	assert.Equal(t, 0, v.Create())
	assert.Equal(t, 0, v.Delete(1))
	assert.Equal(t, -1, v.GetSize(1))
	assert.Equal(t, 0, v.Read(1, make([]byte, 1), 1, 0))
	assert.Equal(t, 0, v.Write(1, []byte("x"), 1, 0))
}

func TestMount_FailsOnBadMagic(t *testing.T) {
	v := volume.New(blockdevice.NewMemory(100))
	assert.Equal(t, 0, v.Mount())
}

func TestCheck_CleanVolume(t *testing.T) {
	v := newMounted(t, 100)
	i := v.Create()
	v.Write(i, rampPattern(layout.BlockSize*2), layout.BlockSize*2, 0)

	assert.NoError(t, v.Check())
}
