package blockdevice_test

import (
	"testing"

	"github.com/dargueta/simplefs/blockdevice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDevice_ReadWriteRoundTrip(t *testing.T) {
	dev := blockdevice.NewMemory(4)
	require.Equal(t, 4, dev.BlockCount())

	payload := make([]byte, blockdevice.BlockSize)
	for i := range payload {
		payload[i] = byte(i)
	}

	require.NoError(t, dev.WriteBlock(2, payload))

	out := make([]byte, blockdevice.BlockSize)
	require.NoError(t, dev.ReadBlock(2, out))
	assert.Equal(t, payload, out)
}

func TestMemoryDevice_OtherBlocksUntouched(t *testing.T) {
	dev := blockdevice.NewMemory(2)
	payload := make([]byte, blockdevice.BlockSize)
	payload[0] = 0xFF
	require.NoError(t, dev.WriteBlock(1, payload))

	out := make([]byte, blockdevice.BlockSize)
	require.NoError(t, dev.ReadBlock(0, out))
	for _, b := range out {
		assert.EqualValues(t, 0, b)
	}
}

func TestMemoryDevice_OutOfRangeBlock(t *testing.T) {
	dev := blockdevice.NewMemory(2)
	buf := make([]byte, blockdevice.BlockSize)
	assert.Error(t, dev.ReadBlock(2, buf))
	assert.Error(t, dev.ReadBlock(-1, buf))
}

func TestMemoryDevice_WrongSizedBuffer(t *testing.T) {
	dev := blockdevice.NewMemory(2)
	assert.Error(t, dev.ReadBlock(0, make([]byte, 10)))
	assert.Error(t, dev.WriteBlock(0, make([]byte, blockdevice.BlockSize+1)))
}
