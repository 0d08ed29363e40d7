package volume_test

import (
	"errors"
	"testing"

	"github.com/dargueta/simplefs/volume"
	"github.com/stretchr/testify/assert"
)

func TestFaultWithMessage(t *testing.T) {
	newErr := volume.FaultOutOfRangeInumber.WithMessage("inumber 99")
	assert.Equal(t, "simplefs: inumber out of range: inumber 99", newErr.Error())
	assert.ErrorIs(t, newErr, volume.FaultOutOfRangeInumber)
}

func TestFaultWrap(t *testing.T) {
	originalErr := errors.New("short read")
	newErr := volume.FaultDeviceError.Wrap(originalErr)

	assert.ErrorIs(t, newErr, originalErr)
	assert.ErrorIs(t, newErr, volume.FaultDeviceError)
	assert.NotErrorIs(t, newErr, volume.FaultOutOfSpace)
}
