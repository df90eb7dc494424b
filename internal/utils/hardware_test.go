package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceIDIsStable(t *testing.T) {
	id := GetDeviceID()
	assert.Equal(t, id, GetDeviceID())
	if id != unknownDevice {
		assert.True(t, strings.HasPrefix(id, "POS-"))
		assert.Len(t, id, len("POS-")+8)
	}
}

func TestNodeIDInSnowflakeRange(t *testing.T) {
	n := NodeID()
	assert.GreaterOrEqual(t, n, int64(0))
	assert.LessOrEqual(t, n, int64(1023))
	assert.Equal(t, n, NodeID())
}
