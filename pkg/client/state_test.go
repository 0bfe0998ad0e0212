package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionStateString(t *testing.T) {
	assert.Equal(t, "DISCONNECTED", StateDisconnected.String())
	assert.Equal(t, "CONNECTING", StateConnecting.String())
	assert.Equal(t, "CONNECTED", StateConnected.String())
	assert.Equal(t, "CLOSING", StateClosing.String())
	assert.Equal(t, "UNKNOWN", ConnectionState(99).String())
}

func TestDeviceStateClone(t *testing.T) {
	orig := DeviceState{
		"Main.Power":  true,
		"Main.Volume": -45.0,
	}

	clone := orig.Clone()
	assert.Equal(t, orig, clone)

	clone["Main.Power"] = false
	clone["Main.Source"] = "Opt1"
	assert.Equal(t, true, orig["Main.Power"])
	assert.NotContains(t, orig, "Main.Source")
}
