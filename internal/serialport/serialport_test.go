package serialport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenRejectsInvalidParityBeforeTouchingTheDevice(t *testing.T) {
	_, err := Open("/dev/does-not-exist", Config{BaudRate: 115200, DataBits: 8, Parity: "banana", StopBits: "1"})
	require.ErrorContains(t, err, "parity")
}

func TestOpenRejectsInvalidStopBitsBeforeTouchingTheDevice(t *testing.T) {
	_, err := Open("/dev/does-not-exist", Config{BaudRate: 115200, DataBits: 8, Parity: "none", StopBits: "3"})
	require.ErrorContains(t, err, "stop bits")
}

func TestDefaultConfigMatchesOriginalToolDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, 115200, cfg.BaudRate)
	require.Equal(t, 8, cfg.DataBits)
	require.Equal(t, "none", cfg.Parity)
	require.Equal(t, "1", cfg.StopBits)
}
