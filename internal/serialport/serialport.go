// Package serialport wraps go.bug.st/serial for the serial subcommand:
// listing available ports and opening one with the parity/stop-bit
// configuration a board's UART console actually needs.
package serialport

import (
	"fmt"
	"strings"

	"go.bug.st/serial"
)

// Port is go.bug.st/serial's Port interface under this package's name, so
// tests can substitute an in-memory fake.
type Port = serial.Port

// List returns the device names of every serial port the OS currently
// reports, for --list-ports.
func List() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("listing serial ports: %w", err)
	}
	return ports, nil
}

// Config is the subset of line settings the serial subcommand exposes as
// flags.
type Config struct {
	BaudRate int
	DataBits int
	Parity   string
	StopBits string
}

// DefaultConfig is the common UART console setup: 115200 8N1.
func DefaultConfig() Config {
	return Config{BaudRate: 115200, DataBits: 8, Parity: "none", StopBits: "1"}
}

// Open opens device with cfg applied.
func Open(device string, cfg Config) (serial.Port, error) {
	parity, err := parseParity(cfg.Parity)
	if err != nil {
		return nil, err
	}
	stopBits, err := parseStopBits(cfg.StopBits)
	if err != nil {
		return nil, err
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		Parity:   parity,
		StopBits: stopBits,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("opening serial port %s: %w", device, err)
	}
	return port, nil
}

func parseParity(s string) (serial.Parity, error) {
	switch strings.ToLower(s) {
	case "none", "n":
		return serial.NoParity, nil
	case "odd", "o":
		return serial.OddParity, nil
	case "even", "e":
		return serial.EvenParity, nil
	case "mark", "m":
		return serial.MarkParity, nil
	case "space", "s":
		return serial.SpaceParity, nil
	default:
		return 0, fmt.Errorf("invalid parity %q: expected none, odd, even, mark, or space", s)
	}
}

func parseStopBits(s string) (serial.StopBits, error) {
	switch s {
	case "1":
		return serial.OneStopBit, nil
	case "1.5":
		return serial.OnePointFiveStopBits, nil
	case "2":
		return serial.TwoStopBits, nil
	default:
		return 0, fmt.Errorf("invalid stop bits %q: expected 1, 1.5, or 2", s)
	}
}
