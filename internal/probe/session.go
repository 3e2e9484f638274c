// Package probe models the debug-probe session a live rtt capture runs
// against: attaching to a target, discovering its RTT control block,
// downloading firmware, and the start/stop lifecycle a GDB stub thread
// shares concurrently with the decode loop. Real SWD/JTAG transport is
// out of scope; DebugProbe is the seam a future transport backend plugs
// into.
package probe

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Info describes one attached debug probe, as reported by --list-probes.
type Info struct {
	Identifier string
	SerialNum  string
}

// ChipInfo describes one chip family the probe backend knows how to
// target, as reported by --list-chips.
type ChipInfo struct {
	Name   string
	Vendor string
}

// Selector identifies one probe by its USB VID:PID pair and, when more
// than one identical adapter is plugged in, its serial number. This is
// the format --probe-selector accepts: <VID>:<PID>[:<SERIAL>], VID and
// PID in hex.
type Selector struct {
	VID    uint16
	PID    uint16
	Serial string
}

// ParseSelector parses a <VID>:<PID>[:<SERIAL>] string.
func ParseSelector(s string) (Selector, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return Selector{}, fmt.Errorf("invalid probe selector %q: expected VID:PID[:SERIAL]", s)
	}
	vid, err := strconv.ParseUint(parts[0], 16, 16)
	if err != nil {
		return Selector{}, fmt.Errorf("invalid probe selector VID %q: %w", parts[0], err)
	}
	pid, err := strconv.ParseUint(parts[1], 16, 16)
	if err != nil {
		return Selector{}, fmt.Errorf("invalid probe selector PID %q: %w", parts[1], err)
	}
	sel := Selector{VID: uint16(vid), PID: uint16(pid)}
	if len(parts) == 3 {
		sel.Serial = parts[2]
	}
	return sel, nil
}

func (s Selector) String() string {
	out := fmt.Sprintf("%04x:%04x", s.VID, s.PID)
	if s.Serial != "" {
		out += ":" + s.Serial
	}
	return out
}

// DebugProbe is the transport-independent surface a Session drives. A
// concrete implementation wraps whatever probe driver is linked in; none
// is linked in here, so the only implementation this package ships is
// localProbe, which legitimately reports zero attached probes.
type DebugProbe interface {
	ListProbes() ([]Info, error)
	ListChips() ([]ChipInfo, error)
	// Attach opens a probe (by selector when non-nil, by list index
	// otherwise) and attaches to the named chip.
	Attach(ctx context.Context, chip string, sel *Selector, probeIndex int) (Target, error)
}

// Target is an attached, halted core ready for firmware download and RTT
// discovery.
type Target interface {
	DownloadFirmware(ctx context.Context, elfPath string) error
	RunCore(ctx context.Context) error
	// DisableCDebugEn clears DHCSR's C_DEBUGEN bit so the core free-runs
	// without a debugger attached, the way a probe detach should leave it.
	DisableCDebugEn(ctx context.Context) error
	ReadMemory(ctx context.Context, addr uint32, buf []byte) error
	WriteMemory(ctx context.Context, addr uint32, buf []byte) error
}

// Session owns the single Target a decode run is attached to and
// synchronizes access between the decode loop and an optional concurrent
// GDB stub goroutine started by --gdb-server. Every Target call goes
// through Session so the two goroutines never race on the transport.
type Session struct {
	mu        sync.Mutex
	target    Target
	cancelled atomic.Bool
}

// NewSession wraps an already-attached target.
func NewSession(t Target) *Session {
	return &Session{target: t}
}

// Cancel requests that the decode loop stop; the loop checks it after
// every decoded frame and before every read of the RTT up buffer. It is
// safe to call from a signal handler goroutine.
func (s *Session) Cancel() {
	s.cancelled.Store(true)
}

// Cancelled reports whether Cancel has been called.
func (s *Session) Cancelled() bool {
	return s.cancelled.Load()
}

// ReadMemory serializes one memory read against concurrent GDB stub
// traffic.
func (s *Session) ReadMemory(ctx context.Context, addr uint32, buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target.ReadMemory(ctx, addr, buf)
}

// WriteMemory serializes one memory write against concurrent GDB stub
// traffic.
func (s *Session) WriteMemory(ctx context.Context, addr uint32, buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target.WriteMemory(ctx, addr, buf)
}

// DownloadFirmware flashes elfPath and leaves the core halted at main.
// The rtt subcommand skips it when --attach is given.
func (s *Session) DownloadFirmware(ctx context.Context, elfPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target.DownloadFirmware(ctx, elfPath)
}

// RunCore resumes a halted core.
func (s *Session) RunCore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target.RunCore(ctx)
}

// DisableCDebugEn releases the core's debug hold so it free-runs after
// the session ends.
func (s *Session) DisableCDebugEn(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target.DisableCDebugEn(ctx)
}

// localProbe is the only DebugProbe this package ships. It has no real
// transport wired in, so it reports the (accurate) empty set rather than
// fabricating probes or chips.
type localProbe struct{}

// NewLocalProbe returns a DebugProbe backed by no transport.
func NewLocalProbe() DebugProbe {
	return localProbe{}
}

func (localProbe) ListProbes() ([]Info, error) {
	return nil, nil
}

func (localProbe) ListChips() ([]ChipInfo, error) {
	return nil, nil
}

func (localProbe) Attach(ctx context.Context, chip string, sel *Selector, probeIndex int) (Target, error) {
	if sel != nil {
		return nil, fmt.Errorf("no debug probe backend is linked into this build (requested chip %q, probe %s)", chip, sel)
	}
	return nil, fmt.Errorf("no debug probe backend is linked into this build (requested chip %q, probe index %d)", chip, probeIndex)
}
