package probe

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
)

// rttID is the fixed 16-byte acID field SEGGER RTT control blocks start
// with, used to locate the block in target RAM by signature scan.
var rttID = []byte("SEGGER RTT\x00\x00\x00\x00\x00\x00")

// FindControlBlock scans [searchStart, searchStart+searchLen) of target
// memory for the RTT control block's ID signature, reading in chunks
// rather than the whole range at once so a generously-sized search
// window doesn't require a matching amount of host memory.
func FindControlBlock(ctx context.Context, s *Session, searchStart, searchLen uint32) (uint32, error) {
	const chunk = 4096
	overlap := uint32(len(rttID) - 1)

	buf := make([]byte, chunk+overlap)
	for off := uint32(0); off < searchLen; off += chunk {
		n := chunk
		if remaining := searchLen - off; uint32(n) > remaining {
			n = int(remaining)
		}
		readLen := n + int(overlap)
		if uint32(off)+uint32(readLen) > searchLen {
			readLen = int(searchLen - off)
		}
		if readLen <= 0 {
			break
		}

		window := buf[:readLen]
		if err := s.ReadMemory(ctx, searchStart+off, window); err != nil {
			return 0, fmt.Errorf("scanning for RTT control block: %w", err)
		}

		if idx := bytes.Index(window, rttID); idx >= 0 {
			return searchStart + off + uint32(idx), nil
		}
	}
	return 0, fmt.Errorf("RTT control block signature not found in [0x%x, 0x%x)", searchStart, searchStart+searchLen)
}

// ConfigureMode sets up-channel channel's transfer mode on the control
// block at cbAddr, preserving any other bits already set in its Flags
// word.
func ConfigureMode(ctx context.Context, s *Session, cbAddr uint32, ptrSize uint32, channel uint32, mode RTTMode) error {
	layout := newControlBlockLayout(ptrSize)
	flagsAddr := cbAddr + layout.UpBufferModeFlagsOffset(channel)

	var existing [4]byte
	if err := s.ReadMemory(ctx, flagsAddr, existing[:]); err != nil {
		return fmt.Errorf("reading RTT up-buffer flags: %w", err)
	}

	newFlags := ComposeFlags(binary.LittleEndian.Uint32(existing[:]), mode)
	var out [4]byte
	binary.LittleEndian.PutUint32(out[:], newFlags)
	if err := s.WriteMemory(ctx, flagsAddr, out[:]); err != nil {
		return fmt.Errorf("writing RTT up-buffer flags: %w", err)
	}
	return nil
}

// upBufferHeader is the decoded subset of one SEGGER_RTT_BUFFER_UP
// relevant to draining bytes: the buffer's target address, its capacity,
// and the write/read offsets into it.
type upBufferHeader struct {
	bufferAddr uint32
	size       uint32
	wrOff      uint32
	rdOff      uint32
}

func readUpBufferHeader(ctx context.Context, s *Session, cbAddr uint32, ptrSize uint32, channel uint32) (upBufferHeader, error) {
	layout := newControlBlockLayout(ptrSize)
	base := cbAddr + layout.headerSize() + channel*layout.bufferSize()

	raw := make([]byte, layout.bufferSize())
	if err := s.ReadMemory(ctx, base, raw); err != nil {
		return upBufferHeader{}, fmt.Errorf("reading RTT up-buffer header: %w", err)
	}

	// Layout: sName (ptrSize), pBuffer (ptrSize), SizeOfBuffer, WrOff, RdOff.
	pBufferOff := ptrSize
	sizeOff := 2 * ptrSize
	wrOff := sizeOff + 4
	rdOff := wrOff + 4

	readPtr := func(off uint32) uint32 {
		if ptrSize == 8 {
			return uint32(binary.LittleEndian.Uint64(raw[off : off+8]))
		}
		return binary.LittleEndian.Uint32(raw[off : off+4])
	}

	return upBufferHeader{
		bufferAddr: readPtr(pBufferOff),
		size:       binary.LittleEndian.Uint32(raw[sizeOff : sizeOff+4]),
		wrOff:      binary.LittleEndian.Uint32(raw[wrOff : wrOff+4]),
		rdOff:      binary.LittleEndian.Uint32(raw[rdOff : rdOff+4]),
	}, nil
}

// DrainUpBuffer reads whatever bytes are newly available in up-channel
// channel's ring buffer (the bytes between its current RdOff and WrOff,
// handling wraparound) and advances RdOff past them. It returns an empty
// slice, not an error, when nothing new is available: that is the normal
// steady state of a polling loop.
func DrainUpBuffer(ctx context.Context, s *Session, cbAddr uint32, ptrSize uint32, channel uint32) ([]byte, error) {
	hdr, err := readUpBufferHeader(ctx, s, cbAddr, ptrSize, channel)
	if err != nil {
		return nil, err
	}
	if hdr.wrOff == hdr.rdOff || hdr.size == 0 {
		return nil, nil
	}

	var out []byte
	if hdr.wrOff > hdr.rdOff {
		out = make([]byte, hdr.wrOff-hdr.rdOff)
		if err := s.ReadMemory(ctx, hdr.bufferAddr+hdr.rdOff, out); err != nil {
			return nil, fmt.Errorf("reading RTT up-buffer contents: %w", err)
		}
	} else {
		first := make([]byte, hdr.size-hdr.rdOff)
		if err := s.ReadMemory(ctx, hdr.bufferAddr+hdr.rdOff, first); err != nil {
			return nil, fmt.Errorf("reading RTT up-buffer contents: %w", err)
		}
		second := make([]byte, hdr.wrOff)
		if hdr.wrOff > 0 {
			if err := s.ReadMemory(ctx, hdr.bufferAddr, second); err != nil {
				return nil, fmt.Errorf("reading RTT up-buffer contents: %w", err)
			}
		}
		out = append(first, second...)
	}

	layout := newControlBlockLayout(ptrSize)
	rdOffAddr := cbAddr + layout.headerSize() + channel*layout.bufferSize() + 2*ptrSize + 8
	var newRd [4]byte
	binary.LittleEndian.PutUint32(newRd[:], hdr.wrOff)
	if err := s.WriteMemory(ctx, rdOffAddr, newRd[:]); err != nil {
		return nil, fmt.Errorf("advancing RTT RdOff: %w", err)
	}

	return out, nil
}
