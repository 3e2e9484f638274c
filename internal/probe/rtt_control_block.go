package probe

// The SEGGER RTT control block is not one of ours to redefine; we mirror
// its layout just closely enough to compute byte offsets inside it. A
// previous implementation hardcoded the up-buffer-0 mode flags offset to
// 44, which only happens to be correct for up-channel 0 of a 32-bit
// target. Computing it from the mirrored
// layout below is the only form that holds for every target.
//
//	struct SEGGER_RTT_CB {
//	    char     acID[16];
//	    int32    MaxNumUpBuffers;
//	    int32    MaxNumDownBuffers;
//	    SEGGER_RTT_BUFFER_UP   aUp[MaxNumUpBuffers];
//	    SEGGER_RTT_BUFFER_DOWN aDown[MaxNumDownBuffers];
//	};
//
//	struct SEGGER_RTT_BUFFER_UP { // same layout as BUFFER_DOWN
//	    const char* sName;
//	    char*       pBuffer;
//	    uint32_t    SizeOfBuffer;
//	    uint32_t    WrOff;
//	    uint32_t    RdOff;
//	    uint32_t    Flags;
//	};
const (
	acIDSize = 16
	// MaxNumUpBuffers and MaxNumDownBuffers are each a 32-bit int
	// regardless of target pointer size.
	bufferCountFieldSize = 4
)

// controlBlockLayout computes byte offsets into a mirrored RTT control
// block for a target with the given pointer size (4 or 8).
type controlBlockLayout struct {
	ptrSize uint32
}

func newControlBlockLayout(ptrSize uint32) controlBlockLayout {
	return controlBlockLayout{ptrSize: ptrSize}
}

// headerSize is the size of acID plus the two buffer-count fields, i.e.
// the offset of aUp[0] from the start of the control block.
func (l controlBlockLayout) headerSize() uint32 {
	return acIDSize + 2*bufferCountFieldSize
}

// bufferSize is sizeof(SEGGER_RTT_BUFFER_UP): two pointers plus four
// uint32_t fields (SizeOfBuffer, WrOff, RdOff, Flags).
func (l controlBlockLayout) bufferSize() uint32 {
	return 2*l.ptrSize + 4*4
}

// flagsOffsetWithinBuffer is the offset of the Flags field within one
// SEGGER_RTT_BUFFER_UP/DOWN struct: past both pointers and the three
// preceding uint32_t fields (SizeOfBuffer, WrOff, RdOff).
func (l controlBlockLayout) flagsOffsetWithinBuffer() uint32 {
	return 2*l.ptrSize + 3*4
}

// UpBufferModeFlagsOffset returns the byte offset, from the start of the
// control block, of the mode flags word for up-channel index channel.
// This is the value a caller adds to the control block's base address to
// get the address to read/write RTT's non-blocking/blocking mode bits.
func (l controlBlockLayout) UpBufferModeFlagsOffset(channel uint32) uint32 {
	return l.headerSize() + channel*l.bufferSize() + l.flagsOffsetWithinBuffer()
}

// RTTMode is SEGGER RTT's non-blocking/blocking transfer mode, stored in
// the low bits of an up buffer's Flags word.
type RTTMode uint32

const (
	RTTModeNonBlockingSkip RTTMode = 1
	RTTModeBlockingHost    RTTMode = 2
)

const rttModeFlagsMask = 0x3

// ComposeFlags returns existing with its mode bits replaced by mode,
// leaving any other Flags bits untouched.
func ComposeFlags(existing uint32, mode RTTMode) uint32 {
	return (existing &^ rttModeFlagsMask) | uint32(mode)
}
