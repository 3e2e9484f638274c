package elfmeta

// PlatformDescriptor carries the six integer byte-widths of the firmware's
// C/C++ ABI, copied byte-for-byte from the `.postform_platform_descriptors`
// ELF section. It is only used by the legacy (non-LEB128) wire dialect; see
// RecordCodec in package decoder.
type PlatformDescriptor struct {
	CharSize     uint32
	ShortSize    uint32
	IntSize      uint32
	LongSize     uint32
	LongLongSize uint32
	PtrSize      uint32
}

// platformDescriptorSize is the on-disk size of PlatformDescriptor: six
// little-endian u32 fields.
const platformDescriptorSize = 6 * 4

func isValidWidth(w uint32) bool {
	switch w {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}

// Validate checks that every width field is one of {1, 2, 4, 8}.
func (d PlatformDescriptor) Validate() error {
	widths := [...]uint32{d.CharSize, d.ShortSize, d.IntSize, d.LongSize, d.LongLongSize, d.PtrSize}
	for _, w := range widths {
		if !isValidWidth(w) {
			return errInvalidPlatformDescriptors(d)
		}
	}
	return nil
}

func parsePlatformDescriptor(data []byte) (PlatformDescriptor, error) {
	if len(data) < platformDescriptorSize {
		return PlatformDescriptor{}, &Error{Kind: KindElfParse, Message: "truncated platform descriptor section"}
	}
	d := PlatformDescriptor{
		CharSize:     leU32(data[0:4]),
		ShortSize:    leU32(data[4:8]),
		IntSize:      leU32(data[8:12]),
		LongSize:     leU32(data[12:16]),
		LongLongSize: leU32(data[16:20]),
		PtrSize:      leU32(data[20:24]),
	}
	if err := d.Validate(); err != nil {
		return PlatformDescriptor{}, err
	}
	return d, nil
}

func leU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
