package frame

// RCOBSDecoder de-frames the serial transport's wire format: reverse-COBS
// (rCOBS), in which a frame is encoded by running COBS over the payload
// written back-to-front. A frame is still delimited by a literal 0x00,
// but recovering the payload requires the whole frame before the COBS
// unstuffing pass can run, since each code byte describes the run of
// literal bytes that PRECEDES it rather than the one that follows. The
// decoder is fed one byte at a time, so it buffers one frame's raw bytes
// and decodes them on the terminating zero.
type RCOBSDecoder struct {
	raw []byte
}

// NewRCOBSDecoder returns a decoder ready to accumulate a fresh frame.
func NewRCOBSDecoder() *RCOBSDecoder {
	return &RCOBSDecoder{}
}

// PushByte accumulates one transport byte. Once b completes a frame (a
// literal 0x00) the decoded payload is returned with complete == true.
// A frame whose stuffing turns out to be inconsistent is reported as a
// DecodeError; the accumulation buffer is cleared either way, so the
// stream continues at the next delimiter.
func (d *RCOBSDecoder) PushByte(b byte) (frame []byte, complete bool, err error) {
	if b == frameDelimiter {
		frame, err = decodeReversed(d.raw)
		d.raw = d.raw[:0]
		if err != nil {
			return nil, false, err
		}
		return frame, true, nil
	}
	d.raw = append(d.raw, b)
	return nil, false, nil
}

// decodeReversed reverses the accumulated stuffed bytes and runs the
// ordinary forward-COBS unstuffing pass over the result, recovering the
// original payload in its original order.
func decodeReversed(stuffed []byte) ([]byte, error) {
	reversed := make([]byte, len(stuffed))
	for i, b := range stuffed {
		reversed[len(stuffed)-1-i] = b
	}

	dec := NewCOBSDecoder()
	for _, b := range reversed {
		// A literal zero cannot appear here: rCOBS carries no in-band
		// zero before the transport's own delimiter.
		if f, done, err := dec.PushByte(b); err != nil {
			return nil, err
		} else if done {
			return nil, &DecodeError{PartialLen: len(f)}
		}
	}
	// rCOBS frames carry no in-band terminator, so force the forward
	// decoder to completion by flushing a synthetic one.
	out, _, err := dec.PushByte(frameDelimiter)
	if err != nil {
		return nil, err
	}

	reversedOut := make([]byte, len(out))
	for i, b := range out {
		reversedOut[len(out)-1-i] = b
	}
	return reversedOut, nil
}
