// Package frame de-frames a Postform transport byte stream into discrete
// record payloads, one per framing scheme: COBS over RTT, reverse-COBS
// over a serial link, and length-prefixed records in a persisted file.
package frame

// A 0x00 byte always marks a COBS frame boundary on the wire (RTT uses
// forward COBS, where 0x00 both terminates a frame and resets the
// decoder).
const frameDelimiter = 0x00

// COBSDecoder incrementally decodes a forward-COBS byte stream (RFC-style
// Consistent Overhead Byte Stuffing, terminated by a literal 0x00) into
// complete frames. Bytes are fed one at a time so a transport that
// delivers data in arbitrary chunks (an RTT ring buffer drained
// opportunistically) never has to buffer more than one in-flight frame.
type COBSDecoder struct {
	out      []byte
	code     byte
	copyLeft byte
	sawCode  bool
}

// NewCOBSDecoder returns a decoder ready to consume a fresh frame.
func NewCOBSDecoder() *COBSDecoder {
	d := &COBSDecoder{}
	d.reset()
	return d
}

func (d *COBSDecoder) reset() {
	d.out = d.out[:0]
	d.code = 0xFF
	d.copyLeft = 0
	d.sawCode = false
}

// PushByte feeds one transport byte into the decoder. Each byte has one
// of three outcomes: nothing yet (the frame is still in flight), a
// completed frame (b was the terminating 0x00 and the decoded payload is
// returned with complete == true), or a framing error (a 0x00 arrived
// inside a run that still promised literal bytes). On both completion
// and error the decoder resets, so the next call starts a fresh frame.
func (d *COBSDecoder) PushByte(b byte) (frame []byte, complete bool, err error) {
	if b == frameDelimiter {
		if d.copyLeft != 0 {
			partial := len(d.out)
			d.reset()
			return nil, false, &DecodeError{PartialLen: partial}
		}
		frame = append([]byte(nil), d.out...)
		d.reset()
		return frame, true, nil
	}

	if d.copyLeft == 0 {
		if d.sawCode && d.code != 0xFF {
			d.out = append(d.out, frameDelimiter)
		}
		d.copyLeft = b - 1
		d.code = b
		d.sawCode = true
		return nil, false, nil
	}

	d.out = append(d.out, b)
	d.copyLeft--
	return nil, false, nil
}
