package frame

import "fmt"

// DecodeError reports an inconsistency in a frame's byte stuffing. The
// affected frame is discarded and the decoder has already reset itself;
// callers report the error and keep feeding bytes, so one corrupted
// frame never takes down the stream.
type DecodeError struct {
	// PartialLen is how many payload bytes had been recovered before the
	// stuffing went inconsistent.
	PartialLen int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("corrupted frame dropped after %d decoded bytes", e.PartialLen)
}
