package pulse

import (
	"fmt"
	"io"
)

// TransmitError reports a failed or short frame write. It is fatal to
// the run: after a partial frame the link state is unknown and resending
// fragments cannot repair it.
type TransmitError struct {
	Cause error
}

func (e *TransmitError) Error() string {
	return fmt.Sprintf("transmit failed: %v", e.Cause)
}

func (e *TransmitError) Unwrap() error {
	return e.Cause
}

// Frame renders the wire frame for value v: the same signed decimal in
// four comma-separated fields, '#' lead-in, ';' terminator, no newline.
func Frame(v int) []byte {
	return []byte(fmt.Sprintf("#%d,%d,%d,%d;", v, v, v, v))
}

// Transmitter owns the alternating-sign pulse value and writes one frame
// per Send call. The sign flips only after a successful write.
type Transmitter struct {
	value int
	sink  io.Writer
}

// NewTransmitter starts with value magnitude; its sign sets the starting
// sign. The sink must already be open.
func NewTransmitter(magnitude int, sink io.Writer) *Transmitter {
	return &Transmitter{value: magnitude, sink: sink}
}

// Value returns the value the next frame will carry.
func (t *Transmitter) Value() int {
	return t.value
}

// Send writes exactly one frame to the sink. A write error or a short
// write returns a *TransmitError and leaves the pending value unchanged.
func (t *Transmitter) Send() error {
	frame := Frame(t.value)
	n, err := t.sink.Write(frame)
	if err != nil {
		return &TransmitError{Cause: err}
	}
	if n != len(frame) {
		return &TransmitError{Cause: io.ErrShortWrite}
	}
	t.value = -t.value
	return nil
}
