package serialport

// FakeSink is a test double for the serial port. It records every frame
// written to it and can fail or short-write on demand.
//
// Not safe for concurrent use.
type FakeSink struct {
	// Frames holds one entry per successful Write call.
	Frames [][]byte

	// Writes counts all Write calls, including failed ones.
	Writes int

	// WriteError, when set, fails every Write without recording.
	WriteError error

	// ShortWrite, when true, reports one byte fewer than was passed.
	ShortWrite bool

	// Closed is set by Close.
	Closed bool
}

// NewFakeSink returns an empty fake sink.
func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

func (f *FakeSink) Write(p []byte) (int, error) {
	f.Writes++
	if f.WriteError != nil {
		return 0, f.WriteError
	}
	if f.ShortWrite {
		return len(p) - 1, nil
	}
	cp := make([]byte, len(p))
	copy(cp, p)
	f.Frames = append(f.Frames, cp)
	return len(p), nil
}

func (f *FakeSink) Close() error {
	f.Closed = true
	return nil
}

// FrameStrings returns the recorded frames as strings.
func (f *FakeSink) FrameStrings() []string {
	out := make([]string, len(f.Frames))
	for i, fr := range f.Frames {
		out[i] = string(fr)
	}
	return out
}

// Reset returns the fake to its initial state.
func (f *FakeSink) Reset() {
	f.Frames = nil
	f.Writes = 0
	f.WriteError = nil
	f.ShortWrite = false
	f.Closed = false
}
