package led

// FakeBlinker records Set calls for tests.
//
// Not safe for concurrent use without external synchronization.
type FakeBlinker struct {
	// States records the value of every successful Set call in order.
	States []bool

	// SetError, when non-nil, is returned by Set without recording.
	SetError error

	// Closed reports whether Close has been called.
	Closed bool
}

// NewFakeBlinker returns a fake with no recorded states.
func NewFakeBlinker() *FakeBlinker {
	return &FakeBlinker{}
}

// Set records the value, or fails with SetError.
func (f *FakeBlinker) Set(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.States = append(f.States, on)
	return nil
}

// Close marks the fake as closed.
func (f *FakeBlinker) Close() error {
	f.Closed = true
	return nil
}

// Reset returns the fake to its initial state.
func (f *FakeBlinker) Reset() {
	f.States = nil
	f.SetError = nil
	f.Closed = false
}
