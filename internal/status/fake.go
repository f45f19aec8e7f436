package status

// FakeEmitter records every event for assertions in tests.
//
// Not safe for concurrent use.
type FakeEmitter struct {
	// Events holds every emitted event in order.
	Events []Event

	// EmitError, when set, fails every Emit without recording.
	EmitError error
}

// NewFakeEmitter returns an empty fake emitter.
func NewFakeEmitter() *FakeEmitter {
	return &FakeEmitter{}
}

func (f *FakeEmitter) Emit(ev Event) error {
	if f.EmitError != nil {
		return f.EmitError
	}
	f.Events = append(f.Events, ev)
	return nil
}

// Kinds returns the recorded event kinds in order.
func (f *FakeEmitter) Kinds() []Kind {
	out := make([]Kind, len(f.Events))
	for i, ev := range f.Events {
		out[i] = ev.Kind
	}
	return out
}

// Reset discards recorded events and the injected error.
func (f *FakeEmitter) Reset() {
	f.Events = nil
	f.EmitError = nil
}
