package status

import (
	"errors"
	"testing"
	"time"
)

var (
	_ Emitter = (*FakeEmitter)(nil)
	_ Emitter = (*ConsoleEmitter)(nil)
	_ Emitter = (Fanout)(nil)
)

func TestFakeEmitterRecords(t *testing.T) {
	f := NewFakeEmitter()

	events := []Event{
		{Kind: KindConfigured, Port: "/dev/ttyUSB0"},
		{Kind: KindSending, Magnitude: 10, RateHz: 500, PeriodMs: 2},
		{Kind: KindProgress, MessagesSent: 100},
	}
	for _, ev := range events {
		if err := f.Emit(ev); err != nil {
			t.Fatalf("Emit(%s): unexpected error: %v", ev.Kind, err)
		}
	}

	kinds := f.Kinds()
	want := []Kind{KindConfigured, KindSending, KindProgress}
	if len(kinds) != len(want) {
		t.Fatalf("got %d events, want %d", len(kinds), len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, kinds[i], want[i])
		}
	}
	if f.Events[1].Magnitude != 10 || f.Events[1].RateHz != 500 {
		t.Errorf("Sending event fields lost: %+v", f.Events[1])
	}
}

func TestFakeEmitterError(t *testing.T) {
	f := NewFakeEmitter()
	f.EmitError = errors.New("sink down")

	if err := f.Emit(Event{Kind: KindProgress}); err == nil {
		t.Fatal("expected an error")
	}
	if len(f.Events) != 0 {
		t.Errorf("failed emit was recorded: %v", f.Kinds())
	}
}

func TestFakeEmitterReset(t *testing.T) {
	f := NewFakeEmitter()
	f.Emit(Event{Kind: KindProgress})
	f.EmitError = errors.New("sink down")

	f.Reset()

	if len(f.Events) != 0 || f.EmitError != nil {
		t.Errorf("Reset left state behind: %+v", f)
	}
}

func TestFanoutEmitsToAll(t *testing.T) {
	a := NewFakeEmitter()
	b := NewFakeEmitter()
	f := Fanout{a, b}

	ev := Event{Timestamp: time.Now(), Kind: KindProgress, MessagesSent: 5}
	if err := f.Emit(ev); err != nil {
		t.Fatalf("Emit: unexpected error: %v", err)
	}

	for name, em := range map[string]*FakeEmitter{"first": a, "second": b} {
		if len(em.Events) != 1 {
			t.Fatalf("%s emitter got %d events, want 1", name, len(em.Events))
		}
		if em.Events[0].MessagesSent != 5 {
			t.Errorf("%s emitter event = %+v", name, em.Events[0])
		}
	}
}

func TestFanoutContinuesPastErrors(t *testing.T) {
	failing := NewFakeEmitter()
	failing.EmitError = errors.New("broker gone")
	healthy := NewFakeEmitter()
	f := Fanout{failing, healthy}

	err := f.Emit(Event{Kind: KindProgress})
	if !errors.Is(err, failing.EmitError) {
		t.Errorf("err = %v, want the first member's error", err)
	}
	if len(healthy.Events) != 1 {
		t.Errorf("later member skipped after an error: got %d events", len(healthy.Events))
	}
}

func TestFanoutEmptyIsNoop(t *testing.T) {
	var f Fanout
	if err := f.Emit(Event{Kind: KindProgress}); err != nil {
		t.Errorf("empty fanout returned %v", err)
	}
}
