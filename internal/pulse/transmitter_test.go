package pulse

import (
	"errors"
	"io"
	"testing"
)

// recordingSink captures written frames and can misbehave on demand.
type recordingSink struct {
	frames   [][]byte
	writes   int
	writeErr error
	short    bool
}

func (s *recordingSink) Write(p []byte) (int, error) {
	s.writes++
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	if s.short {
		return len(p) - 1, nil
	}
	cp := make([]byte, len(p))
	copy(cp, p)
	s.frames = append(s.frames, cp)
	return len(p), nil
}

func TestFrameFormat(t *testing.T) {
	cases := []struct {
		value int
		want  string
	}{
		{1, "#1,1,1,1;"},
		{10, "#10,10,10,10;"},
		{-42, "#-42,-42,-42,-42;"},
		{500, "#500,500,500,500;"},
	}

	for _, tc := range cases {
		if got := string(Frame(tc.value)); got != tc.want {
			t.Errorf("Frame(%d) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestSendWritesOneFrame(t *testing.T) {
	sink := &recordingSink{}
	tx := NewTransmitter(7, sink)

	if err := tx.Send(); err != nil {
		t.Fatalf("Send: unexpected error: %v", err)
	}
	if sink.writes != 1 {
		t.Errorf("writes = %d, want 1", sink.writes)
	}
	if got := string(sink.frames[0]); got != "#7,7,7,7;" {
		t.Errorf("frame = %q, want %q", got, "#7,7,7,7;")
	}
}

func TestSendAlternatesSign(t *testing.T) {
	sink := &recordingSink{}
	tx := NewTransmitter(10, sink)

	want := []string{
		"#10,10,10,10;",
		"#-10,-10,-10,-10;",
		"#10,10,10,10;",
		"#-10,-10,-10,-10;",
		"#10,10,10,10;",
		"#-10,-10,-10,-10;",
	}
	for i := range want {
		if err := tx.Send(); err != nil {
			t.Fatalf("send %d: unexpected error: %v", i, err)
		}
		if v := tx.Value(); v != 10 && v != -10 {
			t.Fatalf("send %d: pending value %d, want magnitude 10", i, v)
		}
	}
	if len(sink.frames) != len(want) {
		t.Fatalf("got %d frames, want %d", len(sink.frames), len(want))
	}
	for i, w := range want {
		if got := string(sink.frames[i]); got != w {
			t.Errorf("frame %d = %q, want %q", i, got, w)
		}
	}
}

func TestThirdFrameIsNegative(t *testing.T) {
	sink := &recordingSink{}
	tx := NewTransmitter(7, sink)

	for i := 0; i < 3; i++ {
		if err := tx.Send(); err != nil {
			t.Fatalf("send %d: unexpected error: %v", i, err)
		}
	}
	if got := string(sink.frames[2]); got != "#-7,-7,-7,-7;" {
		t.Errorf("third frame = %q, want %q", got, "#-7,-7,-7,-7;")
	}
}

func TestNegativeInitialMagnitudeStartsNegative(t *testing.T) {
	sink := &recordingSink{}
	tx := NewTransmitter(-3, sink)

	for i := 0; i < 2; i++ {
		if err := tx.Send(); err != nil {
			t.Fatalf("send %d: unexpected error: %v", i, err)
		}
	}
	if got := string(sink.frames[0]); got != "#-3,-3,-3,-3;" {
		t.Errorf("first frame = %q, want %q", got, "#-3,-3,-3,-3;")
	}
	if got := string(sink.frames[1]); got != "#3,3,3,3;" {
		t.Errorf("second frame = %q, want %q", got, "#3,3,3,3;")
	}
}

func TestSendWriteErrorKeepsValue(t *testing.T) {
	boom := errors.New("port unplugged")
	sink := &recordingSink{writeErr: boom}
	tx := NewTransmitter(5, sink)

	err := tx.Send()
	var te *TransmitError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransmitError", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("err does not unwrap to the write error: %v", err)
	}
	if tx.Value() != 5 {
		t.Errorf("pending value = %d, want 5 (no flip on failure)", tx.Value())
	}

	// A retry by the caller would resend the same value.
	if err := tx.Send(); !errors.As(err, &te) {
		t.Fatalf("second send err = %v, want *TransmitError", err)
	}
	if tx.Value() != 5 {
		t.Errorf("pending value after second failure = %d, want 5", tx.Value())
	}
}

func TestSendShortWriteIsTransmitError(t *testing.T) {
	sink := &recordingSink{short: true}
	tx := NewTransmitter(9, sink)

	err := tx.Send()
	var te *TransmitError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransmitError", err)
	}
	if !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("err = %v, want wrapped io.ErrShortWrite", err)
	}
	if tx.Value() != 9 {
		t.Errorf("pending value = %d, want 9 (no flip on short write)", tx.Value())
	}
}
