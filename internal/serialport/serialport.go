// Package serialport wraps the serial transport: opening and configuring
// the port the pulse frames are written to, plus a fake for tests.
package serialport

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// DefaultBaud is the line rate the target device expects.
const DefaultBaud = 115200

// readTimeout keeps stray inbound bytes from ever blocking the handle.
const readTimeout = 100 * time.Millisecond

// Port is an open, configured serial connection.
type Port struct {
	name string
	port serial.Port
}

// Open opens name at the given baud rate with 8 data bits, no parity and
// one stop bit.
func Open(name string, baud int) (*Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	if err := p.SetReadTimeout(readTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("configuring %s: %w", name, err)
	}
	return &Port{name: name, port: p}, nil
}

// Name returns the port name the connection was opened with.
func (p *Port) Name() string {
	return p.name
}

func (p *Port) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close drains pending output so the last frame reaches the wire, then
// closes the handle.
func (p *Port) Close() error {
	if err := p.port.Drain(); err != nil {
		p.port.Close()
		return fmt.Errorf("draining %s: %w", p.name, err)
	}
	return p.port.Close()
}
