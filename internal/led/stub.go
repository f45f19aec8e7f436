//go:build !linux

package led

import "errors"

var errNotSupported = errors.New("led: not supported on this platform (requires Linux)")

// RealLine is a placeholder on non-Linux platforms.
type RealLine struct{}

// OpenLine always fails on non-Linux platforms.
func OpenLine(pin int) (*RealLine, error) {
	return nil, errNotSupported
}

// Set always fails on non-Linux platforms.
func (l *RealLine) Set(on bool) error {
	return errNotSupported
}

// Close is a no-op on non-Linux platforms.
func (l *RealLine) Close() error {
	return nil
}
