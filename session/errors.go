package session

import "errors"

// Failure categories, kept as distinct sentinels so callers can tell a
// recoverable timeout apart from a protocol violation or a dead transport
// with errors.Is.
var (
	// ErrClosed reports a send or wait on a session that is not open.
	ErrClosed = errors.New("session is not open")
	// ErrBusy reports a second wait started while one is outstanding.
	ErrBusy = errors.New("another wait is already in progress on this session")
	// ErrTimeout reports that the expected pattern was not seen, either
	// because the deadline elapsed or because the peer stopped sending.
	ErrTimeout = errors.New("timeout waiting for pattern")
	// ErrProtocol reports an unrecognized telnet command byte. The peer
	// speaks an incompatible dialect or the stream is corrupted.
	ErrProtocol = errors.New("unknown telnet command byte")
	// ErrRefused reports that the peer declined window size negotiation.
	ErrRefused = errors.New("peer refuses window sizing")
	// ErrLoginFailed is the opaque result of any failed login step.
	ErrLoginFailed = errors.New("login failed")
)
