// Package telnet holds the protocol constants the session layer negotiates
// with. Values are fixed by the telnet protocol (RFC 854/855) and shared by
// every session; they are never per-instance state.
package telnet

const (
	IAC  = 255 // "Interpret As Command", introduces a control sequence
	DONT = 254
	DO   = 253
	WONT = 252
	WILL = 251
	SB   = 250 // Subnegotiation Begin
	SE   = 240 // Subnegotiation End
)

const (
	Null = 0  // NUL filler byte
	DC1  = 17 // device control 1 (XON)
)

// Option identifiers. Only NAWS is ever offered by this client; every option
// the peer requests is refused.
const (
	OptEcho       = 1
	OptSGA        = 3  // suppress go ahead
	OptTerminalT  = 24 // terminal type
	OptWindowSize = 31 // NAWS, negotiate about window size
)

// CommandName returns a readable name for a negotiation command byte,
// for diagnostics.
func CommandName(b byte) string {
	switch b {
	case IAC:
		return "IAC"
	case DONT:
		return "DONT"
	case DO:
		return "DO"
	case WONT:
		return "WONT"
	case WILL:
		return "WILL"
	case SB:
		return "SB"
	case SE:
		return "SE"
	}
	return "UNKNOWN"
}
