package session

import (
	"fmt"

	"github.com/paulo-hortelan/telnet-client/telnet"
)

// answer consumes the control sequence following an IAC and refuses it.
// This client claims support for no option: every DO/DONT is answered with
// WONT and every WILL/WONT with DONT, which keeps the peer in the plain
// NVT mode the engine expects. Replies go on the wire immediately.
func (s *Session) answer() error {
	cmd, err := s.nextByte()
	if err != nil {
		return fmt.Errorf("%w: stream ended inside a control sequence", ErrProtocol)
	}
	switch cmd {
	case telnet.DO, telnet.DONT:
		opt, err := s.nextByte()
		if err != nil {
			return fmt.Errorf("%w: stream ended inside a control sequence", ErrProtocol)
		}
		log.Debugf("Refusing %s %d with WONT.", telnet.CommandName(cmd), opt)
		return s.write([]byte{telnet.IAC, telnet.WONT, opt})
	case telnet.WILL, telnet.WONT:
		opt, err := s.nextByte()
		if err != nil {
			return fmt.Errorf("%w: stream ended inside a control sequence", ErrProtocol)
		}
		log.Debugf("Declining %s %d with DONT.", telnet.CommandName(cmd), opt)
		return s.write([]byte{telnet.IAC, telnet.DONT, opt})
	default:
		return fmt.Errorf("%w: 0x%02x", ErrProtocol, cmd)
	}
}

// NegotiateWindowSize offers the NAWS option and, if the peer accepts,
// subnegotiates the terminal dimensions. This is a one-shot handshake the
// caller invokes explicitly; ordinary waits never offer options.
func (s *Session) NegotiateWindowSize(width, height int) error {
	if !s.open {
		return ErrClosed
	}
	// each dimension goes on the wire as a zero byte plus one value byte
	if width < 0 || width > 255 || height < 0 || height > 255 {
		return fmt.Errorf("window size %dx%d cannot be encoded, dimensions must be 0-255", width, height)
	}
	if err := s.write([]byte{telnet.IAC, telnet.WILL, telnet.OptWindowSize}); err != nil {
		return err
	}
	b, err := s.nextByte()
	if err != nil {
		return ErrRefused
	}
	if b != telnet.IAC {
		return fmt.Errorf("%w: expected IAC, got 0x%02x", ErrRefused, b)
	}
	cmd, err := s.nextByte()
	if err != nil {
		return ErrRefused
	}
	if cmd != telnet.DO && cmd != telnet.WILL {
		return fmt.Errorf("%w: answered with %s", ErrRefused, telnet.CommandName(cmd))
	}
	// consume the echoed option byte
	if _, err := s.nextByte(); err != nil {
		return ErrRefused
	}
	log.Debugf("Peer accepted window sizing, sending %dx%d.", width, height)
	return s.write([]byte{
		telnet.IAC, telnet.SB, telnet.OptWindowSize,
		0, byte(width), 0, byte(height),
		telnet.IAC, telnet.SE,
	})
}
