// Package transport opens the duplex byte streams a session drives. The
// session layer only requires Conn: a stream it can read under a deadline,
// write to, and close exactly once.
package transport

import (
	"fmt"
	"io"
	"net"
	"time"

	"github.com/paulo-hortelan/telnet-client/logger"
	"github.com/paulo-hortelan/telnet-client/schema"
)

const (
	SSH schema.ConnectionMethod = iota
	Telnet
)

const defaultDialTimeout = 10 * time.Second

var log schema.Logger

func init() {
	log = logger.Log
}

// Conn is the duplex stream contract the session core needs. A net.Conn
// satisfies it directly; the SSH shell transport adapts to it.
type Conn interface {
	io.ReadWriteCloser
	SetReadDeadline(t time.Time) error
}

// Dial opens a raw TCP stream to a telnet endpoint. No negotiation happens
// here; the session layer answers options in-band.
func Dial(options schema.ConnectOptions) (Conn, error) {
	return DialTimeout(options, defaultDialTimeout)
}

func DialTimeout(options schema.ConnectOptions, timeout time.Duration) (Conn, error) {
	if options.Port == 0 {
		options.Port = 23
	}
	host := fmt.Sprintf("%v:%v", options.Host, options.Port)
	log.Debug("Dialing ", host)
	conn, err := net.DialTimeout("tcp", host, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", host, err)
	}
	return conn, nil
}
