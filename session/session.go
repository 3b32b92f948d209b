// Package session implements the synchronous "send command, wait for prompt,
// return output" contract over a duplex byte stream. The prompt-wait engine
// reads the stream one byte at a time, answers telnet option negotiation
// in-band, absorbs pagination interruptions, and settles when the tail of
// the accumulated output matches the expected pattern.
package session

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/paulo-hortelan/telnet-client/logger"
	"github.com/paulo-hortelan/telnet-client/profile"
	"github.com/paulo-hortelan/telnet-client/schema"
	"github.com/paulo-hortelan/telnet-client/transport"
)

var log schema.Logger

func init() {
	log = logger.Log
}

const (
	DefaultTimeout     = 30 * time.Second
	DefaultReadTimeout = 10 * time.Second
	DefaultLineEnding  = "\n"
)

// Pagination markers the engine silently advances past. The set is
// per-session and overridable via SetMoreMarkers.
var DefaultMoreMarkers = []string{
	"--- more ---",
	"--More--",
	"  --Press any key to continue Ctrl+c to stop-- ",
	"--More ( Press 'Q' to quit )--",
}

// Session owns a duplex stream exclusively and runs synchronous send/wait
// cycles over it. A session is single-caller: exactly one wait may be
// outstanding at a time, and concurrent use from multiple goroutines must
// be serialized by the owner. Misuse is detected, not corrupting: a second
// concurrent wait fails immediately with ErrBusy.
type Session struct {
	conn        transport.Conn
	open        bool
	busy        atomic.Bool
	prompt      *regexp.Regexp
	lineEnding  string
	stripPrompt bool
	negotiate   bool
	timeout     time.Duration
	readTimeout time.Duration
	markers     [][]byte
	profiles    *profile.Registry

	// buf accumulates visible output since the last command or pagination
	// continuation. transcript records every byte sent or received for the
	// lifetime of the session and is never cleared.
	buf        bytes.Buffer
	transcript bytes.Buffer
}

var defaultPrompt = regexp.MustCompile(`> *$|# *$|\$ *$`)

// New wraps an open stream in a session with the default configuration.
// The session takes exclusive ownership of the stream and will close it.
func New(conn transport.Conn) *Session {
	s := &Session{
		conn:        conn,
		open:        conn != nil,
		prompt:      defaultPrompt,
		lineEnding:  DefaultLineEnding,
		stripPrompt: true,
		negotiate:   true,
		timeout:     DefaultTimeout,
		readTimeout: DefaultReadTimeout,
		profiles:    profile.Default(),
	}
	for _, m := range DefaultMoreMarkers {
		s.markers = append(s.markers, []byte(m))
	}
	return s
}

func (s *Session) SetTimeout(d time.Duration)     { s.timeout = d }
func (s *Session) SetReadTimeout(d time.Duration) { s.readTimeout = d }
func (s *Session) SetLineEnding(le string)        { s.lineEnding = le }
func (s *Session) SetStripPrompt(strip bool)      { s.stripPrompt = strip }

// SetNegotiation enables or disables automatic answering of telnet control
// sequences. Disabled, the escape byte is ordinary data; this exists for
// peers that do not speak the option protocol and would otherwise have
// literal 0xFF bytes misinterpreted.
func (s *Session) SetNegotiation(enabled bool) { s.negotiate = enabled }

func (s *Session) SetPrompt(pattern *regexp.Regexp) { s.prompt = pattern }

// SetPromptString sets the prompt to a literal string, matched at the tail
// of the output.
func (s *Session) SetPromptString(prompt string) {
	s.prompt = regexp.MustCompile(regexp.QuoteMeta(prompt))
}

func (s *Session) SetMoreMarkers(markers []string) {
	s.markers = s.markers[:0]
	for _, m := range markers {
		s.markers = append(s.markers, []byte(m))
	}
}

// SetProfiles replaces the login profile table.
func (s *Session) SetProfiles(r *profile.Registry) { s.profiles = r }

// Transcript returns the complete raw record of bytes exchanged over the
// session, sanitized to valid UTF-8 for display. It is a diagnostic record,
// not meant for re-parsing.
func (s *Session) Transcript() string {
	return strings.ToValidUTF8(s.transcript.String(), "�")
}

// nextByte pulls a single byte from the stream under the per-read deadline
// and records it in the transcript. The per-read timeout guards against a
// stalled peer between bytes; the overall command timeout, enforced by the
// wait loop, guards against a peer that drips bytes forever.
func (s *Session) nextByte() (byte, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
		return 0, err
	}
	var one [1]byte
	for {
		n, err := s.conn.Read(one[:])
		if err != nil {
			return 0, err
		}
		if n == 1 {
			break
		}
	}
	s.transcript.WriteByte(one[0])
	return one[0], nil
}

// write puts bytes on the wire immediately and mirrors them into the
// transcript.
func (s *Session) write(p []byte) error {
	if _, err := s.conn.Write(p); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	s.transcript.Write(p)
	return nil
}

// Send writes a command to the stream, appending the session line ending
// when newline is set. Unless continuation is set, the command buffer is
// cleared first: a new command invalidates whatever was accumulated for the
// previous one. A pagination continuation keeps the buffer so paged output
// accumulates across the keystroke.
func (s *Session) Send(text string, newline bool, continuation bool) error {
	if !s.open {
		return ErrClosed
	}
	if !continuation {
		s.buf.Reset()
	}
	if newline {
		text += s.lineEnding
	}
	return s.write([]byte(text))
}

// Exec sends a command and waits for the session prompt, returning the
// formatted output. This is the common entry point.
func (s *Session) Exec(command string) (string, error) {
	return s.ExecRaw(command, true, s.prompt)
}

// ExecExpect sends a command and waits for an override pattern instead of
// the session prompt.
func (s *Session) ExecExpect(command string, pattern *regexp.Regexp) (string, error) {
	return s.ExecRaw(command, true, pattern)
}

// ExecRaw is Exec with full control over the line ending and the pattern.
func (s *Session) ExecRaw(command string, newline bool, pattern *regexp.Regexp) (string, error) {
	if err := s.Send(command, newline, false); err != nil {
		return "", err
	}
	out, err := s.WaitFor(pattern, false)
	if err != nil {
		return "", err
	}
	return s.format(out, pattern), nil
}

// Expect waits for a pattern without sending anything first.
func (s *Session) Expect(pattern *regexp.Regexp) (string, error) {
	return s.WaitFor(pattern, false)
}

// Close releases the stream. Closing twice is a no-op; any send or wait
// after Close fails with ErrClosed.
func (s *Session) Close() error {
	if !s.open {
		return nil
	}
	s.open = false
	log.Debug("Closing session.")
	return s.conn.Close()
}
