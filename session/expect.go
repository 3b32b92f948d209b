package session

import (
	"bytes"
	"fmt"
	"regexp"
	"time"

	"github.com/paulo-hortelan/telnet-client/telnet"
)

// WaitFor reads the stream until the tail of the accumulated output matches
// pattern, returning the settled buffer. A nil pattern reads until the peer
// stops sending and returns whatever arrived. Unless continuation is set the
// buffer starts empty.
//
// The engine works byte by byte: control sequences are not line-delimited
// and can appear mid-stream at arbitrary offsets, and pagination markers
// must be caught before a prompt-like pattern could falsely match inside
// paged output. Telnet negotiation requests are answered in-band and never
// reach the buffer. When the buffer ends with a pagination marker, a single
// space is sent as a continuation keystroke and reading resumes with the
// buffer preserved.
//
// On timeout or protocol violation the buffer is cleared before the error
// is returned, so stale partial output never leaks into a later command's
// result.
func (s *Session) WaitFor(pattern *regexp.Regexp, continuation bool) (string, error) {
	if !s.open {
		return "", ErrClosed
	}
	if !s.busy.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer s.busy.Store(false)
	return s.waitFor(pattern, continuation)
}

func (s *Session) waitFor(pattern *regexp.Regexp, continuation bool) (string, error) {
	if !continuation {
		s.buf.Reset()
	}
	var tail *regexp.Regexp
	if pattern != nil {
		tail = anchorTail(pattern)
	}
	deadline := time.Now().Add(s.timeout)

	for {
		if time.Now().After(deadline) {
			partial := discardBuffer(&s.buf)
			if pattern != nil {
				return "", fmt.Errorf("%w: %v not seen after %v, discarding %q",
					ErrTimeout, pattern, s.timeout, partial)
			}
			return "", fmt.Errorf("%w: nothing settled after %v", ErrTimeout, s.timeout)
		}

		b, err := s.nextByte()
		if err != nil {
			// A per-read timeout and a peer hang-up both land here. With no
			// pattern requested that is success; otherwise the wait failed.
			if pattern == nil {
				return s.buf.String(), nil
			}
			partial := discardBuffer(&s.buf)
			return "", fmt.Errorf("%w: %v not found before connection closed, discarding %q",
				ErrTimeout, pattern, partial)
		}

		if b == telnet.IAC && s.negotiate {
			if err := s.answer(); err != nil {
				s.buf.Reset()
				return "", err
			}
			continue
		}

		s.buf.WriteByte(b)

		if s.pageBreak() {
			log.Debug("Found continuation request, paging past it.")
			if err := s.Send(" ", false, true); err != nil {
				s.buf.Reset()
				return "", err
			}
			continue
		}

		if tail != nil && tail.Match(s.buf.Bytes()) {
			log.Debug("Expectation matched.")
			return s.buf.String(), nil
		}
	}
}

// discardBuffer empties the command buffer and returns a bounded tail of the
// discarded content, for the diagnostics of a failed wait.
func discardBuffer(buf *bytes.Buffer) string {
	const keep = 128
	partial := buf.String()
	buf.Reset()
	if len(partial) > keep {
		partial = "..." + partial[len(partial)-keep:]
	}
	return partial
}

// pageBreak reports whether the buffer ends with a pagination marker, i.e.
// the peer is withholding further output until prompted.
func (s *Session) pageBreak() bool {
	tail := s.buf.Bytes()
	for _, m := range s.markers {
		if bytes.HasSuffix(tail, m) {
			return true
		}
	}
	return false
}

// anchorTail compiles a variant of re that only matches at the very end of
// the input. Scanning for occurrences and checking where the last one ends
// is not equivalent: leftmost-first scanning misses a genuine suffix match
// whenever an earlier overlapping occurrence consumes its leading bytes
// (pattern "aba" against "ababa").
func anchorTail(re *regexp.Regexp) *regexp.Regexp {
	return regexp.MustCompile(`(?:` + re.String() + `)\z`)
}

// matchesTail reports whether buf ends with content matching re. The match
// is anchored to the end of the buffer: a mid-buffer occurrence with
// trailing unrelated bytes must not settle the wait.
func matchesTail(re *regexp.Regexp, buf []byte) bool {
	return anchorTail(re).Match(buf)
}
