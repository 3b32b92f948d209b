package session

import (
	"net"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "line1\r\nline2\r\n", "line1\nline2"},
		{"lfcr", "line1\n\rline2\n\r", "line1\nline2"},
		{"lone cr", "line1\rline2", "line1\nline2"},
		{"mixed", "a\r\nb\n\rc\rd\ne", "a\nb\nc\nd\ne"},
		{"surrounding whitespace", "  \n output \n ", "output"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{
		"a\r\nb\n\rc\rd",
		"show version\r\nIOS 15.2\r\nrouter#",
		"\r\n\r\n",
	} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestFormat_StripsPromptLine(t *testing.T) {
	client, _ := net.Pipe()
	defer client.Close()

	s := New(client)
	s.SetPrompt(regexp.MustCompile(`router#`))

	out := s.format("show clock\r\n12:00:00 UTC\r\nrouter#", s.prompt)
	assert.Equal(t, "show clock\n12:00:00 UTC", out)

	// formatting a formatted buffer changes nothing
	assert.Equal(t, out, s.format(out, s.prompt))
}

func TestFormat_StripsSelfOverlappingPromptLine(t *testing.T) {
	client, _ := net.Pipe()
	defer client.Close()

	s := New(client)

	// The prompt line must be stripped even when the pattern overlaps an
	// earlier occurrence of itself within the line.
	re := regexp.MustCompile(`aba`)
	out := s.format("output\nababa", re)
	assert.Equal(t, "output", out)
}

func TestFormat_StripDisabled(t *testing.T) {
	client, _ := net.Pipe()
	defer client.Close()

	s := New(client)
	s.SetPrompt(regexp.MustCompile(`router#`))
	s.SetStripPrompt(false)

	out := s.format("output\r\nrouter#", s.prompt)
	assert.Equal(t, "output\nrouter#", out)
}
