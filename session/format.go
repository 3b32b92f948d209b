package session

import (
	"regexp"
	"strings"
)

var lineEndings = strings.NewReplacer(
	"\n\r", "\n",
	"\r\n", "\n",
	"\r", "\n",
)

// Normalize folds every line-ending variant to a single line feed and trims
// surrounding whitespace. Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	return strings.TrimSpace(lineEndings.Replace(raw))
}

// format renders a settled buffer for the caller. When prompt stripping is
// enabled the trailing prompt line (the echo that triggered the match) is
// removed; the line is only dropped when it actually matches the pattern
// that settled the wait, which keeps formatting idempotent.
func (s *Session) format(raw string, pattern *regexp.Regexp) string {
	out := Normalize(raw)
	if !s.stripPrompt || pattern == nil {
		return out
	}
	lines := strings.Split(out, "\n")
	last := lines[len(lines)-1]
	if matchesTail(pattern, []byte(last)) {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
