package session

import (
	"regexp"

	"github.com/paulo-hortelan/telnet-client/profile"
	"github.com/paulo-hortelan/telnet-client/schema"
)

// Login runs the plaintext login exchange for the given device type:
// wait for the username prompt and send the username (skipped when username
// is empty), wait for the password prompt and send the password, then wait
// for the shell prompt that confirms the credentials were accepted. The
// session prompt is updated to the profile's prompt pattern.
//
// An unknown device type is a caller error and is returned as-is. Any
// failure inside the exchange is reported as the opaque ErrLoginFailed; the
// underlying cause is logged but deliberately not distinguished at this
// layer. There is no rollback: after a failed login the session is in
// whatever state the peer left it and must be treated as unusable.
func (s *Session) Login(username, password string, deviceType schema.DeviceType) error {
	p, err := s.profiles.Lookup(deviceType)
	if err != nil {
		return err
	}
	if err := s.loginExchange(username, password, p); err != nil {
		log.Warningf("Login on %q device failed: %v", deviceType, err)
		return ErrLoginFailed
	}
	log.Info("Login complete, shell prompt detected.")
	return nil
}

func (s *Session) loginExchange(username, password string, p profile.Profile) error {
	if username != "" {
		userRE := regexp.MustCompile(regexp.QuoteMeta(p.UsernamePrompt))
		if _, err := s.WaitFor(userRE, false); err != nil {
			return err
		}
		if err := s.Send(username, true, false); err != nil {
			return err
		}
	}

	passRE := regexp.MustCompile(regexp.QuoteMeta(p.PasswordPrompt))
	if _, err := s.WaitFor(passRE, false); err != nil {
		return err
	}
	if err := s.Send(password, true, false); err != nil {
		return err
	}

	promptRE, err := regexp.Compile(p.PromptPattern)
	if err != nil {
		return err
	}
	if _, err := s.WaitFor(promptRE, false); err != nil {
		return err
	}
	s.prompt = promptRE
	return nil
}
