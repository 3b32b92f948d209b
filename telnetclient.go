// Package telnetclient drives interactive terminal sessions on remote
// network devices over telnet or SSH. The Manager tracks named sessions;
// the session package holds the prompt-wait engine that does the work.
package telnetclient

import (
	"errors"
	"regexp"

	"github.com/paulo-hortelan/telnet-client/logger"
	"github.com/paulo-hortelan/telnet-client/profile"
	"github.com/paulo-hortelan/telnet-client/schema"
	"github.com/paulo-hortelan/telnet-client/session"
	"github.com/paulo-hortelan/telnet-client/transport"
)

type Manager struct {
	sessions map[string]*session.Session
	profiles *profile.Registry
	log      schema.Logger
}

func New() *Manager {
	return &Manager{
		sessions: make(map[string]*session.Session),
		profiles: profile.Default(),
		log:      logger.Log,
	}
}

// Profiles exposes the manager's login profile table so callers can register
// additional device dialects before connecting.
func (m *Manager) Profiles() *profile.Registry {
	return m.profiles
}

// Connect opens a stream with the requested method, logs in, and registers
// the session under id. Telnet sessions run the in-band login exchange; SSH
// sessions authenticate in the transport and only wait for the shell prompt.
func (m *Manager) Connect(id string, options schema.ConnectOptions) (*session.Session, error) {
	var (
		conn transport.Conn
		err  error
	)
	switch options.Method {
	case transport.Telnet:
		conn, err = transport.Dial(options)
	case transport.SSH:
		conn, err = transport.DialSSH(options)
	default:
		return nil, errors.New("that connection method is not supported")
	}
	if err != nil {
		return nil, err
	}

	s := session.New(conn)
	s.SetProfiles(m.profiles)

	deviceType := options.DeviceType
	if deviceType == "" {
		deviceType = "generic"
	}

	if options.Method == transport.Telnet {
		if err := s.Login(options.Username, options.Password, deviceType); err != nil {
			s.Close()
			return nil, err
		}
	} else {
		p, err := m.profiles.Lookup(deviceType)
		if err != nil {
			s.Close()
			return nil, err
		}
		promptRE, err := regexp.Compile(p.PromptPattern)
		if err != nil {
			s.Close()
			return nil, err
		}
		if _, err := s.Expect(promptRE); err != nil {
			s.Close()
			return nil, err
		}
		s.SetPrompt(promptRE)
	}

	m.log.Infof("Session %q ready.", id)
	m.sessions[id] = s
	return s, nil
}

// GetSession returns a previously connected session by id.
func (m *Manager) GetSession(id string) (*session.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.New("no session with that id")
	}
	return s, nil
}

// Shutdown closes every registered session.
func (m *Manager) Shutdown() error {
	var firstErr error
	for id, s := range m.sessions {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.sessions, id)
	}
	return firstErr
}
