package transport

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/paulo-hortelan/telnet-client/schema"
	"golang.org/x/crypto/ssh"
)

func publicKeyFile(file string) ssh.AuthMethod {
	buffer, err := os.ReadFile(file)
	if err != nil {
		return nil
	}

	key, err := ssh.ParsePrivateKey(buffer)
	if err != nil {
		return nil
	}
	return ssh.PublicKeys(key)
}

func CreateSSHConfig(options schema.ConnectOptions) (sshConfig *ssh.ClientConfig) {
	sshConfig = &ssh.ClientConfig{
		User:            options.Username,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}
	if options.Password != "" {
		sshConfig.Auth = []ssh.AuthMethod{
			ssh.Password(options.Password),
		}
	}
	if options.Cert != "" {
		sshConfig.Auth = []ssh.AuthMethod{
			publicKeyFile(options.Cert),
		}
	}
	return
}

// DialSSH starts an interactive shell over SSH and adapts it to the Conn
// contract. Authentication is handled here by the SSH layer, so the session
// on top only needs to wait for the shell prompt, not run a login sequence.
func DialSSH(options schema.ConnectOptions) (Conn, error) {
	if options.Port == 0 {
		options.Port = 22
	}
	config := CreateSSHConfig(options)
	host := fmt.Sprint(options.Host, ":", options.Port)
	log.Debug("Dialing ", host)
	client, err := ssh.Dial("tcp", host, config)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", host, err)
	}
	sess, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	stdin, err := sess.StdinPipe()
	if err != nil {
		client.Close()
		return nil, err
	}
	stdout, err := sess.StdoutPipe()
	if err != nil {
		client.Close()
		return nil, err
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,     // disable echoing
		ssh.TTY_OP_ISPEED: 14400, // input speed = 14.4kbaud
		ssh.TTY_OP_OSPEED: 14400, // output speed = 14.4kbaud
	}

	// Request PTY
	if err := sess.RequestPty("xterm", 0, 80, modes); err != nil {
		sess.Close()
		client.Close()
		return nil, fmt.Errorf("request for pseudo terminal failed: %w", err)
	}

	// Start remote shell
	if err := sess.Shell(); err != nil {
		sess.Close()
		client.Close()
		return nil, fmt.Errorf("failed to start shell: %w", err)
	}
	log.Info("SSH session created.")

	c := &sshConn{
		client:  client,
		session: sess,
		stdin:   stdin,
		reads:   make(chan readChunk, 1),
	}
	go c.pump(stdout)
	return c, nil
}

type readChunk struct {
	data []byte
	err  error
}

// sshConn adapts the SSH shell's pipes to the Conn contract. SSH pipes have
// no native read deadlines, so reads are pumped through a channel and the
// deadline is applied on the receiving side.
type sshConn struct {
	client  *ssh.Client
	session *ssh.Session
	stdin     io.WriteCloser
	reads     chan readChunk
	leftover  []byte
	readErr   error
	deadline  time.Time
	closeOnce sync.Once
}

func (c *sshConn) pump(stdout io.Reader) {
	for {
		buf := make([]byte, 4096)
		n, err := stdout.Read(buf)
		c.reads <- readChunk{data: buf[:n], err: err}
		if err != nil {
			return
		}
	}
}

func (c *sshConn) SetReadDeadline(t time.Time) error {
	c.deadline = t
	return nil
}

func (c *sshConn) Read(p []byte) (int, error) {
	if len(c.leftover) > 0 {
		n := copy(p, c.leftover)
		c.leftover = c.leftover[n:]
		return n, nil
	}
	if c.readErr != nil {
		return 0, c.readErr
	}
	var wait <-chan time.Time
	if !c.deadline.IsZero() {
		timer := time.NewTimer(time.Until(c.deadline))
		defer timer.Stop()
		wait = timer.C
	}
	select {
	case chunk := <-c.reads:
		// an error delivered alongside data is surfaced once the data is drained
		c.readErr = chunk.err
		if len(chunk.data) == 0 {
			if chunk.err != nil {
				return 0, chunk.err
			}
			return 0, nil
		}
		n := copy(p, chunk.data)
		c.leftover = chunk.data[n:]
		return n, nil
	case <-wait:
		return 0, os.ErrDeadlineExceeded
	}
}

func (c *sshConn) Write(p []byte) (int, error) {
	return c.stdin.Write(p)
}

func (c *sshConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.stdin.Close()
		c.session.Close()
		err = c.client.Close()
	})
	return err
}
