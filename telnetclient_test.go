package telnetclient_test

import (
	"bufio"
	"net"
	"sync"
	"testing"

	telnetclient "github.com/paulo-hortelan/telnet-client"
	"github.com/paulo-hortelan/telnet-client/profile"
	"github.com/paulo-hortelan/telnet-client/schema"
	"github.com/paulo-hortelan/telnet-client/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ConnectTelnet(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	port := l.Addr().(*net.TCPAddr).Port

	wgClient := &sync.WaitGroup{}
	wgClient.Add(1)

	m := telnetclient.New()
	go func() {
		defer wgClient.Done()
		s, err := m.Connect("test-router", schema.ConnectOptions{
			Host:       "127.0.0.1",
			Port:       port,
			Username:   "admin",
			Password:   "secret",
			DeviceType: "ios",
			Method:     transport.Telnet,
		})
		if !assert.NoError(t, err) {
			return
		}

		out, err := s.Exec("show clock")
		assert.NoError(t, err)
		assert.Equal(t, "show clock\n12:00:00 UTC", out)

		got, err := m.GetSession("test-router")
		assert.NoError(t, err)
		assert.Equal(t, s, got)
	}()

	conn, err := l.Accept()
	require.NoError(t, err)
	defer conn.Close()

	r := bufio.NewReader(conn)

	conn.Write([]byte("Username:"))
	line, err := r.ReadString('\n')
	assert.NoError(t, err)
	assert.Equal(t, "admin\n", line)

	conn.Write([]byte("Password:"))
	line, err = r.ReadString('\n')
	assert.NoError(t, err)
	assert.Equal(t, "secret\n", line)

	conn.Write([]byte("router#"))

	line, err = r.ReadString('\n')
	assert.NoError(t, err)
	assert.Equal(t, "show clock\n", line)
	conn.Write([]byte("show clock\r\n12:00:00 UTC\r\nrouter#"))

	wgClient.Wait()
	assert.NoError(t, m.Shutdown())
}

func TestManager_UnknownMethod(t *testing.T) {
	m := telnetclient.New()
	_, err := m.Connect("x", schema.ConnectOptions{Method: schema.ConnectionMethod(99)})
	assert.Error(t, err)
}

func TestManager_GetSessionUnknown(t *testing.T) {
	m := telnetclient.New()
	_, err := m.GetSession("never-connected")
	assert.Error(t, err)
}

func TestManager_CustomProfile(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	port := l.Addr().(*net.TCPAddr).Port

	m := telnetclient.New()
	m.Profiles().Register("labgear", profile.Profile{
		UsernamePrompt: "account name:",
		PasswordPrompt: "passphrase:",
		PromptPattern:  `\$ $`,
	})

	wgClient := &sync.WaitGroup{}
	wgClient.Add(1)
	go func() {
		defer wgClient.Done()
		_, err := m.Connect("lab-1", schema.ConnectOptions{
			Host:       "127.0.0.1",
			Port:       port,
			Username:   "operator",
			Password:   "hunter2",
			DeviceType: "labgear",
			Method:     transport.Telnet,
		})
		assert.NoError(t, err)
	}()

	conn, err := l.Accept()
	require.NoError(t, err)
	defer conn.Close()

	r := bufio.NewReader(conn)

	conn.Write([]byte("account name:"))
	line, err := r.ReadString('\n')
	assert.NoError(t, err)
	assert.Equal(t, "operator\n", line)

	conn.Write([]byte("passphrase:"))
	line, err = r.ReadString('\n')
	assert.NoError(t, err)
	assert.Equal(t, "hunter2\n", line)

	conn.Write([]byte("lab-1$ "))

	wgClient.Wait()
	assert.NoError(t, m.Shutdown())
}
