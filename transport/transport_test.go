package transport_test

import (
	"net"
	"testing"
	"time"

	"github.com/paulo-hortelan/telnet-client/schema"
	"github.com/paulo-hortelan/telnet-client/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDial(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	conn, err := transport.Dial(schema.ConnectOptions{
		Host: "127.0.0.1",
		Port: l.Addr().(*net.TCPAddr).Port,
	})
	require.NoError(t, err)
	defer conn.Close()

	// the returned stream supports per-read deadlines
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(50*time.Millisecond)))
	buf := make([]byte, 1)
	_, err = conn.Read(buf)
	assert.Error(t, err)
}

func TestDial_Refused(t *testing.T) {
	// grab a port and close it so nothing is listening
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	_, err = transport.DialTimeout(schema.ConnectOptions{
		Host: "127.0.0.1",
		Port: port,
	}, time.Second)
	assert.Error(t, err)
}
