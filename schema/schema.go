package schema

type ConnectionMethod int

// DeviceType keys the login profile table. It is an open set: callers may
// register their own profiles under new keys.
type DeviceType string

type ConnectOptions struct {
	Host       string
	Port       int
	Username   string
	Password   string
	Cert       string
	DeviceType DeviceType
	Method     ConnectionMethod
}

type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warning(args ...interface{})
	Warningf(format string, args ...interface{})
	Critical(args ...interface{})
	Criticalf(format string, args ...interface{})
}
