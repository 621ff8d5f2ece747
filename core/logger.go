package core

// Logger is the application-wide logging contract.
// Implementations may ship errors to an external service; `args` may carry
// an error, extra context values or a user.User to attribute the event to.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
