package core

// Logger is any service that can log messages.
// args may contain errors, map[string]interface{} extras and the request's LogUser.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// LogUser identifies the user (ID) a log entry relates to.
type LogUser string
