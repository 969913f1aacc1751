package logsvc

import (
	"fmt"
	"io"
	"strings"

	glog "github.com/labstack/gommon/log"

	"github.com/trezcool/studyplanner/core"
)

// ConsoleLogger writes leveled logs to a writer only.
type ConsoleLogger struct {
	l *glog.Logger
}

var _ core.Logger = (*ConsoleLogger)(nil)

func NewConsoleLogger(prefix string, w io.Writer, debug bool) *ConsoleLogger {
	l := glog.New(prefix)
	l.SetOutput(w)
	l.SetHeader("${time_rfc3339} ${level} ${prefix}")
	if debug {
		l.SetLevel(glog.DEBUG)
	} else {
		l.SetLevel(glog.INFO)
	}
	return &ConsoleLogger{l: l}
}

func (c ConsoleLogger) format(msg string, args []interface{}) string {
	var sb strings.Builder
	sb.WriteString(msg)
	for _, arg := range args {
		switch a := arg.(type) {
		case core.LogUser:
			_, _ = fmt.Fprintf(&sb, " user=%s", string(a))
		case error:
			_, _ = fmt.Fprintf(&sb, " error=%q", a.Error())
		default:
			_, _ = fmt.Fprintf(&sb, " %+v", a)
		}
	}
	return sb.String()
}

func (c ConsoleLogger) Debug(msg string, args ...interface{}) { c.l.Debug(c.format(msg, args)) }

func (c ConsoleLogger) Info(msg string, args ...interface{}) { c.l.Info(c.format(msg, args)) }

func (c ConsoleLogger) Warn(msg string, args ...interface{}) { c.l.Warn(c.format(msg, args)) }

func (c ConsoleLogger) Error(msg string, args ...interface{}) { c.l.Error(c.format(msg, args)) }

func (c ConsoleLogger) Fatal(msg string, args ...interface{}) { c.l.Fatal(c.format(msg, args)) }
