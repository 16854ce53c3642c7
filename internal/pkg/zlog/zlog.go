// Package zlog adapts zerolog to the kratos log.Logger interface.
package zlog

import (
	"fmt"
	"io"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/rs/zerolog"
)

var _ log.Logger = (*Logger)(nil)

// Logger writes kratos key/value records as zerolog events.
type Logger struct {
	zl zerolog.Logger
}

// New returns a Logger writing JSON lines to w.
func New(w io.Writer) *Logger {
	return &Logger{zl: zerolog.New(w)}
}

// NewConsole returns a Logger writing human readable lines to w.
func NewConsole(w io.Writer) *Logger {
	return &Logger{zl: zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true})}
}

// Log implements log.Logger. An odd trailing key is logged with an empty value.
func (l *Logger) Log(level log.Level, keyvals ...interface{}) error {
	var event *zerolog.Event
	switch level {
	case log.LevelDebug:
		event = l.zl.Debug()
	case log.LevelInfo:
		event = l.zl.Info()
	case log.LevelWarn:
		event = l.zl.Warn()
	case log.LevelError:
		event = l.zl.Error()
	case log.LevelFatal:
		// zerolog's Fatal exits the process; kratos decides that itself
		event = l.zl.WithLevel(zerolog.FatalLevel)
	default:
		event = l.zl.Info()
	}

	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "")
	}
	for i := 0; i < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprint(keyvals[i])
		}
		event = event.Interface(key, keyvals[i+1])
	}
	event.Send()
	return nil
}
