package zerolog

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/courierkit/courier/log"
)

// Logger routes entries through a zerolog.Logger.
type Logger struct {
	zl zerolog.Logger
}

var _ log.Logger = (*Logger)(nil)

// New wraps an existing zerolog logger.
func New(zl zerolog.Logger) *Logger {
	return &Logger{zl: zl}
}

// NewWriter builds a timestamping zerolog logger writing to w.
func NewWriter(w io.Writer) *Logger {
	return &Logger{zl: zerolog.New(w).With().Timestamp().Logger()}
}

func (l *Logger) Log(level log.Level, kvs ...interface{}) {
	if len(kvs)&1 != 0 {
		kvs = append(kvs, "")
	}
	ev := l.event(level)
	for i := 0; i < len(kvs); i += 2 {
		key, ok := kvs[i].(string)
		if !ok {
			key = fmt.Sprint(kvs[i])
		}
		ev = ev.Interface(key, kvs[i+1])
	}
	ev.Send()
}

func (l *Logger) event(level log.Level) *zerolog.Event {
	switch level {
	case log.LevelDebug:
		return l.zl.Debug()
	case log.LevelWarn:
		return l.zl.Warn()
	case log.LevelError:
		return l.zl.Error()
	case log.LevelFatal:
		// WithLevel keeps zerolog from exiting the process; the caller
		// owns termination.
		return l.zl.WithLevel(zerolog.FatalLevel)
	default:
		return l.zl.Info()
	}
}
