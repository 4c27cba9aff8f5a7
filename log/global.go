package log

import (
	"fmt"
	"log"
	"os"
)

var (
	global   Logger = NewStdLogger(log.Writer())
	minLevel        = LevelDebug
)

// DefaultMsgKey is the key the sugar helpers file their message under.
var DefaultMsgKey = "msg"

// SetLogger replaces the process-wide logger. Call it before anything
// starts logging.
func SetLogger(l Logger) {
	if l != nil {
		global = l
	}
}

// GetLogger returns the process-wide logger.
func GetLogger() Logger {
	return global
}

// SetLevel drops entries below level.
func SetLevel(level Level) {
	minLevel = level
}

func Log(level Level, kvs ...interface{}) {
	if level < minLevel {
		return
	}
	global.Log(level, kvs...)
}

func Debug(v ...interface{}) {
	Log(LevelDebug, DefaultMsgKey, fmt.Sprint(v...))
}

func Debugf(format string, v ...interface{}) {
	Log(LevelDebug, DefaultMsgKey, fmt.Sprintf(format, v...))
}

func Debugw(kvs ...interface{}) {
	Log(LevelDebug, kvs...)
}

func Info(v ...interface{}) {
	Log(LevelInfo, DefaultMsgKey, fmt.Sprint(v...))
}

func Infof(format string, v ...interface{}) {
	Log(LevelInfo, DefaultMsgKey, fmt.Sprintf(format, v...))
}

func Infow(kvs ...interface{}) {
	Log(LevelInfo, kvs...)
}

func Warn(v ...interface{}) {
	Log(LevelWarn, DefaultMsgKey, fmt.Sprint(v...))
}

func Warnf(format string, v ...interface{}) {
	Log(LevelWarn, DefaultMsgKey, fmt.Sprintf(format, v...))
}

func Warnw(kvs ...interface{}) {
	Log(LevelWarn, kvs...)
}

func Error(v ...interface{}) {
	Log(LevelError, DefaultMsgKey, fmt.Sprint(v...))
}

func Errorf(format string, v ...interface{}) {
	Log(LevelError, DefaultMsgKey, fmt.Sprintf(format, v...))
}

func Errorw(kvs ...interface{}) {
	Log(LevelError, kvs...)
}

func Fatal(v ...interface{}) {
	Log(LevelFatal, DefaultMsgKey, fmt.Sprint(v...))
	os.Exit(1)
}

func Fatalf(format string, v ...interface{}) {
	Log(LevelFatal, DefaultMsgKey, fmt.Sprintf(format, v...))
	os.Exit(1)
}

func Fatalw(kvs ...interface{}) {
	Log(LevelFatal, kvs...)
	os.Exit(1)
}
