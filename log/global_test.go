package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func swapGlobal(t *testing.T) *mockLogger {
	t.Helper()
	mock := &mockLogger{}
	prev := GetLogger()
	prevLevel := minLevel
	SetLogger(mock)
	t.Cleanup(func() {
		SetLogger(prev)
		SetLevel(prevLevel)
	})
	return mock
}

func TestSetLogger(t *testing.T) {
	mock := swapGlobal(t)

	assert.Equal(t, Logger(mock), GetLogger())

	SetLogger(nil)
	assert.Equal(t, Logger(mock), GetLogger(), "nil must not replace the global logger")
}

func TestGlobalHelpers(t *testing.T) {
	mock := swapGlobal(t)

	Debug("a", "b")
	Debugf("n=%d", 1)
	Debugw("queue", "orders")
	Info("up")
	Infof("n=%d", 2)
	Infow("queue", "orders")
	Warn("slow")
	Warnf("n=%d", 3)
	Warnw("queue", "orders")
	Error("down")
	Errorf("n=%d", 4)
	Errorw("queue", "orders")

	assert.Equal(t, []string{
		"DEBUG msg=ab",
		"DEBUG msg=n=1",
		"DEBUG queue=orders",
		"INFO msg=up",
		"INFO msg=n=2",
		"INFO queue=orders",
		"WARN msg=slow",
		"WARN msg=n=3",
		"WARN queue=orders",
		"ERROR msg=down",
		"ERROR msg=n=4",
		"ERROR queue=orders",
	}, mock.lines)
}

func TestSetLevelFilters(t *testing.T) {
	mock := swapGlobal(t)

	SetLevel(LevelWarn)
	Debugw("msg", "dropped")
	Infow("msg", "dropped")
	Warnw("msg", "kept")
	Errorw("msg", "kept")

	assert.Equal(t, []string{"WARN msg=kept", "ERROR msg=kept"}, mock.lines)
}

func TestGlobalLogRoutesToCurrentLogger(t *testing.T) {
	mock := swapGlobal(t)

	Log(LevelInfo, "msg", "direct")

	assert.Equal(t, []string{"INFO msg=direct"}, mock.lines)
}
