package log

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockLogger struct {
	lines []string
}

func (l *mockLogger) Log(level Level, kvs ...interface{}) {
	builder := strings.Builder{}
	builder.WriteString(level.String())
	for i := 0; i+1 < len(kvs); i += 2 {
		builder.WriteString(fmt.Sprintf(" %v=%v", kvs[i], kvs[i+1]))
	}
	l.lines = append(l.lines, builder.String())
}

func TestWith(t *testing.T) {
	mock := &mockLogger{}
	logger := With(Logger(mock), "component", "client")

	logger.Log(LevelInfo, "msg", "started")

	assert.Equal(t, []string{"INFO component=client msg=started"}, mock.lines)
}

func TestWithStacks(t *testing.T) {
	mock := &mockLogger{}
	logger := With(Logger(mock), "component", "client")
	logger = With(logger, "destination", "direct:orders")

	logger.Log(LevelWarn, "msg", "slow exchange")

	assert.Equal(t, []string{"WARN component=client destination=direct:orders msg=slow exchange"}, mock.lines)
}

func TestWithOddPairGetsPadded(t *testing.T) {
	mock := &mockLogger{}
	logger := With(Logger(mock), "component")

	logger.Log(LevelInfo, "msg", "x")

	assert.Equal(t, []string{"INFO component= msg=x"}, mock.lines)
}

func TestWithNoKvsReturnsSame(t *testing.T) {
	mock := &mockLogger{}
	if got := With(mock); got != Logger(mock) {
		t.Fatal("expect With without kvs to return the logger untouched")
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelFatal, "FATAL"},
		{Level(42), ""},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
