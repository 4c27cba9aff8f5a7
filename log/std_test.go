package log

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStdLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewStdLogger(buf)

	logger.Log(LevelInfo, "msg", "queue ready", "queue", "orders")

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "level=INFO ts="), line)
	assert.Contains(t, line, " msg=queue ready")
	assert.Contains(t, line, " queue=orders")
	assert.True(t, strings.HasSuffix(line, "\n"), line)
}

func TestStdLoggerOddKvs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewStdLogger(buf)

	logger.Log(LevelDebug, "singular")

	assert.Contains(t, buf.String(), " singular=\n")
}

func TestStdLoggerNoKvs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewStdLogger(buf)

	logger.Log(LevelError)

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "level=ERROR ts="), line)
	assert.True(t, strings.HasSuffix(line, "\n"), line)
}

func TestStdLoggerConcurrentLinesStayWhole(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewStdLogger(buf)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Log(LevelInfo, "msg", "hit")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 16)
	for _, line := range lines {
		assert.Contains(t, line, "msg=hit")
	}
}
