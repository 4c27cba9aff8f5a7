package zerolog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courierkit/courier/log"
)

func TestLog(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(zerolog.New(buf))

	logger.Log(log.LevelInfo, "msg", "exchange completed", "destination", "queue:orders", "attempt", 3)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "exchange completed", entry["msg"])
	assert.Equal(t, "queue:orders", entry["destination"])
	assert.Equal(t, float64(3), entry["attempt"])
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level log.Level
		want  string
	}{
		{log.LevelDebug, "debug"},
		{log.LevelInfo, "info"},
		{log.LevelWarn, "warn"},
		{log.LevelError, "error"},
		{log.LevelFatal, "fatal"},
	}
	for _, tt := range tests {
		buf := &bytes.Buffer{}
		logger := New(zerolog.New(buf))

		logger.Log(tt.level, "msg", "x")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, tt.want, entry["level"])
	}
}

func TestLogOddKvs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(zerolog.New(buf))

	logger.Log(log.LevelInfo, "orphan")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "", entry["orphan"])
}

func TestLogNonStringKey(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(zerolog.New(buf))

	logger.Log(log.LevelInfo, 42, "answer")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "answer", entry["42"])
}

func TestNewWriterStampsTime(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWriter(buf)

	logger.Log(log.LevelInfo, "msg", "x")

	assert.True(t, strings.Contains(buf.String(), `"time":`), buf.String())
}
