package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogging(t *testing.T) {
	var buf bytes.Buffer

	config := Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "test-service",
		Version:     "1.0.0",
		Environment: "test",
	}

	InitLoggerWithWriter(config, &buf)

	Info("test message", "key", "value", "number", 42)

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))

	assert.Equal(t, "test-service", logEntry["service"])
	assert.Equal(t, "1.0.0", logEntry["version"])
	assert.Equal(t, "test", logEntry["environment"])
	assert.Equal(t, "test message", logEntry["msg"])
	assert.Equal(t, "INFO", logEntry["level"])
	assert.Equal(t, "value", logEntry["key"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	config := DefaultConfig()
	config.Level = "warn"
	config.Format = "json"
	InitLoggerWithWriter(config, &buf)

	Debug("should be dropped")
	Info("should be dropped")
	Warn("should appear")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "should appear")
}

func TestFromContext_RequestID(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.Format = "json"
	InitLoggerWithWriter(config, &buf)

	id := GenerateRequestID()
	ctx := WithRequestID(context.Background(), id)

	got, ok := RequestIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)

	FromContext(ctx).Info("traced")
	assert.Contains(t, buf.String(), id)
}

func TestFromContext_NoRequestID(t *testing.T) {
	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestLogLevelParsing(t *testing.T) {
	assert.Equal(t, "DEBUG", Config{Level: "debug"}.LogLevel().String())
	assert.Equal(t, "WARN", Config{Level: "WARNING"}.LogLevel().String())
	assert.Equal(t, "INFO", Config{Level: "bogus"}.LogLevel().String())
}
