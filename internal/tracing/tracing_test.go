package tracing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRequestID(t *testing.T) {
	id1 := GenerateRequestID()
	id2 := GenerateRequestID()

	assert.NotEqual(t, id1, id2)
	_, err := uuid.Parse(id1)
	assert.NoError(t, err)
}

func TestGenerateTraceAndSpanID(t *testing.T) {
	traceID := GenerateTraceID()
	spanID := GenerateSpanID()

	assert.Len(t, traceID, 32)
	assert.Len(t, spanID, 16)
	assert.NotEqual(t, traceID, GenerateTraceID())

	for _, id := range []string{traceID, spanID} {
		assert.Empty(t, strings.Trim(id, "0123456789abcdef"), "expected only hex characters in %s", id)
	}
}

func TestValidRequestID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		expected bool
	}{
		{"uuid", "0f8fad5b-d9cb-469f-a165-70867728950e", true},
		{"short token", "abc123", true},
		{"empty", "", false},
		{"space", "abc 123", false},
		{"newline", "abc\n123", false},
		{"non ascii", "abcé", false},
		{"too long", strings.Repeat("a", 129), false},
		{"max length", strings.Repeat("a", 128), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidRequestID(tt.id))
		})
	}
}

func TestEnsureRequestID(t *testing.T) {
	ctx, id := EnsureRequestID(context.Background(), "client-id-1")
	assert.Equal(t, "client-id-1", id)
	assert.Equal(t, "client-id-1", GetRequestID(ctx))

	ctx, id = EnsureRequestID(context.Background(), "bad id\r\n")
	assert.NotEqual(t, "bad id\r\n", id)
	assert.Equal(t, id, GetRequestID(ctx))
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetSpanID(ctx))
	assert.True(t, GetStartTime(ctx).IsZero())
	assert.Zero(t, Duration(ctx))

	start := time.Now().Add(-50 * time.Millisecond)
	ctx = WithRequestID(ctx, "req")
	ctx = WithTraceID(ctx, "trace")
	ctx = WithSpanID(ctx, "span")
	ctx = WithStartTime(ctx, start)

	info := GetRequestInfo(ctx)
	require.NotNil(t, info)
	assert.Equal(t, "req", info.RequestID)
	assert.Equal(t, "trace", info.TraceID)
	assert.Equal(t, "span", info.SpanID)
	assert.Equal(t, start, info.StartTime)
	assert.GreaterOrEqual(t, Duration(ctx), 50*time.Millisecond)
}

func TestWrongValueTypesIgnored(t *testing.T) {
	ctx := context.WithValue(context.Background(), RequestIDKey, 42)
	ctx = context.WithValue(ctx, StartTimeKey, "yesterday")

	assert.Empty(t, GetRequestID(ctx))
	assert.True(t, GetStartTime(ctx).IsZero())
}
