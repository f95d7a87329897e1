package tracing

import (
	"context"
	"testing"
	"time"
)

func BenchmarkGenerateRequestID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = GenerateRequestID()
	}
}

func BenchmarkGenerateTraceID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = GenerateTraceID()
	}
}

func BenchmarkEnsureRequestID(b *testing.B) {
	ctx := context.Background()
	for i := 0; i < b.N; i++ {
		_, _ = EnsureRequestID(ctx, "0f8fad5b-d9cb-469f-a165-70867728950e")
	}
}

func BenchmarkGetRequestInfo(b *testing.B) {
	ctx := WithRequestID(context.Background(), "req")
	ctx = WithTraceID(ctx, "trace")
	ctx = WithSpanID(ctx, "span")
	ctx = WithStartTime(ctx, time.Now())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GetRequestInfo(ctx)
	}
}
