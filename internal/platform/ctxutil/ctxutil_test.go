package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRequestDataRoundTrip(t *testing.T) {
	if got := UserID(context.Background()); got != uuid.Nil {
		t.Fatalf("empty ctx user: want=nil got=%s", got)
	}
	uid := uuid.New()
	ctx := WithRequestData(context.Background(), &RequestData{UserID: uid})
	if got := UserID(ctx); got != uid {
		t.Fatalf("user: want=%s got=%s", uid, got)
	}
}

func TestTraceDataMissing(t *testing.T) {
	if td := GetTraceData(context.Background()); td != nil {
		t.Fatalf("trace data: want=nil got=%+v", td)
	}
}

func TestDefaultNilContext(t *testing.T) {
	if ctx := Default(nil); ctx == nil {
		t.Fatalf("Default(nil): want background got nil")
	}
	parent := WithTraceData(context.Background(), &TraceData{TraceID: "t"})
	if got := Default(parent); got != parent {
		t.Fatalf("Default(ctx): want passthrough")
	}
}
