package testutil

import (
	"testing"
	"time"
)

func TestHooksRecorder_CapturesSignals(t *testing.T) {
	h := &HooksRecorder{}
	if got := h.LastStatus(); got != "" {
		t.Fatalf("empty recorder status: want=\"\" got=%q", got)
	}
	h.ObserveOperation("Learning.Completion.CompleteContent", "success", 10*time.Millisecond)
	h.IncConflict("Learning.Completion.CompleteContent")
	h.IncRetry("Learning.Completion.CompleteContent")

	if len(h.Operations) != 1 {
		t.Fatalf("operations: want=1 got=%d", len(h.Operations))
	}
	if h.LastStatus() != "success" {
		t.Fatalf("last status: want=success got=%s", h.LastStatus())
	}
	if len(h.Conflicts) != 1 || len(h.Retries) != 1 {
		t.Fatalf("counters: conflicts=%v retries=%v", h.Conflicts, h.Retries)
	}
}
