package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/courseprogress-backend/internal/platform/dbctx"
)

func TestInjectedTxRunner_CommitsOnSuccess(t *testing.T) {
	r := &InjectedTxRunner{}
	called := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !called {
		t.Fatalf("expected callback to run")
	}
	if r.BeginCalls != 1 || r.CommitCalls != 1 || r.RollbackCalls != 0 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunner_RollbackOnBodyError(t *testing.T) {
	restored := 0
	r := &InjectedTxRunner{OnRollback: func() { restored++ }}
	bodyErr := errors.New("boom")
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		return bodyErr
	})
	if !errors.Is(err, bodyErr) {
		t.Fatalf("expected body err, got %v", err)
	}
	if r.BeginCalls != 1 || r.CommitCalls != 0 || r.RollbackCalls != 1 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
	if restored != 1 {
		t.Fatalf("OnRollback calls: want=1 got=%d", restored)
	}
}

func TestInjectedTxRunner_FailCommitTriggersRollback(t *testing.T) {
	commitErr := errors.New("commit failed")
	began := 0
	r := &InjectedTxRunner{FailCommit: commitErr, OnBegin: func() { began++ }}
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		return nil
	})
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected commit err, got %v", err)
	}
	if r.BeginCalls != 1 || r.CommitCalls != 0 || r.RollbackCalls != 1 || began != 1 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d onBegin=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls, began)
	}
}

func TestInjectedTxRunner_FailBeginSkipsBody(t *testing.T) {
	beginErr := errors.New("no connection")
	r := &InjectedTxRunner{FailBegin: beginErr}
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		t.Fatalf("body must not run")
		return nil
	})
	if !errors.Is(err, beginErr) {
		t.Fatalf("expected begin err, got %v", err)
	}
}
