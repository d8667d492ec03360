package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/courseprogress-backend/internal/data/aggregates"
	"github.com/yungbote/courseprogress-backend/internal/platform/dbctx"
)

// InjectedTxRunner is a TxRunner for aggregate tests that run against
// in-memory fakes. It counts begin/commit/rollback and can inject failures.
// OnBegin/OnRollback let a fake store snapshot itself and restore on rollback.
type InjectedTxRunner struct {
	mu sync.Mutex

	FailBegin      error
	FailBeforeBody error
	FailCommit     error

	OnBegin    func()
	OnRollback func()

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin := r.FailBegin
	failBeforeBody := r.FailBeforeBody
	failCommit := r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	if r.OnBegin != nil {
		r.OnBegin()
	}
	if failBeforeBody != nil {
		r.rollback()
		return failBeforeBody
	}
	if fn != nil {
		if err := fn(dbctx.Context{Ctx: ctx}); err != nil {
			r.rollback()
			return err
		}
	}
	if failCommit != nil {
		r.rollback()
		return failCommit
	}
	r.mu.Lock()
	r.CommitCalls++
	r.mu.Unlock()
	return nil
}

func (r *InjectedTxRunner) rollback() {
	r.mu.Lock()
	r.RollbackCalls++
	r.mu.Unlock()
	if r.OnRollback != nil {
		r.OnRollback()
	}
}
