package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	paymentservice "github.com/porchfin/lendcore/internal/service/paymentservice"
	"github.com/stretchr/testify/assert"
)

type fakeProcessor struct {
	calls atomic.Int32
	err   error
}

func (f *fakeProcessor) ProcessDuePayments(context.Context) (*paymentservice.ProcessResult, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &paymentservice.ProcessResult{}, nil
}

func TestScheduler_RunsImmediatelyAndOnTicks(t *testing.T) {
	processor := &fakeProcessor{}
	sched := New(processor, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return processor.calls.Load() >= 3
	}, time.Second, 5*time.Millisecond, "expected the startup run plus ticks")

	cancel()
	<-done
}

func TestScheduler_BusyRunsAreNotFatal(t *testing.T) {
	processor := &fakeProcessor{err: paymentservice.ErrProcessorBusy}
	sched := New(processor, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return processor.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
