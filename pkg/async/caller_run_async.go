package async

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
)

var (
	ErrHadBeClosed = errors.New("caller run handler was closed")
)

type CallerRunOptions struct {
	CoreWorkers      int
	MaxWorkers       int
	MaxWaitQueueSize int
	MaxIdleTimeout   time.Duration
}

func (opts *CallerRunOptions) normalize() {
	if opts.CoreWorkers <= 0 {
		opts.CoreWorkers = 1
	}
	if opts.MaxWorkers <= opts.CoreWorkers {
		opts.MaxWorkers = opts.CoreWorkers + 1
	}
	if opts.MaxIdleTimeout <= 0 {
		opts.MaxIdleTimeout = time.Minute
	}
}

// 核心worker吃不下时进池, 池也满了就由提交方自己跑
type callerRunHandler struct {
	pool         *ants.Pool // for fallback
	coreWorkerCh chan Task
	done         chan struct{}
	closed       atomic.Bool
	wg           sync.WaitGroup
}

func NewCallerRunHandler(options CallerRunOptions) AsyncHandler {
	options.normalize()

	pool, err := ants.NewPool(
		options.MaxWorkers-options.CoreWorkers,
		ants.WithPreAlloc(false),
		ants.WithNonblocking(true),
		ants.WithMaxBlockingTasks(options.MaxWaitQueueSize),
		ants.WithExpiryDuration(options.MaxIdleTimeout),
	)
	if err != nil {
		panic(fmt.Sprintf("create fallback pool failed, err=%v", err))
	}

	h := &callerRunHandler{
		pool:         pool,
		coreWorkerCh: make(chan Task, max(1, options.CoreWorkers-1)),
		done:         make(chan struct{}),
	}

	h.startCoreWorkers(options.CoreWorkers)

	return h
}

func (h *callerRunHandler) Submit(task Task) error {
	if h.closed.Load() {
		return ErrHadBeClosed
	}

	select {
	case h.coreWorkerCh <- task:
		return nil
	default:
	}

	err := h.pool.Submit(task)
	if err == ants.ErrPoolOverload {
		// call by self
		task()
		return nil
	}

	return err
}

func (h *callerRunHandler) Shutdown(ctx context.Context) error {
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}

	close(h.done)

	h.wg.Wait()

	close(h.coreWorkerCh)

	stopDone := make(chan struct{})
	go func() {
		defer close(stopDone)

		// 清掉积压任务再释放池
		for task := range h.coreWorkerCh {
			task()
		}

		h.pool.Release()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-stopDone:
		return nil
	}
}

func (h *callerRunHandler) startCoreWorkers(workers int) {
	h.wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()

			for {
				select {
				case <-h.done:
					return
				case task, ok := <-h.coreWorkerCh:
					if !ok {
						return
					}

					task()
				}
			}
		}()
	}
}
