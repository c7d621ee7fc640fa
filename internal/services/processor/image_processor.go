package processor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/phambaophuc/image-toolkit/internal/apperrors"
	"golang.org/x/sync/semaphore"
)

// ImageProcessor runs operations on a bounded pool so large images cannot starve the
// goroutines accepting requests.
type ImageProcessor struct {
	sem     *semaphore.Weighted
	timeout time.Duration
}

// NewImageProcessor allows at most workers concurrent transforms, each bounded by timeout.
// workers <= 0 means runtime.NumCPU(); timeout <= 0 disables the bound.
func NewImageProcessor(workers int, timeout time.Duration) *ImageProcessor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ImageProcessor{
		sem:     semaphore.NewWeighted(int64(workers)),
		timeout: timeout,
	}
}

type outcome struct {
	result *Result
	err    error
}

// Execute decodes input, applies op and encodes the result on a pool worker.
func (p *ImageProcessor) Execute(ctx context.Context, input []byte, op Operation) (*Result, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, contextError(string(op.Kind()), err)
	}

	done := make(chan outcome, 1)
	go func() {
		defer p.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: apperrors.Wrap(apperrors.KindInternal, string(op.Kind()),
					"transform panicked", fmt.Errorf("%v", r))}
			}
		}()

		result, err := run(input, op)
		done <- outcome{result: result, err: err}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-ctx.Done():
		// The worker keeps its slot until it finishes, so the pool bound still holds.
		return nil, contextError(string(op.Kind()), ctx.Err())
	}
}

func run(input []byte, op Operation) (*Result, error) {
	src, err := Decode(input)
	if err != nil {
		return nil, err
	}
	return op.Apply(src)
}

func contextError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.KindTimeout, op, "Image processing timed out", err)
	}
	return apperrors.Wrap(apperrors.KindInternal, op, "request cancelled", err)
}
