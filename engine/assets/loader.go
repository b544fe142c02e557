package assets

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Park52/webgl-lab/common"
)

// DecodeFunc turns a path into texture pixels. DecodeFile is the default.
type DecodeFunc func(path string) (*common.TextureStagingData, error)

// loader is the implementation of the Loader interface.
type loader struct {
	workers int
	idle    time.Duration
	decode  DecodeFunc

	taskID atomic.Int64
}

// Loader decodes textures in parallel on a bounded pool of goroutines. Each call gets its own
// pool sized to the batch, stopped once every task of the batch has returned.
type Loader interface {
	// LoadTextures decodes every path concurrently and waits for all of them.
	// Results are returned in input order. When several paths fail, the error of the
	// earliest failing path is returned. Cancelling ctx stops the wait, not the decoders.
	//
	// Parameters:
	//   - ctx: bounds the wait
	//   - paths: the image files to decode
	//
	// Returns:
	//   - []*common.TextureStagingData: one texture per path, in order
	//   - error: the first decode error or ctx.Err()
	LoadTextures(ctx context.Context, paths ...string) ([]*common.TextureStagingData, error)

	// LoadTexture decodes a single path on the pool.
	LoadTexture(ctx context.Context, path string) (*common.TextureStagingData, error)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with all specified options applied.
//
// Parameters:
//   - options: variadic list of LoaderBuilderOption functions to configure the loader
//
// Returns:
//   - Loader: a ready-to-use loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		workers: runtime.NumCPU(),
		idle:    time.Second,
		decode:  DecodeFile,
	}
	for _, opt := range options {
		opt(l)
	}
	l.workers = max(l.workers, 1)
	return l
}

func (l *loader) LoadTextures(ctx context.Context, paths ...string) ([]*common.TextureStagingData, error) {
	results := make([]*common.TextureStagingData, len(paths))
	errs := make([]error, len(paths))

	if len(paths) == 0 {
		return results, nil
	}

	// One pool per batch, so nothing keeps running between texture reloads.
	pool := worker.NewDynamicWorkerPool(min(l.workers, len(paths)), len(paths), l.idle)

	// The WaitGroup is the batch barrier; the pool has no per-batch wait.
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      int(l.taskID.Add(1)),
			Payload: path,
			Do: func() (any, error) {
				defer wg.Done()
				start := time.Now()
				tex, err := l.decode(path)
				results[i], errs[i] = tex, err
				if err == nil && tex != nil {
					common.Logger().Info("assets: texture loaded",
						"path", path,
						"width", tex.Width,
						"height", tex.Height,
						"elapsed", time.Since(start),
					)
				}
				return tex, err
			},
		})
	}

	// Stop only after the last task returns so a cancelled ctx never kills a decode midway.
	done := make(chan struct{})
	go func() {
		wg.Wait()
		pool.Stop()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (l *loader) LoadTexture(ctx context.Context, path string) (*common.TextureStagingData, error) {
	texs, err := l.LoadTextures(ctx, path)
	if err != nil {
		return nil, err
	}
	return texs[0], nil
}
