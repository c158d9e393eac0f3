package pipeline

import (
	"context"
	"errors"
	"sync"
)

// forEach runs work over everything feed sends, on threads goroutines, and
// hands results to visit from a single collector goroutine. feed gets the
// run's context; its send returns false once the run is stopping.
func forEach[J, O any](
	ctx context.Context,
	threads int,
	feed func(ctx context.Context, send func(J) bool) error,
	work func(context.Context, J) O,
	visit func(O) error,
) error {
	if threads < 1 {
		threads = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan J, threads*2)
	results := make(chan O, threads*2)

	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-jobs:
					if !ok {
						return
					}
					o := work(ctx, j)
					select {
					case results <- o:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	var (
		verr error
		cwg  sync.WaitGroup
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for o := range results {
			if verr != nil {
				continue
			}
			if err := visit(o); err != nil {
				verr = err
				cancel()
			}
		}
	}()

	ferr := feed(ctx, func(j J) bool {
		select {
		case <-ctx.Done():
			return false
		case jobs <- j:
			return true
		}
	})

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	switch {
	case verr != nil:
		return verr
	case ferr != nil && !errors.Is(ferr, context.Canceled):
		return ferr
	}
	return ctx.Err()
}
