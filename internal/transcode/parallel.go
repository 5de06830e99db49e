package transcode

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// job is an entry being transformed off the writer goroutine. done is
// closed once err and the entry's output fields are final.
type job struct {
	entry *entry
	err   error
	done  chan struct{}
}

// runParallel reads entries in order, transforms them on separate
// goroutines and hands them to a single writer that emits them in stored
// order. At most opt.Jobs entries are queued ahead of the writer.
//
// Read and transform failures travel with their job, so only the writer
// returns them and the error reported is always that of the first failing
// entry in stored order, as in the sequential path.
func (t *transcoder) runParallel(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	pending := make(chan *job, t.opt.Jobs)

	g.Go(func() error {
		defer close(pending)
		for i := 0; i < t.src.Len(); i++ {
			j := &job{done: make(chan struct{})}
			e, err := t.read(i)
			if err != nil {
				j.err = err
				close(j.done)
			} else {
				j.entry = e
				g.Go(func() error {
					defer close(j.done)
					j.err = j.entry.transform(t.p)
					return nil
				})
			}
			select {
			case pending <- j:
			case <-ctx.Done():
				return ctx.Err()
			}
			if err != nil {
				return nil
			}
		}
		return nil
	})

	g.Go(func() error {
		for j := range pending {
			select {
			case <-j.done:
			case <-ctx.Done():
				return ctx.Err()
			}
			if j.err != nil {
				return j.err
			}
			if err := t.emit(j.entry); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}
