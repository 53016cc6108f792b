// internal/reqs/filter.go
//
// Filters over word sequences.
// Responsibilities:
//   - Lazy, restartable filtering of any iter.Seq of words.
//   - Sharded filtering of a materialized list across goroutines (errgroup),
//     keeping input order.

package reqs

import (
	"context"
	"iter"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle/apps/go-filter/internal/words"
)

// Filter lazily yields the words of seq that match r, in input order.
// The result can be ranged over again whenever seq can.
func (r *Requirement) Filter(seq iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for w := range seq {
			if r.Matches(w) && !yield(w) {
				return
			}
		}
	}
}

// FilterText filters a newline-delimited word list. Blank lines are skipped.
func (r *Requirement) FilterText(wordlist string) iter.Seq[string] {
	return r.Filter(words.Lines(wordlist))
}

// cancelCheckEvery is how many candidates a shard scans between context checks.
const cancelCheckEvery = 4096

// FilterParallel evaluates candidates in contiguous shards across workers and
// returns the matches in input order. workers <= 1 runs on the calling
// goroutine. It stops early with ctx.Err() when ctx is cancelled.
func (r *Requirement) FilterParallel(ctx context.Context, candidates []string, workers int) ([]string, error) {
	if workers <= 1 || len(candidates) < 2*workers {
		var out []string
		for i, w := range candidates {
			if i%cancelCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			if r.Matches(w) {
				out = append(out, w)
			}
		}
		return out, nil
	}

	shards := make([][]string, workers)
	size := (len(candidates) + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for i := range workers {
		lo := min(i*size, len(candidates))
		hi := min(lo+size, len(candidates))
		g.Go(func() error {
			for j, w := range candidates[lo:hi] {
				if j%cancelCheckEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if r.Matches(w) {
					shards[i] = append(shards[i], w)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(shards...), nil
}
