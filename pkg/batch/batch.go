// Package batch runs independent operations with best-effort semantics.
//
// Items are processed in order. A failing item is recorded and the run goes
// on; nothing already applied is rolled back.
package batch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Op applies one item. It returns false with a nil error when the item had
// nothing to act on (for example, the record no longer exists).
type Op[T any] func(ctx context.Context, item T) (bool, error)

// Failure is an item whose operation returned an error.
type Failure[T any] struct {
	Item T
	Err  error
}

func (f Failure[T]) Error() string {
	return fmt.Sprintf("%v: %v", f.Item, f.Err)
}

// Result summarizes a run.
type Result[T any] struct {
	Requested int
	Succeeded int
	Skipped   []T // op returned false
	Failed    []Failure[T]
}

// Complete reports whether every item succeeded.
func (r Result[T]) Complete() bool {
	return r.Succeeded == r.Requested
}

// Run applies op to every item in order and never stops early. Errors are
// logged and recorded in the result, not returned.
func Run[T any](ctx context.Context, name string, items []T, op Op[T]) Result[T] {
	res := Result[T]{Requested: len(items)}

	for _, item := range items {
		ok, err := op(ctx, item)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("batch", name).Str("item", fmt.Sprint(item)).Msg("batch item failed")
			res.Failed = append(res.Failed, Failure[T]{Item: item, Err: err})
		case !ok:
			res.Skipped = append(res.Skipped, item)
		default:
			res.Succeeded++
		}
	}

	log.Debug().Str("batch", name).
		Int("requested", res.Requested).Int("succeeded", res.Succeeded).
		Int("skipped", len(res.Skipped)).Int("failed", len(res.Failed)).
		Msg("batch finished")
	return res
}

// DeleteResult is the outcome of DeleteMany. Succeeded is the number of
// records actually removed.
type DeleteResult = Result[int64]

// DeleteMany deletes ids one by one. An id that does not exist or whose
// delete fails is simply not counted.
func DeleteMany(ctx context.Context, ids []int64, del Op[int64]) DeleteResult {
	return Run(ctx, "delete_many", ids, del)
}
