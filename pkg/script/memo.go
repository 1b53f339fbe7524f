package script

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/memo"
	"github.com/goliatone/go-formstate/pkg/model"
)

// Replay is the list of block and widget declarations captured while a
// memoized body ran. Applying it re-declares them in order.
type Replay struct {
	ops []replayOp
}

// Len returns the number of recorded declarations.
func (r Replay) Len() int {
	return len(r.ops)
}

type replayOp struct {
	parent  int
	block   *model.Block
	label   string
	options []TimeInputOption
}

// recorder captures declarations made on containers it knows about. The
// container the body was called with has index 0; containers opened inside
// the body are numbered in creation order.
type recorder struct {
	index map[*Container]int
	ops   []replayOp
}

func newRecorder(root *Container) *recorder {
	return &recorder{index: map[*Container]int{root: 0}}
}

// Memo runs fn once per key of cache. On later calls fn is not run again:
// the block and widget declarations it made are replayed into c under a
// memoized context instead, so widgets keep their identity and state and
// still carry the cached widget warning. Other effects of fn are not
// repeated.
func (c *Container) Memo(ctx context.Context, cache *memo.Cache[Replay], key string, fn Func) error {
	if cache == nil {
		return fn(ctx, c)
	}
	ran := false
	replay, err := cache.Do(ctx, key, func(mctx context.Context) (Replay, error) {
		ran = true
		rec := newRecorder(c)
		c.run.recorders = append(c.run.recorders, rec)
		defer c.run.popRecorder(rec)
		if err := fn(mctx, c); err != nil {
			return Replay{}, err
		}
		return Replay{ops: rec.ops}, nil
	})
	if err != nil || ran {
		return err
	}
	return replay.apply(memo.Enter(ctx), c)
}

func (r Replay) apply(ctx context.Context, root *Container) error {
	containers := []*Container{root}
	for _, op := range r.ops {
		parent := containers[op.parent]
		if op.block != nil {
			containers = append(containers, parent.addBlock(*op.block))
			continue
		}
		if _, err := parent.TimeInput(ctx, op.label, op.options...); err != nil {
			return err
		}
	}
	return nil
}

func (r *Run) popRecorder(rec *recorder) {
	for i := len(r.recorders) - 1; i >= 0; i-- {
		if r.recorders[i] == rec {
			r.recorders = append(r.recorders[:i], r.recorders[i+1:]...)
			return
		}
	}
}

func (r *Run) recordBlock(parent, child *Container, block model.Block) {
	for _, rec := range r.recorders {
		idx, ok := rec.index[parent]
		if !ok {
			continue
		}
		b := block
		rec.ops = append(rec.ops, replayOp{parent: idx, block: &b})
		rec.index[child] = len(rec.index)
	}
}

func (r *Run) recordTimeInput(parent *Container, label string, options []TimeInputOption) {
	for _, rec := range r.recorders {
		idx, ok := rec.index[parent]
		if !ok {
			continue
		}
		rec.ops = append(rec.ops, replayOp{
			parent:  idx,
			label:   label,
			options: append([]TimeInputOption(nil), options...),
		})
	}
}
