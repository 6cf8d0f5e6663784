// Package runtime drives an action tree against a Store, threading a
// single catalog snapshot through each action and recording per-action
// outcomes (spec §4.7). Grounded on the prototype's runtime.rs Runtime
// and its inline duplicate in main.rs.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package runtime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coldlake/coldlake/catalog"
	"github.com/coldlake/coldlake/cmn/nlog"
	"github.com/coldlake/coldlake/stats"
	"github.com/coldlake/coldlake/store"
	"github.com/coldlake/coldlake/xact"
	"github.com/coldlake/coldlake/xact/xdag"
)

// Failure pairs an action key with the error it produced.
type Failure struct {
	Key   string
	Error error
}

// Execution is the outcome of driving one action tree: the final State
// (best-effort if a batch failed), the keys of actions that succeeded in
// order, and any failures from the batch that stopped execution.
type Execution struct {
	State  catalog.State
	Passed []string
	Failed []Failure
}

// HasErrors reports whether any action failed.
func (e Execution) HasErrors() bool { return len(e.Failed) > 0 }

func (e Execution) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "passed: %v\n", e.Passed)
	fmt.Fprintf(&b, "failed: %d\n", len(e.Failed))
	for _, f := range e.Failed {
		fmt.Fprintf(&b, "  %s: %v\n", f.Key, f.Error)
	}
	return b.String()
}

// Runtime drives an xdag.Tree over a Store (spec §4.7).
type Runtime struct {
	store   store.Store
	tracker *stats.Tracker
}

func New(st store.Store) *Runtime {
	return &Runtime{store: st}
}

// WithStats attaches a metrics tracker; batches and actions are recorded
// against it as Execute runs.
func (r *Runtime) WithStats(t *stats.Tracker) *Runtime {
	r.tracker = t
	return r
}

// Execute runs tree to completion or to the first batch containing an
// error: on error the batch still runs every action to completion, so the
// operator sees every concurrent failure in one report, but no further
// batch starts (spec §4.7 rationale).
func (r *Runtime) Execute(ctx context.Context, initial catalog.State, tree *xdag.Tree) Execution {
	var passed []string
	var failed []Failure

	current := initial
	completed := xdag.NewSet()

	for completed.Len() < tree.Size() {
		batchStart := time.Now()
		errorsThisBatch := 0

		for _, batch := range tree.NextBatch(completed) {
			for _, action := range batch.Actions {
				newState, err := action.Execute(ctx, r.store, current)
				if err != nil {
					errorsThisBatch++
					failed = append(failed, Failure{Key: action.Key(), Error: err})
					nlog.Warningf("action %s failed: %v", action.Key(), err)
					r.record(false)
					continue
				}
				passed = append(passed, action.Key())
				r.recordRebalance(action, newState)
				current = newState
				r.record(true)
			}
			completed.Add(batch.Key)
		}

		if r.tracker != nil {
			r.tracker.ObserveBatch(time.Since(batchStart))
		}

		if errorsThisBatch > 0 {
			return Execution{State: current, Passed: passed, Failed: failed}
		}
	}

	return Execution{State: current, Passed: passed, Failed: failed}
}

func (r *Runtime) record(ok bool) {
	if r.tracker != nil {
		r.tracker.RecordAction(ok)
	}
}

// recordRebalance adds the written byte total of a Rebalance action's
// outputs to the tracker, reading their freshly-inserted sizes from the
// state the action just produced.
func (r *Runtime) recordRebalance(action xact.Action, next catalog.State) {
	if r.tracker == nil {
		return
	}
	rebalance, ok := action.(*xact.Rebalance)
	if !ok {
		return
	}
	var total int64
	for _, out := range rebalance.Outputs {
		obj, err := next.GetObject(out)
		if err != nil {
			continue
		}
		total += int64(obj.Size)
	}
	r.tracker.AddRebalanceBytes(total)
}
