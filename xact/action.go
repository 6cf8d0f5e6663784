// Package xact defines the primitive Action contract and its six concrete
// actions (spec §4.4). Grounded on the prototype's action.rs: every action
// couples one Store side effect to one catalog State transition and
// returns the new State only once the Store effect has succeeded. The
// remove and move actions compute the new State first and perform the
// Store effect second; the reload actions and Rebalance build the new
// State from what the Store returns, so they call the Store first.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package xact

import (
	"context"
	"fmt"

	"github.com/coldlake/coldlake/catalog"
	"github.com/coldlake/coldlake/cmn"
	"github.com/coldlake/coldlake/cmn/debug"
	"github.com/coldlake/coldlake/cmn/nlog"
	"github.com/coldlake/coldlake/store"
)

// Action is a primitive, observable change to catalog + store (spec §4.4).
type Action interface {
	// Key is a human-readable identity used for logging and for the
	// pass/fail report the Runtime produces.
	Key() string

	// Execute performs the Store side effect and the catalog transition,
	// returning the resulting State. On failure the returned State is the
	// zero value and must not be used.
	Execute(ctx context.Context, st store.Store, state catalog.State) (catalog.State, error)
}

// ReloadDataset replaces the DatasetState at D with what the Store
// currently enumerates: every partition, and every object within it, read
// fresh (spec §4.4 table, invariant 4).
type ReloadDataset struct {
	Path cmn.DatasetPath
}

func (a *ReloadDataset) Key() string { return fmt.Sprintf("reload(%s)", a.Path) }

func (a *ReloadDataset) Execute(ctx context.Context, st store.Store, state catalog.State) (catalog.State, error) {
	partitions, err := st.ListPartitions(ctx, a.Path)
	if err != nil {
		return catalog.State{}, err
	}

	ds := catalog.EmptyDatasetState()
	for _, p := range partitions {
		partPath := a.Path.PartitionPath(p)
		partState, err := reloadPartitionState(ctx, st, partPath)
		if err != nil {
			return catalog.State{}, err
		}
		ds = ds.Insert(p, partState)
	}

	newState := state.InsertDataset(a.Path, ds)
	nlog.Infof("%s: reloaded %d partitions", a.Key(), len(partitions))
	return newState, nil
}

// ReloadPartition upserts the PartitionState at P with what the Store
// currently enumerates for it.
type ReloadPartition struct {
	Path cmn.PartitionPath
}

func (a *ReloadPartition) Key() string { return fmt.Sprintf("reload(%s)", a.Path) }

func (a *ReloadPartition) Execute(ctx context.Context, st store.Store, state catalog.State) (catalog.State, error) {
	partState, err := reloadPartitionState(ctx, st, a.Path)
	if err != nil {
		return catalog.State{}, err
	}

	newState, err := state.InsertPartition(a.Path, partState)
	if err != nil {
		return catalog.State{}, err
	}
	nlog.Infof("%s: reloaded %d objects", a.Key(), partState.Len())
	return newState, nil
}

func reloadPartitionState(ctx context.Context, st store.Store, path cmn.PartitionPath) (catalog.PartitionState, error) {
	keys, err := st.ListObjects(ctx, path)
	if err != nil {
		return catalog.PartitionState{}, err
	}

	objects := make(map[cmn.ObjectKey]catalog.ObjectState, len(keys))
	for _, key := range keys {
		objState, err := st.ReadObject(ctx, path.ObjectPath(key))
		if err != nil {
			return catalog.PartitionState{}, err
		}
		objects[key] = objState
	}
	return catalog.NewPartitionState(objects), nil
}

// RemovePartition deletes P's directory and removes it from the catalog.
type RemovePartition struct {
	Path cmn.PartitionPath
}

func (a *RemovePartition) Key() string { return fmt.Sprintf("rm(%s/)", a.Path) }

func (a *RemovePartition) Execute(ctx context.Context, st store.Store, state catalog.State) (catalog.State, error) {
	newState, err := state.RemovePartition(a.Path)
	if err != nil {
		return catalog.State{}, err
	}
	if err := st.RemovePartition(ctx, a.Path); err != nil {
		return catalog.State{}, err
	}
	return newState, nil
}

// RemoveObject deletes O's file and removes it from the catalog.
type RemoveObject struct {
	Path cmn.ObjectPath
}

func (a *RemoveObject) Key() string { return fmt.Sprintf("remove(%s)", a.Path) }

func (a *RemoveObject) Execute(ctx context.Context, st store.Store, state catalog.State) (catalog.State, error) {
	newState, err := state.RemoveObject(a.Path)
	if err != nil {
		return catalog.State{}, err
	}
	if err := st.RemoveObject(ctx, a.Path); err != nil {
		return catalog.State{}, err
	}
	return newState, nil
}

// Move renames src to tgt (creating tgt's partition directory if needed)
// and applies the same move to the catalog.
type Move struct {
	Source cmn.ObjectPath
	Target cmn.ObjectPath
}

func (a *Move) Key() string { return fmt.Sprintf("move(%s, %s)", a.Source, a.Target) }

func (a *Move) Execute(ctx context.Context, st store.Store, state catalog.State) (catalog.State, error) {
	newState, err := state.MoveObject(a.Source, a.Target)
	if err != nil {
		return catalog.State{}, err
	}
	if err := st.MoveObject(ctx, a.Source, a.Target); err != nil {
		return catalog.State{}, err
	}
	return newState, nil
}

// Rebalance merges Inputs into len(Outputs) output files via
// Store.RebalanceObjects and inserts each returned ObjectState at its
// output path (spec §4.4, §4.6).
type Rebalance struct {
	Inputs  []cmn.ObjectPath
	Outputs []cmn.ObjectPath
	Target  store.RebalanceTarget
}

func (a *Rebalance) Key() string {
	return fmt.Sprintf("rebalance(%d -> %d, %s)", len(a.Inputs), len(a.Outputs), a.Target)
}

func (a *Rebalance) Execute(ctx context.Context, st store.Store, state catalog.State) (catalog.State, error) {
	results, err := st.RebalanceObjects(ctx, a.Inputs, a.Outputs, a.Target)
	if err != nil {
		return catalog.State{}, err
	}
	debug.Assertf(len(results) == len(a.Outputs), "store returned %d object states for %d outputs", len(results), len(a.Outputs))

	newState := state
	for i, out := range a.Outputs {
		newState, err = newState.InsertObject(out, results[i])
		if err != nil {
			return catalog.State{}, err
		}
	}
	return newState, nil
}
