// Package job compiles high-level maintenance plans against a catalog
// snapshot into an action tree, without touching the Store (spec §4.6).
// Grounded on the prototype's job.rs (MovePartition's three-node shape)
// and on the abandoned operation.rs/transformer.rs sketches, which
// independently confirm the same remove-target / move / remove-source
// decomposition.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package job

import (
	"fmt"

	"github.com/coldlake/coldlake/catalog"
	"github.com/coldlake/coldlake/cmn"
	"github.com/coldlake/coldlake/cmn/cos"
	"github.com/coldlake/coldlake/store"
	"github.com/coldlake/coldlake/xact"
	"github.com/coldlake/coldlake/xact/xdag"
)

// Job compiles, against a catalog snapshot, to an action tree.
type Job interface {
	Compile(state catalog.State) (*xdag.Tree, error)
}

// ReloadDataset emits a single node containing one ReloadDataset action.
type ReloadDataset struct {
	Path cmn.DatasetPath
}

func (j *ReloadDataset) Compile(catalog.State) (*xdag.Tree, error) {
	return xdag.Single(&xact.ReloadDataset{Path: j.Path}), nil
}

// MovePartition moves every object from Source to Target, overwriting
// any objects Target already holds, then removes the now-empty Source
// directory (spec §4.6). Three chained nodes: object stores support
// copy/rename of files but not atomic directory moves.
type MovePartition struct {
	Source cmn.PartitionPath
	Target cmn.PartitionPath
}

func (j *MovePartition) Compile(state catalog.State) (*xdag.Tree, error) {
	tree := xdag.New()

	removeTarget := tree.AddNode(nil)
	if state.ContainsPartition(j.Target) {
		targetObjects, err := state.ListObjects(j.Target)
		if err != nil {
			return nil, err
		}
		for _, obj := range targetObjects {
			tree.AddAction(removeTarget, &xact.RemoveObject{Path: obj})
		}
	}

	move := tree.AddNode([]xdag.Key{removeTarget})
	sourceObjects, err := state.ListObjects(j.Source)
	if err != nil {
		return nil, err
	}
	for _, obj := range sourceObjects {
		target := obj.WithPartition(j.Target.Partition)
		tree.AddAction(move, &xact.Move{Source: obj, Target: target})
	}

	removeSource := tree.AddNode([]xdag.Key{move})
	tree.AddAction(removeSource, &xact.RemovePartition{Path: j.Source})

	return tree, nil
}

// RebalanceObjects merges P's objects into floor(size(P) / TargetSize)
// files once P grows past 1.5x TargetSize (spec §4.6). Below that threshold it
// compiles to an empty tree: a no-op, to avoid churn from repeated small
// rebalances. Removing the inputs depends on the rebalance node
// completing first (spec §9).
type RebalanceObjects struct {
	Path       cmn.PartitionPath
	TargetSize cos.Bytes
}

func (j *RebalanceObjects) Compile(state catalog.State) (*xdag.Tree, error) {
	part, err := state.GetPartition(j.Path)
	if err != nil {
		return nil, err
	}

	partitionSize := part.Size()
	hysteresis := cos.Bytes(float64(j.TargetSize) * 1.5)
	if partitionSize < hysteresis {
		return xdag.New(), nil
	}

	targetCount := int64(partitionSize) / int64(j.TargetSize)
	if targetCount < 1 {
		targetCount = 1
	}

	inputs, err := state.ListObjects(j.Path)
	if err != nil {
		return nil, err
	}

	format := inputs[0].Key.InferFormat()
	outputExt, err := formatExtension(format, inputs[0])
	if err != nil {
		return nil, err
	}

	// Output i is named i.F, F the input format's extension (spec §4.4).
	outputs := make([]cmn.ObjectPath, targetCount)
	for i := range outputs {
		name := fmt.Sprintf("%d.%s", i, outputExt)
		outputs[i] = j.Path.ObjectPath(cmn.NewObjectKey(name))
	}

	target, err := j.rebalanceTarget(state, format, inputs, targetCount)
	if err != nil {
		return nil, err
	}

	tree := xdag.New()

	rebalanceNode := tree.AddNode(nil)
	tree.AddAction(rebalanceNode, &xact.Rebalance{Inputs: inputs, Outputs: outputs, Target: target})

	// Removing inputs depends on the rebalance node: outputs and inputs
	// could in principle collide on name, and input removal must never
	// race ahead of the write it's meant to follow (spec §9 "Rebalance
	// output collision" open question).
	removeInputs := tree.AddNode([]xdag.Key{rebalanceNode})
	for _, in := range inputs {
		tree.AddAction(removeInputs, &xact.RemoveObject{Path: in})
	}

	return tree, nil
}

func formatExtension(format cmn.Format, sample cmn.ObjectPath) (string, error) {
	switch format {
	case cmn.FormatParquet:
		return "parquet", nil
	case cmn.FormatCSV:
		return "csv", nil
	default:
		return "", &store.ErrCannotInferFormat{Path: sample}
	}
}

// rebalanceTarget computes the per-output budget: for Parquet, total rows
// across inputs (already known from the catalog's metadata) divided by
// the output count; for CSV, the byte target itself (the 0.9x ceiling is
// applied by the Store/codec layer, since row counts aren't known for CSV
// without a full scan — spec §4.6, §9).
func (j *RebalanceObjects) rebalanceTarget(
	state catalog.State, format cmn.Format, inputs []cmn.ObjectPath, targetCount int64,
) (store.RebalanceTarget, error) {
	if format == cmn.FormatCSV {
		return store.TargetSize(j.TargetSize), nil
	}

	var totalRows int64
	for _, in := range inputs {
		obj, err := state.GetObject(in)
		if err != nil {
			return store.RebalanceTarget{}, err
		}
		rows, ok := obj.NumRows()
		if !ok {
			return store.RebalanceTarget{}, &store.ErrCannotCombineFormatAndTarget{Format: format, Target: "rows"}
		}
		totalRows += rows
	}
	return store.TargetRows(totalRows / targetCount), nil
}
