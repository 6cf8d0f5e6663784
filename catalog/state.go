package catalog

import (
	"fmt"

	"github.com/coldlake/coldlake/cmn"
)

// State is the catalog: the immutable mapping DatasetPath -> DatasetState
// (spec §3). Every mutating method returns a new State; the receiver is
// left valid and unchanged (invariant 3). Inner maps are shared by
// reference across snapshots except along the path actually touched by a
// given mutation.
type State struct {
	datasets map[cmn.DatasetPath]DatasetState
}

// New returns the empty catalog.
func New() State {
	return State{datasets: map[cmn.DatasetPath]DatasetState{}}
}

func (s State) getDataset(path cmn.DatasetPath) (DatasetState, error) {
	ds, ok := s.datasets[path]
	if !ok {
		return DatasetState{}, &ErrMissingDataset{Path: path}
	}
	return ds, nil
}

// ListPartitions lists every PartitionPath under a dataset; order unspecified.
func (s State) ListPartitions(path cmn.DatasetPath) ([]cmn.PartitionPath, error) {
	ds, err := s.getDataset(path)
	if err != nil {
		return nil, err
	}
	parts := ds.ListPartitions()
	out := make([]cmn.PartitionPath, len(parts))
	for i, p := range parts {
		out[i] = path.PartitionPath(p)
	}
	return out, nil
}

// ListObjects lists every ObjectPath under a partition; order unspecified.
func (s State) ListObjects(path cmn.PartitionPath) ([]cmn.ObjectPath, error) {
	part, err := s.GetPartition(path)
	if err != nil {
		return nil, err
	}
	keys := part.ListKeys()
	out := make([]cmn.ObjectPath, len(keys))
	for i, k := range keys {
		out[i] = path.ObjectPath(k)
	}
	return out, nil
}

// GetPartition returns the PartitionState at path.
func (s State) GetPartition(path cmn.PartitionPath) (PartitionState, error) {
	ds, err := s.getDataset(path.Dataset)
	if err != nil {
		return PartitionState{}, err
	}
	part, ok := ds.Get(path.Partition)
	if !ok {
		return PartitionState{}, &ErrMissingPartition{Path: path}
	}
	return part, nil
}

// GetObject returns the ObjectState at path.
func (s State) GetObject(path cmn.ObjectPath) (ObjectState, error) {
	part, err := s.GetPartition(path.Partition)
	if err != nil {
		return ObjectState{}, err
	}
	obj, ok := part.Get(path.Key)
	if !ok {
		return ObjectState{}, &ErrMissingObject{Path: path}
	}
	return obj, nil
}

// ContainsPartition never fails; a missing dataset or partition is simply false.
func (s State) ContainsPartition(path cmn.PartitionPath) bool {
	ds, ok := s.datasets[path.Dataset]
	if !ok {
		return false
	}
	return ds.Contains(path.Partition)
}

// ContainsObject never fails; a missing dataset, partition, or object is simply false.
func (s State) ContainsObject(path cmn.ObjectPath) bool {
	ds, ok := s.datasets[path.Partition.Dataset]
	if !ok {
		return false
	}
	part, ok := ds.Get(path.Partition.Partition)
	if !ok {
		return false
	}
	return part.Contains(path.Key)
}

// InsertDataset returns a new State with path -> state upserted (never fails).
func (s State) InsertDataset(path cmn.DatasetPath, state DatasetState) State {
	clone := s.clone()
	clone.datasets[path] = state
	return clone
}

// InsertPartition returns a new State with path's partition upserted into
// its (existing) dataset.
func (s State) InsertPartition(path cmn.PartitionPath, state PartitionState) (State, error) {
	ds, err := s.getDataset(path.Dataset)
	if err != nil {
		return State{}, err
	}
	clone := s.clone()
	clone.datasets[path.Dataset] = ds.Insert(path.Partition, state)
	return clone, nil
}

// InsertObject returns a new State with path's object upserted into its
// (existing) dataset and partition.
func (s State) InsertObject(path cmn.ObjectPath, state ObjectState) (State, error) {
	part, err := s.GetPartition(path.Partition)
	if err != nil {
		return State{}, err
	}
	ds, err := s.getDataset(path.Partition.Dataset)
	if err != nil {
		return State{}, err
	}
	clone := s.clone()
	newPart := part.Insert(path.Key, state)
	clone.datasets[path.Partition.Dataset] = ds.Insert(path.Partition.Partition, newPart)
	return clone, nil
}

// RemovePartition returns a new State with path's partition removed.
func (s State) RemovePartition(path cmn.PartitionPath) (State, error) {
	ds, err := s.getDataset(path.Dataset)
	if err != nil {
		return State{}, err
	}
	newDS, _, err := ds.Remove(path.Partition, path.Dataset)
	if err != nil {
		return State{}, err
	}
	clone := s.clone()
	clone.datasets[path.Dataset] = newDS
	return clone, nil
}

// RemoveObject returns a new State with path's object removed.
func (s State) RemoveObject(path cmn.ObjectPath) (State, error) {
	part, err := s.GetPartition(path.Partition)
	if err != nil {
		return State{}, err
	}
	newPart, _, err := part.Remove(path.Key, path.Partition)
	if err != nil {
		return State{}, err
	}
	ds, err := s.getDataset(path.Partition.Dataset)
	if err != nil {
		return State{}, err
	}
	clone := s.clone()
	clone.datasets[path.Partition.Dataset] = ds.Insert(path.Partition.Partition, newPart)
	return clone, nil
}

// MoveObject is two sub-updates inside one constructor (spec §4.1): remove
// from src (failing if absent), then upsert into tgt, auto-creating tgt's
// partition container if it doesn't exist yet. tgt's dataset must already
// exist. The whole operation is atomic at the State level — on any error
// the receiver's prior value is untouched and no partial clone escapes.
func (s State) MoveObject(src, tgt cmn.ObjectPath) (State, error) {
	srcPart, err := s.GetPartition(src.Partition)
	if err != nil {
		return State{}, err
	}
	newSrcPart, obj, err := srcPart.Remove(src.Key, src.Partition)
	if err != nil {
		return State{}, err
	}

	if _, err := s.getDataset(tgt.Partition.Dataset); err != nil {
		return State{}, err
	}

	samePartition := src.Partition.Dataset == tgt.Partition.Dataset &&
		src.Partition.Partition.Key() == tgt.Partition.Partition.Key()

	clone := s.clone()

	if samePartition {
		// src and tgt share one partition container: apply the removal and
		// the insert against the same already-updated PartitionState so the
		// intermediate (post-remove) state isn't lost.
		newTgtPart := newSrcPart.Insert(tgt.Key, obj)
		srcDS := clone.datasets[src.Partition.Dataset]
		clone.datasets[src.Partition.Dataset] = srcDS.Insert(src.Partition.Partition, newTgtPart)
		return clone, nil
	}

	srcDS := clone.datasets[src.Partition.Dataset]
	clone.datasets[src.Partition.Dataset] = srcDS.Insert(src.Partition.Partition, newSrcPart)

	tgtDS := clone.datasets[tgt.Partition.Dataset]
	tgtPart, ok := tgtDS.Get(tgt.Partition.Partition)
	if !ok {
		tgtPart = EmptyPartitionState()
	}
	newTgtPart := tgtPart.Insert(tgt.Key, obj)
	clone.datasets[tgt.Partition.Dataset] = tgtDS.Insert(tgt.Partition.Partition, newTgtPart)

	return clone, nil
}

func (s State) clone() State {
	clone := make(map[cmn.DatasetPath]DatasetState, len(s.datasets)+1)
	for k, v := range s.datasets {
		clone[k] = v
	}
	return State{datasets: clone}
}

func (s State) String() string {
	out := "State:\n"
	for path, ds := range s.datasets {
		out += fmt.Sprintf("  - %s:\n", path)
		for _, p := range ds.ListPartitions() {
			part, _ := ds.Get(p)
			out += fmt.Sprintf("    %s:\n", p)
			for _, key := range part.ListKeys() {
				obj, _ := part.Get(key)
				out += fmt.Sprintf("      %s: %s\n", key, obj)
			}
		}
	}
	return out
}
