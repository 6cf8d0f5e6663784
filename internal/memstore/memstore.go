// Package memstore is an in-memory store.Store used by xact/job/runtime
// tests, standing in for FileStore/S3Store without touching a real
// filesystem. Shaped after store.rs's FileStore: the same list/read/move/
// remove/rebalance surface, backed by maps instead of directories. Keyed
// by path.String() since ObjectPath embeds Partition, which holds a
// slice and so isn't itself a valid Go map key.
package memstore

import (
	"context"
	"sort"

	"github.com/coldlake/coldlake/catalog"
	"github.com/coldlake/coldlake/cmn"
	"github.com/coldlake/coldlake/cmn/cos"
	"github.com/coldlake/coldlake/store"
)

type entry struct {
	path  cmn.ObjectPath
	state catalog.ObjectState
}

// Store is a minimal in-memory store.Store. Rebalance splits the summed
// input rows/bytes evenly across the outputs, good enough to exercise
// action/job/runtime wiring without pulling in the real codec packages.
type Store struct {
	objects map[string]entry
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{objects: map[string]entry{}}
}

// Put seeds an object directly, bypassing any job/action.
func (s *Store) Put(path cmn.ObjectPath, state catalog.ObjectState) {
	s.objects[path.String()] = entry{path: path, state: state}
}

func (s *Store) ListPartitions(_ context.Context, path cmn.DatasetPath) ([]cmn.Partition, error) {
	seen := map[string]cmn.Partition{}
	for _, e := range s.objects {
		if e.path.Partition.Dataset != path {
			continue
		}
		seen[e.path.Partition.Partition.Key()] = e.path.Partition.Partition
	}
	out := make([]cmn.Partition, 0, len(seen))
	for _, p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path() < out[j].Path() })
	return out, nil
}

func (s *Store) ListObjects(_ context.Context, path cmn.PartitionPath) ([]cmn.ObjectKey, error) {
	var out []cmn.ObjectKey
	for _, e := range s.objects {
		if e.path.Partition.Dataset != path.Dataset || e.path.Partition.Partition.Key() != path.Partition.Key() {
			continue
		}
		out = append(out, e.path.Key)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *Store) ReadObject(_ context.Context, path cmn.ObjectPath) (catalog.ObjectState, error) {
	e, ok := s.objects[path.String()]
	if !ok {
		return catalog.ObjectState{}, &store.ErrIO{Op: "read " + path.String()}
	}
	return e.state, nil
}

func (s *Store) MoveObject(_ context.Context, src, tgt cmn.ObjectPath) error {
	e, ok := s.objects[src.String()]
	if !ok {
		return &store.ErrIO{Op: "move " + src.String()}
	}
	delete(s.objects, src.String())
	s.objects[tgt.String()] = entry{path: tgt, state: e.state}
	return nil
}

func (s *Store) RemoveObject(_ context.Context, path cmn.ObjectPath) error {
	if _, ok := s.objects[path.String()]; !ok {
		return &store.ErrIO{Op: "remove " + path.String()}
	}
	delete(s.objects, path.String())
	return nil
}

func (s *Store) RemovePartition(_ context.Context, path cmn.PartitionPath) error {
	for _, e := range s.objects {
		if e.path.Partition.Dataset == path.Dataset && e.path.Partition.Partition.Key() == path.Partition.Key() {
			return &store.ErrIO{Op: "remove non-empty partition " + path.String()}
		}
	}
	return nil
}

func (s *Store) RebalanceObjects(
	_ context.Context, inputs, outputs []cmn.ObjectPath, _ store.RebalanceTarget,
) ([]catalog.ObjectState, error) {
	var totalRows int64
	var totalSize cos.Bytes
	format := cmn.FormatUnknown
	for _, in := range inputs {
		e, ok := s.objects[in.String()]
		if !ok {
			return nil, &store.ErrIO{Op: "rebalance read " + in.String()}
		}
		format = e.state.Format
		if rows, ok := e.state.NumRows(); ok {
			totalRows += rows
		}
		totalSize = totalSize.Add(e.state.Size)
	}

	results := make([]catalog.ObjectState, len(outputs))
	for i, out := range outputs {
		var state catalog.ObjectState
		sizeShare := cos.NewBytes(totalSize.Int64() / int64(len(outputs)))
		switch format {
		case cmn.FormatParquet:
			rows := totalRows / int64(len(outputs))
			if i == len(outputs)-1 {
				rows = totalRows - rows*int64(len(outputs)-1)
			}
			state = catalog.NewParquetObjectState(catalog.ParquetMeta{NumRows: rows}, sizeShare)
		default:
			state = catalog.NewCSVObjectState(catalog.CSVMeta{}, sizeShare)
		}
		s.objects[out.String()] = entry{path: out, state: state}
		results[i] = state
	}
	return results, nil
}
