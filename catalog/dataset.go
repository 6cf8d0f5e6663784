package catalog

import "github.com/coldlake/coldlake/cmn"

// partitionEntry pairs a Partition value with its state; DatasetState keys
// its internal map by Partition.Key() since Partition itself (holding a
// slice) isn't a comparable Go map key.
type partitionEntry struct {
	partition cmn.Partition
	state     PartitionState
}

// DatasetState is the immutable mapping Partition -> PartitionState (spec §3).
type DatasetState struct {
	partitions map[string]partitionEntry
}

// PartitionEntry pairs a Partition with its PartitionState, the exported
// shape NewDatasetState accepts: Partition itself cannot key a Go map
// since it holds a slice.
type PartitionEntry struct {
	Partition cmn.Partition
	State     PartitionState
}

func NewDatasetState(entries []PartitionEntry) DatasetState {
	clone := make(map[string]partitionEntry, len(entries))
	for _, e := range entries {
		clone[e.Partition.Key()] = partitionEntry{partition: e.Partition, state: e.State}
	}
	return DatasetState{partitions: clone}
}

func EmptyDatasetState() DatasetState {
	return DatasetState{partitions: map[string]partitionEntry{}}
}

func (d DatasetState) Get(p cmn.Partition) (PartitionState, bool) {
	entry, ok := d.partitions[p.Key()]
	if !ok {
		return PartitionState{}, false
	}
	return entry.state, true
}

func (d DatasetState) Contains(p cmn.Partition) bool {
	_, ok := d.partitions[p.Key()]
	return ok
}

// ListPartitions returns every Partition in the dataset; order is
// unspecified (spec §4.1).
func (d DatasetState) ListPartitions() []cmn.Partition {
	out := make([]cmn.Partition, 0, len(d.partitions))
	for _, entry := range d.partitions {
		out = append(out, entry.partition)
	}
	return out
}

func (d DatasetState) Len() int { return len(d.partitions) }

// Insert returns a new DatasetState with p -> state upserted.
func (d DatasetState) Insert(p cmn.Partition, state PartitionState) DatasetState {
	clone := d.clone()
	clone.partitions[p.Key()] = partitionEntry{partition: p, state: state}
	return clone
}

// Remove returns a new DatasetState with p absent, and the removed
// PartitionState. Fails with ErrMissingPartition if p was never present.
func (d DatasetState) Remove(p cmn.Partition, owner cmn.DatasetPath) (DatasetState, PartitionState, error) {
	entry, ok := d.partitions[p.Key()]
	if !ok {
		return DatasetState{}, PartitionState{}, &ErrMissingPartition{Path: owner.PartitionPath(p)}
	}
	clone := d.clone()
	delete(clone.partitions, p.Key())
	return clone, entry.state, nil
}

func (d DatasetState) clone() DatasetState {
	clone := make(map[string]partitionEntry, len(d.partitions)+1)
	for k, v := range d.partitions {
		clone[k] = v
	}
	return DatasetState{partitions: clone}
}
