package catalog

import (
	"github.com/coldlake/coldlake/cmn"
	"github.com/coldlake/coldlake/cmn/cos"
)

// PartitionState is the immutable mapping ObjectKey -> ObjectState (spec
// §3). All mutating methods return a new PartitionState; the receiver is
// never modified — copy-on-write, one new top-level map per mutation, with
// every untouched entry shared by reference with the prior value.
type PartitionState struct {
	objects map[cmn.ObjectKey]ObjectState
}

// NewPartitionState builds a PartitionState from an explicit object set.
func NewPartitionState(objects map[cmn.ObjectKey]ObjectState) PartitionState {
	clone := make(map[cmn.ObjectKey]ObjectState, len(objects))
	for k, v := range objects {
		clone[k] = v
	}
	return PartitionState{objects: clone}
}

// EmptyPartitionState is the zero-object PartitionState.
func EmptyPartitionState() PartitionState {
	return PartitionState{objects: map[cmn.ObjectKey]ObjectState{}}
}

func (p PartitionState) Get(key cmn.ObjectKey) (ObjectState, bool) {
	o, ok := p.objects[key]
	return o, ok
}

func (p PartitionState) Contains(key cmn.ObjectKey) bool {
	_, ok := p.objects[key]
	return ok
}

// ListKeys returns every ObjectKey in the partition; order is unspecified
// (spec §4.1).
func (p PartitionState) ListKeys() []cmn.ObjectKey {
	keys := make([]cmn.ObjectKey, 0, len(p.objects))
	for k := range p.objects {
		keys = append(keys, k)
	}
	return keys
}

func (p PartitionState) Len() int { return len(p.objects) }

// Size sums the contained ObjectStates' sizes (spec §4.1).
func (p PartitionState) Size() cos.Bytes {
	sizes := make([]cos.Bytes, 0, len(p.objects))
	for _, o := range p.objects {
		sizes = append(sizes, o.Size)
	}
	return cos.SumBytes(sizes...)
}

// Insert returns a new PartitionState with key -> state upserted.
func (p PartitionState) Insert(key cmn.ObjectKey, state ObjectState) PartitionState {
	clone := p.clone()
	clone.objects[key] = state
	return clone
}

// Remove returns a new PartitionState with key absent, and the removed
// ObjectState. Fails with ErrMissingObject if key was never present; the
// caller supplies the owning PartitionPath for the error.
func (p PartitionState) Remove(key cmn.ObjectKey, owner cmn.PartitionPath) (PartitionState, ObjectState, error) {
	existing, ok := p.objects[key]
	if !ok {
		return PartitionState{}, ObjectState{}, &ErrMissingObject{Path: owner.ObjectPath(key)}
	}
	clone := p.clone()
	delete(clone.objects, key)
	return clone, existing, nil
}

func (p PartitionState) clone() PartitionState {
	clone := make(map[cmn.ObjectKey]ObjectState, len(p.objects)+1)
	for k, v := range p.objects {
		clone[k] = v
	}
	return PartitionState{objects: clone}
}
