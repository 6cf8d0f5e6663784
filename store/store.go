package store

import (
	"context"

	"github.com/coldlake/coldlake/catalog"
	"github.com/coldlake/coldlake/cmn"
	"github.com/coldlake/coldlake/cmn/cos"
)

// RebalanceTargetKind distinguishes a row quota from a byte ceiling (spec §4.6).
type RebalanceTargetKind int

const (
	RebalanceByRows RebalanceTargetKind = iota
	RebalanceBySize
)

// RebalanceTarget is the Rows(k) / Size(b) union from spec §4.6/§6.
type RebalanceTarget struct {
	Kind RebalanceTargetKind
	Rows int64
	Size cos.Bytes
}

func TargetRows(rows int64) RebalanceTarget {
	return RebalanceTarget{Kind: RebalanceByRows, Rows: rows}
}

func TargetSize(size cos.Bytes) RebalanceTarget {
	return RebalanceTarget{Kind: RebalanceBySize, Size: size}
}

func (t RebalanceTarget) String() string {
	if t.Kind == RebalanceByRows {
		return "rows"
	}
	return "size"
}

// Store is the external-side contract every Action drives (spec §4.3).
// Implementations: FileStore (local filesystem), S3Store (AWS S3).
type Store interface {
	// ListPartitions enumerates D's immediate `k=v` children, depth 1 only
	// (spec §6, §9 — deeper schemes are a documented limitation).
	ListPartitions(ctx context.Context, path cmn.DatasetPath) ([]cmn.Partition, error)

	// ListObjects enumerates P's non-directory entries.
	ListObjects(ctx context.Context, path cmn.PartitionPath) ([]cmn.ObjectKey, error)

	// ReadObject opens O, infers its Format from the key extension, and
	// extracts format-specific metadata plus size.
	ReadObject(ctx context.Context, path cmn.ObjectPath) (catalog.ObjectState, error)

	// MoveObject ensures tgt's partition exists (creating it if needed)
	// then atomically renames src -> tgt. Same-store only.
	MoveObject(ctx context.Context, src, tgt cmn.ObjectPath) error

	// RemoveObject deletes a single file.
	RemoveObject(ctx context.Context, path cmn.ObjectPath) error

	// RemovePartition deletes an (expected-empty) partition directory.
	RemovePartition(ctx context.Context, path cmn.PartitionPath) error

	// RebalanceObjects merges every input into len(outputs) output files
	// per target, and returns one ObjectState per output, in the same
	// order as outputs (spec §4.6, §6).
	RebalanceObjects(ctx context.Context, inputs, outputs []cmn.ObjectPath, target RebalanceTarget) ([]catalog.ObjectState, error)
}
