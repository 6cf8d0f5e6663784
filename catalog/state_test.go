package catalog_test

import (
	"testing"

	"github.com/coldlake/coldlake/catalog"
	"github.com/coldlake/coldlake/cmn"
	"github.com/coldlake/coldlake/cmn/cos"
	"github.com/coldlake/coldlake/internal/tassert"
)

func testDatasetPath() cmn.DatasetPath {
	bucket := cmn.NewBucket(cmn.ProtocolFile, "example")
	return cmn.NewDatasetPath(bucket, "nyc_taxis")
}

func seedState(t *testing.T) (catalog.State, cmn.DatasetPath, cmn.Partition) {
	t.Helper()
	ds := testDatasetPath()
	partition := cmn.NewPartition("date", "2020-01")

	s := catalog.New()
	s = s.InsertDataset(ds, catalog.EmptyDatasetState())

	obj := catalog.NewParquetObjectState(catalog.ParquetMeta{NumRows: 100}, cos.NewBytesInKiB(1))
	s2, err := s.InsertPartition(ds.PartitionPath(partition), catalog.NewPartitionState(map[cmn.ObjectKey]catalog.ObjectState{
		"a.parquet": obj,
	}))
	tassert.CheckFatal(t, err)
	return s2, ds, partition
}

// invariant 1: insert_object(S, P, O) => get_object(S', P) == O and S != S'.
func TestInsertObjectThenGet(t *testing.T) {
	s, ds, partition := seedState(t)
	path := ds.ObjectPath(partition, "b.parquet")
	obj := catalog.NewParquetObjectState(catalog.ParquetMeta{NumRows: 7}, cos.NewBytes(10))

	s2, err := s.InsertObject(path, obj)
	tassert.CheckFatal(t, err)

	got, err := s2.GetObject(path)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, got.Size == obj.Size, "size mismatch: %v != %v", got.Size, obj.Size)

	tassert.Fatalf(t, !s.ContainsObject(path), "prior snapshot must be unaffected by the mutation")
}

// invariant 2: remove then insert with the same (path, state) is observably
// equal to the original.
func TestRemoveThenInsertRoundTrips(t *testing.T) {
	s, ds, partition := seedState(t)
	path := ds.ObjectPath(partition, "a.parquet")

	original, err := s.GetObject(path)
	tassert.CheckFatal(t, err)

	s2, err := s.RemoveObject(path)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, !s2.ContainsObject(path), "object should be gone after remove")

	s3, err := s2.InsertObject(path, original)
	tassert.CheckFatal(t, err)

	got, err := s3.GetObject(path)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, got.Size == original.Size, "round trip changed size")
}

// invariant 3: Move idempotence — after Move(a,b), a is gone, b holds a's
// prior state exactly.
func TestMoveObject(t *testing.T) {
	s, ds, partition := seedState(t)
	src := ds.ObjectPath(partition, "a.parquet")
	original, err := s.GetObject(src)
	tassert.CheckFatal(t, err)

	target := cmn.NewPartition("date", "2021-01")
	tgt := src.WithPartition(target)

	s2, err := s.MoveObject(src, tgt)
	tassert.CheckFatal(t, err)

	tassert.Fatalf(t, !s2.ContainsObject(src), "src must be gone after move")
	tassert.Fatalf(t, s2.ContainsObject(tgt), "tgt must exist after move")

	got, err := s2.GetObject(tgt)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, got.Size == original.Size, "moved object size mismatch")
}

func TestMoveObjectCreatesTargetPartition(t *testing.T) {
	s, ds, partition := seedState(t)
	src := ds.ObjectPath(partition, "a.parquet")
	target := cmn.NewPartition("date", "2099-12")

	s2, err := s.MoveObject(src, src.WithPartition(target))
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, s2.ContainsPartition(ds.PartitionPath(target)), "target partition should be auto-created")
}

func TestMoveObjectMissingSourceFails(t *testing.T) {
	s, ds, partition := seedState(t)
	src := ds.ObjectPath(partition, "missing.parquet")
	tgt := src.WithPartition(cmn.NewPartition("date", "2021-01"))

	_, err := s.MoveObject(src, tgt)
	tassert.Fatalf(t, err != nil, "expected missing-object error")
	tassert.Fatalf(t, cos.IsErrKind(err, cos.KindMissingObject), "expected MissingObject kind, got %v", cos.KindOf(err))
}

func TestRemovePartition(t *testing.T) {
	s, ds, partition := seedState(t)
	path := ds.PartitionPath(partition)

	s2, err := s.RemovePartition(path)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, !s2.ContainsPartition(path), "partition should be gone")
	tassert.Fatalf(t, s.ContainsPartition(path), "prior snapshot must still contain the partition")
}

func TestMissingDatasetErrors(t *testing.T) {
	s := catalog.New()
	unknown := testDatasetPath()

	_, err := s.ListPartitions(unknown)
	tassert.Fatalf(t, cos.IsErrKind(err, cos.KindMissingDataset), "expected MissingDataset, got %v", err)
}

func TestPartitionSize(t *testing.T) {
	s, ds, partition := seedState(t)
	part, err := s.GetPartition(ds.PartitionPath(partition))
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, part.Size() == cos.NewBytesInKiB(1), "expected 1KiB, got %v", part.Size())
}
