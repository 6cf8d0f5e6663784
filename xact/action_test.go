package xact_test

import (
	"context"
	"testing"

	"github.com/coldlake/coldlake/catalog"
	"github.com/coldlake/coldlake/cmn"
	"github.com/coldlake/coldlake/cmn/cos"
	"github.com/coldlake/coldlake/internal/memstore"
	"github.com/coldlake/coldlake/internal/tassert"
	"github.com/coldlake/coldlake/xact"
)

func testDatasetPath() cmn.DatasetPath {
	return cmn.NewDatasetPath(cmn.NewBucket(cmn.ProtocolFile, "example"), "nyc_taxis")
}

func TestReloadDatasetPopulatesState(t *testing.T) {
	ds := testDatasetPath()
	partition := cmn.NewPartition("date", "2020-01")
	objPath := ds.ObjectPath(partition, "a.parquet")

	st := memstore.New()
	st.Put(objPath, catalog.NewParquetObjectState(catalog.ParquetMeta{NumRows: 100}, cos.NewBytesInKiB(1)))

	action := &xact.ReloadDataset{Path: ds}
	newState, err := action.Execute(context.Background(), st, catalog.New())
	tassert.CheckFatal(t, err)

	obj, err := newState.GetObject(objPath)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, obj.Size == cos.NewBytesInKiB(1), "unexpected size %v", obj.Size)
}

func TestMoveActionUpdatesStoreAndState(t *testing.T) {
	ds := testDatasetPath()
	src := ds.ObjectPath(cmn.NewPartition("date", "2020-01"), "a.parquet")
	tgt := src.WithPartition(cmn.NewPartition("date", "2021-01"))

	st := memstore.New()
	st.Put(src, catalog.NewParquetObjectState(catalog.ParquetMeta{NumRows: 10}, cos.NewBytes(5)))

	state := catalog.New().InsertDataset(ds, catalog.EmptyDatasetState())
	state, err := state.InsertObject(src, catalog.NewParquetObjectState(catalog.ParquetMeta{NumRows: 10}, cos.NewBytes(5)))
	tassert.CheckFatal(t, err)

	action := &xact.Move{Source: src, Target: tgt}
	newState, err := action.Execute(context.Background(), st, state)
	tassert.CheckFatal(t, err)

	tassert.Fatalf(t, !newState.ContainsObject(src), "src should be gone from catalog")
	tassert.Fatalf(t, newState.ContainsObject(tgt), "tgt should exist in catalog")

	_, err = st.ReadObject(context.Background(), src)
	tassert.Fatalf(t, err != nil, "src should be gone from store")
	_, err = st.ReadObject(context.Background(), tgt)
	tassert.CheckFatal(t, err)
}

func TestRemoveObjectActionFailsWithoutLeakingState(t *testing.T) {
	ds := testDatasetPath()
	path := ds.ObjectPath(cmn.NewPartition("date", "2020-01"), "missing.parquet")

	st := memstore.New()
	state := catalog.New().InsertDataset(ds, catalog.EmptyDatasetState())
	state, err := state.InsertPartition(ds.PartitionPath(cmn.NewPartition("date", "2020-01")), catalog.EmptyPartitionState())
	tassert.CheckFatal(t, err)

	action := &xact.RemoveObject{Path: path}
	_, err = action.Execute(context.Background(), st, state)
	tassert.Fatalf(t, err != nil, "expected missing-object error")
	tassert.Fatalf(t, cos.IsErrKind(err, cos.KindMissingObject), "expected MissingObject kind, got %v", cos.KindOf(err))
}
