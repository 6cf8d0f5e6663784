package runtime_test

import (
	"context"
	"testing"

	"github.com/coldlake/coldlake/catalog"
	"github.com/coldlake/coldlake/cmn"
	"github.com/coldlake/coldlake/cmn/cos"
	"github.com/coldlake/coldlake/internal/memstore"
	"github.com/coldlake/coldlake/internal/tassert"
	"github.com/coldlake/coldlake/runtime"
	"github.com/coldlake/coldlake/xact"
	"github.com/coldlake/coldlake/xact/xdag"
)

func testDatasetPath() cmn.DatasetPath {
	return cmn.NewDatasetPath(cmn.NewBucket(cmn.ProtocolFile, "example"), "nyc_taxis")
}

func TestExecuteRunsIndependentRootsToCompletion(t *testing.T) {
	ds := testDatasetPath()
	partA := ds.PartitionPath(cmn.NewPartition("date", "2020-01"))
	partB := ds.PartitionPath(cmn.NewPartition("date", "2020-02"))

	st := memstore.New()
	st.Put(partA.ObjectPath("a.parquet"), catalog.NewParquetObjectState(catalog.ParquetMeta{NumRows: 10}, cos.NewBytesInKiB(1)))
	st.Put(partB.ObjectPath("b.parquet"), catalog.NewParquetObjectState(catalog.ParquetMeta{NumRows: 20}, cos.NewBytesInKiB(2)))

	tree := xdag.New()
	nodeA := tree.AddNode(nil)
	nodeB := tree.AddNode(nil)
	tree.AddAction(nodeA, &xact.ReloadPartition{Path: partA})
	tree.AddAction(nodeB, &xact.ReloadPartition{Path: partB})

	state := catalog.New().InsertDataset(ds, catalog.EmptyDatasetState())
	state, err := state.InsertPartition(partA, catalog.EmptyPartitionState())
	tassert.CheckFatal(t, err)
	state, err = state.InsertPartition(partB, catalog.EmptyPartitionState())
	tassert.CheckFatal(t, err)

	rt := runtime.New(st)
	execution := rt.Execute(context.Background(), state, tree)

	tassert.Fatalf(t, !execution.HasErrors(), "expected no errors, got %v", execution.Failed)
	tassert.Fatalf(t, len(execution.Passed) == 2, "expected both actions to pass, got %d", len(execution.Passed))

	objA, err := execution.State.GetObject(partA.ObjectPath("a.parquet"))
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, objA.Size == cos.NewBytesInKiB(1), "unexpected objA size %v", objA.Size)
}

// S4: a failing action in one batch stops execution before any dependent
// batch runs, even though the failing batch itself runs to completion.
func TestExecuteShortCircuitsOnBatchFailure(t *testing.T) {
	ds := testDatasetPath()
	partA := ds.PartitionPath(cmn.NewPartition("date", "2020-01"))
	partB := ds.PartitionPath(cmn.NewPartition("date", "2020-02"))
	missing := partA.ObjectPath("missing.parquet")

	st := memstore.New()
	st.Put(partB.ObjectPath("b.parquet"), catalog.NewParquetObjectState(catalog.ParquetMeta{NumRows: 20}, cos.NewBytesInKiB(2)))

	state := catalog.New().InsertDataset(ds, catalog.EmptyDatasetState())
	state, err := state.InsertPartition(partA, catalog.EmptyPartitionState())
	tassert.CheckFatal(t, err)

	tree := xdag.New()
	failing := tree.AddNode(nil)
	tree.AddAction(failing, &xact.RemoveObject{Path: missing})

	dependent := tree.AddNode([]xdag.Key{failing})
	tree.AddAction(dependent, &xact.ReloadPartition{Path: partB})

	rt := runtime.New(st)
	execution := rt.Execute(context.Background(), state, tree)

	tassert.Fatalf(t, execution.HasErrors(), "expected the missing-object removal to fail")
	tassert.Fatalf(t, len(execution.Passed) == 0, "expected no actions to pass, got %v", execution.Passed)
	tassert.Fatalf(t, !execution.State.ContainsPartition(partB), "dependent batch must not have run")
}

func TestExecuteOnEmptyTreeIsNoop(t *testing.T) {
	st := memstore.New()
	rt := runtime.New(st)
	state := catalog.New()

	execution := rt.Execute(context.Background(), state, xdag.New())
	tassert.Fatalf(t, !execution.HasErrors(), "expected no errors on an empty tree")
	tassert.Fatalf(t, len(execution.Passed) == 0, "expected no actions on an empty tree")
}
