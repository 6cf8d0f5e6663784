package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/coldlake/coldlake/cmn"
	"github.com/coldlake/coldlake/internal/tassert"
	"github.com/coldlake/coldlake/store"
)

func testDatasetPath() cmn.DatasetPath {
	return cmn.NewDatasetPath(cmn.NewBucket(cmn.ProtocolFile, "example"), "nyc_taxis")
}

func writeCSV(t *testing.T, path string, rows ...string) {
	t.Helper()
	tassert.CheckFatal(t, os.MkdirAll(filepath.Dir(path), 0o755))
	content := "id,value\n"
	for _, r := range rows {
		content += r + "\n"
	}
	tassert.CheckFatal(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFileStoreListPartitionsAndObjects(t *testing.T) {
	root := t.TempDir()
	ds := testDatasetPath()
	part := ds.PartitionPath(cmn.NewPartition("date", "2020-01"))

	writeCSV(t, filepath.Join(root, part.FSPath(), "a.csv"), "1,10", "2,20")

	s := store.NewFileStore(root)
	ctx := context.Background()

	parts, err := s.ListPartitions(ctx, ds)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(parts) == 1, "expected one partition, got %d", len(parts))
	tassert.Fatalf(t, parts[0].Key() == part.Partition.Key(), "unexpected partition %v", parts[0])

	objs, err := s.ListObjects(ctx, part)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(objs) == 1 && objs[0] == "a.csv", "unexpected objects %v", objs)
}

func TestFileStoreReadCSVObject(t *testing.T) {
	root := t.TempDir()
	ds := testDatasetPath()
	part := ds.PartitionPath(cmn.NewPartition("date", "2020-01"))
	objPath := part.ObjectPath("a.csv")

	writeCSV(t, filepath.Join(root, objPath.FSPath()), "1,10", "2,20", "3,30")

	s := store.NewFileStore(root)
	state, err := s.ReadObject(context.Background(), objPath)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, state.Format == cmn.FormatCSV, "expected CSV format, got %v", state.Format)
	tassert.Fatalf(t, state.Size > 0, "expected a nonzero size")
}

func TestFileStoreMoveAndRemoveObject(t *testing.T) {
	root := t.TempDir()
	ds := testDatasetPath()
	src := ds.PartitionPath(cmn.NewPartition("date", "2020-01")).ObjectPath("a.csv")
	tgt := ds.PartitionPath(cmn.NewPartition("date", "2021-01")).ObjectPath("a.csv")

	writeCSV(t, filepath.Join(root, src.FSPath()), "1,10")

	s := store.NewFileStore(root)
	ctx := context.Background()

	tassert.CheckFatal(t, s.MoveObject(ctx, src, tgt))

	_, statErr := os.Stat(filepath.Join(root, src.FSPath()))
	tassert.Fatalf(t, statErr != nil, "src should no longer exist")
	_, statErr = os.Stat(filepath.Join(root, tgt.FSPath()))
	tassert.CheckFatal(t, statErr)

	tassert.CheckFatal(t, s.RemoveObject(ctx, tgt))
	_, statErr = os.Stat(filepath.Join(root, tgt.FSPath()))
	tassert.Fatalf(t, statErr != nil, "tgt should be gone after remove")
}

func TestFileStoreRemovePartitionFailsWhenNotEmpty(t *testing.T) {
	root := t.TempDir()
	ds := testDatasetPath()
	part := ds.PartitionPath(cmn.NewPartition("date", "2020-01"))
	writeCSV(t, filepath.Join(root, part.ObjectPath("a.csv").FSPath()), "1,10")

	s := store.NewFileStore(root)
	err := s.RemovePartition(context.Background(), part)
	tassert.Fatalf(t, err != nil, "expected an error removing a non-empty partition directory")
}

func TestFileStoreListPartitionsRejectsInvalidSegment(t *testing.T) {
	root := t.TempDir()
	ds := testDatasetPath()
	badDir := filepath.Join(root, ds.FSPath(), "not-a-partition")
	tassert.CheckFatal(t, os.MkdirAll(badDir, 0o755))

	s := store.NewFileStore(root)
	_, err := s.ListPartitions(context.Background(), ds)
	tassert.Fatalf(t, err != nil, "expected ErrInvalidPartition for a non k=v directory")
}
