/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package store

import (
	"bytes"
	"testing"

	"github.com/coldlake/coldlake/cmn"
	"github.com/coldlake/coldlake/internal/tassert"
)

// S3Store's key-construction helpers are pure string functions; exercising
// them here doesn't require a real AWS endpoint. The client-bearing methods
// (ListPartitions, ReadObject, ...) are exercised indirectly through
// FileStore's equivalents in store/file_test.go, since both backends share
// the same Store contract and codec plumbing.
func testS3ObjectPath() cmn.ObjectPath {
	ds := cmn.NewDatasetPath(cmn.NewBucket(cmn.ProtocolS3, "example-bucket"), "nyc_taxis")
	part := ds.PartitionPath(cmn.NewPartition("date", "2020-01"))
	return part.ObjectPath(cmn.NewObjectKey("a.parquet"))
}

func TestS3KeyHelpersJoinWithoutBucketPrefix(t *testing.T) {
	obj := testS3ObjectPath()

	dsPrefix := s3DatasetPrefix(obj.Partition.Dataset)
	tassert.Fatalf(t, dsPrefix == "nyc_taxis/", "unexpected dataset prefix %q", dsPrefix)

	partPrefix := s3PartitionPrefix(obj.Partition)
	tassert.Fatalf(t, partPrefix == "nyc_taxis/date=2020-01/", "unexpected partition prefix %q", partPrefix)

	key := s3ObjectKey(obj)
	tassert.Fatalf(t, key == "nyc_taxis/date=2020-01/a.parquet", "unexpected object key %q", key)
}

func TestCombineS3RejectsUnknownFormat(t *testing.T) {
	err := combineS3(cmn.FormatUnknown, RebalanceTarget{}, [][]byte{{0}}, []*bytes.Buffer{{}})
	tassert.Fatalf(t, err != nil, "expected an error for an unrecognized format")
}

func TestCombineS3CSVWritesOutput(t *testing.T) {
	inputs := [][]byte{[]byte("id,value\n1,10\n2,20\n")}
	outputs := []*bytes.Buffer{{}}

	err := combineS3(cmn.FormatCSV, TargetSize(100), inputs, outputs)
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, outputs[0].Len() > 0, "expected output bytes written")
}
