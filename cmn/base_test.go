package cmn_test

import (
	"testing"

	"github.com/coldlake/coldlake/cmn"
	"github.com/coldlake/coldlake/internal/tassert"
)

// spec §8 S5: partition parse.
func TestParsePartitionSegment(t *testing.T) {
	k, v, err := cmn.ParsePartitionSegment("year=2024")
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, k == "year" && v == "2024", "got (%q, %q)", k, v)

	_, _, err = cmn.ParsePartitionSegment("year=")
	tassert.Fatalf(t, err != nil, "trailing '=' (empty value) must be rejected")

	_, _, err = cmn.ParsePartitionSegment("year")
	tassert.Fatalf(t, err != nil, "segment with no '=' must be rejected")

	k, v, err = cmn.ParsePartitionSegment("a=b=c")
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, k == "a" && v == "b=c", "first '=' should split, got (%q, %q)", k, v)
}

func TestBucketString(t *testing.T) {
	b := cmn.NewBucket(cmn.ProtocolFile, "example")
	tassert.Fatalf(t, b.String() == "file://example", "got %q", b.String())

	s3 := cmn.NewBucket(cmn.ProtocolS3, "my-bucket")
	tassert.Fatalf(t, s3.String() == "s3://my-bucket", "got %q", s3.String())
}

func TestObjectKeyInferFormat(t *testing.T) {
	tassert.Fatalf(t, cmn.ObjectKey("a.csv").InferFormat() == cmn.FormatCSV, "expected csv")
	tassert.Fatalf(t, cmn.ObjectKey("a.parquet").InferFormat() == cmn.FormatParquet, "expected parquet")
	tassert.Fatalf(t, cmn.ObjectKey("a.json").InferFormat() == cmn.FormatUnknown, "expected unknown")
	tassert.Fatalf(t, cmn.ObjectKey("noext").InferFormat() == cmn.FormatUnknown, "expected unknown for no extension")
}

func TestPartitionPath(t *testing.T) {
	p := cmn.NewPartition("date", "2020-01").Push("hour", "08")
	tassert.Fatalf(t, p.Path() == "date=2020-01/hour=08", "got %q", p.Path())
}

func TestObjectPathWithPartition(t *testing.T) {
	bucket := cmn.NewBucket(cmn.ProtocolFile, "example")
	ds := cmn.NewDatasetPath(bucket, "nyc_taxis")
	src := ds.ObjectPath(cmn.NewPartition("date", "2020-01"), "a.parquet")

	tgt := src.WithPartition(cmn.NewPartition("date", "2021-01"))
	tassert.Fatalf(t, tgt.Key == src.Key, "object key must be preserved across WithPartition")
	tassert.Fatalf(t, tgt.GetPartition().Path() == "date=2021-01", "got %q", tgt.GetPartition().Path())
	tassert.Fatalf(t, tgt.DatasetPath() == src.DatasetPath(), "dataset must be unchanged")
}
