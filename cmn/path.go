package cmn

import "fmt"

// DatasetPath is (Bucket, relative path).
type DatasetPath struct {
	Bucket Bucket
	Path   string // relative to the bucket, '/'-joined
}

func NewDatasetPath(bucket Bucket, path string) DatasetPath {
	return DatasetPath{Bucket: bucket, Path: path}
}

func (d DatasetPath) String() string { return fmt.Sprintf("%s/%s", d.Bucket, d.Path) }

// FSPath renders the authoritative on-disk form: <bucket>/<dataset-path>.
func (d DatasetPath) FSPath() string { return d.Bucket.Name + "/" + d.Path }

func (d DatasetPath) PartitionPath(p Partition) PartitionPath {
	return PartitionPath{Dataset: d, Partition: p}
}

func (d DatasetPath) ObjectPath(p Partition, key ObjectKey) ObjectPath {
	return ObjectPath{Partition: PartitionPath{Dataset: d, Partition: p}, Key: key}
}

// PartitionPath = (DatasetPath, Partition).
type PartitionPath struct {
	Dataset   DatasetPath
	Partition Partition
}

func NewPartitionPath(dataset DatasetPath, partition Partition) PartitionPath {
	return PartitionPath{Dataset: dataset, Partition: partition}
}

func (p PartitionPath) String() string { return fmt.Sprintf("%s/%s", p.Dataset, p.Partition) }

func (p PartitionPath) FSPath() string { return p.Dataset.FSPath() + "/" + p.Partition.Path() }

func (p PartitionPath) ObjectPath(key ObjectKey) ObjectPath {
	return ObjectPath{Partition: p, Key: key}
}

// ObjectPath = (PartitionPath, ObjectKey).
type ObjectPath struct {
	Partition PartitionPath
	Key       ObjectKey
}

func (o ObjectPath) String() string { return fmt.Sprintf("%s/%s", o.Partition, o.Key) }

func (o ObjectPath) FSPath() string { return o.Partition.FSPath() + "/" + o.Key.String() }

func (o ObjectPath) DatasetPath() DatasetPath    { return o.Partition.Dataset }
func (o ObjectPath) PartitionPath() PartitionPath { return o.Partition }
func (o ObjectPath) GetPartition() Partition      { return o.Partition.Partition }

// WithPartition returns a new ObjectPath in the same dataset but a
// different partition, keeping the same object key — used by MovePartition
// (spec §4.6) to compute move targets.
func (o ObjectPath) WithPartition(p Partition) ObjectPath {
	return ObjectPath{Partition: PartitionPath{Dataset: o.Partition.Dataset, Partition: p}, Key: o.Key}
}
