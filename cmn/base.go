// Package cmn provides the module's path algebra and data-model primitives:
// the typed (Bucket, Partition, ObjectKey) triple and the Format/Compression
// enums every other package builds on. Grounded on the original prototype's
// base.rs and path.rs (see original_source/).
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package cmn

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/coldlake/coldlake/cmn/cos"
)

// Protocol identifies which backend a Bucket lives on.
type Protocol int

const (
	ProtocolFile Protocol = iota
	ProtocolS3
)

func (p Protocol) String() string {
	switch p {
	case ProtocolFile:
		return "file"
	case ProtocolS3:
		return "s3"
	default:
		return "unknown"
	}
}

// Format is the columnar file format, inferred from an ObjectKey's extension.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatParquet
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatParquet:
		return "parquet"
	default:
		return "unknown"
	}
}

// Compression identifies an object's on-disk compression, CSV-only per §3.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionSnappy
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionSnappy:
		return "snappy"
	default:
		return "none"
	}
}

// Bucket is (Protocol, name), printed "proto://name".
type Bucket struct {
	Protocol Protocol
	Name     string
}

func NewBucket(protocol Protocol, name string) Bucket {
	return Bucket{Protocol: protocol, Name: name}
}

func (b Bucket) String() string { return fmt.Sprintf("%s://%s", b.Protocol, b.Name) }

// ObjectKey is a filename within a partition.
type ObjectKey string

func NewObjectKey(s string) ObjectKey { return ObjectKey(s) }

func (k ObjectKey) String() string { return string(k) }

// InferFormat returns the Format implied by the substring after the first
// '.' in the key (spec §6): "csv" -> CSV, "parquet" -> Parquet, else Unknown.
func (k ObjectKey) InferFormat() Format {
	s := string(k)
	idx := strings.Index(s, ".")
	if idx < 0 {
		return FormatUnknown
	}
	switch s[idx+1:] {
	case "csv":
		return FormatCSV
	case "parquet":
		return FormatParquet
	default:
		return FormatUnknown
	}
}

// partitionPair is one (key, value) component of a Partition.
type partitionPair struct {
	Key   string
	Value string
}

// Partition is an ordered, non-empty sequence of (key, value) pairs.
// Equality/hash is the full ordered sequence (spec §3).
type Partition struct {
	pairs []partitionPair
}

// ErrInvalidPartition is returned when a `k=v` path segment fails to parse.
type ErrInvalidPartition struct {
	Segment string
}

func (e *ErrInvalidPartition) Error() string {
	return fmt.Sprintf("invalid partition segment %q", e.Segment)
}

func (e *ErrInvalidPartition) Kind() cos.ErrKind { return cos.KindInvalidPartition }

// NewPartition builds a single-pair Partition, e.g. Partition("date", "2020-01").
func NewPartition(key, value string) Partition {
	return Partition{pairs: []partitionPair{{Key: key, Value: value}}}
}

// Push returns a new Partition with an additional trailing (key, value) pair.
// Partition values are copy-on-write: the receiver is never mutated.
func (p Partition) Push(key, value string) Partition {
	pairs := make([]partitionPair, len(p.pairs), len(p.pairs)+1)
	copy(pairs, p.pairs)
	pairs = append(pairs, partitionPair{Key: key, Value: value})
	return Partition{pairs: pairs}
}

// ParsePartitionSegment parses one directory segment of the form `k=v`.
// The first '=' splits key/value; a segment with no '=' or a trailing '='
// (empty value) is rejected as InvalidPartition (spec §4.2).
func ParsePartitionSegment(segment string) (key, value string, err error) {
	idx := strings.Index(segment, "=")
	if idx < 0 || idx == len(segment)-1 {
		return "", "", &ErrInvalidPartition{Segment: segment}
	}
	return segment[:idx], segment[idx+1:], nil
}

// ParsePartition parses a full `/`-joined directory path of `k=v` segments.
func ParsePartition(path string) (Partition, error) {
	segments := strings.Split(path, "/")
	if len(segments) == 0 || (len(segments) == 1 && segments[0] == "") {
		return Partition{}, errors.Wrap(&ErrInvalidPartition{Segment: path}, "empty partition path")
	}
	pairs := make([]partitionPair, 0, len(segments))
	for _, seg := range segments {
		k, v, err := ParsePartitionSegment(seg)
		if err != nil {
			return Partition{}, err
		}
		pairs = append(pairs, partitionPair{Key: k, Value: v})
	}
	return Partition{pairs: pairs}, nil
}

// Path renders the `k=v/k=v/...` directory form.
func (p Partition) Path() string {
	segs := make([]string, len(p.pairs))
	for i, pair := range p.pairs {
		segs[i] = pair.Key + "=" + pair.Value
	}
	return strings.Join(segs, "/")
}

func (p Partition) String() string { return p.Path() }

// Equal reports whether two partitions have the same ordered (key, value) sequence.
func (p Partition) Equal(other Partition) bool {
	if len(p.pairs) != len(other.pairs) {
		return false
	}
	for i := range p.pairs {
		if p.pairs[i] != other.pairs[i] {
			return false
		}
	}
	return true
}

// Key is a hashable representation of Partition suitable for use as a map
// key (Partition itself contains a slice and so isn't comparable).
func (p Partition) Key() string { return p.Path() }
