// Package cos provides low-level common types and utilities shared by every
// package in the module: byte-size formatting, error-kind predicates, and
// small helpers that don't deserve their own package.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import "fmt"

const (
	KiB = int64(1024)
	MiB = 1024 * KiB

	// print thresholds (spec §3): below kibThreshold render raw byte
	// counts, below mibThreshold render KiB, otherwise MiB
	kibThreshold = 10 * KiB
	mibThreshold = 10 * MiB
)

// Bytes is a nonnegative, additive byte count. The zero value is zero bytes.
type Bytes int64

func NewBytes(n int64) Bytes        { return Bytes(n) }
func NewBytesInKiB(n int64) Bytes   { return Bytes(n * KiB) }
func NewBytesInMiB(n int64) Bytes   { return Bytes(n * MiB) }

func (b Bytes) Int64() int64 { return int64(b) }

func (b Bytes) Add(other Bytes) Bytes { return b + other }

// String renders with a KiB/MiB threshold at 10 KiB / 10 MiB (spec §3).
func (b Bytes) String() string {
	n := int64(b)
	switch {
	case n >= mibThreshold:
		return fmt.Sprintf("%.2fMiB", float64(n)/float64(MiB))
	case n >= kibThreshold:
		return fmt.Sprintf("%.2fKiB", float64(n)/float64(KiB))
	default:
		return fmt.Sprintf("%dB", n)
	}
}

// SumBytes folds a slice of Bytes, mirroring the teacher's fold-style
// aggregation helpers in cmn/cos.
func SumBytes(all ...Bytes) Bytes {
	var total Bytes
	for _, b := range all {
		total += b
	}
	return total
}
