// Package csvmeta infers CSV schema/metadata and combines CSV files under
// a byte ceiling (spec §4.6, §6). Grounded on the prototype's csv.rs
// (seek-to-end for size, infer-schema-from-first-N-rows, byte-ceiling
// combine) and on arrowarc's use of
// github.com/apache/arrow/go/v17/arrow/csv for CSV schema inference
// (convert/csv_to_parquet.go).
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package csvmeta

import (
	"io"

	"github.com/apache/arrow/go/v17/arrow/csv"
	"github.com/pkg/errors"

	"github.com/coldlake/coldlake/catalog"
	"github.com/coldlake/coldlake/cmn/cos"
)

const inferenceRows = 10

// ReadObjectState opens a CSV file, seeks to the end for its size, seeks
// back, and infers a schema from the first inferenceRows rows (spec §6
// "CSV metadata contract"). Delimiter defaults to ',' (spec §3).
func ReadObjectState(r io.ReadSeeker) (catalog.CSVMeta, cos.Bytes, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return catalog.CSVMeta{}, 0, errors.Wrap(err, "seek to end")
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return catalog.CSVMeta{}, 0, errors.Wrap(err, "seek back to start")
	}

	reader := csv.NewInferringReader(r,
		csv.WithComma(','),
		csv.WithHeader(true),
		csv.WithGuessNumRows(inferenceRows),
	)
	defer reader.Release()

	schema := reader.Schema()
	fields := make([]catalog.CSVField, schema.NumFields())
	for i, f := range schema.Fields() {
		fields[i] = catalog.CSVField{Name: f.Name, Type: f.Type.Name()}
	}

	meta := catalog.DefaultCSVMeta(fields)
	return meta, cos.NewBytes(size), nil
}

// Combine streams rows from each CSV input, in header + data order, into
// len(writers) outputs. Each output is "full" once its written byte count
// reaches byteCeiling (typically 0.9 * target_size per spec §4.6); the
// last writer always receives the remainder. Each output gets exactly one
// header row, matching the per-output header contract (spec §4.6). The
// schema of the first input is authoritative for every output (spec §6),
// mirroring the parquet codec's first.Schema() reuse.
func Combine(inputs []io.Reader, writers []io.Writer, byteCeiling cos.Bytes) error {
	if len(inputs) == 0 || len(writers) == 0 {
		return errors.New("combine requires at least one input and one output")
	}

	first := csv.NewInferringReader(inputs[0], csv.WithComma(','), csv.WithHeader(true), csv.WithGuessNumRows(inferenceRows))
	schema := first.Schema()

	outIdx := 0
	counter := &byteCountWriter{w: writers[outIdx]}
	writer := csv.NewWriter(counter, schema, csv.WithComma(','), csv.WithHeader(true))

	advance := func() {
		outIdx++
		counter = &byteCountWriter{w: writers[outIdx]}
		writer = csv.NewWriter(counter, schema, csv.WithComma(','), csv.WithHeader(true))
	}

	for i, in := range inputs {
		reader := first
		if i > 0 {
			reader = csv.NewInferringReader(in, csv.WithComma(','), csv.WithHeader(true), csv.WithGuessNumRows(inferenceRows))
		}

		for reader.Next() {
			if cos.Bytes(counter.n) >= byteCeiling && outIdx < len(writers)-1 {
				advance()
			}
			rec := reader.Record()
			if err := writer.Write(rec); err != nil {
				return errors.Wrapf(err, "write csv record from input %d", i)
			}
		}
		if err := reader.Err(); err != nil && err != io.EOF {
			reader.Release()
			return errors.Wrapf(err, "read csv input %d", i)
		}
		reader.Release()
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "flush csv output")
}

// byteCountWriter tracks bytes written so Combine can apply the 0.9 *
// target_size byte ceiling without re-stat-ing the destination after every
// record.
type byteCountWriter struct {
	w io.Writer
	n int64
}

func (c *byteCountWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
