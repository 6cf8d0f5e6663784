// Package parquet extracts Parquet metadata and combines Parquet files
// under a row budget (spec §4.6, §6). Grounded on the prototype's
// parquet.rs (footer/row-group introspection, row-budgeted combine) and
// on arrowarc's use of github.com/parquet-go/parquet-go for the same
// purpose (integrations/filesystem/parquet.go, convert/parquet_to_csv.go).
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package parquet

import (
	"io"

	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"

	"github.com/coldlake/coldlake/catalog"
	"github.com/coldlake/coldlake/cmn/cos"
)

// ReadObjectState opens a Parquet file via its footer and extracts:
// num_rows from the file metadata, and the summed row-group byte sizes as
// the object's size, plus row-group 0's schema as the object's schema
// (spec §6 "Parquet metadata contract").
func ReadObjectState(r io.ReaderAt, size int64) (catalog.ParquetMeta, cos.Bytes, error) {
	f, err := parquet.OpenFile(r, size)
	if err != nil {
		return catalog.ParquetMeta{}, 0, errors.Wrap(err, "open parquet footer")
	}

	var total cos.Bytes
	for _, rg := range f.RowGroups() {
		total += cos.NewBytes(rowGroupByteSize(rg))
	}

	schema := schemaOf(f.Schema())
	meta := catalog.ParquetMeta{
		Schema:  schema,
		NumRows: f.NumRows(),
	}
	return meta, total, nil
}

// rowGroupByteSize reports a row group's on-disk size. parquet-go's
// RowGroup doesn't expose this directly on the interface; the concrete
// file row group type does, so we type-assert for it and fall back to 0
// (rare: synthetic in-memory row groups with no backing byte range).
func rowGroupByteSize(rg parquet.RowGroup) int64 {
	if sized, ok := rg.(interface{ ByteSize() int64 }); ok {
		return sized.ByteSize()
	}
	return 0
}

func schemaOf(s *parquet.Schema) catalog.ParquetSchema {
	fields := s.Fields()
	out := make([]catalog.ParquetField, len(fields))
	for i, f := range fields {
		out[i] = catalog.ParquetField{Name: f.Name(), Type: f.Type().String()}
	}
	return catalog.ParquetSchema{Fields: out}
}

// Input is one Parquet source for Combine.
type Input struct {
	R    io.ReaderAt
	Size int64
}

const readBatchSize = 2048 * 100

// Combine streams rows from inputs, in order, into len(writers) outputs,
// advancing to the next writer once the current one has accumulated at
// least rowsPerOutput rows and a writer remains — the last writer always
// receives the remainder regardless of target (spec §4.6, §6). Schema is
// taken from inputs[0] and assumed compatible across all inputs.
func Combine(inputs []Input, writers []io.Writer, rowsPerOutput int64) error {
	if len(inputs) == 0 || len(writers) == 0 {
		return errors.New("combine requires at least one input and one output")
	}

	first, err := parquet.OpenFile(inputs[0].R, inputs[0].Size)
	if err != nil {
		return errors.Wrap(err, "open first parquet input")
	}
	schema := first.Schema()

	outIdx := 0
	w := parquet.NewWriter(writers[outIdx], schema)
	var writtenInCurrent int64

	advance := func() error {
		if err := w.Close(); err != nil {
			return errors.Wrap(err, "close parquet output")
		}
		outIdx++
		w = parquet.NewWriter(writers[outIdx], schema)
		writtenInCurrent = 0
		return nil
	}

	for i, in := range inputs {
		f := first
		if i > 0 {
			f, err = parquet.OpenFile(in.R, in.Size)
			if err != nil {
				return errors.Wrapf(err, "open parquet input %d", i)
			}
		}

		reader := parquet.NewReader(f, schema)
		rows := make([]parquet.Row, readBatchSize)
		for {
			n, readErr := reader.ReadRows(rows)
			if n > 0 {
				if writtenInCurrent >= rowsPerOutput && outIdx < len(writers)-1 {
					if err := advance(); err != nil {
						return err
					}
				}
				written, writeErr := w.WriteRows(rows[:n])
				if writeErr != nil {
					return errors.Wrap(writeErr, "write parquet rows")
				}
				writtenInCurrent += int64(written)
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				return errors.Wrap(readErr, "read parquet rows")
			}
		}
	}

	return errors.Wrap(w.Close(), "close final parquet output")
}
