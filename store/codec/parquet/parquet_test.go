/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package parquet_test

import (
	"bytes"
	"io"
	"testing"

	goparquet "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"

	"github.com/coldlake/coldlake/store/codec/parquet"
)

type fareRow struct {
	TripID int64   `parquet:"trip_id"`
	Fare   float64 `parquet:"fare"`
}

func writeParquet(t *testing.T, rows []fareRow) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := goparquet.NewGenericWriter[fareRow](&buf)
	_, err := w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestReadObjectStateExtractsRowsAndSchema(t *testing.T) {
	data := writeParquet(t, []fareRow{{TripID: 1, Fare: 9.5}, {TripID: 2, Fare: 12.25}})

	meta, size, err := parquet.ReadObjectState(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.EqualValues(t, 2, meta.NumRows)
	require.Len(t, meta.Schema.Fields, 2)
	require.Greater(t, int64(size), int64(0))
}

func TestCombineSplitsAcrossOutputsByRowBudget(t *testing.T) {
	a := writeParquet(t, []fareRow{{TripID: 1, Fare: 1}, {TripID: 2, Fare: 2}, {TripID: 3, Fare: 3}})
	b := writeParquet(t, []fareRow{{TripID: 4, Fare: 4}})

	var out1, out2 bytes.Buffer
	err := parquet.Combine(
		[]parquet.Input{{R: bytes.NewReader(a), Size: int64(len(a))}, {R: bytes.NewReader(b), Size: int64(len(b))}},
		[]io.Writer{&out1, &out2},
		2, // rowsPerOutput
	)
	require.NoError(t, err)

	f1, err := goparquet.OpenFile(bytes.NewReader(out1.Bytes()), int64(out1.Len()))
	require.NoError(t, err)
	f2, err := goparquet.OpenFile(bytes.NewReader(out2.Bytes()), int64(out2.Len()))
	require.NoError(t, err)

	// Total rows preserved across the two outputs, first output capped near
	// the 2-row budget, remainder (including the final input) in the last.
	require.EqualValues(t, 4, f1.NumRows()+f2.NumRows())
	require.GreaterOrEqual(t, f1.NumRows(), int64(2))
}

func TestCombineRejectsEmptyInputsOrOutputs(t *testing.T) {
	err := parquet.Combine(nil, []io.Writer{&bytes.Buffer{}}, 10)
	require.Error(t, err)

	data := writeParquet(t, []fareRow{{TripID: 1, Fare: 1}})
	err = parquet.Combine([]parquet.Input{{R: bytes.NewReader(data), Size: int64(len(data))}}, nil, 10)
	require.Error(t, err)
}
