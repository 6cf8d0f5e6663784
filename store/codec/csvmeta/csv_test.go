/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package csvmeta_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coldlake/coldlake/cmn/cos"
	"github.com/coldlake/coldlake/store/codec/csvmeta"
)

func readSeeker(s string) io.ReadSeeker {
	return bytes.NewReader([]byte(s))
}

func TestReadObjectStateInfersSchemaAndSize(t *testing.T) {
	content := "id,value\n1,10\n2,20\n3,30\n"

	meta, size, err := csvmeta.ReadObjectState(readSeeker(content))
	require.NoError(t, err)
	require.Len(t, meta.Schema, 2)
	require.EqualValues(t, len(content), size)
}

func TestCombineSplitsAcrossOutputsByByteCeiling(t *testing.T) {
	a := strings.NewReader("id,value\n1,10\n2,20\n")
	b := strings.NewReader("id,value\n3,30\n")

	var out1, out2 bytes.Buffer
	err := csvmeta.Combine([]io.Reader{a, b}, []io.Writer{&out1, &out2}, cos.NewBytes(15))
	require.NoError(t, err)

	require.Contains(t, out1.String(), "id,value")
	require.Contains(t, out1.String(), "1,10")
	// Every output carries its own header row, and the remainder lands in
	// the last writer regardless of the byte ceiling.
	require.Contains(t, out2.String(), "id,value")
	require.Contains(t, out2.String(), "3,30")
}

func TestCombineRejectsEmptyInputsOrOutputs(t *testing.T) {
	err := csvmeta.Combine(nil, []io.Writer{&bytes.Buffer{}}, cos.NewBytes(10))
	require.Error(t, err)

	err = csvmeta.Combine([]io.Reader{strings.NewReader("id\n1\n")}, nil, cos.NewBytes(10))
	require.Error(t, err)
}
