package catalog

import (
	"fmt"

	"github.com/coldlake/coldlake/cmn"
	"github.com/coldlake/coldlake/cmn/cos"
)

// CSVField is one inferred column of a CSV object's schema.
type CSVField struct {
	Name string
	Type string // e.g. "int64", "float64", "utf8", "bool" — arrow-style type name
}

// CSVMeta is the CSV-specific slice of ObjectState (spec §3).
type CSVMeta struct {
	Schema      []CSVField
	Delimiter   rune
	Compression cmn.Compression
}

// DefaultCSVMeta returns the spec's defaults: comma delimiter, no compression.
func DefaultCSVMeta(schema []CSVField) CSVMeta {
	return CSVMeta{Schema: schema, Delimiter: ',', Compression: cmn.CompressionNone}
}

// ParquetMeta is the Parquet-specific slice of ObjectState (spec §3).
// NumRows is defined for Parquet only; CSV objects never set it.
type ParquetMeta struct {
	Schema  ParquetSchema
	NumRows int64
}

// ParquetSchema is a minimal root schema descriptor: field name + physical
// type name, enough to check cross-object schema compatibility (spec §4.6)
// without depending on the parquet-go type tree outside the codec package.
type ParquetSchema struct {
	Fields []ParquetField
}

type ParquetField struct {
	Name string
	Type string
}

// Equal reports whether two schemas declare the same fields in the same order.
func (s ParquetSchema) Equal(other ParquetSchema) bool {
	if len(s.Fields) != len(other.Fields) {
		return false
	}
	for i := range s.Fields {
		if s.Fields[i] != other.Fields[i] {
			return false
		}
	}
	return true
}

// ObjectState is an object's format-specific metadata plus its size.
type ObjectState struct {
	Format  cmn.Format
	Size    cos.Bytes
	CSV     *CSVMeta     // set iff Format == FormatCSV
	Parquet *ParquetMeta // set iff Format == FormatParquet
}

func NewCSVObjectState(meta CSVMeta, size cos.Bytes) ObjectState {
	return ObjectState{Format: cmn.FormatCSV, Size: size, CSV: &meta}
}

func NewParquetObjectState(meta ParquetMeta, size cos.Bytes) ObjectState {
	return ObjectState{Format: cmn.FormatParquet, Size: size, Parquet: &meta}
}

// NumRows returns the Parquet row count, or ok=false for CSV objects
// (spec §3: "num_rows is defined for Parquet, undefined for CSV").
func (o ObjectState) NumRows() (rows int64, ok bool) {
	if o.Parquet == nil {
		return 0, false
	}
	return o.Parquet.NumRows, true
}

func (o ObjectState) String() string {
	switch o.Format {
	case cmn.FormatParquet:
		return fmt.Sprintf("Object(format: parquet, rows: %d, size: %s)", o.Parquet.NumRows, o.Size)
	case cmn.FormatCSV:
		return fmt.Sprintf("Object(format: csv, size: %s)", o.Size)
	default:
		return fmt.Sprintf("Object(format: unknown, size: %s)", o.Size)
	}
}
