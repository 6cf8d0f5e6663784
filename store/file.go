package store

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/coldlake/coldlake/catalog"
	"github.com/coldlake/coldlake/cmn"
	"github.com/coldlake/coldlake/cmn/cos"
	"github.com/coldlake/coldlake/cmn/nlog"
	"github.com/coldlake/coldlake/store/codec/csvmeta"
	parquetcodec "github.com/coldlake/coldlake/store/codec/parquet"
)

// FileStore is the Protocol.File Store implementation: the authoritative
// serialization is <root>/<bucket>/<dataset>/<k=v>/.../<object_key> (spec
// §6). Grounded directly on the prototype's store.rs FileStore.
type FileStore struct {
	root string
}

// interface guard
var _ Store = (*FileStore)(nil)

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (s *FileStore) fsPath(rel string) string {
	return filepath.Join(s.root, rel)
}

func (s *FileStore) ListPartitions(_ context.Context, path cmn.DatasetPath) ([]cmn.Partition, error) {
	fsPath := s.fsPath(path.FSPath())
	entries, err := os.ReadDir(fsPath)
	if err != nil {
		return nil, &ErrIO{Op: "list partitions " + fsPath, Err: err}
	}

	// NOTE: depth > 1 partition schemes are out of scope (spec §9).
	out := make([]cmn.Partition, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		key, value, err := cmn.ParsePartitionSegment(e.Name())
		if err != nil {
			return nil, &ErrInvalidPartition{Segment: e.Name()}
		}
		out = append(out, cmn.NewPartition(key, value))
	}
	return out, nil
}

func (s *FileStore) ListObjects(_ context.Context, path cmn.PartitionPath) ([]cmn.ObjectKey, error) {
	fsPath := s.fsPath(path.FSPath())
	entries, err := os.ReadDir(fsPath)
	if err != nil {
		return nil, &ErrIO{Op: "list objects " + fsPath, Err: err}
	}

	out := make([]cmn.ObjectKey, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, cmn.NewObjectKey(e.Name()))
	}
	return out, nil
}

func (s *FileStore) ReadObject(_ context.Context, path cmn.ObjectPath) (catalog.ObjectState, error) {
	format := path.Key.InferFormat()
	if format == cmn.FormatUnknown {
		return catalog.ObjectState{}, &ErrCannotInferFormat{Path: path}
	}

	f, err := os.Open(s.fsPath(path.FSPath()))
	if err != nil {
		return catalog.ObjectState{}, &ErrIO{Op: "open " + path.String(), Err: err}
	}
	defer f.Close()

	switch format {
	case cmn.FormatParquet:
		info, statErr := f.Stat()
		if statErr != nil {
			return catalog.ObjectState{}, &ErrIO{Op: "stat " + path.String(), Err: statErr}
		}
		meta, size, err := parquetcodec.ReadObjectState(f, info.Size())
		if err != nil {
			return catalog.ObjectState{}, &ErrCodec{Path: path, Err: err}
		}
		return catalog.NewParquetObjectState(meta, size), nil
	case cmn.FormatCSV:
		meta, size, err := csvmeta.ReadObjectState(f)
		if err != nil {
			return catalog.ObjectState{}, &ErrCodec{Path: path, Err: err}
		}
		return catalog.NewCSVObjectState(meta, size), nil
	default:
		return catalog.ObjectState{}, &ErrCannotInferFormat{Path: path}
	}
}

func (s *FileStore) MoveObject(_ context.Context, src, tgt cmn.ObjectPath) error {
	tgtPartDir := s.fsPath(tgt.Partition.FSPath())
	if err := os.MkdirAll(tgtPartDir, 0o755); err != nil {
		return &ErrIO{Op: "mkdir " + tgtPartDir, Err: err}
	}
	srcPath, tgtPath := s.fsPath(src.FSPath()), s.fsPath(tgt.FSPath())
	if err := os.Rename(srcPath, tgtPath); err != nil {
		return &ErrIO{Op: "rename " + srcPath + " -> " + tgtPath, Err: err}
	}
	nlog.Infof("moved %s -> %s", src, tgt)
	return nil
}

func (s *FileStore) RemoveObject(_ context.Context, path cmn.ObjectPath) error {
	fsPath := s.fsPath(path.FSPath())
	if err := os.Remove(fsPath); err != nil {
		return &ErrIO{Op: "remove " + fsPath, Err: err}
	}
	return nil
}

func (s *FileStore) RemovePartition(_ context.Context, path cmn.PartitionPath) error {
	fsPath := s.fsPath(path.FSPath())
	if err := os.Remove(fsPath); err != nil {
		return &ErrIO{Op: "remove partition dir " + fsPath, Err: err}
	}
	return nil
}

func (s *FileStore) RebalanceObjects(
	_ context.Context, inputs, outputs []cmn.ObjectPath, target RebalanceTarget,
) ([]catalog.ObjectState, error) {
	format, err := rebalanceFormat(inputs)
	if err != nil {
		return nil, err
	}
	if err := checkFormatMatchesTarget(format, target); err != nil {
		return nil, err
	}

	inputFiles := make([]*os.File, len(inputs))
	for i, in := range inputs {
		f, err := os.Open(s.fsPath(in.FSPath()))
		if err != nil {
			return nil, &ErrIO{Op: "open rebalance input " + in.String(), Err: err}
		}
		defer f.Close()
		inputFiles[i] = f
	}

	for _, out := range outputs {
		dir := s.fsPath(out.Partition.FSPath())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &ErrIO{Op: "mkdir " + dir, Err: err}
		}
	}

	outputFiles := make([]*os.File, len(outputs))
	for i, out := range outputs {
		f, err := os.Create(s.fsPath(out.FSPath()))
		if err != nil {
			return nil, &ErrIO{Op: "create rebalance output " + out.String(), Err: err}
		}
		defer f.Close()
		outputFiles[i] = f
	}

	if err := combine(format, target, inputFiles, outputFiles); err != nil {
		return nil, err
	}
	for _, f := range outputFiles {
		if err := f.Sync(); err != nil {
			return nil, &ErrIO{Op: "sync rebalance output " + f.Name(), Err: err}
		}
	}

	// re-open each written output and extract its metadata fresh (spec §6
	// "Return one ObjectState per output, each obtained by re-opening the
	// written file").
	results := make([]catalog.ObjectState, len(outputs))
	for i, out := range outputs {
		state, err := s.ReadObject(context.Background(), out)
		if err != nil {
			return nil, err
		}
		results[i] = state
	}
	return results, nil
}

func rebalanceFormat(inputs []cmn.ObjectPath) (cmn.Format, error) {
	format := inputs[0].Key.InferFormat()
	if format == cmn.FormatUnknown {
		return format, &ErrCannotInferFormat{Path: inputs[0]}
	}
	return format, nil
}

func checkFormatMatchesTarget(format cmn.Format, target RebalanceTarget) error {
	switch {
	case format == cmn.FormatCSV && target.Kind == RebalanceByRows:
		return &ErrCannotCombineFormatAndTarget{Format: format, Target: target.String()}
	case format == cmn.FormatParquet && target.Kind == RebalanceBySize:
		return &ErrCannotCombineFormatAndTarget{Format: format, Target: target.String()}
	default:
		return nil
	}
}

func combine(format cmn.Format, target RebalanceTarget, inputFiles []*os.File, outputFiles []*os.File) error {
	switch format {
	case cmn.FormatParquet:
		inputs := make([]parquetcodec.Input, len(inputFiles))
		for i, f := range inputFiles {
			info, err := f.Stat()
			if err != nil {
				return &ErrIO{Op: "stat " + f.Name(), Err: err}
			}
			inputs[i] = parquetcodec.Input{R: f, Size: info.Size()}
		}
		writers := make([]io.Writer, len(outputFiles))
		for i, f := range outputFiles {
			writers[i] = f
		}
		if err := parquetcodec.Combine(inputs, writers, target.Rows); err != nil {
			return errors.Wrap(err, "combine parquet rebalance")
		}
		return nil
	case cmn.FormatCSV:
		readers := make([]io.Reader, len(inputFiles))
		for i, f := range inputFiles {
			readers[i] = f
		}
		writers := make([]io.Writer, len(outputFiles))
		for i, f := range outputFiles {
			writers[i] = f
		}
		byteCeiling := cos.Bytes(float64(target.Size) * 0.9)
		if err := csvmeta.Combine(readers, writers, byteCeiling); err != nil {
			return errors.Wrap(err, "combine csv rebalance")
		}
		return nil
	default:
		return &ErrCannotInferFormat{}
	}
}
