package store

import (
	"bytes"
	"context"
	"io"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"

	"github.com/coldlake/coldlake/catalog"
	"github.com/coldlake/coldlake/cmn"
	"github.com/coldlake/coldlake/cmn/nlog"
	"github.com/coldlake/coldlake/store/codec/csvmeta"
	parquetcodec "github.com/coldlake/coldlake/store/codec/parquet"
)

// S3Store is the Protocol.S3 Store implementation. The Bucket named in a
// DatasetPath is the AWS bucket; the S3 key is the dataset's relative
// path joined with the partition segments and object key, without the
// bucket prefix FileStore uses on disk.
type S3Store struct {
	client *s3.Client
}

// interface guard
var _ Store = (*S3Store)(nil)

// NewS3Store builds a client from the ambient AWS configuration (env vars,
// shared config/credentials files, or an attached role) the same way the
// SDK's own examples and aws-sdk-go-v2-manager.go do. accessKey/secretKey,
// if both non-empty, pin a static credential pair instead — the S3
// counterpart to azure.go's explicit NewSharedKeyCredential path, for
// config-supplied credentials rather than the ambient chain.
func NewS3Store(ctx context.Context, accessKey, secretKey string) (*S3Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	return &S3Store{client: s3.NewFromConfig(cfg)}, nil
}

func s3DatasetPrefix(path cmn.DatasetPath) string {
	return strings.TrimSuffix(path.Path, "/") + "/"
}

func s3PartitionPrefix(path cmn.PartitionPath) string {
	return s3DatasetPrefix(path.Dataset) + path.Partition.Path() + "/"
}

func s3ObjectKey(path cmn.ObjectPath) string {
	return s3PartitionPrefix(path.Partition) + path.Key.String()
}

func (s *S3Store) ListPartitions(ctx context.Context, path cmn.DatasetPath) ([]cmn.Partition, error) {
	prefix := s3DatasetPrefix(path)
	out := make([]cmn.Partition, 0, 16)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    &path.Bucket.Name,
		Prefix:    &prefix,
		Delimiter: ptr("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &ErrIO{Op: "list partitions " + prefix, Err: err}
		}
		for _, cp := range page.CommonPrefixes {
			segment := strings.TrimSuffix(strings.TrimPrefix(*cp.Prefix, prefix), "/")
			key, value, err := cmn.ParsePartitionSegment(segment)
			if err != nil {
				return nil, &ErrInvalidPartition{Segment: segment}
			}
			out = append(out, cmn.NewPartition(key, value))
		}
	}
	return out, nil
}

func (s *S3Store) ListObjects(ctx context.Context, path cmn.PartitionPath) ([]cmn.ObjectKey, error) {
	prefix := s3PartitionPrefix(path)
	out := make([]cmn.ObjectKey, 0, 16)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    &path.Dataset.Bucket.Name,
		Prefix:    &prefix,
		Delimiter: ptr("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &ErrIO{Op: "list objects " + prefix, Err: err}
		}
		for _, obj := range page.Contents {
			out = append(out, cmn.NewObjectKey(strings.TrimPrefix(*obj.Key, prefix)))
		}
	}
	return out, nil
}

func (s *S3Store) ReadObject(ctx context.Context, path cmn.ObjectPath) (catalog.ObjectState, error) {
	format := path.Key.InferFormat()
	if format == cmn.FormatUnknown {
		return catalog.ObjectState{}, &ErrCannotInferFormat{Path: path}
	}

	key := s3ObjectKey(path)
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &path.Partition.Dataset.Bucket.Name,
		Key:    &key,
	})
	if err != nil {
		return catalog.ObjectState{}, &ErrIO{Op: "get object " + key, Err: err}
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return catalog.ObjectState{}, &ErrIO{Op: "read object body " + key, Err: err}
	}
	r := bytes.NewReader(buf)

	switch format {
	case cmn.FormatParquet:
		meta, size, err := parquetcodec.ReadObjectState(r, int64(len(buf)))
		if err != nil {
			return catalog.ObjectState{}, &ErrCodec{Path: path, Err: err}
		}
		return catalog.NewParquetObjectState(meta, size), nil
	case cmn.FormatCSV:
		meta, size, err := csvmeta.ReadObjectState(r)
		if err != nil {
			return catalog.ObjectState{}, &ErrCodec{Path: path, Err: err}
		}
		return catalog.NewCSVObjectState(meta, size), nil
	default:
		return catalog.ObjectState{}, &ErrCannotInferFormat{Path: path}
	}
}

// MoveObject copies src to tgt then deletes src: S3 has no rename verb.
func (s *S3Store) MoveObject(ctx context.Context, src, tgt cmn.ObjectPath) error {
	srcBucket := src.Partition.Dataset.Bucket.Name
	tgtBucket := tgt.Partition.Dataset.Bucket.Name
	srcKey, tgtKey := s3ObjectKey(src), s3ObjectKey(tgt)
	copySource := srcBucket + "/" + srcKey

	if _, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     &tgtBucket,
		Key:        &tgtKey,
		CopySource: &copySource,
	}); err != nil {
		return &ErrIO{Op: "copy " + copySource + " -> " + tgtKey, Err: err}
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &srcBucket, Key: &srcKey}); err != nil {
		return &ErrIO{Op: "delete after copy " + srcKey, Err: err}
	}
	nlog.Infof("moved %s -> %s", src, tgt)
	return nil
}

func (s *S3Store) RemoveObject(ctx context.Context, path cmn.ObjectPath) error {
	bucket := path.Partition.Dataset.Bucket.Name
	key := s3ObjectKey(path)
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &bucket, Key: &key}); err != nil {
		return &ErrIO{Op: "delete " + key, Err: err}
	}
	return nil
}

// RemovePartition deletes every object under the partition prefix: S3 has
// no directory entries to remove once they're empty.
func (s *S3Store) RemovePartition(ctx context.Context, path cmn.PartitionPath) error {
	bucket := path.Dataset.Bucket.Name
	prefix := s3PartitionPrefix(path)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{Bucket: &bucket, Prefix: &prefix})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return &ErrIO{Op: "list for remove partition " + prefix, Err: err}
		}
		ids := make([]types.ObjectIdentifier, len(page.Contents))
		for i, obj := range page.Contents {
			ids[i] = types.ObjectIdentifier{Key: obj.Key}
		}
		if len(ids) == 0 {
			continue
		}
		if _, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: &bucket,
			Delete: &types.Delete{Objects: ids},
		}); err != nil {
			return &ErrIO{Op: "delete partition objects " + prefix, Err: err}
		}
	}
	return nil
}

func (s *S3Store) RebalanceObjects(
	ctx context.Context, inputs, outputs []cmn.ObjectPath, target RebalanceTarget,
) ([]catalog.ObjectState, error) {
	format, err := rebalanceFormat(inputs)
	if err != nil {
		return nil, err
	}
	if err := checkFormatMatchesTarget(format, target); err != nil {
		return nil, err
	}

	inputBufs := make([][]byte, len(inputs))
	for i, in := range inputs {
		bucket := in.Partition.Dataset.Bucket.Name
		key := s3ObjectKey(in)
		resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
		if err != nil {
			return nil, &ErrIO{Op: "get rebalance input " + key, Err: err}
		}
		buf, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, &ErrIO{Op: "read rebalance input " + key, Err: err}
		}
		inputBufs[i] = buf
	}

	outputBufs := make([]*bytes.Buffer, len(outputs))
	for i := range outputs {
		outputBufs[i] = &bytes.Buffer{}
	}

	if err := combineS3(format, target, inputBufs, outputBufs); err != nil {
		return nil, err
	}

	results := make([]catalog.ObjectState, len(outputs))
	for i, out := range outputs {
		bucket := out.Partition.Dataset.Bucket.Name
		key := s3ObjectKey(out)
		body := outputBufs[i].Bytes()
		if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: &bucket,
			Key:    &key,
			Body:   bytes.NewReader(body),
		}); err != nil {
			return nil, &ErrIO{Op: "put rebalance output " + key, Err: err}
		}
		state, err := s.ReadObject(ctx, out)
		if err != nil {
			return nil, err
		}
		results[i] = state
	}
	return results, nil
}

func combineS3(format cmn.Format, target RebalanceTarget, inputBufs [][]byte, outputBufs []*bytes.Buffer) error {
	switch format {
	case cmn.FormatParquet:
		inputs := make([]parquetcodec.Input, len(inputBufs))
		for i, buf := range inputBufs {
			inputs[i] = parquetcodec.Input{R: bytes.NewReader(buf), Size: int64(len(buf))}
		}
		writers := make([]io.Writer, len(outputBufs))
		for i, b := range outputBufs {
			writers[i] = b
		}
		return errors.Wrap(parquetcodec.Combine(inputs, writers, target.Rows), "combine parquet rebalance")
	case cmn.FormatCSV:
		readers := make([]io.Reader, len(inputBufs))
		for i, buf := range inputBufs {
			readers[i] = bytes.NewReader(buf)
		}
		writers := make([]io.Writer, len(outputBufs))
		for i, b := range outputBufs {
			writers[i] = b
		}
		byteCeiling := target.Size * 9 / 10
		return errors.Wrap(csvmeta.Combine(readers, writers, byteCeiling), "combine csv rebalance")
	default:
		return &ErrCannotInferFormat{}
	}
}

func ptr(s string) *string { return &s }
