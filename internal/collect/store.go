package collect

import (
	"benritz/bonds/internal/types"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/parquet-go/parquet-go"
)

// objectKey is the slash separated location of a collection below the storage root,
// YYYY/MM/DD/<source>.parquet for the settlement date in UTC.
func objectKey(collected *CollectedBonds) string {
	d := collected.SettlementDate.UTC()
	return fmt.Sprintf("%04d/%02d/%02d/%s.parquet", d.Year(), d.Month(), d.Day(), collected.Source)
}

// encodeBonds writes one parquet row per bond. Failed bonds are not stored.
func encodeBonds(w io.Writer, bonds []*types.Bond) error {
	rows := make([]types.Bond, len(bonds))
	for i, b := range bonds {
		rows[i] = *b
	}

	pw := parquet.NewGenericWriter[types.Bond](w)

	if _, err := pw.Write(rows); err != nil {
		pw.Close()
		return fmt.Errorf("failed to write bonds: %w", err)
	}

	if err := pw.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	return nil
}

func StoreToPath(ctx context.Context, collected *CollectedBonds, basepath string) (string, error) {
	outPath := filepath.Join(basepath, filepath.FromSlash(objectKey(collected)))

	if err := os.MkdirAll(filepath.Dir(outPath), os.ModePerm); err != nil {
		return "", err
	}

	file, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := encodeBonds(file, collected.Bonds); err != nil {
		return "", err
	}

	return outPath, file.Close()
}

type S3Path struct {
	Bucket string
	Prefix string
}

func (p *S3Path) String() string {
	return "s3://" + path.Join(p.Bucket, p.Prefix)
}

func ParseS3(s string) (*S3Path, error) {
	rest, ok := strings.CutPrefix(s, "s3://")
	if !ok {
		return nil, fmt.Errorf("path must start with s3://")
	}

	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return nil, fmt.Errorf("missing bucket in s3 path")
	}

	return &S3Path{
		Bucket: bucket,
		Prefix: strings.TrimSuffix(prefix, "/"),
	}, nil
}

// ObjectPutter is the part of *s3.Client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func StoreToS3(ctx context.Context, collected *CollectedBonds, client ObjectPutter, dst *S3Path) (string, error) {
	var buf bytes.Buffer
	if err := encodeBonds(&buf, collected.Bonds); err != nil {
		return "", err
	}

	key := path.Join(dst.Prefix, objectKey(collected))

	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(dst.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to s3://%s/%s: %w", dst.Bucket, key, err)
	}

	return "s3://" + dst.Bucket + "/" + key, nil
}
