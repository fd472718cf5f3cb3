// Package storage pulls carrier invoice files from the shared S3 drop
// bucket into the local working directory before a run.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"FreightRecon/internal/config"
)

// Bucket is a read-only view of the invoice drop bucket. Carriers (or the
// ops team) land files under <prefix>/<period>/.
type Bucket struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewBucketFromEnv builds a Bucket from FREIGHT_S3_BUCKET, FREIGHT_S3_PREFIX
// and FREIGHT_S3_REGION. Returns (nil, nil) when no bucket is configured;
// the pipeline then reads the local directory only.
func NewBucketFromEnv(ctx context.Context) (*Bucket, error) {
	bucket := config.Env("FREIGHT_S3_BUCKET", "")
	if bucket == "" {
		return nil, nil
	}
	region := config.Env("FREIGHT_S3_REGION", "us-east-1")
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &Bucket{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: strings.Trim(config.Env("FREIGHT_S3_PREFIX", "invoices"), "/"),
	}, nil
}

// SyncInvoices downloads every invoice object for the period that is not
// already present in destDir. Returns how many files were fetched.
func (b *Bucket) SyncInvoices(ctx context.Context, period, destDir string) (int, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return 0, fmt.Errorf("create invoice dir %s: %w", destDir, err)
	}
	prefix := b.prefix + "/" + period + "/"

	fetched := 0
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fetched, fmt.Errorf("list s3 %s/%s: %w", b.bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			name := path.Base(key)
			if !invoiceExt(name) {
				continue
			}
			local := filepath.Join(destDir, name)
			if _, err := os.Stat(local); err == nil {
				continue
			}
			if err := b.download(ctx, key, local); err != nil {
				return fetched, err
			}
			fetched++
		}
	}
	return fetched, nil
}

func (b *Bucket) download(ctx context.Context, key, local string) error {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("get s3 object %s: %w", key, err)
	}
	defer out.Body.Close()

	tmp := local + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(f, out.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("download %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, local)
}

func invoiceExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls", ".csv":
		return true
	}
	return false
}
