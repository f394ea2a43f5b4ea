// Package archive exports built graph payloads to an S3-compatible bucket
// as case snapshots, so an investigation state can be attached to a case
// file and reloaded later.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/snappy"
	"github.com/google/uuid"

	"github.com/dmorval/linkscope/pkg/graph"
	"github.com/dmorval/linkscope/pkg/logging"
)

// Options configures the S3 client
type Options struct {
	Bucket string
	Prefix string
	Region string
	// Endpoint enables path-style addressing when set (MinIO and similar)
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Snapshot is the archived unit: the query that produced a payload plus
// the payload itself, stamped for the case file.
type Snapshot struct {
	ID         string        `json:"id"`
	CapturedAt time.Time     `json:"capturedAt"`
	Query      graph.Query   `json:"query"`
	Payload    graph.Payload `json:"payload"`
}

// Archiver uploads snapshots to a bucket
type Archiver struct {
	client *s3.Client
	bucket string
	prefix string
	logger logging.Logger
}

// New creates an archiver for the configured bucket
func New(ctx context.Context, opts Options, logger logging.Logger) (*Archiver, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("archive bucket is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if opts.Endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &Archiver{
		client: s3.NewFromConfig(cfg, s3opts...),
		bucket: opts.Bucket,
		prefix: opts.Prefix,
		logger: logger.With(logging.Component("archive")),
	}, nil
}

// Export uploads a snapshot of the payload and returns its object key
func (a *Archiver) Export(ctx context.Context, q graph.Query, p *graph.Payload) (string, error) {
	if p == nil {
		return "", fmt.Errorf("nothing to archive")
	}

	snap := Snapshot{
		ID:         uuid.NewString(),
		CapturedAt: time.Now().UTC(),
		Query:      q.WithDefaults(),
		Payload:    *p,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	blob := snappy.Encode(nil, data)

	key := a.objectKey(snap)
	contentType := "application/x-snappy-framed"
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(blob),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}

	a.logger.Info("snapshot archived",
		logging.Dataset(q.DatasetScope),
		logging.String("key", key),
		logging.Int("bytes", len(blob)))
	return key, nil
}

// Bucket returns the destination bucket name
func (a *Archiver) Bucket() string {
	return a.bucket
}

func (a *Archiver) objectKey(snap Snapshot) string {
	stamp := snap.CapturedAt.Format("20060102T150405Z")
	name := fmt.Sprintf("%s-%s.json.sz", stamp, snap.ID)
	return path.Join(a.prefix, snap.Query.DatasetScope, name)
}
