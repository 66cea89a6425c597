// Package source opens input files from the local filesystem or from S3 by
// s3://bucket/key location, decompressing .sz and .zst inputs transparently.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dd0wney/cluso-seqnet/pkg/export"
)

// ErrNotFound is returned when the location does not exist.
var ErrNotFound = errors.New("input not found")

const s3Scheme = "s3://"

// S3Client is the subset of the S3 API used to read objects.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configure the S3 client built on first use.
type S3Options struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Opener resolves locations to readers.
type Opener struct {
	opts S3Options

	mu     sync.Mutex
	client S3Client
}

// Option configures an Opener.
type Option func(*Opener)

// WithS3Client uses c instead of building a client from the AWS default config.
func WithS3Client(c S3Client) Option {
	return func(o *Opener) { o.client = c }
}

// WithS3Options sets region, endpoint and static credentials for the S3 client.
func WithS3Options(opts S3Options) Option {
	return func(o *Opener) { o.opts = opts }
}

// New creates an Opener.
func New(opts ...Option) *Opener {
	o := &Opener{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open returns a reader for location, decompressed according to its suffix.
func (o *Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	var (
		raw io.ReadCloser
		err error
	)
	if bucket, key, ok := ParseS3(location); ok {
		raw, err = o.openS3(ctx, bucket, key)
	} else {
		raw, err = openLocal(location)
	}
	if err != nil {
		return nil, err
	}

	dec, err := export.NewReader(raw, export.CompressionFor(location))
	if err != nil {
		raw.Close()
		return nil, err
	}
	return &readCloser{Reader: dec, closers: []io.Closer{dec, raw}}, nil
}

// Name returns the base file name of location without a compression suffix, which
// is what format detection looks at.
func Name(location string) string {
	if _, key, ok := ParseS3(location); ok {
		location = key
	}
	base := path.Base(strings.ReplaceAll(location, "\\", "/"))
	if export.CompressionFor(base) != export.None {
		base = strings.TrimSuffix(base, path.Ext(base))
	}
	return base
}

// ParseS3 splits an s3://bucket/key location.
func ParseS3(location string) (bucket, key string, ok bool) {
	if !strings.HasPrefix(location, s3Scheme) {
		return "", "", false
	}
	bucket, key, found := strings.Cut(strings.TrimPrefix(location, s3Scheme), "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

func openLocal(p string) (io.ReadCloser, error) {
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return f, err
}

func (o *Opener) openS3(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	client, err := o.s3Client(ctx)
	if err != nil {
		return nil, err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, bucket, key)
		}
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, bucket, key)
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

func (o *Opener) s3Client(ctx context.Context) (S3Client, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.client != nil {
		return o.client, nil
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if o.opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(o.opts.Region))
	}
	if o.opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.opts.AccessKeyID, o.opts.SecretAccessKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := o.opts.Endpoint
	o.client = s3.NewFromConfig(cfg, func(so *s3.Options) {
		if endpoint != "" {
			so.BaseEndpoint = aws.String(endpoint)
			so.UsePathStyle = true
		}
	})
	return o.client, nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
