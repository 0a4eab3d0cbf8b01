package prediction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrArtifactMissing is returned when a model or scaler artifact does not exist.
var ErrArtifactMissing = errors.New("artifact missing")

// ArtifactSource reads named artifacts.
type ArtifactSource interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	// Location describes where artifacts are read from, for diagnostics.
	Location() string
}

// FileSource reads artifacts from a local directory.
type FileSource struct {
	Dir string
}

func (s FileSource) Fetch(_ context.Context, name string) ([]byte, error) {
	p := filepath.Join(s.Dir, name)
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, p)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return data, nil
}

func (s FileSource) Location() string {
	return "file:" + s.Dir
}

// S3GetObjectAPI is the part of the S3 client used by S3Source.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads artifacts from an S3 bucket under Prefix.
type S3Source struct {
	Client S3GetObjectAPI
	Bucket string
	Prefix string
}

// NewS3Source builds an S3 client from the default AWS configuration chain.
// Path-style addressing keeps S3-compatible local endpoints working.
func NewS3Source(ctx context.Context, bucket, prefix string) (*S3Source, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	client := s3.New(s3.Options{
		Region:       cfg.Region,
		Credentials:  cfg.Credentials,
		HTTPClient:   cfg.HTTPClient,
		BaseEndpoint: cfg.BaseEndpoint,
		UsePathStyle: true,
	})
	return &S3Source{Client: client, Bucket: bucket, Prefix: prefix}, nil
}

func (s *S3Source) Fetch(ctx context.Context, name string) ([]byte, error) {
	key := path.Join(s.Prefix, name)
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.Bucket), Key: aws.String(key)})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrArtifactMissing, s.Bucket, key)
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.Bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", s.Bucket, key, err)
	}
	return data, nil
}

func (s *S3Source) Location() string {
	return "s3://" + path.Join(s.Bucket, s.Prefix)
}
