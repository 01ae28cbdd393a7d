package dataset

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Source loads the six CSV files from an S3 bucket under a key prefix.
type S3Source struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Source creates an S3-backed dataset source. profile selects a shared
// AWS config profile; empty uses the default credential chain.
func NewS3Source(ctx context.Context, bucket, region, prefix, profile string) (*S3Source, error) {
	var cfg aws.Config
	var err error

	if profile != "" {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithSharedConfigProfile(profile),
		)
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for dataset source: %w", err)
	}

	return &S3Source{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: strings.TrimSuffix(prefix, "/"),
	}, nil
}

func (s *S3Source) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

// Load fetches every required file with GetObject. A missing object maps to
// MissingFileError, same as a missing local file.
func (s *S3Source) Load(ctx context.Context) (*RawTables, error) {
	return loadTables(func(name string) (io.ReadCloser, error) {
		resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.key(name)),
		})
		if err != nil {
			if isS3NotFound(err) {
				return nil, &MissingFileError{File: name}
			}
			return nil, fmt.Errorf("S3 GetObject %s/%s: %w", s.bucket, s.key(name), err)
		}
		return resp.Body, nil
	})
}

// isS3NotFound reports whether an S3 error is a missing-object condition.
// AWS SDK v2 surfaces these as NoSuchKey or NotFound.
func isS3NotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "NoSuchKey") ||
		strings.Contains(msg, "NotFound") ||
		strings.Contains(msg, "status code: 404")
}
