package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"linernotes/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Source reads the catalog object from an S3 compatible bucket, for sites
// whose static assets are published to object storage.
type S3Source struct {
	Bucket string
	Key    string
	client s3iface.S3API
}

// NewS3Source parses an s3://bucket/key URI and builds a client from cfg.
// Static credentials are used when both keys are set; otherwise the default
// AWS credential chain applies.
func NewS3Source(uri string, cfg config.S3Config) (*S3Source, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return nil, err
	}

	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Source{
		Bucket: bucket,
		Key:    key,
		client: s3.New(sess),
	}, nil
}

// NewS3SourceWithClient uses an existing client, mainly for tests
func NewS3SourceWithClient(bucket, key string, client s3iface.S3API) *S3Source {
	return &S3Source{Bucket: bucket, Key: key, client: client}
}

func (s *S3Source) Name() string {
	return "s3://" + s.Bucket + "/" + s.Key
}

func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		var reqErr awserr.RequestFailure
		if errors.As(err, &reqErr) {
			return nil, &LoadError{
				Kind:       KindStatus,
				Source:     s.Name(),
				StatusCode: reqErr.StatusCode(),
				Err:        err,
			}
		}
		return nil, unreachable(s.Name(), err)
	}
	return out.Body, nil
}

func parseS3URI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("invalid S3 URI %q: %w", uri, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("invalid S3 URI %q: scheme must be s3", uri)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid S3 URI %q: expected s3://bucket/key", uri)
	}
	return bucket, key, nil
}
