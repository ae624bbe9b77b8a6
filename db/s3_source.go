package db

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"students-api-go/models"
)

func isS3Location(location string) bool {
	return strings.HasPrefix(location, "s3://")
}

// ParseS3Location splits s3://bucket/path/to/key into bucket and key
func ParseS3Location(location string) (bucket, key string, err error) {
	parts := strings.SplitN(strings.TrimPrefix(location, "s3://"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid s3 location %q: want s3://bucket/key", location)
	}
	return parts[0], parts[1], nil
}

// LoadS3 downloads the object into memory and decodes it by the key's extension.
// Credentials and region come from the usual AWS environment and shared config.
func LoadS3(ctx context.Context, location string) ([]models.StudentRecord, error) {
	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create aws session: %w", ErrSourceUnavailable, err)
	}

	buf := aws.NewWriteAtBuffer([]byte{})
	downloader := s3manager.NewDownloader(sess)
	n, err := downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %w", ErrSourceUnavailable, location, err)
	}
	slog.Debug("downloaded dataset from s3", "bucket", bucket, "key", key, "bytes", n)

	return decode(key, bytes.NewReader(buf.Bytes()))
}
