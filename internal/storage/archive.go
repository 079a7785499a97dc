// Package storage archives uploaded files to an S3-compatible bucket (Cloudflare R2).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"branchdesk-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archive uploads objects to the configured bucket. A disabled Archive
// accepts every call and stores nothing.
type Archive struct {
	client putObjectAPI
	bucket string
}

func NewArchive(ctx context.Context, cfg *config.Config) (*Archive, error) {
	a := cfg.Archive
	if !a.Enabled {
		return &Archive{}, nil
	}
	if a.Bucket == "" || a.AccessKey == "" || a.SecretKey == "" {
		return nil, fmt.Errorf("archive enabled but bucket or credentials are missing")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(a.AccessKey, a.SecretKey, "")),
		awsconfig.WithRegion(a.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("configure archive client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if a.Endpoint != "" {
			o.BaseEndpoint = aws.String(a.Endpoint)
		}
	})
	return &Archive{client: client, bucket: a.Bucket}, nil
}

func (a *Archive) Enabled() bool {
	return a != nil && a.client != nil
}

// Put stores data under key and returns the key
func (a *Archive) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if !a.Enabled() {
		return "", nil
	}
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

// ImportKey names the archived copy of a payment workbook
func ImportKey(userID int, month string, year int, filename string, at time.Time) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload.xlsx"
	}
	return fmt.Sprintf("imports/payments/%d/%d-%s/%s_%s",
		userID, year, strings.ToLower(month), at.Format("20060102_150405"), base)
}
