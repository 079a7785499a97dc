package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"branchdesk-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestArchive_Put(t *testing.T) {
	fake := &fakeS3{}
	a := &Archive{client: fake, bucket: "uploads"}

	key, err := a.Put(context.Background(), "imports/x.xlsx", "application/octet-stream", []byte("PK"))
	require.NoError(t, err)
	assert.Equal(t, "imports/x.xlsx", key)
	assert.Equal(t, "uploads", aws.ToString(fake.input.Bucket))
	assert.Equal(t, []byte("PK"), fake.body)
}

func TestArchive_PutError(t *testing.T) {
	a := &Archive{client: &fakeS3{err: errors.New("denied")}, bucket: "uploads"}
	_, err := a.Put(context.Background(), "k", "text/plain", nil)
	assert.ErrorContains(t, err, "denied")
}

func TestArchive_Disabled(t *testing.T) {
	a, err := NewArchive(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.False(t, a.Enabled())

	key, err := a.Put(context.Background(), "k", "text/plain", []byte("x"))
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestArchive_EnabledWithoutCredentials(t *testing.T) {
	cfg := &config.Config{}
	cfg.Archive.Enabled = true
	cfg.Archive.Bucket = "uploads"
	_, err := NewArchive(context.Background(), cfg)
	assert.Error(t, err)
}

func TestImportKey(t *testing.T) {
	at := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "imports/payments/7/2024-march/20240305_143000_parties.xlsx",
		ImportKey(7, "March", 2024, `C:\Users\clerk\parties.xlsx`, at))
	assert.Equal(t, "imports/payments/7/2024-march/20240305_143000_upload.xlsx",
		ImportKey(7, "March", 2024, "", at))
}
