package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      string

	putErr    error
	putBucket string
	putKey    string
	putBody   []byte
	putOpts   minioLib.PutObjectOptions
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeMinio) MakeBucket(_ context.Context, bucket string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = bucket
	return f.makeBucketErr
}

func (f *fakeMinio) PutObject(_ context.Context, bucket string, key string, r io.Reader, _ int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	if f.putErr != nil {
		return minioLib.UploadInfo{}, f.putErr
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return minioLib.UploadInfo{}, err
	}
	f.putBucket, f.putKey, f.putBody, f.putOpts = bucket, key, body, opts
	return minioLib.UploadInfo{Bucket: bucket, Key: key, Size: int64(len(body))}, nil
}

func TestNewClientWithAPI_BucketExists(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(ctx, api, "b")
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, "b", c.bucket)
	assert.Empty(t, api.madeBucket)
}

func TestNewClientWithAPI_CreateBucket(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: false}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	require.NoError(t, err)
	assert.Equal(t, "bucket", c.bucket)
	assert.Equal(t, "bucket", api.madeBucket)
}

func TestNewClientWithAPI_BucketExistsError(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExistsErr: errors.New("boom")}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	assert.Nil(t, c)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ensure bucket exists")
}

func TestNewClientWithAPI_MakeBucketError(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: false, makeBucketErr: errors.New("fail")}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	assert.Nil(t, c)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create bucket")
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name            string
		key             string
		wantContentType string
	}{
		{name: "json event", key: "reuse/2026/10/16/a.json", wantContentType: "application/json"},
		{name: "no extension", key: "reuse/raw", wantContentType: "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeMinio{bucketExists: true}
			c, err := NewClientWithAPI(ctx, api, "audit")
			require.NoError(t, err)

			require.NoError(t, c.Upload(ctx, tt.key, bytes.NewBufferString(`{"a":1}`)))
			assert.Equal(t, "audit", api.putBucket)
			assert.Equal(t, tt.key, api.putKey)
			assert.Equal(t, `{"a":1}`, string(api.putBody))
			assert.True(t, strings.HasPrefix(api.putOpts.ContentType, tt.wantContentType))
		})
	}
}

func TestClient_UploadError(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true, putErr: errors.New("denied")}
	c, err := NewClientWithAPI(ctx, api, "audit")
	require.NoError(t, err)

	err = c.Upload(ctx, "k", bytes.NewReader(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload object")
}

func TestDial(t *testing.T) {
	client, err := Dial(Options{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	assert.NotNil(t, client)

	_, err = Dial(Options{Endpoint: "http://bad endpoint"})
	assert.Error(t, err)
}
