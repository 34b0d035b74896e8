package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type putCall struct {
	bucket, object, file, contentType string
}

type fakePutter struct {
	calls  []putCall
	failOn string
}

func (f *fakePutter) FPutObject(_ context.Context, bucket, object, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if object == f.failOn {
		return minio.UploadInfo{}, errors.New("access denied")
	}
	f.calls = append(f.calls, putCall{bucket, object, filePath, opts.ContentType})
	return minio.UploadInfo{Bucket: bucket, Key: object}, nil
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "clean/run-1/train.json", ObjectKey("clean", "run-1", "/tmp/out/train.json"))
	assert.Equal(t, "run-1/dev.json", ObjectKey("", "run-1", "dev.json"))
	assert.Equal(t, "a/b/run/test.json", ObjectKey("a/b/", "run", "out/test.json"))
}

func TestUploadSplits(t *testing.T) {
	fake := &fakePutter{}
	u := &Uploader{client: fake, bucket: "datasets", prefix: "clean"}

	keys, err := u.UploadSplits(context.Background(), "r1", []string{"/d/train.json", "/d/dev.json", "/d/test.json"})
	require.NoError(t, err)

	assert.Equal(t, []string{"clean/r1/train.json", "clean/r1/dev.json", "clean/r1/test.json"}, keys)
	require.Len(t, fake.calls, 3)
	assert.Equal(t, putCall{"datasets", "clean/r1/train.json", "/d/train.json", "application/json"}, fake.calls[0])
	assert.Equal(t, "datasets", u.Bucket())
}

func TestUploadSplits_StopsOnError(t *testing.T) {
	fake := &fakePutter{failOn: "clean/r1/dev.json"}
	u := &Uploader{client: fake, bucket: "datasets", prefix: "clean"}

	keys, err := u.UploadSplits(context.Background(), "r1", []string{"/d/train.json", "/d/dev.json", "/d/test.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Equal(t, []string{"clean/r1/train.json"}, keys)
	assert.Len(t, fake.calls, 1)
}

func TestNewUploader_RequiresEndpoint(t *testing.T) {
	_, err := NewUploader(context.Background(), Options{Bucket: "x"})
	assert.Error(t, err)
}
