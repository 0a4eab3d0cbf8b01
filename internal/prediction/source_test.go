package prediction

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.json"), []byte("{}"), 0o600))
	src := FileSource{Dir: dir}

	data, err := src.Fetch(context.Background(), "model.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	_, err = src.Fetch(context.Background(), "scaler.json")
	assert.ErrorIs(t, err, ErrArtifactMissing)
	assert.Equal(t, "file:"+dir, src.Location())
}

type fakeS3 struct {
	objects map[string]string
	err     error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"artifacts/models/model.json": `{"ok":true}`}}
	src := &S3Source{Client: client, Bucket: "artifacts", Prefix: "models"}

	data, err := src.Fetch(context.Background(), "model.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))

	_, err = src.Fetch(context.Background(), "scaler.json")
	assert.ErrorIs(t, err, ErrArtifactMissing)

	client.err = errors.New("connection refused")
	_, err = src.Fetch(context.Background(), "model.json")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrArtifactMissing))
	assert.Equal(t, "s3://artifacts/models", src.Location())
}
