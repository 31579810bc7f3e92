package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	err     error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3Store_RoundTrip(t *testing.T) {
	s := &S3Store{client: &fakeS3{objects: map[string][]byte{}}, bucket: "files"}
	ctx := context.Background()

	ok, err := s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Write(ctx, "k", []byte("payload")))

	ok, err = s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := s.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestS3Store_ReadMissingIsNotFound(t *testing.T) {
	s := &S3Store{client: &fakeS3{objects: map[string][]byte{}}, bucket: "files"}

	_, err := s.Read(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestS3Store_BackendErrorsAreWrapped(t *testing.T) {
	s := &S3Store{client: &fakeS3{err: errors.New("connection reset")}, bucket: "files"}
	ctx := context.Background()

	err := s.Write(ctx, "k", []byte("x"))
	assert.ErrorContains(t, err, "s3 put k")

	_, err = s.Exists(ctx, "k")
	assert.ErrorContains(t, err, "s3 head k")

	_, err = s.Read(ctx, "k")
	assert.ErrorContains(t, err, "connection reset")
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}
