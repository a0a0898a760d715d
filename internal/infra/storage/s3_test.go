package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/tutor-scheduler/internal/config"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3StoragePut(t *testing.T) {
	putter := &fakePutter{}
	s := &S3Storage{client: putter, bucket: "avatars", baseURL: "https://cdn.test"}

	url, err := s.Put(context.Background(), "tutors/1.webp", []byte("img"), "image/webp")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.test/tutors/1.webp", url)
	assert.Equal(t, "avatars", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "tutors/1.webp", aws.ToString(putter.input.Key))
	assert.Equal(t, "image/webp", aws.ToString(putter.input.ContentType))
	assert.Equal(t, []byte("img"), putter.body)
}

func TestS3StoragePutError(t *testing.T) {
	s := &S3Storage{client: &fakePutter{err: errors.New("denied")}, bucket: "b", baseURL: "x"}

	_, err := s.Put(context.Background(), "k", nil, "image/webp")
	assert.ErrorContains(t, err, "denied")
}

func TestNewS3BaseURL(t *testing.T) {
	s := NewS3(config.S3Config{Bucket: "media", Region: "us-east-1"})
	assert.Equal(t, "https://media.s3.us-east-1.amazonaws.com/a.webp", s.URL("a.webp"))

	s = NewS3(config.S3Config{Bucket: "media", Region: "auto", Endpoint: "http://localhost:9000/"})
	assert.Equal(t, "http://localhost:9000/media/a.webp", s.URL("/a.webp"))

	s = NewS3(config.S3Config{Bucket: "media", PublicBaseURL: "https://cdn.example.com/"})
	assert.Equal(t, "https://cdn.example.com/a.webp", s.URL("a.webp"))
}
