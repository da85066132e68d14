package files

import (
	"context"
	"errors"
	"strings"
	"testing"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sc "github.com/avelichka/skinform/internal/server/config"
)

func testService() *Service {
	cfg := &sc.Config{}
	cfg.LoadDefaults()
	return NewService(cfg)
}

func TestStorageKeyForUser(t *testing.T) {
	key1 := StorageKeyForUser("u1")
	key2 := StorageKeyForUser("u1")

	assert.True(t, strings.HasPrefix(key1, "users/u1/"))
	assert.NotEqual(t, key1, key2)
}

func TestGetPresignedPutURL(t *testing.T) {
	origPut := presignPutObject
	t.Cleanup(func() { presignPutObject = origPut })

	var gotBucket, gotKey string
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotBucket = *in.Bucket
		gotKey = *in.Key
		return &v4.PresignedHTTPRequest{URL: "http://signed.example/" + *in.Key}, nil
	}

	key, url, err := testService().GetPresignedPutURL(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "photos", gotBucket)
	assert.Equal(t, key, gotKey)
	assert.Equal(t, "http://signed.example/"+key, url)
}

func TestGetPresignedPutURL_Error(t *testing.T) {
	origPut := presignPutObject
	t.Cleanup(func() { presignPutObject = origPut })

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("s3 down")
	}

	_, _, err := testService().GetPresignedPutURL(context.Background(), "u1")
	require.Error(t, err)
}

func TestGetPresignedGetURL(t *testing.T) {
	origGet := presignGetObject
	t.Cleanup(func() { presignGetObject = origGet })

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "http://signed.example/get/" + *in.Key}, nil
	}

	url, err := testService().GetPresignedGetURL(context.Background(), "users/u1/x")
	require.NoError(t, err)
	assert.Equal(t, "http://signed.example/get/users/u1/x", url)
}
