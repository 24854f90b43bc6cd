package services

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/mooddiary/internal/common"
	sc "github.com/dmitrijs2005/mooddiary/internal/server/config"
	"github.com/stretchr/testify/require"
)

func newBlobSvc() *BlobService {
	return NewBlobService(&sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "diary",
	})
}

func stubPresign(t *testing.T) (putKeys, getKeys *[]string) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}

	var puts, gets []string
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		puts = append(puts, *in.Key)
		return &v4.PresignedHTTPRequest{URL: "http://signed/put/" + *in.Key}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gets = append(gets, *in.Key)
		return &v4.PresignedHTTPRequest{URL: "http://signed/get/" + *in.Key}, nil
	}
	return &puts, &gets
}

func TestPresignPut_OwnerScoped(t *testing.T) {
	svc := newBlobSvc()
	puts, _ := stubPresign(t)

	url, err := svc.PresignPut(context.Background(), "u-1", "u-1/e-1/1-jpg", "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, "http://signed/put/u-1/e-1/1-jpg", url)
	require.Equal(t, []string{"u-1/e-1/1-jpg"}, *puts)

	// A key under another user's prefix is refused before any signing.
	_, err = svc.PresignPut(context.Background(), "u-1", "u-2/e-9/1-jpg", "image/jpeg")
	require.ErrorIs(t, err, common.ErrNotAuthenticated)
	require.Len(t, *puts, 1)
}

func TestPresignGet_OwnerScoped(t *testing.T) {
	svc := newBlobSvc()
	_, gets := stubPresign(t)

	url, err := svc.PresignGet(context.Background(), "u-1", "u-1/e-1/1-jpg")
	require.NoError(t, err)
	require.Equal(t, "http://signed/get/u-1/e-1/1-jpg", url)
	require.Equal(t, []string{"u-1/e-1/1-jpg"}, *gets)

	_, err = svc.PresignGet(context.Background(), "u-1", "u-2/secret")
	require.ErrorIs(t, err, common.ErrNotAuthenticated)
}
