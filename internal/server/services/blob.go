package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/mooddiary/internal/common"
	sc "github.com/dmitrijs2005/mooddiary/internal/server/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Indirections over the AWS SDK so tests can stub presigning without a
// running object store.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const presignValidity = 15 * time.Minute

// BlobService issues presigned object-storage URLs. Payload bytes never
// pass through the API server; clients PUT and GET directly against the
// returned URLs.
type BlobService struct {
	config *sc.Config
}

func NewBlobService(cfg *sc.Config) *BlobService {
	return &BlobService{config: cfg}
}

func (s *BlobService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// PresignPut returns a presigned PUT URL for key. Keys are namespaced by
// owner; a key outside the caller's prefix is rejected so one user cannot
// write into another's folder.
func (s *BlobService) PresignPut(ctx context.Context, userID, key, contentType string) (string, error) {
	if !strings.HasPrefix(key, userID+"/") {
		return "", common.ErrNotAuthenticated
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// PresignGet returns a presigned GET URL for a previously stored key,
// subject to the same owner-prefix check as PresignPut.
func (s *BlobService) PresignGet(ctx context.Context, userID, key string) (string, error) {
	if !strings.HasPrefix(key, userID+"/") {
		return "", common.ErrNotAuthenticated
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
