package services

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/examkeeper/internal/server/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ImageURLSigner turns a stored image binary id into a URL the client can
// download from.
type ImageURLSigner interface {
	ImageURL(ctx context.Context, binaryID string) (string, error)
}

// ImageStorageKey is the object key of a problem image binary.
func ImageStorageKey(binaryID string) string {
	return "problems/images/" + binaryID
}

// S3ImagePresigner issues short-lived presigned GET URLs for problem images.
// Presigning is local, no request reaches the object store.
type S3ImagePresigner struct {
	bucket   string
	validity time.Duration
	client   *s3.PresignClient
}

func NewS3ImagePresigner(ctx context.Context, cfg *sc.Config) (*S3ImagePresigner, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	validity := cfg.ImageURLValidityDuration
	if validity <= 0 {
		validity = 15 * time.Minute
	}

	return &S3ImagePresigner{
		bucket:   cfg.S3Bucket,
		validity: validity,
		client:   newS3PresignClient(client),
	}, nil
}

func (p *S3ImagePresigner) ImageURL(ctx context.Context, binaryID string) (string, error) {
	key := ImageStorageKey(binaryID)

	req, err := presignGetObject(p.client, ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    &key,
	}, s3.WithPresignExpires(p.validity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
