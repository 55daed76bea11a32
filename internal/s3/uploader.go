// server/internal/s3/uploader.go
package s3

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"school-supply-tracker-api-server/config"
)

// PutObjectAPI is the part of the S3 client the uploader calls.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Uploader struct {
	Client           PutObjectAPI
	Bucket           string
	Region           string
	Endpoint         string
	CloudFrontDomain string
}

func NewUploader(ctx context.Context, cfg config.S3Config) (*Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	// Static keys are optional; without them the default AWS credential chain applies.
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // MinIO
		})
	}

	return &Uploader{
		Client:           s3.NewFromConfig(sdkConfig, clientOpts...),
		Bucket:           cfg.Bucket,
		Region:           cfg.Region,
		Endpoint:         strings.TrimRight(cfg.Endpoint, "/"),
		CloudFrontDomain: cfg.CloudFrontDomain,
	}, nil
}

// UploadFile uploads body under objectKey and returns its public URL.
func (u *Uploader) UploadFile(ctx context.Context, body io.Reader, objectKey, contentType string) (string, error) {
	_, err := u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.Bucket),
		Key:         aws.String(objectKey),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return u.URL(objectKey), nil
}

// URL prefers CloudFront, then a custom endpoint, then the regional S3 host.
func (u *Uploader) URL(objectKey string) string {
	switch {
	case u.CloudFrontDomain != "":
		return fmt.Sprintf("https://%s/%s", u.CloudFrontDomain, objectKey)
	case u.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", u.Endpoint, u.Bucket, objectKey)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.Bucket, u.Region, objectKey)
}

// SignatureKey names a signature image by upload time: signatures/{epochMillis}_signature.png.
// Two uploads in the same millisecond share a key.
func SignatureKey(at time.Time) string {
	return fmt.Sprintf("signatures/%d_signature.png", at.UnixMilli())
}
