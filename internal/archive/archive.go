package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hkarap/sentinews/internal/config"
)

// Archive stores raw article bodies in an S3-compatible bucket (Cloudflare
// R2 in production), content-addressed by fingerprint. The relational
// store keeps the working copy; the archive is the durable raw record.
type Archive struct {
	client *s3.Client
	bucket string
}

// New builds the S3 client from the R2 settings. The caller decides
// whether the archive is enabled at all; see config.Config.ArchiveEnabled.
func New(ctx context.Context, cfg *config.Config) (*Archive, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.R2AccessKey, cfg.R2SecretKey, ""),
		),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2Endpoint)
		o.UsePathStyle = true
	})

	return &Archive{client: client, bucket: cfg.R2Bucket}, nil
}

// Put uploads one article body under its fingerprint key.
func (a *Archive) Put(ctx context.Context, key, body string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey(key)),
		Body:        bytes.NewReader([]byte(body)),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// Get downloads the body stored under a fingerprint key.
func (a *Archive) Get(ctx context.Context, key string) (string, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey(key)),
	})
	if err != nil {
		return "", fmt.Errorf("get object: %w", err)
	}
	defer out.Body.Close()

	var sb strings.Builder
	if _, err := io.Copy(&sb, out.Body); err != nil {
		return "", fmt.Errorf("read object: %w", err)
	}
	return sb.String(), nil
}

func objectKey(fp string) string {
	return "articles/" + fp + ".txt"
}
