package archive

import (
	"context"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/config"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/logger"
	"github.com/pkg/errors"
)

type s3Archive struct {
	client *s3.Client
	bucket string
	logger logger.Logger
}

// NewS3Archive builds the S3-backed archive, or the Unavailable variant
// when credentials are absent.
func NewS3Archive(cfg *config.Config, log logger.Logger) (Archive, error) {
	if cfg.S3.AccessKey == "" || cfg.S3.SecretKey == "" || cfg.S3.Bucket == "" {
		return NewUnavailable(log), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(cfg.S3.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "archive.NewS3Archive.LoadDefaultConfig")
	}

	endpoint := cfg.S3.Endpoint
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if endpoint != "" {
			o.BaseEndpoint = &endpoint
		}
	})

	return &s3Archive{client: client, bucket: cfg.S3.Bucket, logger: log}, nil
}

func (a *s3Archive) Upload(ctx context.Context, localPath, key string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return errors.Wrap(err, "archive.Upload.Open")
	}
	defer file.Close()

	contentType := "video/mp4"
	if _, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &a.bucket,
		Key:         &key,
		Body:        file,
		ContentType: &contentType,
	}); err != nil {
		return errors.Wrap(err, "archive.Upload.PutObject")
	}
	return nil
}

func (a *s3Archive) Configured() bool { return true }
