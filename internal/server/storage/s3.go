package storage

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the settings for an S3-compatible backend (MinIO works).
type S3Config struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
	URLTTL       time.Duration
}

// S3Store stores payloads in an S3 bucket and hands out presigned GETs.
type S3Store struct {
	cfg S3Config
}

func NewS3Store(cfg S3Config) *S3Store {
	if cfg.URLTTL == 0 {
		cfg.URLTTL = 15 * time.Minute
	}
	return &S3Store{cfg: cfg}
}

func (s *S3Store) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(s.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.RootUser,
			s.cfg.RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

func (s *S3Store) Save(ctx context.Context, key string, data []byte) error {
	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.cfg.Bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	})

	return err
}

func (s *S3Store) Open(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, 0, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.cfg.Bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, 0, err
	}

	var size int64
	if out.ContentLength != nil {
		size = *out.ContentLength
	}

	return out.Body, size, nil
}

func (s *S3Store) SignedGetURL(ctx context.Context, key string) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	presignClient := s3.NewPresignClient(client)

	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.cfg.Bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.cfg.URLTTL))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
