// Package storage writes immutable objects to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/sirupsen/logrus"
)

type Storage interface {
	Put(ctx context.Context, key string, content []byte, contentType string) error
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type S3Storage struct {
	uploader s3manageriface.UploaderAPI
	bucket   string
	log      *logrus.Entry
}

func NewS3Storage(logger *logrus.Logger, cfg S3Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	return newS3Storage(logger, s3manager.NewUploader(sess), cfg.Bucket), nil
}

func newS3Storage(logger *logrus.Logger, uploader s3manageriface.UploaderAPI, bucket string) *S3Storage {
	return &S3Storage{
		uploader: uploader,
		bucket:   bucket,
		log:      logger.WithField("component", "s3_storage"),
	}
}

func (s *S3Storage) Put(ctx context.Context, key string, content []byte, contentType string) error {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 upload failed: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"key":  key,
		"size": len(content),
	}).Debug("Stored object")
	return nil
}
