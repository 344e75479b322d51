package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/config"
)

// ObjectStore wraps the S3 bucket that temporarily hosts rehosted part
// images while Shopify ingests them.
type ObjectStore struct {
	client *s3.Client
	bucket string
	region string
	logger *zap.Logger
}

// NewObjectStore creates an S3-backed object store
func NewObjectStore(ctx context.Context, cfg config.AWSConfig, logger *zap.Logger) (*ObjectStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &ObjectStore{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		region: cfg.Region,
		logger: logger,
	}, nil
}

// Upload puts an object and returns its public URL.
func (s *ObjectStore) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// Delete removes the given objects. Called only after the Shopify mutation
// referencing them has succeeded.
func (s *ObjectStore) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, len(keys))
	for i, key := range keys {
		objects[i] = types.ObjectIdentifier{Key: aws.String(key)}
	}

	_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{Objects: objects},
	})
	if err != nil {
		return fmt.Errorf("delete %d objects: %w", len(keys), err)
	}
	return nil
}

// PurgeAll deletes every object in the bucket, page by page. Run by the
// scheduled purge job to clear images orphaned by crashed runs.
func (s *ObjectStore) PurgeAll(ctx context.Context) error {
	var continuationToken *string
	for {
		listResp, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return fmt.Errorf("list bucket: %w", err)
		}

		if len(listResp.Contents) == 0 {
			break
		}

		objects := make([]types.ObjectIdentifier, len(listResp.Contents))
		for i, obj := range listResp.Contents {
			objects[i] = types.ObjectIdentifier{Key: obj.Key}
		}
		_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: objects},
		})
		if err != nil {
			return fmt.Errorf("purge batch: %w", err)
		}
		s.logger.Info("Purged media objects", zap.Int("count", len(objects)))

		if listResp.IsTruncated == nil || !*listResp.IsTruncated {
			break
		}
		continuationToken = listResp.NextContinuationToken
	}
	return nil
}
