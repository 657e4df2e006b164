package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/chrisdamba/besteats/internal/repositories"
)

// ObjectAPI is the part of the S3 client the slot repository needs.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

// SlotRepository keeps each slot as the object <prefix>/<profile>/<key>.json.
type SlotRepository struct {
	client ObjectAPI
	bucket string
	prefix string
}

func NewSlotRepository(client ObjectAPI, bucket, prefix, profile string) *SlotRepository {
	return &SlotRepository{
		client: client,
		bucket: bucket,
		prefix: path.Join(prefix, profile),
	}
}

func (r *SlotRepository) objectKey(key string) string {
	return path.Join(r.prefix, key+".json")
}

func (r *SlotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	out, err := r.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.objectKey(key)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, repositories.ErrSlotNotFound
		}
		return nil, fmt.Errorf("unable to download slot %s from S3: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read slot %s: %w", key, err)
	}
	return data, nil
}

func (r *SlotRepository) Save(ctx context.Context, key string, value []byte) error {
	_, err := r.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.objectKey(key)),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("unable to upload slot %s to S3: %w", key, err)
	}
	return nil
}
