package s3

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/besteats/internal/repositories"
)

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeObjects) GetObject(ctx context.Context, in *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &awss3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) PutObject(ctx context.Context, in *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &awss3.PutObjectOutput{}, nil
}

func TestSlotRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	objects := &fakeObjects{objects: map[string][]byte{}}
	repo := NewSlotRepository(objects, "bucket", "profiles", "default")

	_, err := repo.Load(ctx, "cart")
	assert.ErrorIs(t, err, repositories.ErrSlotNotFound)

	require.NoError(t, repo.Save(ctx, "cart", []byte(`[]`)))
	assert.Contains(t, objects.objects, "bucket/profiles/default/cart.json")

	got, err := repo.Load(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}
