package cloudwriter

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	objects map[string][]byte
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3WriterUploadsOnClose(t *testing.T) {
	putter := &fakePutter{objects: make(map[string][]byte)}
	factory := NewS3WriterFactoryWithClient(putter)

	w, err := factory.NewWriter(context.Background(), "menus", "exports/menu.parquet")
	require.NoError(t, err)

	pf := NewParquetFile(w)
	_, err = pf.Write([]byte("PAR1"))
	require.NoError(t, err)
	_, err = pf.Write([]byte("data"))
	require.NoError(t, err)

	pos, err := pf.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(8), pos)
	assert.Empty(t, putter.objects, "nothing is uploaded before Close")

	require.NoError(t, pf.Close())
	assert.Equal(t, []byte("PAR1data"), putter.objects["menus/exports/menu.parquet"])

	_, err = pf.Read(make([]byte, 1))
	assert.Error(t, err)
	_, err = pf.Seek(0, io.SeekEnd)
	assert.Error(t, err)
}

func TestS3WriterRequiresBucket(t *testing.T) {
	factory := NewS3WriterFactoryWithClient(&fakePutter{objects: map[string][]byte{}})
	_, err := factory.NewWriter(context.Background(), "", "x")
	assert.Error(t, err)
}
