package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/besteats/internal/repositories"
)

func TestSlotRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSlotRepository()

	_, err := repo.Load(ctx, "cart")
	assert.ErrorIs(t, err, repositories.ErrSlotNotFound)

	value := []byte(`[{"qty":1}]`)
	require.NoError(t, repo.Save(ctx, "cart", value))

	// the stored copy must not alias the caller's buffer
	value[0] = 'X'

	got, err := repo.Load(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"qty":1}]`, string(got))
}
