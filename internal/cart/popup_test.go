package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/besteats/internal/notify"
)

func TestPopupShowsAndDismisses(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	rec := notify.NewRecorder(nil)
	p := NewPopup(s, rec, 20*time.Millisecond)
	defer p.Close()

	_, ok := p.Visible()
	assert.False(t, ok)

	_, err := s.AddToCart(ctx, item(1, "5"), 1)
	require.NoError(t, err)

	line, ok := p.Visible()
	require.True(t, ok)
	assert.Equal(t, int64(1), line.Item.ID)
	assert.Equal(t, "Dish added to cart", rec.All()[0].Message)

	require.Eventually(t, func() bool {
		_, ok := p.Visible()
		return !ok
	}, time.Second, 5*time.Millisecond)

	// the popup does not care about the cart's state after showing
	assert.Equal(t, 1, s.Len())
}

func TestPopupIgnoresOtherEvents(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	_, err := s.AddToCart(ctx, item(1, "5"), 2)
	require.NoError(t, err)

	p := NewPopup(s, nil, time.Hour)
	defer p.Close()

	s.DecreaseQty(ctx, 1)
	s.RemoveFromCart(ctx, 1)
	_, ok := p.Visible()
	assert.False(t, ok)
}

func TestPopupCloseDetaches(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	p := NewPopup(s, nil, time.Hour)

	s.AddToCart(ctx, item(1, "5"), 1)
	p.Close()
	p.Close()

	_, ok := p.Visible()
	assert.False(t, ok)

	s.AddToCart(ctx, item(2, "5"), 1)
	_, ok = p.Visible()
	assert.False(t, ok)
}
