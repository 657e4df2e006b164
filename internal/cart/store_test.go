package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/besteats/internal/models"
	"github.com/chrisdamba/besteats/internal/repositories"
	"github.com/chrisdamba/besteats/internal/repositories/memory"
)

func item(id int64, price string) models.CatalogItem {
	return models.CatalogItem{ID: id, Name: "Dish", Price: decimal.RequireFromString(price), Category: "burger"}
}

func newStore(t *testing.T) (*Store, *memory.SlotRepository) {
	t.Helper()
	slots := memory.NewSlotRepository()
	return Open(context.Background(), slots, nil), slots
}

func TestAddToCartTwiceMergesLine(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	_, err := s.AddToCart(ctx, item(1, "10"), 1)
	require.NoError(t, err)
	line, err := s.AddToCart(ctx, item(1, "10"), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, line.Qty)
	require.Len(t, s.Lines(), 1)
	assert.Equal(t, 2, s.Lines()[0].Qty)
	assert.True(t, s.Total().Equal(decimal.NewFromInt(20)))

	last, ok := s.LastAdded()
	require.True(t, ok)
	assert.Equal(t, 2, last.Qty, "signal carries the post-increment quantity")
}

func TestAddToCartWithQuantity(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	_, err := s.AddToCart(ctx, item(1, "2.50"), 3)
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, item(2, "1"), 1)
	require.NoError(t, err)
	line, err := s.AddToCart(ctx, item(1, "2.50"), 2)
	require.NoError(t, err)

	assert.Equal(t, 5, line.Qty)
	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].Item.ID, "insertion order is first-add order")
	assert.Equal(t, int64(2), lines[1].Item.ID)

	_, err = s.AddToCart(ctx, item(3, "1"), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 2, s.Len())
}

func TestDecreaseQtyFloorsAtOne(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	_, err := s.AddToCart(ctx, item(1, "4"), 2)
	require.NoError(t, err)

	line, err := s.DecreaseQty(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Qty)

	line, err = s.DecreaseQty(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Qty)
	assert.Equal(t, 1, s.Len(), "reaching the floor never removes the line")
}

func TestIncreaseQtyUpdatesSignal(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	_, err := s.AddToCart(ctx, item(1, "4"), 1)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = s.IncreaseQty(ctx, 1)
		require.NoError(t, err)
	}

	line, ok := s.Line(1)
	require.True(t, ok)
	last, ok := s.LastAdded()
	require.True(t, ok)
	assert.Equal(t, 4, line.Qty)
	assert.Equal(t, line.Qty, last.Qty, "rapid increases never leave the signal behind")
}

func TestRemoveThenAddStartsFresh(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	_, err := s.AddToCart(ctx, item(1, "4"), 5)
	require.NoError(t, err)
	require.NoError(t, s.RemoveFromCart(ctx, 1))
	assert.Equal(t, 0, s.Len())

	line, err := s.AddToCart(ctx, item(1, "4"), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Qty)
}

func TestMissingLine(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	_, err := s.IncreaseQty(ctx, 9)
	assert.ErrorIs(t, err, ErrLineNotFound)
	_, err = s.DecreaseQty(ctx, 9)
	assert.ErrorIs(t, err, ErrLineNotFound)
	assert.ErrorIs(t, s.RemoveFromCart(ctx, 9), ErrLineNotFound)
	_, ok := s.LastAdded()
	assert.False(t, ok)
}

func TestTotalMatchesLines(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	assert.True(t, s.Total().IsZero())

	ops := []func(){
		func() { s.AddToCart(ctx, item(1, "5"), 1) },
		func() { s.AddToCart(ctx, item(2, "3.25"), 2) },
		func() { s.IncreaseQty(ctx, 1) },
		func() { s.DecreaseQty(ctx, 2) },
		func() { s.AddToCart(ctx, item(3, "0.10"), 3) },
		func() { s.DecreaseQty(ctx, 1) },
		func() { s.RemoveFromCart(ctx, 3) },
	}
	for _, op := range ops {
		op()
		want := decimal.Zero
		for _, line := range s.Lines() {
			want = want.Add(line.Item.Price.Mul(decimal.NewFromInt(int64(line.Qty))))
		}
		assert.True(t, s.Total().Equal(want), "total %s, want %s", s.Total(), want)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, slots := newStore(t)

	_, err := s.AddToCart(ctx, item(1, "5"), 2)
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, item(2, "3"), 1)
	require.NoError(t, err)

	reopened := Open(ctx, slots, nil)
	require.Len(t, reopened.Lines(), 2)
	for i, line := range reopened.Lines() {
		assert.Equal(t, s.Lines()[i].Item.ID, line.Item.ID)
		assert.Equal(t, s.Lines()[i].Qty, line.Qty)
		assert.True(t, s.Lines()[i].Item.Price.Equal(line.Item.Price))
	}
	assert.True(t, reopened.Total().Equal(decimal.NewFromInt(13)))

	require.NoError(t, reopened.Clear(ctx))
	assert.Equal(t, 0, Open(ctx, slots, nil).Len())

	data, err := slots.Load(ctx, models.SlotCart)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestSettleKeepsLaterAdditions(t *testing.T) {
	ctx := context.Background()
	s, slots := newStore(t)

	_, err := s.AddToCart(ctx, item(1, "5"), 2)
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, item(2, "3"), 1)
	require.NoError(t, err)
	dispatched := s.Lines()

	_, err = s.IncreaseQty(ctx, 1)
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, item(3, "4"), 1)
	require.NoError(t, err)
	require.NoError(t, s.RemoveFromCart(ctx, 2))

	require.NoError(t, s.Settle(ctx, dispatched))
	require.Len(t, s.Lines(), 2)
	assert.Equal(t, int64(1), s.Lines()[0].Item.ID)
	assert.Equal(t, 1, s.Lines()[0].Qty)
	assert.Equal(t, int64(3), s.Lines()[1].Item.ID)
	assert.Equal(t, 2, Open(ctx, slots, nil).Len())

	require.NoError(t, s.Settle(ctx, s.Lines()))
	assert.Equal(t, 0, s.Len())
	data, err := slots.Load(ctx, models.SlotCart)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestOpenFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotRepository()

	require.NoError(t, slots.Save(ctx, models.SlotCart, []byte("{not json")))
	assert.Equal(t, 0, Open(ctx, slots, nil).Len())

	// duplicated and zero-quantity lines are dropped
	require.NoError(t, slots.Save(ctx, models.SlotCart, []byte(`[
		{"item":{"id":1,"name":"a","price":"2"},"qty":1},
		{"item":{"id":1,"name":"a","price":"2"},"qty":4},
		{"item":{"id":2,"name":"b","price":"2"},"qty":0}
	]`)))
	s := Open(ctx, slots, nil)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.Lines()[0].Qty)

	assert.Equal(t, 0, Open(ctx, failingSlots{}, nil).Len())
}

type failingSlots struct{}

func (failingSlots) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (failingSlots) Save(context.Context, string, []byte) error {
	return errors.New("disk on fire")
}

func TestPersistFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, failingSlots{}, nil)

	line, err := s.AddToCart(ctx, item(1, "5"), 1)
	assert.ErrorIs(t, err, ErrPersist)
	assert.Equal(t, 1, line.Qty)
	assert.Equal(t, 1, s.Len())
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	var kinds []EventKind
	unsubscribe := s.Subscribe(func(ev Event) {
		kinds = append(kinds, ev.Kind)
		// callbacks may read the store without deadlocking
		_ = s.Total()
	})

	s.AddToCart(ctx, item(1, "5"), 1)
	s.IncreaseQty(ctx, 1)
	s.DecreaseQty(ctx, 1)
	s.RemoveFromCart(ctx, 1)
	s.Clear(ctx)
	unsubscribe()
	s.AddToCart(ctx, item(1, "5"), 1)

	assert.Equal(t, []EventKind{EventAdded, EventIncreased, EventDecreased, EventRemoved, EventCleared}, kinds)
}

var _ repositories.SlotStore = failingSlots{}
