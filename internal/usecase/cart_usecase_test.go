package usecase

import (
	"context"
	"testing"

	"github.com/DRSN-tech/storefront/internal/bus"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCartID = "0b7e6a3c-5f1d-4a53-9a53-2f4f5b2f6b10"

func newCartUCForTest() (*CartUseCase, *fakeCarts, *recordingPublisher) {
	products := newFakeProducts(
		domain.Product{ID: 1, Name: "Ron Cartavio", Price: decimal.NewFromInt(10), IsActive: true},
		domain.Product{ID: 2, Name: "Pisco Quebranta", Price: decimal.NewFromInt(40), IsActive: true, HasDiscount: true, DiscountPercent: 25},
		domain.Product{ID: 3, Name: "Oculto", Price: decimal.NewFromInt(5)},
	)
	carts := newFakeCarts()
	publisher := &recordingPublisher{}

	return NewCartUC(carts, products, publisher), carts, publisher
}

func TestCartUseCase_AddTwiceMergesAndPublishes(t *testing.T) {
	uc, carts, publisher := newCartUCForTest()
	ctx := context.Background()

	_, err := uc.Add(ctx, testCartID, 1)
	require.NoError(t, err)
	cart, err := uc.Add(ctx, testCartID, 1)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, "20.00", cart.Total().StringFixed(2))
	assert.Equal(t, 2, carts.saves)

	require.Len(t, publisher.messages, 2)
	last := publisher.messages[1].(bus.CartChanged)
	assert.Equal(t, testCartID, last.CartID)
	assert.Equal(t, 2, last.Count)
	assert.True(t, decimal.NewFromInt(20).Equal(last.Total))
}

func TestCartUseCase_AddSnapshotsDisplayPrice(t *testing.T) {
	uc, carts, _ := newCartUCForTest()

	_, err := uc.Add(context.Background(), testCartID, 2)
	require.NoError(t, err)

	assert.Equal(t, "30.00", carts.carts[testCartID][0].UnitPrice.StringFixed(2))
}

func TestCartUseCase_AddRejectsInactiveAndUnknown(t *testing.T) {
	uc, carts, _ := newCartUCForTest()

	_, err := uc.Add(context.Background(), testCartID, 3)
	assert.ErrorIs(t, err, e.ErrNotFound)

	_, err = uc.Add(context.Background(), testCartID, 99)
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.Zero(t, carts.saves)
}

func TestCartUseCase_ChangeQuantityRemovesAtZero(t *testing.T) {
	uc, carts, publisher := newCartUCForTest()
	ctx := context.Background()

	_, err := uc.Add(ctx, testCartID, 1)
	require.NoError(t, err)

	cart, err := uc.ChangeQuantity(ctx, testCartID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Count())

	cart, err = uc.ChangeQuantity(ctx, testCartID, 1, -5)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Empty(t, carts.carts[testCartID])

	before, saves := len(publisher.messages), carts.saves
	_, err = uc.ChangeQuantity(ctx, testCartID, 42, 1)
	require.NoError(t, err)
	_, err = uc.ChangeQuantity(ctx, testCartID, 1, 0)
	require.NoError(t, err)
	assert.Len(t, publisher.messages, before, "missing line is a no-op")
	assert.Equal(t, saves, carts.saves)
}

func TestCartUseCase_RemoveMissingLineIsNoop(t *testing.T) {
	uc, carts, publisher := newCartUCForTest()
	ctx := context.Background()

	_, err := uc.Add(ctx, testCartID, 1)
	require.NoError(t, err)

	cart, err := uc.Remove(ctx, testCartID, 42)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, carts.saves)
	assert.Len(t, publisher.messages, 1)
}

func TestCartUseCase_RemoveAndClear(t *testing.T) {
	uc, carts, publisher := newCartUCForTest()
	ctx := context.Background()

	_, err := uc.Add(ctx, testCartID, 1)
	require.NoError(t, err)
	_, err = uc.Add(ctx, testCartID, 2)
	require.NoError(t, err)

	cart, err := uc.Remove(ctx, testCartID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int64(2), cart.Lines[0].ProductID)

	require.NoError(t, uc.Clear(ctx, testCartID))
	assert.NotContains(t, carts.carts, testCartID)
	assert.Equal(t, bus.CartChanged{CartID: testCartID}, publisher.messages[len(publisher.messages)-1])
}

func TestCartUseCase_InvalidCartID(t *testing.T) {
	uc, _, _ := newCartUCForTest()

	_, err := uc.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, e.ErrInvalidID)
	assert.ErrorIs(t, uc.Clear(context.Background(), ""), e.ErrInvalidID)
}

func TestCartUseCase_StorageFailure(t *testing.T) {
	uc, carts, _ := newCartUCForTest()
	carts.err = errStorage

	_, err := uc.Add(context.Background(), testCartID, 1)
	require.ErrorIs(t, err, e.ErrDataUnavailable)
	assert.ErrorIs(t, err, errStorage)
}

func TestCartUseCase_NewCartIDIsValid(t *testing.T) {
	uc, _, _ := newCartUCForTest()

	_, err := uc.Get(context.Background(), uc.NewCartID())
	assert.NoError(t, err)
}
