package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/bus"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/google/uuid"
)

// CartUseCase: каждая операция читает корзину, применяет одно изменение,
// сохраняет её целиком и синхронно публикует CartChanged.
type CartUseCase struct {
	cartRepo    CartRepository
	productRepo ProductRepository
	publisher   Publisher
}

func NewCartUC(cartRepo CartRepository, productRepo ProductRepository, publisher Publisher) *CartUseCase {
	return &CartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		publisher:   publisher,
	}
}

func (c *CartUseCase) NewCartID() string {
	return uuid.NewString()
}

func (c *CartUseCase) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	const op = "CartUseCase.Get"

	cart, err := c.load(ctx, cartID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return cart, nil
}

// Add добавляет активный товар по цене витрины на момент добавления.
func (c *CartUseCase) Add(ctx context.Context, cartID string, productID int64) (*domain.Cart, error) {
	const op = "CartUseCase.Add"

	cart, err := c.load(ctx, cartID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := c.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !product.IsActive {
		return nil, e.Wrap(op, e.ErrNotFound)
	}

	cart.Add(product)
	if err := c.save(ctx, cart); err != nil {
		return nil, e.Wrap(op, err)
	}

	return cart, nil
}

// ChangeQuantity меняет количество на delta; строка с количеством <= 0 удаляется.
// Для товара, которого нет в корзине, ничего не происходит.
func (c *CartUseCase) ChangeQuantity(ctx context.Context, cartID string, productID int64, delta int) (*domain.Cart, error) {
	const op = "CartUseCase.ChangeQuantity"

	cart, err := c.load(ctx, cartID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if delta == 0 || !cart.SetQuantityDelta(productID, delta) {
		return cart, nil
	}

	if err := c.save(ctx, cart); err != nil {
		return nil, e.Wrap(op, err)
	}

	return cart, nil
}

// Remove удаляет строку; отсутствующая строка не сохраняется и не публикуется.
func (c *CartUseCase) Remove(ctx context.Context, cartID string, productID int64) (*domain.Cart, error) {
	const op = "CartUseCase.Remove"

	cart, err := c.load(ctx, cartID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !cart.Remove(productID) {
		return cart, nil
	}

	if err := c.save(ctx, cart); err != nil {
		return nil, e.Wrap(op, err)
	}

	return cart, nil
}

// Clear очищает корзину (после подтверждения заказа).
func (c *CartUseCase) Clear(ctx context.Context, cartID string) error {
	const op = "CartUseCase.Clear"

	if err := validateCartID(cartID); err != nil {
		return e.Wrap(op, err)
	}

	if err := c.cartRepo.Delete(ctx, cartID); err != nil {
		return e.Wrap(op, e.Unavailable("cart", err))
	}

	c.publisher.Publish(bus.CartChanged{CartID: cartID})
	return nil
}

func (c *CartUseCase) load(ctx context.Context, cartID string) (*domain.Cart, error) {
	if err := validateCartID(cartID); err != nil {
		return nil, err
	}

	cart, err := c.cartRepo.Get(ctx, cartID)
	if err != nil {
		return nil, e.Unavailable("cart", err)
	}

	return cart, nil
}

func (c *CartUseCase) save(ctx context.Context, cart *domain.Cart) error {
	if err := c.cartRepo.Save(ctx, cart); err != nil {
		return e.Unavailable("cart", err)
	}

	c.publisher.Publish(bus.CartChanged{CartID: cart.ID, Count: cart.Count(), Total: cart.Total()})
	return nil
}

func validateCartID(cartID string) error {
	if _, err := uuid.Parse(cartID); err != nil {
		return e.ErrInvalidID
	}

	return nil
}
