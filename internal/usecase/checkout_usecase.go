package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
)

const waBaseURL = "https://wa.me/"

// CheckoutUseCase формирует заказ в виде ссылки на чат WhatsApp магазина.
// Корзина не очищается: клиент очищает её сам после подтверждения.
type CheckoutUseCase struct {
	cartRepo CartRepository
	cfg      *cfg.CheckoutCfg
}

func NewCheckoutUC(cartRepo CartRepository, cfg *cfg.CheckoutCfg) *CheckoutUseCase {
	return &CheckoutUseCase{cartRepo: cartRepo, cfg: cfg}
}

func (c *CheckoutUseCase) Checkout(ctx context.Context, cartID string) (*CheckoutRes, error) {
	const op = "CheckoutUseCase.Checkout"

	if c.cfg.WhatsAppPhone == "" {
		return nil, e.Wrap(op, fmt.Errorf("%w: whatsapp phone is not set", e.ErrConfiguration))
	}

	if err := validateCartID(cartID); err != nil {
		return nil, e.Wrap(op, err)
	}

	cart, err := c.cartRepo.Get(ctx, cartID)
	if err != nil {
		return nil, e.Wrap(op, e.Unavailable("cart", err))
	}

	if cart.IsEmpty() {
		return nil, e.Wrap(op, e.ErrEmptyCart)
	}

	msg := OrderMessage(c.cfg.StoreName, cart)
	query := url.Values{"text": {msg}}

	return &CheckoutRes{
		URL:     waBaseURL + c.cfg.WhatsAppPhone + "?" + query.Encode(),
		Message: msg,
		Total:   cart.Total(),
	}, nil
}

// OrderMessage собирает текст заказа: строка на позицию и итог.
func OrderMessage(storeName string, cart *domain.Cart) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hola %s, quiero hacer el siguiente pedido:\n", storeName)
	for _, l := range cart.Lines {
		fmt.Fprintf(&b, "%d x %s = %s\n", l.Quantity, l.Name, l.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: %s", cart.Total().StringFixed(2))

	return b.String()
}
