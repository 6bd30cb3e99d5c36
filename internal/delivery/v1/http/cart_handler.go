package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// CartHandler обслуживает корзину и оформление заказа.
type CartHandler struct {
	cartUC     usecase.CartUC
	checkoutUC usecase.CheckoutUC
	logger     logger.Logger
}

func NewCartHandler(cartUC usecase.CartUC, checkoutUC usecase.CheckoutUC, logger logger.Logger) *CartHandler {
	return &CartHandler{cartUC: cartUC, checkoutUC: checkoutUC, logger: logger}
}

// createCart выдаёт идентификатор новой пустой корзины.
//
//	@Summary		Новая корзина
//	@Tags			cart
//	@Produce		json
//	@Success		201	{object}	cartResponse	"Пустая корзина"
//	@Router			/cart [post]
func (c *CartHandler) createCart(w http.ResponseWriter, r *http.Request) {
	cart, err := c.cartUC.Get(r.Context(), c.cartUC.NewCartID())
	if err != nil {
		c.logger.Errorf(err, "failed to create cart")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toCartResponse(cart))
}

// getCart
//
//	@Summary		Корзина
//	@Tags			cart
//	@Produce		json
//	@Param			cartID	path	string	true	"id корзины"
//	@Success		200	{object}	cartResponse	"Корзина"
//	@Failure		400	{object}	ErrorResponse	"Неверный id"
//	@Router			/cart/{cartID} [get]
func (c *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := c.cartUC.Get(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		c.writeErr(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(cart))
}

// addItem
//
//	@Summary		Добавить товар
//	@Description	Повторное добавление увеличивает количество
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			cartID	path	string	true	"id корзины"
//	@Param			body	body	addItemBody	true	"Товар"
//	@Success		200	{object}	cartResponse	"Корзина"
//	@Failure		404	{object}	ErrorResponse	"Товар не найден"
//	@Router			/cart/{cartID}/items [post]
func (c *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var body addItemBody
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	cart, err := c.cartUC.Add(r.Context(), chi.URLParam(r, "cartID"), body.ProductID)
	if err != nil {
		c.writeErr(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(cart))
}

// changeQuantity
//
//	@Summary		Изменить количество
//	@Description	Строка с количеством <= 0 удаляется
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			cartID	path	string	true	"id корзины"
//	@Param			productID	path	int	true	"id товара"
//	@Param			body	body	quantityBody	true	"Изменение"
//	@Success		200	{object}	cartResponse	"Корзина"
//	@Router			/cart/{cartID}/items/{productID} [patch]
func (c *CartHandler) changeQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productID")
	if err != nil {
		WriteError(w, err)
		return
	}

	var body quantityBody
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	cart, err := c.cartUC.ChangeQuantity(r.Context(), chi.URLParam(r, "cartID"), productID, body.Delta)
	if err != nil {
		c.writeErr(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(cart))
}

// removeItem
//
//	@Summary		Удалить строку
//	@Tags			cart
//	@Produce		json
//	@Param			cartID	path	string	true	"id корзины"
//	@Param			productID	path	int	true	"id товара"
//	@Success		200	{object}	cartResponse	"Корзина"
//	@Router			/cart/{cartID}/items/{productID} [delete]
func (c *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productID")
	if err != nil {
		WriteError(w, err)
		return
	}

	cart, err := c.cartUC.Remove(r.Context(), chi.URLParam(r, "cartID"), productID)
	if err != nil {
		c.writeErr(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(cart))
}

// clearCart
//
//	@Summary		Очистить корзину
//	@Tags			cart
//	@Produce		json
//	@Param			cartID	path	string	true	"id корзины"
//	@Success		204	"Корзина очищена"
//	@Router			/cart/{cartID} [delete]
func (c *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := c.cartUC.Clear(r.Context(), chi.URLParam(r, "cartID")); err != nil {
		c.writeErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// checkout возвращает ссылку wa.me с текстом заказа. Корзина не очищается.
//
//	@Summary		Оформление через WhatsApp
//	@Tags			cart
//	@Produce		json
//	@Param			cartID	path	string	true	"id корзины"
//	@Success		200	{object}	checkoutResponse	"Ссылка wa.me"
//	@Failure		400	{object}	ErrorResponse	"Корзина пуста"
//	@Failure		429	{object}	ErrorResponse	"Слишком много запросов"
//	@Router			/cart/{cartID}/checkout [post]
func (c *CartHandler) checkout(w http.ResponseWriter, r *http.Request) {
	res, err := c.checkoutUC.Checkout(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		c.writeErr(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, checkoutResponse{URL: res.URL, Message: res.Message, Total: res.Total})
}

func (c *CartHandler) writeErr(w http.ResponseWriter, err error) {
	if code, _ := ToHTTPResponse(err); code >= http.StatusInternalServerError {
		c.logger.Errorf(err, "cart request failed")
	} else {
		c.logger.Warnf("%d %s", code, err.Error())
	}
	WriteError(w, err)
}
