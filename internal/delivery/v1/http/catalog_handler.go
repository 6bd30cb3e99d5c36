package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

// CatalogHandler обслуживает публичные запросы витрины.
type CatalogHandler struct {
	catalogUC usecase.CatalogUC
	logger    logger.Logger
}

func NewCatalogHandler(catalogUC usecase.CatalogUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUC: catalogUC, logger: logger}
}

// listProducts возвращает страницу витрины. Параметр seq возвращается как есть,
// чтобы клиент мог отбросить устаревшие ответы.
//
//	@Summary		Страница витрины
//	@Description	Активные товары с фильтрами; паки первыми, затем по названию
//	@Tags			catalog
//	@Produce		json
//	@Param			q	query	string	false	"Поиск по названию или id"
//	@Param			categories	query	string	false	"id категорий или packs"
//	@Param			brands	query	string	false	"Бренды"
//	@Param			priceMin	query	number	false	"Мин. цена"
//	@Param			priceMax	query	number	false	"Макс. цена"
//	@Param			page	query	int	false	"Страница"
//	@Param			pageSize	query	int	false	"Размер страницы"
//	@Param			seq	query	string	false	"Метка запроса клиента"
//	@Success		200	{object}	productPageResponse	"Страница товаров"
//	@Failure		400	{object}	ErrorResponse	"Ошибка параметров"
//	@Failure		503	{object}	ErrorResponse	"Хранилище недоступно"
//	@Router			/catalog/products [get]
func (c *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	req, err := parseCatalogRequest(r)
	if err != nil {
		c.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	page, err := c.catalogUC.Products(r.Context(), req)
	if err != nil {
		c.logger.Errorf(err, "catalog products query failed")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductPageResponse(page, r.URL.Query().Get("seq")))
}

// getProduct
//
//	@Summary		Товар витрины
//	@Tags			catalog
//	@Produce		json
//	@Param			id	path	int	true	"id товара"
//	@Success		200	{object}	productResponse	"Товар"
//	@Failure		404	{object}	ErrorResponse	"Не найден"
//	@Router			/catalog/products/{id} [get]
func (c *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := c.catalogUC.Product(r.Context(), id)
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// listCategories
//
//	@Summary		Категории витрины
//	@Description	Категории и виртуальная категория паков
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{array}	categoryResponse	"Категории"
//	@Router			/catalog/categories [get]
func (c *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	views, err := c.catalogUC.Categories(r.Context())
	if err != nil {
		c.logger.Errorf(err, "catalog categories query failed")
		WriteError(w, err)
		return
	}

	res := make([]categoryResponse, 0, len(views))
	for _, v := range views {
		res = append(res, toCategoryViewResponse(v))
	}

	WriteSuccess(w, http.StatusOK, res)
}

// listBrands
//
//	@Summary		Бренды активных товаров
//	@Tags			catalog
//	@Produce		json
//	@Param			categories	query	string	false	"id категорий или packs"
//	@Success		200	{object}	map[string]interface{}	"Бренды"
//	@Router			/catalog/brands [get]
func (c *CatalogHandler) listBrands(w http.ResponseWriter, r *http.Request) {
	categories, err := catalog.ParseCategorySet(r.URL.Query()["categories"])
	if err != nil {
		WriteError(w, err)
		return
	}

	brands, err := c.catalogUC.Brands(r.Context(), categories)
	if err != nil {
		c.logger.Errorf(err, "catalog brands query failed")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]any{"brands": brands})
}
