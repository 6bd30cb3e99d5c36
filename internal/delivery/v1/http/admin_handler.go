package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

const (
	maxImageRequestSize = 16 << 20
	maxImageSize        = 15 << 20
	maxMultipartMemory  = 8 << 20

	uncategorizedParam = "uncategorized"
)

// AdminHandler обслуживает CRUD админки: товары и паки, категории, доп. позиции.
type AdminHandler struct {
	catalogUC  usecase.CatalogUC
	productUC  usecase.ProductUC
	categoryUC usecase.CategoryUC
	extraUC    usecase.ExtraUC
	logger     logger.Logger
}

func NewAdminHandler(
	catalogUC usecase.CatalogUC,
	productUC usecase.ProductUC,
	categoryUC usecase.CategoryUC,
	extraUC usecase.ExtraUC,
	logger logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		catalogUC:  catalogUC,
		productUC:  productUC,
		categoryUC: categoryUC,
		extraUC:    extraUC,
		logger:     logger,
	}
}

// PRODUCTS

// listProducts: по умолчанию видны и активные, и скрытые товары.
//
//	@Summary		Товары админки
//	@Description	Сначала новые; поиск также по названию категории
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			q	query	string	false	"Поиск"
//	@Param			filterBy	query	string	false	"active, inactive или all"
//	@Param			page	query	int	false	"Страница"
//	@Param			pageSize	query	int	false	"Размер страницы"
//	@Success		200	{object}	productPageResponse	"Страница товаров"
//	@Failure		401	{object}	ErrorResponse	"Нет токена"
//	@Router			/admin/products [get]
func (a *AdminHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	req, err := parseCatalogRequest(r)
	if err != nil {
		a.writeErr(w, err)
		return
	}
	if r.URL.Query().Get("filterBy") == "" {
		req.FilterBy = catalog.VisibilityAll
	}

	page, err := a.catalogUC.AdminProducts(r.Context(), req)
	if err != nil {
		a.writeErr(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductPageResponse(page, r.URL.Query().Get("seq")))
}

// getProduct
//
//	@Summary		Товар админки
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	int	true	"id товара"
//	@Success		200	{object}	productResponse	"Товар"
//	@Failure		404	{object}	ErrorResponse	"Не найден"
//	@Router			/admin/products/{id} [get]
func (a *AdminHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeErr(w, err)
		return
	}

	product, err := a.productUC.Get(r.Context(), id)
	if err != nil {
		a.writeErr(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// createProduct
//
//	@Summary		Создание товара или пака
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body	saveProductBody	true	"Товар"
//	@Success		201	{object}	productResponse	"Создан"
//	@Failure		400	{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/admin/products [post]
func (a *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body saveProductBody
	if err := decodeJSON(w, r, &body); err != nil {
		a.writeErr(w, err)
		return
	}

	product, err := a.productUC.Create(r.Context(), body.toReq())
	if err != nil {
		a.writeErr(w, err)
		return
	}

	a.logger.Infof("product created: id=%d pack=%t", product.ID, product.IsPack)
	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// updateProduct
//
//	@Summary		Обновление товара
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	int	true	"id товара"
//	@Param			body	body	saveProductBody	true	"Товар"
//	@Success		200	{object}	productResponse	"Обновлён"
//	@Failure		400	{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		404	{object}	ErrorResponse	"Не найден"
//	@Router			/admin/products/{id} [put]
func (a *AdminHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeErr(w, err)
		return
	}

	var body saveProductBody
	if err := decodeJSON(w, r, &body); err != nil {
		a.writeErr(w, err)
		return
	}

	product, err := a.productUC.Update(r.Context(), id, body.toReq())
	if err != nil {
		a.writeErr(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// setProductActive
//
//	@Summary		Видимость товара
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	int	true	"id товара"
//	@Param			body	body	activeBody	true	"Видимость"
//	@Success		200	{object}	productResponse	"Обновлён"
//	@Router			/admin/products/{id}/active [patch]
func (a *AdminHandler) setProductActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeErr(w, err)
		return
	}

	var body activeBody
	if err := decodeJSON(w, r, &body); err != nil {
		a.writeErr(w, err)
		return
	}

	product, err := a.productUC.SetActive(r.Context(), id, body.Active)
	if err != nil {
		a.writeErr(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// setProductImage
//
//	@Summary		Изображение товара
//	@Tags			admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	int	true	"id товара"
//	@Param			image	formData	file	true	"Изображение"
//	@Success		200	{object}	productResponse	"Обновлён"
//	@Failure		413	{object}	ErrorResponse	"Файл слишком большой"
//	@Failure		415	{object}	ErrorResponse	"Неподдерживаемый формат"
//	@Router			/admin/products/{id}/image [put]
func (a *AdminHandler) setProductImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeErr(w, err)
		return
	}

	image, err := readImageForm(w, r)
	if err != nil {
		a.writeErr(w, err)
		return
	}

	product, err := a.productUC.SetImage(r.Context(), id, image)
	if err != nil {
		a.writeErr(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// deleteProduct
//
//	@Summary		Удаление товара
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	int	true	"id товара"
//	@Success		204	"Удалён"
//	@Router			/admin/products/{id} [delete]
func (a *AdminHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeErr(w, err)
		return
	}

	if err := a.productUC.Delete(r.Context(), id); err != nil {
		a.writeErr(w, err)
		return
	}

	a.logger.Infof("product deleted: id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}

// CATEGORIES

// listCategories
//
//	@Summary		Категории
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}	categoryResponse	"Категории"
//	@Router			/admin/categories [get]
func (a *AdminHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categoryUC.List(r.Context())
	if err != nil {
		a.writeErr(w, err)
		return
	}

	res := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		res = append(res, toCategoryResponse(&categories[i]))
	}

	WriteSuccess(w, http.StatusOK, res)
}

// createCategory
//
//	@Summary		Создание категории
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body	nameBody	true	"Категория"
//	@Success		201	{object}	categoryResponse	"Создана"
//	@Router			/admin/categories [post]
func (a *AdminHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var body nameBody
	if err := decodeJSON(w, r, &body); err != nil {
		a.writeErr(w, err)
		return
	}

	category, err := a.categoryUC.Create(r.Context(), &usecase.SaveCategoryReq{Name: body.Name})
	if err != nil {
		a.writeErr(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toCategoryResponse(category))
}

// updateCategory
//
//	@Summary		Переименование категории
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	int	true	"id категории"
//	@Param			body	body	nameBody	true	"Категория"
//	@Success		200	{object}	categoryResponse	"Обновлена"
//	@Router			/admin/categories/{id} [put]
func (a *AdminHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeErr(w, err)
		return
	}

	var body nameBody
	if err := decodeJSON(w, r, &body); err != nil {
		a.writeErr(w, err)
		return
	}

	category, err := a.categoryUC.Update(r.Context(), id, &usecase.SaveCategoryReq{Name: body.Name})
	if err != nil {
		a.writeErr(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategoryResponse(category))
}

// setCategoryImage
//
//	@Summary		Изображение категории
//	@Tags			admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	int	true	"id категории"
//	@Param			image	formData	file	true	"Изображение"
//	@Success		200	{object}	categoryResponse	"Обновлена"
//	@Router			/admin/categories/{id}/image [put]
func (a *AdminHandler) setCategoryImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeErr(w, err)
		return
	}

	image, err := readImageForm(w, r)
	if err != nil {
		a.writeErr(w, err)
		return
	}

	category, err := a.categoryUC.SetImage(r.Context(), id, image)
	if err != nil {
		a.writeErr(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategoryResponse(category))
}

// deleteCategory принимает ?reassignTo=<id> или ?reassignTo=uncategorized.
//
//	@Summary		Удаление категории
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	int	true	"id категории"
//	@Param			reassignTo	query	string	false	"id категории или uncategorized"
//	@Success		204	"Удалена"
//	@Failure		409	{object}	ErrorResponse	"В категории есть товары"
//	@Router			/admin/categories/{id} [delete]
func (a *AdminHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeErr(w, err)
		return
	}

	req, err := parseDeleteCategory(id, r.URL.Query().Get("reassignTo"))
	if err != nil {
		a.writeErr(w, err)
		return
	}

	if err := a.categoryUC.Delete(r.Context(), req); err != nil {
		a.writeErr(w, err)
		return
	}

	a.logger.Infof("category deleted: id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}

// EXTRAS

// listExtras
//
//	@Summary		Доп. позиции
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}	extraResponse	"Доп. позиции"
//	@Router			/admin/extras [get]
func (a *AdminHandler) listExtras(w http.ResponseWriter, r *http.Request) {
	extras, err := a.extraUC.List(r.Context())
	if err != nil {
		a.writeErr(w, err)
		return
	}

	res := make([]extraResponse, 0, len(extras))
	for _, x := range extras {
		res = append(res, toExtraResponse(&x))
	}

	WriteSuccess(w, http.StatusOK, res)
}

// createExtra
//
//	@Summary		Создание доп. позиции
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body	nameBody	true	"Доп. позиция"
//	@Success		201	{object}	extraResponse	"Создана"
//	@Router			/admin/extras [post]
func (a *AdminHandler) createExtra(w http.ResponseWriter, r *http.Request) {
	var body nameBody
	if err := decodeJSON(w, r, &body); err != nil {
		a.writeErr(w, err)
		return
	}

	extra, err := a.extraUC.Create(r.Context(), &usecase.SaveExtraReq{Name: body.Name})
	if err != nil {
		a.writeErr(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toExtraResponse(extra))
}

// updateExtra
//
//	@Summary		Обновление доп. позиции
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	int	true	"id"
//	@Param			body	body	nameBody	true	"Доп. позиция"
//	@Success		200	{object}	extraResponse	"Обновлена"
//	@Router			/admin/extras/{id} [put]
func (a *AdminHandler) updateExtra(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeErr(w, err)
		return
	}

	var body nameBody
	if err := decodeJSON(w, r, &body); err != nil {
		a.writeErr(w, err)
		return
	}

	extra, err := a.extraUC.Update(r.Context(), id, &usecase.SaveExtraReq{Name: body.Name})
	if err != nil {
		a.writeErr(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toExtraResponse(extra))
}

// deleteExtra
//
//	@Summary		Удаление доп. позиции
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	int	true	"id"
//	@Success		204	"Удалена"
//	@Failure		409	{object}	ErrorResponse	"Используется в паках"
//	@Router			/admin/extras/{id} [delete]
func (a *AdminHandler) deleteExtra(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeErr(w, err)
		return
	}

	if err := a.extraUC.Delete(r.Context(), id); err != nil {
		a.writeErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *AdminHandler) writeErr(w http.ResponseWriter, err error) {
	if code, _ := ToHTTPResponse(err); code >= http.StatusInternalServerError {
		a.logger.Errorf(err, "admin request failed")
	} else {
		a.logger.Warnf("%d %s", code, err.Error())
	}
	WriteError(w, err)
}

func readImageForm(w http.ResponseWriter, r *http.Request) (*usecase.ProductImage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageRequestSize)

	if err := ensureMultipartForm(r, maxMultipartMemory); err != nil {
		return nil, err
	}

	return parseImage(r, maxImageSize)
}

func parseDeleteCategory(id int64, reassignTo string) (*usecase.DeleteCategoryReq, error) {
	req := &usecase.DeleteCategoryReq{ID: id}

	switch reassignTo = strings.TrimSpace(reassignTo); {
	case reassignTo == "":
	case strings.EqualFold(reassignTo, uncategorizedParam):
		req.UseUncategorized = true
	default:
		to, err := strconv.ParseInt(reassignTo, 10, 64)
		if err != nil || to <= 0 {
			return nil, e.Wrap("reassignTo", e.ErrInvalidID)
		}
		req.ReassignTo = &to
	}

	return req, nil
}

func toExtraResponse(x *domain.Extra) extraResponse {
	return extraResponse{ID: x.ID, Name: x.Name}
}
