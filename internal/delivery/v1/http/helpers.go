package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// clientErrors: ошибки, текст которых можно показать клиенту как есть.
// Более конкретные идут раньше.
var clientErrors = []error{
	e.ErrProductNameRequired,
	e.ErrCategoryRequired,
	e.ErrNameRequired,
	e.ErrInvalidPrice,
	e.ErrPricePrecision,
	e.ErrInvalidDiscount,
	e.ErrInvalidQuantity,
	e.ErrEmptyComposition,
	e.ErrUnknownExtra,
	e.ErrEmptyCart,
	e.ErrInvalidID,
	e.ErrExpectedMultipart,
	e.ErrNoImages,
	e.ErrFileTooLarge,
	e.ErrUnsupportedMediaType,
	e.ErrCategoryInUse,
	e.ErrExtraInUse,
}

func ToHTTPResponse(err error) (int, string) {
	code, fallback := statusOf(err)
	if code >= http.StatusInternalServerError {
		return code, fallback.Error()
	}

	for _, known := range clientErrors {
		if errors.Is(err, known) {
			return code, known.Error()
		}
	}

	return code, fallback.Error()
}

func statusOf(err error) (int, error) {
	switch {
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, e.ErrFileTooLarge
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, e.ErrUnsupportedMediaType
	case errors.Is(err, e.ErrValidation):
		return http.StatusBadRequest, e.ErrValidation
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest
	case errors.Is(err, e.ErrPageSize):
		return http.StatusBadRequest, e.ErrPageSize
	case errors.Is(err, e.ErrUnauthorized):
		return http.StatusUnauthorized, e.ErrUnauthorized
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, e.ErrNotFound
	case errors.Is(err, e.ErrConflict):
		return http.StatusConflict, e.ErrConflict
	case errors.Is(err, e.ErrDataUnavailable):
		return http.StatusServiceUnavailable, e.ErrDataUnavailable
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса; неизвестные поля запрещены.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	const maxBody = 1 << 20

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Wrap(name, e.ErrInvalidID)
	}

	return id, nil
}

// parsePrice разбирает цену вида "12.50". Пустая строка даёт ноль.
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, e.ErrInvalidPrice
	}

	return d, nil
}

func parseIntParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, e.Wrap(raw, e.ErrStatusBadRequest)
	}

	return v, nil
}

// parseCatalogRequest разбирает query-параметры каталога:
// q, categories, priceMin, priceMax, brands, onlyPacks, filterBy, page, pageSize.
func parseCatalogRequest(r *http.Request) (catalog.Request, error) {
	q := r.URL.Query()
	var req catalog.Request

	req.SearchTerm = q.Get("q")

	categories, err := catalog.ParseCategorySet(q["categories"])
	if err != nil {
		return req, err
	}
	req.Categories = categories

	if req.PriceMin, err = parsePrice(q.Get("priceMin")); err != nil {
		return req, err
	}

	if raw := q.Get("priceMax"); raw != "" {
		priceMax, err := parsePrice(raw)
		if err != nil {
			return req, err
		}
		req.PriceMax = &priceMax
	}

	for _, b := range q["brands"] {
		if b = strings.TrimSpace(b); b != "" {
			req.Brands = append(req.Brands, b)
		}
	}

	if raw := q.Get("onlyPacks"); raw != "" {
		if req.OnlyPacks, err = strconv.ParseBool(raw); err != nil {
			return req, e.Wrap("onlyPacks", e.ErrStatusBadRequest)
		}
	}

	if req.FilterBy, err = catalog.ParseVisibility(q.Get("filterBy")); err != nil {
		return req, err
	}

	if req.Page, err = parseIntParam(q.Get("page"), 1); err != nil {
		return req, err
	}

	if req.PageSize, err = parseIntParam(q.Get("pageSize"), 0); err != nil {
		return req, err
	}

	return req, nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return e.ErrFileTooLarge
		}
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return nil
}

// parseImage читает единственный файл из поля "image".
func parseImage(r *http.Request, maxFileSize int64) (*usecase.ProductImage, error) {
	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		return nil, e.ErrNoImages
	}

	data, mimeType, err := readFile(files[0], maxFileSize)
	if err != nil {
		return nil, err
	}

	return usecase.NewProductImage(data, mimeType, int64(len(data)), files[0].Filename), nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if fh.Size > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}
