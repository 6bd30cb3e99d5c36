package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Классы ошибок, которые видит клиент
	ErrValidation      = fmt.Errorf("validation failed")
	ErrConfiguration   = fmt.Errorf("invalid configuration")
	ErrDataUnavailable = fmt.Errorf("data unavailable")
	ErrConflict        = fmt.Errorf("conflict")
	ErrNotFound        = fmt.Errorf("not found")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrProductNameRequired  = fmt.Errorf("%w: product name is required", ErrValidation)
	ErrCategoryRequired     = fmt.Errorf("%w: category is required", ErrValidation)
	ErrNameRequired         = fmt.Errorf("%w: name is required", ErrValidation)
	ErrInvalidPrice         = fmt.Errorf("%w: invalid price", ErrValidation)
	ErrPricePrecision       = fmt.Errorf("%w: price must have at most 2 decimal places", ErrValidation)
	ErrInvalidDiscount      = fmt.Errorf("%w: discount percent must be in (0, 100]", ErrValidation)
	ErrInvalidQuantity      = fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	ErrEmptyComposition     = fmt.Errorf("%w: pack composition is empty", ErrValidation)
	ErrUnknownExtra         = fmt.Errorf("%w: pack references unknown extra", ErrValidation)
	ErrEmptyCart            = fmt.Errorf("%w: cart is empty", ErrValidation)
	ErrInvalidID            = fmt.Errorf("%w: invalid id", ErrValidation)
	ErrExpectedMultipart    = fmt.Errorf("%w: expected multipart/form-data", ErrValidation)
	ErrNoImages             = fmt.Errorf("%w: no images provided", ErrValidation)
	ErrFileTooLarge         = fmt.Errorf("%w: file too large", ErrValidation)
	ErrUnsupportedMediaType = fmt.Errorf("%w: unsupported media type", ErrValidation)

	// ErrPageSize возвращается движком каталога при pageSize <= 0
	ErrPageSize = fmt.Errorf("%w: page size must be positive", ErrConfiguration)

	// 409 Conflict
	ErrCategoryInUse = fmt.Errorf("%w: category still has products", ErrConflict)
	ErrExtraInUse    = fmt.Errorf("%w: extra is used by packs", ErrConflict)

	// 401 / 500
	ErrUnauthorized         = fmt.Errorf("unauthorized")
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// Unavailable помечает ошибку внешнего хранилища как ErrDataUnavailable, сохраняя причину.
func Unavailable(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, ErrDataUnavailable, err)
}
