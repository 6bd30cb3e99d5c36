package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/bus"
)

type ImagesInfra interface {
	UploadImage(ctx context.Context, req *UploadImageReq) (*UploadImageRes, error)
	// CleanupImages удаляет объекты в фоне, с повторами.
	CleanupImages(keys []string)
	// KeyFromURL восстанавливает ключ объекта по публичной ссылке.
	KeyFromURL(url string) (string, bool)
}

// EventProducer публикует изменения каталога во внешний брокер.
type EventProducer interface {
	WriteCatalogChanged(ctx context.Context, msg bus.CatalogChanged) error
}
