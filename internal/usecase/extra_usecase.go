package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/bus"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/go-playground/validator/v10"
)

// ExtraUseCase управляет доп. позициями, из которых собираются паки.
type ExtraUseCase struct {
	extraRepo ExtraRepository
	publisher Publisher
	validate  *validator.Validate
}

func NewExtraUC(extraRepo ExtraRepository, publisher Publisher) *ExtraUseCase {
	return &ExtraUseCase{
		extraRepo: extraRepo,
		publisher: publisher,
		validate:  newValidator(),
	}
}

func (x *ExtraUseCase) List(ctx context.Context) ([]domain.Extra, error) {
	extras, err := x.extraRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap("ExtraUseCase.List", e.Unavailable("extras", err))
	}

	return extras, nil
}

func (x *ExtraUseCase) Create(ctx context.Context, req *SaveExtraReq) (*domain.Extra, error) {
	const op = "ExtraUseCase.Create"

	req.Name = normalizeName(req.Name)
	if err := validateStruct(x.validate, req); err != nil {
		return nil, e.Wrap(op, err)
	}

	created, err := x.extraRepo.Create(ctx, domain.NewExtra(req.Name))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	x.publish(created.ID, bus.OpCreated)
	return created, nil
}

func (x *ExtraUseCase) Update(ctx context.Context, id int64, req *SaveExtraReq) (*domain.Extra, error) {
	const op = "ExtraUseCase.Update"

	req.Name = normalizeName(req.Name)
	if err := validateStruct(x.validate, req); err != nil {
		return nil, e.Wrap(op, err)
	}

	extra := domain.NewExtra(req.Name)
	extra.ID = id

	updated, err := x.extraRepo.Update(ctx, extra)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	x.publish(id, bus.OpUpdated)
	return updated, nil
}

// Delete удаляет доп. позицию, если она не входит ни в один пак.
func (x *ExtraUseCase) Delete(ctx context.Context, id int64) error {
	const op = "ExtraUseCase.Delete"

	used, err := x.extraRepo.IsUsed(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}

	if used {
		return e.Wrap(op, e.ErrExtraInUse)
	}

	if err := x.extraRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	x.publish(id, bus.OpDeleted)
	return nil
}

func (x *ExtraUseCase) publish(id int64, op bus.Op) {
	x.publisher.Publish(bus.CatalogChanged{Entity: bus.EntityExtra, ID: id, Op: op})
}
