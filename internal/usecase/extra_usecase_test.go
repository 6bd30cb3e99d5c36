package usecase

import (
	"context"
	"testing"

	"github.com/DRSN-tech/storefront/internal/bus"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtraUseCase_Create(t *testing.T) {
	extras := newFakeExtras()
	pub := &recordingPublisher{}
	uc := NewExtraUC(extras, pub)

	_, err := uc.Create(context.Background(), &SaveExtraReq{Name: " "})
	assert.ErrorIs(t, err, e.ErrNameRequired)

	created, err := uc.Create(context.Background(), &SaveExtraReq{Name: "  Hielo   1kg "})
	require.NoError(t, err)
	assert.Equal(t, "Hielo 1kg", extras.items[created.ID].Name)
	assert.Equal(t, []bus.CatalogChanged{{Entity: bus.EntityExtra, ID: created.ID, Op: bus.OpCreated}}, pub.catalogChanges())
}

func TestExtraUseCase_CreateAndUpdate(t *testing.T) {
	extras := newFakeExtras()
	uc := NewExtraUC(extras, &recordingPublisher{})

	_, err := uc.Create(context.Background(), &SaveExtraReq{})
	assert.ErrorIs(t, err, e.ErrNameRequired)

	created, err := uc.Create(context.Background(), &SaveExtraReq{Name: "Hielo"})
	require.NoError(t, err)

	updated, err := uc.Update(context.Background(), created.ID, &SaveExtraReq{Name: "Hielo picado"})
	require.NoError(t, err)
	assert.Equal(t, "Hielo picado", updated.Name)

	_, err = uc.Update(context.Background(), 99, &SaveExtraReq{Name: "x"})
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestExtraUseCase_DeleteUsedConflicts(t *testing.T) {
	extras := newFakeExtras(domain.Extra{ID: 1, Name: "Hielo"}, domain.Extra{ID: 2, Name: "Limón"})
	extras.used[1] = true
	pub := &recordingPublisher{}
	uc := NewExtraUC(extras, pub)

	err := uc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, e.ErrExtraInUse)
	assert.ErrorIs(t, err, e.ErrConflict)
	assert.Contains(t, extras.items, int64(1))

	require.NoError(t, uc.Delete(context.Background(), 2))
	assert.NotContains(t, extras.items, int64(2))
	assert.Equal(t, []bus.CatalogChanged{{Entity: bus.EntityExtra, ID: 2, Op: bus.OpDeleted}}, pub.catalogChanges())
}
