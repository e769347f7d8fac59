package warranty_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/taller-pos/internal/application/warranty"
	"github.com/tu-usuario/taller-pos/internal/domain"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
	"github.com/tu-usuario/taller-pos/pkg/logger"
)

type memWarrantyRepo struct {
	byItem map[string]*entity.WarrantyCard
	// racer simula otra emisión concurrente: Create choca con el constraint
	// único y deja la tarjeta ganadora visible para la relectura.
	racer *entity.WarrantyCard
}

func newMemWarrantyRepo() *memWarrantyRepo {
	return &memWarrantyRepo{byItem: make(map[string]*entity.WarrantyCard)}
}

func (r *memWarrantyRepo) Create(card *entity.WarrantyCard) error {
	if r.racer != nil {
		r.byItem[r.racer.SaleItemID] = r.racer
		return domain.ErrDuplicate
	}
	if _, ok := r.byItem[card.SaleItemID]; ok {
		return domain.ErrDuplicate
	}
	r.byItem[card.SaleItemID] = card
	return nil
}

func (r *memWarrantyRepo) GetBySaleItem(itemID string) (*entity.WarrantyCard, error) {
	return r.byItem[itemID], nil
}

type linkRecorder struct {
	links map[string]string
}

func (r *linkRecorder) LinkItemWarranty(itemID, warrantyID string) error {
	if r.links == nil {
		r.links = make(map[string]string)
	}
	r.links[itemID] = warrantyID
	return nil
}

func (r *linkRecorder) Create(*entity.Sale) error                   { return nil }
func (r *linkRecorder) CreateItem(*entity.SaleItem) error           { return nil }
func (r *linkRecorder) Update(*entity.Sale) error                   { return nil }
func (r *linkRecorder) GetByID(string) (*entity.Sale, error)        { return nil, nil }
func (r *linkRecorder) GetItems(string) ([]*entity.SaleItem, error) { return nil, nil }
func (r *linkRecorder) List(repository.SaleFilter, int, int) ([]*entity.Sale, error) {
	return nil, nil
}

var _ repository.SaleRepository = (*linkRecorder)(nil)

func testSaleAndItem(months int) (*entity.Sale, *entity.SaleItem) {
	created := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)
	sale := &entity.Sale{
		ID:         "s1",
		Number:     "SALE-2026-0001",
		CustomerID: "cust-1",
		CreatedAt:  created,
	}
	item := &entity.SaleItem{
		ID:             "it-1",
		SaleID:         "s1",
		ProductID:      "p1",
		Quantity:       decimal.NewFromInt(1),
		WarrantyMonths: months,
	}
	return sale, item
}

func testLog() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func TestIssueFromSaleItem(t *testing.T) {
	repo := newMemWarrantyRepo()
	links := &linkRecorder{}
	issuer := warranty.NewIssuer(repo, links, testLog())
	sale, item := testSaleAndItem(6)

	card, err := issuer.IssueFromSaleItem(context.Background(), sale, item)
	require.NoError(t, err)
	require.NotNil(t, card)

	assert.Equal(t, "it-1", card.SaleItemID)
	assert.Equal(t, "cust-1", card.CustomerID)
	assert.Equal(t, 6, card.Months)
	// La cobertura arranca en la fecha de la venta, no en la de emisión
	assert.Equal(t, sale.CreatedAt, card.StartsAt)
	assert.Equal(t, time.Date(2026, 7, 31, 9, 0, 0, 0, time.UTC), card.ExpiresAt)
	assert.Equal(t, card.ID, links.links["it-1"], "la línea queda enlazada a su tarjeta")
}

func TestIssueFromSaleItem_Idempotente(t *testing.T) {
	repo := newMemWarrantyRepo()
	issuer := warranty.NewIssuer(repo, &linkRecorder{}, testLog())
	sale, item := testSaleAndItem(3)

	first, err := issuer.IssueFromSaleItem(context.Background(), sale, item)
	require.NoError(t, err)
	second, err := issuer.IssueFromSaleItem(context.Background(), sale, item)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "la reemisión devuelve la tarjeta existente")
	assert.Len(t, repo.byItem, 1)
}

func TestIssueFromSaleItem_SinCobertura(t *testing.T) {
	repo := newMemWarrantyRepo()
	issuer := warranty.NewIssuer(repo, &linkRecorder{}, testLog())
	sale, item := testSaleAndItem(0)

	card, err := issuer.IssueFromSaleItem(context.Background(), sale, item)
	require.NoError(t, err)
	assert.Nil(t, card)
	assert.Empty(t, repo.byItem)
}

func TestIssueFromSaleItem_CarreraPorConstraint(t *testing.T) {
	repo := newMemWarrantyRepo()
	issuer := warranty.NewIssuer(repo, &linkRecorder{}, testLog())
	sale, item := testSaleAndItem(12)
	repo.racer = &entity.WarrantyCard{ID: "card-ganadora", SaleItemID: item.ID}

	card, err := issuer.IssueFromSaleItem(context.Background(), sale, item)
	require.NoError(t, err)
	assert.Equal(t, "card-ganadora", card.ID, "el choque por constraint se resuelve releyendo")
}
