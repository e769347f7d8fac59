package sales_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/taller-pos/internal/application/sales"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
	"github.com/tu-usuario/taller-pos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria compartido por los repos fake
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	sales     map[string]*entity.Sale
	items     map[string][]*entity.SaleItem
	stocks    map[string]*entity.Stock // product|location
	movements []*entity.StockMovement
	payments  map[string][]*entity.Payment
	refunds   map[string][]*entity.Refund
	sequences map[string]int64
}

func newMemStore() *memStore {
	return &memStore{
		sales:     make(map[string]*entity.Sale),
		items:     make(map[string][]*entity.SaleItem),
		stocks:    make(map[string]*entity.Stock),
		payments:  make(map[string][]*entity.Payment),
		refunds:   make(map[string][]*entity.Refund),
		sequences: make(map[string]int64),
	}
}

func stockKey(productID, locationID string) string { return productID + "|" + locationID }

func (s *memStore) seedStock(productID, locationID string, qty int64) {
	st := &entity.Stock{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   decimal.NewFromInt(qty),
	}
	st.Recalculate()
	s.stocks[stockKey(productID, locationID)] = st
}

func (s *memStore) stockQty(productID, locationID string) decimal.Decimal {
	if st, ok := s.stocks[stockKey(productID, locationID)]; ok {
		return st.Quantity
	}
	return decimal.Zero
}

// snapshot copia profunda del estado mutable, para simular rollback.
func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range s.sales {
		cp := *v
		c.sales[k] = &cp
	}
	for k, list := range s.items {
		for _, it := range list {
			cp := *it
			c.items[k] = append(c.items[k], &cp)
		}
	}
	for k, v := range s.stocks {
		cp := *v
		c.stocks[k] = &cp
	}
	for _, m := range s.movements {
		cp := *m
		c.movements = append(c.movements, &cp)
	}
	for k, list := range s.payments {
		for _, p := range list {
			cp := *p
			c.payments[k] = append(c.payments[k], &cp)
		}
	}
	for k, list := range s.refunds {
		for _, r := range list {
			cp := *r
			c.refunds[k] = append(c.refunds[k], &cp)
		}
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

func (s *memStore) restore(from *memStore) {
	s.sales = from.sales
	s.items = from.items
	s.stocks = from.stocks
	s.movements = from.movements
	s.payments = from.payments
	s.refunds = from.refunds
	s.sequences = from.sequences
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeSaleRepo struct{ s *memStore }

func (r *fakeSaleRepo) Create(sale *entity.Sale) error {
	cp := *sale
	r.s.sales[sale.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) CreateItem(item *entity.SaleItem) error {
	cp := *item
	r.s.items[item.SaleID] = append(r.s.items[item.SaleID], &cp)
	return nil
}

func (r *fakeSaleRepo) Update(sale *entity.Sale) error {
	if _, ok := r.s.sales[sale.ID]; !ok {
		return fmt.Errorf("venta %s no existe", sale.ID)
	}
	cp := *sale
	r.s.sales[sale.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sale
	return &cp, nil
}

func (r *fakeSaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	for _, it := range r.s.items[saleID] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSaleRepo) List(filter repository.SaleFilter, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		if filter.Status != "" && sale.Status != filter.Status {
			continue
		}
		if filter.LocationID != "" && sale.LocationID != filter.LocationID {
			continue
		}
		if filter.Search != "" && !strings.Contains(sale.Number, filter.Search) &&
			!strings.Contains(sale.CustomerName, filter.Search) {
			continue
		}
		cp := *sale
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSaleRepo) LinkItemWarranty(itemID, warrantyID string) error {
	for _, list := range r.s.items {
		for _, it := range list {
			if it.ID == itemID {
				it.WarrantyID = warrantyID
				return nil
			}
		}
	}
	return nil
}

type fakeStockRepo struct{ s *memStore }

func (r *fakeStockRepo) Get(productID, locationID string) (*entity.Stock, error) {
	return r.GetForUpdate(productID, locationID)
}

func (r *fakeStockRepo) GetForUpdate(productID, locationID string) (*entity.Stock, error) {
	st, ok := r.s.stocks[stockKey(productID, locationID)]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (r *fakeStockRepo) Upsert(stock *entity.Stock) error {
	cp := *stock
	r.s.stocks[stockKey(stock.ProductID, stock.LocationID)] = &cp
	return nil
}

type fakeMovementRepo struct{ s *memStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) ListByProductLocation(productID, locationID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID && m.LocationID == locationID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakePaymentRepo struct{ s *memStore }

func (r *fakePaymentRepo) Create(p *entity.Payment) error {
	cp := *p
	r.s.payments[p.SaleID] = append(r.s.payments[p.SaleID], &cp)
	return nil
}

func (r *fakePaymentRepo) ListBySale(saleID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.s.payments[saleID] {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePaymentRepo) CountBySale(saleID string) (int, error) {
	return len(r.s.payments[saleID]), nil
}

type fakeRefundRepo struct{ s *memStore }

func (r *fakeRefundRepo) Create(rf *entity.Refund) error {
	cp := *rf
	r.s.refunds[rf.SaleID] = append(r.s.refunds[rf.SaleID], &cp)
	return nil
}

func (r *fakeRefundRepo) ListBySale(saleID string) ([]*entity.Refund, error) {
	var out []*entity.Refund
	for _, rf := range r.s.refunds[saleID] {
		cp := *rf
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRefundRepo) SumBySale(saleID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, rf := range r.s.refunds[saleID] {
		sum = sum.Add(rf.Amount)
	}
	return sum, nil
}

type fakeSequenceRepo struct{ s *memStore }

func (r *fakeSequenceRepo) Next(scope string) (int64, error) {
	r.s.sequences[scope]++
	return r.s.sequences[scope], nil
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner fake: snapshot al comenzar, restore si fn falla
// ──────────────────────────────────────────────────────────────────────────────

type fakeTxRunner struct{ s *memStore }

func (t *fakeTxRunner) RunSales(ctx context.Context, fn func(
	repository.SaleRepository,
	repository.StockRepository,
	repository.StockMovementRepository,
	repository.PaymentRepository,
	repository.RefundRepository,
) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	snap := t.s.snapshot()
	err := fn(&fakeSaleRepo{t.s}, &fakeStockRepo{t.s}, &fakeMovementRepo{t.s}, &fakePaymentRepo{t.s}, &fakeRefundRepo{t.s})
	if err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

func (t *fakeTxRunner) RunInventory(ctx context.Context, fn func(
	repository.StockRepository,
	repository.StockMovementRepository,
) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	snap := t.s.snapshot()
	if err := fn(&fakeStockRepo{t.s}, &fakeMovementRepo{t.s}); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Colaboradores fake de efectos colaterales
// ──────────────────────────────────────────────────────────────────────────────

type fakeProducts struct{ byID map[string]*entity.Product }

func (f *fakeProducts) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

type fakeCustomerRepo struct{ byID map[string]*entity.Customer }

func (f *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

type fakeLocationRepo struct{ byID map[string]*entity.Location }

func (f *fakeLocationRepo) GetByID(id string) (*entity.Location, error) {
	l, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

type fakeWarrantyIssuer struct {
	mu     sync.Mutex
	issued []string // sale item IDs
}

func (f *fakeWarrantyIssuer) IssueFromSaleItem(ctx context.Context, sale *entity.Sale, item *entity.SaleItem) (*entity.WarrantyCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued = append(f.issued, item.ID)
	return &entity.WarrantyCard{ID: "w-" + item.ID, SaleItemID: item.ID}, nil
}

func (f *fakeWarrantyIssuer) issuedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.issued)
}

type fakeNotifier struct {
	mu        sync.Mutex
	reached   bool
	created   []string // sale numbers
	cancelled []string
}

func (f *fakeNotifier) NotifySaleCreated(ctx context.Context, sale *entity.Sale) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, sale.Number)
	return f.reached, nil
}

func (f *fakeNotifier) NotifySaleCancelled(ctx context.Context, sale *entity.Sale, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, sale.Number)
	return nil
}

func (f *fakeNotifier) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *fakeNotifier) cancelledCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cancelled)
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []string // phones
}

func (f *fakeSMS) SendPlainConfirmation(ctx context.Context, phone, customerName, saleNumber string, total decimal.Decimal, locationName string) (bool, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, phone)
	return true, "msg-1", nil
}

func (f *fakeSMS) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado del entorno de prueba
// ──────────────────────────────────────────────────────────────────────────────

type saleEnv struct {
	store    *memStore
	tx       *fakeTxRunner
	products *fakeProducts
	warranty *fakeWarrantyIssuer
	notifier *fakeNotifier
	sms      *fakeSMS
	saleRepo *fakeSaleRepo
}

func newSaleEnv() *saleEnv {
	store := newMemStore()
	return &saleEnv{
		store:    store,
		tx:       &fakeTxRunner{store},
		products: &fakeProducts{byID: make(map[string]*entity.Product)},
		warranty: &fakeWarrantyIssuer{},
		notifier: &fakeNotifier{},
		sms:      &fakeSMS{},
		saleRepo: &fakeSaleRepo{store},
	}
}

func (e *saleEnv) addProduct(id, name string, price int64, warrantyMonths int) {
	e.products.byID[id] = &entity.Product{
		ID:             id,
		SKU:            "SKU-" + id,
		Name:           name,
		Price:          decimal.NewFromInt(price),
		Cost:           decimal.NewFromInt(price / 2),
		WarrantyMonths: warrantyMonths,
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

var _ sales.TxRunner = (*fakeTxRunner)(nil)
var _ sales.ProductDirectory = (*fakeProducts)(nil)
var _ sales.WarrantyIssuer = (*fakeWarrantyIssuer)(nil)
var _ sales.Notifier = (*fakeNotifier)(nil)
var _ sales.SMSSender = (*fakeSMS)(nil)
var _ repository.SaleRepository = (*fakeSaleRepo)(nil)
var _ repository.SequenceRepository = (*fakeSequenceRepo)(nil)
