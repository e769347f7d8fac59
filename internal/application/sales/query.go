package sales

import (
	"context"
	"time"

	"github.com/tu-usuario/taller-pos/internal/application/dto"
	"github.com/tu-usuario/taller-pos/internal/domain"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
)

// QueryUseCase consultas de ventas: detalle completo y listado con filtros.
type QueryUseCase struct {
	saleRepo    repository.SaleRepository
	paymentRepo repository.PaymentRepository
	refundRepo  repository.RefundRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(saleRepo repository.SaleRepository, paymentRepo repository.PaymentRepository, refundRepo repository.RefundRepository) *QueryUseCase {
	return &QueryUseCase{saleRepo: saleRepo, paymentRepo: paymentRepo, refundRepo: refundRepo}
}

// GetSaleByID devuelve la venta con líneas, pagos y devoluciones.
func (uc *QueryUseCase) GetSaleByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	payments, err := uc.paymentRepo.ListBySale(id)
	if err != nil {
		return nil, err
	}
	refunds, err := uc.refundRepo.ListBySale(id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items, payments, refunds), nil
}

// ListSales lista ventas según filtros y paginación.
func (uc *QueryUseCase) ListSales(ctx context.Context, in dto.ListSalesRequest) ([]*dto.SaleResponse, error) {
	in.DefaultPage()
	filter := repository.SaleFilter{
		LocationID:    in.LocationID,
		CustomerID:    in.CustomerID,
		SellerID:      in.SellerID,
		Status:        in.Status,
		PaymentStatus: in.PaymentStatus,
		Search:        in.Search,
	}
	if in.From != "" {
		if t, err := time.Parse("2006-01-02", in.From); err == nil {
			filter.From = &t
		} else {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.To != "" {
		if t, err := time.Parse("2006-01-02", in.To); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			filter.To = &end
		} else {
			return nil, domain.ErrInvalidInput
		}
	}
	sales, err := uc.saleRepo.List(filter, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleResponse(s, nil, nil, nil))
	}
	return out, nil
}

// toSaleResponse arma la respuesta completa de una venta.
func toSaleResponse(sale *entity.Sale, items []*entity.SaleItem, payments []*entity.Payment, refunds []*entity.Refund) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            sale.ID,
		Number:        sale.Number,
		CustomerID:    sale.CustomerID,
		CustomerName:  sale.CustomerName,
		CustomerPhone: sale.CustomerPhone,
		LocationID:    sale.LocationID,
		SellerID:      sale.SellerID,
		Subtotal:      sale.Subtotal,
		Discount:      sale.Discount,
		Tax:           sale.Tax,
		Total:         sale.Total,
		Paid:          sale.Paid,
		Balance:       sale.Balance,
		PaymentStatus: sale.PaymentStatus,
		Status:        sale.Status,
		Notes:         sale.Notes,
		CreatedAt:     sale.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:             it.ID,
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			ProductSKU:     it.ProductSKU,
			UnitPrice:      it.UnitPrice,
			Quantity:       it.Quantity,
			Discount:       it.Discount,
			Tax:            it.Tax,
			Subtotal:       it.Subtotal,
			WarrantyMonths: it.WarrantyMonths,
			WarrantyID:     it.WarrantyID,
		})
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:        p.ID,
			Number:    p.Number,
			Amount:    p.Amount,
			Method:    p.Method,
			Reference: p.Reference,
			Status:    p.Status,
			CreatedAt: p.CreatedAt,
		})
	}
	for _, r := range refunds {
		resp.Refunds = append(resp.Refunds, dto.RefundResponse{
			ID:        r.ID,
			Number:    r.Number,
			Amount:    r.Amount,
			Reason:    r.Reason,
			Method:    r.Method,
			CreatedAt: r.CreatedAt,
		})
	}
	return resp
}
