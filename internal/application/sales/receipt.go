package sales

import (
	"context"
	"fmt"

	"github.com/tu-usuario/taller-pos/internal/domain"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
)

// ReceiptPDFGenerator genera el comprobante de venta en PDF.
type ReceiptPDFGenerator interface {
	GenerateReceipt(ctx context.Context, sale *entity.Sale, items []*entity.SaleItem, payments []*entity.Payment, location *entity.Location) ([]byte, error)
}

// ReceiptUseCase arma los datos de la venta y genera su comprobante.
type ReceiptUseCase struct {
	saleRepo     repository.SaleRepository
	paymentRepo  repository.PaymentRepository
	locationRepo repository.LocationRepository
	generator    ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(saleRepo repository.SaleRepository, paymentRepo repository.PaymentRepository, locationRepo repository.LocationRepository, generator ReceiptPDFGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{saleRepo: saleRepo, paymentRepo: paymentRepo, locationRepo: locationRepo, generator: generator}
}

// GetReceipt genera el PDF del comprobante y un nombre de archivo sugerido.
func (uc *ReceiptUseCase) GetReceipt(ctx context.Context, saleID string) ([]byte, string, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, "", err
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItems(saleID)
	if err != nil {
		return nil, "", err
	}
	payments, err := uc.paymentRepo.ListBySale(saleID)
	if err != nil {
		return nil, "", err
	}
	// La sede puede faltar en datos históricos; el comprobante sale igual
	location, err := uc.locationRepo.GetByID(sale.LocationID)
	if err != nil {
		return nil, "", err
	}

	pdf, err := uc.generator.GenerateReceipt(ctx, sale, items, payments, location)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante %s: %w", sale.Number, err)
	}
	return pdf, sale.Number + ".pdf", nil
}
