package warranty

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
	"github.com/tu-usuario/taller-pos/pkg/logger"
)

// Issuer emite tarjetas de garantía para líneas de venta con cobertura.
// La emisión es idempotente: si la línea ya tiene tarjeta se devuelve la
// existente; un choque por constraint único se resuelve releyendo.
type Issuer struct {
	warrantyRepo repository.WarrantyRepository
	saleRepo     repository.SaleRepository
	log          *logger.Logger
}

// NewIssuer construye el emisor de garantías.
func NewIssuer(warrantyRepo repository.WarrantyRepository, saleRepo repository.SaleRepository, log *logger.Logger) *Issuer {
	return &Issuer{warrantyRepo: warrantyRepo, saleRepo: saleRepo, log: log}
}

// IssueFromSaleItem emite (o recupera) la garantía de la línea. Líneas sin
// meses de cobertura no generan tarjeta y devuelven nil sin error.
func (i *Issuer) IssueFromSaleItem(ctx context.Context, sale *entity.Sale, item *entity.SaleItem) (*entity.WarrantyCard, error) {
	if item.WarrantyMonths <= 0 {
		return nil, nil
	}

	existing, err := i.warrantyRepo.GetBySaleItem(item.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	starts := sale.CreatedAt
	card := &entity.WarrantyCard{
		ID:         uuid.New().String(),
		SaleItemID: item.ID,
		SaleID:     sale.ID,
		ProductID:  item.ProductID,
		CustomerID: sale.CustomerID,
		Months:     item.WarrantyMonths,
		StartsAt:   starts,
		ExpiresAt:  starts.AddDate(0, item.WarrantyMonths, 0),
		CreatedAt:  time.Now(),
	}
	if err := i.warrantyRepo.Create(card); err != nil {
		// Carrera con otra emisión: el constraint único manda, releer
		if again, gerr := i.warrantyRepo.GetBySaleItem(item.ID); gerr == nil && again != nil {
			return again, nil
		}
		return nil, err
	}

	if err := i.saleRepo.LinkItemWarranty(item.ID, card.ID); err != nil {
		i.log.Warn().Err(err).Str("item", item.ID).Str("warranty", card.ID).
			Msg("no se pudo enlazar la garantía a la línea")
	}
	return card, nil
}
