package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/taller-pos/internal/application/auth"
	"github.com/tu-usuario/taller-pos/internal/application/inventory"
	"github.com/tu-usuario/taller-pos/internal/application/sales"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CreateSale *sales.CreateSaleUseCase
	SaleQuery  *sales.QueryUseCase
	AddPayment *sales.AddPaymentUseCase
	Refund     *sales.RefundUseCase
	Cancel     *sales.CancelSaleUseCase
	Receipt    *sales.ReceiptUseCase
	Entry      *inventory.EntryUseCase
	StockQuery *inventory.StockQueryUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSale, deps.SaleQuery, deps.AddPayment, deps.Refund, deps.Cancel, deps.Receipt)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
	salesGroup.Post("/:id/payments", saleHandler.AddPayment)
	// Devoluciones y cancelaciones: solo admin y vendedor
	salesGroup.Post("/:id/refunds", RequireRole(entity.RoleAdmin, entity.RoleVendedor), saleHandler.Refund)
	salesGroup.Post("/:id/cancel", RequireRole(entity.RoleAdmin, entity.RoleVendedor), saleHandler.Cancel)

	// Inventory (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Entry, deps.StockQuery)
	invGroup.Post("/entries", inventoryHandler.RegisterEntry)
	invGroup.Get("/stock", inventoryHandler.GetStock)
}
