package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/taller-pos/internal/application/auth"
	"github.com/tu-usuario/taller-pos/internal/application/inventory"
	"github.com/tu-usuario/taller-pos/internal/application/notify"
	"github.com/tu-usuario/taller-pos/internal/application/sales"
	"github.com/tu-usuario/taller-pos/internal/application/warranty"
	"github.com/tu-usuario/taller-pos/internal/infrastructure/cache"
	infrapdf "github.com/tu-usuario/taller-pos/internal/infrastructure/pdf"
	"github.com/tu-usuario/taller-pos/internal/infrastructure/postgres"
	"github.com/tu-usuario/taller-pos/internal/infrastructure/sms"
	httpRouter "github.com/tu-usuario/taller-pos/internal/interfaces/http"
	"github.com/tu-usuario/taller-pos/pkg/config"
	"github.com/tu-usuario/taller-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool (lecturas fuera de transacción)
	saleRepo := postgres.NewSaleRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	refundRepo := postgres.NewRefundRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	sequenceRepo := postgres.NewSequenceRepository(pool)
	warrantyRepo := postgres.NewWarrantyRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de productos (opcional, Redis)
	var productCache cache.ProductCache = cache.NoopProductCache{}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisProductCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLMinutes)*time.Minute)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, caché de productos desactivado")
		} else {
			productCache = redisCache
			defer redisCache.Close()
		}
	}
	products := cache.NewCachedProductDirectory(productRepo, productCache, log.Component("cache"))

	// Núcleo de inventario
	ledger := inventory.NewLedger(inventory.NewRecorder())
	entryUC := inventory.NewEntryUseCase(txRunner, ledger, productRepo)
	stockQueryUC := inventory.NewStockQueryUseCase(postgres.NewStockRepository(pool))

	// Efectos colaterales de venta
	warrantyIssuer := warranty.NewIssuer(warrantyRepo, saleRepo, log.Component("warranty"))
	notifier := notify.NewDispatcher(notificationRepo, nil, log.Component("notify"))
	smsClient := sms.NewClient(cfg.SMS, log.Component("sms"))

	// Núcleo de ventas
	salesLog := log.Component("sales")
	createSaleUC := sales.NewCreateSaleUseCase(txRunner, ledger, products, customerRepo, locationRepo,
		sequenceRepo, warrantyIssuer, notifier, smsClient, salesLog)
	queryUC := sales.NewQueryUseCase(saleRepo, paymentRepo, refundRepo)
	addPaymentUC := sales.NewAddPaymentUseCase(txRunner, saleRepo)
	refundUC := sales.NewRefundUseCase(txRunner, ledger, saleRepo, cfg.Sales.RefundBound)
	cancelUC := sales.NewCancelSaleUseCase(txRunner, ledger, saleRepo, notifier, salesLog)
	receiptUC := sales.NewReceiptUseCase(saleRepo, paymentRepo, locationRepo, infrapdf.NewReceiptGenerator())

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CreateSale: createSaleUC,
		SaleQuery:  queryUC,
		AddPayment: addPaymentUC,
		Refund:     refundUC,
		Cancel:     cancelUC,
		Receipt:    receiptUC,
		Entry:      entryUC,
		StockQuery: stockQueryUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
