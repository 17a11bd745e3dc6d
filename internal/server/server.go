package server

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"go-pos/internal/config"
	"go-pos/internal/handler"
	"go-pos/internal/middleware"
	"go-pos/internal/model"
	"go-pos/internal/repository"
	"go-pos/internal/service"
	"go-pos/internal/ws"
	"go-pos/pkg/database"
	"go-pos/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Services is the wired service layer shared by the API and the CLI.
type Services struct {
	Products service.ProductService
	Sales    service.SalesService
	Reports  service.ReportService
	Auth     service.AuthService
}

// Migrate creates or updates every table the application uses.
func Migrate(db *database.DB) error {
	return db.Migrate(
		&model.Product{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.HeldBill{},
		&model.User{},
	)
}

func NewServices(cfg *config.Config, db *database.DB, hub ws.Publisher, log *zap.Logger) *Services {
	if hub == nil {
		hub = ws.Nop{}
	}
	loc := cfg.Location()

	productRepo := repository.NewProductRepo(db.DB)
	txRepo := repository.NewTransactionRepo(db.DB)
	heldRepo := repository.NewHeldBillRepo(db.DB)
	userRepo := repository.NewUserRepo(db.DB)
	reportRepo := repository.NewReportRepo(db.SQLX())

	return &Services{
		Products: service.NewProductService(productRepo, db, hub, log.Named("products"), cfg.Store.DefaultUnit),
		Sales:    service.NewSalesService(productRepo, txRepo, heldRepo, db, hub, log.Named("sales"), loc),
		Reports:  service.NewReportService(reportRepo, productRepo, txRepo, loc, cfg.Store.LowStockThreshold),
		Auth:     service.NewAuthService(userRepo, jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), log.Named("auth")),
	}
}

// New builds the Fiber app with every route mounted under /api. hub may be
// nil, in which case /ws is not served.
func New(cfg *config.Config, svcs *Services, hub *ws.Hub, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "go-pos",
		ErrorHandler: errorHandler(log),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.Server.CORSOrigins}))
	if cfg.IsDevelopment() {
		app.Use(logger.New())
	}

	guard := middleware.NewGuard(svcs.Auth, cfg.Auth.Enabled)

	productHandler := handler.NewProductHandler(svcs.Products, log)
	salesHandler := handler.NewSalesHandler(svcs.Sales, log)
	reportHandler := handler.NewReportHandler(svcs.Reports, log)
	authHandler := handler.NewAuthHandler(svcs.Auth, log)

	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})
	api.Post("/auth/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", guard.RequireAuth())

	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/auth/users", guard.RequirePrivilege(model.PrivUserManage), authHandler.GetUsers)
	protected.Post("/auth/users", guard.RequirePrivilege(model.PrivUserManage), authHandler.CreateUser)

	// Products
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/barcode/:barcode", productHandler.GetProductByBarcode)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Post("/products", guard.RequirePrivilege(model.PrivProductWrite), productHandler.CreateProduct)
	protected.Put("/products/:id", guard.RequirePrivilege(model.PrivProductWrite), productHandler.UpdateProduct)
	protected.Delete("/products/:id", guard.RequirePrivilege(model.PrivProductWrite), productHandler.DeleteProduct)
	protected.Patch("/products/:id/stock", guard.RequirePrivilege(model.PrivProductWrite), productHandler.AdjustStock)

	// Sales; held-bill routes come first so "held" and "hold" are not taken as ids.
	protected.Post("/sales/hold", guard.RequirePrivilege(model.PrivSaleCreate), salesHandler.HoldBill)
	protected.Get("/sales/held/all", salesHandler.GetHeldBills)
	protected.Get("/sales/held/:id", salesHandler.GetHeldBill)
	protected.Delete("/sales/held/:id", guard.RequirePrivilege(model.PrivSaleCreate), salesHandler.DeleteHeldBill)
	protected.Get("/sales", salesHandler.GetSales)
	protected.Get("/sales/:id", salesHandler.GetSale)
	protected.Post("/sales", guard.RequirePrivilege(model.PrivSaleCreate), salesHandler.CreateSale)
	protected.Delete("/sales/:id", guard.RequirePrivilege(model.PrivSaleVoid), salesHandler.VoidSale)

	// Reports
	reports := protected.Group("/reports", guard.RequirePrivilege(model.PrivReportView))
	reports.Get("/daily", reportHandler.GetDaily)
	reports.Get("/monthly", reportHandler.GetMonthly)
	reports.Get("/top-products", reportHandler.GetTopProducts)
	reports.Get("/low-stock", reportHandler.GetLowStock)
	reports.Get("/export", reportHandler.Export)

	// WebSocket Route
	if hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
		app.Get("/ws", websocket.New(hub.Serve))
	}

	if dir := cfg.Server.StaticDir; dir != "" {
		mountFrontend(app, dir)
	}

	return app
}

// mountFrontend serves the built single-page app and falls back to
// index.html for client-side routes.
func mountFrontend(app *fiber.App, dir string) {
	app.Static("/", dir)
	index := filepath.Join(dir, "index.html")
	app.Get("/*", func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api") {
			return fiber.ErrNotFound
		}
		return c.SendFile(index)
	})
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		log.Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong!"})
	}
}
