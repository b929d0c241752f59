package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/insumos-api/internal/application/auth"
	"github.com/jhoicas/insumos-api/internal/application/inventory"
	"github.com/jhoicas/insumos-api/internal/application/report"
	"github.com/jhoicas/insumos-api/internal/application/usecase"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ItemUC       *usecase.ItemUseCase
	SupplierUC   *usecase.SupplierUseCase
	StaffUC      *usecase.StaffUseCase
	StockUC      *inventory.StockMovementUseCase
	ReportUC     *report.ReportUseCase
	JWTSecret    string
	HealthChecks map[string]HealthCheck
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", Health(deps.HealthChecks))

	api := app.Group("/api")

	// Auth (público salvo logout)
	authHandler := NewAuthHandler(deps.AuthUC)
	requireAuth := AuthMiddleware(deps.JWTSecret, deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)

	protected := api.Group("", requireAuth)
	adminOnly := RequireRole(entity.RoleAdmin)

	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.StockUC, deps.ReportUC)
	items.Get("/", itemHandler.List)
	items.Post("/", itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
	items.Get("/:id/batches", itemHandler.Batches)
	items.Get("/:id/purchases", itemHandler.Purchases)

	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", adminOnly, supplierHandler.Delete)

	staff := protected.Group("/staff")
	staffHandler := NewStaffHandler(deps.StaffUC)
	staff.Get("/", staffHandler.List)
	staff.Post("/", adminOnly, staffHandler.Create)
	staff.Get("/:id", staffHandler.GetByID)
	staff.Put("/:id", staffHandler.Update)
	staff.Delete("/:id", adminOnly, staffHandler.Delete)
	staff.Post("/:id/activate", adminOnly, staffHandler.Activate)
	staff.Post("/:id/deactivate", adminOnly, staffHandler.Deactivate)

	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.StockUC)
	inv.Post("/entries", inventoryHandler.RecordEntry)
	inv.Post("/exits", inventoryHandler.RecordExit)
	inv.Get("/batches/:id", inventoryHandler.GetBatch)

	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/consumption", reportHandler.Consumption)
}
