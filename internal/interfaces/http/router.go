package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/facturacion-api/internal/application/auth"
	"github.com/tu-usuario/facturacion-api/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CustomerUC   *billing.CustomerUseCase
	InvoiceUC    *billing.DocumentUseCase
	QuotationUC  *billing.DocumentUseCase
	InvoicePDF   *billing.PDFUseCase
	QuotationPDF *billing.PDFUseCase
	JWTSecret    string
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

	// Auth (protegido)
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)
	protected.Put("/auth/profile", authHandler.UpdateProfile)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewDocumentHandler(deps.InvoiceUC, deps.InvoicePDF)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Quotations (protegido)
	quotations := protected.Group("/quotations")
	quotationHandler := NewDocumentHandler(deps.QuotationUC, deps.QuotationPDF)
	quotations.Get("/", quotationHandler.List)
	quotations.Post("/", quotationHandler.Create)
	quotations.Get("/:id", quotationHandler.GetByID)
	quotations.Put("/:id", quotationHandler.Update)
	quotations.Delete("/:id", quotationHandler.Delete)
	quotations.Get("/:id/pdf", quotationHandler.DownloadPDF)
}
