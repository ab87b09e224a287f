package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/facturacion-api/internal/application/billing"
	"github.com/tu-usuario/facturacion-api/internal/application/dto"
	"github.com/tu-usuario/facturacion-api/internal/domain/entity"
)

// DocumentHandler maneja facturas o cotizaciones según el caso de uso inyectado.
type DocumentHandler struct {
	uc  *billing.DocumentUseCase
	pdf *billing.PDFUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *billing.DocumentUseCase, pdf *billing.PDFUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc, pdf: pdf}
}

// List GET /api/invoices | /api/quotations — más recientes primero.
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Create godoc
// @Summary      Crear factura o cotización
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocumentRequest  true  "customer_id, issue_date, due_date|valid_until, items (≥1)"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	doc, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// GetByID GET /api/invoices/:id | /api/quotations/:id
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(doc)
}

// Update PUT /api/invoices/:id | /api/quotations/:id. Si el body trae "items"
// se reemplazan todas las líneas y se recalculan los totales en una sola
// transacción; si no, solo cambian los escalares presentes.
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	// Distinguir "items" ausente de "items": [] inspeccionando el JSON crudo.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return badBody(c)
	}
	if _, ok := raw["items"]; ok {
		in.ItemsSet = true
	}
	doc, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(doc)
}

// Delete DELETE /api/invoices/:id | /api/quotations/:id
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	msg := "factura eliminada correctamente"
	if h.uc.Kind() == entity.KindQuotation {
		msg = "cotización eliminada correctamente"
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}

// DownloadPDF GET /api/invoices/:id/pdf | /api/quotations/:id/pdf
func (h *DocumentHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdf.DownloadPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
