package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-api/internal/application/report"
)

// ReportHandler descarga de reportes de existencias.
type ReportHandler struct {
	uc *report.StockReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.StockReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// StockPDF godoc
// @Summary      Reporte de existencias en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        byWarehouse  query  bool  false  "Desglosar por bodega"
// @Success      200
// @Router       /reports/stock.pdf [get]
func (h *ReportHandler) StockPDF(c *fiber.Ctx) error {
	data, name, err := h.uc.PDF(c.UserContext(), c.QueryBool("byWarehouse", false))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, "application/pdf", name, data)
}

// StockXLSX godoc
// @Summary      Reporte de existencias en Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        byWarehouse  query  bool  false  "Desglosar por bodega"
// @Success      200
// @Router       /reports/stock.xlsx [get]
func (h *ReportHandler) StockXLSX(c *fiber.Ctx) error {
	data, name, err := h.uc.XLSX(c.UserContext(), c.QueryBool("byWarehouse", false))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, xlsxContentType, name, data)
}

func sendFile(c *fiber.Ctx, contentType, name string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(data)
}
