package handlers

import (
	"net/http"

	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

func sendPDF(c *gin.Context, data []byte, filename string) {
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// GET /api/internal-invoices/:id/receipt
func GetInternalInvoiceReceipt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	data, filename, err := services.DocsService{Deps: deps(c)}.GenerateInvoiceReceipt(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendPDF(c, data, filename)
}

// GET /api/bookings/:id/statement
func GetBookingStatement(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	data, filename, err := services.DocsService{Deps: deps(c)}.GenerateBookingStatement(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendPDF(c, data, filename)
}
