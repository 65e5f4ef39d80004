package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/bookings/:id/internal-invoices
func CreateInternalInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.InternalInvoiceRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := services.InternalInvoiceService{Deps: deps(c)}.Create(c.Request.Context(), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, out)
}

// GET /api/bookings/:id/internal-invoices
func ListInternalInvoices(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	out, err := services.InternalInvoiceService{Deps: deps(c)}.Summary(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}
