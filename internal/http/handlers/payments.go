package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/bookings/:id/instalments
func ListInstalments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	out, err := services.InstalmentService{Deps: deps(c)}.List(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}

// POST /api/instalments/:id/payments
func RecordInstalmentPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.PaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := services.InstalmentService{Deps: deps(c)}.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, out)
}

// POST /api/bookings/:id/settle
func SettleBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.PaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := services.InstalmentService{Deps: deps(c)}.Settle(c.Request.Context(), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, out)
}

// POST /api/cost-item-suppliers/:id/settlements
func SettleCostItemSupplier(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.PaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := services.SupplierService{Deps: deps(c)}.SettleCostItemSupplier(c.Request.Context(), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, out)
}

// settleObligation serves the supplier payable, customer payable and
// passenger refund routes, which only differ by kind.
func settleObligation(kind models.ObligationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req models.PaymentRequest
		if !BindJSONOrError(c, &req) {
			return
		}
		out, err := services.CancellationService{Deps: deps(c)}.SettleObligation(c.Request.Context(), kind, id, req)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusCreated, out)
	}
}

var (
	// POST /api/supplier-payables/:id/settlements
	SettleSupplierPayable = settleObligation(models.SupplierPayable)
	// POST /api/customer-payables/:id/settlements
	SettleCustomerPayable = settleObligation(models.CustomerPayable)
	// POST /api/passenger-refunds/:id/payments
	RecordPassengerRefund = settleObligation(models.PassengerRefund)
)

// GET /api/credit-notes/available?supplier=
func AvailableCreditNotes(c *gin.Context) {
	out, err := services.SupplierService{Deps: deps(c)}.AvailableCreditNotes(c.Request.Context(), c.Query("supplier"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}

// GET /api/credit-notes/:id
func GetCreditNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	out, err := services.SupplierService{Deps: deps(c)}.GetCreditNote(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}
