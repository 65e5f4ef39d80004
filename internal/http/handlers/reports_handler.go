package handlers

import (
	"net/http"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/services"
	"backoffice/internal/utils"

	"github.com/gin-gonic/gin"
)

// GetFinanceReport handles GET /api/reports/finance?start_date=&end_date=&status=&type=.
func GetFinanceReport(c *gin.Context) {
	f := services.FinanceReportFilter{
		Status: domain.BookingStatus(domain.NormalizeCode(c.Query("status"))),
		Type:   domain.BookingType(domain.NormalizeCode(c.Query("type"))),
	}
	for key, dst := range map[string]*utils.Date{"start_date": &f.StartDate, "end_date": &f.EndDate} {
		raw := strings.TrimSpace(c.Query(key))
		if raw == "" {
			continue
		}
		t, err := utils.ParseDate(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", key+" must be YYYY-MM-DD", nil)
			return
		}
		*dst = utils.NewDate(t)
	}
	report, err := services.ReportsService{Deps: deps(c)}.GetFinanceReport(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, report)
}
