package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/services"
	"backoffice/internal/utils"

	"github.com/gin-gonic/gin"
)

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{Deps: deps(c)}
}

// POST /api/bookings/preview
func PreviewBooking(c *gin.Context) {
	var req models.PreviewRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := bookingService(c).Preview(req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}

// POST /api/pending-bookings
func CreatePendingBooking(c *gin.Context) {
	var req models.BookingInput
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := bookingService(c).CreatePending(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, out)
}

// GET /api/pending-bookings
func ListPendingBookings(c *gin.Context) {
	out, err := bookingService(c).ListPending(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}

// GET /api/pending-bookings/:id
func GetPendingBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	out, err := bookingService(c).GetPending(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}

// POST /api/pending-bookings/:id/approve
func ApprovePendingBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	out, err := bookingService(c).Approve(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, out)
}

// POST /api/pending-bookings/:id/reject
func RejectPendingBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := bookingService(c).Reject(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id, "rejected": true})
}

// GET /api/bookings?status=&type=&q=&limit=&offset=
func ListBookings(c *gin.Context) {
	f := models.BookingFilter{
		Status: domain.BookingStatus(domain.NormalizeCode(c.Query("status"))),
		Type:   domain.BookingType(domain.NormalizeCode(c.Query("type"))),
		Search: strings.TrimSpace(c.Query("q")),
	}
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	f.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	for key, dst := range map[string]*utils.Date{"travelFrom": &f.TravelFrom, "travelTo": &f.TravelTo} {
		if raw := strings.TrimSpace(c.Query(key)); raw != "" {
			t, err := utils.ParseDate(raw)
			if err != nil {
				respondError(c, http.StatusBadRequest, "validation_error", key+" must be YYYY-MM-DD", nil)
				return
			}
			*dst = utils.NewDate(t)
		}
	}
	out, err := bookingService(c).List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}

// GET /api/bookings/:id
func GetBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	out, err := bookingService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}

// PUT /api/bookings/:id
func UpdateBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := bookingService(c).Update(c.Request.Context(), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}

// POST /api/bookings/:id/date-change
func DateChangeBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.DateChangeRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := bookingService(c).DateChange(c.Request.Context(), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, out)
}

// POST /api/bookings/:id/cancel
func CancelBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.CancelBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := services.CancellationService{Deps: deps(c)}.Cancel(c.Request.Context(), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, out)
}

// GET /api/bookings/:id/cancellation
func GetCancellation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	out, err := services.CancellationService{Deps: deps(c)}.Detail(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, out)
}
