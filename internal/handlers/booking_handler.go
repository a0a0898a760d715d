package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-scheduler/internal/dto"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
	bookinguc "github.com/BruksfildServices01/tutor-scheduler/internal/usecase/booking"
)

// ======================================================
// DEPENDENCIES
// ======================================================

type BookingCreator interface {
	Execute(ctx context.Context, actor session.Principal, in bookinguc.CreateBookingInput) (*models.Booking, error)
}

type BookingTransitioner interface {
	Execute(ctx context.Context, actor session.Principal, bookingID uint, target string) (*models.Booking, error)
}

type BookingPayments interface {
	Start(ctx context.Context, actor session.Principal, bookingID uint) (*booking.PaymentSession, error)
	Confirm(ctx context.Context, actor session.Principal, bookingID uint) (*models.Booking, error)
}

type BookingQueries interface {
	List(ctx context.Context, actor session.Principal, period *booking.Period) ([]models.Booking, error)
	Get(ctx context.Context, actor session.Principal, bookingID uint) (*models.Booking, error)
	Receipt(ctx context.Context, actor session.Principal, bookingID uint) ([]byte, error)
	Export(ctx context.Context, actor session.Principal, period *booking.Period) ([]byte, error)
}

type FreeSlotLister interface {
	Execute(ctx context.Context, tutorID uint, date string, duration float64) ([]booking.TimeSlot, error)
}

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create       BookingCreator
	transition   BookingTransitioner
	payments     BookingPayments
	queries      BookingQueries
	availability FreeSlotLister
}

func NewBookingHandler(
	create BookingCreator,
	transition BookingTransitioner,
	payments BookingPayments,
	queries BookingQueries,
	availability FreeSlotLister,
) *BookingHandler {
	return &BookingHandler{
		create:       create,
		transition:   transition,
		payments:     payments,
		queries:      queries,
		availability: availability,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	Tutor     uint    `json:"tutor" binding:"required"`
	Subject   uint    `json:"subject" binding:"required"`
	Date      string  `json:"date" binding:"required,isodate"`
	StartTime string  `json:"startTime" binding:"required,hhmm"`
	EndTime   string  `json:"endTime" binding:"required,hhmm"`
	Duration  float64 `json:"duration" binding:"omitempty,gt=0"`
	Notes     string  `json:"notes" binding:"max=500"`
}

type UpdateBookingRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed completed cancelled"`
}

// ======================================================
// CREATE / READ
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.create.Execute(c.Request.Context(), p, bookinguc.CreateBookingInput{
		TutorID:   req.Tutor,
		SubjectID: req.Subject,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Duration:  req.Duration,
		Notes:     req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, b)
}

func (h *BookingHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	period, ok := periodQuery(c)
	if !ok {
		return
	}

	bookings, err := h.queries.List(c.Request.Context(), p, period)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, dto.BookingList(bookings))
}

func (h *BookingHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.queries.Get(c.Request.Context(), p, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// STATUS
// ======================================================

func (h *BookingHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.transition.Execute(c.Request.Context(), p, id, req.Status)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// PAYMENT
// ======================================================

func (h *BookingHandler) StartPayment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ps, err := h.payments.Start(c.Request.Context(), p, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ps)
}

// Pay serves both /pay and /confirm-payment. A booking with a provider
// reference is verified with the provider before it is marked paid.
func (h *BookingHandler) Pay(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.payments.Confirm(c.Request.Context(), p, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// DOCUMENTS
// ======================================================

func (h *BookingHandler) Receipt(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	pdf, err := h.queries.Receipt(c.Request.Context(), p, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *BookingHandler) Export(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	period, ok := periodQuery(c)
	if !ok {
		return
	}

	xlsx, err := h.queries.Export(c.Request.Context(), p, period)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	name := fmt.Sprintf("bookings-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", xlsx)
}

// ======================================================
// FREE SLOTS
// ======================================================

func (h *BookingHandler) Availability(c *gin.Context) {
	tutorID, err := strconv.ParseUint(c.Query("tutor"), 10, 64)
	if err != nil || tutorID == 0 {
		httperr.BadRequest(c, "invalid_tutor", "tutor query parameter is required")
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "invalid_date", "date query parameter is required")
		return
	}

	var duration float64
	if raw := c.Query("duration"); raw != "" {
		duration, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_duration", "duration must be a number of hours")
			return
		}
	}

	slots, err := h.availability.Execute(c.Request.Context(), uint(tutorID), date, duration)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"date":  date,
		"slots": slots,
	})
}
