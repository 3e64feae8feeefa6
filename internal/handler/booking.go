package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Saihna0731/PlayZone-MN-sub000/internal/capacity"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/jobs"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/queue"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/repository"
	queue_publisher "github.com/Saihna0731/PlayZone-MN-sub000/internal/service"
)

// BookingHandler bundles dependencies for the booking lifecycle routes.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Centers  *repository.CenterRepo
	Cleaner  *jobs.BookingCleaner
}

func NewBookingHandler(b *repository.BookingRepo, c *repository.CenterRepo) *BookingHandler {
	return &BookingHandler{Bookings: b, Centers: c, Cleaner: jobs.NewBookingCleaner(b)}
}

type createBookingReq struct {
	CenterID uint64 `json:"center_id"`
	Date     string `json:"date"`     // YYYY-MM-DD
	Time     string `json:"time"`     // HH:mm
	Duration int    `json:"duration"` // hours
	SeatType string `json:"seat_type"`
	Seats    int    `json:"seats"`
	Price    int64  `json:"price"`
}

type bookingResp struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	CenterID  uint64    `json:"center_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Duration  int       `json:"duration"`
	SeatType  string    `json:"seat_type"`
	Seats     int       `json:"seats"`
	Price     int64     `json:"price"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toBookingResp(b model.Booking) bookingResp {
	return bookingResp{
		ID: b.ID, UserID: b.UserID, CenterID: b.CenterID,
		Date: b.Date, Time: b.Time, Duration: b.Duration,
		SeatType: b.SeatType, Seats: b.Seats, Price: b.Price,
		Status: b.Status, CreatedAt: b.CreatedAt,
	}
}

func validSeatType(s string) bool {
	return s == model.SeatTypeStandard || s == model.SeatTypeVIP || s == model.SeatTypeStage
}

// Create books a time slot.  Flow: validate input, load the center,
// fetch the non-cancelled bookings for the same (center, date, seat
// type), run the capacity check, insert as pending.  The check and the
// insert are not wrapped in a transaction; two concurrent requests can
// both pass before either write lands.  That window has always been
// accepted for this traffic.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.SeatType = strings.TrimSpace(req.SeatType)
	if req.SeatType == "" {
		req.SeatType = model.SeatTypeStandard
	}
	if req.CenterID == 0 || req.Date == "" || req.Time == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "center_id, date and time required"})
	}
	if !validSeatType(req.SeatType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat_type"})
	}
	if req.Duration < 1 {
		req.Duration = 1
	}
	if req.Seats < 1 {
		req.Seats = 1
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	if _, err := capacity.ParseMinutes(req.Time); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid time, expected HH:mm"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	center, err := h.Centers.GetByID(ctx, req.CenterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "center not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load center failed"})
	}

	existing, err := h.Bookings.ListForSlot(ctx, req.CenterID, req.Date, req.SeatType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
	}

	checkReq := capacity.Request{
		Time:     req.Time,
		Duration: req.Duration,
		SeatType: req.SeatType,
		Seats:    req.Seats,
	}
	if err := capacity.Check(checkReq, center.Occupancy.ForType(req.SeatType), existing); err != nil {
		var capErr *capacity.Error
		if errors.As(err, &capErr) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":           "not enough seats for the requested time",
				"seat_type":       capErr.SeatType,
				"capacity":        capErr.Capacity,
				"occupied":        capErr.Occupied,
				"requested":       capErr.Requested,
				"remaining_seats": capErr.Remaining,
			})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	b := model.Booking{
		UserID:   uid,
		CenterID: req.CenterID,
		Date:     req.Date,
		Time:     req.Time,
		Duration: req.Duration,
		SeatType: req.SeatType,
		Seats:    req.Seats,
		Price:    req.Price,
		Status:   model.BookingStatusPending,
	}
	if err := h.Bookings.Create(ctx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}

	// Fire-and-forget event; the broker being down must not fail the booking.
	go func(ev queue.BookingCreatedEvent) {
		pctx, pcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pcancel()
		if err := queue_publisher.PublishBookingCreated(pctx, ev); err != nil {
			log.Printf("booking: publish created event failed: %v", err)
		}
	}(queue.BookingCreatedEvent{
		BookingID:  b.ID,
		UserID:     b.UserID,
		CenterID:   b.CenterID,
		CenterName: center.Name,
		Date:       b.Date,
		Time:       b.Time,
		Duration:   b.Duration,
		SeatType:   b.SeatType,
		Seats:      b.Seats,
		Price:      b.Price,
		CreatedAt:  b.CreatedAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// My lists the caller's bookings, newest first.
func (h *BookingHandler) My(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
	}
	out := make([]bookingResp, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// ByCenter lists a center's bookings for its owner.  Admins may read
// any center; owners only their own.
func (h *BookingHandler) ByCenter(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	centerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || centerID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid center id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	center, err := h.Centers.GetByID(ctx, centerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "center not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load center failed"})
	}
	if role(c) != model.RoleAdmin {
		if center.OwnerID == nil || *center.OwnerID != uid {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your center"})
		}
	}

	list, err := h.Bookings.ListByCenter(ctx, centerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
	}
	out := make([]bookingResp, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func validStatus(s string) bool {
	switch s {
	case model.BookingStatusPending, model.BookingStatusConfirmed,
		model.BookingStatusCancelled, model.BookingStatusCompleted:
		return true
	}
	return false
}

// UpdateStatus overwrites a booking's status.  Any declared status may
// replace any other; there is no transition graph.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil || !validStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be pending, confirmed, cancelled or completed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// CleanupOld is the externally triggered retention pass: one run per
// call, for a cron job to hit.
func (h *BookingHandler) CleanupOld(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	deleted, err := h.Cleaner.Run(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cleanup failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": deleted})
}
