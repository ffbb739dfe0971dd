package ginserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	bookingapp "hotelbooking/internal/app/handlers/booking"
	"hotelbooking/internal/app/queries"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createBookingRequest struct {
	RoomID   string `json:"room_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
}

func (h BookingHandler) Create(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := bookingapp.CreateCommand{
		Principal:       currentPrincipal(c),
		BookingID:       generateBookingID(),
		RoomID:          strings.TrimSpace(req.RoomID),
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Guests:          req.Guests,
		IdempotencyKeyV: strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)),
	}
	result, err := commands.Dispatch[bookingapp.CreateCommand, *dto.CreateBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/v1/bookings/%s", result.Booking.ID))
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Get(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	q := bookingapp.GetQuery{Principal: currentPrincipal(c), BookingID: c.Param("id")}
	result, err := queries.Ask[bookingapp.GetQuery, dto.BookingDTO](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Cancel(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	cmd := bookingapp.CancelCommand{Principal: currentPrincipal(c), BookingID: c.Param("id")}
	result, err := commands.Dispatch[bookingapp.CancelCommand, *dto.CancelBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Modify(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req stayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := bookingapp.ModifyCommand{
		Principal: currentPrincipal(c),
		BookingID: c.Param("id"),
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
	}
	result, err := commands.Dispatch[bookingapp.ModifyCommand, dto.BookingDTO](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func generateBookingID() string {
	return uuid.NewString()
}

type AdminHandler struct {
	Commands commands.Bus
	Logger   *slog.Logger
}

type bookingStatusRequest struct {
	Status string `json:"status"`
}

func (h AdminHandler) UpdateBookingStatus(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req bookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := bookingapp.UpdateStatusCommand{
		Principal: currentPrincipal(c),
		BookingID: c.Param("id"),
		Status:    req.Status,
	}
	result, err := commands.Dispatch[bookingapp.UpdateStatusCommand, dto.BookingDTO](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var (
	_ BookingHTTP = BookingHandler{}
	_ AdminHTTP   = AdminHandler{}
)
