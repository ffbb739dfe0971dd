package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	bookingapp "hotelbooking/internal/app/handlers/booking"
	loyaltyapp "hotelbooking/internal/app/handlers/loyalty"
	notificationsapp "hotelbooking/internal/app/handlers/notifications"
	waitlistapp "hotelbooking/internal/app/handlers/waitlist"
	"hotelbooking/internal/app/queries"
)

type MeHTTP interface {
	ListBookings(c *gin.Context)
	BookingStats(c *gin.Context)
	ListWaitlist(c *gin.Context)
	LeaveWaitlist(c *gin.Context)
	Loyalty(c *gin.Context)
	Redeem(c *gin.Context)
	ListNotifications(c *gin.Context)
}

// MeHandler serves the calling guest's own bookings, waitlist entries,
// loyalty account and notifications.
type MeHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type redeemRequest struct {
	Points int64 `json:"points"`
}

func (h MeHandler) ListBookings(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	q := bookingapp.ListMineQuery{Principal: currentPrincipal(c), Status: strings.TrimSpace(c.Query("status"))}
	result, err := queries.Ask[bookingapp.ListMineQuery, dto.BookingCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MeHandler) BookingStats(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	q := bookingapp.StatsQuery{Principal: currentPrincipal(c)}
	result, err := queries.Ask[bookingapp.StatsQuery, dto.BookingStats](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MeHandler) ListWaitlist(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	q := waitlistapp.ListQuery{Principal: currentPrincipal(c)}
	result, err := queries.Ask[waitlistapp.ListQuery, dto.WaitlistCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MeHandler) LeaveWaitlist(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	cmd := waitlistapp.LeaveCommand{Principal: currentPrincipal(c), EntryID: c.Param("id")}
	result, err := commands.Dispatch[waitlistapp.LeaveCommand, dto.WaitlistEntryDTO](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MeHandler) Loyalty(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	q := loyaltyapp.GetAccountQuery{Principal: currentPrincipal(c)}
	result, err := queries.Ask[loyaltyapp.GetAccountQuery, dto.LoyaltyAccountDTO](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MeHandler) Redeem(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := loyaltyapp.RedeemCommand{Principal: currentPrincipal(c), Points: req.Points}
	result, err := commands.Dispatch[loyaltyapp.RedeemCommand, dto.LoyaltyAccountDTO](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MeHandler) ListNotifications(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	q := notificationsapp.ListMineQuery{Principal: currentPrincipal(c), Status: strings.TrimSpace(c.Query("status"))}
	result, err := queries.Ask[notificationsapp.ListMineQuery, dto.NotificationCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ MeHTTP = MeHandler{}
