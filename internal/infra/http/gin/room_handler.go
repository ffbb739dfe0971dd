package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	roomsapp "hotelbooking/internal/app/handlers/rooms"
	handlersupport "hotelbooking/internal/app/handlers/support"
	waitlistapp "hotelbooking/internal/app/handlers/waitlist"
	"hotelbooking/internal/app/queries"
)

type RoomHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type availabilityRequest struct {
	Status string `json:"availability"`
}

type stayRequest struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

func (h RoomHandler) Search(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	minCapacity := 0
	if raw := strings.TrimSpace(c.Query("min_capacity")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			respondWithError(c, h.Logger, handlersupport.Invalid("min_capacity must be a non-negative integer"))
			return
		}
		minCapacity = v
	}
	q := roomsapp.SearchQuery{
		BranchID:     strings.TrimSpace(c.Query("branch_id")),
		Type:         strings.TrimSpace(c.Query("room_type")),
		MinCapacity:  minCapacity,
		Availability: strings.TrimSpace(c.Query("availability")),
		CheckIn:      strings.TrimSpace(c.Query("check_in")),
		CheckOut:     strings.TrimSpace(c.Query("check_out")),
	}
	result, err := queries.Ask[roomsapp.SearchQuery, dto.RoomCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RoomHandler) SetAvailability(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := roomsapp.SetAvailabilityCommand{
		Principal: currentPrincipal(c),
		RoomID:    c.Param("id"),
		Status:    req.Status,
	}
	result, err := commands.Dispatch[roomsapp.SetAvailabilityCommand, dto.RoomDTO](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RoomHandler) Release(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	cmd := roomsapp.ReleaseCommand{Principal: currentPrincipal(c), RoomID: c.Param("id")}
	result, err := commands.Dispatch[roomsapp.ReleaseCommand, dto.RoomReleaseResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RoomHandler) JoinWaitlist(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req stayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := waitlistapp.JoinCommand{
		Principal: currentPrincipal(c),
		RoomID:    c.Param("id"),
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
	}
	result, err := commands.Dispatch[waitlistapp.JoinCommand, dto.WaitlistEntryDTO](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h RoomHandler) ListWaitlist(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	q := waitlistapp.ListQuery{Principal: currentPrincipal(c), RoomID: c.Param("id")}
	result, err := queries.Ask[waitlistapp.ListQuery, dto.WaitlistCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ RoomHTTP = RoomHandler{}
