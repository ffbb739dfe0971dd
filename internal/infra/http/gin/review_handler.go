package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	reviewsapp "hotelbooking/internal/app/handlers/reviews"
	"hotelbooking/internal/app/queries"
)

type ReviewHTTP interface {
	Submit(c *gin.Context)
	Update(c *gin.Context)
	ListRoom(c *gin.Context)
	ListMine(c *gin.Context)
}

type ReviewHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type reviewRequest struct {
	Rating int    `json:"rating"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

func (h ReviewHandler) Submit(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := reviewsapp.SubmitCommand{
		Principal: currentPrincipal(c),
		BookingID: c.Param("id"),
		Rating:    req.Rating,
		Title:     req.Title,
		Text:      req.Text,
	}
	result, err := commands.Dispatch[reviewsapp.SubmitCommand, dto.ReviewDTO](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ReviewHandler) Update(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := reviewsapp.UpdateCommand{
		Principal: currentPrincipal(c),
		ReviewID:  c.Param("id"),
		Rating:    req.Rating,
		Title:     req.Title,
		Text:      req.Text,
	}
	result, err := commands.Dispatch[reviewsapp.UpdateCommand, dto.ReviewDTO](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReviewHandler) ListRoom(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	q := reviewsapp.ListRoomQuery{RoomID: c.Param("id")}
	result, err := queries.Ask[reviewsapp.ListRoomQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReviewHandler) ListMine(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	q := reviewsapp.ListMineQuery{Principal: currentPrincipal(c)}
	result, err := queries.Ask[reviewsapp.ListMineQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
