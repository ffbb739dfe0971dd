package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	branchesapp "hotelbooking/internal/app/handlers/branches"
	"hotelbooking/internal/app/queries"
)

type BranchHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Add(c *gin.Context)
}

type BranchHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type branchRequest struct {
	ID            string   `json:"branch_id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	Pincode       string   `json:"pincode"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Manager       string   `json:"manager"`
	Amenities     []string `json:"amenities"`
	RoomTypes     []string `json:"room_types"`
	TotalRooms    int      `json:"total_rooms"`
	StartingPrice float64  `json:"starting_price"`
	CheckInTime   string   `json:"check_in_time"`
	CheckOutTime  string   `json:"check_out_time"`
	Status        string   `json:"status"`
}

func (h BranchHandler) List(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	q := branchesapp.ListQuery{Status: c.Query("status"), City: c.Query("city")}
	result, err := queries.Ask[branchesapp.ListQuery, dto.BranchCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BranchHandler) Get(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	result, err := queries.Ask[branchesapp.GetQuery, dto.BranchDTO](c.Request.Context(), h.Queries, branchesapp.GetQuery{ID: c.Param("id")})
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BranchHandler) Add(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req branchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := branchesapp.AddCommand{
		Principal:     currentPrincipal(c),
		ID:            req.ID,
		Name:          req.Name,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		Pincode:       req.Pincode,
		Phone:         req.Phone,
		Email:         req.Email,
		Manager:       req.Manager,
		Amenities:     req.Amenities,
		RoomTypes:     req.RoomTypes,
		TotalRooms:    req.TotalRooms,
		StartingPrice: req.StartingPrice,
		CheckInTime:   req.CheckInTime,
		CheckOutTime:  req.CheckOutTime,
		Status:        req.Status,
	}
	result, err := commands.Dispatch[branchesapp.AddCommand, dto.BranchDTO](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
