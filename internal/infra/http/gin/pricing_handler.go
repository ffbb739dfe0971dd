package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	pricingapp "hotelbooking/internal/app/handlers/pricing"
	"hotelbooking/internal/app/queries"
)

type PricingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type quoteRequest struct {
	RoomID   string `json:"room_id"`
	BranchID string `json:"branch_id"`
	BaseRate int64  `json:"base_rate"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

type ruleRequest struct {
	Name            string  `json:"name"`
	BranchID        string  `json:"branch_id"`
	Type            string  `json:"rule_type"`
	Multiplier      float64 `json:"multiplier"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	DaysThreshold   *int    `json:"days_threshold"`
	MinNights       int     `json:"min_nights"`
	DiscountPercent float64 `json:"discount_percent"`
	Active          *bool   `json:"is_active"`
}

type seedDefaultsRequest struct {
	BranchID string `json:"branch_id"`
}

func (h PricingHandler) Quote(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	q := pricingapp.QuoteQuery{
		RoomID:   strings.TrimSpace(req.RoomID),
		BranchID: strings.TrimSpace(req.BranchID),
		BaseRate: req.BaseRate,
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
	}
	result, err := queries.Ask[pricingapp.QuoteQuery, dto.QuoteDTO](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PricingHandler) ListRules(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	q := pricingapp.ListRulesQuery{
		Principal: currentPrincipal(c),
		BranchID:  strings.TrimSpace(c.Query("branch_id")),
		Type:      strings.TrimSpace(c.Query("rule_type")),
	}
	result, err := queries.Ask[pricingapp.ListRulesQuery, dto.PricingRuleCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PricingHandler) AddRule(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req ruleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := pricingapp.AddRuleCommand{
		Principal:       currentPrincipal(c),
		Name:            req.Name,
		BranchID:        req.BranchID,
		Type:            req.Type,
		Multiplier:      req.Multiplier,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		DaysThreshold:   req.DaysThreshold,
		MinNights:       req.MinNights,
		DiscountPercent: req.DiscountPercent,
		Active:          req.Active,
	}
	result, err := commands.Dispatch[pricingapp.AddRuleCommand, dto.PricingRuleDTO](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h PricingHandler) SeedDefaults(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req seedDefaultsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	if req.BranchID == "" {
		req.BranchID = c.Query("branch_id")
	}
	cmd := pricingapp.SeedDefaultsCommand{Principal: currentPrincipal(c), BranchID: req.BranchID}
	result, err := commands.Dispatch[pricingapp.SeedDefaultsCommand, dto.PricingRuleCollection](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ PricingHTTP = PricingHandler{}
