package dto

import (
	domainpricing "hotelbooking/internal/domain/pricing"
	"hotelbooking/internal/domain/shared/daterange"
)

type NightPriceDTO struct {
	Date       string   `json:"date"`
	Multiplier float64  `json:"multiplier"`
	Amount     MoneyDTO `json:"amount"`
	Rules      []string `json:"rules,omitempty"`
}

type StayDiscountDTO struct {
	Rule    string   `json:"rule"`
	Percent float64  `json:"percent"`
	Amount  MoneyDTO `json:"amount"`
}

type QuoteDTO struct {
	RoomID    string           `json:"room_id,omitempty"`
	BranchID  string           `json:"branch_id,omitempty"`
	Nights    int              `json:"nights"`
	BaseRate  MoneyDTO         `json:"base_rate"`
	BaseTotal MoneyDTO         `json:"base_total"`
	Total     MoneyDTO         `json:"total"`
	PerNight  []NightPriceDTO  `json:"per_night"`
	Discount  *StayDiscountDTO `json:"discount,omitempty"`
	Fallback  bool             `json:"fallback"`
}

func MapQuote(q domainpricing.Quote, roomID, branchID string) QuoteDTO {
	out := QuoteDTO{
		RoomID:    roomID,
		BranchID:  branchID,
		Nights:    q.Nights,
		BaseRate:  MapMoney(q.BaseRate),
		BaseTotal: MapMoney(q.BaseTotal),
		Total:     MapMoney(q.Total),
		PerNight:  make([]NightPriceDTO, 0, len(q.PerNight)),
		Fallback:  q.Fallback,
	}
	for _, n := range q.PerNight {
		out.PerNight = append(out.PerNight, NightPriceDTO{
			Date:       n.Date.Format(daterange.DayLayout),
			Multiplier: n.Multiplier,
			Amount:     MapMoney(n.Amount),
			Rules:      n.Rules,
		})
	}
	if q.Discount != nil {
		out.Discount = &StayDiscountDTO{
			Rule:    q.Discount.Rule,
			Percent: q.Discount.Percent,
			Amount:  MapMoney(q.Discount.Amount),
		}
	}
	return out
}

type PricingRuleDTO struct {
	ID              string  `json:"rule_id"`
	Name            string  `json:"name"`
	BranchID        string  `json:"branch_id"`
	Type            string  `json:"rule_type"`
	Multiplier      float64 `json:"multiplier,omitempty"`
	StartDate       string  `json:"start_date,omitempty"`
	EndDate         string  `json:"end_date,omitempty"`
	DaysThreshold   *int    `json:"days_threshold,omitempty"`
	MinNights       int     `json:"min_nights,omitempty"`
	DiscountPercent float64 `json:"discount_percent,omitempty"`
	Active          bool    `json:"active"`
}

func MapRule(r domainpricing.Rule) PricingRuleDTO {
	return PricingRuleDTO{
		ID:              r.ID,
		Name:            r.Name,
		BranchID:        r.BranchID,
		Type:            string(r.Type),
		Multiplier:      r.Multiplier,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		DaysThreshold:   r.DaysThreshold,
		MinNights:       r.MinNights,
		DiscountPercent: r.DiscountPercent,
		Active:          r.Active,
	}
}

type PricingRuleCollection struct {
	Items []PricingRuleDTO `json:"items"`
}
