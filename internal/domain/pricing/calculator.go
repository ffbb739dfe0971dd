package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hotelbooking/internal/domain/shared/daterange"
	"hotelbooking/internal/domain/shared/money"
)

var ErrRuleStoreMissing = errors.New("pricing: rule store missing")

// Input describes a stay to be priced.
type Input struct {
	BaseRate money.Money
	CheckIn  time.Time
	CheckOut time.Time
	RoomID   string
	BranchID string
}

type NightPrice struct {
	Date       time.Time
	Multiplier float64
	Amount     money.Money
	Rules      []string
}

type StayDiscount struct {
	Rule    string
	Percent float64
	Amount  money.Money
}

// Quote is the priced stay. Fallback is set when rule evaluation failed and the
// total degraded to BaseRate x Nights.
type Quote struct {
	Nights    int
	BaseRate  money.Money
	BaseTotal money.Money
	Total     money.Money
	PerNight  []NightPrice
	Discount  *StayDiscount
	Fallback  bool
}

// Calculator prices stays. Implementations never fail; they degrade to flat pricing.
type Calculator interface {
	Quote(ctx context.Context, input Input) Quote
}

// Engine evaluates the rule store against every night of a stay. Matching
// multiplicative rules compound; the first qualifying length_of_stay rule is
// applied once to the stay total.
type Engine struct {
	Rules  RuleStore
	Now    func() time.Time
	Logger *slog.Logger
	// OnFallback observes degraded quotes (metrics).
	OnFallback func(input Input, err error)
}

func NewEngine(rules RuleStore, logger *slog.Logger) *Engine {
	return &Engine{Rules: rules, Logger: logger}
}

func (e *Engine) Quote(ctx context.Context, input Input) (quote Quote) {
	nights := daterange.NightsBetween(input.CheckIn, input.CheckOut)
	base := input.BaseRate
	if base.Currency == "" {
		base.Currency = money.DefaultCurrency
	}
	if nights <= 0 {
		return Quote{Nights: 0, BaseRate: base, BaseTotal: base, Total: base}
	}
	flat := base.Multiply(int64(nights))

	defer func() {
		if r := recover(); r != nil {
			quote = e.fallback(input, base, nights, flat, fmt.Errorf("pricing: panic: %v", r))
		}
	}()

	q, err := e.evaluate(ctx, input, base, nights)
	if err != nil {
		return e.fallback(input, base, nights, flat, err)
	}
	q.BaseTotal = flat
	return q
}

func (e *Engine) evaluate(ctx context.Context, input Input, base money.Money, nights int) (Quote, error) {
	if e.Rules == nil {
		return Quote{}, ErrRuleStoreMissing
	}
	rules, err := e.Rules.Rules(ctx, input.BranchID, "")
	if err != nil {
		return Quote{}, fmt.Errorf("load rules: %w", err)
	}
	active := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Active && r.VisibleTo(input.BranchID) {
			active = append(active, r)
		}
	}

	now := e.now()
	checkIn := daterange.Day(input.CheckIn)
	stay := daterange.DateRange{CheckIn: checkIn, CheckOut: daterange.Day(input.CheckOut)}
	quote := Quote{Nights: nights, BaseRate: base, PerNight: make([]NightPrice, 0, nights)}

	var total float64
	var evalErr error
	stay.EachNight(func(night time.Time) {
		if evalErr != nil {
			return
		}
		multiplier := 1.0
		var matched []string
		for _, r := range active {
			if r.Type == RuleLengthOfStay {
				continue
			}
			ok, err := r.appliesTo(night, checkIn, now)
			if err != nil {
				evalErr = err
				return
			}
			if ok {
				multiplier *= r.factor()
				matched = append(matched, r.Name)
			}
		}
		amount := float64(base.Amount) * multiplier
		total += amount
		quote.PerNight = append(quote.PerNight, NightPrice{
			Date:       night,
			Multiplier: multiplier,
			Amount:     money.Money{Amount: money.Round(amount), Currency: base.Currency},
			Rules:      matched,
		})
	})
	if evalErr != nil {
		return Quote{}, evalErr
	}

	if nights >= StayDiscountMinNights {
		for _, r := range active {
			if r.Type != RuleLengthOfStay || nights < r.minNights() {
				continue
			}
			before := total
			total *= 1 - r.DiscountPercent/100
			quote.Discount = &StayDiscount{
				Rule:    r.Name,
				Percent: r.DiscountPercent,
				Amount:  money.Money{Amount: money.Round(before - total), Currency: base.Currency},
			}
			break
		}
	}

	quote.Total = money.Money{Amount: money.Round(total), Currency: base.Currency}
	return quote, nil
}

func (e *Engine) fallback(input Input, base money.Money, nights int, flat money.Money, err error) Quote {
	if e.Logger != nil {
		e.Logger.Warn("dynamic pricing failed, using flat rate",
			"room_id", input.RoomID, "branch_id", input.BranchID, "nights", nights, "error", err)
	}
	if e.OnFallback != nil {
		e.OnFallback(input, err)
	}
	return Quote{Nights: nights, BaseRate: base, BaseTotal: flat, Total: flat, Fallback: true}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now().UTC()
}

var _ Calculator = (*Engine)(nil)
