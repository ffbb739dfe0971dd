package pricing

import (
	"context"
	"strings"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/queries"
	domainpricing "hotelbooking/internal/domain/pricing"
)

const (
	listRulesKey    = "pricing.rules.list"
	addRuleKey      = "pricing.rules.add"
	seedDefaultsKey = "pricing.rules.seed_defaults"
)

// RuleManagers may create and seed pricing rules.
var RuleManagers = []auth.Role{auth.RoleAdmin, auth.RoleBranchManager}

type ListRulesQuery struct {
	Principal auth.Principal
	BranchID  string
	Type      string
}

func (q ListRulesQuery) Key() string               { return listRulesKey }
func (q ListRulesQuery) Actor() auth.Principal     { return q.Principal }
func (q ListRulesQuery) AllowedRoles() []auth.Role { return auth.StaffRoles }

func (q ListRulesQuery) Validate() error {
	if q.Type == "" {
		return nil
	}
	if _, err := domainpricing.ParseRuleType(q.Type); err != nil {
		return handlersupport.Invalid("%v", err)
	}
	return nil
}

type ListRulesHandler struct {
	Rules domainpricing.RuleStore
	handlersupport.Deps
}

func (h *ListRulesHandler) Handle(ctx context.Context, q ListRulesQuery) (dto.PricingRuleCollection, error) {
	out := dto.PricingRuleCollection{Items: []dto.PricingRuleDTO{}}
	var ruleType domainpricing.RuleType
	if q.Type != "" {
		t, err := domainpricing.ParseRuleType(q.Type)
		if err != nil {
			return out, handlersupport.Invalid("%v", err)
		}
		ruleType = t
	}
	rules, err := h.Rules.Rules(ctx, strings.TrimSpace(q.BranchID), ruleType)
	if err != nil {
		h.Log().Warn("pricing rule scan failed", "branch_id", q.BranchID, "error", err)
		return out, nil
	}
	for _, r := range rules {
		out.Items = append(out.Items, dto.MapRule(r))
	}
	return out, nil
}

type AddRuleCommand struct {
	Principal       auth.Principal
	Name            string
	BranchID        string
	Type            string
	Multiplier      float64
	StartDate       string
	EndDate         string
	DaysThreshold   *int
	MinNights       int
	DiscountPercent float64
	Active          *bool
}

func (c AddRuleCommand) Key() string               { return addRuleKey }
func (c AddRuleCommand) Actor() auth.Principal     { return c.Principal }
func (c AddRuleCommand) AllowedRoles() []auth.Role { return RuleManagers }

func (c AddRuleCommand) rule() (domainpricing.Rule, error) {
	t, err := domainpricing.ParseRuleType(c.Type)
	if err != nil {
		return domainpricing.Rule{}, err
	}
	branch := strings.TrimSpace(c.BranchID)
	if branch == "" {
		branch = domainpricing.AllBranches
	}
	active := true
	if c.Active != nil {
		active = *c.Active
	}
	r := domainpricing.Rule{
		Name:            strings.TrimSpace(c.Name),
		BranchID:        branch,
		Type:            t,
		Multiplier:      c.Multiplier,
		StartDate:       strings.TrimSpace(c.StartDate),
		EndDate:         strings.TrimSpace(c.EndDate),
		DaysThreshold:   c.DaysThreshold,
		MinNights:       c.MinNights,
		DiscountPercent: c.DiscountPercent,
		Active:          active,
	}
	if r.Name == "" {
		r.Name = string(t)
	}
	return r, r.Validate()
}

func (c AddRuleCommand) Validate() error {
	if _, err := c.rule(); err != nil {
		return handlersupport.Invalid("%v", err)
	}
	return nil
}

type AddRuleHandler struct {
	Rules domainpricing.RuleStore
	handlersupport.Deps
}

func (h *AddRuleHandler) Handle(ctx context.Context, cmd AddRuleCommand) (dto.PricingRuleDTO, error) {
	rule, err := cmd.rule()
	if err != nil {
		return dto.PricingRuleDTO{}, handlersupport.Invalid("%v", err)
	}
	rule.ID = h.ID()
	rule.CreatedAt = h.Clock()
	if err := h.Rules.Save(ctx, rule); err != nil {
		return dto.PricingRuleDTO{}, err
	}
	h.Log().Info("pricing rule added", "rule_id", rule.ID, "branch_id", rule.BranchID, "type", rule.Type)
	return dto.MapRule(rule), nil
}

type SeedDefaultsCommand struct {
	Principal auth.Principal
	BranchID  string
}

func (c SeedDefaultsCommand) Key() string               { return seedDefaultsKey }
func (c SeedDefaultsCommand) Actor() auth.Principal     { return c.Principal }
func (c SeedDefaultsCommand) AllowedRoles() []auth.Role { return RuleManagers }

type SeedDefaultsHandler struct {
	Rules domainpricing.RuleStore
	handlersupport.Deps
}

func (h *SeedDefaultsHandler) Handle(ctx context.Context, cmd SeedDefaultsCommand) (dto.PricingRuleCollection, error) {
	branch := strings.TrimSpace(cmd.BranchID)
	if branch == "" {
		branch = domainpricing.AllBranches
	}
	out := dto.PricingRuleCollection{Items: []dto.PricingRuleDTO{}}
	for _, rule := range domainpricing.DefaultRules(branch, h.Clock()) {
		if err := h.Rules.Save(ctx, rule); err != nil {
			return out, err
		}
		out.Items = append(out.Items, dto.MapRule(rule))
	}
	return out, nil
}

var (
	_ queries.Handler[ListRulesQuery, dto.PricingRuleCollection]       = (*ListRulesHandler)(nil)
	_ commands.Handler[AddRuleCommand, dto.PricingRuleDTO]             = (*AddRuleHandler)(nil)
	_ commands.Handler[SeedDefaultsCommand, dto.PricingRuleCollection] = (*SeedDefaultsHandler)(nil)
)
