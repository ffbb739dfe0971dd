// Package registry binds every command and query handler to its bus and wraps
// both buses with the middleware pipeline.
package registry

import (
	"log/slog"
	"time"

	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	bookingapp "hotelbooking/internal/app/handlers/booking"
	branchesapp "hotelbooking/internal/app/handlers/branches"
	loyaltyapp "hotelbooking/internal/app/handlers/loyalty"
	notificationsapp "hotelbooking/internal/app/handlers/notifications"
	pricingapp "hotelbooking/internal/app/handlers/pricing"
	reviewsapp "hotelbooking/internal/app/handlers/reviews"
	roomsapp "hotelbooking/internal/app/handlers/rooms"
	handlersupport "hotelbooking/internal/app/handlers/support"
	waitlistapp "hotelbooking/internal/app/handlers/waitlist"
	"hotelbooking/internal/app/middleware"
	"hotelbooking/internal/app/outbox"
	"hotelbooking/internal/app/policies"
	"hotelbooking/internal/app/queries"
	"hotelbooking/internal/app/uow"
	domainbranches "hotelbooking/internal/domain/branches"
	domainpricing "hotelbooking/internal/domain/pricing"
)

// Components are the adapters a deployment provides. Observer and Idempotency
// are optional; without Branches the branch directory is not served.
type Components struct {
	UoWFactory  uow.UoWFactory
	Rules       domainpricing.RuleStore
	Branches    domainbranches.Repository
	Calculator  domainpricing.Calculator
	Outbox      outbox.Outbox
	Encoder     outbox.EventEncoder
	Notifier    policies.Notifier
	Idempotency middleware.IdempotencyStore
	Observer    middleware.Observer
	Logger      *slog.Logger
	Now         func() time.Time
	NewID       func() string
}

type Buses struct {
	Commands commands.Bus
	Queries  queries.Bus
	Waitlist policies.WaitlistNotifier
}

func Build(c Components) Buses {
	deps := handlersupport.Deps{Now: c.Now, NewID: c.NewID, Logger: c.Logger}
	encoder := c.Encoder
	if encoder == nil {
		encoder = outbox.JSONEventEncoder{IDGenerator: c.NewID}
	}
	waitlist := &waitlistapp.Notifier{UoWFactory: c.UoWFactory, Sink: c.Notifier, Deps: deps}

	cmdBus := commands.NewInMemoryBus()
	commands.RegisterHandler[bookingapp.CreateCommand, *dto.CreateBookingResult](cmdBus, bookingapp.CreateCommand{}.Key(), &bookingapp.CreateHandler{
		UoWFactory: c.UoWFactory,
		Calculator: c.Calculator,
		Notifier:   c.Notifier,
		Outbox:     c.Outbox,
		Encoder:    encoder,
		Deps:       deps,
	})
	commands.RegisterHandler[bookingapp.CancelCommand, *dto.CancelBookingResult](cmdBus, bookingapp.CancelCommand{}.Key(), &bookingapp.CancelHandler{
		UoWFactory: c.UoWFactory,
		Waitlist:   waitlist,
		Outbox:     c.Outbox,
		Encoder:    encoder,
		Deps:       deps,
	})
	commands.RegisterHandler[bookingapp.ModifyCommand, dto.BookingDTO](cmdBus, bookingapp.ModifyCommand{}.Key(), &bookingapp.ModifyHandler{
		UoWFactory: c.UoWFactory,
		Calculator: c.Calculator,
		Outbox:     c.Outbox,
		Encoder:    encoder,
		Deps:       deps,
	})
	commands.RegisterHandler[bookingapp.UpdateStatusCommand, dto.BookingDTO](cmdBus, bookingapp.UpdateStatusCommand{}.Key(), &bookingapp.UpdateStatusHandler{
		UoWFactory: c.UoWFactory,
		Waitlist:   waitlist,
		Outbox:     c.Outbox,
		Encoder:    encoder,
		Deps:       deps,
	})
	commands.RegisterHandler[roomsapp.SetAvailabilityCommand, dto.RoomDTO](cmdBus, roomsapp.SetAvailabilityCommand{}.Key(), &roomsapp.SetAvailabilityHandler{
		UoWFactory: c.UoWFactory,
		Deps:       deps,
	})
	commands.RegisterHandler[roomsapp.ReleaseCommand, dto.RoomReleaseResult](cmdBus, roomsapp.ReleaseCommand{}.Key(), &roomsapp.ReleaseHandler{
		UoWFactory: c.UoWFactory,
		Waitlist:   waitlist,
		Deps:       deps,
	})
	commands.RegisterHandler[waitlistapp.JoinCommand, dto.WaitlistEntryDTO](cmdBus, waitlistapp.JoinCommand{}.Key(), &waitlistapp.JoinHandler{
		UoWFactory: c.UoWFactory,
		Deps:       deps,
	})
	commands.RegisterHandler[waitlistapp.LeaveCommand, dto.WaitlistEntryDTO](cmdBus, waitlistapp.LeaveCommand{}.Key(), &waitlistapp.LeaveHandler{
		UoWFactory: c.UoWFactory,
		Deps:       deps,
	})
	commands.RegisterHandler[loyaltyapp.RedeemCommand, dto.LoyaltyAccountDTO](cmdBus, loyaltyapp.RedeemCommand{}.Key(), &loyaltyapp.RedeemHandler{
		UoWFactory: c.UoWFactory,
		Deps:       deps,
	})
	commands.RegisterHandler[pricingapp.AddRuleCommand, dto.PricingRuleDTO](cmdBus, pricingapp.AddRuleCommand{}.Key(), &pricingapp.AddRuleHandler{
		Rules: c.Rules,
		Deps:  deps,
	})
	commands.RegisterHandler[pricingapp.SeedDefaultsCommand, dto.PricingRuleCollection](cmdBus, pricingapp.SeedDefaultsCommand{}.Key(), &pricingapp.SeedDefaultsHandler{
		Rules: c.Rules,
		Deps:  deps,
	})
	commands.RegisterHandler[reviewsapp.SubmitCommand, dto.ReviewDTO](cmdBus, reviewsapp.SubmitCommand{}.Key(), &reviewsapp.SubmitHandler{
		UoWFactory: c.UoWFactory,
		Outbox:     c.Outbox,
		Encoder:    encoder,
		Deps:       deps,
	})
	commands.RegisterHandler[reviewsapp.UpdateCommand, dto.ReviewDTO](cmdBus, reviewsapp.UpdateCommand{}.Key(), &reviewsapp.UpdateHandler{
		UoWFactory: c.UoWFactory,
		Outbox:     c.Outbox,
		Encoder:    encoder,
		Deps:       deps,
	})
	commands.RegisterHandler[notificationsapp.DispatchDueCommand, notificationsapp.DispatchDueResult](cmdBus, notificationsapp.DispatchDueCommand{}.Key(), &notificationsapp.DispatchDueHandler{
		UoWFactory: c.UoWFactory,
		Outbox:     c.Outbox,
		Encoder:    encoder,
		Deps:       deps,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler[pricingapp.QuoteQuery, dto.QuoteDTO](queryBus, pricingapp.QuoteQuery{}.Key(), &pricingapp.QuoteHandler{
		UoWFactory: c.UoWFactory,
		Calculator: c.Calculator,
		Deps:       deps,
	})
	queries.RegisterHandler[pricingapp.ListRulesQuery, dto.PricingRuleCollection](queryBus, pricingapp.ListRulesQuery{}.Key(), &pricingapp.ListRulesHandler{
		Rules: c.Rules,
		Deps:  deps,
	})
	queries.RegisterHandler[roomsapp.SearchQuery, dto.RoomCollection](queryBus, roomsapp.SearchQuery{}.Key(), &roomsapp.SearchHandler{
		UoWFactory: c.UoWFactory,
		Deps:       deps,
	})
	queries.RegisterHandler[bookingapp.ListMineQuery, dto.BookingCollection](queryBus, bookingapp.ListMineQuery{}.Key(), &bookingapp.ListMineHandler{
		UoWFactory: c.UoWFactory,
		Deps:       deps,
	})
	queries.RegisterHandler[bookingapp.GetQuery, dto.BookingDTO](queryBus, bookingapp.GetQuery{}.Key(), &bookingapp.GetHandler{
		UoWFactory: c.UoWFactory,
	})
	queries.RegisterHandler[bookingapp.StatsQuery, dto.BookingStats](queryBus, bookingapp.StatsQuery{}.Key(), &bookingapp.StatsHandler{
		UoWFactory: c.UoWFactory,
		Deps:       deps,
	})
	queries.RegisterHandler[waitlistapp.ListQuery, dto.WaitlistCollection](queryBus, waitlistapp.ListQuery{}.Key(), &waitlistapp.ListHandler{
		UoWFactory: c.UoWFactory,
		Deps:       deps,
	})
	queries.RegisterHandler[loyaltyapp.GetAccountQuery, dto.LoyaltyAccountDTO](queryBus, loyaltyapp.GetAccountQuery{}.Key(), &loyaltyapp.GetAccountHandler{
		UoWFactory: c.UoWFactory,
		Deps:       deps,
	})
	queries.RegisterHandler[notificationsapp.ListMineQuery, dto.NotificationCollection](queryBus, notificationsapp.ListMineQuery{}.Key(), &notificationsapp.ListMineHandler{
		UoWFactory: c.UoWFactory,
		Deps:       deps,
	})
	queries.RegisterHandler[reviewsapp.ListRoomQuery, dto.ReviewCollection](queryBus, reviewsapp.ListRoomQuery{}.Key(), &reviewsapp.ListRoomHandler{
		UoWFactory: c.UoWFactory,
		Deps:       deps,
	})
	queries.RegisterHandler[reviewsapp.ListMineQuery, dto.ReviewCollection](queryBus, reviewsapp.ListMineQuery{}.Key(), &reviewsapp.ListMineHandler{
		UoWFactory: c.UoWFactory,
		Deps:       deps,
	})
	if c.Branches != nil {
		commands.RegisterHandler[branchesapp.AddCommand, dto.BranchDTO](cmdBus, branchesapp.AddCommand{}.Key(), &branchesapp.AddHandler{
			Branches: c.Branches,
			Deps:     deps,
		})
		queries.RegisterHandler[branchesapp.ListQuery, dto.BranchCollection](queryBus, branchesapp.ListQuery{}.Key(), &branchesapp.ListHandler{
			Branches: c.Branches,
			Deps:     deps,
		})
		queries.RegisterHandler[branchesapp.GetQuery, dto.BranchDTO](queryBus, branchesapp.GetQuery{}.Key(), &branchesapp.GetHandler{
			Branches: c.Branches,
		})
	}

	cmdMiddleware := []middleware.CommandMiddleware{middleware.Logging(c.Logger)}
	queryMiddleware := []middleware.QueryMiddleware{middleware.QueryLogging(c.Logger)}
	if c.Observer != nil {
		cmdMiddleware = append(cmdMiddleware, middleware.Metrics(c.Observer))
		queryMiddleware = append(queryMiddleware, middleware.QueryMetrics(c.Observer))
	}
	cmdMiddleware = append(cmdMiddleware,
		middleware.Authorization(middleware.RoleAuthorizer{}),
		middleware.Validation(middleware.SelfValidator{}),
	)
	if c.Idempotency != nil {
		cmdMiddleware = append(cmdMiddleware, middleware.Idempotency(c.Idempotency, nil))
	}
	cmdMiddleware = append(cmdMiddleware,
		middleware.Transaction(c.UoWFactory, nil),
		middleware.OutboxFlush(c.Outbox),
	)
	queryMiddleware = append(queryMiddleware,
		middleware.QueryAuthorization(middleware.RoleAuthorizer{}),
		middleware.QueryValidation(middleware.SelfValidator{}),
	)

	return Buses{
		Commands: middleware.ChainCommands(cmdBus, cmdMiddleware...),
		Queries:  middleware.ChainQueries(queryBus, queryMiddleware...),
		Waitlist: waitlist,
	}
}
