package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"hotelbooking/internal/app/auth"
	handlersupport "hotelbooking/internal/app/handlers/support"
	domainbooking "hotelbooking/internal/domain/booking"
	domainbranches "hotelbooking/internal/domain/branches"
	domainloyalty "hotelbooking/internal/domain/loyalty"
	domainnotifications "hotelbooking/internal/domain/notifications"
	domainpricing "hotelbooking/internal/domain/pricing"
	domainreviews "hotelbooking/internal/domain/reviews"
	domainrooms "hotelbooking/internal/domain/rooms"
	"hotelbooking/internal/domain/shared/daterange"
	"hotelbooking/internal/domain/shared/money"
	domainwaitlist "hotelbooking/internal/domain/waitlist"
	mongostore "hotelbooking/internal/infra/db/mongo"
)

var statusByError = []struct {
	status int
	errs   []error
}{
	{http.StatusUnauthorized, []error{auth.ErrUnauthenticated}},
	{http.StatusForbidden, []error{
		auth.ErrForbidden,
		domainbooking.ErrNotOwner,
		domainwaitlist.ErrNotOwner,
		domainrooms.ErrStatusNotAllowed,
		domainreviews.ErrNotAuthor,
	}},
	{http.StatusNotFound, []error{
		domainbooking.ErrBookingNotFound,
		domainrooms.ErrRoomNotFound,
		domainwaitlist.ErrEntryNotFound,
		domainnotifications.ErrNotificationNotFound,
		domainreviews.ErrReviewNotFound,
		domainbranches.ErrBranchNotFound,
	}},
	{http.StatusConflict, []error{
		domainrooms.ErrRoomUnavailable,
		domainrooms.ErrAvailabilityConflict,
		domainbooking.ErrInvalidState,
		domainwaitlist.ErrNotActive,
		mongostore.ErrConcurrentUpdate,
		domainreviews.ErrDuplicate,
		domainbranches.ErrBranchExists,
	}},
	{http.StatusUnprocessableEntity, []error{
		domainloyalty.ErrInsufficientPoints,
		domainreviews.ErrStayNotEligible,
	}},
	{http.StatusBadRequest, []error{
		handlersupport.ErrInvalidInput,
		daterange.ErrInvalidDate,
		daterange.ErrInvalidRange,
		money.ErrInvalidCurrency,
		money.ErrCurrencyMismatch,
		domainbooking.ErrInvalidGuests,
		domainbooking.ErrInvalidNights,
		domainbooking.ErrCheckInInPast,
		domainbooking.ErrInvalidStatus,
		domainbooking.ErrGuestRequired,
		domainrooms.ErrInvalidAvailability,
		domainloyalty.ErrInvalidPoints,
		domainwaitlist.ErrGuestRequired,
		domainnotifications.ErrRecipientRequired,
		domainpricing.ErrUnknownRuleType,
		domainpricing.ErrInvalidMultiplier,
		domainpricing.ErrInvalidSeason,
		domainpricing.ErrInvalidDiscount,
		domainpricing.ErrInvalidThreshold,
		domainpricing.ErrRuleBranchRequired,
		domainreviews.ErrInvalidRating,
		domainreviews.ErrTextTooLong,
		domainbranches.ErrInvalidBranch,
	}},
}

func statusFor(err error) int {
	for _, group := range statusByError {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.status
			}
		}
	}
	return http.StatusInternalServerError
}

// respondWithError writes the mapped status. Server errors hide their cause.
func respondWithError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(err)
	if logger != nil {
		fields := []any{"status", status, "error", err, "path", c.FullPath()}
		if p := currentPrincipal(c); p.Authenticated() {
			fields = append(fields, "user_id", p.UserID)
		}
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed", fields...)
	}
	if status >= http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
