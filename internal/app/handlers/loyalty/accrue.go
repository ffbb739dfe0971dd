package loyalty

import (
	"context"
	"time"

	domainloyalty "hotelbooking/internal/domain/loyalty"
)

// Accrue credits an accrual to the user's account, creating it on first use.
func Accrue(ctx context.Context, repo domainloyalty.Repository, userID string, acc domainloyalty.Accrual, now time.Time) (*domainloyalty.Account, error) {
	if acc.Total() <= 0 {
		return nil, nil
	}
	account, err := repo.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		if account, err = domainloyalty.NewAccount(userID); err != nil {
			return nil, err
		}
	}
	account.Apply(acc, now)
	if err := repo.Save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}
