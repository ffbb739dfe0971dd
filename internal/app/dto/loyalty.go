package dto

import (
	"time"

	domainloyalty "hotelbooking/internal/domain/loyalty"
)

type LoyaltyTransactionDTO struct {
	Points int64     `json:"points"`
	Reason string    `json:"reason"`
	At     time.Time `json:"timestamp"`
}

type LoyaltyAccountDTO struct {
	UserID       string                  `json:"user_id"`
	Points       int64                   `json:"points"`
	Tier         string                  `json:"tier"`
	Transactions []LoyaltyTransactionDTO `json:"transactions"`
}

// MapLoyalty maps an account; a nil account is an empty Silver account.
func MapLoyalty(userID string, a *domainloyalty.Account) LoyaltyAccountDTO {
	out := LoyaltyAccountDTO{UserID: userID, Tier: string(domainloyalty.TierSilver), Transactions: []LoyaltyTransactionDTO{}}
	if a == nil {
		return out
	}
	out.Points = a.Points
	out.Tier = string(a.Tier())
	for _, tx := range a.Transactions {
		out.Transactions = append(out.Transactions, LoyaltyTransactionDTO{Points: tx.Points, Reason: tx.Reason, At: tx.At})
	}
	return out
}
