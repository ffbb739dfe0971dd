package dto

import "hotelbooking/internal/domain/shared/money"

type MoneyDTO struct {
	Amount   int64   `json:"amount"`
	Major    float64 `json:"major"`
	Currency string  `json:"currency"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{
		Amount:   value.Amount,
		Major:    value.Major(),
		Currency: value.Currency,
	}
}
