package model

import "time"

type Airdrop struct {
	ID         int64
	TelegramID int64
	Value      float64
	CreatedAt  time.Time
}

type AirdropSum struct {
	TotalValue       float64
	NewTotalAirdrops float64
}
