package model

import "time"

type User struct {
	TelegramID            int64
	TelegramUsername      string
	FirstName             string
	LastName              string
	HeliosUsername        *string
	ReferralToken         string
	ReferredBy            *int64
	Minerate              int
	ReferralCount         int
	TotalAirdrops         float64
	UnclaimedAirdropTotal float64
	AirdropClaimCount     int
	MessageIndex          int
	AvatarPath            *string
	Timezone              string
	CreatedAt             time.Time
}

// ReferralStats is the slice of a referrer's row touched by the referral bonus.
type ReferralStats struct {
	ReferralCount int
	Minerate      int
	TotalAirdrops float64
}
