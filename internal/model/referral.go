package model

import "time"

type Referral struct {
	ID                     int64
	ReferrerTelegramID     int64
	ReferredUserTelegramID int64
	ReferredUsername       string
	Timestamp              time.Time
}
