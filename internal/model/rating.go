package model

import "time"

type Project struct {
	ID            int64
	Name          string
	Description   string
	Location      string
	Certification string
	CreatedAt     time.Time
}

type Rating struct {
	ID         int64
	ProjectID  int64
	TelegramID int64
	Score      int
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ProjectRatings struct {
	Ratings []*Rating
	// Average is NaN when the project has no ratings.
	Average float64
}

type UserRating struct {
	HasRated bool
	Score    *int
	Comment  *string
}
