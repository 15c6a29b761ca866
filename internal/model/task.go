package model

import "time"

type TaskRecord struct {
	TelegramID  int64
	TaskID      string
	Completed   bool
	Claimed     bool
	CompletedAt *time.Time
}

type TaskStatus struct {
	TaskID    string
	Completed bool
	Claimed   bool
}
