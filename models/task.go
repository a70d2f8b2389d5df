package models

import (
	"time"

	"github.com/google/uuid"
)

// Frequency is how often a repeating task recurs.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether f is one of the known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Task is a single to-do item owned by one user.
type Task struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Task            string     `json:"task"`
	Description     string     `json:"description"`
	Done            bool       `json:"done"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	RepeatFrequency *Frequency `json:"repeat_frequency,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
