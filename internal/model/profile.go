package model

import "time"

const (
	UserTypePatient    = "patient"
	UserTypeResearcher = "researcher"
)

type Profile struct {
	UserID    string    `json:"user_id"`
	UserType  string    `json:"user_type"`
	FullName  string    `json:"full_name"`
	Location  string    `json:"location"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Condition struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	ConditionName string    `json:"condition_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// OnboardingRequest completes a freshly registered profile in one shot.
type OnboardingRequest struct {
	Location   string   `json:"location"`
	Bio        string   `json:"bio"`
	Conditions []string `json:"conditions"`
}
