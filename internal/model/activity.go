package model

import "time"

const (
	ActivityTrialApplication = "trial_application"
	ActivityExpertConnect    = "expert_connect"
	ActivityForumPost        = "forum_post"
)

type ActivityEvent struct {
	ID        int64     `json:"id"`
	UserID    *string   `json:"user_id,omitempty"`
	EventType string    `json:"event_type"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

type Announcement struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
