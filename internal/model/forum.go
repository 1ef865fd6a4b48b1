package model

import "time"

type ForumThread struct {
	ID           int64     `json:"id"`
	AuthorName   string    `json:"author_name"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	RepliesCount int       `json:"replies_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type ForumReply struct {
	ID         int64     `json:"id"`
	ThreadID   int64     `json:"thread_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type ForumPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ForumReplyRequest struct {
	Content string `json:"content"`
}
