package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// CommunityNotifier sends rich embeds to community channels via webhooks.
// Sends are fire-and-forget; a failed webhook never affects the request that
// triggered it.
type CommunityNotifier struct {
	webhookForum    string
	webhookTrials   string
	webhookFeedback string
	client          *http.Client
}

func NewCommunityNotifier(forum, trials, feedback string) *CommunityNotifier {
	return &CommunityNotifier{
		webhookForum:    forum,
		webhookTrials:   trials,
		webhookFeedback: feedback,
		client:          &http.Client{Timeout: 10 * time.Second},
	}
}

type notifierEmbed struct {
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Color       int             `json:"color,omitempty"`
	Fields      []notifierField `json:"fields,omitempty"`
	Timestamp   string          `json:"timestamp,omitempty"`
}

type notifierField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type notifierPayload struct {
	Username string          `json:"username,omitempty"`
	Embeds   []notifierEmbed `json:"embeds"`
}

func (s *CommunityNotifier) send(webhookURL string, payload notifierPayload) {
	if webhookURL == "" {
		return
	}
	go func() {
		body, err := json.Marshal(payload)
		if err != nil {
			log.Printf("[notifier] marshal error: %v", err)
			return
		}
		resp, err := s.client.Post(webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("[notifier] send error: %v", err)
			return
		}
		resp.Body.Close()
		if resp.StatusCode >= 400 {
			log.Printf("[notifier] HTTP %d for webhook", resp.StatusCode)
		}
	}()
}

// SendForumThread posts a new community thread to the forum channel.
func (s *CommunityNotifier) SendForumThread(author, title string) {
	s.send(s.webhookForum, notifierPayload{
		Username: "CuraLink Community",
		Embeds: []notifierEmbed{{
			Title:       fmt.Sprintf("New forum thread: %s", title),
			Description: fmt.Sprintf("Posted by %s", author),
			Color:       0x3498DB, // Blue
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}},
	})
}

// SendTrialApplication posts a trial application to the trials channel.
func (s *CommunityNotifier) SendTrialApplication(applicant, trialTitle string) {
	s.send(s.webhookTrials, notifierPayload{
		Username: "CuraLink Trials",
		Embeds: []notifierEmbed{{
			Title: "Trial application submitted",
			Color: 0x2ECC71, // Green
			Fields: []notifierField{
				{Name: "Trial", Value: trialTitle, Inline: true},
				{Name: "Applicant", Value: applicant, Inline: true},
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	})
}

// SendConnectionRequest posts an expert connection request.
func (s *CommunityNotifier) SendConnectionRequest(requester, expertName string) {
	s.send(s.webhookTrials, notifierPayload{
		Username: "CuraLink Matching",
		Embeds: []notifierEmbed{{
			Title: fmt.Sprintf("Connection request for %s", expertName),
			Color: 0x9B59B6, // Purple
			Fields: []notifierField{
				{Name: "From", Value: requester, Inline: true},
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	})
}

// SendFeedback posts user feedback to the feedback channel.
func (s *CommunityNotifier) SendFeedback(reporter, subject, description string) {
	s.send(s.webhookFeedback, notifierPayload{
		Username: "CuraLink Feedback",
		Embeds: []notifierEmbed{{
			Title:       subject,
			Description: description,
			Color:       0xE67E22, // Orange
			Fields: []notifierField{
				{Name: "From", Value: reporter, Inline: true},
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	})
}
