package handler

import (
	"log"

	"curalink-backend/internal/voice"

	"github.com/gofiber/fiber/v2"
)

// HookHandler receives server-to-server webhooks from the voice provider and
// feeds them into the owning user's call session. Protected by HookKey.
type HookHandler struct {
	sessions *voice.SessionRegistry
}

func NewHookHandler(sessions *voice.SessionRegistry) *HookHandler {
	return &HookHandler{sessions: sessions}
}

type voiceHookPayload struct {
	Event  string `json:"event"`
	CallID string `json:"call_id"`
	UserID string `json:"user_id"`
}

func (h *HookHandler) VoiceEvent(c *fiber.Ctx) error {
	var payload voiceHookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}
	if payload.Event == "" || payload.UserID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "event and user_id are required"})
	}

	log.Printf("[Hooks] voice %s for user=%s call=%s", payload.Event, payload.UserID, payload.CallID)
	h.sessions.Get(payload.UserID).HandleProviderEvent(payload.Event, payload.CallID)

	return c.JSON(fiber.Map{"ok": true})
}
