package handler

import (
	"curalink-backend/internal/voice"

	"github.com/gofiber/fiber/v2"
)

// VoiceHandler drives the per-user call state machine. The provider's media
// path never touches this server; these endpoints only start and stop calls.
type VoiceHandler struct {
	sessions *voice.SessionRegistry
}

func NewVoiceHandler(sessions *voice.SessionRegistry) *VoiceHandler {
	return &VoiceHandler{sessions: sessions}
}

func (h *VoiceHandler) GetCall(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	s := h.sessions.Get(userID)
	return c.JSON(fiber.Map{"state": s.State(), "call_id": s.CallID()})
}

// StartCall opens a call with the configured assistant. Starting while a call
// is connecting or active is a no-op returning the current state.
func (h *VoiceHandler) StartCall(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	s := h.sessions.Get(userID)

	if err := s.StartCall(c.Context()); err != nil {
		return c.Status(502).JSON(fiber.Map{
			"error": "could not start the call, try again",
			"state": s.State(),
		})
	}
	return c.Status(201).JSON(fiber.Map{"state": s.State(), "call_id": s.CallID()})
}

// EndCall hangs up. Ending with no call in progress is a no-op.
func (h *VoiceHandler) EndCall(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	s := h.sessions.Get(userID)

	if err := s.EndCall(c.Context()); err != nil {
		// The local state is already idle; report the provider hiccup but
		// let the client treat the call as ended.
		return c.JSON(fiber.Map{"state": s.State(), "warning": "provider disconnect failed"})
	}
	return c.JSON(fiber.Map{"state": s.State()})
}
