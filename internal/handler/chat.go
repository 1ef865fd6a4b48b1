package handler

import (
	"errors"

	"curalink-backend/internal/model"
	"curalink-backend/internal/widget"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler exposes the text chat pipeline over REST. Both endpoints go
// through the per-user widget so REST and websocket sessions share one
// history and one single-flight gate.
type ChatHandler struct {
	widgets *widget.Registry
}

func NewChatHandler(widgets *widget.Registry) *ChatHandler {
	return &ChatHandler{widgets: widgets}
}

// History returns the caller's conversation, oldest first.
func (h *ChatHandler) History(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	w := h.widgets.Get(userID)
	if err := w.LoadHistory(c.Context()); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load chat history"})
	}

	history := w.History()
	if history == nil {
		history = []model.ChatMessage{}
	}
	return c.JSON(fiber.Map{"messages": history})
}

// Send runs one message round trip and returns the assistant reply.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req model.ChatSendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	w := h.widgets.Get(userID)
	_ = w.LoadHistory(c.Context())

	reply, err := w.Submit(c.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, widget.ErrEmptyMessage):
			return c.Status(400).JSON(fiber.Map{"error": "message is required"})
		case errors.Is(err, widget.ErrBusy):
			return c.Status(409).JSON(fiber.Map{"error": "a message is already being sent"})
		case errors.Is(err, widget.ErrClosed):
			return c.Status(409).JSON(fiber.Map{"error": "chat session was closed, retry"})
		default:
			return c.Status(502).JSON(fiber.Map{"error": "assistant is unavailable, try again"})
		}
	}

	return c.JSON(model.ChatSendResponse{Reply: reply})
}
