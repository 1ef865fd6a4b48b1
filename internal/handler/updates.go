package handler

import (
	"strconv"

	"curalink-backend/internal/model"
	"curalink-backend/internal/repository"
	"curalink-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UpdatesHandler serves platform announcements and takes user feedback.
type UpdatesHandler struct {
	activityRepo *repository.ActivityRepository
	notifier     *service.CommunityNotifier
}

func NewUpdatesHandler(activityRepo *repository.ActivityRepository, notifier *service.CommunityNotifier) *UpdatesHandler {
	return &UpdatesHandler{activityRepo: activityRepo, notifier: notifier}
}

func (h *UpdatesHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	list, err := h.activityRepo.ListAnnouncements(c.Context(), limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load announcements"})
	}
	if list == nil {
		list = []model.Announcement{}
	}
	return c.JSON(fiber.Map{"announcements": list})
}

type feedbackRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// SubmitFeedback relays a report to the feedback channel. The returned
// reference id gives the user something to quote in follow-ups; delivery
// itself is fire-and-forget.
func (h *UpdatesHandler) SubmitFeedback(c *fiber.Ctx) error {
	var req feedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Subject == "" {
		return c.Status(400).JSON(fiber.Map{"error": "subject is required"})
	}

	email, _ := c.Locals("email").(string)
	ref := uuid.NewString()

	h.notifier.SendFeedback(email, "["+ref[:8]+"] "+req.Subject, req.Description)

	return c.Status(202).JSON(fiber.Map{"ok": true, "reference": ref})
}
