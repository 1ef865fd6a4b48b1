package handler

import (
	"errors"

	"curalink-backend/internal/model"
	"curalink-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profileSvc *service.ProfileService
}

func NewProfileHandler(profileSvc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// Me returns the caller's profile and condition tags. A 404 with
// onboarding_required sends the client to the onboarding flow.
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	email, _ := c.Locals("email").(string)

	profile, err := h.profileSvc.Get(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "profile not found", "onboarding_required": true})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load profile"})
	}

	conditions, err := h.profileSvc.GetConditions(c.Context(), userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load conditions"})
	}
	if conditions == nil {
		conditions = []model.Condition{}
	}

	return c.JSON(fiber.Map{
		"user":       fiber.Map{"id": userID, "email": email},
		"profile":    profile,
		"conditions": conditions,
	})
}

// CompleteOnboarding applies the one-time profile update plus condition tags.
func (h *ProfileHandler) CompleteOnboarding(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req model.OnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.profileSvc.CompleteOnboarding(c.Context(), userID, &req); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to complete onboarding"})
	}

	return c.JSON(fiber.Map{"ok": true})
}
