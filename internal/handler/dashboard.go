package handler

import (
	"fmt"
	"log"

	"curalink-backend/internal/model"
	"curalink-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the trial and expert listings. These are curated
// sample catalogs; matching against live registries is out of scope.
type DashboardHandler struct {
	activitySvc *service.ActivityService
	notifier    *service.CommunityNotifier
}

func NewDashboardHandler(activitySvc *service.ActivityService, notifier *service.CommunityNotifier) *DashboardHandler {
	return &DashboardHandler{activitySvc: activitySvc, notifier: notifier}
}

func (h *DashboardHandler) ListTrials(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"trials": model.SampleTrials})
}

func (h *DashboardHandler) GetTrial(c *fiber.Ctx) error {
	trial := model.TrialByID(c.Params("id"))
	if trial == nil {
		return c.Status(404).JSON(fiber.Map{"error": "trial not found"})
	}
	return c.JSON(trial)
}

// ApplyTrial acknowledges a trial application and records it.
func (h *DashboardHandler) ApplyTrial(c *fiber.Ctx) error {
	trial := model.TrialByID(c.Params("id"))
	if trial == nil {
		return c.Status(404).JSON(fiber.Map{"error": "trial not found"})
	}

	userID, _ := c.Locals("user_id").(string)
	email, _ := c.Locals("email").(string)

	log.Printf("[Dashboard] trial application: user=%s trial=%q", userID, trial.Title)
	h.activitySvc.Record(c.Context(), userID, model.ActivityTrialApplication, trial.Title)
	h.notifier.SendTrialApplication(email, trial.Title)

	return c.Status(201).JSON(fiber.Map{
		"ok":      true,
		"message": fmt.Sprintf("Your application for %q has been submitted.", trial.Title),
	})
}

func (h *DashboardHandler) ListExperts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"experts": model.SampleExperts})
}

// ConnectExpert acknowledges a connection request and records it.
func (h *DashboardHandler) ConnectExpert(c *fiber.Ctx) error {
	expert := model.ExpertByID(c.Params("id"))
	if expert == nil {
		return c.Status(404).JSON(fiber.Map{"error": "expert not found"})
	}

	userID, _ := c.Locals("user_id").(string)
	email, _ := c.Locals("email").(string)

	log.Printf("[Dashboard] connection request: user=%s expert=%q", userID, expert.Name)
	h.activitySvc.Record(c.Context(), userID, model.ActivityExpertConnect, expert.Name)
	h.notifier.SendConnectionRequest(email, expert.Name)

	return c.Status(201).JSON(fiber.Map{
		"ok":      true,
		"message": fmt.Sprintf("Your request to connect with %s has been sent.", expert.Name),
	})
}
