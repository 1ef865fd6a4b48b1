package handler

import (
	"encoding/json"
	"log"
	"strconv"

	"curalink-backend/internal/model"
	"curalink-backend/internal/repository"
	"curalink-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the operational surface behind X-Admin-Key.
type AdminHandler struct {
	userRepo     *repository.UserRepository
	profileRepo  *repository.ProfileRepository
	forumRepo    *repository.ForumRepository
	activityRepo *repository.ActivityRepository
	activitySvc  *service.ActivityService
	hub          *service.WSHub
}

func NewAdminHandler(userRepo *repository.UserRepository, profileRepo *repository.ProfileRepository, forumRepo *repository.ForumRepository, activityRepo *repository.ActivityRepository, activitySvc *service.ActivityService, hub *service.WSHub) *AdminHandler {
	return &AdminHandler{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		forumRepo:    forumRepo,
		activityRepo: activityRepo,
		activitySvc:  activitySvc,
		hub:          hub,
	}
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	ctx := c.Context()

	users, err := h.userRepo.CountTotal(ctx)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to compute stats"})
	}
	profiles, _ := h.profileRepo.CountTotal(ctx)
	threads, _ := h.forumRepo.CountThreads(ctx)
	applications, _ := h.activitySvc.Count(ctx, model.ActivityTrialApplication)
	connections, _ := h.activitySvc.Count(ctx, model.ActivityExpertConnect)

	return c.JSON(fiber.Map{
		"users":              users,
		"profiles":           profiles,
		"forum_threads":      threads,
		"trial_applications": applications,
		"expert_connections": connections,
		"online":             h.hub.OnlineCount(),
	})
}

func (h *AdminHandler) RecentActivity(c *fiber.Ctx) error {
	eventType := c.Query("type", model.ActivityTrialApplication)
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	events, err := h.activitySvc.Recent(c.Context(), eventType, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load activity"})
	}
	if events == nil {
		events = []model.ActivityEvent{}
	}
	return c.JSON(fiber.Map{"events": events})
}

type announceRequest struct {
	Message string `json:"message"`
}

// Announce stores a platform announcement and pushes it to every connected
// client.
func (h *AdminHandler) Announce(c *fiber.Ctx) error {
	var req announceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Message == "" {
		return c.Status(400).JSON(fiber.Map{"error": "message is required"})
	}

	ann, err := h.activityRepo.InsertAnnouncement(c.Context(), req.Message)
	if err != nil {
		log.Printf("[Admin] store announcement failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to store announcement"})
	}

	data, _ := json.Marshal(model.WSAnnounce{Message: ann.Body})
	h.hub.Broadcast(&model.WSEvent{Type: "announce", Data: data})

	return c.Status(201).JSON(ann)
}
