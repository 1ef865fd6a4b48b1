package handler

import (
	"errors"
	"log"
	"strconv"

	"curalink-backend/internal/model"
	"curalink-backend/internal/repository"
	"curalink-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type ForumHandler struct {
	forumRepo   *repository.ForumRepository
	profileSvc  *service.ProfileService
	activitySvc *service.ActivityService
	notifier    *service.CommunityNotifier
}

func NewForumHandler(forumRepo *repository.ForumRepository, profileSvc *service.ProfileService, activitySvc *service.ActivityService, notifier *service.CommunityNotifier) *ForumHandler {
	return &ForumHandler{
		forumRepo:   forumRepo,
		profileSvc:  profileSvc,
		activitySvc: activitySvc,
		notifier:    notifier,
	}
}

func (h *ForumHandler) ListThreads(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	threads, err := h.forumRepo.ListThreads(c.Context(), limit)
	if err != nil {
		log.Printf("[Forum] ListThreads DB error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to load threads"})
	}
	if threads == nil {
		threads = []model.ForumThread{}
	}
	return c.JSON(fiber.Map{"threads": threads})
}

func (h *ForumHandler) GetThread(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid thread id"})
	}

	thread, err := h.forumRepo.GetThread(c.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"error": "thread not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load thread"})
	}

	replies, err := h.forumRepo.ListReplies(c.Context(), id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load replies"})
	}
	if replies == nil {
		replies = []model.ForumReply{}
	}

	return c.JSON(fiber.Map{"thread": thread, "replies": replies})
}

func (h *ForumHandler) CreateThread(c *fiber.Ctx) error {
	var req model.ForumPostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Title == "" || req.Content == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title and content are required"})
	}
	if len(req.Title) > 255 {
		return c.Status(400).JSON(fiber.Map{"error": "title too long (max 255 chars)"})
	}

	userID, _ := c.Locals("user_id").(string)
	author := h.authorName(c, userID)

	thread, err := h.forumRepo.CreateThread(c.Context(), author, req.Title, req.Content)
	if err != nil {
		log.Printf("[Forum] CreateThread DB error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create thread"})
	}

	h.activitySvc.Record(c.Context(), userID, model.ActivityForumPost, req.Title)
	h.notifier.SendForumThread(author, req.Title)

	return c.Status(201).JSON(thread)
}

func (h *ForumHandler) CreateReply(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid thread id"})
	}

	var req model.ForumReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Content == "" {
		return c.Status(400).JSON(fiber.Map{"error": "content is required"})
	}

	if _, err := h.forumRepo.GetThread(c.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"error": "thread not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load thread"})
	}

	userID, _ := c.Locals("user_id").(string)
	author := h.authorName(c, userID)

	reply, err := h.forumRepo.CreateReply(c.Context(), id, author, req.Content)
	if err != nil {
		log.Printf("[Forum] CreateReply DB error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create reply"})
	}

	return c.Status(201).JSON(reply)
}

// authorName prefers the profile display name, falling back to the token
// email.
func (h *ForumHandler) authorName(c *fiber.Ctx, userID string) string {
	if profile, err := h.profileSvc.Get(c.Context(), userID); err == nil && profile.FullName != "" {
		return profile.FullName
	}
	email, _ := c.Locals("email").(string)
	return email
}
