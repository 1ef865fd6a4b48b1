package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"curalink-backend/internal/assistant"
	"curalink-backend/internal/config"
	"curalink-backend/internal/database"
	"curalink-backend/internal/handler"
	"curalink-backend/internal/middleware"
	"curalink-backend/internal/model"
	"curalink-backend/internal/repository"
	"curalink-backend/internal/service"
	"curalink-backend/internal/speech"
	"curalink-backend/internal/voice"
	"curalink-backend/internal/widget"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()

	// Database
	db, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations applied successfully")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	forumRepo := repository.NewForumRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Services
	authSvc := service.NewAuthService(userRepo, profileRepo, sessionRepo, cfg.JWTSecret)
	profileSvc := service.NewProfileService(profileRepo)
	activitySvc := service.NewActivityService(activityRepo)
	notifier := service.NewCommunityNotifier(cfg.WebhookForum, cfg.WebhookTrials, cfg.WebhookFeedback)
	wsHub := service.NewWSHub()

	// External collaborators
	assistantClient := assistant.NewClient(cfg.AssistantURL, cfg.AssistantKey)
	voiceClient := voice.NewClient(cfg.VoiceAPIURL, cfg.VoiceAPIKey)

	var recognizer speech.Recognizer
	if cfg.SpeechSTTURL != "" {
		recognizer = speech.NewHTTPRecognizer(cfg.SpeechSTTURL)
	}
	var synthesizer speech.Synthesizer
	if cfg.SpeechTTSURL != "" {
		synthesizer = speech.NewHTTPSynthesizer(cfg.SpeechTTSURL)
	}

	// One chat widget per user, shared by REST and websocket sessions.
	// Failure notices reach whatever connections the user has open.
	widgets := widget.NewRegistry(func(userID string) *widget.ChatWidget {
		notify := func(title, detail string) {
			data, _ := json.Marshal(model.WSNotice{Title: title, Detail: detail})
			wsHub.SendToUser(userID, &model.WSEvent{Type: "notice", Data: data})
		}
		return widget.NewChatWidget(userID, messageRepo, assistantClient, notify)
	})

	// One call session per user; lifecycle events are pushed to the user's
	// open connections.
	callSessions := voice.NewSessionRegistry(func(userID string) *voice.CallSession {
		s := voice.NewCallSession(voiceClient, cfg.VoiceAssistantID)
		s.OnCallStart = func(callID string) {
			data, _ := json.Marshal(fiber.Map{"call_id": callID})
			wsHub.SendToUser(userID, &model.WSEvent{Type: "call-start", Data: data})
		}
		s.OnCallEnd = func(callID string) {
			data, _ := json.Marshal(fiber.Map{"call_id": callID})
			wsHub.SendToUser(userID, &model.WSEvent{Type: "call-end", Data: data})
		}
		return s
	})

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    2 * 1024 * 1024, // 2MB, audio payloads go over the socket
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// Health
	healthH := handler.NewHealthHandler(db)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)

	// API v1
	v1 := app.Group("/api/v1")

	// Auth (public)
	authH := handler.NewAuthHandler(authSvc)
	auth := v1.Group("/auth")
	auth.Post("/register", middleware.RateLimit(5, time.Minute), authH.Register)
	auth.Post("/login", middleware.RateLimit(10, time.Minute), authH.Login)
	auth.Post("/refresh", middleware.RateLimit(20, time.Minute), authH.Refresh)
	auth.Post("/logout", authH.Logout)

	// Provider webhooks (hook key auth) — registered BEFORE protected group
	hooks := v1.Group("/hooks", middleware.HookKey(cfg.HookKey))
	hookH := handler.NewHookHandler(callSessions)
	hooks.Post("/voice", hookH.VoiceEvent)

	// Admin — registered BEFORE protected group
	admin := v1.Group("/admin", middleware.AdminKey(cfg.AdminKey))
	adminH := handler.NewAdminHandler(userRepo, profileRepo, forumRepo, activityRepo, activitySvc, wsHub)
	admin.Get("/stats", adminH.Stats)
	admin.Get("/activity", adminH.RecentActivity)
	admin.Post("/announce", adminH.Announce)

	// JWT-protected routes (catch-all — must be LAST)
	protected := v1.Group("", middleware.Auth(cfg.JWTSecret))

	// Profile
	profileH := handler.NewProfileHandler(profileSvc)
	protected.Get("/me", profileH.Me)
	protected.Post("/onboarding", profileH.CompleteOnboarding)

	// Dashboard listings
	dashH := handler.NewDashboardHandler(activitySvc, notifier)
	protected.Get("/trials", dashH.ListTrials)
	protected.Get("/trials/:id", dashH.GetTrial)
	protected.Post("/trials/:id/apply", dashH.ApplyTrial)
	protected.Get("/experts", dashH.ListExperts)
	protected.Post("/experts/:id/connect", dashH.ConnectExpert)

	// Forum
	forumH := handler.NewForumHandler(forumRepo, profileSvc, activitySvc, notifier)
	forum := protected.Group("/forum")
	forum.Get("/", forumH.ListThreads)
	forum.Post("/", forumH.CreateThread)
	forum.Get("/:id", forumH.GetThread)
	forum.Post("/:id/replies", forumH.CreateReply)

	// Chat
	chatH := handler.NewChatHandler(widgets)
	protected.Get("/chat/history", chatH.History)
	protected.Post("/chat/messages", chatH.Send)

	// Voice calls
	voiceH := handler.NewVoiceHandler(callSessions)
	protected.Get("/voice/call", voiceH.GetCall)
	protected.Post("/voice/call", voiceH.StartCall)
	protected.Delete("/voice/call", voiceH.EndCall)

	// Updates + feedback
	updatesH := handler.NewUpdatesHandler(activityRepo, notifier)
	protected.Get("/updates", updatesH.List)
	protected.Post("/feedback", updatesH.SubmitFeedback)

	// WebSocket
	wsH := handler.NewWSHandler(authSvc, wsHub, widgets, messageRepo, assistantClient, recognizer, synthesizer)
	app.Get("/ws", wsH.Upgrade, wsH.Serve())

	// Start hub
	go wsHub.Run()

	// Daily retention sweep: expired sessions and conversations past the
	// 90-day retention window.
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if err := sessionRepo.CleanupExpired(ctx); err != nil {
				log.Printf("[Retention] session cleanup failed: %v", err)
			}
			if n, err := messageRepo.DeleteOlderThan(ctx, 90); err != nil {
				log.Printf("[Retention] message cleanup failed: %v", err)
			} else if n > 0 {
				log.Printf("[Retention] removed %d expired chat messages", n)
			}
			cancel()
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("CuraLink backend running on :%s (%s)", cfg.Port, cfg.Env)

	<-quit
	log.Println("Shutting down...")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	wsHub.Shutdown()
	log.Println("Server stopped")
}
