package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"time"

	"curalink-backend/internal/model"
	"curalink-backend/internal/service"
	"curalink-backend/internal/speech"
	"curalink-backend/internal/widget"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const submitTimeout = 30 * time.Second

// WSHandler runs the realtime session: the text chat stream, the voice
// capture/playback loop and server pushes, all multiplexed over one
// connection as typed JSON events.
type WSHandler struct {
	authSvc *service.AuthService
	hub     *service.WSHub
	widgets *widget.Registry
	store   widget.MessageStore
	assist  widget.Assistant
	rec     speech.Recognizer
	synth   speech.Synthesizer
}

func NewWSHandler(authSvc *service.AuthService, hub *service.WSHub, widgets *widget.Registry, store widget.MessageStore, assist widget.Assistant, rec speech.Recognizer, synth speech.Synthesizer) *WSHandler {
	return &WSHandler{
		authSvc: authSvc,
		hub:     hub,
		widgets: widgets,
		store:   store,
		assist:  assist,
		rec:     rec,
		synth:   synth,
	}
}

// Upgrade authenticates the handshake. Browsers cannot set headers on a
// websocket request, so the access token travels as a query parameter.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	userID, email, err := h.authSvc.ValidateAccessToken(c.Query("token"))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "invalid or expired token"})
	}

	c.Locals("user_id", userID)
	c.Locals("email", email)
	return c.Next()
}

func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("user_id").(string)
		email, _ := conn.Locals("email").(string)

		client := &service.WSClient{
			ID:     uuid.NewString(),
			Conn:   conn,
			UserID: userID,
			Email:  email,
			Send:   make(chan []byte, 64),
		}
		h.hub.Register(client)

		s := &wsSession{handler: h, client: client, userID: userID}
		s.setup()
		defer s.teardown()

		// Writer. The hub closes Send on unregister, which ends this
		// goroutine.
		go func() {
			for msg := range client.Send {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			}
		}()

		s.pushHistory()
		s.readLoop(conn)
	})
}

// wsSession is the per-connection state: the speech adapter and its voice
// pipeline live and die with the socket, while the text widget is the shared
// per-user one.
type wsSession struct {
	handler *WSHandler
	client  *service.WSClient
	userID  string

	adapter     *speech.Adapter
	voiceWidget *widget.VoiceWidget
}

func (s *wsSession) setup() {
	h := s.handler

	s.adapter = speech.NewAdapter(h.rec, h.synth, speech.Callbacks{
		OnResult: func(text string) {
			s.send("transcript", fiber.Map{"text": text})
			ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
			defer cancel()
			s.voiceWidget.HandleTranscript(ctx, text)
		},
		OnError: func(err error) {
			s.send("notice", model.WSNotice{Title: "Voice", Detail: err.Error()})
		},
		OnEnd: func() {
			s.send("listening", fiber.Map{"listening": false})
		},
		OnSpeechStart: func() {
			s.send("speech-start", nil)
		},
		OnSpeechAudio: func(audio []byte) {
			s.send("speech", fiber.Map{"audio": base64.StdEncoding.EncodeToString(audio)})
		},
		OnSpeechEnd: func() {
			s.send("speech-end", nil)
		},
	})

	notify := func(title, detail string) {
		s.send("notice", model.WSNotice{Title: title, Detail: detail})
	}
	voiceChat := widget.NewVoiceChatWidget(s.userID, h.store, h.assist, notify)
	s.voiceWidget = widget.NewVoiceWidget(voiceChat, s.adapter)
}

func (s *wsSession) teardown() {
	s.voiceWidget.Close()
	s.handler.hub.Unregister(s.client)
}

// pushHistory seeds the client with the stored conversation.
func (s *wsSession) pushHistory() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	w := s.handler.widgets.Get(s.userID)
	if err := w.LoadHistory(ctx); err != nil {
		return
	}
	history := w.History()
	if history == nil {
		history = []model.ChatMessage{}
	}
	s.send("history", fiber.Map{"messages": history})
}

func (s *wsSession) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var event model.WSEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			continue
		}

		switch event.Type {
		case "ping":
			s.send("pong", nil)

		case "chat":
			var payload struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(event.Data, &payload); err != nil {
				continue
			}
			go s.submitChat(payload.Message)

		case "listen-start":
			s.adapter.StartListening()
			if s.adapter.IsListening() {
				s.send("listening", fiber.Map{"listening": true})
			}

		case "audio":
			var payload struct {
				Data string `json:"data"`
			}
			if err := json.Unmarshal(event.Data, &payload); err != nil {
				continue
			}
			chunk, err := base64.StdEncoding.DecodeString(payload.Data)
			if err != nil {
				continue
			}
			s.adapter.Feed(chunk)

		case "listen-stop":
			// The recognizer client carries its own request timeout.
			s.adapter.StopListening(context.Background())

		case "speech-stop":
			s.adapter.StopSpeaking()

		default:
			log.Printf("WS: unknown event %q from %s", event.Type, s.client.Email)
		}
	}
}

// submitChat runs one text round trip through the shared widget and echoes
// both sides of the exchange back to this user's connections.
func (s *wsSession) submitChat(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()

	w := s.handler.widgets.Get(s.userID)
	_ = w.LoadHistory(ctx)

	reply, err := w.Submit(ctx, text)
	if err != nil {
		// Blank input and overlapping submissions are dropped; round-trip
		// failures were already notified through the widget's notifier.
		return
	}

	// Single-flight means the last two entries are exactly this exchange.
	history := w.History()
	if len(history) >= 2 {
		s.sendToUser("message", history[len(history)-2])
	}
	s.sendToUser("message", *reply)
}

func (s *wsSession) send(eventType string, payload interface{}) {
	var data json.RawMessage
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return
		}
	}
	s.handler.hub.SendToClient(s.client, &model.WSEvent{Type: eventType, Data: data})
}

// sendToUser fans an event out to every tab the user has open.
func (s *wsSession) sendToUser(eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	s.handler.hub.SendToUser(s.userID, &model.WSEvent{Type: eventType, Data: data})
}
