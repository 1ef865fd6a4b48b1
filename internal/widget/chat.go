// Package widget holds the conversational session state machines. A widget is
// an explicit state value owned by whatever hosts it (a websocket connection,
// the chat handler's per-user registry); there are no process-wide singletons.
package widget

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"curalink-backend/internal/model"
)

var (
	ErrEmptyMessage = errors.New("empty message")
	ErrBusy         = errors.New("a submission is already in flight")
	ErrClosed       = errors.New("widget is closed")
)

const historyLimit = 50

// MessageStore persists conversation history. May be nil for an
// unauthenticated or non-persisting widget.
type MessageStore interface {
	Insert(ctx context.Context, userID, role, content string) error
	ListRecent(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error)
}

// Assistant is the remote chat-response function.
type Assistant interface {
	Reply(ctx context.Context, message string, useVoice bool) (string, error)
}

// Notifier surfaces a transient, dismissable notification to the user.
type Notifier func(title, detail string)

// ChatWidget owns one ordered message history and turns one piece of user
// text into one remote round trip and one assistant reply. At most one
// submission is in flight per widget instance.
type ChatWidget struct {
	userID    string
	store     MessageStore
	assistant Assistant
	notify    Notifier
	useVoice  bool

	mu      sync.Mutex
	history []model.ChatMessage
	busy    bool
	loaded  bool
	closed  bool
	gen     uint64
}

func NewChatWidget(userID string, store MessageStore, assistant Assistant, notify Notifier) *ChatWidget {
	return &ChatWidget{userID: userID, store: store, assistant: assistant, notify: notify}
}

// NewVoiceChatWidget builds the voice front-end's pipeline: same contract,
// useVoice flagged on the remote call.
func NewVoiceChatWidget(userID string, store MessageStore, assistant Assistant, notify Notifier) *ChatWidget {
	w := NewChatWidget(userID, store, assistant, notify)
	w.useVoice = true
	return w
}

// LoadHistory seeds the in-memory history with the most recent stored
// messages in ascending chronological order. Without a resolvable identity
// the history stays empty, without error. A no-op once any message exists, so
// a late load cannot clobber an optimistic append.
func (w *ChatWidget) LoadHistory(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if w.loaded || len(w.history) > 0 {
		w.mu.Unlock()
		return nil
	}
	if w.store == nil || w.userID == "" {
		w.loaded = true
		w.mu.Unlock()
		return nil
	}
	gen := w.gen
	w.mu.Unlock()

	msgs, err := w.store.ListRecent(ctx, w.userID, historyLimit)
	if err != nil {
		log.Printf("[Widget] load history failed: %v", err)
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || gen != w.gen || w.loaded || len(w.history) > 0 {
		return nil
	}
	w.history = msgs
	w.loaded = true
	return nil
}

// Submit runs the message lifecycle: optimistic append of the user message,
// best-effort persistence, the remote round trip, then append + best-effort
// persistence of the reply. On a failed round trip the user is notified once
// and the history is left exactly as after the optimistic append.
//
// Blank input and submit-while-busy are rejected as no-ops via sentinel
// errors the callers silently ignore.
func (w *ChatWidget) Submit(ctx context.Context, text string) (*model.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrClosed
	}
	if w.busy {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	w.busy = true
	gen := w.gen
	w.history = append(w.history, model.ChatMessage{
		UserID:    w.userID,
		Role:      model.RoleUser,
		Content:   text,
		CreatedAt: time.Now(),
	})
	w.mu.Unlock()

	w.persist(ctx, model.RoleUser, text)

	reply, err := w.assistant.Reply(ctx, text, w.useVoice)

	w.mu.Lock()
	w.busy = false
	if w.closed || gen != w.gen {
		// The widget was torn down while the call was in flight; the late
		// result must not be applied to state nobody can see.
		w.mu.Unlock()
		return nil, ErrClosed
	}
	if err != nil {
		w.mu.Unlock()
		log.Printf("[Widget] assistant call failed: %v", err)
		if w.notify != nil {
			w.notify("Error", "Failed to send message. Please try again.")
		}
		return nil, err
	}
	msg := model.ChatMessage{
		UserID:    w.userID,
		Role:      model.RoleAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
	}
	w.history = append(w.history, msg)
	w.mu.Unlock()

	w.persist(ctx, model.RoleAssistant, reply)
	return &msg, nil
}

// History returns a copy of the ordered message history.
func (w *ChatWidget) History() []model.ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]model.ChatMessage, len(w.history))
	copy(out, w.history)
	return out
}

func (w *ChatWidget) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// Close tears the widget down. In-flight results resolving afterwards are
// dropped.
func (w *ChatWidget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.gen++
}

// persist mirrors one message to the store. Best-effort: failures are logged,
// never surfaced, and never block the message lifecycle.
func (w *ChatWidget) persist(ctx context.Context, role, content string) {
	if w.store == nil || w.userID == "" {
		return
	}
	if err := w.store.Insert(ctx, w.userID, role, content); err != nil {
		log.Printf("[Widget] persist %s message failed: %v", role, err)
	}
}
