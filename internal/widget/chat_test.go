package widget

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"curalink-backend/internal/model"
)

type fakeStore struct {
	mu        sync.Mutex
	inserted  []model.ChatMessage
	recent    []model.ChatMessage
	listCalls int
	insertErr error
	listErr   error
}

func (f *fakeStore) Insert(ctx context.Context, userID, role, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, model.ChatMessage{UserID: userID, Role: role, Content: content})
	return nil
}

func (f *fakeStore) ListRecent(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = f.listCalls + 1
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.ChatMessage, len(f.recent))
	copy(out, f.recent)
	return out, nil
}

type fakeAssistant struct {
	mu    sync.Mutex
	calls int
	reply string
	err   error
	gate  chan struct{} // when set, Reply blocks until the channel closes
}

func (f *fakeAssistant) Reply(ctx context.Context, message string, useVoice bool) (string, error) {
	f.mu.Lock()
	f.calls = f.calls + 1
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return f.reply, f.err
}

func (f *fakeAssistant) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type noticeRecorder struct {
	mu      sync.Mutex
	notices []string
}

func (n *noticeRecorder) notify(title, detail string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, title+": "+detail)
}

func (n *noticeRecorder) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notices)
}

func TestSubmitAppendsExchange(t *testing.T) {
	store := &fakeStore{}
	assist := &fakeAssistant{reply: "Here are some trials."}
	notices := &noticeRecorder{}
	w := NewChatWidget("u1", store, assist, notices.notify)

	reply, err := w.Submit(context.Background(), "find me a trial")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if reply == nil || reply.Content != "Here are some trials." {
		t.Fatalf("unexpected reply: %+v", reply)
	}

	history := w.History()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Role != model.RoleUser || history[0].Content != "find me a trial" {
		t.Errorf("first entry = %+v, want user message", history[0])
	}
	if history[1].Role != model.RoleAssistant || history[1].Content != "Here are some trials." {
		t.Errorf("second entry = %+v, want assistant reply", history[1])
	}
	if len(store.inserted) != 2 {
		t.Errorf("persisted %d messages, want 2", len(store.inserted))
	}
	if notices.count() != 0 {
		t.Errorf("got %d notices, want 0", notices.count())
	}
}

func TestSubmitFailureKeepsUserMessage(t *testing.T) {
	store := &fakeStore{}
	assist := &fakeAssistant{err: errors.New("upstream down")}
	notices := &noticeRecorder{}
	w := NewChatWidget("u1", store, assist, notices.notify)

	if _, err := w.Submit(context.Background(), "hello"); err == nil {
		t.Fatal("Submit should surface the round-trip failure")
	}

	history := w.History()
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1 (user message only)", len(history))
	}
	if history[0].Role != model.RoleUser {
		t.Errorf("surviving entry role = %q, want user", history[0].Role)
	}
	if notices.count() != 1 {
		t.Errorf("got %d notices, want exactly 1", notices.count())
	}
	if w.Busy() {
		t.Error("widget must not stay busy after a failed round trip")
	}
}

func TestSubmitBlankIsNoOp(t *testing.T) {
	assist := &fakeAssistant{reply: "never"}
	w := NewChatWidget("u1", &fakeStore{}, assist, nil)

	for _, input := range []string{"", "   ", "\n\t "} {
		if _, err := w.Submit(context.Background(), input); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Submit(%q) = %v, want ErrEmptyMessage", input, err)
		}
	}
	if assist.callCount() != 0 {
		t.Errorf("assistant called %d times for blank input, want 0", assist.callCount())
	}
	if len(w.History()) != 0 {
		t.Errorf("history length = %d, want 0", len(w.History()))
	}
}

func TestSubmitWhileBusyIsRejected(t *testing.T) {
	gate := make(chan struct{})
	assist := &fakeAssistant{reply: "ok", gate: gate}
	w := NewChatWidget("u1", &fakeStore{}, assist, nil)

	done := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background(), "first")
		done <- err
	}()

	waitFor(t, w.Busy)

	if _, err := w.Submit(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Submit = %v, want ErrBusy", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if assist.callCount() != 1 {
		t.Errorf("assistant called %d times, want 1", assist.callCount())
	}
}

func TestLoadHistoryOrdering(t *testing.T) {
	base := time.Now().Add(-time.Hour)
	store := &fakeStore{recent: []model.ChatMessage{
		{Role: model.RoleUser, Content: "a", CreatedAt: base},
		{Role: model.RoleAssistant, Content: "b", CreatedAt: base.Add(time.Minute)},
		{Role: model.RoleUser, Content: "c", CreatedAt: base.Add(2 * time.Minute)},
	}}
	w := NewChatWidget("u1", store, &fakeAssistant{}, nil)

	if err := w.LoadHistory(context.Background()); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}

	history := w.History()
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].CreatedAt.Before(history[i-1].CreatedAt) {
			t.Errorf("history out of order at %d: %v before %v", i, history[i].CreatedAt, history[i-1].CreatedAt)
		}
	}
}

func TestLoadHistoryWithoutIdentity(t *testing.T) {
	store := &fakeStore{recent: []model.ChatMessage{{Role: model.RoleUser, Content: "x"}}}
	w := NewChatWidget("", store, &fakeAssistant{}, nil)

	if err := w.LoadHistory(context.Background()); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(w.History()) != 0 {
		t.Errorf("history length = %d, want 0 without an identity", len(w.History()))
	}
	if store.listCalls != 0 {
		t.Errorf("store queried %d times, want 0", store.listCalls)
	}
}

func TestLoadHistoryCannotClobberAppendedMessages(t *testing.T) {
	store := &fakeStore{recent: []model.ChatMessage{{Role: model.RoleUser, Content: "stale"}}}
	assist := &fakeAssistant{reply: "fresh reply"}
	w := NewChatWidget("u1", store, assist, nil)

	if _, err := w.Submit(context.Background(), "fresh"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := w.LoadHistory(context.Background()); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}

	history := w.History()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2 (late load must be a no-op)", len(history))
	}
	if history[0].Content != "fresh" {
		t.Errorf("first entry = %q, want the optimistic append", history[0].Content)
	}
}

func TestSubmitAfterSeededHistory(t *testing.T) {
	base := time.Now().Add(-time.Hour)
	store := &fakeStore{recent: []model.ChatMessage{
		{Role: model.RoleUser, Content: "old question", CreatedAt: base},
		{Role: model.RoleAssistant, Content: "old answer", CreatedAt: base.Add(time.Minute)},
	}}
	assist := &fakeAssistant{reply: "new answer"}
	w := NewChatWidget("u1", store, assist, nil)

	if err := w.LoadHistory(context.Background()); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if _, err := w.Submit(context.Background(), "new question"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	history := w.History()
	want := []string{"old question", "old answer", "new question", "new answer"}
	if len(history) != len(want) {
		t.Fatalf("history length = %d, want %d", len(history), len(want))
	}
	for i, content := range want {
		if history[i].Content != content {
			t.Errorf("history[%d] = %q, want %q", i, history[i].Content, content)
		}
	}
}

func TestCloseDropsLateResult(t *testing.T) {
	gate := make(chan struct{})
	assist := &fakeAssistant{reply: "late", gate: gate}
	notices := &noticeRecorder{}
	w := NewChatWidget("u1", &fakeStore{}, assist, notices.notify)

	done := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background(), "hello")
		done <- err
	}()

	waitFor(t, w.Busy)
	w.Close()
	close(gate)

	if err := <-done; !errors.Is(err, ErrClosed) {
		t.Fatalf("Submit after Close = %v, want ErrClosed", err)
	}
	for _, m := range w.History() {
		if m.Role == model.RoleAssistant {
			t.Error("late assistant reply leaked into a closed widget")
		}
	}
	if notices.count() != 0 {
		t.Errorf("got %d notices on a closed widget, want 0", notices.count())
	}
}

func TestPersistenceFailureDoesNotBreakLifecycle(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("db down")}
	assist := &fakeAssistant{reply: "still works"}
	w := NewChatWidget("u1", store, assist, nil)

	reply, err := w.Submit(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Submit must survive a persistence failure: %v", err)
	}
	if reply.Content != "still works" {
		t.Errorf("reply = %q, want %q", reply.Content, "still works")
	}
	if len(w.History()) != 2 {
		t.Errorf("history length = %d, want 2", len(w.History()))
	}
}

func TestRegistrySharesWidgetPerUser(t *testing.T) {
	reg := NewRegistry(func(userID string) *ChatWidget {
		return NewChatWidget(userID, nil, &fakeAssistant{reply: "ok"}, nil)
	})

	a := reg.Get("u1")
	if reg.Get("u1") != a {
		t.Error("same user must get the same widget")
	}
	if reg.Get("u2") == a {
		t.Error("different users must not share a widget")
	}

	reg.Drop("u1")
	if reg.Get("u1") == a {
		t.Error("Drop must forget the widget")
	}
	if _, err := a.Submit(context.Background(), "hi"); !errors.Is(err, ErrClosed) {
		t.Errorf("dropped widget Submit = %v, want ErrClosed", err)
	}
}

// waitFor polls cond until it holds or two seconds pass.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
