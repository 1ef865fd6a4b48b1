package voice

import (
	"context"
	"log"
	"sync"
)

type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateActive     State = "active"
)

// Dialer is the control-plane seam; *Client satisfies it.
type Dialer interface {
	StartCall(ctx context.Context, assistantID string) (string, error)
	StopCall(ctx context.Context, callID string) error
}

// CallSession tracks one user's call lifecycle:
// idle -> connecting -> active -> idle, or idle -> connecting -> idle on a
// failed connect. No automatic retry.
type CallSession struct {
	dialer      Dialer
	assistantID string

	mu     sync.Mutex
	state  State
	callID string

	OnCallStart func(callID string)
	OnCallEnd   func(callID string)
}

func NewCallSession(dialer Dialer, assistantID string) *CallSession {
	return &CallSession{
		dialer:      dialer,
		assistantID: assistantID,
		state:       StateIdle,
	}
}

func (s *CallSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *CallSession) CallID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callID
}

// StartCall opens a call. A no-op when a call is already connecting or active.
func (s *CallSession) StartCall(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil
	}
	s.state = StateConnecting
	s.mu.Unlock()

	callID, err := s.dialer.StartCall(ctx, s.assistantID)

	s.mu.Lock()
	if err != nil {
		s.state = StateIdle
		s.mu.Unlock()
		log.Printf("[Voice] start call failed: %v", err)
		return err
	}
	s.state = StateActive
	s.callID = callID
	s.mu.Unlock()

	if s.OnCallStart != nil {
		s.OnCallStart(callID)
	}
	return nil
}

// EndCall hangs up. A no-op when idle: no disconnect is issued.
func (s *CallSession) EndCall(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateIdle {
		s.mu.Unlock()
		return nil
	}
	callID := s.callID
	s.state = StateIdle
	s.callID = ""
	s.mu.Unlock()

	if callID != "" {
		if err := s.dialer.StopCall(ctx, callID); err != nil {
			log.Printf("[Voice] stop call %s failed: %v", callID, err)
			return err
		}
	}
	if s.OnCallEnd != nil {
		s.OnCallEnd(callID)
	}
	return nil
}

// Close releases the underlying call regardless of state, so a torn-down
// session can never leave a dangling live connection.
func (s *CallSession) Close(ctx context.Context) {
	s.mu.Lock()
	callID := s.callID
	s.state = StateIdle
	s.callID = ""
	s.mu.Unlock()

	if callID != "" {
		if err := s.dialer.StopCall(ctx, callID); err != nil {
			log.Printf("[Voice] release call %s failed: %v", callID, err)
		}
	}
}

// HandleProviderEvent applies a call-start/call-end webhook from the provider.
func (s *CallSession) HandleProviderEvent(event, callID string) {
	switch event {
	case "call-start":
		s.mu.Lock()
		already := s.state == StateActive && s.callID == callID
		s.state = StateActive
		s.callID = callID
		s.mu.Unlock()
		if !already && s.OnCallStart != nil {
			s.OnCallStart(callID)
		}
	case "call-end":
		s.mu.Lock()
		s.state = StateIdle
		s.callID = ""
		s.mu.Unlock()
		if s.OnCallEnd != nil {
			s.OnCallEnd(callID)
		}
	default:
		log.Printf("[Voice] unknown provider event %q for call %s", event, callID)
	}
}
