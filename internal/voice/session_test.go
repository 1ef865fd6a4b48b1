package voice

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type fakeDialer struct {
	mu       sync.Mutex
	starts   int
	stops    []string
	callID   string
	startErr error
	stopErr  error
}

func (d *fakeDialer) StartCall(ctx context.Context, assistantID string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.starts = d.starts + 1
	if d.startErr != nil {
		return "", d.startErr
	}
	return d.callID, nil
}

func (d *fakeDialer) StopCall(ctx context.Context, callID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stops = append(d.stops, callID)
	return d.stopErr
}

func TestStartCallTransitionsToActive(t *testing.T) {
	dialer := &fakeDialer{callID: "call-1"}
	s := NewCallSession(dialer, "asst-1")

	var started []string
	s.OnCallStart = func(callID string) { started = append(started, callID) }

	if err := s.StartCall(context.Background()); err != nil {
		t.Fatalf("StartCall: %v", err)
	}
	if s.State() != StateActive {
		t.Errorf("state = %q, want active", s.State())
	}
	if s.CallID() != "call-1" {
		t.Errorf("call id = %q, want call-1", s.CallID())
	}
	if len(started) != 1 || started[0] != "call-1" {
		t.Errorf("start callbacks = %v, want one for call-1", started)
	}
}

func TestStartCallWhileActiveIsNoOp(t *testing.T) {
	dialer := &fakeDialer{callID: "call-1"}
	s := NewCallSession(dialer, "asst-1")

	if err := s.StartCall(context.Background()); err != nil {
		t.Fatalf("StartCall: %v", err)
	}
	if err := s.StartCall(context.Background()); err != nil {
		t.Fatalf("second StartCall: %v", err)
	}
	if dialer.starts != 1 {
		t.Errorf("dialed %d times, want 1", dialer.starts)
	}
}

func TestStartCallFailureReturnsToIdle(t *testing.T) {
	dialer := &fakeDialer{startErr: errors.New("provider down")}
	s := NewCallSession(dialer, "asst-1")

	s.OnCallStart = func(string) { t.Error("no start callback on failure") }

	if err := s.StartCall(context.Background()); err == nil {
		t.Fatal("StartCall should surface the provider failure")
	}
	if s.State() != StateIdle {
		t.Errorf("state = %q, want idle after a failed connect", s.State())
	}

	// No automatic retry: the next attempt is a fresh explicit StartCall.
	dialer.startErr = nil
	dialer.callID = "call-2"
	s.OnCallStart = nil
	if err := s.StartCall(context.Background()); err != nil {
		t.Fatalf("retry StartCall: %v", err)
	}
	if s.State() != StateActive {
		t.Errorf("state = %q, want active after retry", s.State())
	}
}

func TestEndCallWhenIdleIssuesNoDisconnect(t *testing.T) {
	dialer := &fakeDialer{}
	s := NewCallSession(dialer, "asst-1")

	s.OnCallEnd = func(string) { t.Error("no end callback when idle") }

	if err := s.EndCall(context.Background()); err != nil {
		t.Fatalf("EndCall: %v", err)
	}
	if len(dialer.stops) != 0 {
		t.Errorf("stop calls = %v, want none", dialer.stops)
	}
}

func TestEndCallDisconnects(t *testing.T) {
	dialer := &fakeDialer{callID: "call-1"}
	s := NewCallSession(dialer, "asst-1")

	var ended []string
	s.OnCallEnd = func(callID string) { ended = append(ended, callID) }

	if err := s.StartCall(context.Background()); err != nil {
		t.Fatalf("StartCall: %v", err)
	}
	if err := s.EndCall(context.Background()); err != nil {
		t.Fatalf("EndCall: %v", err)
	}

	if s.State() != StateIdle {
		t.Errorf("state = %q, want idle", s.State())
	}
	if len(dialer.stops) != 1 || dialer.stops[0] != "call-1" {
		t.Errorf("stop calls = %v, want [call-1]", dialer.stops)
	}
	if len(ended) != 1 {
		t.Errorf("end callbacks = %v, want one", ended)
	}
}

func TestProviderEventsDriveState(t *testing.T) {
	s := NewCallSession(&fakeDialer{}, "asst-1")

	var starts, ends int
	s.OnCallStart = func(string) { starts = starts + 1 }
	s.OnCallEnd = func(string) { ends = ends + 1 }

	s.HandleProviderEvent("call-start", "call-9")
	if s.State() != StateActive || s.CallID() != "call-9" {
		t.Errorf("state = %q id = %q, want active call-9", s.State(), s.CallID())
	}

	// The provider may redeliver; a duplicate start must not re-notify.
	s.HandleProviderEvent("call-start", "call-9")
	if starts != 1 {
		t.Errorf("start callbacks = %d, want 1", starts)
	}

	s.HandleProviderEvent("call-end", "call-9")
	if s.State() != StateIdle {
		t.Errorf("state = %q, want idle", s.State())
	}
	if ends != 1 {
		t.Errorf("end callbacks = %d, want 1", ends)
	}
}

func TestCloseReleasesLiveCall(t *testing.T) {
	dialer := &fakeDialer{callID: "call-1"}
	s := NewCallSession(dialer, "asst-1")

	if err := s.StartCall(context.Background()); err != nil {
		t.Fatalf("StartCall: %v", err)
	}
	s.Close(context.Background())

	if s.State() != StateIdle {
		t.Errorf("state = %q, want idle", s.State())
	}
	if len(dialer.stops) != 1 {
		t.Errorf("stop calls = %v, want the live call released", dialer.stops)
	}
}

func TestSessionRegistrySharesPerUser(t *testing.T) {
	reg := NewSessionRegistry(func(userID string) *CallSession {
		return NewCallSession(&fakeDialer{callID: "c"}, "asst-1")
	})

	a := reg.Get("u1")
	if reg.Get("u1") != a {
		t.Error("same user must get the same session")
	}
	if reg.Get("u2") == a {
		t.Error("different users must not share a session")
	}
}
