package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type scriptedRecognizer struct {
	text string
	err  error
}

func (r scriptedRecognizer) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return r.text, r.err
}

type scriptedSynth struct {
	err error
	// waitCancel makes Synthesize block until the utterance is canceled.
	waitCancel bool
}

func (s scriptedSynth) Synthesize(ctx context.Context, text string, rate, pitch float64) ([]byte, error) {
	if s.waitCancel {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return []byte(text), nil
}

type eventLog struct {
	mu       sync.Mutex
	results  []string
	errs     []error
	ends     int
	speech   []string
	speakEnd int
}

func (l *eventLog) callbacks(endCh chan<- struct{}, speechEndCh chan<- struct{}) Callbacks {
	return Callbacks{
		OnResult: func(text string) {
			l.mu.Lock()
			l.results = append(l.results, text)
			l.mu.Unlock()
		},
		OnError: func(err error) {
			l.mu.Lock()
			l.errs = append(l.errs, err)
			l.mu.Unlock()
		},
		OnEnd: func() {
			l.mu.Lock()
			l.ends = l.ends + 1
			l.mu.Unlock()
			if endCh != nil {
				endCh <- struct{}{}
			}
		},
		OnSpeechAudio: func(audio []byte) {
			l.mu.Lock()
			l.speech = append(l.speech, string(audio))
			l.mu.Unlock()
		},
		OnSpeechEnd: func() {
			l.mu.Lock()
			l.speakEnd = l.speakEnd + 1
			l.mu.Unlock()
			if speechEndCh != nil {
				speechEndCh <- struct{}{}
			}
		},
	}
}

func TestRecognitionDeliversResult(t *testing.T) {
	log := &eventLog{}
	ended := make(chan struct{}, 1)
	a := NewAdapter(scriptedRecognizer{text: "hello world"}, nil, log.callbacks(ended, nil))

	a.StartListening()
	if !a.IsListening() {
		t.Fatal("adapter should be listening")
	}
	a.Feed([]byte{1, 2, 3})
	a.StopListening(context.Background())

	<-ended
	if a.IsListening() {
		t.Error("listening flag must be cleared after the session ends")
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.results) != 1 || log.results[0] != "hello world" {
		t.Errorf("results = %v, want one %q", log.results, "hello world")
	}
	if len(log.errs) != 0 {
		t.Errorf("errors = %v, want none", log.errs)
	}
}

func TestListeningClearedOnEngineFailure(t *testing.T) {
	log := &eventLog{}
	ended := make(chan struct{}, 1)
	a := NewAdapter(scriptedRecognizer{err: errors.New("engine crashed")}, nil, log.callbacks(ended, nil))

	a.StartListening()
	a.Feed([]byte{1})
	a.StopListening(context.Background())

	<-ended
	if a.IsListening() {
		t.Error("listening flag must be cleared even when the engine fails")
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.errs) != 1 {
		t.Fatalf("errors = %v, want exactly one", log.errs)
	}
	if len(log.results) != 0 {
		t.Errorf("results = %v, want none on failure", log.results)
	}
}

func TestStopListeningWithoutAudio(t *testing.T) {
	log := &eventLog{}
	ended := make(chan struct{}, 1)
	a := NewAdapter(scriptedRecognizer{text: "never"}, nil, log.callbacks(ended, nil))

	a.StartListening()
	a.StopListening(context.Background())

	<-ended
	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.errs) != 1 || !errors.Is(log.errs[0], ErrNoSpeech) {
		t.Errorf("errors = %v, want ErrNoSpeech", log.errs)
	}
}

func TestStartListeningWithoutRecognizer(t *testing.T) {
	log := &eventLog{}
	a := NewAdapter(nil, nil, log.callbacks(nil, nil))

	a.StartListening()

	if a.IsListening() {
		t.Error("adapter must not enter listening without an engine")
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.errs) != 1 || !errors.Is(log.errs[0], ErrNoRecognizer) {
		t.Errorf("errors = %v, want ErrNoRecognizer", log.errs)
	}
}

func TestAbortDiscardsSession(t *testing.T) {
	log := &eventLog{}
	ended := make(chan struct{}, 1)
	a := NewAdapter(scriptedRecognizer{text: "never"}, nil, log.callbacks(ended, nil))

	a.StartListening()
	a.Feed([]byte{1, 2})
	a.Abort()

	<-ended
	if a.IsListening() {
		t.Error("abort must clear the listening flag")
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.results) != 0 {
		t.Errorf("results = %v, want none after abort", log.results)
	}
}

func TestFeedIgnoredWhenNotListening(t *testing.T) {
	log := &eventLog{}
	ended := make(chan struct{}, 1)
	a := NewAdapter(scriptedRecognizer{text: "x"}, nil, log.callbacks(ended, nil))

	a.Feed([]byte{9, 9, 9})
	a.StartListening()
	a.StopListening(context.Background())

	<-ended
	log.mu.Lock()
	defer log.mu.Unlock()
	// The pre-session chunk was dropped, so the buffer was empty.
	if len(log.errs) != 1 || !errors.Is(log.errs[0], ErrNoSpeech) {
		t.Errorf("errors = %v, want ErrNoSpeech from an empty buffer", log.errs)
	}
}

func TestSpeakSupersedesPreviousUtterance(t *testing.T) {
	log := &eventLog{}
	speechEnd := make(chan struct{}, 2)
	a := NewAdapter(nil, &switchingSynth{}, log.callbacks(nil, speechEnd))

	// Two rapid utterances: only the second may emit audio.
	a.Speak("first")
	a.Speak("second")

	<-speechEnd
	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.speech) != 1 || log.speech[0] != "second" {
		t.Errorf("speech = %v, want only the second utterance", log.speech)
	}
	if log.speakEnd != 1 {
		t.Errorf("speech end fired %d times, want 1", log.speakEnd)
	}
}

// switchingSynth blocks the utterance named "first" until it is canceled and
// renders everything else immediately.
type switchingSynth struct{}

func (s *switchingSynth) Synthesize(ctx context.Context, text string, rate, pitch float64) ([]byte, error) {
	if text == "first" {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return []byte(text), nil
}

func TestStopSpeakingIsSynchronous(t *testing.T) {
	log := &eventLog{}
	speechEnd := make(chan struct{}, 1)
	a := NewAdapter(nil, scriptedSynth{waitCancel: true}, log.callbacks(nil, speechEnd))

	a.Speak("long announcement")
	if !a.IsSpeaking() {
		t.Fatal("speaking flag must be set synchronously by Speak")
	}

	a.StopSpeaking()
	if a.IsSpeaking() {
		t.Fatal("speaking flag must be cleared synchronously by StopSpeaking")
	}

	<-speechEnd
	// Give the canceled synthesis goroutine a moment to (incorrectly) emit.
	time.Sleep(20 * time.Millisecond)

	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.speech) != 0 {
		t.Errorf("speech = %v, want none from a canceled utterance", log.speech)
	}
	if log.speakEnd != 1 {
		t.Errorf("speech end fired %d times, want exactly 1", log.speakEnd)
	}
}

func TestStopSpeakingWhenIdleIsNoOp(t *testing.T) {
	log := &eventLog{}
	a := NewAdapter(nil, scriptedSynth{}, log.callbacks(nil, nil))

	a.StopSpeaking()

	log.mu.Lock()
	defer log.mu.Unlock()
	if log.speakEnd != 0 {
		t.Errorf("speech end fired %d times for an idle stop, want 0", log.speakEnd)
	}
}

func TestSpeakWithoutSynthesizer(t *testing.T) {
	log := &eventLog{}
	a := NewAdapter(nil, nil, log.callbacks(nil, nil))

	a.Speak("hello")

	if a.IsSpeaking() {
		t.Error("adapter must not enter speaking without an engine")
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.errs) != 1 || !errors.Is(log.errs[0], ErrNoSynthesizer) {
		t.Errorf("errors = %v, want ErrNoSynthesizer", log.errs)
	}
}
