// Package speech bridges push-style speech engines to the callback interface
// the conversational widgets consume. Engines are pluggable; when one is not
// configured the adapter reports capability-absent through the error callback
// instead of failing construction.
package speech

import (
	"context"
	"errors"
	"log"
	"sync"
)

var (
	ErrNoRecognizer  = errors.New("speech recognition is not available")
	ErrNoSynthesizer = errors.New("speech synthesis is not available")
	ErrNoSpeech      = errors.New("no speech detected")
)

// Synthesis defaults: slightly slowed rate, neutral pitch.
const (
	DefaultRate  = 0.9
	DefaultPitch = 1.0
)

// Recognizer turns one finalized utterance of captured audio into text.
type Recognizer interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Synthesizer renders text to playable audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, rate, pitch float64) ([]byte, error)
}

// Callbacks receive the adapter's session events. Any callback may be nil.
type Callbacks struct {
	// OnResult fires exactly once per completed recognition session.
	OnResult func(text string)
	OnError  func(err error)
	// OnEnd fires when a recognition session terminates for any reason.
	OnEnd func()

	OnSpeechStart func()
	OnSpeechAudio func(audio []byte)
	OnSpeechEnd   func()
}

type Adapter struct {
	rec   Recognizer
	synth Synthesizer
	cb    Callbacks

	mu        sync.Mutex
	listening bool
	buffer    []byte

	speaking    bool
	speakGen    uint64
	speakCancel context.CancelFunc
}

func NewAdapter(rec Recognizer, synth Synthesizer, cb Callbacks) *Adapter {
	return &Adapter{rec: rec, synth: synth, cb: cb}
}

// StartListening opens a single-utterance recognition session. Calling it
// while a session is open is a caller violation and simply restarts the
// capture buffer.
func (a *Adapter) StartListening() {
	if a.rec == nil {
		a.emitError(ErrNoRecognizer)
		return
	}
	a.mu.Lock()
	a.listening = true
	a.buffer = a.buffer[:0]
	a.mu.Unlock()
}

// Feed appends captured audio to the open session. Ignored when not listening.
func (a *Adapter) Feed(chunk []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.listening {
		return
	}
	a.buffer = append(a.buffer, chunk...)
}

// StopListening finalizes the session: the buffered audio is transcribed and
// the result delivered through OnResult, or the failure through OnError. The
// listening flag is cleared unconditionally before OnEnd so the caller's view
// cannot desynchronize on engine failure.
func (a *Adapter) StopListening(ctx context.Context) {
	a.mu.Lock()
	if !a.listening {
		a.mu.Unlock()
		return
	}
	audio := make([]byte, len(a.buffer))
	copy(audio, a.buffer)
	a.mu.Unlock()

	go func() {
		var text string
		var err error
		if len(audio) == 0 {
			err = ErrNoSpeech
		} else {
			text, err = a.rec.Transcribe(ctx, audio)
		}

		a.mu.Lock()
		a.listening = false
		a.mu.Unlock()

		if err != nil {
			a.emitError(err)
		} else if a.cb.OnResult != nil {
			a.cb.OnResult(text)
		}
		if a.cb.OnEnd != nil {
			a.cb.OnEnd()
		}
	}()
}

// Abort discards the open session without producing a result.
func (a *Adapter) Abort() {
	a.mu.Lock()
	wasListening := a.listening
	a.listening = false
	a.buffer = a.buffer[:0]
	a.mu.Unlock()

	if wasListening && a.cb.OnEnd != nil {
		a.cb.OnEnd()
	}
}

// Speak synthesizes text at the fixed reduced rate. Speaking is exclusive: any
// in-progress utterance is canceled first and only the newest utterance may
// emit audio or end events.
func (a *Adapter) Speak(text string) {
	if a.synth == nil {
		a.emitError(ErrNoSynthesizer)
		return
	}

	a.mu.Lock()
	if a.speakCancel != nil {
		a.speakCancel()
	}
	a.speakGen++
	gen := a.speakGen
	ctx, cancel := context.WithCancel(context.Background())
	a.speakCancel = cancel
	a.speaking = true
	a.mu.Unlock()

	if a.cb.OnSpeechStart != nil {
		a.cb.OnSpeechStart()
	}

	go func() {
		audio, err := a.synth.Synthesize(ctx, text, DefaultRate, DefaultPitch)

		a.mu.Lock()
		if gen != a.speakGen {
			// Superseded by a newer utterance or an explicit stop.
			a.mu.Unlock()
			return
		}
		a.speaking = false
		a.speakCancel = nil
		a.mu.Unlock()

		if err != nil {
			if ctx.Err() == nil {
				log.Printf("[Speech] synthesis failed: %v", err)
			}
		} else if a.cb.OnSpeechAudio != nil {
			a.cb.OnSpeechAudio(audio)
		}
		if a.cb.OnSpeechEnd != nil {
			a.cb.OnSpeechEnd()
		}
	}()
}

// StopSpeaking cancels the current utterance and resets the speaking flag
// synchronously, even if the engine's completion is delayed or dropped.
func (a *Adapter) StopSpeaking() {
	a.mu.Lock()
	wasSpeaking := a.speaking
	if a.speakCancel != nil {
		a.speakCancel()
		a.speakCancel = nil
	}
	a.speakGen++
	a.speaking = false
	a.mu.Unlock()

	if wasSpeaking && a.cb.OnSpeechEnd != nil {
		a.cb.OnSpeechEnd()
	}
}

func (a *Adapter) IsListening() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.listening
}

func (a *Adapter) IsSpeaking() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.speaking
}

func (a *Adapter) emitError(err error) {
	if a.cb.OnError != nil {
		a.cb.OnError(err)
	}
}
