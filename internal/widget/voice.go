package widget

import (
	"context"
	"sync"

	"curalink-backend/internal/speech"
)

// VoiceWidget is the voice front-end over the shared chat pipeline: a
// finalized transcript is auto-submitted, and the assistant reply is
// auto-spoken through the speech adapter.
type VoiceWidget struct {
	chat    *ChatWidget
	adapter *speech.Adapter

	mu         sync.Mutex
	transcript string
}

func NewVoiceWidget(chat *ChatWidget, adapter *speech.Adapter) *VoiceWidget {
	return &VoiceWidget{chat: chat, adapter: adapter}
}

// HandleTranscript submits one recognized utterance and speaks the reply.
// Blank transcripts and submissions raced against an in-flight one are
// dropped silently; round-trip failures have already been notified by the
// chat pipeline.
func (v *VoiceWidget) HandleTranscript(ctx context.Context, text string) {
	v.mu.Lock()
	v.transcript = text // ephemeral, overwritten each session
	v.mu.Unlock()

	reply, err := v.chat.Submit(ctx, text)
	if err != nil {
		// Blank input and overlapping submissions are no-ops; round-trip
		// failures were already notified by the chat pipeline.
		return
	}
	v.adapter.Speak(reply.Content)
}

// Transcript returns the last recognized utterance.
func (v *VoiceWidget) Transcript() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.transcript
}

// Close releases the pipeline and silences any in-progress utterance.
func (v *VoiceWidget) Close() {
	v.chat.Close()
	v.adapter.StopSpeaking()
	v.adapter.Abort()
}
