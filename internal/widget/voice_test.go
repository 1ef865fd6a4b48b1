package widget

import (
	"context"
	"errors"
	"testing"
	"time"

	"curalink-backend/internal/speech"
)

type fakeSynth struct{}

func (fakeSynth) Synthesize(ctx context.Context, text string, rate, pitch float64) ([]byte, error) {
	return []byte(text), nil
}

func TestHandleTranscriptSpeaksReply(t *testing.T) {
	spoken := make(chan string, 1)
	adapter := speech.NewAdapter(nil, fakeSynth{}, speech.Callbacks{
		OnSpeechAudio: func(audio []byte) { spoken <- string(audio) },
	})

	assist := &fakeAssistant{reply: "There are two trials near you."}
	chat := NewVoiceChatWidget("u1", nil, assist, nil)
	v := NewVoiceWidget(chat, adapter)

	v.HandleTranscript(context.Background(), "find trials near me")

	select {
	case audio := <-spoken:
		if audio != "There are two trials near you." {
			t.Errorf("spoke %q, want the assistant reply", audio)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reply was never spoken")
	}

	if v.Transcript() != "find trials near me" {
		t.Errorf("transcript = %q, want the recognized utterance", v.Transcript())
	}
	if len(chat.History()) != 2 {
		t.Errorf("history length = %d, want 2", len(chat.History()))
	}
}

func TestHandleTranscriptBlankIsDropped(t *testing.T) {
	adapter := speech.NewAdapter(nil, fakeSynth{}, speech.Callbacks{
		OnSpeechAudio: func([]byte) { t.Error("nothing should be spoken for blank input") },
	})
	assist := &fakeAssistant{reply: "never"}
	v := NewVoiceWidget(NewVoiceChatWidget("u1", nil, assist, nil), adapter)

	v.HandleTranscript(context.Background(), "   ")

	if assist.callCount() != 0 {
		t.Errorf("assistant called %d times for blank transcript, want 0", assist.callCount())
	}
}

func TestHandleTranscriptFailureStaysSilent(t *testing.T) {
	adapter := speech.NewAdapter(nil, fakeSynth{}, speech.Callbacks{
		OnSpeechAudio: func([]byte) { t.Error("nothing should be spoken after a failed round trip") },
	})
	assist := &fakeAssistant{err: errors.New("upstream down")}
	notices := &noticeRecorder{}
	chat := NewVoiceChatWidget("u1", nil, assist, notices.notify)
	v := NewVoiceWidget(chat, adapter)

	v.HandleTranscript(context.Background(), "hello")

	if notices.count() != 1 {
		t.Errorf("got %d notices, want 1 from the chat pipeline", notices.count())
	}
	if len(chat.History()) != 1 {
		t.Errorf("history length = %d, want the user message only", len(chat.History()))
	}
}

func TestVoiceWidgetClose(t *testing.T) {
	adapter := speech.NewAdapter(nil, fakeSynth{}, speech.Callbacks{})
	chat := NewVoiceChatWidget("u1", nil, &fakeAssistant{reply: "ok"}, nil)
	v := NewVoiceWidget(chat, adapter)

	v.Close()

	if _, err := chat.Submit(context.Background(), "hi"); !errors.Is(err, ErrClosed) {
		t.Errorf("Submit after Close = %v, want ErrClosed", err)
	}
	if adapter.IsSpeaking() || adapter.IsListening() {
		t.Error("Close must silence the adapter")
	}
}
