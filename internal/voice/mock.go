package voice

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/samarth777/digital-ease-voice-bridge/internal/audio"
)

const (
	mockTranscript   = "Open calculator application"
	mockSynthesisSec = 0.25
)

// MockProvider stands in for the speech services until the real integrations
// land. Transcribe and Synthesize ignore the audio/text content and wait a
// configurable delay, yielding to other requests while they do.
type MockProvider struct {
	ProcessingDelay time.Duration
	DefaultLanguage string
}

func NewMockProvider(processingDelay time.Duration, defaultLanguage string) *MockProvider {
	if strings.TrimSpace(defaultLanguage) == "" {
		defaultLanguage = "en-IN"
	}
	return &MockProvider{ProcessingDelay: processingDelay, DefaultLanguage: defaultLanguage}
}

func (p *MockProvider) Transcribe(ctx context.Context, _ string, languageCode string) (Transcript, error) {
	if err := wait(ctx, p.ProcessingDelay); err != nil {
		return Transcript{}, err
	}
	if strings.TrimSpace(languageCode) == "" {
		languageCode = p.DefaultLanguage
	}
	return Transcript{
		Text:         mockTranscript,
		LanguageCode: languageCode,
		Confidence:   0.92,
	}, nil
}

func (p *MockProvider) Synthesize(ctx context.Context, _ string, _ string) ([]byte, string, error) {
	if err := wait(ctx, p.ProcessingDelay/2); err != nil {
		return nil, "", err
	}
	pcm := audio.Silence(time.Duration(mockSynthesisSec*float64(time.Second)), 16000)
	wav, err := audio.EncodeWAVPCM16LE(pcm, 16000)
	if err != nil {
		return nil, "", err
	}
	return wav, "wav", nil
}

func (p *MockProvider) StartSession(_ context.Context, _ string) (StreamSession, <-chan StreamEvent, error) {
	events := make(chan StreamEvent, 64)
	return &mockStreamSession{events: events}, events, nil
}

type mockStreamSession struct {
	mu     sync.Mutex
	events chan StreamEvent
	chunks int
	closed bool
	heard  bool
}

func (s *mockStreamSession) SendAudioChunk(_ context.Context, audioBase64 string, _ int, commit bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.chunks++
	if strings.TrimSpace(audioBase64) != "" {
		s.heard = true
		s.events <- StreamEvent{Type: StreamEventPartial, Text: "...", Confidence: 0.5, Timestamp: time.Now().UnixMilli()}
	}
	if commit || s.chunks%8 == 0 {
		text := mockTranscript
		if !s.heard {
			text = ""
		}
		s.events <- StreamEvent{Type: StreamEventCommitted, Text: text, Confidence: 0.9, Timestamp: time.Now().UnixMilli()}
	}
	return nil
}

func (s *mockStreamSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.events)
	return nil
}

// wait blocks until the delay elapses or ctx is cancelled. Using a timer here
// keeps the goroutine parked without tying up any shared resource while the
// placeholder "processing" runs.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
