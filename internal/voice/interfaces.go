package voice

import "context"

// Transcript is the outcome of recognizing one uploaded audio file.
type Transcript struct {
	Text         string
	LanguageCode string
	Confidence   float64
}

// Recognizer converts a recorded audio file into a transcript.
type Recognizer interface {
	Transcribe(ctx context.Context, audioPath, languageCode string) (Transcript, error)
}

// Synthesizer converts text into spoken audio. It returns the raw audio bytes
// and the container format (e.g. "wav").
type Synthesizer interface {
	Synthesize(ctx context.Context, text, languageCode string) ([]byte, string, error)
}

type StreamEventType string

const (
	StreamEventPartial   StreamEventType = "partial"
	StreamEventCommitted StreamEventType = "committed"
	StreamEventError     StreamEventType = "error"
)

type StreamEvent struct {
	Type       StreamEventType
	Text       string
	Confidence float64
	Code       string
	Detail     string
	Retryable  bool
	Timestamp  int64
}

// StreamSession accepts incremental audio and emits transcription events on
// the channel returned by the provider.
type StreamSession interface {
	SendAudioChunk(ctx context.Context, audioBase64 string, sampleRate int, commit bool) error
	Close() error
}

// StreamRecognizer opens realtime transcription sessions.
type StreamRecognizer interface {
	StartSession(ctx context.Context, sessionID string) (StreamSession, <-chan StreamEvent, error)
}
