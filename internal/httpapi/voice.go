package httpapi

import (
	"encoding/base64"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samarth777/digital-ease-voice-bridge/internal/agent"
)

type agentResult struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type processVoiceResponse struct {
	Status        string      `json:"status"`
	Transcript    string      `json:"transcript"`
	LanguageCode  string      `json:"language_code"`
	AgentResult   agentResult `json:"agent_result"`
	ResponseText  string      `json:"response_text"`
	AudioResponse string      `json:"audio_response"`
}

var allowedAudioExts = map[string]bool{
	".wav": true,
	".mp3": true,
	".m4a": true,
}

func (s *Server) handleProcessVoice(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.metrics.VoiceRequests.WithLabelValues("rejected").Inc()
		respondError(w, http.StatusBadRequest, "invalid_multipart", err.Error())
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		s.metrics.VoiceRequests.WithLabelValues("rejected").Inc()
		respondError(w, http.StatusBadRequest, "missing_audio", "multipart field audio is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedAudioExts[ext] {
		s.metrics.VoiceRequests.WithLabelValues("rejected").Inc()
		respondError(w, http.StatusBadRequest, "invalid_audio_format", "Invalid audio format. Please use WAV, MP3, or M4A.")
		return
	}

	tmp, err := os.CreateTemp(s.cfg.UploadDir, "voicebridge-*"+ext)
	if err != nil {
		s.metrics.VoiceRequests.WithLabelValues("error").Inc()
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	tmpPath := tmp.Name()
	// The scratch file must be gone once the response is written, on every
	// exit path below.
	defer os.Remove(tmpPath)

	_, copyErr := io.Copy(tmp, file)
	closeErr := tmp.Close()
	if copyErr != nil {
		s.metrics.VoiceRequests.WithLabelValues("error").Inc()
		respondError(w, http.StatusInternalServerError, "internal_error", copyErr.Error())
		return
	}
	if closeErr != nil {
		s.metrics.VoiceRequests.WithLabelValues("error").Inc()
		respondError(w, http.StatusInternalServerError, "internal_error", closeErr.Error())
		return
	}

	sessionID := strings.TrimSpace(r.FormValue("session_id"))
	if sessionID == "" {
		// Generated ids are handed back inside agent_result but not written
		// to the session store; only the realtime stream registers sessions.
		sessionID = uuid.NewString()
	}

	transcript, err := s.providers.Recognizer.Transcribe(ctx, tmpPath, s.cfg.DefaultLanguage)
	if err != nil {
		s.metrics.ProviderErrors.WithLabelValues("recognizer", "transcribe_failed").Inc()
		s.metrics.VoiceRequests.WithLabelValues("error").Inc()
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	agentRes, err := s.providers.Agent.Execute(ctx, agent.Request{
		SessionID:    sessionID,
		Transcript:   transcript.Text,
		LanguageCode: transcript.LanguageCode,
	})
	if err != nil {
		s.metrics.ProviderErrors.WithLabelValues("agent", "execute_failed").Inc()
		s.metrics.VoiceRequests.WithLabelValues("error").Inc()
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	responseText := strings.TrimSpace(agentRes.Speech)
	if responseText == "" {
		responseText = strings.TrimSpace(agentRes.Message)
	}

	audioBytes, _, err := s.providers.Synthesizer.Synthesize(ctx, responseText, transcript.LanguageCode)
	if err != nil {
		s.metrics.ProviderErrors.WithLabelValues("synthesizer", "synthesize_failed").Inc()
		s.metrics.VoiceRequests.WithLabelValues("error").Inc()
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	s.metrics.VoiceRequests.WithLabelValues("success").Inc()
	s.metrics.ObserveProcessingLatency(time.Since(start))

	respondJSON(w, http.StatusOK, processVoiceResponse{
		Status:       "success",
		Transcript:   transcript.Text,
		LanguageCode: transcript.LanguageCode,
		AgentResult: agentResult{
			Status:    agentRes.Status,
			Message:   agentRes.Message,
			SessionID: agentRes.SessionID,
		},
		ResponseText:  responseText,
		AudioResponse: base64.StdEncoding.EncodeToString(audioBytes),
	})
}

type textToSpeechResponse struct {
	Status       string `json:"status"`
	Audio        string `json:"audio"`
	Text         string `json:"text"`
	LanguageCode string `json:"language_code"`
}

func (s *Server) handleTextToSpeech(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		s.metrics.TTSRequests.WithLabelValues("rejected").Inc()
		respondError(w, http.StatusBadRequest, "missing_text", "form field text is required")
		return
	}

	languageCode := strings.TrimSpace(r.FormValue("language_code"))
	if languageCode == "" {
		languageCode = s.cfg.DefaultLanguage
	}

	audioBytes, _, err := s.providers.Synthesizer.Synthesize(r.Context(), text, languageCode)
	if err != nil {
		s.metrics.ProviderErrors.WithLabelValues("synthesizer", "synthesize_failed").Inc()
		s.metrics.TTSRequests.WithLabelValues("error").Inc()
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	s.metrics.TTSRequests.WithLabelValues("success").Inc()
	respondJSON(w, http.StatusOK, textToSpeechResponse{
		Status:       "success",
		Audio:        base64.StdEncoding.EncodeToString(audioBytes),
		Text:         text,
		LanguageCode: languageCode,
	})
}
