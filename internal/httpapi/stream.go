package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/samarth777/digital-ease-voice-bridge/internal/protocol"
	"github.com/samarth777/digital-ease-voice-bridge/internal/session"
	"github.com/samarth777/digital-ease-voice-bridge/internal/voice"
)

// handleVoiceStream runs a realtime transcription websocket. Opening a stream
// is the path that registers a session record in the store; the REST
// process-voice endpoint does not.
func (s *Server) handleVoiceStream(w http.ResponseWriter, r *http.Request) {
	if s.providers.Stream == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "stream recognizer not configured")
		return
	}

	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID != "" {
		if err := s.store.Touch(r.Context(), sessionID); err != nil {
			respondError(w, http.StatusNotFound, "session_not_found", "Session not found")
			return
		}
		s.metrics.SessionEvents.WithLabelValues("resumed").Inc()
	} else {
		rec, err := s.store.Put(r.Context(), session.Record{})
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		sessionID = rec.ID
		s.metrics.SessionEvents.WithLabelValues("created").Inc()
	}
	s.updateStoredSessions(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	stream, events, err := s.providers.Stream.StartSession(ctx, sessionID)
	if err != nil {
		s.metrics.ProviderErrors.WithLabelValues("stream", "start_failed").Inc()
		_ = conn.WriteJSON(protocol.ErrorEvent{
			Type:      protocol.TypeErrorEvent,
			SessionID: sessionID,
			Code:      "stream_start_failed",
			Retryable: true,
			Detail:    err.Error(),
		})
		return
	}

	outbound := make(chan any, 64)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-outbound:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(msg); err != nil {
					cancel()
					return
				}
				s.metrics.StreamMessages.WithLabelValues("outbound", messageType(msg)).Inc()
			}
		}
	}()

	forwardDone := make(chan struct{})
	go func() {
		defer close(forwardDone)
		for ev := range events {
			var msg any
			switch ev.Type {
			case voice.StreamEventPartial:
				msg = protocol.STTPartial{Type: protocol.TypeSTTPartial, SessionID: sessionID, Text: ev.Text, Confidence: ev.Confidence, TSMs: ev.Timestamp}
			case voice.StreamEventCommitted:
				msg = protocol.STTCommitted{Type: protocol.TypeSTTCommitted, SessionID: sessionID, Text: ev.Text, TSMs: ev.Timestamp}
			case voice.StreamEventError:
				s.metrics.ProviderErrors.WithLabelValues("stream", ev.Code).Inc()
				msg = protocol.ErrorEvent{Type: protocol.TypeErrorEvent, SessionID: sessionID, Code: ev.Code, Retryable: ev.Retryable, Detail: ev.Detail}
			default:
				continue
			}
			select {
			case outbound <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	outbound <- protocol.SessionReady{Type: protocol.TypeSessionReady, SessionID: sessionID}

	conn.SetReadLimit(2 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

readLoop:
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			errEvent := protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				SessionID: sessionID,
				Code:      "invalid_client_message",
				Retryable: false,
				Detail:    err.Error(),
			}
			select {
			case outbound <- errEvent:
			default:
				// Keep websocket writes single-threaded; drop if the
				// outbound queue is saturated.
			}
			continue
		}
		s.metrics.StreamMessages.WithLabelValues("inbound", messageType(parsed)).Inc()

		switch msg := parsed.(type) {
		case protocol.ClientAudioChunk:
			if err := stream.SendAudioChunk(ctx, msg.AudioBase64, msg.SampleRate, msg.Commit); err != nil {
				s.metrics.ProviderErrors.WithLabelValues("stream", "send_failed").Inc()
				break readLoop
			}
			_ = s.store.Touch(ctx, sessionID)
		case protocol.ClientControl:
			switch msg.Action {
			case "commit":
				if err := stream.SendAudioChunk(ctx, "", 16000, true); err != nil {
					break readLoop
				}
			case "close":
				break readLoop
			}
		}
	}

	_ = stream.Close()
	<-forwardDone
	close(outbound)
	<-writerDone
	s.metrics.SessionEvents.WithLabelValues("stream_closed").Inc()
}

func messageType(v any) string {
	switch m := v.(type) {
	case protocol.ClientAudioChunk:
		return string(m.Type)
	case protocol.ClientControl:
		return string(m.Type)
	case protocol.STTPartial:
		return string(m.Type)
	case protocol.STTCommitted:
		return string(m.Type)
	case protocol.SessionReady:
		return string(m.Type)
	case protocol.ErrorEvent:
		return string(m.Type)
	default:
		return "unknown"
	}
}
