package httpapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/samarth777/digital-ease-voice-bridge/internal/agent"
	"github.com/samarth777/digital-ease-voice-bridge/internal/config"
	"github.com/samarth777/digital-ease-voice-bridge/internal/observability"
	"github.com/samarth777/digital-ease-voice-bridge/internal/session"
	"github.com/samarth777/digital-ease-voice-bridge/internal/voice"
)

// Providers bundles the pluggable collaborators behind the HTTP surface.
// All of them are mock implementations today; real speech and agent services
// slot in here without touching the handlers.
type Providers struct {
	Recognizer  voice.Recognizer
	Synthesizer voice.Synthesizer
	Stream      voice.StreamRecognizer
	Agent       agent.Adapter
}

type Server struct {
	cfg       config.Config
	store     session.Store
	providers Providers
	metrics   *observability.Metrics
	upgrader  websocket.Upgrader
}

func New(cfg config.Config, store session.Store, providers Providers, metrics *observability.Metrics) *Server {
	allowAny := originsAllowAny(cfg.AllowedOrigins)
	return &Server{
		cfg:       cfg,
		store:     store,
		providers: providers,
		metrics:   metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if allowAny {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				for _, allowed := range cfg.AllowedOrigins {
					if strings.EqualFold(strings.TrimSpace(allowed), origin) {
						return true
					}
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/process-voice", s.handleProcessVoice)
	r.Post("/text-to-speech", s.handleTextToSpeech)
	r.Get("/sessions/{id}", s.handleGetSession)
	r.Delete("/sessions/{id}", s.handleDeleteSession)
	r.Get("/voice/stream", s.handleVoiceStream)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"message": "voice bridge is running",
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

func originsAllowAny(origins []string) bool {
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return false
}
