package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Request is the normalized command handed to the downstream agent.
type Request struct {
	SessionID    string `json:"session_id"`
	Transcript   string `json:"transcript"`
	LanguageCode string `json:"language_code"`
}

// Result is what the agent reports back after executing the command.
// Speech is the sentence to read aloud to the user; it falls back to Message
// when the agent does not provide one.
type Result struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	Speech    string `json:"speech,omitempty"`
}

// Adapter bridges the voice bridge with the command-execution agent.
type Adapter interface {
	Execute(ctx context.Context, req Request) (Result, error)
}

// Config controls adapter construction.
type Config struct {
	Mode      string
	HTTPURL   string
	MockDelay time.Duration
}

func NewAdapter(cfg Config) (Adapter, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.HTTPURL) != "" {
			return NewHTTPAdapter(cfg.HTTPURL), nil
		}
		return NewMockAdapter(cfg.MockDelay), nil
	case "http":
		if strings.TrimSpace(cfg.HTTPURL) == "" {
			return nil, errors.New("agent HTTP url is required for http mode")
		}
		return NewHTTPAdapter(cfg.HTTPURL), nil
	case "mock":
		return NewMockAdapter(cfg.MockDelay), nil
	default:
		return nil, fmt.Errorf("unsupported agent adapter mode %q", cfg.Mode)
	}
}
