package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialStream(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + path
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s error = %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readStreamMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read stream message: %v", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode stream message %q: %v", data, err)
	}
	return msg
}

func TestVoiceStreamRegistersSessionAndTranscribes(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	conn := dialStream(t, ts, "/voice/stream")

	ready := readStreamMessage(t, conn)
	if ready["type"] != "session_ready" {
		t.Fatalf("first message type = %v, want session_ready", ready["type"])
	}
	sessionID, _ := ready["session_id"].(string)
	if sessionID == "" {
		t.Fatalf("session_ready missing session_id: %v", ready)
	}

	// The stream path is the one that persists session records.
	res, err := http.Get(ts.URL + "/sessions/" + sessionID)
	if err != nil {
		t.Fatalf("GET /sessions error = %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("GET /sessions status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	chunk := map[string]any{
		"type":         "client_audio_chunk",
		"seq":          1,
		"audio_base64": "AAAA",
		"sample_rate":  16000,
		"commit":       false,
	}
	if err := conn.WriteJSON(chunk); err != nil {
		t.Fatalf("write audio chunk: %v", err)
	}
	if err := conn.WriteJSON(map[string]any{"type": "client_control", "action": "commit"}); err != nil {
		t.Fatalf("write commit control: %v", err)
	}

	var partials, committed int
	for partials == 0 || committed == 0 {
		msg := readStreamMessage(t, conn)
		switch msg["type"] {
		case "stt_partial":
			partials++
		case "stt_committed":
			committed++
			if text, _ := msg["text"].(string); text == "" {
				t.Fatalf("committed transcript should not be empty: %v", msg)
			}
		case "error_event":
			t.Fatalf("unexpected error event: %v", msg)
		}
	}
}

func TestVoiceStreamInvalidMessageEmitsError(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	conn := dialStream(t, ts, "/voice/stream")

	if msg := readStreamMessage(t, conn); msg["type"] != "session_ready" {
		t.Fatalf("first message type = %v, want session_ready", msg["type"])
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"bogus"}`)); err != nil {
		t.Fatalf("write bogus message: %v", err)
	}

	msg := readStreamMessage(t, conn)
	if msg["type"] != "error_event" {
		t.Fatalf("message type = %v, want error_event", msg["type"])
	}
	if msg["code"] != "invalid_client_message" {
		t.Fatalf("code = %v, want invalid_client_message", msg["code"])
	}
}

func TestVoiceStreamUnknownSessionIs404(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	res, err := http.Get(ts.URL + "/voice/stream?session_id=absent")
	if err != nil {
		t.Fatalf("GET /voice/stream error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusNotFound)
	}
}
