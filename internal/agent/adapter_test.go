package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewAdapterModes(t *testing.T) {
	if _, err := NewAdapter(Config{Mode: "mock"}); err != nil {
		t.Fatalf("mock mode error = %v", err)
	}
	if _, err := NewAdapter(Config{Mode: "http"}); err == nil {
		t.Fatalf("http mode without url should fail")
	}
	if _, err := NewAdapter(Config{Mode: "bogus"}); err == nil {
		t.Fatalf("unknown mode should fail")
	}

	a, err := NewAdapter(Config{Mode: "auto"})
	if err != nil {
		t.Fatalf("auto mode error = %v", err)
	}
	if _, ok := a.(*MockAdapter); !ok {
		t.Fatalf("auto mode without url should select the mock adapter, got %T", a)
	}
}

func TestMockAdapterEchoesSessionID(t *testing.T) {
	a := NewMockAdapter(0)
	res, err := a.Execute(context.Background(), Request{SessionID: "s-42", Transcript: "open calculator"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Status != "success" {
		t.Fatalf("Status = %q, want %q", res.Status, "success")
	}
	if res.SessionID != "s-42" {
		t.Fatalf("SessionID = %q, want %q", res.SessionID, "s-42")
	}
}

func TestHTTPAdapterExecute(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(Result{Status: "success", Message: "done: " + req.Transcript})
	}))
	defer ts.Close()

	a := NewHTTPAdapter(ts.URL)
	res, err := a.Execute(context.Background(), Request{SessionID: "s-1", Transcript: "open calculator"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Message != "done: open calculator" {
		t.Fatalf("Message = %q", res.Message)
	}
	if res.SessionID != "s-1" {
		t.Fatalf("SessionID = %q, want request id echoed back", res.SessionID)
	}
}

func TestHTTPAdapterBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "agent exploded", http.StatusInternalServerError)
	}))
	defer ts.Close()

	a := NewHTTPAdapter(ts.URL)
	if _, err := a.Execute(context.Background(), Request{Transcript: "x"}); err == nil {
		t.Fatalf("Execute() should surface upstream 5xx as an error")
	}
}
