// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package api

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/guidewiki/internal/session"
	ws "github.com/tomtom215/guidewiki/internal/websocket"
)

func withHub(hub *ws.Hub) func(*Deps) {
	return func(d *Deps) { d.Hub = hub }
}

func TestWebSocketWithoutHub(t *testing.T) {
	env := setupTestEnv(t, session.NewMemoryStorage())

	status, resp := env.do(t, env.browser(t), http.MethodGet, "/api/v1/ws", nil)
	if status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", status)
	}
	if resp.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("code = %q", resp.Error.Code)
	}
}

func TestWebSocketInitialState(t *testing.T) {
	hub := ws.NewHub()
	env := setupTestEnv(t, session.NewMemoryStorage(), withHub(hub))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	client := env.browser(t)
	if status, _ := env.do(t, client, http.MethodPost, "/api/v1/auth/signup", credentials("alice", "pw")); status != http.StatusCreated {
		t.Fatalf("signup status = %d", status)
	}

	dialer := websocket.Dialer{Jar: client.Jar, HandshakeTimeout: 5 * time.Second}
	header := http.Header{}
	header.Set("Origin", env.server.URL)
	wsURL := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/api/v1/ws?tab=tab-1"

	conn, resp, err := dialer.Dial(wsURL, header)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var msg struct {
		Type string              `json:"type"`
		Data session.HeaderState `json:"data"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if msg.Type != ws.MessageTypeSession {
		t.Errorf("type = %q, want %q", msg.Type, ws.MessageTypeSession)
	}
	if !msg.Data.SignedIn || msg.Data.Username != "alice" {
		t.Errorf("state = %+v, want signed in as alice", msg.Data)
	}
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	env := setupTestEnv(t, session.NewMemoryStorage(), withHub(ws.NewHub()))

	header := http.Header{}
	header.Set("Origin", "https://evil.example")
	wsURL := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/api/v1/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err == nil {
		t.Fatal("expected the handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
}
