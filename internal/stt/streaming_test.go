package stt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zhangyu1818/typefree/internal/config"
)

// streamTestServer upgrades the connection and emits one partial per audio
// frame, then a final transcript when the client closes its send side.
func streamTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions/stream" {
			t.Errorf("path = %q", r.URL.Path)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		frames := 0
		for {
			kind, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			switch kind {
			case websocket.BinaryMessage:
				frames++
				conn.WriteJSON(map[string]any{"text": "partial", "is_final": false})
			case websocket.TextMessage:
				if string(payload) == `{"type":"CloseStream"}` {
					conn.WriteJSON(map[string]any{"text": "final transcript", "is_final": true})
					conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
			}
		}
	}))
}

func TestStream_PartialsAndFinal(t *testing.T) {
	server := streamTestServer(t)
	defer server.Close()

	cfg := config.Default().STT
	cfg.AltServerURL = server.URL

	s, err := OpenStream(context.Background(), cfg, 16000, nil)
	if err != nil {
		t.Fatalf("OpenStream() error = %v", err)
	}

	if err := s.SendAudio(make([]byte, 320)); err != nil {
		t.Fatalf("SendAudio() error = %v", err)
	}
	s.CloseSend()

	var texts []string
	var sawFinal bool
	timeout := time.After(2 * time.Second)
	for !sawFinal {
		select {
		case ev, ok := <-s.Events():
			if !ok {
				t.Fatal("events channel closed before final transcript")
			}
			texts = append(texts, ev.Text)
			sawFinal = ev.Final
		case <-timeout:
			t.Fatalf("timed out, events so far: %v", texts)
		}
	}

	if texts[len(texts)-1] != "final transcript" {
		t.Errorf("final text = %q", texts[len(texts)-1])
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestStream_EmptyFrameIgnored(t *testing.T) {
	server := streamTestServer(t)
	defer server.Close()

	cfg := config.Default().STT
	cfg.AltServerURL = server.URL

	s, err := OpenStream(context.Background(), cfg, 16000, nil)
	if err != nil {
		t.Fatalf("OpenStream() error = %v", err)
	}
	defer s.Close()

	if err := s.SendAudio(nil); err != nil {
		t.Errorf("SendAudio(nil) error = %v", err)
	}
}
